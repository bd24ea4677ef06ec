// Package override drives one timed audio override per qualifying event:
// snapshot the audio state, boost the media stream when the device looks
// muted, emit a tone sequence and restore the snapshot afterwards.
//
// Every step of a session runs on the Scheduler, which is expected to execute
// callbacks one at a time. Each Session owns its snapshot, so overlapping
// sessions never overwrite each other's restore target; a session started
// during another one snapshots the boosted volume and restores to it.
package override
