package alert

import "errors"

var (
	// ErrInvalidRecord marks a persisted contact or schedule that could not be
	// decoded or validated. Stores skip such records and keep going.
	ErrInvalidRecord = errors.New("invalid record")
	// ErrDevice marks a failed call into the audio or notification subsystem.
	ErrDevice = errors.New("device failure")
	// ErrUnknownRingerMode marks a ringer mode name outside silent, vibrate and normal.
	ErrUnknownRingerMode = errors.New("unknown ringer mode")
)
