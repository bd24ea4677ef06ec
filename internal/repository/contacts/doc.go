// Package contacts persists the important contacts allow-list.
//
// FileStore keeps the list as a JSON array on disk and also accepts the
// legacy "Name|Number" string form written by older clients. SQLStore keeps
// it in the shared SQLite database. Both skip entries they cannot use.
package contacts
