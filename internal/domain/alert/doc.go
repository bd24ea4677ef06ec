// Package alert contains the core domain types of the alert override engine.
//
// It defines the allow-list Contact, the quiet-hours Schedule, the user
// Settings with their documented defaults, incoming Events, the per-session
// AudioSnapshot and the Notification handed to the host. Values here carry
// no behavior beyond validation, clamping and cloning.
package alert
