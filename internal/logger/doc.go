// Package logger wraps zap with a global sugared logger and context helpers.
//
// Components never hold a logger field; they pull one from the context with
// FromContext (or the Info/Warn/Error helpers) so that names and keys added
// upstream, such as the event_id of an override session, follow every line.
package logger
