// Package orchestrator is the entry point for incoming calls and messages.
//
// For every event it loads a fresh snapshot of contacts, schedules and
// settings, takes a decision, and on an alert posts a notification and
// starts an override session. Entry points never fail: collaborator errors
// are logged and the engine degrades toward delivering the alert.
package orchestrator
