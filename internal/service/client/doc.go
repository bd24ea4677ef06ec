// Package client talks to a running alert engine over gRPC.
//
// Client wraps the service stub with call timeouts and typed messages. Run
// drives one report from the alert-report CLI, retrying while the engine is
// unreachable.
package client
