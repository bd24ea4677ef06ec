// Package alert implements the gRPC transport for the alert engine.
//
// Messages travel as google.protobuf.Struct values, so the service needs no
// generated code: ServiceDesc registers the four unary methods by hand and
// the typed request and response values in this package convert to and from
// Struct at the boundary.
package alert
