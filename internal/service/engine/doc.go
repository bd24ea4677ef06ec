// Package engine runs the alert-override daemon.
//
// An App owns the simulated audio device, the scheduler loop every override
// step runs on, the decision orchestrator and the gRPC and HTTP listeners.
// On shutdown the listeners stop first, pending override steps drain, and
// any session still holding a boosted device is restored before Serve returns.
package engine
