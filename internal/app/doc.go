// Package app wires configuration, logging, telemetry, services and the
// HTTP router into a runnable server.
//
// NewApplication loads configuration and initializes the global logger; New
// takes both ready-made and is what tests use. Run blocks until SIGINT or
// SIGTERM and then shuts the server and the OpenTelemetry providers down.
package app
