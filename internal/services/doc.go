// Package services holds the application layer between the HTTP and CLI
// front ends and the scoring pipeline.
//
// AnalysisService runs one pipeline per call:
//
//	resolve selection -> load period files -> profile quality
//	-> map columns -> clean -> observations -> trend / ranking / reports
//
// The stages pass an immutable PipelineState. Each call starts from the
// files on disk, so repeated calls over unchanged files give identical
// results and nothing is cached between them. Every call opens an
// OpenTelemetry span named "analysis.<operation>" and records the
// classpulse pipeline metrics.
//
// HealthService backs the liveness, readiness and version endpoints.
package services
