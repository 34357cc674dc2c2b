// Package logging provides a minimal logging interface and adapters for
// convodesk.
//
// The Logger interface defines the standard logging methods (Debug, Info,
// Warn, Error) that the orchestrator and its components use for
// observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - NoOpLogger for silent operation (testing, minimal setups)
//   - DeskLogger with contextual helpers (component, session) and domain
//     specific helpers for guardrail blocks, model calls, escalations and
//     reap sweeps
//
// The design intentionally keeps the interface minimal to avoid vendor
// lock-in while supporting structured logging where available.
package logging
