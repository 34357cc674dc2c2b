// Package session owns the session lifecycle: get-or-create keyed by
// identity, activity touches, explicit termination and background reaping
// of expired sessions. The store contract (core.SessionStore) lives in core;
// this package holds the Manager, the Reaper and an in-memory store.
//
// Add additional backends (Redis, Postgres, etc.) in sub-packages without
// changing any calling code; only the wiring layer decides which
// implementation to instantiate.
package session
