// Package history reads and writes conversation turns scoped to a session
// and formats recent turns into the context bundle supplied to
// classification and generation. The turn store contract (core.TurnStore)
// lives in core; this package holds the Service and an in-memory store.
package history
