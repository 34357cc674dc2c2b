// Package core defines the domain contracts shared by every convodesk
// package: sessions, turns, routing decisions, responder capabilities,
// store interfaces and the outcome types returned to callers.
//
// Keeping the contracts here prevents higher level packages (orchestrator,
// responders) from depending on concrete storage or model implementations;
// only the wiring layer decides which implementation to instantiate.
package core
