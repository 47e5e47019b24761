// Package dispatch routes typed messages to registered handlers.
//
// Three message kinds exist, with different cardinality rules:
//
//   - Command: requests a state change, routed to exactly one handler.
//   - Query: requests data, routed to exactly one handler, never mutates.
//   - Notification: broadcasts a fact, routed to zero or more handlers.
//
// Handlers are registered against a message's stable name during process
// startup. Registration ends with Seal, after which the handler table is
// immutable and dispatch traffic may begin. Registering two handlers for
// one command or query name fails immediately, so wiring defects surface
// at startup rather than at dispatch time.
//
// Notification fan-out runs every handler and isolates them from each
// other: one handler's failure, panic, or duration never prevents the
// rest from running. Failures are collected into a single
// NotificationError after all handlers have finished. Fan-out ordering is
// unspecified; handlers must not depend on each other's side effects
// within the same dispatch.
package dispatch
