// Package kernel defines the contracts every Herald domain type satisfies.
//
// An Aggregate is a unit of identity-bearing state whose invariants hold at
// every externally observable point: construction and mutation both validate
// the full proposed state before anything is assigned. Domain operations are
// pure functions from an existing value to a new validated value, so a failed
// operation leaves the caller's value untouched.
//
// A ValueObject has no identity and is defined entirely by the equality of
// its parts. Value objects are immutable after construction and are replaced
// wholesale rather than mutated.
//
// ValidationError is the single failure type for rejected construction or
// mutation input. It carries every violated rule, not just the first, so
// callers can surface all problems in one round trip.
package kernel
