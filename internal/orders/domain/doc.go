// Package domain defines the Order aggregate and its value objects.
//
// # Order
//
// An Order is the aggregate root for a customer's purchase. It carries a
// unique identity, the customer reference, a set of lines, and a status.
// Deletion is a status transition, not a removal: a deleted Order is a live
// value in its terminal state so persistence can record the transition.
//
// # Value objects
//
// Money and Line are identity-less values compared by their parts. They are
// validated on construction and replaced wholesale, never mutated.
//
// Every operation is a pure function from the existing Order to a new one.
// All proposed state is validated before anything is assigned, so a failed
// operation leaves the caller's value exactly as it was.
package domain
