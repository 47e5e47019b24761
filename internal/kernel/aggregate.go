package kernel

// Aggregate is the capability contract for identity-bearing domain state.
type Aggregate interface {
	// AggregateID returns the unique identity of the aggregate. Two
	// in-memory instances represent the same entity iff their identities
	// are equal, regardless of their other attributes.
	AggregateID() string

	// Deleted reports whether the aggregate has reached its terminal
	// state. Deletion is a value of the aggregate's own state space, so
	// infrastructure can query it without interpreting business rules.
	Deleted() bool
}

// ValueObject is an immutable domain concept defined by its attributes.
type ValueObject interface {
	Equals(other ValueObject) bool
}

// SameEntity reports whether two aggregates represent the same entity.
// Aggregates with empty identities never match; an empty identity means the
// value was never constructed through a validating path.
func SameEntity(a, b Aggregate) bool {
	if a == nil || b == nil {
		return false
	}
	if a.AggregateID() == "" || b.AggregateID() == "" {
		return false
	}
	return a.AggregateID() == b.AggregateID()
}
