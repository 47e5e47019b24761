package dispatch

import "context"

// Kind identifies the routing semantics of a message.
type Kind string

const (
	// KindCommand routes to exactly one handler and may change state.
	KindCommand Kind = "command"
	// KindQuery routes to exactly one handler and only reads state.
	KindQuery Kind = "query"
	// KindNotification fans out to zero or more handlers.
	KindNotification Kind = "notification"
)

// Command is a message requesting a state change. CommandName returns the
// stable identifier handlers register against, e.g. "orders.create".
type Command interface {
	CommandName() string
}

// Query is a message requesting data. QueryName returns the stable
// identifier handlers register against, e.g. "orders.get".
type Query interface {
	QueryName() string
}

// Notification is a message broadcasting an immutable fact about something
// that already happened. NotificationName returns the stable identifier
// handlers register against, e.g. "orders.placed".
type Notification interface {
	NotificationName() string
}

// CommandHandler executes one command kind. The result is propagated to the
// dispatch caller verbatim.
type CommandHandler interface {
	HandleCommand(ctx context.Context, cmd Command) (any, error)
}

// CommandHandlerFunc adapts a function to the CommandHandler interface.
type CommandHandlerFunc func(ctx context.Context, cmd Command) (any, error)

// HandleCommand implements CommandHandler.
func (f CommandHandlerFunc) HandleCommand(ctx context.Context, cmd Command) (any, error) {
	return f(ctx, cmd)
}

// QueryHandler answers one query kind. Query handlers must not mutate
// aggregates or call persistence save operations.
type QueryHandler interface {
	HandleQuery(ctx context.Context, q Query) (any, error)
}

// QueryHandlerFunc adapts a function to the QueryHandler interface.
type QueryHandlerFunc func(ctx context.Context, q Query) (any, error)

// HandleQuery implements QueryHandler.
func (f QueryHandlerFunc) HandleQuery(ctx context.Context, q Query) (any, error) {
	return f(ctx, q)
}

// NotificationHandler reacts to one notification kind. Notification
// handlers must not hold repository capabilities; they react by submitting
// further messages through the dispatcher.
type NotificationHandler interface {
	HandleNotification(ctx context.Context, n Notification) error
}

// NotificationHandlerFunc adapts a function to the NotificationHandler
// interface.
type NotificationHandlerFunc func(ctx context.Context, n Notification) error

// HandleNotification implements NotificationHandler.
func (f NotificationHandlerFunc) HandleNotification(ctx context.Context, n Notification) error {
	return f(ctx, n)
}
