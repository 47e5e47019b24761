package dispatch

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/stonegrove/herald/internal/dispatch"

// Dispatch call outcomes, recorded on the dispatch span.
const (
	outcomeSucceeded       = "succeeded"
	outcomeFailed          = "failed"
	outcomePartiallyFailed = "partially_failed"
	outcomeNoHandler       = "no_handler"
)

// Dispatcher routes messages to registered handlers. Construct one instance
// at startup, register every handler, call Seal, then pass the dispatcher by
// reference to the components that submit messages.
type Dispatcher struct {
	tracer trace.Tracer
	sealed atomic.Bool

	commands      map[string]CommandHandler
	queries       map[string]QueryHandler
	notifications map[string][]NotificationHandler
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithTracerProvider sets the tracer provider used for dispatch spans.
// The global provider is used by default.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(d *Dispatcher) {
		if tp != nil {
			d.tracer = tp.Tracer(tracerName)
		}
	}
}

// New creates an empty Dispatcher ready for handler registration.
func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		tracer:        otel.Tracer(tracerName),
		commands:      make(map[string]CommandHandler),
		queries:       make(map[string]QueryHandler),
		notifications: make(map[string][]NotificationHandler),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// RegisterCommand associates the single handler for cmd's name. A second
// registration for the same name fails with a ConflictError.
func (d *Dispatcher) RegisterCommand(cmd Command, handler CommandHandler) error {
	if cmd == nil {
		return fmt.Errorf("command prototype is required")
	}
	name := strings.TrimSpace(cmd.CommandName())
	if name == "" {
		return fmt.Errorf("command name is required")
	}
	if handler == nil {
		return fmt.Errorf("handler for command %q is required", name)
	}
	if d.sealed.Load() {
		return fmt.Errorf("register command %q: %w", name, ErrSealed)
	}
	if _, ok := d.commands[name]; ok {
		return &ConflictError{Kind: KindCommand, Name: name}
	}
	d.commands[name] = handler
	return nil
}

// RegisterQuery associates the single handler for q's name. A second
// registration for the same name fails with a ConflictError.
func (d *Dispatcher) RegisterQuery(q Query, handler QueryHandler) error {
	if q == nil {
		return fmt.Errorf("query prototype is required")
	}
	name := strings.TrimSpace(q.QueryName())
	if name == "" {
		return fmt.Errorf("query name is required")
	}
	if handler == nil {
		return fmt.Errorf("handler for query %q is required", name)
	}
	if d.sealed.Load() {
		return fmt.Errorf("register query %q: %w", name, ErrSealed)
	}
	if _, ok := d.queries[name]; ok {
		return &ConflictError{Kind: KindQuery, Name: name}
	}
	d.queries[name] = handler
	return nil
}

// RegisterNotification adds a handler for n's name. Any number of handlers
// may register for the same notification.
func (d *Dispatcher) RegisterNotification(n Notification, handler NotificationHandler) error {
	if n == nil {
		return fmt.Errorf("notification prototype is required")
	}
	name := strings.TrimSpace(n.NotificationName())
	if name == "" {
		return fmt.Errorf("notification name is required")
	}
	if handler == nil {
		return fmt.Errorf("handler for notification %q is required", name)
	}
	if d.sealed.Load() {
		return fmt.Errorf("register notification %q: %w", name, ErrSealed)
	}
	d.notifications[name] = append(d.notifications[name], handler)
	return nil
}

// Seal marks registration complete. The handler table is immutable from this
// point on; Dispatch refuses traffic until Seal has been called.
func (d *Dispatcher) Seal() {
	d.sealed.Store(true)
}

// Sealed reports whether registration has completed.
func (d *Dispatcher) Sealed() bool {
	return d.sealed.Load()
}

// Dispatch routes msg to its registered handler(s).
//
// Commands and queries resolve exactly one handler; the handler's result and
// error are propagated verbatim. Notifications fan out to every registered
// handler; failures are collected into a NotificationError after all
// handlers have run, and a notification dispatch never carries a result.
func (d *Dispatcher) Dispatch(ctx context.Context, msg any) (any, error) {
	if !d.sealed.Load() {
		return nil, ErrNotSealed
	}
	if msg == nil {
		return nil, fmt.Errorf("message is required")
	}

	kind, name, err := classify(msg)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, fmt.Errorf("%s name is required", kind)
	}

	ctx, span := d.tracer.Start(ctx, "dispatch "+name, trace.WithAttributes(
		attribute.String("message.kind", string(kind)),
		attribute.String("message.name", name),
	))
	defer span.End()
	span.AddEvent("resolving")

	switch kind {
	case KindCommand:
		handler, ok := d.commands[name]
		if !ok {
			return nil, d.finishNoHandler(span, KindCommand, name)
		}
		return d.invoke(ctx, span, func(ctx context.Context) (any, error) {
			return handler.HandleCommand(ctx, msg.(Command))
		})
	case KindQuery:
		handler, ok := d.queries[name]
		if !ok {
			return nil, d.finishNoHandler(span, KindQuery, name)
		}
		return d.invoke(ctx, span, func(ctx context.Context) (any, error) {
			return handler.HandleQuery(ctx, msg.(Query))
		})
	default:
		return nil, d.fanOut(ctx, span, name, msg.(Notification))
	}
}

// invoke runs the single resolved handler for a command or query.
func (d *Dispatcher) invoke(ctx context.Context, span trace.Span, run func(context.Context) (any, error)) (any, error) {
	if err := ctx.Err(); err != nil {
		d.finish(span, outcomeFailed, err)
		return nil, err
	}
	span.AddEvent("dispatching")
	result, err := run(ctx)
	if err != nil {
		d.finish(span, outcomeFailed, err)
		return nil, err
	}
	d.finish(span, outcomeSucceeded, nil)
	return result, nil
}

// fanOut runs every notification handler, isolating each from the others'
// failures, panics, and durations. It returns nil when all handlers
// succeeded (including the zero-handler case).
func (d *Dispatcher) fanOut(ctx context.Context, span trace.Span, name string, n Notification) error {
	handlers := d.notifications[name]
	span.AddEvent("dispatching")
	span.SetAttributes(attribute.Int("notification.handlers", len(handlers)))

	if len(handlers) == 0 {
		d.finish(span, outcomeSucceeded, nil)
		return nil
	}

	results := make([]error, len(handlers))
	var wg sync.WaitGroup
	for i, handler := range handlers {
		wg.Add(1)
		go func(i int, handler NotificationHandler) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					results[i] = fmt.Errorf("notification handler %d panicked: %v", i, r)
				}
			}()
			results[i] = handler.HandleNotification(ctx, n)
		}(i, handler)
	}
	wg.Wait()

	var failures []error
	for _, err := range results {
		if err != nil {
			failures = append(failures, err)
		}
	}
	if len(failures) == 0 {
		d.finish(span, outcomeSucceeded, nil)
		return nil
	}

	nerr := &NotificationError{Name: name, Handlers: len(handlers), Failures: failures}
	outcome := outcomeFailed
	if nerr.Partial() {
		outcome = outcomePartiallyFailed
	}
	d.finish(span, outcome, nerr)
	return nerr
}

func (d *Dispatcher) finishNoHandler(span trace.Span, kind Kind, name string) error {
	err := &NoHandlerError{Kind: kind, Name: name}
	d.finish(span, outcomeNoHandler, err)
	return err
}

func (d *Dispatcher) finish(span trace.Span, outcome string, err error) {
	span.SetAttributes(attribute.String("dispatch.outcome", outcome))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		return
	}
	span.SetStatus(codes.Ok, "")
}

// classify determines the routing kind and name for msg. A type satisfying
// several message interfaces resolves in precedence order: command, query,
// notification.
func classify(msg any) (Kind, string, error) {
	switch m := msg.(type) {
	case Command:
		return KindCommand, strings.TrimSpace(m.CommandName()), nil
	case Query:
		return KindQuery, strings.TrimSpace(m.QueryName()), nil
	case Notification:
		return KindNotification, strings.TrimSpace(m.NotificationName()), nil
	default:
		return "", "", fmt.Errorf("%w: %T", ErrUnknownMessage, msg)
	}
}
