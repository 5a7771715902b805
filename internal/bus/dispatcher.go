package bus

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/notumhq/notum/internal/platform/logger"
)

// Handler processes one message kind and returns its success payload or an
// error.
type Handler func(ctx context.Context, msg Message) (any, error)

// Dispatcher routes messages to the handler registered for their kind. One
// handler per kind; registration happens at wiring time, before Send is
// called concurrently.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[Kind]Handler
	logger   *slog.Logger
}

// NewDispatcher creates a new Dispatcher with no registered handlers.
func NewDispatcher(log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}

	return &Dispatcher{
		handlers: make(map[Kind]Handler),
		logger:   log.With(slog.String("component", "bus_dispatcher")),
	}
}

// Register installs the handler for a kind, replacing any previous one.
func (d *Dispatcher) Register(kind Kind, handler Handler) {
	if handler == nil {
		panic("handler cannot be nil")
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[kind] = handler
}

// Send routes the message to its kind's handler and returns the handler's
// success payload or error.
// Returns ErrUnknownKind when no handler is registered for the kind.
func (d *Dispatcher) Send(ctx context.Context, msg Message) (any, error) {
	log := logger.FromContextOrDefault(ctx, d.logger)

	d.mu.RLock()
	handler, ok := d.handlers[msg.Kind()]
	d.mu.RUnlock()

	if !ok {
		log.Warn("message with unregistered kind", slog.String("kind", string(msg.Kind())))
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, msg.Kind())
	}

	result, err := handler(ctx, msg)
	if err != nil {
		log.Debug("message handler failed",
			slog.String("kind", string(msg.Kind())),
			slog.String("error", err.Error()))
		return nil, err
	}

	return result, nil
}
