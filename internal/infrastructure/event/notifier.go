package event

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ferreteria/backoffice/internal/domain/cashregister"
	"github.com/ferreteria/backoffice/internal/domain/shared"
	"github.com/ferreteria/backoffice/internal/domain/wallet"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ChangeNotification tells subscribers that an entity changed. Consumers
// re-read the entity; the notification carries no state.
type ChangeNotification struct {
	ID         uuid.UUID `json:"id"`
	EntityType string    `json:"entityType"`
	EventType  string    `json:"eventType"`
	EntityID   uuid.UUID `json:"entityId"`
	Timestamp  time.Time `json:"timestamp"`
}

// Sink delivers change notifications to one destination
type Sink interface {
	Name() string
	Send(ctx context.Context, n ChangeNotification) error
}

// DropRecorder counts notifications discarded because the queue was full
type DropRecorder interface {
	RecordNotificationDropped(ctx context.Context, entityType string)
}

var entityTypes = map[string]string{
	cashregister.AggregateTypeCashRegister: "cash_register",
	cashregister.AggregateTypeCashSession:  "cash_session",
	cashregister.AggregateTypeCashMovement: "cash_movement",
	wallet.AggregateTypeCheck:              "check",
}

// NotificationFromEvent converts a domain event into its change notification
func NotificationFromEvent(event shared.DomainEvent) ChangeNotification {
	entityType, ok := entityTypes[event.AggregateType()]
	if !ok {
		entityType = event.AggregateType()
	}
	return ChangeNotification{
		ID:         event.EventID(),
		EntityType: entityType,
		EventType:  event.EventType(),
		EntityID:   event.AggregateID(),
		Timestamp:  event.OccurredAt().UTC(),
	}
}

// ErrNotifierClosed is returned by Close when called twice
var ErrNotifierClosed = errors.New("change notifier already closed")

// NotifierOption configures a ChangeNotifier
type NotifierOption func(*ChangeNotifier)

// WithDropRecorder reports dropped notifications to r
func WithDropRecorder(r DropRecorder) NotifierOption {
	return func(n *ChangeNotifier) { n.drops = r }
}

// WithSendTimeout bounds each sink delivery
func WithSendTimeout(d time.Duration) NotifierOption {
	return func(n *ChangeNotifier) { n.sendTimeout = d }
}

// ChangeNotifier is a wildcard event handler that fans notifications out to
// sinks from a background worker. Enqueueing never blocks: when the buffer
// is full the notification is dropped.
type ChangeNotifier struct {
	logger      *zap.Logger
	sinks       []Sink
	drops       DropRecorder
	sendTimeout time.Duration

	mu      sync.RWMutex
	closed  bool
	queue   chan ChangeNotification
	done    chan struct{}
	dropped atomic.Uint64
}

// NewChangeNotifier starts the delivery worker
func NewChangeNotifier(logger *zap.Logger, bufferSize int, sinks []Sink, opts ...NotifierOption) *ChangeNotifier {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	n := &ChangeNotifier{
		logger:      logger.Named("change_notifier"),
		sinks:       sinks,
		sendTimeout: 2 * time.Second,
		queue:       make(chan ChangeNotification, bufferSize),
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(n)
	}
	go n.run()
	return n
}

// Handle enqueues the event's notification. It never fails.
func (n *ChangeNotifier) Handle(ctx context.Context, event shared.DomainEvent) error {
	n.Notify(ctx, NotificationFromEvent(event))
	return nil
}

// EventTypes returns nil so the notifier receives every event
func (n *ChangeNotifier) EventTypes() []string {
	return nil
}

// Notify enqueues a notification and reports whether it was accepted
func (n *ChangeNotifier) Notify(ctx context.Context, note ChangeNotification) bool {
	n.mu.RLock()
	defer n.mu.RUnlock()

	if !n.closed {
		select {
		case n.queue <- note:
			return true
		default:
		}
	}

	n.dropped.Add(1)
	if n.drops != nil {
		n.drops.RecordNotificationDropped(ctx, note.EntityType)
	}
	n.logger.Warn("Change notification dropped",
		zap.String("entity_type", note.EntityType),
		zap.String("event_type", note.EventType),
		zap.String("entity_id", note.EntityID.String()),
	)
	return false
}

// Dropped returns how many notifications have been discarded
func (n *ChangeNotifier) Dropped() uint64 {
	return n.dropped.Load()
}

// Close stops accepting notifications and waits for the queue to drain or
// for ctx to end, whichever comes first
func (n *ChangeNotifier) Close(ctx context.Context) error {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return ErrNotifierClosed
	}
	n.closed = true
	close(n.queue)
	n.mu.Unlock()

	select {
	case <-n.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (n *ChangeNotifier) run() {
	defer close(n.done)
	for note := range n.queue {
		n.deliver(note)
	}
}

func (n *ChangeNotifier) deliver(note ChangeNotification) {
	for _, sink := range n.sinks {
		ctx, cancel := context.WithTimeout(context.Background(), n.sendTimeout)
		err := sink.Send(ctx, note)
		cancel()
		if err != nil {
			n.logger.Warn("Change notification delivery failed",
				zap.String("sink", sink.Name()),
				zap.String("event_type", note.EventType),
				zap.String("entity_id", note.EntityID.String()),
				zap.Error(err),
			)
		}
	}
}

var _ shared.EventHandler = (*ChangeNotifier)(nil)
