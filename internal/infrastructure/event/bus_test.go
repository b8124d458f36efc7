package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ferreteria/backoffice/internal/domain/cashregister"
	"github.com/ferreteria/backoffice/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testHandler struct {
	mu      sync.Mutex
	handled []shared.DomainEvent
	err     error
	panics  bool
	closed  bool
}

func newTestHandler() *testHandler {
	return &testHandler{}
}

func (h *testHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, event)
	if h.panics {
		panic("boom")
	}
	return h.err
}

func (h *testHandler) EventTypes() []string { return nil }

func (h *testHandler) getHandled() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]shared.DomainEvent(nil), h.handled...)
}

type closingHandler struct {
	testHandler
}

func (h *closingHandler) Close(context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	return nil
}

func registerCreated(t *testing.T) shared.DomainEvent {
	t.Helper()
	register, err := cashregister.NewCashRegister("Caja 1", "")
	require.NoError(t, err)
	return cashregister.NewCashRegisterCreatedEvent(register)
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := newTestHandler()
	bus.Subscribe(handler, cashregister.EventTypeCashRegisterCreated)

	event := registerCreated(t)
	require.NoError(t, bus.Publish(context.Background(), event, registerCreated(t)))

	handled := handler.getHandled()
	require.Len(t, handled, 2)
	assert.Equal(t, event, handled[0])
}

func TestInMemoryEventBus_SubscribeUsesHandlerTypes(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	wildcard := newTestHandler()
	bus.Subscribe(wildcard)

	require.NoError(t, bus.Publish(context.Background(), registerCreated(t)))
	assert.Len(t, wildcard.getHandled(), 1)
}

func TestInMemoryEventBus_HandlerFailuresAreContained(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	failing := newTestHandler()
	failing.err = errors.New("handler error")
	panicking := newTestHandler()
	panicking.panics = true
	healthy := newTestHandler()

	bus.Subscribe(failing, cashregister.EventTypeCashRegisterCreated)
	bus.Subscribe(panicking, cashregister.EventTypeCashRegisterCreated)
	bus.Subscribe(healthy, cashregister.EventTypeCashRegisterCreated)

	require.NoError(t, bus.Publish(context.Background(), registerCreated(t)))
	assert.Len(t, failing.getHandled(), 1)
	assert.Len(t, panicking.getHandled(), 1)
	assert.Len(t, healthy.getHandled(), 1)
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := newTestHandler()
	bus.Subscribe(handler, cashregister.EventTypeCashRegisterCreated)

	_ = bus.Publish(context.Background(), registerCreated(t))
	bus.Unsubscribe(handler)
	_ = bus.Publish(context.Background(), registerCreated(t))

	assert.Len(t, handler.getHandled(), 1)
}

func TestInMemoryEventBus_StopClosesHandlers(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	closing := &closingHandler{}
	bus.Subscribe(closing)

	require.NoError(t, bus.Start(context.Background()))
	assert.True(t, bus.IsRunning())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, bus.Stop(ctx))
	assert.False(t, bus.IsRunning())
	assert.True(t, closing.closed)

	// Stopping twice is a no-op
	require.NoError(t, bus.Stop(ctx))
}
