package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandlerRegistry_Register_SpecificTypes(t *testing.T) {
	registry := NewHandlerRegistry()
	handler := newTestHandler()

	registry.Register(handler, "CashSessionOpened", "CashSessionClosed")

	assert.Equal(t, []any{handler}, toAny(registry.GetHandlers("CashSessionOpened")))
	assert.Len(t, registry.GetHandlers("CashSessionClosed"), 1)
	assert.Empty(t, registry.GetHandlers("CheckDeposited"))
}

func TestHandlerRegistry_WildcardComesAfterTyped(t *testing.T) {
	registry := NewHandlerRegistry()
	typed := newTestHandler()
	wildcard := newTestHandler()

	registry.Register(wildcard)
	registry.Register(typed, "CheckReceived")

	handlers := registry.GetHandlers("CheckReceived")
	assert.Len(t, handlers, 2)
	assert.Same(t, typed, handlers[0])
	assert.Same(t, wildcard, handlers[1])

	handlers = registry.GetHandlers("CashMovementRecorded")
	assert.Len(t, handlers, 1)
	assert.Same(t, wildcard, handlers[0])
}

func TestHandlerRegistry_Unregister(t *testing.T) {
	registry := NewHandlerRegistry()
	first := newTestHandler()
	second := newTestHandler()
	wildcard := newTestHandler()

	registry.Register(first, "CashSessionOpened")
	registry.Register(second, "CashSessionOpened")
	registry.Register(wildcard)

	registry.Unregister(first)
	registry.Unregister(wildcard)

	handlers := registry.GetHandlers("CashSessionOpened")
	assert.Len(t, handlers, 1)
	assert.Same(t, second, handlers[0])

	registry.Unregister(second)
	assert.Empty(t, registry.GetHandlers("CashSessionOpened"))
	assert.Empty(t, registry.GetAllHandlers())
}

func TestHandlerRegistry_GetAllHandlers_NoDuplicates(t *testing.T) {
	registry := NewHandlerRegistry()
	multi := newTestHandler()
	wildcard := newTestHandler()

	registry.Register(multi, "CheckDeposited", "CheckEndorsed", "CheckRejected")
	registry.Register(wildcard)

	assert.Len(t, registry.GetAllHandlers(), 2)
}

func toAny[T any](in []T) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}
