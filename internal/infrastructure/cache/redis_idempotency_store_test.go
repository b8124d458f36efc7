package cache

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// keyspaceHook answers SET NX and DEL from a map so no server is needed
type keyspaceHook struct {
	mu       sync.Mutex
	keys     map[string]bool
	commands []string
	err      error
}

func (h *keyspaceHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return nil, errors.New("dial disabled in tests")
	}
}

func (h *keyspaceHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		h.mu.Lock()
		defer h.mu.Unlock()

		args := cmd.Args()
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = fmt.Sprint(a)
		}
		h.commands = append(h.commands, strings.Join(parts, " "))
		if h.err != nil {
			cmd.SetErr(h.err)
			return h.err
		}
		key := fmt.Sprint(args[1])
		switch c := cmd.(type) {
		case *redis.BoolCmd:
			c.SetVal(!h.keys[key])
			h.keys[key] = true
		case *redis.IntCmd:
			if h.keys[key] {
				delete(h.keys, key)
				c.SetVal(1)
			}
		}
		return nil
	}
}

func (h *keyspaceHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func newHookedClient(t *testing.T) (*redis.Client, *keyspaceHook) {
	t.Helper()
	hook := &keyspaceHook{keys: make(map[string]bool)}
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	client.AddHook(hook)
	t.Cleanup(func() { _ = client.Close() })
	return client, hook
}

func TestRedisIdempotencyStore_ReserveAndRelease(t *testing.T) {
	client, hook := newHookedClient(t)
	store := NewRedisIdempotencyStore(client, "")
	ctx := context.Background()

	ok, err := store.Reserve(ctx, "k1", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Reserve(ctx, "k1", time.Hour)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Release(ctx, "k1"))
	ok, err = store.Reserve(ctx, "k1", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)

	assert.True(t, hook.keys["backoffice:idempotency:k1"])
	assert.Contains(t, hook.commands[0], "set backoffice:idempotency:k1")
	assert.Contains(t, hook.commands[0], "nx")
	assert.NoError(t, store.Close())
}

func TestRedisIdempotencyStore_Errors(t *testing.T) {
	client, hook := newHookedClient(t)
	hook.err = errors.New("READONLY")
	store := NewRedisIdempotencyStore(client, "custom:")

	_, err := store.Reserve(context.Background(), "k", time.Minute)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to reserve idempotency key")

	err = store.Release(context.Background(), "k")
	require.Error(t, err)
	assert.Contains(t, hook.commands[0], "custom:k")
}

func TestIdempotencyStoreFactory(t *testing.T) {
	client, _ := newHookedClient(t)

	store, err := NewIdempotencyStoreFactory(client).CreateStore()
	require.NoError(t, err)
	assert.IsType(t, &RedisIdempotencyStore{}, store)

	store, err = NewIdempotencyStoreFactory(nil).CreateStore()
	require.NoError(t, err)
	assert.IsType(t, &InMemoryIdempotencyStore{}, store)
	_ = store.Close()

	_, err = NewIdempotencyStoreFactory(nil, WithInMemoryFallback(false)).CreateStore()
	assert.Error(t, err)
}
