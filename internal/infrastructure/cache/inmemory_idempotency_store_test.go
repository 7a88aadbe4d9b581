package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryIdempotencyStore_MarkProcessed(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()

	t.Run("first mark succeeds", func(t *testing.T) {
		ok, err := store.MarkProcessed(ctx, "order-1001", time.Hour)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("second mark is rejected", func(t *testing.T) {
		ok, err := store.MarkProcessed(ctx, "order-1001", time.Hour)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("different key is independent", func(t *testing.T) {
		ok, err := store.MarkProcessed(ctx, "order-1002", time.Hour)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestInMemoryIdempotencyStore_IsProcessed(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()

	processed, err := store.IsProcessed(ctx, "order-2001")
	require.NoError(t, err)
	assert.False(t, processed)

	_, err = store.MarkProcessed(ctx, "order-2001", time.Hour)
	require.NoError(t, err)

	processed, err = store.IsProcessed(ctx, "order-2001")
	require.NoError(t, err)
	assert.True(t, processed)
}

func TestInMemoryIdempotencyStore_Expiry(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()

	_, err := store.MarkProcessed(ctx, "order-3001", 10*time.Millisecond)
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)

	processed, err := store.IsProcessed(ctx, "order-3001")
	require.NoError(t, err)
	assert.False(t, processed)

	ok, err := store.MarkProcessed(ctx, "order-3001", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok, "expired key can be marked again")
}

func TestInMemoryIdempotencyStore_ConcurrentMark(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()

	const workers = 20
	var wg sync.WaitGroup
	wins := make(chan bool, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := store.MarkProcessed(ctx, "order-4001", time.Hour)
			require.NoError(t, err)
			if ok {
				wins <- true
			}
		}()
	}

	wg.Wait()
	close(wins)

	count := 0
	for range wins {
		count++
	}
	assert.Equal(t, 1, count, "exactly one marker should win")
}

func TestInMemoryIdempotencyStore_Close(t *testing.T) {
	store := NewInMemoryIdempotencyStore()

	require.NoError(t, store.Close())
	require.NoError(t, store.Close(), "double close is safe")
}

func TestInMemoryIdempotencyStore_ManyKeys(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()

	for i := 0; i < 100; i++ {
		key := fmt.Sprintf("order-%d", i)
		ok, err := store.MarkProcessed(ctx, key, time.Hour)
		require.NoError(t, err)
		assert.True(t, ok)
	}

	for i := 0; i < 100; i++ {
		key := fmt.Sprintf("order-%d", i)
		processed, err := store.IsProcessed(ctx, key)
		require.NoError(t, err)
		assert.True(t, processed)
	}
}
