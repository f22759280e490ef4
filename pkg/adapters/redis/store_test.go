package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/mulesoft-labs/twiml/pkg/adapters/redis"
	"github.com/mulesoft-labs/twiml/pkg/domain"
	"github.com/mulesoft-labs/twiml/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestRedisStore_Contract(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	defer mr.Close()

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})

	store := redis.NewFromClient(client)
	ports.RunCallStoreContract(t, store)
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, err := miniredis.Run()
	assert.NoError(t, err)
	defer mr.Close()

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})

	// Store with a 1s TTL, about the shortest call imaginable
	store := redis.NewFromClient(client, redis.WithTTL(1*time.Second))
	ctx := context.Background()
	callSID := "CA-ttl"
	state := domain.NewCallState(callSID, "main-menu")

	err = store.Save(ctx, callSID, state)
	assert.NoError(t, err)

	calls, err := store.List(ctx)
	assert.NoError(t, err)
	assert.Contains(t, calls, callSID)

	// Fast forward time in miniredis so the key expires
	mr.FastForward(2 * time.Second)

	_, err = store.Load(ctx, callSID)
	assert.ErrorIs(t, err, domain.ErrCallNotFound)

	// Lazy index cleanup compares against time.Now(), which miniredis cannot
	// fast forward, so wait out the TTL before checking List.
	time.Sleep(1200 * time.Millisecond)

	calls, err = store.List(ctx)
	assert.NoError(t, err)
	assert.Empty(t, calls)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, err := miniredis.Run()
	assert.NoError(t, err)
	defer mr.Close()

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})

	store := redis.NewFromClient(client, redis.WithPrefix("custom:ivr:"))
	ctx := context.Background()
	callSID := "CA-prefix"

	err = store.Save(ctx, callSID, domain.NewCallState(callSID, "main-menu"))
	assert.NoError(t, err)

	// Key should be "custom:ivr:CA-prefix", index "custom:ivr:index"
	assert.True(t, mr.Exists("custom:ivr:CA-prefix"), "Expected key with custom prefix to exist")
	assert.True(t, mr.Exists("custom:ivr:index"), "Expected index with custom prefix to exist")

	list, err := store.List(ctx)
	assert.NoError(t, err)
	assert.Contains(t, list, callSID)
}
