package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/cascade"
	"github.com/aretw0/cascade/pkg/adapters/memory"
	"github.com/aretw0/cascade/pkg/adapters/redis"
	"github.com/aretw0/cascade/pkg/domain"
	"github.com/aretw0/cascade/pkg/ports/tests"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisQueue_Contract(t *testing.T) {
	_, client := newClient(t)
	tests.RunDescriptorQueueContract(t, redis.NewFromClient(client, "contract"))
}

func TestRedisQueue_DrainSkipsUndecodableBatch(t *testing.T) {
	mr, client := newClient(t)
	q := redis.NewFromClient(client, "menu")
	ctx := context.Background()

	good := domain.Batch{ID: "b-1", Descriptors: []domain.EventDescriptor{
		{Target: 2, Kind: domain.KindDisplay, Value: domain.Display{State: domain.DisplayNone}, Source: 1, Change: domain.ChangeToggleVisible},
	}}
	require.NoError(t, q.Push(ctx, good))
	tinted := `{"id":"b-2","descriptors":[{"target":3,"kind":"tint","value":{"kind":"tint","value":{}},"source":1,"change":"tint"}]}`
	_, err := mr.RPush("cascade:queue:menu", tinted)
	require.NoError(t, err)
	require.NoError(t, q.Push(ctx, domain.Batch{ID: "b-3"}))

	batches, err := q.Drain(ctx)
	require.NoError(t, err)
	require.Len(t, batches, 2)
	assert.Equal(t, "b-1", batches[0].ID)
	assert.Equal(t, domain.Display{State: domain.DisplayNone}, batches[0].Descriptors[0].Value)
	assert.Equal(t, "b-3", batches[1].ID)

	dead, err := mr.List(q.DeadKey())
	require.NoError(t, err)
	assert.Equal(t, []string{tinted}, dead)
	assert.False(t, mr.Exists("cascade:queue:menu"))
}

func TestRedisQueue_Prefix(t *testing.T) {
	mr, client := newClient(t)
	q := redis.NewFromClient(client, "panel", redis.WithPrefix("custom:app:"))
	ctx := context.Background()

	require.NoError(t, q.Push(ctx, domain.Batch{ID: "b-1"}))
	assert.True(t, mr.Exists("custom:app:queue:panel"), "Expected key with custom prefix to exist")

	n, err := q.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = q.Drain(ctx)
	require.NoError(t, err)
	assert.False(t, mr.Exists("custom:app:queue:panel"), "Drain deletes the list")
}

func TestRedisQueue_TTL_Expiration(t *testing.T) {
	mr, client := newClient(t)
	q := redis.NewFromClient(client, "idle", redis.WithTTL(time.Second))
	ctx := context.Background()

	require.NoError(t, q.Push(ctx, domain.Batch{ID: "b-1"}))
	mr.FastForward(2 * time.Second)

	batches, err := q.Drain(ctx)
	require.NoError(t, err)
	assert.Empty(t, batches)
}

// Two engines over copies of one scene share a queue: what one host
// triggers, the other applies.
func TestRedisQueue_SharedBetweenEngines(t *testing.T) {
	_, client := newClient(t)

	build := func() (*memory.Scene, domain.EntityID, domain.EntityID) {
		s := memory.NewScene()
		btn, err := s.Spawn("button", 0)
		require.NoError(t, err)
		row, err := s.Spawn("row", btn, domain.GroupDisplay)
		require.NoError(t, err)
		require.NoError(t, s.Insert(row, domain.Display{State: domain.DisplayFlex}))
		return s, btn, row
	}
	rule := domain.NewRule(domain.GroupDisplay, domain.Clicked, domain.Child, domain.ChangeVisible())

	writerScene, btn, _ := build()
	writer := cascade.New(writerScene, cascade.WithQueue(redis.NewFromClient(client, "shared")))
	require.NoError(t, writer.Attach(btn, rule))

	readerScene, _, row := build()
	reader := cascade.New(readerScene,
		cascade.WithQueue(redis.NewFromClient(client, "shared")),
		cascade.WithApplyLocker(redis.NewLocker(client, "test:"), "shared", time.Second),
	)

	ctx := context.Background()
	_, err := writer.Trigger(ctx, domain.Signal{Entity: btn, Kind: domain.Clicked})
	require.NoError(t, err)

	report, err := reader.Tick(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Applied())

	got, _ := readerScene.Get(row, domain.KindDisplay)
	assert.Equal(t, domain.Display{State: domain.DisplayNone}, got)
}

func TestRedisQueue_NewByAddress(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	q := redis.New(mr.Addr(), "", 0, "menu")
	t.Cleanup(func() { _ = q.Close() })
	ctx := context.Background()

	require.NoError(t, q.Ping(ctx))
	require.NoError(t, q.Push(ctx, domain.Batch{ID: "b1", Descriptors: []domain.EventDescriptor{{Target: 1}}}))
	assert.True(t, mr.Exists("cascade:queue:menu"))

	n, err := q.Len(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	mr.Close()
	assert.Error(t, q.Ping(ctx))
}
