package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/pacer/pkg/adapters/memory"
	"github.com/aretw0/pacer/pkg/domain"
	"github.com/aretw0/pacer/pkg/ports"
	"github.com/aretw0/pacer/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SlowStore simulates latency to provoke race conditions if locking is missing.
type SlowStore struct {
	*memory.Store
}

func (s SlowStore) Load(ctx context.Context, sessionID string) (domain.History, error) {
	time.Sleep(5 * time.Millisecond)
	return s.Store.Load(ctx, sessionID)
}

func (s SlowStore) Append(ctx context.Context, sessionID string, turns ...domain.Turn) error {
	time.Sleep(5 * time.Millisecond)
	return s.Store.Append(ctx, sessionID, turns...)
}

type failingStore struct {
	ports.HistoryStore
	err error
}

func (s failingStore) Load(context.Context, string) (domain.History, error) { return nil, s.err }

func reply(fragment string) func(context.Context, domain.History) domain.Response {
	return func(_ context.Context, _ domain.History) domain.Response {
		return domain.Response{Result: domain.Result{Fragments: []string{fragment}}}
	}
}

func TestManager_Exchange(t *testing.T) {
	mgr := session.NewManager(memory.NewStore())
	ctx := context.Background()

	var seen domain.History
	_, err := mgr.Exchange(ctx, "s", domain.Request{Prompt: "first"}, func(_ context.Context, h domain.History) domain.Response {
		seen = h
		return domain.Response{Result: domain.Result{Fragments: []string{"one"}}}
	})
	require.NoError(t, err)
	assert.Empty(t, seen)

	_, err = mgr.Exchange(ctx, "s", domain.Request{Command: "simple"}, func(_ context.Context, h domain.History) domain.Response {
		seen = h
		return domain.Response{}
	})
	require.NoError(t, err)
	require.Len(t, seen, 2)
	assert.Equal(t, domain.RequestTurn{Prompt: "first"}, seen[0])

	h, err := mgr.History(ctx, "s")
	require.NoError(t, err)
	require.Len(t, h, 4)
	assert.Equal(t, domain.RequestTurn{Command: "simple"}, h[2])
}

func TestManager_Serialises(t *testing.T) {
	mgr := session.NewManager(SlowStore{memory.NewStore()})
	ctx := context.Background()
	id := "race-test"

	var wg sync.WaitGroup
	const concurrent = 10
	for i := 0; i < concurrent; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := mgr.Exchange(ctx, id, domain.Request{Prompt: "hi"}, reply("ok"))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	h, err := mgr.History(ctx, id)
	require.NoError(t, err)
	assert.Len(t, h, 2*concurrent)
}

func TestManager_SeesPreviousRounds(t *testing.T) {
	mgr := session.NewManager(SlowStore{memory.NewStore()})
	ctx := context.Background()

	var mu sync.Mutex
	lengths := map[int]bool{}
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = mgr.Exchange(ctx, "s", domain.Request{}, func(_ context.Context, h domain.History) domain.Response {
				mu.Lock()
				lengths[len(h)] = true
				mu.Unlock()
				return domain.Response{}
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, map[int]bool{0: true, 2: true, 4: true, 6: true, 8: true}, lengths)
}

func TestManager_StoreError(t *testing.T) {
	boom := errors.New("boom")
	mgr := session.NewManager(failingStore{HistoryStore: memory.NewStore(), err: boom})

	called := false
	_, err := mgr.Exchange(context.Background(), "s", domain.Request{}, func(context.Context, domain.History) domain.Response {
		called = true
		return domain.Response{}
	})
	assert.ErrorIs(t, err, boom)
	assert.False(t, called)
}

func TestManager_DistributedLocker(t *testing.T) {
	locker := memory.NewLocker()
	mgr := session.NewManager(memory.NewStore(), session.WithLocker(locker))
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "s", time.Second)
	require.NoError(t, err)

	waitCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	_, err = mgr.Exchange(waitCtx, "s", domain.Request{}, reply("x"))
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, unlock(ctx))
	_, err = mgr.Exchange(ctx, "s", domain.Request{}, reply("x"))
	assert.NoError(t, err)
}
