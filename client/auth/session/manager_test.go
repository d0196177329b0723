package session

import (
	"context"
	"errors"
	"fmt"
	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/caseflow/client/auth/store"
	"github.com/viant/caseflow/schema"
	"math/rand"
	"sync/atomic"
	"testing"
	"time"
)

func wait(t *testing.T, m *Manager) Snapshot {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	snapshot, err := m.Wait(ctx)
	require.NoError(t, err)
	return snapshot
}

func TestManager_Initial(t *testing.T) {
	t.Run("no credential", func(t *testing.T) {
		fetcher := newFakeFetcher()
		m := New(store.NewMemoryStore(), fetcher)
		defer m.Close()
		assert.Equal(t, LoggedOut, m.State())
		assert.False(t, m.IsLoading())
		assert.Nil(t, m.User())
		assert.Equal(t, 0, fetcher.callCount(""))
	})

	t.Run("persisted credential", func(t *testing.T) {
		gate := make(chan struct{})
		fetcher := newFakeFetcher().on("abc", gated(gate, identity(1, "admin", true)))
		m := New(store.NewMemoryStore(store.WithToken("abc")), fetcher)
		defer m.Close()
		assert.Equal(t, Authenticating, m.State())
		assert.True(t, m.IsLoading())
		assert.Nil(t, m.User())

		close(gate)
		snapshot := wait(t, m)
		assert.Equal(t, Authenticated, snapshot.State)
		assert.Equal(t, &schema.Identity{ID: 1, Username: "admin", IsAdmin: true}, snapshot.User)
	})

	t.Run("empty persisted credential", func(t *testing.T) {
		credentials := store.NewMemoryStore(store.WithToken(""))
		m := New(credentials, newFakeFetcher())
		defer m.Close()
		assert.Equal(t, LoggedOut, m.State())
		_, ok := credentials.Read()
		assert.False(t, ok)
	})
}

func TestManager_SetToken(t *testing.T) {
	credentials := store.NewMemoryStore()
	fetcher := newFakeFetcher().on("abc", identity(1, "admin", true))
	m := New(credentials, fetcher)
	defer m.Close()

	require.NoError(t, m.SetToken("abc"))
	token, ok := credentials.Read()
	assert.True(t, ok)
	assert.Equal(t, "abc", token)
	token, ok = m.Token()
	assert.True(t, ok)
	assert.Equal(t, "abc", token)

	snapshot := wait(t, m)
	assert.Equal(t, Authenticated, snapshot.State)
	assert.Equal(t, &schema.Identity{ID: 1, Username: "admin", IsAdmin: true}, m.User())
	assert.NoError(t, m.Err())

	require.NoError(t, m.SetToken(""))
	_, ok = credentials.Read()
	assert.False(t, ok)
	assert.Nil(t, m.User())
	assert.Equal(t, LoggedOut, m.State())
}

func TestManager_SetToken_StoreFailure(t *testing.T) {
	credentials := &failingStore{writeErr: errors.New("disk full")}
	m := New(credentials, newFakeFetcher())
	defer m.Close()

	err := m.SetToken("abc")
	assert.Error(t, err)
	assert.Equal(t, LoggedOut, m.State())
	_, ok := m.Token()
	assert.False(t, ok)
}

func TestManager_ClearToken_StoreFailure(t *testing.T) {
	credentials := &failingStore{token: "abc", has: true, clearErr: errors.New("read-only")}
	m := New(credentials, newFakeFetcher().on("abc", identity(1, "admin", true)))
	defer m.Close()
	wait(t, m)

	assert.Error(t, m.ClearToken())
	assert.Equal(t, LoggedOut, m.State())
	assert.Nil(t, m.User())
}

func TestManager_ClearToken_Idempotent(t *testing.T) {
	credentials := store.NewMemoryStore()
	m := New(credentials, newFakeFetcher().on("abc", identity(1, "admin", true)))
	defer m.Close()
	require.NoError(t, m.SetToken("abc"))
	wait(t, m)

	require.NoError(t, m.ClearToken())
	once := m.Snapshot()
	require.NoError(t, m.ClearToken())
	twice := m.Snapshot()
	if diff := cmp.Diff(once, twice); diff != "" {
		t.Errorf("snapshot mismatch (-once +twice):\n%s", diff)
	}
	_, ok := credentials.Read()
	assert.False(t, ok)
}

func TestManager_StaleFetch(t *testing.T) {
	registry := prometheus.NewRegistry()
	gate := make(chan struct{})
	fetcher := newFakeFetcher().
		on("A", gated(gate, identity(1, "alice", false))).
		on("B", identity(2, "bob", true))
	m := New(store.NewMemoryStore(), fetcher, WithMetrics(registry))
	defer m.Close()

	require.NoError(t, m.SetToken("A"))
	require.NoError(t, m.SetToken("B"))
	snapshot := wait(t, m)
	assert.Equal(t, "bob", snapshot.User.Username)

	close(gate)
	require.Eventually(t, func() bool {
		return testutil.ToFloat64(m.metrics.fetches.WithLabelValues(outcomeStale)) == 1
	}, 5*time.Second, 5*time.Millisecond)
	assert.Equal(t, Authenticated, m.State())
	assert.Equal(t, "bob", m.User().Username)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.metrics.fetches.WithLabelValues(outcomeSuccess)))
}

func TestManager_StaleUnauthorizedFetch(t *testing.T) {
	gate := make(chan struct{})
	credentials := store.NewMemoryStore()
	fetcher := newFakeFetcher().
		on("A", gated(gate, failure(schema.NewError(401, "Invalid token")))).
		on("B", identity(2, "bob", true))
	m := New(credentials, fetcher, WithMetrics(prometheus.NewRegistry()))
	defer m.Close()

	require.NoError(t, m.SetToken("A"))
	require.NoError(t, m.SetToken("B"))
	wait(t, m)
	close(gate)
	require.Eventually(t, func() bool {
		return testutil.ToFloat64(m.metrics.fetches.WithLabelValues(outcomeStale)) == 1
	}, 5*time.Second, 5*time.Millisecond)

	token, ok := credentials.Read()
	assert.True(t, ok)
	assert.Equal(t, "B", token)
	assert.Equal(t, "bob", m.User().Username)
}

func TestManager_ClearDuringFetch(t *testing.T) {
	gate := make(chan struct{})
	fetcher := newFakeFetcher().on("A", gated(gate, identity(1, "alice", false)))
	m := New(store.NewMemoryStore(), fetcher, WithMetrics(prometheus.NewRegistry()))
	defer m.Close()

	require.NoError(t, m.SetToken("A"))
	require.NoError(t, m.ClearToken())
	close(gate)
	require.Eventually(t, func() bool {
		return testutil.ToFloat64(m.metrics.fetches.WithLabelValues(outcomeStale)) == 1
	}, 5*time.Second, 5*time.Millisecond)
	assert.Nil(t, m.User())
	assert.Equal(t, LoggedOut, m.State())
}

func TestManager_Degraded(t *testing.T) {
	credentials := store.NewMemoryStore()
	fetcher := newFakeFetcher().on("Z", failure(errNetwork))
	m := New(credentials, fetcher)
	defer m.Close()

	require.NoError(t, m.SetToken("Z"))
	snapshot := wait(t, m)
	assert.Equal(t, Degraded, snapshot.State)
	assert.ErrorIs(t, snapshot.Err, errNetwork)
	assert.Nil(t, snapshot.User)
	token, ok := credentials.Read()
	assert.True(t, ok)
	assert.Equal(t, "Z", token)
	assert.Equal(t, 1, fetcher.callCount("Z"), "failed fetch must not be retried automatically")

	fetcher.on("Z", identity(3, "zed", false))
	require.NoError(t, m.Refetch())
	snapshot = wait(t, m)
	assert.Equal(t, Authenticated, snapshot.State)
	assert.Equal(t, "zed", snapshot.User.Username)
	assert.Equal(t, 2, fetcher.callCount("Z"))
}

func TestManager_UnauthorizedFetch(t *testing.T) {
	registry := prometheus.NewRegistry()
	credentials := store.NewMemoryStore()
	m := New(credentials, newFakeFetcher(), WithMetrics(registry))
	defer m.Close()

	require.NoError(t, m.SetToken("revoked"))
	snapshot := wait(t, m)
	assert.Equal(t, LoggedOut, snapshot.State)
	_, ok := credentials.Read()
	assert.False(t, ok)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.metrics.clears.WithLabelValues(reasonUnauthorized)))
}

func TestManager_Refetch(t *testing.T) {
	t.Run("no credential", func(t *testing.T) {
		m := New(store.NewMemoryStore(), newFakeFetcher())
		defer m.Close()
		assert.ErrorIs(t, m.Refetch(), ErrNoCredential)
	})

	t.Run("joins in-flight fetch", func(t *testing.T) {
		gate := make(chan struct{})
		fetcher := newFakeFetcher().on("A", gated(gate, identity(1, "alice", false)))
		m := New(store.NewMemoryStore(), fetcher)
		defer m.Close()
		require.NoError(t, m.SetToken("A"))
		require.NoError(t, m.Refetch())
		close(gate)
		snapshot := wait(t, m)
		assert.Equal(t, "alice", snapshot.User.Username)
		assert.Equal(t, 1, fetcher.callCount("A"))
	})

	t.Run("keeps identity while loading", func(t *testing.T) {
		gate := make(chan struct{})
		fetcher := newFakeFetcher().on("A", identity(1, "alice", false))
		m := New(store.NewMemoryStore(), fetcher)
		defer m.Close()
		require.NoError(t, m.SetToken("A"))
		wait(t, m)

		fetcher.on("A", gated(gate, identity(1, "alice", true)))
		require.NoError(t, m.Refetch())
		assert.True(t, m.IsLoading())
		assert.Equal(t, "alice", m.User().Username)
		close(gate)
		snapshot := wait(t, m)
		assert.True(t, snapshot.User.IsAdmin)
	})
}

func TestManager_Logout(t *testing.T) {
	invalidated := 0
	registry := prometheus.NewRegistry()
	credentials := store.NewMemoryStore()
	m := New(credentials, newFakeFetcher().on("abc", identity(1, "admin", true)),
		WithInvalidator(InvalidatorFunc(func() { invalidated++ })),
		WithMetrics(registry))
	defer m.Close()

	require.NoError(t, m.SetToken("abc"))
	wait(t, m)
	assert.Equal(t, 1, invalidated, "a new credential purges collaborators")
	require.NoError(t, m.Logout())
	assert.Equal(t, 2, invalidated)
	assert.Nil(t, m.User())
	_, ok := credentials.Read()
	assert.False(t, ok)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.metrics.clears.WithLabelValues(reasonLogout)))

	require.NoError(t, m.ClearToken())
	assert.Equal(t, 2, invalidated, "clearing an absent credential does not purge collaborators")
	require.NoError(t, m.Logout())
	assert.Equal(t, 3, invalidated, "logout always purges collaborators")
}

func TestManager_InvalidateOnCredentialLoss(t *testing.T) {
	var invalidated atomic.Int32
	fetcher := newFakeFetcher().
		on("abc", identity(1, "admin", true)).
		on("def", identity(2, "guest", false))
	m := New(store.NewMemoryStore(), fetcher,
		WithInvalidator(InvalidatorFunc(func() { invalidated.Add(1) })))
	defer m.Close()

	require.NoError(t, m.SetToken("abc"))
	wait(t, m)
	assert.EqualValues(t, 1, invalidated.Load())

	require.NoError(t, m.Refetch())
	wait(t, m)
	require.NoError(t, m.SetToken("abc"))
	wait(t, m)
	assert.EqualValues(t, 1, invalidated.Load(), "same credential keeps collaborator data")

	require.NoError(t, m.SetToken("def"))
	wait(t, m)
	assert.EqualValues(t, 2, invalidated.Load(), "replaced credential purges collaborator data")

	require.NoError(t, m.ClearToken())
	assert.EqualValues(t, 3, invalidated.Load())

	require.NoError(t, m.SetToken("revoked"))
	require.Eventually(t, func() bool {
		return invalidated.Load() == 5 && m.State() == LoggedOut
	}, 5*time.Second, 5*time.Millisecond, "rejected credential purges collaborator data")
}

func TestManager_Closed(t *testing.T) {
	credentials := store.NewMemoryStore()
	m := New(credentials, newFakeFetcher().on("abc", identity(1, "admin", true)))
	require.NoError(t, m.SetToken("abc"))
	wait(t, m)
	m.Close()

	assert.ErrorIs(t, m.SetToken("def"), ErrClosed)
	assert.ErrorIs(t, m.Refetch(), ErrClosed)
	token, ok := credentials.Read()
	assert.True(t, ok)
	assert.Equal(t, "abc", token, "closed manager does not persist credentials")
	assert.False(t, m.IsLoading())
	assert.Equal(t, Authenticated, m.State())

	require.NoError(t, m.ClearToken())
	assert.Equal(t, LoggedOut, m.State())
}

func TestManager_Subscribe(t *testing.T) {
	gate := make(chan struct{})
	m := New(store.NewMemoryStore(), newFakeFetcher().on("abc", gated(gate, identity(1, "admin", true))))
	defer m.Close()

	updates, unsubscribe := m.Subscribe()
	initial := <-updates
	assert.Equal(t, LoggedOut, initial.State)

	require.NoError(t, m.SetToken("abc"))
	loading := <-updates
	assert.True(t, loading.IsLoading)

	close(gate)
	select {
	case snapshot := <-updates:
		assert.Equal(t, Authenticated, snapshot.State)
		assert.Equal(t, "admin", snapshot.User.Username)
	case <-time.After(5 * time.Second):
		t.Fatal("no update received")
	}

	unsubscribe()
	_, ok := <-updates
	assert.False(t, ok, "channel should be closed")
	unsubscribe()
}

func TestManager_Subscribe_Conflates(t *testing.T) {
	m := New(store.NewMemoryStore(), newFakeFetcher())
	defer m.Close()
	updates, unsubscribe := m.Subscribe()
	defer unsubscribe()

	for i := 0; i < 10; i++ {
		require.NoError(t, m.SetToken(fmt.Sprintf("token-%d", i)))
		require.NoError(t, m.ClearToken())
	}
	snapshot := <-updates
	assert.Equal(t, LoggedOut, snapshot.State)
	assert.Equal(t, m.Snapshot().Generation, snapshot.Generation, "only the latest snapshot is kept")
}

func TestManager_Close(t *testing.T) {
	gate := make(chan struct{})
	defer close(gate)
	m := New(store.NewMemoryStore(), newFakeFetcher().on("abc", gated(gate, identity(1, "admin", true))))
	updates, _ := m.Subscribe()
	require.NoError(t, m.SetToken("abc"))
	m.Close()
	m.Close()
	for range updates {
	}
	assert.True(t, m.IsLoading(), "state is frozen after close")
}

// For any sequence of set/clear calls, the user is absent whenever the last call was a clear.
func TestManager_SetClearSequences(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	for run := 0; run < 20; run++ {
		fetcher := newFakeFetcher()
		for i := 0; i < 5; i++ {
			delay := time.Duration(rnd.Intn(3)) * time.Millisecond
			fetcher.on(fmt.Sprintf("T%d", i), func(ctx context.Context) (*schema.Identity, error) {
				time.Sleep(delay)
				return &schema.Identity{ID: 1, Username: "user"}, nil
			})
		}
		m := New(store.NewMemoryStore(), fetcher)
		lastClear := false
		for step := 0; step < 10; step++ {
			if rnd.Intn(2) == 0 {
				require.NoError(t, m.SetToken(fmt.Sprintf("T%d", rnd.Intn(5))))
				lastClear = false
			} else {
				require.NoError(t, m.ClearToken())
				lastClear = true
			}
		}
		snapshot := wait(t, m)
		if lastClear {
			assert.Nil(t, snapshot.User)
			assert.Nil(t, m.User())
		} else {
			assert.Equal(t, Authenticated, snapshot.State)
		}
		m.Close()
	}
}
