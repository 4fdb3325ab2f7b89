package store

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCachesValue(t *testing.T) {
	s := New()
	var fetches atomic.Int32
	fetch := func(ctx context.Context) (string, error) {
		fetches.Add(1)
		return "dune", nil
	}
	key := BookKey("/works/OL1W", "")

	v, err := Read(context.Background(), s, key, fetch)
	require.NoError(t, err)
	assert.Equal(t, "dune", v)

	v, err = Read(context.Background(), s, key, fetch)
	require.NoError(t, err)
	assert.Equal(t, "dune", v)

	assert.Equal(t, int32(1), fetches.Load())
	stats := s.Stats()
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Fetches)
}

func TestConcurrentReadsCoalesce(t *testing.T) {
	s := New()
	var fetches atomic.Int32
	release := make(chan struct{})
	fetch := func(ctx context.Context) (string, error) {
		fetches.Add(1)
		<-release
		return "dune", nil
	}
	key := BookKey("/works/OL1W", "")

	const readers = 20
	results := make([]string, readers)
	var wg sync.WaitGroup
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := Read(context.Background(), s, key, fetch)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}

	time.Sleep(20 * time.Millisecond) // let readers join the flight
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), fetches.Load(), "all readers must share one fetch")
	for _, v := range results {
		assert.Equal(t, "dune", v)
	}
}

func TestStalenessExpiry(t *testing.T) {
	now := time.Now()
	var mu sync.Mutex
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	s := New(WithClock(clock), WithTTL(KindBook, time.Minute))

	var fetches atomic.Int32
	fetch := func(ctx context.Context) (string, error) {
		fetches.Add(1)
		return "dune", nil
	}
	key := BookKey("/works/OL1W", "")

	_, err := Read(context.Background(), s, key, fetch)
	require.NoError(t, err)
	_, err = Read(context.Background(), s, key, fetch)
	require.NoError(t, err)
	assert.Equal(t, int32(1), fetches.Load())

	mu.Lock()
	now = now.Add(2 * time.Minute)
	mu.Unlock()

	_, err = Read(context.Background(), s, key, fetch)
	require.NoError(t, err)
	assert.Equal(t, int32(2), fetches.Load(), "expired entry must refetch")
}

func TestUserScopedKindsNeverTimeOut(t *testing.T) {
	now := time.Now()
	var mu sync.Mutex
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	s := New(WithClock(clock))

	var fetches atomic.Int32
	fetch := func(ctx context.Context) ([]string, error) {
		fetches.Add(1)
		return []string{"item"}, nil
	}
	key := LibraryKey("u1", "")

	_, err := Read(context.Background(), s, key, fetch)
	require.NoError(t, err)

	mu.Lock()
	now = now.Add(48 * time.Hour)
	mu.Unlock()

	_, err = Read(context.Background(), s, key, fetch)
	require.NoError(t, err)
	assert.Equal(t, int32(1), fetches.Load(), "library data stays until invalidated")
}

func TestInvalidateForcesRefetch(t *testing.T) {
	s := New()
	var fetches atomic.Int32
	fetch := func(ctx context.Context) (string, error) {
		fetches.Add(1)
		return "dune", nil
	}
	key := BookKey("/works/OL1W", "")

	_, err := Read(context.Background(), s, key, fetch)
	require.NoError(t, err)

	n := s.Invalidate(ByKindID(KindBook, "/works/OL1W"))
	assert.Equal(t, 1, n)

	_, err = Read(context.Background(), s, key, fetch)
	require.NoError(t, err)
	assert.Equal(t, int32(2), fetches.Load())
}

func TestInvalidationDuringFlightSupersedesResult(t *testing.T) {
	s := New()
	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	fetch := func(ctx context.Context) (string, error) {
		if calls.Add(1) == 1 {
			close(started)
			<-release
			return "pre-mutation", nil
		}
		return "post-mutation", nil
	}
	key := LibraryKey("u1", "")

	done := make(chan string, 1)
	go func() {
		v, err := Read(context.Background(), s, key, fetch)
		assert.NoError(t, err)
		done <- v
	}()

	<-started
	s.Invalidate(ByKind(KindLibrary))
	close(release)

	v := <-done
	assert.Equal(t, "post-mutation", v, "superseded fetch must not be served")
	assert.Equal(t, int32(2), calls.Load())

	stats := s.Stats()
	assert.Equal(t, uint64(1), stats.Superseded)

	cached, ok := Peek[string](s, key)
	require.True(t, ok)
	assert.Equal(t, "post-mutation", cached.Value)
	assert.False(t, cached.Stale)
}

func TestAbandonedReaderKeepsSharedFetchAlive(t *testing.T) {
	s := New()
	release := make(chan struct{})
	started := make(chan struct{})
	var fetches atomic.Int32
	fetch := func(ctx context.Context) (string, error) {
		fetches.Add(1)
		close(started)
		select {
		case <-release:
			return "dune", nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	key := BookKey("/works/OL1W", "")

	ctxA, cancelA := context.WithCancel(context.Background())
	aDone := make(chan error, 1)
	go func() {
		_, err := Read(ctxA, s, key, fetch)
		aDone <- err
	}()

	<-started
	bDone := make(chan string, 1)
	go func() {
		v, err := Read(context.Background(), s, key, fetch)
		assert.NoError(t, err)
		bDone <- v
	}()

	time.Sleep(10 * time.Millisecond) // let B join the same flight
	cancelA()
	require.ErrorIs(t, <-aDone, context.Canceled, "abandoning reader unblocks immediately")

	close(release)
	assert.Equal(t, "dune", <-bDone, "shared fetch must survive the abandoning reader")
	assert.Equal(t, int32(1), fetches.Load())

	cached, ok := Peek[string](s, key)
	require.True(t, ok)
	assert.Equal(t, "dune", cached.Value)
}

func TestInvalidateAfterAbandonedFetchForcesRefetch(t *testing.T) {
	s := New()
	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	fetch := func(ctx context.Context) (string, error) {
		if calls.Add(1) == 1 {
			close(started)
			<-release
			return "pre-mutation", nil
		}
		return "post-mutation", nil
	}
	key := LibraryKey("u1", "")

	ctxA, cancelA := context.WithCancel(context.Background())
	aDone := make(chan error, 1)
	go func() {
		_, err := Read(ctxA, s, key, fetch)
		aDone <- err
	}()

	<-started
	cancelA()
	require.ErrorIs(t, <-aDone, context.Canceled)

	// No entry and no waiters remain for the key, only the detached
	// fetch still blocked inside the flight.
	s.Invalidate(ByKind(KindLibrary))

	bDone := make(chan string, 1)
	go func() {
		v, err := Read(context.Background(), s, key, fetch)
		assert.NoError(t, err)
		bDone <- v
	}()

	time.Sleep(10 * time.Millisecond) // let B join the detached flight
	close(release)

	assert.Equal(t, "post-mutation", <-bDone, "a read issued after the invalidation must not see the old value")
	assert.Equal(t, int32(2), calls.Load())

	cached, ok := Peek[string](s, key)
	require.True(t, ok)
	assert.Equal(t, "post-mutation", cached.Value)
	assert.False(t, cached.Stale)
}

func TestFetchErrorsAreNotCached(t *testing.T) {
	s := New()
	var calls atomic.Int32
	fetch := func(ctx context.Context) (string, error) {
		if calls.Add(1) == 1 {
			return "", errors.New("connection refused")
		}
		return "dune", nil
	}
	key := BookKey("/works/OL1W", "")

	_, err := Read(context.Background(), s, key, fetch)
	require.Error(t, err)

	_, ok := Peek[string](s, key)
	assert.False(t, ok, "failed fetch must not leave an entry behind")

	v, err := Read(context.Background(), s, key, fetch)
	require.NoError(t, err)
	assert.Equal(t, "dune", v)
	assert.Equal(t, int32(2), calls.Load())
}

func TestPeekReportsStaleness(t *testing.T) {
	s := New()
	key := LibraryKey("u1", "")
	fetch := func(ctx context.Context) (string, error) { return "shelf", nil }

	_, ok := Peek[string](s, key)
	assert.False(t, ok)

	_, err := Read(context.Background(), s, key, fetch)
	require.NoError(t, err)

	cached, ok := Peek[string](s, key)
	require.True(t, ok)
	assert.False(t, cached.Stale)

	s.InvalidateKey(key)

	cached, ok = Peek[string](s, key)
	require.True(t, ok, "stale entries remain peekable for instant redraw")
	assert.True(t, cached.Stale)
	assert.Equal(t, "shelf", cached.Value)
}

func TestPatch(t *testing.T) {
	s := New()
	key := UserReviewsKey("u1")
	fetch := func(ctx context.Context) ([]string, error) { return []string{"r1", "r2"}, nil }

	assert.False(t, Patch(s, key, func(v []string) []string { return v }), "patching a missing entry is a no-op")

	_, err := Read(context.Background(), s, key, fetch)
	require.NoError(t, err)

	ok := Patch(s, key, func(v []string) []string { return append(v, "r3") })
	require.True(t, ok)

	cached, ok := Peek[[]string](s, key)
	require.True(t, ok)
	assert.Equal(t, []string{"r1", "r2", "r3"}, cached.Value)
}

func TestPatchMatching(t *testing.T) {
	s := New()
	fetch := func(ctx context.Context) ([]string, error) { return []string{"row"}, nil }

	_, err := Read(context.Background(), s, LibraryKey("u1", "status=reading"), fetch)
	require.NoError(t, err)
	_, err = Read(context.Background(), s, LibraryKey("u1", "status=read"), fetch)
	require.NoError(t, err)
	_, err = Read(context.Background(), s, LibraryKey("u2", ""), fetch)
	require.NoError(t, err)

	n := PatchMatching(s, ByKindID(KindLibrary, "u1"), func(v []string) []string {
		return nil
	})
	assert.Equal(t, 2, n, "only the acting user's library entries are touched")

	cached, ok := Peek[[]string](s, LibraryKey("u2", ""))
	require.True(t, ok)
	assert.Equal(t, []string{"row"}, cached.Value)
}

func TestClear(t *testing.T) {
	s := New()
	fetch := func(ctx context.Context) (string, error) { return "v", nil }

	_, err := Read(context.Background(), s, BookKey("/works/OL1W", ""), fetch)
	require.NoError(t, err)
	_, err = Read(context.Background(), s, LibraryKey("u1", ""), fetch)
	require.NoError(t, err)

	s.Clear()

	assert.Equal(t, 0, s.Stats().Entries)
	_, ok := Peek[string](s, BookKey("/works/OL1W", ""))
	assert.False(t, ok)
	_, ok = Peek[string](s, LibraryKey("u1", ""))
	assert.False(t, ok)
}

func TestClearDuringFlightOrphansResult(t *testing.T) {
	s := New()
	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	fetch := func(ctx context.Context) (string, error) {
		if calls.Add(1) == 1 {
			close(started)
			<-release
			return "old-session", nil
		}
		return "new-session", nil
	}
	key := LibraryKey("u1", "")

	done := make(chan string, 1)
	go func() {
		v, err := Read(context.Background(), s, key, fetch)
		assert.NoError(t, err)
		done <- v
	}()

	<-started
	s.Clear()
	close(release)

	assert.Equal(t, "new-session", <-done, "a wiped cache must not be repopulated by an old fetch")
	assert.Equal(t, int32(2), calls.Load())
}

func TestClearAfterAbandonedFetchOrphansResult(t *testing.T) {
	s := New()
	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	fetch := func(ctx context.Context) (string, error) {
		if calls.Add(1) == 1 {
			close(started)
			<-release
			return "old-session", nil
		}
		return "new-session", nil
	}
	key := LibraryKey("u1", "")

	ctxA, cancelA := context.WithCancel(context.Background())
	aDone := make(chan error, 1)
	go func() {
		_, err := Read(ctxA, s, key, fetch)
		aDone <- err
	}()

	<-started
	cancelA()
	require.ErrorIs(t, <-aDone, context.Canceled)

	s.Clear()

	bDone := make(chan string, 1)
	go func() {
		v, err := Read(context.Background(), s, key, fetch)
		assert.NoError(t, err)
		bDone <- v
	}()

	time.Sleep(10 * time.Millisecond) // let B join the detached flight
	close(release)

	assert.Equal(t, "new-session", <-bDone, "a fetch from before sign-out must not serve the next session")
	assert.Equal(t, int32(2), calls.Load())
}

func TestClearUserScoped(t *testing.T) {
	s := New()
	fetch := func(ctx context.Context) (string, error) { return "v", nil }

	keys := []Key{
		BookKey("/works/OL1W", ""),
		AuthorKey("/authors/OL2A"),
		LibraryKey("u1", ""),
		UserReviewsKey("u1"),
		AdminReviewsKey("status=pending"),
		AdminStatsKey(),
	}
	for _, k := range keys {
		_, err := Read(context.Background(), s, k, fetch)
		require.NoError(t, err)
	}

	n := s.ClearUserScoped()
	assert.Equal(t, 4, n)

	_, ok := Peek[string](s, BookKey("/works/OL1W", ""))
	assert.True(t, ok, "catalog data is not user-scoped")
	_, ok = Peek[string](s, AuthorKey("/authors/OL2A"))
	assert.True(t, ok)

	for _, k := range keys[2:] {
		_, ok := Peek[string](s, k)
		assert.False(t, ok, "%s must be dropped", k)
	}
}

func TestLRUEviction(t *testing.T) {
	s := New(WithMaxEntries(2))
	fetch := func(ctx context.Context) (string, error) { return "v", nil }

	_, err := Read(context.Background(), s, BookKey("/works/OL1W", ""), fetch)
	require.NoError(t, err)
	_, err = Read(context.Background(), s, BookKey("/works/OL2W", ""), fetch)
	require.NoError(t, err)

	// Touch OL1W so OL2W becomes the eviction candidate.
	_, err = Read(context.Background(), s, BookKey("/works/OL1W", ""), fetch)
	require.NoError(t, err)

	_, err = Read(context.Background(), s, BookKey("/works/OL3W", ""), fetch)
	require.NoError(t, err)

	_, ok := Peek[string](s, BookKey("/works/OL2W", ""))
	assert.False(t, ok, "least recently read entry is evicted")
	_, ok = Peek[string](s, BookKey("/works/OL1W", ""))
	assert.True(t, ok)
	_, ok = Peek[string](s, BookKey("/works/OL3W", ""))
	assert.True(t, ok)

	stats := s.Stats()
	assert.Equal(t, uint64(1), stats.Evictions)
	assert.Equal(t, 2, stats.Entries)
}

func TestPrefetchWarmsCache(t *testing.T) {
	s := New()
	fetched := make(chan struct{})
	fetch := func(ctx context.Context) (string, error) {
		defer close(fetched)
		return "warm", nil
	}
	key := LibraryKey("u1", "")

	Prefetch(context.Background(), s, key, fetch)

	select {
	case <-fetched:
	case <-time.After(time.Second):
		t.Fatal("prefetch never ran")
	}

	// The entry may land a moment after the fetch returns.
	require.Eventually(t, func() bool {
		_, ok := Peek[string](s, key)
		return ok
	}, time.Second, 5*time.Millisecond)

	var fetches atomic.Int32
	_, err := Read(context.Background(), s, key, func(ctx context.Context) (string, error) {
		fetches.Add(1)
		return "cold", nil
	})
	require.NoError(t, err)
	assert.Equal(t, int32(0), fetches.Load(), "warmed entry must serve without a fetch")
}
