package store

import (
	"container/list"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// FetchFunc loads the value for one key from the remote service.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// Cached is a Peek result: possibly stale, flagged as such.
type Cached[T any] struct {
	Value     T
	Stale     bool
	FetchedAt time.Time
}

type entry struct {
	key        Key
	data       any
	fetchedAt  time.Time
	staleAfter time.Duration // 0 = stale only via explicit invalidation
	stale      bool
	lruEl      *list.Element
}

// genState tracks the issuance generation of a key. A fetch may only
// populate the cache if the generation it was issued under is still
// current when it completes, so a slow pre-mutation fetch can never
// clobber post-mutation state. Generations draw from a store-wide
// counter and are never reused, so a fetch orphaned when the key's
// state was dropped cannot commit into the key's next life either.
type genState struct {
	key      Key
	gen      uint64
	inflight int
}

type Stats struct {
	Hits          uint64
	Misses        uint64
	Fetches       uint64
	Superseded    uint64
	Invalidations uint64
	Evictions     uint64
	Entries       int
}

func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Store is the session-wide read-model cache. Views read through it;
// only the mutation coordinator and the fetch-completion path write to
// it.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*entry
	lru     *list.List // front = most recently read
	gens    map[string]*genState
	genSeq  uint64
	flight  singleflight.Group

	ttl        map[Kind]time.Duration
	maxEntries int
	now        func() time.Time
	logger     *slog.Logger

	hits          uint64
	misses        uint64
	fetches       uint64
	superseded    uint64
	invalidations uint64
	evictions     uint64
}

type Option func(*Store)

// WithTTL overrides the staleness window for one kind. Zero disables
// time-based staleness for it.
func WithTTL(kind Kind, d time.Duration) Option {
	return func(s *Store) { s.ttl[kind] = d }
}

// WithMaxEntries bounds the cache, evicting least-recently-read entries
// first. Zero keeps it unbounded for the session.
func WithMaxEntries(n int) Option {
	return func(s *Store) { s.maxEntries = n }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithClock replaces the time source, for staleness tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Catalog data changes rarely upstream; user-scoped kinds stay cached
// until a mutation invalidates them.
const defaultCatalogTTL = 5 * time.Minute

func New(opts ...Option) *Store {
	s := &Store{
		entries: make(map[string]*entry),
		lru:     list.New(),
		gens:    make(map[string]*genState),
		ttl: map[Kind]time.Duration{
			KindBook:         defaultCatalogTTL,
			KindAuthor:       defaultCatalogTTL,
			KindSearch:       defaultCatalogTTL,
			KindTrending:     defaultCatalogTTL,
			KindLibrary:      0,
			KindUserReviews:  0,
			KindAdminReviews: 0,
			KindAdminStats:   0,
		},
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Read returns a fresh value for key, fetching at most once per key
// across concurrent callers. A canceled caller abandons the wait; the
// shared fetch keeps running and still populates the cache for the
// other readers. If an invalidation lands while the fetch is in flight
// the result is discarded and the read re-issues against the new
// generation, so callers never receive pre-invalidation data.
func Read[T any](ctx context.Context, s *Store, key Key, fetch FetchFunc[T]) (T, error) {
	var zero T
	for {
		v, ok, err := cachedValue[T](s, key)
		if err != nil {
			return zero, err
		}
		if ok {
			return v, nil
		}

		v, stored, err := fetchOnce[T](ctx, s, key, fetch)
		if err != nil {
			return zero, err
		}
		if stored {
			return v, nil
		}
		// Superseded mid-flight; go around under the new generation.
	}
}

func cachedValue[T any](s *Store, key Key) (T, bool, error) {
	var zero T
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key.String()]
	if !ok || e.stale || s.expiredLocked(e) {
		return zero, false, nil
	}
	v, ok := e.data.(T)
	if !ok {
		return zero, false, fmt.Errorf("store: %s holds %T, read as %T", key, e.data, zero)
	}
	s.lru.MoveToFront(e.lruEl)
	s.hits++
	return v, true, nil
}

type flightResult struct {
	data   any
	stored bool
}

func fetchOnce[T any](ctx context.Context, s *Store, key Key, fetch FetchFunc[T]) (T, bool, error) {
	var zero T
	ks := key.String()
	gen := s.issue(key)
	defer s.release(ks)

	ch := s.flight.DoChan(ks, func() (any, error) {
		s.countFetch()
		// Detached from the caller: an abandoning view must not cancel
		// a fetch other readers share.
		v, err := fetch(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err // errors surface to callers, never cached
		}
		return flightResult{data: v, stored: s.commit(key, gen, v)}, nil
	})

	select {
	case <-ctx.Done():
		return zero, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, false, res.Err
		}
		fr := res.Val.(flightResult)
		v, ok := fr.data.(T)
		if !ok {
			return zero, false, fmt.Errorf("store: %s fetched %T, read as %T", key, fr.data, zero)
		}
		return v, fr.stored, nil
	}
}

func (s *Store) issue(key Key) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	ks := key.String()
	g := s.gens[ks]
	if g == nil {
		g = &genState{key: key, gen: s.nextGenLocked()}
		s.gens[ks] = g
	}
	g.inflight++
	s.misses++
	return g.gen
}

func (s *Store) nextGenLocked() uint64 {
	s.genSeq++
	return s.genSeq
}

func (s *Store) release(ks string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g := s.gens[ks]
	if g == nil {
		return
	}
	g.inflight--
	if g.inflight <= 0 {
		if _, ok := s.entries[ks]; !ok {
			delete(s.gens, ks)
		}
	}
}

func (s *Store) commit(key Key, gen uint64, data any) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	ks := key.String()
	g := s.gens[ks]
	if g == nil || g.gen != gen {
		s.superseded++
		return false
	}

	e, ok := s.entries[ks]
	if !ok {
		e = &entry{key: key}
		e.lruEl = s.lru.PushFront(e)
		s.entries[ks] = e
	} else {
		s.lru.MoveToFront(e.lruEl)
	}
	e.data = data
	e.fetchedAt = s.now()
	e.staleAfter = s.ttlFor(key.Kind)
	e.stale = false

	s.evictLocked()
	return true
}

func (s *Store) countFetch() {
	s.mu.Lock()
	s.fetches++
	s.mu.Unlock()
}

func (s *Store) ttlFor(kind Kind) time.Duration {
	if d, ok := s.ttl[kind]; ok {
		return d
	}
	return defaultCatalogTTL
}

func (s *Store) expiredLocked(e *entry) bool {
	return e.staleAfter > 0 && s.now().Sub(e.fetchedAt) > e.staleAfter
}

func (s *Store) evictLocked() {
	if s.maxEntries <= 0 {
		return
	}
	for len(s.entries) > s.maxEntries {
		back := s.lru.Back()
		if back == nil {
			return
		}
		s.removeLocked(back.Value.(*entry))
		s.evictions++
	}
}

func (s *Store) removeLocked(e *entry) {
	ks := e.key.String()
	s.lru.Remove(e.lruEl)
	delete(s.entries, ks)
	if g := s.gens[ks]; g != nil && g.inflight <= 0 {
		delete(s.gens, ks)
	}
}

// Peek returns whatever is cached, stale or not, without triggering a
// fetch. It is the instant-redraw path after optimistic patches.
func Peek[T any](s *Store, key Key) (Cached[T], bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key.String()]
	if !ok {
		return Cached[T]{}, false
	}
	v, ok := e.data.(T)
	if !ok {
		return Cached[T]{}, false
	}
	return Cached[T]{
		Value:     v,
		Stale:     e.stale || s.expiredLocked(e),
		FetchedAt: e.fetchedAt,
	}, true
}

// Patch rewrites one cached value in place. Reserved for the mutation
// coordinator's identity-level row edits; the entry keeps its staleness
// so the authoritative refetch still happens on the next Read.
func Patch[T any](s *Store, key Key, fn func(T) T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key.String()]
	if !ok {
		return false
	}
	v, ok := e.data.(T)
	if !ok {
		return false
	}
	e.data = fn(v)
	return true
}

// PatchMatching applies fn to every selected entry holding a T and
// reports how many it touched.
func PatchMatching[T any](s *Store, pred Predicate, fn func(T) T) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, e := range s.entries {
		if !pred(e.key) {
			continue
		}
		if v, ok := e.data.(T); ok {
			e.data = fn(v)
			n++
		}
	}
	return n
}

// Invalidate marks matching entries stale and bumps their generations
// so fetches issued before this point cannot repopulate them. Callers
// already waiting on a forgotten flight still receive its value; the
// cache just refuses to keep it.
func (s *Store) Invalidate(pred Predicate) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for ks, g := range s.gens {
		if !pred(g.key) {
			continue
		}
		g.gen = s.nextGenLocked()
		s.flight.Forget(ks)
		if e, ok := s.entries[ks]; ok {
			e.stale = true
		}
		s.invalidations++
		n++
	}
	return n
}

func (s *Store) InvalidateKey(key Key) int {
	return s.Invalidate(ByExact(key))
}

// Prefetch warms a key in the background: fire and forget, a fresh
// entry makes it a no-op, failures only get logged.
func Prefetch[T any](ctx context.Context, s *Store, key Key, fetch FetchFunc[T]) {
	ctx = context.WithoutCancel(ctx)
	go func() {
		if _, err := Read[T](ctx, s, key, fetch); err != nil {
			s.logger.Debug("prefetch failed", "key", key.String(), "error", err)
		}
	}()
}

// Clear wipes the whole cache: the logout path. In-flight fetches are
// orphaned; their results will not be cached.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for ks, g := range s.gens {
		g.gen = s.nextGenLocked()
		s.flight.Forget(ks)
		if g.inflight <= 0 {
			delete(s.gens, ks)
		}
	}
	s.entries = make(map[string]*entry)
	s.lru.Init()
}

// ClearUserScoped drops every kind belonging to the signed-in identity:
// shelf, own reviews, moderation views. Runs on auth failure so the
// next sign-in can never observe the prior user's data.
func (s *Store) ClearUserScoped() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for ks, g := range s.gens {
		if !userScoped[g.key.Kind] {
			continue
		}
		g.gen = s.nextGenLocked()
		s.flight.Forget(ks)
		if e, ok := s.entries[ks]; ok {
			s.lru.Remove(e.lruEl)
			delete(s.entries, ks)
		}
		if g.inflight <= 0 {
			delete(s.gens, ks)
		}
		n++
	}
	return n
}

func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Stats{
		Hits:          s.hits,
		Misses:        s.misses,
		Fetches:       s.fetches,
		Superseded:    s.superseded,
		Invalidations: s.invalidations,
		Evictions:     s.evictions,
		Entries:       len(s.entries),
	}
}
