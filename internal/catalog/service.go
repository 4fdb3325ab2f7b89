package catalog

import (
	"context"
	"net/url"
	"strconv"

	"github.com/psmak4/reprint-ui/internal/entity"
	"github.com/psmak4/reprint-ui/internal/gateway"
	"github.com/psmak4/reprint-ui/internal/store"
)

// Service is the catalog browse view: search, trending and author pages.
// All reads go through the cache; catalog entries age out on the store's
// staleness window since the upstream data changes rarely.
type Service struct {
	store *store.Store
	gw    gateway.Gateway
}

func NewService(st *store.Store, gw gateway.Gateway) *Service {
	return &Service{store: st, gw: gw}
}

// Search runs a text search. Each (text, limit, offset) combination is
// its own cache entry, so paging back and forth never refetches.
func (s *Service) Search(ctx context.Context, q gateway.SearchQuery) (gateway.SearchResult, error) {
	key := store.SearchKey(searchParams(q))
	return store.Read(ctx, s.store, key, func(ctx context.Context) (gateway.SearchResult, error) {
		return s.gw.Search(ctx, q)
	})
}

func (s *Service) Trending(ctx context.Context, period string) ([]entity.TrendingBook, error) {
	if err := ValidatePeriod(period); err != nil {
		return nil, err
	}
	key := store.TrendingKey(period)
	return store.Read(ctx, s.store, key, func(ctx context.Context) ([]entity.TrendingBook, error) {
		return s.gw.GetTrending(ctx, period)
	})
}

func (s *Service) Author(ctx context.Context, authorKey string) (entity.Author, error) {
	key := store.AuthorKey(authorKey)
	return store.Read(ctx, s.store, key, func(ctx context.Context) (entity.Author, error) {
		return s.gw.GetAuthor(ctx, authorKey)
	})
}

func searchParams(q gateway.SearchQuery) string {
	v := url.Values{}
	v.Set("q", q.Text)
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		v.Set("offset", strconv.Itoa(q.Offset))
	}
	return v.Encode()
}
