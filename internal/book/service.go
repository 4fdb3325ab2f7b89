package book

import (
	"context"

	"github.com/psmak4/reprint-ui/internal/entity"
	"github.com/psmak4/reprint-ui/internal/gateway"
	"github.com/psmak4/reprint-ui/internal/rating"
	"github.com/psmak4/reprint-ui/internal/review"
	"github.com/psmak4/reprint-ui/internal/shelf"
	"github.com/psmak4/reprint-ui/internal/store"
)

// Service assembles the book page. Detail reads go through the cache;
// one entry per (work, edition) pair.
type Service struct {
	store   *store.Store
	gw      gateway.Gateway
	shelves *shelf.Service
}

func NewService(st *store.Store, gw gateway.Gateway, shelves *shelf.Service) *Service {
	return &Service{store: st, gw: gw, shelves: shelves}
}

// Get returns the raw book detail. A NotFound from the service surfaces
// as-is; the view renders it as an empty state.
func (s *Service) Get(ctx context.Context, workKey, editionID string) (entity.BookDetail, error) {
	key := store.BookKey(workKey, editionID)
	return store.Read(ctx, s.store, key, func(ctx context.Context) (entity.BookDetail, error) {
		return s.gw.GetBook(ctx, workKey, editionID)
	})
}

// Page assembles the detail view for one viewer. viewerID is empty for
// anonymous browsing, which skips the shelf and own-review lookups. The
// local rating is computed from the approved reviews; the external
// aggregate rides along untouched inside Rating.
func (s *Service) Page(ctx context.Context, viewerID, workKey, editionID string, revealed *review.RevealSet) (Page, error) {
	detail, err := s.Get(ctx, workKey, editionID)
	if err != nil {
		return Page{}, err
	}

	p := Page{
		Book:        detail.Book,
		Rating:      rating.Build(detail.Reviews, detail.Book.Rating),
		Reviews:     review.Render(detail.Reviews, viewerID, revealed),
		ShelfStatus: shelf.StatusAbsent,
	}
	if viewerID == "" {
		return p, nil
	}

	status, err := s.shelves.StatusFor(ctx, viewerID, workKey)
	if err != nil {
		return Page{}, err
	}
	p.ShelfStatus = status
	if own, ok := ownReview(detail.Reviews, viewerID); ok {
		p.OwnReview = &own
	}
	return p, nil
}

// Warm prefetches a book detail, used when navigation to its page is
// imminent, e.g. a hovered search result.
func (s *Service) Warm(ctx context.Context, workKey, editionID string) {
	key := store.BookKey(workKey, editionID)
	store.Prefetch(ctx, s.store, key, func(ctx context.Context) (entity.BookDetail, error) {
		return s.gw.GetBook(ctx, workKey, editionID)
	})
}
