package review

import (
	"context"
	"net/url"
	"strconv"

	"github.com/psmak4/reprint-ui/internal/entity"
	"github.com/psmak4/reprint-ui/internal/gateway"
	"github.com/psmak4/reprint-ui/internal/store"
)

// QueuePage is one cached moderation queue listing.
type QueuePage struct {
	Reviews []entity.Review
	Total   int
}

// Service serves the own-reviews view and the moderation views, all
// read through the cache.
type Service struct {
	store *store.Store
	gw    gateway.Gateway
}

func NewService(st *store.Store, gw gateway.Gateway) *Service {
	return &Service{store: st, gw: gw}
}

// Own lists the signed-in user's reviews across all works, any status.
func (s *Service) Own(ctx context.Context, userID string) ([]entity.Review, error) {
	key := store.UserReviewsKey(userID)
	return store.Read(ctx, s.store, key, func(ctx context.Context) ([]entity.Review, error) {
		return s.gw.ListOwnReviews(ctx)
	})
}

// OwnFor returns the user's existing review for one work, if any. The
// one-review-per-work invariant makes this the edit target lookup.
func (s *Service) OwnFor(ctx context.Context, userID, workKey string) (entity.Review, bool, error) {
	reviews, err := s.Own(ctx, userID)
	if err != nil {
		return entity.Review{}, false, err
	}
	for _, r := range reviews {
		if r.WorkKey == workKey {
			return r, true, nil
		}
	}
	return entity.Review{}, false, nil
}

// Queue lists the moderation queue for one status filter.
func (s *Service) Queue(ctx context.Context, q gateway.ModerationQuery) (QueuePage, error) {
	key := store.AdminReviewsKey(queueParams(q))
	return store.Read(ctx, s.store, key, func(ctx context.Context) (QueuePage, error) {
		reviews, total, err := s.gw.ListModerationQueue(ctx, q)
		if err != nil {
			return QueuePage{}, err
		}
		return QueuePage{Reviews: reviews, Total: total}, nil
	})
}

// Stats serves the moderation dashboard counters.
func (s *Service) Stats(ctx context.Context) (entity.ModerationStats, error) {
	key := store.AdminStatsKey()
	return store.Read(ctx, s.store, key, func(ctx context.Context) (entity.ModerationStats, error) {
		return s.gw.GetModerationStats(ctx)
	})
}

func queueParams(q gateway.ModerationQuery) string {
	v := url.Values{}
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		v.Set("offset", strconv.Itoa(q.Offset))
	}
	return v.Encode()
}
