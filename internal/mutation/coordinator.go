// Package mutation executes writes against the remote service and keeps
// the cache honest afterwards. Every operation declares up front which
// key families it dirties; the coordinator applies those invalidations
// synchronously with mutation success, before control returns to the
// view, so no later read can serve pre-mutation state.
package mutation

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/psmak4/reprint-ui/internal/entity"
	"github.com/psmak4/reprint-ui/internal/gateway"
	"github.com/psmak4/reprint-ui/internal/review"
	"github.com/psmak4/reprint-ui/internal/shelf"
	"github.com/psmak4/reprint-ui/internal/store"
)

type Op string

const (
	OpAddToShelf      Op = "shelf.add"
	OpSetShelfStatus  Op = "shelf.set_status"
	OpRemoveFromShelf Op = "shelf.remove"
	OpSubmitReview    Op = "review.submit"
	OpDeleteReview    Op = "review.delete"
	OpApproveReview   Op = "review.approve"
	OpRejectReview    Op = "review.reject"
)

// Scope is one cache key family an operation dirties.
type Scope int

const (
	// ScopeActorLibrary covers every shelf listing of the acting user,
	// filtered and sorted variants included.
	ScopeActorLibrary Scope = iota
	// ScopeBook covers the book detail of the affected work, all edition
	// variants. Shelf mutations dirty it because the book page renders
	// the viewer's shelf status; review mutations because it embeds the
	// review list and local aggregate.
	ScopeBook
	// ScopeOwnReviews is the acting user's own-reviews listing.
	ScopeOwnReviews
	// ScopeAdminReviews covers the moderation queue, all filter pages.
	ScopeAdminReviews
	// ScopeAdminStats is the moderation counters card.
	ScopeAdminStats
)

// invalidationTable declares, per operation, every key family whose data
// could have changed as a side effect. A family missing here shows up as
// a silently stale view, so the table errs on the wide side: review
// submits and deletes always dirty the moderation views because a submit
// lands the review back in pending and a delete removes a queue row.
// Moderation decisions dirty only catalog and admin families; the
// author's own caches live in the author's session, out of reach from
// the moderator's.
var invalidationTable = map[Op][]Scope{
	OpAddToShelf:      {ScopeActorLibrary, ScopeBook},
	OpSetShelfStatus:  {ScopeActorLibrary, ScopeBook},
	OpRemoveFromShelf: {ScopeActorLibrary, ScopeBook},
	OpSubmitReview:    {ScopeBook, ScopeOwnReviews, ScopeAdminReviews, ScopeAdminStats},
	OpDeleteReview:    {ScopeBook, ScopeOwnReviews, ScopeAdminReviews, ScopeAdminStats},
	OpApproveReview:   {ScopeAdminReviews, ScopeAdminStats, ScopeBook},
	OpRejectReview:    {ScopeAdminReviews, ScopeAdminStats, ScopeBook},
}

// ErrMutationPending means another write for the same item is still in
// flight; the view keeps the control disabled and retries after it
// settles.
var ErrMutationPending = errors.New("mutation already in flight for this item")

// Coordinator is the single write path of the session. Views never call
// the gateway or touch the store directly for writes.
type Coordinator struct {
	store   *store.Store
	gw      gateway.Gateway
	shelves *shelf.Service
	reviews *review.Service
	logger  *slog.Logger

	mu      sync.Mutex
	pending map[string]struct{}
}

func NewCoordinator(st *store.Store, gw gateway.Gateway, shelves *shelf.Service, reviews *review.Service, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		store:   st,
		gw:      gw,
		shelves: shelves,
		reviews: reviews,
		logger:  logger,
		pending: make(map[string]struct{}),
	}
}

func (c *Coordinator) begin(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, busy := c.pending[key]; busy {
		return ErrMutationPending
	}
	c.pending[key] = struct{}{}
	return nil
}

func (c *Coordinator) end(key string) {
	c.mu.Lock()
	delete(c.pending, key)
	c.mu.Unlock()
}

// AddToShelf creates the (user, work) pairing. Only valid when the work
// is not shelved yet; moving an existing item goes through
// SetShelfStatus.
func (c *Coordinator) AddToShelf(ctx context.Context, userID, workKey, status string) (entity.LibraryItem, error) {
	if details := ValidateStruct(shelfInput{WorkKey: workKey, Status: status}); details != nil {
		return entity.LibraryItem{}, validationError(details)
	}
	pk := "shelf:" + userID + ":" + workKey
	if err := c.begin(pk); err != nil {
		return entity.LibraryItem{}, err
	}
	defer c.end(pk)

	current, err := c.shelves.StatusFor(ctx, userID, workKey)
	if err != nil {
		return entity.LibraryItem{}, err
	}
	if err := shelf.CanAdd(current, status); err != nil {
		return entity.LibraryItem{}, err
	}

	item, err := c.gw.CreateLibraryItem(ctx, workKey, status)
	if err != nil {
		return entity.LibraryItem{}, err
	}

	c.patchShelfAdd(userID, item)
	c.invalidate(OpAddToShelf, userID, workKey)
	return item, nil
}

// SetShelfStatus moves an existing item among the present states.
func (c *Coordinator) SetShelfStatus(ctx context.Context, userID, workKey, status string) (entity.LibraryItem, error) {
	if details := ValidateStruct(shelfInput{WorkKey: workKey, Status: status}); details != nil {
		return entity.LibraryItem{}, validationError(details)
	}
	pk := "shelf:" + userID + ":" + workKey
	if err := c.begin(pk); err != nil {
		return entity.LibraryItem{}, err
	}
	defer c.end(pk)

	items, err := c.shelves.List(ctx, userID, gateway.LibraryQuery{})
	if err != nil {
		return entity.LibraryItem{}, err
	}
	item, ok := shelf.ItemFor(items, workKey)
	current := shelf.StatusAbsent
	if ok {
		current = item.Status
	}
	if err := shelf.CanSetStatus(current, status); err != nil {
		return entity.LibraryItem{}, err
	}

	updated, err := c.gw.UpdateLibraryItem(ctx, item.ID, status)
	if err != nil {
		return entity.LibraryItem{}, err
	}

	c.patchShelfRow(userID, updated)
	c.invalidate(OpSetShelfStatus, userID, workKey)
	return updated, nil
}

// RemoveFromShelf destroys the item, returning the work to absent.
func (c *Coordinator) RemoveFromShelf(ctx context.Context, userID, workKey string) error {
	pk := "shelf:" + userID + ":" + workKey
	if err := c.begin(pk); err != nil {
		return err
	}
	defer c.end(pk)

	items, err := c.shelves.List(ctx, userID, gateway.LibraryQuery{})
	if err != nil {
		return err
	}
	item, ok := shelf.ItemFor(items, workKey)
	current := shelf.StatusAbsent
	if ok {
		current = item.Status
	}
	if err := shelf.CanRemove(current); err != nil {
		return err
	}

	if err := c.gw.DeleteLibraryItem(ctx, item.ID); err != nil {
		return err
	}

	c.patchShelfRemove(userID, item.ID)
	c.invalidate(OpRemoveFromShelf, userID, workKey)
	return nil
}

// SubmitReview is the single create-or-update path for the user's review
// of a work. It looks up the existing review for the (user, work) pair
// and edits it in place when one exists, so a second submit can never
// produce a duplicate. The service resets edited reviews to pending.
func (c *Coordinator) SubmitReview(ctx context.Context, userID string, draft gateway.ReviewDraft) (entity.Review, error) {
	if details := ValidateStruct(reviewInput{WorkKey: draft.WorkKey, Rating: draft.Rating, Content: draft.Content}); details != nil {
		return entity.Review{}, validationError(details)
	}
	pk := "review:" + userID + ":" + draft.WorkKey
	if err := c.begin(pk); err != nil {
		return entity.Review{}, err
	}
	defer c.end(pk)

	existing, found, err := c.reviews.OwnFor(ctx, userID, draft.WorkKey)
	if err != nil {
		return entity.Review{}, err
	}

	var saved entity.Review
	if found {
		saved, err = c.gw.UpdateReview(ctx, existing.ID, draft)
	} else {
		saved, err = c.gw.CreateReview(ctx, draft)
	}
	if err != nil {
		return entity.Review{}, err
	}

	c.patchOwnReviewUpsert(userID, saved)
	c.invalidate(OpSubmitReview, userID, draft.WorkKey)
	return saved, nil
}

// DeleteReview removes the user's own review. The caller passes the row
// it rendered; the service enforces ownership.
func (c *Coordinator) DeleteReview(ctx context.Context, userID string, r entity.Review) error {
	pk := "review:" + userID + ":" + r.WorkKey
	if err := c.begin(pk); err != nil {
		return err
	}
	defer c.end(pk)

	if err := c.gw.DeleteReview(ctx, r.ID); err != nil {
		return err
	}

	c.patchOwnReviewRemove(userID, r.ID)
	c.invalidate(OpDeleteReview, userID, r.WorkKey)
	return nil
}

// ApproveReview publishes a pending review. Only valid from pending; a
// review moderated elsewhere in the meantime comes back as a conflict.
func (c *Coordinator) ApproveReview(ctx context.Context, r entity.Review) (entity.Review, error) {
	return c.moderate(ctx, r, OpApproveReview, c.gw.ApproveReview)
}

// RejectReview sends a pending review back to its author.
func (c *Coordinator) RejectReview(ctx context.Context, r entity.Review) (entity.Review, error) {
	return c.moderate(ctx, r, OpRejectReview, c.gw.RejectReview)
}

func (c *Coordinator) moderate(ctx context.Context, r entity.Review, op Op, call func(context.Context, string) (entity.Review, error)) (entity.Review, error) {
	if err := review.CanModerate(r.Status); err != nil {
		return entity.Review{}, err
	}
	pk := "moderate:" + r.ID
	if err := c.begin(pk); err != nil {
		return entity.Review{}, err
	}
	defer c.end(pk)

	moderated, err := call(ctx, r.ID)
	if err != nil {
		if gateway.IsConflict(err) {
			// The queue row we decided on was stale. Refresh the
			// moderation views so the next read shows reality.
			c.invalidate(op, "", r.WorkKey)
		}
		return entity.Review{}, err
	}

	c.invalidate(op, "", r.WorkKey)
	return moderated, nil
}

func (c *Coordinator) invalidate(op Op, actorID, workKey string) {
	n := 0
	for _, scope := range invalidationTable[op] {
		switch scope {
		case ScopeActorLibrary:
			n += c.store.Invalidate(store.ByKindID(store.KindLibrary, actorID))
		case ScopeBook:
			n += c.store.Invalidate(store.ByKindID(store.KindBook, workKey))
		case ScopeOwnReviews:
			n += c.store.Invalidate(store.ByKindID(store.KindUserReviews, actorID))
		case ScopeAdminReviews:
			n += c.store.Invalidate(store.ByKind(store.KindAdminReviews))
		case ScopeAdminStats:
			n += c.store.Invalidate(store.ByKind(store.KindAdminStats))
		}
	}
	c.logger.Debug("cache invalidated", "op", string(op), "entries", n)
}

// Optimistic patches below edit identity-level rows the user owns, so a
// redraw shows the change before the authoritative refetch lands. They
// never touch server-derived fields, and the entries stay marked stale.
// Cached slices are shared with readers, so every patch builds a fresh
// one.

// patchShelfAdd appends the new row to the unfiltered shelf listing.
// Filtered and sorted variants are left to the refetch, where membership
// and position are the service's call.
func (c *Coordinator) patchShelfAdd(userID string, item entity.LibraryItem) {
	store.Patch(c.store, store.LibraryKey(userID, ""), func(items []entity.LibraryItem) []entity.LibraryItem {
		for _, it := range items {
			if it.ID == item.ID {
				return items
			}
		}
		next := make([]entity.LibraryItem, len(items), len(items)+1)
		copy(next, items)
		return append(next, item)
	})
}

func (c *Coordinator) patchShelfRow(userID string, item entity.LibraryItem) {
	store.PatchMatching(c.store, store.ByKindID(store.KindLibrary, userID), func(items []entity.LibraryItem) []entity.LibraryItem {
		next := make([]entity.LibraryItem, len(items))
		copy(next, items)
		for i := range next {
			if next[i].ID == item.ID {
				next[i] = item
			}
		}
		return next
	})
}

func (c *Coordinator) patchShelfRemove(userID, itemID string) {
	store.PatchMatching(c.store, store.ByKindID(store.KindLibrary, userID), func(items []entity.LibraryItem) []entity.LibraryItem {
		next := make([]entity.LibraryItem, 0, len(items))
		for _, it := range items {
			if it.ID != itemID {
				next = append(next, it)
			}
		}
		return next
	})
}

func (c *Coordinator) patchOwnReviewUpsert(userID string, r entity.Review) {
	store.Patch(c.store, store.UserReviewsKey(userID), func(reviews []entity.Review) []entity.Review {
		next := make([]entity.Review, len(reviews), len(reviews)+1)
		copy(next, reviews)
		for i := range next {
			if next[i].ID == r.ID {
				next[i] = r
				return next
			}
		}
		return append(next, r)
	})
}

func (c *Coordinator) patchOwnReviewRemove(userID, reviewID string) {
	store.Patch(c.store, store.UserReviewsKey(userID), func(reviews []entity.Review) []entity.Review {
		next := make([]entity.Review, 0, len(reviews))
		for _, r := range reviews {
			if r.ID != reviewID {
				next = append(next, r)
			}
		}
		return next
	})
}
