package gateway

import (
	"context"

	"github.com/psmak4/reprint-ui/internal/entity"
)

// Gateway is the typed boundary to the remote API. Callers never see
// URLs, status codes or wire envelopes; failures come back as *Error.
// User scoping is implicit: the transport attaches the signed-in
// credential and the server resolves "me" from it.
type Gateway interface {
	Search(ctx context.Context, q SearchQuery) (SearchResult, error)
	GetBook(ctx context.Context, workKey, editionID string) (entity.BookDetail, error)
	GetAuthor(ctx context.Context, authorKey string) (entity.Author, error)
	GetTrending(ctx context.Context, period string) ([]entity.TrendingBook, error)

	ListLibrary(ctx context.Context, q LibraryQuery) ([]entity.LibraryItem, error)
	CreateLibraryItem(ctx context.Context, workKey, status string) (entity.LibraryItem, error)
	UpdateLibraryItem(ctx context.Context, itemID, status string) (entity.LibraryItem, error)
	DeleteLibraryItem(ctx context.Context, itemID string) error

	ListOwnReviews(ctx context.Context) ([]entity.Review, error)
	CreateReview(ctx context.Context, in ReviewDraft) (entity.Review, error)
	UpdateReview(ctx context.Context, reviewID string, in ReviewDraft) (entity.Review, error)
	DeleteReview(ctx context.Context, reviewID string) error

	ListModerationQueue(ctx context.Context, q ModerationQuery) ([]entity.Review, int, error)
	ApproveReview(ctx context.Context, reviewID string) (entity.Review, error)
	RejectReview(ctx context.Context, reviewID string) (entity.Review, error)
	GetModerationStats(ctx context.Context) (entity.ModerationStats, error)
}

type SearchQuery struct {
	Text   string
	Limit  int
	Offset int
}

type SearchResult struct {
	Books  []entity.Book
	Total  int
	Limit  int
	Offset int
}

type LibraryQuery struct {
	Status string // empty = all statuses
	Sort   string // created_at, updated_at, title
	Order  string // asc, desc
}

// ReviewDraft is the writable part of a review. WorkKey is ignored on
// update; a review never moves between works.
type ReviewDraft struct {
	WorkKey string
	Rating  int
	Content string
	Spoiler bool
}

type ModerationQuery struct {
	Status string // empty = all statuses
	Limit  int
	Offset int
}
