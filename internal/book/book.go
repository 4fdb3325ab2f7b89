package book

import (
	"github.com/psmak4/reprint-ui/internal/entity"
	"github.com/psmak4/reprint-ui/internal/rating"
	"github.com/psmak4/reprint-ui/internal/review"
	"github.com/psmak4/reprint-ui/internal/shelf"
)

// Page is the assembled book-detail read model: the catalog record, both
// rating signals side by side, the rendered review list for this viewer,
// and the viewer's own relationship to the work.
type Page struct {
	Book        entity.Book
	Rating      rating.Model
	Reviews     []review.View
	ShelfStatus string
	OwnReview   *entity.Review
}

// Shelved reports whether the viewer has the work on their shelf.
func (p Page) Shelved() bool {
	return p.ShelfStatus != shelf.StatusAbsent
}

func ownReview(reviews []entity.Review, viewerID string) (entity.Review, bool) {
	for _, r := range reviews {
		if r.UserID == viewerID {
			return r, true
		}
	}
	return entity.Review{}, false
}
