package review

import (
	"errors"
	"fmt"

	"github.com/psmak4/reprint-ui/internal/entity"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// ErrNotPending guards moderation decisions issued from a stale view:
// approve and reject are only meaningful while a review is pending.
var ErrNotPending = errors.New("review is not pending")

func ValidateStatus(status string) error {
	switch status {
	case StatusPending, StatusApproved, StatusRejected:
		return nil
	default:
		return fmt.Errorf("invalid moderation status: %q", status)
	}
}

// CanModerate guards approve/reject. The server enforces the same rule;
// a Conflict coming back anyway means the queue view was stale.
func CanModerate(current string) error {
	if current != StatusPending {
		return ErrNotPending
	}
	return nil
}

// StatusAfterEdit is the moderation status a review takes when its
// author edits it: always back to pending. A rejected review re-enters
// the queue, an approved one is re-moderated.
func StatusAfterEdit(string) string { return StatusPending }

// VisibleTo reports whether a review may be shown to the viewer at all.
// Authors always see their own regardless of status; everyone else only
// sees approved ones.
func VisibleTo(r entity.Review, viewerID string) bool {
	return r.UserID == viewerID || r.Status == StatusApproved
}

// CanResubmit reports whether the viewer may edit-to-resubmit: the
// "rejected, may resubmit" indicator on the author's own review.
func CanResubmit(r entity.Review, viewerID string) bool {
	return r.UserID == viewerID && r.Status == StatusRejected
}

// View is one render-ready review. While a spoiler stays concealed for
// a non-author the content is withheld entirely, not just blurred.
type View struct {
	entity.Review
	Own           bool
	Concealed     bool
	Resubmittable bool
}

// Render produces the viewer-dependent presentation of a review list:
// reviews the viewer may not see are dropped, spoilers of others are
// concealed until revealed.
func Render(reviews []entity.Review, viewerID string, revealed *RevealSet) []View {
	out := make([]View, 0, len(reviews))
	for _, r := range reviews {
		if !VisibleTo(r, viewerID) {
			continue
		}
		v := View{
			Review:        r,
			Own:           r.UserID == viewerID,
			Resubmittable: CanResubmit(r, viewerID),
		}
		if r.Spoiler && !v.Own && !revealed.Revealed(r.ID) {
			v.Concealed = true
			v.Content = ""
		}
		out = append(out, v)
	}
	return out
}
