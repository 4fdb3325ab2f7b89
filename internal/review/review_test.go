package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psmak4/reprint-ui/internal/entity"
)

func TestCanModerate(t *testing.T) {
	assert.NoError(t, CanModerate(StatusPending))
	assert.ErrorIs(t, CanModerate(StatusApproved), ErrNotPending)
	assert.ErrorIs(t, CanModerate(StatusRejected), ErrNotPending)
}

func TestStatusAfterEdit(t *testing.T) {
	// Editing always re-enters moderation, whatever the current status.
	for _, from := range []string{StatusPending, StatusApproved, StatusRejected} {
		assert.Equal(t, StatusPending, StatusAfterEdit(from))
	}
}

func TestVisibleTo(t *testing.T) {
	tests := []struct {
		name     string
		status   string
		authorID string
		viewerID string
		want     bool
	}{
		{"approved visible to anyone", StatusApproved, "author", "someone", true},
		{"pending hidden from others", StatusPending, "author", "someone", false},
		{"rejected hidden from others", StatusRejected, "author", "someone", false},
		{"pending visible to author", StatusPending, "author", "author", true},
		{"rejected visible to author", StatusRejected, "author", "author", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := entity.Review{UserID: tt.authorID, Status: tt.status}
			assert.Equal(t, tt.want, VisibleTo(r, tt.viewerID))
		})
	}
}

func TestRenderConcealsSpoilersForOthers(t *testing.T) {
	spoiler := entity.Review{
		ID:      "r1",
		UserID:  "author",
		Status:  StatusApproved,
		Spoiler: true,
		Content: "the ghola is Duncan",
	}

	t.Run("non-author sees placeholder until revealed", func(t *testing.T) {
		revealed := NewRevealSet()

		views := Render([]entity.Review{spoiler}, "someone", revealed)
		require.Len(t, views, 1)
		assert.True(t, views[0].Concealed)
		assert.Empty(t, views[0].Content)

		revealed.Reveal("r1")
		views = Render([]entity.Review{spoiler}, "someone", revealed)
		require.Len(t, views, 1)
		assert.False(t, views[0].Concealed)
		assert.Equal(t, "the ghola is Duncan", views[0].Content)
	})

	t.Run("author always sees own content", func(t *testing.T) {
		views := Render([]entity.Review{spoiler}, "author", NewRevealSet())
		require.Len(t, views, 1)
		assert.False(t, views[0].Concealed)
		assert.Equal(t, "the ghola is Duncan", views[0].Content)
		assert.True(t, views[0].Own)
	})

	t.Run("reveals do not survive a remount", func(t *testing.T) {
		revealed := NewRevealSet()
		revealed.Reveal("r1")

		// A remounted view builds a fresh set.
		views := Render([]entity.Review{spoiler}, "someone", NewRevealSet())
		require.Len(t, views, 1)
		assert.True(t, views[0].Concealed)
	})
}

func TestRenderDropsInvisibleReviews(t *testing.T) {
	reviews := []entity.Review{
		{ID: "r1", UserID: "author", Status: StatusApproved, Content: "fine"},
		{ID: "r2", UserID: "author", Status: StatusPending, Content: "awaiting"},
		{ID: "r3", UserID: "other", Status: StatusRejected, Content: "gone"},
	}

	t.Run("stranger sees only approved", func(t *testing.T) {
		views := Render(reviews, "stranger", nil)
		require.Len(t, views, 1)
		assert.Equal(t, "r1", views[0].ID)
	})

	t.Run("author sees own pending alongside approved", func(t *testing.T) {
		views := Render(reviews, "author", nil)
		require.Len(t, views, 2)
		assert.Equal(t, "r1", views[0].ID)
		assert.Equal(t, "r2", views[1].ID)
	})

	t.Run("rejected review carries resubmit indicator for its author", func(t *testing.T) {
		views := Render(reviews, "other", nil)
		require.Len(t, views, 2)
		assert.Equal(t, "r3", views[1].ID)
		assert.True(t, views[1].Resubmittable)
	})
}

func TestRevealSet(t *testing.T) {
	s := NewRevealSet()
	assert.False(t, s.Revealed("r1"))

	s.Reveal("r1")
	assert.True(t, s.Revealed("r1"))
	assert.False(t, s.Revealed("r2"))

	s.Conceal("r1")
	assert.False(t, s.Revealed("r1"))

	var nilSet *RevealSet
	assert.False(t, nilSet.Revealed("r1"), "nil set conceals everything")
}
