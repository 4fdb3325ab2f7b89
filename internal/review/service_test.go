package review

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psmak4/reprint-ui/internal/entity"
	"github.com/psmak4/reprint-ui/internal/gateway"
	"github.com/psmak4/reprint-ui/internal/gateway/mocks"
	"github.com/psmak4/reprint-ui/internal/store"
)

func TestOwnCachesPerUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockGW := mocks.NewMockGateway(ctrl)
	svc := NewService(store.New(), mockGW)

	reviews := []entity.Review{{ID: "r1", UserID: "u1", WorkKey: "/works/OL1W", Status: StatusPending}}
	mockGW.EXPECT().ListOwnReviews(gomock.Any()).Return(reviews, nil).Times(1)

	got, err := svc.Own(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, reviews, got)

	got, err = svc.Own(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, reviews, got)
}

func TestOwnFor(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockGW := mocks.NewMockGateway(ctrl)
	svc := NewService(store.New(), mockGW)

	reviews := []entity.Review{
		{ID: "r1", UserID: "u1", WorkKey: "/works/OL1W", Status: StatusApproved},
		{ID: "r2", UserID: "u1", WorkKey: "/works/OL2W", Status: StatusRejected},
	}
	mockGW.EXPECT().ListOwnReviews(gomock.Any()).Return(reviews, nil).Times(1)

	r, ok, err := svc.OwnFor(context.Background(), "u1", "/works/OL2W")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "r2", r.ID)

	_, ok, err = svc.OwnFor(context.Background(), "u1", "/works/OL9W")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestQueueCachesPerFilter(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockGW := mocks.NewMockGateway(ctrl)
	svc := NewService(store.New(), mockGW)

	pending := []entity.Review{{ID: "r1", Status: StatusPending}}
	rejected := []entity.Review{{ID: "r2", Status: StatusRejected}}

	mockGW.EXPECT().ListModerationQueue(gomock.Any(), gateway.ModerationQuery{Status: StatusPending}).
		Return(pending, 1, nil).Times(1)
	mockGW.EXPECT().ListModerationQueue(gomock.Any(), gateway.ModerationQuery{Status: StatusRejected}).
		Return(rejected, 1, nil).Times(1)

	page, err := svc.Queue(context.Background(), gateway.ModerationQuery{Status: StatusPending})
	require.NoError(t, err)
	assert.Equal(t, pending, page.Reviews)
	assert.Equal(t, 1, page.Total)

	// Different filter, different cache entry.
	page, err = svc.Queue(context.Background(), gateway.ModerationQuery{Status: StatusRejected})
	require.NoError(t, err)
	assert.Equal(t, rejected, page.Reviews)

	// Same filter again serves from cache.
	page, err = svc.Queue(context.Background(), gateway.ModerationQuery{Status: StatusPending})
	require.NoError(t, err)
	assert.Equal(t, pending, page.Reviews)
}

func TestStatsCached(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockGW := mocks.NewMockGateway(ctrl)
	svc := NewService(store.New(), mockGW)

	stats := entity.ModerationStats{Pending: 3, Approved: 10, Rejected: 2, Total: 15}
	mockGW.EXPECT().GetModerationStats(gomock.Any()).Return(stats, nil).Times(1)

	got, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, stats, got)

	got, err = svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, stats, got)
}
