package shelf

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

func TestValidateStatus(t *testing.T) {
	for _, status := range []string{StatusWantToRead, StatusReading, StatusRead} {
		assert.NoError(t, ValidateStatus(status))
	}
	assert.Error(t, ValidateStatus("wishlist"))
	assert.Error(t, ValidateStatus(""))
	assert.Error(t, ValidateStatus("READ"))
}

func TestCanAdd(t *testing.T) {
	tests := []struct {
		name    string
		current string
		target  string
		wantErr error
	}{
		{"absent to want_to_read", StatusAbsent, StatusWantToRead, nil},
		{"absent to reading", StatusAbsent, StatusReading, nil},
		{"absent to read", StatusAbsent, StatusRead, nil},
		{"already shelved", StatusReading, StatusRead, ErrAlreadyShelved},
		{"already shelved same status", StatusRead, StatusRead, ErrAlreadyShelved},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanAdd(tt.current, tt.target)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}

	t.Run("invalid target", func(t *testing.T) {
		assert.Error(t, CanAdd(StatusAbsent, "finished"))
	})
}

func TestCanSetStatus(t *testing.T) {
	present := []string{StatusWantToRead, StatusReading, StatusRead}

	// Any present status may move to any present status.
	for _, from := range present {
		for _, to := range present {
			assert.NoError(t, CanSetStatus(from, to), "%s -> %s", from, to)
		}
	}

	assert.ErrorIs(t, CanSetStatus(StatusAbsent, StatusReading), ErrNotShelved)
	assert.Error(t, CanSetStatus(StatusReading, "finished"))
}

func TestCanRemove(t *testing.T) {
	for _, from := range []string{StatusWantToRead, StatusReading, StatusRead} {
		assert.NoError(t, CanRemove(from))
	}
	assert.ErrorIs(t, CanRemove(StatusAbsent), ErrNotShelved)
}

func TestStatusOf(t *testing.T) {
	items := []entity.LibraryItem{
		{ID: "i1", WorkKey: "/works/OL1W", Status: StatusReading},
		{ID: "i2", WorkKey: "/works/OL2W", Status: StatusRead},
	}

	assert.Equal(t, StatusReading, StatusOf(items, "/works/OL1W"))
	assert.Equal(t, StatusRead, StatusOf(items, "/works/OL2W"))
	assert.Equal(t, StatusAbsent, StatusOf(items, "/works/OL3W"))

	it, ok := ItemFor(items, "/works/OL2W")
	require.True(t, ok)
	assert.Equal(t, "i2", it.ID)
}

func TestServiceListCaches(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockGW := mocks.NewMockGateway(ctrl)
	svc := NewService(store.New(), mockGW)

	items := []entity.LibraryItem{{ID: "i1", UserID: "u1", WorkKey: "/works/OL1W", Status: StatusWantToRead}}
	q := gateway.LibraryQuery{Status: StatusWantToRead}
	mockGW.EXPECT().ListLibrary(gomock.Any(), q).Return(items, nil).Times(1)

	got, err := svc.List(context.Background(), "u1", q)
	require.NoError(t, err)
	assert.Equal(t, items, got)

	// Second read serves from cache; the mock would fail on a second call.
	got, err = svc.List(context.Background(), "u1", q)
	require.NoError(t, err)
	assert.Equal(t, items, got)
}

func TestServiceStatusFor(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockGW := mocks.NewMockGateway(ctrl)
	svc := NewService(store.New(), mockGW)

	items := []entity.LibraryItem{{ID: "i1", UserID: "u1", WorkKey: "/works/OL1W", Status: StatusReading}}
	mockGW.EXPECT().ListLibrary(gomock.Any(), gateway.LibraryQuery{}).Return(items, nil).Times(1)

	status, err := svc.StatusFor(context.Background(), "u1", "/works/OL1W")
	require.NoError(t, err)
	assert.Equal(t, StatusReading, status)

	status, err = svc.StatusFor(context.Background(), "u1", "/works/OL9W")
	require.NoError(t, err)
	assert.Equal(t, StatusAbsent, status)
}
