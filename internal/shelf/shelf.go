package shelf

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/psmak4/reprint-ui/internal/entity"
	"github.com/psmak4/reprint-ui/internal/gateway"
	"github.com/psmak4/reprint-ui/internal/store"
)

const (
	StatusWantToRead = "want_to_read"
	StatusReading    = "reading"
	StatusRead       = "read"
)

// StatusAbsent is the no-row state: the work is not on the shelf.
const StatusAbsent = ""

var (
	ErrAlreadyShelved = errors.New("work is already on the shelf")
	ErrNotShelved     = errors.New("work is not on the shelf")
)

func ValidateStatus(status string) error {
	switch status {
	case StatusWantToRead, StatusReading, StatusRead:
		return nil
	default:
		return fmt.Errorf("invalid shelf status: %q", status)
	}
}

// CanAdd guards absent -> target. Adding is only valid when no item
// exists for the work yet; moving an existing item goes through
// CanSetStatus instead.
func CanAdd(current, target string) error {
	if err := ValidateStatus(target); err != nil {
		return err
	}
	if current != StatusAbsent {
		return ErrAlreadyShelved
	}
	return nil
}

// CanSetStatus guards moves among the present states. Any present
// status may move to any other, including read -> want_to_read for a
// planned re-read.
func CanSetStatus(current, target string) error {
	if current == StatusAbsent {
		return ErrNotShelved
	}
	if err := ValidateStatus(current); err != nil {
		return err
	}
	return ValidateStatus(target)
}

// CanRemove guards present -> absent.
func CanRemove(current string) error {
	if current == StatusAbsent {
		return ErrNotShelved
	}
	return ValidateStatus(current)
}

// ItemFor finds the shelf row for one work in a listing.
func ItemFor(items []entity.LibraryItem, workKey string) (entity.LibraryItem, bool) {
	for _, it := range items {
		if it.WorkKey == workKey {
			return it, true
		}
	}
	return entity.LibraryItem{}, false
}

// StatusOf reports the shelf status for one work, StatusAbsent when the
// work is not shelved.
func StatusOf(items []entity.LibraryItem, workKey string) string {
	if it, ok := ItemFor(items, workKey); ok {
		return it.Status
	}
	return StatusAbsent
}

// Service is the shelf view: reads go through the cache, one entry per
// (user, filter/sort) combination.
type Service struct {
	store *store.Store
	gw    gateway.Gateway
}

func NewService(st *store.Store, gw gateway.Gateway) *Service {
	return &Service{store: st, gw: gw}
}

func (s *Service) List(ctx context.Context, userID string, q gateway.LibraryQuery) ([]entity.LibraryItem, error) {
	key := store.LibraryKey(userID, cacheParams(q))
	return store.Read(ctx, s.store, key, func(ctx context.Context) ([]entity.LibraryItem, error) {
		return s.gw.ListLibrary(ctx, q)
	})
}

// StatusFor reports the viewer's shelf status for one work, for the
// own-shelf indicator on the book page.
func (s *Service) StatusFor(ctx context.Context, userID, workKey string) (string, error) {
	items, err := s.List(ctx, userID, gateway.LibraryQuery{})
	if err != nil {
		return StatusAbsent, err
	}
	return StatusOf(items, workKey), nil
}

// Warm prefetches the unfiltered shelf, used right after sign-in when
// the shelf view is imminent.
func (s *Service) Warm(ctx context.Context, userID string) {
	key := store.LibraryKey(userID, "")
	store.Prefetch(ctx, s.store, key, func(ctx context.Context) ([]entity.LibraryItem, error) {
		return s.gw.ListLibrary(ctx, gateway.LibraryQuery{})
	})
}

func cacheParams(q gateway.LibraryQuery) string {
	v := url.Values{}
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	if q.Sort != "" {
		v.Set("sort", q.Sort)
	}
	if q.Order != "" {
		v.Set("order", q.Order)
	}
	return v.Encode()
}
