package review

import "sync"

// RevealSet tracks which spoiler reviews the viewer has opened. Client
// local and never persisted: a remounted view starts a fresh set, so
// everything is concealed again.
type RevealSet struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

func NewRevealSet() *RevealSet {
	return &RevealSet{ids: make(map[string]struct{})}
}

func (s *RevealSet) Reveal(reviewID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids[reviewID] = struct{}{}
}

func (s *RevealSet) Conceal(reviewID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.ids, reviewID)
}

// Revealed is nil-safe: with no set at all everything stays concealed.
func (s *RevealSet) Revealed(reviewID string) bool {
	if s == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[reviewID]
	return ok
}
