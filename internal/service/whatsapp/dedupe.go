package whatsapp

import (
	"sync"
	"time"
)

// SeenMessages remembers webhook message IDs for a while.
type SeenMessages struct {
	ttl  time.Duration
	ids  map[string]time.Time
	mu   sync.Mutex
	now  func() time.Time
	last time.Time
}

// NewSeenMessages creates a tracker that forgets IDs after ttl.
func NewSeenMessages(ttl time.Duration) *SeenMessages {
	return &SeenMessages{
		ttl: ttl,
		ids: make(map[string]time.Time),
		now: time.Now,
	}
}

// MarkNew records id and reports whether it had not been seen. Empty IDs are
// always new.
func (s *SeenMessages) MarkNew(id string) bool {
	if id == "" {
		return true
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Sub(s.last) > s.ttl {
		for key, at := range s.ids {
			if now.Sub(at) > s.ttl {
				delete(s.ids, key)
			}
		}
		s.last = now
	}

	if at, ok := s.ids[id]; ok && now.Sub(at) <= s.ttl {
		return false
	}
	s.ids[id] = now
	return true
}
