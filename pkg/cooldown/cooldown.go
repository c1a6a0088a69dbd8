// Package cooldown rate limits commands per guild member.
package cooldown

import (
	"context"
	"sync"
	"time"
)

// Key identifies one member in one guild.
type Key struct {
	GuildID string
	UserID  string
}

// Store remembers when each key last used a command.
type Store struct {
	mu     sync.Mutex
	window time.Duration
	last   map[Key]time.Time
	now    func() time.Time
}

func New(window time.Duration) *Store {
	return &Store{
		window: window,
		last:   make(map[Key]time.Time),
		now:    time.Now,
	}
}

// Try records a use for key. When key is still cooling down it returns the
// time left and false without recording anything.
func (s *Store) Try(key Key) (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if at, ok := s.last[key]; ok {
		if left := at.Add(s.window).Sub(now); left > 0 {
			return left, false
		}
	}
	s.last[key] = now
	return 0, true
}

// Reset clears key, e.g. after a failed lookup the user should retry at once.
func (s *Store) Reset(key Key) {
	s.mu.Lock()
	delete(s.last, key)
	s.mu.Unlock()
}

// Sweep drops entries whose window has passed and returns how many.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.window)
	n := 0
	for k, at := range s.last {
		if !at.After(cutoff) {
			delete(s.last, k)
			n++
		}
	}
	return n
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.last)
}

// Run sweeps every interval until ctx is done.
func (s *Store) Run(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}
