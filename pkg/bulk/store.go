// Package bulk implements multi-target moderation actions behind a
// single-use, initiator-bound confirmation token.
package bulk

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// TTL is how long a pending action waits for confirmation.
const TTL = 60 * time.Second

// MaxTargets bounds one bulk action.
const MaxTargets = 25

var (
	// ErrNotFound covers both consumed and expired tokens.
	ErrNotFound       = errors.New("this action has expired")
	ErrNotInitiator   = errors.New("only the initiator can confirm this action")
	ErrNoTargets      = errors.New("no valid players provided")
	ErrTooManyTargets = fmt.Errorf("maximum %d players per bulk action", MaxTargets)
	ErrBadButtonID    = errors.New("not a bulk action button")
)

// Type of a bulk action.
type Type string

const (
	Warn           Type = "warn"
	Kick           Type = "kick"
	Ban            Type = "ban"
	Unban          Type = "unban"
	PardonWarnings Type = "pardon-warnings"
	Message        Type = "message"
)

// Title renders the type for embeds ("Pardon-warnings" for the last one,
// matching the subcommand name).
func (t Type) Title() string {
	s := string(t)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Action is a pending bulk action.
type Action struct {
	ID           string
	Type         Type
	Targets      []string
	Reason       string
	Duration     string
	InitiatorID  string
	InitiatorTag string
	ExpiresAt    time.Time
}

// Store holds pending actions in memory. Entries are checked for expiry
// when touched; nothing sweeps them in the background.
type Store struct {
	mu      sync.Mutex
	pending map[string]Action
	now     func() time.Time
	newID   func() string
}

func NewStore() *Store {
	return &Store{
		pending: make(map[string]Action),
		now:     time.Now,
		newID:   func() string { return uuid.NewString()[:8] },
	}
}

// Create stores a and returns its token.
func (s *Store) Create(a Action) Action {
	s.mu.Lock()
	defer s.mu.Unlock()

	a.ID = s.newID()
	for _, taken := s.pending[a.ID]; taken; _, taken = s.pending[a.ID] {
		a.ID = s.newID()
	}
	a.ExpiresAt = s.now().Add(TTL)
	s.pending[a.ID] = a
	return a
}

// Confirm consumes the action for token. A wrong user gets ErrNotInitiator
// and the entry stays in place for the initiator.
func (s *Store) Confirm(token, userID string) (Action, error) {
	return s.take(token, userID)
}

// Cancel discards the action for token under the same rules as Confirm.
func (s *Store) Cancel(token, userID string) error {
	_, err := s.take(token, userID)
	return err
}

func (s *Store) take(token, userID string) (Action, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.pending[token]
	if !ok {
		return Action{}, ErrNotFound
	}
	if !s.now().Before(a.ExpiresAt) {
		delete(s.pending, token)
		return Action{}, ErrNotFound
	}
	if a.InitiatorID != userID {
		return Action{}, ErrNotInitiator
	}
	delete(s.pending, token)
	return a, nil
}

// Len counts stored entries, expired ones included.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// ParseTargets splits a comma separated player list.
func ParseTargets(input string) ([]string, error) {
	var out []string
	for _, p := range strings.Split(input, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	switch {
	case len(out) == 0:
		return nil, ErrNoTargets
	case len(out) > MaxTargets:
		return nil, ErrTooManyTargets
	}
	return out, nil
}

// Button custom ID prefixes.
const (
	ConfirmPrefix = "bulk_confirm_"
	CancelPrefix  = "bulk_cancel_"
)

func ConfirmID(token string) string { return ConfirmPrefix + token }
func CancelID(token string) string  { return CancelPrefix + token }

// ParseButtonID splits a button custom ID into confirm/cancel and token.
func ParseButtonID(customID string) (confirm bool, token string, err error) {
	switch {
	case strings.HasPrefix(customID, ConfirmPrefix):
		token = strings.TrimPrefix(customID, ConfirmPrefix)
		confirm = true
	case strings.HasPrefix(customID, CancelPrefix):
		token = strings.TrimPrefix(customID, CancelPrefix)
	default:
		return false, "", ErrBadButtonID
	}
	if token == "" {
		return false, "", ErrBadButtonID
	}
	return confirm, token, nil
}
