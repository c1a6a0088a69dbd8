package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/NewLifeSMP/NewLifeBotGo/pkg/logger"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/models"
)

const (
	MuteExpiryTask  = "mute-expiry"
	muteExpiryEvery = time.Minute
)

// ExpiringMutes finds and closes mutes whose timeout has run out.
type ExpiringMutes interface {
	Expired(ctx context.Context, now time.Time) ([]models.Mute, error)
	Expire(ctx context.Context, id string, at time.Time) error
}

// MuteExpiry marks mute records inactive once Discord has lifted the
// timeout on its own.
type MuteExpiry struct {
	store ExpiringMutes
	now   func() time.Time
}

func NewMuteExpiry(store ExpiringMutes) *MuteExpiry {
	return &MuteExpiry{store: store, now: time.Now}
}

func (m *MuteExpiry) Task(ctx context.Context) error {
	_, err := m.Sweep(ctx)
	return err
}

// Sweep expires every overdue mute and returns how many it closed.
func (m *MuteExpiry) Sweep(ctx context.Context) (int, error) {
	now := m.now()
	due, err := m.store.Expired(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("list expired mutes: %w", err)
	}
	n := 0
	for _, mute := range due {
		if err := m.store.Expire(ctx, mute.ID, now); err != nil {
			logger.Warn(fmt.Sprintf("Could not expire mute %s: %v", mute.ID, err), "Mutes")
			continue
		}
		n++
	}
	if n > 0 {
		logger.Info(fmt.Sprintf("Expired %d mute(s)", n), "Mutes")
	}
	return n, nil
}
