package mqtt

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/NewLifeSMP/NewLifeBotGo/pkg/database"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/models"
)

// BanLookupTopic is answered with the active server ban of a player.
const BanLookupTopic = "lookup/ban"

// BanFinder reads active server bans.
type BanFinder interface {
	FindActive(ctx context.Context, uuid string, now time.Time) (*models.ServerBan, error)
	FindActiveByUsername(ctx context.Context, name string) (*models.ServerBan, error)
}

// BanStatus is the reply to a ban lookup.
type BanStatus struct {
	Banned     bool       `json:"banned"`
	CaseNumber int64      `json:"caseNumber,omitempty"`
	Reason     string     `json:"reason,omitempty"`
	Permanent  bool       `json:"permanent,omitempty"`
	ExpiresAt  *time.Time `json:"expiresAt,omitempty"`
	StaffTag   string     `json:"staffTag,omitempty"`
}

// BanLookup answers "is this player banned" for a uuid or username.
func BanLookup(bans BanFinder, now func() time.Time) RequestHandler {
	return func(payload map[string]interface{}) (interface{}, error) {
		uuid, _ := payload["uuid"].(string)
		name, _ := payload["username"].(string)
		uuid, name = strings.TrimSpace(uuid), strings.TrimSpace(name)
		if uuid == "" && name == "" {
			return nil, errors.New("uuid or username is required")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var (
			ban *models.ServerBan
			err error
		)
		if uuid != "" {
			ban, err = bans.FindActive(ctx, uuid, now())
		} else {
			ban, err = bans.FindActiveByUsername(ctx, name)
		}
		switch {
		case errors.Is(err, database.ErrNotFound):
			return BanStatus{}, nil
		case err != nil:
			return nil, fmt.Errorf("ban lookup failed: %w", err)
		}
		if ban.IsExpired(now()) {
			return BanStatus{}, nil
		}
		return BanStatus{
			Banned:     true,
			CaseNumber: ban.CaseNumber,
			Reason:     ban.Reason,
			Permanent:  ban.IsPermanent,
			ExpiresAt:  ban.ExpiresAt,
			StaffTag:   ban.StaffTag,
		}, nil
	}
}
