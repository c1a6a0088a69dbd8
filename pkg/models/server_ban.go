package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/NewLifeSMP/NewLifeBotGo/pkg/duration"
)

// ServerBan bans a player and every Minecraft account linked to the same
// Discord user. Collection: server_bans.
type ServerBan struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CaseNumber int64              `bson:"caseNumber" json:"caseNumber"`

	PrimaryUUID     string   `bson:"primaryUuid" json:"primaryUuid"`
	PrimaryUsername string   `bson:"primaryUsername" json:"primaryUsername"`
	PrimaryPlatform string   `bson:"primaryPlatform" json:"primaryPlatform"`
	BannedUUIDs     []string `bson:"bannedUuids" json:"bannedUuids"`

	DiscordID  string `bson:"discordId,omitempty" json:"discordId,omitempty"`
	DiscordTag string `bson:"discordTag,omitempty" json:"discordTag,omitempty"`

	Reason      string     `bson:"reason" json:"reason"`
	Duration    string     `bson:"duration" json:"duration"`
	IsPermanent bool       `bson:"isPermanent" json:"isPermanent"`
	BannedAt    time.Time  `bson:"bannedAt" json:"bannedAt"`
	ExpiresAt   *time.Time `bson:"expiresAt,omitempty" json:"expiresAt,omitempty"`

	StaffID  string `bson:"staffId" json:"staffId"`
	StaffTag string `bson:"staffTag" json:"staffTag"`

	Active        bool       `bson:"active" json:"active"`
	UnbannedAt    *time.Time `bson:"unbannedAt,omitempty" json:"unbannedAt,omitempty"`
	UnbannedBy    string     `bson:"unbannedBy,omitempty" json:"unbannedBy,omitempty"`
	UnbannedByTag string     `bson:"unbannedByTag,omitempty" json:"unbannedByTag,omitempty"`
	UnbanReason   string     `bson:"unbanReason,omitempty" json:"unbanReason,omitempty"`
}

// IsExpired reports whether a temporary ban has run out at now.
func (b *ServerBan) IsExpired(now time.Time) bool {
	if b.IsPermanent || b.ExpiresAt == nil {
		return false
	}
	return now.After(*b.ExpiresAt)
}

// Remaining renders the time left on the ban.
func (b *ServerBan) Remaining(now time.Time) string {
	if b.IsPermanent {
		return "Permanent"
	}
	if b.ExpiresAt == nil {
		return "Unknown"
	}
	return duration.Remaining(*b.ExpiresAt, now)
}
