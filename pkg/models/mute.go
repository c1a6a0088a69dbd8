package models

import "time"

// Mute records a Discord timeout issued by staff. Collection: mutes.
type Mute struct {
	ID         string `bson:"_id" json:"id"`
	CaseNumber int64  `bson:"caseNumber" json:"caseNumber"`

	DiscordID  string `bson:"discordId" json:"discordId"`
	DiscordTag string `bson:"discordTag,omitempty" json:"discordTag,omitempty"`

	UUID       string `bson:"uuid,omitempty" json:"uuid,omitempty"`
	PlayerName string `bson:"playerName,omitempty" json:"playerName,omitempty"`
	Platform   string `bson:"platform,omitempty" json:"platform,omitempty"`

	Reason     string `bson:"reason" json:"reason"`
	Duration   string `bson:"duration" json:"duration"`
	DurationMs int64  `bson:"durationMs" json:"durationMs"`

	CreatedAt time.Time  `bson:"createdAt" json:"createdAt"`
	ExpiresAt *time.Time `bson:"expiresAt,omitempty" json:"expiresAt,omitempty"`

	StaffID   string `bson:"staffId" json:"staffId"`
	StaffName string `bson:"staffName,omitempty" json:"staffName,omitempty"`

	Active bool `bson:"active" json:"active"`
	DMSent bool `bson:"dmSent" json:"dmSent"`

	UnmutedAt    *time.Time `bson:"unmutedAt,omitempty" json:"unmutedAt,omitempty"`
	UnmutedBy    string     `bson:"unmutedBy,omitempty" json:"unmutedBy,omitempty"`
	UnmutedByTag string     `bson:"unmutedByTag,omitempty" json:"unmutedByTag,omitempty"`
}
