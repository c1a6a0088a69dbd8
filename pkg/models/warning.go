package models

import "time"

// Severity of a warning.
const (
	SeverityMinor    = "minor"
	SeverityModerate = "moderate"
	SeveritySevere   = "severe"
)

// Warning categories.
const (
	CategoryBehavior = "behavior"
	CategoryChat     = "chat"
	CategoryCheating = "cheating"
	CategoryGriefing = "griefing"
	CategoryOther    = "other"
)

// UnknownUUID marks a warning issued to a Discord user with no linked account.
const UnknownUUID = "discord-issued"

// Warning is a recorded warning against a player or Discord member.
// Collection: warnings.
type Warning struct {
	ID          string   `bson:"_id" json:"id"`
	CaseNumber  int64    `bson:"caseNumber" json:"caseNumber"`
	UUID        string   `bson:"uuid,omitempty" json:"uuid,omitempty"`
	PlayerName  string   `bson:"playerName,omitempty" json:"playerName,omitempty"`
	Platform    string   `bson:"platform,omitempty" json:"platform,omitempty"`
	WarnedUUIDs []string `bson:"warnedUuids,omitempty" json:"warnedUuids,omitempty"`
	DiscordID   string   `bson:"discordId" json:"discordId"`
	DiscordTag  string   `bson:"discordTag" json:"discordTag"`

	StaffUUID string `bson:"staffUuid,omitempty" json:"staffUuid,omitempty"`
	StaffName string `bson:"staffName" json:"staffName"`
	StaffID   string `bson:"staffId,omitempty" json:"staffId,omitempty"`

	Reason   string `bson:"reason" json:"reason"`
	Severity string `bson:"severity" json:"severity"`
	Category string `bson:"category" json:"category"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`

	Active       bool       `bson:"active" json:"active"`
	RemovedBy    string     `bson:"removedBy,omitempty" json:"removedBy,omitempty"`
	RemovedByTag string     `bson:"removedByTag,omitempty" json:"removedByTag,omitempty"`
	RemovedAt    *time.Time `bson:"removedAt,omitempty" json:"removedAt,omitempty"`
	RemoveReason string     `bson:"removeReason,omitempty" json:"removeReason,omitempty"`

	DMSent bool `bson:"dmSent" json:"dmSent"`
}

// Target returns the most useful display name for the warned player.
func (w *Warning) Target() string {
	if w.PlayerName != "" {
		return w.PlayerName
	}
	if w.DiscordTag != "" {
		return w.DiscordTag
	}
	return w.DiscordID
}
