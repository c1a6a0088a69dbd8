package models

import "time"

// Ban is a plugin-level Minecraft ban, written by bulk actions and read by
// the game server. Collection: bans.
type Ban struct {
	ID         string `bson:"_id" json:"id"`
	CaseNumber int64  `bson:"caseNumber" json:"caseNumber"`
	UUID       string `bson:"uuid" json:"uuid"`
	PlayerName string `bson:"playerName" json:"playerName"`
	StaffUUID  string `bson:"staffUuid,omitempty" json:"staffUuid,omitempty"`
	StaffName  string `bson:"staffName" json:"staffName"`
	Reason     string `bson:"reason" json:"reason"`

	CreatedAt    time.Time  `bson:"createdAt" json:"createdAt"`
	Active       bool       `bson:"active" json:"active"`
	RemovedBy    string     `bson:"removedBy,omitempty" json:"removedBy,omitempty"`
	RemovedAt    *time.Time `bson:"removedAt,omitempty" json:"removedAt,omitempty"`
	RemoveReason string     `bson:"removeReason,omitempty" json:"removeReason,omitempty"`

	// Duration in milliseconds; nil for permanent bans.
	Duration  *int64     `bson:"duration,omitempty" json:"duration,omitempty"`
	ExpiresAt *time.Time `bson:"expiresAt,omitempty" json:"expiresAt,omitempty"`
}
