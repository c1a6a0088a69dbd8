package models

import "time"

// Kick records a proxy kick. RCONExecuted is false when the kick command
// could not be delivered. Collection: kicks.
type Kick struct {
	ID         string `bson:"_id" json:"id"`
	CaseNumber int64  `bson:"caseNumber,omitempty" json:"caseNumber,omitempty"`

	PrimaryUUID     string `bson:"primaryUuid" json:"primaryUuid"`
	PrimaryUsername string `bson:"primaryUsername" json:"primaryUsername"`
	PrimaryPlatform string `bson:"primaryPlatform" json:"primaryPlatform"`

	DiscordID  string `bson:"discordId,omitempty" json:"discordId,omitempty"`
	DiscordTag string `bson:"discordTag,omitempty" json:"discordTag,omitempty"`

	Reason   string `bson:"reason" json:"reason"`
	StaffID  string `bson:"staffId" json:"staffId"`
	StaffTag string `bson:"staffTag" json:"staffTag"`

	KickedAt     time.Time `bson:"kickedAt" json:"kickedAt"`
	RCONExecuted bool      `bson:"rconExecuted" json:"rconExecuted"`
}
