package models

import "time"

// InfractionType is the kind of staff infraction.
type InfractionType string

const (
	InfractionTermination InfractionType = "termination"
	InfractionWarning     InfractionType = "warning"
	InfractionNotice      InfractionType = "notice"
	InfractionStrike      InfractionType = "strike"
)

// InfractionTypes lists the valid types in display order.
var InfractionTypes = []InfractionType{InfractionTermination, InfractionWarning, InfractionNotice, InfractionStrike}

// Valid reports whether t is a known type.
func (t InfractionType) Valid() bool {
	for _, v := range InfractionTypes {
		if v == t {
			return true
		}
	}
	return false
}

// Color is the embed color used for the type.
func (t InfractionType) Color() int {
	switch t {
	case InfractionTermination:
		return 0x8B0000
	case InfractionWarning:
		return 0xFF4500
	case InfractionNotice:
		return 0xFFD700
	case InfractionStrike:
		return 0xDC143C
	default:
		return 0x808080
	}
}

// Label is the title-cased type.
func (t InfractionType) Label() string {
	switch t {
	case InfractionTermination:
		return "Termination"
	case InfractionWarning:
		return "Warning"
	case InfractionNotice:
		return "Notice"
	case InfractionStrike:
		return "Strike"
	default:
		return string(t)
	}
}

// Infraction is a disciplinary record against a staff member.
// Collection: infractions.
type Infraction struct {
	ID         string `bson:"_id" json:"id"`
	CaseNumber int64  `bson:"caseNumber" json:"caseNumber"`

	TargetID  string `bson:"targetId" json:"targetId"`
	TargetTag string `bson:"targetTag" json:"targetTag"`

	IssuerID       string `bson:"issuerId" json:"issuerId"`
	IssuerTag      string `bson:"issuerTag" json:"issuerTag"`
	IssuerNickname string `bson:"issuerNickname,omitempty" json:"issuerNickname,omitempty"`

	Type   InfractionType `bson:"type" json:"type"`
	Reason string         `bson:"reason" json:"reason"`

	Active    bool       `bson:"active" json:"active"`
	RevokedBy string     `bson:"revokedBy,omitempty" json:"revokedBy,omitempty"`
	RevokedAt *time.Time `bson:"revokedAt,omitempty" json:"revokedAt,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	GuildID   string    `bson:"guildId" json:"guildId"`
}
