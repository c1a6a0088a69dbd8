package models

import "time"

// Fine is an in-game payment owed by a player. Collection: fines.
type Fine struct {
	ID         string `bson:"_id" json:"id"`
	CaseNumber int64  `bson:"caseNumber" json:"caseNumber"`
	UUID       string `bson:"uuid" json:"uuid"`
	PlayerName string `bson:"playerName" json:"playerName"`
	DiscordID  string `bson:"discordId,omitempty" json:"discordId,omitempty"`
	StaffUUID  string `bson:"staffUuid,omitempty" json:"staffUuid,omitempty"`
	StaffName  string `bson:"staffName" json:"staffName"`
	Amount     string `bson:"amount" json:"amount"`
	Note       string `bson:"note,omitempty" json:"note,omitempty"`

	CreatedAt time.Time  `bson:"createdAt" json:"createdAt"`
	DueAt     *time.Time `bson:"dueAt,omitempty" json:"dueAt,omitempty"`

	Paid   bool       `bson:"paid" json:"paid"`
	PaidBy string     `bson:"paidBy,omitempty" json:"paidBy,omitempty"`
	PaidAt *time.Time `bson:"paidAt,omitempty" json:"paidAt,omitempty"`
}

// Overdue reports whether an unpaid fine is past its due date.
func (f *Fine) Overdue(now time.Time) bool {
	return !f.Paid && f.DueAt != nil && now.After(*f.DueAt)
}
