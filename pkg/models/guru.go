package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Outcome of a whitelist ticket handled by a guru.
type Outcome string

const (
	OutcomePending     Outcome = "pending"
	OutcomeWhitelisted Outcome = "whitelisted"
	OutcomeDenied      Outcome = "denied"
	OutcomeAbandoned   Outcome = "abandoned"
	OutcomeTransferred Outcome = "transferred"
)

// GuruInteraction is one ticket handled by a guru during the week.
type GuruInteraction struct {
	TicketID        string     `bson:"ticketId" json:"ticketId"`
	TicketChannelID string     `bson:"ticketChannelId,omitempty" json:"ticketChannelId,omitempty"`
	ApplicantID     string     `bson:"applicantId" json:"applicantId"`
	ApplicantTag    string     `bson:"applicantTag,omitempty" json:"applicantTag,omitempty"`
	TicketCreatedAt time.Time  `bson:"ticketCreatedAt" json:"ticketCreatedAt"`
	FirstResponseAt *time.Time `bson:"firstResponseAt,omitempty" json:"firstResponseAt,omitempty"`
	ResponseTimeMs  int64      `bson:"responseTimeMs,omitempty" json:"responseTimeMs,omitempty"`

	DidGreet        bool   `bson:"didGreet" json:"didGreet"`
	GreetingMessage string `bson:"greetingMessage,omitempty" json:"greetingMessage,omitempty"`

	Outcome       Outcome    `bson:"outcome" json:"outcome"`
	WhitelistedAt *time.Time `bson:"whitelistedAt,omitempty" json:"whitelistedAt,omitempty"`
	MCUsername    string     `bson:"mcUsername,omitempty" json:"mcUsername,omitempty"`
	Platform      string     `bson:"platform,omitempty" json:"platform,omitempty"`
	Notes         string     `bson:"notes,omitempty" json:"notes,omitempty"`
}

// GuruPerformance is one guru's record for one week (Sunday to Saturday UTC).
// Collection: guru_performance.
type GuruPerformance struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	GuruID  string             `bson:"guruId" json:"guruId"`
	GuruTag string             `bson:"guruTag,omitempty" json:"guruTag,omitempty"`
	GuildID string             `bson:"guildId" json:"guildId"`

	WeekStart time.Time `bson:"weekStart" json:"weekStart"`
	WeekEnd   time.Time `bson:"weekEnd" json:"weekEnd"`

	TotalTicketsClaimed int `bson:"totalTicketsClaimed" json:"totalTicketsClaimed"`
	TotalWhitelisted    int `bson:"totalWhitelisted" json:"totalWhitelisted"`
	TotalDenied         int `bson:"totalDenied" json:"totalDenied"`
	TotalAbandoned      int `bson:"totalAbandoned" json:"totalAbandoned"`
	TotalTransferred    int `bson:"totalTransferred" json:"totalTransferred"`

	AvgResponseTimeMs   float64 `bson:"avgResponseTimeMs" json:"avgResponseTimeMs"`
	MinResponseTimeMs   int64   `bson:"minResponseTimeMs,omitempty" json:"minResponseTimeMs,omitempty"`
	MaxResponseTimeMs   int64   `bson:"maxResponseTimeMs,omitempty" json:"maxResponseTimeMs,omitempty"`
	TotalResponseTimeMs int64   `bson:"totalResponseTimeMs" json:"totalResponseTimeMs"`
	ResponseCount       int     `bson:"responseCount" json:"responseCount"`

	GreetingRate   float64 `bson:"greetingRate" json:"greetingRate"`
	GreetingCount  int     `bson:"greetingCount" json:"greetingCount"`
	CompletionRate float64 `bson:"completionRate" json:"completionRate"`

	PerformanceScore    int `bson:"performanceScore" json:"performanceScore"`
	RecommendedDiamonds int `bson:"recommendedDiamonds" json:"recommendedDiamonds"`
	DiamondRangeMin     int `bson:"diamondRangeMin" json:"diamondRangeMin"`
	DiamondRangeMax     int `bson:"diamondRangeMax" json:"diamondRangeMax"`

	Interactions []GuruInteraction `bson:"interactions" json:"interactions"`

	ReportSent   bool       `bson:"reportSent" json:"reportSent"`
	ReportSentAt *time.Time `bson:"reportSentAt,omitempty" json:"reportSentAt,omitempty"`
	UpdatedAt    time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// FindInteraction returns the interaction for ticketID, or nil.
func (g *GuruPerformance) FindInteraction(ticketID string) *GuruInteraction {
	for i := range g.Interactions {
		if g.Interactions[i].TicketID == ticketID {
			return &g.Interactions[i]
		}
	}
	return nil
}
