package guru

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NewLifeSMP/NewLifeBotGo/pkg/database"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/logger"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/models"
)

const greetingMessageLimit = 200

// Store loads and saves weekly records.
type Store interface {
	FindWeek(ctx context.Context, guruID string, weekStart time.Time) (*models.GuruPerformance, error)
	Save(ctx context.Context, rec *models.GuruPerformance) error
}

// Guru identifies who handled a ticket.
type Guru struct {
	ID      string
	Tag     string
	GuildID string
}

// Ticket identifies an application ticket.
type Ticket struct {
	ID           string
	ChannelID    string
	ApplicantID  string
	ApplicantTag string
	CreatedAt    time.Time
}

// Tracker records guru activity into the current week's record.
type Tracker struct {
	store Store
	now   func() time.Time
}

func NewTracker(store Store) *Tracker {
	return &Tracker{store: store, now: time.Now}
}

func (t *Tracker) current(ctx context.Context, g Guru) (*models.GuruPerformance, error) {
	start, end := WeekBounds(t.now())
	rec, err := t.store.FindWeek(ctx, g.ID, start)
	switch {
	case errors.Is(err, database.ErrNotFound):
		return &models.GuruPerformance{
			GuruID:       g.ID,
			GuruTag:      g.Tag,
			GuildID:      g.GuildID,
			WeekStart:    start,
			WeekEnd:      end,
			Interactions: []models.GuruInteraction{},
		}, nil
	case err != nil:
		return nil, err
	}
	if g.Tag != "" {
		rec.GuruTag = g.Tag
	}
	return rec, nil
}

func (t *Tracker) save(ctx context.Context, rec *models.GuruPerformance) error {
	Recalculate(rec)
	return t.store.Save(ctx, rec)
}

func greetingText(content string) string {
	r := []rune(content)
	if len(r) > greetingMessageLimit {
		r = r[:greetingMessageLimit]
	}
	return string(r)
}

// TrackResponse records a guru message in a ticket. The first message sets
// the response time; a later greeting still counts as greeted.
func (t *Tracker) TrackResponse(ctx context.Context, g Guru, tk Ticket, content string) (*models.GuruPerformance, error) {
	rec, err := t.current(ctx, g)
	if err != nil {
		return nil, err
	}

	now := t.now()
	responseMs := now.Sub(tk.CreatedAt).Milliseconds()
	greeted := IsGreeting(content)

	in := rec.FindInteraction(tk.ID)
	switch {
	case in == nil:
		n := models.GuruInteraction{
			TicketID:        tk.ID,
			TicketChannelID: tk.ChannelID,
			ApplicantID:     tk.ApplicantID,
			ApplicantTag:    tk.ApplicantTag,
			TicketCreatedAt: tk.CreatedAt,
			FirstResponseAt: &now,
			ResponseTimeMs:  responseMs,
			DidGreet:        greeted,
			Outcome:         models.OutcomePending,
		}
		if greeted {
			n.GreetingMessage = greetingText(content)
		}
		rec.Interactions = append(rec.Interactions, n)
	case in.FirstResponseAt == nil:
		in.FirstResponseAt = &now
		in.ResponseTimeMs = responseMs
		if greeted && !in.DidGreet {
			in.DidGreet = true
			in.GreetingMessage = greetingText(content)
		}
	case greeted && !in.DidGreet:
		in.DidGreet = true
		in.GreetingMessage = greetingText(content)
	default:
		return rec, nil
	}

	if err := t.save(ctx, rec); err != nil {
		return nil, err
	}
	logger.Debug(fmt.Sprintf("Tracked response from %s in ticket %s, response time: %s",
		g.Tag, tk.ID, FormatResponseTime(float64(responseMs))), "GuruTracking")
	return rec, nil
}

// TrackWhitelist marks a ticket whitelisted. A whitelist outside any
// tracked ticket is recorded as a direct interaction.
func (t *Tracker) TrackWhitelist(ctx context.Context, g Guru, ticketID, applicantID, mcName, platform string) (*models.GuruPerformance, error) {
	rec, err := t.current(ctx, g)
	if err != nil {
		return nil, err
	}

	now := t.now()
	if in := rec.FindInteraction(ticketID); ticketID != "" && in != nil {
		in.Outcome = models.OutcomeWhitelisted
		in.WhitelistedAt = &now
		in.MCUsername = mcName
		in.Platform = platform
	} else {
		if ticketID == "" {
			ticketID = fmt.Sprintf("direct-%d", now.UnixMilli())
		}
		rec.Interactions = append(rec.Interactions, models.GuruInteraction{
			TicketID:        ticketID,
			ApplicantID:     applicantID,
			TicketCreatedAt: now,
			FirstResponseAt: &now,
			DidGreet:        true,
			Outcome:         models.OutcomeWhitelisted,
			WhitelistedAt:   &now,
			MCUsername:      mcName,
			Platform:        platform,
		})
	}

	if err := t.save(ctx, rec); err != nil {
		return nil, err
	}
	logger.Info(fmt.Sprintf("Tracked whitelist by %s: %s (%s)", g.Tag, mcName, platform), "GuruTracking")
	return rec, nil
}

// TrackDenied marks a tracked ticket denied. Untracked tickets are ignored.
func (t *Tracker) TrackDenied(ctx context.Context, g Guru, ticketID, reason string) error {
	return t.update(ctx, g, ticketID, func(in *models.GuruInteraction) bool {
		in.Outcome = models.OutcomeDenied
		in.Notes = reason
		return true
	})
}

// TrackAbandoned marks a still-pending ticket abandoned.
func (t *Tracker) TrackAbandoned(ctx context.Context, g Guru, ticketID string) error {
	return t.update(ctx, g, ticketID, func(in *models.GuruInteraction) bool {
		if in.Outcome != models.OutcomePending {
			return false
		}
		in.Outcome = models.OutcomeAbandoned
		return true
	})
}

// TrackTransfer marks a pending ticket handed to another guru, removing it
// from the completion rate.
func (t *Tracker) TrackTransfer(ctx context.Context, g Guru, ticketID string) error {
	return t.update(ctx, g, ticketID, func(in *models.GuruInteraction) bool {
		if in.Outcome != models.OutcomePending {
			return false
		}
		in.Outcome = models.OutcomeTransferred
		return true
	})
}

func (t *Tracker) update(ctx context.Context, g Guru, ticketID string, apply func(*models.GuruInteraction) bool) error {
	rec, err := t.current(ctx, g)
	if err != nil {
		return err
	}
	in := rec.FindInteraction(ticketID)
	if in == nil || !apply(in) {
		return nil
	}
	return t.save(ctx, rec)
}
