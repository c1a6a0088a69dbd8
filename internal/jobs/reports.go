package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/NewLifeSMP/NewLifeBotGo/internal/embeds"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/database"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/guru"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/logger"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/models"
)

const (
	GuruReportTask  = "guru-weekly-report"
	StaffReportTask = "staff-weekly-report"
)

// GuruWeeks reads and flags a guild's weekly guru records.
type GuruWeeks interface {
	ListWeek(ctx context.Context, guildID string, weekStart time.Time) ([]models.GuruPerformance, error)
	MarkReportSent(ctx context.Context, guildID string, weekStart, at time.Time) error
}

// GuruReport DMs last week's guru performance to the owner and the extra
// report recipients, once per week.
type GuruReport struct {
	store      GuruWeeks
	dm         DMer
	guildID    string
	recipients []string
	now        func() time.Time
}

// NewGuruReport builds the job. The owner is always the first recipient and
// duplicates are dropped.
func NewGuruReport(store GuruWeeks, dm DMer, guildID, ownerID string, extra []string) *GuruReport {
	seen := map[string]bool{}
	var to []string
	for _, id := range append([]string{ownerID}, extra...) {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		to = append(to, id)
	}
	return &GuruReport{store: store, dm: dm, guildID: guildID, recipients: to, now: time.Now}
}

// Task sends the report unless there is nothing to send or it already went
// out.
func (g *GuruReport) Task(ctx context.Context) error {
	_, err := g.Send(ctx)
	return err
}

// Send delivers the report for the week before the current one and reports
// whether it went out.
func (g *GuruReport) Send(ctx context.Context) (bool, error) {
	if len(g.recipients) == 0 {
		logger.Error("Owner ID not configured for weekly guru report", "GuruTracking")
		return false, nil
	}
	start, end := guru.LastWeekBounds(g.now())
	records, err := g.store.ListWeek(ctx, g.guildID, start)
	if err != nil {
		return false, fmt.Errorf("load guru week: %w", err)
	}
	if len(records) == 0 {
		logger.Info("No guru records for last week", "GuruTracking")
		return false, nil
	}
	if allReported(records) {
		logger.Info("Weekly guru report already sent", "GuruTracking")
		return false, nil
	}

	embed := embeds.GuruWeeklyReport(records, start, end)
	delivered := 0
	for _, id := range g.recipients {
		res := g.dm.DM(ctx, id, embed)
		if !res.IsOK() {
			logger.Warn(fmt.Sprintf("Guru report not delivered to %s: %s", id, res.Reason), "GuruTracking")
			continue
		}
		delivered++
	}
	if delivered == 0 {
		return false, fmt.Errorf("guru report reached none of %d recipients", len(g.recipients))
	}

	if err := g.store.MarkReportSent(ctx, g.guildID, start, g.now()); err != nil {
		return true, fmt.Errorf("mark guru report sent: %w", err)
	}
	logger.Success(fmt.Sprintf("Weekly guru report sent to %d recipient(s)", delivered), "GuruTracking")
	return true, nil
}

func allReported(records []models.GuruPerformance) bool {
	for _, r := range records {
		if !r.ReportSent {
			return false
		}
	}
	return true
}

// ActivityFunc loads the moderation activity since a point in time.
type ActivityFunc func(ctx context.Context, since time.Time) (*database.ActivityReport, error)

// StaffCounter counts members holding the staff role.
type StaffCounter func(ctx context.Context) (int, error)

// StaffReport DMs the owner a summary of the last seven days of moderation.
type StaffReport struct {
	activity ActivityFunc
	count    StaffCounter
	dm       DMer
	ownerID  string
	now      func() time.Time
}

func NewStaffReport(activity ActivityFunc, count StaffCounter, dm DMer, ownerID string) *StaffReport {
	return &StaffReport{activity: activity, count: count, dm: dm, ownerID: ownerID, now: time.Now}
}

func (s *StaffReport) Task(ctx context.Context) error {
	_, err := s.Send(ctx)
	return err
}

// Build assembles the report without sending it.
func (s *StaffReport) Build(ctx context.Context) (*discordgo.MessageEmbed, error) {
	report, err := s.activity(ctx, s.now().Add(-7*24*time.Hour))
	if err != nil {
		return nil, fmt.Errorf("collect staff activity: %w", err)
	}
	staff := -1
	if s.count != nil {
		if n, err := s.count(ctx); err == nil {
			staff = n
		} else {
			logger.Warn(fmt.Sprintf("Could not count staff members: %v", err), "StaffTracking")
		}
	}
	return embeds.StaffActivityReport(report, staff), nil
}

// Send builds the report and DMs it to the owner.
func (s *StaffReport) Send(ctx context.Context) (*discordgo.MessageEmbed, error) {
	if s.ownerID == "" {
		logger.Error("Owner ID not configured for staff report", "StaffTracking")
		return nil, nil
	}
	logger.Info("Generating weekly staff report", "StaffTracking")
	embed, err := s.Build(ctx)
	if err != nil {
		return nil, err
	}
	if res := s.dm.DM(ctx, s.ownerID, embed); !res.IsOK() {
		return embed, fmt.Errorf("staff report not delivered: %s", res.Reason)
	}
	logger.Success("Weekly staff report sent to owner", "StaffTracking")
	return embed, nil
}
