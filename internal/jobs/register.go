package jobs

import (
	"fmt"
	"time"

	"github.com/NewLifeSMP/NewLifeBotGo/pkg/config"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/logger"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/scheduler"
)

// Scheduler is the part of *scheduler.Scheduler the jobs register on.
type Scheduler interface {
	Schedule(name, spec, timezone string, task scheduler.Task) error
	Every(name string, every time.Duration, task scheduler.Task) error
}

// Set is every job the bot runs. Nil members are not scheduled.
type Set struct {
	Restart     *Restarter
	StaffOnline *StaffOnline
	GuruReport  *GuruReport
	StaffReport *StaffReport
	MuteExpiry  *MuteExpiry
}

// Register puts the jobs on the scheduler with the configured timings.
func (j Set) Register(s Scheduler, cfg config.Schedules) error {
	if j.Restart != nil {
		if err := s.Schedule(RestartTask, cfg.Restart, cfg.RestartTimezone, j.Restart.Task); err != nil {
			return err
		}
	}
	if j.GuruReport != nil {
		if err := s.Schedule(GuruReportTask, cfg.WeeklyReport, cfg.ReportTimezone, j.GuruReport.Task); err != nil {
			return err
		}
	}
	if j.StaffReport != nil && cfg.StaffTracking {
		if err := s.Schedule(StaffReportTask, cfg.WeeklyReport, cfg.ReportTimezone, j.StaffReport.Task); err != nil {
			return err
		}
	}
	if j.StaffOnline != nil {
		every := time.Duration(cfg.StaffOnlineEvery) * time.Second
		if every <= 0 {
			every = 30 * time.Second
		}
		if err := s.Every(StaffOnlineTask, every, j.StaffOnline.Task); err != nil {
			return err
		}
	}
	if j.MuteExpiry != nil {
		if err := s.Every(MuteExpiryTask, muteExpiryEvery, j.MuteExpiry.Task); err != nil {
			return err
		}
	}
	logger.Info(fmt.Sprintf("Jobs registered (restart %q %s, reports %q %s)",
		cfg.Restart, cfg.RestartTimezone, cfg.WeeklyReport, cfg.ReportTimezone), "Jobs")
	return nil
}
