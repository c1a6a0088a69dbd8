package moderation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/NewLifeSMP/NewLifeBotGo/internal/embeds"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/duration"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/logger"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/models"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/outcome"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/profile"
)

// claimTTL bounds how long a claimed warning waits for its change event.
const claimTTL = 10 * time.Minute

var (
	severities = []string{models.SeverityMinor, models.SeverityModerate, models.SeveritySevere}
	categories = []string{models.CategoryBehavior, models.CategoryChat, models.CategoryCheating, models.CategoryGriefing, models.CategoryOther}
)

func oneOf(v, def string, allowed []string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	for _, a := range allowed {
		if a == v {
			return v
		}
	}
	return def
}

// WarnRequest warns a player by Minecraft name.
type WarnRequest struct {
	Player string
	Reason string
	Staff  Staff
}

// MemberWarnRequest warns a Discord member, attributing the warning to
// their linked Minecraft accounts.
type MemberWarnRequest struct {
	DiscordID  string
	DiscordTag string
	Reason     string
	Severity   string
	Category   string
	Staff      Staff
}

// WarnResult reports the stored warning and its notifications.
type WarnResult struct {
	Warning     *models.Warning
	DM          outcome.Result
	Log         outcome.Result
	ActiveCount int64
}

// IssueWarning records a warning against a player name. A player without a
// linked Discord account is still warned; only the DM is skipped.
func (s *Service) IssueWarning(ctx context.Context, req WarnRequest) (WarnResult, error) {
	w := &models.Warning{
		ID:         s.deps.NewID(),
		CaseNumber: s.nextCase(ctx, "warning"),
		UUID:       models.UnknownUUID,
		PlayerName: strings.TrimSpace(req.Player),
		StaffID:    req.Staff.ID,
		StaffUUID:  req.Staff.UUID,
		StaffName:  req.Staff.Tag,
		Reason:     req.Reason,
		Severity:   models.SeverityModerate,
		Category:   models.CategoryOther,
		Active:     true,
		CreatedAt:  s.deps.Now(),
	}
	return s.storeWarning(ctx, w)
}

// WarnMember records a warning against a Discord member. The first linked
// account is the warned player and every linked uuid is covered.
func (s *Service) WarnMember(ctx context.Context, req MemberWarnRequest) (WarnResult, error) {
	linked, err := s.deps.Links.ListByDiscord(ctx, req.DiscordID)
	if err != nil {
		return WarnResult{}, err
	}

	w := &models.Warning{
		ID:         s.deps.NewID(),
		CaseNumber: s.nextCase(ctx, "warning"),
		UUID:       models.UnknownUUID,
		DiscordID:  req.DiscordID,
		DiscordTag: req.DiscordTag,
		StaffID:    req.Staff.ID,
		StaffUUID:  req.Staff.UUID,
		StaffName:  req.Staff.Tag,
		Reason:     req.Reason,
		Severity:   oneOf(req.Severity, models.SeverityModerate, severities),
		Category:   oneOf(req.Category, models.CategoryOther, categories),
		Active:     true,
		CreatedAt:  s.deps.Now(),
	}
	if len(linked) > 0 {
		w.UUID = profile.NormalizeUUID(linked[0].UUID)
		w.PlayerName = linked[0].MinecraftUsername
		w.Platform = linked[0].Platform
		for _, a := range linked {
			w.WarnedUUIDs = append(w.WarnedUUIDs, profile.NormalizeUUID(a.UUID))
		}
	}

	res, err := s.storeWarning(ctx, w)
	if err != nil {
		return res, err
	}
	if n, err := s.deps.Warnings.CountActiveByDiscord(ctx, req.DiscordID); err == nil {
		res.ActiveCount = n
	}
	return res, nil
}

// storeWarning inserts w and notifies inline. The ID is claimed first so the
// watcher does not notify the same insert a second time.
func (s *Service) storeWarning(ctx context.Context, w *models.Warning) (WarnResult, error) {
	s.claim(w.ID)
	if err := s.deps.Warnings.Insert(ctx, w); err != nil {
		s.unclaim(w.ID)
		return WarnResult{}, err
	}
	if !s.Watching() {
		s.unclaim(w.ID)
	}
	logger.Info(fmt.Sprintf("Warning #%d issued to %s by %s", w.CaseNumber, w.Target(), w.StaffName), "Moderation")

	res := WarnResult{Warning: w}
	res.DM, res.Log = s.notifyWarning(ctx, w)
	return res, nil
}

func (s *Service) claim(id string) {
	now := s.deps.Now()
	s.claims.Range(func(k, v any) bool {
		if now.Sub(v.(time.Time)) > claimTTL {
			s.claims.Delete(k)
		}
		return true
	})
	s.claims.Store(id, now)
}

func (s *Service) unclaim(id string) {
	s.claims.Delete(id)
}

// notifyWarning DMs the owner of the warned player, if there is one, and
// posts the log entry.
func (s *Service) notifyWarning(ctx context.Context, w *models.Warning) (dm, log outcome.Result) {
	discordID := w.DiscordID
	if discordID == "" {
		id, err := s.DiscordFor(ctx, w.UUID, w.PlayerName)
		if err != nil {
			logger.Warn(fmt.Sprintf("Link lookup for %s failed: %v", w.Target(), err), "Moderation")
		}
		discordID = id
	}

	if discordID == "" {
		logger.Info("No linked Discord account for player "+w.Target(), "Moderation")
		dm = outcome.Skipped("no linked discord account")
	} else {
		dm = s.dm(ctx, discordID, embeds.WarningDM(w))
		if dm.IsOK() {
			w.DMSent = true
			if err := s.deps.Warnings.SetDMSent(ctx, w.ID); err != nil {
				logger.Warn(fmt.Sprintf("Could not mark DM sent for warning %s: %v", w.ID, err), "Moderation")
			}
		}
	}

	log = s.log(ctx, embeds.WarningLog(w))
	s.publish(models.ModerationEvent{
		Type:       models.EventWarning,
		CaseNumber: w.CaseNumber,
		Target:     w.Target(),
		TargetUUID: w.UUID,
		DiscordID:  discordID,
		StaffID:    w.StaffID,
		StaffName:  w.StaffName,
		Reason:     w.Reason,
	})
	return dm, log
}

// PardonWarning deactivates the warning identified by a case number or ID.
func (s *Service) PardonWarning(ctx context.Context, ref string, staff Staff, reason string) (*models.Warning, error) {
	w, err := s.deps.Warnings.FindByCase(ctx, ref)
	if err != nil {
		return nil, err
	}
	now := s.deps.Now()
	if err := s.deps.Warnings.Remove(ctx, w.ID, staff.ID, staff.Tag, reason, now); err != nil {
		return w, err
	}
	w.Active = false
	w.RemovedBy = staff.ID
	w.RemovedByTag = staff.Tag
	w.RemovedAt = &now
	w.RemoveReason = reason

	s.publish(models.ModerationEvent{
		Type:       models.EventWarningRemoved,
		CaseNumber: w.CaseNumber,
		Target:     w.Target(),
		TargetUUID: w.UUID,
		StaffID:    staff.ID,
		StaffName:  staff.Tag,
		Reason:     reason,
	})
	logger.Info(fmt.Sprintf("Warning #%d removed by %s", w.CaseNumber, staff.Tag), "Moderation")
	return w, nil
}

// OnWarning handles a warning insert seen by the change-stream watcher.
// Warnings issued through this service were already notified.
func (s *Service) OnWarning(ctx context.Context, w *models.Warning) {
	if _, claimed := s.claims.LoadAndDelete(w.ID); claimed {
		return
	}
	logger.Debug(fmt.Sprintf("New warning #%d for %s from the watcher", w.CaseNumber, w.Target()), "Moderation")
	s.notifyWarning(ctx, w)
}

// OnBan handles a plugin ban insert seen by the watcher.
func (s *Service) OnBan(ctx context.Context, b *models.Ban) {
	discordID, err := s.DiscordFor(ctx, b.UUID, b.PlayerName)
	if err != nil {
		logger.Warn(fmt.Sprintf("Link lookup for %s failed: %v", b.PlayerName, err), "Moderation")
	}
	if discordID == "" {
		logger.Info("No linked Discord account for player "+b.PlayerName, "Moderation")
	} else {
		s.dm(ctx, discordID, embeds.BanDM(b))
	}
	s.log(ctx, embeds.BanLog(b))

	ev := models.ModerationEvent{
		Type:       models.EventBan,
		CaseNumber: b.CaseNumber,
		Target:     b.PlayerName,
		TargetUUID: b.UUID,
		DiscordID:  discordID,
		StaffName:  b.StaffName,
		Reason:     b.Reason,
		Duration:   "Permanent",
	}
	if b.Duration != nil {
		ev.Duration = duration.Format(time.Duration(*b.Duration) * time.Millisecond)
	}
	s.publish(ev)
}
