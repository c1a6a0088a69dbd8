package moderation

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/NewLifeSMP/NewLifeBotGo/internal/embeds"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/database"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/duration"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/logger"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/models"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/outcome"
)

var dueInPattern = regexp.MustCompile(`^\d+(s|m|h|d)$`)

// FineRequest fines a player given by name or Discord mention. DueIn is an
// optional "3d"-style payment window.
type FineRequest struct {
	Player string
	Amount string
	DueIn  string
	Note   string
	Staff  Staff
}

type FineResult struct {
	Fine *models.Fine
	DM   outcome.Result
	Log  outcome.Result
}

// IssueFine records a fine and tells the player when they can be reached.
func (s *Service) IssueFine(ctx context.Context, req FineRequest) (FineResult, error) {
	now := s.deps.Now()
	f := &models.Fine{
		ID:        s.deps.NewID(),
		UUID:      models.UnknownUUID,
		StaffUUID: req.Staff.ID,
		StaffName: req.Staff.Tag,
		Amount:    strings.TrimSpace(req.Amount),
		Note:      req.Note,
		CreatedAt: now,
	}

	if due := strings.ToLower(strings.TrimSpace(req.DueIn)); due != "" {
		if !dueInPattern.MatchString(due) {
			return FineResult{}, fmt.Errorf("%w: %q", ErrInvalidDuration, req.DueIn)
		}
		spec, err := duration.Parse(due)
		if err != nil {
			return FineResult{}, fmt.Errorf("%w: %q", ErrInvalidDuration, req.DueIn)
		}
		f.DueAt = spec.ExpiresAt(now)
	}

	if err := s.fillFineTarget(ctx, f, req.Player); err != nil {
		return FineResult{}, err
	}
	f.CaseNumber = s.nextCase(ctx, "fine")
	if err := s.deps.Fines.Insert(ctx, f); err != nil {
		return FineResult{}, err
	}

	res := FineResult{Fine: f}
	if f.DiscordID != "" {
		res.DM = s.dm(ctx, f.DiscordID, embeds.FineDM(f))
	} else {
		res.DM = outcome.Skipped("no linked discord account")
	}
	res.Log = s.log(ctx, embeds.FineLog(f))
	s.publish(models.ModerationEvent{
		Type:       models.EventFine,
		CaseNumber: f.CaseNumber,
		Target:     f.PlayerName,
		TargetUUID: f.UUID,
		DiscordID:  f.DiscordID,
		StaffID:    req.Staff.ID,
		StaffName:  f.StaffName,
		Reason:     f.Amount,
	})
	logger.Info(fmt.Sprintf("Fine #%d (%s) issued to %s by %s", f.CaseNumber, f.Amount, f.PlayerName, f.StaffName), "Moderation")
	return res, nil
}

// fillFineTarget sets the player fields from a mention or a name.
func (s *Service) fillFineTarget(ctx context.Context, f *models.Fine, player string) error {
	if id, ok := DiscordID(player); ok {
		f.DiscordID = id
		f.PlayerName = fmt.Sprintf("<@%s>", id)
		linked, err := s.deps.Links.ListByDiscord(ctx, id)
		if err != nil {
			return err
		}
		if len(linked) > 0 {
			f.UUID = linked[0].UUID
			f.PlayerName = linked[0].MinecraftUsername
		}
		return nil
	}

	f.PlayerName = strings.TrimSpace(player)
	if f.PlayerName == "" {
		return ErrPlayerNotFound
	}
	link, err := s.deps.Links.FindByName(ctx, f.PlayerName)
	switch {
	case errors.Is(err, database.ErrNotFound):
		return nil
	case err != nil:
		return err
	}
	f.UUID = link.UUID
	f.DiscordID = link.DiscordID
	return nil
}

type PaidResult struct {
	Fine *models.Fine
	DM   outcome.Result
}

// MarkFinePaid settles the fine identified by a case number or ID.
func (s *Service) MarkFinePaid(ctx context.Context, ref string, staff Staff) (PaidResult, error) {
	f, err := s.deps.Fines.FindByCase(ctx, ref)
	if err != nil {
		return PaidResult{}, err
	}
	now := s.deps.Now()
	if err := s.deps.Fines.MarkPaid(ctx, f.ID, staff.Tag, now); err != nil {
		return PaidResult{Fine: f}, err
	}
	f.Paid = true
	f.PaidBy = staff.Tag
	f.PaidAt = &now

	res := PaidResult{Fine: f, DM: outcome.Skipped("no linked discord account")}
	if f.DiscordID != "" {
		res.DM = s.dm(ctx, f.DiscordID, embeds.Success("Fine Paid",
			fmt.Sprintf("Your fine #%d has been marked as paid. Thank you.", f.CaseNumber)))
	}
	s.publish(models.ModerationEvent{
		Type:       models.EventFinePaid,
		CaseNumber: f.CaseNumber,
		Target:     f.PlayerName,
		TargetUUID: f.UUID,
		DiscordID:  f.DiscordID,
		StaffID:    staff.ID,
		StaffName:  staff.Tag,
	})
	return res, nil
}
