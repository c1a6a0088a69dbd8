package moderation

import (
	"context"
	"fmt"
	"strings"

	"github.com/NewLifeSMP/NewLifeBotGo/internal/embeds"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/logger"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/models"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/outcome"
)

// InfractionRequest disciplines a staff member.
type InfractionRequest struct {
	GuildID        string
	TargetID       string
	TargetTag      string
	Type           string
	Reason         string
	IssuerNickname string
	Staff          Staff
}

type InfractionResult struct {
	Infraction *models.Infraction
	Post       outcome.Result
	DM         outcome.Result
}

// IssueInfraction records an infraction, posts it to the infraction
// channel and DMs the staff member.
func (s *Service) IssueInfraction(ctx context.Context, req InfractionRequest) (InfractionResult, error) {
	typ := models.InfractionType(strings.ToLower(strings.TrimSpace(req.Type)))
	if !typ.Valid() {
		return InfractionResult{}, fmt.Errorf("%w: %q", ErrInvalidType, req.Type)
	}

	inf := &models.Infraction{
		ID:             s.deps.NewID(),
		CaseNumber:     s.nextCase(ctx, "infraction"),
		TargetID:       req.TargetID,
		TargetTag:      req.TargetTag,
		IssuerID:       req.Staff.ID,
		IssuerTag:      req.Staff.Tag,
		IssuerNickname: req.IssuerNickname,
		Type:           typ,
		Reason:         req.Reason,
		Active:         true,
		CreatedAt:      s.deps.Now(),
		GuildID:        req.GuildID,
	}
	if err := s.deps.Infractions.Insert(ctx, inf); err != nil {
		return InfractionResult{}, err
	}

	res := InfractionResult{Infraction: inf, Post: outcome.Skipped("no infraction channel configured")}
	if s.deps.Notifier != nil && s.deps.InfractionChannel != "" {
		res.Post = s.deps.Notifier.Post(ctx, s.deps.InfractionChannel, embeds.InfractionLog(inf))
	}
	guild := s.deps.GuildName
	if guild == "" {
		guild = "NewLife SMP"
	}
	res.DM = s.dm(ctx, inf.TargetID, embeds.InfractionDM(inf, guild))

	s.publish(models.ModerationEvent{
		Type:       models.EventInfraction,
		CaseNumber: inf.CaseNumber,
		Target:     inf.TargetTag,
		DiscordID:  inf.TargetID,
		StaffID:    inf.IssuerID,
		StaffName:  inf.IssuerTag,
		Reason:     inf.Reason,
	})
	logger.Info(fmt.Sprintf("%s #%d issued to %s by %s", typ.Label(), inf.CaseNumber, req.TargetTag, req.Staff.Tag), "Infractions")
	return res, nil
}

// RevokeInfraction deactivates an infraction by case number.
func (s *Service) RevokeInfraction(ctx context.Context, caseNumber int64, staff Staff) (*models.Infraction, error) {
	inf, err := s.deps.Infractions.Revoke(ctx, caseNumber, staff.ID, s.deps.Now())
	if err != nil {
		return inf, err
	}
	s.publish(models.ModerationEvent{
		Type:       models.EventInfractionRevoke,
		CaseNumber: inf.CaseNumber,
		Target:     inf.TargetTag,
		DiscordID:  inf.TargetID,
		StaffID:    staff.ID,
		StaffName:  staff.Tag,
	})
	logger.Info(fmt.Sprintf("Infraction #%d revoked by %s", caseNumber, staff.Tag), "Infractions")
	return inf, nil
}
