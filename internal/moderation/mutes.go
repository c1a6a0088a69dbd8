package moderation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NewLifeSMP/NewLifeBotGo/internal/embeds"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/database"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/duration"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/logger"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/models"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/outcome"
)

const (
	// DefaultMute applies when no usable duration is given.
	DefaultMute = 10 * time.Minute
	// MaxTimeout is the longest timeout Discord accepts.
	MaxTimeout = 28 * duration.Day
)

// MuteLength reads a mute duration. Blank or invalid input gives the
// default; permanent and overlong values are capped at MaxTimeout.
func MuteLength(s string) time.Duration {
	if duration.IsPermanentKeyword(s) {
		return MaxTimeout
	}
	d := duration.ParseOr(s, DefaultMute)
	switch {
	case d <= 0:
		return DefaultMute
	case d > MaxTimeout:
		return MaxTimeout
	}
	return d
}

type MuteRequest struct {
	GuildID    string
	DiscordID  string
	DiscordTag string
	Duration   string
	Reason     string
	Staff      Staff
}

type MuteResult struct {
	Mute *models.Mute
	DM   outcome.Result
	Log  outcome.Result
}

// MuteMember times the member out and records the mute. Nothing is stored
// when Discord refuses the timeout.
func (s *Service) MuteMember(ctx context.Context, req MuteRequest) (MuteResult, error) {
	if s.deps.Timeouts == nil {
		return MuteResult{}, errors.New("member timeouts unavailable")
	}
	if req.Reason == "" {
		req.Reason = "Muted by staff"
	}

	now := s.deps.Now()
	length := MuteLength(req.Duration)
	until := now.Add(length)
	if err := s.deps.Timeouts.Timeout(ctx, req.GuildID, req.DiscordID, &until); err != nil {
		return MuteResult{}, fmt.Errorf("timeout %s: %w", req.DiscordID, err)
	}

	m := &models.Mute{
		ID:         s.deps.NewID(),
		CaseNumber: s.nextCase(ctx, "mute"),
		DiscordID:  req.DiscordID,
		DiscordTag: req.DiscordTag,
		Reason:     req.Reason,
		Duration:   duration.Format(length),
		DurationMs: length.Milliseconds(),
		CreatedAt:  now,
		ExpiresAt:  &until,
		StaffID:    req.Staff.ID,
		StaffName:  req.Staff.Tag,
		Active:     true,
	}
	if linked, err := s.deps.Links.ListByDiscord(ctx, req.DiscordID); err == nil && len(linked) > 0 {
		m.UUID = linked[0].UUID
		m.PlayerName = linked[0].MinecraftUsername
		m.Platform = linked[0].Platform
	}
	if err := s.deps.Mutes.Insert(ctx, m); err != nil {
		return MuteResult{}, err
	}
	res := MuteResult{Mute: m}

	res.DM = s.dm(ctx, m.DiscordID, embeds.MuteDM(m))
	if res.DM.IsOK() {
		m.DMSent = true
		if err := s.deps.Mutes.SetDMSent(ctx, m.ID); err != nil {
			logger.Warn(fmt.Sprintf("Could not mark DM sent for mute %s: %v", m.ID, err), "Moderation")
		}
	}
	res.Log = s.log(ctx, embeds.MuteLog(m))
	s.publish(models.ModerationEvent{
		Type:       models.EventMute,
		CaseNumber: m.CaseNumber,
		Target:     m.DiscordTag,
		DiscordID:  m.DiscordID,
		StaffID:    m.StaffID,
		StaffName:  m.StaffName,
		Reason:     m.Reason,
		Duration:   m.Duration,
	})
	logger.Info(fmt.Sprintf("Muted %s for %s by %s", req.DiscordTag, m.Duration, req.Staff.Tag), "Moderation")
	return res, nil
}

type UnmuteRequest struct {
	GuildID   string
	DiscordID string
	Staff     Staff
}

type UnmuteResult struct {
	// Mute is the record that was ended, nil when the timeout was set
	// outside the bot.
	Mute *models.Mute
	Log  outcome.Result
}

// UnmuteMember clears the member's timeout and ends their mute records.
func (s *Service) UnmuteMember(ctx context.Context, req UnmuteRequest) (UnmuteResult, error) {
	if s.deps.Timeouts == nil {
		return UnmuteResult{}, errors.New("member timeouts unavailable")
	}
	if err := s.deps.Timeouts.Timeout(ctx, req.GuildID, req.DiscordID, nil); err != nil {
		return UnmuteResult{}, fmt.Errorf("clear timeout %s: %w", req.DiscordID, err)
	}

	var res UnmuteResult
	m, err := s.deps.Mutes.Unmute(ctx, req.DiscordID, req.Staff.ID, req.Staff.Tag, s.deps.Now())
	switch {
	case errors.Is(err, database.ErrNotFound):
		logger.Info(fmt.Sprintf("Cleared timeout for %s with no mute on record", req.DiscordID), "Moderation")
		return res, nil
	case err != nil:
		return res, err
	}
	res.Mute = m
	res.Log = s.log(ctx, embeds.UnmuteLog(m))
	s.publish(models.ModerationEvent{
		Type:       models.EventUnmute,
		CaseNumber: m.CaseNumber,
		Target:     m.DiscordTag,
		DiscordID:  m.DiscordID,
		StaffID:    req.Staff.ID,
		StaffName:  req.Staff.Tag,
	})
	return res, nil
}

// IsMuted reports whether the member has an active, unexpired mute.
func (s *Service) IsMuted(ctx context.Context, discordID string) (*models.Mute, error) {
	m, err := s.deps.Mutes.FindActive(ctx, discordID, s.deps.Now())
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrNotMuted
	}
	return m, err
}
