package moderation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/NewLifeSMP/NewLifeBotGo/internal/embeds"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/database"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/duration"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/logger"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/models"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/outcome"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/profile"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/rcon"
)

// banKickReason is shown to players kicked while their ban is applied.
const banKickReason = "Ban loading..."

// BanRequest asks for a server ban. Target is a player name or a Discord
// mention; an empty Duration means permanent.
type BanRequest struct {
	Target     string
	Platform   string
	Reason     string
	Duration   string
	DiscordTag string
	Staff      Staff
}

// KickStep is the proxy kick of one account.
type KickStep struct {
	Player string
	Result outcome.Result
}

// BanResult reports the stored ban and each side effect.
type BanResult struct {
	Ban    *models.ServerBan
	Target Target
	Kicks  []KickStep
	DM     outcome.Result
	Log    outcome.Result
}

// Kicked lists the accounts the proxy confirmed kicking.
func (r BanResult) Kicked() []string {
	var out []string
	for _, k := range r.Kicks {
		if k.Result.IsOK() {
			out = append(out, k.Player)
		}
	}
	return out
}

// BanPlayer records a server ban covering the target and every account
// linked to the same Discord user. The proxy enforces bans from the stored
// record, so the only RCON traffic is a best-effort kick of each account.
func (s *Service) BanPlayer(ctx context.Context, req BanRequest) (BanResult, error) {
	length := req.Duration
	if strings.TrimSpace(length) == "" {
		length = "perm"
	}
	spec, err := duration.Parse(length)
	if err != nil {
		return BanResult{}, fmt.Errorf("%w: %q", ErrInvalidDuration, req.Duration)
	}

	t, err := s.Resolve(ctx, req.Target, req.Platform)
	if err != nil {
		return BanResult{}, err
	}
	res := BanResult{Target: t}

	now := s.deps.Now()
	existing, err := s.deps.ServerBans.FindActive(ctx, t.Profile.UUID, now)
	switch {
	case err == nil:
		res.Ban = existing
		return res, ErrAlreadyBanned
	case !errors.Is(err, database.ErrNotFound):
		return res, err
	}

	ban := &models.ServerBan{
		CaseNumber:      s.nextCase(ctx, "server ban"),
		PrimaryUUID:     profile.NormalizeUUID(t.Profile.UUID),
		PrimaryUsername: t.Profile.Name,
		PrimaryPlatform: t.Profile.Platform,
		BannedUUIDs:     t.UUIDs(),
		DiscordID:       t.DiscordID,
		DiscordTag:      req.DiscordTag,
		Reason:          req.Reason,
		Duration:        spec.Display,
		IsPermanent:     spec.Permanent,
		BannedAt:        now,
		ExpiresAt:       spec.ExpiresAt(now),
		StaffID:         req.Staff.ID,
		StaffTag:        req.Staff.Tag,
		Active:          true,
	}
	if err := s.deps.ServerBans.Insert(ctx, ban); err != nil {
		return res, err
	}
	res.Ban = ban
	logger.Info(fmt.Sprintf("Banned %s (%d accounts) by %s, case #%d",
		ban.PrimaryUsername, len(ban.BannedUUIDs), req.Staff.Tag, ban.CaseNumber), "Moderation")

	res.DM = s.dm(ctx, t.DiscordID, embeds.ServerBanDM(ban))

	for _, acc := range t.Linked {
		res.Kicks = append(res.Kicks, s.banKick(ctx, t, req, acc.MinecraftUsername, acc.UUID, acc.Platform, []models.LinkedAccount{acc}))
	}
	if !linkedByName(t.Linked, t.Profile.Name) {
		res.Kicks = append(res.Kicks, s.banKick(ctx, t, req, t.Profile.Name, t.Profile.UUID, t.Profile.Platform, nil))
	}

	res.Log = s.log(ctx, embeds.ServerBanLog(ban, t.Linked))
	s.publish(models.ModerationEvent{
		Type:       models.EventBan,
		CaseNumber: ban.CaseNumber,
		Target:     ban.PrimaryUsername,
		TargetUUID: ban.PrimaryUUID,
		DiscordID:  ban.DiscordID,
		StaffID:    ban.StaffID,
		StaffName:  ban.StaffTag,
		Reason:     ban.Reason,
		Duration:   ban.Duration,
	})
	return res, nil
}

func linkedByName(linked []models.LinkedAccount, name string) bool {
	for _, a := range linked {
		if strings.EqualFold(a.MinecraftUsername, name) {
			return true
		}
	}
	return false
}

// banKick kicks one account off the proxy and records the kick under its
// own case number.
func (s *Service) banKick(ctx context.Context, t Target, req BanRequest, name, uuid, platform string, accounts []models.LinkedAccount) KickStep {
	step := KickStep{Player: name, Result: s.proxyKick(ctx, name, banKickReason)}
	if platform == "" {
		platform = t.Profile.Platform
	}
	k := &models.Kick{
		ID:              s.deps.NewID(),
		CaseNumber:      s.nextCase(ctx, "kick"),
		PrimaryUUID:     profile.NormalizeUUID(uuid),
		PrimaryUsername: name,
		PrimaryPlatform: platform,
		DiscordID:       t.DiscordID,
		DiscordTag:      req.DiscordTag,
		Reason:          banKickReason,
		StaffID:         req.Staff.ID,
		StaffTag:        req.Staff.Tag,
		KickedAt:        s.deps.Now(),
		RCONExecuted:    step.Result.IsOK(),
	}
	if err := s.deps.Kicks.Insert(ctx, k); err != nil {
		logger.Error(fmt.Sprintf("Failed to record kick for %s: %v", name, err), "Moderation")
		return step
	}
	s.log(ctx, embeds.KickLog(k, accounts))
	logger.Debug(fmt.Sprintf("Recorded kick for %s (rcon: %s)", name, step.Result), "Moderation")
	return step
}

func (s *Service) proxyKick(ctx context.Context, name, reason string) outcome.Result {
	if s.deps.Proxy == nil {
		return outcome.Skipped("proxy rcon not configured")
	}
	_, err := s.deps.Proxy.Execute(ctx, rcon.KickCommand(name, reason))
	return outcome.FromErr(err)
}

// UnbanRequest lifts every active ban covering a player.
type UnbanRequest struct {
	Target   string
	Platform string
	Reason   string
	Staff    Staff
}

// UnbanResult lists the bans that were ended.
type UnbanResult struct {
	Target Target
	Bans   []models.ServerBan
}

// UnbanPlayer ends every active ban whose uuids overlap the resolved
// player. When the name no longer resolves, the active ban recorded under
// that primary username is used instead.
func (s *Service) UnbanPlayer(ctx context.Context, req UnbanRequest) (UnbanResult, error) {
	var res UnbanResult
	t, err := s.Resolve(ctx, req.Target, req.Platform)
	switch {
	case err == nil:
		res.Target = t
	case errors.Is(err, ErrPlayerNotFound):
		t, err = s.targetFromBan(ctx, req.Target)
		if err != nil {
			return res, err
		}
		res.Target = t
	default:
		return res, err
	}

	info := database.UnbanInfo{
		By:     req.Staff.ID,
		ByTag:  req.Staff.Tag,
		Reason: req.Reason,
		At:     s.deps.Now(),
	}
	ended, err := s.deps.ServerBans.DeactivateCovering(ctx, t.UUIDs(), info)
	if err != nil {
		return res, err
	}
	if len(ended) == 0 {
		if _, ok := DiscordID(req.Target); !ok {
			if fb, ferr := s.targetFromBan(ctx, req.Target); ferr == nil {
				ended, err = s.deps.ServerBans.DeactivateCovering(ctx, fb.UUIDs(), info)
				if err != nil {
					return res, err
				}
			}
		}
	}
	if len(ended) == 0 {
		return res, ErrNoActiveBan
	}

	res.Bans = ended
	for i := range ended {
		b := &ended[i]
		s.log(ctx, embeds.UnbanLog(b))
		s.publish(models.ModerationEvent{
			Type:       models.EventUnban,
			CaseNumber: b.CaseNumber,
			Target:     b.PrimaryUsername,
			TargetUUID: b.PrimaryUUID,
			DiscordID:  b.DiscordID,
			StaffID:    req.Staff.ID,
			StaffName:  req.Staff.Tag,
			Reason:     req.Reason,
		})
	}
	logger.Info(fmt.Sprintf("Unbanned %s (%d bans) by %s", t.Profile.Name, len(ended), req.Staff.Tag), "Moderation")
	return res, nil
}

// targetFromBan builds a target from the active ban recorded under name.
func (s *Service) targetFromBan(ctx context.Context, name string) (Target, error) {
	ban, err := s.deps.ServerBans.FindActiveByUsername(ctx, strings.TrimSpace(name))
	if errors.Is(err, database.ErrNotFound) {
		return Target{}, ErrNoActiveBan
	}
	if err != nil {
		return Target{}, err
	}
	t := Target{
		Profile: profile.Profile{
			UUID:     ban.PrimaryUUID,
			Name:     ban.PrimaryUsername,
			Platform: ban.PrimaryPlatform,
		},
		DiscordID: ban.DiscordID,
	}
	for _, u := range ban.BannedUUIDs {
		t.Linked = append(t.Linked, models.LinkedAccount{UUID: u})
	}
	return t, nil
}

// KickRequest asks for a proxy kick.
type KickRequest struct {
	Target     string
	Platform   string
	Reason     string
	DiscordTag string
	Staff      Staff
}

// KickResult reports the stored kick and each side effect.
type KickResult struct {
	Kick   *models.Kick
	Target Target
	RCON   outcome.Result
	Others []KickStep
	DM     outcome.Result
	Log    outcome.Result
}

// KickPlayer kicks the player and every other linked account off the
// proxy. The record is saved whether or not the proxy answered.
func (s *Service) KickPlayer(ctx context.Context, req KickRequest) (KickResult, error) {
	t, err := s.Resolve(ctx, req.Target, req.Platform)
	if err != nil {
		return KickResult{}, err
	}
	res := KickResult{Target: t}

	k := &models.Kick{
		ID:              s.deps.NewID(),
		CaseNumber:      s.nextCase(ctx, "kick"),
		PrimaryUUID:     t.Profile.UUID,
		PrimaryUsername: t.Profile.Name,
		PrimaryPlatform: t.Profile.Platform,
		DiscordID:       t.DiscordID,
		DiscordTag:      req.DiscordTag,
		Reason:          req.Reason,
		StaffID:         req.Staff.ID,
		StaffTag:        req.Staff.Tag,
		KickedAt:        s.deps.Now(),
	}

	res.RCON = s.proxyKick(ctx, t.Profile.Name, req.Reason)
	k.RCONExecuted = res.RCON.IsOK()
	for _, acc := range t.Linked {
		if strings.EqualFold(acc.MinecraftUsername, t.Profile.Name) {
			continue
		}
		res.Others = append(res.Others, KickStep{
			Player: acc.MinecraftUsername,
			Result: s.proxyKick(ctx, acc.MinecraftUsername, req.Reason),
		})
	}

	if err := s.deps.Kicks.Insert(ctx, k); err != nil {
		return res, err
	}
	res.Kick = k

	res.DM = s.dm(ctx, t.DiscordID, embeds.KickDM(k))
	res.Log = s.log(ctx, embeds.KickLog(k, t.Linked))
	s.publish(models.ModerationEvent{
		Type:       models.EventKick,
		CaseNumber: k.CaseNumber,
		Target:     k.PrimaryUsername,
		TargetUUID: k.PrimaryUUID,
		DiscordID:  k.DiscordID,
		StaffID:    k.StaffID,
		StaffName:  k.StaffTag,
		Reason:     k.Reason,
	})
	logger.Info(fmt.Sprintf("Kicked %s by %s (rcon: %s)", k.PrimaryUsername, req.Staff.Tag, res.RCON), "Moderation")
	return res, nil
}
