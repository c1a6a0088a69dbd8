package jobs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/bwmarrin/discordgo"

	"github.com/NewLifeSMP/NewLifeBotGo/pkg/database"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/logger"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/models"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/rcon"
)

const StaffOnlineTask = "staff-online"

var errNoPlayerList = errors.New("could not fetch the online player list")

// GuildMembers is the part of *discordgo.Session the role sync uses.
type GuildMembers interface {
	GuildMembers(guildID, after string, limit int, options ...discordgo.RequestOption) ([]*discordgo.Member, error)
	GuildMemberRoleAdd(guildID, userID, roleID string, options ...discordgo.RequestOption) error
	GuildMemberRoleRemove(guildID, userID, roleID string, options ...discordgo.RequestOption) error
}

// AccountLister returns every linked account.
type AccountLister interface {
	All(ctx context.Context) ([]models.LinkedAccount, error)
}

// StaffOnline keeps the "Currently Moderating" role on staff members whose
// linked Minecraft account is on the proxy.
type StaffOnline struct {
	proxy    rcon.Executor
	accounts AccountLister
	guild    GuildMembers

	guildID    string
	staffRole  string
	onlineRole string

	running atomic.Bool
}

func NewStaffOnline(proxy rcon.Executor, accounts AccountLister, guild GuildMembers, guildID, staffRole, onlineRole string) *StaffOnline {
	return &StaffOnline{
		proxy:      proxy,
		accounts:   accounts,
		guild:      guild,
		guildID:    guildID,
		staffRole:  staffRole,
		onlineRole: onlineRole,
	}
}

// SyncResult counts the role changes of one pass.
type SyncResult struct {
	Online  int
	Added   int
	Removed int
	Failed  int
}

// Task runs one sync for the scheduler. A pass that finds the previous one
// still running returns immediately.
func (s *StaffOnline) Task(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return nil
	}
	defer s.running.Store(false)

	res, err := s.Sync(ctx)
	if err != nil {
		return err
	}
	if res.Added > 0 || res.Removed > 0 || res.Failed > 0 {
		logger.Info(fmt.Sprintf("Staff online sync: %d players online, +%d/-%d roles, %d failed",
			res.Online, res.Added, res.Removed, res.Failed), "StaffOnline")
	}
	return nil
}

// Sync compares the online players with the guild and adds or removes the
// role where needed. When the player list cannot be read, nothing changes.
func (s *StaffOnline) Sync(ctx context.Context) (SyncResult, error) {
	var res SyncResult
	if s.staffRole == "" || s.onlineRole == "" {
		return res, errors.New("staff or currently moderating role is not configured")
	}

	players, err := s.onlinePlayers(ctx)
	if err != nil {
		return res, err
	}
	res.Online = len(players)

	accounts, err := s.accounts.All(ctx)
	if err != nil {
		return res, fmt.Errorf("load linked accounts: %w", err)
	}
	byName := database.NameIndex(accounts)
	online := make(map[string]bool)
	for _, p := range players {
		if id, ok := byName[strings.ToLower(p)]; ok {
			online[id] = true
		}
	}

	members, err := s.members(ctx)
	if err != nil {
		return res, err
	}
	for _, m := range members {
		if m.User == nil {
			continue
		}
		isStaff := hasRole(m, s.staffRole)
		has := hasRole(m, s.onlineRole)

		var err error
		switch {
		case isStaff && online[m.User.ID] && !has:
			err = s.guild.GuildMemberRoleAdd(s.guildID, m.User.ID, s.onlineRole,
				discordgo.WithContext(ctx), discordgo.WithAuditLogReason("Staff online on Minecraft server"))
			if err == nil {
				res.Added++
				logger.Debug("Added moderating role to "+m.User.Username, "StaffOnline")
			}
		case isStaff && !online[m.User.ID] && has:
			err = s.guild.GuildMemberRoleRemove(s.guildID, m.User.ID, s.onlineRole,
				discordgo.WithContext(ctx), discordgo.WithAuditLogReason("Staff no longer online on Minecraft server"))
			if err == nil {
				res.Removed++
				logger.Debug("Removed moderating role from "+m.User.Username, "StaffOnline")
			}
		case !isStaff && has:
			err = s.guild.GuildMemberRoleRemove(s.guildID, m.User.ID, s.onlineRole,
				discordgo.WithContext(ctx), discordgo.WithAuditLogReason("User is not staff"))
			if err == nil {
				res.Removed++
			}
		}
		if err != nil {
			res.Failed++
			logger.Warn(fmt.Sprintf("Could not update roles for %s: %v", m.User.ID, err), "StaffOnline")
		}
	}
	return res, nil
}

// onlinePlayers asks the proxy with glist and falls back to list.
func (s *StaffOnline) onlinePlayers(ctx context.Context) ([]string, error) {
	if s.proxy == nil {
		return nil, errNoPlayerList
	}
	resp, err := s.proxy.Execute(ctx, "glist")
	if err != nil || strings.TrimSpace(resp) == "" {
		logger.Debug("glist failed, trying list", "StaffOnline")
		resp, err = s.proxy.Execute(ctx, "list")
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errNoPlayerList, err)
	}
	return rcon.ParseOnlinePlayers(resp), nil
}

// members pages through the whole guild member list.
func (s *StaffOnline) members(ctx context.Context) ([]*discordgo.Member, error) {
	var (
		out   []*discordgo.Member
		after string
	)
	for {
		page, err := s.guild.GuildMembers(s.guildID, after, 1000, discordgo.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("list guild members: %w", err)
		}
		out = append(out, page...)
		if len(page) < 1000 || page[len(page)-1].User == nil {
			return out, nil
		}
		after = page[len(page)-1].User.ID
	}
}

func hasRole(m *discordgo.Member, roleID string) bool {
	for _, r := range m.Roles {
		if r == roleID {
			return true
		}
	}
	return false
}
