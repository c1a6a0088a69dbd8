package notify

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/bwmarrin/discordgo"
)

const memberPage = 1000

// GuildSession is the part of *discordgo.Session Guild uses.
type GuildSession interface {
	GuildMemberTimeout(guildID, userID string, until *time.Time, options ...discordgo.RequestOption) error
	GuildMembers(guildID, after string, limit int, options ...discordgo.RequestOption) ([]*discordgo.Member, error)
}

// Guild applies member-level actions in the home guild.
type Guild struct {
	session GuildSession
	guildID string
}

func NewGuild(s GuildSession, guildID string) *Guild {
	return &Guild{session: s, guildID: guildID}
}

// Timeout sets or clears a member's communication timeout.
func (g *Guild) Timeout(ctx context.Context, guildID, userID string, until *time.Time) error {
	if guildID == "" {
		guildID = g.guildID
	}
	if err := g.session.GuildMemberTimeout(guildID, userID, until, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("timeout %s: %w", userID, err)
	}
	return nil
}

// CountRole counts the members of the home guild holding roleID.
func (g *Guild) CountRole(ctx context.Context, roleID string) (int, error) {
	n := 0
	after := ""
	for {
		page, err := g.session.GuildMembers(g.guildID, after, memberPage, discordgo.WithContext(ctx))
		if err != nil {
			return 0, fmt.Errorf("list guild members: %w", err)
		}
		for _, m := range page {
			if slices.Contains(m.Roles, roleID) {
				n++
			}
		}
		if len(page) < memberPage || page[len(page)-1].User == nil {
			return n, nil
		}
		after = page[len(page)-1].User.ID
	}
}
