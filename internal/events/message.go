package events

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/NewLifeSMP/NewLifeBotGo/pkg/discord"
	apperrors "github.com/NewLifeSMP/NewLifeBotGo/pkg/errors"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/guru"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/logger"
)

const trackTimeout = 10 * time.Second

// RegisterMessageEvents tracks guru replies in ticket channels.
func RegisterMessageEvents(client *discord.ExtendedClient, g *guruResponses) {
	client.EventHandler.OnMessageCreate(g.onMessageCreate)
}

type guruResponses struct {
	tracker    ResponseTracker
	categoryID string
	guruRoleID string
}

func (g *guruResponses) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	ch, err := s.State.Channel(m.ChannelID)
	if err != nil {
		ch, err = s.Channel(m.ChannelID)
		if err != nil {
			return
		}
	}
	g.handle(m.Message, ch)
}

// ticketFor reports the ticket a guru message belongs to. ok is false for
// bots, messages outside the ticket category, non-gurus and the
// applicant's own messages.
func (g *guruResponses) ticketFor(m *discordgo.Message, ch *discordgo.Channel) (guru.Guru, guru.Ticket, bool) {
	if m.Author == nil || m.Author.Bot || m.GuildID == "" || m.Member == nil {
		return guru.Guru{}, guru.Ticket{}, false
	}
	if ch == nil || ch.ParentID != g.categoryID || !slices.Contains(m.Member.Roles, g.guruRoleID) {
		return guru.Guru{}, guru.Ticket{}, false
	}
	applicant := applicantOf(ch)
	if applicant == m.Author.ID {
		return guru.Guru{}, guru.Ticket{}, false
	}
	created, err := discordgo.SnowflakeTimestamp(ch.ID)
	if err != nil {
		created = m.Timestamp
	}
	return guru.Guru{ID: m.Author.ID, Tag: m.Author.Username, GuildID: m.GuildID},
		guru.Ticket{ID: ch.ID, ChannelID: ch.ID, ApplicantID: applicant, CreatedAt: created},
		true
}

// applicantOf is the ticket's first member overwrite. Tickets grant the
// opener one; staff get access through role overwrites.
func applicantOf(ch *discordgo.Channel) string {
	for _, o := range ch.PermissionOverwrites {
		if o.Type == discordgo.PermissionOverwriteTypeMember {
			return o.ID
		}
	}
	return ""
}

func (g *guruResponses) handle(m *discordgo.Message, ch *discordgo.Channel) {
	gu, tk, ok := g.ticketFor(m, ch)
	if !ok {
		return
	}
	content := m.Content
	apperrors.Go(func() {
		ctx, cancel := context.WithTimeout(context.Background(), trackTimeout)
		defer cancel()
		if _, err := g.tracker.TrackResponse(ctx, gu, tk, content); err != nil {
			logger.Warn(fmt.Sprintf("Failed to track response in %s: %v", tk.ID, err), "GuruTracking")
		}
	})
}
