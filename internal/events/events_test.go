package events

import (
	"testing"

	"github.com/bwmarrin/discordgo"
)

func newResponses() *guruResponses {
	return &guruResponses{categoryID: "cat", guruRoleID: "guru"}
}

func ticketChannel() *discordgo.Channel {
	return &discordgo.Channel{
		ID:       "1100000000000000000",
		ParentID: "cat",
		PermissionOverwrites: []*discordgo.PermissionOverwrite{
			{ID: "everyone", Type: discordgo.PermissionOverwriteTypeRole},
			{ID: "applicant", Type: discordgo.PermissionOverwriteTypeMember},
		},
	}
}

func message(authorID string, roles ...string) *discordgo.Message {
	return &discordgo.Message{
		GuildID: "g1",
		Author:  &discordgo.User{ID: authorID, Username: authorID},
		Member:  &discordgo.Member{Roles: roles},
		Content: "Hello! How can I help?",
	}
}

func TestTicketFor(t *testing.T) {
	g := newResponses()
	ch := ticketChannel()

	gu, tk, ok := g.ticketFor(message("guru1", "guru"), ch)
	if !ok {
		t.Fatal("guru message in ticket not tracked")
	}
	if gu.ID != "guru1" || gu.GuildID != "g1" {
		t.Errorf("guru = %+v", gu)
	}
	if tk.ID != ch.ID || tk.ApplicantID != "applicant" {
		t.Errorf("ticket = %+v", tk)
	}
	want, _ := discordgo.SnowflakeTimestamp(ch.ID)
	if !tk.CreatedAt.Equal(want) {
		t.Errorf("created = %v, want %v", tk.CreatedAt, want)
	}
}

func TestTicketForSkips(t *testing.T) {
	g := newResponses()
	other := ticketChannel()
	other.ParentID = "general"

	bot := message("b", "guru")
	bot.Author.Bot = true

	tests := []struct {
		name string
		msg  *discordgo.Message
		ch   *discordgo.Channel
	}{
		{"bot", bot, ticketChannel()},
		{"not a guru", message("m1", "member"), ticketChannel()},
		{"outside ticket category", message("guru1", "guru"), other},
		{"applicant is a guru", message("applicant", "guru"), ticketChannel()},
		{"no channel", message("guru1", "guru"), nil},
	}
	for _, tt := range tests {
		if _, _, ok := g.ticketFor(tt.msg, tt.ch); ok {
			t.Errorf("%s: tracked, want skipped", tt.name)
		}
	}
}

func TestApplicantOf(t *testing.T) {
	ch := ticketChannel()
	ch.PermissionOverwrites = append(ch.PermissionOverwrites,
		&discordgo.PermissionOverwrite{ID: "guru1", Type: discordgo.PermissionOverwriteTypeMember})

	if got := applicantOf(ch); got != "applicant" {
		t.Errorf("applicantOf = %q, want applicant", got)
	}
	if got := applicantOf(&discordgo.Channel{}); got != "" {
		t.Errorf("applicantOf(empty) = %q", got)
	}
}
