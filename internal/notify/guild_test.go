package notify

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
)

type fakeGuild struct {
	members   []*discordgo.Member
	timeouts  map[string]*time.Time
	timeoutIn string
}

func (f *fakeGuild) GuildMemberTimeout(guildID, userID string, until *time.Time, _ ...discordgo.RequestOption) error {
	f.timeoutIn = guildID
	f.timeouts[userID] = until
	return nil
}

func (f *fakeGuild) GuildMembers(_, after string, limit int, _ ...discordgo.RequestOption) ([]*discordgo.Member, error) {
	start := 0
	if after != "" {
		for i, m := range f.members {
			if m.User.ID == after {
				start = i + 1
			}
		}
	}
	end := min(start+limit, len(f.members))
	return f.members[start:end], nil
}

func TestCountRolePages(t *testing.T) {
	f := &fakeGuild{}
	for i := 0; i < 1500; i++ {
		roles := []string{"member"}
		if i%3 == 0 {
			roles = append(roles, "staff")
		}
		f.members = append(f.members, &discordgo.Member{User: &discordgo.User{ID: fmt.Sprint(i)}, Roles: roles})
	}
	n, err := NewGuild(f, "g1").CountRole(context.Background(), "staff")
	if err != nil {
		t.Fatalf("CountRole: %v", err)
	}
	if n != 500 {
		t.Errorf("CountRole = %d, want 500", n)
	}
}

func TestTimeoutDefaultsGuild(t *testing.T) {
	f := &fakeGuild{timeouts: map[string]*time.Time{}}
	until := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	if err := NewGuild(f, "g1").Timeout(context.Background(), "", "u1", &until); err != nil {
		t.Fatalf("Timeout: %v", err)
	}
	if f.timeoutIn != "g1" || !f.timeouts["u1"].Equal(until) {
		t.Errorf("timeout = %s %v", f.timeoutIn, f.timeouts["u1"])
	}
}
