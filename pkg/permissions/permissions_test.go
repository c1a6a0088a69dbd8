package permissions

import (
	"testing"

	"github.com/NewLifeSMP/NewLifeBotGo/pkg/config"
)

func testResolver() *Resolver {
	return NewResolver(config.Roles{
		Moderator:  "r-mod",
		SrMod:      "r-srmod",
		Admin:      "r-admin",
		Supervisor: "r-sup",
		Management: "r-mgmt",
		Owner:      "r-owner",
	}, "owner-user")
}

func TestTierOf(t *testing.T) {
	r := testResolver()

	tests := []struct {
		name   string
		userID string
		roles  []string
		want   Tier
	}{
		{"no roles", "u1", nil, Everyone},
		{"unrelated roles", "u1", []string{"member", "booster"}, Everyone},
		{"moderator", "u1", []string{"r-mod"}, Moderator},
		{"highest wins", "u1", []string{"r-mod", "r-sup", "r-admin"}, Supervisor},
		{"management", "u1", []string{"r-mgmt"}, Management},
		{"owner role", "u1", []string{"r-owner"}, Owner},
		{"owner user without roles", "owner-user", nil, Owner},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.TierOf(tt.userID, tt.roles); got != tt.want {
				t.Errorf("TierOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTierOfUnsetRoles(t *testing.T) {
	r := NewResolver(config.Roles{Admin: "r-admin"}, "")

	// An empty role ID must never match a member.
	if got := r.TierOf("u1", []string{""}); got != Everyone {
		t.Errorf("TierOf() = %v, want %v", got, Everyone)
	}
	if got := r.TierOf("", nil); got != Everyone {
		t.Errorf("TierOf() = %v, want %v", got, Everyone)
	}
}

func TestAtLeast(t *testing.T) {
	tests := []struct {
		have, need Tier
		want       bool
	}{
		{Owner, Management, true},
		{Management, Management, true},
		{Supervisor, Management, false},
		{Moderator, Staff, true},
		{Everyone, Staff, false},
	}
	for _, tt := range tests {
		if got := tt.have.AtLeast(tt.need); got != tt.want {
			t.Errorf("%v.AtLeast(%v) = %v, want %v", tt.have, tt.need, got, tt.want)
		}
	}
}

func TestStaffRoleIDs(t *testing.T) {
	got := NewResolver(config.Roles{Moderator: "a", Admin: "b"}, "").StaffRoleIDs()
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("StaffRoleIDs() = %v, want [a b]", got)
	}
}
