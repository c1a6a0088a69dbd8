package linking

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/NewLifeSMP/NewLifeBotGo/pkg/database"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/models"
)

func TestLinkFailure(t *testing.T) {
	tests := []struct {
		err   error
		title string
		ok    bool
	}{
		{database.ErrAlreadyLinked, "⚠️ Already Linked", true},
		{fmt.Errorf("link: %w", database.ErrLinkedElsewhere), "❌ Account Already Linked", true},
		{database.ErrTooManyAccounts, "❌ Maximum Accounts Reached", true},
		{errors.New("boom"), "", false},
	}
	for _, tt := range tests {
		e, ok := linkFailure(tt.err, "Steve", "java")
		if ok != tt.ok {
			t.Errorf("linkFailure(%v) ok = %v, want %v", tt.err, ok, tt.ok)
			continue
		}
		if ok && e.Title != tt.title {
			t.Errorf("linkFailure(%v) title = %q, want %q", tt.err, e.Title, tt.title)
		}
	}
}

func TestAccountsEmbed(t *testing.T) {
	if e := accountsEmbed(nil); e.Title != "🔗 No Linked Accounts" {
		t.Errorf("empty title = %q", e.Title)
	}

	e := accountsEmbed([]models.LinkedAccount{
		{MinecraftUsername: "Steve", UUID: "u1", Platform: models.PlatformBedrock, Primary: true},
		{MinecraftUsername: "Alex", UUID: "u2", Platform: models.PlatformJava},
	})
	if e.Description != "You have **2** linked accounts." {
		t.Errorf("description = %q", e.Description)
	}
	if e.Fields[0].Name != "📱 Steve ⭐" {
		t.Errorf("primary field = %q", e.Fields[0].Name)
	}
	if e.Thumbnail == nil || !strings.Contains(e.Thumbnail.URL, "u2") {
		t.Errorf("thumbnail should use the java account: %+v", e.Thumbnail)
	}
}

func TestFindAccount(t *testing.T) {
	accounts := []models.LinkedAccount{{MinecraftUsername: "Steve", UUID: "a"}}
	if got := findAccount(accounts, "steve"); got == nil || got.UUID != "a" {
		t.Errorf("findAccount(steve) = %v", got)
	}
	if findAccount(accounts, "alex") != nil {
		t.Error("findAccount(alex) found something")
	}
}
