package moderation

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/NewLifeSMP/NewLifeBotGo/pkg/database"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/logger"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/models"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/profile"
)

var (
	mentionPattern   = regexp.MustCompile(`^<@!?(\d+)>$`)
	snowflakePattern = regexp.MustCompile(`^\d{17,20}$`)
)

// DiscordID extracts a user ID from a mention or a bare snowflake.
// Minecraft names are at most 16 characters, so a long number is never a
// player name.
func DiscordID(input string) (string, bool) {
	input = strings.TrimSpace(input)
	if m := mentionPattern.FindStringSubmatch(input); m != nil {
		return m[1], true
	}
	if snowflakePattern.MatchString(input) {
		return input, true
	}
	return "", false
}

// Target is a resolved player: the primary Minecraft profile and, when the
// player is linked, the Discord owner and all of their accounts.
type Target struct {
	Profile   profile.Profile
	DiscordID string
	Linked    []models.LinkedAccount
}

// UUIDs returns the primary uuid followed by every linked uuid, normalized
// and without duplicates.
func (t Target) UUIDs() []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(u string) {
		u = profile.NormalizeUUID(u)
		if u == "" {
			return
		}
		if _, ok := seen[u]; ok {
			return
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	add(t.Profile.UUID)
	for _, a := range t.Linked {
		add(a.UUID)
	}
	return out
}

// isLinked reports whether uuid belongs to one of the linked accounts.
func (t Target) isLinked(uuid string) bool {
	n := profile.NormalizeUUID(uuid)
	for _, a := range t.Linked {
		if profile.NormalizeUUID(a.UUID) == n {
			return true
		}
	}
	return false
}

// Resolve turns a mention or a player name into a Target. A mention uses the
// member's first linked account as primary. A name is looked up on platform,
// falling back to Bedrock when a Java lookup finds nothing, and then matched
// against linked accounts.
func (s *Service) Resolve(ctx context.Context, input, platform string) (Target, error) {
	if id, ok := DiscordID(input); ok {
		return s.resolveMember(ctx, id)
	}

	name := strings.TrimSpace(input)
	if name == "" {
		return Target{}, ErrPlayerNotFound
	}
	if platform == "" {
		platform = profile.Java
	}

	p, err := s.lookup(ctx, name, platform)
	if err != nil {
		return Target{}, err
	}

	t := Target{Profile: *p}
	link, err := s.linkFor(ctx, p.UUID)
	switch {
	case errors.Is(err, database.ErrNotFound):
		return t, nil
	case err != nil:
		return Target{}, err
	}
	t.DiscordID = link.DiscordID
	t.Linked, err = s.deps.Links.ListByDiscord(ctx, link.DiscordID)
	if err != nil {
		return Target{}, err
	}
	return t, nil
}

func (s *Service) resolveMember(ctx context.Context, discordID string) (Target, error) {
	linked, err := s.deps.Links.ListByDiscord(ctx, discordID)
	if err != nil {
		return Target{}, err
	}
	if len(linked) == 0 {
		return Target{}, ErrNoLinkedAccounts
	}

	primary := linked[0]
	t := Target{
		Profile: profile.Profile{
			UUID:     primary.UUID,
			Name:     primary.MinecraftUsername,
			Platform: primary.Platform,
		},
		DiscordID: discordID,
		Linked:    linked,
	}
	// Refresh the name in case the player renamed since linking.
	if s.deps.Profiles != nil {
		if p, err := s.deps.Profiles.Lookup(ctx, primary.MinecraftUsername, primary.Platform); err == nil {
			t.Profile = *p
		}
	}
	return t, nil
}

func (s *Service) lookup(ctx context.Context, name, platform string) (*profile.Profile, error) {
	if s.deps.Profiles == nil {
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, name)
	}
	p, err := s.deps.Profiles.Lookup(ctx, name, platform)
	if err != nil && platform == profile.Java {
		logger.Debug(fmt.Sprintf("Java lookup for %s failed (%v), trying Bedrock", name, err), "Moderation")
		p, err = s.deps.Profiles.Lookup(ctx, name, profile.Bedrock)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, name)
	}
	return p, nil
}

// linkFor finds the link of uuid as stored, then in normalized form.
func (s *Service) linkFor(ctx context.Context, uuid string) (*models.LinkedAccount, error) {
	link, err := s.deps.Links.FindByUUID(ctx, uuid)
	if err == nil || !errors.Is(err, database.ErrNotFound) {
		return link, err
	}
	if n := profile.NormalizeUUID(uuid); n != uuid {
		return s.deps.Links.FindByUUID(ctx, n)
	}
	return nil, err
}

// DiscordFor returns the Discord owner of a player, by uuid then by name.
// An unlinked player yields an empty ID and no error.
func (s *Service) DiscordFor(ctx context.Context, uuid, name string) (string, error) {
	if uuid != "" && uuid != models.UnknownUUID {
		link, err := s.linkFor(ctx, uuid)
		if err == nil {
			return link.DiscordID, nil
		}
		if !errors.Is(err, database.ErrNotFound) {
			return "", err
		}
	}
	if name != "" {
		link, err := s.deps.Links.FindByName(ctx, name)
		if err == nil {
			return link.DiscordID, nil
		}
		if !errors.Is(err, database.ErrNotFound) {
			return "", err
		}
	}
	return "", nil
}
