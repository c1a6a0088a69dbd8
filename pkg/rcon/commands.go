package rcon

import (
	"fmt"
	"regexp"
	"strings"
)

// BanCommand bans through the BansPaper plugin namespace.
func BanCommand(player, reason string) string {
	return fmt.Sprintf("banspaper:ban %s %s", player, reason)
}

func UnbanCommand(player string) string {
	return "banspaper:unban " + player
}

// VanillaBanCommand and PardonCommand use the server's built-in ban list.
func VanillaBanCommand(player, reason string) string {
	return fmt.Sprintf("ban %s %s", player, reason)
}

func PardonCommand(player string) string {
	return "pardon " + player
}

func KickCommand(player, reason string) string {
	return fmt.Sprintf("kick %s %s", player, reason)
}

func TellCommand(player, message string) string {
	return fmt.Sprintf("tell %s %s", player, message)
}

func SayCommand(message string) string {
	return "say " + message
}

// BroadcastCommand sends a color-coded proxy broadcast.
func BroadcastCommand(message string) string {
	return "broadcast " + message
}

// WhitelistCommand adds a player to the whitelist. Bedrock players go
// through Floodgate, keyed by uuid.
func WhitelistCommand(platform, name, uuid string) string {
	if platform == "bedrock" {
		return "fwhitelist add " + uuid
	}
	return "whitelist add " + name
}

// failureKeywords is a heuristic. Plugins answer failures in free text, so a
// legitimate response containing one of these words (a ban reason quoting
// "error", say) is misread as a failure.
var failureKeywords = []string{
	"error", "failed", "not found", "no such", "could not",
	"no player", "exception", "permission", "unable",
}

// LooksFailed reports whether a console response reads like an error.
func LooksFailed(response string) bool {
	resp := strings.ToLower(response)
	for _, k := range failureKeywords {
		if strings.Contains(resp, k) {
			return true
		}
	}
	return false
}

var serverListLine = regexp.MustCompile(`\[.+?\]\s*\(\d+\):\s*(.+)`)

// ParseOnlinePlayers extracts player names from glist or list output. Lines
// look like "[lobby] (2): Steve, Alex", a bare comma list, or one name.
func ParseOnlinePlayers(response string) []string {
	seen := make(map[string]struct{})
	var players []string
	add := func(name string, strict bool) {
		name = strings.TrimSpace(name)
		if name == "" || len(name) > 16 {
			return
		}
		if strict && strings.ContainsAny(name, "[(") {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		players = append(players, name)
	}

	for _, line := range strings.Split(response, "\n") {
		if strings.TrimSpace(line) == "" || strings.Contains(line, "There are") || strings.Contains(line, "players online") {
			continue
		}
		if m := serverListLine.FindStringSubmatch(line); m != nil {
			for _, p := range strings.Split(m[1], ",") {
				add(p, false)
			}
			continue
		}
		if strings.Contains(line, ",") {
			for _, p := range strings.Split(line, ",") {
				add(p, true)
			}
			continue
		}
		add(line, true)
	}
	return players
}
