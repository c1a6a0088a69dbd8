// Package commands wires every command category into the Discord client.
// Each category lives in its own subdirectory (mod, staff, linking, ...).
package commands

import (
	"github.com/NewLifeSMP/NewLifeBotGo/internal/commands/bulkactions"
	"github.com/NewLifeSMP/NewLifeBotGo/internal/commands/linking"
	"github.com/NewLifeSMP/NewLifeBotGo/internal/commands/mod"
	"github.com/NewLifeSMP/NewLifeBotGo/internal/commands/staff"
	"github.com/NewLifeSMP/NewLifeBotGo/internal/commands/utils"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/discord"
)

// Deps groups the dependencies of each category. A category whose
// required stores are missing is skipped.
type Deps struct {
	Mod     mod.Deps
	Staff   staff.Deps
	Linking linking.Deps
	Bulk    bulkactions.Deps
	Utils   utils.Deps
}

// RegisterAll registers all commands with the Discord client.
func RegisterAll(client *discord.ExtendedClient, deps Deps) {
	utils.RegisterUtilsCommands(client, deps.Utils)

	if deps.Mod.Service != nil {
		mod.RegisterModCommands(client, deps.Mod)
		staff.RegisterStaffCommands(client, deps.Staff)
	}
	if deps.Linking.Links != nil {
		linking.RegisterLinkingCommands(client, deps.Linking)
	}
	if deps.Bulk.Store != nil && deps.Bulk.Executor != nil {
		bulkactions.RegisterBulkCommands(client, deps.Bulk)
	}
}
