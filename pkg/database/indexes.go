package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/NewLifeSMP/NewLifeBotGo/pkg/logger"
)

func index(keys bson.D, unique bool) mongo.IndexModel {
	opts := options.Index()
	if unique {
		opts.SetUnique(true)
	}
	return mongo.IndexModel{Keys: keys, Options: opts}
}

var indexPlan = map[string][]mongo.IndexModel{
	CollLinkedAccounts: {
		index(bson.D{{Key: "uuid", Value: 1}}, true),
		index(bson.D{{Key: "discordId", Value: 1}, {Key: "uuid", Value: 1}}, true),
		index(bson.D{{Key: "minecraftUsername", Value: 1}}, false),
	},
	CollWarnings: {
		index(bson.D{{Key: "caseNumber", Value: 1}}, false),
		index(bson.D{{Key: "playerName", Value: 1}, {Key: "createdAt", Value: -1}}, false),
		index(bson.D{{Key: "discordId", Value: 1}, {Key: "active", Value: 1}}, false),
	},
	CollBans: {
		index(bson.D{{Key: "caseNumber", Value: 1}}, false),
		index(bson.D{{Key: "playerName", Value: 1}, {Key: "active", Value: 1}}, false),
	},
	CollServerBans: {
		index(bson.D{{Key: "caseNumber", Value: 1}}, false),
		index(bson.D{{Key: "bannedUuids", Value: 1}, {Key: "active", Value: 1}}, false),
		index(bson.D{{Key: "active", Value: 1}, {Key: "expiresAt", Value: 1}}, false),
	},
	CollKicks: {
		index(bson.D{{Key: "primaryUuid", Value: 1}, {Key: "kickedAt", Value: -1}}, false),
	},
	CollMutes: {
		index(bson.D{{Key: "discordId", Value: 1}, {Key: "active", Value: 1}}, false),
		index(bson.D{{Key: "expiresAt", Value: 1}, {Key: "active", Value: 1}}, false),
	},
	CollFines: {
		index(bson.D{{Key: "caseNumber", Value: 1}}, false),
	},
	CollInfractions: {
		index(bson.D{{Key: "caseNumber", Value: 1}}, false),
		index(bson.D{{Key: "guildId", Value: 1}, {Key: "targetId", Value: 1}, {Key: "createdAt", Value: -1}}, false),
	},
	CollGuruPerformance: {
		index(bson.D{{Key: "guruId", Value: 1}, {Key: "weekStart", Value: 1}}, true),
		index(bson.D{{Key: "guildId", Value: 1}, {Key: "weekStart", Value: 1}}, false),
	},
}

// EnsureIndexes creates the indexes every store relies on. The unique
// indexes back the one-link-per-uuid and one-record-per-guru-week rules.
func (d *Database) EnsureIndexes(ctx context.Context) error {
	for name, idx := range indexPlan {
		col, err := d.collection(name)
		if err != nil {
			return err
		}
		if _, err := col.Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("indexes for %s: %w", name, err)
		}
	}
	logger.Success("Database indexes ready", "DB")
	return nil
}
