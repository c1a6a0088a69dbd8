package database

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"

	"github.com/NewLifeSMP/NewLifeBotGo/pkg/logger"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/models"
)

// PunishmentHandler receives warnings and bans inserted by any writer,
// including the game server plugin.
type PunishmentHandler interface {
	OnWarning(ctx context.Context, w *models.Warning)
	OnBan(ctx context.Context, b *models.Ban)
}

type insertEvent struct {
	FullDocument bson.Raw `bson:"fullDocument"`
}

var insertsOnly = mongo.Pipeline{
	{{Key: "$match", Value: bson.M{"operationType": "insert"}}},
}

// Watch follows inserts on warnings and bans until ctx is cancelled.
// Change streams need a replica set; when the server refuses them the
// error is logged and Watch returns.
func (d *Database) Watch(ctx context.Context, h PunishmentHandler) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return d.watchCollection(ctx, CollWarnings, func(raw bson.Raw) error {
			var w models.Warning
			if err := bson.Unmarshal(raw, &w); err != nil {
				return err
			}
			logger.Info("New warning detected: "+w.ID, "Watcher")
			h.OnWarning(ctx, &w)
			return nil
		})
	})
	g.Go(func() error {
		return d.watchCollection(ctx, CollBans, func(raw bson.Raw) error {
			var b models.Ban
			if err := bson.Unmarshal(raw, &b); err != nil {
				return err
			}
			logger.Info("New ban detected: "+b.ID, "Watcher")
			h.OnBan(ctx, &b)
			return nil
		})
	})

	logger.System("Monitoring warnings and bans collections", "Watcher")
	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (d *Database) watchCollection(ctx context.Context, name string, handle func(bson.Raw) error) error {
	col, err := d.collection(name)
	if err != nil {
		return err
	}

	stream, err := col.Watch(ctx, insertsOnly, options.ChangeStream().SetFullDocument(options.UpdateLookup))
	if err != nil {
		logger.Error(fmt.Sprintf("Cannot watch %s (change streams need a replica set): %v", name, err), "Watcher")
		return fmt.Errorf("watch %s: %w", name, err)
	}
	defer func() { _ = stream.Close(context.Background()) }()

	for stream.Next(ctx) {
		var ev insertEvent
		if err := stream.Decode(&ev); err != nil {
			logger.Error(fmt.Sprintf("%s stream decode: %v", name, err), "Watcher")
			continue
		}
		if err := handle(ev.FullDocument); err != nil {
			logger.Error(fmt.Sprintf("%s document decode: %v", name, err), "Watcher")
		}
	}
	if err := stream.Err(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error(fmt.Sprintf("%s stream error: %v", name, err), "Watcher")
		return err
	}
	return ctx.Err()
}
