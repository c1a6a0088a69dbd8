package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/NewLifeSMP/NewLifeBotGo/pkg/models"
)

// KickStore persists proxy kicks.
type KickStore struct {
	db *Database
}

func NewKickStore(db *Database) *KickStore {
	return &KickStore{db: db}
}

var newestKickFirst = bson.D{{Key: "kickedAt", Value: -1}}

func (s *KickStore) Insert(ctx context.Context, k *models.Kick) error {
	col, err := s.db.collection(CollKicks)
	if err != nil {
		return err
	}
	_, err = col.InsertOne(ctx, k)
	return wrapWriteErr(err)
}

// Recent returns the newest kicks.
func (s *KickStore) Recent(ctx context.Context, limit int) ([]models.Kick, error) {
	col, err := s.db.collection(CollKicks)
	if err != nil {
		return nil, err
	}
	opts := options.Find().SetSort(newestKickFirst).SetLimit(int64(clampLimit(limit, 10, 25)))
	return findMany[models.Kick](ctx, col, bson.M{}, opts)
}

// History returns kicks of one uuid, falling back to the username when
// the uuid has none.
func (s *KickStore) History(ctx context.Context, uuid, name string, limit int) ([]models.Kick, error) {
	col, err := s.db.collection(CollKicks)
	if err != nil {
		return nil, err
	}
	opts := options.Find().SetSort(newestKickFirst).SetLimit(int64(clampLimit(limit, 10, 25)))

	if uuid != "" {
		kicks, err := findMany[models.Kick](ctx, col, bson.M{"primaryUuid": bson.M{"$in": uuidVariants(uuid)}}, opts)
		if err != nil || len(kicks) > 0 || name == "" {
			return kicks, err
		}
	}
	return findMany[models.Kick](ctx, col, bson.M{"primaryUsername": exactName(name)}, opts)
}

// Since returns kicks issued at or after since.
func (s *KickStore) Since(ctx context.Context, since time.Time) ([]models.Kick, error) {
	col, err := s.db.collection(CollKicks)
	if err != nil {
		return nil, err
	}
	return findMany[models.Kick](ctx, col, bson.M{"kickedAt": bson.M{"$gte": since}})
}
