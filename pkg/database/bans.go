package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/NewLifeSMP/NewLifeBotGo/pkg/models"
)

// BanStore persists plugin-level bans written by bulk actions.
type BanStore struct {
	db *Database
}

func NewBanStore(db *Database) *BanStore {
	return &BanStore{db: db}
}

func (s *BanStore) Insert(ctx context.Context, b *models.Ban) error {
	col, err := s.db.collection(CollBans)
	if err != nil {
		return err
	}
	_, err = col.InsertOne(ctx, b)
	return wrapWriteErr(err)
}

// FindByCase looks a ban up by id or case number.
func (s *BanStore) FindByCase(ctx context.Context, ref string) (*models.Ban, error) {
	col, err := s.db.collection(CollBans)
	if err != nil {
		return nil, err
	}
	filter, err := caseFilter(ref)
	if err != nil {
		return nil, err
	}
	return findOne[models.Ban](ctx, col, filter)
}

// ListByPlayer returns a player's bans, newest first.
func (s *BanStore) ListByPlayer(ctx context.Context, name string, limit int) ([]models.Ban, error) {
	col, err := s.db.collection(CollBans)
	if err != nil {
		return nil, err
	}
	opts := options.Find().SetSort(newestFirst).SetLimit(int64(clampLimit(limit, 10, 25)))
	return findMany[models.Ban](ctx, col, bson.M{"playerName": exactName(name)}, opts)
}

// DeactivateForPlayer ends every active ban for a player name and returns
// how many changed.
func (s *BanStore) DeactivateForPlayer(ctx context.Context, name, by, reason string, at time.Time) (int64, error) {
	col, err := s.db.collection(CollBans)
	if err != nil {
		return 0, err
	}
	res, err := col.UpdateMany(ctx,
		bson.M{"playerName": exactName(name), "active": true},
		bson.M{"$set": bson.M{"active": false, "removedBy": by, "removedAt": at, "removeReason": reason}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
