package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/NewLifeSMP/NewLifeBotGo/pkg/models"
)

// InfractionStore persists staff infractions.
type InfractionStore struct {
	db *Database
}

func NewInfractionStore(db *Database) *InfractionStore {
	return &InfractionStore{db: db}
}

// InfractionFilter narrows List. Empty fields match everything.
type InfractionFilter struct {
	GuildID  string
	TargetID string
	Type     models.InfractionType
}

func (s *InfractionStore) Insert(ctx context.Context, inf *models.Infraction) error {
	col, err := s.db.collection(CollInfractions)
	if err != nil {
		return err
	}
	_, err = col.InsertOne(ctx, inf)
	return wrapWriteErr(err)
}

// List returns matching infractions, newest first.
func (s *InfractionStore) List(ctx context.Context, f InfractionFilter, limit int) ([]models.Infraction, error) {
	col, err := s.db.collection(CollInfractions)
	if err != nil {
		return nil, err
	}
	query := bson.M{}
	if f.GuildID != "" {
		query["guildId"] = f.GuildID
	}
	if f.TargetID != "" {
		query["targetId"] = f.TargetID
	}
	if f.Type != "" {
		query["type"] = f.Type
	}
	opts := options.Find().SetSort(newestFirst).SetLimit(int64(clampLimit(limit, 15, 25)))
	return findMany[models.Infraction](ctx, col, query, opts)
}

// FindByCase looks an infraction up by case number.
func (s *InfractionStore) FindByCase(ctx context.Context, caseNumber int64) (*models.Infraction, error) {
	col, err := s.db.collection(CollInfractions)
	if err != nil {
		return nil, err
	}
	return findOne[models.Infraction](ctx, col, bson.M{"caseNumber": caseNumber})
}

// Revoke deactivates an active infraction and returns it.
func (s *InfractionStore) Revoke(ctx context.Context, caseNumber int64, by string, at time.Time) (*models.Infraction, error) {
	col, err := s.db.collection(CollInfractions)
	if err != nil {
		return nil, err
	}
	inf, err := findOne[models.Infraction](ctx, col, bson.M{"caseNumber": caseNumber})
	if err != nil {
		return nil, err
	}
	if !inf.Active {
		return inf, ErrAlreadyInactive
	}
	res, err := col.UpdateOne(ctx,
		bson.M{"_id": inf.ID, "active": true},
		bson.M{"$set": bson.M{"active": false, "revokedBy": by, "revokedAt": at}},
	)
	if err != nil {
		return nil, err
	}
	if res.ModifiedCount == 0 {
		return inf, ErrAlreadyInactive
	}
	inf.Active = false
	inf.RevokedBy = by
	inf.RevokedAt = &at
	return inf, nil
}
