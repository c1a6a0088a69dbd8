package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/NewLifeSMP/NewLifeBotGo/pkg/models"
)

// WarningStore persists warnings.
type WarningStore struct {
	db *Database
}

func NewWarningStore(db *Database) *WarningStore {
	return &WarningStore{db: db}
}

func (s *WarningStore) Insert(ctx context.Context, w *models.Warning) error {
	col, err := s.db.collection(CollWarnings)
	if err != nil {
		return err
	}
	_, err = col.InsertOne(ctx, w)
	return wrapWriteErr(err)
}

// FindByCase looks a warning up by id or case number.
func (s *WarningStore) FindByCase(ctx context.Context, ref string) (*models.Warning, error) {
	col, err := s.db.collection(CollWarnings)
	if err != nil {
		return nil, err
	}
	filter, err := caseFilter(ref)
	if err != nil {
		return nil, err
	}
	return findOne[models.Warning](ctx, col, filter)
}

// ListByPlayer pages through a player's warnings, newest first.
func (s *WarningStore) ListByPlayer(ctx context.Context, name string, page, perPage int) ([]models.Warning, int64, error) {
	col, err := s.db.collection(CollWarnings)
	if err != nil {
		return nil, 0, err
	}
	if page < 1 {
		page = 1
	}
	perPage = clampLimit(perPage, 10, 25)

	filter := bson.M{"playerName": exactName(name)}
	total, err := col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	opts := options.Find().
		SetSort(newestFirst).
		SetSkip(int64((page - 1) * perPage)).
		SetLimit(int64(perPage))
	list, err := findMany[models.Warning](ctx, col, filter, opts)
	return list, total, err
}

// ListByDiscord returns a member's warnings, newest first.
func (s *WarningStore) ListByDiscord(ctx context.Context, discordID string, includeRemoved bool, limit int) ([]models.Warning, error) {
	col, err := s.db.collection(CollWarnings)
	if err != nil {
		return nil, err
	}
	filter := bson.M{"discordId": discordID}
	if !includeRemoved {
		filter["active"] = true
	}
	opts := options.Find().SetSort(newestFirst).SetLimit(int64(clampLimit(limit, 10, 25)))
	return findMany[models.Warning](ctx, col, filter, opts)
}

// CountActiveByDiscord counts a member's active warnings.
func (s *WarningStore) CountActiveByDiscord(ctx context.Context, discordID string) (int64, error) {
	col, err := s.db.collection(CollWarnings)
	if err != nil {
		return 0, err
	}
	return col.CountDocuments(ctx, bson.M{"discordId": discordID, "active": true})
}

// ListActive returns the newest active warnings.
func (s *WarningStore) ListActive(ctx context.Context, limit int) ([]models.Warning, error) {
	col, err := s.db.collection(CollWarnings)
	if err != nil {
		return nil, err
	}
	opts := options.Find().SetSort(newestFirst).SetLimit(int64(clampLimit(limit, 10, 25)))
	return findMany[models.Warning](ctx, col, bson.M{"active": true}, opts)
}

// Recent returns the newest warnings regardless of state.
func (s *WarningStore) Recent(ctx context.Context, limit int) ([]models.Warning, error) {
	col, err := s.db.collection(CollWarnings)
	if err != nil {
		return nil, err
	}
	opts := options.Find().SetSort(newestFirst).SetLimit(int64(clampLimit(limit, 10, 25)))
	return findMany[models.Warning](ctx, col, bson.M{}, opts)
}

// Remove deactivates one active warning. A warning that is already
// inactive yields ErrAlreadyInactive.
func (s *WarningStore) Remove(ctx context.Context, id, by, byTag, reason string, at time.Time) error {
	col, err := s.db.collection(CollWarnings)
	if err != nil {
		return err
	}
	res, err := col.UpdateOne(ctx,
		bson.M{"_id": id, "active": true},
		bson.M{"$set": bson.M{
			"active":       false,
			"removedBy":    by,
			"removedByTag": byTag,
			"removedAt":    at,
			"removeReason": reason,
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		n, err := col.CountDocuments(ctx, bson.M{"_id": id})
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		return ErrAlreadyInactive
	}
	return nil
}

// PardonAllForPlayer deactivates every active warning for a player name
// and returns how many changed.
func (s *WarningStore) PardonAllForPlayer(ctx context.Context, name, by string, at time.Time) (int64, error) {
	col, err := s.db.collection(CollWarnings)
	if err != nil {
		return 0, err
	}
	res, err := col.UpdateMany(ctx,
		bson.M{"playerName": exactName(name), "active": true},
		bson.M{"$set": bson.M{"active": false, "removedBy": by, "removedAt": at, "removeReason": "Bulk pardon"}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// SetDMSent records that the warned player received a DM.
func (s *WarningStore) SetDMSent(ctx context.Context, id string) error {
	col, err := s.db.collection(CollWarnings)
	if err != nil {
		return err
	}
	_, err = col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"dmSent": true}})
	return err
}

// Since returns warnings created at or after since.
func (s *WarningStore) Since(ctx context.Context, since time.Time) ([]models.Warning, error) {
	col, err := s.db.collection(CollWarnings)
	if err != nil {
		return nil, err
	}
	return findMany[models.Warning](ctx, col, bson.M{"createdAt": bson.M{"$gte": since}})
}
