package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/NewLifeSMP/NewLifeBotGo/pkg/models"
)

// MuteStore persists Discord timeouts issued by staff.
type MuteStore struct {
	db *Database
}

func NewMuteStore(db *Database) *MuteStore {
	return &MuteStore{db: db}
}

func (s *MuteStore) Insert(ctx context.Context, m *models.Mute) error {
	col, err := s.db.collection(CollMutes)
	if err != nil {
		return err
	}
	_, err = col.InsertOne(ctx, m)
	return wrapWriteErr(err)
}

// FindActive returns the newest unexpired active mute of a member.
func (s *MuteStore) FindActive(ctx context.Context, discordID string, now time.Time) (*models.Mute, error) {
	col, err := s.db.collection(CollMutes)
	if err != nil {
		return nil, err
	}
	filter := bson.M{
		"discordId": discordID,
		"active":    true,
		"$or": bson.A{
			bson.M{"expiresAt": nil},
			bson.M{"expiresAt": bson.M{"$gt": now}},
		},
	}
	return findOne[models.Mute](ctx, col, filter, options.FindOne().SetSort(newestFirst))
}

// Unmute deactivates every active mute of a member and returns the newest
// one it ended.
func (s *MuteStore) Unmute(ctx context.Context, discordID, by, byTag string, at time.Time) (*models.Mute, error) {
	col, err := s.db.collection(CollMutes)
	if err != nil {
		return nil, err
	}
	filter := bson.M{"discordId": discordID, "active": true}
	latest, err := findOne[models.Mute](ctx, col, filter, options.FindOne().SetSort(newestFirst))
	if err != nil {
		return nil, err
	}
	if _, err := col.UpdateMany(ctx, filter, bson.M{"$set": bson.M{
		"active":       false,
		"unmutedAt":    at,
		"unmutedBy":    by,
		"unmutedByTag": byTag,
	}}); err != nil {
		return nil, err
	}
	latest.Active = false
	latest.UnmutedAt = &at
	latest.UnmutedBy = by
	latest.UnmutedByTag = byTag
	return latest, nil
}

// Expired returns active mutes whose expiry has passed.
func (s *MuteStore) Expired(ctx context.Context, now time.Time) ([]models.Mute, error) {
	col, err := s.db.collection(CollMutes)
	if err != nil {
		return nil, err
	}
	return findMany[models.Mute](ctx, col, bson.M{
		"active":    true,
		"expiresAt": bson.M{"$ne": nil, "$lte": now},
	})
}

// Expire marks one mute inactive without an unmuting staff member.
func (s *MuteStore) Expire(ctx context.Context, id string, at time.Time) error {
	col, err := s.db.collection(CollMutes)
	if err != nil {
		return err
	}
	_, err = col.UpdateOne(ctx,
		bson.M{"_id": id, "active": true},
		bson.M{"$set": bson.M{"active": false, "unmutedAt": at, "unmutedBy": "system"}},
	)
	return err
}

// SetDMSent records that the muted member received a DM.
func (s *MuteStore) SetDMSent(ctx context.Context, id string) error {
	col, err := s.db.collection(CollMutes)
	if err != nil {
		return err
	}
	_, err = col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"dmSent": true}})
	return err
}

// Since returns mutes issued at or after since.
func (s *MuteStore) Since(ctx context.Context, since time.Time) ([]models.Mute, error) {
	col, err := s.db.collection(CollMutes)
	if err != nil {
		return nil, err
	}
	return findMany[models.Mute](ctx, col, bson.M{"createdAt": bson.M{"$gte": since}})
}
