package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/NewLifeSMP/NewLifeBotGo/pkg/models"
)

// GuruStore persists weekly guru performance records, one per
// (guruId, weekStart).
type GuruStore struct {
	db *Database
}

func NewGuruStore(db *Database) *GuruStore {
	return &GuruStore{db: db}
}

// FindWeek returns one guru's record for the week starting at weekStart.
func (s *GuruStore) FindWeek(ctx context.Context, guruID string, weekStart time.Time) (*models.GuruPerformance, error) {
	col, err := s.db.collection(CollGuruPerformance)
	if err != nil {
		return nil, err
	}
	return findOne[models.GuruPerformance](ctx, col, bson.M{"guruId": guruID, "weekStart": weekStart})
}

// Save upserts the record keyed by guru and week.
func (s *GuruStore) Save(ctx context.Context, rec *models.GuruPerformance) error {
	col, err := s.db.collection(CollGuruPerformance)
	if err != nil {
		return err
	}
	rec.UpdatedAt = time.Now().UTC()

	doc := *rec
	filter := bson.M{"guruId": rec.GuruID, "weekStart": rec.WeekStart}
	if rec.ID.IsZero() {
		res, err := col.ReplaceOne(ctx, filter, doc, options.Replace().SetUpsert(true))
		if err != nil {
			return wrapWriteErr(err)
		}
		if id, ok := objectID(res.UpsertedID); ok {
			rec.ID = id
		}
		return nil
	}
	_, err = col.ReplaceOne(ctx, bson.M{"_id": rec.ID}, doc)
	return wrapWriteErr(err)
}

// ListWeek returns every record of a guild for one week, best score first.
func (s *GuruStore) ListWeek(ctx context.Context, guildID string, weekStart time.Time) ([]models.GuruPerformance, error) {
	col, err := s.db.collection(CollGuruPerformance)
	if err != nil {
		return nil, err
	}
	opts := options.Find().SetSort(bson.D{{Key: "performanceScore", Value: -1}})
	return findMany[models.GuruPerformance](ctx, col, bson.M{"guildId": guildID, "weekStart": weekStart}, opts)
}

// History returns a guru's records for weeks starting at or after since,
// newest first.
func (s *GuruStore) History(ctx context.Context, guruID, guildID string, since time.Time) ([]models.GuruPerformance, error) {
	col, err := s.db.collection(CollGuruPerformance)
	if err != nil {
		return nil, err
	}
	opts := options.Find().SetSort(bson.D{{Key: "weekStart", Value: -1}})
	return findMany[models.GuruPerformance](ctx, col, bson.M{
		"guruId":    guruID,
		"guildId":   guildID,
		"weekStart": bson.M{"$gte": since},
	}, opts)
}

// MarkReportSent flags every record of a guild week as reported.
func (s *GuruStore) MarkReportSent(ctx context.Context, guildID string, weekStart, at time.Time) error {
	col, err := s.db.collection(CollGuruPerformance)
	if err != nil {
		return err
	}
	_, err = col.UpdateMany(ctx,
		bson.M{"guildId": guildID, "weekStart": weekStart},
		bson.M{"$set": bson.M{"reportSent": true, "reportSentAt": at}},
	)
	return err
}
