package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/NewLifeSMP/NewLifeBotGo/pkg/models"
)

// FineStore persists fines.
type FineStore struct {
	db *Database
}

func NewFineStore(db *Database) *FineStore {
	return &FineStore{db: db}
}

func (s *FineStore) Insert(ctx context.Context, f *models.Fine) error {
	col, err := s.db.collection(CollFines)
	if err != nil {
		return err
	}
	_, err = col.InsertOne(ctx, f)
	return wrapWriteErr(err)
}

// FindByCase looks a fine up by id or case number.
func (s *FineStore) FindByCase(ctx context.Context, ref string) (*models.Fine, error) {
	col, err := s.db.collection(CollFines)
	if err != nil {
		return nil, err
	}
	filter, err := caseFilter(ref)
	if err != nil {
		return nil, err
	}
	return findOne[models.Fine](ctx, col, filter)
}

// MarkPaid flips an unpaid fine to paid. A fine that is already paid
// yields ErrAlreadyInactive.
func (s *FineStore) MarkPaid(ctx context.Context, id, by string, at time.Time) error {
	col, err := s.db.collection(CollFines)
	if err != nil {
		return err
	}
	res, err := col.UpdateOne(ctx,
		bson.M{"_id": id, "paid": false},
		bson.M{"$set": bson.M{"paid": true, "paidBy": by, "paidAt": at}},
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

// Unpaid returns outstanding fines, oldest due date first.
func (s *FineStore) Unpaid(ctx context.Context, limit int) ([]models.Fine, error) {
	col, err := s.db.collection(CollFines)
	if err != nil {
		return nil, err
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "dueAt", Value: 1}, {Key: "createdAt", Value: 1}}).
		SetLimit(int64(clampLimit(limit, 10, 25)))
	return findMany[models.Fine](ctx, col, bson.M{"paid": false}, opts)
}
