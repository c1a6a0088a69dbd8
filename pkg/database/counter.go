package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/NewLifeSMP/NewLifeBotGo/pkg/models"
)

// CaseCounter hands out case numbers shared by every punishment record.
type CaseCounter struct {
	db *Database
}

// NewCaseCounter returns a counter backed by the counters collection.
func NewCaseCounter(db *Database) *CaseCounter {
	return &CaseCounter{db: db}
}

// Next atomically increments and returns the case number. Concurrent
// callers never receive the same value; numbers consumed by a failed
// insert are not reused.
func (c *CaseCounter) Next(ctx context.Context) (int64, error) {
	col, err := c.db.collection(CollCounters)
	if err != nil {
		return 0, err
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter models.Counter
	err = col.FindOneAndUpdate(ctx,
		bson.M{"_id": models.CaseCounterID},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next case number: %w", err)
	}
	return counter.Seq, nil
}
