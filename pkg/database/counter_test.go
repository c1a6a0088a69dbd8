package database

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/NewLifeSMP/NewLifeBotGo/pkg/models"
)

func mockDatabase(mt *mtest.T) *Database {
	db := NewDatabase()
	db.client = mt.Client
	db.db = mt.DB
	db.connected = true
	return db
}

func TestCaseCounterIncrementsAtomically(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("returns the incremented value", func(mt *mtest.T) {
		mt.AddMockResponses(bson.D{
			{Key: "ok", Value: 1},
			{Key: "value", Value: bson.D{{Key: "_id", Value: models.CaseCounterID}, {Key: "seq", Value: int64(42)}}},
		})

		n, err := NewCaseCounter(mockDatabase(mt)).Next(context.Background())
		if err != nil {
			mt.Fatalf("Next() error = %v", err)
		}
		if n != 42 {
			mt.Errorf("Next() = %d, want 42", n)
		}

		cmd := mt.GetStartedEvent().Command
		if got := cmd.Lookup("findAndModify").StringValue(); got != CollCounters {
			mt.Errorf("findAndModify = %q, want %q", got, CollCounters)
		}
		if got := cmd.Lookup("query", "_id").StringValue(); got != models.CaseCounterID {
			mt.Errorf("query _id = %q, want %q", got, models.CaseCounterID)
		}
		if got, _ := cmd.Lookup("update", "$inc", "seq").AsInt64OK(); got != 1 {
			mt.Errorf("$inc seq = %d, want 1", got)
		}
		if !cmd.Lookup("upsert").Boolean() {
			mt.Error("upsert = false, want true")
		}
		if !cmd.Lookup("new").Boolean() {
			mt.Error("new = false, want true (return the document after the update)")
		}
	})

	mt.Run("server error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Name:    "BadValue",
			Message: "counter unavailable",
		}))

		n, err := NewCaseCounter(mockDatabase(mt)).Next(context.Background())
		if err == nil {
			mt.Fatal("Next() error = nil, want failure")
		}
		if n != 0 {
			mt.Errorf("Next() = %d, want 0 on failure", n)
		}
	})
}

func TestCaseCounterOffline(t *testing.T) {
	_, err := NewCaseCounter(NewDatabase()).Next(context.Background())
	if !errors.Is(err, ErrNotConnected) {
		t.Errorf("Next() error = %v, want %v", err, ErrNotConnected)
	}
}
