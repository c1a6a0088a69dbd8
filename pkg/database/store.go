package database

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound         = errors.New("record not found")
	ErrAlreadyInactive  = errors.New("record is already inactive")
	ErrAlreadyLinked    = errors.New("minecraft account already linked to this discord user")
	ErrLinkedElsewhere  = errors.New("minecraft account linked to another discord user")
	ErrTooManyAccounts  = errors.New("linked account limit reached")
	ErrDuplicateRecord  = errors.New("duplicate record")
	ErrInvalidReference = errors.New("invalid case reference")
)

func findOne[T any](ctx context.Context, col *mongo.Collection, filter any, opts ...*options.FindOneOptions) (*T, error) {
	var out T
	if err := col.FindOne(ctx, filter, opts...).Decode(&out); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

func findMany[T any](ctx context.Context, col *mongo.Collection, filter any, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := col.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cursor.Close(ctx) }()

	out := make([]T, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func objectID(v any) (primitive.ObjectID, bool) {
	id, ok := v.(primitive.ObjectID)
	return id, ok
}

func wrapWriteErr(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateRecord
	}
	return err
}

// CaseNumberOf parses "42" or "#42". ok is false for anything else.
func CaseNumberOf(ref string) (int64, bool) {
	ref = strings.TrimPrefix(strings.TrimSpace(ref), "#")
	n, err := strconv.ParseInt(ref, 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// caseFilter matches a record by document id, or by case number when ref
// is numeric. Ids are tried first because ids and numbers never overlap.
func caseFilter(ref string) (bson.M, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, ErrInvalidReference
	}
	if n, ok := CaseNumberOf(ref); ok {
		return bson.M{"$or": bson.A{bson.M{"_id": ref}, bson.M{"caseNumber": n}}}, nil
	}
	return bson.M{"_id": ref}, nil
}

// exactName matches a player name case-insensitively.
func exactName(name string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(strings.TrimSpace(name)) + "$", Options: "i"}
}

// clampLimit bounds a caller-supplied list size.
func clampLimit(n, def, max int) int {
	if n <= 0 {
		return def
	}
	if n > max {
		return max
	}
	return n
}

var newestFirst = bson.D{{Key: "createdAt", Value: -1}}
