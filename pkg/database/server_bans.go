package database

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/NewLifeSMP/NewLifeBotGo/pkg/models"
)

// ServerBanStore persists proxy-enforced server bans.
type ServerBanStore struct {
	db *Database
}

func NewServerBanStore(db *Database) *ServerBanStore {
	return &ServerBanStore{db: db}
}

var newestBanFirst = bson.D{{Key: "bannedAt", Value: -1}}

// uuidVariants returns the raw uuid plus its dashless forms so lookups
// match however the uuid was stored.
func uuidVariants(uuids ...string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, len(uuids)*2)
	add := func(s string) {
		if s == "" {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	for _, u := range uuids {
		add(u)
		stripped := strings.ReplaceAll(u, "-", "")
		add(stripped)
		add(strings.ToLower(stripped))
	}
	return out
}

func (s *ServerBanStore) Insert(ctx context.Context, b *models.ServerBan) error {
	col, err := s.db.collection(CollServerBans)
	if err != nil {
		return err
	}
	res, err := col.InsertOne(ctx, b)
	if err != nil {
		return wrapWriteErr(err)
	}
	if id, ok := objectID(res.InsertedID); ok {
		b.ID = id
	}
	return nil
}

// FindActive returns the active ban covering uuid. A temporary ban whose
// expiry has passed is deactivated on read and reported as ErrNotFound.
func (s *ServerBanStore) FindActive(ctx context.Context, uuid string, now time.Time) (*models.ServerBan, error) {
	col, err := s.db.collection(CollServerBans)
	if err != nil {
		return nil, err
	}
	ban, err := findOne[models.ServerBan](ctx, col, bson.M{
		"bannedUuids": bson.M{"$in": uuidVariants(uuid)},
		"active":      true,
	})
	if err != nil {
		return nil, err
	}
	if ban.IsExpired(now) {
		if _, err := col.UpdateOne(ctx,
			bson.M{"_id": ban.ID, "active": true},
			bson.M{"$set": bson.M{"active": false}},
		); err != nil {
			return nil, err
		}
		return nil, ErrNotFound
	}
	return ban, nil
}

// FindActiveByUsername falls back to the primary username when no uuid is known.
func (s *ServerBanStore) FindActiveByUsername(ctx context.Context, name string) (*models.ServerBan, error) {
	col, err := s.db.collection(CollServerBans)
	if err != nil {
		return nil, err
	}
	return findOne[models.ServerBan](ctx, col, bson.M{
		"primaryUsername": exactName(name),
		"active":          true,
	})
}

// FindByCase looks a server ban up by case number.
func (s *ServerBanStore) FindByCase(ctx context.Context, caseNumber int64) (*models.ServerBan, error) {
	col, err := s.db.collection(CollServerBans)
	if err != nil {
		return nil, err
	}
	return findOne[models.ServerBan](ctx, col, bson.M{"caseNumber": caseNumber})
}

// History returns every ban that covered uuid, newest first.
func (s *ServerBanStore) History(ctx context.Context, uuid string, limit int) ([]models.ServerBan, error) {
	col, err := s.db.collection(CollServerBans)
	if err != nil {
		return nil, err
	}
	opts := options.Find().SetSort(newestBanFirst).SetLimit(int64(clampLimit(limit, 10, 50)))
	return findMany[models.ServerBan](ctx, col, bson.M{"bannedUuids": bson.M{"$in": uuidVariants(uuid)}}, opts)
}

// HistoryByUsername returns bans whose primary username matches name.
func (s *ServerBanStore) HistoryByUsername(ctx context.Context, name string, limit int) ([]models.ServerBan, error) {
	col, err := s.db.collection(CollServerBans)
	if err != nil {
		return nil, err
	}
	opts := options.Find().SetSort(newestBanFirst).SetLimit(int64(clampLimit(limit, 10, 50)))
	return findMany[models.ServerBan](ctx, col, bson.M{"primaryUsername": exactName(name)}, opts)
}

// Recent returns the newest bans.
func (s *ServerBanStore) Recent(ctx context.Context, limit int) ([]models.ServerBan, error) {
	col, err := s.db.collection(CollServerBans)
	if err != nil {
		return nil, err
	}
	opts := options.Find().SetSort(newestBanFirst).SetLimit(int64(clampLimit(limit, 10, 25)))
	return findMany[models.ServerBan](ctx, col, bson.M{}, opts)
}

// UnbanInfo describes who lifted a ban and why.
type UnbanInfo struct {
	By     string
	ByTag  string
	Reason string
	At     time.Time
}

// DeactivateCovering ends every active ban whose primary or banned uuids
// include any of uuids and returns the bans it ended.
func (s *ServerBanStore) DeactivateCovering(ctx context.Context, uuids []string, info UnbanInfo) ([]models.ServerBan, error) {
	variants := uuidVariants(uuids...)
	filter := bson.M{
		"active": true,
		"$or": bson.A{
			bson.M{"primaryUuid": bson.M{"$in": variants}},
			bson.M{"bannedUuids": bson.M{"$in": variants}},
		},
	}
	return s.deactivate(ctx, filter, info)
}

// DeactivateByID ends one active ban.
func (s *ServerBanStore) DeactivateByID(ctx context.Context, ban *models.ServerBan, info UnbanInfo) ([]models.ServerBan, error) {
	return s.deactivate(ctx, bson.M{"_id": ban.ID, "active": true}, info)
}

func (s *ServerBanStore) deactivate(ctx context.Context, filter bson.M, info UnbanInfo) ([]models.ServerBan, error) {
	col, err := s.db.collection(CollServerBans)
	if err != nil {
		return nil, err
	}
	bans, err := findMany[models.ServerBan](ctx, col, filter)
	if err != nil {
		return nil, err
	}

	ended := make([]models.ServerBan, 0, len(bans))
	at := info.At
	for _, ban := range bans {
		res, err := col.UpdateOne(ctx,
			bson.M{"_id": ban.ID, "active": true},
			bson.M{"$set": bson.M{
				"active":        false,
				"unbannedAt":    at,
				"unbannedBy":    info.By,
				"unbannedByTag": info.ByTag,
				"unbanReason":   info.Reason,
			}},
		)
		if err != nil {
			return ended, err
		}
		if res.ModifiedCount == 0 {
			continue
		}
		ban.Active = false
		ban.UnbannedAt = &at
		ban.UnbannedBy = info.By
		ban.UnbannedByTag = info.ByTag
		ban.UnbanReason = info.Reason
		ended = append(ended, ban)
	}
	return ended, nil
}

// Since returns bans issued at or after since.
func (s *ServerBanStore) Since(ctx context.Context, since time.Time) ([]models.ServerBan, error) {
	col, err := s.db.collection(CollServerBans)
	if err != nil {
		return nil, err
	}
	return findMany[models.ServerBan](ctx, col, bson.M{"bannedAt": bson.M{"$gte": since}})
}

// ActiveUUIDs lists every uuid covered by an active ban.
func (s *ServerBanStore) ActiveUUIDs(ctx context.Context) ([]string, error) {
	col, err := s.db.collection(CollServerBans)
	if err != nil {
		return nil, err
	}
	values, err := col.Distinct(ctx, "bannedUuids", bson.M{"active": true})
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if id, ok := v.(string); ok {
			out = append(out, id)
		}
	}
	return out, nil
}
