package database

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/NewLifeSMP/NewLifeBotGo/pkg/models"
)

// LinkedAccountStore persists Discord to Minecraft links. Lookups by uuid
// go through a DataManager cache because the watcher and the staff-online
// job hit them constantly.
type LinkedAccountStore struct {
	db     *Database
	byUUID *DataManager[models.LinkedAccount]
}

func NewLinkedAccountStore(db *Database) *LinkedAccountStore {
	return &LinkedAccountStore{
		db:     db,
		byUUID: NewDataManager[models.LinkedAccount](CollLinkedAccounts, db),
	}
}

var oldestLinkFirst = bson.D{{Key: "linkedAt", Value: 1}}

// FindByUUID returns the link for a Minecraft uuid.
func (s *LinkedAccountStore) FindByUUID(ctx context.Context, uuid string) (*models.LinkedAccount, error) {
	return s.byUUID.Get(ctx, bson.M{"uuid": uuid})
}

// FindByName returns the link whose Minecraft username matches name,
// ignoring case.
func (s *LinkedAccountStore) FindByName(ctx context.Context, name string) (*models.LinkedAccount, error) {
	col, err := s.db.collection(CollLinkedAccounts)
	if err != nil {
		return nil, err
	}
	return findOne[models.LinkedAccount](ctx, col, bson.M{"minecraftUsername": exactName(name)})
}

// ListByDiscord returns a member's links, oldest first, so index 0 is the
// account linked first.
func (s *LinkedAccountStore) ListByDiscord(ctx context.Context, discordID string) ([]models.LinkedAccount, error) {
	col, err := s.db.collection(CollLinkedAccounts)
	if err != nil {
		return nil, err
	}
	return findMany[models.LinkedAccount](ctx, col, bson.M{"discordId": discordID}, options.Find().SetSort(oldestLinkFirst))
}

// CountByDiscord counts a member's links.
func (s *LinkedAccountStore) CountByDiscord(ctx context.Context, discordID string) (int64, error) {
	col, err := s.db.collection(CollLinkedAccounts)
	if err != nil {
		return 0, err
	}
	return col.CountDocuments(ctx, bson.M{"discordId": discordID})
}

// Link stores a new link after checking that the uuid is free and the
// member is under the account limit. The first link becomes primary.
func (s *LinkedAccountStore) Link(ctx context.Context, acc *models.LinkedAccount) error {
	existing, err := s.FindByUUID(ctx, acc.UUID)
	switch {
	case err == nil && existing.DiscordID == acc.DiscordID:
		return ErrAlreadyLinked
	case err == nil:
		return ErrLinkedElsewhere
	case !errors.Is(err, ErrNotFound):
		return err
	}

	count, err := s.CountByDiscord(ctx, acc.DiscordID)
	if err != nil {
		return err
	}
	if count >= models.MaxLinkedAccounts {
		return ErrTooManyAccounts
	}
	acc.Primary = count == 0

	if err := s.byUUID.Insert(ctx, acc, bson.M{"uuid": acc.UUID}); err != nil {
		if errors.Is(wrapWriteErr(err), ErrDuplicateRecord) {
			return ErrAlreadyLinked
		}
		return err
	}
	return nil
}

// Unlink removes one link of a member. When the primary link goes, the
// oldest remaining link is promoted.
func (s *LinkedAccountStore) Unlink(ctx context.Context, discordID, uuid string) (*models.LinkedAccount, error) {
	col, err := s.db.collection(CollLinkedAccounts)
	if err != nil {
		return nil, err
	}
	acc, err := findOne[models.LinkedAccount](ctx, col, bson.M{"discordId": discordID, "uuid": uuid})
	if err != nil {
		return nil, err
	}
	if _, err := s.byUUID.Delete(ctx, bson.M{"uuid": uuid}); err != nil {
		return nil, err
	}

	if acc.Primary {
		rest, err := s.ListByDiscord(ctx, discordID)
		if err != nil {
			return acc, err
		}
		if len(rest) > 0 {
			if _, err := col.UpdateOne(ctx, bson.M{"_id": rest[0].ID}, bson.M{"$set": bson.M{"primary": true}}); err != nil {
				return acc, err
			}
			s.byUUID.Invalidate(bson.M{"uuid": rest[0].UUID})
		}
	}
	return acc, nil
}

// All returns every link.
func (s *LinkedAccountStore) All(ctx context.Context) ([]models.LinkedAccount, error) {
	col, err := s.db.collection(CollLinkedAccounts)
	if err != nil {
		return nil, err
	}
	return findMany[models.LinkedAccount](ctx, col, bson.M{})
}

// NameIndex maps lowercased Minecraft usernames to Discord IDs.
func NameIndex(accounts []models.LinkedAccount) map[string]string {
	out := make(map[string]string, len(accounts))
	for _, a := range accounts {
		out[strings.ToLower(a.MinecraftUsername)] = a.DiscordID
	}
	return out
}
