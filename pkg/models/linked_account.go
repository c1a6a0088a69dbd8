package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Minecraft platforms.
const (
	PlatformJava    = "java"
	PlatformBedrock = "bedrock"
)

// MaxLinkedAccounts is how many Minecraft accounts one Discord user may link.
const MaxLinkedAccounts = 2

// LinkedAccount ties a Discord user to a Minecraft identity.
// Collection: linked_accounts.
type LinkedAccount struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DiscordID         string             `bson:"discordId" json:"discordId"`
	MinecraftUsername string             `bson:"minecraftUsername" json:"minecraftUsername"`
	UUID              string             `bson:"uuid" json:"uuid"`
	Platform          string             `bson:"platform" json:"platform"`
	LinkedAt          time.Time          `bson:"linkedAt" json:"linkedAt"`
	LinkedBy          string             `bson:"linkedBy,omitempty" json:"linkedBy,omitempty"`
	Verified          bool               `bson:"verified" json:"verified"`
	Primary           bool               `bson:"primary" json:"primary"`
}

// PlatformLabel renders the platform for embeds.
func (a *LinkedAccount) PlatformLabel() string {
	if a.Platform == PlatformBedrock {
		return "Bedrock"
	}
	return "Java"
}
