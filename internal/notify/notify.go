// Package notify delivers DMs and log-channel posts. Every delivery is a
// best-effort step that reports an outcome.Result instead of an error.
package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/NewLifeSMP/NewLifeBotGo/internal/embeds"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/logger"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/outcome"
)

// Session is the part of *discordgo.Session the notifier uses.
type Session interface {
	UserChannelCreate(recipientID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Notifier sends DMs, mirrors each DM attempt to the DM log channel and
// posts to the moderation log channel.
type Notifier struct {
	session      Session
	logChannel   string
	dmLogChannel string
}

func New(s Session, logChannel, dmLogChannel string) *Notifier {
	return &Notifier{session: s, logChannel: logChannel, dmLogChannel: dmLogChannel}
}

// DM sends embed to a user's DM channel.
func (n *Notifier) DM(ctx context.Context, userID string, embed *discordgo.MessageEmbed) outcome.Result {
	if userID == "" {
		return outcome.Skipped("no discord account")
	}
	res := n.sendDM(ctx, userID, embed)
	n.mirror(ctx, userID, embed, res)
	if res.IsOK() {
		logger.Debug("DM sent to "+userID, "Notify")
	} else {
		logger.Warn(fmt.Sprintf("Could not DM %s: %s", userID, res.Reason), "Notify")
	}
	return res
}

func (n *Notifier) sendDM(ctx context.Context, userID string, embed *discordgo.MessageEmbed) outcome.Result {
	ch, err := n.session.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return outcome.Failed(dmError(err))
	}
	if _, err := n.session.ChannelMessageSendEmbed(ch.ID, embed, discordgo.WithContext(ctx)); err != nil {
		return outcome.Failed(dmError(err))
	}
	return outcome.Ok()
}

// dmError turns Discord's "cannot send messages to this user" into the
// message staff recognise.
func dmError(err error) string {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Message != nil && restErr.Message.Code == discordgo.ErrCodeCannotSendMessagesToThisUser {
		return "user has DMs disabled"
	}
	return err.Error()
}

func (n *Notifier) mirror(ctx context.Context, userID string, embed *discordgo.MessageEmbed, res outcome.Result) {
	if n.dmLogChannel == "" {
		return
	}
	title, result, color := "DM Sent", "Success", embeds.ColorSuccess
	if !res.IsOK() {
		title, result, color = "DM Failed", "Failure: "+res.Reason, embeds.ColorError
	}
	fields := []*discordgo.MessageEmbedField{
		{Name: "User ID", Value: userID, Inline: true},
		{Name: "Result", Value: result, Inline: true},
	}
	if embed != nil && embed.Title != "" {
		content := embed.Title
		if len(content) > 1024 {
			content = content[:1020] + "…"
		}
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Content", Value: content})
	}
	log := &discordgo.MessageEmbed{Title: title, Color: color, Fields: fields}
	if _, err := n.session.ChannelMessageSendEmbed(n.dmLogChannel, log, discordgo.WithContext(ctx)); err != nil {
		logger.Debug("DM log post failed: "+err.Error(), "Notify")
	}
}

// Log posts embed to the moderation log channel.
func (n *Notifier) Log(ctx context.Context, embed *discordgo.MessageEmbed) outcome.Result {
	return n.Post(ctx, n.logChannel, embed)
}

// Post sends embed to any channel.
func (n *Notifier) Post(ctx context.Context, channelID string, embed *discordgo.MessageEmbed) outcome.Result {
	if channelID == "" {
		return outcome.Skipped("no channel configured")
	}
	if _, err := n.session.ChannelMessageSendEmbed(channelID, embed, discordgo.WithContext(ctx)); err != nil {
		logger.Error(fmt.Sprintf("Could not post to channel %s: %v", channelID, err), "Notify")
		return outcome.FromErr(err)
	}
	return outcome.Ok()
}
