// Package moderation carries out staff actions: it resolves the target,
// writes the record under a fresh case number and then runs the DM, log and
// RCON side effects as independent steps whose outcome is reported back to
// the caller instead of aborting the action.
package moderation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"

	"github.com/NewLifeSMP/NewLifeBotGo/pkg/database"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/logger"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/models"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/outcome"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/profile"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/rcon"
)

var (
	ErrAlreadyBanned    = errors.New("player is already banned")
	ErrPlayerNotFound   = errors.New("player not found")
	ErrNoLinkedAccounts = errors.New("no linked minecraft accounts")
	ErrNoActiveBan      = errors.New("no active bans found")
	ErrNotMuted         = errors.New("member is not muted")
	ErrInvalidDuration  = errors.New("invalid duration")
	ErrInvalidType      = errors.New("invalid infraction type")
)

// Notifier delivers DMs and channel posts.
type Notifier interface {
	DM(ctx context.Context, userID string, embed *discordgo.MessageEmbed) outcome.Result
	Log(ctx context.Context, embed *discordgo.MessageEmbed) outcome.Result
	Post(ctx context.Context, channelID string, embed *discordgo.MessageEmbed) outcome.Result
}

// EventSink receives every persisted action.
type EventSink interface {
	Publish(ev models.ModerationEvent)
}

// Sinks fans an event out to several sinks in order.
type Sinks []EventSink

func (s Sinks) Publish(ev models.ModerationEvent) {
	for _, sink := range s {
		sink.Publish(ev)
	}
}

type CaseCounter interface {
	Next(ctx context.Context) (int64, error)
}

// Links resolves Discord users and Minecraft accounts to each other.
type Links interface {
	FindByUUID(ctx context.Context, uuid string) (*models.LinkedAccount, error)
	FindByName(ctx context.Context, name string) (*models.LinkedAccount, error)
	ListByDiscord(ctx context.Context, discordID string) ([]models.LinkedAccount, error)
}

type WarningStore interface {
	Insert(ctx context.Context, w *models.Warning) error
	FindByCase(ctx context.Context, ref string) (*models.Warning, error)
	Remove(ctx context.Context, id, by, byTag, reason string, at time.Time) error
	SetDMSent(ctx context.Context, id string) error
	CountActiveByDiscord(ctx context.Context, discordID string) (int64, error)
}

type ServerBanStore interface {
	Insert(ctx context.Context, b *models.ServerBan) error
	FindActive(ctx context.Context, uuid string, now time.Time) (*models.ServerBan, error)
	FindActiveByUsername(ctx context.Context, name string) (*models.ServerBan, error)
	DeactivateCovering(ctx context.Context, uuids []string, info database.UnbanInfo) ([]models.ServerBan, error)
}

type KickStore interface {
	Insert(ctx context.Context, k *models.Kick) error
}

type MuteStore interface {
	Insert(ctx context.Context, m *models.Mute) error
	FindActive(ctx context.Context, discordID string, now time.Time) (*models.Mute, error)
	Unmute(ctx context.Context, discordID, by, byTag string, at time.Time) (*models.Mute, error)
	SetDMSent(ctx context.Context, id string) error
}

type FineStore interface {
	Insert(ctx context.Context, f *models.Fine) error
	FindByCase(ctx context.Context, ref string) (*models.Fine, error)
	MarkPaid(ctx context.Context, id, by string, at time.Time) error
}

type InfractionStore interface {
	Insert(ctx context.Context, inf *models.Infraction) error
	Revoke(ctx context.Context, caseNumber int64, by string, at time.Time) (*models.Infraction, error)
}

// MemberTimeouter applies or clears a Discord timeout. A nil until clears it.
type MemberTimeouter interface {
	Timeout(ctx context.Context, guildID, userID string, until *time.Time) error
}

// Deps are the collaborators of a Service. Now and NewID default to the
// wall clock and random uuids.
type Deps struct {
	Counter     CaseCounter
	Warnings    WarningStore
	ServerBans  ServerBanStore
	Kicks       KickStore
	Mutes       MuteStore
	Fines       FineStore
	Infractions InfractionStore
	Links       Links
	Profiles    profile.Looker
	Proxy       rcon.Executor
	Notifier    Notifier
	Events      EventSink
	Timeouts    MemberTimeouter

	InfractionChannel string
	GuildName         string

	Now   func() time.Time
	NewID func() string
}

// Staff identifies who performed an action.
type Staff struct {
	ID   string
	Tag  string
	UUID string
}

// Service runs moderation actions.
type Service struct {
	deps Deps

	// watching is set while the change-stream watcher runs; claims are
	// only kept while it does.
	watching atomic.Bool
	// claims holds warnings already notified inline, keyed by ID, until the
	// watcher sees their insert.
	claims sync.Map
}

func New(deps Deps) *Service {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.NewID == nil {
		deps.NewID = uuid.NewString
	}
	return &Service{deps: deps}
}

// SetWatching tells the service whether the watcher is running.
func (s *Service) SetWatching(on bool) {
	s.watching.Store(on)
}

// Watching reports whether the watcher is running.
func (s *Service) Watching() bool {
	return s.watching.Load()
}

// nextCase hands out a case number. A counter failure is logged and the
// record is saved without one.
func (s *Service) nextCase(ctx context.Context, what string) int64 {
	n, err := s.deps.Counter.Next(ctx)
	if err != nil {
		logger.Error(fmt.Sprintf("Case number for %s unavailable: %v", what, err), "Moderation")
		return 0
	}
	return n
}

func (s *Service) publish(ev models.ModerationEvent) {
	if s.deps.Events == nil {
		return
	}
	if ev.ID == "" {
		ev.ID = s.deps.NewID()
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = s.deps.Now()
	}
	s.deps.Events.Publish(ev)
}

func (s *Service) dm(ctx context.Context, userID string, embed *discordgo.MessageEmbed) outcome.Result {
	if s.deps.Notifier == nil {
		return outcome.Skipped("notifications disabled")
	}
	return s.deps.Notifier.DM(ctx, userID, embed)
}

func (s *Service) log(ctx context.Context, embed *discordgo.MessageEmbed) outcome.Result {
	if s.deps.Notifier == nil {
		return outcome.Skipped("notifications disabled")
	}
	return s.deps.Notifier.Log(ctx, embed)
}
