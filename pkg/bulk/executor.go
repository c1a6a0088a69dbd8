package bulk

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/NewLifeSMP/NewLifeBotGo/pkg/duration"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/logger"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/models"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/rcon"
)

// CaseCounter hands out case numbers.
type CaseCounter interface {
	Next(ctx context.Context) (int64, error)
}

// WarningWriter is the part of the warning store bulk actions use.
type WarningWriter interface {
	Insert(ctx context.Context, w *models.Warning) error
	PardonAllForPlayer(ctx context.Context, name, by string, at time.Time) (int64, error)
}

// BanWriter is the part of the ban store bulk actions use.
type BanWriter interface {
	Insert(ctx context.Context, b *models.Ban) error
	DeactivateForPlayer(ctx context.Context, name, by, reason string, at time.Time) (int64, error)
}

// Deps are the collaborators of an Executor.
type Deps struct {
	Counter  CaseCounter
	Warnings WarningWriter
	Bans     BanWriter
	RCON     rcon.Executor
	Now      func() time.Time
	NewID    func() string
}

// Report lists per-target results. Failures never stop the batch and
// completed targets are not rolled back.
type Report struct {
	Type      Type
	Succeeded []string
	Failed    []string
	By        string
}

func (r *Report) ok(s string)   { r.Succeeded = append(r.Succeeded, s) }
func (r *Report) fail(s string) { r.Failed = append(r.Failed, s) }

// Executor runs confirmed actions.
type Executor struct {
	deps Deps
}

func NewExecutor(deps Deps) *Executor {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.NewID == nil {
		deps.NewID = uuid.NewString
	}
	return &Executor{deps: deps}
}

// Run processes every target of a.
func (e *Executor) Run(ctx context.Context, a Action) Report {
	rep := Report{Type: a.Type, By: a.InitiatorTag}
	for _, player := range a.Targets {
		var err error
		label := player
		if NeedsRCON(a.Type) && e.deps.RCON == nil {
			logger.Warn(fmt.Sprintf("Bulk %s skipped for %s: RCON not configured", a.Type, player), "Bulk")
			rep.fail(player)
			continue
		}
		switch a.Type {
		case Warn:
			err = e.warn(ctx, a, player)
		case Kick:
			err = e.kick(ctx, a, player)
		case Ban:
			err = e.ban(ctx, a, player)
		case Unban:
			err = e.unban(ctx, a, player)
		case PardonWarnings:
			var n int64
			n, err = e.deps.Warnings.PardonAllForPlayer(ctx, player, a.InitiatorTag, e.deps.Now())
			label = fmt.Sprintf("%s (%d)", player, n)
		default:
			err = fmt.Errorf("unsupported bulk action %q", a.Type)
		}

		if err != nil {
			logger.Warn(fmt.Sprintf("Bulk %s failed for %s: %v", a.Type, player, err), "Bulk")
			rep.fail(player)
			continue
		}
		rep.ok(label)
	}
	logger.Info(fmt.Sprintf("Bulk %s by %s: %d ok, %d failed", a.Type, a.InitiatorTag, len(rep.Succeeded), len(rep.Failed)), "Bulk")
	return rep
}

// NeedsRCON reports whether t acts on the game server.
func NeedsRCON(t Type) bool {
	return t == Kick || t == Ban || t == Unban
}

func (e *Executor) kick(ctx context.Context, a Action, player string) error {
	_, err := e.deps.RCON.Execute(ctx, rcon.KickCommand(player, a.Reason))
	return err
}

func (e *Executor) warn(ctx context.Context, a Action, player string) error {
	caseNumber, err := e.deps.Counter.Next(ctx)
	if err != nil {
		return err
	}
	return e.deps.Warnings.Insert(ctx, &models.Warning{
		ID:         e.deps.NewID(),
		CaseNumber: caseNumber,
		UUID:       player,
		PlayerName: player,
		StaffUUID:  a.InitiatorID,
		StaffID:    a.InitiatorID,
		StaffName:  a.InitiatorTag,
		Reason:     "[Bulk] " + a.Reason,
		Severity:   models.SeverityMinor,
		Category:   models.CategoryOther,
		Active:     true,
		CreatedAt:  e.deps.Now(),
	})
}

// ban issues the RCON ban first; no record is written when it fails.
func (e *Executor) ban(ctx context.Context, a Action, player string) error {
	if _, res := rcon.Run(ctx, e.deps.RCON, rcon.VanillaBanCommand(player, a.Reason)); !res.IsOK() {
		return fmt.Errorf("%s", res.Reason)
	}

	now := e.deps.Now()
	ban := &models.Ban{
		ID:         e.deps.NewID(),
		UUID:       player,
		PlayerName: player,
		StaffUUID:  a.InitiatorID,
		StaffName:  a.InitiatorTag,
		Reason:     "[Bulk] " + a.Reason,
		Active:     true,
		CreatedAt:  now,
	}
	if d, ok := banLength(a.Duration); ok {
		ms := d.Milliseconds()
		exp := now.Add(d)
		ban.Duration = &ms
		ban.ExpiresAt = &exp
	}

	caseNumber, err := e.deps.Counter.Next(ctx)
	if err != nil {
		return err
	}
	ban.CaseNumber = caseNumber
	return e.deps.Bans.Insert(ctx, ban)
}

// unban pardons over RCON first; the records are left alone when it fails
// or the console reply reads like an error.
func (e *Executor) unban(ctx context.Context, a Action, player string) error {
	if _, res := rcon.Run(ctx, e.deps.RCON, rcon.PardonCommand(player)); !res.IsOK() {
		return fmt.Errorf("%s", res.Reason)
	}
	_, err := e.deps.Bans.DeactivateForPlayer(ctx, player, a.InitiatorTag, "[Bulk] "+a.Reason, e.deps.Now())
	return err
}

var banLengthPattern = regexp.MustCompile(`^\d+[dhm]$`)

// banLength reads minute, hour and day lengths. Anything else, "perm"
// included, is a permanent ban.
func banLength(s string) (time.Duration, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	if !banLengthPattern.MatchString(s) {
		return 0, false
	}
	spec, err := duration.Parse(s)
	if err != nil || spec.Duration <= 0 {
		return 0, false
	}
	return spec.Duration, true
}

// SendMessage delivers a message to the listed players, or to everyone when
// the only target is "all". It returns how many tells went through; a
// broadcast reports -1.
func SendMessage(ctx context.Context, exec rcon.Executor, targets []string, message string) (int, error) {
	if len(targets) == 1 && strings.EqualFold(targets[0], "all") {
		if _, err := exec.Execute(ctx, rcon.SayCommand(message)); err != nil {
			return 0, err
		}
		return -1, nil
	}
	sent := 0
	for _, p := range targets {
		if _, err := exec.Execute(ctx, rcon.TellCommand(p, message)); err == nil {
			sent++
		}
	}
	return sent, nil
}
