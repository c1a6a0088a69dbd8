// Package jobs holds the recurring work the scheduler runs: the daily
// server restart, the staff online role sync and the weekly reports.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/NewLifeSMP/NewLifeBotGo/internal/embeds"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/logger"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/outcome"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/rcon"
)

const (
	RestartTask = "server-restart"

	DefaultRestartReason = "Daily scheduled restart"
	ManualRestartReason  = "Manual restart by admin"
	MaxRestartDelay      = 300 * time.Second
)

var ErrRestartRunning = errors.New("a restart is already in progress")

// DMer sends a direct message and reports how it went.
type DMer interface {
	DM(ctx context.Context, userID string, embed *discordgo.MessageEmbed) outcome.Result
}

type countdownStep struct {
	message string
	wait    time.Duration
}

var countdown = []countdownStep{
	{"&c[Server] &fRestarting in 30 seconds for scheduled maintenance!", 10 * time.Second},
	{"&c[Server] &fRestarting in 20 seconds!", 10 * time.Second},
	{"&c[Server] &fRestarting in 10 seconds!", 5 * time.Second},
	{"&c[Server] &fRestarting in 5 seconds!", 3 * time.Second},
	{"&c[Server] &fRestarting in 2 seconds!", 2 * time.Second},
}

// Restarter counts the game server down over RCON and restarts it.
type Restarter struct {
	exec    rcon.Executor
	dm      DMer
	ownerID string

	running atomic.Bool
	sleep   func(ctx context.Context, d time.Duration) error
	now     func() time.Time
}

func NewRestarter(exec rcon.Executor, dm DMer, ownerID string) *Restarter {
	return &Restarter{exec: exec, dm: dm, ownerID: ownerID, sleep: sleepCtx, now: time.Now}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Task adapts the scheduled restart for the scheduler.
func (r *Restarter) Task(ctx context.Context) error {
	return r.Run(ctx, DefaultRestartReason)
}

// Running reports whether a countdown is in progress.
func (r *Restarter) Running() bool {
	return r.running.Load()
}

// RunAfter waits delay, clamped to MaxRestartDelay, and then restarts.
func (r *Restarter) RunAfter(ctx context.Context, reason string, delay time.Duration) error {
	if delay > MaxRestartDelay {
		delay = MaxRestartDelay
	}
	if delay > 0 {
		logger.Info(fmt.Sprintf("Restart countdown starts in %s", delay), "Restart")
		if err := r.sleep(ctx, delay); err != nil {
			return err
		}
	}
	return r.Run(ctx, reason)
}

// Run broadcasts the countdown, sends restart and DMs the owner the result.
// Broadcast failures are logged and do not stop the countdown.
func (r *Restarter) Run(ctx context.Context, reason string) error {
	if reason == "" {
		reason = DefaultRestartReason
	}
	if !r.running.CompareAndSwap(false, true) {
		return ErrRestartRunning
	}
	defer r.running.Store(false)

	logger.Info("Starting restart sequence - "+reason, "Restart")
	err := r.sequence(ctx)

	at := r.now()
	var embed *discordgo.MessageEmbed
	if err != nil {
		logger.Error(fmt.Sprintf("Server restart failed: %v", err), "Restart")
		embed = embeds.RestartFailed(reason, err, at)
	} else {
		logger.Success("Server restart initiated", "Restart")
		embed = embeds.RestartSucceeded(reason, at)
	}
	if r.dm != nil && r.ownerID != "" {
		if res := r.dm.DM(ctx, r.ownerID, embed); !res.IsOK() {
			logger.Warn("Restart report not delivered: "+res.String(), "Restart")
		}
	}
	return err
}

func (r *Restarter) sequence(ctx context.Context) error {
	if r.exec == nil {
		return errors.New("rcon is not configured")
	}
	for _, step := range countdown {
		if _, err := r.exec.Execute(ctx, rcon.BroadcastCommand(step.message)); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.Warn(fmt.Sprintf("Broadcast failed: %v", err), "Restart")
		}
		if err := r.sleep(ctx, step.wait); err != nil {
			return err
		}
	}

	resp, err := r.exec.Execute(ctx, "restart")
	if err != nil {
		return fmt.Errorf("send restart: %w", err)
	}
	logger.Debug("Restart response: "+rcon.Reply(resp), "Restart")

	// The server drops the console connection while it goes down.
	if c, ok := r.exec.(io.Closer); ok {
		_ = c.Close()
	}
	return nil
}
