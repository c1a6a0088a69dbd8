// Package scheduler runs named cron and interval tasks on robfig/cron.
// A task that errors or panics is logged and runs again on its next tick.
package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/NewLifeSMP/NewLifeBotGo/pkg/logger"
)

// Task is one unit of scheduled work.
type Task func(ctx context.Context) error

// Entry describes a registered task.
type Entry struct {
	Name string
	Spec string
	Next time.Time
}

// cronLogger routes cron's own messages into the bot logger.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.Debug(fmt.Sprint(append([]interface{}{msg, " "}, keysAndValues...)...), "Scheduler")
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logger.Error(fmt.Sprintf("%s: %v %v", msg, err, keysAndValues), "Scheduler")
}

type registered struct {
	id   cron.EntryID
	spec string
	run  func()
}

// Scheduler owns one cron runner. Tasks are keyed by name; scheduling a
// name again replaces the old task.
type Scheduler struct {
	mu     sync.Mutex
	cron   *cron.Cron
	tasks  map[string]registered
	ctx    context.Context
	cancel context.CancelFunc
}

func New() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	l := cronLogger{}
	return &Scheduler{
		cron:   cron.New(cron.WithLogger(l), cron.WithChain(cron.Recover(l))),
		tasks:  make(map[string]registered),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start begins running tasks in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	logger.System("Scheduler started", "Scheduler")
}

// Schedule registers a cron task. timezone is an IANA name; empty means UTC.
// A run that is still going when the next tick fires is not overlapped.
func (s *Scheduler) Schedule(name, spec, timezone string, task Task) error {
	if timezone == "" {
		timezone = "UTC"
	}
	if _, err := time.LoadLocation(timezone); err != nil {
		return fmt.Errorf("schedule %s: %w", name, err)
	}
	full := fmt.Sprintf("CRON_TZ=%s %s", timezone, spec)
	if err := s.add(name, full, task); err != nil {
		return err
	}
	logger.Info(fmt.Sprintf("Registered: %s (%s %s)", name, spec, timezone), "Scheduler")
	return nil
}

// Every registers a fixed interval task.
func (s *Scheduler) Every(name string, every time.Duration, task Task) error {
	if every < time.Second {
		return fmt.Errorf("schedule %s: interval %v is below one second", name, every)
	}
	if err := s.add(name, "@every "+every.String(), task); err != nil {
		return err
	}
	logger.Info(fmt.Sprintf("Registered interval: %s (every %s)", name, every), "Scheduler")
	return nil
}

func (s *Scheduler) add(name, spec string, task Task) error {
	run := s.wrap(name, task)
	job := cron.NewChain(cron.SkipIfStillRunning(cronLogger{})).Then(cron.FuncJob(run))

	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.cron.AddJob(spec, job)
	if err != nil {
		return fmt.Errorf("schedule %s: %w", name, err)
	}
	if old, ok := s.tasks[name]; ok {
		s.cron.Remove(old.id)
		logger.Warn("Replacing existing task: "+name, "Scheduler")
	}
	s.tasks[name] = registered{id: id, spec: spec, run: job.Run}
	return nil
}

func (s *Scheduler) wrap(name string, task Task) func() {
	return func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error(fmt.Sprintf("Task %s panicked: %v", name, r), "Scheduler")
			}
		}()
		logger.Debug("Running scheduled task: "+name, "Scheduler")
		if err := task(s.ctx); err != nil {
			logger.Error(fmt.Sprintf("Task %s failed: %v", name, err), "Scheduler")
		}
	}
}

// RunNow runs a registered task once in the background, outside its
// schedule. It reports false for unknown names.
func (s *Scheduler) RunNow(name string) bool {
	s.mu.Lock()
	t, ok := s.tasks[name]
	s.mu.Unlock()
	if !ok {
		return false
	}
	go t.run()
	return true
}

// Stop removes one task.
func (s *Scheduler) Stop(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[name]
	if !ok {
		return false
	}
	s.cron.Remove(t.id)
	delete(s.tasks, name)
	logger.Info("Stopped task: "+name, "Scheduler")
	return true
}

// StopAll stops the runner, cancels the task context and waits for
// running tasks to return or ctx to end.
func (s *Scheduler) StopAll(ctx context.Context) {
	done := s.cron.Stop()
	s.cancel()
	select {
	case <-done.Done():
	case <-ctx.Done():
		logger.Warn("Timed out waiting for running tasks", "Scheduler")
	}

	s.mu.Lock()
	s.tasks = make(map[string]registered)
	s.mu.Unlock()
	logger.System("All scheduled tasks stopped", "Scheduler")
}

// List returns the registered tasks sorted by name.
func (s *Scheduler) List() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Entry, 0, len(s.tasks))
	for name, t := range s.tasks {
		out = append(out, Entry{Name: name, Spec: t.spec, Next: s.cron.Entry(t.id).Next})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Next returns the next run of a task, or the zero time.
func (s *Scheduler) Next(name string) time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[name]
	if !ok {
		return time.Time{}
	}
	return s.cron.Entry(t.id).Next
}
