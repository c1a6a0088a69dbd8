package database

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/NewLifeSMP/NewLifeBotGo/pkg/models"
)

// StaffActivity counts punishments one staff member issued in a window.
type StaffActivity struct {
	StaffID  string
	StaffTag string
	Bans     int
	Kicks    int
	Warnings int
	Mutes    int
}

func (a StaffActivity) Total() int {
	return a.Bans + a.Kicks + a.Warnings + a.Mutes
}

// ActivityReport is the aggregate for the weekly staff report.
type ActivityReport struct {
	Since    time.Time
	Bans     int
	Kicks    int
	Warnings int
	Mutes    int
	Staff    []StaffActivity
}

func (r ActivityReport) Total() int {
	return r.Bans + r.Kicks + r.Warnings + r.Mutes
}

// Top returns at most n staff members by total actions.
func (r ActivityReport) Top(n int) []StaffActivity {
	if n >= len(r.Staff) {
		return r.Staff
	}
	return r.Staff[:n]
}

// ActivitySources bundles the stores the staff report reads from.
type ActivitySources struct {
	ServerBans *ServerBanStore
	Kicks      *KickStore
	Warnings   *WarningStore
	Mutes      *MuteStore
}

// CollectActivity loads every punishment issued since the given time and
// groups it by staff member.
func CollectActivity(ctx context.Context, src ActivitySources, since time.Time) (*ActivityReport, error) {
	var (
		bans     []models.ServerBan
		kicks    []models.Kick
		warnings []models.Warning
		mutes    []models.Mute
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { bans, err = src.ServerBans.Since(gctx, since); return })
	g.Go(func() (err error) { kicks, err = src.Kicks.Since(gctx, since); return })
	g.Go(func() (err error) { warnings, err = src.Warnings.Since(gctx, since); return })
	g.Go(func() (err error) { mutes, err = src.Mutes.Since(gctx, since); return })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return aggregateActivity(since, bans, kicks, warnings, mutes), nil
}

func aggregateActivity(since time.Time, bans []models.ServerBan, kicks []models.Kick, warnings []models.Warning, mutes []models.Mute) *ActivityReport {
	byStaff := make(map[string]*StaffActivity)
	entry := func(id, tag string) *StaffActivity {
		if id == "" {
			id = "unknown"
		}
		a, ok := byStaff[id]
		if !ok {
			a = &StaffActivity{StaffID: id, StaffTag: tag}
			byStaff[id] = a
		}
		if a.StaffTag == "" {
			a.StaffTag = tag
		}
		return a
	}

	for _, b := range bans {
		entry(b.StaffID, b.StaffTag).Bans++
	}
	for _, k := range kicks {
		entry(k.StaffID, k.StaffTag).Kicks++
	}
	for _, w := range warnings {
		entry(w.StaffID, w.StaffName).Warnings++
	}
	for _, m := range mutes {
		entry(m.StaffID, m.StaffName).Mutes++
	}

	report := &ActivityReport{
		Since:    since,
		Bans:     len(bans),
		Kicks:    len(kicks),
		Warnings: len(warnings),
		Mutes:    len(mutes),
		Staff:    make([]StaffActivity, 0, len(byStaff)),
	}
	for _, a := range byStaff {
		if a.StaffTag == "" {
			a.StaffTag = "Unknown"
		}
		report.Staff = append(report.Staff, *a)
	}
	sort.Slice(report.Staff, func(i, j int) bool {
		ti, tj := report.Staff[i].Total(), report.Staff[j].Total()
		if ti != tj {
			return ti > tj
		}
		return report.Staff[i].StaffTag < report.Staff[j].StaffTag
	})
	return report
}
