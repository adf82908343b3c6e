package state

import "time"

// Migrate fills in whatever an older persisted document is missing and
// repairs values that must not survive a reload. It is applied to every
// loaded state before anyone reads it:
//
//   - a document with no profiles becomes a fresh default state
//   - a missing pin falls back to "1234"
//   - missing master lists seed the same defaults as profile creation
//   - a running stopwatch is forced to stopped and zeroed; a running timer
//     never survives a reload
//
// Migrate never fails; the worst input degrades to NewState(now).
func Migrate(s State, now time.Time) State {
	if len(s.Profiles) == 0 {
		return NewState(now)
	}
	out := s.Clone()

	if out.Theme != ThemeDark && out.Theme != ThemeLight {
		out.Theme = ThemeDark
	}
	if out.Plan != PlanBasic && out.Plan != PlanPro && out.Plan != PlanPremium {
		out.Plan = PlanBasic
	}
	if out.profileIndex(out.ActiveProfileID) < 0 {
		out.ActiveProfileID = ""
	}

	for i := range out.Profiles {
		migrateProfile(&out.Profiles[i])
	}
	return out
}

func migrateProfile(p *Profile) {
	if p.PIN == "" {
		p.PIN = DefaultPIN
	}
	if p.MasterWorkers == nil {
		p.MasterWorkers = newMasterList(defaultWorkerNames())
	}
	if p.MasterStopReasons == nil {
		p.MasterStopReasons = newMasterList(defaultStopReasonNames())
	}
	if p.dayIndex(p.ActiveDayID) < 0 {
		p.ActiveDayID = p.LatestDayID()
	}
	for di := range p.Days {
		for fi := range p.Days[di].Functions {
			f := &p.Days[di].Functions[fi]
			if f.Pieces == nil {
				f.Pieces = map[string]map[string]int{}
			}
			if f.Observations == nil {
				f.Observations = map[string]map[string]Observation{}
			}
		}
	}
	migrateStopwatch(&p.Stopwatch)
}

func migrateStopwatch(sw *Stopwatch) {
	if sw.Mode != ModeCountdown && sw.Mode != ModeCountup {
		sw.Mode = ModeCountdown
	}
	if sw.InitialSeconds <= 0 {
		sw.InitialSeconds = DefaultCountdownStart
	}
	if sw.Running {
		sw.Running = false
		sw.Pieces = 0
		sw.Seconds = sw.startSeconds()
	}
	if sw.Seconds < 0 {
		sw.Seconds = sw.startSeconds()
	}
}
