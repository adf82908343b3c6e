package state

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Reduce applies one action and returns the next state. It never panics and
// never errors: any action whose preconditions do not hold is a silent
// no-op that returns the input unchanged. Callers wanting user feedback
// check preconditions before dispatching.
//
// Each effective transition works on a deep copy, so the input state is
// never observable in a partially applied form.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case AddProfile:
		return reduceAddProfile(s, a)
	case DeleteProfile:
		return reduceDeleteProfile(s, a)
	case SelectProfile:
		if s.profileIndex(a.ID) < 0 {
			return s
		}
		next := s.Clone()
		next.ActiveProfileID = a.ID
		return next
	case Logout:
		next := s.Clone()
		next.ActiveProfileID = ""
		return next
	case SetTheme:
		if a.Theme != ThemeDark && a.Theme != ThemeLight {
			return s
		}
		next := s.Clone()
		next.Theme = a.Theme
		return next
	case SetPlanTier:
		if a.Plan != PlanBasic && a.Plan != PlanPro && a.Plan != PlanPremium {
			return s
		}
		next := s.Clone()
		next.Plan = a.Plan
		return next
	case AddAnnouncement:
		return reduceAddAnnouncement(s, a)
	case AddDay:
		return reduceAddDay(s, a)
	case CloneDay:
		return reduceCloneDay(s, a)
	case DeleteDay:
		return reduceDeleteDay(s, a)
	case SelectDay:
		return withActiveProfile(s, func(p *Profile) bool {
			if p.dayIndex(a.ID) < 0 {
				return false
			}
			p.ActiveDayID = a.ID
			return true
		})
	case AddFunction:
		return withDay(s, a.DayID, func(d *Day) bool {
			name := strings.TrimSpace(a.Name)
			if name == "" {
				return false
			}
			d.Functions = append(d.Functions, NewFunction(name, nil))
			return true
		})
	case RenameFunction:
		return withFunction(s, a.DayID, a.FunctionID, func(f *FunctionEntry) bool {
			name := strings.TrimSpace(a.Name)
			if name == "" {
				return false
			}
			f.Name = name
			return true
		})
	case DeleteFunction:
		return withDay(s, a.DayID, func(d *Day) bool {
			i := d.functionIndex(a.FunctionID)
			if i < 0 {
				return false
			}
			d.Functions = append(d.Functions[:i], d.Functions[i+1:]...)
			return true
		})
	case AddWorkerToFunction:
		return withFunction(s, a.DayID, a.FunctionID, func(f *FunctionEntry) bool {
			return addWorker(f, a.Worker)
		})
	case DeleteWorkerFromFunction:
		return withFunction(s, a.DayID, a.FunctionID, func(f *FunctionEntry) bool {
			return deleteWorker(f, a.Worker)
		})
	case AddHourToFunction:
		return withFunction(s, a.DayID, a.FunctionID, func(f *FunctionEntry) bool {
			return addNextHour(f)
		})
	case DeleteHourFromFunction:
		return withFunction(s, a.DayID, a.FunctionID, func(f *FunctionEntry) bool {
			return deleteHour(f, a.Hour)
		})
	case UpdatePieces:
		return withFunction(s, a.DayID, a.FunctionID, func(f *FunctionEntry) bool {
			v, err := strconv.Atoi(strings.TrimSpace(a.Value))
			if err != nil {
				v = 0
			}
			if f.Pieces == nil {
				f.Pieces = map[string]map[string]int{}
			}
			if f.Pieces[a.Worker] == nil {
				f.Pieces[a.Worker] = map[string]int{}
			}
			f.Pieces[a.Worker][a.Hour] = v
			return true
		})
	case UpdateObservation:
		return withFunction(s, a.DayID, a.FunctionID, func(f *FunctionEntry) bool {
			return updateObservation(f, a)
		})
	case AddMasterData:
		return withActiveProfile(s, func(p *Profile) bool {
			return addMasterData(p, a.Kind, a.Name)
		})
	case EditMasterData:
		return withActiveProfile(s, func(p *Profile) bool {
			return editMasterData(p, a.Kind, a.ID, a.NewName)
		})
	case DeleteMasterData:
		return withActiveProfile(s, func(p *Profile) bool {
			items := masterList(p, a.Kind)
			if items == nil {
				return false
			}
			i := masterIndex(*items, a.ID)
			if i < 0 {
				return false
			}
			// Deliberate asymmetry with renames: historical cell data
			// keeps referring to the deleted name.
			*items = append((*items)[:i], (*items)[i+1:]...)
			return true
		})
	case SetDailyGoal:
		return withActiveProfile(s, func(p *Profile) bool {
			if a.TargetPieces < 0 {
				return false
			}
			p.Goal = DailyGoal{TargetPieces: a.TargetPieces, FunctionID: a.FunctionID}
			return true
		})
	case StartTimer, StopTimer, Tick, AddPiece, UndoPiece, ResetTimer,
		SetStopwatchMode, SetTimer, SetSession:
		return withActiveProfile(s, func(p *Profile) bool {
			return reduceStopwatch(&p.Stopwatch, a)
		})
	}
	return s
}

// withActiveProfile clones the state and hands the active profile to fn.
// If there is no active profile, or fn reports no change, the original
// state is returned untouched.
func withActiveProfile(s State, fn func(*Profile) bool) State {
	i := s.profileIndex(s.ActiveProfileID)
	if i < 0 {
		return s
	}
	next := s.Clone()
	if !fn(&next.Profiles[i]) {
		return s
	}
	return next
}

func withDay(s State, dayID string, fn func(*Day) bool) State {
	return withActiveProfile(s, func(p *Profile) bool {
		i := p.dayIndex(dayID)
		if i < 0 {
			return false
		}
		return fn(&p.Days[i])
	})
}

func withFunction(s State, dayID, functionID string, fn func(*FunctionEntry) bool) State {
	return withDay(s, dayID, func(d *Day) bool {
		i := d.functionIndex(functionID)
		if i < 0 {
			return false
		}
		return fn(&d.Functions[i])
	})
}

// --- profiles ---

func reduceAddProfile(s State, a AddProfile) State {
	name := strings.TrimSpace(a.Name)
	if name == "" {
		return s
	}
	for i := range s.Profiles {
		if strings.EqualFold(s.Profiles[i].Name, name) {
			return s
		}
	}
	if len(s.Profiles) >= s.Plan.ProfileQuota() {
		return s
	}
	next := s.Clone()
	next.Profiles = append(next.Profiles, NewProfile(name, a.Now))
	return next
}

func reduceDeleteProfile(s State, a DeleteProfile) State {
	if len(s.Profiles) <= 1 {
		return s
	}
	i := s.profileIndex(a.ID)
	if i < 0 {
		return s
	}
	next := s.Clone()
	next.Profiles = append(next.Profiles[:i], next.Profiles[i+1:]...)
	if next.ActiveProfileID == a.ID {
		next.ActiveProfileID = ""
	}
	return next
}

func reduceAddAnnouncement(s State, a AddAnnouncement) State {
	content := strings.TrimSpace(a.Content)
	if content == "" {
		return s
	}
	author := s.ActiveProfile()
	if author == nil {
		return s
	}
	ann := Announcement{
		ID:         uuid.NewString(),
		AuthorID:   author.ID,
		AuthorName: author.Name,
		Content:    content,
		CreatedAt:  a.Now,
	}
	next := s.Clone()
	next.Announcements = append(next.Announcements, ann)
	return next
}

// --- days ---

// reduceAddDay creates the day after the chronologically latest one,
// copying its function structure with production data reset. A profile with
// no days gets today's default day instead. The reducer refuses to run more
// than one day ahead of the wall clock, which also makes an accidental
// double dispatch a no-op.
func reduceAddDay(s State, a AddDay) State {
	return withActiveProfile(s, func(p *Profile) bool {
		today := a.Now.Format(DayLayout)
		if len(p.Days) == 0 {
			day := NewDay(a.Now)
			p.Days = append(p.Days, day)
			p.ActiveDayID = day.ID
			return true
		}
		latest := p.LatestDayID()
		if latest > today {
			return false
		}
		date, err := time.Parse(DayLayout, latest)
		if err != nil {
			return false
		}
		nextID := date.AddDate(0, 0, 1).Format(DayLayout)
		if p.dayIndex(nextID) >= 0 {
			return false
		}
		src := p.FindDay(latest)
		day := cloneDayStructure(*src, nextID)
		p.Days = append(p.Days, day)
		p.ActiveDayID = day.ID
		return true
	})
}

// reduceCloneDay copies the source day's structure into today, overwriting
// today's functions if today already exists.
func reduceCloneDay(s State, a CloneDay) State {
	return withActiveProfile(s, func(p *Profile) bool {
		src := p.FindDay(a.SourceDayID)
		if src == nil {
			return false
		}
		today := a.Now.Format(DayLayout)
		cloned := cloneDayStructure(*src, today)
		if i := p.dayIndex(today); i >= 0 {
			p.Days[i].Functions = cloned.Functions
		} else {
			p.Days = append(p.Days, cloned)
		}
		p.ActiveDayID = today
		return true
	})
}

func reduceDeleteDay(s State, a DeleteDay) State {
	return withActiveProfile(s, func(p *Profile) bool {
		i := p.dayIndex(a.ID)
		if i < 0 {
			return false
		}
		p.Days = append(p.Days[:i], p.Days[i+1:]...)
		if p.ActiveDayID == a.ID {
			p.ActiveDayID = p.LatestDayID()
		}
		return true
	})
}

// --- workers and hours ---

func addWorker(f *FunctionEntry, worker string) bool {
	worker = strings.TrimSpace(worker)
	if worker == "" {
		return false
	}
	for _, w := range f.Workers {
		if strings.EqualFold(w, worker) {
			return false
		}
	}
	f.Workers = append(f.Workers, worker)
	return true
}

func deleteWorker(f *FunctionEntry, worker string) bool {
	i := -1
	for j, w := range f.Workers {
		if w == worker {
			i = j
			break
		}
	}
	if i < 0 {
		return false
	}
	f.Workers = append(f.Workers[:i], f.Workers[i+1:]...)
	delete(f.Pieces, worker)
	delete(f.Observations, worker)
	return true
}

func hourLabel(h int) string {
	return fmt.Sprintf("%02d:00", h)
}

// parseHour extracts the hour from an "HH:00" label.
func parseHour(label string) (int, bool) {
	if len(label) != 5 || label[2] != ':' {
		return 0, false
	}
	h, err := strconv.Atoi(label[:2])
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	return h, true
}

// addNextHour appends (last hour + 1) mod 24 and re-sorts the labels.
func addNextHour(f *FunctionEntry) bool {
	last := 7 // so an empty list starts at 08:00
	if len(f.Hours) > 0 {
		h, ok := parseHour(f.Hours[len(f.Hours)-1])
		if !ok {
			return false
		}
		last = h
	}
	next := hourLabel((last + 1) % 24)
	for _, h := range f.Hours {
		if h == next {
			return false
		}
	}
	f.Hours = append(f.Hours, next)
	sort.Strings(f.Hours)
	return true
}

func deleteHour(f *FunctionEntry, hour string) bool {
	i := -1
	for j, h := range f.Hours {
		if h == hour {
			i = j
			break
		}
	}
	if i < 0 {
		return false
	}
	f.Hours = append(f.Hours[:i], f.Hours[i+1:]...)
	for w, byHour := range f.Pieces {
		delete(byHour, hour)
		if len(byHour) == 0 {
			delete(f.Pieces, w)
		}
	}
	for w, byHour := range f.Observations {
		delete(byHour, hour)
		if len(byHour) == 0 {
			delete(f.Observations, w)
		}
	}
	return true
}

func updateObservation(f *FunctionEntry, a UpdateObservation) bool {
	obs := Observation{
		Reason:         strings.TrimSpace(a.Reason),
		Detail:         strings.TrimSpace(a.Detail),
		MinutesStopped: a.MinutesStopped,
	}
	if obs.IsZero() {
		byHour, ok := f.Observations[a.Worker]
		if !ok {
			return false
		}
		if _, ok := byHour[a.Hour]; !ok {
			return false
		}
		delete(byHour, a.Hour)
		if len(byHour) == 0 {
			delete(f.Observations, a.Worker)
		}
		return true
	}
	if f.Observations == nil {
		f.Observations = map[string]map[string]Observation{}
	}
	if f.Observations[a.Worker] == nil {
		f.Observations[a.Worker] = map[string]Observation{}
	}
	f.Observations[a.Worker][a.Hour] = obs
	return true
}

// --- master data ---

func masterList(p *Profile, kind MasterDataKind) *[]MasterDataItem {
	switch kind {
	case MasterWorkers:
		return &p.MasterWorkers
	case MasterStopReasons:
		return &p.MasterStopReasons
	}
	return nil
}

func addMasterData(p *Profile, kind MasterDataKind, name string) bool {
	items := masterList(p, kind)
	if items == nil {
		return false
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	for _, it := range *items {
		if strings.EqualFold(it.Name, name) {
			return false
		}
	}
	*items = append(*items, MasterDataItem{ID: uuid.NewString(), Name: name})
	return true
}

// editMasterData renames a master item and cascades the new name through
// every place the old one is denormalized: worker lists and cell maps for
// workers, observation reasons for stop reasons, plus the stopwatch history
// and live session for workers. Runs on a clone, so it is all-or-nothing.
func editMasterData(p *Profile, kind MasterDataKind, id, newName string) bool {
	items := masterList(p, kind)
	if items == nil {
		return false
	}
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return false
	}
	i := masterIndex(*items, id)
	if i < 0 {
		return false
	}
	oldName := (*items)[i].Name
	if oldName == newName {
		return false
	}
	// A rename colliding with another item would merge the loser's cell maps
	// away, so it is refused like a duplicate add.
	for j, it := range *items {
		if j != i && strings.EqualFold(it.Name, newName) {
			return false
		}
	}
	(*items)[i].Name = newName

	switch kind {
	case MasterWorkers:
		for di := range p.Days {
			for fi := range p.Days[di].Functions {
				renameWorkerInFunction(&p.Days[di].Functions[fi], oldName, newName)
			}
		}
		for hi := range p.Stopwatch.History {
			if p.Stopwatch.History[hi].WorkerName == oldName {
				p.Stopwatch.History[hi].WorkerName = newName
			}
		}
		if p.Stopwatch.Session.Operator == oldName {
			p.Stopwatch.Session.Operator = newName
		}
	case MasterStopReasons:
		for di := range p.Days {
			for fi := range p.Days[di].Functions {
				f := &p.Days[di].Functions[fi]
				for _, byHour := range f.Observations {
					for h, obs := range byHour {
						if obs.Reason == oldName {
							obs.Reason = newName
							byHour[h] = obs
						}
					}
				}
			}
		}
	}
	return true
}

func renameWorkerInFunction(f *FunctionEntry, oldName, newName string) {
	for i, w := range f.Workers {
		if w == oldName {
			f.Workers[i] = newName
		}
	}
	if byHour, ok := f.Pieces[oldName]; ok {
		delete(f.Pieces, oldName)
		f.Pieces[newName] = byHour
	}
	if byHour, ok := f.Observations[oldName]; ok {
		delete(f.Observations, oldName)
		f.Observations[newName] = byHour
	}
}
