package state

import (
	"time"

	"github.com/google/uuid"
)

// DayLayout is the date format used for Day ids.
const DayLayout = "2006-01-02"

type PlanTier string

const (
	PlanBasic   PlanTier = "basic"
	PlanPro     PlanTier = "pro"
	PlanPremium PlanTier = "premium"
)

// ProfileQuota returns how many profiles the tier allows.
func (p PlanTier) ProfileQuota() int {
	switch p {
	case PlanPro:
		return 6
	case PlanPremium:
		return 10
	default:
		return 3
	}
}

type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// State is the whole application document. All mutations go through Reduce;
// everything else treats a State value as immutable.
type State struct {
	Profiles        []Profile      `json:"profiles"`
	ActiveProfileID string         `json:"activeProfileId"`
	Theme           Theme          `json:"theme"`
	Plan            PlanTier       `json:"plan"`
	Announcements   []Announcement `json:"announcements"`
}

type Profile struct {
	ID                string           `json:"id"`
	Name              string           `json:"name"`
	PIN               string           `json:"pin"`
	Days              []Day            `json:"days"`
	ActiveDayID       string           `json:"activeDayId"`
	Goal              DailyGoal        `json:"dailyGoal"`
	MasterWorkers     []MasterDataItem `json:"masterWorkers"`
	MasterStopReasons []MasterDataItem `json:"masterStopReasons"`
	Stopwatch         Stopwatch        `json:"stopwatch"`
}

// Day is one calendar entry. The id is the ISO date, unique per profile.
type Day struct {
	ID        string          `json:"id"`
	Functions []FunctionEntry `json:"functions"`
}

// FunctionEntry is a named activity within a Day. Piece counts and
// observations are addressed worker-first, then by hour label, which keeps
// the cascade rules simple: deleting a worker drops one top-level key,
// deleting an hour drops one key from every worker.
type FunctionEntry struct {
	ID           string                            `json:"id"`
	Name         string                            `json:"name"`
	Workers      []string                          `json:"workers"`
	Hours        []string                          `json:"hours"`
	Pieces       map[string]map[string]int         `json:"pieces"`
	Observations map[string]map[string]Observation `json:"observations"`
}

type Observation struct {
	Reason         string `json:"reason"`
	Detail         string `json:"detail"`
	MinutesStopped int    `json:"minutesStopped"`
}

// IsZero reports whether the observation carries no information. Empty
// observations are never stored; clearing all fields deletes the entry.
func (o Observation) IsZero() bool {
	return o.Reason == "" && o.Detail == "" && o.MinutesStopped == 0
}

type MasterDataKind string

const (
	MasterWorkers     MasterDataKind = "workers"
	MasterStopReasons MasterDataKind = "stopReasons"
)

type MasterDataItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DailyGoal is a per-profile target. FunctionID may dangle after the
// function is deleted; readers must treat that as "goal unset".
type DailyGoal struct {
	TargetPieces int    `json:"targetPieces"`
	FunctionID   string `json:"functionId,omitempty"`
}

// Announcement is an append-only feed entry with an author snapshot taken
// at creation time. There is no edit or delete.
type Announcement struct {
	ID         string    `json:"id"`
	AuthorID   string    `json:"authorId"`
	AuthorName string    `json:"authorName"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Seed values used both when creating a profile and when filling gaps in
// documents persisted by older versions.
const (
	DefaultPIN            = "1234"
	DefaultGoalTarget     = 100
	DefaultCountdownStart = 15
	defaultFunctionName   = "General production"
)

func defaultWorkerNames() []string { return []string{"Ana", "Bruno", "Carla"} }

func defaultStopReasonNames() []string {
	return []string{
		"Machine breakdown",
		"Material shortage",
		"Setup / changeover",
		"Quality inspection",
		"Break",
	}
}

func newMasterList(names []string) []MasterDataItem {
	items := make([]MasterDataItem, 0, len(names))
	for _, n := range names {
		items = append(items, MasterDataItem{ID: uuid.NewString(), Name: n})
	}
	return items
}

// defaultHours returns the ten hourly slots 08:00 through 17:00.
func defaultHours() []string {
	hours := make([]string, 0, 10)
	for h := 8; h <= 17; h++ {
		hours = append(hours, hourLabel(h))
	}
	return hours
}

// NewFunction creates an empty function with the default hour slots.
func NewFunction(name string, workers []string) FunctionEntry {
	return FunctionEntry{
		ID:           uuid.NewString(),
		Name:         name,
		Workers:      append([]string(nil), workers...),
		Hours:        defaultHours(),
		Pieces:       map[string]map[string]int{},
		Observations: map[string]map[string]Observation{},
	}
}

// NewDay creates a day for the given date seeded with one default function.
func NewDay(date time.Time) Day {
	return Day{
		ID:        date.Format(DayLayout),
		Functions: []FunctionEntry{NewFunction(defaultFunctionName, defaultWorkerNames())},
	}
}

// NewProfile creates a profile with today's day, seed master data, a default
// goal and a fresh countdown stopwatch.
func NewProfile(name string, now time.Time) Profile {
	day := NewDay(now)
	return Profile{
		ID:                uuid.NewString(),
		Name:              name,
		PIN:               DefaultPIN,
		Days:              []Day{day},
		ActiveDayID:       day.ID,
		Goal:              DailyGoal{TargetPieces: DefaultGoalTarget},
		MasterWorkers:     newMasterList(defaultWorkerNames()),
		MasterStopReasons: newMasterList(defaultStopReasonNames()),
		Stopwatch:         NewStopwatch(),
	}
}

// NewState is the freshly initialized document: one profile so the
// at-least-one-profile invariant holds from the start.
func NewState(now time.Time) State {
	return State{
		Profiles: []Profile{NewProfile("Main", now)},
		Theme:    ThemeDark,
		Plan:     PlanBasic,
	}
}

// --- lookups ---

func (s State) profileIndex(id string) int {
	for i := range s.Profiles {
		if s.Profiles[i].ID == id {
			return i
		}
	}
	return -1
}

// ActiveProfile returns the active profile, or nil when nobody is logged in.
func (s State) ActiveProfile() *Profile {
	if i := s.profileIndex(s.ActiveProfileID); i >= 0 {
		return &s.Profiles[i]
	}
	return nil
}

func (p Profile) dayIndex(id string) int {
	for i := range p.Days {
		if p.Days[i].ID == id {
			return i
		}
	}
	return -1
}

// FindDay returns the day with the given id, or nil.
func (p Profile) FindDay(id string) *Day {
	if i := p.dayIndex(id); i >= 0 {
		return &p.Days[i]
	}
	return nil
}

// ActiveDay returns the profile's active day, or nil.
func (p Profile) ActiveDay() *Day {
	return p.FindDay(p.ActiveDayID)
}

// LatestDayID returns the chronologically latest day id, or "" when the
// profile has no days. Day ids are ISO dates, so string order is date order.
func (p Profile) LatestDayID() string {
	latest := ""
	for i := range p.Days {
		if p.Days[i].ID > latest {
			latest = p.Days[i].ID
		}
	}
	return latest
}

func (d Day) functionIndex(id string) int {
	for i := range d.Functions {
		if d.Functions[i].ID == id {
			return i
		}
	}
	return -1
}

// FindFunction returns the function with the given id, or nil.
func (d Day) FindFunction(id string) *FunctionEntry {
	if i := d.functionIndex(id); i >= 0 {
		return &d.Functions[i]
	}
	return nil
}

func masterIndex(items []MasterDataItem, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

// --- deep copies ---
//
// Reduce clones the state before touching anything, so a returned State
// never shares mutable structure with its input.

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	out := s
	out.Profiles = make([]Profile, len(s.Profiles))
	for i := range s.Profiles {
		out.Profiles[i] = s.Profiles[i].Clone()
	}
	out.Announcements = append([]Announcement(nil), s.Announcements...)
	return out
}

// Clone returns a deep copy of the profile.
func (p Profile) Clone() Profile {
	out := p
	out.Days = make([]Day, len(p.Days))
	for i := range p.Days {
		out.Days[i] = p.Days[i].Clone()
	}
	out.MasterWorkers = append([]MasterDataItem(nil), p.MasterWorkers...)
	out.MasterStopReasons = append([]MasterDataItem(nil), p.MasterStopReasons...)
	out.Stopwatch = p.Stopwatch.Clone()
	return out
}

// Clone returns a deep copy of the day.
func (d Day) Clone() Day {
	out := d
	out.Functions = make([]FunctionEntry, len(d.Functions))
	for i := range d.Functions {
		out.Functions[i] = d.Functions[i].Clone()
	}
	return out
}

// Clone returns a deep copy of the function including its cell data.
func (f FunctionEntry) Clone() FunctionEntry {
	out := f
	out.Workers = append([]string(nil), f.Workers...)
	out.Hours = append([]string(nil), f.Hours...)
	out.Pieces = make(map[string]map[string]int, len(f.Pieces))
	for w, byHour := range f.Pieces {
		inner := make(map[string]int, len(byHour))
		for h, v := range byHour {
			inner[h] = v
		}
		out.Pieces[w] = inner
	}
	out.Observations = make(map[string]map[string]Observation, len(f.Observations))
	for w, byHour := range f.Observations {
		inner := make(map[string]Observation, len(byHour))
		for h, v := range byHour {
			inner[h] = v
		}
		out.Observations[w] = inner
	}
	return out
}

// CloneStructure copies the function's shape (name, workers, hours) with a
// fresh id and empty production data. Used by add-day and clone-day.
func (f FunctionEntry) CloneStructure() FunctionEntry {
	return FunctionEntry{
		ID:           uuid.NewString(),
		Name:         f.Name,
		Workers:      append([]string(nil), f.Workers...),
		Hours:        append([]string(nil), f.Hours...),
		Pieces:       map[string]map[string]int{},
		Observations: map[string]map[string]Observation{},
	}
}

// cloneDayStructure copies every function structure of src into a day with
// the given id, with all piece counts and observations reset.
func cloneDayStructure(src Day, id string) Day {
	out := Day{ID: id, Functions: make([]FunctionEntry, len(src.Functions))}
	for i := range src.Functions {
		out.Functions[i] = src.Functions[i].CloneStructure()
	}
	return out
}
