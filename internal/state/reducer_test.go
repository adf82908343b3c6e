package state

import (
	"testing"
	"time"
)

var testNow = time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

// newActiveState returns a default state with its seeded profile selected.
func newActiveState(t *testing.T) State {
	t.Helper()
	s := NewState(testNow)
	s = Reduce(s, SelectProfile{ID: s.Profiles[0].ID})
	if s.ActiveProfile() == nil {
		t.Fatal("expected active profile")
	}
	return s
}

func activeDay(t *testing.T, s State) *Day {
	t.Helper()
	d := s.ActiveProfile().ActiveDay()
	if d == nil {
		t.Fatal("expected active day")
	}
	return d
}

// ============================================================
// Profiles
// ============================================================

func TestNewStateSeedsOneProfile(t *testing.T) {
	s := NewState(testNow)
	if len(s.Profiles) != 1 {
		t.Fatalf("expected 1 profile, got %d", len(s.Profiles))
	}
	p := s.Profiles[0]
	if p.PIN != "1234" {
		t.Fatalf("expected default pin, got %q", p.PIN)
	}
	if len(p.Days) != 1 || p.Days[0].ID != "2026-03-10" {
		t.Fatalf("expected today's day, got %+v", p.Days)
	}
	if len(p.MasterWorkers) != 3 || len(p.MasterStopReasons) != 5 {
		t.Fatalf("expected 3 workers and 5 stop reasons, got %d/%d",
			len(p.MasterWorkers), len(p.MasterStopReasons))
	}
	if p.Stopwatch.Mode != ModeCountdown || p.Stopwatch.Seconds != 15 {
		t.Fatalf("expected countdown at 15s, got %+v", p.Stopwatch)
	}
	fn := p.Days[0].Functions[0]
	if len(fn.Workers) != 3 || len(fn.Hours) != 10 {
		t.Fatalf("expected 3 workers and 10 hours, got %d/%d", len(fn.Workers), len(fn.Hours))
	}
	if fn.Hours[0] != "08:00" || fn.Hours[9] != "17:00" {
		t.Fatalf("expected 08:00-17:00 slots, got %v", fn.Hours)
	}
}

func TestAddProfile(t *testing.T) {
	s := NewState(testNow)
	s = Reduce(s, AddProfile{Name: "Line1", Now: testNow})
	if len(s.Profiles) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(s.Profiles))
	}
	if s.Profiles[1].Name != "Line1" {
		t.Fatalf("unexpected name %q", s.Profiles[1].Name)
	}
}

func TestAddProfileDuplicateNameCaseInsensitive(t *testing.T) {
	s := NewState(testNow)
	next := Reduce(s, AddProfile{Name: "main", Now: testNow})
	if len(next.Profiles) != 1 {
		t.Fatal("case-insensitive duplicate should be rejected")
	}
}

func TestAddProfileQuota(t *testing.T) {
	s := NewState(testNow) // basic plan, quota 3
	s = Reduce(s, AddProfile{Name: "A", Now: testNow})
	s = Reduce(s, AddProfile{Name: "B", Now: testNow})
	next := Reduce(s, AddProfile{Name: "C", Now: testNow})
	if len(next.Profiles) != 3 {
		t.Fatalf("basic quota is 3, got %d profiles", len(next.Profiles))
	}

	s = Reduce(s, SetPlanTier{Plan: PlanPro})
	next = Reduce(s, AddProfile{Name: "C", Now: testNow})
	if len(next.Profiles) != 4 {
		t.Fatal("pro plan should allow a 4th profile")
	}
}

func TestDeleteLastProfileIsNoop(t *testing.T) {
	s := NewState(testNow)
	next := Reduce(s, DeleteProfile{ID: s.Profiles[0].ID})
	if len(next.Profiles) != 1 {
		t.Fatal("the last profile must never be deleted")
	}
}

func TestDeleteProfileClearsActivePointer(t *testing.T) {
	s := NewState(testNow)
	s = Reduce(s, AddProfile{Name: "Line1", Now: testNow})
	lineID := s.Profiles[1].ID
	s = Reduce(s, SelectProfile{ID: lineID})

	s = Reduce(s, DeleteProfile{ID: lineID})
	if len(s.Profiles) != 1 {
		t.Fatalf("expected 1 profile, got %d", len(s.Profiles))
	}
	if s.ActiveProfileID != "" {
		t.Fatal("active pointer should be cleared when its profile is deleted")
	}
}

func TestSelectProfileUnknownIsNoop(t *testing.T) {
	s := NewState(testNow)
	next := Reduce(s, SelectProfile{ID: "nope"})
	if next.ActiveProfileID != "" {
		t.Fatal("selecting a missing profile should be a no-op")
	}
}

func TestLogout(t *testing.T) {
	s := newActiveState(t)
	s = Reduce(s, Logout{})
	if s.ActiveProfileID != "" {
		t.Fatal("logout should clear the active profile")
	}
}

func TestAddAnnouncement(t *testing.T) {
	s := newActiveState(t)
	author := s.ActiveProfile()
	s = Reduce(s, AddAnnouncement{Content: "Shift change at 14:00", Now: testNow})
	if len(s.Announcements) != 1 {
		t.Fatalf("expected 1 announcement, got %d", len(s.Announcements))
	}
	a := s.Announcements[0]
	if a.AuthorID != author.ID || a.AuthorName != author.Name {
		t.Fatal("announcement should snapshot the author")
	}
	if a.CreatedAt != testNow {
		t.Fatal("announcement should carry its creation time")
	}
}

func TestAddAnnouncementRequiresActiveProfile(t *testing.T) {
	s := NewState(testNow)
	next := Reduce(s, AddAnnouncement{Content: "hello", Now: testNow})
	if len(next.Announcements) != 0 {
		t.Fatal("announcement without an author should be a no-op")
	}
}

// ============================================================
// Days
// ============================================================

func TestAddDayCopiesStructureResetsData(t *testing.T) {
	s := newActiveState(t)
	day := activeDay(t, s)
	fn := day.Functions[0]
	s = Reduce(s, UpdatePieces{DayID: day.ID, FunctionID: fn.ID, Worker: "Ana", Hour: "08:00", Value: "7"})

	s = Reduce(s, AddDay{Now: testNow})
	p := s.ActiveProfile()
	if len(p.Days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(p.Days))
	}
	added := p.FindDay("2026-03-11")
	if added == nil {
		t.Fatal("expected next calendar day 2026-03-11")
	}
	if p.ActiveDayID != added.ID {
		t.Fatal("the new day should become active")
	}
	got := added.Functions[0]
	if got.Name != fn.Name || len(got.Workers) != len(fn.Workers) || len(got.Hours) != len(fn.Hours) {
		t.Fatal("structure should be copied")
	}
	if got.ID == fn.ID {
		t.Fatal("copied function should get a fresh id")
	}
	if len(got.Pieces) != 0 || len(got.Observations) != 0 {
		t.Fatal("production data must be reset, not copied")
	}
}

func TestAddDayDoubleDispatchAddsOneDay(t *testing.T) {
	s := newActiveState(t)
	s = Reduce(s, AddDay{Now: testNow})
	s = Reduce(s, AddDay{Now: testNow})
	if got := len(s.ActiveProfile().Days); got != 2 {
		t.Fatalf("second immediate ADD_DAY should be a no-op, got %d days", got)
	}
}

func TestAddDaySeedsDefaultWhenEmpty(t *testing.T) {
	s := newActiveState(t)
	day := activeDay(t, s)
	s = Reduce(s, DeleteDay{ID: day.ID})
	if len(s.ActiveProfile().Days) != 0 {
		t.Fatal("day should be deleted")
	}

	s = Reduce(s, AddDay{Now: testNow})
	p := s.ActiveProfile()
	if len(p.Days) != 1 || p.Days[0].ID != "2026-03-10" {
		t.Fatalf("expected seeded today, got %+v", p.Days)
	}
	fn := p.Days[0].Functions[0]
	if len(fn.Workers) != 3 || len(fn.Hours) != 10 {
		t.Fatal("seeded day should have the default function shape")
	}
}

func TestCloneDayIntoExistingToday(t *testing.T) {
	s := newActiveState(t)
	today := activeDay(t, s).ID

	// Prepare a structured past day to clone from.
	s = Reduce(s, AddDay{Now: testNow})
	tomorrow := "2026-03-11"
	s = Reduce(s, AddFunction{DayID: tomorrow, Name: "Assembly"})
	fnID := s.ActiveProfile().FindDay(tomorrow).Functions[1].ID
	s = Reduce(s, UpdatePieces{DayID: tomorrow, FunctionID: fnID, Worker: "Ana", Hour: "08:00", Value: "9"})

	s = Reduce(s, CloneDay{SourceDayID: tomorrow, Now: testNow})
	p := s.ActiveProfile()
	if p.ActiveDayID != today {
		t.Fatal("clone destination should be today and become active")
	}
	day := p.FindDay(today)
	if len(day.Functions) != 2 {
		t.Fatalf("today's functions should be overwritten with the clone, got %d", len(day.Functions))
	}
	if day.Functions[1].Name != "Assembly" {
		t.Fatal("cloned structure missing")
	}
	if len(day.Functions[1].Pieces) != 0 {
		t.Fatal("clone must reset production data")
	}
}

func TestCloneDayUnknownSourceIsNoop(t *testing.T) {
	s := newActiveState(t)
	next := Reduce(s, CloneDay{SourceDayID: "2001-01-01", Now: testNow})
	if len(next.ActiveProfile().Days) != 1 {
		t.Fatal("cloning a missing day should be a no-op")
	}
}

func TestDeleteDayReassignsActive(t *testing.T) {
	s := newActiveState(t)
	s = Reduce(s, AddDay{Now: testNow})
	s = Reduce(s, DeleteDay{ID: "2026-03-11"})
	p := s.ActiveProfile()
	if len(p.Days) != 1 {
		t.Fatalf("expected 1 day, got %d", len(p.Days))
	}
	if p.ActiveDayID != "2026-03-10" {
		t.Fatalf("active day should fall back to latest remaining, got %q", p.ActiveDayID)
	}
}

// ============================================================
// Functions, workers, hours, cells
// ============================================================

func TestAddWorkerCaseInsensitiveDedup(t *testing.T) {
	s := newActiveState(t)
	day := activeDay(t, s)
	fnID := day.Functions[0].ID

	next := Reduce(s, AddWorkerToFunction{DayID: day.ID, FunctionID: fnID, Worker: "ana"})
	if got := len(activeDay(t, next).Functions[0].Workers); got != 3 {
		t.Fatalf("duplicate worker (case-insensitive) should be rejected, got %d", got)
	}

	next = Reduce(s, AddWorkerToFunction{DayID: day.ID, FunctionID: fnID, Worker: "Diego"})
	if got := len(activeDay(t, next).Functions[0].Workers); got != 4 {
		t.Fatalf("expected 4 workers, got %d", got)
	}
}

func TestDeleteWorkerCascadesCells(t *testing.T) {
	s := newActiveState(t)
	day := activeDay(t, s)
	fnID := day.Functions[0].ID

	s = Reduce(s, UpdatePieces{DayID: day.ID, FunctionID: fnID, Worker: "Ana", Hour: "08:00", Value: "5"})
	s = Reduce(s, UpdatePieces{DayID: day.ID, FunctionID: fnID, Worker: "Bruno", Hour: "09:00", Value: "3"})
	s = Reduce(s, UpdateObservation{
		DayID: day.ID, FunctionID: fnID, Worker: "Ana", Hour: "09:00",
		Reason: "Break", MinutesStopped: 10,
	})

	s = Reduce(s, DeleteWorkerFromFunction{DayID: day.ID, FunctionID: fnID, Worker: "Ana"})
	fn := activeDay(t, s).Functions[0]

	if len(fn.Workers) != 2 || fn.Workers[0] != "Bruno" {
		t.Fatalf("expected workers [Bruno Carla], got %v", fn.Workers)
	}
	if _, ok := fn.Pieces["Ana"]; ok {
		t.Fatal("Ana's pieces should be purged")
	}
	if _, ok := fn.Observations["Ana"]; ok {
		t.Fatal("Ana's observations should be purged")
	}
	if fn.Pieces["Bruno"]["09:00"] != 3 {
		t.Fatal("other workers' cells must survive")
	}
}

func TestAddHourIncrementsAndSorts(t *testing.T) {
	s := newActiveState(t)
	day := activeDay(t, s)
	fnID := day.Functions[0].ID

	s = Reduce(s, AddHourToFunction{DayID: day.ID, FunctionID: fnID})
	fn := activeDay(t, s).Functions[0]
	if len(fn.Hours) != 11 || fn.Hours[10] != "18:00" {
		t.Fatalf("expected 18:00 appended, got %v", fn.Hours)
	}
}

func TestAddHourWrapsPastMidnight(t *testing.T) {
	s := newActiveState(t)
	day := activeDay(t, s)
	fnID := day.Functions[0].ID
	for i := 0; i < 6; i++ { // 18:00 .. 23:00
		s = Reduce(s, AddHourToFunction{DayID: day.ID, FunctionID: fnID})
	}
	s = Reduce(s, AddHourToFunction{DayID: day.ID, FunctionID: fnID})
	fn := activeDay(t, s).Functions[0]
	if fn.Hours[0] != "00:00" {
		t.Fatalf("expected wrap to 00:00 sorted first, got %v", fn.Hours)
	}

	// Last label is now 23:00 and (23+1)%24 already exists: no-op.
	next := Reduce(s, AddHourToFunction{DayID: day.ID, FunctionID: fnID})
	if got := len(activeDay(t, next).Functions[0].Hours); got != len(fn.Hours) {
		t.Fatal("adding an existing hour should be a no-op")
	}
}

func TestDeleteHourCascadesCells(t *testing.T) {
	s := newActiveState(t)
	day := activeDay(t, s)
	fnID := day.Functions[0].ID

	s = Reduce(s, UpdatePieces{DayID: day.ID, FunctionID: fnID, Worker: "Ana", Hour: "08:00", Value: "5"})
	s = Reduce(s, UpdatePieces{DayID: day.ID, FunctionID: fnID, Worker: "Ana", Hour: "09:00", Value: "2"})

	s = Reduce(s, DeleteHourFromFunction{DayID: day.ID, FunctionID: fnID, Hour: "08:00"})
	fn := activeDay(t, s).Functions[0]
	if len(fn.Hours) != 9 {
		t.Fatalf("expected 9 hours, got %d", len(fn.Hours))
	}
	if _, ok := fn.Pieces["Ana"]["08:00"]; ok {
		t.Fatal("cells at the deleted hour should be purged")
	}
	if fn.Pieces["Ana"]["09:00"] != 2 {
		t.Fatal("cells at other hours must survive")
	}
}

func TestUpdatePiecesCoercesNonNumeric(t *testing.T) {
	s := newActiveState(t)
	day := activeDay(t, s)
	fnID := day.Functions[0].ID

	s = Reduce(s, UpdatePieces{DayID: day.ID, FunctionID: fnID, Worker: "Ana", Hour: "08:00", Value: "12"})
	s = Reduce(s, UpdatePieces{DayID: day.ID, FunctionID: fnID, Worker: "Ana", Hour: "09:00", Value: "abc"})
	fn := activeDay(t, s).Functions[0]
	if fn.Pieces["Ana"]["08:00"] != 12 {
		t.Fatalf("expected 12, got %d", fn.Pieces["Ana"]["08:00"])
	}
	if fn.Pieces["Ana"]["09:00"] != 0 {
		t.Fatal("non-numeric input should coerce to 0")
	}
}

func TestUpdateObservationEmptyDeletesEntry(t *testing.T) {
	s := newActiveState(t)
	day := activeDay(t, s)
	fnID := day.Functions[0].ID

	s = Reduce(s, UpdateObservation{
		DayID: day.ID, FunctionID: fnID, Worker: "Ana", Hour: "08:00",
		Reason: "Machine breakdown", Detail: "jammed feeder", MinutesStopped: 12,
	})
	fn := activeDay(t, s).Functions[0]
	if fn.Observations["Ana"]["08:00"].MinutesStopped != 12 {
		t.Fatal("observation should be stored")
	}

	s = Reduce(s, UpdateObservation{DayID: day.ID, FunctionID: fnID, Worker: "Ana", Hour: "08:00"})
	fn = activeDay(t, s).Functions[0]
	if _, ok := fn.Observations["Ana"]; ok {
		t.Fatal("clearing every field should delete the entry, not store an empty one")
	}
}

func TestUnknownFunctionIsNoop(t *testing.T) {
	s := newActiveState(t)
	day := activeDay(t, s)
	next := Reduce(s, UpdatePieces{DayID: day.ID, FunctionID: "nope", Worker: "Ana", Hour: "08:00", Value: "5"})
	if len(activeDay(t, next).Functions[0].Pieces) != 0 {
		t.Fatal("acting on a missing function should change nothing")
	}
}

// ============================================================
// Master data
// ============================================================

func TestEditMasterWorkerCascades(t *testing.T) {
	s := newActiveState(t)
	day := activeDay(t, s)
	fnID := day.Functions[0].ID

	s = Reduce(s, UpdatePieces{DayID: day.ID, FunctionID: fnID, Worker: "Ana", Hour: "08:00", Value: "5"})
	s = Reduce(s, UpdateObservation{
		DayID: day.ID, FunctionID: fnID, Worker: "Ana", Hour: "08:00",
		Reason: "Break", MinutesStopped: 5,
	})
	// Put "Ana" into the stopwatch session and history as well.
	s = Reduce(s, SetSession{Operator: "Ana", FunctionLabel: "Sewing", AuxiliaryPercent: 0})
	s = Reduce(s, SetTimer{Seconds: 30})
	s = Reduce(s, StartTimer{})
	s = Reduce(s, Tick{Now: testNow})
	s = Reduce(s, StopTimer{Now: testNow})

	var anaID string
	for _, it := range s.ActiveProfile().MasterWorkers {
		if it.Name == "Ana" {
			anaID = it.ID
		}
	}
	s = Reduce(s, EditMasterData{Kind: MasterWorkers, ID: anaID, NewName: "Zara"})

	p := s.ActiveProfile()
	fn := p.ActiveDay().Functions[0]
	if fn.Workers[0] != "Zara" {
		t.Fatalf("worker list not renamed: %v", fn.Workers)
	}
	if _, ok := fn.Pieces["Ana"]; ok {
		t.Fatal("old pieces key should be gone")
	}
	if fn.Pieces["Zara"]["08:00"] != 5 {
		t.Fatal("pieces should move to the new name")
	}
	if fn.Observations["Zara"]["08:00"].MinutesStopped != 5 {
		t.Fatal("observations should move to the new name")
	}
	if p.Stopwatch.Session.Operator != "Zara" {
		t.Fatal("live session operator should be renamed")
	}
	if p.Stopwatch.History[0].WorkerName != "Zara" {
		t.Fatal("history entries should be renamed")
	}
}

func TestEditMasterStopReasonCascades(t *testing.T) {
	s := newActiveState(t)
	day := activeDay(t, s)
	fnID := day.Functions[0].ID
	s = Reduce(s, UpdateObservation{
		DayID: day.ID, FunctionID: fnID, Worker: "Ana", Hour: "08:00",
		Reason: "Break", MinutesStopped: 15,
	})

	var breakID string
	for _, it := range s.ActiveProfile().MasterStopReasons {
		if it.Name == "Break" {
			breakID = it.ID
		}
	}
	s = Reduce(s, EditMasterData{Kind: MasterStopReasons, ID: breakID, NewName: "Lunch break"})

	fn := activeDay(t, s).Functions[0]
	if got := fn.Observations["Ana"]["08:00"].Reason; got != "Lunch break" {
		t.Fatalf("observation reason not renamed, got %q", got)
	}
}

func TestEditMasterDataRefusesCollidingRename(t *testing.T) {
	s := newActiveState(t)
	day := activeDay(t, s)
	fnID := day.Functions[0].ID
	s = Reduce(s, UpdatePieces{DayID: day.ID, FunctionID: fnID, Worker: "Ana", Hour: "08:00", Value: "5"})
	s = Reduce(s, UpdatePieces{DayID: day.ID, FunctionID: fnID, Worker: "Bruno", Hour: "08:00", Value: "9"})

	var anaID string
	for _, it := range s.ActiveProfile().MasterWorkers {
		if it.Name == "Ana" {
			anaID = it.ID
		}
	}
	// Case-insensitive collision with another master worker.
	next := Reduce(s, EditMasterData{Kind: MasterWorkers, ID: anaID, NewName: "bruno"})

	p := next.ActiveProfile()
	names := map[string]int{}
	for _, it := range p.MasterWorkers {
		names[it.Name]++
	}
	if names["Ana"] != 1 || names["Bruno"] != 1 {
		t.Fatalf("master list should be untouched after a colliding rename, got %v", p.MasterWorkers)
	}
	fn := p.ActiveDay().Functions[0]
	if fn.Pieces["Bruno"]["08:00"] != 9 {
		t.Fatalf("colliding rename must not absorb the other worker's pieces, got %d",
			fn.Pieces["Bruno"]["08:00"])
	}
	if fn.Pieces["Ana"]["08:00"] != 5 {
		t.Fatal("colliding rename should leave the renamed worker's cells alone")
	}
}

func TestDeleteMasterDataKeepsHistoricalCells(t *testing.T) {
	s := newActiveState(t)
	day := activeDay(t, s)
	fnID := day.Functions[0].ID
	s = Reduce(s, UpdatePieces{DayID: day.ID, FunctionID: fnID, Worker: "Ana", Hour: "08:00", Value: "5"})

	var anaID string
	for _, it := range s.ActiveProfile().MasterWorkers {
		if it.Name == "Ana" {
			anaID = it.ID
		}
	}
	s = Reduce(s, DeleteMasterData{Kind: MasterWorkers, ID: anaID})

	p := s.ActiveProfile()
	if len(p.MasterWorkers) != 2 {
		t.Fatalf("expected 2 master workers, got %d", len(p.MasterWorkers))
	}
	fn := p.ActiveDay().Functions[0]
	if fn.Pieces["Ana"]["08:00"] != 5 {
		t.Fatal("deleting master data must not cascade to historical cells")
	}
	if fn.Workers[0] != "Ana" {
		t.Fatal("deleting master data must not touch function worker lists")
	}
}

func TestSetDailyGoal(t *testing.T) {
	s := newActiveState(t)
	fnID := activeDay(t, s).Functions[0].ID
	s = Reduce(s, SetDailyGoal{TargetPieces: 250, FunctionID: fnID})
	goal := s.ActiveProfile().Goal
	if goal.TargetPieces != 250 || goal.FunctionID != fnID {
		t.Fatalf("unexpected goal %+v", goal)
	}
}

// ============================================================
// Purity
// ============================================================

func TestReduceDoesNotMutateInput(t *testing.T) {
	s := newActiveState(t)
	day := activeDay(t, s)
	fnID := day.Functions[0].ID

	before := Reduce(s, UpdatePieces{DayID: day.ID, FunctionID: fnID, Worker: "Ana", Hour: "08:00", Value: "5"})
	_ = Reduce(before, UpdatePieces{DayID: day.ID, FunctionID: fnID, Worker: "Ana", Hour: "08:00", Value: "99"})
	if got := activeDay(t, before).Functions[0].Pieces["Ana"]["08:00"]; got != 5 {
		t.Fatalf("input state was mutated: got %d", got)
	}

	_ = Reduce(before, DeleteWorkerFromFunction{DayID: day.ID, FunctionID: fnID, Worker: "Ana"})
	if got := len(activeDay(t, before).Functions[0].Workers); got != 3 {
		t.Fatalf("input state was mutated by cascade delete: %d workers", got)
	}
}

func TestNoopReturnsSameDocument(t *testing.T) {
	s := newActiveState(t)
	next := Reduce(s, DeleteProfile{ID: "missing"})
	if len(next.Profiles) != len(s.Profiles) || next.ActiveProfileID != s.ActiveProfileID {
		t.Fatal("no-op should return an equivalent state")
	}
}
