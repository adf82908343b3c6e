package state

import "time"

// Action is a tagged mutation consumed by Reduce. Actions that depend on
// the calendar or the wall clock carry their own timestamp so the reducer
// stays a pure function of (state, action).
type Action interface{ isAction() }

// --- profiles and globals ---

type AddProfile struct {
	Name string
	Now  time.Time
}

type DeleteProfile struct{ ID string }

type SelectProfile struct{ ID string }

type Logout struct{}

type SetTheme struct{ Theme Theme }

type SetPlanTier struct{ Plan PlanTier }

type AddAnnouncement struct {
	Content string
	Now     time.Time
}

// --- days ---

type AddDay struct{ Now time.Time }

type CloneDay struct {
	SourceDayID string
	Now         time.Time
}

type DeleteDay struct{ ID string }

type SelectDay struct{ ID string }

// --- functions and cells ---

type AddFunction struct {
	DayID string
	Name  string
}

type RenameFunction struct {
	DayID      string
	FunctionID string
	Name       string
}

type DeleteFunction struct {
	DayID      string
	FunctionID string
}

type AddWorkerToFunction struct {
	DayID      string
	FunctionID string
	Worker     string
}

type DeleteWorkerFromFunction struct {
	DayID      string
	FunctionID string
	Worker     string
}

type AddHourToFunction struct {
	DayID      string
	FunctionID string
}

type DeleteHourFromFunction struct {
	DayID      string
	FunctionID string
	Hour       string
}

// UpdatePieces carries the raw input; non-numeric values coerce to 0.
type UpdatePieces struct {
	DayID      string
	FunctionID string
	Worker     string
	Hour       string
	Value      string
}

// UpdateObservation with all fields empty deletes the cell's observation.
type UpdateObservation struct {
	DayID          string
	FunctionID     string
	Worker         string
	Hour           string
	Reason         string
	Detail         string
	MinutesStopped int
}

// --- master data and goal ---

type AddMasterData struct {
	Kind MasterDataKind
	Name string
}

type EditMasterData struct {
	Kind    MasterDataKind
	ID      string
	NewName string
}

type DeleteMasterData struct {
	Kind MasterDataKind
	ID   string
}

type SetDailyGoal struct {
	TargetPieces int
	FunctionID   string
}

// --- stopwatch ---

type StartTimer struct{}

type StopTimer struct{ Now time.Time }

type Tick struct{ Now time.Time }

type AddPiece struct{ Amount int }

type UndoPiece struct{}

type ResetTimer struct{}

type SetStopwatchMode struct{ Mode StopwatchMode }

type SetTimer struct{ Seconds int }

type SetSession struct {
	Operator         string
	FunctionLabel    string
	AuxiliaryPercent float64
}

func (AddProfile) isAction()               {}
func (DeleteProfile) isAction()            {}
func (SelectProfile) isAction()            {}
func (Logout) isAction()                   {}
func (SetTheme) isAction()                 {}
func (SetPlanTier) isAction()              {}
func (AddAnnouncement) isAction()          {}
func (AddDay) isAction()                   {}
func (CloneDay) isAction()                 {}
func (DeleteDay) isAction()                {}
func (SelectDay) isAction()                {}
func (AddFunction) isAction()              {}
func (RenameFunction) isAction()           {}
func (DeleteFunction) isAction()           {}
func (AddWorkerToFunction) isAction()      {}
func (DeleteWorkerFromFunction) isAction() {}
func (AddHourToFunction) isAction()        {}
func (DeleteHourFromFunction) isAction()   {}
func (UpdatePieces) isAction()             {}
func (UpdateObservation) isAction()        {}
func (AddMasterData) isAction()            {}
func (EditMasterData) isAction()           {}
func (DeleteMasterData) isAction()         {}
func (SetDailyGoal) isAction()             {}
func (StartTimer) isAction()               {}
func (StopTimer) isAction()                {}
func (Tick) isAction()                     {}
func (AddPiece) isAction()                 {}
func (UndoPiece) isAction()                {}
func (ResetTimer) isAction()               {}
func (SetStopwatchMode) isAction()         {}
func (SetTimer) isAction()                 {}
func (SetSession) isAction()               {}
