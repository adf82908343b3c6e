package state

import (
	"time"

	"github.com/google/uuid"
)

type StopwatchMode string

const (
	ModeCountdown StopwatchMode = "countdown"
	ModeCountup   StopwatchMode = "countup"
)

// Stopwatch is the per-profile timer sub-state. Seconds counts down from
// InitialSeconds in countdown mode and up from zero in countup mode. The
// machine itself has no clock; an external one-second tick drives it.
type Stopwatch struct {
	Mode           StopwatchMode   `json:"mode"`
	Seconds        int             `json:"time"`
	InitialSeconds int             `json:"initialTime"`
	Pieces         int             `json:"pieces"`
	Running        bool            `json:"isRunning"`
	Session        Session         `json:"session"`
	History        []SessionRecord `json:"history"`
}

// Session describes who is being timed and at what auxiliary-time discount.
type Session struct {
	Operator         string  `json:"operator"`
	FunctionLabel    string  `json:"functionName"`
	AuxiliaryPercent float64 `json:"auxiliaryTimePercent"`
}

// SessionRecord is one completed-session snapshot, prepended to History on
// stop or countdown finish.
type SessionRecord struct {
	ID             string        `json:"id"`
	WorkerName     string        `json:"workerName"`
	FunctionLabel  string        `json:"functionName"`
	Mode           StopwatchMode `json:"mode"`
	Pieces         int           `json:"pieces"`
	ActualSeconds  int           `json:"actualDuration"`
	RawRate        float64       `json:"rawRate"`
	AdjustedPieces float64       `json:"adjustedPieces"`
	AdjustedRate   float64       `json:"adjustedRate"`
	EndedAt        time.Time     `json:"endedAt"`
}

// HistoryDisplayCap bounds how many history entries surfaces show; storage
// itself is unbounded.
const HistoryDisplayCap = 50

// NewStopwatch returns the countdown-mode default used for new profiles.
func NewStopwatch() Stopwatch {
	return Stopwatch{
		Mode:           ModeCountdown,
		Seconds:        DefaultCountdownStart,
		InitialSeconds: DefaultCountdownStart,
	}
}

// Clone returns a deep copy of the stopwatch.
func (sw Stopwatch) Clone() Stopwatch {
	out := sw
	out.History = append([]SessionRecord(nil), sw.History...)
	return out
}

// startSeconds is the mode-appropriate resting value for Seconds.
func (sw Stopwatch) startSeconds() int {
	if sw.Mode == ModeCountup {
		return 0
	}
	return sw.InitialSeconds
}

// RecentHistory returns the newest entries, capped for display.
func (sw Stopwatch) RecentHistory() []SessionRecord {
	if len(sw.History) <= HistoryDisplayCap {
		return sw.History
	}
	return sw.History[:HistoryDisplayCap]
}

// reduceStopwatch applies a stopwatch action in place on a cloned profile's
// sub-state. Returns false when the action is a no-op.
func reduceStopwatch(sw *Stopwatch, a Action) bool {
	switch a := a.(type) {
	case StartTimer:
		if sw.Running {
			return false
		}
		sw.Running = true
		if sw.Mode == ModeCountup {
			sw.Seconds = 0
			sw.Pieces = 0
		}
		return true

	case StopTimer:
		if !sw.Running {
			return false
		}
		sw.Running = false
		sw.logHistory(a.Now)
		return true

	case Tick:
		if !sw.Running {
			return false
		}
		if sw.Mode == ModeCountup {
			sw.Seconds++
			return true
		}
		sw.Seconds--
		if sw.Seconds <= 0 {
			sw.Seconds = 0
			sw.Running = false
			sw.logHistory(a.Now)
		}
		return true

	case AddPiece:
		if !sw.Running || a.Amount <= 0 {
			return false
		}
		sw.Pieces += a.Amount
		return true

	case UndoPiece:
		if sw.Pieces <= 0 {
			return false
		}
		sw.Pieces--
		return true

	case ResetTimer:
		if sw.Running {
			return false
		}
		sw.Pieces = 0
		sw.Seconds = sw.startSeconds()
		return true

	case SetStopwatchMode:
		if sw.Running || (a.Mode != ModeCountdown && a.Mode != ModeCountup) || a.Mode == sw.Mode {
			return false
		}
		sw.Mode = a.Mode
		sw.Pieces = 0
		sw.Seconds = sw.startSeconds()
		return true

	case SetTimer:
		if sw.Running || a.Seconds <= 0 {
			return false
		}
		sw.InitialSeconds = a.Seconds
		if sw.Mode == ModeCountdown {
			sw.Seconds = a.Seconds
		}
		return true

	case SetSession:
		sw.Session = Session{
			Operator:         a.Operator,
			FunctionLabel:    a.FunctionLabel,
			AuxiliaryPercent: a.AuxiliaryPercent,
		}
		return true
	}
	return false
}

// logHistory computes the completed-session snapshot and prepends it.
// Countdown sessions rate against the nominal interval even when stopped
// early; countup sessions rate against actual elapsed time. A session with
// zero duration and zero pieces leaves no trace.
func (sw *Stopwatch) logHistory(now time.Time) {
	actual := sw.Seconds
	calc := sw.Seconds
	if sw.Mode == ModeCountdown {
		actual = sw.InitialSeconds - sw.Seconds
		if sw.InitialSeconds > 0 {
			calc = sw.InitialSeconds
		}
	}
	if actual <= 0 && sw.Pieces <= 0 {
		return
	}

	rawRate := 0.0
	adjustedRate := 0.0
	adjustedPieces := float64(sw.Pieces) * (1 - sw.Session.AuxiliaryPercent/100)
	if calc > 0 {
		rawRate = float64(sw.Pieces) / float64(calc) * 3600
		adjustedRate = adjustedPieces / float64(calc) * 3600
	}

	rec := SessionRecord{
		ID:             uuid.NewString(),
		WorkerName:     sw.Session.Operator,
		FunctionLabel:  sw.Session.FunctionLabel,
		Mode:           sw.Mode,
		Pieces:         sw.Pieces,
		ActualSeconds:  actual,
		RawRate:        rawRate,
		AdjustedPieces: adjustedPieces,
		AdjustedRate:   adjustedRate,
		EndedAt:        now,
	}
	sw.History = append([]SessionRecord{rec}, sw.History...)
}
