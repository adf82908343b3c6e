package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/yeseniachungo-gv/prototrack-mobile-sub000/internal/state"
)

type jsonExport struct {
	ExportedAt  string         `json:"exported_at"`
	Date        string         `json:"date"`
	TotalPieces int            `json:"total_pieces"`
	Functions   []jsonFunction `json:"functions"`
}

type jsonFunction struct {
	Name           string         `json:"name"`
	TotalPieces    int            `json:"total_pieces"`
	MinutesStopped int            `json:"minutes_stopped"`
	HourTotals     map[string]int `json:"hour_totals"`
	WorkerTotals   map[string]int `json:"worker_totals"`
	Cells          []jsonCell     `json:"cells"`
}

type jsonCell struct {
	Worker  string `json:"worker"`
	Hour    string `json:"hour"`
	Pieces  int    `json:"pieces"`
	Reason  string `json:"observation_reason,omitempty"`
	Detail  string `json:"observation_detail,omitempty"`
	Minutes int    `json:"minutes_stopped,omitempty"`
}

// ToJSON writes a day snapshot with per-function totals to path.
func ToJSON(d *state.Day, path string) error {
	export := jsonExport{
		ExportedAt:  time.Now().UTC().Format(time.RFC3339),
		Date:        d.ID,
		TotalPieces: d.TotalPieces(),
	}

	for i := range d.Functions {
		f := &d.Functions[i]
		jf := jsonFunction{
			Name:           f.Name,
			TotalPieces:    f.TotalPieces(),
			MinutesStopped: f.TotalMinutesStopped(),
			HourTotals:     f.HourTotals(),
			WorkerTotals:   f.WorkerTotals(),
		}
		for _, r := range dayRows(&state.Day{Functions: []state.FunctionEntry{*f}}) {
			jf.Cells = append(jf.Cells, jsonCell{
				Worker:  r.Worker,
				Hour:    r.Hour,
				Pieces:  r.Pieces,
				Reason:  r.Reason,
				Detail:  r.Detail,
				Minutes: r.Minutes,
			})
		}
		export.Functions = append(export.Functions, jf)
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
