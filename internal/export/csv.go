package export

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/yeseniachungo-gv/prototrack-mobile-sub000/internal/state"
)

var header = []string{
	"Function", "Worker", "Hour", "Pieces",
	"ObservationReason", "ObservationDetail", "MinutesStopped",
}

// row is one (function, worker, hour) cell flattened for export. All three
// formats emit the same grid walk so totals line up across files.
type row struct {
	Function string
	Worker   string
	Hour     string
	Pieces   int
	Reason   string
	Detail   string
	Minutes  int
}

// dayRows walks the day's declared grid in stored order: every function,
// every listed worker, every listed hour, including empty cells.
func dayRows(d *state.Day) []row {
	var rows []row
	for i := range d.Functions {
		f := &d.Functions[i]
		for _, worker := range f.Workers {
			for _, hour := range f.Hours {
				r := row{
					Function: f.Name,
					Worker:   worker,
					Hour:     hour,
					Pieces:   f.Pieces[worker][hour],
				}
				if obs, ok := f.Observations[worker][hour]; ok {
					r.Reason = obs.Reason
					r.Detail = obs.Detail
					r.Minutes = obs.MinutesStopped
				}
				rows = append(rows, r)
			}
		}
	}
	return rows
}

// ToCSV writes one day's grid to path, one row per (function, worker, hour).
func ToCSV(d *state.Day, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range dayRows(d) {
		record := []string{
			r.Function,
			r.Worker,
			r.Hour,
			fmt.Sprintf("%d", r.Pieces),
			r.Reason,
			r.Detail,
			fmt.Sprintf("%d", r.Minutes),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return w.Error()
}
