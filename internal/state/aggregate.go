package state

// Read-only aggregations over the document. Dashboards, exports and report
// payloads all go through these so every surface shows the same arithmetic.

// TotalPieces sums every piece count recorded for the function.
func (f FunctionEntry) TotalPieces() int {
	total := 0
	for _, byHour := range f.Pieces {
		for _, v := range byHour {
			total += v
		}
	}
	return total
}

// HourTotals sums pieces across all workers per hour label.
func (f FunctionEntry) HourTotals() map[string]int {
	totals := make(map[string]int, len(f.Hours))
	for _, byHour := range f.Pieces {
		for h, v := range byHour {
			totals[h] += v
		}
	}
	return totals
}

// WorkerTotals sums pieces across all hours per worker.
func (f FunctionEntry) WorkerTotals() map[string]int {
	totals := make(map[string]int, len(f.Workers))
	for w, byHour := range f.Pieces {
		for _, v := range byHour {
			totals[w] += v
		}
	}
	return totals
}

// TotalMinutesStopped sums minutes stopped over every observation.
func (f FunctionEntry) TotalMinutesStopped() int {
	total := 0
	for _, byHour := range f.Observations {
		for _, o := range byHour {
			total += o.MinutesStopped
		}
	}
	return total
}

// TopWorker returns the worker with the highest piece total and that total.
// Workers are scanned in the function's stored list order and ties keep the
// first one found, so the result is deterministic. Empty worker list yields
// ("", 0).
func (f FunctionEntry) TopWorker() (string, int) {
	totals := f.WorkerTotals()
	best := ""
	bestTotal := 0
	for i, w := range f.Workers {
		t := totals[w]
		if i == 0 || t > bestTotal {
			best = w
			bestTotal = t
		}
	}
	return best, bestTotal
}

// TotalPieces sums piece counts over every function of the day.
func (d Day) TotalPieces() int {
	total := 0
	for i := range d.Functions {
		total += d.Functions[i].TotalPieces()
	}
	return total
}

// TotalMinutesStopped sums minutes stopped over every function of the day.
func (d Day) TotalMinutesStopped() int {
	total := 0
	for i := range d.Functions {
		total += d.Functions[i].TotalMinutesStopped()
	}
	return total
}

// GoalProgress resolves the profile's goal against the function it links
// to. ok is false when no function is linked or the link dangles (deleted
// function), which readers render as "goal unset".
func (p Profile) GoalProgress() (current, target int, ok bool) {
	if p.Goal.FunctionID == "" || p.Goal.TargetPieces <= 0 {
		return 0, 0, false
	}
	for di := range p.Days {
		if f := p.Days[di].FindFunction(p.Goal.FunctionID); f != nil {
			return f.TotalPieces(), p.Goal.TargetPieces, true
		}
	}
	return 0, 0, false
}
