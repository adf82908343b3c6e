package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/yeseniachungo-gv/prototrack-mobile-sub000/internal/state"
)

func sampleDay() state.Day {
	return state.Day{
		ID: "2026-03-10",
		Functions: []state.FunctionEntry{
			{
				ID:      "f1",
				Name:    "Sewing",
				Workers: []string{"Ana", "Beto"},
				Hours:   []string{"08:00", "09:00"},
				Pieces: map[string]map[string]int{
					"Ana":  {"08:00": 12, "09:00": 6},
					"Beto": {"08:00": 8},
				},
				Observations: map[string]map[string]state.Observation{
					"Beto": {"09:00": {
						Reason:         "Machine breakdown",
						Detail:         "needle jam, waiting on mechanic",
						MinutesStopped: 25,
					}},
				},
			},
			{
				ID:      "f2",
				Name:    "Packing",
				Workers: []string{"Carla"},
				Hours:   []string{"08:00"},
				Pieces: map[string]map[string]int{
					"Carla": {"08:00": 30},
				},
			},
		},
	}
}

// ============================================================
// CSV
// ============================================================

func TestToCSV(t *testing.T) {
	day := sampleDay()
	path := filepath.Join(t.TempDir(), "day.csv")

	if err := ToCSV(&day, path); err != nil {
		t.Fatalf("ToCSV: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}

	// header + 2 workers x 2 hours + 1 worker x 1 hour
	if len(records) != 6 {
		t.Fatalf("expected 6 rows (1 header + 5 cells), got %d", len(records))
	}

	for i, want := range header {
		if records[0][i] != want {
			t.Fatalf("header[%d] = %q, want %q", i, records[0][i], want)
		}
	}

	// First cell: Sewing / Ana / 08:00.
	row := records[1]
	if row[0] != "Sewing" || row[1] != "Ana" || row[2] != "08:00" || row[3] != "12" {
		t.Fatalf("unexpected first row %v", row)
	}

	// Beto's 09:00 cell carries the observation and zero pieces.
	obs := records[4]
	if obs[3] != "0" || obs[4] != "Machine breakdown" || obs[6] != "25" {
		t.Fatalf("observation row mangled: %v", obs)
	}
}

func TestToCSVEmptyDay(t *testing.T) {
	day := state.Day{ID: "2026-03-10"}
	path := filepath.Join(t.TempDir(), "empty.csv")

	if err := ToCSV(&day, path); err != nil {
		t.Fatal(err)
	}

	f, _ := os.Open(path)
	defer f.Close()
	records, _ := csv.NewReader(f).ReadAll()
	if len(records) != 1 {
		t.Fatalf("expected 1 row (header only), got %d", len(records))
	}
}

func TestToCSVBadPath(t *testing.T) {
	day := sampleDay()
	if err := ToCSV(&day, "/nonexistent/dir/file.csv"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestToCSVSpecialCharacters(t *testing.T) {
	day := state.Day{
		ID: "2026-03-10",
		Functions: []state.FunctionEntry{{
			Name:    `Line "A", north`,
			Workers: []string{"Ana"},
			Hours:   []string{"08:00"},
			Observations: map[string]map[string]state.Observation{
				"Ana": {"08:00": {Reason: "Break", Detail: `detail with "quotes" and, commas`}},
			},
		}},
	}
	path := filepath.Join(t.TempDir(), "special.csv")

	if err := ToCSV(&day, path); err != nil {
		t.Fatal(err)
	}

	f, _ := os.Open(path)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("CSV should be valid even with special chars: %v", err)
	}
	if records[1][0] != `Line "A", north` {
		t.Fatalf("function name mangled: %q", records[1][0])
	}
	if records[1][5] != `detail with "quotes" and, commas` {
		t.Fatalf("detail mangled: %q", records[1][5])
	}
}

// ============================================================
// JSON
// ============================================================

func TestToJSON(t *testing.T) {
	day := sampleDay()
	path := filepath.Join(t.TempDir(), "day.json")

	if err := ToJSON(&day, path); err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var result jsonExport
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if result.Date != "2026-03-10" {
		t.Fatalf("date = %q", result.Date)
	}
	if result.TotalPieces != 56 {
		t.Fatalf("total = %d, want 56", result.TotalPieces)
	}
	if len(result.Functions) != 2 {
		t.Fatalf("functions = %d, want 2", len(result.Functions))
	}

	sewing := result.Functions[0]
	if sewing.TotalPieces != 26 || sewing.MinutesStopped != 25 {
		t.Fatalf("sewing totals wrong: %+v", sewing)
	}
	if sewing.HourTotals["08:00"] != 20 {
		t.Fatalf("hour totals wrong: %v", sewing.HourTotals)
	}
	if len(sewing.Cells) != 4 {
		t.Fatalf("expected 4 cells, got %d", len(sewing.Cells))
	}

	if _, err := time.Parse(time.RFC3339, result.ExportedAt); err != nil {
		t.Fatalf("exported_at is not valid RFC3339: %q", result.ExportedAt)
	}
}

func TestToJSONPrettyPrinted(t *testing.T) {
	day := sampleDay()
	path := filepath.Join(t.TempDir(), "pretty.json")
	if err := ToJSON(&day, path); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "\n") || !strings.Contains(string(data), "  ") {
		t.Fatal("JSON should be pretty-printed and indented")
	}
}

func TestToJSONBadPath(t *testing.T) {
	day := sampleDay()
	if err := ToJSON(&day, "/nonexistent/dir/file.json"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

// ============================================================
// XLSX
// ============================================================

func TestToXLSX(t *testing.T) {
	days := []state.Day{sampleDay(), {ID: "2026-03-11"}}
	path := filepath.Join(t.TempDir(), "days.xlsx")

	if err := ToXLSX(days, path); err != nil {
		t.Fatalf("ToXLSX: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != "2026-03-10" || sheets[1] != "2026-03-11" {
		t.Fatalf("unexpected sheets %v", sheets)
	}

	got, err := f.GetCellValue("2026-03-10", "A1")
	if err != nil || got != "Function" {
		t.Fatalf("A1 = %q, err %v", got, err)
	}

	// Totals row sits after the 5 data rows.
	label, _ := f.GetCellValue("2026-03-10", "A7")
	total, _ := f.GetCellValue("2026-03-10", "D7")
	if label != "Total" || total != "56" {
		t.Fatalf("totals row wrong: %q / %q", label, total)
	}
}

func TestToXLSXBadPath(t *testing.T) {
	if err := ToXLSX([]state.Day{sampleDay()}, "/nonexistent/dir/file.xlsx"); err == nil {
		t.Fatal("expected error for bad path")
	}
}
