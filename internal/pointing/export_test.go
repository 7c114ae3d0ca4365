package pointing

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func exportFixture() []Pointing {
	return []Pointing{
		{ID: "field_0012", RAdeg: 180.5, DecDeg: 45.2, Status: StatusCompleted,
			Epoch: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC), Label: "J1201+4512", QAGrade: "A"},
		{ID: "field_0044", RAdeg: 5, DecDeg: 30, Status: StatusScheduled},
		{ID: "field_0051", RAdeg: 90, DecDeg: -15, Status: StatusFailed},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, exportFixture()); err != nil {
		t.Fatalf("WriteCSV() error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("line count = %d, want 4 (header + 3 rows)", len(lines))
	}
	if lines[0] != "id,ra_deg,dec_deg,status,epoch,label" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "field_0012,180.50000,45.20000,completed,2026-03-01T08:00:00Z,J1201+4512" {
		t.Errorf("first row = %q", lines[1])
	}
	// Epochless rows keep the column empty.
	if !strings.Contains(lines[2], "scheduled,,") {
		t.Errorf("epochless row = %q", lines[2])
	}
}

func TestExportSnapshot(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	snap := ExportSnapshot(exportFixture(), now)

	if snap.Count != 3 {
		t.Errorf("Count = %d, want 3", snap.Count)
	}
	if snap.ByStatus["completed"] != 1 || snap.ByStatus["failed"] != 1 {
		t.Errorf("ByStatus = %v", snap.ByStatus)
	}
	if snap.Pointings[0].Epoch != "2026-03-01T08:00:00Z" {
		t.Errorf("epoch = %q", snap.Pointings[0].Epoch)
	}
	if snap.Pointings[1].Epoch != "" {
		t.Errorf("epochless pointing serialized epoch %q", snap.Pointings[1].Epoch)
	}
}

func TestSnapshotExport_WriteJSON(t *testing.T) {
	snap := ExportSnapshot(exportFixture(), time.Now().UTC())

	var buf bytes.Buffer
	if err := snap.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}

	var decoded SnapshotExport
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Count != 3 || len(decoded.Pointings) != 3 {
		t.Errorf("round trip: count=%d pointings=%d", decoded.Count, len(decoded.Pointings))
	}
}

func TestWriteSummaryTable(t *testing.T) {
	var buf bytes.Buffer
	WriteSummaryTable(&buf, exportFixture(), time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC))

	out := buf.String()
	for _, want := range []string{"field_0012", "completed", "Total: 3", "1 completed", "1 failed"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q", want)
		}
	}
}

func TestWriteSummaryTable_Empty(t *testing.T) {
	var buf bytes.Buffer
	WriteSummaryTable(&buf, nil, time.Now())

	if !strings.Contains(buf.String(), "No pointings") {
		t.Error("empty table should say so")
	}
}
