package pointing

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// csvHeader is the column order of the delimited export: one row per
// pointing with id, ra, dec, status, epoch, label.
var csvHeader = []string{"id", "ra_deg", "dec_deg", "status", "epoch", "label"}

// WriteCSV serializes a pointing set as a comma-delimited table.
func WriteCSV(w io.Writer, pts []Pointing) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}

	for _, p := range pts {
		epoch := ""
		if p.HasEpoch() {
			epoch = p.Epoch.UTC().Format(time.RFC3339)
		}
		row := []string{
			p.ID,
			strconv.FormatFloat(p.RAdeg, 'f', 5, 64),
			strconv.FormatFloat(p.DecDeg, 'f', 5, 64),
			string(p.Status),
			epoch,
			p.Label,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// SnapshotExport is the JSON-serializable representation of a pointing set.
type SnapshotExport struct {
	GeneratedAt time.Time        `json:"generated_at"`
	Count       int              `json:"count"`
	ByStatus    map[string]int   `json:"by_status"`
	Pointings   []PointingExport `json:"pointings"`
}

// PointingExport is a JSON-friendly pointing representation.
type PointingExport struct {
	ID        string  `json:"id"`
	RAdeg     float64 `json:"ra_deg"`
	DecDeg    float64 `json:"dec_deg"`
	RadiusDeg float64 `json:"radius_deg,omitempty"`
	Label     string  `json:"label,omitempty"`
	Status    string  `json:"status"`
	Epoch     string  `json:"epoch,omitempty"`
	QAGrade   string  `json:"qa_grade,omitempty"`
}

// ExportSnapshot converts a pointing set to an exportable format.
func ExportSnapshot(pts []Pointing, generatedAt time.Time) *SnapshotExport {
	export := &SnapshotExport{
		GeneratedAt: generatedAt,
		Count:       len(pts),
		ByStatus:    make(map[string]int),
	}

	for _, p := range pts {
		export.ByStatus[string(p.Status)]++

		pe := PointingExport{
			ID:        p.ID,
			RAdeg:     p.RAdeg,
			DecDeg:    p.DecDeg,
			RadiusDeg: p.RadiusDeg,
			Label:     p.Label,
			Status:    string(p.Status),
			QAGrade:   p.QAGrade,
		}
		if p.HasEpoch() {
			pe.Epoch = p.Epoch.UTC().Format(time.RFC3339)
		}
		export.Pointings = append(export.Pointings, pe)
	}

	return export
}

// WriteJSON writes the snapshot as indented JSON to the given writer.
func (s *SnapshotExport) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// WriteSummaryTable writes a human-readable status table, used by the
// headless -table mode.
func WriteSummaryTable(w io.Writer, pts []Pointing, timestamp time.Time) {
	fmt.Fprintf(w, "DSA-110 pointings @ %s\n", timestamp.Format(time.RFC3339))
	fmt.Fprintln(w, strings.Repeat("─", 78))

	if len(pts) == 0 {
		fmt.Fprintln(w, "No pointings")
		return
	}

	fmt.Fprintf(w, "%-14s %9s %9s %-10s %-20s %-6s\n",
		"ID", "RA", "Dec", "Status", "Epoch", "QA")
	fmt.Fprintln(w, strings.Repeat("─", 78))

	for _, p := range pts {
		epoch := "-"
		if p.HasEpoch() {
			epoch = p.Epoch.UTC().Format("2006-01-02 15:04")
		}
		qa := p.QAGrade
		if qa == "" {
			qa = "-"
		}
		fmt.Fprintf(w, "%-14s %9.3f %+9.3f %-10s %-20s %-6s\n",
			truncateStr(p.ID, 14), p.RAdeg, p.DecDeg, p.Status, epoch, truncateStr(qa, 6))
	}

	counts := CountByStatus(pts)
	fmt.Fprintf(w, "\nTotal: %d (%d completed, %d scheduled, %d failed, %d queued)\n",
		len(pts), counts[StatusCompleted], counts[StatusScheduled],
		counts[StatusFailed], counts[StatusQueued])
}

func truncateStr(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-2] + ".."
}
