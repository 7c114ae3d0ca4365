package pointing

import (
	"encoding/json"
	"fmt"
	"time"
)

// pointingRecord mirrors one entry of the pipeline API's pointing listing.
// RA/Dec are pointers so records with missing coordinates can be detected
// and dropped at the boundary instead of reaching the renderer.
type pointingRecord struct {
	ID        string   `json:"id"`
	RAdeg     *float64 `json:"ra_deg"`
	DecDeg    *float64 `json:"dec_deg"`
	RadiusDeg float64  `json:"radius_deg,omitempty"`
	Label     string   `json:"label,omitempty"`
	Status    string   `json:"status,omitempty"`
	Epoch     string   `json:"epoch,omitempty"`
	QAGrade   string   `json:"qa_grade,omitempty"`
}

type pointingListing struct {
	Pointings []pointingRecord `json:"pointings"`
}

// Parse decodes the API's pointing listing. Records without an ID or with
// missing coordinates are dropped (the render contract requires callers to
// filter malformed records; this is that boundary). The count of dropped
// records is returned for logging.
func Parse(data []byte) ([]Pointing, int, error) {
	var listing pointingListing
	if err := json.Unmarshal(data, &listing); err != nil {
		return nil, 0, fmt.Errorf("decode pointing listing: %w", err)
	}

	pts := make([]Pointing, 0, len(listing.Pointings))
	dropped := 0
	for _, rec := range listing.Pointings {
		if rec.ID == "" || rec.RAdeg == nil || rec.DecDeg == nil {
			dropped++
			continue
		}

		p := Pointing{
			ID:        rec.ID,
			RAdeg:     *rec.RAdeg,
			DecDeg:    *rec.DecDeg,
			RadiusDeg: rec.RadiusDeg,
			Label:     rec.Label,
			Status:    ParseStatus(rec.Status),
			QAGrade:   rec.QAGrade,
		}

		if rec.Epoch != "" {
			// Epochs arrive as RFC 3339; a record with an unparseable
			// epoch keeps its position but drops off the timeline.
			if ts, err := time.Parse(time.RFC3339, rec.Epoch); err == nil {
				p.Epoch = ts.UTC()
			}
		}

		pts = append(pts, p.normalize())
	}

	return pts, dropped, nil
}
