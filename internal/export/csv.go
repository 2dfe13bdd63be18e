package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"culiflow/internal/domain"
)

// TasksCSV writes one row per task in a stable column order.
func TasksCSV(w io.Writer, tasks []domain.Task) error {
	cw := csv.NewWriter(w)
	header := []string{"id", "title", "type", "concept", "station", "owner", "priority",
		"duration_minutes", "due_at", "status", "compliance_type", "evidence_required",
		"evidence", "created_at", "updated_at"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, t := range tasks {
		row := []string{
			t.ID, t.Title, t.Type, deref(t.Concept), deref(t.Station), deref(t.Owner),
			t.Priority, derefInt(t.DurationMinutes), deref(t.DueAt), t.Status,
			deref(t.ComplianceType), strconv.FormatBool(t.EvidenceRequired),
			strings.Join(t.Evidence, ";"), t.CreatedAt, t.UpdatedAt,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
