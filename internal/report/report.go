package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"culiflow/internal/domain"
	"culiflow/internal/views"
)

// DirectorSummary is the end-of-day roll-up handed to the kitchen director:
// what slipped, what is blocked, and what the next shift inherits.
type DirectorSummary struct {
	Date             string        `json:"date"`
	OverallStatus    string        `json:"overall_status"`
	MissedCritical   []domain.Task `json:"missed_critical"`
	MissedCompliance []domain.Task `json:"missed_compliance"`
	TopMisses        []string      `json:"top_misses"`
	Blockers         []string      `json:"blockers"`
	DecisionsNeeded  []string      `json:"decisions_needed"`
	NextShiftRisks   []string      `json:"next_shift_risks"`
	GeneratedAt      string        `json:"generated_at"`
}

// Generate builds the summary fresh from the read models.
func Generate(ctx context.Context, v views.Views, now func() time.Time) (DirectorSummary, error) {
	if now == nil {
		now = time.Now
	}
	tasks, err := v.AllTasks(ctx)
	if err != nil {
		return DirectorSummary{}, err
	}
	ts := now().UTC()
	cutoff := ts.Format(time.RFC3339)

	s := DirectorSummary{
		Date:        ts.Format("2006-01-02"),
		GeneratedAt: cutoff,
	}
	for _, t := range tasks {
		if t.Status == domain.StatusDone || t.DueAt == nil || *t.DueAt >= cutoff {
			continue
		}
		if t.Priority == domain.PriorityCritical {
			s.MissedCritical = append(s.MissedCritical, t)
		}
		if t.ComplianceType != nil {
			s.MissedCompliance = append(s.MissedCompliance, t)
		}
	}
	s.OverallStatus = "on-track"
	if len(s.MissedCritical) > 0 || len(s.MissedCompliance) > 0 {
		s.OverallStatus = "at-risk"
	}

	pendingCritical := 0
	for _, t := range tasks {
		if t.Status == domain.StatusDone {
			continue
		}
		if len(s.TopMisses) < 5 {
			s.TopMisses = append(s.TopMisses, t.Title)
		}
		if t.DefinitionOfDone != nil && strings.Contains(*t.DefinitionOfDone, "blocked") {
			s.Blockers = append(s.Blockers, t.Title)
		}
		if t.Priority == domain.PriorityCritical {
			pendingCritical++
		}
	}
	if len(s.Blockers) > 0 {
		s.DecisionsNeeded = append(s.DecisionsNeeded, "Resolve blockers")
	}
	if pendingCritical > 3 {
		s.NextShiftRisks = append(s.NextShiftRisks, fmt.Sprintf("%d critical tasks pending", pendingCritical))
	}
	return s, nil
}

// DailySummary converts the report into the stored record for its date.
func (s DirectorSummary) DailySummary(generatedBy string) domain.DailySummary {
	return domain.DailySummary{
		Date:             s.Date,
		MissedCritical:   titles(s.MissedCritical),
		MissedCompliance: titles(s.MissedCompliance),
		Blockers:         append([]string{}, s.Blockers...),
		Wins:             []string{},
		RisksNextShift:   append([]string{}, s.NextShiftRisks...),
		GeneratedAt:      s.GeneratedAt,
		GeneratedBy:      generatedBy,
	}
}

// Render produces the plain-text version used by the CLI and email export.
func Render(s DirectorSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Director Summary %s [%s]\n\n", s.Date, s.OverallStatus)
	section(&b, "Missed critical", titles(s.MissedCritical))
	section(&b, "Missed compliance", titles(s.MissedCompliance))
	section(&b, "Top misses", s.TopMisses)
	section(&b, "Blockers", s.Blockers)
	section(&b, "Decisions needed", s.DecisionsNeeded)
	section(&b, "Next shift risks", s.NextShiftRisks)
	fmt.Fprintf(&b, "Generated at %s\n", s.GeneratedAt)
	return b.String()
}

func section(b *strings.Builder, title string, items []string) {
	fmt.Fprintf(b, "%s:\n", title)
	if len(items) == 0 {
		b.WriteString("  (none)\n")
	}
	for _, it := range items {
		fmt.Fprintf(b, "  - %s\n", it)
	}
	b.WriteString("\n")
}

func titles(tasks []domain.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Title)
	}
	return out
}
