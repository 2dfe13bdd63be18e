package export

import (
	"github.com/go-pdf/fpdf"

	"culiflow/internal/domain"
	"culiflow/internal/report"
)

// SummaryPDF renders the director summary as a one-page PDF at path.
func SummaryPDF(s report.DirectorSummary, path string) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Director Summary "+s.Date)
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 8, "Status: "+s.OverallStatus)
	pdf.Ln(10)

	writeSection := func(title string, items []string) {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, title)
		pdf.Ln(7)
		pdf.SetFont("Helvetica", "", 10)
		if len(items) == 0 {
			pdf.Cell(0, 6, "(none)")
			pdf.Ln(6)
		}
		for _, it := range items {
			pdf.Cell(0, 6, "- "+it)
			pdf.Ln(6)
		}
		pdf.Ln(3)
	}

	writeSection("Missed critical", taskTitles(s.MissedCritical))
	writeSection("Missed compliance", taskTitles(s.MissedCompliance))
	writeSection("Top misses", s.TopMisses)
	writeSection("Blockers", s.Blockers)
	writeSection("Decisions needed", s.DecisionsNeeded)
	writeSection("Next shift risks", s.NextShiftRisks)

	pdf.SetFont("Helvetica", "I", 9)
	pdf.Cell(0, 6, "Generated at "+s.GeneratedAt)
	return pdf.OutputFileAndClose(path)
}

func taskTitles(tasks []domain.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Title)
	}
	return out
}
