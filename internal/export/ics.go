package export

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"

	"culiflow/internal/domain"
)

const defaultEventMinutes = 30

// Calendar renders due-dated, not-yet-done tasks as an iCalendar feed. Tasks
// without a due timestamp are skipped; duration drives the event end, with a
// 30 minute default.
func Calendar(tasks []domain.Task, now time.Time) (string, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//culiflow//kitchen board//EN")

	for _, t := range tasks {
		if t.DueAt == nil || t.Status == domain.StatusDone {
			continue
		}
		start, err := time.Parse(time.RFC3339, *t.DueAt)
		if err != nil {
			continue
		}
		minutes := defaultEventMinutes
		if t.DurationMinutes != nil {
			minutes = *t.DurationMinutes
		}
		end := start.Add(time.Duration(minutes) * time.Minute)

		ev := cal.AddEvent(t.ID)
		ev.SetCreatedTime(now)
		ev.SetDtStampTime(now)
		ev.SetStartAt(start)
		ev.SetEndAt(end)
		ev.SetSummary(t.Title)
		ev.SetDescription(eventDescription(t))
		if t.Station != nil {
			ev.SetLocation(*t.Station)
		}
		if t.Status == domain.StatusInProgress {
			ev.SetStatus(ics.ObjectStatusConfirmed)
		} else {
			ev.SetStatus(ics.ObjectStatusTentative)
		}
	}
	return cal.Serialize(), nil
}

func eventDescription(t domain.Task) string {
	desc := fmt.Sprintf("Priority: %s", t.Priority)
	if t.Station != nil {
		desc += fmt.Sprintf("\nStation: %s", *t.Station)
	}
	if t.Owner != nil {
		desc += fmt.Sprintf("\nOwner: %s", *t.Owner)
	}
	if t.Concept != nil {
		desc += fmt.Sprintf("\nConcept: %s", *t.Concept)
	}
	if t.ComplianceType != nil {
		desc += fmt.Sprintf("\nCompliance: %s", *t.ComplianceType)
	}
	return desc
}
