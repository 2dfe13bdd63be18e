package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"culiflow/internal/domain"
)

// Draft is the partial task produced from one quick-add line. Every field is
// optional except Title, which is whatever text remains once all markers are
// stripped.
type Draft struct {
	Type           *string
	Duration       *int
	Title          string
	Quantity       *string
	Station        *string
	Due            *string
	Owner          *string
	Priority       *string
	ComplianceTags []string
	ConceptTags    []string
}

// Default alias tables. Unknown aliases are stripped from the line but leave
// the field unset; that silent drop is deliberate, not an error.
func DefaultStations() map[string]string {
	return map[string]string{
		"garde":              domain.StationGarde,
		"hotline":            domain.StationHotLine,
		"hot-line":           domain.StationHotLine,
		"bakery":             domain.StationBakery,
		"dish":               domain.StationDish,
		"utility":            domain.StationUtility,
		"central":            domain.StationCentral,
		"central-production": domain.StationCentral,
	}
}

func DefaultConcepts() map[string]string {
	return map[string]string{
		"oak":      domain.ConceptOakTerrace,
		"elements": domain.ConceptElements,
		"loons":    domain.ConceptLoonsNest,
		"central":  domain.ConceptCentral,
	}
}

func DefaultCompliance() map[string]string {
	return map[string]string{
		"temp":      domain.ComplianceTempLog,
		"testmeal":  domain.ComplianceTestMeal,
		"mealround": domain.ComplianceMealRound,
		"fifo":      domain.ComplianceFIFO,
	}
}

var (
	typeRe       = regexp.MustCompile(`^(?i)(prep|service|admin|standards|compliance)\s+`)
	durationRe   = regexp.MustCompile(`^(\d+)\s+`)
	priorityRe   = regexp.MustCompile(`(?i)!(critical|high|medium)`)
	ownerRe      = regexp.MustCompile(`#(\w+)`)
	stationRe    = regexp.MustCompile(`@(\S+)`)
	timeRe       = regexp.MustCompile(`(?i)\b(\d{1,2})(?::(\d{2}))?(am|pm|a|p)?\b`)
	complianceRe = regexp.MustCompile(`/(\w+)`)
	conceptRe    = regexp.MustCompile(`\+(\w+)`)
	quantityRe   = regexp.MustCompile(`(?i)\b(\d+) ?(gal|lb|qt|oz|kg|g|each)\b`)
)

// Parser turns one line of free text into a Draft in a single deterministic
// left-to-right extraction pass. It never fails; absent markers simply leave
// fields unset. Now feeds the "due = today at H:MM" rule.
type Parser struct {
	Stations   map[string]string
	Concepts   map[string]string
	Compliance map[string]string
	Now        func() time.Time
}

func New() *Parser {
	return &Parser{
		Stations:   DefaultStations(),
		Concepts:   DefaultConcepts(),
		Compliance: DefaultCompliance(),
		Now:        time.Now,
	}
}

func (p *Parser) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// Parse applies the extraction steps in a fixed order; each step operates on
// the remainder left by the earlier ones. Type and duration are recognized
// only as literal prefixes; every other marker may sit anywhere in the line.
func (p *Parser) Parse(input string) Draft {
	d := Draft{
		ComplianceTags: []string{},
		ConceptTags:    []string{},
	}
	rest := strings.TrimSpace(input)

	if m := typeRe.FindStringSubmatch(rest); m != nil {
		t := strings.ToLower(m[1])
		d.Type = &t
		rest = rest[len(m[0]):]
	}

	if m := durationRe.FindStringSubmatch(rest); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			d.Duration = &n
		}
		rest = rest[len(m[0]):]
	}

	if m := priorityRe.FindStringSubmatch(rest); m != nil {
		pr := strings.ToLower(m[1])
		d.Priority = &pr
		rest = stripFirst(rest, m[0])
	}

	if m := ownerRe.FindStringSubmatch(rest); m != nil {
		owner := m[1]
		d.Owner = &owner
		rest = stripFirst(rest, m[0])
	}

	if m := stationRe.FindStringSubmatch(rest); m != nil {
		if station, ok := p.Stations[strings.ToLower(m[1])]; ok {
			d.Station = &station
		}
		rest = stripFirst(rest, m[0])
	}

	if m := timeRe.FindStringSubmatch(rest); m != nil {
		due := p.dueAt(m[1], m[2], m[3])
		d.Due = &due
		rest = stripFirst(rest, m[0])
	}

	for _, m := range complianceRe.FindAllStringSubmatch(rest, -1) {
		if tag, ok := p.Compliance[strings.ToLower(m[1])]; ok && !contains(d.ComplianceTags, tag) {
			d.ComplianceTags = append(d.ComplianceTags, tag)
		}
		rest = stripFirst(rest, m[0])
	}

	for _, m := range conceptRe.FindAllStringSubmatch(rest, -1) {
		if tag, ok := p.Concepts[strings.ToLower(m[1])]; ok && !contains(d.ConceptTags, tag) {
			d.ConceptTags = append(d.ConceptTags, tag)
		}
		rest = stripFirst(rest, m[0])
	}

	if m := quantityRe.FindString(rest); m != "" {
		q := m
		d.Quantity = &q
		rest = stripFirst(rest, m)
	}

	d.Title = strings.Join(strings.Fields(rest), " ")
	return d
}

// dueAt resolves H[:MM][meridiem] to an absolute timestamp on the current
// calendar day. Hours 1-11 with pm gain 12, 12am maps to 0, no meridiem is
// read as a 24-hour clock.
func (p *Parser) dueAt(hourStr, minuteStr, meridiem string) string {
	hour, _ := strconv.Atoi(hourStr)
	minute := 0
	if minuteStr != "" {
		minute, _ = strconv.Atoi(minuteStr)
	}
	switch strings.ToLower(meridiem) {
	case "pm", "p":
		if hour < 12 {
			hour += 12
		}
	case "am", "a":
		if hour == 12 {
			hour = 0
		}
	}
	now := p.now()
	due := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	return due.Format(time.RFC3339)
}

// stripFirst removes the first occurrence of marker and trims the ends.
// Stripped markers are gone for good: re-parsing a reconstructed title is not
// idempotent, by design.
func stripFirst(s, marker string) string {
	idx := strings.Index(s, marker)
	if idx < 0 {
		return s
	}
	return strings.TrimSpace(s[:idx] + s[idx+len(marker):])
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
