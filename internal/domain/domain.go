package domain

// Task types, statuses and tag vocabularies are closed sets; the store does
// not validate membership, callers are expected to use these constants.

const (
	TypeService    = "service"
	TypePrep       = "prep"
	TypeAdmin      = "admin"
	TypeStandards  = "standards"
	TypeCompliance = "compliance"
)

const (
	StatusBacklog    = "backlog"
	StatusInProgress = "in_progress"
	StatusReady      = "ready"
	StatusVerified   = "verified"
	StatusDone       = "done"
)

const (
	PriorityCritical = "critical"
	PriorityHigh     = "high"
	PriorityMedium   = "medium"
)

// Stations are physical kitchen areas; concepts are dining outlets.
const (
	StationHotLine = "hot-line"
	StationGarde   = "garde"
	StationBakery  = "bakery"
	StationDish    = "dish"
	StationUtility = "utility"
	StationCentral = "central-production"
)

const (
	ConceptOakTerrace = "oak-terrace"
	ConceptElements   = "elements"
	ConceptLoonsNest  = "loons-nest"
	ConceptCentral    = "central-production"
)

const (
	ComplianceTempLog   = "temp_log"
	ComplianceTestMeal  = "test_meal"
	ComplianceMealRound = "meal_round"
	ComplianceFIFO      = "fifo"
	ComplianceOther     = "other"
)

type Task struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Type             string   `json:"type"`
	Concept          *string  `json:"concept,omitempty"`
	Station          *string  `json:"station,omitempty"`
	Owner            *string  `json:"owner,omitempty"`
	Priority         string   `json:"priority"`
	DurationMinutes  *int     `json:"duration_minutes,omitempty"`
	DueAt            *string  `json:"due_at,omitempty" format:"date-time"`
	Status           string   `json:"status" enum:"backlog,in_progress,ready,verified,done"`
	DefinitionOfDone *string  `json:"definition_of_done,omitempty"`
	ComplianceType   *string  `json:"compliance_type,omitempty"`
	EvidenceRequired bool     `json:"evidence_required"`
	Evidence         []string `json:"evidence"`
	CreatedAt        string   `json:"created_at" format:"date-time"`
	UpdatedAt        string   `json:"updated_at" format:"date-time"`
}

// Event actions form a closed enumeration; consumers switch on these.
const (
	ActionTaskCreated       = "task_created"
	ActionTaskCompleted     = "task_completed"
	ActionTaskUncompleted   = "task_uncompleted"
	ActionTaskDeleted       = "task_deleted"
	ActionStatusChanged     = "status_changed"
	ActionAssigned          = "assigned"
	ActionNoteAdded         = "note_added"
	ActionEvidenceAdded     = "evidence_added"
	ActionIssueLogged       = "issue_logged"
	ActionEmployeeCreated   = "employee_created"
	ActionEmployeeUpdated   = "employee_updated"
	ActionEmployeeDeleted   = "employee_deleted"
	ActionShiftCreated      = "shift_created"
	ActionShiftUpdated      = "shift_updated"
	ActionShiftDeleted      = "shift_deleted"
	ActionScheduleCreated   = "schedule_created"
	ActionScheduleUpdated   = "schedule_updated"
	ActionScheduleDeleted   = "schedule_deleted"
	ActionSchedulePublished = "schedule_published"
	ActionConflictDetected  = "conflict_detected"
	ActionConflictResolved  = "conflict_resolved"
)

// Payload is the snapshot attached to an event entry. Record-carrying actions
// set exactly one of the record pointers; deletions keep only the key.
type Payload struct {
	Task       *Task          `json:"task,omitempty"`
	Employee   *Employee      `json:"employee,omitempty"`
	Shift      *Shift         `json:"shift,omitempty"`
	Schedule   *Schedule      `json:"schedule,omitempty"`
	Conflict   *ConflictAlert `json:"conflict,omitempty"`
	TaskID     string         `json:"task_id,omitempty"`
	EmployeeID string         `json:"employee_id,omitempty"`
	ShiftID    string         `json:"shift_id,omitempty"`
	ScheduleID string         `json:"schedule_id,omitempty"`
}

// EventLogEntry is append-only: once inserted its fields never change and it
// is never deleted, even when the record it describes is.
type EventLogEntry struct {
	Seq     int64   `json:"seq"`
	ID      string  `json:"id"`
	TS      string  `json:"ts" format:"date-time"`
	Actor   string  `json:"actor"`
	Action  string  `json:"action"`
	TaskID  *string `json:"task_id,omitempty"`
	Payload Payload `json:"payload"`
}

type DailySummary struct {
	Date             string   `json:"date"`
	MissedCritical   []string `json:"missed_critical"`
	MissedCompliance []string `json:"missed_compliance"`
	Blockers         []string `json:"blockers"`
	Wins             []string `json:"wins"`
	RisksNextShift   []string `json:"risks_next_shift"`
	GeneratedAt      string   `json:"generated_at" format:"date-time"`
	GeneratedBy      string   `json:"generated_by"`
}

const (
	RoleLineCook   = "line-cook"
	RoleSousChef   = "sous-chef"
	RoleExecChef   = "exec-chef"
	RoleDishwasher = "dishwasher"
)

type Employee struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Role              string   `json:"role" enum:"line-cook,sous-chef,exec-chef,dishwasher"`
	Certifications    []string `json:"certifications"`
	MaxHoursPerWeek   int      `json:"max_hours_per_week"`
	PreferredStations []string `json:"preferred_stations"`
	HireDate          string   `json:"hire_date"`
	Active            bool     `json:"active"`
}

const (
	LocationMainBuilding = "main-building"
	LocationLoonsNest    = "loons-nest"
	LocationOakTerrace   = "oak-terrace"
)

const (
	ShiftStatusDraft     = "draft"
	ShiftStatusPublished = "published"
	ShiftStatusCompleted = "completed"
)

// Shift references an employee by id. Overlapping shifts for the same
// employee are not prevented here; the conflict detector flags them.
type Shift struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employee_id"`
	Date       string  `json:"date"`
	StartTime  string  `json:"start_time"`
	EndTime    string  `json:"end_time"`
	Station    string  `json:"station"`
	Location   string  `json:"location"`
	Color      string  `json:"color"`
	Status     string  `json:"status" enum:"draft,published,completed"`
	Notes      *string `json:"notes,omitempty"`
}

const (
	ScheduleStatusDraft     = "draft"
	ScheduleStatusPublished = "published"
	ScheduleStatusArchived  = "archived"
)

type Schedule struct {
	ID            string   `json:"id"`
	WeekStartDate string   `json:"week_start_date"`
	WeekEndDate   string   `json:"week_end_date"`
	ShiftIDs      []string `json:"shift_ids"`
	Status        string   `json:"status" enum:"draft,published,archived"`
	PublishedAt   *string  `json:"published_at,omitempty" format:"date-time"`
	PublishedBy   *string  `json:"published_by,omitempty"`
	Notes         *string  `json:"notes,omitempty"`
}

const (
	ConflictDoubleBooking = "double-booking"
	ConflictOvertime      = "overtime"
	ConflictCoverageGap   = "coverage-gap"
	ConflictClopen        = "clopen"
	ConflictCertMismatch  = "cert-mismatch"
)

const (
	SeverityCritical = "critical"
	SeverityWarning  = "warning"
	SeverityInfo     = "info"
)

// ConflictAlert resolution is one-way: ResolvedAt is set once, never cleared.
type ConflictAlert struct {
	ID         string   `json:"id"`
	Type       string   `json:"type" enum:"double-booking,overtime,coverage-gap,clopen,cert-mismatch"`
	Severity   string   `json:"severity" enum:"critical,warning,info"`
	ShiftIDs   []string `json:"shift_ids"`
	EmployeeID *string  `json:"employee_id,omitempty"`
	Message    string   `json:"message"`
	ResolvedAt *string  `json:"resolved_at,omitempty" format:"date-time"`
}
