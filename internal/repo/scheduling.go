package repo

import (
	"context"
	"database/sql"

	"culiflow/internal/domain"
)

const employeeColumns = `id,name,role,certifications_json,max_hours_per_week,preferred_stations_json,hire_date,active`

func scanEmployee(scan func(dest ...any) error) (domain.Employee, error) {
	var e domain.Employee
	var certs, stations sql.NullString
	var active int
	err := scan(&e.ID, &e.Name, &e.Role, &certs, &e.MaxHoursPerWeek, &stations, &e.HireDate, &active)
	if err == sql.ErrNoRows {
		return e, ErrNotFound
	}
	if err != nil {
		return e, err
	}
	e.Certifications = unmarshalStringSlice(certs)
	e.PreferredStations = unmarshalStringSlice(stations)
	e.Active = active != 0
	return e, nil
}

func employeeArgs(e domain.Employee) []any {
	active := 0
	if e.Active {
		active = 1
	}
	return []any{
		e.ID, e.Name, e.Role, marshalStringSlice(e.Certifications), e.MaxHoursPerWeek,
		marshalStringSlice(e.PreferredStations), e.HireDate, active,
	}
}

func (r Repo) InsertEmployee(ctx context.Context, e domain.Employee) error {
	_, err := r.DB.ExecContext(ctx, `INSERT INTO employees(`+employeeColumns+`) VALUES (?,?,?,?,?,?,?,?)`,
		employeeArgs(e)...)
	if isUniqueViolation(err) {
		return ErrDuplicateKey
	}
	return err
}

func (r Repo) PutEmployee(ctx context.Context, e domain.Employee) error {
	_, err := r.DB.ExecContext(ctx, `INSERT INTO employees(`+employeeColumns+`) VALUES (?,?,?,?,?,?,?,?)
ON CONFLICT(id) DO UPDATE SET name=excluded.name, role=excluded.role,
certifications_json=excluded.certifications_json, max_hours_per_week=excluded.max_hours_per_week,
preferred_stations_json=excluded.preferred_stations_json, hire_date=excluded.hire_date,
active=excluded.active`, employeeArgs(e)...)
	return err
}

func (r Repo) GetEmployee(ctx context.Context, id string) (domain.Employee, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id=?`, id)
	return scanEmployee(row.Scan)
}

func (r Repo) listEmployees(ctx context.Context, query string, args ...any) ([]domain.Employee, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Employee
	for rows.Next() {
		e, err := scanEmployee(rows.Scan)
		if err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, rows.Err()
}

func (r Repo) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	return r.listEmployees(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY name, id`)
}

func (r Repo) ListEmployeesByRole(ctx context.Context, role string) ([]domain.Employee, error) {
	return r.listEmployees(ctx, `SELECT `+employeeColumns+` FROM employees WHERE role=? ORDER BY name, id`, role)
}

func (r Repo) DeleteEmployee(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM employees WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

const shiftColumns = `id,employee_id,date,start_time,end_time,station,location,color,status,notes`

func scanShift(scan func(dest ...any) error) (domain.Shift, error) {
	var s domain.Shift
	var notes sql.NullString
	err := scan(&s.ID, &s.EmployeeID, &s.Date, &s.StartTime, &s.EndTime, &s.Station, &s.Location, &s.Color, &s.Status, &notes)
	if err == sql.ErrNoRows {
		return s, ErrNotFound
	}
	if err != nil {
		return s, err
	}
	if notes.Valid {
		s.Notes = &notes.String
	}
	return s, nil
}

func shiftArgs(s domain.Shift) []any {
	return []any{
		s.ID, s.EmployeeID, s.Date, s.StartTime, s.EndTime, s.Station, s.Location, s.Color,
		s.Status, nullableStringPtr(s.Notes),
	}
}

func (r Repo) InsertShift(ctx context.Context, s domain.Shift) error {
	_, err := r.DB.ExecContext(ctx, `INSERT INTO shifts(`+shiftColumns+`) VALUES (?,?,?,?,?,?,?,?,?,?)`,
		shiftArgs(s)...)
	if isUniqueViolation(err) {
		return ErrDuplicateKey
	}
	return err
}

func (r Repo) PutShift(ctx context.Context, s domain.Shift) error {
	_, err := r.DB.ExecContext(ctx, `INSERT INTO shifts(`+shiftColumns+`) VALUES (?,?,?,?,?,?,?,?,?,?)
ON CONFLICT(id) DO UPDATE SET employee_id=excluded.employee_id, date=excluded.date,
start_time=excluded.start_time, end_time=excluded.end_time, station=excluded.station,
location=excluded.location, color=excluded.color, status=excluded.status, notes=excluded.notes`,
		shiftArgs(s)...)
	return err
}

func (r Repo) GetShift(ctx context.Context, id string) (domain.Shift, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+shiftColumns+` FROM shifts WHERE id=?`, id)
	return scanShift(row.Scan)
}

func (r Repo) listShifts(ctx context.Context, query string, args ...any) ([]domain.Shift, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Shift
	for rows.Next() {
		s, err := scanShift(rows.Scan)
		if err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, rows.Err()
}

func (r Repo) ListShifts(ctx context.Context) ([]domain.Shift, error) {
	return r.listShifts(ctx, `SELECT `+shiftColumns+` FROM shifts ORDER BY date, start_time, id`)
}

func (r Repo) ListShiftsByEmployee(ctx context.Context, employeeID string) ([]domain.Shift, error) {
	return r.listShifts(ctx, `SELECT `+shiftColumns+` FROM shifts WHERE employee_id=? ORDER BY date, start_time, id`, employeeID)
}

func (r Repo) ListShiftsByDate(ctx context.Context, date string) ([]domain.Shift, error) {
	return r.listShifts(ctx, `SELECT `+shiftColumns+` FROM shifts WHERE date=? ORDER BY start_time, id`, date)
}

func (r Repo) ListShiftsByLocation(ctx context.Context, location string) ([]domain.Shift, error) {
	return r.listShifts(ctx, `SELECT `+shiftColumns+` FROM shifts WHERE location=? ORDER BY date, start_time, id`, location)
}

func (r Repo) DeleteShift(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM shifts WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

const scheduleColumns = `id,week_start_date,week_end_date,shift_ids_json,status,published_at,published_by,notes`

func scanSchedule(scan func(dest ...any) error) (domain.Schedule, error) {
	var s domain.Schedule
	var shiftIDs, publishedAt, publishedBy, notes sql.NullString
	err := scan(&s.ID, &s.WeekStartDate, &s.WeekEndDate, &shiftIDs, &s.Status, &publishedAt, &publishedBy, &notes)
	if err == sql.ErrNoRows {
		return s, ErrNotFound
	}
	if err != nil {
		return s, err
	}
	s.ShiftIDs = unmarshalStringSlice(shiftIDs)
	if publishedAt.Valid {
		s.PublishedAt = &publishedAt.String
	}
	if publishedBy.Valid {
		s.PublishedBy = &publishedBy.String
	}
	if notes.Valid {
		s.Notes = &notes.String
	}
	return s, nil
}

func scheduleArgs(s domain.Schedule) []any {
	return []any{
		s.ID, s.WeekStartDate, s.WeekEndDate, marshalStringSlice(s.ShiftIDs), s.Status,
		nullableStringPtr(s.PublishedAt), nullableStringPtr(s.PublishedBy), nullableStringPtr(s.Notes),
	}
}

func (r Repo) InsertSchedule(ctx context.Context, s domain.Schedule) error {
	_, err := r.DB.ExecContext(ctx, `INSERT INTO schedules(`+scheduleColumns+`) VALUES (?,?,?,?,?,?,?,?)`,
		scheduleArgs(s)...)
	if isUniqueViolation(err) {
		return ErrDuplicateKey
	}
	return err
}

func (r Repo) PutSchedule(ctx context.Context, s domain.Schedule) error {
	_, err := r.DB.ExecContext(ctx, `INSERT INTO schedules(`+scheduleColumns+`) VALUES (?,?,?,?,?,?,?,?)
ON CONFLICT(id) DO UPDATE SET week_start_date=excluded.week_start_date,
week_end_date=excluded.week_end_date, shift_ids_json=excluded.shift_ids_json,
status=excluded.status, published_at=excluded.published_at, published_by=excluded.published_by,
notes=excluded.notes`, scheduleArgs(s)...)
	return err
}

func (r Repo) GetSchedule(ctx context.Context, id string) (domain.Schedule, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+scheduleColumns+` FROM schedules WHERE id=?`, id)
	return scanSchedule(row.Scan)
}

func (r Repo) listSchedules(ctx context.Context, query string, args ...any) ([]domain.Schedule, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Schedule
	for rows.Next() {
		s, err := scanSchedule(rows.Scan)
		if err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, rows.Err()
}

func (r Repo) ListSchedules(ctx context.Context) ([]domain.Schedule, error) {
	return r.listSchedules(ctx, `SELECT `+scheduleColumns+` FROM schedules ORDER BY week_start_date, id`)
}

// ListSchedulesByWeek queries the weekStartDate index. Week uniqueness is not
// enforced; callers wanting "the" schedule take the first row.
func (r Repo) ListSchedulesByWeek(ctx context.Context, weekStartDate string) ([]domain.Schedule, error) {
	return r.listSchedules(ctx, `SELECT `+scheduleColumns+` FROM schedules WHERE week_start_date=? ORDER BY id`, weekStartDate)
}

func (r Repo) ListSchedulesByStatus(ctx context.Context, status string) ([]domain.Schedule, error) {
	return r.listSchedules(ctx, `SELECT `+scheduleColumns+` FROM schedules WHERE status=? ORDER BY week_start_date, id`, status)
}

func (r Repo) DeleteSchedule(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM schedules WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

const conflictColumns = `id,type,severity,shift_ids_json,employee_id,message,resolved_at`

func scanConflict(scan func(dest ...any) error) (domain.ConflictAlert, error) {
	var c domain.ConflictAlert
	var shiftIDs, employeeID, resolvedAt sql.NullString
	err := scan(&c.ID, &c.Type, &c.Severity, &shiftIDs, &employeeID, &c.Message, &resolvedAt)
	if err == sql.ErrNoRows {
		return c, ErrNotFound
	}
	if err != nil {
		return c, err
	}
	c.ShiftIDs = unmarshalStringSlice(shiftIDs)
	if employeeID.Valid {
		c.EmployeeID = &employeeID.String
	}
	if resolvedAt.Valid {
		c.ResolvedAt = &resolvedAt.String
	}
	return c, nil
}

func conflictArgs(c domain.ConflictAlert) []any {
	return []any{
		c.ID, c.Type, c.Severity, marshalStringSlice(c.ShiftIDs), nullableStringPtr(c.EmployeeID),
		c.Message, nullableStringPtr(c.ResolvedAt),
	}
}

func (r Repo) InsertConflict(ctx context.Context, c domain.ConflictAlert) error {
	_, err := r.DB.ExecContext(ctx, `INSERT INTO conflicts(`+conflictColumns+`) VALUES (?,?,?,?,?,?,?)`,
		conflictArgs(c)...)
	if isUniqueViolation(err) {
		return ErrDuplicateKey
	}
	return err
}

func (r Repo) PutConflict(ctx context.Context, c domain.ConflictAlert) error {
	_, err := r.DB.ExecContext(ctx, `INSERT INTO conflicts(`+conflictColumns+`) VALUES (?,?,?,?,?,?,?)
ON CONFLICT(id) DO UPDATE SET type=excluded.type, severity=excluded.severity,
shift_ids_json=excluded.shift_ids_json, employee_id=excluded.employee_id,
message=excluded.message, resolved_at=excluded.resolved_at`, conflictArgs(c)...)
	return err
}

func (r Repo) GetConflict(ctx context.Context, id string) (domain.ConflictAlert, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+conflictColumns+` FROM conflicts WHERE id=?`, id)
	return scanConflict(row.Scan)
}

func (r Repo) listConflicts(ctx context.Context, query string, args ...any) ([]domain.ConflictAlert, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.ConflictAlert
	for rows.Next() {
		c, err := scanConflict(rows.Scan)
		if err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, rows.Err()
}

func (r Repo) ListConflicts(ctx context.Context) ([]domain.ConflictAlert, error) {
	return r.listConflicts(ctx, `SELECT `+conflictColumns+` FROM conflicts ORDER BY id`)
}

func (r Repo) ListConflictsByEmployee(ctx context.Context, employeeID string) ([]domain.ConflictAlert, error) {
	return r.listConflicts(ctx, `SELECT `+conflictColumns+` FROM conflicts WHERE employee_id=? ORDER BY id`, employeeID)
}

func (r Repo) ListConflictsBySeverity(ctx context.Context, severity string) ([]domain.ConflictAlert, error) {
	return r.listConflicts(ctx, `SELECT `+conflictColumns+` FROM conflicts WHERE severity=? ORDER BY id`, severity)
}

func (r Repo) DeleteConflict(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM conflicts WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
