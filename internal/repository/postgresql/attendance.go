package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const attendanceColumns = `
	a.id, a.employee_id, a.date, a.punch_in, a.punch_out, a.break_intervals,
	a.total_break_minutes, a.total_work_minutes, a.status, a.work_time_anomaly,
	a.created_at, a.updated_at`

const absenceInsertQuery = `
	INSERT INTO attendances (
		id, employee_id, date, break_intervals,
		total_break_minutes, total_work_minutes, status, work_time_anomaly
	) VALUES ($1, $2, $3, '[]'::jsonb, 0, 0, $4, FALSE)
	ON CONFLICT (employee_id, date) DO NOTHING
`

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

func scanAttendance(row pgx.Row, extra ...any) (attendance.Attendance, error) {
	var att attendance.Attendance
	var status string
	dest := []any{
		&att.ID, &att.EmployeeID, &att.Date, &att.PunchIn, &att.PunchOut, &att.BreakIntervals,
		&att.TotalBreakMinutes, &att.TotalWorkMinutes, &status, &att.WorkTimeAnomaly,
		&att.CreatedAt, &att.UpdatedAt,
	}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return attendance.Attendance{}, err
	}
	att.Status = attendance.Status(status)
	return att, nil
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, newAttendance attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	if newAttendance.ID == "" {
		newAttendance.ID = uuid.Must(uuid.NewV7()).String()
	}
	if newAttendance.BreakIntervals == nil {
		newAttendance.BreakIntervals = attendance.BreakIntervals{}
	}

	query := `
		INSERT INTO attendances (
			id, employee_id, date, punch_in, punch_out, break_intervals,
			total_break_minutes, total_work_minutes, status, work_time_anomaly
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (employee_id, date) DO NOTHING
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		newAttendance.ID,
		newAttendance.EmployeeID,
		newAttendance.Date,
		newAttendance.PunchIn,
		newAttendance.PunchOut,
		newAttendance.BreakIntervals,
		newAttendance.TotalBreakMinutes,
		newAttendance.TotalWorkMinutes,
		string(newAttendance.Status),
		newAttendance.WorkTimeAnomaly,
	).Scan(&newAttendance.CreatedAt, &newAttendance.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAlreadyPunchedIn
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return newAttendance, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (attendance.Attendance, error) {
	return a.getByEmployeeAndDate(ctx, employeeID, date, "")
}

// GetByEmployeeAndDateForUpdate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByEmployeeAndDateForUpdate(ctx context.Context, employeeID string, date time.Time) (attendance.Attendance, error) {
	return a.getByEmployeeAndDate(ctx, employeeID, date, "FOR UPDATE")
}

func (a *attendanceRepository) getByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, lock string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendances a
		WHERE a.employee_id = $1
		  AND a.date = $2
		LIMIT 1 ` + lock

	att, err := scanAttendance(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	return att, nil
}

// Update implements attendance.AttendanceRepository.
func (a *attendanceRepository) Update(ctx context.Context, att attendance.Attendance) error {
	q := GetQuerier(ctx, a.db)

	if att.BreakIntervals == nil {
		att.BreakIntervals = attendance.BreakIntervals{}
	}

	query := `
		UPDATE attendances SET
			punch_in = $1,
			punch_out = $2,
			break_intervals = $3,
			total_break_minutes = $4,
			total_work_minutes = $5,
			status = $6,
			work_time_anomaly = $7,
			updated_at = NOW()
		WHERE id = $8
	`

	tag, err := q.Exec(ctx, query,
		att.PunchIn,
		att.PunchOut,
		att.BreakIntervals,
		att.TotalBreakMinutes,
		att.TotalWorkMinutes,
		string(att.Status),
		att.WorkTimeAnomaly,
		att.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

type whereBuilder struct {
	clauses []string
	args    []any
}

func (w *whereBuilder) add(clause string, value any) {
	w.args = append(w.args, value)
	w.clauses = append(w.clauses, fmt.Sprintf(clause, len(w.args)))
}

func (w *whereBuilder) sql() string {
	if len(w.clauses) == 0 {
		return "TRUE"
	}
	return strings.Join(w.clauses, " AND ")
}

func attendanceOrderBy(sortBy, sortOrder string) string {
	orderByField := "a.date"
	switch sortBy {
	case "employee_name":
		orderByField = "e.full_name"
	case "punch_in":
		orderByField = "a.punch_in"
	case "punch_out":
		orderByField = "a.punch_out"
	case "status":
		orderByField = "a.status"
	}
	direction := "DESC"
	if strings.ToLower(sortOrder) == "asc" {
		direction = "ASC"
	}
	return fmt.Sprintf("%s %s, a.id %s", orderByField, direction, direction)
}

func dateFilters(w *whereBuilder, date, start, end *string) {
	if date != nil && *date != "" {
		w.add("a.date = $%d", *date)
	}
	if start != nil && *start != "" {
		w.add("a.date >= $%d", *start)
	}
	if end != nil && *end != "" {
		w.add("a.date <= $%d", *end)
	}
}

// List implements attendance.AttendanceRepository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	w := &whereBuilder{}
	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		w.add("a.employee_id = $%d", *filter.EmployeeID)
	}
	if filter.EmployeeName != nil && *filter.EmployeeName != "" {
		w.add("e.full_name ILIKE $%d", "%"+*filter.EmployeeName+"%")
	}
	dateFilters(w, filter.Date, filter.StartDate, filter.EndDate)
	if filter.Status != nil && *filter.Status != "" {
		w.add("a.status = $%d", *filter.Status)
	}

	return a.list(ctx, w, attendanceOrderBy(filter.SortBy, filter.SortOrder), filter.Page, filter.Limit)
}

// GetMyAttendance implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetMyAttendance(ctx context.Context, employeeID string, filter attendance.MyAttendanceFilter) ([]attendance.Attendance, int64, error) {
	w := &whereBuilder{}
	w.add("a.employee_id = $%d", employeeID)
	dateFilters(w, filter.Date, filter.StartDate, filter.EndDate)
	if filter.Status != nil && *filter.Status != "" {
		w.add("a.status = $%d", *filter.Status)
	}

	return a.list(ctx, w, attendanceOrderBy(filter.SortBy, filter.SortOrder), filter.Page, filter.Limit)
}

func (a *attendanceRepository) list(ctx context.Context, w *whereBuilder, orderBy string, page, limit int) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, a.db)

	countQuery := `
		SELECT COUNT(*)
		FROM attendances a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE ` + w.sql()
	var total int64
	if err := q.QueryRow(ctx, countQuery, w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	offset := (page - 1) * limit
	args := append(append([]any{}, w.args...), limit, offset)
	selectQuery := fmt.Sprintf(`
		SELECT %s, e.full_name, e.employee_code
		FROM attendances a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, attendanceColumns, w.sql(), orderBy, len(w.args)+1, len(w.args)+2)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendances: %w", err)
	}
	defer rows.Close()

	var result []attendance.Attendance
	for rows.Next() {
		var name, code *string
		att, err := scanAttendance(rows, &name, &code)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance: %w", err)
		}
		att.EmployeeName = name
		att.EmployeeCode = code
		result = append(result, att)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate attendances: %w", err)
	}

	return result, total, nil
}

// BulkCreateAbsences implements attendance.AttendanceRepository.
func (a *attendanceRepository) BulkCreateAbsences(ctx context.Context, date time.Time, employeeIDs []string) (attendance.AbsenceInsertResult, error) {
	result := attendance.AbsenceInsertResult{Failed: map[string]error{}}
	if len(employeeIDs) == 0 {
		return result, nil
	}

	q := GetQuerier(ctx, a.db)

	batch := &pgx.Batch{}
	ids := make([]string, len(employeeIDs))
	for i, employeeID := range employeeIDs {
		ids[i] = uuid.Must(uuid.NewV7()).String()
		batch.Queue(absenceInsertQuery, ids[i], employeeID, date, string(attendance.StatusAbsent))
	}

	br := q.SendBatch(ctx, batch)
	batchFailed := false
	for range employeeIDs {
		tag, err := br.Exec()
		if err != nil {
			batchFailed = true
			break
		}
		if tag.RowsAffected() == 1 {
			result.Inserted++
		} else {
			result.Skipped++
		}
	}
	closeErr := br.Close()
	if !batchFailed && closeErr == nil {
		return result, nil
	}

	// A failed statement aborts the whole batch, so replay row by row to
	// isolate the failing employees. The insert is idempotent.
	result = attendance.AbsenceInsertResult{Failed: map[string]error{}}
	for i, employeeID := range employeeIDs {
		tag, err := q.Exec(ctx, absenceInsertQuery, ids[i], employeeID, date, string(attendance.StatusAbsent))
		if err != nil {
			result.Failed[employeeID] = err
			continue
		}
		if tag.RowsAffected() == 1 {
			result.Inserted++
		} else {
			result.Skipped++
		}
	}

	return result, nil
}
