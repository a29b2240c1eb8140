package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/editrequest"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const editRequestColumns = `
	r.id, r.employee_id, r.date, r.punch_in, r.punch_out, r.break_intervals,
	r.total_work_minutes, r.total_break_minutes, r.status,
	r.reviewed_by, r.reviewed_at, r.review_reason,
	r.created_at, r.updated_at`

type editRequestRepository struct {
	db *database.DB
}

func NewEditRequestRepository(db *database.DB) editrequest.EditRequestRepository {
	return &editRequestRepository{db: db}
}

func scanEditRequest(row pgx.Row, extra ...any) (editrequest.EditRequest, error) {
	var req editrequest.EditRequest
	var status string
	dest := []any{
		&req.ID, &req.EmployeeID, &req.Date, &req.PunchIn, &req.PunchOut, &req.BreakIntervals,
		&req.TotalWorkMinutes, &req.TotalBreakMinutes, &status,
		&req.AdminAction.ReviewedBy, &req.AdminAction.ReviewedAt, &req.AdminAction.Reason,
		&req.CreatedAt, &req.UpdatedAt,
	}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return editrequest.EditRequest{}, err
	}
	req.Status = editrequest.Status(status)
	return req, nil
}

// Create implements editrequest.EditRequestRepository.
func (e *editRequestRepository) Create(ctx context.Context, req editrequest.EditRequest) (editrequest.EditRequest, error) {
	q := GetQuerier(ctx, e.db)

	if req.ID == "" {
		req.ID = uuid.Must(uuid.NewV7()).String()
	}
	if req.Status == "" {
		req.Status = editrequest.StatusPending
	}

	query := `
		INSERT INTO attendance_edit_requests (
			id, employee_id, date, punch_in, punch_out, break_intervals,
			total_work_minutes, total_break_minutes, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		req.ID,
		req.EmployeeID,
		req.Date,
		req.PunchIn,
		req.PunchOut,
		req.BreakIntervals,
		req.TotalWorkMinutes,
		req.TotalBreakMinutes,
		string(req.Status),
	).Scan(&req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return editrequest.EditRequest{}, fmt.Errorf("failed to create edit request: %w", err)
	}

	return req, nil
}

// GetByID implements editrequest.EditRequestRepository.
func (e *editRequestRepository) GetByID(ctx context.Context, id string) (editrequest.EditRequest, error) {
	return e.getByID(ctx, id, false)
}

// GetByIDForUpdate implements editrequest.EditRequestRepository.
func (e *editRequestRepository) GetByIDForUpdate(ctx context.Context, id string) (editrequest.EditRequest, error) {
	return e.getByID(ctx, id, true)
}

func (e *editRequestRepository) getByID(ctx context.Context, id string, forUpdate bool) (editrequest.EditRequest, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + editRequestColumns + `, emp.username, emp.full_name, emp.employee_code
		FROM attendance_edit_requests r
		LEFT JOIN employees emp ON emp.id = r.employee_id
		WHERE r.id = $1`
	if forUpdate {
		query += ` FOR UPDATE OF r`
	}

	var username, name, code *string
	req, err := scanEditRequest(q.QueryRow(ctx, query, id), &username, &name, &code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return editrequest.EditRequest{}, editrequest.ErrEditRequestNotFound
		}
		return editrequest.EditRequest{}, fmt.Errorf("failed to get edit request: %w", err)
	}
	req.Username, req.EmployeeName, req.EmployeeCode = username, name, code
	return req, nil
}

// List implements editrequest.EditRequestRepository.
func (e *editRequestRepository) List(ctx context.Context, filter editrequest.EditRequestFilter) ([]editrequest.EditRequest, int64, error) {
	q := GetQuerier(ctx, e.db)

	w := &whereBuilder{}
	if filter.Status != nil && *filter.Status != "" {
		w.add("r.status = $%d", *filter.Status)
	}
	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		w.add("r.employee_id = $%d", *filter.EmployeeID)
	}
	if filter.Date != nil && *filter.Date != "" {
		w.add("r.date = $%d", *filter.Date)
	}

	countQuery := `SELECT COUNT(*) FROM attendance_edit_requests r WHERE ` + w.sql()
	var total int64
	if err := q.QueryRow(ctx, countQuery, w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count edit requests: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	args := append(append([]any{}, w.args...), filter.Limit, offset)
	selectQuery := fmt.Sprintf(`
		SELECT %s, emp.username, emp.full_name, emp.employee_code
		FROM attendance_edit_requests r
		LEFT JOIN employees emp ON emp.id = r.employee_id
		WHERE %s
		ORDER BY r.created_at ASC, r.id ASC
		LIMIT $%d OFFSET $%d
	`, editRequestColumns, w.sql(), len(w.args)+1, len(w.args)+2)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list edit requests: %w", err)
	}
	defer rows.Close()

	var result []editrequest.EditRequest
	for rows.Next() {
		var username, name, code *string
		req, err := scanEditRequest(rows, &username, &name, &code)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan edit request: %w", err)
		}
		req.Username, req.EmployeeName, req.EmployeeCode = username, name, code
		result = append(result, req)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate edit requests: %w", err)
	}

	return result, total, nil
}

// MarkReviewed implements editrequest.EditRequestRepository.
func (e *editRequestRepository) MarkReviewed(ctx context.Context, id string, status editrequest.Status, action editrequest.AdminAction) error {
	q := GetQuerier(ctx, e.db)

	query := `
		UPDATE attendance_edit_requests SET
			status = $1,
			reviewed_by = $2,
			reviewed_at = $3,
			review_reason = $4,
			updated_at = NOW()
		WHERE id = $5 AND status = 'pending'
	`

	tag, err := q.Exec(ctx, query, string(status), action.ReviewedBy, action.ReviewedAt, action.Reason, id)
	if err != nil {
		return fmt.Errorf("failed to mark edit request %s: %w", status, err)
	}
	if tag.RowsAffected() == 0 {
		return editrequest.ErrEditRequestAlreadyProcessed
	}
	return nil
}
