package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/report"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/database"
)

type reportRepository struct {
	db *database.DB
}

func NewReportRepository(db *database.DB) report.ReportRepository {
	return &reportRepository{db: db}
}

// GetAbsences implements report.ReportRepository.
func (r *reportRepository) GetAbsences(ctx context.Context, start, end time.Time, employeeID *string) ([]report.AbsenceRow, error) {
	q := GetQuerier(ctx, r.db)

	w := &whereBuilder{}
	w.add("a.status = $%d", string(attendance.StatusAbsent))
	w.add("a.date >= $%d", start)
	w.add("a.date <= $%d", end)
	if employeeID != nil {
		w.add("a.employee_id = $%d", *employeeID)
	}

	query := `
		SELECT e.id, e.employee_code, e.full_name, e.username, a.date
		FROM attendances a
		JOIN employees e ON e.id = a.employee_id
		WHERE ` + w.sql() + `
		ORDER BY e.employee_code ASC, a.date ASC
	`

	rows, err := q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query absences: %w", err)
	}
	defer rows.Close()

	var result []report.AbsenceRow
	for rows.Next() {
		var row report.AbsenceRow
		if err := rows.Scan(&row.EmployeeID, &row.EmployeeCode, &row.EmployeeName, &row.Username, &row.Date); err != nil {
			return nil, fmt.Errorf("failed to scan absence: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate absences: %w", err)
	}
	return result, nil
}
