package postgres

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/opsarif/ngo-erp/internal/report"
)

// Repository answers the read-side aggregation queries with raw SQL.
// Every call hits the store fresh; nothing is cached.
type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) DepartmentName(id int64) (string, error) {
	var name string
	err := r.db.Get(&name, r.db.Rebind("SELECT name FROM departments WHERE id = ?"), id)
	return name, err
}

func (r *Repository) DepartmentIDByName(name string) (*int64, error) {
	var id int64
	err := r.db.Get(&id, r.db.Rebind("SELECT id FROM departments WHERE name = ?"), name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func (r *Repository) CountDepartments() (int64, error) {
	var count int64
	err := r.db.Get(&count, "SELECT COUNT(*) FROM departments")
	return count, err
}

func (r *Repository) CountUsers(departmentID *int64) (int64, int64, error) {
	var row struct {
		Total  int64 `db:"total"`
		Active int64 `db:"active"`
	}
	query := "SELECT COUNT(*) AS total, COALESCE(SUM(CASE WHEN is_active THEN 1 ELSE 0 END), 0) AS active FROM users"
	args := []interface{}{}
	if departmentID != nil {
		query += " WHERE department_id = ?"
		args = append(args, *departmentID)
	}
	if err := r.db.Get(&row, r.db.Rebind(query), args...); err != nil {
		return 0, 0, err
	}
	return row.Total, row.Active, nil
}

func (r *Repository) CountTasks(departmentID *int64, now time.Time) (int64, int64, int64, error) {
	var row struct {
		Total     int64 `db:"total"`
		Completed int64 `db:"completed"`
		Overdue   int64 `db:"overdue"`
	}
	query := `SELECT COUNT(*) AS total,
		COALESCE(SUM(CASE WHEN status = 'done' THEN 1 ELSE 0 END), 0) AS completed,
		COALESCE(SUM(CASE WHEN status <> 'done' AND end_date < ? THEN 1 ELSE 0 END), 0) AS overdue
		FROM tasks`
	args := []interface{}{now}
	if departmentID != nil {
		query += " WHERE department_id = ?"
		args = append(args, *departmentID)
	}
	if err := r.db.Get(&row, r.db.Rebind(query), args...); err != nil {
		return 0, 0, 0, err
	}
	return row.Total, row.Completed, row.Overdue, nil
}

func (r *Repository) CountPendingRequests(departmentID *int64) (int64, error) {
	var count int64
	query := "SELECT COUNT(*) FROM request_tickets WHERE status = 'pending'"
	args := []interface{}{}
	if departmentID != nil {
		query += " AND department_id = ?"
		args = append(args, *departmentID)
	}
	err := r.db.Get(&count, r.db.Rebind(query), args...)
	return count, err
}

func (r *Repository) CountUpcomingEvents(departmentID *int64, now time.Time) (int64, error) {
	var count int64
	query := "SELECT COUNT(*) FROM events WHERE scheduled_at >= ?"
	args := []interface{}{now}
	if departmentID != nil {
		query += " AND department_id = ?"
		args = append(args, *departmentID)
	}
	err := r.db.Get(&count, r.db.Rebind(query), args...)
	return count, err
}

func (r *Repository) CountDonors() (int64, error) {
	var count int64
	err := r.db.Get(&count, "SELECT COUNT(*) FROM donors")
	return count, err
}

func (r *Repository) CountVolunteers() (int64, error) {
	var count int64
	err := r.db.Get(&count, "SELECT COUNT(*) FROM volunteers")
	return count, err
}

func (r *Repository) CountProjects() (int64, error) {
	var count int64
	err := r.db.Get(&count, "SELECT COUNT(*) FROM projects")
	return count, err
}

func (r *Repository) CountBeneficiaries() (int64, error) {
	var count int64
	err := r.db.Get(&count, "SELECT COUNT(*) FROM beneficiaries")
	return count, err
}

func (r *Repository) DonorRows() ([]report.DonorRow, error) {
	var rows []report.DonorRow
	err := r.db.Select(&rows,
		"SELECT id, name, email, phone, address, created_at FROM donors ORDER BY created_at ASC")
	return rows, err
}

func (r *Repository) DonationRows(w report.Window) ([]report.DonationRow, error) {
	query := `SELECT donations.id, donations.donor_id, donors.name AS donor_name,
		donations.amount, donations.currency, donations.date, donations.method,
		donations.recurring, donations.note
		FROM donations JOIN donors ON donors.id = donations.donor_id`
	where, args := windowClause("donations.date", w)
	query += where + " ORDER BY donations.date ASC"

	var rows []report.DonationRow
	err := r.db.Select(&rows, r.db.Rebind(query), args...)
	return rows, err
}

func (r *Repository) ProjectRows(w report.Window) ([]report.ProjectRow, error) {
	query := "SELECT id, name, description, budget, progress, start_date, end_date FROM projects"
	where, args := windowClause("start_date", w)
	query += where + " ORDER BY start_date ASC"

	var rows []report.ProjectRow
	err := r.db.Select(&rows, r.db.Rebind(query), args...)
	return rows, err
}

func (r *Repository) BeneficiaryRows() ([]report.BeneficiaryRow, error) {
	var rows []report.BeneficiaryRow
	err := r.db.Select(&rows,
		`SELECT beneficiaries.id, beneficiaries.name, beneficiaries.contact,
		beneficiaries.notes, beneficiaries.project_id, projects.name AS project_name
		FROM beneficiaries LEFT JOIN projects ON projects.id = beneficiaries.project_id
		ORDER BY beneficiaries.id ASC`)
	return rows, err
}

func (r *Repository) VolunteerRows() ([]report.VolunteerRow, error) {
	var rows []report.VolunteerRow
	err := r.db.Select(&rows,
		"SELECT id, name, email, phone, skills, hours, active, created_at FROM volunteers ORDER BY created_at ASC")
	return rows, err
}

func (r *Repository) RequestRows(departmentID *int64) ([]report.RequestRow, error) {
	query := "SELECT id, type, status, requester_id, department_id, created_at, resolved_at, payload FROM request_tickets"
	args := []interface{}{}
	if departmentID != nil {
		query += " WHERE department_id = ?"
		args = append(args, *departmentID)
	}
	query += " ORDER BY created_at DESC"

	var rows []report.RequestRow
	err := r.db.Select(&rows, r.db.Rebind(query), args...)
	return rows, err
}

func (r *Repository) ActivityRows(departmentID *int64) ([]report.ActivityRow, error) {
	query := `SELECT activity_logs.id, activity_logs.created_at, activity_logs.user_id AS actor_id,
		users.full_name AS actor_name, activity_logs.action, activity_logs.detail
		FROM activity_logs LEFT JOIN users ON users.id = activity_logs.user_id`
	args := []interface{}{}
	if departmentID != nil {
		query += " WHERE users.department_id = ?"
		args = append(args, *departmentID)
	}
	query += " ORDER BY activity_logs.created_at DESC"

	var rows []report.ActivityRow
	err := r.db.Select(&rows, r.db.Rebind(query), args...)
	return rows, err
}

func (r *Repository) PerformanceUsers(departmentID *int64) ([]report.PerformanceUserRow, error) {
	query := "SELECT id, full_name, role, department_id FROM users"
	args := []interface{}{}
	if departmentID != nil {
		query += " WHERE department_id = ?"
		args = append(args, *departmentID)
	}
	query += " ORDER BY id ASC"

	var rows []report.PerformanceUserRow
	err := r.db.Select(&rows, r.db.Rebind(query), args...)
	return rows, err
}

func (r *Repository) PerformanceLogs(userIDs []int64) ([]report.PerformanceLogRow, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(
		"SELECT user_id, score, created_at FROM performance_logs WHERE user_id IN (?) ORDER BY created_at DESC",
		userIDs)
	if err != nil {
		return nil, err
	}

	var rows []report.PerformanceLogRow
	err = r.db.Select(&rows, r.db.Rebind(query), args...)
	return rows, err
}

func (r *Repository) DepartmentTasks(departmentID int64) ([]report.DashboardTask, error) {
	var rows []report.DashboardTask
	err := r.db.Select(&rows, r.db.Rebind(
		`SELECT id, title, status, assignee_id, department_id, end_date, completed_at
		FROM tasks WHERE department_id = ? ORDER BY end_date ASC`), departmentID)
	return rows, err
}

func (r *Repository) UserTasks(userID int64) ([]report.DashboardTask, error) {
	var rows []report.DashboardTask
	err := r.db.Select(&rows, r.db.Rebind(
		`SELECT id, title, status, assignee_id, department_id, end_date, completed_at
		FROM tasks WHERE assignee_id = ? ORDER BY end_date ASC`), userID)
	return rows, err
}

func (r *Repository) SharedEvents() ([]report.DashboardEvent, error) {
	var rows []report.DashboardEvent
	err := r.db.Select(&rows,
		`SELECT id, title, description, department_id, scheduled_at
		FROM events WHERE department_id IS NULL ORDER BY scheduled_at ASC`)
	return rows, err
}

func (r *Repository) DepartmentEvents(departmentID int64) ([]report.DashboardEvent, error) {
	var rows []report.DashboardEvent
	err := r.db.Select(&rows, r.db.Rebind(
		`SELECT id, title, description, department_id, scheduled_at
		FROM events WHERE department_id = ? ORDER BY scheduled_at ASC`), departmentID)
	return rows, err
}

func (r *Repository) VisibleEvents(departmentID *int64) ([]report.DashboardEvent, error) {
	query := "SELECT id, title, description, department_id, scheduled_at FROM events WHERE department_id IS NULL"
	args := []interface{}{}
	if departmentID != nil {
		query = `SELECT id, title, description, department_id, scheduled_at
			FROM events WHERE department_id IS NULL OR department_id = ?`
		args = append(args, *departmentID)
	}
	query += " ORDER BY scheduled_at ASC"

	var rows []report.DashboardEvent
	err := r.db.Select(&rows, r.db.Rebind(query), args...)
	return rows, err
}

func windowClause(column string, w report.Window) (string, []interface{}) {
	clauses := ""
	args := []interface{}{}
	if w.Start != nil {
		clauses += " WHERE " + column + " >= ?"
		args = append(args, *w.Start)
	}
	if w.End != nil {
		if clauses == "" {
			clauses += " WHERE "
		} else {
			clauses += " AND "
		}
		clauses += column + " <= ?"
		args = append(args, *w.End)
	}
	return clauses, args
}
