package report

import (
	"time"
)

// Department names that unlock cross-cutting datasets for managers.
// Managers outside these departments get zeroed numbers rather than an
// error on the aggregate endpoints, and a 403 on exports.
var (
	fundraisingScopes = map[string]bool{
		"Partnerships & Fundraising": true,
		"Finance & Grants":           true,
	}
	programScopes = map[string]bool{
		"Programs":                true,
		"Monitoring & Evaluation": true,
	}
	hrScopes = map[string]bool{
		"Human Resources": true,
	}
)

// Window is an optional [start, end] filter applied to the dataset's
// relevant date column.
type Window struct {
	Start *time.Time
	End   *time.Time
}

// Overview is the headline numbers block.
type Overview struct {
	Departments        int64 `json:"departments"`
	UsersTotal         int64 `json:"users_total"`
	UsersActive        int64 `json:"users_active"`
	TasksTotal         int64 `json:"tasks_total"`
	TasksCompleted     int64 `json:"tasks_completed"`
	TasksOverdue       int64 `json:"tasks_overdue"`
	RequestsPending    int64 `json:"requests_pending"`
	EventsUpcoming     int64 `json:"events_upcoming"`
	DonorsTotal        int64 `json:"donors_total"`
	DonationsTotal     int64 `json:"donations_total"`
	DonationsAmount    int64 `json:"donations_amount"`
	VolunteersTotal    int64 `json:"volunteers_total"`
	ProjectsTotal      int64 `json:"projects_total"`
	BeneficiariesTotal int64 `json:"beneficiaries_total"`
}

type ProjectBeneficiaries struct {
	ProjectID     int64  `json:"project_id" db:"project_id"`
	ProjectName   string `json:"project_name" db:"project_name"`
	Beneficiaries int64  `json:"beneficiaries" db:"beneficiaries"`
}

type ProgramsReport struct {
	ProjectsTotal          int64                  `json:"projects_total"`
	BeneficiariesTotal     int64                  `json:"beneficiaries_total"`
	BeneficiariesByProject []ProjectBeneficiaries `json:"beneficiaries_by_project"`
	ProgramsTasksDone      int64                  `json:"programs_tasks_done"`
	ProgramsTasksPending   int64                  `json:"programs_tasks_pending"`
	UpcomingProgramEvents  int64                  `json:"upcoming_program_events"`
}

type DonorTotal struct {
	DonorID     int64  `json:"donor_id" db:"donor_id"`
	DonorName   string `json:"donor_name" db:"donor_name"`
	TotalAmount int64  `json:"total_amount" db:"total_amount"`
}

type MonthTotal struct {
	Month  string `json:"month" db:"month"`
	Amount int64  `json:"amount" db:"amount"`
}

type FundraisingReport struct {
	DonorsTotal        int64        `json:"donors_total"`
	DonationsTotal     int64        `json:"donations_total"`
	DonationsAmount    int64        `json:"donations_amount"`
	RecurringDonations int64        `json:"recurring_donations"`
	DonationsByDonor   []DonorTotal `json:"donations_by_donor"`
	DonationsByMonth   []MonthTotal `json:"donations_by_month"`
}

type RecentScore struct {
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

type PerformanceSummary struct {
	UserID       int64         `json:"user_id"`
	UserName     string        `json:"user_name"`
	Role         string        `json:"role"`
	DepartmentID *int64        `json:"department_id,omitempty"`
	AvgScore     float64       `json:"avg_score"`
	TotalLogs    int64         `json:"total_logs"`
	LastScore    *int          `json:"last_score,omitempty"`
	LastLoggedAt *time.Time    `json:"last_logged_at,omitempty"`
	RecentScores []RecentScore `json:"recent_scores"`
}

// DashboardTask and DashboardEvent are the light row shapes the
// dashboard endpoints return.
type DashboardTask struct {
	ID           int64      `json:"id" db:"id"`
	Title        string     `json:"title" db:"title"`
	Status       string     `json:"status" db:"status"`
	AssigneeID   int64      `json:"assigned_to_id" db:"assignee_id"`
	DepartmentID *int64     `json:"department_id,omitempty" db:"department_id"`
	EndDate      time.Time  `json:"end_date" db:"end_date"`
	CompletedAt  *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}

type DashboardEvent struct {
	ID           int64     `json:"id" db:"id"`
	Title        string    `json:"title" db:"title"`
	Description  string    `json:"description" db:"description"`
	DepartmentID *int64    `json:"department_id,omitempty" db:"department_id"`
	ScheduledAt  time.Time `json:"scheduled_at" db:"scheduled_at"`
}
