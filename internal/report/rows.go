package report

import (
	"time"
)

// Flat row shapes read straight off the store for aggregation and CSV
// export. All aggregation happens in Go so the SQL stays portable.

type DonorRow struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Email     *string   `db:"email"`
	Phone     *string   `db:"phone"`
	Address   *string   `db:"address"`
	CreatedAt time.Time `db:"created_at"`
}

type DonationRow struct {
	ID        int64     `db:"id"`
	DonorID   int64     `db:"donor_id"`
	DonorName string    `db:"donor_name"`
	Amount    int64     `db:"amount"`
	Currency  string    `db:"currency"`
	Date      time.Time `db:"date"`
	Method    *string   `db:"method"`
	Recurring bool      `db:"recurring"`
	Note      *string   `db:"note"`
}

type ProjectRow struct {
	ID          int64      `db:"id"`
	Name        string     `db:"name"`
	Description *string    `db:"description"`
	Budget      *int64     `db:"budget"`
	Progress    *string    `db:"progress"`
	StartDate   *time.Time `db:"start_date"`
	EndDate     *time.Time `db:"end_date"`
}

type BeneficiaryRow struct {
	ID          int64   `db:"id"`
	Name        string  `db:"name"`
	Contact     *string `db:"contact"`
	Notes       *string `db:"notes"`
	ProjectID   *int64  `db:"project_id"`
	ProjectName *string `db:"project_name"`
}

type VolunteerRow struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Email     *string   `db:"email"`
	Phone     *string   `db:"phone"`
	Skills    *string   `db:"skills"`
	Hours     int64     `db:"hours"`
	Active    bool      `db:"active"`
	CreatedAt time.Time `db:"created_at"`
}

type RequestRow struct {
	ID           int64      `db:"id"`
	Type         string     `db:"type"`
	Status       string     `db:"status"`
	RequesterID  int64      `db:"requester_id"`
	DepartmentID *int64     `db:"department_id"`
	CreatedAt    time.Time  `db:"created_at"`
	ResolvedAt   *time.Time `db:"resolved_at"`
	Payload      *string    `db:"payload"`
}

type ActivityRow struct {
	ID        int64     `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	ActorID   *int64    `db:"actor_id"`
	ActorName *string   `db:"actor_name"`
	Action    string    `db:"action"`
	Detail    *string   `db:"detail"`
}

type PerformanceUserRow struct {
	ID           int64  `db:"id"`
	FullName     string `db:"full_name"`
	Role         string `db:"role"`
	DepartmentID *int64 `db:"department_id"`
}

type PerformanceLogRow struct {
	UserID    int64     `db:"user_id"`
	Score     int       `db:"score"`
	CreatedAt time.Time `db:"created_at"`
}

type RepositoryAPI interface {
	DepartmentName(id int64) (string, error)
	DepartmentIDByName(name string) (*int64, error)
	CountDepartments() (int64, error)
	CountUsers(departmentID *int64) (total, active int64, err error)
	CountTasks(departmentID *int64, now time.Time) (total, completed, overdue int64, err error)
	CountPendingRequests(departmentID *int64) (int64, error)
	CountUpcomingEvents(departmentID *int64, now time.Time) (int64, error)
	CountDonors() (int64, error)
	CountVolunteers() (int64, error)
	CountProjects() (int64, error)
	CountBeneficiaries() (int64, error)

	DonorRows() ([]DonorRow, error)
	DonationRows(w Window) ([]DonationRow, error)
	ProjectRows(w Window) ([]ProjectRow, error)
	BeneficiaryRows() ([]BeneficiaryRow, error)
	VolunteerRows() ([]VolunteerRow, error)
	RequestRows(departmentID *int64) ([]RequestRow, error)
	ActivityRows(departmentID *int64) ([]ActivityRow, error)
	PerformanceUsers(departmentID *int64) ([]PerformanceUserRow, error)
	PerformanceLogs(userIDs []int64) ([]PerformanceLogRow, error)

	DepartmentTasks(departmentID int64) ([]DashboardTask, error)
	UserTasks(userID int64) ([]DashboardTask, error)
	SharedEvents() ([]DashboardEvent, error)
	DepartmentEvents(departmentID int64) ([]DashboardEvent, error)
	VisibleEvents(departmentID *int64) ([]DashboardEvent, error)
}
