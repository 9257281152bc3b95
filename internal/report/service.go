package report

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/opsarif/ngo-erp/internal"
	"github.com/opsarif/ngo-erp/internal/auth"
)

// Service computes the read-side aggregations. Managers get numbers
// scoped to their department; the cross-cutting datasets additionally
// gate on the department's charter (fundraising, programs, HR).
type Service struct {
	repo   RepositoryAPI
	policy *auth.Policy
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, policy *auth.Policy, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		policy: policy,
		logger: logger,
	}
}

func (s *Service) managerScope(actor *auth.User) (deptID *int64, deptName string, err error) {
	if !actor.IsManager() {
		return nil, "", nil
	}
	if actor.DepartmentID == nil {
		return nil, "", nil
	}
	name, err := s.repo.DepartmentName(*actor.DepartmentID)
	if err != nil {
		return nil, "", err
	}
	return actor.DepartmentID, name, nil
}

func (s *Service) Overview(actor *auth.User) (*Overview, error) {
	if !s.policy.CanViewReports(actor) {
		return nil, internal.NewForbiddenError("only admins and managers can view reports", internal.ErrCodeRoleDenied)
	}

	now := time.Now()
	out := &Overview{}

	if actor.IsManager() {
		if actor.DepartmentID == nil {
			return out, nil
		}
		deptID, deptName, err := s.managerScope(actor)
		if err != nil {
			return nil, err
		}
		out.Departments = 1
		if out.UsersTotal, out.UsersActive, err = s.repo.CountUsers(deptID); err != nil {
			return nil, err
		}
		if out.TasksTotal, out.TasksCompleted, out.TasksOverdue, err = s.repo.CountTasks(deptID, now); err != nil {
			return nil, err
		}
		if out.RequestsPending, err = s.repo.CountPendingRequests(deptID); err != nil {
			return nil, err
		}
		if out.EventsUpcoming, err = s.repo.CountUpcomingEvents(deptID, now); err != nil {
			return nil, err
		}
		if fundraisingScopes[deptName] {
			if out.DonorsTotal, err = s.repo.CountDonors(); err != nil {
				return nil, err
			}
			donations, err := s.repo.DonationRows(Window{})
			if err != nil {
				return nil, err
			}
			out.DonationsTotal = int64(len(donations))
			for _, d := range donations {
				out.DonationsAmount += d.Amount
			}
		}
		if hrScopes[deptName] {
			if out.VolunteersTotal, err = s.repo.CountVolunteers(); err != nil {
				return nil, err
			}
		}
		if programScopes[deptName] {
			if out.ProjectsTotal, err = s.repo.CountProjects(); err != nil {
				return nil, err
			}
			if out.BeneficiariesTotal, err = s.repo.CountBeneficiaries(); err != nil {
				return nil, err
			}
		}
		return out, nil
	}

	var err error
	if out.Departments, err = s.repo.CountDepartments(); err != nil {
		return nil, err
	}
	if out.UsersTotal, out.UsersActive, err = s.repo.CountUsers(nil); err != nil {
		return nil, err
	}
	if out.TasksTotal, out.TasksCompleted, out.TasksOverdue, err = s.repo.CountTasks(nil, now); err != nil {
		return nil, err
	}
	if out.RequestsPending, err = s.repo.CountPendingRequests(nil); err != nil {
		return nil, err
	}
	if out.EventsUpcoming, err = s.repo.CountUpcomingEvents(nil, now); err != nil {
		return nil, err
	}
	if out.DonorsTotal, err = s.repo.CountDonors(); err != nil {
		return nil, err
	}
	donations, err := s.repo.DonationRows(Window{})
	if err != nil {
		return nil, err
	}
	out.DonationsTotal = int64(len(donations))
	for _, d := range donations {
		out.DonationsAmount += d.Amount
	}
	if out.VolunteersTotal, err = s.repo.CountVolunteers(); err != nil {
		return nil, err
	}
	if out.ProjectsTotal, err = s.repo.CountProjects(); err != nil {
		return nil, err
	}
	if out.BeneficiariesTotal, err = s.repo.CountBeneficiaries(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) Programs(actor *auth.User, w Window) (*ProgramsReport, error) {
	if !s.policy.CanViewReports(actor) {
		return nil, internal.NewForbiddenError("only admins and managers can view reports", internal.ErrCodeRoleDenied)
	}

	if actor.IsManager() {
		if actor.DepartmentID == nil {
			return nil, internal.NewForbiddenError("a department is required for program reports", internal.ErrCodeScopeViolation)
		}
		_, deptName, err := s.managerScope(actor)
		if err != nil {
			return nil, err
		}
		if !programScopes[deptName] {
			return &ProgramsReport{BeneficiariesByProject: []ProjectBeneficiaries{}}, nil
		}
	}

	projects, err := s.repo.ProjectRows(w)
	if err != nil {
		return nil, err
	}
	beneficiaries, err := s.repo.BeneficiaryRows()
	if err != nil {
		return nil, err
	}

	byProject := make([]ProjectBeneficiaries, 0, len(projects))
	projectIDs := make(map[int64]bool, len(projects))
	for _, p := range projects {
		projectIDs[p.ID] = true
		count := int64(0)
		for _, b := range beneficiaries {
			if b.ProjectID != nil && *b.ProjectID == p.ID {
				count++
			}
		}
		byProject = append(byProject, ProjectBeneficiaries{
			ProjectID:     p.ID,
			ProjectName:   p.Name,
			Beneficiaries: count,
		})
	}

	beneficiariesTotal := int64(len(beneficiaries))
	if w.Start != nil || w.End != nil {
		beneficiariesTotal = 0
		for _, b := range beneficiaries {
			if b.ProjectID != nil && projectIDs[*b.ProjectID] {
				beneficiariesTotal++
			}
		}
	}

	out := &ProgramsReport{
		ProjectsTotal:          int64(len(projects)),
		BeneficiariesTotal:     beneficiariesTotal,
		BeneficiariesByProject: byProject,
	}

	now := time.Now()
	programsDeptID, err := s.repo.DepartmentIDByName("Programs")
	if err != nil {
		return nil, err
	}
	if programsDeptID != nil {
		total, done, _, err := s.repo.CountTasks(programsDeptID, now)
		if err != nil {
			return nil, err
		}
		out.ProgramsTasksDone = done
		out.ProgramsTasksPending = total - done
		if out.UpcomingProgramEvents, err = s.repo.CountUpcomingEvents(programsDeptID, now); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *Service) Fundraising(actor *auth.User, w Window) (*FundraisingReport, error) {
	if !s.policy.CanViewReports(actor) {
		return nil, internal.NewForbiddenError("only admins and managers can view reports", internal.ErrCodeRoleDenied)
	}

	if actor.IsManager() {
		_, deptName, err := s.managerScope(actor)
		if err != nil {
			return nil, err
		}
		if !fundraisingScopes[deptName] {
			return &FundraisingReport{
				DonationsByDonor: []DonorTotal{},
				DonationsByMonth: []MonthTotal{},
			}, nil
		}
	}

	donations, err := s.repo.DonationRows(w)
	if err != nil {
		return nil, err
	}

	totalsByDonor := map[int64]*DonorTotal{}
	totalsByMonth := map[string]int64{}
	out := &FundraisingReport{
		DonationsTotal: int64(len(donations)),
	}
	for _, d := range donations {
		out.DonationsAmount += d.Amount
		if d.Recurring {
			out.RecurringDonations++
		}
		if t, ok := totalsByDonor[d.DonorID]; ok {
			t.TotalAmount += d.Amount
		} else {
			totalsByDonor[d.DonorID] = &DonorTotal{
				DonorID:     d.DonorID,
				DonorName:   d.DonorName,
				TotalAmount: d.Amount,
			}
		}
		month := d.Date.Format("2006-01")
		totalsByMonth[month] += d.Amount
	}

	if w.Start != nil || w.End != nil {
		out.DonorsTotal = int64(len(totalsByDonor))
	} else {
		if out.DonorsTotal, err = s.repo.CountDonors(); err != nil {
			return nil, err
		}
	}

	out.DonationsByDonor = make([]DonorTotal, 0, len(totalsByDonor))
	for _, t := range totalsByDonor {
		out.DonationsByDonor = append(out.DonationsByDonor, *t)
	}
	sort.Slice(out.DonationsByDonor, func(i, j int) bool {
		return out.DonationsByDonor[i].TotalAmount > out.DonationsByDonor[j].TotalAmount
	})

	out.DonationsByMonth = make([]MonthTotal, 0, len(totalsByMonth))
	for month, amount := range totalsByMonth {
		out.DonationsByMonth = append(out.DonationsByMonth, MonthTotal{Month: month, Amount: amount})
	}
	sort.Slice(out.DonationsByMonth, func(i, j int) bool {
		return out.DonationsByMonth[i].Month < out.DonationsByMonth[j].Month
	})

	return out, nil
}

func (s *Service) Performance(actor *auth.User) ([]PerformanceSummary, error) {
	if !s.policy.CanViewReports(actor) {
		return nil, internal.NewForbiddenError("only admins and managers can view reports", internal.ErrCodeRoleDenied)
	}

	var deptID *int64
	if actor.IsManager() {
		if actor.DepartmentID == nil {
			return []PerformanceSummary{}, nil
		}
		deptID = actor.DepartmentID
	}

	users, err := s.repo.PerformanceUsers(deptID)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return []PerformanceSummary{}, nil
	}

	userIDs := make([]int64, 0, len(users))
	for _, u := range users {
		userIDs = append(userIDs, u.ID)
	}
	logs, err := s.repo.PerformanceLogs(userIDs)
	if err != nil {
		return nil, err
	}

	logsByUser := map[int64][]PerformanceLogRow{}
	for _, l := range logs {
		logsByUser[l.UserID] = append(logsByUser[l.UserID], l)
	}

	summaries := make([]PerformanceSummary, 0, len(users))
	for _, u := range users {
		userLogs := logsByUser[u.ID]
		summary := PerformanceSummary{
			UserID:       u.ID,
			UserName:     u.FullName,
			Role:         u.Role,
			DepartmentID: u.DepartmentID,
			TotalLogs:    int64(len(userLogs)),
			RecentScores: []RecentScore{},
		}
		if len(userLogs) > 0 {
			sum := 0
			for _, l := range userLogs {
				sum += l.Score
			}
			summary.AvgScore = float64(sum) / float64(len(userLogs))
			last := userLogs[0]
			summary.LastScore = &last.Score
			summary.LastLoggedAt = &last.CreatedAt
			for i := 0; i < len(userLogs) && i < 5; i++ {
				summary.RecentScores = append(summary.RecentScores, RecentScore{
					Score:     userLogs[i].Score,
					CreatedAt: userLogs[i].CreatedAt,
				})
			}
		}
		summaries = append(summaries, summary)
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].AvgScore != summaries[j].AvgScore {
			return summaries[i].AvgScore > summaries[j].AvgScore
		}
		return summaries[i].TotalLogs > summaries[j].TotalLogs
	})
	return summaries, nil
}

// SharedDashboard lists the organization-wide notices for any user.
func (s *Service) SharedDashboard(actor *auth.User) (map[string]interface{}, error) {
	events, err := s.repo.SharedEvents()
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"user":   actor.FullName,
		"events": events,
	}, nil
}

// DepartmentDashboard lists the caller's department tasks and events.
func (s *Service) DepartmentDashboard(actor *auth.User) (map[string]interface{}, error) {
	if actor.DepartmentID == nil {
		return map[string]interface{}{
			"message": "user has no department",
			"tasks":   []DashboardTask{},
			"events":  []DashboardEvent{},
		}, nil
	}

	tasks, err := s.repo.DepartmentTasks(*actor.DepartmentID)
	if err != nil {
		return nil, err
	}
	events, err := s.repo.DepartmentEvents(*actor.DepartmentID)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"department_id": *actor.DepartmentID,
		"tasks":         tasks,
		"events":        events,
	}, nil
}

// MyDashboard lists the caller's assigned tasks plus department and
// shared events.
func (s *Service) MyDashboard(actor *auth.User) (map[string]interface{}, error) {
	tasks, err := s.repo.UserTasks(actor.ID)
	if err != nil {
		return nil, err
	}
	events, err := s.repo.VisibleEvents(actor.DepartmentID)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"user":   actor.FullName,
		"tasks":  tasks,
		"events": events,
	}, nil
}

func fmtInt(v *int64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%d", *v)
}

func fmtStr(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func fmtTime(v *time.Time) string {
	if v == nil {
		return ""
	}
	return v.Format(time.RFC3339)
}
