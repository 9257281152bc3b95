package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/opsarif/ngo-erp/internal"
	"github.com/opsarif/ngo-erp/internal/auth"
)

// Export is a CSV-ready dataset: header row plus data rows.
type Export struct {
	Filename string
	Headers  []string
	Rows     [][]string
}

var exportScopeGroups = map[string]map[string]bool{
	"donors":           fundraisingScopes,
	"donations":        fundraisingScopes,
	"donor-report":     fundraisingScopes,
	"projects":         programScopes,
	"beneficiaries":    programScopes,
	"project-outcomes": programScopes,
	"volunteers":       hrScopes,
}

// ExportDataset assembles one named dataset. Managers are limited to
// the datasets their department charter covers; requests and activity
// are filtered to their department instead.
func (s *Service) ExportDataset(actor *auth.User, dataset string, w Window) (*Export, error) {
	if !s.policy.CanViewReports(actor) {
		return nil, internal.NewForbiddenError("only admins and managers can export reports", internal.ErrCodeRoleDenied)
	}

	dataset = strings.ToLower(dataset)

	var managerDeptID *int64
	if actor.IsManager() {
		deptID, deptName, err := s.managerScope(actor)
		if err != nil {
			return nil, err
		}
		managerDeptID = deptID
		if scopes, gated := exportScopeGroups[dataset]; gated && !scopes[deptName] {
			return nil, internal.NewForbiddenError("dataset is not available to this department", internal.ErrCodeScopeViolation)
		}
	}

	switch dataset {
	case "donors":
		return s.exportDonors()
	case "donations":
		return s.exportDonations(w)
	case "projects":
		return s.exportProjects(w)
	case "beneficiaries":
		return s.exportBeneficiaries()
	case "volunteers":
		return s.exportVolunteers()
	case "requests":
		return s.exportRequests(managerDeptID)
	case "project-outcomes":
		return s.exportProjectOutcomes(w)
	case "donor-report":
		return s.exportDonorReport(w)
	case "activity":
		return s.exportActivity(managerDeptID)
	}
	return nil, internal.NewNotFoundError("unknown dataset", internal.ErrCodeRecordNotFound)
}

func (s *Service) exportDonors() (*Export, error) {
	donors, err := s.repo.DonorRows()
	if err != nil {
		return nil, err
	}
	rows := make([][]string, 0, len(donors))
	for _, d := range donors {
		rows = append(rows, []string{
			fmt.Sprintf("%d", d.ID), d.Name, fmtStr(d.Email), fmtStr(d.Phone),
			fmtStr(d.Address), d.CreatedAt.Format(time.RFC3339),
		})
	}
	return &Export{
		Filename: "donors.csv",
		Headers:  []string{"id", "name", "email", "phone", "address", "created_at"},
		Rows:     rows,
	}, nil
}

func (s *Service) exportDonations(w Window) (*Export, error) {
	donations, err := s.repo.DonationRows(w)
	if err != nil {
		return nil, err
	}
	rows := make([][]string, 0, len(donations))
	for _, d := range donations {
		recurring := "no"
		if d.Recurring {
			recurring = "yes"
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", d.ID), fmt.Sprintf("%d", d.DonorID), d.DonorName,
			fmt.Sprintf("%d", d.Amount), d.Currency, d.Date.Format(time.RFC3339),
			fmtStr(d.Method), recurring, fmtStr(d.Note),
		})
	}
	return &Export{
		Filename: "donations.csv",
		Headers:  []string{"id", "donor_id", "donor_name", "amount", "currency", "date", "method", "recurring", "note"},
		Rows:     rows,
	}, nil
}

func (s *Service) exportProjects(w Window) (*Export, error) {
	projects, err := s.repo.ProjectRows(w)
	if err != nil {
		return nil, err
	}
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{
			fmt.Sprintf("%d", p.ID), p.Name, fmtStr(p.Description), fmtInt(p.Budget),
			fmtStr(p.Progress), fmtTime(p.StartDate), fmtTime(p.EndDate),
		})
	}
	return &Export{
		Filename: "projects.csv",
		Headers:  []string{"id", "name", "description", "budget", "progress", "start_date", "end_date"},
		Rows:     rows,
	}, nil
}

func (s *Service) exportBeneficiaries() (*Export, error) {
	beneficiaries, err := s.repo.BeneficiaryRows()
	if err != nil {
		return nil, err
	}
	rows := make([][]string, 0, len(beneficiaries))
	for _, b := range beneficiaries {
		rows = append(rows, []string{
			fmt.Sprintf("%d", b.ID), b.Name, fmtStr(b.Contact), fmtStr(b.Notes),
			fmtInt(b.ProjectID), fmtStr(b.ProjectName),
		})
	}
	return &Export{
		Filename: "beneficiaries.csv",
		Headers:  []string{"id", "name", "contact", "notes", "project_id", "project_name"},
		Rows:     rows,
	}, nil
}

func (s *Service) exportVolunteers() (*Export, error) {
	volunteers, err := s.repo.VolunteerRows()
	if err != nil {
		return nil, err
	}
	rows := make([][]string, 0, len(volunteers))
	for _, v := range volunteers {
		status := "inactive"
		if v.Active {
			status = "active"
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", v.ID), v.Name, fmtStr(v.Email), fmtStr(v.Phone),
			fmtStr(v.Skills), fmt.Sprintf("%d", v.Hours), status, v.CreatedAt.Format(time.RFC3339),
		})
	}
	return &Export{
		Filename: "volunteers.csv",
		Headers:  []string{"id", "name", "email", "phone", "skills", "hours", "status", "created_at"},
		Rows:     rows,
	}, nil
}

func (s *Service) exportRequests(departmentID *int64) (*Export, error) {
	requests, err := s.repo.RequestRows(departmentID)
	if err != nil {
		return nil, err
	}
	rows := make([][]string, 0, len(requests))
	for _, r := range requests {
		rows = append(rows, []string{
			fmt.Sprintf("%d", r.ID), r.Type, r.Status,
			fmt.Sprintf("%d", r.RequesterID), fmtInt(r.DepartmentID),
			r.CreatedAt.Format(time.RFC3339), fmtTime(r.ResolvedAt), fmtStr(r.Payload),
		})
	}
	return &Export{
		Filename: "requests.csv",
		Headers:  []string{"id", "type", "status", "requester_id", "department_id", "created_at", "resolved_at", "payload"},
		Rows:     rows,
	}, nil
}

func (s *Service) exportProjectOutcomes(w Window) (*Export, error) {
	projects, err := s.repo.ProjectRows(w)
	if err != nil {
		return nil, err
	}
	beneficiaries, err := s.repo.BeneficiaryRows()
	if err != nil {
		return nil, err
	}
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		count := 0
		for _, b := range beneficiaries {
			if b.ProjectID != nil && *b.ProjectID == p.ID {
				count++
			}
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", p.ID), p.Name, fmtTime(p.StartDate), fmtTime(p.EndDate),
			fmt.Sprintf("%d", count),
		})
	}
	return &Export{
		Filename: "project_outcomes.csv",
		Headers:  []string{"project_id", "project_name", "start_date", "end_date", "beneficiaries"},
		Rows:     rows,
	}, nil
}

func (s *Service) exportDonorReport(w Window) (*Export, error) {
	donations, err := s.repo.DonationRows(w)
	if err != nil {
		return nil, err
	}
	totals := map[int64]*DonorTotal{}
	for _, d := range donations {
		if t, ok := totals[d.DonorID]; ok {
			t.TotalAmount += d.Amount
		} else {
			totals[d.DonorID] = &DonorTotal{
				DonorID:     d.DonorID,
				DonorName:   d.DonorName,
				TotalAmount: d.Amount,
			}
		}
	}
	sorted := make([]*DonorTotal, 0, len(totals))
	for _, t := range totals {
		sorted = append(sorted, t)
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].TotalAmount > sorted[j].TotalAmount
	})
	rows := make([][]string, 0, len(sorted))
	for _, t := range sorted {
		rows = append(rows, []string{
			fmt.Sprintf("%d", t.DonorID), t.DonorName, fmt.Sprintf("%d", t.TotalAmount),
		})
	}
	return &Export{
		Filename: "donor_report.csv",
		Headers:  []string{"donor_id", "donor_name", "amount_total"},
		Rows:     rows,
	}, nil
}

func (s *Service) exportActivity(departmentID *int64) (*Export, error) {
	logs, err := s.repo.ActivityRows(departmentID)
	if err != nil {
		return nil, err
	}
	rows := make([][]string, 0, len(logs))
	for _, l := range logs {
		rows = append(rows, []string{
			fmt.Sprintf("%d", l.ID), l.CreatedAt.Format(time.RFC3339),
			fmtInt(l.ActorID), fmtStr(l.ActorName), l.Action, fmtStr(l.Detail),
		})
	}
	return &Export{
		Filename: "activity_log.csv",
		Headers:  []string{"id", "created_at", "actor_id", "actor_name", "action", "detail"},
		Rows:     rows,
	}, nil
}
