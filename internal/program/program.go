package program

import (
	"time"
)

// Project is a funded program of work with an optional budget and
// schedule.
type Project struct {
	ID          int64      `json:"id" gorm:"primaryKey"`
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
	Budget      *int64     `json:"budget,omitempty"`
	Progress    *string    `json:"progress,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (Project) TableName() string {
	return "projects"
}

// Beneficiary is a person or group served by a project.
type Beneficiary struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name"`
	Contact   *string   `json:"contact,omitempty"`
	Notes     *string   `json:"notes,omitempty"`
	ProjectID *int64    `json:"project_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Beneficiary) TableName() string {
	return "beneficiaries"
}

type RepositoryAPI interface {
	CreateProject(p *Project) error
	GetProjectByID(id int64) (*Project, error)
	GetProjects() ([]*Project, error)
	UpdateProject(p *Project) error
	DeleteProject(id int64) error
	CountBeneficiaries(projectID int64) (int64, error)

	CreateBeneficiary(b *Beneficiary) error
	GetBeneficiaryByID(id int64) (*Beneficiary, error)
	GetBeneficiaries() ([]*Beneficiary, error)
	UpdateBeneficiary(b *Beneficiary) error
	DeleteBeneficiary(id int64) error
}
