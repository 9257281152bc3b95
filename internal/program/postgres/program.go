package postgres

import (
	"gorm.io/gorm"

	"github.com/opsarif/ngo-erp/internal/program"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateProject(p *program.Project) error {
	return r.db.Create(p).Error
}

func (r *Repository) GetProjectByID(id int64) (*program.Project, error) {
	var project program.Project
	if err := r.db.First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *Repository) GetProjects() ([]*program.Project, error) {
	var projects []*program.Project
	if err := r.db.Order("created_at DESC").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *Repository) UpdateProject(p *program.Project) error {
	return r.db.Save(p).Error
}

func (r *Repository) DeleteProject(id int64) error {
	return r.db.Delete(&program.Project{}, id).Error
}

func (r *Repository) CountBeneficiaries(projectID int64) (int64, error) {
	var count int64
	err := r.db.Model(&program.Beneficiary{}).
		Where("project_id = ?", projectID).
		Count(&count).Error
	return count, err
}

func (r *Repository) CreateBeneficiary(b *program.Beneficiary) error {
	return r.db.Create(b).Error
}

func (r *Repository) GetBeneficiaryByID(id int64) (*program.Beneficiary, error) {
	var beneficiary program.Beneficiary
	if err := r.db.First(&beneficiary, id).Error; err != nil {
		return nil, err
	}
	return &beneficiary, nil
}

func (r *Repository) GetBeneficiaries() ([]*program.Beneficiary, error) {
	var beneficiaries []*program.Beneficiary
	if err := r.db.Order("name ASC").Find(&beneficiaries).Error; err != nil {
		return nil, err
	}
	return beneficiaries, nil
}

func (r *Repository) UpdateBeneficiary(b *program.Beneficiary) error {
	return r.db.Save(b).Error
}

func (r *Repository) DeleteBeneficiary(id int64) error {
	return r.db.Delete(&program.Beneficiary{}, id).Error
}
