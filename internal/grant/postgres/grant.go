package postgres

import (
	"gorm.io/gorm"

	"github.com/opsarif/ngo-erp/internal/grant"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(g *grant.AccessGrant) error {
	return r.db.Create(g).Error
}

func (r *Repository) GetByID(id int64) (*grant.AccessGrant, error) {
	var g grant.AccessGrant
	if err := r.db.First(&g, id).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *Repository) GetAll() ([]*grant.AccessGrant, error) {
	var grants []*grant.AccessGrant
	if err := r.db.Order("created_at DESC").Find(&grants).Error; err != nil {
		return nil, err
	}
	return grants, nil
}

func (r *Repository) GetByDepartment(departmentID int64) ([]*grant.AccessGrant, error) {
	var grants []*grant.AccessGrant
	err := r.db.
		Where("department_id = ?", departmentID).
		Order("created_at DESC").
		Find(&grants).Error
	if err != nil {
		return nil, err
	}
	return grants, nil
}

func (r *Repository) GetByUser(userID int64) ([]*grant.AccessGrant, error) {
	var grants []*grant.AccessGrant
	err := r.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&grants).Error
	if err != nil {
		return nil, err
	}
	return grants, nil
}

func (r *Repository) Delete(id int64) error {
	return r.db.Delete(&grant.AccessGrant{}, id).Error
}
