package postgres

import (
	"time"

	"gorm.io/gorm"

	"github.com/opsarif/ngo-erp/internal/department"
)

// DepartmentRepository implements department.Repository using GORM
type DepartmentRepository struct {
	db *gorm.DB
}

func NewDepartmentRepository(db *gorm.DB) department.Repository {
	return &DepartmentRepository{db: db}
}

func (r *DepartmentRepository) Create(dept *department.Department) error {
	return r.db.Create(dept).Error
}

func (r *DepartmentRepository) GetByID(id int64) (*department.Department, error) {
	var dept department.Department
	if err := r.db.Where("id = ?", id).First(&dept).Error; err != nil {
		return nil, err
	}
	return &dept, nil
}

func (r *DepartmentRepository) GetByName(name string) (*department.Department, error) {
	var dept department.Department
	if err := r.db.Where("name = ?", name).First(&dept).Error; err != nil {
		return nil, err
	}
	return &dept, nil
}

func (r *DepartmentRepository) GetAll() ([]*department.Department, error) {
	var depts []*department.Department
	err := r.db.Order("name ASC").Find(&depts).Error
	return depts, err
}

func (r *DepartmentRepository) Update(dept *department.Department) error {
	dept.UpdatedAt = time.Now()
	return r.db.Save(dept).Error
}

func (r *DepartmentRepository) Delete(id int64) error {
	return r.db.Delete(&department.Department{}, id).Error
}

func (r *DepartmentRepository) CountUsers(deptID int64) (int64, error) {
	var count int64
	err := r.db.Table("users").Where("department_id = ?", deptID).Count(&count).Error
	return count, err
}
