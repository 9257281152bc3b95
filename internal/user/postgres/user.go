package postgres

import (
	"time"

	"gorm.io/gorm"

	"github.com/opsarif/ngo-erp/internal/auth"
	"github.com/opsarif/ngo-erp/internal/user"
)

// UserRepository implements user.Repository using GORM
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.Repository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(u *user.User) error {
	return r.db.Create(u).Error
}

func (r *UserRepository) GetByID(id int64) (*user.User, error) {
	var u user.User
	if err := r.db.Where("id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(email string) (*user.User, error) {
	var u user.User
	if err := r.db.Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetAll() ([]*user.User, error) {
	var users []*user.User
	err := r.db.Order("full_name ASC").Find(&users).Error
	return users, err
}

func (r *UserRepository) GetByDepartment(deptID int64) ([]*user.User, error) {
	var users []*user.User
	err := r.db.Where("department_id = ?", deptID).
		Order("full_name ASC").
		Find(&users).Error
	return users, err
}

func (r *UserRepository) GetFirstActiveAdmin() (*user.User, error) {
	var u user.User
	err := r.db.Where("role = ? AND is_active = ?", auth.RoleAdmin, true).
		Order("id ASC").
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Update(u *user.User) error {
	u.UpdatedAt = time.Now()
	return r.db.Save(u).Error
}

func (r *UserRepository) Delete(id int64) error {
	return r.db.Delete(&user.User{}, id).Error
}

func (r *UserRepository) CountOpenTasks(userID int64) (int64, error) {
	var count int64
	err := r.db.Table("tasks").
		Where("assignee_id = ? AND status <> ?", userID, "done").
		Count(&count).Error
	return count, err
}
