package postgres

import (
	"gorm.io/gorm"

	"github.com/opsarif/ngo-erp/internal/activity"
)

// ActivityRepository implements activity.Repository using GORM
type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) activity.Repository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Create(entry *activity.ActivityLog) error {
	return r.db.Create(entry).Error
}

func (r *ActivityRepository) GetRecent(limit int) ([]*activity.ActivityLog, error) {
	var entries []*activity.ActivityLog
	err := r.db.Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

func (r *ActivityRepository) GetRecentByDepartment(deptID int64, limit int) ([]*activity.ActivityLog, error) {
	var entries []*activity.ActivityLog
	err := r.db.
		Joins("JOIN users ON users.id = activity_logs.user_id").
		Where("users.department_id = ?", deptID).
		Order("activity_logs.created_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}
