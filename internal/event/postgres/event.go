package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/opsarif/ngo-erp/internal/event"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(e *event.Event) error {
	return r.db.Create(e).Error
}

func (r *Repository) GetByID(id int64) (*event.Event, error) {
	var e event.Event
	if err := r.db.First(&e, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *Repository) GetShared() ([]*event.Event, error) {
	var events []*event.Event
	err := r.db.
		Where("department_id IS NULL").
		Order("scheduled_at ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *Repository) GetByDepartment(departmentID int64) ([]*event.Event, error) {
	var events []*event.Event
	err := r.db.
		Where("department_id = ?", departmentID).
		Order("scheduled_at ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *Repository) Update(e *event.Event) error {
	return r.db.Save(e).Error
}

func (r *Repository) Delete(id int64) error {
	return r.db.Delete(&event.Event{}, id).Error
}
