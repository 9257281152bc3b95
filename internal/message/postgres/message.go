package postgres

import (
	"gorm.io/gorm"

	"github.com/opsarif/ngo-erp/internal/message"
)

// MessageRepository implements message.Repository using GORM
type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) message.Repository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(msg *message.Message) error {
	return r.db.Create(msg).Error
}

func (r *MessageRepository) GetInbox(userID int64, deptID *int64) ([]*message.Message, error) {
	var messages []*message.Message

	q := r.db.Where("(audience = ? AND recipient_id = ?) OR audience = ?",
		message.AudienceDirect, userID, message.AudienceBroadcast)
	if deptID != nil {
		q = r.db.Where("(audience = ? AND recipient_id = ?) OR (audience = ? AND department_id = ?) OR audience = ?",
			message.AudienceDirect, userID,
			message.AudienceDepartment, *deptID,
			message.AudienceBroadcast)
	}

	err := q.Order("created_at DESC").Find(&messages).Error
	return messages, err
}

func (r *MessageRepository) GetSent(userID int64) ([]*message.Message, error) {
	var messages []*message.Message
	err := r.db.Where("sender_id = ?", userID).
		Order("created_at DESC").
		Find(&messages).Error
	return messages, err
}
