package message

import (
	"time"
)

// Audience tags who a message is for. Exactly one addressing mode applies;
// the recipient and department columns are only meaningful for their
// matching audience.
const (
	AudienceDirect     = "direct"
	AudienceDepartment = "department"
	AudienceBroadcast  = "broadcast"
)

func ValidAudience(audience string) bool {
	switch audience {
	case AudienceDirect, AudienceDepartment, AudienceBroadcast:
		return true
	}
	return false
}

type Message struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	SenderID     int64     `json:"sender_id" gorm:"column:sender_id;not null"`
	Audience     string    `json:"audience" gorm:"not null"`
	RecipientID  *int64    `json:"recipient_id,omitempty" gorm:"column:recipient_id"`
	DepartmentID *int64    `json:"department_id,omitempty" gorm:"column:department_id"`
	Subject      string    `json:"subject"`
	Body         string    `json:"body" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at"`
}

func (Message) TableName() string {
	return "messages"
}

// Repository defines the data access methods for messages
type Repository interface {
	Create(msg *Message) error
	GetInbox(userID int64, deptID *int64) ([]*Message, error)
	GetSent(userID int64) ([]*Message, error)
}
