package postgres

import (
	"time"

	"gorm.io/gorm"

	"github.com/opsarif/ngo-erp/internal/message"
	msgstore "github.com/opsarif/ngo-erp/internal/message/postgres"
	"github.com/opsarif/ngo-erp/internal/request"
)

// RequestRepository implements request.Repository using GORM
type RequestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) request.Repository {
	return &RequestRepository{db: db}
}

func (r *RequestRepository) CreateWithAudit(ticket *request.RequestTicket, audit *request.RequestAudit) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(ticket).Error; err != nil {
			return err
		}
		audit.RequestID = ticket.ID
		return tx.Create(audit).Error
	})
}

const ticketSelect = "request_tickets.*, users.role AS requester_role"

func (r *RequestRepository) GetByID(id int64) (*request.RequestTicket, error) {
	var ticket request.RequestTicket
	err := r.db.Table("request_tickets").
		Select(ticketSelect).
		Joins("JOIN users ON users.id = request_tickets.requester_id").
		Where("request_tickets.id = ?", id).
		Take(&ticket).Error
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *RequestRepository) GetAll() ([]*request.RequestTicket, error) {
	return r.list(r.db)
}

func (r *RequestRepository) GetByDepartment(deptID int64) ([]*request.RequestTicket, error) {
	return r.list(r.db.Where("request_tickets.department_id = ?", deptID))
}

func (r *RequestRepository) GetByRequester(userID int64) ([]*request.RequestTicket, error) {
	return r.list(r.db.Where("request_tickets.requester_id = ?", userID))
}

func (r *RequestRepository) list(q *gorm.DB) ([]*request.RequestTicket, error) {
	var tickets []*request.RequestTicket
	err := q.Table("request_tickets").
		Select(ticketSelect).
		Joins("JOIN users ON users.id = request_tickets.requester_id").
		Order("request_tickets.created_at DESC").
		Find(&tickets).Error
	return tickets, err
}

// Transition applies the conditional update, the audit row and the
// requester notification in one transaction. The WHERE status = 'pending'
// guard makes the second of two racing transitions fail instead of
// double-applying.
func (r *RequestRepository) Transition(id int64, toStatus string, audit *request.RequestAudit, notify *request.Notification) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		res := tx.Model(&request.RequestTicket{}).
			Where("id = ? AND status = ?", id, request.StatusPending).
			Updates(map[string]interface{}{
				"status":      toStatus,
				"resolved_at": now,
				"updated_at":  now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return request.ErrNotPending
		}

		if err := tx.Create(audit).Error; err != nil {
			return err
		}
		if notify != nil {
			return message.Notify(msgstore.NewMessageRepository(tx), notify.SenderID, notify.RecipientID, notify.Subject, notify.Body)
		}
		return nil
	})
}

func (r *RequestRepository) Respond(audit *request.RequestAudit, notify *request.Notification) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(audit).Error; err != nil {
			return err
		}
		if notify != nil {
			return message.Notify(msgstore.NewMessageRepository(tx), notify.SenderID, notify.RecipientID, notify.Subject, notify.Body)
		}
		return nil
	})
}

func (r *RequestRepository) GetAudit(requestID int64) ([]*request.RequestAudit, error) {
	var trail []*request.RequestAudit
	err := r.db.Where("request_id = ?", requestID).
		Order("created_at DESC").
		Find(&trail).Error
	return trail, err
}

func (r *RequestRepository) CreateAttachment(att *request.Attachment) error {
	return r.db.Create(att).Error
}

func (r *RequestRepository) GetAttachments(requestID int64) ([]*request.Attachment, error) {
	var atts []*request.Attachment
	err := r.db.Where("request_id = ?", requestID).
		Order("uploaded_at DESC").
		Find(&atts).Error
	return atts, err
}

func (r *RequestRepository) GetAttachmentByID(id int64) (*request.Attachment, error) {
	var att request.Attachment
	if err := r.db.Where("id = ?", id).First(&att).Error; err != nil {
		return nil, err
	}
	return &att, nil
}

