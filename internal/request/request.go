package request

import (
	"errors"
	"time"
)

// Ticket statuses. pending is the only non-terminal state.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Well-known ticket types. Type is free-form; these three get structured
// payloads from the workflow endpoints.
const (
	TypeLeave       = "leave"
	TypeProcurement = "procurement"
	TypeTravel      = "travel"
	TypeGeneric     = "generic"
)

// Audit actions
const (
	AuditCreated      = "created"
	AuditStatusChange = "status_change"
	AuditResponded    = "responded"
)

// ErrNotPending is returned by the repository when a conditional transition
// finds the ticket already resolved. The service maps it to an
// InvalidTransition response.
var ErrNotPending = errors.New("ticket is not pending")

// RequestTicket is a workflow request raised by any user: leave,
// procurement, travel or a generic ask. The payload is serialized JSON for
// the structured types and free text otherwise.
type RequestTicket struct {
	ID           int64      `json:"id" gorm:"primaryKey"`
	RequesterID  int64      `json:"requester_id" gorm:"column:requester_id;not null"`
	DepartmentID *int64     `json:"department_id,omitempty" gorm:"column:department_id"`
	Type         string     `json:"type" gorm:"not null"`
	Payload      string     `json:"payload"`
	Status       string     `json:"status" gorm:"default:pending"`
	ResolvedAt   *time.Time `json:"resolved_at,omitempty" gorm:"column:resolved_at"`
	CreatedAt    time.Time  `json:"created_at" gorm:"column:created_at"`
	UpdatedAt    time.Time  `json:"updated_at" gorm:"column:updated_at"`

	// RequesterRole is joined in on reads to derive the pinned flag; it is
	// never written back.
	RequesterRole string `json:"-" gorm:"->;column:requester_role"`
	// Pinned is computed per viewer, never persisted.
	Pinned bool `json:"pinned" gorm:"-"`
}

func (RequestTicket) TableName() string {
	return "request_tickets"
}

func (t *RequestTicket) Resolved() bool {
	return t.Status != StatusPending
}

// RequestAudit is the append-only trail of a ticket. Rows are never
// updated or deleted.
type RequestAudit struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	RequestID  int64     `json:"request_id" gorm:"column:request_id;not null"`
	Action     string    `json:"action" gorm:"not null"`
	FromStatus string    `json:"from_status,omitempty" gorm:"column:from_status"`
	ToStatus   string    `json:"to_status,omitempty" gorm:"column:to_status"`
	ActorID    int64     `json:"actor_id" gorm:"column:actor_id;not null"`
	Note       string    `json:"note,omitempty"`
	CreatedAt  time.Time `json:"created_at" gorm:"column:created_at"`
}

func (RequestAudit) TableName() string {
	return "request_audits"
}

// Attachment is a file on a ticket. Uploads are allowed at any status.
type Attachment struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	RequestID  int64     `json:"request_id" gorm:"column:request_id;not null"`
	Filename   string    `json:"filename" gorm:"not null"`
	StoredName string    `json:"-" gorm:"column:stored_name;not null"`
	UploaderID int64     `json:"uploader_id" gorm:"column:uploader_id;not null"`
	UploadedAt time.Time `json:"uploaded_at" gorm:"column:uploaded_at"`
}

func (Attachment) TableName() string {
	return "request_attachments"
}

// Notification mirrors the direct message written alongside a transition
// or response. The repository persists it in the same transaction as the
// audit row.
type Notification struct {
	SenderID    int64
	RecipientID int64
	Subject     string
	Body        string
}

// Repository defines the data access methods for request tickets. The
// multi-row operations are transactional: audit rows and notifications
// land atomically with the write they describe.
type Repository interface {
	CreateWithAudit(ticket *RequestTicket, audit *RequestAudit) error
	GetByID(id int64) (*RequestTicket, error)
	GetAll() ([]*RequestTicket, error)
	GetByDepartment(deptID int64) ([]*RequestTicket, error)
	GetByRequester(userID int64) ([]*RequestTicket, error)

	// Transition performs a conditional `status = pending` update together
	// with the audit row and optional notification. Returns ErrNotPending
	// when the ticket was already resolved.
	Transition(id int64, toStatus string, audit *RequestAudit, notify *Notification) error

	// Respond writes the audit row and notification without touching
	// status.
	Respond(audit *RequestAudit, notify *Notification) error

	GetAudit(requestID int64) ([]*RequestAudit, error)

	CreateAttachment(att *Attachment) error
	GetAttachments(requestID int64) ([]*Attachment, error)
	GetAttachmentByID(id int64) (*Attachment, error)
}
