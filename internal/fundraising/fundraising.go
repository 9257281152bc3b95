package fundraising

import (
	"time"
)

// Donor is an individual or organization that contributes funds.
type Donor struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name"`
	Email     *string   `json:"email,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Address   *string   `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Donor) TableName() string {
	return "donors"
}

// Donation records a single contribution from a donor. Amounts are
// stored in minor currency units.
type Donation struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	DonorID   int64     `json:"donor_id"`
	Amount    int64     `json:"amount"`
	Currency  string    `json:"currency"`
	Date      time.Time `json:"date"`
	Method    *string   `json:"method,omitempty"`
	Recurring bool      `json:"recurring"`
	Note      *string   `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Donation) TableName() string {
	return "donations"
}

// Campaign is a named fundraising drive with an optional target amount
// and schedule.
type Campaign struct {
	ID          int64      `json:"id" gorm:"primaryKey"`
	Name        string     `json:"name"`
	GoalAmount  *int64     `json:"goal_amount,omitempty"`
	Description *string    `json:"description,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (Campaign) TableName() string {
	return "campaigns"
}

// Volunteer tracks an external helper and their accumulated hours.
type Volunteer struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name"`
	Email     *string   `json:"email,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Skills    *string   `json:"skills,omitempty"`
	Hours     int64     `json:"hours"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Volunteer) TableName() string {
	return "volunteers"
}

type RepositoryAPI interface {
	CreateDonor(d *Donor) error
	GetDonorByID(id int64) (*Donor, error)
	GetDonors() ([]*Donor, error)
	UpdateDonor(d *Donor) error
	DeleteDonor(id int64) error
	CountDonations(donorID int64) (int64, error)

	CreateDonation(d *Donation) error
	GetDonationByID(id int64) (*Donation, error)
	GetDonations() ([]*Donation, error)
	UpdateDonation(d *Donation) error
	DeleteDonation(id int64) error

	CreateCampaign(c *Campaign) error
	GetCampaignByID(id int64) (*Campaign, error)
	GetCampaigns() ([]*Campaign, error)
	UpdateCampaign(c *Campaign) error
	DeleteCampaign(id int64) error

	CreateVolunteer(v *Volunteer) error
	GetVolunteerByID(id int64) (*Volunteer, error)
	GetVolunteers() ([]*Volunteer, error)
	UpdateVolunteer(v *Volunteer) error
	DeleteVolunteer(id int64) error
}
