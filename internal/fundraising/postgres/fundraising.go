package postgres

import (
	"gorm.io/gorm"

	"github.com/opsarif/ngo-erp/internal/fundraising"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateDonor(d *fundraising.Donor) error {
	return r.db.Create(d).Error
}

func (r *Repository) GetDonorByID(id int64) (*fundraising.Donor, error) {
	var donor fundraising.Donor
	if err := r.db.First(&donor, id).Error; err != nil {
		return nil, err
	}
	return &donor, nil
}

func (r *Repository) GetDonors() ([]*fundraising.Donor, error) {
	var donors []*fundraising.Donor
	if err := r.db.Order("name ASC").Find(&donors).Error; err != nil {
		return nil, err
	}
	return donors, nil
}

func (r *Repository) UpdateDonor(d *fundraising.Donor) error {
	return r.db.Save(d).Error
}

func (r *Repository) DeleteDonor(id int64) error {
	return r.db.Delete(&fundraising.Donor{}, id).Error
}

func (r *Repository) CountDonations(donorID int64) (int64, error) {
	var count int64
	err := r.db.Model(&fundraising.Donation{}).
		Where("donor_id = ?", donorID).
		Count(&count).Error
	return count, err
}

func (r *Repository) CreateDonation(d *fundraising.Donation) error {
	return r.db.Create(d).Error
}

func (r *Repository) GetDonationByID(id int64) (*fundraising.Donation, error) {
	var donation fundraising.Donation
	if err := r.db.First(&donation, id).Error; err != nil {
		return nil, err
	}
	return &donation, nil
}

func (r *Repository) GetDonations() ([]*fundraising.Donation, error) {
	var donations []*fundraising.Donation
	if err := r.db.Order("date DESC").Find(&donations).Error; err != nil {
		return nil, err
	}
	return donations, nil
}

func (r *Repository) UpdateDonation(d *fundraising.Donation) error {
	return r.db.Save(d).Error
}

func (r *Repository) DeleteDonation(id int64) error {
	return r.db.Delete(&fundraising.Donation{}, id).Error
}

func (r *Repository) CreateCampaign(c *fundraising.Campaign) error {
	return r.db.Create(c).Error
}

func (r *Repository) GetCampaignByID(id int64) (*fundraising.Campaign, error) {
	var campaign fundraising.Campaign
	if err := r.db.First(&campaign, id).Error; err != nil {
		return nil, err
	}
	return &campaign, nil
}

func (r *Repository) GetCampaigns() ([]*fundraising.Campaign, error) {
	var campaigns []*fundraising.Campaign
	if err := r.db.Order("created_at DESC").Find(&campaigns).Error; err != nil {
		return nil, err
	}
	return campaigns, nil
}

func (r *Repository) UpdateCampaign(c *fundraising.Campaign) error {
	return r.db.Save(c).Error
}

func (r *Repository) DeleteCampaign(id int64) error {
	return r.db.Delete(&fundraising.Campaign{}, id).Error
}

func (r *Repository) CreateVolunteer(v *fundraising.Volunteer) error {
	return r.db.Create(v).Error
}

func (r *Repository) GetVolunteerByID(id int64) (*fundraising.Volunteer, error) {
	var volunteer fundraising.Volunteer
	if err := r.db.First(&volunteer, id).Error; err != nil {
		return nil, err
	}
	return &volunteer, nil
}

func (r *Repository) GetVolunteers() ([]*fundraising.Volunteer, error) {
	var volunteers []*fundraising.Volunteer
	if err := r.db.Order("name ASC").Find(&volunteers).Error; err != nil {
		return nil, err
	}
	return volunteers, nil
}

func (r *Repository) UpdateVolunteer(v *fundraising.Volunteer) error {
	return r.db.Save(v).Error
}

func (r *Repository) DeleteVolunteer(id int64) error {
	return r.db.Delete(&fundraising.Volunteer{}, id).Error
}
