package fundraising

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/opsarif/ngo-erp/internal"
	"github.com/opsarif/ngo-erp/internal/activity"
	"github.com/opsarif/ngo-erp/internal/auth"
)

// Service handles fundraising business logic: donors, donations,
// campaigns and volunteers.
type Service struct {
	repo     RepositoryAPI
	policy   *auth.Policy
	activity activity.Recorder
	logger   *slog.Logger
}

func NewService(repo RepositoryAPI, policy *auth.Policy, recorder activity.Recorder, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		policy:   policy,
		activity: recorder,
		logger:   logger,
	}
}

func (s *Service) CreateDonor(actor *auth.User, dto CreateDonorDTO) (*Donor, error) {
	if !s.policy.CanManageCatalog(actor) {
		return nil, internal.NewForbiddenError("only admins and managers can manage donors", internal.ErrCodeRoleDenied)
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	donor := &Donor{
		Name:      dto.Name,
		Email:     dto.Email,
		Phone:     dto.Phone,
		Address:   dto.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.CreateDonor(donor); err != nil {
		s.logger.Error("failed to create donor", "error", err, "name", dto.Name)
		return nil, err
	}

	s.activity.Record(actor.ID, "donor_created", fmt.Sprintf("donor %q registered", donor.Name))
	return donor, nil
}

func (s *Service) GetDonor(actor *auth.User, id int64) (*Donor, error) {
	if !s.policy.CanManageCatalog(actor) {
		return nil, internal.NewNotFoundError("donor not found", internal.ErrCodeRecordNotFound)
	}
	donor, err := s.repo.GetDonorByID(id)
	if err != nil {
		return nil, internal.NewNotFoundError("donor not found", internal.ErrCodeRecordNotFound)
	}
	return donor, nil
}

func (s *Service) ListDonors(actor *auth.User) ([]*Donor, error) {
	if !s.policy.CanManageCatalog(actor) {
		return nil, internal.NewForbiddenError("only admins and managers can view donors", internal.ErrCodeRoleDenied)
	}
	return s.repo.GetDonors()
}

func (s *Service) UpdateDonor(actor *auth.User, id int64, dto UpdateDonorDTO) (*Donor, error) {
	if !s.policy.CanManageCatalog(actor) {
		return nil, internal.NewForbiddenError("only admins and managers can manage donors", internal.ErrCodeRoleDenied)
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	donor, err := s.repo.GetDonorByID(id)
	if err != nil {
		return nil, internal.NewNotFoundError("donor not found", internal.ErrCodeRecordNotFound)
	}

	if dto.Name != nil {
		donor.Name = *dto.Name
	}
	if dto.Email != nil {
		donor.Email = dto.Email
	}
	if dto.Phone != nil {
		donor.Phone = dto.Phone
	}
	if dto.Address != nil {
		donor.Address = dto.Address
	}
	donor.UpdatedAt = time.Now()

	if err := s.repo.UpdateDonor(donor); err != nil {
		s.logger.Error("failed to update donor", "error", err, "donor_id", id)
		return nil, err
	}
	return donor, nil
}

func (s *Service) DeleteDonor(actor *auth.User, id int64) error {
	if !s.policy.CanManageCatalog(actor) {
		return internal.NewForbiddenError("only admins and managers can manage donors", internal.ErrCodeRoleDenied)
	}

	donor, err := s.repo.GetDonorByID(id)
	if err != nil {
		return internal.NewNotFoundError("donor not found", internal.ErrCodeRecordNotFound)
	}

	count, err := s.repo.CountDonations(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return internal.NewValidationError("donor still has recorded donations", internal.ErrCodeHasDependents)
	}

	if err := s.repo.DeleteDonor(id); err != nil {
		s.logger.Error("failed to delete donor", "error", err, "donor_id", id)
		return err
	}

	s.activity.Record(actor.ID, "donor_deleted", fmt.Sprintf("donor %q deleted", donor.Name))
	return nil
}

func (s *Service) CreateDonation(actor *auth.User, dto CreateDonationDTO) (*Donation, error) {
	if !s.policy.CanManageCatalog(actor) {
		return nil, internal.NewForbiddenError("only admins and managers can record donations", internal.ErrCodeRoleDenied)
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetDonorByID(dto.DonorID); err != nil {
		return nil, internal.NewNotFoundError("donor not found", internal.ErrCodeRecordNotFound)
	}

	now := time.Now()
	date := now
	if dto.Date != nil {
		date = dto.Date.Time
	}
	currency := dto.Currency
	if currency == "" {
		currency = "USD"
	}

	donation := &Donation{
		DonorID:   dto.DonorID,
		Amount:    dto.Amount,
		Currency:  currency,
		Date:      date,
		Method:    dto.Method,
		Recurring: dto.Recurring,
		Note:      dto.Note,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.CreateDonation(donation); err != nil {
		s.logger.Error("failed to create donation", "error", err, "donor_id", dto.DonorID)
		return nil, err
	}

	s.activity.Record(actor.ID, "donation_recorded", fmt.Sprintf("donation of %d %s recorded", donation.Amount, donation.Currency))
	return donation, nil
}

func (s *Service) GetDonation(actor *auth.User, id int64) (*Donation, error) {
	if !s.policy.CanManageCatalog(actor) {
		return nil, internal.NewNotFoundError("donation not found", internal.ErrCodeRecordNotFound)
	}
	donation, err := s.repo.GetDonationByID(id)
	if err != nil {
		return nil, internal.NewNotFoundError("donation not found", internal.ErrCodeRecordNotFound)
	}
	return donation, nil
}

func (s *Service) ListDonations(actor *auth.User) ([]*Donation, error) {
	if !s.policy.CanManageCatalog(actor) {
		return nil, internal.NewForbiddenError("only admins and managers can view donations", internal.ErrCodeRoleDenied)
	}
	return s.repo.GetDonations()
}

func (s *Service) UpdateDonation(actor *auth.User, id int64, dto UpdateDonationDTO) (*Donation, error) {
	if !s.policy.CanManageCatalog(actor) {
		return nil, internal.NewForbiddenError("only admins and managers can manage donations", internal.ErrCodeRoleDenied)
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	donation, err := s.repo.GetDonationByID(id)
	if err != nil {
		return nil, internal.NewNotFoundError("donation not found", internal.ErrCodeRecordNotFound)
	}

	if dto.Amount != nil {
		donation.Amount = *dto.Amount
	}
	if dto.Currency != nil {
		donation.Currency = *dto.Currency
	}
	if dto.Date != nil {
		donation.Date = dto.Date.Time
	}
	if dto.Method != nil {
		donation.Method = dto.Method
	}
	if dto.Recurring != nil {
		donation.Recurring = *dto.Recurring
	}
	if dto.Note != nil {
		donation.Note = dto.Note
	}
	donation.UpdatedAt = time.Now()

	if err := s.repo.UpdateDonation(donation); err != nil {
		s.logger.Error("failed to update donation", "error", err, "donation_id", id)
		return nil, err
	}
	return donation, nil
}

func (s *Service) DeleteDonation(actor *auth.User, id int64) error {
	if !s.policy.CanManageCatalog(actor) {
		return internal.NewForbiddenError("only admins and managers can manage donations", internal.ErrCodeRoleDenied)
	}
	if _, err := s.repo.GetDonationByID(id); err != nil {
		return internal.NewNotFoundError("donation not found", internal.ErrCodeRecordNotFound)
	}
	if err := s.repo.DeleteDonation(id); err != nil {
		s.logger.Error("failed to delete donation", "error", err, "donation_id", id)
		return err
	}
	s.activity.Record(actor.ID, "donation_deleted", fmt.Sprintf("donation %d deleted", id))
	return nil
}

func (s *Service) CreateCampaign(actor *auth.User, dto CreateCampaignDTO) (*Campaign, error) {
	if !s.policy.CanManageCatalog(actor) {
		return nil, internal.NewForbiddenError("only admins and managers can manage campaigns", internal.ErrCodeRoleDenied)
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	campaign := &Campaign{
		Name:        dto.Name,
		GoalAmount:  dto.GoalAmount,
		Description: dto.Description,
		StartDate:   dto.StartDate.Ptr(),
		EndDate:     dto.EndDate.Ptr(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.CreateCampaign(campaign); err != nil {
		s.logger.Error("failed to create campaign", "error", err, "name", dto.Name)
		return nil, err
	}

	s.activity.Record(actor.ID, "campaign_created", fmt.Sprintf("campaign %q created", campaign.Name))
	return campaign, nil
}

func (s *Service) GetCampaign(id int64) (*Campaign, error) {
	campaign, err := s.repo.GetCampaignByID(id)
	if err != nil {
		return nil, internal.NewNotFoundError("campaign not found", internal.ErrCodeRecordNotFound)
	}
	return campaign, nil
}

// ListCampaigns is readable by any authenticated user.
func (s *Service) ListCampaigns() ([]*Campaign, error) {
	return s.repo.GetCampaigns()
}

func (s *Service) UpdateCampaign(actor *auth.User, id int64, dto UpdateCampaignDTO) (*Campaign, error) {
	if !s.policy.CanManageCatalog(actor) {
		return nil, internal.NewForbiddenError("only admins and managers can manage campaigns", internal.ErrCodeRoleDenied)
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	campaign, err := s.repo.GetCampaignByID(id)
	if err != nil {
		return nil, internal.NewNotFoundError("campaign not found", internal.ErrCodeRecordNotFound)
	}

	if dto.Name != nil {
		campaign.Name = *dto.Name
	}
	if dto.GoalAmount != nil {
		campaign.GoalAmount = dto.GoalAmount
	}
	if dto.Description != nil {
		campaign.Description = dto.Description
	}
	if dto.StartDate != nil {
		campaign.StartDate = dto.StartDate.Ptr()
	}
	if dto.EndDate != nil {
		campaign.EndDate = dto.EndDate.Ptr()
	}
	campaign.UpdatedAt = time.Now()

	if err := s.repo.UpdateCampaign(campaign); err != nil {
		s.logger.Error("failed to update campaign", "error", err, "campaign_id", id)
		return nil, err
	}
	return campaign, nil
}

func (s *Service) DeleteCampaign(actor *auth.User, id int64) error {
	if !s.policy.CanManageCatalog(actor) {
		return internal.NewForbiddenError("only admins and managers can manage campaigns", internal.ErrCodeRoleDenied)
	}
	campaign, err := s.repo.GetCampaignByID(id)
	if err != nil {
		return internal.NewNotFoundError("campaign not found", internal.ErrCodeRecordNotFound)
	}
	if err := s.repo.DeleteCampaign(id); err != nil {
		s.logger.Error("failed to delete campaign", "error", err, "campaign_id", id)
		return err
	}
	s.activity.Record(actor.ID, "campaign_deleted", fmt.Sprintf("campaign %q deleted", campaign.Name))
	return nil
}

func (s *Service) CreateVolunteer(actor *auth.User, dto CreateVolunteerDTO) (*Volunteer, error) {
	if !s.policy.CanManageCatalog(actor) {
		return nil, internal.NewForbiddenError("only admins and managers can manage volunteers", internal.ErrCodeRoleDenied)
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	active := true
	if dto.Active != nil {
		active = *dto.Active
	}

	now := time.Now()
	volunteer := &Volunteer{
		Name:      dto.Name,
		Email:     dto.Email,
		Phone:     dto.Phone,
		Skills:    dto.Skills,
		Hours:     dto.Hours,
		Active:    active,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.CreateVolunteer(volunteer); err != nil {
		s.logger.Error("failed to create volunteer", "error", err, "name", dto.Name)
		return nil, err
	}

	s.activity.Record(actor.ID, "volunteer_created", fmt.Sprintf("volunteer %q registered", volunteer.Name))
	return volunteer, nil
}

func (s *Service) GetVolunteer(actor *auth.User, id int64) (*Volunteer, error) {
	if !s.policy.CanManageCatalog(actor) {
		return nil, internal.NewNotFoundError("volunteer not found", internal.ErrCodeRecordNotFound)
	}
	volunteer, err := s.repo.GetVolunteerByID(id)
	if err != nil {
		return nil, internal.NewNotFoundError("volunteer not found", internal.ErrCodeRecordNotFound)
	}
	return volunteer, nil
}

func (s *Service) ListVolunteers(actor *auth.User) ([]*Volunteer, error) {
	if !s.policy.CanManageCatalog(actor) {
		return nil, internal.NewForbiddenError("only admins and managers can view volunteers", internal.ErrCodeRoleDenied)
	}
	return s.repo.GetVolunteers()
}

func (s *Service) UpdateVolunteer(actor *auth.User, id int64, dto UpdateVolunteerDTO) (*Volunteer, error) {
	if !s.policy.CanManageCatalog(actor) {
		return nil, internal.NewForbiddenError("only admins and managers can manage volunteers", internal.ErrCodeRoleDenied)
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	volunteer, err := s.repo.GetVolunteerByID(id)
	if err != nil {
		return nil, internal.NewNotFoundError("volunteer not found", internal.ErrCodeRecordNotFound)
	}

	if dto.Name != nil {
		volunteer.Name = *dto.Name
	}
	if dto.Email != nil {
		volunteer.Email = dto.Email
	}
	if dto.Phone != nil {
		volunteer.Phone = dto.Phone
	}
	if dto.Skills != nil {
		volunteer.Skills = dto.Skills
	}
	if dto.Hours != nil {
		volunteer.Hours = *dto.Hours
	}
	if dto.Active != nil {
		volunteer.Active = *dto.Active
	}
	volunteer.UpdatedAt = time.Now()

	if err := s.repo.UpdateVolunteer(volunteer); err != nil {
		s.logger.Error("failed to update volunteer", "error", err, "volunteer_id", id)
		return nil, err
	}
	return volunteer, nil
}

func (s *Service) DeleteVolunteer(actor *auth.User, id int64) error {
	if !s.policy.CanManageCatalog(actor) {
		return internal.NewForbiddenError("only admins and managers can manage volunteers", internal.ErrCodeRoleDenied)
	}
	volunteer, err := s.repo.GetVolunteerByID(id)
	if err != nil {
		return internal.NewNotFoundError("volunteer not found", internal.ErrCodeRecordNotFound)
	}
	if err := s.repo.DeleteVolunteer(id); err != nil {
		s.logger.Error("failed to delete volunteer", "error", err, "volunteer_id", id)
		return err
	}
	s.activity.Record(actor.ID, "volunteer_deleted", fmt.Sprintf("volunteer %q deleted", volunteer.Name))
	return nil
}
