package fundraising

import (
	"strings"

	"github.com/opsarif/ngo-erp/internal"
)

// CreateDonorDTO represents the request payload for registering a donor
type CreateDonorDTO struct {
	Name    string  `json:"name"`
	Email   *string `json:"email,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
}

func (dto CreateDonorDTO) Validate() error {
	if strings.TrimSpace(dto.Name) == "" {
		return internal.NewValidationError("name is required", internal.ErrCodeMissingField)
	}
	if len(dto.Name) > 200 {
		return internal.NewValidationError("name must be at most 200 characters", internal.ErrCodeValidationFailed)
	}
	return nil
}

// UpdateDonorDTO carries partial updates; nil fields are left untouched.
type UpdateDonorDTO struct {
	Name    *string `json:"name,omitempty"`
	Email   *string `json:"email,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
}

func (dto UpdateDonorDTO) Validate() error {
	if dto.Name != nil && strings.TrimSpace(*dto.Name) == "" {
		return internal.NewValidationError("name cannot be empty", internal.ErrCodeValidationFailed)
	}
	return nil
}

// CreateDonationDTO represents the request payload for recording a donation
type CreateDonationDTO struct {
	DonorID   int64          `json:"donor_id"`
	Amount    int64          `json:"amount"`
	Currency  string         `json:"currency"`
	Date      *internal.Date `json:"date,omitempty"`
	Method    *string        `json:"method,omitempty"`
	Recurring bool           `json:"recurring"`
	Note      *string        `json:"note,omitempty"`
}

func (dto CreateDonationDTO) Validate() error {
	if dto.DonorID <= 0 {
		return internal.NewValidationError("donor_id is required", internal.ErrCodeMissingField)
	}
	if dto.Amount < 0 {
		return internal.NewValidationError("amount must not be negative", internal.ErrCodeInvalidAmount)
	}
	return nil
}

// UpdateDonationDTO carries partial updates; nil fields are left untouched.
type UpdateDonationDTO struct {
	Amount    *int64         `json:"amount,omitempty"`
	Currency  *string        `json:"currency,omitempty"`
	Date      *internal.Date `json:"date,omitempty"`
	Method    *string        `json:"method,omitempty"`
	Recurring *bool          `json:"recurring,omitempty"`
	Note      *string        `json:"note,omitempty"`
}

func (dto UpdateDonationDTO) Validate() error {
	if dto.Amount != nil && *dto.Amount < 0 {
		return internal.NewValidationError("amount must not be negative", internal.ErrCodeInvalidAmount)
	}
	return nil
}

// CreateCampaignDTO represents the request payload for creating a campaign
type CreateCampaignDTO struct {
	Name        string         `json:"name"`
	GoalAmount  *int64         `json:"goal_amount,omitempty"`
	Description *string        `json:"description,omitempty"`
	StartDate   *internal.Date `json:"start_date,omitempty"`
	EndDate     *internal.Date `json:"end_date,omitempty"`
}

func (dto CreateCampaignDTO) Validate() error {
	if strings.TrimSpace(dto.Name) == "" {
		return internal.NewValidationError("name is required", internal.ErrCodeMissingField)
	}
	if dto.GoalAmount != nil && *dto.GoalAmount < 0 {
		return internal.NewValidationError("goal_amount must not be negative", internal.ErrCodeInvalidAmount)
	}
	if dto.StartDate != nil && dto.EndDate != nil && dto.EndDate.Before(dto.StartDate.Time) {
		return internal.NewValidationError("end_date must not be before start_date", internal.ErrCodeInvalidDate)
	}
	return nil
}

// UpdateCampaignDTO carries partial updates; nil fields are left untouched.
type UpdateCampaignDTO struct {
	Name        *string        `json:"name,omitempty"`
	GoalAmount  *int64         `json:"goal_amount,omitempty"`
	Description *string        `json:"description,omitempty"`
	StartDate   *internal.Date `json:"start_date,omitempty"`
	EndDate     *internal.Date `json:"end_date,omitempty"`
}

func (dto UpdateCampaignDTO) Validate() error {
	if dto.Name != nil && strings.TrimSpace(*dto.Name) == "" {
		return internal.NewValidationError("name cannot be empty", internal.ErrCodeValidationFailed)
	}
	if dto.GoalAmount != nil && *dto.GoalAmount < 0 {
		return internal.NewValidationError("goal_amount must not be negative", internal.ErrCodeInvalidAmount)
	}
	return nil
}

// CreateVolunteerDTO represents the request payload for registering a volunteer
type CreateVolunteerDTO struct {
	Name   string  `json:"name"`
	Email  *string `json:"email,omitempty"`
	Phone  *string `json:"phone,omitempty"`
	Skills *string `json:"skills,omitempty"`
	Hours  int64   `json:"hours"`
	Active *bool   `json:"active,omitempty"`
}

func (dto CreateVolunteerDTO) Validate() error {
	if strings.TrimSpace(dto.Name) == "" {
		return internal.NewValidationError("name is required", internal.ErrCodeMissingField)
	}
	if dto.Hours < 0 {
		return internal.NewValidationError("hours must not be negative", internal.ErrCodeInvalidAmount)
	}
	return nil
}

// UpdateVolunteerDTO carries partial updates; nil fields are left untouched.
type UpdateVolunteerDTO struct {
	Name   *string `json:"name,omitempty"`
	Email  *string `json:"email,omitempty"`
	Phone  *string `json:"phone,omitempty"`
	Skills *string `json:"skills,omitempty"`
	Hours  *int64  `json:"hours,omitempty"`
	Active *bool   `json:"active,omitempty"`
}

func (dto UpdateVolunteerDTO) Validate() error {
	if dto.Name != nil && strings.TrimSpace(*dto.Name) == "" {
		return internal.NewValidationError("name cannot be empty", internal.ErrCodeValidationFailed)
	}
	if dto.Hours != nil && *dto.Hours < 0 {
		return internal.NewValidationError("hours must not be negative", internal.ErrCodeInvalidAmount)
	}
	return nil
}
