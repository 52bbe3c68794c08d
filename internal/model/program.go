package model

import (
	"errors"
	"time"
)

// Program is a structured, NGO-owned fundraising initiative with an
// optional goal amount and a timeframe.
type Program struct {
	ID          int64      `json:"id"`
	NGOID       int64      `json:"ngo_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	GoalAmount  *float64   `json:"goal_amount,omitempty"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     time.Time  `json:"end_date"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type ProgramCreateRequest struct {
	NGOID       int64     `json:"ngo_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	GoalAmount  *float64  `json:"goal_amount"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
}

func (p ProgramCreateRequest) Validate() error {
	if p.NGOID == 0 {
		return errors.New("ngo_id is required")
	}
	if p.Title == "" {
		return errors.New("title is required")
	}
	if p.GoalAmount != nil && *p.GoalAmount < 0 {
		return errors.New("goal amount must not be negative")
	}
	if !p.EndDate.IsZero() && p.EndDate.Before(p.StartDate) {
		return errors.New("end date must not precede start date")
	}
	return nil
}

// ProgramUpdateRequest carries only the fields being changed.
type ProgramUpdateRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Location    *string    `json:"location"`
	GoalAmount  *float64   `json:"goal_amount"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

// ProgramStats is the read-only per-program view shown to donors and
// admins. TotalDonations sums successful donations only; the progress
// percentage is clamped to [0,100] so an over-funded program never reports
// more than 100.
type ProgramStats struct {
	ProgramID          int64    `json:"program_id"`
	GoalAmount         *float64 `json:"goal_amount,omitempty"`
	TotalDonations     float64  `json:"total_donations"`
	ProgressPercentage float64  `json:"progress_percentage"`
	RegistrationCount  int64    `json:"registration_count"`
}

// ProgramRegistration links a registrant to a program. It only ever feeds
// the registration count in program stats.
type ProgramRegistration struct {
	ID        int64     `json:"id"`
	ProgramID int64     `json:"program_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type RegistrationCreateRequest struct {
	ProgramID int64
	Name      string
	Email     string
	Phone     string
	Notes     string
}

func (p RegistrationCreateRequest) Validate() error {
	if p.ProgramID == 0 {
		return errors.New("program_id is required")
	}
	if p.Name == "" {
		return errors.New("name is required")
	}
	if p.Email == "" {
		return errors.New("email is required")
	}
	return nil
}
