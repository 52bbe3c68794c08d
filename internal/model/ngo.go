package model

import (
	"errors"
	"time"
)

// NGO owns programs and appears on public partner/cause pages.
type NGO struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	LogoURL      string    `json:"logo_url,omitempty"`
	Website      string    `json:"website,omitempty"`
	ContactEmail string    `json:"contact_email,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type NGOCreateRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	LogoURL      string `json:"logo_url"`
	Website      string `json:"website"`
	ContactEmail string `json:"contact_email"`
}

func (p NGOCreateRequest) Validate() error {
	if p.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

// NGOUpdateRequest carries only the fields being changed.
type NGOUpdateRequest struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	LogoURL      *string `json:"logo_url"`
	Website      *string `json:"website"`
	ContactEmail *string `json:"contact_email"`
}
