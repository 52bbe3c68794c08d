package model

import (
	"errors"
	"time"
)

// GalleryItem is an image shown on the public gallery page, optionally
// tied to a program.
type GalleryItem struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	ImageURL  string    `json:"image_url"`
	ProgramID *int64    `json:"program_id,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type GalleryItemCreateRequest struct {
	Title     string   `json:"title"`
	ImageURL  string   `json:"image_url"`
	ProgramID *int64   `json:"program_id"`
	Tags      []string `json:"tags"`
}

func (p GalleryItemCreateRequest) Validate() error {
	if p.Title == "" {
		return errors.New("title is required")
	}
	if p.ImageURL == "" {
		return errors.New("image_url is required")
	}
	return nil
}

// GalleryItemUpdateRequest carries only the fields being changed. A nil
// Tags slice leaves the stored tags alone; an empty one clears them.
type GalleryItemUpdateRequest struct {
	Title     *string  `json:"title"`
	ImageURL  *string  `json:"image_url"`
	ProgramID *int64   `json:"program_id"`
	Tags      []string `json:"tags"`
}

// Partner is a sponsoring organization shown on the public partners page.
type Partner struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	LogoURL   string    `json:"logo_url,omitempty"`
	Website   string    `json:"website,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type PartnerCreateRequest struct {
	Name    string `json:"name"`
	LogoURL string `json:"logo_url"`
	Website string `json:"website"`
}

func (p PartnerCreateRequest) Validate() error {
	if p.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

type PartnerUpdateRequest struct {
	Name    *string `json:"name"`
	LogoURL *string `json:"logo_url"`
	Website *string `json:"website"`
}

// HelpQuery is a help-centre contact-form submission.
type HelpQuery struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Resolved  bool      `json:"resolved"`
	CreatedAt time.Time `json:"created_at"`
}

type HelpQueryCreateRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (p HelpQueryCreateRequest) Validate() error {
	if p.Name == "" {
		return errors.New("name is required")
	}
	if p.Email == "" {
		return errors.New("email is required")
	}
	if p.Message == "" {
		return errors.New("message is required")
	}
	return nil
}
