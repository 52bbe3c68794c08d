package repository

import (
	"time"

	"github.com/givehub/donation-platform/internal/model"
)

type NGOEntity struct {
	ID           int64     `db:"id"            gorm:"primaryKey;autoIncrement;column:id"`
	Name         string    `db:"name"          gorm:"column:name;not null"`
	Description  string    `db:"description"   gorm:"column:description"`
	LogoURL      string    `db:"logo_url"      gorm:"column:logo_url"`
	Website      string    `db:"website"       gorm:"column:website"`
	ContactEmail string    `db:"contact_email" gorm:"column:contact_email"`
	CreatedAt    time.Time `db:"created_at"    gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `db:"updated_at"    gorm:"column:updated_at;autoUpdateTime"`
}

func (NGOEntity) TableName() string {
	return "ngos"
}

func toNGOEntity(m *model.NGO) *NGOEntity {
	if m == nil {
		return nil
	}
	return &NGOEntity{
		ID:           m.ID,
		Name:         m.Name,
		Description:  m.Description,
		LogoURL:      m.LogoURL,
		Website:      m.Website,
		ContactEmail: m.ContactEmail,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toNGOModel(e *NGOEntity) *model.NGO {
	if e == nil {
		return nil
	}
	return &model.NGO{
		ID:           e.ID,
		Name:         e.Name,
		Description:  e.Description,
		LogoURL:      e.LogoURL,
		Website:      e.Website,
		ContactEmail: e.ContactEmail,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

func toNGOModels(entities []*NGOEntity) []*model.NGO {
	if entities == nil {
		return nil
	}
	models := make([]*model.NGO, len(entities))
	for i, e := range entities {
		models[i] = toNGOModel(e)
	}
	return models
}
