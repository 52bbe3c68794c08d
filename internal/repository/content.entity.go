package repository

import (
	"time"

	"github.com/givehub/donation-platform/internal/model"
	"github.com/lib/pq"
)

// GalleryItemEntity stores tags through pq.StringArray; the column type is
// plain text so the same schema works on postgres and on sqlite in tests.
type GalleryItemEntity struct {
	ID        int64          `db:"id"         gorm:"primaryKey;autoIncrement;column:id"`
	Title     string         `db:"title"      gorm:"column:title;not null"`
	ImageURL  string         `db:"image_url"  gorm:"column:image_url;not null"`
	ProgramID *int64         `db:"program_id" gorm:"column:program_id;index"`
	Tags      pq.StringArray `db:"tags"       gorm:"column:tags;type:text"`
	CreatedAt time.Time      `db:"created_at" gorm:"column:created_at;autoCreateTime"`
}

func (GalleryItemEntity) TableName() string {
	return "gallery_items"
}

func toGalleryItemEntity(m *model.GalleryItem) *GalleryItemEntity {
	if m == nil {
		return nil
	}
	return &GalleryItemEntity{
		ID:        m.ID,
		Title:     m.Title,
		ImageURL:  m.ImageURL,
		ProgramID: m.ProgramID,
		Tags:      pq.StringArray(m.Tags),
		CreatedAt: m.CreatedAt,
	}
}

func toGalleryItemModel(e *GalleryItemEntity) *model.GalleryItem {
	if e == nil {
		return nil
	}
	return &model.GalleryItem{
		ID:        e.ID,
		Title:     e.Title,
		ImageURL:  e.ImageURL,
		ProgramID: e.ProgramID,
		Tags:      []string(e.Tags),
		CreatedAt: e.CreatedAt,
	}
}

func toGalleryItemModels(entities []*GalleryItemEntity) []*model.GalleryItem {
	if entities == nil {
		return nil
	}
	models := make([]*model.GalleryItem, len(entities))
	for i, e := range entities {
		models[i] = toGalleryItemModel(e)
	}
	return models
}

type PartnerEntity struct {
	ID        int64     `db:"id"         gorm:"primaryKey;autoIncrement;column:id"`
	Name      string    `db:"name"       gorm:"column:name;not null"`
	LogoURL   string    `db:"logo_url"   gorm:"column:logo_url"`
	Website   string    `db:"website"    gorm:"column:website"`
	CreatedAt time.Time `db:"created_at" gorm:"column:created_at;autoCreateTime"`
}

func (PartnerEntity) TableName() string {
	return "partners"
}

func toPartnerEntity(m *model.Partner) *PartnerEntity {
	if m == nil {
		return nil
	}
	return &PartnerEntity{
		ID:        m.ID,
		Name:      m.Name,
		LogoURL:   m.LogoURL,
		Website:   m.Website,
		CreatedAt: m.CreatedAt,
	}
}

func toPartnerModel(e *PartnerEntity) *model.Partner {
	if e == nil {
		return nil
	}
	return &model.Partner{
		ID:        e.ID,
		Name:      e.Name,
		LogoURL:   e.LogoURL,
		Website:   e.Website,
		CreatedAt: e.CreatedAt,
	}
}

func toPartnerModels(entities []*PartnerEntity) []*model.Partner {
	if entities == nil {
		return nil
	}
	models := make([]*model.Partner, len(entities))
	for i, e := range entities {
		models[i] = toPartnerModel(e)
	}
	return models
}

type HelpQueryEntity struct {
	ID        int64     `db:"id"         gorm:"primaryKey;autoIncrement;column:id"`
	Name      string    `db:"name"       gorm:"column:name;not null"`
	Email     string    `db:"email"      gorm:"column:email;not null"`
	Subject   string    `db:"subject"    gorm:"column:subject"`
	Message   string    `db:"message"    gorm:"column:message;not null"`
	Resolved  bool      `db:"resolved"   gorm:"column:resolved;not null;default:false"`
	CreatedAt time.Time `db:"created_at" gorm:"column:created_at;autoCreateTime"`
}

func (HelpQueryEntity) TableName() string {
	return "help_queries"
}

func toHelpQueryEntity(m *model.HelpQuery) *HelpQueryEntity {
	if m == nil {
		return nil
	}
	return &HelpQueryEntity{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Subject:   m.Subject,
		Message:   m.Message,
		Resolved:  m.Resolved,
		CreatedAt: m.CreatedAt,
	}
}

func toHelpQueryModel(e *HelpQueryEntity) *model.HelpQuery {
	if e == nil {
		return nil
	}
	return &model.HelpQuery{
		ID:        e.ID,
		Name:      e.Name,
		Email:     e.Email,
		Subject:   e.Subject,
		Message:   e.Message,
		Resolved:  e.Resolved,
		CreatedAt: e.CreatedAt,
	}
}

func toHelpQueryModels(entities []*HelpQueryEntity) []*model.HelpQuery {
	if entities == nil {
		return nil
	}
	models := make([]*model.HelpQuery, len(entities))
	for i, e := range entities {
		models[i] = toHelpQueryModel(e)
	}
	return models
}
