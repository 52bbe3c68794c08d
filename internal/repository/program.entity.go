package repository

import (
	"time"

	"github.com/givehub/donation-platform/internal/model"
)

type ProgramEntity struct {
	ID          int64     `db:"id"          gorm:"primaryKey;autoIncrement;column:id"`
	NGOID       int64     `db:"ngo_id"      gorm:"column:ngo_id;index;not null"`
	Title       string    `db:"title"       gorm:"column:title;not null"`
	Description string    `db:"description" gorm:"column:description"`
	Location    string    `db:"location"    gorm:"column:location"`
	GoalAmount  *float64  `db:"goal_amount" gorm:"column:goal_amount"`
	StartDate   time.Time `db:"start_date"  gorm:"column:start_date"`
	EndDate     time.Time `db:"end_date"    gorm:"column:end_date"`
	CreatedAt   time.Time `db:"created_at"  gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `db:"updated_at"  gorm:"column:updated_at;autoUpdateTime"`
}

func (ProgramEntity) TableName() string {
	return "programs"
}

func toProgramEntity(m *model.Program) *ProgramEntity {
	if m == nil {
		return nil
	}
	return &ProgramEntity{
		ID:          m.ID,
		NGOID:       m.NGOID,
		Title:       m.Title,
		Description: m.Description,
		Location:    m.Location,
		GoalAmount:  m.GoalAmount,
		StartDate:   m.StartDate,
		EndDate:     m.EndDate,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toProgramModel(e *ProgramEntity) *model.Program {
	if e == nil {
		return nil
	}
	return &model.Program{
		ID:          e.ID,
		NGOID:       e.NGOID,
		Title:       e.Title,
		Description: e.Description,
		Location:    e.Location,
		GoalAmount:  e.GoalAmount,
		StartDate:   e.StartDate,
		EndDate:     e.EndDate,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func toProgramModels(entities []*ProgramEntity) []*model.Program {
	if entities == nil {
		return nil
	}
	models := make([]*model.Program, len(entities))
	for i, e := range entities {
		models[i] = toProgramModel(e)
	}
	return models
}

type ProgramRegistrationEntity struct {
	ID        int64     `db:"id"         gorm:"primaryKey;autoIncrement;column:id"`
	ProgramID int64     `db:"program_id" gorm:"column:program_id;index;not null"`
	Name      string    `db:"name"       gorm:"column:name;not null"`
	Email     string    `db:"email"      gorm:"column:email;not null"`
	Phone     string    `db:"phone"      gorm:"column:phone"`
	Notes     string    `db:"notes"      gorm:"column:notes"`
	CreatedAt time.Time `db:"created_at" gorm:"column:created_at;autoCreateTime"`
}

func (ProgramRegistrationEntity) TableName() string {
	return "program_registrations"
}

func toRegistrationEntity(m *model.ProgramRegistration) *ProgramRegistrationEntity {
	if m == nil {
		return nil
	}
	return &ProgramRegistrationEntity{
		ID:        m.ID,
		ProgramID: m.ProgramID,
		Name:      m.Name,
		Email:     m.Email,
		Phone:     m.Phone,
		Notes:     m.Notes,
		CreatedAt: m.CreatedAt,
	}
}

func toRegistrationModel(e *ProgramRegistrationEntity) *model.ProgramRegistration {
	if e == nil {
		return nil
	}
	return &model.ProgramRegistration{
		ID:        e.ID,
		ProgramID: e.ProgramID,
		Name:      e.Name,
		Email:     e.Email,
		Phone:     e.Phone,
		Notes:     e.Notes,
		CreatedAt: e.CreatedAt,
	}
}
