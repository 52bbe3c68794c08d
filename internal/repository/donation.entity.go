package repository

import (
	"time"

	"github.com/givehub/donation-platform/internal/model"
)

type DonationEntity struct {
	ID                  int64     `db:"id"                    gorm:"primaryKey;autoIncrement;column:id"`
	UserID              *int64    `db:"user_id"               gorm:"column:user_id;index"`
	ProgramID           *int64    `db:"program_id"            gorm:"column:program_id;index"`
	CauseName           string    `db:"cause_name"            gorm:"column:cause_name"`
	Amount              float64   `db:"amount"                gorm:"column:amount;not null"`
	PaymentMethod       string    `db:"payment_method"        gorm:"column:payment_method;not null"`
	PaymentStatus       string    `db:"payment_status"        gorm:"column:payment_status;not null;index"`
	TransactionRef      *string   `db:"transaction_reference" gorm:"column:transaction_reference;uniqueIndex"`
	DonorName           string    `db:"donor_name"            gorm:"column:donor_name"`
	DonorEmail          string    `db:"donor_email"           gorm:"column:donor_email"`
	DonorPhone          string    `db:"donor_phone"           gorm:"column:donor_phone"`
	DonorAddress        string    `db:"donor_address"         gorm:"column:donor_address"`
	IsAnonymous         bool      `db:"is_anonymous"          gorm:"column:is_anonymous;not null;default:false"`
	SubscribeNewsletter bool      `db:"subscribe_newsletter"  gorm:"column:subscribe_newsletter;not null;default:false"`
	CreatedAt           time.Time `db:"created_at"            gorm:"column:created_at;autoCreateTime"`
}

func (DonationEntity) TableName() string {
	return "donations"
}

func toDonationEntity(m *model.Donation) *DonationEntity {
	if m == nil {
		return nil
	}
	return &DonationEntity{
		ID:                  m.ID,
		UserID:              m.UserID,
		ProgramID:           m.ProgramID,
		CauseName:           m.CauseName,
		Amount:              m.Amount,
		PaymentMethod:       m.PaymentMethod,
		PaymentStatus:       string(m.PaymentStatus),
		TransactionRef:      m.TransactionRef,
		DonorName:           m.DonorName,
		DonorEmail:          m.DonorEmail,
		DonorPhone:          m.DonorPhone,
		DonorAddress:        m.DonorAddress,
		IsAnonymous:         m.IsAnonymous,
		SubscribeNewsletter: m.SubscribeNewsletter,
		CreatedAt:           m.CreatedAt,
	}
}

func toDonationModel(e *DonationEntity) *model.Donation {
	if e == nil {
		return nil
	}
	return &model.Donation{
		ID:                  e.ID,
		UserID:              e.UserID,
		ProgramID:           e.ProgramID,
		CauseName:           e.CauseName,
		Amount:              e.Amount,
		PaymentMethod:       e.PaymentMethod,
		PaymentStatus:       model.PaymentStatus(e.PaymentStatus),
		TransactionRef:      e.TransactionRef,
		DonorName:           e.DonorName,
		DonorEmail:          e.DonorEmail,
		DonorPhone:          e.DonorPhone,
		DonorAddress:        e.DonorAddress,
		IsAnonymous:         e.IsAnonymous,
		SubscribeNewsletter: e.SubscribeNewsletter,
		CreatedAt:           e.CreatedAt,
	}
}

func toDonationModels(entities []*DonationEntity) []*model.Donation {
	if entities == nil {
		return nil
	}
	models := make([]*model.Donation, len(entities))
	for i, e := range entities {
		models[i] = toDonationModel(e)
	}
	return models
}
