package repository

import (
	"context"
	"errors"

	"github.com/givehub/donation-platform/internal/model"
	"github.com/givehub/donation-platform/pkg/pg"
	"gorm.io/gorm"
)

var (
	// ErrDuplicateReference is returned when an insert collides with an
	// existing transaction reference; the caller regenerates and retries.
	ErrDuplicateReference = errors.New("transaction reference already exists")
)

type DonationRepository struct {
	*pg.DB
}

func NewDonationRepository(db *pg.DB) *DonationRepository {
	return &DonationRepository{
		db,
	}
}

// Create inserts a new donation. Donations are insert-only; there is no
// corresponding update or delete.
func (r *DonationRepository) Create(ctx context.Context, d *model.Donation) (*model.Donation, error) {
	entity := toDonationEntity(d)

	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateReference
		}
		return nil, err
	}

	return toDonationModel(entity), nil
}

func (r *DonationRepository) GetByID(ctx context.Context, id int64) (*model.Donation, error) {
	var entity DonationEntity
	err := r.Read(ctx).WithContext(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, err
	}
	return toDonationModel(&entity), nil
}

func (r *DonationRepository) List(ctx context.Context, f model.DonationFilter) ([]*model.Donation, int64, error) {
	q := r.Read(ctx).WithContext(ctx).Model(&DonationEntity{})

	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.ProgramID != nil {
		q = q.Where("program_id = ?", *f.ProgramID)
	}
	if f.Status != nil {
		q = q.Where("payment_status = ?", string(*f.Status))
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at < ?", *f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "created_at"
	if f.Desc {
		order += " DESC"
	} else {
		order += " ASC"
	}

	limit := f.Limit
	if limit <= 0 || limit > 1000 {
		limit = 50
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	var entities []*DonationEntity
	if err := q.Order(order).Limit(limit).Offset(offset).Find(&entities).Error; err != nil {
		return nil, 0, err
	}

	return toDonationModels(entities), total, nil
}

// SumSuccessfulAmount totals successful donations for one program in a
// single aggregate query, so concurrent submissions never produce a lost
// update the way a read-modify-write counter would.
func (r *DonationRepository) SumSuccessfulAmount(ctx context.Context, programID int64) (float64, error) {
	var total float64
	err := r.Read(ctx).WithContext(ctx).
		Model(&DonationEntity{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("program_id = ? AND payment_status = ?", programID, string(model.PaymentStatusSuccess)).
		Scan(&total).
		Error
	if err != nil {
		return 0, err
	}
	return total, nil
}
