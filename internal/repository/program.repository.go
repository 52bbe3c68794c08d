package repository

import (
	"context"
	"errors"

	"github.com/givehub/donation-platform/internal/model"
	"github.com/givehub/donation-platform/pkg/pg"
	"gorm.io/gorm"
)

var (
	ErrProgramNotFound = errors.New("program not found")
)

type ProgramRepository struct {
	*pg.DB
}

func NewProgramRepository(db *pg.DB) *ProgramRepository {
	return &ProgramRepository{
		db,
	}
}

func (r *ProgramRepository) Create(ctx context.Context, p *model.Program) (*model.Program, error) {
	entity := toProgramEntity(p)
	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}
	return toProgramModel(entity), nil
}

func (r *ProgramRepository) GetByID(ctx context.Context, id int64) (*model.Program, error) {
	var entity ProgramEntity
	err := r.Read(ctx).WithContext(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}
	return toProgramModel(&entity), nil
}

func (r *ProgramRepository) List(ctx context.Context) ([]*model.Program, error) {
	var entities []*ProgramEntity
	err := r.Read(ctx).WithContext(ctx).Order("created_at DESC").Find(&entities).Error
	if err != nil {
		return nil, err
	}
	return toProgramModels(entities), nil
}

func (r *ProgramRepository) ListByNGO(ctx context.Context, ngoID int64) ([]*model.Program, error) {
	var entities []*ProgramEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("ngo_id = ?", ngoID).
		Order("created_at DESC").
		Find(&entities).
		Error
	if err != nil {
		return nil, err
	}
	return toProgramModels(entities), nil
}

// Update applies only the fields set in the request and returns the fresh row.
func (r *ProgramRepository) Update(ctx context.Context, id int64, req model.ProgramUpdateRequest) (*model.Program, error) {
	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if req.GoalAmount != nil {
		updates["goal_amount"] = *req.GoalAmount
	}
	if req.StartDate != nil {
		updates["start_date"] = *req.StartDate
	}
	if req.EndDate != nil {
		updates["end_date"] = *req.EndDate
	}

	if len(updates) > 0 {
		res := r.Write(ctx).WithContext(ctx).
			Model(&ProgramEntity{}).
			Where("id = ?", id).
			Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, ErrProgramNotFound
		}
	}

	return r.GetByID(ctx, id)
}

// Delete removes a program and detaches its donations. Donation rows are
// immutable financial records, so they are kept with a null program_id
// rather than cascaded away.
func (r *ProgramRepository) Delete(ctx context.Context, id int64) error {
	return r.WithinTransaction(ctx, func(txCtx context.Context) error {
		err := r.Write(txCtx).WithContext(txCtx).
			Model(&DonationEntity{}).
			Where("program_id = ?", id).
			Update("program_id", nil).
			Error
		if err != nil {
			return err
		}

		res := r.Write(txCtx).WithContext(txCtx).
			Where("id = ?", id).
			Delete(&ProgramEntity{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrProgramNotFound
		}
		return nil
	})
}

type RegistrationRepository struct {
	*pg.DB
}

func NewRegistrationRepository(db *pg.DB) *RegistrationRepository {
	return &RegistrationRepository{
		db,
	}
}

func (r *RegistrationRepository) Create(ctx context.Context, reg *model.ProgramRegistration) (*model.ProgramRegistration, error) {
	entity := toRegistrationEntity(reg)
	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}
	return toRegistrationModel(entity), nil
}

func (r *RegistrationRepository) CountByProgram(ctx context.Context, programID int64) (int64, error) {
	var count int64
	err := r.Read(ctx).WithContext(ctx).
		Model(&ProgramRegistrationEntity{}).
		Where("program_id = ?", programID).
		Count(&count).
		Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
