package repository

import (
	"context"
	"errors"

	"github.com/givehub/donation-platform/internal/model"
	"github.com/givehub/donation-platform/pkg/pg"
	"gorm.io/gorm"
)

var (
	ErrNGONotFound = errors.New("ngo not found")
)

type NGORepository struct {
	*pg.DB
}

func NewNGORepository(db *pg.DB) *NGORepository {
	return &NGORepository{
		db,
	}
}

func (r *NGORepository) Create(ctx context.Context, n *model.NGO) (*model.NGO, error) {
	entity := toNGOEntity(n)
	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}
	return toNGOModel(entity), nil
}

func (r *NGORepository) GetByID(ctx context.Context, id int64) (*model.NGO, error) {
	var entity NGOEntity
	err := r.Read(ctx).WithContext(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNGONotFound
		}
		return nil, err
	}
	return toNGOModel(&entity), nil
}

func (r *NGORepository) List(ctx context.Context) ([]*model.NGO, error) {
	var entities []*NGOEntity
	err := r.Read(ctx).WithContext(ctx).Order("name ASC").Find(&entities).Error
	if err != nil {
		return nil, err
	}
	return toNGOModels(entities), nil
}

func (r *NGORepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.Read(ctx).WithContext(ctx).Model(&NGOEntity{}).Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Update applies only the fields set in the request and returns the fresh row.
func (r *NGORepository) Update(ctx context.Context, id int64, req model.NGOUpdateRequest) (*model.NGO, error) {
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.LogoURL != nil {
		updates["logo_url"] = *req.LogoURL
	}
	if req.Website != nil {
		updates["website"] = *req.Website
	}
	if req.ContactEmail != nil {
		updates["contact_email"] = *req.ContactEmail
	}

	if len(updates) > 0 {
		res := r.Write(ctx).WithContext(ctx).
			Model(&NGOEntity{}).
			Where("id = ?", id).
			Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, ErrNGONotFound
		}
	}

	return r.GetByID(ctx, id)
}

func (r *NGORepository) Delete(ctx context.Context, id int64) error {
	res := r.Write(ctx).WithContext(ctx).Where("id = ?", id).Delete(&NGOEntity{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNGONotFound
	}
	return nil
}
