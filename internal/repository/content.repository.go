package repository

import (
	"context"
	"errors"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/givehub/donation-platform/internal/model"
	"github.com/givehub/donation-platform/pkg/pg"
)

var (
	ErrGalleryItemNotFound = errors.New("gallery item not found")
	ErrPartnerNotFound     = errors.New("partner not found")
	ErrHelpQueryNotFound   = errors.New("help query not found")
)

type GalleryRepository struct {
	*pg.DB
}

func NewGalleryRepository(db *pg.DB) *GalleryRepository {
	return &GalleryRepository{
		db,
	}
}

func (r *GalleryRepository) Create(ctx context.Context, item *model.GalleryItem) (*model.GalleryItem, error) {
	entity := toGalleryItemEntity(item)
	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}
	return toGalleryItemModel(entity), nil
}

func (r *GalleryRepository) List(ctx context.Context) ([]*model.GalleryItem, error) {
	var entities []*GalleryItemEntity
	err := r.Read(ctx).WithContext(ctx).Order("created_at DESC").Find(&entities).Error
	if err != nil {
		return nil, err
	}
	return toGalleryItemModels(entities), nil
}

func (r *GalleryRepository) GetByID(ctx context.Context, id int64) (*model.GalleryItem, error) {
	var entity GalleryItemEntity
	err := r.Read(ctx).WithContext(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGalleryItemNotFound
		}
		return nil, err
	}
	return toGalleryItemModel(&entity), nil
}

// Update applies only the fields set in the request and returns the fresh row.
func (r *GalleryRepository) Update(ctx context.Context, id int64, req model.GalleryItemUpdateRequest) (*model.GalleryItem, error) {
	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if req.ProgramID != nil {
		updates["program_id"] = *req.ProgramID
	}
	if req.Tags != nil {
		updates["tags"] = pq.StringArray(req.Tags)
	}

	if len(updates) > 0 {
		res := r.Write(ctx).WithContext(ctx).
			Model(&GalleryItemEntity{}).
			Where("id = ?", id).
			Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, ErrGalleryItemNotFound
		}
	}

	return r.GetByID(ctx, id)
}

func (r *GalleryRepository) Delete(ctx context.Context, id int64) error {
	return r.Write(ctx).WithContext(ctx).Where("id = ?", id).Delete(&GalleryItemEntity{}).Error
}

type PartnerRepository struct {
	*pg.DB
}

func NewPartnerRepository(db *pg.DB) *PartnerRepository {
	return &PartnerRepository{
		db,
	}
}

func (r *PartnerRepository) Create(ctx context.Context, p *model.Partner) (*model.Partner, error) {
	entity := toPartnerEntity(p)
	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}
	return toPartnerModel(entity), nil
}

func (r *PartnerRepository) List(ctx context.Context) ([]*model.Partner, error) {
	var entities []*PartnerEntity
	err := r.Read(ctx).WithContext(ctx).Order("name ASC").Find(&entities).Error
	if err != nil {
		return nil, err
	}
	return toPartnerModels(entities), nil
}

func (r *PartnerRepository) GetByID(ctx context.Context, id int64) (*model.Partner, error) {
	var entity PartnerEntity
	err := r.Read(ctx).WithContext(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPartnerNotFound
		}
		return nil, err
	}
	return toPartnerModel(&entity), nil
}

// Update applies only the fields set in the request and returns the fresh row.
func (r *PartnerRepository) Update(ctx context.Context, id int64, req model.PartnerUpdateRequest) (*model.Partner, error) {
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.LogoURL != nil {
		updates["logo_url"] = *req.LogoURL
	}
	if req.Website != nil {
		updates["website"] = *req.Website
	}

	if len(updates) > 0 {
		res := r.Write(ctx).WithContext(ctx).
			Model(&PartnerEntity{}).
			Where("id = ?", id).
			Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, ErrPartnerNotFound
		}
	}

	return r.GetByID(ctx, id)
}

func (r *PartnerRepository) Delete(ctx context.Context, id int64) error {
	return r.Write(ctx).WithContext(ctx).Where("id = ?", id).Delete(&PartnerEntity{}).Error
}

type HelpQueryRepository struct {
	*pg.DB
}

func NewHelpQueryRepository(db *pg.DB) *HelpQueryRepository {
	return &HelpQueryRepository{
		db,
	}
}

func (r *HelpQueryRepository) Create(ctx context.Context, q *model.HelpQuery) (*model.HelpQuery, error) {
	entity := toHelpQueryEntity(q)
	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}
	return toHelpQueryModel(entity), nil
}

func (r *HelpQueryRepository) List(ctx context.Context, onlyUnresolved bool) ([]*model.HelpQuery, error) {
	q := r.Read(ctx).WithContext(ctx).Order("created_at DESC")
	if onlyUnresolved {
		q = q.Where("resolved = ?", false)
	}
	var entities []*HelpQueryEntity
	if err := q.Find(&entities).Error; err != nil {
		return nil, err
	}
	return toHelpQueryModels(entities), nil
}

func (r *HelpQueryRepository) Resolve(ctx context.Context, id int64) error {
	res := r.Write(ctx).WithContext(ctx).
		Model(&HelpQueryEntity{}).
		Where("id = ?", id).
		Update("resolved", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrHelpQueryNotFound
	}
	return nil
}
