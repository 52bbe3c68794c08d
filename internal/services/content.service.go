package services

import (
	"context"
	"errors"

	"github.com/givehub/donation-platform/internal/model"
	"github.com/givehub/donation-platform/internal/repository"
)

var (
	ErrNGONotFound         = errors.New("ngo not found")
	ErrGalleryItemNotFound = errors.New("gallery item not found")
	ErrPartnerNotFound     = errors.New("partner not found")
	ErrHelpQueryNotFound   = errors.New("help query not found")
)

type NGORepository interface {
	Create(ctx context.Context, n *model.NGO) (*model.NGO, error)
	GetByID(ctx context.Context, id int64) (*model.NGO, error)
	List(ctx context.Context) ([]*model.NGO, error)
	Update(ctx context.Context, id int64, req model.NGOUpdateRequest) (*model.NGO, error)
	Delete(ctx context.Context, id int64) error
}

type GalleryRepository interface {
	Create(ctx context.Context, item *model.GalleryItem) (*model.GalleryItem, error)
	List(ctx context.Context) ([]*model.GalleryItem, error)
	Update(ctx context.Context, id int64, req model.GalleryItemUpdateRequest) (*model.GalleryItem, error)
	Delete(ctx context.Context, id int64) error
}

type PartnerRepository interface {
	Create(ctx context.Context, p *model.Partner) (*model.Partner, error)
	List(ctx context.Context) ([]*model.Partner, error)
	Update(ctx context.Context, id int64, req model.PartnerUpdateRequest) (*model.Partner, error)
	Delete(ctx context.Context, id int64) error
}

type HelpQueryRepository interface {
	Create(ctx context.Context, q *model.HelpQuery) (*model.HelpQuery, error)
	List(ctx context.Context, onlyUnresolved bool) ([]*model.HelpQuery, error)
	Resolve(ctx context.Context, id int64) error
}

// ContentService covers the public site surface that sits next to the
// donation flow: NGO pages, gallery, partners, and the help-centre form.
type ContentService struct {
	ngoRepo       NGORepository
	galleryRepo   GalleryRepository
	partnerRepo   PartnerRepository
	helpQueryRepo HelpQueryRepository
}

func NewContentService(ngoRepo NGORepository, galleryRepo GalleryRepository, partnerRepo PartnerRepository, helpQueryRepo HelpQueryRepository) *ContentService {
	return &ContentService{
		ngoRepo:       ngoRepo,
		galleryRepo:   galleryRepo,
		partnerRepo:   partnerRepo,
		helpQueryRepo: helpQueryRepo,
	}
}

func (s *ContentService) CreateNGO(ctx context.Context, p model.NGOCreateRequest) (*model.NGO, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return s.ngoRepo.Create(ctx, &model.NGO{
		Name:         p.Name,
		Description:  p.Description,
		LogoURL:      p.LogoURL,
		Website:      p.Website,
		ContactEmail: p.ContactEmail,
	})
}

func (s *ContentService) GetNGO(ctx context.Context, id int64) (*model.NGO, error) {
	ngo, err := s.ngoRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNGONotFound) {
			return nil, ErrNGONotFound
		}
		return nil, err
	}
	return ngo, nil
}

func (s *ContentService) ListNGOs(ctx context.Context) ([]*model.NGO, error) {
	return s.ngoRepo.List(ctx)
}

func (s *ContentService) UpdateNGO(ctx context.Context, id int64, req model.NGOUpdateRequest) (*model.NGO, error) {
	ngo, err := s.ngoRepo.Update(ctx, id, req)
	if err != nil {
		if errors.Is(err, repository.ErrNGONotFound) {
			return nil, ErrNGONotFound
		}
		return nil, err
	}
	return ngo, nil
}

func (s *ContentService) DeleteNGO(ctx context.Context, id int64) error {
	err := s.ngoRepo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNGONotFound) {
		return ErrNGONotFound
	}
	return err
}

func (s *ContentService) CreateGalleryItem(ctx context.Context, p model.GalleryItemCreateRequest) (*model.GalleryItem, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return s.galleryRepo.Create(ctx, &model.GalleryItem{
		Title:     p.Title,
		ImageURL:  p.ImageURL,
		ProgramID: p.ProgramID,
		Tags:      p.Tags,
	})
}

func (s *ContentService) ListGallery(ctx context.Context) ([]*model.GalleryItem, error) {
	return s.galleryRepo.List(ctx)
}

func (s *ContentService) UpdateGalleryItem(ctx context.Context, id int64, req model.GalleryItemUpdateRequest) (*model.GalleryItem, error) {
	item, err := s.galleryRepo.Update(ctx, id, req)
	if err != nil {
		if errors.Is(err, repository.ErrGalleryItemNotFound) {
			return nil, ErrGalleryItemNotFound
		}
		return nil, err
	}
	return item, nil
}

func (s *ContentService) DeleteGalleryItem(ctx context.Context, id int64) error {
	return s.galleryRepo.Delete(ctx, id)
}

func (s *ContentService) CreatePartner(ctx context.Context, p model.PartnerCreateRequest) (*model.Partner, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return s.partnerRepo.Create(ctx, &model.Partner{
		Name:    p.Name,
		LogoURL: p.LogoURL,
		Website: p.Website,
	})
}

func (s *ContentService) ListPartners(ctx context.Context) ([]*model.Partner, error) {
	return s.partnerRepo.List(ctx)
}

func (s *ContentService) UpdatePartner(ctx context.Context, id int64, req model.PartnerUpdateRequest) (*model.Partner, error) {
	partner, err := s.partnerRepo.Update(ctx, id, req)
	if err != nil {
		if errors.Is(err, repository.ErrPartnerNotFound) {
			return nil, ErrPartnerNotFound
		}
		return nil, err
	}
	return partner, nil
}

func (s *ContentService) DeletePartner(ctx context.Context, id int64) error {
	return s.partnerRepo.Delete(ctx, id)
}

func (s *ContentService) SubmitHelpQuery(ctx context.Context, p model.HelpQueryCreateRequest) (*model.HelpQuery, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return s.helpQueryRepo.Create(ctx, &model.HelpQuery{
		Name:    p.Name,
		Email:   p.Email,
		Subject: p.Subject,
		Message: p.Message,
	})
}

func (s *ContentService) ListHelpQueries(ctx context.Context, onlyUnresolved bool) ([]*model.HelpQuery, error) {
	return s.helpQueryRepo.List(ctx, onlyUnresolved)
}

func (s *ContentService) ResolveHelpQuery(ctx context.Context, id int64) error {
	err := s.helpQueryRepo.Resolve(ctx, id)
	if errors.Is(err, repository.ErrHelpQueryNotFound) {
		return ErrHelpQueryNotFound
	}
	return err
}
