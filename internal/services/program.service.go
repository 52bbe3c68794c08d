package services

import (
	"context"
	"errors"

	"github.com/givehub/donation-platform/internal/model"
	"github.com/givehub/donation-platform/internal/repository"
)

type ProgramRepository interface {
	Create(ctx context.Context, p *model.Program) (*model.Program, error)
	GetByID(ctx context.Context, id int64) (*model.Program, error)
	List(ctx context.Context) ([]*model.Program, error)
	ListByNGO(ctx context.Context, ngoID int64) ([]*model.Program, error)
	Update(ctx context.Context, id int64, req model.ProgramUpdateRequest) (*model.Program, error)
	Delete(ctx context.Context, id int64) error
}

type DonationSummer interface {
	SumSuccessfulAmount(ctx context.Context, programID int64) (float64, error)
}

type RegistrationRepository interface {
	Create(ctx context.Context, reg *model.ProgramRegistration) (*model.ProgramRegistration, error)
	CountByProgram(ctx context.Context, programID int64) (int64, error)
}

type ProgramService struct {
	programRepo      ProgramRepository
	donationRepo     DonationSummer
	registrationRepo RegistrationRepository
}

func NewProgramService(programRepo ProgramRepository, donationRepo DonationSummer, registrationRepo RegistrationRepository) *ProgramService {
	return &ProgramService{
		programRepo:      programRepo,
		donationRepo:     donationRepo,
		registrationRepo: registrationRepo,
	}
}

func (s *ProgramService) Create(ctx context.Context, p model.ProgramCreateRequest) (*model.Program, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	program := &model.Program{
		NGOID:       p.NGOID,
		Title:       p.Title,
		Description: p.Description,
		Location:    p.Location,
		GoalAmount:  p.GoalAmount,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
	}
	return s.programRepo.Create(ctx, program)
}

func (s *ProgramService) Get(ctx context.Context, id int64) (*model.Program, error) {
	program, err := s.programRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapProgramErr(err)
	}
	return program, nil
}

func (s *ProgramService) List(ctx context.Context) ([]*model.Program, error) {
	return s.programRepo.List(ctx)
}

func (s *ProgramService) Update(ctx context.Context, id int64, req model.ProgramUpdateRequest) (*model.Program, error) {
	program, err := s.programRepo.Update(ctx, id, req)
	if err != nil {
		return nil, mapProgramErr(err)
	}
	return program, nil
}

func (s *ProgramService) Delete(ctx context.Context, id int64) error {
	if err := s.programRepo.Delete(ctx, id); err != nil {
		return mapProgramErr(err)
	}
	return nil
}

// GetStats aggregates a program's funding state. The total counts successful
// donations only, and progress is clamped so over-funded programs report
// exactly 100.
func (s *ProgramService) GetStats(ctx context.Context, programID int64) (*model.ProgramStats, error) {
	program, err := s.programRepo.GetByID(ctx, programID)
	if err != nil {
		return nil, mapProgramErr(err)
	}

	total, err := s.donationRepo.SumSuccessfulAmount(ctx, programID)
	if err != nil {
		return nil, err
	}

	registrations, err := s.registrationRepo.CountByProgram(ctx, programID)
	if err != nil {
		return nil, err
	}

	return &model.ProgramStats{
		ProgramID:          programID,
		GoalAmount:         program.GoalAmount,
		TotalDonations:     total,
		ProgressPercentage: progress(total, program.GoalAmount),
		RegistrationCount:  registrations,
	}, nil
}

// Register records a program registration after confirming the program exists.
func (s *ProgramService) Register(ctx context.Context, p model.RegistrationCreateRequest) (*model.ProgramRegistration, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.programRepo.GetByID(ctx, p.ProgramID); err != nil {
		return nil, mapProgramErr(err)
	}

	return s.registrationRepo.Create(ctx, &model.ProgramRegistration{
		ProgramID: p.ProgramID,
		Name:      p.Name,
		Email:     p.Email,
		Phone:     p.Phone,
		Notes:     p.Notes,
	})
}

func progress(total float64, goal *float64) float64 {
	if goal == nil || *goal <= 0 {
		return 0
	}
	pct := total / *goal * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

func mapProgramErr(err error) error {
	if errors.Is(err, repository.ErrProgramNotFound) {
		return ErrProgramNotFound
	}
	return err
}
