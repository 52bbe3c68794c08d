package seed

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/givehub/donation-platform/internal/model"
	"github.com/givehub/donation-platform/pkg/logger"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) (*model.User, error)
	CountByRole(ctx context.Context, role model.Role) (int64, error)
}

type NGORepository interface {
	Create(ctx context.Context, ngo *model.NGO) (*model.NGO, error)
	Count(ctx context.Context) (int64, error)
}

type ProgramRepository interface {
	Create(ctx context.Context, program *model.Program) (*model.Program, error)
}

type Config struct {
	AdminEmail    string
	AdminPassword string
}

// Seeder bootstraps a fresh database: one admin account and a starter set
// of NGOs and programs. Every step checks before writing, so running it
// against an already seeded database is a no-op.
type Seeder struct {
	users    UserRepository
	ngos     NGORepository
	programs ProgramRepository
	config   Config
}

func NewSeeder(users UserRepository, ngos NGORepository, programs ProgramRepository, config Config) *Seeder {
	return &Seeder{
		users:    users,
		ngos:     ngos,
		programs: programs,
		config:   config,
	}
}

func (s *Seeder) Run(ctx context.Context) error {
	if err := s.seedAdmin(ctx); err != nil {
		return err
	}
	return s.seedSampleContent(ctx)
}

func (s *Seeder) seedAdmin(ctx context.Context) error {
	count, err := s.users.CountByRole(ctx, model.RoleAdmin)
	if err != nil {
		return fmt.Errorf("failed to count admin users: %w", err)
	}
	if count > 0 {
		logger.Info("admin account already exists, skipping")
		return nil
	}

	if s.config.AdminEmail == "" || s.config.AdminPassword == "" {
		return fmt.Errorf("admin email and password are required to seed the first admin")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.config.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &model.User{
		Name:         "Administrator",
		Email:        s.config.AdminEmail,
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
	}

	if _, err := s.users.Create(ctx, admin); err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logger.Info("seeded admin account", "email", s.config.AdminEmail)
	return nil
}

func (s *Seeder) seedSampleContent(ctx context.Context) error {
	count, err := s.ngos.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count ngos: %w", err)
	}
	if count > 0 {
		logger.Info("ngos already present, skipping sample content")
		return nil
	}

	now := time.Now()

	for _, sample := range sampleNGOs() {
		ngo, err := s.ngos.Create(ctx, sample.ngo)
		if err != nil {
			return fmt.Errorf("failed to seed ngo %q: %w", sample.ngo.Name, err)
		}

		for _, program := range sample.programs {
			program.NGOID = ngo.ID
			program.StartDate = now
			program.EndDate = now.AddDate(0, 6, 0)
			if _, err := s.programs.Create(ctx, program); err != nil {
				return fmt.Errorf("failed to seed program %q: %w", program.Title, err)
			}
		}

		logger.Info("seeded ngo", "name", ngo.Name, "programs", len(sample.programs))
	}

	return nil
}

type sampleNGO struct {
	ngo      *model.NGO
	programs []*model.Program
}

func goal(v float64) *float64 { return &v }

func sampleNGOs() []sampleNGO {
	return []sampleNGO{
		{
			ngo: &model.NGO{
				Name:         "Clearwater Initiative",
				Description:  "Builds and maintains wells in drought-affected regions.",
				Website:      "https://clearwater.example.org",
				ContactEmail: "hello@clearwater.example.org",
			},
			programs: []*model.Program{
				{
					Title:       "Community Wells 2026",
					Description: "Fund ten new wells and their first year of maintenance.",
					Location:    "Turkana County",
					GoalAmount:  goal(50000),
				},
				{
					Title:       "Rainwater Harvesting Pilot",
					Description: "Rooftop collection systems for twenty schools.",
					Location:    "Kitui County",
					GoalAmount:  goal(12000),
				},
			},
		},
		{
			ngo: &model.NGO{
				Name:         "Books Forward",
				Description:  "Stocks rural school libraries and trains volunteer librarians.",
				Website:      "https://booksforward.example.org",
				ContactEmail: "contact@booksforward.example.org",
			},
			programs: []*model.Program{
				{
					Title:       "Mobile Library Van",
					Description: "A van serving twelve villages on a weekly route.",
					Location:    "Eastern Province",
					GoalAmount:  goal(30000),
				},
			},
		},
	}
}
