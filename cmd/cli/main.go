package main

import (
	"context"
	"os"
	"strings"

	"github.com/givehub/donation-platform/internal/config"
	"github.com/givehub/donation-platform/internal/repository"
	"github.com/givehub/donation-platform/internal/seed"
	"github.com/givehub/donation-platform/pkg/logger"
	"github.com/givehub/donation-platform/pkg/pg"
)

// main applies pending migrations and, with --seed, bootstraps the admin
// account and sample content.
//
//	cli --env=.env --dir=./migrations --seed
func main() {
	err := config.Load(getEnvPath())
	if err != nil {
		logger.Error("failed to load config", "error", err)
	}

	writeConf := pg.Config{
		User:     config.Get().PostgresWriteUser,
		Host:     config.Get().PostgresWriteHost,
		Port:     config.Get().PostgresWritePort,
		Password: config.Get().PostgresWritePassword,
		Database: config.Get().PostgresWriteDatabase,
	}

	err = pg.Migrate(writeConf, getMigrationPath())
	if err != nil {
		logger.Error("migration: error running migrations", "error", err)
		return
	}
	logger.Info("migrations applied")

	if !hasArg("--seed") {
		return
	}

	db, err := pg.CreateReadWrite(writeConf, writeConf, false)
	if err != nil {
		logger.Error("failed connecting to pg", "error", err)
		return
	}

	seeder := seed.NewSeeder(
		repository.NewUserRepository(db),
		repository.NewNGORepository(db),
		repository.NewProgramRepository(db),
		seed.Config{
			AdminEmail:    config.Get().SeedAdminEmail,
			AdminPassword: config.Get().SeedAdminPassword,
		},
	)

	if err := seeder.Run(context.Background()); err != nil {
		logger.Error("seed: error seeding database", "error", err)
		return
	}
	logger.Info("seed complete")
}

func hasArg(name string) bool {
	for _, v := range os.Args {
		if v == name {
			return true
		}
	}
	return false
}

func getEnvPath() string {
	for _, v := range os.Args {
		if strings.Contains(v, "--env=") {
			s := strings.Split(v, "=")
			if _, err := os.Open(s[1]); err != nil {
				logger.Error("failed to open the passed env file, got error" + err.Error())
				return ""
			}
			return s[1]
		}
	}
	if _, err := os.Open(".env"); err != nil {
		logger.Error("failed to open the passed env file, got error" + err.Error())
		return ""
	}
	return ".env"
}

func getMigrationPath() string {
	for _, v := range os.Args {
		if strings.Contains(v, "--dir=") {
			s := strings.Split(v, "=")
			if _, err := os.Open(s[1]); err != nil {
				logger.Error("failed to open the passed migrations dir, got error" + err.Error())
				return ""
			}
			return s[1]
		}
	}
	if _, err := os.Open("./migrations"); err != nil {
		logger.Error("failed to open the passed migrations dir, got error" + err.Error())
		return ""
	}
	return "./migrations"
}
