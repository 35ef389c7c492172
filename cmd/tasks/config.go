package main

import (
	"context"
	"os"

	"github.com/charmbracelet/log"

	"task-tracker/internal/api"
	"task-tracker/internal/config"
	"task-tracker/internal/repository"
	"task-tracker/internal/store"
	"task-tracker/internal/validation"
)

// Environment represents the current environment
type Environment string

const (
	Development Environment = "development"
	Testing     Environment = "testing"
	Production  Environment = "production"
)

// getEnvironment determines the current environment from TASKS_ENV
func getEnvironment() Environment {
	switch os.Getenv("TASKS_ENV") {
	case "development":
		return Development
	case "testing":
		return Testing
	default:
		// Default to production for safety
		return Production
	}
}

// createRepository opens the backing store for the environment. Testing
// uses an in-memory database so nothing touches the working directory.
func createRepository(ctx context.Context, env Environment, cfg *config.Config, logger *log.Logger) (repository.Repository, error) {
	if env == Testing {
		return config.CreateTestRepository(ctx, logger)
	}
	return config.CreateRepository(ctx, cfg, logger)
}

// newAPI wires repository, store and API from the final configuration
func newAPI(env Environment) func(ctx context.Context, cfg *config.Config, logger *log.Logger) (api.API, error) {
	return func(ctx context.Context, cfg *config.Config, logger *log.Logger) (api.API, error) {
		policy, err := store.ParseIDPolicy(cfg.Storage.IDPolicy)
		if err != nil {
			return nil, err
		}

		repo, err := createRepository(ctx, env, cfg, logger)
		if err != nil {
			return nil, err
		}

		s := store.New(repo,
			store.WithIDPolicy(policy),
			store.WithValidator(validation.NewTaskValidatorWithConfig(cfg)),
			store.WithLogger(logger),
		)
		if err := s.Load(ctx); err != nil {
			repo.Close()
			return nil, err
		}

		logger.Debug("task store ready", "env", env, "path", cfg.GetStoragePath(), "tasks", s.Len())
		return api.New(s, nil), nil
	}
}
