package config

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"task-tracker/internal/repository"
	"task-tracker/internal/repository/flatfile"
	"task-tracker/internal/repository/sqlite"
)

// CreateRepository creates the repository selected by the storage configuration
func CreateRepository(ctx context.Context, config *Config, logger *log.Logger) (repository.Repository, error) {
	path := config.GetStoragePath()

	switch config.Storage.Backend {
	case BackendSQLite:
		if err := os.MkdirAll(config.Storage.Dir, os.FileMode(config.Storage.DirPermissions)); err != nil {
			return nil, fmt.Errorf("failed to create storage directory: %w", err)
		}
		repo, err := sqlite.New(ctx, path, sqlite.Options{
			SkipMalformed: config.Storage.SkipMalformed,
			Logger:        logger,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		return repo, nil

	case BackendFlatFile:
		codec, err := flatfile.CodecByName(config.Storage.Format)
		if err != nil {
			return nil, err
		}
		return flatfile.New(path, flatfile.Options{
			Codec:           codec,
			SkipMalformed:   config.Storage.SkipMalformed,
			FilePermissions: os.FileMode(config.Storage.FilePermissions),
			DirPermissions:  os.FileMode(config.Storage.DirPermissions),
			Logger:          logger,
		}), nil

	default:
		return nil, &ConfigError{Field: "storage.backend", Message: "backend must be flatfile or sqlite"}
	}
}

// CreateTestRepository creates an in-memory repository for testing
func CreateTestRepository(ctx context.Context, logger *log.Logger) (repository.Repository, error) {
	repo, err := sqlite.New(ctx, sqlite.MemoryPath, sqlite.Options{Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize test database: %w", err)
	}
	return repo, nil
}
