package main

import (
	"context"
	"fmt"
	"log/slog"

	boltadapter "github.com/ericfisherdev/githubexplorer/internal/adapter/driven/bolt"
	githubadapter "github.com/ericfisherdev/githubexplorer/internal/adapter/driven/github"
	"github.com/ericfisherdev/githubexplorer/internal/adapter/driven/memory"
	sqliteadapter "github.com/ericfisherdev/githubexplorer/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/githubexplorer/internal/application"
	"github.com/ericfisherdev/githubexplorer/internal/config"
	"github.com/ericfisherdev/githubexplorer/internal/domain/port/driven"
)

// app holds the wired services shared by every subcommand.
type app struct {
	cfg      *config.Config
	explorer *application.ExplorerService
	detail   *application.DetailService
	close    func()
}

// newApp loads configuration, opens the configured store, reads the
// persisted list and wires the services around it.
func newApp(ctx context.Context, configFile string, logger *slog.Logger) (*app, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	logger.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"storage_driver", cfg.StorageDriver,
		"request_timeout", cfg.RequestTimeout,
		"github_token_set", cfg.HasGitHubToken(),
	)

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	ghClient, err := githubadapter.NewClient(cfg.GitHubToken, cfg.GitHubAPIURL, cfg.RequestTimeout)
	if err != nil {
		closeStore()
		return nil, err
	}

	list, err := application.LoadRepositoryList(ctx, store, logger)
	if err != nil {
		closeStore()
		return nil, err
	}
	logger.Info("repository list loaded", "repositories", list.Len())

	return &app{
		cfg:      cfg,
		explorer: application.NewExplorerService(ghClient, list, logger),
		detail:   application.NewDetailService(ghClient, cfg.IssuesLimit, logger),
		close:    closeStore,
	}, nil
}

// openStore opens the key-value backend selected by storage_driver and
// returns it with its close function.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (driven.KeyValueStore, func(), error) {
	switch cfg.StorageDriver {
	case config.StorageSQLite:
		db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		closeDB := func() {
			if closeErr := db.Close(); closeErr != nil {
				logger.Error("error closing database", "error", closeErr)
			}
		}
		logger.Info("database opened", "path", db.Path())

		if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
			closeDB()
			return nil, nil, err
		}
		logger.Info("migrations complete")
		return sqliteadapter.NewKVStore(db), closeDB, nil

	case config.StorageBolt:
		store, err := boltadapter.Open(cfg.BoltPath)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("bolt store opened", "path", cfg.BoltPath)
		return store, func() {
			if closeErr := store.Close(); closeErr != nil {
				logger.Error("error closing bolt store", "error", closeErr)
			}
		}, nil

	case config.StorageMemory:
		logger.Warn("memory storage selected, the repository list will not survive a restart")
		return memory.NewKVStore(), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
