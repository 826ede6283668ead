// Package app assembles the simulator services from configuration. Both the
// API server and the terminal client start from here.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/zhouzirui/interview-sim/backend/internal/config"
	"github.com/zhouzirui/interview-sim/backend/internal/model/scenario"
	"github.com/zhouzirui/interview-sim/backend/internal/service/convai"
	"github.com/zhouzirui/interview-sim/backend/internal/service/evaluation"
	"github.com/zhouzirui/interview-sim/backend/internal/service/simulation"
	"github.com/zhouzirui/interview-sim/backend/internal/storage/kv"
	"github.com/zhouzirui/interview-sim/backend/internal/storage/snapshot"
)

// App holds the long-lived services.
type App struct {
	Scenarios   scenario.Store
	Simulations *simulation.Service
	Evaluator   *evaluation.Service

	backend kv.Store
}

// New builds every service described by cfg.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	scenarios, err := loadScenarios(cfg.Session.ScenariosFile)
	if err != nil {
		return nil, err
	}

	backend, err := OpenStore(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}

	if !cfg.Convai.Enabled() {
		log.Warn().Str("component", "app").Msg("CONVAI_API_KEY not set, persona exchanges will be rejected by the backend")
	}
	client := convai.NewClient(convai.Config{
		APIKey:  cfg.Convai.APIKey,
		URL:     cfg.Convai.URL,
		Timeout: cfg.Convai.Timeout,
	}, nil)

	evaluator, err := newEvaluator(ctx, cfg.AI)
	if err != nil {
		_ = backend.Close()
		return nil, err
	}

	sims := simulation.NewService(simulation.Deps{
		Scenarios:     scenarios,
		Exchanger:     client,
		Snapshots:     snapshot.New(backend, cfg.Storage.KeyPrefix),
		Scorer:        evaluator,
		ErrorCooldown: cfg.Session.ErrorCooldown,
	})

	return &App{
		Scenarios:   scenarios,
		Simulations: sims,
		Evaluator:   evaluator,
		backend:     backend,
	}, nil
}

// Close releases the storage backend and ends every simulation.
func (a *App) Close() error {
	a.Simulations.Close()
	return a.backend.Close()
}

// OpenStore opens the snapshot backend selected by cfg.Driver.
func OpenStore(ctx context.Context, cfg config.StorageConfig) (kv.Store, error) {
	switch cfg.Driver {
	case config.StorageMemory:
		log.Warn().Str("component", "app").Msg("using in-memory snapshot storage, sessions will not survive a restart")
		return kv.NewMemoryStore(), nil
	case config.StorageRedis:
		store, err := kv.NewRedisStore(ctx, kv.RedisSettings{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, err
		}
		log.Info().Str("component", "app").Str("addr", cfg.RedisAddr).Msg("redis snapshot storage ready")
		return store, nil
	case config.StorageSQLite, "":
		if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create sqlite directory: %w", err)
			}
		}
		dsn, err := kv.SQLiteDSNForFile(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		store, err := kv.NewSQLiteStore(dsn)
		if err != nil {
			return nil, err
		}
		log.Info().Str("component", "app").Str("path", cfg.SQLitePath).Msg("sqlite snapshot storage ready")
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}

func loadScenarios(path string) (scenario.Store, error) {
	if path == "" {
		return scenario.NewMemoryStore(scenario.Seed()), nil
	}
	items, err := scenario.LoadFile(path)
	if err != nil {
		return nil, err
	}
	log.Info().Str("component", "app").Str("path", path).Int("count", len(items)).Msg("scenario catalog loaded")
	return scenario.NewMemoryStore(items), nil
}

func newEvaluator(ctx context.Context, cfg config.AIConfig) (*evaluation.Service, error) {
	if !cfg.Enabled() {
		log.Warn().Str("component", "app").Msg("Ark 凭证未配置，评估将返回降级结果")
		return evaluation.NewService(ctx, nil)
	}

	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		log.Warn().Str("component", "app").Err(err).Msg("failed to initialize evaluator model, continuing with degraded evaluation")
		return evaluation.NewService(ctx, nil)
	}

	svc, err := evaluation.NewService(ctx, chatModel)
	if err != nil {
		return nil, err
	}
	log.Info().Str("component", "app").Str("model", cfg.Model).Msg("evaluator initialized")
	return svc, nil
}
