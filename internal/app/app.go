package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/nketchum/sidebet/external/notifier"
	"github.com/nketchum/sidebet/external/oddsfeed"
	"github.com/nketchum/sidebet/external/scoreboard"
	"github.com/nketchum/sidebet/internal/config"
	"github.com/nketchum/sidebet/internal/domain/bet"
	"github.com/nketchum/sidebet/internal/domain/game"
	"github.com/nketchum/sidebet/internal/domain/identity"
	"github.com/nketchum/sidebet/internal/domain/mapping"
	"github.com/nketchum/sidebet/internal/domain/schedule"
	"github.com/nketchum/sidebet/internal/infrastructure/repository/memory"
	"github.com/nketchum/sidebet/internal/infrastructure/repository/postgres"
	"github.com/nketchum/sidebet/internal/platform/cache"
	idgen "github.com/nketchum/sidebet/internal/platform/id"
	"github.com/nketchum/sidebet/internal/platform/logging"
	"github.com/nketchum/sidebet/internal/platform/resilience"
	"github.com/nketchum/sidebet/internal/usecase"
)

// App wires config, storage, providers and services into one worker
// runtime.
type App struct {
	Config config.Config
	Logger *logging.Logger

	Schedule   *usecase.ScheduleService
	Wagers     *usecase.WagerService
	Repairs    *usecase.RepairService
	ScoreSync  *usecase.ScoreSyncService
	Settlement *usecase.SettlementService

	db *sqlx.DB
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	var (
		gameRepo    game.Repository
		mappingRepo mapping.Repository
		betRepo     bet.Repository
		db          *sqlx.DB
	)
	switch cfg.StorageDriver {
	case config.StorageMemory:
		gameRepo = memory.NewGameRepository(memory.SeedGames())
		mappingRepo = memory.NewMappingRepository(nil)
		betRepo = memory.NewBetRepository(memory.SeedBets())
	case config.StoragePostgres:
		var err error
		db, err = openDB(cfg)
		if err != nil {
			return nil, err
		}
		gameRepo = postgres.NewGameRepository(db)
		mappingRepo = postgres.NewMappingRepository(db)
		betRepo = postgres.NewBetRepository(db)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}

	var store *cache.Store
	if cfg.CacheEnabled {
		store = cache.NewStore(cfg.CacheTTL)
	}

	scoreboardClient := scoreboard.NewClient(scoreboard.ClientConfig{
		HTTPClient: &http.Client{
			Timeout:   cfg.ScoreboardTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		BaseURL:         cfg.ScoreboardBaseURL,
		Timeout:         cfg.ScoreboardTimeout,
		RateLimitPerSec: cfg.ScoreboardRateLimitPerSec,
		Logger:          logger,
		Cache:           store,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.ScoreboardCircuitEnabled,
			FailureThreshold: cfg.ScoreboardCircuitFailureCount,
			OpenTimeout:      cfg.ScoreboardCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.ScoreboardCircuitHalfOpenMax,
		},
	})

	var oddsProvider usecase.OddsProvider = disabledOddsFeed{}
	if cfg.OddsFeedEnabled {
		oddsProvider = oddsfeed.NewClient(oddsfeed.ClientConfig{
			BaseURL:         cfg.OddsFeedBaseURL,
			APIKey:          cfg.OddsFeedAPIKey,
			SportKey:        cfg.OddsFeedSportKey,
			Timeout:         cfg.OddsFeedTimeout,
			RateLimitPerSec: cfg.OddsFeedRateLimitPerSec,
			Logger:          logger,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.OddsFeedCircuitEnabled,
				FailureThreshold: cfg.OddsFeedCircuitFailureCount,
				OpenTimeout:      cfg.OddsFeedCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.OddsFeedCircuitHalfOpenMax,
			},
		})
	}

	var settlementNotifier usecase.SettlementNotifier
	if cfg.NotifierEnabled {
		webhook, err := notifier.NewWebhookNotifier(notifier.WebhookConfig{
			WebhookURL: cfg.NotifierWebhookURL,
			Token:      cfg.NotifierToken,
			Timeout:    cfg.NotifierTimeout,
		}, logger)
		if err != nil {
			closeDB(db, logger)
			return nil, fmt.Errorf("build settlement notifier: %w", err)
		}
		settlementNotifier = webhook
	}

	calendar := schedule.NewCalendar(cfg.Season, cfg.WeekOneStart)

	repairs := usecase.NewRepairService(gameRepo, mappingRepo, scoreboardClient, oddsProvider, logger)
	repairs.SetThresholds(cfg.MatchMinConfidence, cfg.MatchFallbackConfidence)
	repairs.SetMaxWorkers(cfg.RepairWorkers)

	settlement := usecase.NewSettlementService(betRepo, gameRepo, settlementNotifier, pushPolicyFromConfig(cfg.PushPolicy), logger)
	settlement.SetMaxConcurrency(cfg.SettleWorkers)

	return &App{
		Config:     cfg,
		Logger:     logger,
		Schedule:   usecase.NewScheduleService(gameRepo, scoreboardClient, calendar, logger),
		Wagers:     usecase.NewWagerService(betRepo, gameRepo, idgen.NewRandomGenerator(), logger),
		Repairs:    repairs,
		ScoreSync:  usecase.NewScoreSyncService(gameRepo, mappingRepo, scoreboardClient, logger),
		Settlement: settlement,
		db:         db,
	}, nil
}

// Close releases the storage handle. Safe to call on a memory-backed app.
func (a *App) Close() error {
	if a == nil || a.db == nil {
		return nil
	}
	return a.db.Close()
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	dbURL := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
	db, err := otelsqlx.Connect("postgres", dbURL,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

func closeDB(db *sqlx.DB, logger *logging.Logger) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		logger.Warn("close database", "error", err)
	}
}

func pushPolicyFromConfig(value string) usecase.PushPolicy {
	if value == config.PushPolicyRefunds {
		return usecase.PushRefunds
	}
	return usecase.PushLoses
}

// disabledOddsFeed stands in when no odds provider is configured. Repair
// batches record the absence as an issue instead of failing.
type disabledOddsFeed struct{}

func (disabledOddsFeed) FetchCandidates(context.Context) ([]identity.Identity, error) {
	return nil, fmt.Errorf("%w: odds feed is not configured", usecase.ErrDependencyUnavailable)
}
