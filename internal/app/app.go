// -----------------------------------------------------------------------
// Last Modified: Monday, 1st September 2025
// -----------------------------------------------------------------------

package app

import (
	"fmt"
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/twokomi/oneclick-reports-backend/internal/common"
	"github.com/twokomi/oneclick-reports-backend/internal/feeds/ecos"
	"github.com/twokomi/oneclick-reports-backend/internal/feeds/fred"
	"github.com/twokomi/oneclick-reports-backend/internal/handlers"
	"github.com/twokomi/oneclick-reports-backend/internal/interfaces"
	"github.com/twokomi/oneclick-reports-backend/internal/services/builder"
	"github.com/twokomi/oneclick-reports-backend/internal/services/composer"
	"github.com/twokomi/oneclick-reports-backend/internal/services/export"
	"github.com/twokomi/oneclick-reports-backend/internal/services/llm"
	"github.com/twokomi/oneclick-reports-backend/internal/services/macro"
	"github.com/twokomi/oneclick-reports-backend/internal/services/news"
	"github.com/twokomi/oneclick-reports-backend/internal/services/notion"
	"github.com/twokomi/oneclick-reports-backend/internal/services/reports"
	"github.com/twokomi/oneclick-reports-backend/internal/services/scheduler"
	"github.com/twokomi/oneclick-reports-backend/internal/storage"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	// Storage
	ReportStorage interfaces.ReportStorage

	// Source feeds and pipeline services
	NewsAggregator *news.Aggregator
	MacroEnricher  *macro.Enricher
	Builder        *builder.Builder
	Composer       *composer.Composer
	ReportService  *reports.Service

	// Optional collaborators
	Scheduler *scheduler.Scheduler
	Publisher *notion.Publisher

	// HTTP handlers
	APIHandler    *handlers.APIHandler
	ReportHandler *handlers.ReportHandler
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	if err := app.initStorage(); err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	if err := app.initServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.initHandlers()

	if err := app.Scheduler.Start(); err != nil {
		return nil, fmt.Errorf("failed to start scheduler: %w", err)
	}

	logger.Info().
		Str("storage", cfg.Storage.Type).
		Str("llm_provider", string(cfg.LLM.DefaultProvider)).
		Bool("scheduler_enabled", cfg.Scheduler.Enabled).
		Msg("Application initialization complete")

	return app, nil
}

func (a *App) initStorage() error {
	store, err := storage.NewReportStorage(a.Logger, a.Config)
	if err != nil {
		return err
	}
	a.ReportStorage = store

	a.Logger.Debug().
		Str("storage", a.Config.Storage.Type).
		Msg("Storage layer initialized")
	return nil
}

// initServices initializes the report pipeline in dependency order:
// feeds, aggregation stages, composer, orchestration, scheduler.
func (a *App) initServices() error {
	a.NewsAggregator = news.NewAggregator(&a.Config.News, a.Logger)

	fredClient := fred.NewClient(a.Config.FRED.APIKey,
		fred.WithBaseURL(a.Config.FRED.BaseURL),
		fred.WithHTTPClient(&http.Client{Timeout: a.Config.FRED.Timeout}),
		fred.WithRateLimit(a.Config.FRED.RateLimit),
		fred.WithLogger(a.Logger),
	)
	ecosClient := ecos.NewClient(a.Config.ECOS.APIKey,
		ecos.WithBaseURL(a.Config.ECOS.BaseURL),
		ecos.WithHTTPClient(&http.Client{Timeout: a.Config.ECOS.Timeout}),
		ecos.WithLogger(a.Logger),
	)
	a.MacroEnricher = macro.NewEnricher(fredClient, ecosClient, a.Logger)

	a.Builder = builder.New(a.NewsAggregator, a.MacroEnricher, &a.Config.Profile, a.Logger)

	// An unconfigured provider still constructs; analysis mode degrades
	// at request time instead of blocking startup.
	generator, err := llm.NewTextGenerator(a.Config, a.Logger)
	if err != nil {
		return err
	}
	a.Composer = composer.New(generator, a.Logger)

	a.ReportService = reports.NewService(a.Builder, a.Composer, a.ReportStorage, a.Logger)

	a.Scheduler = scheduler.New(a.ReportService, &a.Config.Scheduler, a.Logger)
	a.Publisher = notion.NewPublisher(&a.Config.Notion, a.Logger)

	a.Logger.Debug().Msg("Report pipeline initialized")
	return nil
}

func (a *App) initHandlers() {
	a.APIHandler = handlers.NewAPIHandler(a.Logger)
	a.ReportHandler = handlers.NewReportHandler(
		a.ReportService,
		export.NewMarkdownExporter(a.Config.Export.Dir, a.Logger),
		export.NewPDFExporter(a.Config.Export.Dir, a.Logger),
		a.Publisher,
		a.Logger,
	)
}

// Close closes all application resources
func (a *App) Close() error {
	if a.Scheduler != nil {
		a.Scheduler.Stop()
	}

	if a.ReportStorage != nil {
		if err := a.ReportStorage.Close(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
		a.Logger.Info().Msg("Storage closed")
	}

	return nil
}
