package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	"cvmatch-backend/internal/analyses"
	"cvmatch-backend/internal/content"
	"cvmatch-backend/internal/coverletters"
	"cvmatch-backend/internal/ingest"
	"cvmatch-backend/internal/jobdescriptions"
	"cvmatch-backend/internal/llm"
	"cvmatch-backend/internal/llm/gemini"
	"cvmatch-backend/internal/llm/openai"
	"cvmatch-backend/internal/resumes"
	"cvmatch-backend/internal/shared/config"
	"cvmatch-backend/internal/shared/storage/db"
	"cvmatch-backend/internal/shared/storage/object"
	localstore "cvmatch-backend/internal/shared/storage/object/local"
	s3store "cvmatch-backend/internal/shared/storage/object/s3"
	"cvmatch-backend/internal/shared/telemetry"
)

// App holds constructor-injected dependencies shared by the API server and
// the extraction worker. Without DATABASE_URL the repos run in memory, which
// keeps local development and tests self-contained.
type App struct {
	Config config.Config
	DB     *sql.DB
	Store  object.ObjectStore
	LLM    llm.Client

	ResumesRepo         resumes.Repo
	ContentsRepo        content.Repo
	JobDescriptionsRepo jobdescriptions.Repo
	AnalysesRepo        analyses.Repo
	CoverLettersRepo    coverletters.Repo

	ResumesService         *resumes.Service
	JobDescriptionsService *jobdescriptions.Service
	AnalysesService        *analyses.Service
	CoverLettersService    *coverletters.Service
	Orchestrator           *ingest.Orchestrator

	ResumesHandler         *resumes.Handler
	JobDescriptionsHandler *jobdescriptions.Handler
	AnalysesHandler        *analyses.Handler
	CoverLettersHandler    *coverletters.Handler
}

// Build prepares all dependencies. dbOpts selects pool sizing for the calling
// process (server vs worker).
func Build(ctx context.Context, cfg config.Config, dbOpts db.Options) (*App, error) {
	sqlDB, err := buildDB(ctx, cfg, dbOpts)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	client, err := buildLLM(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{Config: cfg, DB: sqlDB, Store: store, LLM: client}
	buildRepos(app)
	buildServices(app)
	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config, opts db.Options) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		telemetry.Info("bootstrap.memory_mode", map[string]any{"reason": "DATABASE_URL not set"})
		return nil, nil
	}
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(opts))
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	if cfg.ObjectStoreType == "s3" {
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
	}
	return localstore.New(cfg.LocalStoreDir), nil
}

func buildLLM(ctx context.Context, cfg config.Config) (llm.Client, error) {
	switch cfg.LLMProvider {
	case "gemini":
		return gemini.NewClient(ctx, os.Getenv("GEMINI_API_KEY"), cfg.LLMModel)
	default:
		return openai.NewClient(os.Getenv("OPENAI_API_KEY"), cfg.LLMModel)
	}
}

func buildRepos(app *App) {
	if app.DB != nil {
		app.ResumesRepo = &resumes.PGRepo{DB: app.DB}
		app.ContentsRepo = &content.PGRepo{DB: app.DB}
		app.JobDescriptionsRepo = &jobdescriptions.PGRepo{DB: app.DB}
		app.AnalysesRepo = &analyses.PGRepo{DB: app.DB}
		app.CoverLettersRepo = &coverletters.PGRepo{DB: app.DB}
		return
	}
	app.ResumesRepo = resumes.NewMemoryRepo()
	app.ContentsRepo = content.NewMemoryRepo()
	app.JobDescriptionsRepo = jobdescriptions.NewMemoryRepo()
	app.AnalysesRepo = analyses.NewMemoryRepo()
	app.CoverLettersRepo = coverletters.NewMemoryRepo()
}

func buildServices(app *App) {
	app.ResumesService = &resumes.Service{
		Repo:            app.ResumesRepo,
		Contents:        app.ContentsRepo,
		Store:           app.Store,
		PresignExpiry:   app.Config.PresignExpiry,
		ProcessingGrace: app.Config.ProcessingGrace,
	}
	app.JobDescriptionsService = &jobdescriptions.Service{
		Repo:      app.JobDescriptionsRepo,
		Validator: &jobdescriptions.Validator{LLM: app.LLM},
	}
	app.AnalysesService = &analyses.Service{
		Repo:            app.AnalysesRepo,
		Resumes:         app.ResumesRepo,
		JobDescriptions: app.JobDescriptionsRepo,
		Contents:        app.ContentsRepo,
		Engine:          &analyses.Engine{LLM: app.LLM},
	}
	app.CoverLettersService = &coverletters.Service{
		Repo:            app.CoverLettersRepo,
		Resumes:         app.ResumesRepo,
		JobDescriptions: app.JobDescriptionsRepo,
		Contents:        app.ContentsRepo,
		Analyses:        app.AnalysesRepo,
		LLM:             app.LLM,
	}
	app.Orchestrator = &ingest.Orchestrator{
		Resumes:    app.ResumesRepo,
		Contents:   app.ContentsRepo,
		Store:      app.Store,
		Parser:     &ingest.Parser{LLM: app.LLM},
		Summarizer: &ingest.Summarizer{LLM: app.LLM},
	}

	app.ResumesHandler = resumes.NewHandler(app.ResumesService)
	app.JobDescriptionsHandler = jobdescriptions.NewHandler(app.JobDescriptionsService)
	app.AnalysesHandler = analyses.NewHandler(app.AnalysesService)
	app.CoverLettersHandler = coverletters.NewHandler(app.CoverLettersService)
}

// Close releases process-wide resources.
func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
	}
}
