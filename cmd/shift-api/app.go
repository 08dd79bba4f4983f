package main

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/shiftwise-api/internal/handler"
	"github.com/noah-isme/shiftwise-api/internal/models"
	"github.com/noah-isme/shiftwise-api/internal/repository"
	"github.com/noah-isme/shiftwise-api/internal/service"
	"github.com/noah-isme/shiftwise-api/pkg/cache"
	"github.com/noah-isme/shiftwise-api/pkg/config"
	"github.com/noah-isme/shiftwise-api/pkg/database"
	"github.com/noah-isme/shiftwise-api/pkg/fixtures"
	"github.com/noah-isme/shiftwise-api/pkg/jobs"
	"github.com/noah-isme/shiftwise-api/pkg/storage"
)

// application holds the wired services and everything Close must release.
type application struct {
	store    *service.ShiftStore
	metrics  *service.MetricsService
	handlers handler.Handlers

	db     *sqlx.DB
	redis  *redis.Client
	queue  *jobs.Queue
	logger *zap.Logger
}

// dataSources are the collaborators behind the store and the query facade.
type dataSources struct {
	seed      []models.Shift
	persist   service.ShiftPersister
	directory service.EmployeeDirectory
	clocks    service.ClockEventSource
	leave     service.LeaveSource
}

func build(ctx context.Context, cfg *config.Config, logr *zap.Logger) (*application, error) {
	app := &application{metrics: service.NewMetricsService(), logger: logr}
	checks := map[string]handler.ReadinessCheck{}
	validate := validator.New()

	sources, err := app.loadSources(ctx, cfg, checks)
	if err != nil {
		app.Close()
		return nil, err
	}

	app.store = service.NewShiftStore(service.InstrumentPersister(sources.persist, app.metrics))
	if err := app.store.Load(sources.seed); err != nil {
		app.Close()
		return nil, fmt.Errorf("load shifts: %w", err)
	}

	cacheRepo, err := app.cacheRepository(ctx, cfg, checks)
	if err != nil {
		app.Close()
		return nil, err
	}
	cacheSvc := service.NewCacheService(cacheRepo, app.metrics, cfg.Attendance.SummaryCacheTTL, logr)

	assignment := service.NewAssignmentService(app.store, sources.directory, cacheSvc, app.metrics, logr)
	shifts := service.NewShiftService(app.store, assignment, cacheSvc, app.metrics, validate, logr)
	queries := service.NewQueryService(app.store, sources.directory, sources.clocks, sources.leave, cacheSvc, app.metrics, service.QueryOptions{
		ToleranceMinutes: cfg.Attendance.ToleranceMinutes,
		SummaryTTL:       cfg.Attendance.SummaryCacheTTL,
	}, logr)
	clocks := service.NewClockEventService(sources.clocks, sources.directory, cacheSvc, validate, logr)

	today := func() models.CalendarDate { return models.DateOf(time.Now()) }
	app.handlers = handler.Handlers{
		Shifts:     handler.NewShiftHandler(shifts),
		Schedule:   handler.NewScheduleHandler(queries, today),
		Attendance: handler.NewAttendanceHandler(queries, clocks, service.NewExportService(queries, nil, nil, service.ExportConfig{APIPrefix: cfg.APIPrefix}, logr), today),
		Ops:        handler.NewMetricsHandler(app.metrics, checks),
	}

	if cfg.Reports.Enabled {
		reports, err := app.startReports(ctx, cfg, queries, validate)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.handlers.Reports = handler.NewReportHandler(reports)
	}
	return app, nil
}

// loadSources prefers Postgres and falls back to the fixture files.
func (a *application) loadSources(ctx context.Context, cfg *config.Config, checks map[string]handler.ReadinessCheck) (*dataSources, error) {
	if cfg.Database.Enabled {
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		a.db = db
		checks["postgres"] = db.PingContext

		shiftRepo := repository.NewShiftRepository(db)
		start := time.Now()
		seed, err := shiftRepo.ListAll(ctx)
		a.metrics.ObserveDBQuery("shift_list_all", time.Since(start))
		if err != nil {
			return nil, fmt.Errorf("read shifts: %w", err)
		}
		a.logger.Info("shifts loaded from postgres", zap.Int("count", len(seed)))
		return &dataSources{
			seed:      seed,
			persist:   shiftRepo,
			directory: repository.NewEmployeeRepository(db),
			clocks:    repository.NewClockEventRepository(db),
			leave:     repository.NewLeaveRepository(db),
		}, nil
	}

	var doc fixtures.Document
	if cfg.Fixtures.Dir != "" {
		loaded, err := fixtures.Load(cfg.Fixtures.Dir)
		if err != nil {
			return nil, fmt.Errorf("load fixtures: %w", err)
		}
		doc = loaded
	}
	source, err := fixtures.NewSource(doc)
	if err != nil {
		return nil, err
	}
	a.logger.Info("fixtures loaded",
		zap.String("dir", cfg.Fixtures.Dir),
		zap.Int("employees", len(doc.Employees)),
		zap.Int("shifts", len(doc.Shifts)))
	return &dataSources{seed: doc.Shifts, directory: source, clocks: source, leave: source}, nil
}

func (a *application) cacheRepository(ctx context.Context, cfg *config.Config, checks map[string]handler.ReadinessCheck) (service.CacheRepository, error) {
	if !cfg.Redis.Enabled {
		return repository.NewMemoryCacheRepository(), nil
	}
	client, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}
	a.redis = client
	checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
	return repository.NewCacheRepository(client), nil
}

func (a *application) startReports(ctx context.Context, cfg *config.Config, queries *service.QueryService, validate *validator.Validate) (*service.ReportService, error) {
	files, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
	if err != nil {
		return nil, fmt.Errorf("init report storage: %w", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)
	exporter := service.NewExportService(queries, files, signer, service.ExportConfig{
		APIPrefix: cfg.APIPrefix,
		ResultTTL: cfg.Reports.SignedURLTTL,
	}, a.logger)

	var repo service.ReportJobStore = repository.NewMemoryReportRepository()
	if a.db != nil {
		repo = repository.NewReportRepository(a.db)
	}

	worker := service.NewReportWorker(repo, exporter, a.metrics, cfg.Reports.WorkerRetries, a.logger)
	a.queue = jobs.NewQueue("reports", worker.Handle, jobs.QueueConfig{
		Workers:    cfg.Reports.WorkerConcurrency,
		MaxRetries: cfg.Reports.WorkerRetries,
		Logger:     a.logger,
	})
	a.queue.Start(ctx)

	reports := service.NewReportService(repo, a.queue, exporter, validate, a.logger, service.ReportServiceConfig{
		ResultTTL:       cfg.Reports.SignedURLTTL,
		CleanupInterval: cfg.Reports.CleanupInterval,
	})
	reports.RecoverPendingJobs(ctx)
	reports.StartCleanup(ctx)
	return reports, nil
}

// Close stops the worker pool before releasing the connections it may use.
func (a *application) Close() {
	if a.queue != nil {
		a.queue.Stop()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("close redis", zap.Error(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("close postgres", zap.Error(err))
		}
	}
}
