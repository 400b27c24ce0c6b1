package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/coursebook-api/api/swagger"
	"github.com/noah-isme/coursebook-api/internal/handler"
	internalmiddleware "github.com/noah-isme/coursebook-api/internal/middleware"
	"github.com/noah-isme/coursebook-api/internal/repository"
	"github.com/noah-isme/coursebook-api/internal/service"
	"github.com/noah-isme/coursebook-api/pkg/cache"
	"github.com/noah-isme/coursebook-api/pkg/config"
	"github.com/noah-isme/coursebook-api/pkg/jobs"
	"github.com/noah-isme/coursebook-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/coursebook-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/coursebook-api/pkg/middleware/requestid"
	"github.com/noah-isme/coursebook-api/pkg/storage"
)

// @title Coursebook API
// @version 1.0.0
// @description Courses, students, class events and remaining-session accounting.
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logr.Warn("unknown timezone, falling back to UTC", zap.String("timezone", cfg.Timezone), zap.Error(err))
		location = time.UTC
	}

	backend, storeClient, backendCloser, err := openBackend(ctx, cfg, logr)
	if err != nil {
		return fmt.Errorf("open record store: %w", err)
	}
	defer backendCloser.Close() //nolint:errcheck

	metrics := service.NewMetricsService()

	store := repository.NewDocumentStore(backend, cfg.Store.KeyPrefix, logr)
	store.SetObserver(metrics.ObserveStoreOperation)

	courseRepo := repository.NewCourseRepository(store)
	studentRepo := repository.NewStudentRepository(store)
	eventRepo := repository.NewScheduleEventRepository(store)
	reportRepo := repository.NewReportRepository(store)

	var cacheClient *redis.Client
	if cfg.Overview.CacheEnabled {
		cacheClient = storeClient
		if cacheClient == nil {
			cacheClient, err = cache.NewRedis(ctx, cfg.Redis)
			if err != nil {
				logr.Warn("overview cache disabled: redis unavailable", zap.Error(err))
			} else {
				defer cacheClient.Close() //nolint:errcheck
			}
		}
	}
	cacheRepo := repository.NewCacheRepository(cacheClient, cfg.Store.KeyPrefix+"cache:", logr)
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Overview.CacheTTL, logr, cacheClient != nil)

	courses := service.NewCourseService(courseRepo, cacheSvc, nil, logr, cfg.Limits.Courses)
	students := service.NewStudentService(studentRepo, courseRepo, cacheSvc, nil, logr, cfg.Limits.Students)
	schedule := service.NewScheduleService(eventRepo, courseRepo, studentRepo, cacheSvc, nil, logr, location, cfg.Limits.Events)
	attendance := service.NewAttendanceService(studentRepo, eventRepo, logr, service.AttendanceLimits{
		Students: cfg.Limits.Students,
		Events:   cfg.Limits.Events,
	})
	overview := service.NewOverviewService(studentRepo, courseRepo, eventRepo, cacheSvc, logr, location)

	handlers := handler.Handlers{
		Courses:    handler.NewCourseHandler(courses, schedule),
		Students:   handler.NewStudentHandler(students),
		Schedule:   handler.NewScheduleHandler(schedule),
		Attendance: handler.NewAttendanceHandler(attendance),
		Overview:   handler.NewOverviewHandler(overview),
		Metrics:    handler.NewMetricsHandler(metrics, store),
	}

	if cfg.Reports.Enabled {
		reports, queue, err := buildReports(ctx, cfg, logr, metrics, attendance, studentRepo, eventRepo, reportRepo, location)
		if err != nil {
			return err
		}
		defer queue.Stop()
		handlers.Reports = handler.NewReportHandler(reports)
	}

	if cfg.Uploads.Enabled {
		files, err := storage.NewLocalStorage(cfg.Uploads.StorageDir)
		if err != nil {
			return fmt.Errorf("prepare upload storage: %w", err)
		}
		signer := storage.NewSignedURLSigner(cfg.Uploads.SignedURLSecret, cfg.Uploads.SignedURLTTL)
		uploads := service.NewUploadService(files, signer, service.UploadConfig{
			APIPrefix:   cfg.APIPrefix,
			MaxFileSize: cfg.Uploads.MaxFileSizeBytes,
		}, logr)
		handlers.Uploads = handler.NewUploadHandler(uploads)
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metrics, "/metrics"))

	handler.Register(r, cfg.APIPrefix, handlers)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.Env),
			zap.String("store", cfg.Store.Backend),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func buildReports(
	ctx context.Context,
	cfg *config.Config,
	logr *zap.Logger,
	metrics *service.MetricsService,
	attendance *service.AttendanceService,
	students *repository.StudentRepository,
	events *repository.ScheduleEventRepository,
	reportRepo *repository.ReportRepository,
	location *time.Location,
) (*service.ReportService, *jobs.Queue, error) {
	files, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
	if err != nil {
		return nil, nil, fmt.Errorf("prepare report storage: %w", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)

	exporter := service.NewExportService(attendance, students, events, files, signer, service.ExportConfig{
		APIPrefix: cfg.APIPrefix,
		ResultTTL: cfg.Reports.SignedURLTTL,
		Location:  location,
	}, logr)

	worker := service.NewReportWorker(reportRepo, exporter, metrics, cfg.Reports.WorkerRetries, logr)
	queue := jobs.NewQueue("reports", worker.Handle, jobs.QueueConfig{
		Workers:    cfg.Reports.WorkerConcurrency,
		MaxRetries: cfg.Reports.WorkerRetries,
		Logger:     logr,
	})
	queue.Start(ctx)

	reports := service.NewReportService(reportRepo, queue, exporter, nil, logr, service.ReportServiceConfig{
		ResultTTL:       cfg.Reports.SignedURLTTL,
		CleanupInterval: cfg.Reports.CleanupInterval,
	})
	reports.RecoverPendingJobs(ctx)
	reports.StartCleanup(ctx)
	return reports, queue, nil
}
