package app

import (
	"context"
	"database/sql"
	"math/rand"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/RubachokBoss/report-portal/internal/config"
	"github.com/RubachokBoss/report-portal/internal/delivery/httpd"
	"github.com/RubachokBoss/report-portal/internal/repository"
	"github.com/RubachokBoss/report-portal/internal/service"
	"github.com/RubachokBoss/report-portal/internal/service/integration"
	"github.com/RubachokBoss/report-portal/internal/service/similarity"
)

type App struct {
	server    *http.Server
	logger    zerolog.Logger
	config    *config.Config
	db        *sql.DB
	publisher integration.EventPublisher
}

func New(cfg *config.Config, log zerolog.Logger, db *sql.DB) (*App, error) {
	// Хранилище файлов
	storageRepo, err := repository.NewMinIORepository(
		cfg.Storage.Endpoint,
		cfg.Storage.AccessKey,
		cfg.Storage.SecretKey,
		cfg.Storage.Bucket,
		cfg.Storage.Region,
		cfg.Storage.UseSSL,
		cfg.Storage.ConnectTimeout,
		log,
	)
	if err != nil {
		return nil, err
	}

	// Публикация событий best-effort: без RabbitMQ портал продолжает работать
	var publisher integration.EventPublisher
	if cfg.RabbitMQ.Enabled {
		publisher, err = integration.NewRabbitMQPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, log)
		if err != nil {
			log.Error().Err(err).Msg("Failed to create RabbitMQ publisher; continuing without events")
			publisher = nil
		}
	}

	// Репозитории
	userRepo := repository.NewUserRepository(db, log)
	reportRepo := repository.NewReportRepository(db, log)

	// Заглушка детектора схожести; настоящий алгоритм подставляется здесь
	estimator := similarity.NewRandomEstimator(rand.NewSource(time.Now().UnixNano()))

	// Сервисы
	authService := service.NewAuthService(userRepo, log)
	userService := service.NewUserService(userRepo, log)
	reportService := service.NewReportService(reportRepo, userRepo, storageRepo, publisher, log)
	uploadService := service.NewUploadService(
		reportRepo,
		userRepo,
		storageRepo,
		estimator,
		publisher,
		service.UploadConfig{MaxFileSize: cfg.Upload.MaxFileSize},
		log,
	)

	// Обработчики
	handler := httpd.NewHandler(
		authService,
		userService,
		reportService,
		uploadService,
		log,
	)

	// Роутер
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
	}))

	handler.RegisterRoutes(router)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &App{
		server:    server,
		logger:    log,
		config:    cfg,
		db:        db,
		publisher: publisher,
	}, nil
}

func (a *App) Run() error {
	a.logger.Info().Msgf("Starting report portal on %s", a.config.Server.Address)
	return a.server.ListenAndServe()
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info().Msg("Shutting down report portal...")

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close RabbitMQ connection")
		}
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close database connection")
		}
	}

	return a.server.Shutdown(ctx)
}
