package config

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/TheNopenator/EcoVision/database/postgres"
	authHandler "github.com/TheNopenator/EcoVision/internal/api/auth/handler"
	authService "github.com/TheNopenator/EcoVision/internal/api/auth/service"
	categoryHandler "github.com/TheNopenator/EcoVision/internal/api/category/handler"
	categoryRepository "github.com/TheNopenator/EcoVision/internal/api/category/repository"
	categoryService "github.com/TheNopenator/EcoVision/internal/api/category/service"
	cooperationHandler "github.com/TheNopenator/EcoVision/internal/api/cooperation/handler"
	cooperationRepository "github.com/TheNopenator/EcoVision/internal/api/cooperation/repository"
	cooperationService "github.com/TheNopenator/EcoVision/internal/api/cooperation/service"
	detectionHandler "github.com/TheNopenator/EcoVision/internal/api/detection/handler"
	detectionRepository "github.com/TheNopenator/EcoVision/internal/api/detection/repository"
	detectionService "github.com/TheNopenator/EcoVision/internal/api/detection/service"
	robotHandler "github.com/TheNopenator/EcoVision/internal/api/robot/handler"
	robotRepository "github.com/TheNopenator/EcoVision/internal/api/robot/repository"
	robotService "github.com/TheNopenator/EcoVision/internal/api/robot/service"
	taskHandler "github.com/TheNopenator/EcoVision/internal/api/task/handler"
	taskRepository "github.com/TheNopenator/EcoVision/internal/api/task/repository"
	taskService "github.com/TheNopenator/EcoVision/internal/api/task/service"
	"github.com/TheNopenator/EcoVision/internal/middleware"
	"github.com/TheNopenator/EcoVision/pkg/bcrypt"
	"github.com/TheNopenator/EcoVision/pkg/dispatch"
	"github.com/TheNopenator/EcoVision/pkg/inference"
	"github.com/TheNopenator/EcoVision/pkg/metrics"
	"github.com/TheNopenator/EcoVision/pkg/overlay"
	"github.com/TheNopenator/EcoVision/pkg/redis"
	"github.com/TheNopenator/EcoVision/pkg/smtp"
	"github.com/TheNopenator/EcoVision/pkg/storage"
	"github.com/TheNopenator/EcoVision/pkg/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type ServerOption func(*Server) error

type Server struct {
	cfg        *Config
	engine     *fiber.App
	db         *sqlx.DB
	log        *logrus.Logger
	middleware middleware.Middleware
	validator  *validator.Validate
	utils      utils.IUtils
	cache      redis.ICache
	storage    storage.Storage
	metrics    *metrics.Manager
	mailer     smtp.ItfSmtp
	dispatcher *dispatch.Dispatcher
	inference  inference.Engine
	pipeline   *detectionService.Pipeline
	handlers   []handler
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(cfg *Config, options ...ServerOption) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	server := &Server{cfg: cfg}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if server.metrics == nil {
		server.metrics = metrics.NewManager(metrics.WithMetricsEnabled(false))
	}
	if server.utils == nil {
		server.utils = utils.New()
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithDatabase() ServerOption {
	return func(s *Server) error {
		db, err := postgres.New(s.cfg.PostgresConfig())
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to connect to database: %v", err)
			}
			return fmt.Errorf("failed to create database connection: %w", err)
		}
		s.db = db
		return nil
	}
}

func WithCache(cache redis.ICache) ServerOption {
	return func(s *Server) error {
		s.cache = cache
		return nil
	}
}

func WithStorage(store storage.Storage) ServerOption {
	return func(s *Server) error {
		s.storage = store
		return nil
	}
}

func WithMetrics(m *metrics.Manager) ServerOption {
	return func(s *Server) error {
		s.metrics = m
		return nil
	}
}

func WithMailer(mailer smtp.ItfSmtp) ServerOption {
	return func(s *Server) error {
		s.mailer = mailer
		return nil
	}
}

// WithDispatcher seeds the simulated fleet. A nil source seeds from the clock.
func WithDispatcher(src rand.Source) ServerOption {
	return func(s *Server) error {
		s.dispatcher = dispatch.New(dispatch.DefaultFleet(), src)
		return nil
	}
}

// WithPipeline builds the inference engine, the post-processor and the
// overlay renderer. It needs the logger and metrics options applied first.
func WithPipeline() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before the pipeline")
		}

		det, err := s.cfg.NewDetector()
		if err != nil {
			return fmt.Errorf("failed to build detector: %w", err)
		}

		renderer, err := overlay.New(overlay.WithJPEGQuality(s.cfg.Inference.JPEGQuality))
		if err != nil {
			return fmt.Errorf("failed to build overlay renderer: %w", err)
		}

		engineCfg, err := s.cfg.InferenceConfig()
		if err != nil {
			return fmt.Errorf("failed to configure inference: %w", err)
		}

		engine, err := inference.New(engineCfg, s.log)
		if err != nil {
			return fmt.Errorf("failed to start inference engine: %w", err)
		}

		s.inference = engine
		s.pipeline = detectionService.NewPipeline(engine, engineCfg.Engine, det, renderer, s.metrics)
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log, s.cfg.MiddlewareConfig(), s.metrics)
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.NewWithLimits(int64(s.cfg.Storage.MaxUploadMB)<<20, s.cfg.Storage.MaxImagePixels)
		return nil
	}
}

func (s *Server) RegisterHandler() {
	// Operator auth
	authServices := authService.New(s.log, authService.Config{
		Secret:           s.cfg.JWT.Secret,
		TTL:              s.cfg.JWT.TTL,
		OperatorUsername: s.cfg.JWT.OperatorUsername,
		PasswordHash:     s.cfg.JWT.OperatorPasswordHash,
	}, bcrypt.New())
	authHandlers := authHandler.New(s.log, authServices, s.validator, s.middleware)

	// Detection
	detectionRepo := detectionRepository.New(s.db, s.log)
	detectionServices := detectionService.NewDetectionService(s.log, detectionRepo, s.pipeline, s.storage,
		s.cache, s.metrics, s.utils, s.cfg.Redis.StatisticsTTL)
	detectionHandlers := detectionHandler.New(s.log, s.validator, s.middleware, detectionServices)

	// Categories
	categoryRepo := categoryRepository.New(s.db, s.log)
	categoryServices := categoryService.NewCategoryService(s.log, categoryRepo, s.utils)
	categoryHandlers := categoryHandler.New(s.log, s.validator, s.middleware, categoryServices)

	// Cleanup tasks
	taskRepo := taskRepository.New(s.db, s.log)
	taskServices := taskService.NewTaskService(s.log, taskRepo, s.storage)
	taskHandlers := taskHandler.New(s.log, s.validator, s.middleware, taskServices)

	// Robots
	robotRepo := robotRepository.New(s.db, s.log)
	robotServices := robotService.NewRobotService(s.log, robotRepo, s.dispatcher, s.metrics, s.utils)
	robotHandlers := robotHandler.New(s.log, s.validator, s.middleware, robotServices)

	// Partnerships
	cooperationRepo := cooperationRepository.New(s.db, s.log)
	cooperationServices := cooperationService.NewCooperationService(s.log, cooperationRepo, s.mailer, s.utils)
	cooperationHandlers := cooperationHandler.New(s.log, s.validator, s.middleware, cooperationServices)

	s.setupHealthCheck()
	s.handlers = append(s.handlers, authHandlers, detectionHandlers, categoryHandlers, taskHandlers, robotHandlers, cooperationHandlers)
}

func (s *Server) Run() error {
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(s.middleware.NewLoggingMiddleware)
	s.engine.Use(s.middleware.NewMetricsMiddleware)

	if s.cfg.Metrics.Enabled {
		s.engine.Get(s.cfg.Metrics.Path, adaptor.HTTPHandler(s.metrics.Handler()))
	}
	if s.cfg.Storage.Driver == StorageLocal {
		s.engine.Static(s.cfg.Storage.PublicPrefix, s.cfg.Storage.Root)
	}

	router := s.engine.Group("/api/v1")
	for _, h := range s.handlers {
		h.Start(router)
	}

	return s.engine.Listen(fmt.Sprintf(":%d", s.cfg.App.Port))
}

// Shutdown drains in-flight requests, then releases the model and the pool.
func (s *Server) Shutdown(timeout time.Duration) error {
	err := s.engine.ShutdownWithTimeout(timeout)

	if s.inference != nil {
		if cerr := s.inference.Close(); cerr != nil {
			s.log.Warnf("Failed to close inference engine: %v", cerr)
		}
	}
	if s.db != nil {
		if cerr := s.db.Close(); cerr != nil {
			s.log.Warnf("Failed to close database: %v", cerr)
		}
	}

	return err
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": "Server is Healthy!",
			"service": s.cfg.App.Name,
		})
	})
}
