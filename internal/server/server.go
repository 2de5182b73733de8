package server

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"workplace/internal/auth"
	"workplace/internal/config"
	"workplace/internal/handler"
	"workplace/internal/middleware"
	"workplace/internal/model"
	"workplace/internal/repository"
	"workplace/internal/service"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Config *config.Config
	Logger *slog.Logger
}

// Init connects to the configured database, brings the schema up to date and
// builds the HTTP engine.
func Init(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := repository.Open(cfg.DatabaseURL, logger.Enabled(context.Background(), slog.LevelDebug))
	if err != nil {
		return nil, fmt.Errorf("❌ failed to connect to DB: %w", err)
	}
	log.Printf("✅ Connected to %s database\n", repository.DetectDialect(cfg.DatabaseURL))

	if err := repository.Migrate(db); err != nil {
		return nil, fmt.Errorf("❌ failed to migrate schema: %w", err)
	}

	return New(cfg, db, logger)
}

// New wires repositories, services and handlers on an open database.
func New(cfg *config.Config, db *gorm.DB, logger *slog.Logger) (*Server, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	hasher := auth.NewBcryptHasher(bcrypt.DefaultCost)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience,
		time.Duration(cfg.JWTExpiryHours)*time.Hour)

	if cfg.SeedDemoUsers {
		created, err := service.SeedDemoUsers(context.Background(), userRepo, hasher, logger)
		if err != nil {
			return nil, fmt.Errorf("❌ failed to seed demo users: %w", err)
		}
		if created > 0 {
			log.Printf("🌱 Seeded %d demo users\n", created)
		}
	}

	// Initialize services
	taskService := service.NewTaskService(taskRepo, userRepo, logger)
	userService := service.NewUserService(userRepo, taskRepo, hasher, logger)
	authService := service.NewAuthService(userRepo, taskRepo, hasher, tokens, logger)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	taskHandler := handler.NewTaskHandler(taskService)
	userHandler := handler.NewUserHandler(userService)

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger(logger.With("component", "http")))
	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders:     []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
			ExposeHeaders:    []string{middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Public routes
	r.GET("/health", health(db))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	api.POST("/auth/login", authHandler.Login)

	// Protected routes - require authentication
	authorized := api.Group("/")
	authorized.Use(middleware.JWTAuthMiddleware(tokens))
	{
		authorized.GET("/auth/me", authHandler.Me)

		// Task routes
		authorized.GET("/tasks", taskHandler.GetAll)
		authorized.GET("/tasks/paged", taskHandler.GetPaged)
		authorized.GET("/tasks/:id", taskHandler.GetByID)
		authorized.POST("/tasks", taskHandler.Create)
		authorized.PUT("/tasks/:id", taskHandler.Update)
		authorized.DELETE("/tasks/:id", taskHandler.Delete)

		// User administration
		admin := authorized.Group("/users")
		admin.Use(middleware.RequireRole(model.RoleAdmin))
		admin.GET("", userHandler.GetAll)
		admin.GET("/:id", userHandler.GetByID)
		admin.POST("", userHandler.Create)
		admin.PUT("/:id", userHandler.Update)
		admin.PUT("/:id/role", userHandler.UpdateRole)
		admin.DELETE("/:id", userHandler.Delete)
	}

	return &Server{
		Engine: r,
		DB:     db,
		Config: cfg,
		Logger: logger,
	}, nil
}

func health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:              ":" + s.Config.ServerPort,
		Handler:           s.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("🚀 Server running on port %s\n", s.Config.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Failed to listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %s", err)
	}

	if sqlDB, err := s.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Println("✅ Server exited properly")
}
