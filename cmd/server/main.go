package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	gormlogger "gorm.io/gorm/logger"

	"parley/internal/config"
	"parley/internal/handler"
	"parley/internal/middleware"
	"parley/internal/repository"
	"parley/internal/service"
	"parley/migrations"
	"parley/pkg/auth"
	"parley/pkg/logger"
)

// @title           Parley API
// @version         1.0
// @description     Multi-user chat backend: conversations, messages, reactions, read cursors, bookmarks.

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      api.localhost
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	// ==================== Load Config ====================
	cfg := config.Load()

	zlog := logger.New(cfg.App.Env)
	defer zlog.Sync()
	zlog.Infof("🚀 Starting Parley API Server [env=%s driver=%s]", cfg.App.Env, cfg.DB.Driver)

	// ==================== Database ====================
	gormLevel := gormlogger.Info
	if cfg.App.Env == "production" {
		gormLevel = gormlogger.Warn
	}

	db, err := repository.Open(cfg.DB, gormLevel)
	if err != nil {
		zlog.Fatalf("❌ Failed to connect to database: %v", err)
	}
	zlog.Infof("✅ Connected to %s", cfg.DB.Driver)

	// ==================== Migrations ====================
	// SQL migrations are postgres-only; the embedded backend builds its
	// schema from the models.
	if cfg.DB.Driver == "postgres" {
		if err := migrations.Run(cfg.DB.URL()); err != nil {
			zlog.Warnf("⚠️  Migration warning: %v", err)
			zlog.Infof("📦 Falling back to GORM AutoMigrate...")
			if err := repository.AutoMigrate(db); err != nil {
				zlog.Fatalf("❌ Failed to migrate database: %v", err)
			}
		}
	} else {
		if err := repository.AutoMigrate(db); err != nil {
			zlog.Fatalf("❌ Failed to migrate database: %v", err)
		}
	}
	zlog.Infof("✅ Database migrated successfully")

	// ==================== Redis ====================
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       0,
	})

	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		zlog.Fatalf("❌ Failed to connect to Redis: %v", err)
	}
	zlog.Infof("✅ Connected to Redis")

	// ==================== Initialize Layers ====================
	jwtManager := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.Expiry)

	userRepo := repository.NewUserRepository(db)
	chatRepo := repository.NewChatRepository(db, zlog)

	authService := service.NewAuthService(userRepo, jwtManager, rdb)
	userService := service.NewUserService(userRepo)
	chatService := service.NewChatService(chatRepo, zlog)

	authHandler := handler.NewAuthHandler(authService, zlog)
	userHandler := handler.NewUserHandler(userService, zlog)
	chatHandler := handler.NewChatHandler(chatService, userService, zlog)
	messageHandler := handler.NewMessageHandler(chatService, userService, zlog)

	// ==================== Gin Router ====================
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// Serve swagger.json at /docs/swagger.json to avoid conflict with /swagger/* wildcard
	router.StaticFile("/docs/swagger.json", "./docs/swagger.json")
	url := ginSwagger.URL("/docs/swagger.json")
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, url))

	router.Use(middleware.CORSMiddleware(cfg.CORS.Origins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "parley-api",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	// ==================== API Routes ====================
	api := router.Group("/api/v1")
	{
		// Auth routes (public)
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}

		// Public user lookups
		api.GET("/users/alias/:alias/available", userHandler.AliasAvailable)

		// Direct user provisioning, for local tooling only
		api.POST("/users", middleware.DevOnly(cfg.App.Env), userHandler.CreateUser)

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(jwtManager, rdb))
		{
			// Auth
			protected.POST("/auth/logout", authHandler.Logout)
			protected.GET("/auth/profile", authHandler.GetProfile)

			// Users
			protected.GET("/users/:id", userHandler.GetUser)

			// Conversations
			protected.GET("/conversations", chatHandler.ListConversations)
			protected.POST("/conversations", chatHandler.CreateConversation)
			protected.GET("/conversations/:id", chatHandler.GetConversation)
			protected.POST("/conversations/:id/participants", chatHandler.AddParticipant)
			protected.DELETE("/conversations/:id/participants/me", chatHandler.LeaveConversation)

			// Messages
			protected.GET("/conversations/:id/messages", chatHandler.ListMessages)
			protected.POST("/conversations/:id/messages", chatHandler.SendMessage)
			protected.POST("/conversations/:id/read", chatHandler.MarkRead)
			protected.GET("/conversations/:id/unread-count", chatHandler.UnreadCount)
			protected.DELETE("/messages/:id", messageHandler.DeleteMessage)

			// Reactions
			protected.GET("/messages/:id/reactions", messageHandler.ListReactions)
			protected.POST("/messages/:id/reactions", messageHandler.AddReaction)
			protected.DELETE("/messages/:id/reactions/:emoji", messageHandler.RemoveReaction)

			// Bookmarks
			protected.POST("/messages/:id/bookmarks", messageHandler.AddBookmark)
			protected.DELETE("/messages/:id/bookmarks", messageHandler.RemoveBookmark)
			protected.GET("/bookmarks", messageHandler.ListBookmarks)
		}
	}

	// ==================== Start Server ====================
	srv := &http.Server{
		Addr:    ":" + cfg.App.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatalf("❌ Server failed: %v", err)
		}
	}()

	zlog.Infof("🌐 Parley API running on http://0.0.0.0:%s", cfg.App.Port)
	zlog.Infof("📋 API docs: http://0.0.0.0:%s/swagger/index.html", cfg.App.Port)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zlog.Infof("🛑 Shutting down server...")

	// Give ongoing requests 5 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	zlog.Infof("✅ Server exited gracefully")
}
