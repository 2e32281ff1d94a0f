package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/flintchat/flint/internal/config"
	"github.com/flintchat/flint/internal/handler"
	"github.com/flintchat/flint/internal/middleware"
	"github.com/flintchat/flint/internal/model"
	"github.com/flintchat/flint/internal/repository"
	"github.com/flintchat/flint/internal/service"
	"github.com/flintchat/flint/internal/ws"
	"github.com/flintchat/flint/migrations"
	"github.com/flintchat/flint/pkg/auth"
	"github.com/flintchat/flint/pkg/notification"
	"github.com/flintchat/flint/pkg/storage"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// @title           Flint Chat API
// @version         1.0
// @description     Real-time chat API: rooms, pairwise conversations, friend graph, presence. Go, Gin, WebSocket, Redis Pub/Sub.

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
	log.Printf("🚀 Starting Flint Chat API Server [env=%s]", cfg.App.Env)

	// ==================== Database (PostgreSQL) ====================
	gormLogger := logger.Default.LogMode(logger.Info)
	if cfg.App.Env == "production" {
		gormLogger = logger.Default.LogMode(logger.Warn)
	}

	db, err := gorm.Open(postgres.Open(cfg.DB.DSN()), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	log.Println("✅ Connected to PostgreSQL")

	// ==================== Run Migrations ====================
	if err := migrations.Run(cfg.DB.URL()); err != nil {
		log.Printf("⚠️  Migration warning: %v", err)
		log.Println("📦 Falling back to GORM AutoMigrate...")
		if err := db.AutoMigrate(
			&model.User{},
			&model.UserDevice{},
			&model.FriendRequest{},
			&model.Friendship{},
			&model.Block{},
			&model.Room{},
			&model.Message{},
		); err != nil {
			log.Fatalf("❌ Failed to migrate database: %v", err)
		}
	}
	log.Println("✅ Database migrated successfully")

	// ==================== Redis ====================
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       0,
	})

	ctx := context.Background()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatalf("❌ Failed to connect to Redis: %v", err)
	}
	log.Println("✅ Connected to Redis")

	// ==================== Initialize Layers ====================
	// JWT Manager
	jwtManager := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.Expiry)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	friendRepo := repository.NewFriendRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	msgRepo := repository.NewMessageRepository(db)

	// Presence: Redis records mirrored into users.is_online
	presence := service.NewPresenceTracker(userRepo, rdb)

	// WebSocket Hub (with Redis Pub/Sub for horizontal scaling)
	hub := ws.NewHub(rdb, func(userID uuid.UUID, online bool) {
		// Callback: first connection marks the user online, last one offline
		var err error
		if online {
			err = presence.SetOnline(userID)
		} else {
			err = presence.SetOffline(userID)
		}
		if err != nil {
			log.Printf("⚠️  Presence update failed for %s: %v", userID, err)
		}
	})

	hubCtx, hubCancel := context.WithCancel(context.Background())
	defer hubCancel()
	go hub.Run(hubCtx)

	// Typing debounce tracker (broadcasts through the hub)
	typing := service.NewTypingTracker(hub, 0)

	// Firebase Cloud Messaging (optional: push to offline conversation partners)
	pushService, err := notification.NewNotificationService(cfg.Firebase.CredentialsFile, userRepo)
	if err != nil {
		log.Printf("⚠️  FCM not available: %v (push notifications disabled)", err)
	}

	// MinIO Storage
	minioStorage, err := storage.NewMinIO(storage.Config{
		Endpoint:  cfg.MinIO.Endpoint,
		PublicURL: cfg.MinIO.PublicURL,
		AccessKey: cfg.MinIO.AccessKey,
		SecretKey: cfg.MinIO.SecretKey,
		Bucket:    cfg.MinIO.Bucket,
		UseSSL:    cfg.MinIO.UseSSL,
	})
	if err != nil {
		log.Printf("⚠️  MinIO not available: %v (avatar upload disabled)", err)
	}
	if minioStorage != nil {
		log.Println("✅ Connected to MinIO")
	}

	// Services
	authService := service.NewAuthService(userRepo, jwtManager, presence, rdb)
	friendService := service.NewFriendService(userRepo, friendRepo, hub)
	chatService := service.NewChatService(userRepo, msgRepo, roomRepo, typing, hub, pushService)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	friendHandler := handler.NewFriendHandler(friendService)
	chatHandler := handler.NewChatHandler(chatService)
	presenceHandler := handler.NewPresenceHandler(presence)
	wsHandler := handler.NewWSHandler(hub, chatService, typing, jwtManager)
	uploadHandler := handler.NewUploadHandler(minioStorage)

	// ==================== Gin Router ====================
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// Serve swagger.json at /docs/swagger.json to avoid conflict with /swagger/* wildcard
	router.StaticFile("/docs/swagger.json", "./docs/swagger.json")
	url := ginSwagger.URL("/docs/swagger.json")
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, url))

	// Global middleware
	router.Use(middleware.CORSMiddleware(cfg.CORS.Origins))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "flint-api",
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

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(jwtManager, rdb))
		{
			// Auth / profile
			protected.POST("/auth/logout", authHandler.Logout)
			protected.PUT("/auth/password", authHandler.ChangePassword)
			protected.GET("/auth/profile", authHandler.GetProfile)
			protected.PUT("/auth/profile", authHandler.UpdateProfile)
			protected.POST("/auth/devices", authHandler.RegisterDevice)
			protected.GET("/users/search", authHandler.SearchUsers)

			// Relationship graph
			protected.POST("/friends/requests", friendHandler.SendRequest)
			protected.GET("/friends/requests", friendHandler.ListRequests)
			protected.POST("/friends/requests/:id/accept", friendHandler.AcceptRequest)
			protected.DELETE("/friends/requests/:id", friendHandler.RejectRequest)
			protected.GET("/friends", friendHandler.ListFriends)
			protected.POST("/friends/blocks", friendHandler.BlockUser)
			protected.GET("/friends/blocks", friendHandler.ListBlocks)
			protected.DELETE("/friends/blocks/:id", friendHandler.UnblockUser)

			// Rooms and conversations
			protected.GET("/rooms", chatHandler.ListRooms)
			protected.POST("/rooms", chatHandler.CreateRoom)
			protected.PUT("/rooms/last", chatHandler.SetLastRoom)
			protected.GET("/conversations/:user_id", chatHandler.GetConversationScope)

			// Messages
			protected.GET("/scopes/:scope/messages", chatHandler.GetMessages)
			protected.POST("/scopes/:scope/messages", chatHandler.SendMessage)
			protected.DELETE("/scopes/:scope/messages/:id", chatHandler.DeleteMessage)

			// Presence
			protected.GET("/presence/online", presenceHandler.OnlineUsers)
			protected.GET("/presence/:user_id", presenceHandler.GetPresence)

			// Upload
			protected.POST("/upload/avatar", uploadHandler.UploadAvatar)
		}
	}

	// WebSocket endpoint (auth via query parameter)
	router.GET("/ws", wsHandler.HandleWebSocket)

	// ==================== Start Server ====================
	srv := &http.Server{
		Addr:    ":" + cfg.App.Port,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Server failed: %v", err)
		}
	}()

	log.Printf("🌐 Flint Chat API running on http://0.0.0.0:%s", cfg.App.Port)
	log.Printf("📋 API docs: http://0.0.0.0:%s/swagger/index.html", cfg.App.Port)
	log.Printf("🔌 WebSocket: ws://0.0.0.0:%s/ws?token=<jwt>", cfg.App.Port)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down server...")

	// Give ongoing requests 5 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	hubCancel()
	log.Println("✅ Server exited gracefully")
}
