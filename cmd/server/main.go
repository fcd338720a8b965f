package main

import (
	"context"                       // context package is needed for Redis operations
	"riverview/internal/api"        // Custom package for API handlers
	"riverview/internal/config"     // Custom package for configuration
	"riverview/internal/middleware" // Custom package for middleware

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"gorm.io/driver/mysql"         // MySQL driver for GORM
	"gorm.io/gorm"                 // GORM ORM library
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// The signing secret comes from the deployment environment only;
	// refusing to start beats signing tokens with an empty key
	if cfg.JWTSecret == "" {
		logrus.Fatal("JWT_SECRET must be set")
	}

	// Connect to the database. TranslateError maps driver-specific failures
	// like duplicate keys onto gorm's portable sentinel errors.
	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	// The browser frontend is served from another origin
	r.Use(middleware.CORSMiddleware())

	// Public routes
	r.POST("/signup", api.SignupHandler(db))                   // Registration endpoint
	r.POST("/login", api.LoginHandler(db, cfg.JWTSecret))      // Login endpoint
	r.GET("/foods", api.ListFoodsHandler(db, redisClient))     // Food catalog endpoint
	r.GET("/reviews", api.ListReviewsHandler(db, redisClient)) // Review listing endpoint

	// Authenticated routes (protected by JWT)
	auth := r.Group("/")
	auth.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	auth.GET("/me", api.MeHandler(db))                           // Current user profile
	auth.POST("/cart", api.AddCartLineHandler(db))               // Add cart line endpoint
	auth.GET("/cart", api.GetCartHandler(db))                    // Cart listing endpoint
	auth.POST("/cart/order", api.PlaceOrderHandler(db))          // Place order endpoint
	auth.POST("/wallet/add", api.AddFundsHandler(db))            // Add funds endpoint
	auth.GET("/transactions", api.ListTransactionsHandler(db))   // Transaction history endpoint
	auth.POST("/reviews", api.AddReviewHandler(db, redisClient)) // Add review endpoint

	logrus.Info("Server running on " + cfg.AppPort) // Log server start
	if err := r.Run(":" + cfg.AppPort); err != nil {
		logrus.Fatalf("server stopped: %v", err) // Fatal error if the listener dies
	}
}
