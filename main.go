package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"local-butler-api/auth"
	"local-butler-api/config"
	"local-butler-api/dispatch"
	"local-butler-api/handlers"
	"local-butler-api/notify"
	"local-butler-api/orders"
	"local-butler-api/routes"
	"local-butler-api/scheduler"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

func main() {
	// .env is optional; real env always wins
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	cfg := config.Load()
	pflag.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	pflag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path")
	pflag.Parse()

	// Set Gin mode
	mode := os.Getenv("GIN_MODE")
	if mode == "" {
		gin.SetMode(gin.DebugMode)
	}

	db := config.MustOpenDB(cfg.DBPath)
	if err := config.SeedProviders(db); err != nil {
		log.Fatal("Failed to seed provider catalog:", err)
	}

	notifier := notify.LogNotifier{}
	sched := scheduler.New(db, scheduler.Config{
		OpenTime:  cfg.ScheduleOpen,
		CloseTime: cfg.ScheduleClose,
		Slot:      time.Duration(cfg.SlotMinutes) * time.Minute,
	})
	orderSvc := orders.NewService(db, sched, notifier)
	dispatchSvc := dispatch.NewService(db, notifier)
	authSvc := auth.NewService(db, auth.Config{
		LockThreshold: cfg.LockThreshold,
		LockWindow:    time.Duration(cfg.LockWindowMinutes) * time.Minute,
	})

	h := handlers.New(db, authSvc, orderSvc, dispatchSvc, sched)

	// Create Gin router with default middleware (logger + recovery)
	r := gin.Default()

	// CORS middleware for frontend integration
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "Local Butler Booking API",
			"version": "1.0.0",
		})
	})

	// Welcome
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message":   "🛎️ Welcome to the Local Butler Booking API",
			"docs":      "/api/state-machine",
			"health":    "/health",
			"providers": "/api/providers",
			"roles":     []string{"customer", "driver", "merchant", "admin"},
		})
	})

	// Register all routes
	routes.SetupRoutes(r, h)

	log.Printf("🚀 Server running on http://localhost%s", cfg.Addr)
	if err := r.Run(cfg.Addr); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
