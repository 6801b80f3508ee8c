package config

import (
	"log"
	"os"
	"strconv"

	"local-butler-api/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// JWTSecret used to sign tokens — read from env or fallback
var JWTSecret = []byte(getEnv("JWT_SECRET", "local_butler_super_secret_2024"))

// App holds the runtime knobs read from the environment. Every field
// has a working default so the service starts with no configuration.
type App struct {
	Addr   string
	DBPath string

	// Booking window: orders may target slots between open and close,
	// quantized to SlotMinutes.
	ScheduleOpen  string
	ScheduleClose string
	SlotMinutes   int

	// Login throttle: LockThreshold consecutive failures freeze the
	// account for LockWindowMinutes.
	LockThreshold     int
	LockWindowMinutes int
}

// Load reads the app configuration from the environment.
func Load() App {
	return App{
		Addr:              ":" + getEnv("PORT", "8080"),
		DBPath:            getEnv("DB_PATH", "local_butler.db"),
		ScheduleOpen:      getEnv("SCHEDULE_OPEN", "07:00"),
		ScheduleClose:     getEnv("SCHEDULE_CLOSE", "22:00"),
		SlotMinutes:       getEnvInt("SLOT_MINUTES", 15),
		LockThreshold:     getEnvInt("LOCK_THRESHOLD", 5),
		LockWindowMinutes: getEnvInt("LOCK_WINDOW_MINUTES", 15),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// OpenDB connects to SQLite and migrates all models.
func OpenDB(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Provider{},
		&models.ScheduleUnit{},
		&models.Order{},
		&models.OrderStatusHistory{},
	)
	if err != nil {
		return nil, err
	}

	// Single connection: SQLite allows one writer at a time and the
	// guarded updates in scheduler/dispatch rely on serialized writes
	// rather than SQLITE_BUSY retries.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	return db, nil
}

// MustOpenDB is OpenDB for main: any failure is fatal.
func MustOpenDB(path string) *gorm.DB {
	db, err := OpenDB(path)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	log.Println("✅ Database connected and migrated successfully")
	return db
}
