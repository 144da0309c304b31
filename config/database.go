package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"accana-api/models"
)

var DB *gorm.DB

func InitDB() {
	var err error

	// Configure GORM
	environment := strings.ToLower(os.Getenv("ENVIRONMENT"))
	debugSQL := strings.ToLower(os.Getenv("DEBUG_SQL"))

	// In production, suppress SQL logs unless explicitly re-enabled via DEBUG_SQL=true.
	logLevel := logger.Info
	if environment == "production" && debugSQL != "true" {
		logLevel = logger.Warn
	}

	config := &gorm.Config{
		Logger: logger.New(
			log.New(LogWriter, "\r\n", log.LstdFlags),
			logger.Config{LogLevel: logLevel},
		),
	}

	// DB_DRIVER=sqlite keeps local runs self-contained; MySQL is the
	// deployment default.
	switch strings.ToLower(os.Getenv("DB_DRIVER")) {
	case "sqlite":
		path := os.Getenv("DB_PATH")
		if path == "" {
			path = "accana.db"
		}
		DB, err = gorm.Open(sqlite.Open(path), config)
	default:
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			os.Getenv("DB_USERNAME"),
			os.Getenv("DB_PASSWORD"),
			os.Getenv("DB_HOST"),
			os.Getenv("DB_PORT"),
			os.Getenv("DB_DATABASE"),
		)
		DB, err = gorm.Open(mysql.Open(dsn), config)
	}
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := MigrateSchema(DB); err != nil {
		log.Fatal("Failed to migrate database schema:", err)
	}

	log.Println("Database connected successfully")
}

// MigrateSchema creates/updates the tables backing the four record
// collections plus status history and read receipts.
func MigrateSchema(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Submission{},
		&models.SubmissionStatusHistory{},
		&models.Notification{},
		&models.InternalMessage{},
		&models.MessageReadReceipt{},
	)
}
