package database

import (
	"fmt"
	"log"

	"gradebook_backend/internal/config"
	"gradebook_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	return db, nil
}

// Migrate 建表；测试里也用同一份迁移跑 sqlite
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.GradeReportingPeriod{},
		&model.DetailedGrade{},
		&model.GradePeriodSubmission{},
		&model.GradeOverwriteApproval{},
		&model.AuditLogEntry{},
	)
}
