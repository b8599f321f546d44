package database

import (
	"fmt"
	"log"

	"github.com/caseflow/backend/internal/config"
	"github.com/caseflow/backend/internal/models"
	"github.com/caseflow/backend/pkg/utils"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Connect(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		cfg.Host, cfg.User, cfg.Password, cfg.DBName, cfg.Port, cfg.SSLMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("Database connected successfully")
	return db, nil
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func Migrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Customer{},
		&models.ComplaintCategory{},
		&models.ComplaintSubcategory{},
		// Case models
		&models.Complaint{},
		&models.StatusLedgerEntry{},
		&models.ComplaintAssignment{},
		&models.InvestigationRecord{},
		&models.CorrectiveAction{},
		&models.ReviewChecklist{},
		&models.ComplaintNote{},
		&models.Document{},
		&models.DocumentAccessLog{},
		// Communications
		&models.CommunicationTemplate{},
		&models.CommunicationLog{},
		// Regulatory reporting
		&models.RegulatoryBody{},
		&models.RegulatoryReport{},
		&models.ReportSubmission{},
		// Audit
		&models.AuditLog{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Println("Database migrations completed")
	return nil
}

func Seed(db *gorm.DB) error {
	log.Println("Seeding database...")

	// Default admin account
	var adminCount int64
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&adminCount).Error; err != nil {
		return err
	}
	if adminCount == 0 {
		hash, err := utils.HashPassword("admin123")
		if err != nil {
			return err
		}
		admin := &models.User{
			Email:    "admin@caseflow.local",
			Username: "admin",
			Password: hash,
			Role:     models.RoleAdmin,
			IsActive: true,
		}
		if err := db.Create(admin).Error; err != nil {
			return err
		}
		log.Println("Seeded default admin user")
	}

	// Default complaint categories
	categories := []models.ComplaintCategory{
		{Name: "Product Quality", Description: "Defects, damage, or performance issues", IsActive: true},
		{Name: "Delivery", Description: "Late, missing, or damaged deliveries", IsActive: true},
		{Name: "Billing", Description: "Invoicing and payment disputes", IsActive: true},
		{Name: "Service", Description: "Staff conduct and service quality", IsActive: true},
	}
	for _, category := range categories {
		var existing models.ComplaintCategory
		err := db.Where("name = ?", category.Name).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			if err := db.Create(&category).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
	}

	// Default communication templates
	templates := []models.CommunicationTemplate{
		{
			Code:     "status_changed",
			Name:     "Complaint Status Changed",
			Subject:  "Update on complaint {{.complaint_number}}",
			Body:     "Your complaint {{.complaint_number}} moved to status {{.status}}. {{.reason}}",
			IsActive: true,
		},
		{
			Code:     "capa_overdue",
			Name:     "Corrective Action Overdue",
			Subject:  "Corrective action overdue for complaint {{.complaint_number}}",
			Body:     "Corrective action \"{{.description}}\" was due on {{.due_date}} and is still open.",
			IsActive: true,
		},
	}
	for _, template := range templates {
		var existing models.CommunicationTemplate
		err := db.Where("code = ?", template.Code).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			if err := db.Create(&template).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
	}

	log.Println("Database seeding completed")
	return nil
}
