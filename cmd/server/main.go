package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/caseflow/backend/internal/config"
	"github.com/caseflow/backend/internal/database"
	"github.com/caseflow/backend/internal/handlers"
	"github.com/caseflow/backend/internal/middleware"
	"github.com/caseflow/backend/internal/repository"
	"github.com/caseflow/backend/internal/services"
	"github.com/caseflow/backend/internal/storage"
	"github.com/caseflow/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	cfg := config.Load()

	db, err := database.Connect(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := database.Seed(db); err != nil {
		log.Printf("Warning: failed to seed database: %v", err)
	}

	redisClient, err := database.ConnectRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer database.CloseRedis(redisClient)

	minioStorage, err := storage.NewMinIOStorage(&cfg.MinIO)
	if err != nil {
		log.Fatalf("Failed to connect to MinIO: %v", err)
	}

	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpireHour)
	sessionStore := database.NewSessionStore(redisClient)

	// Repositories
	caseStore := repository.NewCaseStore(db)
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	commRepo := repository.NewCommunicationRepository(db)
	regulatoryRepo := repository.NewRegulatoryRepository(db)
	auditLogRepo := repository.NewAuditLogRepository(db)

	// Services
	notificationService := services.NewNotificationService(commRepo, customerRepo, userRepo, caseStore, cfg.SMTP)
	transitionValidator := services.NewTransitionValidator()
	lifecycleService := services.NewLifecycleService(caseStore, userRepo, productRepo, transitionValidator, notificationService)
	authService := services.NewAuthService(userRepo, jwtManager, sessionStore, cfg.JWT.ExpireHour)
	documentService := services.NewDocumentService(documentRepo, caseStore, minioStorage)
	reportService := services.NewReportService(regulatoryRepo, lifecycleService, minioStorage)

	capaMonitor := services.NewCapaMonitor(caseStore, notificationService, cfg.Monitor.CapaCheckInterval)
	capaMonitor.Start(context.Background())
	defer capaMonitor.Stop()

	// Handlers
	healthHandler := handlers.NewHealthHandler(db)
	userHandler := handlers.NewUserHandler(authService)
	complaintHandler := handlers.NewComplaintHandler(lifecycleService)
	productHandler := handlers.NewProductHandler(productRepo)
	customerHandler := handlers.NewCustomerHandler(customerRepo)
	categoryHandler := handlers.NewCategoryHandler(categoryRepo)
	noteHandler := handlers.NewNoteHandler(noteRepo)
	documentHandler := handlers.NewDocumentHandler(documentService)
	templateHandler := handlers.NewTemplateHandler(commRepo)
	regulatoryHandler := handlers.NewRegulatoryHandler(regulatoryRepo, reportService)
	auditLogHandler := handlers.NewAuditLogHandler(auditLogRepo)

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, sessionStore)

	app := fiber.New(fiber.Config{
		AppName:      "Caseflow Backend",
		ErrorHandler: customErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000,http://localhost:5173",
		AllowMethods:     "GET,POST,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization",
		AllowCredentials: true,
	}))
	app.Use(middleware.AuditLogger(middleware.AuditLoggerConfig{
		Enabled:     true,
		SkipMethods: []string{fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions},
		SkipPaths:   []string{"/api/v1/auth/login", "/api/v1/auth/register"},
		Repo:        auditLogRepo,
	}))

	api := app.Group("/api")
	v1 := api.Group("/v1")

	v1.Get("/health", healthHandler.Health)
	v1.Get("/ready", healthHandler.Ready)

	// Auth
	auth := v1.Group("/auth")
	auth.Post("/register", userHandler.Register)
	auth.Post("/login", userHandler.Login)
	auth.Post("/refresh", authMiddleware.Authenticate(), userHandler.Refresh)
	auth.Post("/logout", authMiddleware.Authenticate(), userHandler.Logout)

	// Users
	users := v1.Group("/users", authMiddleware.Authenticate())
	users.Get("/me", userHandler.GetProfile)
	users.Put("/me", userHandler.UpdateProfile)
	users.Put("/me/password", userHandler.ChangePassword)
	users.Get("/", authMiddleware.RequireRole("ADMIN"), userHandler.List)
	users.Put("/:id", authMiddleware.RequireRole("ADMIN"), userHandler.UpdateUser)

	// Complaint lifecycle
	complaints := v1.Group("/complaints", authMiddleware.Authenticate())
	complaints.Post("/", complaintHandler.File)
	complaints.Get("/", complaintHandler.List)
	complaints.Get("/:id", complaintHandler.GetByID)
	complaints.Get("/:id/history", complaintHandler.History)
	complaints.Get("/:id/snapshot", complaintHandler.Snapshot)
	complaints.Post("/:id/begin-assessment", authMiddleware.RequireRole("INVESTIGATOR", "REVIEWER"), complaintHandler.BeginAssessment)
	complaints.Post("/:id/resolve", authMiddleware.RequireRole("INVESTIGATOR", "REVIEWER"), complaintHandler.Resolve)
	complaints.Post("/:id/close", authMiddleware.RequireRole("REVIEWER"), complaintHandler.Close)
	complaints.Post("/:id/reopen", authMiddleware.RequireRole("REVIEWER"), complaintHandler.Reopen)

	// Assignments
	complaints.Get("/:id/assignments", complaintHandler.ListAssignments)
	complaints.Post("/:id/assignments", authMiddleware.RequireRole("INVESTIGATOR", "REVIEWER"), complaintHandler.AssignStaff)
	complaints.Post("/:id/assignments/start", authMiddleware.RequireRole("INVESTIGATOR", "REVIEWER"), complaintHandler.StartAssignment)
	complaints.Post("/:id/assignments/complete", authMiddleware.RequireRole("INVESTIGATOR", "REVIEWER"), complaintHandler.CompleteAssignment)

	// Investigation
	complaints.Get("/:id/investigation", complaintHandler.GetInvestigation)
	complaints.Put("/:id/investigation", authMiddleware.RequireRole("INVESTIGATOR"), complaintHandler.RecordConclusion)

	// Corrective actions
	complaints.Get("/:id/capas", complaintHandler.ListCapas)
	complaints.Post("/:id/capas", authMiddleware.RequireRole("INVESTIGATOR", "REVIEWER"), complaintHandler.CreateCapa)
	v1.Get("/capas/overdue", authMiddleware.Authenticate(), complaintHandler.OverdueCapas)
	v1.Put("/capas/:capaId/status", authMiddleware.Authenticate(), authMiddleware.RequireRole("INVESTIGATOR", "REVIEWER"), complaintHandler.UpdateCapaStatus)

	// Review checklist
	complaints.Get("/:id/checklist", complaintHandler.GetChecklist)
	complaints.Put("/:id/checklist", authMiddleware.RequireRole("REVIEWER"), complaintHandler.UpdateChecklistItem)

	// Notes
	complaints.Post("/:id/notes", noteHandler.Create)
	complaints.Get("/:id/notes", noteHandler.List)
	v1.Put("/notes/:noteId", authMiddleware.Authenticate(), noteHandler.Update)
	v1.Delete("/notes/:noteId", authMiddleware.Authenticate(), noteHandler.Delete)

	// Documents
	complaints.Post("/:id/documents", documentHandler.Upload)
	complaints.Get("/:id/documents", documentHandler.List)
	documents := v1.Group("/documents", authMiddleware.Authenticate())
	documents.Get("/:docId/download", documentHandler.Download)
	documents.Get("/:docId/url", documentHandler.GetURL)
	documents.Get("/:docId/access-logs", authMiddleware.RequireRole("REVIEWER"), documentHandler.AccessLogs)
	documents.Delete("/:docId", authMiddleware.RequireRole("REVIEWER"), documentHandler.Delete)

	// Communications
	complaints.Get("/:id/communications", templateHandler.ListCommunications)
	templates := v1.Group("/templates", authMiddleware.Authenticate(), authMiddleware.RequireRole("ADMIN"))
	templates.Post("/", templateHandler.Create)
	templates.Get("/", templateHandler.List)
	templates.Put("/:id", templateHandler.Update)
	templates.Post("/:id/preview", templateHandler.Preview)

	// Regulatory reporting
	complaints.Post("/:id/reports", authMiddleware.RequireRole("REVIEWER"), regulatoryHandler.PrepareReport)
	complaints.Get("/:id/reports", regulatoryHandler.ListReports)
	reports := v1.Group("/reports", authMiddleware.Authenticate())
	reports.Get("/:reportId", regulatoryHandler.GetReport)
	reports.Get("/:reportId/snapshot-url", regulatoryHandler.SnapshotURL)
	reports.Post("/:reportId/submissions", authMiddleware.RequireRole("REVIEWER"), regulatoryHandler.SubmitReport)
	reports.Get("/:reportId/submissions", regulatoryHandler.ListSubmissions)
	bodies := v1.Group("/regulatory-bodies", authMiddleware.Authenticate())
	bodies.Get("/", regulatoryHandler.ListBodies)
	bodies.Post("/", authMiddleware.RequireRole("ADMIN"), regulatoryHandler.CreateBody)
	bodies.Delete("/:id", authMiddleware.RequireRole("ADMIN"), regulatoryHandler.DeleteBody)

	// Catalog data
	products := v1.Group("/products", authMiddleware.Authenticate())
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", authMiddleware.RequireRole("ADMIN"), productHandler.Create)
	products.Put("/:id", authMiddleware.RequireRole("ADMIN"), productHandler.Update)
	products.Delete("/:id", authMiddleware.RequireRole("ADMIN"), productHandler.Delete)

	customers := v1.Group("/customers", authMiddleware.Authenticate())
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Post("/", customerHandler.Create)
	customers.Put("/:id", customerHandler.Update)
	customers.Delete("/:id", authMiddleware.RequireRole("ADMIN"), customerHandler.Delete)

	categories := v1.Group("/categories", authMiddleware.Authenticate())
	categories.Get("/", categoryHandler.List)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Post("/", authMiddleware.RequireRole("ADMIN"), categoryHandler.Create)
	categories.Put("/:id", authMiddleware.RequireRole("ADMIN"), categoryHandler.Update)
	categories.Delete("/:id", authMiddleware.RequireRole("ADMIN"), categoryHandler.Delete)
	v1.Post("/subcategories", authMiddleware.Authenticate(), authMiddleware.RequireRole("ADMIN"), categoryHandler.CreateSubcategory)
	v1.Delete("/subcategories/:id", authMiddleware.Authenticate(), authMiddleware.RequireRole("ADMIN"), categoryHandler.DeleteSubcategory)

	// Audit
	v1.Get("/audit-logs", authMiddleware.Authenticate(), authMiddleware.RequireRole("ADMIN"), auditLogHandler.List)

	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("Server starting on %s", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	log.Println("Server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}
