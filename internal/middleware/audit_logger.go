package middleware

import (
	"context"
	"log"
	"strings"

	"github.com/caseflow/backend/internal/models"
	"github.com/caseflow/backend/internal/repository"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AuditLoggerConfig struct {
	Enabled     bool
	SkipPaths   []string
	SkipMethods []string
	Repo        repository.AuditLogRepository
}

// AuditLogger records every mutating request after the handler runs. Write
// failures are logged and swallowed so auditing never breaks a request.
func AuditLogger(config AuditLoggerConfig) fiber.Handler {
	skipPaths := make(map[string]bool)
	for _, path := range config.SkipPaths {
		skipPaths[path] = true
	}

	skipMethods := make(map[string]bool)
	for _, method := range config.SkipMethods {
		skipMethods[method] = true
	}

	return func(c *fiber.Ctx) error {
		if !config.Enabled || skipPaths[c.Path()] || skipMethods[c.Method()] {
			return c.Next()
		}

		err := c.Next()

		entry := &models.AuditLog{
			Method:     c.Method(),
			Path:       c.Path(),
			EntityType: entityFromPath(c.Path()),
			EntityID:   c.Params("id"),
			StatusCode: c.Response().StatusCode(),
			IPAddress:  c.IP(),
			UserAgent:  c.Get("User-Agent"),
		}
		if userID, ok := c.Locals("user_id").(uuid.UUID); ok {
			entry.UserID = &userID
		}

		if logErr := config.Repo.Create(context.Background(), entry); logErr != nil {
			log.Printf("failed to write audit log: %v", logErr)
		}

		return err
	}
}

// entityFromPath extracts the resource segment after /api/v1/.
func entityFromPath(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	for i, part := range parts {
		if part == "v1" && i+1 < len(parts) {
			return parts[i+1]
		}
	}
	if len(parts) > 0 {
		return parts[0]
	}
	return ""
}
