package handler

import (
	"github.com/amartel/changelogd/internal/adapter/store"
	"github.com/gofiber/fiber/v3"
)

// AuditHandler exposes the request audit trail.
type AuditHandler struct {
	store *store.PostgresStore
}

// NewAuditHandler creates a new audit handler.
func NewAuditHandler(store *store.PostgresStore) *AuditHandler {
	return &AuditHandler{store: store}
}

// Register sets up audit routes.
func (h *AuditHandler) Register(api fiber.Router) {
	audit := api.Group("/audit")
	audit.Get("/logs", h.ListLogs)
}

// ListLogs returns recent audit logs with optional action filtering.
func (h *AuditHandler) ListLogs(c fiber.Ctx) error {
	limit := queryInt(c, "limit", 100)
	action := c.Query("action", "")

	logs, err := h.store.ListAuditLogs(c.Context(), limit, action)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"logs":  logs,
		"count": len(logs),
	})
}
