package handler

import (
	"fmt"
	"time"

	"github.com/amartel/changelogd/internal/middleware"
	"github.com/amartel/changelogd/internal/port"
	"github.com/amartel/changelogd/internal/service"
	"github.com/gofiber/fiber/v3"
)

// ChangelogHandler handles changelog generation, listing, and editing.
type ChangelogHandler struct {
	changelogs *service.ChangelogService
}

// NewChangelogHandler creates a new changelog handler.
func NewChangelogHandler(changelogs *service.ChangelogService) *ChangelogHandler {
	return &ChangelogHandler{changelogs: changelogs}
}

// Register sets up changelog routes on a protected group.
func (h *ChangelogHandler) Register(api fiber.Router) {
	logs := api.Group("/changelogs")
	logs.Post("/", h.Generate)
	logs.Get("/", h.List)
	logs.Put("/:id", h.Edit)
}

// generateRequest is the body of a generation request. Since and until are
// RFC3339 instants, both optional and independent.
type generateRequest struct {
	RepoID  int64  `json:"repo_id"`
	Since   string `json:"since"`
	Until   string `json:"until"`
	Version string `json:"version"`
	Title   string `json:"title"`
	UseDiff bool   `json:"use_diff"`
}

// Generate runs the generation pipeline and returns the new entry's
// markdown content.
func (h *ChangelogHandler) Generate(c fiber.Ctx) error {
	uc := middleware.GetUserContext(c)
	if uc == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	var body generateRequest
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	params := service.GenerateParams{
		HostID:  body.RepoID,
		Version: body.Version,
		Title:   body.Title,
		UseDiff: body.UseDiff,
	}

	var err error
	if params.Since, err = parseInstant(body.Since); err != nil {
		return fail(c, err)
	}
	if params.Until, err = parseInstant(body.Until); err != nil {
		return fail(c, err)
	}

	entry, err := h.changelogs.Generate(c.Context(), uc.HostToken, params)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Changelog generated",
		"data":    entry.MdContent,
	})
}

// List returns a repository's entries, looked up by repo_id or by
// owner+name, with commit links stripped unless use_links=true.
func (h *ChangelogHandler) List(c fiber.Ctx) error {
	hostID := queryInt64(c, "repo_id")
	owner := c.Query("owner")
	name := c.Query("name")
	useLinks := c.Query("use_links") == "true"

	entries, err := h.changelogs.List(c.Context(), hostID, owner, name, useLinks)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Changelogs fetched",
		"data":    entries,
	})
}

// Edit replaces one entry's markdown content.
func (h *ChangelogHandler) Edit(c fiber.Ctx) error {
	entryID := c.Params("id")

	var body struct {
		MdContent string `json:"md_content"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	if err := h.changelogs.Edit(c.Context(), entryID, body.MdContent); err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"message": "Changelog updated"})
}

// parseInstant parses an optional RFC3339 timestamp.
func parseInstant(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid timestamp %q", port.ErrInvalidInput, s)
	}
	return &t, nil
}
