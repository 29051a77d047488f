package handler

import (
	"fmt"

	"github.com/amartel/changelogd/internal/middleware"
	"github.com/amartel/changelogd/internal/port"
	"github.com/gofiber/fiber/v3"
)

// CommitsHandler exposes pagination-aware pass-throughs to the host's
// commit and repository endpoints.
type CommitsHandler struct {
	host port.HostClient
}

// NewCommitsHandler creates a new commits handler.
func NewCommitsHandler(host port.HostClient) *CommitsHandler {
	return &CommitsHandler{host: host}
}

// Register sets up commit and repo pass-through routes.
func (h *CommitsHandler) Register(api fiber.Router) {
	commits := api.Group("/commits")
	commits.Get("/", h.List)
	commits.Get("/total", h.Total)
	api.Get("/repos", h.ListRepos)
}

// List returns one page of a repository's commit history.
func (h *CommitsHandler) List(c fiber.Ctx) error {
	uc := middleware.GetUserContext(c)
	if uc == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	hostID := queryInt64(c, "repo_id")
	if hostID == 0 {
		return fail(c, fmt.Errorf("%w: repository id required", port.ErrInvalidInput))
	}

	opts := port.CommitListing{
		Page:    queryInt(c, "page", 1),
		PerPage: queryInt(c, "per_page", 10),
	}

	var err error
	if opts.Since, err = parseInstant(c.Query("since")); err != nil {
		return fail(c, err)
	}
	if opts.Until, err = parseInstant(c.Query("until")); err != nil {
		return fail(c, err)
	}

	commits, err := h.host.ListCommits(c.Context(), uc.HostToken, hostID, opts)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"commits": commits, "count": len(commits)})
}

// Total reports the repository's total commit count, derived from the
// host's pagination metadata.
func (h *CommitsHandler) Total(c fiber.Ctx) error {
	uc := middleware.GetUserContext(c)
	if uc == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	hostID := queryInt64(c, "repo_id")
	if hostID == 0 {
		return fail(c, fmt.Errorf("%w: repository id required", port.ErrInvalidInput))
	}

	total, err := h.host.CountCommitPages(c.Context(), uc.HostToken, hostID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"total": total})
}

// ListRepos returns one page of the caller's host repositories.
func (h *CommitsHandler) ListRepos(c fiber.Ctx) error {
	uc := middleware.GetUserContext(c)
	if uc == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	page := queryInt(c, "page", 1)
	perPage := queryInt(c, "per_page", 100)

	repos, err := h.host.ListUserRepos(c.Context(), uc.HostToken, page, perPage)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"repos": repos, "count": len(repos)})
}
