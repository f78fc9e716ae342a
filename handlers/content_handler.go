package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sakilahmmad71/railway-test-depl/domain"
	"github.com/sakilahmmad71/railway-test-depl/repositories"
)

// ListContent handles GET /users/content: every user's links in one feed,
// sorted and paginated by the store. sortBy accepts newest, oldest and
// popular; popular falls back to newest until a popularity metric exists.
func (h *UserHandler) ListContent(c *fiber.Ctx) error {
	page, limit := domain.NormalizePageLimit(c.QueryInt("page"), c.QueryInt("limit"))
	sortBy := repositories.ParseSortOrder(c.Query("sortBy"))

	items, total, err := h.Links.ListContent(page, limit, sortBy)
	if err != nil {
		return h.internal(c, err)
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"data":       items,
		"pagination": domain.NewPagination(total, page, limit),
	})
}
