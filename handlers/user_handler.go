// Package handlers implements the /users endpoints: public user reads,
// profile CRUD, youtube links, and the aggregated content feed.
package handlers

import (
	"errors"
	"log"
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"

	"github.com/sakilahmmad71/railway-test-depl/domain"
	"github.com/sakilahmmad71/railway-test-depl/models"
	"github.com/sakilahmmad71/railway-test-depl/repositories"
)

// UserHandler handles HTTP operations for users and their links.
type UserHandler struct {
	Users     repositories.UserStore
	Links     repositories.LinkStore
	UploadDir string
}

func NewUserHandler(users repositories.UserStore, links repositories.LinkStore, uploadDir string) *UserHandler {
	return &UserHandler{Users: users, Links: links, UploadDir: uploadDir}
}

// ListUsers handles GET /users.
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	page, limit := domain.NormalizePageLimit(c.QueryInt("page"), c.QueryInt("limit"))

	users, total, err := h.Users.List(page, limit)
	if err != nil {
		return h.internal(c, err)
	}

	data := make([]models.PublicUser, 0, len(users))
	for i := range users {
		data = append(data, users[i].Public())
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"data":       data,
		"pagination": domain.NewPagination(total, page, limit),
	})
}

// GetUser handles GET /users/:id.
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.Status(fiber.StatusNotFound).JSON(domain.Error("User not found"))
	}

	user, err := h.Users.GetByID(uint(id))
	if errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(domain.Error("User not found"))
	}
	if err != nil {
		return h.internal(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "data": user.Public()})
}

// GetProfilePicture handles GET /users/:id/profile-picture. It streams the
// stored image file, or 404s when the user or the file is missing.
func (h *UserHandler) GetProfilePicture(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.Status(fiber.StatusNotFound).JSON(domain.Error("User not found"))
	}

	user, err := h.Users.GetByID(uint(id))
	if errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(domain.Error("User not found"))
	}
	if err != nil {
		return h.internal(c, err)
	}

	if user.ProfilePicture == "" {
		return c.Status(fiber.StatusNotFound).JSON(domain.Error("Profile picture not found"))
	}

	// Base strips any path segments a stored value could carry.
	path := filepath.Join(h.UploadDir, filepath.Base(user.ProfilePicture))
	if _, err := os.Stat(path); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(domain.Error("Profile picture not found"))
	}

	return c.SendFile(path)
}

// publicWithLinks attaches the user's links to the public view.
func (h *UserHandler) publicWithLinks(user *models.User) (models.PublicUser, error) {
	pub := user.Public()
	links, err := h.Links.ListByUser(user.ID)
	if err != nil {
		return pub, err
	}
	pub.YoutubeLinks = links
	return pub, nil
}

func (h *UserHandler) internal(c *fiber.Ctx, err error) error {
	log.Printf("%s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(domain.Error("Something went wrong"))
}
