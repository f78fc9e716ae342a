package handlers

import (
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gosimple/slug"

	"github.com/sakilahmmad71/railway-test-depl/authentication/middleware"
	"github.com/sakilahmmad71/railway-test-depl/domain"
	"github.com/sakilahmmad71/railway-test-depl/models"
)

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

type updateProfileRequest struct {
	Name     *string `json:"name" form:"name"`
	Email    *string `json:"email" form:"email"`
	Bio      *string `json:"bio" form:"bio"`
	Location *string `json:"location" form:"location"`
	Password *string `json:"password" form:"password"`
}

type addLinkRequest struct {
	YoutubeURL string `json:"youtubeUrl"`
	Title      string `json:"title"`
}

// currentUser loads the record for the id the auth middleware stashed.
func (h *UserHandler) currentUser(c *fiber.Ctx) (*models.User, error) {
	userID, ok := c.Locals(middleware.UserIDKey).(uint)
	if !ok {
		return nil, domain.ErrUnauthenticated
	}
	return h.Users.GetByID(userID)
}

// Me handles GET /users/profile/me.
func (h *UserHandler) Me(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(domain.Error("Not authorized"))
	}

	pub, err := h.publicWithLinks(user)
	if err != nil {
		return h.internal(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": pub})
}

// UpdateMe handles PUT /users/profile/me. Only supplied fields change; the
// body may be JSON or multipart with an optional profilePicture image.
func (h *UserHandler) UpdateMe(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(domain.Error("Not authorized"))
	}

	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil && !errors.Is(err, fiber.ErrUnprocessableEntity) {
		return c.Status(fiber.StatusBadRequest).JSON(domain.Error("Failed to parse request body"))
	}

	// All validation happens before any field is applied.
	if req.Name != nil {
		if err := models.ValidateName(*req.Name); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(domain.Error(err.Error()))
		}
	}
	if req.Email != nil {
		if err := models.ValidateEmail(*req.Email); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(domain.Error(err.Error()))
		}
	}
	if req.Password != nil {
		if err := models.ValidatePassword(*req.Password); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(domain.Error(err.Error()))
		}
	}

	file, fileErr := c.FormFile("profilePicture")
	if fileErr == nil {
		ext := strings.ToLower(filepath.Ext(file.Filename))
		if !allowedImageExts[ext] {
			return c.Status(fiber.StatusBadRequest).JSON(domain.Error("Unsupported image type"))
		}
	}

	if req.Email != nil {
		email := models.NormalizeEmail(*req.Email)
		if email != user.Email {
			taken, err := h.Users.EmailTaken(email, user.ID)
			if err != nil {
				return h.internal(c, err)
			}
			if taken {
				return c.Status(fiber.StatusConflict).JSON(domain.Error("Email is already registered"))
			}
			user.Email = email
		}
	}
	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.Location != nil {
		user.Location = *req.Location
	}

	passwordChanged := false
	if req.Password != nil {
		hashed, err := models.HashPassword(*req.Password)
		if err != nil {
			return h.internal(c, err)
		}
		user.PasswordHash = hashed
		passwordChanged = true
	}

	previousPicture := ""
	newPicture := ""
	if fileErr == nil {
		filename, err := h.savePicture(c, file, user.Name)
		if err != nil {
			return h.internal(c, err)
		}
		previousPicture = user.ProfilePicture
		user.ProfilePicture = filename
		newPicture = filename
	}

	if err := h.Users.Update(user); err != nil {
		// The freshly saved image has no record pointing at it now.
		h.removePicture(newPicture)
		if errors.Is(err, domain.ErrConflict) {
			return c.Status(fiber.StatusConflict).JSON(domain.Error("Email is already registered"))
		}
		return h.internal(c, err)
	}

	// A password change invalidates every outstanding refresh token.
	if passwordChanged {
		if err := h.Users.BumpTokenVersion(user.ID); err != nil {
			return h.internal(c, err)
		}
	}

	// Best effort: a leftover file is not worth failing the update over.
	h.removePicture(previousPicture)

	pub, err := h.publicWithLinks(user)
	if err != nil {
		return h.internal(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": pub})
}

// removePicture deletes a stored image file. Failures are logged, never
// fatal.
func (h *UserHandler) removePicture(filename string) {
	if filename == "" {
		return
	}
	path := filepath.Join(h.UploadDir, filepath.Base(filename))
	if err := os.Remove(path); err != nil {
		log.Printf("Failed to remove profile picture %s: %v", path, err)
	}
}

func (h *UserHandler) savePicture(c *fiber.Ctx, file *multipart.FileHeader, name string) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	filename := fmt.Sprintf("%s-%d%s", slug.Make(name), time.Now().UnixNano(), ext)
	if err := c.SaveFile(file, filepath.Join(h.UploadDir, filename)); err != nil {
		return "", err
	}
	return filename, nil
}

// AddYoutubeLink handles POST /users/profile/youtube.
func (h *UserHandler) AddYoutubeLink(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(domain.Error("Not authorized"))
	}

	var req addLinkRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(domain.Error("Failed to parse request body"))
	}

	if err := models.ValidateYoutubeURL(req.YoutubeURL); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(domain.Error(err.Error()))
	}
	if strings.TrimSpace(req.Title) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(domain.Error("Title is required"))
	}

	link := models.NewYoutubeLink(user.ID, req.YoutubeURL, req.Title)
	if err := h.Links.Add(&link); err != nil {
		return h.internal(c, err)
	}

	pub, err := h.publicWithLinks(user)
	if err != nil {
		return h.internal(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"newLink": link,
		"user":    pub,
	})
}

// RemoveYoutubeLink handles DELETE /users/profile/youtube/:linkId.
func (h *UserHandler) RemoveYoutubeLink(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(domain.Error("Not authorized"))
	}

	linkID := c.Params("linkId")
	if err := h.Links.Remove(user.ID, linkID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(domain.Error("Link not found"))
		}
		return h.internal(c, err)
	}

	pub, err := h.publicWithLinks(user)
	if err != nil {
		return h.internal(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": pub})
}
