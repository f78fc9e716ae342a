// Package controllers implements the /auth endpoints: registration,
// sign-in, token refresh, and sign-out.
package controllers

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/sakilahmmad71/railway-test-depl/authentication/blacklist"
	"github.com/sakilahmmad71/railway-test-depl/config"
	"github.com/sakilahmmad71/railway-test-depl/domain"
	"github.com/sakilahmmad71/railway-test-depl/internal/util"
	"github.com/sakilahmmad71/railway-test-depl/models"
	"github.com/sakilahmmad71/railway-test-depl/repositories"
)

type AuthController struct {
	Users     repositories.UserStore
	Blacklist blacklist.Blacklist
	Cfg       *config.Config
}

func NewAuthController(users repositories.UserStore, bl blacklist.Blacklist, cfg *config.Config) *AuthController {
	return &AuthController{Users: users, Blacklist: bl, Cfg: cfg}
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// issueTokenPair signs a fresh access/refresh pair and persists the refresh
// token, overwriting and thereby invalidating any prior one.
func (ac *AuthController) issueTokenPair(user *models.User) (string, string, error) {
	accessToken, err := util.CreateAccessToken(user, ac.Cfg.JWTSecret, ac.Cfg.AccessTokenExpiry)
	if err != nil {
		return "", "", err
	}
	refreshToken, err := util.CreateRefreshToken(user, ac.Cfg.JWTSecret, ac.Cfg.RefreshTokenExpiry)
	if err != nil {
		return "", "", err
	}
	if err := ac.Users.SetRefreshToken(user.ID, refreshToken); err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

// Signup handles POST /auth/signup.
func (ac *AuthController) Signup(c *fiber.Ctx) error {
	var req signupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(domain.Error("Failed to parse request body"))
	}

	if err := models.ValidateSignup(req.Name, req.Email, req.Password); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(domain.Error(err.Error()))
	}

	email := models.NormalizeEmail(req.Email)
	taken, err := ac.Users.EmailTaken(email, 0)
	if err != nil {
		return ac.internal(c, err)
	}
	if taken {
		return c.Status(fiber.StatusConflict).JSON(domain.Error("Email is already registered"))
	}

	hashed, err := models.HashPassword(req.Password)
	if err != nil {
		return ac.internal(c, err)
	}

	user := models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hashed,
	}
	if err := ac.Users.Create(&user); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return c.Status(fiber.StatusConflict).JSON(domain.Error("Email is already registered"))
		}
		return ac.internal(c, err)
	}

	accessToken, refreshToken, err := ac.issueTokenPair(&user)
	if err != nil {
		return ac.internal(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":      true,
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
		"user":         user.Public(),
	})
}

// Signin handles POST /auth/signin.
func (ac *AuthController) Signin(c *fiber.Ctx) error {
	var req signinRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(domain.Error("Failed to parse request body"))
	}

	user, err := ac.Users.GetByEmail(req.Email)
	if errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(domain.Error("No user found with this email"))
	}
	if err != nil {
		return ac.internal(c, err)
	}

	if !user.CheckPassword(req.Password) {
		return c.Status(fiber.StatusUnauthorized).JSON(domain.Error("Invalid credentials"))
	}

	accessToken, refreshToken, err := ac.issueTokenPair(user)
	if err != nil {
		return ac.internal(c, err)
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
		"user":         user.Public(),
	})
}

// RefreshToken handles POST /auth/refresh-token. The presented token must
// verify, match the stored value, and carry the user's current token
// version; anything else is a 401.
func (ac *AuthController) RefreshToken(c *fiber.Ctx) error {
	var req refreshRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(domain.Error("Failed to parse request body"))
	}

	claims, err := util.VerifyRefreshToken(req.RefreshToken, ac.Cfg.JWTSecret)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(domain.Error("Invalid refresh token"))
	}

	userID, err := util.ParseUserID(claims.ID)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(domain.Error("Invalid refresh token"))
	}

	user, err := ac.Users.GetByID(userID)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(domain.Error("Invalid refresh token"))
	}

	// Rotated-out or force-revoked tokens fail here even though the
	// signature is still good.
	if user.RefreshToken != req.RefreshToken || user.TokenVersion != claims.TokenVersion {
		return c.Status(fiber.StatusUnauthorized).JSON(domain.Error("Invalid refresh token"))
	}

	accessToken, err := util.CreateAccessToken(user, ac.Cfg.JWTSecret, ac.Cfg.AccessTokenExpiry)
	if err != nil {
		return ac.internal(c, err)
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"accessToken": accessToken,
	})
}

// Signout handles POST /auth/signout. It always answers 200: a token that
// no longer verifies is already signed out. A valid token is blacklisted
// for its remaining lifetime and the user's token version is bumped, which
// kills every outstanding refresh token immediately.
func (ac *AuthController) Signout(c *fiber.Ctx) error {
	ok := fiber.Map{"success": true, "message": "Signed out successfully"}

	token := bearerToken(c)
	if token == "" {
		return c.JSON(ok)
	}

	claims, err := util.VerifyAccessToken(token, ac.Cfg.JWTSecret)
	if err != nil {
		return c.JSON(ok)
	}

	// An already-revoked token is already signed out; bumping the version
	// again would be a second revocation for the same pair.
	if revoked, err := ac.Blacklist.IsRevoked(c.UserContext(), token); err != nil {
		log.Printf("Failed to check blacklist: %v", err)
	} else if revoked {
		return c.JSON(ok)
	}

	if err := ac.Blacklist.Revoke(c.UserContext(), token, util.RemainingTTL(claims)); err != nil {
		log.Printf("Failed to blacklist token: %v", err)
	}

	if userID, err := util.ParseUserID(claims.ID); err == nil {
		if err := ac.Users.BumpTokenVersion(userID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return ac.internal(c, err)
		}
	}

	return c.JSON(ok)
}

func (ac *AuthController) internal(c *fiber.Ctx, err error) error {
	log.Printf("%s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(domain.Error("Something went wrong"))
}

// bearerToken pulls the token out of an Authorization: Bearer header, or
// returns empty.
func bearerToken(c *fiber.Ctx) string {
	parts := strings.Split(c.Get("Authorization"), " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}
