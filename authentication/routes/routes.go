package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sakilahmmad71/railway-test-depl/authentication/blacklist"
	authControllers "github.com/sakilahmmad71/railway-test-depl/authentication/controllers"
	"github.com/sakilahmmad71/railway-test-depl/authentication/middleware"
	"github.com/sakilahmmad71/railway-test-depl/config"
	"github.com/sakilahmmad71/railway-test-depl/handlers"
	"github.com/sakilahmmad71/railway-test-depl/repositories"
)

// SetupRoutes wires every endpoint onto the app.
func SetupRoutes(app *fiber.App, cfg *config.Config, users repositories.UserStore, links repositories.LinkStore, bl blacklist.Blacklist) {
	authController := authControllers.NewAuthController(users, bl, cfg)
	userHandler := handlers.NewUserHandler(users, links, cfg.UploadDir)
	authRequired := middleware.JwtAuthMiddleware(cfg.JWTSecret, bl)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true, "message": "OK"})
	})

	auth := app.Group("/auth")
	auth.Post("/signup", authController.Signup)
	auth.Post("/signin", authController.Signin)
	auth.Post("/refresh-token", authController.RefreshToken)
	auth.Post("/signout", authController.Signout)

	// Static segments are registered before /:id so "content" and
	// "profile" never match as user ids.
	usersGroup := app.Group("/users")
	usersGroup.Get("/", userHandler.ListUsers)
	usersGroup.Get("/content", userHandler.ListContent)
	usersGroup.Get("/profile/me", authRequired, userHandler.Me)
	usersGroup.Put("/profile/me", authRequired, userHandler.UpdateMe)
	usersGroup.Post("/profile/youtube", authRequired, userHandler.AddYoutubeLink)
	usersGroup.Delete("/profile/youtube/:linkId", authRequired, userHandler.RemoveYoutubeLink)
	usersGroup.Get("/:id", userHandler.GetUser)
	usersGroup.Get("/:id/profile-picture", userHandler.GetProfilePicture)
}
