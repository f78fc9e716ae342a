package main

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/sakilahmmad71/railway-test-depl/authentication/blacklist"
	"github.com/sakilahmmad71/railway-test-depl/authentication/routes"
	"github.com/sakilahmmad71/railway-test-depl/config"
	"github.com/sakilahmmad71/railway-test-depl/database"
	"github.com/sakilahmmad71/railway-test-depl/domain"
	"github.com/sakilahmmad71/railway-test-depl/repositories"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db := database.Connect(cfg)
	users := repositories.NewGormUserStore(db)
	links := repositories.NewGormLinkStore(db)

	// The Redis-backed blacklist is the production path: revocations must
	// be visible to every instance. The in-process set only suits a
	// single-instance deployment.
	var bl blacklist.Blacklist
	if cfg.RedisAddr != "" {
		bl = blacklist.NewRedisBlacklist(database.ConnectRedis(cfg))
	} else {
		log.Println("REDIS_ADDR not set, using in-process token blacklist")
		bl = blacklist.NewMemoryBlacklist()
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Fatalf("Failed to create upload directory: %v", err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			if code == fiber.StatusInternalServerError {
				log.Printf("%s %s: %v", c.Method(), c.Path(), err)
				return c.Status(code).JSON(domain.Error("Something went wrong"))
			}
			return c.Status(code).JSON(domain.Error(err.Error()))
		},
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	routes.SetupRoutes(app, cfg, users, links, bl)

	log.Printf("Starting server on port %s...", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
