package main

import (
	"context"

	fiber "github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"

	"github.com/restbridge/restbridge/config"
	"github.com/restbridge/restbridge/internal/api/v1/middleware"
	"github.com/restbridge/restbridge/internal/auth"
	"github.com/restbridge/restbridge/internal/db"
	"github.com/restbridge/restbridge/internal/db/repos"
	log "github.com/restbridge/restbridge/internal/logger"
	"github.com/restbridge/restbridge/internal/oauth"
	"github.com/restbridge/restbridge/internal/types"
	"github.com/restbridge/restbridge/pkg/api/v1/handlers"
	"github.com/restbridge/restbridge/pkg/api/v1/routes"
)

func main() {
	// A missing .env file is fine in production; the environment is
	// expected to be set by the deployment.
	_ = godotenv.Load()

	log.Initialize()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	database, err := db.New(db.Options{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSL:      cfg.DBSSL,
	})
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	registryRepo := repos.NewRegistryRepository(database)
	recordRepo := repos.NewRecordRepository(database, registryRepo)
	userRepo := repos.NewUserRepository(database)
	accessRepo := repos.NewAccessRepository(database)
	providerRepo := repos.NewProviderRepository(database)

	if login := config.GetEnv("BOOTSTRAP_LOGIN", ""); login != "" {
		password := config.GetEnv("BOOTSTRAP_PASSWORD", "")
		if err := userRepo.EnsureUser(context.Background(), login, login, password); err != nil {
			log.Fatal("Failed to bootstrap user: ", err)
		}
	}

	codec := auth.NewTokenCodec(cfg.SigningKey, cfg.TokenTTL)
	verifier := oauth.NewVerifier(providerRepo)
	dispatcher := auth.NewDispatcher(codec, userRepo, verifier, cfg.Database)

	api := handlers.NewAPIHandler(registryRepo, recordRepo, accessRepo, cfg.MaxPageSize)

	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler,
	})
	app.Use(middleware.WithRequestID())
	app.Use(middleware.Logger())

	routes.RegisterRoutes(app, middleware.BearerAuth(codec),
		handlers.NewAuthHandler(dispatcher), handlers.NewModelHandler(api))

	log.Info("Server listening on port ", cfg.ServerPort)
	if err := app.Listen(":" + cfg.ServerPort); err != nil {
		log.Fatal("Server stopped: ", err)
	}
}

// errorHandler keeps the error envelope uniform for failures raised by
// fiber itself, e.g. unmatched routes and oversized bodies.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(types.ErrorResponse{Error: err.Error()})
}
