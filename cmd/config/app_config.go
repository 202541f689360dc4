package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"nutriscan-backend/domain"
	"nutriscan-backend/internal/api/handlers"
	"nutriscan-backend/internal/api/presenters"
	"nutriscan-backend/internal/api/routes"
	"nutriscan-backend/internal/middleware"
	"nutriscan-backend/internal/utils"
	"nutriscan-backend/internal/utils/mailing"
	"nutriscan-backend/internal/utils/storage"
	"nutriscan-backend/pkg/assistant"
	"nutriscan-backend/pkg/consumption"
	"nutriscan-backend/pkg/food"
	"nutriscan-backend/pkg/gemini"
	"nutriscan-backend/pkg/goal"
	"nutriscan-backend/pkg/jwt"
	"nutriscan-backend/pkg/openfoodfacts"
	"nutriscan-backend/pkg/profile"
	"nutriscan-backend/pkg/user"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

const (
	defaultLogFile = "./logs/app.log"
	bodyLimit      = 10 << 20
)

// Clients are the outbound dependencies of the app.
type Clients struct {
	JWT           jwt.JWTService
	OpenFoodFacts openfoodfacts.Client
	Gemini        gemini.Client
	Storage       storage.AwsS3
	Mailer        mailing.Mailer
}

// ClientsFromConfig builds every client from config keys. OpenFoodFacts
// lookups go through Redis when REDIS_ADDR is reachable.
func ClientsFromConfig(ctx context.Context) Clients {
	off := openfoodfacts.NewClient(utils.GetConfig("OPENFOODFACTS_URL"), nil)
	return Clients{
		JWT:           jwt.NewJWTService(),
		OpenFoodFacts: openfoodfacts.NewCachedClient(off, openfoodfacts.NewCacheFromConfig(ctx), openfoodfacts.DefaultCacheTTL),
		Gemini:        gemini.NewClientFromConfig(),
		Storage:       storage.NewAwsS3(),
		Mailer:        mailing.NewSMTPMailer(),
	}
}

func NewApp(db *gorm.DB) (*fiber.App, error) {
	return NewAppWithClients(db, ClientsFromConfig(context.Background()))
}

func NewAppWithClients(db *gorm.DB, clients Clients) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		AppName:      "NutriScan API",
		BodyLimit:    bodyLimit,
		ErrorHandler: errorHandler,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and security headers
	logFile := utils.GetConfigOr("LOG_FILE", defaultLogFile)
	if err := os.MkdirAll(filepath.Dir(logFile), os.ModePerm); err != nil {
		return nil, err
	}
	file, err := os.OpenFile(logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return nil, err
	}
	app.Hooks().OnShutdown(file.Close)

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "UTC",
		Output:     file,
	}))
	app.Use(helmet.New())
	app.Use(compress.New())

	// Repository
	userRepository := user.NewUserRepository(db)
	profileRepository := profile.NewProfileRepository(db)
	goalRepository := goal.NewGoalRepository(db)
	foodRepository := food.NewFoodRepository(db)
	consumptionRepository := consumption.NewConsumptionRepository(db)

	// Service
	userService := user.NewUserService(userRepository, clients.JWT, clients.Mailer)
	profileService := profile.NewProfileService(profileRepository, goalRepository)
	goalService := goal.NewGoalService(goalRepository, profileRepository)
	foodService := food.NewFoodService(foodRepository, clients.OpenFoodFacts, clients.Storage)
	consumptionService := consumption.NewConsumptionService(consumptionRepository, foodService, goalRepository)
	assistantService := assistant.NewAssistantService(clients.Gemini, userRepository, profileRepository, goalRepository, consumptionRepository)

	// Handler
	routesConfig := routes.Config{
		App:              app,
		UserHandler:      handlers.NewUserHandler(userService, validator),
		ProfileHandler:   handlers.NewProfileHandler(profileService, validator),
		GoalHandler:      handlers.NewGoalHandler(goalService, validator),
		FoodHandler:      handlers.NewFoodHandler(foodService, validator),
		LogHandler:       handlers.NewLogHandler(consumptionService, validator),
		AssistantHandler: handlers.NewAssistantHandler(assistantService, validator),
		Middleware:       middlewares,
		JWTService:       clients.JWT,
		UserResolver:     userService,
	}
	routesConfig.Setup()
	return app, nil
}

func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return presenters.ErrorResponse(c, fe.Code, fe.Message, nil)
	}
	log.Errorw("unhandled request error", "path", c.Path(), "error", err)
	return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageSomethingWentWrong, nil)
}
