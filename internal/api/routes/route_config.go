package routes

import (
	"time"

	"nutriscan-backend/domain"
	"nutriscan-backend/internal/api/handlers"
	"nutriscan-backend/internal/api/presenters"
	"nutriscan-backend/internal/middleware"
	"nutriscan-backend/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

const (
	apiRateLimit  = 100
	authRateLimit = 10
	rateWindow    = 15 * time.Minute

	barcodeCacheAge = time.Hour
	publicCacheAge  = 30 * time.Minute

	apiVersion = "1.0.0"
)

type Config struct {
	App              *fiber.App
	UserHandler      handlers.UserHandler
	ProfileHandler   handlers.ProfileHandler
	GoalHandler      handlers.GoalHandler
	FoodHandler      handlers.FoodHandler
	LogHandler       handlers.LogHandler
	AssistantHandler handlers.AssistantHandler
	Middleware       middleware.Middleware
	JWTService       jwt.JWTService
	UserResolver     middleware.UserResolver
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.App.Use("/api", c.Middleware.RateLimit(apiRateLimit, rateWindow, "Too many requests from this IP, please try again later."))
	c.GuestRoute()
	c.Auth()
	c.Profile()
	c.Goals()
	c.FoodItems()
	c.Barcode()
	c.Public()
	c.Logs()
	c.Assistant()
}

func (c *Config) auth() fiber.Handler {
	return c.Middleware.AuthMiddleware(c.JWTService, c.UserResolver)
}

func (c *Config) GuestRoute() {
	c.App.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": "Welcome to NutriScan API",
			"version": apiVersion,
			"endpoints": fiber.Map{
				"auth":            "/api/auth",
				"profile":         "/api/profile",
				"goals":           "/api/goals",
				"food":            "/api/food",
				"logs":            "/api/logs",
				"recommendations": "/api/recommendations",
				"barcode":         "/api/barcode",
				"gemini":          "/api/gemini",
			},
		})
	})
	c.App.Get("/api/ping", func(ctx *fiber.Ctx) error {
		return presenters.SuccessResponse(ctx, nil, fiber.StatusOK, domain.MessageSuccessPing)
	})
}

func (c *Config) Auth() {
	auth := c.App.Group("/api/auth", c.Middleware.RateLimit(authRateLimit, rateWindow, "Too many authentication attempts, please try again later."))
	{
		auth.Post("/login", c.UserHandler.Login)
		auth.Get("/me", c.auth(), c.UserHandler.Me)
	}
}

func (c *Config) Profile() {
	profile := c.App.Group("/api/profile", c.auth())
	{
		profile.Post("", c.ProfileHandler.CreateProfile)
		profile.Get("", c.ProfileHandler.GetProfile)
		profile.Put("", c.ProfileHandler.UpdateProfile)
		profile.Delete("", c.ProfileHandler.DeleteProfile)
	}
}

func (c *Config) Goals() {
	goals := c.App.Group("/api/goals", c.auth())
	{
		goals.Get("/calculate", c.GoalHandler.PreviewGoal)
		goals.Post("", c.GoalHandler.CreateGoal)
		goals.Get("", c.GoalHandler.GetGoal)
		goals.Put("", c.GoalHandler.UpdateGoal)
		goals.Delete("", c.GoalHandler.DeleteGoal)
	}
}

func (c *Config) FoodItems() {
	food := c.App.Group("/api/food")
	cache := c.Middleware.CacheHeaders(barcodeCacheAge)

	// lookups are public
	food.Get("/barcode/:barcode", cache, c.FoodHandler.LookupBarcode)
	food.Get("/search-external", cache, c.FoodHandler.SearchExternal)

	food.Post("", c.auth(), c.FoodHandler.CreateFoodItem)
	food.Get("", c.auth(), c.FoodHandler.GetFoodItems)
	food.Put("/:barcode", c.auth(), c.FoodHandler.UpdateFoodItem)
	food.Delete("/:barcode", c.auth(), c.FoodHandler.DeleteFoodItem)
	food.Post("/:barcode/image", c.auth(), c.FoodHandler.UploadFoodImage)
}

func (c *Config) Barcode() {
	barcode := c.App.Group("/api/barcode")
	barcode.Get("/:barcode", c.Middleware.CacheHeaders(barcodeCacheAge), c.FoodHandler.LookupBarcode)
}

func (c *Config) Public() {
	public := c.App.Group("/api/public")
	public.Get("/barcode/:barcode", c.Middleware.CacheHeaders(publicCacheAge), c.FoodHandler.LookupBarcode)
	public.Post("/goals/calculate", c.GoalHandler.CalculateGoal)
}

func (c *Config) Logs() {
	logs := c.App.Group("/api/logs", c.auth())
	{
		logs.Post("/scan", c.LogHandler.ScanAndLog)
		logs.Post("", c.LogHandler.CreateLog)
		logs.Get("", c.LogHandler.GetLogs)
		logs.Get("/daily-summary/:date", c.LogHandler.DailySummary)
		logs.Get("/:id", c.LogHandler.GetLog)
		logs.Put("/:id", c.LogHandler.UpdateLog)
		logs.Delete("/:id", c.LogHandler.DeleteLog)
	}
}

func (c *Config) Assistant() {
	gemini := c.App.Group("/api/gemini")
	{
		gemini.Get("/health", c.AssistantHandler.Health)
		gemini.Post("/prompt", c.auth(), c.AssistantHandler.Prompt)
		gemini.Post("/chat", c.auth(), c.AssistantHandler.Chat)
		gemini.Post("/nutrition-question", c.auth(), c.AssistantHandler.NutritionQuestion)
	}

	recommendations := c.App.Group("/api/recommendations")
	recommendations.Post("/generate", c.auth(), c.AssistantHandler.GenerateRecommendations)
}
