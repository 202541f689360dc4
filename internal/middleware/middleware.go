package middleware

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"nutriscan-backend/domain"
	"nutriscan-backend/internal/api/presenters"
	"nutriscan-backend/internal/utils"
	"nutriscan-backend/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

const defaultOrigins = "http://localhost:3000"

type (
	// UserResolver maps a verified identity to the internal user id.
	UserResolver interface {
		ResolveUserID(ctx context.Context, identity *jwt.Identity) (string, error)
	}

	Middleware interface {
		CORSMiddleware() fiber.Handler
		AuthMiddleware(jwtService jwt.JWTService, resolver UserResolver) fiber.Handler
		CacheHeaders(maxAge time.Duration) fiber.Handler
		RateLimit(max int, window time.Duration, message string) fiber.Handler
	}

	middleware struct{}
)

func NewMiddleware() Middleware {
	return &middleware{}
}

func (m *middleware) CORSMiddleware() fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins:     utils.GetConfigOr("CORS_ORIGINS", defaultOrigins),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowCredentials: true,
	})
}

// AuthMiddleware checks the bearer token and stores the internal user id
// in Locals("user_id"). Users that never logged in get 404.
func (m *middleware) AuthMiddleware(jwtService jwt.JWTService, resolver UserResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		token, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageTokenRequired, domain.ErrTokenNotFound)
		}

		identity, err := jwtService.VerifyToken(c.UserContext(), strings.TrimSpace(token))
		if err != nil {
			if errors.Is(err, domain.ErrTokenExpired) {
				return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageTokenExpired, err)
			}
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageTokenInvalid, err)
		}

		userID, err := resolver.ResolveUserID(c.UserContext(), identity)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedGetMe, err)
			}
			return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedProcessRequest, err)
		}

		c.Locals("user_id", userID)
		c.Locals("firebase_uid", identity.UID)
		return c.Next()
	}
}

// CacheHeaders marks successful anonymous GET responses as publicly
// cacheable. Authenticated requests, mutations and errors get no header.
func (m *middleware) CacheHeaders(maxAge time.Duration) fiber.Handler {
	value := fmt.Sprintf("public, max-age=%d", int(maxAge.Seconds()))
	return func(c *fiber.Ctx) error {
		if c.Method() != fiber.MethodGet || c.Get(fiber.HeaderAuthorization) != "" {
			return c.Next()
		}
		if err := c.Next(); err != nil {
			return err
		}
		if c.Response().StatusCode() < fiber.StatusBadRequest {
			c.Set(fiber.HeaderCacheControl, value)
		}
		return nil
	}
}

func (m *middleware) RateLimit(max int, window time.Duration, message string) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		LimitReached: func(c *fiber.Ctx) error {
			return presenters.ErrorResponse(c, fiber.StatusTooManyRequests, message, nil)
		},
	})
}
