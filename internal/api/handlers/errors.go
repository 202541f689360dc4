package handlers

import (
	"errors"

	"nutriscan-backend/domain"
	"nutriscan-backend/internal/utils"
	"nutriscan-backend/internal/utils/storage"
	"nutriscan-backend/pkg/gemini"
	"nutriscan-backend/pkg/goal"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var errorStatuses = []struct {
	err    error
	status int
}{
	{domain.ErrParseUUID, fiber.StatusBadRequest},
	{domain.ErrInvalidDate, fiber.StatusBadRequest},
	{domain.ErrTokenExpired, fiber.StatusUnauthorized},
	{domain.ErrTokenInvalid, fiber.StatusUnauthorized},
	{domain.ErrUserNotFound, fiber.StatusNotFound},

	{domain.ErrProfileNotFound, fiber.StatusNotFound},
	{domain.ErrProfileAlreadyExists, fiber.StatusConflict},

	{domain.ErrGoalNotFound, fiber.StatusNotFound},
	{domain.ErrGoalAlreadyExists, fiber.StatusConflict},
	{domain.ErrProfileRequired, fiber.StatusBadRequest},
	{domain.ErrGoalTypeRequired, fiber.StatusBadRequest},
	{goal.ErrMissingBiometrics, fiber.StatusBadRequest},
	{goal.ErrInvalidGoalType, fiber.StatusBadRequest},

	{domain.ErrFoodItemNotFound, fiber.StatusNotFound},
	{domain.ErrFoodItemAlreadyExists, fiber.StatusConflict},
	{domain.ErrInvalidBarcode, fiber.StatusBadRequest},
	{domain.ErrSearchTermRequired, fiber.StatusBadRequest},
	{domain.ErrInvalidImageFormat, fiber.StatusBadRequest},
	{domain.ErrNameAndCaloriesRequired, fiber.StatusBadRequest},
	{domain.ErrExternalSource, fiber.StatusBadGateway},
	{storage.ErrStorageDisabled, fiber.StatusServiceUnavailable},

	{domain.ErrLogNotFound, fiber.StatusNotFound},
	{domain.ErrInvalidLogID, fiber.StatusBadRequest},
	{domain.ErrInvalidAmount, fiber.StatusBadRequest},
	{domain.ErrFoodItemRequired, fiber.StatusNotFound},

	{domain.ErrPromptRequired, fiber.StatusBadRequest},
	{domain.ErrMessageRequired, fiber.StatusBadRequest},
	{domain.ErrQuestionRequired, fiber.StatusBadRequest},
	{domain.ErrProductDataRequired, fiber.StatusBadRequest},
	{gemini.ErrNotConfigured, fiber.StatusServiceUnavailable},
}

// statusFor maps a service error to its HTTP status. Unknown errors are 500.
func statusFor(err error) int {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return fiber.StatusInternalServerError
}

// validate runs struct validation and flattens the failures into one error.
func validate(v *validator.Validate, req any) error {
	if err := v.Struct(req); err != nil {
		return errors.New(utils.ValidationMessage(err))
	}
	return nil
}

func userID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}
