package handlers

import (
	"nutriscan-backend/domain"
	"nutriscan-backend/internal/api/presenters"
	"nutriscan-backend/pkg/goal"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	GoalHandler interface {
		CreateGoal(c *fiber.Ctx) error
		GetGoal(c *fiber.Ctx) error
		UpdateGoal(c *fiber.Ctx) error
		DeleteGoal(c *fiber.Ctx) error
		PreviewGoal(c *fiber.Ctx) error
		CalculateGoal(c *fiber.Ctx) error
	}

	goalHandler struct {
		goalService goal.GoalService
		validator   *validator.Validate
	}
)

func NewGoalHandler(goalService goal.GoalService, validator *validator.Validate) GoalHandler {
	return &goalHandler{
		goalService: goalService,
		validator:   validator,
	}
}

func (h *goalHandler) CreateGoal(c *fiber.Ctx) error {
	req := new(domain.CreateGoalRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := validate(h.validator, req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateGoal, err)
	}

	res, err := h.goalService.CreateGoal(c.UserContext(), userID(c), *req)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedCreateGoal, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateGoal)
}

// GetGoal ensures a goal exists before returning it.
func (h *goalHandler) GetGoal(c *fiber.Ctx) error {
	res, err := h.goalService.GetGoal(c.UserContext(), userID(c))
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedGetGoal, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetGoal)
}

func (h *goalHandler) UpdateGoal(c *fiber.Ctx) error {
	req := new(domain.UpdateGoalRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := validate(h.validator, req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateGoal, err)
	}

	res, err := h.goalService.UpdateGoal(c.UserContext(), userID(c), *req)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedUpdateGoal, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateGoal)
}

func (h *goalHandler) DeleteGoal(c *fiber.Ctx) error {
	if err := h.goalService.DeleteGoal(c.UserContext(), userID(c)); err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedDeleteGoal, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteGoal)
}

func (h *goalHandler) PreviewGoal(c *fiber.Ctx) error {
	res, err := h.goalService.PreviewGoal(c.UserContext(), userID(c), c.Query("goalType"))
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedCalculateGoal, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessCalculateGoal)
}

// CalculateGoal is the public, stateless engine endpoint.
func (h *goalHandler) CalculateGoal(c *fiber.Ctx) error {
	req := new(domain.CalculateGoalRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := validate(h.validator, req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCalculateGoal, err)
	}

	targets, err := h.goalService.CalculateGoal(*req)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedCalculateGoal, err)
	}
	return presenters.SuccessResponse(c, targets, fiber.StatusOK, domain.MessageSuccessCalculateGoal)
}
