package handlers

import (
	"nutriscan-backend/domain"
	"nutriscan-backend/internal/api/presenters"
	"nutriscan-backend/pkg/assistant"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

type (
	AssistantHandler interface {
		Health(c *fiber.Ctx) error
		Prompt(c *fiber.Ctx) error
		Chat(c *fiber.Ctx) error
		NutritionQuestion(c *fiber.Ctx) error
		GenerateRecommendations(c *fiber.Ctx) error
	}

	assistantHandler struct {
		assistantService assistant.AssistantService
		validator        *validator.Validate
	}
)

func NewAssistantHandler(assistantService assistant.AssistantService, validator *validator.Validate) AssistantHandler {
	return &assistantHandler{
		assistantService: assistantService,
		validator:        validator,
	}
}

func (h *assistantHandler) Health(c *fiber.Ctx) error {
	text, err := h.assistantService.Health(c.UserContext())
	if err != nil {
		log.Errorw("gemini health check failed", "error", err)
		return presenters.ErrorResponse(c, fiber.StatusServiceUnavailable, domain.MessageFailedGeminiHealth, err)
	}
	return presenters.SuccessResponse(c, fiber.Map{"reply": text}, fiber.StatusOK, domain.MessageSuccessGeminiHealth)
}

func (h *assistantHandler) Prompt(c *fiber.Ctx) error {
	req := new(domain.PromptRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := validate(h.validator, req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGenerateText, err)
	}

	res, err := h.assistantService.Prompt(c.UserContext(), *req)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedGenerateText, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGenerateText)
}

// Chat always answers 200 once the request is valid; completion failures
// come back as fallback text with isFallback set.
func (h *assistantHandler) Chat(c *fiber.Ctx) error {
	req := new(domain.ChatRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := validate(h.validator, req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGenerateText, err)
	}

	res, err := h.assistantService.Chat(c.UserContext(), userID(c), *req)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedGenerateText, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessChat)
}

func (h *assistantHandler) NutritionQuestion(c *fiber.Ctx) error {
	req := new(domain.NutritionQuestionRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := validate(h.validator, req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGenerateText, err)
	}

	res, err := h.assistantService.NutritionQuestion(c.UserContext(), userID(c), *req)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedGenerateText, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessNutritionAnswer)
}

func (h *assistantHandler) GenerateRecommendations(c *fiber.Ctx) error {
	req := new(domain.RecommendationRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := validate(h.validator, req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedRecommendations, err)
	}

	res, err := h.assistantService.Recommend(c.UserContext(), *req)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedRecommendations, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessRecommendations)
}
