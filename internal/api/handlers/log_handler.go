package handlers

import (
	"strconv"

	"nutriscan-backend/domain"
	"nutriscan-backend/internal/api/presenters"
	"nutriscan-backend/pkg/consumption"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	LogHandler interface {
		ScanAndLog(c *fiber.Ctx) error
		CreateLog(c *fiber.Ctx) error
		GetLogs(c *fiber.Ctx) error
		GetLog(c *fiber.Ctx) error
		UpdateLog(c *fiber.Ctx) error
		DeleteLog(c *fiber.Ctx) error
		DailySummary(c *fiber.Ctx) error
	}

	logHandler struct {
		consumptionService consumption.ConsumptionService
		validator          *validator.Validate
	}
)

func NewLogHandler(consumptionService consumption.ConsumptionService, validator *validator.Validate) LogHandler {
	return &logHandler{
		consumptionService: consumptionService,
		validator:          validator,
	}
}

func logID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidLogID
	}
	return uint(id), nil
}

func (h *logHandler) ScanAndLog(c *fiber.Ctx) error {
	req := new(domain.ScanLogRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := validate(h.validator, req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedScanLog, err)
	}

	res, err := h.consumptionService.ScanAndLog(c.UserContext(), userID(c), *req)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedScanLog, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessScanLog)
}

func (h *logHandler) CreateLog(c *fiber.Ctx) error {
	req := new(domain.CreateLogRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := validate(h.validator, req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateLog, err)
	}

	res, err := h.consumptionService.CreateLog(c.UserContext(), userID(c), *req)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedCreateLog, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateLog)
}

func (h *logHandler) GetLogs(c *fiber.Ctx) error {
	res, err := h.consumptionService.GetLogs(c.UserContext(), userID(c), domain.LogQuery{
		Date:              c.Query("date"),
		StartDate:         c.Query("startDate"),
		EndDate:           c.Query("endDate"),
		PaginationRequest: pagination(c),
	})
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedGetLogs, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetLogs)
}

func (h *logHandler) GetLog(c *fiber.Ctx) error {
	id, err := logID(c)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetLog, err)
	}

	res, err := h.consumptionService.GetLog(c.UserContext(), userID(c), id)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedGetLog, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetLog)
}

func (h *logHandler) UpdateLog(c *fiber.Ctx) error {
	id, err := logID(c)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateLog, err)
	}

	req := new(domain.UpdateLogRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := validate(h.validator, req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateLog, err)
	}

	res, err := h.consumptionService.UpdateLog(c.UserContext(), userID(c), id, *req)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedUpdateLog, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateLog)
}

func (h *logHandler) DeleteLog(c *fiber.Ctx) error {
	id, err := logID(c)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedDeleteLog, err)
	}

	if err := h.consumptionService.DeleteLog(c.UserContext(), userID(c), id); err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedDeleteLog, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteLog)
}

func (h *logHandler) DailySummary(c *fiber.Ctx) error {
	res, err := h.consumptionService.DailySummary(c.UserContext(), userID(c), c.Params("date"))
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedGetSummary, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetSummary)
}
