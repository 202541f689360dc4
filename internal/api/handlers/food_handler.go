package handlers

import (
	"strconv"
	"strings"

	"nutriscan-backend/domain"
	"nutriscan-backend/internal/api/presenters"
	"nutriscan-backend/pkg/food"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	FoodHandler interface {
		LookupBarcode(c *fiber.Ctx) error
		CreateFoodItem(c *fiber.Ctx) error
		GetFoodItems(c *fiber.Ctx) error
		SearchExternal(c *fiber.Ctx) error
		UpdateFoodItem(c *fiber.Ctx) error
		DeleteFoodItem(c *fiber.Ctx) error
		UploadFoodImage(c *fiber.Ctx) error
	}

	foodHandler struct {
		foodService food.FoodService
		validator   *validator.Validate
	}
)

func NewFoodHandler(foodService food.FoodService, validator *validator.Validate) FoodHandler {
	return &foodHandler{
		foodService: foodService,
		validator:   validator,
	}
}

// pagination reads page and limit query params. Bad values fall back to the
// defaults applied by PaginationRequest.Normalize.
func pagination(c *fiber.Ctx) domain.PaginationRequest {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil {
		page = 1
	}
	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil {
		limit = 20
	}
	return domain.PaginationRequest{Page: page, Limit: limit}.Normalize()
}

// LookupBarcode answers 201 when the item was fetched and stored during this
// request, 200 otherwise.
func (h *foodHandler) LookupBarcode(c *fiber.Ctx) error {
	autoFetch := !strings.EqualFold(c.Query("autoFetch", "true"), "false")

	res, err := h.foodService.LookupBarcode(c.UserContext(), c.Params("barcode"), autoFetch)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedGetFoodItem, err)
	}

	status := fiber.StatusOK
	if res.Created {
		status = fiber.StatusCreated
	}
	return presenters.SuccessResponse(c, res, status, domain.MessageSuccessGetFoodItem)
}

func (h *foodHandler) CreateFoodItem(c *fiber.Ctx) error {
	req := new(domain.CreateFoodItemRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := validate(h.validator, req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAddFoodItem, err)
	}

	res, err := h.foodService.CreateFoodItem(c.UserContext(), *req)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedAddFoodItem, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessAddFoodItem)
}

func (h *foodHandler) GetFoodItems(c *fiber.Ctx) error {
	res, err := h.foodService.GetFoodItems(c.UserContext(), domain.FoodItemQuery{
		Search:            c.Query("search"),
		PaginationRequest: pagination(c),
	})
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedGetFoodItems, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetFoodItems)
}

func (h *foodHandler) SearchExternal(c *fiber.Ctx) error {
	res, err := h.foodService.SearchExternal(c.UserContext(), c.Query("q"), pagination(c))
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedSearchFoodItems, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessSearchFoodItems)
}

func (h *foodHandler) UpdateFoodItem(c *fiber.Ctx) error {
	req := new(domain.UpdateFoodItemRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := validate(h.validator, req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateFoodItem, err)
	}

	res, err := h.foodService.UpdateFoodItem(c.UserContext(), c.Params("barcode"), *req)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedUpdateFoodItem, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateFoodItem)
}

func (h *foodHandler) DeleteFoodItem(c *fiber.Ctx) error {
	if err := h.foodService.DeleteFoodItem(c.UserContext(), c.Params("barcode")); err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedDeleteFoodItem, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteFoodItem)
}

func (h *foodHandler) UploadFoodImage(c *fiber.Ctx) error {
	file, err := c.FormFile("image")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	req := domain.UploadFoodImageRequest{Barcode: c.Params("barcode"), Image: file}
	if err := validate(h.validator, req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUploadFoodImage, err)
	}

	res, err := h.foodService.UploadFoodImage(c.UserContext(), req)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedUploadFoodImage, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUploadFoodImage)
}
