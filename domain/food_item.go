package domain

import (
	"errors"
	"mime/multipart"
	"time"
)

var (
	MessageSuccessAddFoodItem     = "food item added successfully"
	MessageSuccessUpdateFoodItem  = "food item updated successfully"
	MessageSuccessDeleteFoodItem  = "food item deleted successfully"
	MessageSuccessGetFoodItem     = "food item retrieved successfully"
	MessageSuccessGetFoodItems    = "food items retrieved successfully"
	MessageSuccessSearchFoodItems = "external search completed successfully"
	MessageSuccessUploadFoodImage = "food image uploaded successfully"

	MessageFailedAddFoodItem     = "failed to add food item"
	MessageFailedUpdateFoodItem  = "failed to update food item"
	MessageFailedDeleteFoodItem  = "failed to delete food item"
	MessageFailedGetFoodItem     = "failed to fetch food item"
	MessageFailedGetFoodItems    = "failed to retrieve food items"
	MessageFailedSearchFoodItems = "failed to search products"
	MessageFailedUploadFoodImage = "failed to upload food image"

	WarningStaleFoodItem = "product data may be incomplete, external source unavailable"

	ErrFoodItemNotFound      = errors.New("food item not found")
	ErrFoodItemAlreadyExists = errors.New("food item with this barcode already exists")
	ErrInvalidBarcode        = errors.New("invalid barcode")
	ErrSearchTermRequired    = errors.New("search query is required")
	ErrInvalidImageFormat    = errors.New("invalid image format")
	ErrExternalSource        = errors.New("external food database unavailable")

	ErrNameAndCaloriesRequired = errors.New("name and caloriesPer100g are required fields")
)

type (
	CreateFoodItemRequest struct {
		Barcode         string   `json:"barcode" validate:"required,max=64"`
		Name            string   `json:"name" validate:"omitempty,max=255"`
		Brand           string   `json:"brand" validate:"omitempty,max=255"`
		Category        string   `json:"category" validate:"omitempty,max=255"`
		CaloriesPer100g *float64 `json:"caloriesPer100g" validate:"omitempty,min=0"`
		ProteinsPer100g *float64 `json:"proteinsPer100g" validate:"omitempty,min=0"`
		CarbsPer100g    *float64 `json:"carbsPer100g" validate:"omitempty,min=0"`
		FatsPer100g     *float64 `json:"fatsPer100g" validate:"omitempty,min=0"`
		SugarsPer100g   *float64 `json:"sugarsPer100g" validate:"omitempty,min=0"`
		FiberPer100g    *float64 `json:"fiberPer100g" validate:"omitempty,min=0"`
		SodiumPer100g   *float64 `json:"sodiumPer100g" validate:"omitempty,min=0"`
		ServingSize     *float64 `json:"servingSize" validate:"omitempty,gt=0"`
		ServingUnit     string   `json:"servingUnit" validate:"omitempty,max=16"`
		ImageURL        string   `json:"imageUrl" validate:"omitempty,url"`
		FetchFromAPI    bool     `json:"fetchFromAPI"`
	}

	UpdateFoodItemRequest struct {
		Name            *string  `json:"name" validate:"omitempty,max=255"`
		Brand           *string  `json:"brand" validate:"omitempty,max=255"`
		Category        *string  `json:"category" validate:"omitempty,max=255"`
		CaloriesPer100g *float64 `json:"caloriesPer100g" validate:"omitempty,min=0"`
		ProteinsPer100g *float64 `json:"proteinsPer100g" validate:"omitempty,min=0"`
		CarbsPer100g    *float64 `json:"carbsPer100g" validate:"omitempty,min=0"`
		FatsPer100g     *float64 `json:"fatsPer100g" validate:"omitempty,min=0"`
		SugarsPer100g   *float64 `json:"sugarsPer100g" validate:"omitempty,min=0"`
		FiberPer100g    *float64 `json:"fiberPer100g" validate:"omitempty,min=0"`
		SodiumPer100g   *float64 `json:"sodiumPer100g" validate:"omitempty,min=0"`
		ServingSize     *float64 `json:"servingSize" validate:"omitempty,gt=0"`
		ServingUnit     *string  `json:"servingUnit" validate:"omitempty,max=16"`
		ImageURL        *string  `json:"imageUrl" validate:"omitempty,url"`
	}

	UploadFoodImageRequest struct {
		Barcode string                `json:"barcode" form:"barcode" validate:"required"`
		Image   *multipart.FileHeader `json:"image" form:"image" validate:"required"`
	}

	FoodItemQuery struct {
		Search string
		PaginationRequest
	}

	// FoodLookupResult is the outcome of a barcode lookup. Source is
	// "database" or "openfoodfacts"; Warning is set when a stale record is
	// returned because the external source failed.
	FoodLookupResult struct {
		FoodItem FoodItemResponse `json:"foodItem"`
		Source   string           `json:"source"`
		Warning  string           `json:"warning,omitempty"`
		Created  bool             `json:"-"`
	}

	FoodItemResponse struct {
		Barcode         string    `json:"barcode"`
		Name            string    `json:"name"`
		Brand           string    `json:"brand,omitempty"`
		Category        string    `json:"category,omitempty"`
		CaloriesPer100g float64   `json:"caloriesPer100g"`
		ProteinsPer100g float64   `json:"proteinsPer100g"`
		CarbsPer100g    float64   `json:"carbsPer100g"`
		FatsPer100g     float64   `json:"fatsPer100g"`
		SugarsPer100g   float64   `json:"sugarsPer100g"`
		FiberPer100g    *float64  `json:"fiberPer100g,omitempty"`
		SodiumPer100g   *float64  `json:"sodiumPer100g,omitempty"`
		ServingSize     float64   `json:"servingSize"`
		ServingUnit     string    `json:"servingUnit"`
		ImageURL        string    `json:"imageUrl,omitempty"`
		Source          string    `json:"dataSource"`
		LastUpdated     time.Time `json:"lastUpdated"`
	}

	FoodItemListResponse struct {
		FoodItems  []FoodItemResponse `json:"foodItems"`
		Pagination PaginationResponse `json:"pagination"`
	}

	ExternalProduct struct {
		Barcode  string `json:"barcode"`
		Name     string `json:"name"`
		Brand    string `json:"brand"`
		ImageURL string `json:"imageUrl,omitempty"`
	}

	ExternalSearchResponse struct {
		Count    int               `json:"count"`
		Page     int               `json:"page"`
		PageSize int               `json:"pageSize"`
		Products []ExternalProduct `json:"products"`
	}
)
