package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessCreateLog  = "food consumption logged successfully"
	MessageSuccessScanLog    = "product scanned and logged successfully"
	MessageSuccessGetLog     = "consumption log retrieved successfully"
	MessageSuccessGetLogs    = "consumption logs retrieved successfully"
	MessageSuccessUpdateLog  = "consumption log updated successfully"
	MessageSuccessDeleteLog  = "consumption log deleted successfully"
	MessageSuccessGetSummary = "daily summary retrieved successfully"

	MessageFailedCreateLog  = "failed to log food consumption"
	MessageFailedScanLog    = "failed to scan and log product"
	MessageFailedGetLog     = "failed to fetch consumption log"
	MessageFailedGetLogs    = "failed to fetch consumption logs"
	MessageFailedUpdateLog  = "failed to update consumption log"
	MessageFailedDeleteLog  = "failed to delete consumption log"
	MessageFailedGetSummary = "failed to fetch daily summary"

	CalculationAuto            = "auto-calculated"
	CalculationManual          = "manual/mixed"
	CalculationUpdatedManually = "manual"

	ErrLogNotFound      = errors.New("consumption log not found")
	ErrInvalidLogID     = errors.New("invalid consumption log id")
	ErrInvalidAmount    = errors.New("amount consumed must be a positive number (in grams)")
	ErrFoodItemRequired = errors.New("food item not found, add the food item first")
)

type (
	ScanLogRequest struct {
		Barcode        string   `json:"barcode" validate:"required,max=64"`
		AmountConsumed *float64 `json:"amountConsumed" validate:"omitempty,gt=0"`
	}

	CreateLogRequest struct {
		Barcode          string   `json:"barcode" validate:"required,max=64"`
		Date             string   `json:"date" validate:"omitempty,datetime=2006-01-02"`
		AmountConsumed   float64  `json:"amountConsumed" validate:"required,gt=0"`
		CaloriesConsumed *float64 `json:"caloriesConsumed" validate:"omitempty,min=0"`
		CarbsConsumed    *float64 `json:"carbsConsumed" validate:"omitempty,min=0"`
		ProteinsConsumed *float64 `json:"proteinsConsumed" validate:"omitempty,min=0"`
		FatsConsumed     *float64 `json:"fatsConsumed" validate:"omitempty,min=0"`
		SugarsConsumed   *float64 `json:"sugarsConsumed" validate:"omitempty,min=0"`
		AutoCalculate    *bool    `json:"autoCalculate"`
	}

	UpdateLogRequest struct {
		Date             *string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
		AmountConsumed   *float64 `json:"amountConsumed" validate:"omitempty,gt=0"`
		CaloriesConsumed *float64 `json:"caloriesConsumed" validate:"omitempty,min=0"`
		CarbsConsumed    *float64 `json:"carbsConsumed" validate:"omitempty,min=0"`
		ProteinsConsumed *float64 `json:"proteinsConsumed" validate:"omitempty,min=0"`
		FatsConsumed     *float64 `json:"fatsConsumed" validate:"omitempty,min=0"`
		SugarsConsumed   *float64 `json:"sugarsConsumed" validate:"omitempty,min=0"`
		AutoCalculate    *bool    `json:"autoCalculate"`
	}

	LogQuery struct {
		Date      string
		StartDate string
		EndDate   string
		PaginationRequest
	}

	LogFoodSummary struct {
		Barcode         string  `json:"barcode"`
		Name            string  `json:"name"`
		Brand           string  `json:"brand,omitempty"`
		ServingSize     float64 `json:"servingSize"`
		CaloriesPer100g float64 `json:"caloriesPer100g"`
		ImageURL        string  `json:"imageUrl,omitempty"`
	}

	LogResponse struct {
		ID                 uint            `json:"id"`
		Barcode            string          `json:"barcode"`
		Date               string          `json:"date"`
		AmountConsumed     float64         `json:"amountConsumed"`
		ConsumedAt         time.Time       `json:"consumedAt"`
		CalculatedCalories *float64        `json:"calculatedCalories"`
		CalculatedProtein  *float64        `json:"calculatedProtein"`
		CalculatedCarbs    *float64        `json:"calculatedCarbs"`
		CalculatedFat      *float64        `json:"calculatedFat"`
		CalculatedSugar    *float64        `json:"calculatedSugar"`
		CalculatedFiber    *float64        `json:"calculatedFiber,omitempty"`
		CalculatedSodium   *float64        `json:"calculatedSodium,omitempty"`
		IsManualEntry      bool            `json:"isManualEntry"`
		FoodItem           *LogFoodSummary `json:"foodItem,omitempty"`
		CreatedAt          time.Time       `json:"createdAt"`
	}

	ScanLogResponse struct {
		FoodItem       FoodItemResponse `json:"foodItem"`
		ConsumptionLog LogResponse      `json:"consumptionLog"`
		Source         string           `json:"source"`
	}

	CreateLogResponse struct {
		ConsumptionLog    LogResponse `json:"consumptionLog"`
		CalculationMethod string      `json:"calculationMethod"`
	}

	LogListResponse struct {
		ConsumptionLogs []LogResponse      `json:"consumptionLogs"`
		Pagination      PaginationResponse `json:"pagination"`
	}

	NutritionTotals struct {
		TotalCalories float64 `json:"totalCalories"`
		TotalCarbs    float64 `json:"totalCarbs"`
		TotalProteins float64 `json:"totalProteins"`
		TotalFats     float64 `json:"totalFats"`
		TotalSugars   float64 `json:"totalSugars"`
		TotalItems    int     `json:"totalItems"`
	}

	// NutrientComparison reports progress against one target. Percentage is
	// nil when the target is not positive.
	NutrientComparison struct {
		Consumed   float64 `json:"consumed"`
		Goal       float64 `json:"goal"`
		Remaining  float64 `json:"remaining"`
		Percentage *int    `json:"percentage"`
	}

	GoalComparison struct {
		Calories NutrientComparison `json:"calories"`
		Carbs    NutrientComparison `json:"carbs"`
		Proteins NutrientComparison `json:"proteins"`
		Fats     NutrientComparison `json:"fats"`
		Sugars   NutrientComparison `json:"sugars"`
	}

	DailySummaryEntry struct {
		ID               uint      `json:"id"`
		FoodName         string    `json:"foodName"`
		AmountConsumed   float64   `json:"amountConsumed"`
		CaloriesConsumed float64   `json:"caloriesConsumed"`
		CarbsConsumed    float64   `json:"carbsConsumed"`
		ProteinsConsumed float64   `json:"proteinsConsumed"`
		FatsConsumed     float64   `json:"fatsConsumed"`
		SugarsConsumed   float64   `json:"sugarsConsumed"`
		ConsumedAt       time.Time `json:"consumedAt"`
	}

	DailySummaryResponse struct {
		Date           string              `json:"date"`
		Summary        NutritionTotals     `json:"summary"`
		GoalComparison *GoalComparison     `json:"goalComparison"`
		Logs           []DailySummaryEntry `json:"logs"`
	}
)
