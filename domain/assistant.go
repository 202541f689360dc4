package domain

import (
	"errors"
)

var (
	MessageSuccessGeminiHealth     = "gemini service is reachable"
	MessageSuccessGenerateText     = "content generated successfully"
	MessageSuccessChat             = "chat response generated"
	MessageSuccessNutritionAnswer  = "nutrition question answered"
	MessageSuccessRecommendations  = "recommendations generated successfully"
	MessageFailedGeminiHealth      = "gemini service is unreachable"
	MessageFailedGenerateText      = "failed to generate content"
	MessageFailedRecommendations   = "failed to generate recommendations"
	MessageFallbackRecommendations = "AI service unavailable, using fallback recommendations"

	ErrPromptRequired      = errors.New("prompt is required")
	ErrMessageRequired     = errors.New("message is required")
	ErrQuestionRequired    = errors.New("question is required")
	ErrProductDataRequired = errors.New("product data is required")
	ErrEmptyCompletion     = errors.New("empty response from completion service")
)

const (
	ChatContextNutritionAssistant = "nutrition_assistant"
	ChatContextGeneral            = "general"
	ChatContextFoodAnalysis       = "food_analysis"

	RecommendationSourceAI       = "gemini-ai"
	RecommendationSourceFallback = "fallback"
)

type (
	PromptRequest struct {
		Prompt string `json:"prompt" validate:"required"`
	}

	PromptResponse struct {
		Text string `json:"text"`
	}

	ChatMessage struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}

	ChatRequest struct {
		Message             string        `json:"message" validate:"required,max=2000"`
		Context             string        `json:"context" validate:"omitempty,oneof=nutrition_assistant general food_analysis"`
		ConversationHistory []ChatMessage `json:"conversationHistory" validate:"omitempty,dive"`
	}

	ChatResponse struct {
		Response       string `json:"response"`
		Context        string `json:"context"`
		IsFallback     bool   `json:"isFallback"`
		Personalized   bool   `json:"personalized"`
		HasProfileData bool   `json:"hasProfileData"`
	}

	// ProductData is the loose product shape clients send for analysis.
	ProductData struct {
		Barcode         string            `json:"barcode"`
		Name            string            `json:"name"`
		Brand           string            `json:"brand"`
		CaloriesPer100g float64           `json:"caloriesPer100g"`
		ProteinsPer100g float64           `json:"proteinsPer100g"`
		CarbsPer100g    float64           `json:"carbsPer100g"`
		FatsPer100g     float64           `json:"fatsPer100g"`
		SugarsPer100g   float64           `json:"sugarsPer100g"`
		Nutrition       *ProductNutrition `json:"nutrition"`
		Ingredients     []string          `json:"ingredients"`
		Categories      []string          `json:"categories"`
	}

	ProductNutrition struct {
		Calories float64 `json:"calories"`
		Protein  float64 `json:"protein"`
		Carbs    float64 `json:"carbs"`
		Fat      float64 `json:"fat"`
		Sugar    float64 `json:"sugar"`
		Fiber    float64 `json:"fiber"`
		Sodium   float64 `json:"sodium"`
	}

	NutritionQuestionRequest struct {
		Question    string       `json:"question" validate:"required,max=2000"`
		ProductData *ProductData `json:"productData"`
	}

	NutritionQuestionResponse struct {
		Answer     string `json:"answer"`
		IsFallback bool   `json:"isFallback"`
	}

	RecommendationRequest struct {
		ProductData     *ProductData   `json:"productData" validate:"required"`
		UserPreferences map[string]any `json:"userPreferences"`
	}

	HealthInsights struct {
		Positive        []string `json:"positive"`
		Concerns        []string `json:"concerns"`
		Recommendations []string `json:"recommendations"`
	}

	Alternative struct {
		Name        string           `json:"name"`
		Brand       string           `json:"brand"`
		Nutrition   ProductNutrition `json:"nutrition"`
		HealthScore int              `json:"healthScore"`
		WhyBetter   []string         `json:"whyBetter"`
		AvailableAt []string         `json:"availableAt"`
	}

	Recommendation struct {
		HealthScore    int            `json:"healthScore"`
		HealthInsights HealthInsights `json:"healthInsights"`
		Alternatives   []Alternative  `json:"alternatives"`
	}

	RecommendationResponse struct {
		Data    Recommendation `json:"data"`
		Source  string         `json:"source"`
		Warning string         `json:"warning,omitempty"`
	}
)
