package assistant

import (
	"strings"
	"testing"
	"unicode/utf8"

	"nutriscan-backend/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanResponse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", emptyResponse},
		{"whitespace", "  \n ", emptyResponse},
		{"assistant prefix", "Assistant: Eat more fiber.", "Eat more fiber."},
		{"case insensitive", "ai assistant: Drink water.", "Drink water."},
		{"ai prefix", "AI:   Try oats.", "Try oats."},
		{"only prefix", "Bot:", blankAfterCleaning},
		{"untouched", "Protein helps recovery.", "Protein helps recovery."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanResponse(tt.in))
		})
	}

	long := CleanResponse(strings.Repeat("é", 450))
	assert.Equal(t, cutResponseRunes+3, utf8.RuneCountInString(long))
	assert.True(t, strings.HasSuffix(long, "..."))

	exact := strings.Repeat("a", maxResponseRunes)
	assert.Equal(t, exact, CleanResponse(exact))
}

func TestChatContextAndHistory(t *testing.T) {
	assert.Equal(t, domain.ChatContextGeneral, ChatContext(""))
	assert.Equal(t, domain.ChatContextGeneral, ChatContext("pirate"))
	assert.Equal(t, domain.ChatContextFoodAnalysis, ChatContext(domain.ChatContextFoodAnalysis))
	assert.Contains(t, SystemPrompt(domain.ChatContextNutritionAssistant), "NutriScan")
	assert.NotEmpty(t, FallbackResponse("pirate"))

	history := make([]domain.ChatMessage, 8)
	for i := range history {
		history[i] = domain.ChatMessage{Role: "user", Content: string(rune('a' + i))}
	}
	recent := RecentHistory(history)
	require.Len(t, recent, maxHistory)
	assert.Equal(t, "c", recent[0].Content)
	assert.Equal(t, "h", recent[5].Content)
	assert.Len(t, RecentHistory(history[:2]), 2)
}

func TestParseRecommendation(t *testing.T) {
	fenced := "```json\n{\"healthScore\": 82, \"healthInsights\": {\"positive\": [\"High fiber\"], \"concerns\": [], \"recommendations\": []}, \"alternatives\": []}\n```"
	rec, err := ParseRecommendation(fenced)
	require.NoError(t, err)
	assert.Equal(t, 82, rec.HealthScore)
	assert.Equal(t, []string{"High fiber"}, rec.HealthInsights.Positive)

	_, err = ParseRecommendation(`{"healthScore": 0}`)
	assert.Error(t, err)

	_, err = ParseRecommendation("Sure! Here is my analysis.")
	assert.Error(t, err)
}

func TestRecommendationPrompt(t *testing.T) {
	p := &domain.ProductData{Name: "Granola", CaloriesPer100g: 450, SugarsPer100g: 18, Ingredients: []string{"oats", "honey"}}
	prompt := recommendationPrompt(p, nil)

	assert.Contains(t, prompt, "- Name: Granola")
	assert.Contains(t, prompt, "- Brand: Unknown Brand")
	assert.Contains(t, prompt, "- Barcode: N/A")
	assert.Contains(t, prompt, "- Calories: 450")
	assert.Contains(t, prompt, "- Fiber: 2g (estimated if not provided)")
	assert.Contains(t, prompt, "- Sodium: 200mg (estimated if not provided)")
	assert.Contains(t, prompt, "Ingredients: oats, honey")
	assert.Contains(t, prompt, "No specific preferences provided")

	withPrefs := recommendationPrompt(p, map[string]any{"diet": "vegan"})
	assert.Contains(t, withPrefs, `{"diet":"vegan"}`)
}

func TestNutritionPrompt(t *testing.T) {
	prompt := nutritionPrompt("Is this healthy?", &domain.ProductData{Name: "Cola", Nutrition: &domain.ProductNutrition{Calories: 42, Sugar: 10.6}}, "USER CONTEXT: x")

	assert.True(t, strings.HasPrefix(prompt, nutritionExpertPreface))
	assert.Contains(t, prompt, "User Question: Is this healthy?")
	assert.Contains(t, prompt, "- Calories per 100g: 42")
	assert.Contains(t, prompt, "- Protein: Unknowng")
	assert.Contains(t, prompt, "- Sugar: 10.6g")
	assert.Contains(t, prompt, "USER CONTEXT: x")

	bare := nutritionPrompt("Why fiber?", nil, "ctx")
	assert.NotContains(t, bare, "Product Context")
}

func TestFallbackRecommendation(t *testing.T) {
	t.Run("light high protein product", func(t *testing.T) {
		rec := FallbackRecommendation(&domain.ProductData{CaloriesPer100g: 50, ProteinsPer100g: 12, CarbsPer100g: 10, FatsPer100g: 2, SugarsPer100g: 3})

		assert.Equal(t, 95, rec.HealthScore)
		assert.Equal(t, []string{"Good protein content (12g per 100g)", "Relatively low in calories", "Low fat content"}, rec.HealthInsights.Positive)
		assert.Equal(t, []string{"Monitor portion sizes for optimal health"}, rec.HealthInsights.Concerns)
		assert.Len(t, rec.HealthInsights.Recommendations, 3)
		require.Len(t, rec.Alternatives, 3)
		for _, alt := range rec.Alternatives {
			assert.Equal(t, 95, alt.HealthScore)
		}
		assert.Equal(t, 100.0, rec.Alternatives[0].Nutrition.Calories)
		assert.Equal(t, 15.0, rec.Alternatives[0].Nutrition.Protein)
	})

	t.Run("dense sugary product", func(t *testing.T) {
		rec := FallbackRecommendation(&domain.ProductData{CaloriesPer100g: 500, ProteinsPer100g: 5, CarbsPer100g: 60, FatsPer100g: 25, SugarsPer100g: 40})

		assert.Equal(t, 30, rec.HealthScore)
		assert.Equal(t, []string{"Provides essential nutrients"}, rec.HealthInsights.Positive)
		assert.Equal(t, []string{
			"High sugar content (40g per 100g)",
			"High calorie density",
			"High fat content (25g per 100g)",
		}, rec.HealthInsights.Concerns)
		assert.Equal(t, 45, rec.Alternatives[0].HealthScore)
		assert.Equal(t, 48, rec.Alternatives[1].HealthScore)
		assert.Equal(t, 42, rec.Alternatives[2].HealthScore)
		assert.Equal(t, 450.0, rec.Alternatives[0].Nutrition.Calories)
		assert.Equal(t, 32.0, rec.Alternatives[0].Nutrition.Sugar)
		assert.Equal(t, 60.0, rec.Alternatives[2].Nutrition.Carbs)
	})

	t.Run("neutral product keeps base score", func(t *testing.T) {
		rec := FallbackRecommendation(&domain.ProductData{CaloriesPer100g: 250, ProteinsPer100g: 5, FatsPer100g: 10, SugarsPer100g: 10})
		assert.Equal(t, 70, rec.HealthScore)
		assert.Equal(t, 85, rec.Alternatives[0].HealthScore)
	})

	t.Run("nested nutrition wins", func(t *testing.T) {
		rec := FallbackRecommendation(&domain.ProductData{CaloriesPer100g: 500, Nutrition: &domain.ProductNutrition{Calories: 90, Protein: 20}})
		assert.Contains(t, rec.HealthInsights.Positive, "Good protein content (20g per 100g)")
		assert.Contains(t, rec.HealthInsights.Positive, "Relatively low in calories")
	})
}
