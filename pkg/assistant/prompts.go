package assistant

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"nutriscan-backend/domain"
)

const (
	maxHistory       = 6
	maxResponseRunes = 400
	cutResponseRunes = 380

	emptyResponse          = "I'm sorry, I couldn't generate a response. Please try again."
	blankAfterCleaning     = "I'm here to help with your nutrition questions! What would you like to know?"
	nutritionFallback      = "I'm having trouble accessing nutritional information right now. Please try asking your question again, or consult with a registered dietitian for personalized advice."
	nutritionExpertPreface = "You are a nutrition expert helping a user with their specific question about food and nutrition."
)

var (
	systemPrompts = map[string]string{
		domain.ChatContextNutritionAssistant: `You are a ultra-concise nutrition assistant for NutriScan.

Rules:
- Max 80 words per response
- Write in short, clear sentences
- Be direct, no fluff
- Give 1-3 actionable tips only
- Skip introductions/conclusions
- NO bullet points or lists

IMPORTANT: If user data shows profile is incomplete or goals are not set, tell them to complete their profile setup first. Don't mention specific calorie numbers if their profile is incomplete. Be consistent with the data you have.

Answer briefly and practically in paragraph form.`,
		domain.ChatContextGeneral:      "You are an ultra-concise AI assistant for NutriScan. Max 80 words. Write in short sentences, no bullets or lists. Be direct and give actionable tips in paragraph form.",
		domain.ChatContextFoodAnalysis: "You are a food analysis expert. Max 80 words. Write in short sentences, no bullets. Be direct and specific about nutrition facts in paragraph form.",
	}

	fallbacks = map[string]string{
		domain.ChatContextNutritionAssistant: "I'm having trouble connecting to my nutrition database right now. However, I'd be happy to help you with general nutrition questions! Feel free to ask about calories, macronutrients, or healthy eating tips.",
		domain.ChatContextFoodAnalysis:       "I'm temporarily unable to analyze food data, but I can still provide general nutrition guidance. What specific questions do you have about food and nutrition?",
		domain.ChatContextGeneral:            "I'm experiencing some technical difficulties, but I'm still here to help with your nutrition and health questions. What would you like to know?",
	}

	speakerPrefix = regexp.MustCompile(`(?i)^(AI Assistant:|Assistant:|Bot:)`)
	aiPrefix      = regexp.MustCompile(`(?i)^AI:\s*`)
	codeFence     = regexp.MustCompile("```(?:json)?\\n?")
)

// ChatContext maps an unknown or empty context to general.
func ChatContext(name string) string {
	if _, ok := systemPrompts[name]; ok {
		return name
	}
	return domain.ChatContextGeneral
}

func SystemPrompt(context string) string {
	return systemPrompts[ChatContext(context)]
}

func FallbackResponse(context string) string {
	return fallbacks[ChatContext(context)]
}

// RecentHistory keeps the last six turns.
func RecentHistory(history []domain.ChatMessage) []domain.ChatMessage {
	if len(history) > maxHistory {
		return history[len(history)-maxHistory:]
	}
	return history
}

// CleanResponse strips speaker prefixes and caps the reply length.
func CleanResponse(text string) string {
	if strings.TrimSpace(text) == "" {
		return emptyResponse
	}
	cleaned := speakerPrefix.ReplaceAllString(text, "")
	cleaned = aiPrefix.ReplaceAllString(cleaned, "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return blankAfterCleaning
	}
	if r := []rune(cleaned); len(r) > maxResponseRunes {
		cleaned = string(r[:cutResponseRunes]) + "..."
	}
	return cleaned
}

func nutritionPrompt(question string, product *domain.ProductData, userContext string) string {
	var b strings.Builder
	b.WriteString(nutritionExpertPreface)
	b.WriteString("\n\nUser Question: ")
	b.WriteString(question)

	if product != nil {
		n := productNutrition(product)
		fmt.Fprintf(&b, "\n\nProduct Context:\n- Name: %s\n- Brand: %s\n- Calories per 100g: %s\n- Protein: %sg\n- Carbs: %sg\n- Fat: %sg\n- Sugar: %sg",
			orUnknown(sanitize(product.Name, maxFieldRunes)), orUnknown(sanitize(product.Brand, maxFieldRunes)),
			orUnknownNum(n.Calories), orUnknownNum(n.Protein), orUnknownNum(n.Carbs), orUnknownNum(n.Fat), orUnknownNum(n.Sugar))
	}

	b.WriteString("\n\n")
	b.WriteString(userContext)
	b.WriteString(`

Please provide a helpful, accurate, and highly personalized response that:
- Addresses their specific question
- References their current nutrition progress and goals
- Considers their eating patterns and preferences
- Provides actionable advice based on their profile
- Is encouraging and supportive of their health journey
- Keeps the response conversational and practical`)
	return b.String()
}

func recommendationPrompt(p *domain.ProductData, prefs map[string]any) string {
	n := productNutrition(p)
	fiber, sodium := n.Fiber, n.Sodium
	if fiber == 0 {
		fiber = 2
	}
	if sodium == 0 {
		sodium = 200
	}

	prefText := "No specific preferences provided"
	if len(prefs) > 0 {
		if data, err := json.Marshal(prefs); err == nil {
			prefText = string(data)
		}
	}

	var extra strings.Builder
	if len(p.Ingredients) > 0 {
		fmt.Fprintf(&extra, "Ingredients: %s\n", strings.Join(p.Ingredients, ", "))
	}
	if len(p.Categories) > 0 {
		fmt.Fprintf(&extra, "Categories: %s\n", strings.Join(p.Categories, ", "))
	}

	barcode := p.Barcode
	if barcode == "" {
		barcode = "N/A"
	}
	name := sanitize(p.Name, maxFieldRunes)
	if name == "" {
		name = "Unknown Product"
	}
	brand := sanitize(p.Brand, maxFieldRunes)
	if brand == "" {
		brand = "Unknown Brand"
	}

	return fmt.Sprintf(`Analyze the following food product and provide comprehensive health recommendations:

Product Information:
- Name: %s
- Brand: %s
- Barcode: %s

Nutrition per 100g:
- Calories: %s
- Carbohydrates: %sg
- Protein: %sg
- Fat: %sg
- Sugar: %sg
- Fiber: %sg (estimated if not provided)
- Sodium: %smg (estimated if not provided)

%s
User Preferences:
%s

Please provide a detailed analysis in the following JSON format:
{
  "healthScore": [number between 1-100, where 100 is healthiest],
  "healthInsights": {
    "positive": ["List 2-4 positive nutritional aspects of this product"],
    "concerns": ["List 2-4 health concerns or areas for improvement"],
    "recommendations": ["List 3-4 specific recommendations for healthy consumption"]
  },
  "alternatives": [
    {
      "name": "Specific product name",
      "brand": "Brand name",
      "nutrition": {"calories": 0, "fat": 0, "carbs": 0, "protein": 0, "sugar": 0, "fiber": 0, "sodium": 0},
      "healthScore": [number between 1-100],
      "whyBetter": ["2-3 specific reasons why this alternative is healthier"],
      "availableAt": ["List of 2-3 common stores where this can be found"]
    }
  ]
}

Guidelines:
1. Health score should consider calories, sugar content, protein, fiber, sodium, and processing level
2. Provide 3 realistic alternative products that are commonly available
3. Make recommendations specific to the product type
4. Consider portion sizes and realistic consumption patterns
5. Focus on practical, actionable advice
6. Ensure all nutrition values are realistic and well-researched
7. Return ONLY the JSON object, no additional text or formatting`,
		name, brand, barcode,
		num(n.Calories), num(n.Carbs), num(n.Protein), num(n.Fat), num(n.Sugar), num(fiber), num(sodium),
		extra.String(), prefText)
}

// productNutrition prefers the nested nutrition block and falls back to the
// flat per-100g fields field by field.
func productNutrition(p *domain.ProductData) domain.ProductNutrition {
	n := domain.ProductNutrition{}
	if p.Nutrition != nil {
		n = *p.Nutrition
	}
	if n.Calories == 0 {
		n.Calories = p.CaloriesPer100g
	}
	if n.Protein == 0 {
		n.Protein = p.ProteinsPer100g
	}
	if n.Carbs == 0 {
		n.Carbs = p.CarbsPer100g
	}
	if n.Fat == 0 {
		n.Fat = p.FatsPer100g
	}
	if n.Sugar == 0 {
		n.Sugar = p.SugarsPer100g
	}
	return n
}

// ParseRecommendation decodes a model reply, tolerating markdown code fences.
func ParseRecommendation(text string) (domain.Recommendation, error) {
	cleaned := strings.TrimSpace(codeFence.ReplaceAllString(text, ""))
	var rec domain.Recommendation
	if err := json.Unmarshal([]byte(cleaned), &rec); err != nil {
		return domain.Recommendation{}, err
	}
	if rec.HealthScore < 1 || rec.HealthScore > 100 {
		return domain.Recommendation{}, fmt.Errorf("health score %d out of range", rec.HealthScore)
	}
	return rec, nil
}

func orUnknownNum(v float64) string {
	if v == 0 {
		return "Unknown"
	}
	return num(v)
}
