package assistant

import (
	"fmt"
	"math"

	"nutriscan-backend/domain"
)

// FallbackRecommendation scores a product with fixed per-100g thresholds when
// the model is unavailable or returns something unusable.
func FallbackRecommendation(p *domain.ProductData) domain.Recommendation {
	n := productNutrition(p)
	calories, protein, carbs, fat, sugar := n.Calories, n.Protein, n.Carbs, n.Fat, n.Sugar

	score := 70
	if sugar > 15 {
		score -= 15
	}
	if sugar < 5 {
		score += 10
	}
	if protein > 10 {
		score += 10
	}
	if fat > 20 {
		score -= 10
	}
	if calories < 100 {
		score += 10
	}
	if calories > 400 {
		score -= 15
	}
	score = clamp(score, 20, 95)

	var positive, concerns []string
	if protein > 10 {
		positive = append(positive, fmt.Sprintf("Good protein content (%sg per 100g)", num(protein)))
	}
	if calories < 200 {
		positive = append(positive, "Relatively low in calories")
	}
	if fat < 5 {
		positive = append(positive, "Low fat content")
	}
	if len(positive) == 0 {
		positive = append(positive, "Provides essential nutrients")
	}

	if sugar > 15 {
		concerns = append(concerns, fmt.Sprintf("High sugar content (%sg per 100g)", num(sugar)))
	}
	if calories > 400 {
		concerns = append(concerns, "High calorie density")
	}
	if fat > 20 {
		concerns = append(concerns, fmt.Sprintf("High fat content (%sg per 100g)", num(fat)))
	}
	if len(concerns) == 0 {
		concerns = append(concerns, "Monitor portion sizes for optimal health")
	}

	return domain.Recommendation{
		HealthScore: score,
		HealthInsights: domain.HealthInsights{
			Positive: positive,
			Concerns: concerns,
			Recommendations: []string{
				"Consider portion control when consuming this product",
				"Balance with fiber-rich vegetables and fruits",
				"Stay hydrated and maintain regular physical activity",
			},
		},
		Alternatives: []domain.Alternative{
			{
				Name:  "Organic Whole Grain Alternative",
				Brand: "Nature's Choice",
				Nutrition: domain.ProductNutrition{
					Calories: math.Max(100, calories-50),
					Fat:      math.Max(1, fat-5),
					Carbs:    math.Max(10, carbs-10),
					Protein:  protein + 3,
					Sugar:    math.Max(1, sugar-8),
					Fiber:    6,
					Sodium:   150,
				},
				HealthScore: min(95, score+15),
				WhyBetter:   []string{"Lower sugar content", "Higher fiber and protein", "Made with organic ingredients"},
				AvailableAt: []string{"Whole Foods", "Target", "Local health stores"},
			},
			{
				Name:  "Plant-Based Protein Option",
				Brand: "GreenLife",
				Nutrition: domain.ProductNutrition{
					Calories: math.Max(120, calories-30),
					Fat:      math.Max(2, fat-3),
					Carbs:    math.Max(15, carbs-5),
					Protein:  protein + 5,
					Sugar:    math.Max(2, sugar-10),
					Fiber:    8,
					Sodium:   180,
				},
				HealthScore: min(95, score+18),
				WhyBetter:   []string{"Plant-based protein source", "Higher fiber content", "No artificial additives"},
				AvailableAt: []string{"Trader Joe's", "Amazon", "Local grocery stores"},
			},
			{
				Name:  "Low-Sodium Heart-Healthy Version",
				Brand: "CardioWise",
				Nutrition: domain.ProductNutrition{
					Calories: math.Max(80, calories-20),
					Fat:      math.Max(1, fat-4),
					Carbs:    carbs,
					Protein:  protein + 2,
					Sugar:    math.Max(1, sugar-5),
					Fiber:    4,
					Sodium:   80,
				},
				HealthScore: min(95, score+12),
				WhyBetter:   []string{"Significantly less sodium", "Heart-healthy formulation", "Added beneficial nutrients"},
				AvailableAt: []string{"CVS", "Walgreens", "Health food stores"},
			},
		},
	}
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
