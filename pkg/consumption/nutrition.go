package consumption

import (
	"math"

	"nutriscan-backend/entities"
)

// Nutrients are absolute amounts for one consumed portion.
type Nutrients struct {
	Calories float64
	Protein  float64
	Carbs    float64
	Fat      float64
	Sugar    float64
	Fiber    *float64
	Sodium   *float64
}

// Scale converts per-100g facts to the consumed amount in grams, rounded to
// one decimal.
func Scale(item *entities.FoodItem, amount float64) Nutrients {
	ratio := amount / 100
	n := Nutrients{
		Calories: round1(item.CaloriesPer100g * ratio),
		Protein:  round1(item.ProteinsPer100g * ratio),
		Carbs:    round1(item.CarbsPer100g * ratio),
		Fat:      round1(item.FatsPer100g * ratio),
		Sugar:    round1(item.SugarsPer100g * ratio),
	}
	if item.FiberPer100g != nil {
		v := round1(*item.FiberPer100g * ratio)
		n.Fiber = &v
	}
	if item.SodiumPer100g != nil {
		v := round1(*item.SodiumPer100g * ratio)
		n.Sodium = &v
	}
	return n
}

func (n Nutrients) apply(log *entities.ConsumptionLog) {
	log.CalculatedCalories = &n.Calories
	log.CalculatedProtein = &n.Protein
	log.CalculatedCarbs = &n.Carbs
	log.CalculatedFat = &n.Fat
	log.CalculatedSugar = &n.Sugar
	log.CalculatedFiber = n.Fiber
	log.CalculatedSodium = n.Sodium
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func value(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
