package goal

import (
	"errors"
	"math"
	"strings"
)

type GoalType string

const (
	GoalLose     GoalType = "lose"
	GoalMaintain GoalType = "maintain"
	GoalGain     GoalType = "gain"
)

const (
	ActivitySedentary        = "sedentary"
	ActivityLightlyActive    = "lightly_active"
	ActivityModeratelyActive = "moderately_active"
	ActivityVeryActive       = "very_active"
	ActivityExtraActive      = "extra_active"
)

// Limits stored alongside the derived targets.
const (
	DefaultTargetSugar  = 50.0
	DefaultTargetFiber  = 25.0
	DefaultTargetSodium = 2300.0
)

const (
	calorieAdjustment  = 500
	kcalPerGramProtein = 4
	kcalPerGramCarbs   = 4
	kcalPerGramFat     = 9
	fatShare           = 0.25
	proteinShare       = 0.25
	proteinShareLose   = 0.30
	defaultMultiplier  = 1.2
)

var (
	ErrMissingBiometrics = errors.New("age, gender, height and weight are required numeric values")
	ErrInvalidGoalType   = errors.New("goal type must be one of lose, maintain or gain")
)

var activityMultipliers = map[string]float64{
	ActivitySedentary:        1.2,
	ActivityLightlyActive:    1.375,
	ActivityModeratelyActive: 1.55,
	ActivityVeryActive:       1.725,
	ActivityExtraActive:      1.9,
}

type (
	Biometrics struct {
		Age           float64
		Gender        string
		Height        float64
		Weight        float64
		ActivityLevel string
	}

	Targets struct {
		Calories int     `json:"targetCalories"`
		Protein  float64 `json:"targetProtein"`
		Carbs    float64 `json:"targetCarbs"`
		Fat      float64 `json:"targetFat"`
	}
)

// ParseGoalType maps API strings, including the legacy "lose_weight" and
// "gain_weight", to a GoalType. Empty means maintain.
func ParseGoalType(s string) (GoalType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "maintain", "maintain_weight":
		return GoalMaintain, nil
	case "lose", "lose_weight":
		return GoalLose, nil
	case "gain", "gain_weight":
		return GoalGain, nil
	default:
		return "", ErrInvalidGoalType
	}
}

// ActivityMultiplier is total: unknown levels resolve to sedentary.
func ActivityMultiplier(level string) float64 {
	if m, ok := activityMultipliers[level]; ok {
		return m
	}
	return defaultMultiplier
}

func (b Biometrics) Validate() error {
	for _, v := range []float64{b.Age, b.Height, b.Weight} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return ErrMissingBiometrics
		}
	}
	if strings.TrimSpace(b.Gender) == "" {
		return ErrMissingBiometrics
	}
	return nil
}

// BMR uses Mifflin-St Jeor. Anything other than "male" takes the female
// constant.
func BMR(b Biometrics) float64 {
	base := 10*b.Weight + 6.25*b.Height - 5*b.Age
	if strings.EqualFold(b.Gender, "male") {
		return base + 5
	}
	return base - 161
}

func TDEE(b Biometrics) float64 {
	return BMR(b) * ActivityMultiplier(b.ActivityLevel)
}

// Calculate derives daily targets. Carbs take the calories left after
// protein and fat grams are fixed, so the kcal sum can differ from
// Calories by at most 2 after rounding.
func Calculate(b Biometrics, goalType GoalType) (Targets, error) {
	if err := b.Validate(); err != nil {
		return Targets{}, err
	}

	tdee := TDEE(b)
	var calories float64
	switch goalType {
	case GoalLose:
		calories = roundHalfUp(tdee - calorieAdjustment)
	case GoalGain:
		calories = roundHalfUp(tdee + calorieAdjustment)
	default:
		calories = roundHalfUp(tdee)
	}
	if calories < 0 {
		calories = 0
	}

	share := proteinShare
	if goalType == GoalLose {
		share = proteinShareLose
	}
	protein := roundHalfUp(calories * share / kcalPerGramProtein)
	fat := roundHalfUp(calories * fatShare / kcalPerGramFat)
	carbs := roundHalfUp((calories - protein*kcalPerGramProtein - fat*kcalPerGramFat) / kcalPerGramCarbs)
	if carbs < 0 {
		carbs = 0
	}

	return Targets{
		Calories: int(calories),
		Protein:  protein,
		Carbs:    carbs,
		Fat:      fat,
	}, nil
}

// roundHalfUp rounds .5 toward +Inf.
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}
