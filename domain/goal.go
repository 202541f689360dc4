package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessCreateGoal    = "daily goal created successfully"
	MessageSuccessGetGoal       = "daily goal retrieved successfully"
	MessageSuccessUpdateGoal    = "daily goal updated successfully"
	MessageSuccessDeleteGoal    = "daily goal deleted successfully"
	MessageSuccessCalculateGoal = "calculated goals based on your profile"

	MessageFailedCreateGoal    = "failed to create daily goal"
	MessageFailedGetGoal       = "failed to fetch daily goal"
	MessageFailedUpdateGoal    = "failed to update daily goal"
	MessageFailedDeleteGoal    = "failed to delete daily goal"
	MessageFailedCalculateGoal = "failed to calculate goals"

	ErrGoalNotFound      = errors.New("daily goal not found")
	ErrGoalAlreadyExists = errors.New("daily goal already exists, use PUT to update")
	ErrProfileRequired   = errors.New("profile required to calculate daily goals, complete your profile first")
	ErrGoalTypeRequired  = errors.New("goalType is required (lose, maintain or gain)")
)

type (
	CreateGoalRequest struct {
		GoalType       string   `json:"goalType" validate:"omitempty,oneof=lose lose_weight maintain gain gain_weight"`
		TargetCalories *int     `json:"targetCalories" validate:"omitempty,min=0"`
		TargetProtein  *float64 `json:"targetProtein" validate:"omitempty,min=0"`
		TargetCarbs    *float64 `json:"targetCarbs" validate:"omitempty,min=0"`
		TargetFat      *float64 `json:"targetFat" validate:"omitempty,min=0"`
		AutoCalculate  *bool    `json:"autoCalculate"`
	}

	UpdateGoalRequest struct {
		GoalType       string   `json:"goalType" validate:"omitempty,oneof=lose lose_weight maintain gain gain_weight"`
		TargetCalories *int     `json:"targetCalories" validate:"omitempty,min=0"`
		TargetProtein  *float64 `json:"targetProtein" validate:"omitempty,min=0"`
		TargetCarbs    *float64 `json:"targetCarbs" validate:"omitempty,min=0"`
		TargetFat      *float64 `json:"targetFat" validate:"omitempty,min=0"`
		TargetSugar    *float64 `json:"targetSugar" validate:"omitempty,min=0"`
		AutoCalculate  bool     `json:"autoCalculate"`
	}

	// CalculateGoalRequest is the stateless goal computation input.
	CalculateGoalRequest struct {
		Age           *float64 `json:"age" validate:"required,min=1,max=120"`
		Gender        string   `json:"gender" validate:"required,oneof=male female other"`
		Height        *float64 `json:"height" validate:"required,min=30,max=300"`
		Weight        *float64 `json:"weight" validate:"required,min=20,max=500"`
		ActivityLevel string   `json:"activityLevel" validate:"required"`
		GoalType      string   `json:"goalType" validate:"omitempty,oneof=lose lose_weight maintain gain gain_weight"`
	}

	GoalSummary struct {
		Calories int     `json:"calories"`
		Protein  float64 `json:"protein"`
		Carbs    float64 `json:"carbs"`
		Fat      float64 `json:"fat"`
	}

	GoalResponse struct {
		ID               uint      `json:"id"`
		GoalType         string    `json:"goalType"`
		TargetCalories   int       `json:"targetCalories"`
		TargetProtein    float64   `json:"targetProtein"`
		TargetCarbs      float64   `json:"targetCarbs"`
		TargetFat        float64   `json:"targetFat"`
		TargetSugar      float64   `json:"targetSugar"`
		TargetFiber      float64   `json:"targetFiber"`
		TargetSodium     float64   `json:"targetSodium"`
		IsAutoCalculated bool      `json:"isAutoCalculated"`
		CreatedAt        time.Time `json:"createdAt"`
		UpdatedAt        time.Time `json:"updatedAt"`
	}

	GoalProfileData struct {
		BMI           float64 `json:"bmi"`
		ActivityLevel string  `json:"activityLevel"`
	}

	GoalPreviewResponse struct {
		CalculatedGoals GoalSummary     `json:"calculatedGoals"`
		GoalType        string          `json:"goalType"`
		ProfileData     GoalProfileData `json:"profileData"`
	}
)
