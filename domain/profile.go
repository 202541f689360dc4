package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessCreateProfile        = "profile and daily goals created successfully"
	MessageSuccessCreateProfileNoGoals = "profile created successfully (daily goals will be created later)"
	MessageSuccessGetProfile           = "profile retrieved successfully"
	MessageSuccessUpdateProfile        = "profile updated successfully"
	MessageSuccessDeleteProfile        = "profile deleted successfully"

	MessageFailedCreateProfile = "failed to create profile"
	MessageFailedGetProfile    = "failed to fetch profile"
	MessageFailedUpdateProfile = "failed to update profile"
	MessageFailedDeleteProfile = "failed to delete profile"

	WarningGoalsDeferred = "daily goals could not be created automatically but will be available on first access"

	ErrProfileNotFound      = errors.New("profile not found")
	ErrProfileAlreadyExists = errors.New("profile already exists, use PUT to update")
)

type (
	CreateProfileRequest struct {
		Age           int     `json:"age" validate:"required,min=1,max=120"`
		Gender        string  `json:"gender" validate:"required,oneof=male female other"`
		Height        float64 `json:"height" validate:"required,min=30,max=300"`
		Weight        float64 `json:"weight" validate:"required,min=20,max=500"`
		ActivityLevel string  `json:"activityLevel" validate:"required,oneof=sedentary lightly_active moderately_active very_active extra_active"`
		GoalType      string  `json:"goalType" validate:"omitempty,oneof=lose lose_weight maintain gain gain_weight"`
	}

	UpdateProfileRequest struct {
		Age           *int     `json:"age" validate:"omitempty,min=1,max=120"`
		Gender        *string  `json:"gender" validate:"omitempty,oneof=male female other"`
		Height        *float64 `json:"height" validate:"omitempty,min=30,max=300"`
		Weight        *float64 `json:"weight" validate:"omitempty,min=20,max=500"`
		ActivityLevel *string  `json:"activityLevel" validate:"omitempty,oneof=sedentary lightly_active moderately_active very_active extra_active"`
	}

	ProfileResponse struct {
		ID            uint      `json:"id"`
		UserID        string    `json:"userId"`
		Age           int       `json:"age"`
		Gender        string    `json:"gender"`
		Height        float64   `json:"height"`
		Weight        float64   `json:"weight"`
		BMI           float64   `json:"bmi"`
		BMICategory   string    `json:"bmiCategory"`
		ActivityLevel string    `json:"activityLevel"`
		CreatedAt     time.Time `json:"createdAt"`
		UpdatedAt     time.Time `json:"updatedAt"`
	}

	CreateProfileResponse struct {
		Profile    ProfileResponse `json:"profile"`
		DailyGoals *GoalSummary    `json:"dailyGoals,omitempty"`
		Warning    string          `json:"warning,omitempty"`
	}
)
