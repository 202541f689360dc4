package entities

import "github.com/google/uuid"

// DailyGoal stores one user's daily targets. Sugar, fiber and sodium are
// limits with fixed defaults; the goal engine only derives the macros.
type DailyGoal struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	UserID           uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"userId"`
	GoalType         string    `gorm:"size:16;not null" json:"goalType"`
	TargetCalories   int       `gorm:"not null" json:"targetCalories"`
	TargetProtein    float64   `gorm:"not null" json:"targetProtein"`
	TargetCarbs      float64   `gorm:"not null" json:"targetCarbs"`
	TargetFat        float64   `gorm:"not null" json:"targetFat"`
	TargetSugar      float64   `json:"targetSugar"`
	TargetFiber      float64   `json:"targetFiber"`
	TargetSodium     float64   `json:"targetSodium"`
	IsAutoCalculated bool      `json:"isAutoCalculated"`

	Timestamp
}
