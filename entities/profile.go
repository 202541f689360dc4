package entities

import "github.com/google/uuid"

type Profile struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"userId"`
	Age           int       `gorm:"not null" json:"age"`
	Gender        string    `gorm:"size:16;not null" json:"gender"`
	Height        float64   `gorm:"not null" json:"height"`
	Weight        float64   `gorm:"not null" json:"weight"`
	BMI           float64   `json:"bmi"`
	ActivityLevel string    `gorm:"size:32;not null" json:"activityLevel"`

	Timestamp
}
