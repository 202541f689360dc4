package entities

import (
	"time"

	"github.com/google/uuid"
)

type ConsumptionLog struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	UserID             uuid.UUID `gorm:"type:uuid;index:idx_logs_user_date;not null" json:"userId"`
	Barcode            string    `gorm:"size:64;index;not null" json:"barcode"`
	AmountConsumed     float64   `gorm:"not null" json:"amountConsumed"`
	Date               string    `gorm:"size:10;index:idx_logs_user_date;not null" json:"date"`
	ConsumedAt         time.Time `gorm:"not null" json:"consumedAt"`
	CalculatedCalories *float64  `json:"calculatedCalories"`
	CalculatedProtein  *float64  `json:"calculatedProtein"`
	CalculatedCarbs    *float64  `json:"calculatedCarbs"`
	CalculatedFat      *float64  `json:"calculatedFat"`
	CalculatedFiber    *float64  `json:"calculatedFiber,omitempty"`
	CalculatedSugar    *float64  `json:"calculatedSugar"`
	CalculatedSodium   *float64  `json:"calculatedSodium,omitempty"`
	IsManualEntry      bool      `json:"isManualEntry"`

	FoodItem *FoodItem `gorm:"foreignKey:Barcode;references:Barcode;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"foodItem,omitempty"`
	Timestamp
}
