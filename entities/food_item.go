package entities

import (
	"time"

	"gorm.io/datatypes"
)

const (
	FoodSourceOpenFoodFacts = "openfoodfacts"
	FoodSourceManual        = "manual"
)

type FoodItem struct {
	Barcode         string         `gorm:"primaryKey;size:64" json:"barcode"`
	Name            string         `gorm:"not null" json:"name"`
	Brand           string         `json:"brand,omitempty"`
	Category        string         `json:"category,omitempty"`
	CaloriesPer100g float64        `gorm:"not null" json:"caloriesPer100g"`
	ProteinsPer100g float64        `gorm:"not null" json:"proteinsPer100g"`
	CarbsPer100g    float64        `gorm:"not null" json:"carbsPer100g"`
	FatsPer100g     float64        `gorm:"not null" json:"fatsPer100g"`
	SugarsPer100g   float64        `gorm:"not null" json:"sugarsPer100g"`
	FiberPer100g    *float64       `json:"fiberPer100g,omitempty"`
	SodiumPer100g   *float64       `json:"sodiumPer100g,omitempty"`
	ServingSize     float64        `json:"servingSize"`
	ServingUnit     string         `json:"servingUnit,omitempty"`
	ImageURL        string         `json:"imageUrl,omitempty"`
	Source          string         `gorm:"size:16" json:"source"`
	Extra           datatypes.JSON `json:"extra,omitempty"`
	LastUpdated     time.Time      `json:"lastUpdated"`

	Timestamp
}
