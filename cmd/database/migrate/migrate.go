package migration

import (
	"fmt"

	"nutriscan-backend/entities"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
)

// Models lists every table in dependency order.
func Models() []any {
	return []any{
		&entities.User{},
		&entities.Profile{},
		&entities.DailyGoal{},
		&entities.FoodItem{},
		&entities.ConsumptionLog{},
	}
}

func Migrate(db *gorm.DB) error {
	for _, model := range Models() {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("migrate %T: %w", model, err)
		}
	}

	// Covers the per-user date range scans of the log listing and the
	// assistant's 7-day window.
	if db.Dialector.Name() == "postgres" {
		if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_logs_user_consumed_at ON consumption_logs (user_id, consumed_at DESC)`).Error; err != nil {
			return fmt.Errorf("create consumed_at index: %w", err)
		}
	}

	log.Infow("database migration complete", "tables", len(Models()))
	return nil
}
