package goal

import (
	"context"
	"errors"

	"nutriscan-backend/domain"
	"nutriscan-backend/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	GoalRepository interface {
		WithTx(tx *gorm.DB) GoalRepository
		CreateGoal(ctx context.Context, goal *entities.DailyGoal) error
		GetGoalByUserID(ctx context.Context, userID uuid.UUID) (*entities.DailyGoal, error)
		UpdateGoal(ctx context.Context, goal *entities.DailyGoal) error
		DeleteGoalByUserID(ctx context.Context, userID uuid.UUID) error
	}

	goalRepository struct {
		db *gorm.DB
	}
)

func NewGoalRepository(db *gorm.DB) GoalRepository {
	return &goalRepository{db: db}
}

func (r *goalRepository) WithTx(tx *gorm.DB) GoalRepository {
	return &goalRepository{db: tx}
}

func (r *goalRepository) CreateGoal(ctx context.Context, goal *entities.DailyGoal) error {
	err := r.db.WithContext(ctx).Create(goal).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrGoalAlreadyExists
	}
	return err
}

func (r *goalRepository) GetGoalByUserID(ctx context.Context, userID uuid.UUID) (*entities.DailyGoal, error) {
	var goal entities.DailyGoal
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&goal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrGoalNotFound
		}
		return nil, err
	}
	return &goal, nil
}

func (r *goalRepository) UpdateGoal(ctx context.Context, goal *entities.DailyGoal) error {
	return r.db.WithContext(ctx).Save(goal).Error
}

func (r *goalRepository) DeleteGoalByUserID(ctx context.Context, userID uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&entities.DailyGoal{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrGoalNotFound
	}
	return nil
}
