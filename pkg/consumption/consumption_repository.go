package consumption

import (
	"context"
	"errors"

	"nutriscan-backend/domain"
	"nutriscan-backend/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const dailyLogLimit = 200

type (
	// LogFilter selects logs by exact date or by an inclusive date range.
	// Date wins when set; either range bound may be empty.
	LogFilter struct {
		Date      string
		StartDate string
		EndDate   string
	}

	ConsumptionRepository interface {
		CreateLog(ctx context.Context, log *entities.ConsumptionLog) error
		GetLogByID(ctx context.Context, userID uuid.UUID, id uint) (*entities.ConsumptionLog, error)
		UpdateLog(ctx context.Context, log *entities.ConsumptionLog) error
		DeleteLog(ctx context.Context, userID uuid.UUID, id uint) error
		GetLogs(ctx context.Context, userID uuid.UUID, filter LogFilter, page, limit int) ([]entities.ConsumptionLog, int64, error)
		GetLogsByDate(ctx context.Context, userID uuid.UUID, date string) ([]entities.ConsumptionLog, error)
		GetLogsBetween(ctx context.Context, userID uuid.UUID, from, to string) ([]entities.ConsumptionLog, error)
	}

	consumptionRepository struct {
		db *gorm.DB
	}
)

func NewConsumptionRepository(db *gorm.DB) ConsumptionRepository {
	return &consumptionRepository{db: db}
}

func (r *consumptionRepository) CreateLog(ctx context.Context, log *entities.ConsumptionLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *consumptionRepository) GetLogByID(ctx context.Context, userID uuid.UUID, id uint) (*entities.ConsumptionLog, error) {
	var log entities.ConsumptionLog
	err := r.db.WithContext(ctx).
		Preload("FoodItem").
		Where("id = ? AND user_id = ?", id, userID).
		First(&log).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLogNotFound
		}
		return nil, err
	}
	return &log, nil
}

func (r *consumptionRepository) UpdateLog(ctx context.Context, log *entities.ConsumptionLog) error {
	return r.db.WithContext(ctx).Omit("FoodItem").Save(log).Error
}

func (r *consumptionRepository) DeleteLog(ctx context.Context, userID uuid.UUID, id uint) error {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&entities.ConsumptionLog{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrLogNotFound
	}
	return nil
}

func (r *consumptionRepository) GetLogs(ctx context.Context, userID uuid.UUID, filter LogFilter, page, limit int) ([]entities.ConsumptionLog, int64, error) {
	var (
		logs  []entities.ConsumptionLog
		count int64
	)

	query := r.db.WithContext(ctx).Model(&entities.ConsumptionLog{}).Where("user_id = ?", userID)
	switch {
	case filter.Date != "":
		query = query.Where("date = ?", filter.Date)
	case filter.StartDate != "" && filter.EndDate != "":
		query = query.Where("date BETWEEN ? AND ?", filter.StartDate, filter.EndDate)
	case filter.StartDate != "":
		query = query.Where("date >= ?", filter.StartDate)
	case filter.EndDate != "":
		query = query.Where("date <= ?", filter.EndDate)
	}

	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Preload("FoodItem").
		Order("date desc").Order("created_at desc").Order("id desc").
		Offset(offset).Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, 0, err
	}
	return logs, count, nil
}

func (r *consumptionRepository) GetLogsByDate(ctx context.Context, userID uuid.UUID, date string) ([]entities.ConsumptionLog, error) {
	var logs []entities.ConsumptionLog
	err := r.db.WithContext(ctx).
		Preload("FoodItem").
		Where("user_id = ? AND date = ?", userID, date).
		Order("consumed_at desc").Order("id desc").
		Limit(dailyLogLimit).
		Find(&logs).Error
	return logs, err
}

// GetLogsBetween returns logs with from <= date <= to, newest first.
func (r *consumptionRepository) GetLogsBetween(ctx context.Context, userID uuid.UUID, from, to string) ([]entities.ConsumptionLog, error) {
	var logs []entities.ConsumptionLog
	err := r.db.WithContext(ctx).
		Preload("FoodItem").
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, from, to).
		Order("date desc").Order("consumed_at desc").Order("id desc").
		Find(&logs).Error
	return logs, err
}
