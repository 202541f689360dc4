package food

import (
	"context"
	"errors"
	"strings"

	"nutriscan-backend/domain"
	"nutriscan-backend/entities"

	"gorm.io/gorm"
)

type (
	FoodRepository interface {
		CreateFoodItem(ctx context.Context, item *entities.FoodItem) error
		GetFoodItemByBarcode(ctx context.Context, barcode string) (*entities.FoodItem, error)
		UpdateFoodItem(ctx context.Context, item *entities.FoodItem) error
		DeleteFoodItem(ctx context.Context, barcode string) error
		GetFoodItems(ctx context.Context, search string, page, limit int) ([]entities.FoodItem, int64, error)
	}

	foodRepository struct {
		db *gorm.DB
	}
)

func NewFoodRepository(db *gorm.DB) FoodRepository {
	return &foodRepository{db: db}
}

func (r *foodRepository) CreateFoodItem(ctx context.Context, item *entities.FoodItem) error {
	err := r.db.WithContext(ctx).Create(item).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrFoodItemAlreadyExists
	}
	return err
}

func (r *foodRepository) GetFoodItemByBarcode(ctx context.Context, barcode string) (*entities.FoodItem, error) {
	var item entities.FoodItem
	if err := r.db.WithContext(ctx).Where("barcode = ?", barcode).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrFoodItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *foodRepository) UpdateFoodItem(ctx context.Context, item *entities.FoodItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *foodRepository) DeleteFoodItem(ctx context.Context, barcode string) error {
	res := r.db.WithContext(ctx).Where("barcode = ?", barcode).Delete(&entities.FoodItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrFoodItemNotFound
	}
	return nil
}

// GetFoodItems matches search case-insensitively against the name, newest first.
func (r *foodRepository) GetFoodItems(ctx context.Context, search string, page, limit int) ([]entities.FoodItem, int64, error) {
	var (
		items []entities.FoodItem
		count int64
	)

	query := r.db.WithContext(ctx).Model(&entities.FoodItem{})
	if search = strings.TrimSpace(search); search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, count, nil
}
