package profile

import (
	"context"
	"errors"

	"nutriscan-backend/domain"
	"nutriscan-backend/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	ProfileRepository interface {
		WithTx(tx *gorm.DB) ProfileRepository
		Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
		CreateProfile(ctx context.Context, profile *entities.Profile) error
		GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*entities.Profile, error)
		UpdateProfile(ctx context.Context, profile *entities.Profile) error
		DeleteProfileByUserID(ctx context.Context, userID uuid.UUID) error
	}

	profileRepository struct {
		db *gorm.DB
	}
)

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) WithTx(tx *gorm.DB) ProfileRepository {
	return &profileRepository{db: tx}
}

func (r *profileRepository) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func (r *profileRepository) CreateProfile(ctx context.Context, profile *entities.Profile) error {
	err := r.db.WithContext(ctx).Create(profile).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrProfileAlreadyExists
	}
	return err
}

func (r *profileRepository) GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*entities.Profile, error) {
	var profile entities.Profile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) UpdateProfile(ctx context.Context, profile *entities.Profile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

func (r *profileRepository) DeleteProfileByUserID(ctx context.Context, userID uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&entities.Profile{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}
