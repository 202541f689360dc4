package profile

import (
	"context"
	"errors"

	"nutriscan-backend/domain"
	"nutriscan-backend/entities"
	"nutriscan-backend/pkg/goal"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	ProfileService interface {
		CreateProfile(ctx context.Context, userID string, req domain.CreateProfileRequest) (domain.CreateProfileResponse, error)
		GetProfile(ctx context.Context, userID string) (domain.ProfileResponse, error)
		UpdateProfile(ctx context.Context, userID string, req domain.UpdateProfileRequest) (domain.ProfileResponse, error)
		DeleteProfile(ctx context.Context, userID string) error
	}

	profileService struct {
		profileRepository ProfileRepository
		goalRepository    goal.GoalRepository
	}
)

func NewProfileService(profileRepository ProfileRepository, goalRepository goal.GoalRepository) ProfileService {
	return &profileService{
		profileRepository: profileRepository,
		goalRepository:    goalRepository,
	}
}

func ToProfileResponse(p *entities.Profile) domain.ProfileResponse {
	return domain.ProfileResponse{
		ID:            p.ID,
		UserID:        p.UserID.String(),
		Age:           p.Age,
		Gender:        p.Gender,
		Height:        p.Height,
		Weight:        p.Weight,
		BMI:           p.BMI,
		BMICategory:   BMICategory(p.BMI),
		ActivityLevel: p.ActivityLevel,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// CreateProfile stores the profile and its auto-calculated goal in one
// transaction. A failed goal insert is rolled back to a savepoint and the
// profile is kept; the goal is derived later by EnsureGoal.
func (s *profileService) CreateProfile(ctx context.Context, userID string, req domain.CreateProfileRequest) (domain.CreateProfileResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return domain.CreateProfileResponse{}, domain.ErrParseUUID
	}
	goalType, err := goal.ParseGoalType(req.GoalType)
	if err != nil {
		return domain.CreateProfileResponse{}, err
	}

	p := &entities.Profile{
		UserID:        id,
		Age:           req.Age,
		Gender:        req.Gender,
		Height:        req.Height,
		Weight:        req.Weight,
		BMI:           CalculateBMI(req.Weight, req.Height),
		ActivityLevel: req.ActivityLevel,
	}

	var dailyGoal *entities.DailyGoal
	err = s.profileRepository.Transaction(ctx, func(tx *gorm.DB) error {
		profiles := s.profileRepository.WithTx(tx)
		if _, err := profiles.GetProfileByUserID(ctx, id); err == nil {
			return domain.ErrProfileAlreadyExists
		} else if !errors.Is(err, domain.ErrProfileNotFound) {
			return err
		}
		if err := profiles.CreateProfile(ctx, p); err != nil {
			return err
		}

		// nested transaction = savepoint
		goalErr := tx.Transaction(func(sp *gorm.DB) error {
			goals := s.goalRepository.WithTx(sp)
			existing, err := goals.GetGoalByUserID(ctx, id)
			if err == nil {
				// left over from a deleted profile
				if existing.IsAutoCalculated {
					targets, err := goal.Calculate(goal.BiometricsFromProfile(p), goalType)
					if err != nil {
						return err
					}
					goal.ApplyTargets(existing, goalType, targets)
					if err := goals.UpdateGoal(ctx, existing); err != nil {
						return err
					}
				}
				dailyGoal = existing
				return nil
			}
			if !errors.Is(err, domain.ErrGoalNotFound) {
				return err
			}

			g, err := goal.NewAutoGoal(p, goalType)
			if err != nil {
				return err
			}
			if err := goals.CreateGoal(ctx, g); err != nil {
				return err
			}
			dailyGoal = g
			return nil
		})
		if goalErr != nil {
			log.Warnw("daily goal not created with profile", "user_id", userID, "error", goalErr)
		}
		return nil
	})
	if err != nil {
		return domain.CreateProfileResponse{}, err
	}

	res := domain.CreateProfileResponse{Profile: ToProfileResponse(p)}
	if dailyGoal != nil {
		res.DailyGoals = &domain.GoalSummary{
			Calories: dailyGoal.TargetCalories,
			Protein:  dailyGoal.TargetProtein,
			Carbs:    dailyGoal.TargetCarbs,
			Fat:      dailyGoal.TargetFat,
		}
	} else {
		res.Warning = domain.WarningGoalsDeferred
	}
	log.Infow("profile created", "user_id", userID, "goals_created", dailyGoal != nil)
	return res, nil
}

func (s *profileService) GetProfile(ctx context.Context, userID string) (domain.ProfileResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return domain.ProfileResponse{}, domain.ErrParseUUID
	}
	p, err := s.profileRepository.GetProfileByUserID(ctx, id)
	if err != nil {
		return domain.ProfileResponse{}, err
	}
	return ToProfileResponse(p), nil
}

// UpdateProfile applies a partial update. BMI is always recomputed and an
// auto-calculated goal follows the new biometrics.
func (s *profileService) UpdateProfile(ctx context.Context, userID string, req domain.UpdateProfileRequest) (domain.ProfileResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return domain.ProfileResponse{}, domain.ErrParseUUID
	}

	var p *entities.Profile
	err = s.profileRepository.Transaction(ctx, func(tx *gorm.DB) error {
		profiles := s.profileRepository.WithTx(tx)
		goals := s.goalRepository.WithTx(tx)

		found, err := profiles.GetProfileByUserID(ctx, id)
		if err != nil {
			return err
		}
		p = found
		if req.Age != nil {
			p.Age = *req.Age
		}
		if req.Gender != nil {
			p.Gender = *req.Gender
		}
		if req.Height != nil {
			p.Height = *req.Height
		}
		if req.Weight != nil {
			p.Weight = *req.Weight
		}
		if req.ActivityLevel != nil {
			p.ActivityLevel = *req.ActivityLevel
		}
		p.BMI = CalculateBMI(p.Weight, p.Height)

		if err := profiles.UpdateProfile(ctx, p); err != nil {
			return err
		}

		g, err := goals.GetGoalByUserID(ctx, id)
		if errors.Is(err, domain.ErrGoalNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if !g.IsAutoCalculated {
			return nil
		}
		goalType, err := goal.ParseGoalType(g.GoalType)
		if err != nil {
			goalType = goal.GoalMaintain
		}
		targets, err := goal.Calculate(goal.BiometricsFromProfile(p), goalType)
		if err != nil {
			return err
		}
		goal.ApplyTargets(g, goalType, targets)
		return goals.UpdateGoal(ctx, g)
	})
	if err != nil {
		return domain.ProfileResponse{}, err
	}
	return ToProfileResponse(p), nil
}

func (s *profileService) DeleteProfile(ctx context.Context, userID string) error {
	id, err := uuid.Parse(userID)
	if err != nil {
		return domain.ErrParseUUID
	}
	return s.profileRepository.DeleteProfileByUserID(ctx, id)
}
