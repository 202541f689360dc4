package goal

import (
	"context"
	"errors"

	"nutriscan-backend/domain"
	"nutriscan-backend/entities"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

type (
	// ProfileReader is the profile lookup goals are derived from.
	ProfileReader interface {
		GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*entities.Profile, error)
	}

	GoalService interface {
		CreateGoal(ctx context.Context, userID string, req domain.CreateGoalRequest) (domain.GoalResponse, error)
		GetGoal(ctx context.Context, userID string) (domain.GoalResponse, error)
		EnsureGoal(ctx context.Context, userID uuid.UUID) (*entities.DailyGoal, error)
		UpdateGoal(ctx context.Context, userID string, req domain.UpdateGoalRequest) (domain.GoalResponse, error)
		DeleteGoal(ctx context.Context, userID string) error
		PreviewGoal(ctx context.Context, userID string, goalType string) (domain.GoalPreviewResponse, error)
		CalculateGoal(req domain.CalculateGoalRequest) (Targets, error)
	}

	goalService struct {
		goalRepository GoalRepository
		profileReader  ProfileReader
	}
)

func NewGoalService(goalRepository GoalRepository, profileReader ProfileReader) GoalService {
	return &goalService{
		goalRepository: goalRepository,
		profileReader:  profileReader,
	}
}

func BiometricsFromProfile(p *entities.Profile) Biometrics {
	return Biometrics{
		Age:           float64(p.Age),
		Gender:        p.Gender,
		Height:        p.Height,
		Weight:        p.Weight,
		ActivityLevel: p.ActivityLevel,
	}
}

// NewAutoGoal derives a goal for profile without saving it.
func NewAutoGoal(p *entities.Profile, goalType GoalType) (*entities.DailyGoal, error) {
	targets, err := Calculate(BiometricsFromProfile(p), goalType)
	if err != nil {
		return nil, err
	}
	goal := &entities.DailyGoal{
		UserID:       p.UserID,
		TargetSugar:  DefaultTargetSugar,
		TargetFiber:  DefaultTargetFiber,
		TargetSodium: DefaultTargetSodium,
	}
	ApplyTargets(goal, goalType, targets)
	return goal, nil
}

func ApplyTargets(goal *entities.DailyGoal, goalType GoalType, targets Targets) {
	goal.GoalType = string(goalType)
	goal.TargetCalories = targets.Calories
	goal.TargetProtein = targets.Protein
	goal.TargetCarbs = targets.Carbs
	goal.TargetFat = targets.Fat
	goal.IsAutoCalculated = true
}

func ToGoalResponse(g *entities.DailyGoal) domain.GoalResponse {
	return domain.GoalResponse{
		ID:               g.ID,
		GoalType:         g.GoalType,
		TargetCalories:   g.TargetCalories,
		TargetProtein:    g.TargetProtein,
		TargetCarbs:      g.TargetCarbs,
		TargetFat:        g.TargetFat,
		TargetSugar:      g.TargetSugar,
		TargetFiber:      g.TargetFiber,
		TargetSodium:     g.TargetSodium,
		IsAutoCalculated: g.IsAutoCalculated,
		CreatedAt:        g.CreatedAt,
		UpdatedAt:        g.UpdatedAt,
	}
}

func (s *goalService) profile(ctx context.Context, userID uuid.UUID) (*entities.Profile, error) {
	p, err := s.profileReader.GetProfileByUserID(ctx, userID)
	if errors.Is(err, domain.ErrProfileNotFound) {
		return nil, domain.ErrProfileRequired
	}
	return p, err
}

func (s *goalService) CreateGoal(ctx context.Context, userID string, req domain.CreateGoalRequest) (domain.GoalResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return domain.GoalResponse{}, domain.ErrParseUUID
	}

	if _, err := s.goalRepository.GetGoalByUserID(ctx, id); err == nil {
		return domain.GoalResponse{}, domain.ErrGoalAlreadyExists
	} else if !errors.Is(err, domain.ErrGoalNotFound) {
		return domain.GoalResponse{}, err
	}

	autoCalculate := req.AutoCalculate == nil || *req.AutoCalculate
	var goal *entities.DailyGoal

	if autoCalculate || req.TargetCalories == nil {
		goalType, err := ParseGoalType(req.GoalType)
		if err != nil {
			return domain.GoalResponse{}, err
		}
		p, err := s.profile(ctx, id)
		if err != nil {
			return domain.GoalResponse{}, err
		}
		goal, err = NewAutoGoal(p, goalType)
		if err != nil {
			return domain.GoalResponse{}, err
		}
	} else {
		if req.GoalType == "" {
			return domain.GoalResponse{}, domain.ErrGoalTypeRequired
		}
		goalType, err := ParseGoalType(req.GoalType)
		if err != nil {
			return domain.GoalResponse{}, err
		}
		goal = &entities.DailyGoal{
			UserID:         id,
			GoalType:       string(goalType),
			TargetCalories: *req.TargetCalories,
			TargetProtein:  valueOr(req.TargetProtein, 0),
			TargetCarbs:    valueOr(req.TargetCarbs, 0),
			TargetFat:      valueOr(req.TargetFat, 0),
			TargetSugar:    DefaultTargetSugar,
			TargetFiber:    DefaultTargetFiber,
			TargetSodium:   DefaultTargetSodium,
		}
	}

	if err := s.goalRepository.CreateGoal(ctx, goal); err != nil {
		return domain.GoalResponse{}, err
	}
	log.Infow("daily goal created", "user_id", userID, "goal_type", goal.GoalType, "auto", goal.IsAutoCalculated)
	return ToGoalResponse(goal), nil
}

func (s *goalService) GetGoal(ctx context.Context, userID string) (domain.GoalResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return domain.GoalResponse{}, domain.ErrParseUUID
	}
	goal, err := s.EnsureGoal(ctx, id)
	if err != nil {
		return domain.GoalResponse{}, err
	}
	return ToGoalResponse(goal), nil
}

// EnsureGoal returns the user's goal, deriving and saving a "maintain" goal
// from the profile when none exists. Safe to call concurrently: losing the
// insert race re-reads the winner's row.
func (s *goalService) EnsureGoal(ctx context.Context, userID uuid.UUID) (*entities.DailyGoal, error) {
	goal, err := s.goalRepository.GetGoalByUserID(ctx, userID)
	if err == nil {
		return goal, nil
	}
	if !errors.Is(err, domain.ErrGoalNotFound) {
		return nil, err
	}

	p, err := s.profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	goal, err = NewAutoGoal(p, GoalMaintain)
	if err != nil {
		return nil, err
	}

	if err := s.goalRepository.CreateGoal(ctx, goal); err != nil {
		if errors.Is(err, domain.ErrGoalAlreadyExists) {
			return s.goalRepository.GetGoalByUserID(ctx, userID)
		}
		return nil, err
	}
	log.Infow("daily goal derived on first access", "user_id", userID.String())
	return goal, nil
}

func (s *goalService) UpdateGoal(ctx context.Context, userID string, req domain.UpdateGoalRequest) (domain.GoalResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return domain.GoalResponse{}, domain.ErrParseUUID
	}

	goal, err := s.goalRepository.GetGoalByUserID(ctx, id)
	if err != nil {
		return domain.GoalResponse{}, err
	}

	if req.AutoCalculate {
		raw := req.GoalType
		if raw == "" {
			raw = goal.GoalType
		}
		goalType, err := ParseGoalType(raw)
		if err != nil {
			return domain.GoalResponse{}, err
		}
		p, err := s.profile(ctx, id)
		if err != nil {
			return domain.GoalResponse{}, err
		}
		targets, err := Calculate(BiometricsFromProfile(p), goalType)
		if err != nil {
			return domain.GoalResponse{}, err
		}
		ApplyTargets(goal, goalType, targets)
	} else {
		manual := false
		if req.GoalType != "" {
			goalType, err := ParseGoalType(req.GoalType)
			if err != nil {
				return domain.GoalResponse{}, err
			}
			goal.GoalType = string(goalType)
		}
		if req.TargetCalories != nil {
			goal.TargetCalories = *req.TargetCalories
			manual = true
		}
		if req.TargetProtein != nil {
			goal.TargetProtein = *req.TargetProtein
			manual = true
		}
		if req.TargetCarbs != nil {
			goal.TargetCarbs = *req.TargetCarbs
			manual = true
		}
		if req.TargetFat != nil {
			goal.TargetFat = *req.TargetFat
			manual = true
		}
		if manual {
			goal.IsAutoCalculated = false
		}
	}
	if req.TargetSugar != nil {
		goal.TargetSugar = *req.TargetSugar
	}

	if err := s.goalRepository.UpdateGoal(ctx, goal); err != nil {
		return domain.GoalResponse{}, err
	}
	return ToGoalResponse(goal), nil
}

func (s *goalService) DeleteGoal(ctx context.Context, userID string) error {
	id, err := uuid.Parse(userID)
	if err != nil {
		return domain.ErrParseUUID
	}
	return s.goalRepository.DeleteGoalByUserID(ctx, id)
}

func (s *goalService) PreviewGoal(ctx context.Context, userID string, goalType string) (domain.GoalPreviewResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return domain.GoalPreviewResponse{}, domain.ErrParseUUID
	}
	gt, err := ParseGoalType(goalType)
	if err != nil {
		return domain.GoalPreviewResponse{}, err
	}
	p, err := s.profile(ctx, id)
	if err != nil {
		return domain.GoalPreviewResponse{}, err
	}
	targets, err := Calculate(BiometricsFromProfile(p), gt)
	if err != nil {
		return domain.GoalPreviewResponse{}, err
	}

	return domain.GoalPreviewResponse{
		CalculatedGoals: domain.GoalSummary{
			Calories: targets.Calories,
			Protein:  targets.Protein,
			Carbs:    targets.Carbs,
			Fat:      targets.Fat,
		},
		GoalType: string(gt),
		ProfileData: domain.GoalProfileData{
			BMI:           p.BMI,
			ActivityLevel: p.ActivityLevel,
		},
	}, nil
}

// CalculateGoal runs the engine over a request body. Nothing is stored.
func (s *goalService) CalculateGoal(req domain.CalculateGoalRequest) (Targets, error) {
	if req.Age == nil || req.Height == nil || req.Weight == nil {
		return Targets{}, ErrMissingBiometrics
	}
	goalType, err := ParseGoalType(req.GoalType)
	if err != nil {
		return Targets{}, err
	}
	return Calculate(Biometrics{
		Age:           *req.Age,
		Gender:        req.Gender,
		Height:        *req.Height,
		Weight:        *req.Weight,
		ActivityLevel: req.ActivityLevel,
	}, goalType)
}

func valueOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
