package assistant

import (
	"context"
	"errors"
	"strings"
	"time"

	"nutriscan-backend/domain"
	"nutriscan-backend/entities"
	"nutriscan-backend/pkg/consumption"
	"nutriscan-backend/pkg/gemini"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

const (
	recentWindowDays = 7
	chatTemperature  = 0.7
	chatMaxTokens    = 256
	healthPrompt     = "Say hello"
)

type (
	UserReader interface {
		GetUserByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	}

	ProfileReader interface {
		GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*entities.Profile, error)
	}

	GoalReader interface {
		GetGoalByUserID(ctx context.Context, userID uuid.UUID) (*entities.DailyGoal, error)
	}

	LogReader interface {
		GetLogsByDate(ctx context.Context, userID uuid.UUID, date string) ([]entities.ConsumptionLog, error)
		GetLogsBetween(ctx context.Context, userID uuid.UUID, from, to string) ([]entities.ConsumptionLog, error)
	}

	AssistantService interface {
		Health(ctx context.Context) (string, error)
		Prompt(ctx context.Context, req domain.PromptRequest) (domain.PromptResponse, error)
		Chat(ctx context.Context, userID string, req domain.ChatRequest) (domain.ChatResponse, error)
		NutritionQuestion(ctx context.Context, userID string, req domain.NutritionQuestionRequest) (domain.NutritionQuestionResponse, error)
		Recommend(ctx context.Context, req domain.RecommendationRequest) (domain.RecommendationResponse, error)
		Personalization(ctx context.Context, userID string) ContextInput
	}

	assistantService struct {
		llm      gemini.Client
		users    UserReader
		profiles ProfileReader
		goals    GoalReader
		logs     LogReader
		now      func() time.Time
	}
)

func NewAssistantService(llm gemini.Client, users UserReader, profiles ProfileReader, goals GoalReader, logs LogReader) AssistantService {
	return &assistantService{
		llm:      llm,
		users:    users,
		profiles: profiles,
		goals:    goals,
		logs:     logs,
		now:      time.Now,
	}
}

func (s *assistantService) Health(ctx context.Context) (string, error) {
	return s.llm.Generate(ctx, healthPrompt)
}

func (s *assistantService) Prompt(ctx context.Context, req domain.PromptRequest) (domain.PromptResponse, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return domain.PromptResponse{}, domain.ErrPromptRequired
	}
	text, err := s.llm.Generate(ctx, req.Prompt)
	if err != nil {
		return domain.PromptResponse{}, err
	}
	return domain.PromptResponse{Text: text}, nil
}

// Personalization loads the assembler inputs. Lookup failures are folded into
// ContextInput.Unavailable rather than returned.
func (s *assistantService) Personalization(ctx context.Context, userID string) ContextInput {
	id, err := uuid.Parse(userID)
	if err != nil {
		return ContextInput{Unavailable: "User not found"}
	}

	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			log.Warnw("personalization user lookup failed", "user_id", userID, "error", err)
			return ContextInput{Unavailable: "Failed to fetch user data"}
		}
		return ContextInput{Unavailable: "User not found"}
	}

	in := ContextInput{User: UserSummary{Name: user.Name, Email: user.Email}}
	fail := func(what string, err error) ContextInput {
		log.Warnw("personalization lookup failed", "user_id", userID, "source", what, "error", err)
		return ContextInput{Unavailable: "Failed to fetch user data"}
	}

	profile, err := s.profiles.GetProfileByUserID(ctx, id)
	switch {
	case err == nil:
		in.Profile = profile
	case !errors.Is(err, domain.ErrProfileNotFound):
		return fail("profile", err)
	}

	goal, err := s.goals.GetGoalByUserID(ctx, id)
	switch {
	case err == nil:
		in.Goal = goal
	case !errors.Is(err, domain.ErrGoalNotFound):
		return fail("goal", err)
	}

	now := s.now()
	today := consumption.Today(now)
	if in.TodayLogs, err = s.logs.GetLogsByDate(ctx, id, today); err != nil {
		return fail("today logs", err)
	}
	from := consumption.Today(now.AddDate(0, 0, -(recentWindowDays - 1)))
	if in.RecentLogs, err = s.logs.GetLogsBetween(ctx, id, from, today); err != nil {
		return fail("recent logs", err)
	}
	return in
}

func (s *assistantService) Chat(ctx context.Context, userID string, req domain.ChatRequest) (domain.ChatResponse, error) {
	if strings.TrimSpace(req.Message) == "" {
		return domain.ChatResponse{}, domain.ErrMessageRequired
	}

	chatContext := ChatContext(req.Context)
	in := s.Personalization(ctx, userID)
	res := domain.ChatResponse{
		Context:        chatContext,
		Personalized:   in.Unavailable == "",
		HasProfileData: in.Profile != nil,
	}

	system := SystemPrompt(chatContext) + "\n\n" + BuildContext(in)
	history := make([]gemini.Message, 0, maxHistory)
	for _, m := range RecentHistory(req.ConversationHistory) {
		role := gemini.RoleModel
		if strings.EqualFold(m.Role, gemini.RoleUser) {
			role = gemini.RoleUser
		}
		history = append(history, gemini.Message{Role: role, Text: m.Content})
	}

	text, err := s.llm.Chat(ctx, system, history, req.Message, gemini.Options{
		Temperature:     chatTemperature,
		MaxOutputTokens: chatMaxTokens,
	})
	if err != nil {
		log.Warnw("chat completion failed, using fallback", "user_id", userID, "context", chatContext, "error", err)
		res.Response = FallbackResponse(chatContext)
		res.IsFallback = true
		return res, nil
	}

	res.Response = CleanResponse(text)
	return res, nil
}

func (s *assistantService) NutritionQuestion(ctx context.Context, userID string, req domain.NutritionQuestionRequest) (domain.NutritionQuestionResponse, error) {
	if strings.TrimSpace(req.Question) == "" {
		return domain.NutritionQuestionResponse{}, domain.ErrQuestionRequired
	}

	prompt := nutritionPrompt(req.Question, req.ProductData, BuildContext(s.Personalization(ctx, userID)))
	text, err := s.llm.Generate(ctx, prompt)
	if err != nil {
		log.Warnw("nutrition question failed, using fallback", "user_id", userID, "error", err)
		return domain.NutritionQuestionResponse{Answer: nutritionFallback, IsFallback: true}, nil
	}
	return domain.NutritionQuestionResponse{Answer: CleanResponse(text)}, nil
}

func (s *assistantService) Recommend(ctx context.Context, req domain.RecommendationRequest) (domain.RecommendationResponse, error) {
	if req.ProductData == nil {
		return domain.RecommendationResponse{}, domain.ErrProductDataRequired
	}

	text, err := s.llm.Generate(ctx, recommendationPrompt(req.ProductData, req.UserPreferences))
	if err == nil {
		rec, perr := ParseRecommendation(text)
		if perr == nil {
			return domain.RecommendationResponse{Data: rec, Source: domain.RecommendationSourceAI}, nil
		}
		err = perr
	}

	log.Warnw("recommendation generation failed, using fallback", "barcode", req.ProductData.Barcode, "error", err)
	return domain.RecommendationResponse{
		Data:    FallbackRecommendation(req.ProductData),
		Source:  domain.RecommendationSourceFallback,
		Warning: domain.MessageFallbackRecommendations,
	}, nil
}
