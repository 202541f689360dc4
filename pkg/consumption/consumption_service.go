package consumption

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"nutriscan-backend/domain"
	"nutriscan-backend/entities"
	"nutriscan-backend/pkg/food"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

const defaultScanAmount = 100

type (
	// FoodResolver finds the food item a log refers to.
	FoodResolver interface {
		ResolveFoodItem(ctx context.Context, barcode string, autoFetch bool) (*entities.FoodItem, bool, error)
	}

	GoalReader interface {
		GetGoalByUserID(ctx context.Context, userID uuid.UUID) (*entities.DailyGoal, error)
	}

	ConsumptionService interface {
		ScanAndLog(ctx context.Context, userID string, req domain.ScanLogRequest) (domain.ScanLogResponse, error)
		CreateLog(ctx context.Context, userID string, req domain.CreateLogRequest) (domain.CreateLogResponse, error)
		GetLogs(ctx context.Context, userID string, query domain.LogQuery) (domain.LogListResponse, error)
		GetLog(ctx context.Context, userID string, id uint) (domain.LogResponse, error)
		UpdateLog(ctx context.Context, userID string, id uint, req domain.UpdateLogRequest) (domain.CreateLogResponse, error)
		DeleteLog(ctx context.Context, userID string, id uint) error
		DailySummary(ctx context.Context, userID string, date string) (domain.DailySummaryResponse, error)
	}

	consumptionService struct {
		repo  ConsumptionRepository
		foods FoodResolver
		goals GoalReader
		now   func() time.Time
	}
)

func NewConsumptionService(repo ConsumptionRepository, foods FoodResolver, goals GoalReader) ConsumptionService {
	return &consumptionService{repo: repo, foods: foods, goals: goals, now: time.Now}
}

// Today is the calendar date used for logs without an explicit date.
func Today(now time.Time) string {
	return now.UTC().Format(domain.DateLayout)
}

func validDate(s string) bool {
	if s == "" {
		return true
	}
	_, err := time.Parse(domain.DateLayout, s)
	return err == nil
}

func (s *consumptionService) ScanAndLog(ctx context.Context, userID string, req domain.ScanLogRequest) (domain.ScanLogResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return domain.ScanLogResponse{}, domain.ErrParseUUID
	}

	amount := float64(defaultScanAmount)
	if req.AmountConsumed != nil {
		amount = *req.AmountConsumed
	}
	if amount <= 0 {
		return domain.ScanLogResponse{}, domain.ErrInvalidAmount
	}

	item, fetched, err := s.foods.ResolveFoodItem(ctx, strings.TrimSpace(req.Barcode), true)
	if err != nil {
		return domain.ScanLogResponse{}, err
	}

	now := s.now()
	entry := &entities.ConsumptionLog{
		UserID:         id,
		Barcode:        item.Barcode,
		AmountConsumed: amount,
		Date:           Today(now),
		ConsumedAt:     now,
	}
	Scale(item, amount).apply(entry)
	if err := s.repo.CreateLog(ctx, entry); err != nil {
		return domain.ScanLogResponse{}, err
	}
	entry.FoodItem = item

	source := food.SourceDatabase
	if fetched {
		source = food.SourceOpenFoodFacts
	}
	log.Infow("product scanned", "user_id", userID, "barcode", item.Barcode, "source", source)

	return domain.ScanLogResponse{
		FoodItem:       food.ToFoodItemResponse(item),
		ConsumptionLog: ToLogResponse(entry),
		Source:         source,
	}, nil
}

func (s *consumptionService) CreateLog(ctx context.Context, userID string, req domain.CreateLogRequest) (domain.CreateLogResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return domain.CreateLogResponse{}, domain.ErrParseUUID
	}
	if req.AmountConsumed <= 0 {
		return domain.CreateLogResponse{}, domain.ErrInvalidAmount
	}
	if !validDate(req.Date) {
		return domain.CreateLogResponse{}, domain.ErrInvalidDate
	}

	item, _, err := s.foods.ResolveFoodItem(ctx, strings.TrimSpace(req.Barcode), false)
	if errors.Is(err, domain.ErrFoodItemNotFound) {
		return domain.CreateLogResponse{}, domain.ErrFoodItemRequired
	}
	if err != nil {
		return domain.CreateLogResponse{}, err
	}

	now := s.now()
	date := req.Date
	if date == "" {
		date = Today(now)
	}

	entry := &entities.ConsumptionLog{
		UserID:         id,
		Barcode:        item.Barcode,
		AmountConsumed: req.AmountConsumed,
		Date:           date,
		ConsumedAt:     now,
	}
	Scale(item, req.AmountConsumed).apply(entry)

	auto := req.AutoCalculate == nil || *req.AutoCalculate
	method := domain.CalculationAuto
	if !auto {
		method = domain.CalculationManual
		entry.IsManualEntry = true
		applyOverrides(entry, req.CaloriesConsumed, req.CarbsConsumed, req.ProteinsConsumed, req.FatsConsumed, req.SugarsConsumed)
	}

	if err := s.repo.CreateLog(ctx, entry); err != nil {
		return domain.CreateLogResponse{}, err
	}
	entry.FoodItem = item

	return domain.CreateLogResponse{ConsumptionLog: ToLogResponse(entry), CalculationMethod: method}, nil
}

func applyOverrides(entry *entities.ConsumptionLog, calories, carbs, proteins, fats, sugars *float64) {
	set := func(dst **float64, v *float64) {
		if v != nil {
			c := *v
			*dst = &c
		}
	}
	set(&entry.CalculatedCalories, calories)
	set(&entry.CalculatedCarbs, carbs)
	set(&entry.CalculatedProtein, proteins)
	set(&entry.CalculatedFat, fats)
	set(&entry.CalculatedSugar, sugars)
}

func (s *consumptionService) GetLogs(ctx context.Context, userID string, query domain.LogQuery) (domain.LogListResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return domain.LogListResponse{}, domain.ErrParseUUID
	}
	if !validDate(query.Date) || !validDate(query.StartDate) || !validDate(query.EndDate) {
		return domain.LogListResponse{}, domain.ErrInvalidDate
	}

	page := query.PaginationRequest.Normalize()
	filter := LogFilter{Date: query.Date, StartDate: query.StartDate, EndDate: query.EndDate}
	logs, count, err := s.repo.GetLogs(ctx, id, filter, page.Page, page.Limit)
	if err != nil {
		return domain.LogListResponse{}, err
	}

	res := domain.LogListResponse{
		ConsumptionLogs: make([]domain.LogResponse, 0, len(logs)),
		Pagination:      domain.NewPagination(page.Page, page.Limit, count),
	}
	for i := range logs {
		res.ConsumptionLogs = append(res.ConsumptionLogs, ToLogResponse(&logs[i]))
	}
	return res, nil
}

func (s *consumptionService) GetLog(ctx context.Context, userID string, logID uint) (domain.LogResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return domain.LogResponse{}, domain.ErrParseUUID
	}
	entry, err := s.repo.GetLogByID(ctx, id, logID)
	if err != nil {
		return domain.LogResponse{}, err
	}
	return ToLogResponse(entry), nil
}

// UpdateLog recalculates nutrients from the food item when the amount changes
// and autoCalculate holds; otherwise explicit nutrient values are applied.
func (s *consumptionService) UpdateLog(ctx context.Context, userID string, logID uint, req domain.UpdateLogRequest) (domain.CreateLogResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return domain.CreateLogResponse{}, domain.ErrParseUUID
	}

	entry, err := s.repo.GetLogByID(ctx, id, logID)
	if err != nil {
		return domain.CreateLogResponse{}, err
	}

	if req.Date != nil {
		if *req.Date == "" || !validDate(*req.Date) {
			return domain.CreateLogResponse{}, domain.ErrInvalidDate
		}
		entry.Date = *req.Date
	}

	auto := req.AutoCalculate == nil || *req.AutoCalculate
	if req.AmountConsumed != nil {
		if *req.AmountConsumed <= 0 {
			return domain.CreateLogResponse{}, domain.ErrInvalidAmount
		}
		entry.AmountConsumed = *req.AmountConsumed
		if auto && entry.FoodItem != nil {
			Scale(entry.FoodItem, entry.AmountConsumed).apply(entry)
			entry.IsManualEntry = false
		}
	}

	method := domain.CalculationAuto
	if !auto {
		method = domain.CalculationUpdatedManually
		entry.IsManualEntry = true
		applyOverrides(entry, req.CaloriesConsumed, req.CarbsConsumed, req.ProteinsConsumed, req.FatsConsumed, req.SugarsConsumed)
	}

	if err := s.repo.UpdateLog(ctx, entry); err != nil {
		return domain.CreateLogResponse{}, err
	}
	return domain.CreateLogResponse{ConsumptionLog: ToLogResponse(entry), CalculationMethod: method}, nil
}

func (s *consumptionService) DeleteLog(ctx context.Context, userID string, logID uint) error {
	id, err := uuid.Parse(userID)
	if err != nil {
		return domain.ErrParseUUID
	}
	return s.repo.DeleteLog(ctx, id, logID)
}

func (s *consumptionService) DailySummary(ctx context.Context, userID string, date string) (domain.DailySummaryResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return domain.DailySummaryResponse{}, domain.ErrParseUUID
	}
	if date == "" || !validDate(date) {
		return domain.DailySummaryResponse{}, domain.ErrInvalidDate
	}

	logs, err := s.repo.GetLogsByDate(ctx, id, date)
	if err != nil {
		return domain.DailySummaryResponse{}, err
	}

	res := domain.DailySummaryResponse{
		Date:    date,
		Summary: Totals(logs),
		Logs:    make([]domain.DailySummaryEntry, 0, len(logs)),
	}
	for _, l := range logs {
		entry := domain.DailySummaryEntry{
			ID:               l.ID,
			AmountConsumed:   l.AmountConsumed,
			CaloriesConsumed: value(l.CalculatedCalories),
			CarbsConsumed:    value(l.CalculatedCarbs),
			ProteinsConsumed: value(l.CalculatedProtein),
			FatsConsumed:     value(l.CalculatedFat),
			SugarsConsumed:   value(l.CalculatedSugar),
			ConsumedAt:       l.ConsumedAt,
		}
		if l.FoodItem != nil {
			entry.FoodName = l.FoodItem.Name
		}
		res.Logs = append(res.Logs, entry)
	}

	goal, err := s.goals.GetGoalByUserID(ctx, id)
	switch {
	case err == nil:
		cmp := CompareToGoal(res.Summary, goal)
		res.GoalComparison = &cmp
	case errors.Is(err, domain.ErrGoalNotFound):
	default:
		log.Warnw("daily summary without goal comparison", "user_id", userID, "error", err)
	}
	return res, nil
}

// Totals sums nutrient values over logs, treating missing values as zero.
func Totals(logs []entities.ConsumptionLog) domain.NutritionTotals {
	var t domain.NutritionTotals
	for _, l := range logs {
		t.TotalCalories += value(l.CalculatedCalories)
		t.TotalCarbs += value(l.CalculatedCarbs)
		t.TotalProteins += value(l.CalculatedProtein)
		t.TotalFats += value(l.CalculatedFat)
		t.TotalSugars += value(l.CalculatedSugar)
		t.TotalItems++
	}
	t.TotalCalories = round1(t.TotalCalories)
	t.TotalCarbs = round1(t.TotalCarbs)
	t.TotalProteins = round1(t.TotalProteins)
	t.TotalFats = round1(t.TotalFats)
	t.TotalSugars = round1(t.TotalSugars)
	return t
}

func CompareToGoal(t domain.NutritionTotals, g *entities.DailyGoal) domain.GoalComparison {
	return domain.GoalComparison{
		Calories: compare(t.TotalCalories, float64(g.TargetCalories)),
		Carbs:    compare(t.TotalCarbs, g.TargetCarbs),
		Proteins: compare(t.TotalProteins, g.TargetProtein),
		Fats:     compare(t.TotalFats, g.TargetFat),
		Sugars:   compare(t.TotalSugars, g.TargetSugar),
	}
}

func compare(consumed, goal float64) domain.NutrientComparison {
	c := domain.NutrientComparison{
		Consumed:  consumed,
		Goal:      goal,
		Remaining: round1(math.Max(0, goal-consumed)),
	}
	if goal > 0 {
		pct := int(math.Round(100 * consumed / goal))
		c.Percentage = &pct
	}
	return c
}

func ToLogResponse(l *entities.ConsumptionLog) domain.LogResponse {
	res := domain.LogResponse{
		ID:                 l.ID,
		Barcode:            l.Barcode,
		Date:               l.Date,
		AmountConsumed:     l.AmountConsumed,
		ConsumedAt:         l.ConsumedAt,
		CalculatedCalories: l.CalculatedCalories,
		CalculatedProtein:  l.CalculatedProtein,
		CalculatedCarbs:    l.CalculatedCarbs,
		CalculatedFat:      l.CalculatedFat,
		CalculatedSugar:    l.CalculatedSugar,
		CalculatedFiber:    l.CalculatedFiber,
		CalculatedSodium:   l.CalculatedSodium,
		IsManualEntry:      l.IsManualEntry,
		CreatedAt:          l.CreatedAt,
	}
	if f := l.FoodItem; f != nil {
		res.FoodItem = &domain.LogFoodSummary{
			Barcode:         f.Barcode,
			Name:            f.Name,
			Brand:           f.Brand,
			ServingSize:     f.ServingSize,
			CaloriesPer100g: f.CaloriesPer100g,
			ImageURL:        f.ImageURL,
		}
	}
	return res
}
