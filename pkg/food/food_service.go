package food

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"nutriscan-backend/domain"
	"nutriscan-backend/entities"
	"nutriscan-backend/internal/utils/storage"
	"nutriscan-backend/pkg/openfoodfacts"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/datatypes"
)

const (
	SourceDatabase      = "database"
	SourceOpenFoodFacts = "openfoodfacts"

	imageFolder = "food"
)

var barcodePattern = regexp.MustCompile(`^[0-9A-Za-z-]{1,64}$`)

type (
	FoodService interface {
		LookupBarcode(ctx context.Context, barcode string, autoFetch bool) (domain.FoodLookupResult, error)
		ResolveFoodItem(ctx context.Context, barcode string, autoFetch bool) (*entities.FoodItem, bool, error)
		CreateFoodItem(ctx context.Context, req domain.CreateFoodItemRequest) (domain.FoodItemResponse, error)
		GetFoodItems(ctx context.Context, query domain.FoodItemQuery) (domain.FoodItemListResponse, error)
		SearchExternal(ctx context.Context, term string, page domain.PaginationRequest) (domain.ExternalSearchResponse, error)
		UpdateFoodItem(ctx context.Context, barcode string, req domain.UpdateFoodItemRequest) (domain.FoodItemResponse, error)
		DeleteFoodItem(ctx context.Context, barcode string) error
		UploadFoodImage(ctx context.Context, req domain.UploadFoodImageRequest) (domain.FoodItemResponse, error)
	}

	foodService struct {
		foodRepository FoodRepository
		off            openfoodfacts.Client
		s3             storage.AwsS3
	}
)

func NewFoodService(foodRepository FoodRepository, off openfoodfacts.Client, s3 storage.AwsS3) FoodService {
	return &foodService{
		foodRepository: foodRepository,
		off:            off,
		s3:             s3,
	}
}

// IsIncomplete reports whether a stored record looks like a placeholder that
// should be refreshed from OpenFoodFacts.
func IsIncomplete(item *entities.FoodItem) bool {
	return item.CaloriesPer100g < 10 ||
		item.CarbsPer100g == 0 ||
		item.ProteinsPer100g == 0 ||
		item.FatsPer100g == 0 ||
		strings.Contains(item.Name, "Product ")
}

func ValidBarcode(barcode string) bool {
	return barcodePattern.MatchString(barcode)
}

func (s *foodService) LookupBarcode(ctx context.Context, barcode string, autoFetch bool) (domain.FoodLookupResult, error) {
	barcode = strings.TrimSpace(barcode)
	if !ValidBarcode(barcode) {
		return domain.FoodLookupResult{}, domain.ErrInvalidBarcode
	}

	stored, err := s.foodRepository.GetFoodItemByBarcode(ctx, barcode)
	if err != nil && !errors.Is(err, domain.ErrFoodItemNotFound) {
		return domain.FoodLookupResult{}, err
	}

	incomplete := stored != nil && IsIncomplete(stored)
	if stored != nil && !incomplete {
		return domain.FoodLookupResult{FoodItem: ToFoodItemResponse(stored), Source: SourceDatabase}, nil
	}

	if autoFetch {
		product, err := s.off.GetProduct(ctx, barcode)
		switch {
		case err == nil:
			item, created, err := s.saveProduct(ctx, stored, product)
			if err != nil {
				return domain.FoodLookupResult{}, err
			}
			return domain.FoodLookupResult{
				FoodItem: ToFoodItemResponse(item),
				Source:   SourceOpenFoodFacts,
				Created:  created,
			}, nil
		case errors.Is(err, openfoodfacts.ErrProductNotFound):
		default:
			log.Warnw("openfoodfacts lookup failed", "barcode", barcode, "error", err)
		}
	}

	if stored != nil {
		res := domain.FoodLookupResult{FoodItem: ToFoodItemResponse(stored), Source: SourceDatabase}
		if incomplete {
			res.Warning = domain.WarningStaleFoodItem
		}
		return res, nil
	}
	return domain.FoodLookupResult{}, domain.ErrFoodItemNotFound
}

// ResolveFoodItem returns the stored item for barcode, fetching and saving it
// from OpenFoodFacts when absent and autoFetch is set. fetched reports whether
// this call stored the item; losing the insert race to another writer does not count.
func (s *foodService) ResolveFoodItem(ctx context.Context, barcode string, autoFetch bool) (*entities.FoodItem, bool, error) {
	barcode = strings.TrimSpace(barcode)
	if !ValidBarcode(barcode) {
		return nil, false, domain.ErrInvalidBarcode
	}

	item, err := s.foodRepository.GetFoodItemByBarcode(ctx, barcode)
	if err == nil || !errors.Is(err, domain.ErrFoodItemNotFound) || !autoFetch {
		return item, false, err
	}

	product, err := s.off.GetProduct(ctx, barcode)
	if err != nil {
		if !errors.Is(err, openfoodfacts.ErrProductNotFound) {
			log.Warnw("openfoodfacts lookup failed", "barcode", barcode, "error", err)
		}
		return nil, false, domain.ErrFoodItemNotFound
	}
	item, created, err := s.saveProduct(ctx, nil, product)
	if err != nil {
		return nil, false, err
	}
	return item, created, nil
}

// saveProduct refreshes stored in place, or inserts a new record when stored
// is nil. A concurrent insert of the same barcode resolves to the winner's row.
func (s *foodService) saveProduct(ctx context.Context, stored *entities.FoodItem, p *openfoodfacts.Product) (*entities.FoodItem, bool, error) {
	if stored != nil {
		applyProduct(stored, p)
		if err := s.foodRepository.UpdateFoodItem(ctx, stored); err != nil {
			return nil, false, err
		}
		log.Infow("food item refreshed from openfoodfacts", "barcode", stored.Barcode)
		return stored, false, nil
	}

	item := &entities.FoodItem{Barcode: p.Barcode}
	applyProduct(item, p)
	err := s.foodRepository.CreateFoodItem(ctx, item)
	if errors.Is(err, domain.ErrFoodItemAlreadyExists) {
		existing, err := s.foodRepository.GetFoodItemByBarcode(ctx, p.Barcode)
		return existing, false, err
	}
	if err != nil {
		return nil, false, err
	}
	return item, true, nil
}

func applyProduct(item *entities.FoodItem, p *openfoodfacts.Product) {
	item.Name = p.Name
	item.Brand = p.Brand
	item.Category = firstCategory(p.Categories)
	item.CaloriesPer100g = p.Calories
	item.ProteinsPer100g = p.Proteins
	item.CarbsPer100g = p.Carbs
	item.FatsPer100g = p.Fats
	item.SugarsPer100g = p.Sugars
	item.FiberPer100g = p.Fiber
	item.SodiumPer100g = p.Sodium
	item.ServingSize = p.ServingSize
	item.ServingUnit = p.ServingUnit
	if p.ImageURL != "" {
		item.ImageURL = p.ImageURL
	}
	item.Source = entities.FoodSourceOpenFoodFacts
	item.Extra = productExtra(p)
	item.LastUpdated = time.Now()
}

func productExtra(p *openfoodfacts.Product) datatypes.JSON {
	if p.Ingredients == "" && p.Categories == "" {
		return nil
	}
	data, err := json.Marshal(map[string]string{
		"ingredients": p.Ingredients,
		"categories":  p.Categories,
	})
	if err != nil {
		return nil
	}
	return datatypes.JSON(data)
}

func firstCategory(categories string) string {
	first, _, _ := strings.Cut(categories, ",")
	return strings.TrimSpace(first)
}

func (s *foodService) CreateFoodItem(ctx context.Context, req domain.CreateFoodItemRequest) (domain.FoodItemResponse, error) {
	barcode := strings.TrimSpace(req.Barcode)
	if !ValidBarcode(barcode) {
		return domain.FoodItemResponse{}, domain.ErrInvalidBarcode
	}

	if _, err := s.foodRepository.GetFoodItemByBarcode(ctx, barcode); err == nil {
		return domain.FoodItemResponse{}, domain.ErrFoodItemAlreadyExists
	} else if !errors.Is(err, domain.ErrFoodItemNotFound) {
		return domain.FoodItemResponse{}, err
	}

	item := &entities.FoodItem{
		Barcode:     barcode,
		Source:      entities.FoodSourceManual,
		ServingSize: 100,
		ServingUnit: "g",
	}

	if req.FetchFromAPI {
		product, err := s.off.GetProduct(ctx, barcode)
		if err == nil {
			applyProduct(item, product)
		} else {
			log.Warnw("openfoodfacts prefill failed", "barcode", barcode, "error", err)
		}
	}

	overrideFoodItem(item, req)
	if strings.TrimSpace(item.Name) == "" || (req.CaloriesPer100g == nil && item.Source == entities.FoodSourceManual) {
		return domain.FoodItemResponse{}, domain.ErrNameAndCaloriesRequired
	}
	item.LastUpdated = time.Now()

	if err := s.foodRepository.CreateFoodItem(ctx, item); err != nil {
		return domain.FoodItemResponse{}, err
	}
	return ToFoodItemResponse(item), nil
}

func overrideFoodItem(item *entities.FoodItem, req domain.CreateFoodItemRequest) {
	if req.Name != "" {
		item.Name = req.Name
	}
	if req.Brand != "" {
		item.Brand = req.Brand
	}
	if req.Category != "" {
		item.Category = req.Category
	}
	if req.ServingUnit != "" {
		item.ServingUnit = req.ServingUnit
	}
	if req.ImageURL != "" {
		item.ImageURL = req.ImageURL
	}
	setFloat(&item.CaloriesPer100g, req.CaloriesPer100g)
	setFloat(&item.ProteinsPer100g, req.ProteinsPer100g)
	setFloat(&item.CarbsPer100g, req.CarbsPer100g)
	setFloat(&item.FatsPer100g, req.FatsPer100g)
	setFloat(&item.SugarsPer100g, req.SugarsPer100g)
	setFloat(&item.ServingSize, req.ServingSize)
	if req.FiberPer100g != nil {
		item.FiberPer100g = req.FiberPer100g
	}
	if req.SodiumPer100g != nil {
		item.SodiumPer100g = req.SodiumPer100g
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func (s *foodService) GetFoodItems(ctx context.Context, query domain.FoodItemQuery) (domain.FoodItemListResponse, error) {
	page := query.PaginationRequest.Normalize()
	items, count, err := s.foodRepository.GetFoodItems(ctx, query.Search, page.Page, page.Limit)
	if err != nil {
		return domain.FoodItemListResponse{}, err
	}

	res := domain.FoodItemListResponse{
		FoodItems:  make([]domain.FoodItemResponse, 0, len(items)),
		Pagination: domain.NewPagination(page.Page, page.Limit, count),
	}
	for i := range items {
		res.FoodItems = append(res.FoodItems, ToFoodItemResponse(&items[i]))
	}
	return res, nil
}

func (s *foodService) SearchExternal(ctx context.Context, term string, page domain.PaginationRequest) (domain.ExternalSearchResponse, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return domain.ExternalSearchResponse{}, domain.ErrSearchTermRequired
	}
	page = page.Normalize()

	found, err := s.off.Search(ctx, term, page.Page, page.Limit)
	if err != nil {
		log.Errorw("openfoodfacts search failed", "term", term, "error", err)
		return domain.ExternalSearchResponse{}, fmt.Errorf("%w: %v", domain.ErrExternalSource, err)
	}

	res := domain.ExternalSearchResponse{
		Count:    found.Count,
		Page:     found.Page,
		PageSize: found.PageSize,
		Products: make([]domain.ExternalProduct, 0, len(found.Products)),
	}
	for _, p := range found.Products {
		res.Products = append(res.Products, domain.ExternalProduct{
			Barcode:  p.Barcode,
			Name:     p.Name,
			Brand:    p.Brand,
			ImageURL: p.ImageURL,
		})
	}
	return res, nil
}

func (s *foodService) UpdateFoodItem(ctx context.Context, barcode string, req domain.UpdateFoodItemRequest) (domain.FoodItemResponse, error) {
	item, err := s.foodRepository.GetFoodItemByBarcode(ctx, barcode)
	if err != nil {
		return domain.FoodItemResponse{}, err
	}

	setString(&item.Name, req.Name)
	setString(&item.Brand, req.Brand)
	setString(&item.Category, req.Category)
	setString(&item.ServingUnit, req.ServingUnit)
	setString(&item.ImageURL, req.ImageURL)
	setFloat(&item.CaloriesPer100g, req.CaloriesPer100g)
	setFloat(&item.ProteinsPer100g, req.ProteinsPer100g)
	setFloat(&item.CarbsPer100g, req.CarbsPer100g)
	setFloat(&item.FatsPer100g, req.FatsPer100g)
	setFloat(&item.SugarsPer100g, req.SugarsPer100g)
	setFloat(&item.ServingSize, req.ServingSize)
	if req.FiberPer100g != nil {
		item.FiberPer100g = req.FiberPer100g
	}
	if req.SodiumPer100g != nil {
		item.SodiumPer100g = req.SodiumPer100g
	}
	if item.Name == "" {
		return domain.FoodItemResponse{}, domain.ErrNameAndCaloriesRequired
	}
	item.LastUpdated = time.Now()

	if err := s.foodRepository.UpdateFoodItem(ctx, item); err != nil {
		return domain.FoodItemResponse{}, err
	}
	return ToFoodItemResponse(item), nil
}

func (s *foodService) DeleteFoodItem(ctx context.Context, barcode string) error {
	item, err := s.foodRepository.GetFoodItemByBarcode(ctx, barcode)
	if err != nil {
		return err
	}

	if item.ImageURL != "" {
		if key := s.s3.GetObjectKeyFromLink(item.ImageURL); key != "" {
			if err := s.s3.DeleteFile(key); err != nil {
				log.Warnw("failed to delete food image", "barcode", barcode, "key", key, "error", err)
			}
		}
	}

	return s.foodRepository.DeleteFoodItem(ctx, barcode)
}

func (s *foodService) UploadFoodImage(ctx context.Context, req domain.UploadFoodImageRequest) (domain.FoodItemResponse, error) {
	item, err := s.foodRepository.GetFoodItemByBarcode(ctx, req.Barcode)
	if err != nil {
		return domain.FoodItemResponse{}, err
	}

	var key string
	if old := s.s3.GetObjectKeyFromLink(item.ImageURL); old != "" {
		key, err = s.s3.UpdateFile(old, req.Image, storage.AllowImage...)
	} else {
		key, err = s.s3.UploadFile(item.Barcode, req.Image, imageFolder, storage.AllowImage...)
	}
	if err != nil {
		if errors.Is(err, storage.ErrFileTypeNotAllowed) || errors.Is(err, storage.ErrFileTooLarge) {
			return domain.FoodItemResponse{}, fmt.Errorf("%w: %v", domain.ErrInvalidImageFormat, err)
		}
		return domain.FoodItemResponse{}, err
	}

	item.ImageURL = s.s3.GetPublicLinkKey(key)
	item.LastUpdated = time.Now()
	if err := s.foodRepository.UpdateFoodItem(ctx, item); err != nil {
		return domain.FoodItemResponse{}, err
	}
	return ToFoodItemResponse(item), nil
}

func ToFoodItemResponse(item *entities.FoodItem) domain.FoodItemResponse {
	return domain.FoodItemResponse{
		Barcode:         item.Barcode,
		Name:            item.Name,
		Brand:           item.Brand,
		Category:        item.Category,
		CaloriesPer100g: item.CaloriesPer100g,
		ProteinsPer100g: item.ProteinsPer100g,
		CarbsPer100g:    item.CarbsPer100g,
		FatsPer100g:     item.FatsPer100g,
		SugarsPer100g:   item.SugarsPer100g,
		FiberPer100g:    item.FiberPer100g,
		SodiumPer100g:   item.SodiumPer100g,
		ServingSize:     item.ServingSize,
		ServingUnit:     item.ServingUnit,
		ImageURL:        item.ImageURL,
		Source:          item.Source,
		LastUpdated:     item.LastUpdated,
	}
}
