package openfoodfacts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://world.openfoodfacts.org"
	userAgent      = "NutriScan/1.0.0"
	kjPerKcal      = 4.184
)

var ErrProductNotFound = errors.New("product not found in OpenFoodFacts")

var servingNumber = regexp.MustCompile(`(\d+(?:[.,]\d+)?)`)

type (
	// Product holds per-100g facts. Sodium is in grams.
	Product struct {
		Barcode     string   `json:"barcode"`
		Name        string   `json:"name"`
		Brand       string   `json:"brand"`
		Categories  string   `json:"categories"`
		Ingredients string   `json:"ingredients"`
		ImageURL    string   `json:"imageUrl"`
		ServingSize float64  `json:"servingSize"`
		ServingUnit string   `json:"servingUnit"`
		Calories    float64  `json:"calories"`
		Proteins    float64  `json:"proteins"`
		Carbs       float64  `json:"carbs"`
		Fats        float64  `json:"fats"`
		Sugars      float64  `json:"sugars"`
		Fiber       *float64 `json:"fiber,omitempty"`
		Sodium      *float64 `json:"sodium,omitempty"`
	}

	SearchHit struct {
		Barcode  string `json:"barcode"`
		Name     string `json:"name"`
		Brand    string `json:"brand"`
		ImageURL string `json:"imageUrl"`
	}

	SearchResult struct {
		Count    int         `json:"count"`
		Page     int         `json:"page"`
		PageSize int         `json:"pageSize"`
		Products []SearchHit `json:"products"`
	}

	Client interface {
		GetProduct(ctx context.Context, barcode string) (*Product, error)
		Search(ctx context.Context, term string, page, pageSize int) (*SearchResult, error)
	}

	client struct {
		baseURL    string
		httpClient *http.Client
	}
)

func NewClient(baseURL string, httpClient *http.Client) Client {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &client{baseURL: base, httpClient: httpClient}
}

func (c *client) GetProduct(ctx context.Context, barcode string) (*Product, error) {
	endpoint := fmt.Sprintf("%s/api/v2/product/%s.json", c.baseURL, url.PathEscape(barcode))
	var parsed offResponse
	status, err := c.getJSON(ctx, endpoint, &parsed)
	if status == http.StatusNotFound {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	if parsed.Status != 1 || parsed.Product == nil || parsed.Product.Nutriments == nil {
		return nil, ErrProductNotFound
	}
	return toProduct(barcode, parsed.Product), nil
}

func (c *client) Search(ctx context.Context, term string, page, pageSize int) (*SearchResult, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	q := url.Values{}
	q.Set("search_terms", strings.TrimSpace(term))
	q.Set("search_simple", "1")
	q.Set("action", "process")
	q.Set("json", "1")
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))

	var parsed offSearchResponse
	if _, err := c.getJSON(ctx, c.baseURL+"/cgi/search.pl?"+q.Encode(), &parsed); err != nil {
		return nil, err
	}

	count, _ := parsed.Count.Int64()
	res := &SearchResult{
		Count:    int(count),
		Page:     page,
		PageSize: pageSize,
		Products: make([]SearchHit, 0, len(parsed.Products)),
	}
	for _, p := range parsed.Products {
		brand := strings.TrimSpace(p.Brands)
		if brand == "" {
			brand = "Unknown"
		}
		res.Products = append(res.Products, SearchHit{
			Barcode:  p.Code,
			Name:     productName(&p),
			Brand:    brand,
			ImageURL: p.ImageURL,
		})
	}
	return res, nil
}

func (c *client) getJSON(ctx context.Context, endpoint string, out any) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("create openfoodfacts request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("execute openfoodfacts request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return resp.StatusCode, fmt.Errorf("read openfoodfacts response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, fmt.Errorf("openfoodfacts request failed with status %d", resp.StatusCode)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return resp.StatusCode, fmt.Errorf("decode openfoodfacts response: %w", err)
	}
	return resp.StatusCode, nil
}

func toProduct(barcode string, p *offProduct) *Product {
	n := p.Nutriments
	size, unit := parseServing(p.ServingSize)

	out := &Product{
		Barcode:     barcode,
		Name:        productName(p),
		Brand:       strings.TrimSpace(p.Brands),
		Categories:  strings.TrimSpace(p.Categories),
		Ingredients: strings.TrimSpace(p.IngredientsText),
		ImageURL:    p.ImageURL,
		ServingSize: size,
		ServingUnit: unit,
		Calories:    energyKcal(n),
		Proteins:    per100g(n, "proteins"),
		Carbs:       per100g(n, "carbohydrates"),
		Fats:        per100g(n, "fat"),
		Sugars:      per100g(n, "sugars"),
	}
	if v, ok := lookup100g(n, "fiber"); ok {
		out.Fiber = &v
	}
	if v, ok := lookup100g(n, "sodium"); ok {
		out.Sodium = &v
	}
	return out
}

func productName(p *offProduct) string {
	for _, name := range []string{p.ProductName, p.ProductNameEN, p.GenericName, p.AbbreviatedProductName} {
		if s := strings.TrimSpace(name); s != "" {
			return s
		}
	}
	return "Unknown Product"
}

// energyKcal prefers kcal fields and falls back to kJ.
func energyKcal(n map[string]any) float64 {
	for _, key := range []string{"energy-kcal", "energy_kcal"} {
		if v, ok := lookup100g(n, key); ok && v != 0 {
			return v
		}
	}
	for _, key := range []string{"energy-kj", "energy_kj", "energy"} {
		if v, ok := lookup100g(n, key); ok && v != 0 {
			return math.Round(v / kjPerKcal)
		}
	}
	return 0
}

func per100g(n map[string]any, name string) float64 {
	v, _ := lookup100g(n, name)
	return v
}

func lookup100g(n map[string]any, name string) (float64, bool) {
	for _, key := range []string{name + "_100g", name + "-100g", name + "_per_100g", name + "-per-100g", name} {
		if v, ok := parseFloatAny(n[key]); ok {
			return v, true
		}
	}
	return 0, false
}

func parseFloatAny(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// parseServing reads the leading number of e.g. "30 g" or "1 bar (45g)".
// Missing or unparsable sizes default to 100 g.
func parseServing(s string) (float64, string) {
	s = strings.TrimSpace(s)
	m := servingNumber.FindStringSubmatchIndex(s)
	if m == nil {
		return 100, "g"
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s[m[2]:m[3]], ",", "."), 64)
	if err != nil || v <= 0 {
		return 100, "g"
	}
	unit := "g"
	rest := strings.TrimSpace(s[m[3]:])
	if fields := strings.Fields(strings.TrimLeft(rest, "(")); len(fields) > 0 {
		u := strings.ToLower(strings.Trim(fields[0], "()"))
		switch u {
		case "g", "ml", "oz", "kg", "l", "cl":
			unit = u
		}
	}
	return v, unit
}

type (
	offResponse struct {
		Status  int         `json:"status"`
		Product *offProduct `json:"product"`
	}

	offProduct struct {
		Code                   string         `json:"code"`
		ProductName            string         `json:"product_name"`
		ProductNameEN          string         `json:"product_name_en"`
		GenericName            string         `json:"generic_name"`
		AbbreviatedProductName string         `json:"abbreviated_product_name"`
		Brands                 string         `json:"brands"`
		Categories             string         `json:"categories"`
		IngredientsText        string         `json:"ingredients_text"`
		ImageURL               string         `json:"image_url"`
		ServingSize            string         `json:"serving_size"`
		Nutriments             map[string]any `json:"nutriments"`
	}

	offSearchResponse struct {
		Count    json.Number  `json:"count"`
		Products []offProduct `json:"products"`
	}
)
