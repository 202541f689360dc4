package config

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"nutriscan-backend/internal/testutil"
	"nutriscan-backend/internal/utils/storage"
	"nutriscan-backend/pkg/consumption"
	"nutriscan-backend/pkg/gemini"
	"nutriscan-backend/pkg/jwt"
	"nutriscan-backend/pkg/openfoodfacts"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "route-test-secret"

type stubOFF struct{}

func (stubOFF) GetProduct(_ context.Context, barcode string) (*openfoodfacts.Product, error) {
	if barcode == "5000000000001" {
		return &openfoodfacts.Product{
			Barcode: barcode, Name: "Cola", Brand: "Fizz", Calories: 42, Proteins: 0.1, Carbs: 10.6, Fats: 0.1, Sugars: 10.6,
			ServingSize: 330, ServingUnit: "ml",
		}, nil
	}
	return nil, openfoodfacts.ErrProductNotFound
}

func (stubOFF) Search(_ context.Context, term string, page, pageSize int) (*openfoodfacts.SearchResult, error) {
	return &openfoodfacts.SearchResult{Count: 1, Page: page, PageSize: pageSize, Products: []openfoodfacts.SearchHit{
		{Barcode: "5000000000001", Name: "Cola", Brand: "Fizz"},
	}}, nil
}

type stubGemini struct{ reply string }

func (s stubGemini) Generate(context.Context, string) (string, error) { return s.reply, nil }

func (s stubGemini) Chat(context.Context, string, []gemini.Message, string, gemini.Options) (string, error) {
	return s.reply, nil
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	t.Setenv("LOG_FILE", filepath.Join(t.TempDir(), "app.log"))

	app, err := NewAppWithClients(testutil.NewTestDB(t), Clients{
		JWT:           jwt.NewLocalJWTService(testSecret),
		OpenFoodFacts: stubOFF{},
		Gemini:        stubGemini{reply: "Assistant: Keep it up."},
		Storage:       storage.NewAwsS3WithClient(nil, "", ""),
	})
	require.NoError(t, err)
	return app
}

func token(t *testing.T) string {
	t.Helper()
	tok, err := jwt.NewLocalJWTService(testSecret).GenerateTokenUser(jwt.Identity{UID: "uid-ana", Email: "ana@example.com", Name: "Ana"}, time.Hour)
	require.NoError(t, err)
	return tok
}

func call(t *testing.T, app *fiber.App, method, path, tok string, body any) (*http.Response, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if tok != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+tok)
	}
	return send(t, app, req)
}

func send(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, envelope) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestWelcomeAndPing(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	var welcome map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&welcome))
	assert.Equal(t, "Welcome to NutriScan API", welcome["message"])

	resp, env := call(t, app, http.MethodGet, "/api/ping", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "pong", env.Message)
}

func TestAuthRequired(t *testing.T) {
	app := newTestApp(t)

	resp, env := call(t, app, http.MethodGet, "/api/profile", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.False(t, env.Status)

	resp, _ = call(t, app, http.MethodGet, "/api/profile", "garbage", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	// valid token, but the user never logged in
	resp, _ = call(t, app, http.MethodGet, "/api/profile", token(t), nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestUserJourney(t *testing.T) {
	app := newTestApp(t)
	tok := token(t)

	resp, env := call(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{"token": tok})
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Error)
	login := decode[map[string]any](t, env.Data)
	assert.Equal(t, true, login["isNewUser"])

	resp, env = call(t, app, http.MethodGet, "/api/goals", tok, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "goals need a profile first")

	resp, env = call(t, app, http.MethodPost, "/api/profile", tok, map[string]any{
		"age": 30, "gender": "male", "height": 175, "weight": 70, "activityLevel": "moderately_active",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, env.Error)
	created := decode[struct {
		Profile    struct{ BMI float64 } `json:"profile"`
		DailyGoals struct{ Calories int } `json:"dailyGoals"`
	}](t, env.Data)
	assert.Equal(t, 22.9, created.Profile.BMI)
	assert.Equal(t, 2556, created.DailyGoals.Calories)

	resp, _ = call(t, app, http.MethodPost, "/api/profile", tok, map[string]any{
		"age": 30, "gender": "male", "height": 175, "weight": 70, "activityLevel": "moderately_active",
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp, env = call(t, app, http.MethodGet, "/api/goals", tok, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Error)
	goal := decode[map[string]any](t, env.Data)
	assert.EqualValues(t, 2556, goal["targetCalories"])
	assert.EqualValues(t, 160, goal["targetProtein"])

	resp, env = call(t, app, http.MethodGet, "/api/barcode/5000000000001", "", nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, env.Error)
	assert.Equal(t, "public, max-age=3600", resp.Header.Get(fiber.HeaderCacheControl))
	lookup := decode[map[string]any](t, env.Data)
	assert.Equal(t, "openfoodfacts", lookup["source"])

	resp, env = call(t, app, http.MethodGet, "/api/food/barcode/5000000000001", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Error)
	assert.Equal(t, "database", decode[map[string]any](t, env.Data)["source"])

	resp, _ = call(t, app, http.MethodGet, "/api/public/barcode/0000", "", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Empty(t, resp.Header.Get(fiber.HeaderCacheControl))

	resp, env = call(t, app, http.MethodPost, "/api/logs/scan", tok, map[string]any{"barcode": "5000000000001", "amountConsumed": 330})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, env.Error)
	scan := decode[struct {
		ConsumptionLog struct {
			ID                 uint    `json:"id"`
			CalculatedCalories float64 `json:"calculatedCalories"`
		} `json:"consumptionLog"`
	}](t, env.Data)
	assert.Equal(t, 138.6, scan.ConsumptionLog.CalculatedCalories)

	today := consumption.Today(time.Now())
	resp, env = call(t, app, http.MethodGet, "/api/logs/daily-summary/"+today, tok, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Error)
	summary := decode[struct {
		Summary struct {
			TotalCalories float64 `json:"totalCalories"`
			TotalItems    int     `json:"totalItems"`
		} `json:"summary"`
		GoalComparison struct {
			Calories struct {
				Goal       float64 `json:"goal"`
				Percentage *int    `json:"percentage"`
			} `json:"calories"`
		} `json:"goalComparison"`
	}](t, env.Data)
	assert.Equal(t, 138.6, summary.Summary.TotalCalories)
	assert.Equal(t, 1, summary.Summary.TotalItems)
	assert.Equal(t, 2556.0, summary.GoalComparison.Calories.Goal)
	require.NotNil(t, summary.GoalComparison.Calories.Percentage)
	assert.Equal(t, 5, *summary.GoalComparison.Calories.Percentage)

	resp, _ = call(t, app, http.MethodGet, "/api/logs/abc", tok, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = call(t, app, http.MethodGet, "/api/logs/9999", tok, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, env = call(t, app, http.MethodPost, "/api/gemini/chat", tok, map[string]any{"message": "How am I doing?", "context": "nutrition_assistant"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Error)
	chat := decode[map[string]any](t, env.Data)
	assert.Equal(t, "Keep it up.", chat["response"])
	assert.Equal(t, true, chat["personalized"])
	assert.Equal(t, true, chat["hasProfileData"])

	resp, env = call(t, app, http.MethodPost, "/api/recommendations/generate", tok, map[string]any{
		"productData": map[string]any{"name": "Cola", "caloriesPer100g": 42, "sugarsPer100g": 10.6},
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Error)
	assert.Empty(t, resp.Header.Get(fiber.HeaderCacheControl))
	rec := decode[map[string]any](t, env.Data)
	assert.Equal(t, "fallback", rec["source"])

	resp, _ = call(t, app, http.MethodPost, "/api/recommendations/generate", tok, map[string]any{})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestPublicGoalCalculation(t *testing.T) {
	app := newTestApp(t)

	resp, env := call(t, app, http.MethodPost, "/api/public/goals/calculate", "", map[string]any{
		"age": 30, "gender": "male", "height": 175, "weight": 70, "activityLevel": "moderately_active", "goalType": "lose_weight",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Error)
	targets := decode[map[string]any](t, env.Data)
	assert.EqualValues(t, 2056, targets["targetCalories"])

	resp, _ = call(t, app, http.MethodPost, "/api/public/goals/calculate", "", map[string]any{"gender": "male"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestFoodImageUploadWithoutStorage(t *testing.T) {
	app := newTestApp(t)
	tok := token(t)

	resp, _ := call(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{"token": tok})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp, env := call(t, app, http.MethodPost, "/api/food", tok, map[string]any{"barcode": "123", "name": "Rice", "caloriesPer100g": 130})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, env.Error)

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("image", "rice.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("\x89PNG\r\n\x1a\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/food/123/image", body)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+tok)
	resp, _ = send(t, app, req)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	resp, env = call(t, app, http.MethodGet, "/api/food/search-external?q=cola", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Error)
	assert.EqualValues(t, 1, decode[map[string]any](t, env.Data)["count"])
}
