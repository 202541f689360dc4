package openfoodfacts

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetProduct(t *testing.T) {
	var gotUA, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{
			"status": 1,
			"product": {
				"product_name": "",
				"product_name_en": "Oat Bar",
				"brands": "Acme",
				"serving_size": "1 bar (45 g)",
				"nutriments": {
					"energy-kcal_100g": 410,
					"proteins_100g": "8.5",
					"carbohydrates-100g": 60,
					"fat_per_100g": 14,
					"sugars": 21,
					"sodium_100g": 0.2
				}
			}
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	p, err := c.GetProduct(context.Background(), "3017620422003")
	require.NoError(t, err)

	assert.Equal(t, "NutriScan/1.0.0", gotUA)
	assert.Equal(t, "/api/v2/product/3017620422003.json", gotPath)
	assert.Equal(t, "3017620422003", p.Barcode)
	assert.Equal(t, "Oat Bar", p.Name)
	assert.Equal(t, "Acme", p.Brand)
	assert.Equal(t, 410.0, p.Calories)
	assert.Equal(t, 8.5, p.Proteins)
	assert.Equal(t, 60.0, p.Carbs)
	assert.Equal(t, 14.0, p.Fats)
	assert.Equal(t, 21.0, p.Sugars)
	assert.Nil(t, p.Fiber)
	require.NotNil(t, p.Sodium)
	assert.Equal(t, 0.2, *p.Sodium)
	assert.Equal(t, 1.0, p.ServingSize)
	assert.Equal(t, "g", p.ServingUnit)
}

func TestGetProductEnergyFromKilojoules(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":1,"product":{"nutriments":{"energy_100g":1674}}}`))
	}))
	defer srv.Close()

	p, err := NewClient(srv.URL, srv.Client()).GetProduct(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, 400.0, p.Calories)
	assert.Equal(t, "Unknown Product", p.Name)
	assert.Equal(t, 100.0, p.ServingSize)
}

func TestGetProductNotFound(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"status zero": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"status":0,"status_verbose":"product not found"}`))
		},
		"http 404": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		},
		"no nutriments": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"status":1,"product":{"product_name":"x"}}`))
		},
	}
	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(h)
			defer srv.Close()
			_, err := NewClient(srv.URL, srv.Client()).GetProduct(context.Background(), "1")
			assert.ErrorIs(t, err, ErrProductNotFound)
		})
	}
}

func TestGetProductUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, srv.Client()).GetProduct(context.Background(), "1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrProductNotFound)
}

func TestSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cgi/search.pl", r.URL.Path)
		assert.Equal(t, "nutella", r.URL.Query().Get("search_terms"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "5", r.URL.Query().Get("page_size"))
		_, _ = w.Write([]byte(`{"count":"12","products":[
			{"code":"111","product_name":"Nutella","brands":"Ferrero","image_url":"http://img/1"},
			{"code":"222","generic_name":"Spread"}
		]}`))
	}))
	defer srv.Close()

	res, err := NewClient(srv.URL, srv.Client()).Search(context.Background(), " nutella ", 2, 5)
	require.NoError(t, err)
	assert.Equal(t, 12, res.Count)
	assert.Equal(t, 2, res.Page)
	require.Len(t, res.Products, 2)
	assert.Equal(t, SearchHit{Barcode: "111", Name: "Nutella", Brand: "Ferrero", ImageURL: "http://img/1"}, res.Products[0])
	assert.Equal(t, "Spread", res.Products[1].Name)
	assert.Equal(t, "Unknown", res.Products[1].Brand)
}

func TestParseServing(t *testing.T) {
	cases := []struct {
		in   string
		size float64
		unit string
	}{
		{"30 g", 30, "g"},
		{"250ml", 250, "ml"},
		{"12,5 g", 12.5, "g"},
		{"", 100, "g"},
		{"one slice", 100, "g"},
	}
	for _, tc := range cases {
		size, unit := parseServing(tc.in)
		assert.Equal(t, tc.size, size, tc.in)
		assert.Equal(t, tc.unit, unit, tc.in)
	}
}

type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (m *memoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memoryCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func TestCachedClient(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{"status":1,"product":{"product_name":"Milk","nutriments":{"energy-kcal_100g":64}}}`))
	}))
	defer srv.Close()

	cache := &memoryCache{data: map[string][]byte{}}
	c := NewCachedClient(NewClient(srv.URL, srv.Client()), cache, time.Hour)

	for i := 0; i < 3; i++ {
		p, err := c.GetProduct(context.Background(), "42")
		require.NoError(t, err)
		assert.Equal(t, "Milk", p.Name)
		assert.Equal(t, 64.0, p.Calories)
	}
	assert.Equal(t, 1, calls)
	assert.Contains(t, cache.data, "off:product:42")
}

func TestCachedClientDoesNotCacheMisses(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{"status":0}`))
	}))
	defer srv.Close()

	c := NewCachedClient(NewClient(srv.URL, srv.Client()), NewNoopCache(), 0)
	for i := 0; i < 2; i++ {
		_, err := c.GetProduct(context.Background(), "42")
		assert.ErrorIs(t, err, ErrProductNotFound)
	}
	assert.Equal(t, 2, calls)
}
