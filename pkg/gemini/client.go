package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"nutriscan-backend/internal/utils"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-1.5-flash"

	RoleUser  = "user"
	RoleModel = "model"
)

var (
	ErrNotConfigured = errors.New("GEMINI_API_KEY is not set")
	ErrEmptyResponse = errors.New("gemini returned no candidates")
)

type (
	// Message is one prior conversation turn. Role is RoleUser or RoleModel.
	Message struct {
		Role string
		Text string
	}

	Options struct {
		Temperature     float64
		MaxOutputTokens int
	}

	Client interface {
		Generate(ctx context.Context, prompt string) (string, error)
		Chat(ctx context.Context, system string, history []Message, message string, opts Options) (string, error)
	}

	client struct {
		apiKey     string
		model      string
		baseURL    string
		httpClient *http.Client
	}

	Config struct {
		APIKey     string
		Model      string
		BaseURL    string
		HTTPClient *http.Client
	}
)

func NewClient(cfg Config) Client {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &client{
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: cfg.HTTPClient,
	}
}

// NewClientFromConfig reads GEMINI_API_KEY and GEMINI_MODEL.
func NewClientFromConfig() Client {
	return NewClient(Config{
		APIKey: utils.GetConfig("GEMINI_API_KEY"),
		Model:  utils.GetConfig("GEMINI_MODEL"),
	})
}

func (c *client) Generate(ctx context.Context, prompt string) (string, error) {
	return c.do(ctx, generateRequest{
		Contents: []content{{Role: RoleUser, Parts: []part{{Text: prompt}}}},
	})
}

func (c *client) Chat(ctx context.Context, system string, history []Message, message string, opts Options) (string, error) {
	req := generateRequest{}
	if system != "" {
		req.SystemInstruction = &content{Parts: []part{{Text: system}}}
	}
	for _, m := range history {
		role := RoleUser
		if m.Role == RoleModel {
			role = RoleModel
		}
		req.Contents = append(req.Contents, content{Role: role, Parts: []part{{Text: m.Text}}})
	}
	req.Contents = append(req.Contents, content{Role: RoleUser, Parts: []part{{Text: message}}})
	if opts.Temperature > 0 || opts.MaxOutputTokens > 0 {
		req.GenerationConfig = &generationConfig{
			Temperature:     opts.Temperature,
			MaxOutputTokens: opts.MaxOutputTokens,
		}
	}
	return c.do(ctx, req)
}

func (c *client) do(ctx context.Context, body generateRequest) (string, error) {
	if c.apiKey == "" {
		return "", ErrNotConfigured
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, url.PathEscape(c.model), url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return "", fmt.Errorf("gemini API error: %s - %s", resp.Status, strings.TrimSpace(string(msg)))
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode gemini response: %w", err)
	}

	var sb strings.Builder
	if len(out.Candidates) > 0 {
		for _, p := range out.Candidates[0].Content.Parts {
			sb.WriteString(p.Text)
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

type (
	part struct {
		Text string `json:"text"`
	}

	content struct {
		Role  string `json:"role,omitempty"`
		Parts []part `json:"parts"`
	}

	generationConfig struct {
		Temperature     float64 `json:"temperature,omitempty"`
		MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
	}

	generateRequest struct {
		SystemInstruction *content          `json:"systemInstruction,omitempty"`
		Contents          []content         `json:"contents"`
		GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
	}

	generateResponse struct {
		Candidates []struct {
			Content content `json:"content"`
		} `json:"candidates"`
	}
)
