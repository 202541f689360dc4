package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-test:generateContent", r.URL.Path)
		assert.Equal(t, "secret", r.URL.Query().Get("key"))

		var body generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Contents, 1)
		assert.Equal(t, "Say hello", body.Contents[0].Parts[0].Text)
		assert.Nil(t, body.SystemInstruction)

		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":" Hello"},{"text":" there "}]}}]}`))
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "secret", Model: "gemini-test", BaseURL: srv.URL, HTTPClient: srv.Client()})
	out, err := c.Generate(context.Background(), "Say hello")
	require.NoError(t, err)
	assert.Equal(t, "Hello there", out)
}

func TestChatSendsSystemAndHistory(t *testing.T) {
	var body generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"ok"}]}}]}`))
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "k", BaseURL: srv.URL, HTTPClient: srv.Client()})
	_, err := c.Chat(context.Background(), "be brief",
		[]Message{{Role: RoleUser, Text: "hi"}, {Role: RoleModel, Text: "hello"}, {Role: "assistant", Text: "x"}},
		"how much protein?", Options{Temperature: 0.7, MaxOutputTokens: 200})
	require.NoError(t, err)

	require.NotNil(t, body.SystemInstruction)
	assert.Equal(t, "be brief", body.SystemInstruction.Parts[0].Text)
	require.Len(t, body.Contents, 4)
	assert.Equal(t, RoleModel, body.Contents[1].Role)
	assert.Equal(t, RoleUser, body.Contents[2].Role)
	assert.Equal(t, "how much protein?", body.Contents[3].Parts[0].Text)
	require.NotNil(t, body.GenerationConfig)
	assert.Equal(t, 200, body.GenerationConfig.MaxOutputTokens)
}

func TestGenerateErrors(t *testing.T) {
	_, err := NewClient(Config{}).Generate(context.Background(), "x")
	assert.ErrorIs(t, err, ErrNotConfigured)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") == "bad" {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":"API key not valid"}`))
			return
		}
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	_, err = NewClient(Config{APIKey: "bad", BaseURL: srv.URL}).Generate(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")

	_, err = NewClient(Config{APIKey: "good", BaseURL: srv.URL}).Generate(context.Background(), "x")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}
