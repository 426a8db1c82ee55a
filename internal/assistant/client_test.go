package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Generate(t *testing.T) {
	var got generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/models/gemini-test:generateContent", r.URL.Path)
		assert.Equal(t, "secret", r.URL.Query().Get("key"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
  "candidates": [{
    "content": {"role": "model", "parts": [{"text": "Hello "}, {"text": "there"}]},
    "groundingMetadata": {"groundingChunks": [
      {"web": {"uri": "https://example.com/trends", "title": "Trends"}},
      {"web": {"uri": "", "title": "untitled"}}
    ]}
  }]
}`))
	}))
	defer srv.Close()

	c := NewClient("secret", srv.URL+"/", "gemini-test", nil)
	req := UserPrompt("be nice", "hi")
	req.GoogleSearch = true
	resp, err := c.Generate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "Hello there", resp.Text)
	require.Len(t, resp.Sources, 1)
	assert.Equal(t, "https://example.com/trends", resp.Sources[0].URI)

	require.NotNil(t, got.SystemInstruction)
	assert.Equal(t, "be nice", got.SystemInstruction.Parts[0].Text)
	require.Len(t, got.Contents, 1)
	assert.Equal(t, "user", got.Contents[0].Role)
	require.Len(t, got.Tools, 1)
	assert.Nil(t, got.GenerationConfig)
}

func TestClient_GenerateJSONSchema(t *testing.T) {
	var got generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"[]"}]}}]}`))
	}))
	defer srv.Close()

	req := UserPrompt("", "suggest")
	req.JSONSchema = map[string]any{"type": "ARRAY"}
	_, err := NewClient("k", srv.URL, "m", nil).Generate(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, got.GenerationConfig)
	assert.Equal(t, "application/json", got.GenerationConfig.ResponseMimeType)
	assert.Nil(t, got.SystemInstruction)
}

func TestClient_GenerateErrors(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Query().Get("key") == "empty" {
			_, _ = w.Write([]byte(`{"candidates":[]}`))
			return
		}
		http.Error(w, `{"error":{"code":429}}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()
	ctx := context.Background()

	_, err := NewClient("", srv.URL, "m", nil).Generate(ctx, UserPrompt("", "hi"))
	assert.True(t, errors.Is(err, ErrNotConfigured))
	assert.Equal(t, 0, calls)

	_, err = NewClient("k", srv.URL, "m", nil).Generate(ctx, UserPrompt("", "hi"))
	assert.ErrorContains(t, err, "429")

	_, err = NewClient("empty", srv.URL, "m", nil).Generate(ctx, UserPrompt("", "hi"))
	assert.ErrorContains(t, err, "no candidates")
}
