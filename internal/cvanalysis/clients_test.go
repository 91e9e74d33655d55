package cvanalysis

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sals-backend/internal/apperr"
)

func TestOCRClientExtract(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		content, _ := io.ReadAll(file)
		assert.Equal(t, "cv.pdf", header.Filename)
		assert.Equal(t, "pdf-bytes", string(content))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"result":[{"prediction":[
			{"label":"Name","ocr_text":"Nora Ali"},
			{"label":"Email","ocr_text":""},
			{"label":"","ocr_text":"orphan"}]}]}`))
	}))
	defer server.Close()

	fields, err := NewOCRClient(server.URL, "").Extract(context.Background(), Upload{Filename: "cv.pdf", Content: []byte("pdf-bytes")})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Name": "Nora Ali"}, fields)
}

func TestOCRClientError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	_, err := NewOCRClient(server.URL, "key").Extract(context.Background(), Upload{Filename: "cv.pdf"})
	assert.ErrorIs(t, err, apperr.ErrCollaborator)
}

func TestLLMClientComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-3.5-turbo", req.Model)
		assert.Equal(t, 1500, req.MaxTokens)
		assert.InDelta(t, 0.7, req.Temperature, 1e-9)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "hello", req.Messages[1].Content)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"score\":90}"}}]}`))
	}))
	defer server.Close()

	client := NewLLMClient(LLMConfig{BaseURL: server.URL + "/v1", APIKey: "sk-test"})

	reply, err := client.Complete(context.Background(), "sys", "hello")
	require.NoError(t, err)
	assert.Equal(t, `{"score":90}`, reply)
}

func TestLLMClientWithoutKey(t *testing.T) {
	_, err := NewLLMClient(LLMConfig{}).Complete(context.Background(), "sys", "hello")
	assert.ErrorIs(t, err, apperr.ErrCollaborator)
}
