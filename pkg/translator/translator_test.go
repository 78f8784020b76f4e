package translator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		var req translateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "good morning", req.Q)
		assert.Equal(t, "es", req.Target)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"translations":[{"translatedText":"buenos dias"}]}}`))
	}))
	defer srv.Close()

	tr := New(&Config{BaseURL: srv.URL, APIKey: "test-key"})

	translated, err := tr.Translate(context.Background(), "good morning", "es")
	require.NoError(t, err)
	assert.Equal(t, "buenos dias", translated)
}

func TestTranslateAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusForbidden)
	}))
	defer srv.Close()

	tr := New(&Config{BaseURL: srv.URL, APIKey: "test-key"})

	_, err := tr.Translate(context.Background(), "good morning", "es")
	assert.Error(t, err)
}

func TestTranslateEmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"translations":[]}}`))
	}))
	defer srv.Close()

	tr := New(&Config{BaseURL: srv.URL})

	_, err := tr.Translate(context.Background(), "hello", "fr")
	assert.Error(t, err)
}
