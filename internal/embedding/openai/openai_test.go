package openai

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type embeddingRequest struct {
	Input []string `json:"input"`
	Model string   `json:"model"`
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeServer answers /v1/embeddings with vectors of length dim whose first
// component is the input length. Data entries are returned in reverse order.
func fakeServer(t *testing.T, dim int, requests *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests != nil {
			requests.Add(1)
		}
		if r.URL.Path != "/v1/embeddings" {
			http.NotFound(w, r)
			return
		}
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		var req embeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		data := make([]map[string]any, 0, len(req.Input))
		for i := len(req.Input) - 1; i >= 0; i-- {
			vec := make([]float32, dim)
			vec[0] = float32(len(req.Input[i]))
			data = append(data, map[string]any{"object": "embedding", "index": i, "embedding": vec})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"model":  req.Model,
			"data":   data,
			"usage":  map[string]int{"prompt_tokens": 1, "total_tokens": 1},
		})
	}))
}

func TestNewLoader_RequiresAPIKey(t *testing.T) {
	_, err := NewLoader(Config{}, quietLogger())
	require.Error(t, err)
}

func TestNewLoader_Defaults(t *testing.T) {
	l, err := NewLoader(Config{APIKey: "sk-test"}, quietLogger())
	require.NoError(t, err)
	assert.Equal(t, "https://api.openai.com/v1", l.cfg.BaseURL)
	assert.Equal(t, "text-embedding-3-small", l.cfg.Model)
	assert.Equal(t, 32, l.cfg.BatchSize)
	assert.Positive(t, l.cfg.Timeout)
}

func TestLoader_LoadAndEmbed(t *testing.T) {
	var requests atomic.Int32
	srv := fakeServer(t, 8, &requests)
	defer srv.Close()

	l, err := NewLoader(Config{BaseURL: srv.URL + "/v1", APIKey: "sk-test", BatchSize: 2}, quietLogger())
	require.NoError(t, err)

	m, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 8, m.Dimension())
	assert.Equal(t, "text-embedding-3-small", m.Name())
	assert.Equal(t, int32(1), requests.Load(), "one probe request")

	vecs, err := m.Embed(context.Background(), []string{"a", "bb", "ccc"})
	require.NoError(t, err)
	require.Len(t, vecs, 3)
	assert.Equal(t, 1.0, vecs[0][0])
	assert.Equal(t, 2.0, vecs[1][0])
	assert.Equal(t, 3.0, vecs[2][0])
	assert.Equal(t, int32(3), requests.Load(), "two batches after the probe")
}

func TestLoader_LoadFailsOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"overloaded","type":"server_error"}}`))
	}))
	defer srv.Close()

	l, err := NewLoader(Config{BaseURL: srv.URL + "/v1", APIKey: "sk-test"}, quietLogger())
	require.NoError(t, err)
	_, err = l.Load(context.Background())
	require.Error(t, err)
}
