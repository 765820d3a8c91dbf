package jina

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateBatchOrdersByIndex(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var req embeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"create note", "find"}, req.Input)

		_, _ = w.Write([]byte(`{"data":[
			{"object":"embedding","index":1,"embedding":[0,1]},
			{"object":"embedding","index":0,"embedding":[1,0]}
		]}`))
	}))
	defer srv.Close()

	p := NewJinaProviderWithURL("secret", srv.URL)
	res, err := p.GenerateBatch(context.Background(), []string{"create note", "find"}, "")
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, []float32{1, 0}, res[0].Embedding.Values)
	assert.Equal(t, []float32{0, 1}, res[1].Embedding.Values)
}

func TestGenerateReportsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"bad key"}`))
	}))
	defer srv.Close()

	p := NewJinaProviderWithURL("wrong", srv.URL)
	_, err := p.Generate(context.Background(), "hello", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}
