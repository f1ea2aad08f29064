package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lokarni/lokarni-cli/internal/core/domain"
	"github.com/lokarni/lokarni-cli/internal/core/ports"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second, zap.NewNop().Sugar())
}

func TestClient_ListCategoryMapping(t *testing.T) {
	tests := []struct {
		name      string
		category  string
		wantQuery string
	}{
		{"all assets unfiltered", domain.AllAssetsCategory, ""},
		{"favorites flag", domain.FavoritesCategory, "favorite=true"},
		{"named category", "Styles", "category=Styles"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotQuery string
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/assets/", r.URL.Path)
				gotQuery = r.URL.RawQuery
				json.NewEncoder(w).Encode([]domain.Asset{{ID: 1, Name: "a"}})
			}))

			assets, err := c.List(context.Background(), tt.category, tt.category == domain.FavoritesCategory)
			require.NoError(t, err)
			assert.Len(t, assets, 1)
			assert.Equal(t, tt.wantQuery, gotQuery)
		})
	}
}

func TestClient_UpdateSendsOnlyEditedFields(t *testing.T) {
	var body map[string]any
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/assets/7", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		json.NewEncoder(w).Encode(domain.Asset{ID: 7, Name: "renamed"})
	}))

	_, err := c.Update(context.Background(), 7, domain.AssetUpdate{Name: domain.String("renamed")})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "renamed"}, body)
}

func TestClient_ErrorDetailDecoded(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"detail": "Asset not found"}`)
	}))

	_, err := c.Get(context.Background(), 99)
	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "Asset not found", apiErr.Detail)
	assert.True(t, IsNotFound(err))
}

func TestClient_TimeoutClassified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	t.Cleanup(srv.Close)
	c := NewClient(srv.URL, 20*time.Millisecond, zap.NewNop().Sugar())

	_, err := c.Get(context.Background(), 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestClient_ToggleFavorite(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/assets/3/favorite", r.URL.Path)
		json.NewEncoder(w).Encode(domain.Asset{ID: 3, IsFavorite: true})
	}))

	updated, err := c.ToggleFavorite(context.Background(), 3)
	require.NoError(t, err)
	assert.True(t, updated.IsFavorite)
}

func TestClient_CivitaiSearchRetriesTimeouts(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			time.Sleep(200 * time.Millisecond)
			return
		}
		json.NewEncoder(w).Encode([]ports.CivitaiModel{{ID: 1, Name: "hit"}})
	}))
	t.Cleanup(srv.Close)
	c := NewClient(srv.URL, 50*time.Millisecond, zap.NewNop().Sugar())

	hits, err := c.CivitaiSearch(context.Background(), ports.CivitaiSearchRequest{Query: "x"})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Len(t, hits, 1)
}

func TestClient_CivitaiSearchNoRetryOnAPIError(t *testing.T) {
	var calls int
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, `{"detail": "civitai unavailable"}`)
	}))

	_, err := c.CivitaiSearch(context.Background(), ports.CivitaiSearchRequest{Query: "x"})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.False(t, errors.Is(err, ErrTimeout))
}

func TestClient_FromCivitaiPayload(t *testing.T) {
	var body map[string]string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/import/from-civitai", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		json.NewEncoder(w).Encode(domain.Asset{ID: 1, Name: "imported"})
	}))

	_, err := c.FromCivitai(context.Background(), "https://civitai.com/models/42", "secret")
	require.NoError(t, err)
	assert.Equal(t, "https://civitai.com/models/42", body["civitai_url"])
	assert.Equal(t, "secret", body["api_key"])
}

func TestClient_UploadFileMultipart(t *testing.T) {
	img := filepath.Join(t.TempDir(), "preview.png")
	require.NoError(t, os.WriteFile(img, []byte("png-bytes"), 0o644))

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, "preview.png", hdr.Filename)
		assert.Equal(t, "LoRA", r.FormValue("type"))
		json.NewEncoder(w).Encode(uploadResponse{Path: "/images/LoRA/preview.png"})
	}))

	stored, err := c.UploadFile(context.Background(), img, "LoRA")
	require.NoError(t, err)
	assert.Equal(t, "/images/LoRA/preview.png", stored)
}

func TestClient_ImportArchive(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "backup.zip")
	require.NoError(t, os.WriteFile(archive, []byte("PK"), 0o644))

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/assets/import/", r.URL.Path)
		json.NewEncoder(w).Encode(importResult{Imported: 12})
	}))

	n, err := c.ImportArchive(context.Background(), archive)
	require.NoError(t, err)
	assert.Equal(t, 12, n)
}

func TestClient_BulkSavePayload(t *testing.T) {
	var got []domain.Category
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/categories/bulk", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{}`)
	}))

	err := c.BulkSave(context.Background(), []domain.Category{{ID: 2, Title: "Styles", Order: 1}})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Styles", got[0].Title)
}
