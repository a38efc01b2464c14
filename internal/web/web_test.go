package web

import (
	"io/fs"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexHandler_ServesPageVerbatim(t *testing.T) {
	want, err := fs.ReadFile(Static(), "index.html")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	IndexHandler()(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, string(want), w.Body.String())
}

func TestAssetHandler(t *testing.T) {
	w := httptest.NewRecorder()
	AssetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/static/app.js", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/api/entries")

	w = httptest.NewRecorder()
	AssetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/static/missing.js", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
