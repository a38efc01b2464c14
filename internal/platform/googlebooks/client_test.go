package googlebooks

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_SearchByISBN(t *testing.T) {
	var gotQuery, gotKey, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/volumes", r.URL.Path)
		gotQuery = r.URL.Query().Get("q")
		gotKey = r.URL.Query().Get("key")
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"totalItems": 1,
			"items": [{
				"id": "abc",
				"volumeInfo": {
					"title": "Compilers",
					"authors": ["Aho", "Ullman"],
					"pageCount": 796,
					"imageLinks": {"thumbnail": "http://example.com/t.jpg"}
				}
			}]
		}`))
	}))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL + "/", APIKey: "k", UserAgent: "bookshelf-test"})
	res, err := c.SearchByISBN(context.Background(), "9780201100884")
	require.NoError(t, err)

	assert.Equal(t, "isbn:9780201100884", gotQuery)
	assert.Equal(t, "k", gotKey)
	assert.Equal(t, "bookshelf-test", gotUA)
	require.Len(t, res.Items, 1)
	info := res.Items[0].VolumeInfo
	require.NotNil(t, info.Title)
	assert.Equal(t, "Compilers", *info.Title)
	assert.Equal(t, []string{"Aho", "Ullman"}, info.Authors)
	require.NotNil(t, info.PageCount)
	assert.Equal(t, 796, *info.PageCount)
	assert.Nil(t, info.Description)
	assert.Equal(t, "http://example.com/t.jpg", info.ImageLinks.Thumbnail)
}

func TestClient_SearchByISBN_Errors(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		_, err := NewClient(Options{BaseURL: srv.URL}).SearchByISBN(context.Background(), "1")
		assert.EqualError(t, err, "unexpected status code: 503")
	})

	t.Run("decode", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html>`))
		}))
		defer srv.Close()

		_, err := NewClient(Options{BaseURL: srv.URL}).SearchByISBN(context.Background(), "1")
		assert.ErrorContains(t, err, "decode volumes response")
	})

	t.Run("timeout", func(t *testing.T) {
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer srv.Close()
		defer close(release)

		_, err := NewClient(Options{BaseURL: srv.URL, Timeout: 50 * time.Millisecond}).SearchByISBN(context.Background(), "1")
		assert.Error(t, err)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := NewClient(Options{BaseURL: "http://127.0.0.1:1"}).SearchByISBN(ctx, "1")
		assert.ErrorIs(t, err, context.Canceled)
	})
}
