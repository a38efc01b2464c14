// Package testutil holds request builders and a fake metadata provider
// shared by the HTTP-level tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"bookshelf/internal/platform/googlebooks"
)

// NewRequest creates a new HTTP request for testing. A non-nil body is
// encoded as JSON.
func NewRequest(method, path string, body interface{}) *http.Request {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}
	var r *http.Request
	if bodyBytes != nil {
		r = httptest.NewRequest(method, path, bytes.NewReader(bodyBytes))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	return r
}

// RecordResponse records the HTTP response for testing
type RecordResponse struct {
	Code   int
	Header http.Header
	Raw    []byte
	Body   map[string]interface{}
}

// RecordHTTPResponse records the HTTP response. Body is only populated
// when the payload is a JSON object.
func RecordHTTPResponse(w *httptest.ResponseRecorder) RecordResponse {
	result := w.Result()
	defer result.Body.Close()

	bodyBytes, _ := io.ReadAll(result.Body)

	var bodyMap map[string]interface{}
	if len(bodyBytes) > 0 {
		_ = json.NewDecoder(bytes.NewReader(bodyBytes)).Decode(&bodyMap)
	}

	return RecordResponse{
		Code:   result.StatusCode,
		Header: result.Header,
		Raw:    bodyBytes,
		Body:   bodyMap,
	}
}

// Volumes is a fake Google Books endpoint. Unknown ISBNs get an empty
// result, like the real API.
type Volumes struct {
	*httptest.Server
	calls atomic.Int64
}

// Calls reports how many lookups the fake served.
func (v *Volumes) Calls() int64 {
	return v.calls.Load()
}

// NewVolumesServer starts a fake provider answering from byISBN and closes it
// when the test ends.
func NewVolumesServer(t testing.TB, byISBN map[string]googlebooks.VolumeInfo) *Volumes {
	t.Helper()
	v := &Volumes{}
	v.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v.calls.Add(1)
		if r.URL.Path != "/volumes" {
			http.NotFound(w, r)
			return
		}
		isbn := strings.TrimPrefix(r.URL.Query().Get("q"), "isbn:")

		res := googlebooks.VolumesResponse{}
		if info, ok := byISBN[isbn]; ok {
			res.TotalItems = 1
			res.Items = []googlebooks.Volume{{ID: "vol-" + isbn, VolumeInfo: info}}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(res)
	}))
	t.Cleanup(v.Close)
	return v
}

// Str returns a pointer to s, for building VolumeInfo literals.
func Str(s string) *string { return &s }

// Int returns a pointer to n.
func Int(n int) *int { return &n }
