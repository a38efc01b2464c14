package googlebooks

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const DefaultBaseURL = "https://www.googleapis.com/books/v1"

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	BaseURL   string
	APIKey    string
	UserAgent string
	Timeout   time.Duration
	// RPS caps outbound requests per second; <= 0 disables the limiter.
	RPS float64
}

// Client talks to the Google Books volumes API. It makes exactly one attempt
// per call.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	userAgent  string
	limiter    *rate.Limiter
}

func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RPS), 1)
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		apiKey:    opts.APIKey,
		userAgent: opts.UserAgent,
		limiter:   limiter,
	}
}

// VolumesResponse matches GET /volumes.
type VolumesResponse struct {
	TotalItems int      `json:"totalItems"`
	Items      []Volume `json:"items"`
}

type Volume struct {
	ID         string     `json:"id"`
	VolumeInfo VolumeInfo `json:"volumeInfo"`
}

// VolumeInfo keeps pointers where the API may omit a field, so callers can
// tell "absent" from a zero value.
type VolumeInfo struct {
	Title         *string    `json:"title"`
	Authors       []string   `json:"authors"`
	PublishedDate *string    `json:"publishedDate"`
	Description   *string    `json:"description"`
	PageCount     *int       `json:"pageCount"`
	Language      *string    `json:"language"`
	ImageLinks    ImageLinks `json:"imageLinks"`
}

type ImageLinks struct {
	SmallThumbnail string `json:"smallThumbnail"`
	Thumbnail      string `json:"thumbnail"`
}

// SearchByISBN runs the volumes search with an isbn: filter.
func (c *Client) SearchByISBN(ctx context.Context, isbn string) (*VolumesResponse, error) {
	q := url.Values{}
	q.Set("q", "isbn:"+isbn)
	if c.apiKey != "" {
		q.Set("key", c.apiKey)
	}
	u := fmt.Sprintf("%s/volumes?%s", c.baseURL, q.Encode())

	var res VolumesResponse
	if err := c.get(ctx, u, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) get(ctx context.Context, url string, target interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decode volumes response: %w", err)
	}
	return nil
}
