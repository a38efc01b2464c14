// Package lookup turns a client-supplied ISBN into catalog metadata using the
// Google Books volumes search.
package lookup

import (
	"context"
	"strings"

	"bookshelf/internal/book"
	"bookshelf/internal/isbn"
	"bookshelf/internal/platform/googlebooks"

	"github.com/sirupsen/logrus"
)

const (
	defaultTitle       = "Unknown Title"
	defaultAuthor      = "Unknown Author"
	defaultDescription = "No description available"
)

// VolumeSearcher is the part of the Google Books client the fetcher needs.
type VolumeSearcher interface {
	SearchByISBN(ctx context.Context, isbn string) (*googlebooks.VolumesResponse, error)
}

// Fetcher implements book.Fetcher. Provider failures are logged and reported
// the same way as a lookup that matched nothing.
type Fetcher struct {
	client VolumeSearcher
	log    logrus.FieldLogger
}

var _ book.Fetcher = (*Fetcher)(nil)

func NewFetcher(client VolumeSearcher, log logrus.FieldLogger) *Fetcher {
	return &Fetcher{client: client, log: log}
}

// FetchByISBN normalizes raw, queries the provider and maps the first match.
func (f *Fetcher) FetchByISBN(ctx context.Context, raw string) (book.Metadata, bool) {
	clean := isbn.Normalize(raw)
	log := f.log.WithFields(logrus.Fields{"isbn": raw, "query": clean})

	res, err := f.client.SearchByISBN(ctx, clean)
	if err != nil {
		log.WithError(err).Warn("book lookup failed, treating as not found")
		return book.Metadata{}, false
	}
	if res.TotalItems == 0 || len(res.Items) == 0 {
		log.Info("book lookup returned no match")
		return book.Metadata{}, false
	}

	return toMetadata(res.Items[0].VolumeInfo), true
}

func toMetadata(v googlebooks.VolumeInfo) book.Metadata {
	authors := v.Authors
	if authors == nil {
		authors = []string{defaultAuthor}
	}
	return book.Metadata{
		Title:         stringOr(v.Title, defaultTitle),
		Authors:       strings.Join(authors, ", "),
		PublishedDate: stringOr(v.PublishedDate, ""),
		Description:   stringOr(v.Description, defaultDescription),
		PageCount:     intOr(v.PageCount, 0),
		Language:      stringOr(v.Language, ""),
		Thumbnail:     v.ImageLinks.Thumbnail,
	}
}

func stringOr(p *string, def string) string {
	if p == nil {
		return def
	}
	return *p
}

func intOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}
