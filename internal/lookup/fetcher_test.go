package lookup

import (
	"context"
	"errors"
	"testing"

	"bookshelf/internal/book"
	"bookshelf/internal/platform/googlebooks"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockSearcher struct {
	mock.Mock
}

func (m *mockSearcher) SearchByISBN(ctx context.Context, isbn string) (*googlebooks.VolumesResponse, error) {
	args := m.Called(ctx, isbn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*googlebooks.VolumesResponse), args.Error(1)
}

func ptr[T any](v T) *T { return &v }

func TestFetcher_FetchByISBN_MapsFirstVolume(t *testing.T) {
	searcher := new(mockSearcher)
	logger, _ := test.NewNullLogger()
	f := NewFetcher(searcher, logger)
	ctx := context.Background()

	searcher.On("SearchByISBN", ctx, "9780130113024").Return(&googlebooks.VolumesResponse{
		TotalItems: 2,
		Items: []googlebooks.Volume{
			{VolumeInfo: googlebooks.VolumeInfo{
				Title:         ptr("Algorithms"),
				Authors:       []string{"Niklaus Wirth", "Someone Else"},
				PublishedDate: ptr("1976"),
				Description:   ptr("Classic."),
				PageCount:     ptr(366),
				Language:      ptr("en"),
				ImageLinks:    googlebooks.ImageLinks{Thumbnail: "http://books.google.com/t"},
			}},
			{VolumeInfo: googlebooks.VolumeInfo{Title: ptr("Ignored")}},
		},
	}, nil)

	meta, ok := f.FetchByISBN(ctx, "978-0-13-011302-4")

	assert.True(t, ok)
	assert.Equal(t, book.Metadata{
		Title:         "Algorithms",
		Authors:       "Niklaus Wirth, Someone Else",
		PublishedDate: "1976",
		Description:   "Classic.",
		PageCount:     366,
		Language:      "en",
		Thumbnail:     "http://books.google.com/t",
	}, meta)
	searcher.AssertExpectations(t)
}

func TestFetcher_FetchByISBN_Defaults(t *testing.T) {
	searcher := new(mockSearcher)
	logger, _ := test.NewNullLogger()
	f := NewFetcher(searcher, logger)
	ctx := context.Background()

	searcher.On("SearchByISBN", ctx, "020161622X").Return(&googlebooks.VolumesResponse{
		TotalItems: 1,
		Items:      []googlebooks.Volume{{}},
	}, nil)

	meta, ok := f.FetchByISBN(ctx, "0-201-61622-x")

	assert.True(t, ok)
	assert.Equal(t, "Unknown Title", meta.Title)
	assert.Equal(t, "Unknown Author", meta.Authors)
	assert.Equal(t, "", meta.PublishedDate)
	assert.Equal(t, "No description available", meta.Description)
	assert.Equal(t, 0, meta.PageCount)
	assert.Equal(t, "", meta.Language)
}

func TestFetcher_FetchByISBN_NoMatch(t *testing.T) {
	searcher := new(mockSearcher)
	logger, _ := test.NewNullLogger()
	f := NewFetcher(searcher, logger)
	ctx := context.Background()

	searcher.On("SearchByISBN", ctx, "0000000000").Return(&googlebooks.VolumesResponse{TotalItems: 0}, nil)

	_, ok := f.FetchByISBN(ctx, "0000000000")
	assert.False(t, ok)
}

func TestFetcher_FetchByISBN_ProviderErrorIsNotFound(t *testing.T) {
	searcher := new(mockSearcher)
	logger, hook := test.NewNullLogger()
	f := NewFetcher(searcher, logger)
	ctx := context.Background()

	searcher.On("SearchByISBN", ctx, "123").Return(nil, errors.New("dial tcp: connection refused"))

	_, ok := f.FetchByISBN(ctx, "123")

	assert.False(t, ok)
	entry := hook.LastEntry()
	if assert.NotNil(t, entry) {
		assert.Equal(t, logrus.WarnLevel, entry.Level)
		assert.Equal(t, "123", entry.Data["isbn"])
	}
}
