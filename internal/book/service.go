package book

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
)

const (
	msgISBNRequired  = "ISBN is required"
	msgAlreadyExists = "Book with this ISBN already exists"
	msgLookupMiss    = "Could not find book with this ISBN"
	msgNotFound      = "Book not found with this ISBN"
)

// AddInput is what a client submits to create an entry.
type AddInput struct {
	ISBN     string
	Location string
}

// Service provides the catalog operations behind the entries API.
type Service struct {
	repo    Repository
	fetcher Fetcher
	log     logrus.FieldLogger
}

// NewService creates a new book service.
func NewService(repo Repository, fetcher Fetcher, log logrus.FieldLogger) *Service {
	return &Service{repo: repo, fetcher: fetcher, log: log}
}

// List returns every record matching q, newest first.
func (s *Service) List(ctx context.Context, q Query) ([]Book, error) {
	books, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, storageError(err)
	}
	if books == nil {
		books = []Book{}
	}
	return books, nil
}

// Add looks the ISBN up with the metadata provider and stores a new record.
// The stored ISBN and cover URL use in.ISBN exactly as given.
func (s *Service) Add(ctx context.Context, in AddInput) (Book, error) {
	if in.ISBN == "" {
		return Book{}, validationError(msgISBNRequired)
	}

	_, err := s.repo.FindByISBN(ctx, in.ISBN)
	switch {
	case err == nil:
		return Book{}, conflictError(msgAlreadyExists, nil)
	case !errors.Is(err, ErrNotFound):
		return Book{}, storageError(err)
	}

	meta, ok := s.fetcher.FetchByISBN(ctx, in.ISBN)
	if !ok {
		return Book{}, notFoundError(msgLookupMiss, nil)
	}

	b := Book{
		Title:         meta.Title,
		ISBN:          in.ISBN,
		Location:      in.Location,
		Author:        meta.Authors,
		Summary:       meta.Description,
		Pages:         meta.PageCount,
		Language:      meta.Language,
		PublishedDate: meta.PublishedDate,
		CoverURL:      CoverURL(in.ISBN),
	}

	id, err := s.repo.Insert(ctx, &b)
	if err != nil {
		// lost a race with a concurrent insert of the same ISBN
		if errors.Is(err, ErrDuplicateISBN) {
			return Book{}, conflictError(msgAlreadyExists, err)
		}
		return Book{}, storageError(err)
	}
	b.ID = id

	s.log.WithFields(logrus.Fields{"id": id, "isbn": b.ISBN}).Info("book added")
	return b, nil
}

// Delete removes the record with the exact ISBN.
func (s *Service) Delete(ctx context.Context, isbn string) error {
	if err := s.repo.DeleteByISBN(ctx, isbn); err != nil {
		if errors.Is(err, ErrNotFound) {
			return notFoundError(msgNotFound, err)
		}
		return storageError(err)
	}
	s.log.WithField("isbn", isbn).Info("book deleted")
	return nil
}

// UpdateLocation sets the shelf location; an empty location clears it.
func (s *Service) UpdateLocation(ctx context.Context, isbn, location string) error {
	if err := s.repo.UpdateLocation(ctx, isbn, location); err != nil {
		if errors.Is(err, ErrNotFound) {
			return notFoundError(msgNotFound, err)
		}
		return storageError(err)
	}
	return nil
}
