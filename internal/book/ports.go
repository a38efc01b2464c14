package book

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_ports.go -package=book

// Repository defines the contract for book data storage.
type Repository interface {
	List(ctx context.Context, q Query) ([]Book, error)
	FindByISBN(ctx context.Context, isbn string) (Book, error)
	Insert(ctx context.Context, b *Book) (int64, error)
	DeleteByISBN(ctx context.Context, isbn string) error
	UpdateLocation(ctx context.Context, isbn, location string) error
	Count(ctx context.Context) (int, error)
}

// Fetcher looks up metadata for an ISBN. The bool is false when the provider
// has no match or could not be reached.
type Fetcher interface {
	FetchByISBN(ctx context.Context, isbn string) (Metadata, bool)
}
