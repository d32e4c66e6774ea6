package port

import (
	"context"
	"search-bridge/domain"
)

// DocumentStore is the operation surface the bridge needs from the external
// document store. The store owns storage, ranking and query execution.
type DocumentStore interface {
	UpsertDocuments(ctx context.Context, indexName string, docs []domain.Document, primaryKey string) error
	DeleteDocument(ctx context.Context, indexName string, id domain.DocumentID) error
	DeleteIndex(ctx context.Context, indexName string) error
	ListIndexes(ctx context.Context) ([]string, error)
	UpdateSearchableFields(ctx context.Context, indexName string, fields []string) error
	Search(ctx context.Context, indexName, query string, opts domain.SearchOptions) ([]domain.SearchHit, error)
	MultiSearch(ctx context.Context, indexNames []string, query string, opts domain.SearchOptions) ([]domain.SearchHit, error)
	Health(ctx context.Context) error
}
