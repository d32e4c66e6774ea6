// Package bridge exposes the framework-facing search surface: clear, update,
// remove and search, translated into document-store calls.
package bridge

import (
	"context"
	"log/slog"

	"search-bridge/domain"
	"search-bridge/indexer"
	"search-bridge/port"
	"search-bridge/usecase"
)

// RecordFactory converts a decoded record into the caller's result type.
// A nil factory returns the record unchanged.
type RecordFactory func(domain.SearchResultRecord) any

// SearchResponse is the framework-facing search answer.
type SearchResponse struct {
	Results []any
	Hits    int
}

// Bridge is stateless between calls; all index state lives in the store. It
// is safe for concurrent use by independent callers.
type Bridge struct {
	update *usecase.UpdateEntitiesUsecase
	remove *usecase.RemoveEntityUsecase
	clear  *usecase.ClearIndexesUsecase
	search *usecase.SearchEntitiesUsecase
}

func New(store port.DocumentStore, registry port.ModelRegistry, opts indexer.Options, logger *slog.Logger) *Bridge {
	bulk := indexer.NewBulkIndexer(store, opts, logger)
	return &Bridge{
		update: usecase.NewUpdateEntitiesUsecase(registry, bulk, logger),
		remove: usecase.NewRemoveEntityUsecase(registry, bulk),
		clear:  usecase.NewClearIndexesUsecase(bulk),
		search: usecase.NewSearchEntitiesUsecase(store, registry, logger),
	}
}

// Clear drops the indexes of the given entity types, or all indexes when
// given none. The commit flag is accepted for interface compatibility and
// has no effect: the store applies writes on task completion.
func (b *Bridge) Clear(ctx context.Context, entityTypes []domain.EntityType, commit bool) error {
	return b.clear.Execute(ctx, entityTypes)
}

// Update indexes the given objects under their entity type's index. On a
// partial batch failure the returned result enumerates the lost documents
// alongside the error.
func (b *Bridge) Update(ctx context.Context, entityType domain.EntityType, objects []any, commit bool) (*usecase.UpdateResult, error) {
	return b.update.Execute(ctx, entityType, objects)
}

// Remove deletes one document given an object or its identifier. Removing a
// document that does not exist succeeds.
func (b *Bridge) Remove(ctx context.Context, objOrID any, commit bool) error {
	return b.remove.Execute(ctx, objOrID)
}

// Search runs a query across the candidate entity types and decodes the hits
// into result records, shaped by the optional factory.
func (b *Bridge) Search(ctx context.Context, query string, factory RecordFactory, entityTypes []domain.EntityType, opts usecase.SearchOptions) (*SearchResponse, error) {
	result, err := b.search.Execute(ctx, query, entityTypes, opts)
	if err != nil {
		return nil, err
	}

	results := make([]any, len(result.Records))
	for i, record := range result.Records {
		if factory != nil {
			results[i] = factory(record)
		} else {
			results[i] = record
		}
	}

	return &SearchResponse{
		Results: results,
		Hits:    result.Hits,
	}, nil
}
