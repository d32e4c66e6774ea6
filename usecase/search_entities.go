package usecase

import (
	"context"
	"errors"
	"log/slog"

	"search-bridge/domain"
	"search-bridge/port"
)

const (
	DefaultSearchLimit = 50
	maxSearchLimit     = 1000
	maxQueryLength     = 1000
)

// SearchOptions tunes one search call.
type SearchOptions struct {
	// Limit caps returned hits; zero means DefaultSearchLimit.
	Limit int64
	// Fragments are optional filter conditions joined with AND.
	Fragments []domain.QueryFragment
}

// SearchEntitiesResult is the framework-facing answer: decoded records plus
// the count of decodable hits.
type SearchEntitiesResult struct {
	Records []domain.SearchResultRecord
	Hits    int
}

// SearchEntitiesUsecase routes a query to a single-index search or a
// multi-index fan-out, then decodes hit ids back into framework records.
type SearchEntitiesUsecase struct {
	store    port.DocumentStore
	registry port.ModelRegistry
	logger   *slog.Logger
}

func NewSearchEntitiesUsecase(store port.DocumentStore, registry port.ModelRegistry, logger *slog.Logger) *SearchEntitiesUsecase {
	if logger == nil {
		logger = slog.Default()
	}
	return &SearchEntitiesUsecase{
		store:    store,
		registry: registry,
		logger:   logger,
	}
}

// Execute runs the query against the candidate entity types. An empty
// candidate set means every registered type. Hits whose ids fail to decode
// are dropped with a warning, never surfaced as a query failure.
func (u *SearchEntitiesUsecase) Execute(ctx context.Context, query string, entityTypes []domain.EntityType, opts SearchOptions) (*SearchEntitiesResult, error) {
	if query == "" {
		return nil, errors.New("query cannot be empty")
	}
	if len(query) > maxQueryLength {
		return nil, errors.New("query too long")
	}
	if opts.Limit < 0 || opts.Limit > maxSearchLimit {
		return nil, errors.New("limit out of range")
	}
	if opts.Limit == 0 {
		opts.Limit = DefaultSearchLimit
	}

	if len(entityTypes) == 0 {
		entityTypes = u.registry.IndexedEntityTypes()
	}
	if len(entityTypes) == 0 {
		return &SearchEntitiesResult{Records: []domain.SearchResultRecord{}}, nil
	}

	storeOpts := domain.SearchOptions{
		Limit:  opts.Limit,
		Filter: domain.CombineFragments(opts.Fragments),
	}

	var (
		hits []domain.SearchHit
		err  error
	)
	if len(entityTypes) == 1 {
		hits, err = u.store.Search(ctx, entityTypes[0].IndexName(), query, storeOpts)
	} else {
		indexNames := make([]string, len(entityTypes))
		for i, t := range entityTypes {
			indexNames[i] = t.IndexName()
		}
		hits, err = u.store.MultiSearch(ctx, indexNames, query, storeOpts)
	}
	if err != nil {
		return nil, err
	}

	records := make([]domain.SearchResultRecord, 0, len(hits))
	for _, hit := range hits {
		record, decodeErr := domain.DecodeHit(hit)
		if decodeErr != nil {
			u.logger.Warn("dropping hit with undecodable id",
				"id", hit.ID,
				"error", decodeErr,
			)
			continue
		}
		records = append(records, record)
	}

	return &SearchEntitiesResult{
		Records: records,
		Hits:    len(records),
	}, nil
}
