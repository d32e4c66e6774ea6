package gateway

import (
	"context"
	"errors"

	"search-bridge/domain"
	"search-bridge/driver"
)

// SearchDriver is the driver-level surface the gateway adapts.
type SearchDriver interface {
	UpsertDocuments(ctx context.Context, indexName string, docs []map[string]any, primaryKey string) error
	DeleteDocument(ctx context.Context, indexName string, id string) error
	DeleteIndex(ctx context.Context, indexName string) error
	ListIndexes(ctx context.Context) ([]string, error)
	UpdateSearchableFields(ctx context.Context, indexName string, fields []string) error
	Search(ctx context.Context, indexName, query string, opts driver.SearchOptionsDriver) ([]driver.SearchHitDriver, error)
	MultiSearch(ctx context.Context, indexNames []string, query string, opts driver.SearchOptionsDriver) ([]driver.SearchHitDriver, error)
	Health(ctx context.Context) error
}

// SearchEngineGateway adapts the store driver to the domain-facing
// DocumentStore port, translating driver errors into domain errors.
type SearchEngineGateway struct {
	driver SearchDriver
}

func NewSearchEngineGateway(driver SearchDriver) *SearchEngineGateway {
	return &SearchEngineGateway{
		driver: driver,
	}
}

func (g *SearchEngineGateway) UpsertDocuments(ctx context.Context, indexName string, docs []domain.Document, primaryKey string) error {
	if len(docs) == 0 {
		return nil
	}

	driverDocs := make([]map[string]any, len(docs))
	for i, doc := range docs {
		driverDocs[i] = map[string]any(doc)
	}

	if err := g.driver.UpsertDocuments(ctx, indexName, driverDocs, primaryKey); err != nil {
		return wrapDriverError("UpsertDocuments", err)
	}
	return nil
}

func (g *SearchEngineGateway) DeleteDocument(ctx context.Context, indexName string, id domain.DocumentID) error {
	if err := g.driver.DeleteDocument(ctx, indexName, string(id)); err != nil {
		return wrapDriverError("DeleteDocument", err)
	}
	return nil
}

func (g *SearchEngineGateway) DeleteIndex(ctx context.Context, indexName string) error {
	if err := g.driver.DeleteIndex(ctx, indexName); err != nil {
		return wrapDriverError("DeleteIndex", err)
	}
	return nil
}

func (g *SearchEngineGateway) ListIndexes(ctx context.Context) ([]string, error) {
	names, err := g.driver.ListIndexes(ctx)
	if err != nil {
		return nil, wrapDriverError("ListIndexes", err)
	}
	return names, nil
}

func (g *SearchEngineGateway) UpdateSearchableFields(ctx context.Context, indexName string, fields []string) error {
	if err := g.driver.UpdateSearchableFields(ctx, indexName, fields); err != nil {
		return wrapDriverError("UpdateSearchableFields", err)
	}
	return nil
}

func (g *SearchEngineGateway) Search(ctx context.Context, indexName, query string, opts domain.SearchOptions) ([]domain.SearchHit, error) {
	hits, err := g.driver.Search(ctx, indexName, query, driverOptions(opts))
	if err != nil {
		return nil, wrapDriverError("Search", err)
	}
	return convertHits(hits), nil
}

func (g *SearchEngineGateway) MultiSearch(ctx context.Context, indexNames []string, query string, opts domain.SearchOptions) ([]domain.SearchHit, error) {
	hits, err := g.driver.MultiSearch(ctx, indexNames, query, driverOptions(opts))
	if err != nil {
		return nil, wrapDriverError("MultiSearch", err)
	}
	return convertHits(hits), nil
}

func (g *SearchEngineGateway) Health(ctx context.Context) error {
	if err := g.driver.Health(ctx); err != nil {
		return wrapDriverError("Health", err)
	}
	return nil
}

func driverOptions(opts domain.SearchOptions) driver.SearchOptionsDriver {
	return driver.SearchOptionsDriver{
		Limit:  opts.Limit,
		Filter: opts.Filter,
	}
}

func convertHits(hits []driver.SearchHitDriver) []domain.SearchHit {
	out := make([]domain.SearchHit, len(hits))
	for i, h := range hits {
		out[i] = domain.SearchHit{
			ID:    domain.DocumentID(h.ID),
			Score: h.Score,
		}
	}
	return out
}

func wrapDriverError(op string, err error) error {
	var drvErr *driver.DriverError
	if errors.As(err, &drvErr) {
		return &domain.StoreError{Op: op, Err: drvErr.Err, Transient: drvErr.Transient}
	}
	return &domain.StoreError{Op: op, Err: err.Error()}
}
