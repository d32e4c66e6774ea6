package usecase

import (
	"context"
	"fmt"

	"search-bridge/domain"
)

type searchCall struct {
	indexName string
	query     string
	opts      domain.SearchOptions
}

type multiSearchCall struct {
	indexNames []string
	query      string
	opts       domain.SearchOptions
}

// mockStore records store calls and plays back canned hits.
type mockStore struct {
	searchCalls      []searchCall
	multiSearchCalls []multiSearchCall
	hits             []domain.SearchHit
	searchErr        error

	upsertedIndexes []string
	upsertedDocs    []domain.Document
	deletedDocs     map[string][]domain.DocumentID
	deletedIndexes  []string
	listed          []string
}

func newMockStore() *mockStore {
	return &mockStore{deletedDocs: make(map[string][]domain.DocumentID)}
}

func (m *mockStore) UpsertDocuments(ctx context.Context, indexName string, docs []domain.Document, primaryKey string) error {
	m.upsertedIndexes = append(m.upsertedIndexes, indexName)
	m.upsertedDocs = append(m.upsertedDocs, docs...)
	return nil
}

func (m *mockStore) DeleteDocument(ctx context.Context, indexName string, id domain.DocumentID) error {
	m.deletedDocs[indexName] = append(m.deletedDocs[indexName], id)
	return nil
}

func (m *mockStore) DeleteIndex(ctx context.Context, indexName string) error {
	m.deletedIndexes = append(m.deletedIndexes, indexName)
	return nil
}

func (m *mockStore) ListIndexes(ctx context.Context) ([]string, error) {
	return m.listed, nil
}

func (m *mockStore) UpdateSearchableFields(ctx context.Context, indexName string, fields []string) error {
	return nil
}

func (m *mockStore) Search(ctx context.Context, indexName, query string, opts domain.SearchOptions) ([]domain.SearchHit, error) {
	m.searchCalls = append(m.searchCalls, searchCall{indexName, query, opts})
	return m.hits, m.searchErr
}

func (m *mockStore) MultiSearch(ctx context.Context, indexNames []string, query string, opts domain.SearchOptions) ([]domain.SearchHit, error) {
	m.multiSearchCalls = append(m.multiSearchCalls, multiSearchCall{indexNames, query, opts})
	return m.hits, m.searchErr
}

func (m *mockStore) Health(ctx context.Context) error {
	return nil
}

// mockRegistry is a pass-through field-map registry over a fixed type set.
type mockRegistry struct {
	types []domain.EntityType
}

func (m *mockRegistry) FullPrepare(obj any) (map[string]any, error) {
	fields, ok := obj.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("object of type %T is not a field map", obj)
	}
	return fields, nil
}

func (m *mockRegistry) ContentType(t domain.EntityType) string {
	return string(t)
}

func (m *mockRegistry) Identifier(objOrID any) (string, error) {
	switch v := objOrID.(type) {
	case string:
		return v, nil
	case map[string]any:
		if id, ok := v["id"].(string); ok {
			return id, nil
		}
	}
	return "", fmt.Errorf("cannot extract identifier from %T", objOrID)
}

func (m *mockRegistry) IndexedEntityTypes() []domain.EntityType {
	return m.types
}
