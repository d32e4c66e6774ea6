package usecase

import (
	"context"
	"testing"

	"search-bridge/domain"
	"search-bridge/indexer"
)

func newUpdateUsecase(store *mockStore) *UpdateEntitiesUsecase {
	bulk := indexer.NewBulkIndexer(store, indexer.Options{}, nil)
	return NewUpdateEntitiesUsecase(&mockRegistry{}, bulk, nil)
}

func TestUpdateEntities_IndexesAll(t *testing.T) {
	store := newMockStore()
	u := newUpdateUsecase(store)

	objects := []any{
		map[string]any{"id": "a_b_1", "title": "one"},
		map[string]any{"id": "a_b_2", "title": "two"},
	}
	result, err := u.Execute(context.Background(), "a.b", objects)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result.Indexed != 2 || result.Skipped != 0 || result.Failed != nil {
		t.Errorf("result = %+v, want 2 indexed", result)
	}
	if len(store.upsertedDocs) != 2 {
		t.Fatalf("store received %d documents, want 2", len(store.upsertedDocs))
	}
	if store.upsertedIndexes[0] != "a_b" {
		t.Errorf("index = %q, want a_b", store.upsertedIndexes[0])
	}
}

func TestUpdateEntities_SkipsUnmappable(t *testing.T) {
	store := newMockStore()
	u := newUpdateUsecase(store)

	objects := []any{
		map[string]any{"id": "a_b_1", "title": "one"},
		map[string]any{"title": "no id"},
		42,
		map[string]any{"id": "a_b_2", "title": "two"},
	}
	result, err := u.Execute(context.Background(), "a.b", objects)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result.Indexed != 2 || result.Skipped != 2 {
		t.Errorf("result = %+v, want 2 indexed / 2 skipped", result)
	}
	if len(store.upsertedDocs) != 2 {
		t.Errorf("store received %d documents, want 2", len(store.upsertedDocs))
	}
}

func TestUpdateEntities_ReencodesLegacyIDs(t *testing.T) {
	store := newMockStore()
	u := newUpdateUsecase(store)

	objects := []any{map[string]any{"id": "a.b.7"}}
	if _, err := u.Execute(context.Background(), "a.b", objects); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(store.upsertedDocs) != 1 {
		t.Fatalf("store received %d documents, want 1", len(store.upsertedDocs))
	}
	if id, _ := store.upsertedDocs[0].ID(); id != "a_b_7" {
		t.Errorf("stored id = %q, want a_b_7", id)
	}
}

func TestUpdateEntities_Empty(t *testing.T) {
	store := newMockStore()
	u := newUpdateUsecase(store)

	result, err := u.Execute(context.Background(), "a.b", nil)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result.Indexed != 0 || result.Skipped != 0 {
		t.Errorf("result = %+v, want zero counts", result)
	}
	if len(store.upsertedDocs) != 0 {
		t.Error("empty batch reached the store")
	}
}

func TestRemoveEntity(t *testing.T) {
	tests := []struct {
		name      string
		objOrID   any
		wantIndex string
		wantID    domain.DocumentID
		wantErr   bool
	}{
		{
			name:      "wire id string",
			objOrID:   "blog_post_42",
			wantIndex: "blog_post",
			wantID:    "blog_post_42",
		},
		{
			name:      "legacy dotted id",
			objOrID:   "blog.post.42",
			wantIndex: "blog_post",
			wantID:    "blog_post_42",
		},
		{
			name:      "object carrying its id",
			objOrID:   map[string]any{"id": "blog_post_7"},
			wantIndex: "blog_post",
			wantID:    "blog_post_7",
		},
		{
			name:    "malformed id",
			objOrID: "justoneword",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMockStore()
			bulk := indexer.NewBulkIndexer(store, indexer.Options{}, nil)
			u := NewRemoveEntityUsecase(&mockRegistry{}, bulk)

			err := u.Execute(context.Background(), tt.objOrID)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Execute() expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			got := store.deletedDocs[tt.wantIndex]
			if len(got) != 1 || got[0] != tt.wantID {
				t.Errorf("deleted %v from %q, want %q", got, tt.wantIndex, tt.wantID)
			}
		})
	}
}

func TestClearIndexes(t *testing.T) {
	store := newMockStore()
	store.listed = []string{"a_b", "c_d"}
	bulk := indexer.NewBulkIndexer(store, indexer.Options{}, nil)
	u := NewClearIndexesUsecase(bulk)

	if err := u.Execute(context.Background(), []domain.EntityType{"a.b"}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(store.deletedIndexes) != 1 || store.deletedIndexes[0] != "a_b" {
		t.Errorf("deleted indexes = %v, want [a_b]", store.deletedIndexes)
	}

	store.deletedIndexes = nil
	if err := u.Execute(context.Background(), nil); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(store.deletedIndexes) != 2 {
		t.Errorf("deleted indexes = %v, want every listed index", store.deletedIndexes)
	}
}
