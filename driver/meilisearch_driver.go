package driver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/meilisearch/meilisearch-go"
)

const taskPollInterval = 50 * time.Millisecond

// MeilisearchDriver executes store operations against a Meilisearch instance.
// It is stateless apart from the client handle and safe for concurrent use.
type MeilisearchDriver struct {
	client  meilisearch.ServiceManager
	timeout time.Duration
}

func NewMeilisearchDriver(client meilisearch.ServiceManager, timeout time.Duration) *MeilisearchDriver {
	return &MeilisearchDriver{
		client:  client,
		timeout: timeout,
	}
}

// UpsertDocuments adds or overwrites documents in one index. The primary key
// is declared explicitly so the store never infers it from another id-like
// field.
func (d *MeilisearchDriver) UpsertDocuments(ctx context.Context, indexName string, docs []map[string]any, primaryKey string) error {
	if len(docs) == 0 {
		return nil
	}

	idx := d.client.Index(indexName)
	task, err := idx.AddDocumentsWithContext(ctx, docs, primaryKey)
	if err != nil {
		return d.wrap("UpsertDocuments", err)
	}
	return d.waitForTask(ctx, "UpsertDocuments", idx, task.TaskUID)
}

// DeleteDocument removes one document. Missing documents and missing indexes
// count as success.
func (d *MeilisearchDriver) DeleteDocument(ctx context.Context, indexName string, id string) error {
	idx := d.client.Index(indexName)
	task, err := idx.DeleteDocumentWithContext(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return d.wrap("DeleteDocument", err)
	}
	err = d.waitForTask(ctx, "DeleteDocument", idx, task.TaskUID)
	if err != nil && isIndexMissingTaskError(err) {
		return nil
	}
	return err
}

// DeleteIndex drops an index and everything in it. A missing index is a no-op.
func (d *MeilisearchDriver) DeleteIndex(ctx context.Context, indexName string) error {
	idx := d.client.Index(indexName)
	if _, err := idx.FetchInfoWithContext(ctx); err != nil {
		if isNotFound(err) {
			return nil
		}
		return d.wrap("DeleteIndex", err)
	}

	task, err := d.client.DeleteIndexWithContext(ctx, indexName)
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return d.wrap("DeleteIndex", err)
	}
	err = d.waitForTask(ctx, "DeleteIndex", idx, task.TaskUID)
	if err != nil && isIndexMissingTaskError(err) {
		return nil
	}
	return err
}

// ListIndexes returns the uid of every index known to the store.
func (d *MeilisearchDriver) ListIndexes(ctx context.Context) ([]string, error) {
	res, err := d.client.ListIndexesWithContext(ctx, &meilisearch.IndexesQuery{Limit: 1000})
	if err != nil {
		return nil, d.wrap("ListIndexes", err)
	}
	names := make([]string, 0, len(res.Results))
	for _, idx := range res.Results {
		names = append(names, idx.UID)
	}
	return names, nil
}

// UpdateSearchableFields declares the searchable attribute list of an index.
func (d *MeilisearchDriver) UpdateSearchableFields(ctx context.Context, indexName string, fields []string) error {
	idx := d.client.Index(indexName)
	task, err := idx.UpdateSearchableAttributesWithContext(ctx, &fields)
	if err != nil {
		return d.wrap("UpdateSearchableFields", err)
	}
	return d.waitForTask(ctx, "UpdateSearchableFields", idx, task.TaskUID)
}

// Search issues a single-index query.
func (d *MeilisearchDriver) Search(ctx context.Context, indexName, query string, opts SearchOptionsDriver) ([]SearchHitDriver, error) {
	req := &meilisearch.SearchRequest{
		Limit:            opts.Limit,
		ShowRankingScore: true,
	}
	if opts.Filter != "" {
		req.Filter = opts.Filter
	}

	res, err := d.client.Index(indexName).SearchWithContext(ctx, query, req)
	if err != nil {
		return nil, d.wrap("Search", err)
	}
	return decodeHits(res.Hits), nil
}

// MultiSearch issues one federated query across several indexes. The store
// merges and ranks the combined hit list.
func (d *MeilisearchDriver) MultiSearch(ctx context.Context, indexNames []string, query string, opts SearchOptionsDriver) ([]SearchHitDriver, error) {
	queries := make([]*meilisearch.SearchRequest, 0, len(indexNames))
	for _, name := range indexNames {
		sub := &meilisearch.SearchRequest{
			IndexUID:         name,
			Query:            query,
			ShowRankingScore: true,
		}
		if opts.Filter != "" {
			sub.Filter = opts.Filter
		}
		queries = append(queries, sub)
	}

	res, err := d.client.MultiSearchWithContext(ctx, &meilisearch.MultiSearchRequest{
		Federation: &meilisearch.MultiSearchFederation{Limit: opts.Limit},
		Queries:    queries,
	})
	if err != nil {
		return nil, d.wrap("MultiSearch", err)
	}
	return decodeHits(res.Hits), nil
}

// Health probes the store.
func (d *MeilisearchDriver) Health(ctx context.Context) error {
	if _, err := d.client.HealthWithContext(ctx); err != nil {
		return d.wrap("Health", err)
	}
	return nil
}

func (d *MeilisearchDriver) waitForTask(ctx context.Context, op string, idx meilisearch.IndexManager, taskUID int64) error {
	waitCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	task, err := idx.WaitForTaskWithContext(waitCtx, taskUID, taskPollInterval)
	if err != nil {
		return d.wrap(op, err)
	}
	if task.Status == meilisearch.TaskStatusFailed {
		return &DriverError{Op: op, Err: task.Error.Code + ": " + task.Error.Message}
	}
	return nil
}

func (d *MeilisearchDriver) wrap(op string, err error) error {
	return &DriverError{Op: op, Err: err.Error(), Transient: isTransient(err)}
}

func decodeHits(hits []interface{}) []SearchHitDriver {
	out := make([]SearchHitDriver, 0, len(hits))
	for _, hit := range hits {
		hitMap, ok := hit.(map[string]interface{})
		if !ok {
			continue
		}
		out = append(out, SearchHitDriver{
			ID:    getString(hitMap, "id"),
			Score: getFloat(hitMap, "_rankingScore"),
		})
	}
	return out
}

func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func getFloat(m map[string]interface{}, key string) float64 {
	if v, ok := m[key]; ok {
		if f, ok := v.(float64); ok {
			return f
		}
	}
	return 0
}

// isNotFound reports whether the store answered 404.
func isNotFound(err error) bool {
	var msErr *meilisearch.Error
	return errors.As(err, &msErr) && msErr.StatusCode == http.StatusNotFound
}

// isTransient reports whether an error is worth retrying: connection-level
// failures and 5xx responses.
func isTransient(err error) bool {
	var msErr *meilisearch.Error
	if errors.As(err, &msErr) {
		return msErr.StatusCode == 0 || msErr.StatusCode >= http.StatusInternalServerError
	}
	return true
}

// isIndexMissingTaskError matches delete tasks that failed only because the
// target index never existed.
func isIndexMissingTaskError(err error) bool {
	var drvErr *DriverError
	if !errors.As(err, &drvErr) {
		return false
	}
	const code = "index_not_found"
	return len(drvErr.Err) >= len(code) && drvErr.Err[:len(code)] == code
}
