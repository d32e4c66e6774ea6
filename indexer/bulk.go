package indexer

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"search-bridge/domain"
	"search-bridge/port"
)

const (
	DefaultChunkSize  = 1000
	DefaultMaxRetries = 3
	DefaultRetryDelay = 500 * time.Millisecond
)

// Options tunes batching and retry behavior.
type Options struct {
	ChunkSize  int
	MaxRetries int
	RetryDelay time.Duration
}

func (o Options) withDefaults() Options {
	if o.ChunkSize <= 0 {
		o.ChunkSize = DefaultChunkSize
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = DefaultMaxRetries
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = DefaultRetryDelay
	}
	return o
}

// BulkIndexer batches document writes against the store. Chunk retries run
// sequentially per batch; independent batches from different callers may
// proceed in parallel, the store being the sole point of serialization.
type BulkIndexer struct {
	store  port.DocumentStore
	opts   Options
	logger *slog.Logger

	// sleep is swapped in tests to avoid real backoff waits.
	sleep func(ctx context.Context, d time.Duration) error
}

func NewBulkIndexer(store port.DocumentStore, opts Options, logger *slog.Logger) *BulkIndexer {
	if logger == nil {
		logger = slog.Default()
	}
	return &BulkIndexer{
		store:  store,
		opts:   opts.withDefaults(),
		logger: logger,
		sleep:  sleepCtx,
	}
}

// UpsertBatch writes documents to the entity type's index in bounded chunks,
// declaring `id` as the primary key. Transient chunk failures are retried
// with exponential backoff; a chunk that exhausts its retries is recorded and
// the remaining chunks still run. When any chunk fails the returned error is
// a *domain.PartialBatchFailure enumerating the lost documents.
func (b *BulkIndexer) UpsertBatch(ctx context.Context, entityType domain.EntityType, docs []domain.Document) error {
	if len(docs) == 0 {
		return nil
	}

	indexName := entityType.IndexName()
	batchID := uuid.NewString()

	if err := b.syncSearchableFields(ctx, indexName, docs); err != nil {
		// Settings drift does not lose documents; keep indexing.
		b.logger.Warn("searchable field sync failed",
			"batch_id", batchID,
			"index", indexName,
			"error", err,
		)
	}

	var failed []domain.FailedChunk
	chunkIndex := 0
	for start := 0; start < len(docs); start += b.opts.ChunkSize {
		end := min(start+b.opts.ChunkSize, len(docs))
		chunk := docs[start:end]

		if err := b.upsertChunk(ctx, indexName, chunk); err != nil {
			b.logger.Error("chunk exhausted retries",
				"batch_id", batchID,
				"index", indexName,
				"chunk", chunkIndex,
				"documents", len(chunk),
				"error", err,
			)
			failed = append(failed, domain.FailedChunk{
				Index:       chunkIndex,
				DocumentIDs: chunkIDs(chunk),
				Cause:       err.Error(),
			})
		}
		chunkIndex++
	}

	if len(failed) > 0 {
		return &domain.PartialBatchFailure{BatchID: batchID, Failed: failed}
	}
	return nil
}

// DeleteOne removes a single document. Store-level not-found is success.
func (b *BulkIndexer) DeleteOne(ctx context.Context, entityType domain.EntityType, id domain.DocumentID) error {
	return b.store.DeleteDocument(ctx, entityType.IndexName(), id)
}

// Clear drops the indexes of the given entity types, or every index known to
// the store when none are given. Dropping whole indexes also discards stale
// schema and settings.
func (b *BulkIndexer) Clear(ctx context.Context, entityTypes []domain.EntityType) error {
	names := make([]string, 0, len(entityTypes))
	if len(entityTypes) == 0 {
		listed, err := b.store.ListIndexes(ctx)
		if err != nil {
			return err
		}
		names = listed
	} else {
		for _, t := range entityTypes {
			names = append(names, t.IndexName())
		}
	}

	var errs []error
	for _, name := range names {
		if err := b.store.DeleteIndex(ctx, name); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (b *BulkIndexer) upsertChunk(ctx context.Context, indexName string, chunk []domain.Document) error {
	var lastErr error
	for attempt := 0; attempt <= b.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := b.opts.RetryDelay << (attempt - 1)
			if err := b.sleep(ctx, delay); err != nil {
				return err
			}
		}

		lastErr = b.store.UpsertDocuments(ctx, indexName, chunk, domain.FieldID)
		if lastErr == nil {
			return nil
		}
		if !isTransient(lastErr) {
			return lastErr
		}
		b.logger.Warn("transient chunk failure, retrying",
			"index", indexName,
			"attempt", attempt+1,
			"error", lastErr,
		)
	}
	return lastErr
}

// syncSearchableFields declares the searchable attribute list as exactly the
// field names present in the batch's schema.
func (b *BulkIndexer) syncSearchableFields(ctx context.Context, indexName string, docs []domain.Document) error {
	seen := make(map[string]struct{})
	for _, doc := range docs {
		for name := range doc {
			seen[name] = struct{}{}
		}
	}
	fields := make([]string, 0, len(seen))
	for name := range seen {
		fields = append(fields, name)
	}
	sort.Strings(fields)
	return b.store.UpdateSearchableFields(ctx, indexName, fields)
}

func chunkIDs(chunk []domain.Document) []domain.DocumentID {
	ids := make([]domain.DocumentID, 0, len(chunk))
	for _, doc := range chunk {
		if id, ok := doc.ID(); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

func isTransient(err error) bool {
	var storeErr *domain.StoreError
	return errors.As(err, &storeErr) && storeErr.Transient
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
