package usecase

import (
	"context"
	"errors"
	"log/slog"

	"search-bridge/domain"
	"search-bridge/indexer"
	"search-bridge/port"
)

// UpdateEntitiesUsecase maps framework objects into documents and upserts
// them in bulk.
type UpdateEntitiesUsecase struct {
	registry port.ModelRegistry
	bulk     *indexer.BulkIndexer
	logger   *slog.Logger
}

// UpdateResult reports what a batch update accomplished. When Failed is
// non-nil some chunks were not accepted and their documents are enumerated.
type UpdateResult struct {
	Indexed int
	Skipped int
	Failed  *domain.PartialBatchFailure
}

func NewUpdateEntitiesUsecase(registry port.ModelRegistry, bulk *indexer.BulkIndexer, logger *slog.Logger) *UpdateEntitiesUsecase {
	if logger == nil {
		logger = slog.Default()
	}
	return &UpdateEntitiesUsecase{
		registry: registry,
		bulk:     bulk,
		logger:   logger,
	}
}

// Execute prepares and indexes the given objects. Objects the extractor
// cannot map are skipped with a warning; they never abort the batch.
func (u *UpdateEntitiesUsecase) Execute(ctx context.Context, entityType domain.EntityType, objects []any) (*UpdateResult, error) {
	result := &UpdateResult{}
	docs := make([]domain.Document, 0, len(objects))

	for _, obj := range objects {
		doc, err := domain.PrepareDocument(entityType, obj, u.registry.FullPrepare)
		if err != nil {
			var mapErr *domain.MappingError
			if errors.As(err, &mapErr) {
				u.logger.Warn("skipping unmappable object",
					"entity_type", entityType,
					"error", err,
				)
				result.Skipped++
				continue
			}
			return nil, err
		}
		docs = append(docs, doc)
	}

	err := u.bulk.UpsertBatch(ctx, entityType, docs)
	if err != nil {
		var partial *domain.PartialBatchFailure
		if errors.As(err, &partial) {
			result.Failed = partial
			lost := 0
			for _, c := range partial.Failed {
				lost += len(c.DocumentIDs)
			}
			result.Indexed = len(docs) - lost
			return result, err
		}
		return nil, err
	}

	result.Indexed = len(docs)
	return result, nil
}
