package usecase

import (
	"context"

	"search-bridge/domain"
	"search-bridge/indexer"
)

// ClearIndexesUsecase drops indexes for specific entity types, or every index
// in the store when given none.
type ClearIndexesUsecase struct {
	bulk *indexer.BulkIndexer
}

func NewClearIndexesUsecase(bulk *indexer.BulkIndexer) *ClearIndexesUsecase {
	return &ClearIndexesUsecase{
		bulk: bulk,
	}
}

func (u *ClearIndexesUsecase) Execute(ctx context.Context, entityTypes []domain.EntityType) error {
	return u.bulk.Clear(ctx, entityTypes)
}
