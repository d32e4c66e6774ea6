package usecase

import (
	"context"

	"search-bridge/domain"
	"search-bridge/indexer"
	"search-bridge/port"
)

// RemoveEntityUsecase deletes one document given an object or its framework
// identifier. Removal of a non-existent document succeeds.
type RemoveEntityUsecase struct {
	registry port.ModelRegistry
	bulk     *indexer.BulkIndexer
}

func NewRemoveEntityUsecase(registry port.ModelRegistry, bulk *indexer.BulkIndexer) *RemoveEntityUsecase {
	return &RemoveEntityUsecase{
		registry: registry,
		bulk:     bulk,
	}
}

func (u *RemoveEntityUsecase) Execute(ctx context.Context, objOrID any) error {
	raw, err := u.registry.Identifier(objOrID)
	if err != nil {
		return err
	}

	id, err := domain.ReencodeLegacyID(raw)
	if err != nil {
		return err
	}

	namespace, kind, _, err := domain.DecodeDocumentID(id)
	if err != nil {
		return err
	}

	return u.bulk.DeleteOne(ctx, domain.EntityTypeOf(namespace, kind), id)
}
