package port

import "search-bridge/domain"

// ModelRegistry is the framework collaborator enumerating indexable entity
// types and flattening their objects.
type ModelRegistry interface {
	// FullPrepare flattens an object into raw searchable fields, including a
	// legacy dotted id.
	FullPrepare(obj any) (map[string]any, error)
	// ContentType names the entity type as the framework spells it.
	ContentType(t domain.EntityType) string
	// Identifier extracts the framework identifier from an object or an
	// already-stringified id.
	Identifier(objOrID any) (string, error)
	// IndexedEntityTypes lists every entity type registered for indexing.
	IndexedEntityTypes() []domain.EntityType
}
