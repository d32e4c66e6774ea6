package domain

import "strings"

// EntityType names a class of indexable objects, e.g. "blog.Post". Each
// entity type maps to exactly one index in the store.
type EntityType string

// EntityTypeOf rebuilds an entity type from a decoded document id.
func EntityTypeOf(namespace, kind string) EntityType {
	return EntityType(namespace + "." + kind)
}

// IndexName derives the store index for this entity type. Index names may not
// contain dots, so the dot becomes an underscore.
func (t EntityType) IndexName() string {
	return strings.ReplaceAll(string(t), ".", "_")
}

// IndexNameFor is the free-function form of EntityType.IndexName.
func IndexNameFor(t EntityType) string {
	return t.IndexName()
}
