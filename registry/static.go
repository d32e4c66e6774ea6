// Package registry provides a self-contained ModelRegistry for deployments
// where callers hand the bridge already-flattened field maps.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"search-bridge/domain"
)

// Static is a ModelRegistry over a fixed, explicitly registered set of
// entity types. Safe for concurrent use.
type Static struct {
	mu    sync.RWMutex
	types map[domain.EntityType]struct{}
}

func NewStatic(types ...domain.EntityType) *Static {
	s := &Static{
		types: make(map[domain.EntityType]struct{}, len(types)),
	}
	for _, t := range types {
		s.types[t] = struct{}{}
	}
	return s
}

// Register adds an entity type to the indexed set.
func (s *Static) Register(t domain.EntityType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.types[t] = struct{}{}
}

// FullPrepare accepts objects that already are flat field maps and returns
// them as-is; anything else is unmappable.
func (s *Static) FullPrepare(obj any) (map[string]any, error) {
	switch v := obj.(type) {
	case map[string]any:
		return v, nil
	case domain.Document:
		return v, nil
	default:
		return nil, fmt.Errorf("object of type %T is not a field map", obj)
	}
}

// ContentType names the entity type as the framework spells it.
func (s *Static) ContentType(t domain.EntityType) string {
	return string(t)
}

// Identifier extracts the framework identifier from a string id or a field
// map carrying an id field.
func (s *Static) Identifier(objOrID any) (string, error) {
	switch v := objOrID.(type) {
	case string:
		if v == "" {
			return "", fmt.Errorf("empty identifier")
		}
		return v, nil
	case domain.DocumentID:
		return string(v), nil
	case map[string]any:
		if id, ok := v[domain.FieldID].(string); ok && id != "" {
			return id, nil
		}
		return "", fmt.Errorf("field map has no id field")
	case domain.Document:
		if id, ok := v.ID(); ok {
			return string(id), nil
		}
		return "", fmt.Errorf("document has no id field")
	default:
		return "", fmt.Errorf("cannot extract identifier from %T", objOrID)
	}
}

// IndexedEntityTypes lists the registered types in stable order.
func (s *Static) IndexedEntityTypes() []domain.EntityType {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.EntityType, 0, len(s.types))
	for t := range s.types {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
