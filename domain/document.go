package domain

import "sort"

// FieldID is the primary-key field every indexed document carries.
const FieldID = "id"

// Document is a flat field-name to value mapping ready for indexing.
type Document map[string]any

// ID returns the document id field, if present and a string.
func (d Document) ID() (DocumentID, bool) {
	raw, ok := d[FieldID].(string)
	if !ok || raw == "" {
		return "", false
	}
	return DocumentID(raw), true
}

// FieldNames returns the sorted field names of the document.
func (d Document) FieldNames() []string {
	names := make([]string, 0, len(d))
	for name := range d {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SearchHit is a raw (id, score) pair returned by the store. Score semantics
// are store-defined.
type SearchHit struct {
	ID    DocumentID
	Score float64
}

// SearchResultRecord is the framework-facing decoded form of a hit.
type SearchResultRecord struct {
	Namespace  string
	Kind       string
	PrimaryKey string
	Score      float64
}

// EntityType returns the entity type the record belongs to.
func (r SearchResultRecord) EntityType() EntityType {
	return EntityTypeOf(r.Namespace, r.Kind)
}

// DecodeHit turns a store hit into a result record by decoding its id.
func DecodeHit(hit SearchHit) (SearchResultRecord, error) {
	namespace, kind, pk, err := DecodeDocumentID(hit.ID)
	if err != nil {
		return SearchResultRecord{}, err
	}
	return SearchResultRecord{
		Namespace:  namespace,
		Kind:       kind,
		PrimaryKey: pk,
		Score:      hit.Score,
	}, nil
}

// SearchOptions carries store-level query options.
type SearchOptions struct {
	Limit  int64
	Filter string
}
