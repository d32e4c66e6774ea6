package domain

// FieldExtractor is the framework collaborator that flattens a domain object
// into raw searchable fields, including a legacy dotted id.
type FieldExtractor func(obj any) (map[string]any, error)

// PrepareDocument runs the extractor over an object and normalizes the result
// into an indexable Document. The extractor's `id` value is re-encoded through
// the identifier codec.
func PrepareDocument(entityType EntityType, obj any, extract FieldExtractor) (Document, error) {
	fields, err := extract(obj)
	if err != nil {
		return nil, &MappingError{EntityType: entityType, Reason: err.Error()}
	}

	rawID, ok := fields[FieldID].(string)
	if !ok || rawID == "" {
		return nil, &MappingError{EntityType: entityType, Reason: "extractor returned no id field"}
	}

	id, err := ReencodeLegacyID(rawID)
	if err != nil {
		return nil, &MappingError{EntityType: entityType, Reason: err.Error()}
	}

	doc := make(Document, len(fields))
	for name, value := range fields {
		doc[name] = value
	}
	doc[FieldID] = string(id)
	return doc, nil
}
