package domain

import (
	"strings"
)

// DocumentID identifies one indexed document in the store. The wire format is
// `{namespace}_{kind}_{primaryKey}` with underscore as the sole separator.
// Primary keys may contain underscores; namespace and kind may not, since the
// decoder splits on the first two separators only.
type DocumentID string

const idSeparator = "_"

type InvalidIdentifierError struct {
	Component string
	Value     string
}

func (e *InvalidIdentifierError) Error() string {
	return "invalid identifier component " + e.Component + ": " + e.Value
}

type MalformedIdentifierError struct {
	ID DocumentID
}

func (e *MalformedIdentifierError) Error() string {
	return "malformed document id: " + string(e.ID)
}

// EncodeDocumentID joins namespace, kind and primary key into a DocumentID.
func EncodeDocumentID(namespace, kind, primaryKey string) (DocumentID, error) {
	switch {
	case namespace == "" || strings.Contains(namespace, idSeparator):
		return "", &InvalidIdentifierError{Component: "namespace", Value: namespace}
	case kind == "" || strings.Contains(kind, idSeparator):
		return "", &InvalidIdentifierError{Component: "kind", Value: kind}
	case primaryKey == "":
		return "", &InvalidIdentifierError{Component: "primaryKey", Value: primaryKey}
	}
	return DocumentID(namespace + idSeparator + kind + idSeparator + primaryKey), nil
}

// DecodeDocumentID splits a DocumentID back into its three components using
// the first two separators as boundaries.
func DecodeDocumentID(id DocumentID) (namespace, kind, primaryKey string, err error) {
	parts := strings.SplitN(string(id), idSeparator, 3)
	if len(parts) < 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return "", "", "", &MalformedIdentifierError{ID: id}
	}
	return parts[0], parts[1], parts[2], nil
}

// ReencodeLegacyID converts a framework identifier into a DocumentID. The
// framework emits dotted identifiers (`ns.kind.pk`); ids that are already in
// wire format are validated and passed through.
func ReencodeLegacyID(raw string) (DocumentID, error) {
	if parts := strings.SplitN(raw, ".", 3); len(parts) == 3 {
		return EncodeDocumentID(parts[0], parts[1], parts[2])
	}
	id := DocumentID(raw)
	if _, _, _, err := DecodeDocumentID(id); err != nil {
		return "", err
	}
	return id, nil
}
