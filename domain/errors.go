package domain

import (
	"fmt"
	"strings"
)

// StoreError reports a failed store operation. Transient errors (network
// failures, 5xx responses) are eligible for retry.
type StoreError struct {
	Op        string
	Err       string
	Transient bool
}

func (e *StoreError) Error() string {
	return e.Op + ": " + e.Err
}

// MappingError reports an object the field extractor could not turn into an
// indexable document. It fails that document only, never the batch.
type MappingError struct {
	EntityType EntityType
	Reason     string
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("cannot map %s object: %s", e.EntityType, e.Reason)
}

// FailedChunk describes one chunk of a batch that exhausted its retries.
type FailedChunk struct {
	Index       int
	DocumentIDs []DocumentID
	Cause       string
}

// PartialBatchFailure reports the chunks of a batch upsert that were not
// accepted by the store. Chunks not listed here were applied; the caller
// decides whether to re-submit the failed ones.
type PartialBatchFailure struct {
	BatchID string
	Failed  []FailedChunk
}

func (e *PartialBatchFailure) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "batch %s: %d chunk(s) failed:", e.BatchID, len(e.Failed))
	for _, c := range e.Failed {
		fmt.Fprintf(&b, " [chunk %d: %d document(s): %s]", c.Index, len(c.DocumentIDs), c.Cause)
	}
	return b.String()
}
