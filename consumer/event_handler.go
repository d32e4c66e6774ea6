package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"search-bridge/domain"
	"search-bridge/usecase"
)

const (
	batchFlushSize     = 50
	batchFlushInterval = 2 * time.Second
)

// EventTypeEntityUpserted announces a created or changed entity whose fields
// should be (re)indexed.
const EventTypeEntityUpserted = "EntityUpserted"

// EventTypeEntityDeleted announces an entity removal.
const EventTypeEntityDeleted = "EntityDeleted"

// EntityUpsertedPayload carries the flattened fields of a changed entity.
type EntityUpsertedPayload struct {
	ContentType string         `json:"content_type"`
	Fields      map[string]any `json:"fields"`
}

// EntityDeletedPayload identifies a removed entity.
type EntityDeletedPayload struct {
	ContentType string `json:"content_type"`
	ID          string `json:"id"`
}

// BridgeUpdater is the bridge surface the handler drives.
type BridgeUpdater interface {
	Update(ctx context.Context, entityType domain.EntityType, objects []any, commit bool) (*usecase.UpdateResult, error)
	Remove(ctx context.Context, objOrID any, commit bool) error
}

// BridgeEventHandler translates stream events into bridge calls. Upserts are
// buffered per entity type and flushed in batches to cut per-event store
// round-trips; deletes flush the buffer first and then go through immediately,
// keeping upsert-then-delete ordering for the same document.
type BridgeEventHandler struct {
	bridge BridgeUpdater
	logger *slog.Logger

	mu      sync.Mutex
	buffer  map[domain.EntityType][]any
	pending int
	timer   *time.Timer
	ctx     context.Context
	cancel  context.CancelFunc
	flushed chan struct{} // signalled on each flush for testing
}

// NewBridgeEventHandler creates a new BridgeEventHandler.
func NewBridgeEventHandler(bridge BridgeUpdater, logger *slog.Logger) *BridgeEventHandler {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &BridgeEventHandler{
		bridge:  bridge,
		logger:  logger,
		buffer:  make(map[domain.EntityType][]any),
		ctx:     ctx,
		cancel:  cancel,
		flushed: make(chan struct{}, 1),
	}
}

// Stop cancels the background flush timer and flushes what remains. The final
// flush runs on a detached context: buffered events were already acknowledged
// upstream, so they must reach the store even during shutdown.
func (h *BridgeEventHandler) Stop() {
	h.cancel()
	h.mu.Lock()
	if h.timer != nil {
		h.timer.Stop()
	}
	h.mu.Unlock()
	h.flushCtx(context.WithoutCancel(h.ctx))
}

// HandleEvent processes a single event. Unknown event types are skipped.
func (h *BridgeEventHandler) HandleEvent(ctx context.Context, event Event) error {
	switch event.EventType {
	case EventTypeEntityUpserted:
		return h.handleUpserted(event)
	case EventTypeEntityDeleted:
		return h.handleDeleted(ctx, event)
	default:
		h.logger.Warn("unknown event type, skipping",
			"event_type", event.EventType,
			"event_id", event.EventID,
		)
		return nil
	}
}

func (h *BridgeEventHandler) handleUpserted(event Event) error {
	var payload EntityUpsertedPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return fmt.Errorf("unmarshal EntityUpserted payload: %w", err)
	}
	if payload.ContentType == "" {
		return fmt.Errorf("EntityUpserted event %s has no content_type", event.EventID)
	}

	h.enqueue(domain.EntityType(payload.ContentType), payload.Fields)
	return nil
}

func (h *BridgeEventHandler) handleDeleted(ctx context.Context, event Event) error {
	var payload EntityDeletedPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return fmt.Errorf("unmarshal EntityDeleted payload: %w", err)
	}

	// A buffered upsert for the same document must land before the delete,
	// or the next flush would resurrect it.
	h.mu.Lock()
	pending := h.pending > 0
	h.mu.Unlock()
	if pending {
		h.flush()
	}

	return h.bridge.Remove(ctx, payload.ID, true)
}

func (h *BridgeEventHandler) enqueue(entityType domain.EntityType, fields map[string]any) {
	h.mu.Lock()
	h.buffer[entityType] = append(h.buffer[entityType], fields)
	h.pending++
	shouldFlush := h.pending >= batchFlushSize
	if !shouldFlush && h.timer == nil {
		h.timer = time.AfterFunc(batchFlushInterval, h.flush)
	}
	h.mu.Unlock()

	if shouldFlush {
		h.flush()
	}
}

func (h *BridgeEventHandler) flush() {
	h.flushCtx(h.ctx)
}

func (h *BridgeEventHandler) flushCtx(ctx context.Context) {
	h.mu.Lock()
	if h.timer != nil {
		h.timer.Stop()
		h.timer = nil
	}
	buffered := h.buffer
	h.buffer = make(map[domain.EntityType][]any)
	h.pending = 0
	h.mu.Unlock()

	for entityType, objects := range buffered {
		if len(objects) == 0 {
			continue
		}
		if _, err := h.bridge.Update(ctx, entityType, objects, true); err != nil {
			// The batch update already enumerates what was lost; re-submission
			// is the producer's call once the store recovers.
			h.logger.Error("buffered update failed",
				"entity_type", entityType,
				"count", len(objects),
				"error", err,
			)
		}
	}

	select {
	case h.flushed <- struct{}{}:
	default:
	}
}
