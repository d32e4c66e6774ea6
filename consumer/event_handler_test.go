package consumer

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"search-bridge/domain"
	"search-bridge/usecase"
)

type fakeBridge struct {
	mu      sync.Mutex
	updates map[domain.EntityType][]any
	removed []any
	ops     []string
}

func newFakeBridge() *fakeBridge {
	return &fakeBridge{updates: make(map[domain.EntityType][]any)}
}

func (f *fakeBridge) Update(ctx context.Context, entityType domain.EntityType, objects []any, commit bool) (*usecase.UpdateResult, error) {
	// A real store call refuses a cancelled context.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates[entityType] = append(f.updates[entityType], objects...)
	f.ops = append(f.ops, "update")
	return &usecase.UpdateResult{Indexed: len(objects)}, nil
}

func (f *fakeBridge) Remove(ctx context.Context, objOrID any, commit bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, objOrID)
	f.ops = append(f.ops, "remove")
	return nil
}

func (f *fakeBridge) updateCount(entityType domain.EntityType) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.updates[entityType])
}

func upsertedEvent(t *testing.T, contentType string, fields map[string]any) Event {
	t.Helper()
	payload, err := json.Marshal(EntityUpsertedPayload{ContentType: contentType, Fields: fields})
	if err != nil {
		t.Fatal(err)
	}
	return Event{EventID: "evt-1", EventType: EventTypeEntityUpserted, Payload: payload}
}

func TestHandleEvent_UpsertBufferedUntilFlush(t *testing.T) {
	bridge := newFakeBridge()
	h := NewBridgeEventHandler(bridge, nil)
	defer h.Stop()

	event := upsertedEvent(t, "blog.post", map[string]any{"id": "blog_post_1"})
	if err := h.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("HandleEvent() error = %v", err)
	}

	if got := bridge.updateCount("blog.post"); got != 0 {
		t.Fatalf("bridge received %d objects before flush, want 0", got)
	}

	h.Stop()
	select {
	case <-h.flushed:
	case <-time.After(time.Second):
		t.Fatal("flush signal never arrived")
	}

	if got := bridge.updateCount("blog.post"); got != 1 {
		t.Errorf("bridge received %d objects after flush, want 1", got)
	}
}

func TestHandleEvent_SizeTriggeredFlush(t *testing.T) {
	bridge := newFakeBridge()
	h := NewBridgeEventHandler(bridge, nil)
	defer h.Stop()

	for i := 0; i < batchFlushSize; i++ {
		event := upsertedEvent(t, "blog.post", map[string]any{"id": "blog_post_1"})
		if err := h.HandleEvent(context.Background(), event); err != nil {
			t.Fatalf("HandleEvent() error = %v", err)
		}
	}

	select {
	case <-h.flushed:
	case <-time.After(time.Second):
		t.Fatal("size threshold did not trigger a flush")
	}
	if got := bridge.updateCount("blog.post"); got != batchFlushSize {
		t.Errorf("bridge received %d objects, want %d", got, batchFlushSize)
	}
}

func TestStop_FlushesBufferedUpserts(t *testing.T) {
	// Events still buffered at shutdown were already acknowledged upstream;
	// the final flush must reach the store despite the handler's context
	// being cancelled.
	bridge := newFakeBridge()
	h := NewBridgeEventHandler(bridge, nil)

	for i := 0; i < 3; i++ {
		event := upsertedEvent(t, "blog.post", map[string]any{"id": "blog_post_1"})
		if err := h.HandleEvent(context.Background(), event); err != nil {
			t.Fatalf("HandleEvent() error = %v", err)
		}
	}

	h.Stop()

	if got := bridge.updateCount("blog.post"); got != 3 {
		t.Errorf("bridge received %d objects after Stop, want 3", got)
	}
}

func TestHandleEvent_DeleteFlushesBufferedUpsertsFirst(t *testing.T) {
	bridge := newFakeBridge()
	h := NewBridgeEventHandler(bridge, nil)
	defer h.Stop()

	upsert := upsertedEvent(t, "blog.post", map[string]any{"id": "blog_post_7"})
	if err := h.HandleEvent(context.Background(), upsert); err != nil {
		t.Fatalf("HandleEvent(upsert) error = %v", err)
	}

	payload, _ := json.Marshal(EntityDeletedPayload{ContentType: "blog.post", ID: "blog_post_7"})
	del := Event{EventID: "evt-del", EventType: EventTypeEntityDeleted, Payload: payload}
	if err := h.HandleEvent(context.Background(), del); err != nil {
		t.Fatalf("HandleEvent(delete) error = %v", err)
	}

	bridge.mu.Lock()
	defer bridge.mu.Unlock()
	if len(bridge.ops) != 2 || bridge.ops[0] != "update" || bridge.ops[1] != "remove" {
		t.Errorf("ops = %v, want [update remove]", bridge.ops)
	}
}

func TestHandleEvent_DeleteImmediate(t *testing.T) {
	bridge := newFakeBridge()
	h := NewBridgeEventHandler(bridge, nil)
	defer h.Stop()

	payload, _ := json.Marshal(EntityDeletedPayload{ContentType: "blog.post", ID: "blog_post_7"})
	event := Event{EventID: "evt-2", EventType: EventTypeEntityDeleted, Payload: payload}
	if err := h.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("HandleEvent() error = %v", err)
	}

	bridge.mu.Lock()
	defer bridge.mu.Unlock()
	if len(bridge.removed) != 1 || bridge.removed[0] != "blog_post_7" {
		t.Errorf("removed = %v, want [blog_post_7]", bridge.removed)
	}
}

func TestHandleEvent_UnknownTypeSkipped(t *testing.T) {
	bridge := newFakeBridge()
	h := NewBridgeEventHandler(bridge, nil)
	defer h.Stop()

	event := Event{EventID: "evt-3", EventType: "SomethingElse"}
	if err := h.HandleEvent(context.Background(), event); err != nil {
		t.Errorf("HandleEvent() error = %v, unknown types must be skipped silently", err)
	}
}

func TestHandleEvent_BadPayload(t *testing.T) {
	bridge := newFakeBridge()
	h := NewBridgeEventHandler(bridge, nil)
	defer h.Stop()

	event := Event{EventID: "evt-4", EventType: EventTypeEntityUpserted, Payload: json.RawMessage(`{"content_type":`)}
	if err := h.HandleEvent(context.Background(), event); err == nil {
		t.Error("HandleEvent() expected error for malformed payload")
	}

	event = Event{EventID: "evt-5", EventType: EventTypeEntityUpserted, Payload: json.RawMessage(`{"fields":{}}`)}
	if err := h.HandleEvent(context.Background(), event); err == nil {
		t.Error("HandleEvent() expected error for missing content_type")
	}
}
