package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"search-bridge/bridge"
	"search-bridge/domain"
	"search-bridge/usecase"
)

// BridgeAPI is the bridge surface the handlers consume.
type BridgeAPI interface {
	Clear(ctx context.Context, entityTypes []domain.EntityType, commit bool) error
	Update(ctx context.Context, entityType domain.EntityType, objects []any, commit bool) (*usecase.UpdateResult, error)
	Remove(ctx context.Context, objOrID any, commit bool) error
	Search(ctx context.Context, query string, factory bridge.RecordFactory, entityTypes []domain.EntityType, opts usecase.SearchOptions) (*bridge.SearchResponse, error)
}

// HealthChecker probes the store.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Handler contains the HTTP handlers for the search bridge.
type Handler struct {
	bridge BridgeAPI
	health HealthChecker
	logger *slog.Logger
}

func NewHandler(b BridgeAPI, health HealthChecker, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		bridge: b,
		health: health,
		logger: logger,
	}
}

type searchResultJSON struct {
	Namespace  string  `json:"namespace"`
	Kind       string  `json:"kind"`
	PrimaryKey string  `json:"primary_key"`
	Score      float64 `json:"score"`
}

type searchResponseJSON struct {
	Query   string             `json:"query"`
	Hits    int                `json:"hits"`
	Results []searchResultJSON `json:"results"`
}

// Search handles GET /v1/search?q=...&types=a.b,c.d&limit=n
func (h *Handler) Search(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query parameter q is required")
	}

	var entityTypes []domain.EntityType
	if raw := c.QueryParam("types"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			if t := strings.TrimSpace(part); t != "" {
				entityTypes = append(entityTypes, domain.EntityType(t))
			}
		}
	}

	opts := usecase.SearchOptions{}
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || limit <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid limit")
		}
		opts.Limit = limit
	}

	resp, err := h.bridge.Search(c.Request().Context(), query, nil, entityTypes, opts)
	if err != nil {
		h.logger.Error("search failed", "query", query, "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, "search failed")
	}

	out := searchResponseJSON{
		Query:   query,
		Hits:    resp.Hits,
		Results: make([]searchResultJSON, 0, len(resp.Results)),
	}
	for _, r := range resp.Results {
		record, ok := r.(domain.SearchResultRecord)
		if !ok {
			continue
		}
		out.Results = append(out.Results, searchResultJSON{
			Namespace:  record.Namespace,
			Kind:       record.Kind,
			PrimaryKey: record.PrimaryKey,
			Score:      record.Score,
		})
	}
	return c.JSON(http.StatusOK, out)
}

type updateResponseJSON struct {
	Indexed int      `json:"indexed"`
	Skipped int      `json:"skipped"`
	Failed  []string `json:"failed,omitempty"`
	BatchID string   `json:"batch_id,omitempty"`
}

// UpdateEntities handles POST /v1/entities/:type with a JSON array of field
// maps. A partial batch failure answers 207 with the lost document ids.
func (h *Handler) UpdateEntities(c echo.Context) error {
	entityType := domain.EntityType(c.Param("type"))
	if entityType == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "entity type is required")
	}

	var payload []map[string]any
	if err := c.Bind(&payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "request body must be a JSON array of documents")
	}
	objects := make([]any, len(payload))
	for i, fields := range payload {
		objects[i] = fields
	}

	result, err := h.bridge.Update(c.Request().Context(), entityType, objects, true)
	if err != nil {
		var partial *domain.PartialBatchFailure
		if errors.As(err, &partial) {
			out := updateResponseJSON{
				Indexed: result.Indexed,
				Skipped: result.Skipped,
				BatchID: partial.BatchID,
			}
			for _, chunk := range partial.Failed {
				for _, id := range chunk.DocumentIDs {
					out.Failed = append(out.Failed, string(id))
				}
			}
			return c.JSON(http.StatusMultiStatus, out)
		}
		h.logger.Error("update failed", "entity_type", entityType, "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, "update failed")
	}

	return c.JSON(http.StatusOK, updateResponseJSON{
		Indexed: result.Indexed,
		Skipped: result.Skipped,
	})
}

// RemoveEntity handles DELETE /v1/entities/:id. Removing an unknown document
// answers 204 like any other delete.
func (h *Handler) RemoveEntity(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "document id is required")
	}

	if err := h.bridge.Remove(c.Request().Context(), id, true); err != nil {
		var malformed *domain.MalformedIdentifierError
		if errors.As(err, &malformed) {
			return echo.NewHTTPError(http.StatusBadRequest, malformed.Error())
		}
		h.logger.Error("remove failed", "id", id, "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, "remove failed")
	}
	return c.NoContent(http.StatusNoContent)
}

type clearRequestJSON struct {
	Types []string `json:"types"`
}

// ClearIndexes handles POST /v1/indexes/clear. An empty or missing type list
// clears every index.
func (h *Handler) ClearIndexes(c echo.Context) error {
	var payload clearRequestJSON
	if err := c.Bind(&payload); err != nil && !errors.Is(err, echo.ErrUnsupportedMediaType) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	entityTypes := make([]domain.EntityType, 0, len(payload.Types))
	for _, t := range payload.Types {
		entityTypes = append(entityTypes, domain.EntityType(t))
	}

	if err := h.bridge.Clear(c.Request().Context(), entityTypes, true); err != nil {
		h.logger.Error("clear failed", "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, "clear failed")
	}
	return c.NoContent(http.StatusNoContent)
}

// Health handles GET /v1/health.
func (h *Handler) Health(c echo.Context) error {
	if err := h.health.Health(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
