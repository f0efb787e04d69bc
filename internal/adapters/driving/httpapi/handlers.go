package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/custodia-labs/threadlight/internal/core/domain"
	"github.com/custodia-labs/threadlight/internal/logger"
)

// maxBatch caps the ids accepted by a metadata batch request.
const maxBatch = 100

// handler holds dependencies for HTTP handlers.
type handler struct {
	ports *Ports
	opts  Options
}

func newHandler(ports *Ports, opts Options) *handler {
	return &handler{ports: ports, opts: opts}
}

// --- Messages ---

type enrichReq struct {
	Text string `json:"text"`
}

// Enrich enriches free-standing text.
// POST /api/enrich
func (h *handler) Enrich(w http.ResponseWriter, r *http.Request) {
	var req enrichReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	jsonOK(w, http.StatusOK, h.ports.Messages.EnrichText(req.Text))
}

// GetMessage returns a stored message, enriched.
// GET /api/messages/{id}
func (h *handler) GetMessage(w http.ResponseWriter, r *http.Request) {
	msg, err := h.ports.Messages.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonOK(w, http.StatusOK, msg)
}

// ListConversation returns a conversation's messages, enriched, oldest first.
// GET /api/conversations/{id}/messages?limit=
func (h *handler) ListConversation(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			jsonError(w, "limit must be a non-negative integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	msgs, err := h.ports.Messages.ListConversation(r.Context(), chi.URLParam(r, "id"), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if msgs == nil {
		msgs = []domain.EnrichedMessage{}
	}
	jsonOK(w, http.StatusOK, msgs)
}

// --- Attachments ---

// GetAttachment returns the attachment record.
// GET /api/attachments/{id}
func (h *handler) GetAttachment(w http.ResponseWriter, r *http.Request) {
	att, err := h.ports.Attachments.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonOK(w, http.StatusOK, att)
}

// Metadata returns an attachment's media properties.
// GET /api/attachments/{id}/metadata
func (h *handler) Metadata(w http.ResponseWriter, r *http.Request) {
	meta, err := h.ports.Attachments.Metadata(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if meta.IsEmpty() {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	jsonOK(w, http.StatusOK, meta)
}

type batchReq struct {
	IDs []string `json:"ids"`
}

// MetadataBatch returns metadata for several attachments keyed by id.
// Attachments without a handler are left out.
// POST /api/attachments/metadata
func (h *handler) MetadataBatch(w http.ResponseWriter, r *http.Request) {
	var req batchReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.IDs) == 0 {
		jsonError(w, "ids is required", http.StatusBadRequest)
		return
	}
	if len(req.IDs) > maxBatch {
		jsonError(w, fmt.Sprintf("at most %d ids per request", maxBatch), http.StatusBadRequest)
		return
	}

	out, err := h.ports.Attachments.MetadataBatch(r.Context(), req.IDs)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonOK(w, http.StatusOK, out)
}

// Thumbnail serves a JPEG preview of an attachment.
// GET /api/attachments/{id}/thumbnail?w=&h=
func (h *handler) Thumbnail(w http.ResponseWriter, r *http.Request) {
	bound, err := h.parseBound(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	data, err := h.ports.Attachments.Thumbnail(r.Context(), chi.URLParam(r, "id"), bound)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if data == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", cacheControl(h.opts.CacheMaxAge))
	w.WriteHeader(http.StatusOK)
	w.Write(data) //nolint:errcheck
}

// parseBound reads the optional w and h query parameters. A missing side
// takes the default bound's value.
func (h *handler) parseBound(r *http.Request) (domain.Size, error) {
	bound := h.opts.DefaultBound
	for param, dst := range map[string]*int{"w": &bound.Width, "h": &bound.Height} {
		raw := r.URL.Query().Get(param)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 4096 {
			return domain.Size{}, fmt.Errorf("%s must be an integer between 1 and 4096", param)
		}
		*dst = n
	}
	return bound, nil
}

func cacheControl(maxAge time.Duration) string {
	return fmt.Sprintf("public, max-age=%d, immutable", int(maxAge.Seconds()))
}

// --- Helpers ---

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNoHandler):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, domain.ErrNoFrame):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrNotImplemented):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("%s %s: %v", r.Method, r.URL.Path, err)
		jsonError(w, "internal error", status)
		return
	}
	jsonError(w, err.Error(), status)
}

func jsonOK(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
