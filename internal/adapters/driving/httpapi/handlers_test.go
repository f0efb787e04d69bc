package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/threadlight/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/threadlight/internal/core/domain"
	"github.com/custodia-labs/threadlight/internal/core/services"
	"github.com/custodia-labs/threadlight/internal/enrichers"
	"github.com/custodia-labs/threadlight/internal/handlers"
	imagehandler "github.com/custodia-labs/threadlight/internal/handlers/image"
	"github.com/custodia-labs/threadlight/internal/handlers/thumb"
)

// stubVideo reports every video as having no frame.
type stubVideo struct{}

func (stubVideo) Name() string                 { return "stub-video" }
func (stubVideo) SupportedMIMETypes() []string { return []string{"video/*"} }

func (stubVideo) Thumbnail(context.Context, string, domain.Size) ([]byte, error) {
	return nil, domain.ErrNoFrame
}

func (stubVideo) Metadata(context.Context, string) (domain.AttachmentMetadata, error) {
	d := 4.5
	return domain.AttachmentMetadata{DurationSeconds: &d}, nil
}

// brokenAudio fails every call.
type brokenAudio struct{}

func (brokenAudio) Name() string                 { return "broken-audio" }
func (brokenAudio) SupportedMIMETypes() []string { return []string{"audio/*"} }

func (brokenAudio) Thumbnail(context.Context, string, domain.Size) ([]byte, error) {
	return nil, errors.New("decoder crashed")
}

func (brokenAudio) Metadata(context.Context, string) (domain.AttachmentMetadata, error) {
	return domain.AttachmentMetadata{}, errors.New("decoder crashed")
}

type fixture struct {
	server *Server
	store  *memory.MessageStore
	dir    string
}

func strPtr(s string) *string { return &s }

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{G: 200, A: 255})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

func testServer(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewMessageStore()
	registry := handlers.NewRegistry(imagehandler.New(thumb.Options{}), stubVideo{}, brokenAudio{})

	ports := &Ports{
		Messages:    services.NewMessageService(enrichers.NewDefaultChain(), store),
		Attachments: services.NewAttachmentService(registry, store, services.AttachmentOptions{MaxWorkers: 2}),
	}
	srv, err := New(ports, Options{DefaultBound: domain.Size{Width: 64, Height: 64}})
	require.NoError(t, err)

	dir := t.TempDir()
	ctx := context.Background()
	writePNG(t, filepath.Join(dir, "wide.png"), 400, 200)
	require.NoError(t, store.SaveAttachment(ctx, &domain.Attachment{ID: "img", Path: filepath.Join(dir, "wide.png"), MIMEType: strPtr("image/png")}))
	require.NoError(t, store.SaveAttachment(ctx, &domain.Attachment{ID: "gone", Path: filepath.Join(dir, "gone.png"), MIMEType: strPtr("image/png")}))
	require.NoError(t, store.SaveAttachment(ctx, &domain.Attachment{ID: "vid", Path: filepath.Join(dir, "clip.mp4"), MIMEType: strPtr("video/mp4")}))
	require.NoError(t, store.SaveAttachment(ctx, &domain.Attachment{ID: "pdf", Path: filepath.Join(dir, "doc.pdf"), MIMEType: strPtr("application/pdf")}))
	require.NoError(t, store.SaveAttachment(ctx, &domain.Attachment{ID: "aud", Path: filepath.Join(dir, "a.m4a"), MIMEType: strPtr("audio/mp4")}))

	return &fixture{server: srv, store: store, dir: dir}
}

func (f *fixture) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	f.server.Router.ServeHTTP(w, req)
	return w
}

func TestPorts_Validate(t *testing.T) {
	_, err := New(&Ports{}, Options{})
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	f := testServer(t)

	w := f.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestEnrich(t *testing.T) {
	f := testServer(t)

	w := f.do(t, http.MethodPost, "/api/enrich", `{"text":"Your login code is 9931 @ops"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.NotEmpty(t, got["id"])
	assert.Equal(t, "Your login code is 9931 @ops", got["text"])
	assert.Len(t, got["detectedCodes"], 1)
	assert.Len(t, got["mentions"], 1)
	assert.Len(t, got["highlights"], 2)
	assert.Equal(t, false, got["isEmojiOnly"])
}

func TestEnrich_EmptyArraysNotNull(t *testing.T) {
	f := testServer(t)

	w := f.do(t, http.MethodPost, "/api/enrich", `{"text":"nothing to see"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"detectedCodes":[]`)
	assert.Contains(t, w.Body.String(), `"highlights":[]`)
	assert.Contains(t, w.Body.String(), `"mentions":[]`)
}

func TestEnrich_BadBody(t *testing.T) {
	f := testServer(t)

	w := f.do(t, http.MethodPost, "/api/enrich", `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetMessage(t *testing.T) {
	f := testServer(t)
	require.NoError(t, f.store.SaveMessage(context.Background(), &domain.Message{ID: "m1", Text: strPtr("\U0001F44D"), ConversationID: "c1"}))

	w := f.do(t, http.MethodGet, "/api/messages/m1", "")
	require.Equal(t, http.StatusOK, w.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "m1", got["id"])
	assert.Equal(t, "c1", got["conversationId"])
	assert.Equal(t, true, got["isEmojiOnly"])
}

func TestGetMessage_NotFound(t *testing.T) {
	f := testServer(t)

	w := f.do(t, http.MethodGet, "/api/messages/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "error")
}

func TestListConversation(t *testing.T) {
	f := testServer(t)
	ctx := context.Background()
	base := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, f.store.SaveMessage(ctx, &domain.Message{
			ID:             fmt.Sprintf("m%d", i),
			ConversationID: "c1",
			Timestamp:      base.Add(time.Duration(i) * time.Minute),
			Text:           strPtr(fmt.Sprintf("hello @u%d", i)),
		}))
	}

	w := f.do(t, http.MethodGet, "/api/conversations/c1/messages?limit=2", "")
	require.Equal(t, http.StatusOK, w.Code)

	var got []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "m0", got[0]["id"])
	assert.Equal(t, "m1", got[1]["id"])
}

func TestListConversation_EmptyIsArray(t *testing.T) {
	f := testServer(t)

	w := f.do(t, http.MethodGet, "/api/conversations/none/messages", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestListConversation_BadLimit(t *testing.T) {
	f := testServer(t)

	w := f.do(t, http.MethodGet, "/api/conversations/c1/messages?limit=-3", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetAttachment(t *testing.T) {
	f := testServer(t)

	w := f.do(t, http.MethodGet, "/api/attachments/vid", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"mimeType":"video/mp4"`)
}

func TestThumbnail(t *testing.T) {
	f := testServer(t)

	w := f.do(t, http.MethodGet, "/api/attachments/img/thumbnail", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "image/jpeg", w.Header().Get("Content-Type"))
	assert.Equal(t, "public, max-age=86400, immutable", w.Header().Get("Cache-Control"))

	cfg, format, err := image.DecodeConfig(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 64, cfg.Width)
	assert.Equal(t, 32, cfg.Height)
}

func TestThumbnail_CustomBound(t *testing.T) {
	f := testServer(t)

	w := f.do(t, http.MethodGet, "/api/attachments/img/thumbnail?w=100&h=100", "")
	require.Equal(t, http.StatusOK, w.Code)

	cfg, _, err := image.DecodeConfig(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Width)
	assert.Equal(t, 50, cfg.Height)
}

func TestThumbnail_StatusMapping(t *testing.T) {
	f := testServer(t)

	tests := []struct {
		name   string
		target string
		want   int
	}{
		{"missing file is no content", "/api/attachments/gone/thumbnail", http.StatusNoContent},
		{"unknown attachment", "/api/attachments/nope/thumbnail", http.StatusNotFound},
		{"no handler", "/api/attachments/pdf/thumbnail", http.StatusUnsupportedMediaType},
		{"no frame", "/api/attachments/vid/thumbnail", http.StatusUnprocessableEntity},
		{"handler fault", "/api/attachments/aud/thumbnail", http.StatusInternalServerError},
		{"bad width", "/api/attachments/img/thumbnail?w=abc", http.StatusBadRequest},
		{"zero height", "/api/attachments/img/thumbnail?h=0", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do(t, http.MethodGet, tt.target, "")
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestThumbnail_FaultHidesDetails(t *testing.T) {
	f := testServer(t)

	w := f.do(t, http.MethodGet, "/api/attachments/aud/thumbnail", "")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "decoder crashed")
}

func TestMetadata(t *testing.T) {
	f := testServer(t)

	w := f.do(t, http.MethodGet, "/api/attachments/img/metadata", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"width":400,"height":200}`, w.Body.String())

	w = f.do(t, http.MethodGet, "/api/attachments/vid/metadata", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"durationSeconds":4.5}`, w.Body.String())

	w = f.do(t, http.MethodGet, "/api/attachments/gone/metadata", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = f.do(t, http.MethodGet, "/api/attachments/pdf/metadata", "")
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

func TestMetadataBatch(t *testing.T) {
	f := testServer(t)

	w := f.do(t, http.MethodPost, "/api/attachments/metadata", `{"ids":["img","vid","pdf"]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got map[string]map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Len(t, got, 2)
	assert.EqualValues(t, 400, got["img"]["width"])
	assert.EqualValues(t, 4.5, got["vid"]["durationSeconds"])
}

func TestMetadataBatch_Validation(t *testing.T) {
	f := testServer(t)

	w := f.do(t, http.MethodPost, "/api/attachments/metadata", `{"ids":[]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	ids := make([]string, maxBatch+1)
	for i := range ids {
		ids[i] = fmt.Sprintf("a%d", i)
	}
	body, err := json.Marshal(batchReq{IDs: ids})
	require.NoError(t, err)
	w = f.do(t, http.MethodPost, "/api/attachments/metadata", string(body))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.ErrInvalidInput, http.StatusBadRequest},
		{fmt.Errorf("get message m1: %w", domain.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("a1: %w: %w", domain.ErrNoHandler, domain.ErrMissingMIMEType), http.StatusUnsupportedMediaType},
		{domain.ErrNoFrame, http.StatusUnprocessableEntity},
		{domain.ErrNotImplemented, http.StatusNotImplemented},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	f := testServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- f.server.ListenAndServe(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
