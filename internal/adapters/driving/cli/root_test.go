package cli

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/threadlight/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/threadlight/internal/core/domain"
	"github.com/custodia-labs/threadlight/internal/core/services"
	"github.com/custodia-labs/threadlight/internal/enrichers"
	"github.com/custodia-labs/threadlight/internal/handlers"
)

// testEnv holds the stores behind the services installed by setupTestServices.
type testEnv struct {
	store  *memory.MessageStore
	config *memory.ConfigStore
	dir    string
}

// setupTestServices installs in-memory services for the duration of t.
func setupTestServices(t *testing.T) *testEnv {
	t.Helper()

	store := memory.NewMessageStore()
	config := memory.NewConfigStore()
	registry := handlers.NewDefaultRegistry(handlers.Options{})

	Configure(Services{
		Messages:        services.NewMessageService(enrichers.NewDefaultChain(), store),
		Attachments:     services.NewAttachmentService(registry, store, services.AttachmentOptions{}),
		Settings:        services.NewSettingsService(config),
		MessageStore:    store,
		AttachmentStore: store,
	})
	t.Cleanup(func() { Configure(Services{}) })

	return &testEnv{store: store, config: config, dir: t.TempDir()}
}

func (e *testEnv) addMessage(t *testing.T, id, convID, text string, at time.Time) {
	t.Helper()
	require.NoError(t, e.store.SaveMessage(context.Background(), &domain.Message{
		ID:             id,
		ConversationID: convID,
		Text:           &text,
		Timestamp:      at,
	}))
}

func (e *testEnv) addPNG(t *testing.T, id string, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 90, A: 255})
		}
	}
	path := filepath.Join(e.dir, id+".png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	mt := "image/png"
	require.NoError(t, e.store.SaveAttachment(context.Background(), &domain.Attachment{
		ID: id, Path: path, MIMEType: &mt, Size: 1024,
	}))
	return path
}

// resetFlags restores every command flag to its default value.
func resetFlags() {
	verbose = false
	enrichJSON, enrichPlain = false, false
	messageJSON, conversationJSON = false, false
	conversationLimit = 50
	thumbnailOut, thumbnailWidth, thumbnailHeight = "", 0, 0
	metadataJSON = false
	serveAddr, mcpHTTPAddr = "", ""
}

// execute runs the root command with args and returns its combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	t.Cleanup(resetFlags)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}
