package cli

import (
	"context"
	"encoding/json"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/threadlight/internal/core/domain"
)

func TestThumbnailCmd_WritesJPEG(t *testing.T) {
	env := setupTestServices(t)
	env.addPNG(t, "a1", 640, 480)
	out := filepath.Join(env.dir, "thumb.jpg")

	stdout, err := execute(t, "thumbnail", "a1", "--out", out, "--width", "100", "--height", "100")
	require.NoError(t, err)
	assert.Contains(t, stdout, out)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := jpeg.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Width)
	assert.Equal(t, 75, cfg.Height)
}

func TestThumbnailCmd_DefaultBoundFromSettings(t *testing.T) {
	env := setupTestServices(t)
	env.addPNG(t, "a1", 400, 200)
	require.NoError(t, settingsService.Set("thumbnail.max_width", "50"))
	out := filepath.Join(env.dir, "thumb.jpg")

	_, err := execute(t, "thumbnail", "a1", "-o", out)
	require.NoError(t, err)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := jpeg.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Width)
	assert.Equal(t, 25, cfg.Height)
}

func TestThumbnailCmd_NoHandler(t *testing.T) {
	env := setupTestServices(t)
	mt := "application/pdf"
	require.NoError(t, env.store.SaveAttachment(context.Background(), &domain.Attachment{
		ID: "doc", Path: filepath.Join(env.dir, "doc.pdf"), MIMEType: &mt,
	}))

	_, err := execute(t, "thumbnail", "doc", "-o", filepath.Join(env.dir, "x.jpg"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoHandler)
	assert.Contains(t, err.Error(), "no preview available")
}

func TestThumbnailCmd_MissingFileRendersNothing(t *testing.T) {
	env := setupTestServices(t)
	mt := "image/png"
	require.NoError(t, env.store.SaveAttachment(context.Background(), &domain.Attachment{
		ID: "gone", Path: filepath.Join(env.dir, "gone.png"), MIMEType: &mt,
	}))
	out := filepath.Join(env.dir, "gone.jpg")

	stdout, err := execute(t, "thumbnail", "gone", "-o", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Nothing to render")
	assert.NoFileExists(t, out)
}

func TestMetadataCmd_Table(t *testing.T) {
	env := setupTestServices(t)
	env.addPNG(t, "a1", 64, 32)
	mt := "application/pdf"
	require.NoError(t, env.store.SaveAttachment(context.Background(), &domain.Attachment{
		ID: "doc", Path: filepath.Join(env.dir, "doc.pdf"), MIMEType: &mt, Size: 2048,
	}))

	out, err := execute(t, "metadata", "a1", "doc")
	require.NoError(t, err)
	assert.Contains(t, out, "a1  image/png  1.0 kB  64x32")
	assert.Contains(t, out, "doc  application/pdf  2.0 kB  (no handler)")
}

func TestMetadataCmd_JSON(t *testing.T) {
	env := setupTestServices(t)
	env.addPNG(t, "a1", 64, 32)

	out, err := execute(t, "metadata", "--json", "a1")
	require.NoError(t, err)

	var rows []metadataRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].Metadata)
	assert.Equal(t, 64, *rows[0].Metadata.Width)
	assert.Equal(t, 32, *rows[0].Metadata.Height)
}

func TestMetadataCmd_UnknownAttachment(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "metadata", "nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDescribeMetadata(t *testing.T) {
	w, h, d := 1920, 1080, 12.34
	assert.Equal(t, "(no handler)", describeMetadata(nil))
	assert.Equal(t, "(no data)", describeMetadata(&domain.AttachmentMetadata{}))
	assert.Equal(t, "1920x1080  12.3s", describeMetadata(&domain.AttachmentMetadata{
		Width: &w, Height: &h, DurationSeconds: &d,
	}))
}
