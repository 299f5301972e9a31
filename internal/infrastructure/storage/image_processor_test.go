package storage

import (
	"bytes"
	"context"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"oneshot-backend/internal/shared/apperror"

	"github.com/chai2010/webp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xwebp "golang.org/x/image/webp"
)

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x % 256), G: uint8(y % 256), B: 120, A: 255})
		}
	}
	return img
}

func writeSource(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ThumbsDir), 0o755))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, gradient(w, h)))
	return writeSource(t, dir, name, buf.Bytes())
}

func webpSize(t *testing.T, path string) (int, int) {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := xwebp.DecodeConfig(f)
	require.NoError(t, err)
	return cfg.Width, cfg.Height
}

func TestProcess_SmallSourceOnlyThumbnail(t *testing.T) {
	dir := t.TempDir()
	src := writePNG(t, dir, "small.png", 100, 80)
	p := NewImageProcessor(DefaultImageConfig(), 1, nil)

	res, err := p.Process(context.Background(), src)
	require.NoError(t, err)

	assert.Equal(t, src, res.Original)
	assert.Equal(t, filepath.Join(dir, ThumbsDir, "small-thumb.webp"), res.Thumbnail)
	assert.Empty(t, res.Mobile)
	assert.Empty(t, res.Desktop)
	assert.Equal(t, ImageMetadata{Width: 100, Height: 80, Format: "png", Size: res.Metadata.Size}, res.Metadata)
	assert.Positive(t, res.Metadata.Size)

	w, h := webpSize(t, res.Thumbnail)
	assert.Equal(t, 150, w)
	assert.Equal(t, 150, h)
}

func TestProcess_MediumSourceAddsMobile(t *testing.T) {
	dir := t.TempDir()
	src := writePNG(t, dir, "medium.png", 1000, 500)
	p := NewImageProcessor(DefaultImageConfig(), 1, nil)

	res, err := p.Process(context.Background(), src)
	require.NoError(t, err)

	require.NotEmpty(t, res.Mobile)
	assert.Empty(t, res.Desktop)
	assert.Equal(t, filepath.Join(dir, "medium-mobile.webp"), res.Mobile)

	w, h := webpSize(t, res.Mobile)
	assert.Equal(t, 800, w)
	assert.Equal(t, 400, h)
}

func TestProcess_LargeSourceAddsDesktop(t *testing.T) {
	dir := t.TempDir()
	src := writePNG(t, dir, "large.png", 1500, 1000)
	p := NewImageProcessor(DefaultImageConfig(), 2, nil)

	res, err := p.Process(context.Background(), src)
	require.NoError(t, err)

	require.NotEmpty(t, res.Mobile)
	require.NotEmpty(t, res.Desktop)
	w, h := webpSize(t, res.Desktop)
	assert.Equal(t, 1200, w)
	assert.Equal(t, 800, h)
	assert.ElementsMatch(t, []string{"large.png", "large-mobile.webp", "large-desktop.webp"}, res.KeepFiles())
}

func TestProcess_ThresholdIsExclusive(t *testing.T) {
	dir := t.TempDir()
	src := writePNG(t, dir, "edge.png", 800, 300)
	p := NewImageProcessor(DefaultImageConfig(), 1, nil)

	res, err := p.Process(context.Background(), src)
	require.NoError(t, err)
	assert.Empty(t, res.Mobile)
}

func TestProcess_JPEGSource(t *testing.T) {
	dir := t.TempDir()
	buf := new(bytes.Buffer)
	require.NoError(t, jpeg.Encode(buf, gradient(1000, 500), &jpeg.Options{Quality: 90}))
	src := writeSource(t, dir, "shot.jpg", buf.Bytes())
	p := NewImageProcessor(DefaultImageConfig(), 1, nil)

	res, err := p.Process(context.Background(), src)
	require.NoError(t, err)

	assert.Equal(t, "jpeg", res.Metadata.Format)
	assert.Equal(t, 1000, res.Metadata.Width)
	w, h := webpSize(t, res.Thumbnail)
	assert.Equal(t, 150, w)
	assert.Equal(t, 150, h)
	w, h = webpSize(t, res.Mobile)
	assert.Equal(t, 800, w)
	assert.Equal(t, 400, h)
	assert.Empty(t, res.Desktop)
}

func TestProcess_WebPSource(t *testing.T) {
	dir := t.TempDir()
	buf := new(bytes.Buffer)
	require.NoError(t, webp.Encode(buf, gradient(1300, 650), &webp.Options{Lossless: true}))
	src := writeSource(t, dir, "shot.webp", buf.Bytes())
	p := NewImageProcessor(DefaultImageConfig(), 1, nil)

	res, err := p.Process(context.Background(), src)
	require.NoError(t, err)

	assert.Equal(t, "webp", res.Metadata.Format)
	assert.Equal(t, 1300, res.Metadata.Width)
	assert.Equal(t, 650, res.Metadata.Height)
	assert.Equal(t, filepath.Join(dir, "shot-mobile.webp"), res.Mobile)
	w, h := webpSize(t, res.Desktop)
	assert.Equal(t, 1200, w)
	assert.Equal(t, 600, h)
	w, _ = webpSize(t, res.Thumbnail)
	assert.Equal(t, 150, w)
}

func TestProcess_RejectsTooManyPixels(t *testing.T) {
	dir := t.TempDir()
	src := writePNG(t, dir, "big.png", 200, 200)
	cfg := DefaultImageConfig()
	cfg.MaxPixels = 100 * 100
	p := NewImageProcessor(cfg, 1, nil)

	res, err := p.Process(context.Background(), src)

	assert.Nil(t, res)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	assert.Contains(t, apperror.FieldsOf(err)[0].Message, "200x200")
	thumbs, _ := os.ReadDir(filepath.Join(dir, ThumbsDir))
	assert.Empty(t, thumbs)
}

// pngHeaderClaiming rewrites the IHDR of a tiny PNG so it declares w x h.
func pngHeaderClaiming(t *testing.T, w, h uint32) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, gradient(1, 1)))
	data := buf.Bytes()
	binary.BigEndian.PutUint32(data[16:20], w)
	binary.BigEndian.PutUint32(data[20:24], h)
	binary.BigEndian.PutUint32(data[29:33], crc32.ChecksumIEEE(data[12:29]))
	return data
}

func TestProcess_HugeDeclaredDimensionsNotDecoded(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "bomb.png", pngHeaderClaiming(t, 30000, 30000))
	p := NewImageProcessor(DefaultImageConfig(), 1, nil)

	_, err := p.Process(context.Background(), src)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.KindValidation, appErr.Kind)
	assert.Contains(t, appErr.Fields[0].Message, "30000x30000")
}

func TestProcess_UndecodableSourceLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ThumbsDir), 0o755))
	src := filepath.Join(dir, "broken.png")
	require.NoError(t, os.WriteFile(src, []byte("definitely not an image"), 0o644))
	p := NewImageProcessor(DefaultImageConfig(), 1, nil)

	res, err := p.Process(context.Background(), src)

	require.Error(t, err)
	assert.Nil(t, res)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "IMAGE_PROCESSING_FAILED", appErr.Code)
	assert.Equal(t, apperror.KindEncoding, appErr.Kind)

	thumbs, _ := os.ReadDir(filepath.Join(dir, ThumbsDir))
	assert.Empty(t, thumbs)
}

func TestProcess_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	src := writePNG(t, dir, "a.png", 10, 10)
	p := NewImageProcessor(DefaultImageConfig(), 1, nil)

	// hold the only slot so Acquire has to wait on the context
	require.NoError(t, p.sem.Acquire(context.Background(), 1))
	defer p.sem.Release(1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Process(ctx, src)
	assert.Error(t, err)
}

func TestWriteFileAtomic_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.html")

	require.NoError(t, WriteFileAtomic(path, []byte("one"), 0o644))
	require.NoError(t, WriteFileAtomic(path, []byte("two"), 0o644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
