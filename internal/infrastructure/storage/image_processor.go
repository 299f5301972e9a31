package storage

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"oneshot-backend/internal/shared/apperror"
	"oneshot-backend/pkg/metrics"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/rs/zerolog/log"
	xwebp "golang.org/x/image/webp"
	"golang.org/x/sync/semaphore"
)

// Derivative kinds
const (
	KindThumbnail = "thumbnail"
	KindMobile    = "mobile"
	KindDesktop   = "desktop"
)

const (
	ThumbsDir    = "thumbs"
	OutputFormat = "webp"
)

// ImageConfig holds derivative sizes in pixels.
// MaxPixels caps width*height of a source; zero disables the check.
type ImageConfig struct {
	ThumbnailSize int
	MobileWidth   int
	DesktopWidth  int
	Quality       float32
	MaxPixels     int64
}

// DefaultMaxPixels keeps a single decode well under a gigabyte of NRGBA.
const DefaultMaxPixels = 50_000_000

func DefaultImageConfig() ImageConfig {
	return ImageConfig{ThumbnailSize: 150, MobileWidth: 800, DesktopWidth: 1200, Quality: 85, MaxPixels: DefaultMaxPixels}
}

type ImageMetadata struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"`
	Size   int64  `json:"size"`
}

// ProcessedImage lists the files derived from one source. Mobile and
// Desktop are empty when the source is not wider than the threshold.
type ProcessedImage struct {
	Original  string        `json:"original"`
	Thumbnail string        `json:"thumbnail"`
	Mobile    string        `json:"mobile,omitempty"`
	Desktop   string        `json:"desktop,omitempty"`
	Metadata  ImageMetadata `json:"metadata"`
}

// KeepFiles returns the base names a cleanup pass must preserve.
func (p *ProcessedImage) KeepFiles() []string {
	keep := []string{filepath.Base(p.Original)}
	if p.Mobile != "" {
		keep = append(keep, filepath.Base(p.Mobile))
	}
	if p.Desktop != "" {
		keep = append(keep, filepath.Base(p.Desktop))
	}
	return keep
}

type ImageProcessor struct {
	cfg     ImageConfig
	sem     *semaphore.Weighted
	metrics *metrics.Manager
}

// NewImageProcessor bounds concurrent decodes to maxConcurrent.
func NewImageProcessor(cfg ImageConfig, maxConcurrent int64, m *metrics.Manager) *ImageProcessor {
	if maxConcurrent <= 0 {
		maxConcurrent = 2
	}
	return &ImageProcessor{
		cfg:     cfg,
		sem:     semaphore.NewWeighted(maxConcurrent),
		metrics: m,
	}
}

// Process derives thumbnail, mobile and desktop renditions next to
// sourcePath. Each derivative is written to a temp file and renamed into
// place; on any failure the derivatives already written by this call are
// removed and an "image processing failed" error is returned.
func (p *ImageProcessor) Process(ctx context.Context, sourcePath string) (*ProcessedImage, error) {
	result, err := p.process(ctx, sourcePath)
	if err != nil {
		log.Error().Err(err).Str("source", sourcePath).Msg("Image processing failed")
		return nil, apperror.Wrap(err, "IMAGE_PROCESSING_FAILED", "Image processing failed")
	}
	return result, nil
}

func (p *ImageProcessor) process(ctx context.Context, sourcePath string) (*ProcessedImage, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer p.sem.Release(1)

	start := time.Now()

	// 1. Read + decode
	data, err := os.ReadFile(sourcePath)
	if err != nil {
		return nil, apperror.IO("IMAGE_READ_FAILED", "cannot read source image", err)
	}

	// header only, before any pixel buffer is allocated
	width, height, err := decodeDimensions(data)
	if err != nil {
		return nil, apperror.Encoding("IMAGE_DECODE_FAILED", "cannot decode source image", err)
	}
	if p.cfg.MaxPixels > 0 && int64(width)*int64(height) > p.cfg.MaxPixels {
		return nil, apperror.Validation("IMAGE_TOO_LARGE", "Image dimensions are too large", apperror.FieldError{
			Field:   "photo",
			Message: fmt.Sprintf("Image is %dx%d; at most %d pixels are allowed", width, height, p.cfg.MaxPixels),
		})
	}

	img, format, err := decodeImage(data)
	if err != nil {
		return nil, apperror.Encoding("IMAGE_DECODE_FAILED", "cannot decode source image", err)
	}

	bounds := img.Bounds()
	result := &ProcessedImage{
		Original: sourcePath,
		Metadata: ImageMetadata{
			Width:  bounds.Dx(),
			Height: bounds.Dy(),
			Format: format,
			Size:   int64(len(data)),
		},
	}

	dir := filepath.Dir(sourcePath)
	base := strings.TrimSuffix(filepath.Base(sourcePath), filepath.Ext(sourcePath))

	var written []string
	fail := func(err error) (*ProcessedImage, error) {
		for _, path := range written {
			_ = os.Remove(path)
		}
		return nil, err
	}

	// 2. Thumbnail (always, square cover crop)
	thumbPath := filepath.Join(dir, ThumbsDir, fmt.Sprintf("%s-thumb.%s", base, OutputFormat))
	thumb := imaging.Fill(img, p.cfg.ThumbnailSize, p.cfg.ThumbnailSize, imaging.Center, imaging.Lanczos)
	if err := p.writeDerivative(thumbPath, thumb); err != nil {
		return fail(err)
	}
	written = append(written, thumbPath)
	result.Thumbnail = thumbPath
	p.metrics.RecordDerivative(KindThumbnail)

	// 3. Mobile (only when wider than the threshold)
	if bounds.Dx() > p.cfg.MobileWidth {
		mobilePath := filepath.Join(dir, fmt.Sprintf("%s-mobile.%s", base, OutputFormat))
		if err := p.writeDerivative(mobilePath, imaging.Resize(img, p.cfg.MobileWidth, 0, imaging.Lanczos)); err != nil {
			return fail(err)
		}
		written = append(written, mobilePath)
		result.Mobile = mobilePath
		p.metrics.RecordDerivative(KindMobile)
	}

	// 4. Desktop
	if bounds.Dx() > p.cfg.DesktopWidth {
		desktopPath := filepath.Join(dir, fmt.Sprintf("%s-desktop.%s", base, OutputFormat))
		if err := p.writeDerivative(desktopPath, imaging.Resize(img, p.cfg.DesktopWidth, 0, imaging.Lanczos)); err != nil {
			return fail(err)
		}
		written = append(written, desktopPath)
		result.Desktop = desktopPath
		p.metrics.RecordDerivative(KindDesktop)
	}

	p.metrics.RecordImageProcessing(time.Since(start))

	log.Debug().
		Str("source", sourcePath).
		Int("width", bounds.Dx()).
		Int("derivatives", len(written)).
		Msg("Image processed")

	return result, nil
}

// writeDerivative encodes img as WebP into a temp file beside path and
// renames it into place.
func (p *ImageProcessor) writeDerivative(path string, img image.Image) error {
	buf := new(bytes.Buffer)
	if err := webp.Encode(buf, img, &webp.Options{Lossless: false, Quality: p.cfg.Quality}); err != nil {
		return apperror.Encoding("IMAGE_ENCODE_FAILED", "cannot encode derivative", err)
	}
	if err := WriteFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return apperror.IO("IMAGE_WRITE_FAILED", "cannot write derivative", err)
	}
	return nil
}

// decodeImage sniffs WebP by its RIFF header, everything else goes
// through the registered jpeg/png decoders.
func decodeImage(data []byte) (image.Image, string, error) {
	if isWebP(data) {
		img, err := xwebp.Decode(bytes.NewReader(data))
		return img, "webp", err
	}
	return image.Decode(bytes.NewReader(data))
}

func decodeDimensions(data []byte) (int, int, error) {
	var (
		cfg image.Config
		err error
	)
	if isWebP(data) {
		cfg, err = xwebp.DecodeConfig(bytes.NewReader(data))
	} else {
		cfg, _, err = image.DecodeConfig(bytes.NewReader(data))
	}
	return cfg.Width, cfg.Height, err
}

func isWebP(data []byte) bool {
	return len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WEBP"
}

// WriteFileAtomic writes data to a temp file in the target directory and
// renames it over path. Parent directories are created.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
