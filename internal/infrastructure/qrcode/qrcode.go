// Package qrcode renders QR codes for profile URLs as PNG rasters.
package qrcode

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strconv"
	"strings"

	"oneshot-backend/internal/shared/apperror"
	"oneshot-backend/pkg/metrics"

	"github.com/rs/zerolog/log"
	goqrcode "github.com/skip2/go-qrcode"
)

// Options controls the rendered raster.
type Options struct {
	WidthPx       int
	MarginModules int
	Dark          string // "#rrggbb", "#rgb" or "#rrggbbaa"
	Light         string
	Level         goqrcode.RecoveryLevel
}

// ProfileOptions is the look of QR codes embedded in generated profile pages.
func ProfileOptions() Options {
	return Options{WidthPx: 200, MarginModules: 2, Dark: "#2c3e50", Light: "#ffffff", Level: goqrcode.Medium}
}

// PreviewOptions is used for the JSON preview endpoint.
func PreviewOptions() Options {
	return Options{WidthPx: 256, MarginModules: 1, Dark: "#000000", Light: "#ffffff", Level: goqrcode.Medium}
}

// DownloadOptions is used for PNG downloads.
func DownloadOptions() Options {
	return Options{WidthPx: 512, MarginModules: 1, Dark: "#000000", Light: "#ffffff", Level: goqrcode.Medium}
}

// Raster is one encoded QR image. DataURL and Bytes are two views over
// the same PNG stream.
type Raster struct {
	png   []byte
	Width int
}

// Bytes returns the PNG stream.
func (r *Raster) Bytes() []byte {
	return r.png
}

// DataURL returns the PNG as an inline data URL.
func (r *Raster) DataURL() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(r.png)
}

// Encoder encodes payloads into PNG rasters. Output is deterministic for a
// given payload and Options.
type Encoder struct {
	metrics *metrics.Manager
}

func NewEncoder(m *metrics.Manager) *Encoder {
	return &Encoder{metrics: m}
}

// Encode renders payload. A payload beyond the capacity of the chosen
// recovery level fails with an encoding error; no smaller level is tried.
func (e *Encoder) Encode(payload string, opts Options) (*Raster, error) {
	raster, err := e.encode(payload, opts)
	e.metrics.RecordQREncode(err)
	if err != nil {
		log.Error().Err(err).Int("payload_len", len(payload)).Msg("QR code encoding failed")
		return nil, err
	}
	return raster, nil
}

// DataURL is Encode followed by Raster.DataURL.
func (e *Encoder) DataURL(payload string, opts Options) (string, error) {
	raster, err := e.Encode(payload, opts)
	if err != nil {
		return "", err
	}
	return raster.DataURL(), nil
}

// PNG is Encode followed by Raster.Bytes.
func (e *Encoder) PNG(payload string, opts Options) ([]byte, error) {
	raster, err := e.Encode(payload, opts)
	if err != nil {
		return nil, err
	}
	return raster.Bytes(), nil
}

func (e *Encoder) encode(payload string, opts Options) (*Raster, error) {
	if payload == "" {
		return nil, apperror.Validation("QR_EMPTY_PAYLOAD", "QR payload must not be empty")
	}
	if opts.WidthPx <= 0 {
		return nil, apperror.Validation("QR_INVALID_WIDTH", "QR width must be positive")
	}
	if opts.MarginModules < 0 {
		return nil, apperror.Validation("QR_INVALID_MARGIN", "QR margin must not be negative")
	}

	dark, err := ParseHexColor(opts.Dark)
	if err != nil {
		return nil, apperror.Validation("QR_INVALID_COLOR", err.Error())
	}
	light, err := ParseHexColor(opts.Light)
	if err != nil {
		return nil, apperror.Validation("QR_INVALID_COLOR", err.Error())
	}

	code, err := goqrcode.New(payload, opts.Level)
	if err != nil {
		return nil, apperror.Encoding("QR_ENCODING_FAILED", "QR code encoding failed", err)
	}
	code.DisableBorder = true
	bitmap := code.Bitmap()

	img := rasterize(bitmap, opts.WidthPx, opts.MarginModules, dark, light)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, apperror.Encoding("QR_ENCODING_FAILED", "QR code encoding failed", err)
	}

	return &Raster{png: buf.Bytes(), Width: img.Bounds().Dx()}, nil
}

// rasterize paints the module matrix centred in a square of widthPx
// pixels. When the requested width cannot fit one pixel per module the
// image grows to the minimum size instead.
func rasterize(bitmap [][]bool, widthPx, margin int, dark, light color.Color) *image.Paletted {
	n := len(bitmap)
	total := n + 2*margin

	scale := widthPx / total
	size := widthPx
	if scale < 1 {
		scale = 1
		size = total
	}

	img := image.NewPaletted(image.Rect(0, 0, size, size), color.Palette{light, dark})
	offset := (size - n*scale) / 2

	for y, row := range bitmap {
		for x, on := range row {
			if !on {
				continue
			}
			px, py := offset+x*scale, offset+y*scale
			for dy := 0; dy < scale; dy++ {
				for dx := 0; dx < scale; dx++ {
					img.SetColorIndex(px+dx, py+dy, 1)
				}
			}
		}
	}
	return img
}

// ParseHexColor parses "#rgb", "#rrggbb" and "#rrggbbaa".
func ParseHexColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q", s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
