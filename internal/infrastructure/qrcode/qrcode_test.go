package qrcode

import (
	"bytes"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"oneshot-backend/internal/shared/apperror"

	goqrcode "github.com/skip2/go-qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const profileURL = "http://localhost:3000/profiles/jordan-davis.html"

func TestEncode_Deterministic(t *testing.T) {
	enc := NewEncoder(nil)

	first, err := enc.Encode(profileURL, ProfileOptions())
	require.NoError(t, err)
	second, err := enc.Encode(profileURL, ProfileOptions())
	require.NoError(t, err)

	assert.Equal(t, first.Bytes(), second.Bytes())
	assert.Equal(t, first.DataURL(), second.DataURL())
}

func TestEncode_DataURLAndBufferShareStream(t *testing.T) {
	enc := NewEncoder(nil)

	dataURL, err := enc.DataURL(profileURL, ProfileOptions())
	require.NoError(t, err)
	buf, err := enc.PNG(profileURL, ProfileOptions())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(dataURL, "data:image/png;base64,"))
	raster := &Raster{png: buf}
	assert.Equal(t, raster.DataURL(), dataURL)
}

func TestEncode_DimensionsAndColors(t *testing.T) {
	enc := NewEncoder(nil)

	raster, err := enc.Encode(profileURL, ProfileOptions())
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(raster.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())
	assert.Equal(t, 200, raster.Width)

	light := color.NRGBAModel.Convert(img.At(0, 0)).(color.NRGBA)
	assert.Equal(t, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, light)

	// the top-left finder pattern starts on the diagonal after the quiet zone
	var dark color.NRGBA
	for i := 0; i < 100; i++ {
		c := color.NRGBAModel.Convert(img.At(i, i)).(color.NRGBA)
		if c != light {
			dark = c
			break
		}
	}
	assert.Equal(t, color.NRGBA{R: 0x2c, G: 0x3e, B: 0x50, A: 0xff}, dark)
}

func TestEncode_TinyWidthGrowsToFit(t *testing.T) {
	enc := NewEncoder(nil)
	opts := DownloadOptions()
	opts.WidthPx = 5

	raster, err := enc.Encode(profileURL, opts)
	require.NoError(t, err)
	assert.Greater(t, raster.Width, 5)
}

func TestEncode_CapacityOverflowFailsFast(t *testing.T) {
	enc := NewEncoder(nil)
	opts := ProfileOptions()
	opts.Level = goqrcode.Low

	_, err := enc.Encode(strings.Repeat("a", 3000), opts)

	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindEncoding))
}

func TestEncode_InvalidOptions(t *testing.T) {
	enc := NewEncoder(nil)

	_, err := enc.Encode("", ProfileOptions())
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))

	opts := ProfileOptions()
	opts.Dark = "blue"
	_, err = enc.Encode(profileURL, opts)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))

	opts = ProfileOptions()
	opts.WidthPx = 0
	_, err = enc.Encode(profileURL, opts)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestParseHexColor(t *testing.T) {
	c, err := ParseHexColor("#2c3e50")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 0x2c, G: 0x3e, B: 0x50, A: 0xff}, c)

	c, err = ParseHexColor("#fff")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, c)

	c, err = ParseHexColor("00000080")
	require.NoError(t, err)
	assert.Equal(t, uint8(0x80), c.A)

	_, err = ParseHexColor("#12345")
	assert.Error(t, err)
	_, err = ParseHexColor("#zzzzzz")
	assert.Error(t, err)
}
