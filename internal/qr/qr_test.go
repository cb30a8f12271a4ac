package qr

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderScan_RoundTrip(t *testing.T) {
	texts := []string{
		"hello",
		"https://example.com/show-qr?data=abc123",
		strings.Repeat("x", 200), // typical encrypted token length upper bound
	}

	for _, text := range texts {
		data, err := Render(text, DefaultModulePixels)
		require.NoError(t, err)
		assert.NotEmpty(t, data)

		got, ok, err := Scan(bytes.NewReader(data))
		require.NoError(t, err)
		require.True(t, ok, "rendered code must scan back")
		assert.Equal(t, text, got)
	}
}

func TestRender_ModuleSizeDefault(t *testing.T) {
	data, err := Render("abc", 0)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Greater(t, img.Bounds().Dx(), 0)
}

func TestScan_BlankImage(t *testing.T) {
	// A plain white image contains no code: expected miss, not an error.
	img := image.NewRGBA(image.Rect(0, 0, 120, 120))
	for y := 0; y < 120; y++ {
		for x := 0; x < 120; x++ {
			img.Set(x, y, color.White)
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	_, ok, err := Scan(&buf)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestScan_NotAnImage(t *testing.T) {
	_, ok, err := Scan(strings.NewReader("this is not an image"))
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestScan_RejectsOversizedImage(t *testing.T) {
	// The dimension check runs on the header alone, before any pixel data
	// is decoded, so a bare IHDR claiming 5000x5000 is enough to trip it.
	data := pngHeader(t, 5000, 5000)

	_, ok, err := Scan(bytes.NewReader(data))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too large")
	assert.False(t, ok)
}

func TestScan_AcceptsLargeButBoundedImage(t *testing.T) {
	// At the cap's edge the header check must pass; decode then fails on
	// the truncated body, which still surfaces as an error rather than a
	// hang on a huge allocation.
	data := pngHeader(t, 4096, 4096)

	_, ok, err := Scan(bytes.NewReader(data))
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "too large")
	assert.False(t, ok)
}

// pngHeader builds the PNG signature plus a valid IHDR chunk (truecolor,
// 8-bit) declaring the given dimensions, with no pixel data behind it.
func pngHeader(t *testing.T, width, height uint32) []byte {
	t.Helper()

	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:4], width)
	binary.BigEndian.PutUint32(ihdr[4:8], height)
	ihdr[8] = 8 // bit depth
	ihdr[9] = 2 // color type: truecolor

	chunk := append([]byte("IHDR"), ihdr...)

	var buf bytes.Buffer
	buf.Write([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'})

	var word [4]byte
	binary.BigEndian.PutUint32(word[:], uint32(len(ihdr)))
	buf.Write(word[:])
	buf.Write(chunk)
	binary.BigEndian.PutUint32(word[:], crc32.ChecksumIEEE(chunk))
	buf.Write(word[:])

	return buf.Bytes()
}
