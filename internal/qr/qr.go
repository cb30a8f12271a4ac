// Package qr renders credential tokens as QR code images and recovers token
// strings from uploaded photos or screenshots.
package qr

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/makiuchi-d/gozxing"
	zxqrcode "github.com/makiuchi-d/gozxing/qrcode"
	"github.com/skip2/go-qrcode"
)

const (
	// DefaultModulePixels is the rendered size of one QR module in pixels.
	DefaultModulePixels = 6

	// maxScanPixels bounds the work done on uploaded images. A legitimate
	// phone photo is well under this; anything larger is rejected before
	// the detector runs.
	maxScanPixels = 4096 * 4096
)

// Render produces a PNG image of a QR code encoding text. Medium error
// correction leaves enough capacity for tokens a few hundred characters
// long while still tolerating partial damage to the printed code. The
// standard four-module quiet zone is included.
func Render(text string, modulePixels int) ([]byte, error) {
	if modulePixels <= 0 {
		modulePixels = DefaultModulePixels
	}

	code, err := qrcode.New(text, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("render qr: %w", err)
	}

	// Negative size renders each module at the given pixel count instead
	// of scaling to a fixed image width.
	png, err := code.PNG(-modulePixels)
	if err != nil {
		return nil, fmt.Errorf("render qr: %w", err)
	}

	return png, nil
}

// Scan decodes a PNG or JPEG image and searches it for a QR code, returning
// the embedded text. A readable image with no decodable QR region returns
// ok=false with a nil error: absence of a code in a noisy photo is an
// expected outcome, not a fault. Only unreadable or oversized image data
// produces an error.
func Scan(r io.Reader) (text string, ok bool, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", false, fmt.Errorf("scan qr: read image: %w", err)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", false, fmt.Errorf("scan qr: not a decodable image: %w", err)
	}
	if cfg.Width*cfg.Height > maxScanPixels {
		return "", false, fmt.Errorf("scan qr: image too large (%dx%d)", cfg.Width, cfg.Height)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", false, fmt.Errorf("scan qr: decode image: %w", err)
	}

	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", false, nil
	}

	// TryHarder makes the detector spend extra effort on rotated, skewed
	// and low-contrast inputs, which real uploads usually are.
	hints := map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER: true,
	}

	result, err := zxqrcode.NewQRCodeReader().Decode(bmp, hints)
	if err != nil {
		return "", false, nil
	}

	return result.GetText(), true, nil
}
