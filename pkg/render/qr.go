package render

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
)

// RenderQR encodes value as a QR code and returns it centered on a
// transparent interiorW by interiorH buffer. The code is scaled to the
// largest square that fits the interior.
func RenderQR(value string, interiorW, interiorH int) (*image.NRGBA, error) {
	if interiorW <= 0 || interiorH <= 0 {
		return nil, fmt.Errorf("qr zone interior is empty: %dx%d", interiorW, interiorH)
	}
	code, err := qr.Encode(value, qr.M, qr.Auto)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr value: %w", err)
	}
	side := interiorW
	if interiorH < side {
		side = interiorH
	}
	scaled, err := barcode.Scale(code, side, side)
	if err != nil {
		return nil, fmt.Errorf("failed to scale qr to %dpx: %w", side, err)
	}

	out := image.NewNRGBA(image.Rect(0, 0, interiorW, interiorH))
	ox := (interiorW - side) / 2
	oy := (interiorH - side) / 2
	draw.Draw(out, image.Rect(ox, oy, ox+side, oy+side), scaled, scaled.Bounds().Min, draw.Src)
	return out, nil
}
