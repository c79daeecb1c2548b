package convert

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"binclock/internal/glyph"
)

// Face geometry of the LED matrix.
const (
	FaceWidth  = glyph.Size
	FaceHeight = glyph.Size

	// DefaultScale is the preview size of one LED in pixels.
	DefaultScale = 16
)

var (
	ledOn  = color.NRGBA{R: 0xff, G: 0x30, B: 0x20, A: 0xff}
	ledOff = color.NRGBA{R: 0x2a, G: 0x10, B: 0x10, A: 0xff}
	board  = color.NRGBA{R: 0x10, G: 0x10, B: 0x10, A: 0xff}
)

// PackRows converts an 8x8 image into row bytes, MSB-first, the layout the
// MAX7219 digit registers and glyph.Pattern share.
//
//   - img must be exactly FaceWidth x FaceHeight.
//   - 투명(alpha < 128) → off
//   - 밝은 픽셀(Y >= 128) → on
func PackRows(img image.Image) (glyph.Pattern, error) {
	var rows glyph.Pattern

	b := img.Bounds()
	if b.Dx() != FaceWidth || b.Dy() != FaceHeight {
		return rows, fmt.Errorf("convert: expected %dx%d, got %dx%d", FaceWidth, FaceHeight, b.Dx(), b.Dy())
	}

	for py := 0; py < FaceHeight; py++ {
		for px := 0; px < FaceWidth; px++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+px, b.Min.Y+py)).(color.NRGBA)
			if isLit(c) {
				rows[py] |= 0x80 >> px
			}
		}
	}
	return rows, nil
}

// isLit decides whether a pixel is a lit LED.
//
//   - 밝기 Y = 0.299R + 0.587G + 0.114B
func isLit(c color.NRGBA) bool {
	if c.A < 128 {
		return false
	}
	y := 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
	return y >= 128
}

// Preview renders rows as round LEDs, scale pixels each, on a dark board.
func Preview(rows glyph.Pattern, scale int) *image.NRGBA {
	if scale < 2 {
		scale = DefaultScale
	}
	img := image.NewNRGBA(image.Rect(0, 0, FaceWidth*scale, FaceHeight*scale))

	r := float64(scale)/2 - 1
	for py := 0; py < FaceHeight; py++ {
		for px := 0; px < FaceWidth; px++ {
			led := ledOff
			if rows[py]&(0x80>>px) != 0 {
				led = ledOn
			}
			cx, cy := float64(px*scale)+float64(scale)/2, float64(py*scale)+float64(scale)/2
			for y := py * scale; y < (py+1)*scale; y++ {
				for x := px * scale; x < (px+1)*scale; x++ {
					dx, dy := float64(x)+0.5-cx, float64(y)+0.5-cy
					if dx*dx+dy*dy <= r*r {
						img.SetNRGBA(x, y, led)
					} else {
						img.SetNRGBA(x, y, board)
					}
				}
			}
		}
	}
	return img
}

// WritePNG encodes a preview of rows as PNG.
func WritePNG(w io.Writer, rows glyph.Pattern, scale int) error {
	if err := png.Encode(w, Preview(rows, scale)); err != nil {
		return fmt.Errorf("convert: encode png: %w", err)
	}
	return nil
}
