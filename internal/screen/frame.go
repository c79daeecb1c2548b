package screen

import (
	"image"
	"strings"
	"sync"

	"periph.io/x/devices/v3/ssd1306/image1bit"

	"binclock/internal/glyph"
)

// Frame is an in-memory Display backed by a 1bpp framebuffer. It is safe
// for one writer and concurrent readers.
type Frame struct {
	mu     sync.RWMutex
	img    *image1bit.VerticalLSB
	writes int
}

// NewFrame returns a blank frame.
func NewFrame() *Frame {
	return &Frame{img: image1bit.NewVerticalLSB(image.Rect(0, 0, Width, Height))}
}

func (f *Frame) SetPixel(x, y int, on bool) error {
	if err := CheckBounds(x, y); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.img.SetBit(x, y, image1bit.Bit(on))
	f.writes++
	return nil
}

func (f *Frame) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.img.Pix {
		f.img.Pix[i] = 0
	}
	f.writes++
	return nil
}

// Pixel reports whether (x, y) is lit. Out-of-range pixels are dark.
func (f *Frame) Pixel(x, y int) bool {
	if CheckBounds(x, y) != nil {
		return false
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return bool(f.img.BitAt(x, y))
}

// Writes counts SetPixel and Clear calls since the frame was created.
func (f *Frame) Writes() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.writes
}

// Rows returns the frame as a pattern, most significant bit on the left.
func (f *Frame) Rows() glyph.Pattern {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var p glyph.Pattern
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			if f.img.BitAt(x, y) {
				p[y] |= 0x80 >> x
			}
		}
	}
	return p
}

// Image returns a copy of the framebuffer.
func (f *Frame) Image() *image1bit.VerticalLSB {
	f.mu.RLock()
	defer f.mu.RUnlock()
	cp := image1bit.NewVerticalLSB(f.img.Rect)
	copy(cp.Pix, f.img.Pix)
	return cp
}

// String dumps the frame as eight lines of '#' and '.'.
func (f *Frame) String() string {
	return Dump(f.Rows())
}

// Dump renders a pattern as eight lines of '#' and '.'.
func Dump(p glyph.Pattern) string {
	var b strings.Builder
	for _, row := range p {
		for x := 0; x < Width; x++ {
			if row&(0x80>>x) != 0 {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
