// Package screen draws patterns, binary numbers and scrolling text onto an
// 8x8 pixel grid through a Display.
package screen

import (
	"errors"

	"binclock/internal/fault"
	"binclock/internal/glyph"
)

// Width and Height of the clock face in pixels.
const (
	Width  = glyph.Size
	Height = glyph.Size
)

// Display is the render sink. SetPixel fails with fault.ErrInvalidArgument
// for coordinates outside the face.
type Display interface {
	SetPixel(x, y int, on bool) error
	Clear() error
}

// CheckBounds validates a pixel coordinate for Display implementations.
func CheckBounds(x, y int) error {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return fault.InvalidArgument("pixel (%d,%d) outside %dx%d", x, y, Width, Height)
	}
	return nil
}

// Tee fans every call out to all displays and joins their errors.
type Tee []Display

func (t Tee) SetPixel(x, y int, on bool) error {
	var errs []error
	for _, d := range t {
		if err := d.SetPixel(x, y, on); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (t Tee) Clear() error {
	var errs []error
	for _, d := range t {
		if err := d.Clear(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
