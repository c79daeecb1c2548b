package screen

import (
	"binclock/internal/datetime"
	"binclock/internal/fault"
	"binclock/internal/glyph"
)

const (
	// BinaryWidth is the width of one column bar of the time and date faces.
	BinaryWidth = 2
	// MinYear is the year shown as zero on the date face.
	MinYear = 2000
	// MaxYear is the last year that fits the date face.
	MaxYear = MinYear + 1<<Height - 1
)

// DrawPattern paints p over the whole face.
func DrawPattern(d Display, p glyph.Pattern) error {
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			if err := d.SetPixel(x, y, p[y]&(0x80>>x) != 0); err != nil {
				return err
			}
		}
	}
	return nil
}

// DisplayBinaryNumber draws number as a bar width columns wide starting
// at column pos, least significant bit on the bottom row.
func DisplayBinaryNumber(d Display, number, width, pos int) error {
	if number < 0 || number >= 1<<Height {
		return fault.InvalidArgument("number %d should be in [0..%d)", number, 1<<Height)
	}
	if width < 1 || width > Width {
		return fault.InvalidArgument("width %d should be in [1..%d]", width, Width)
	}
	if pos < 0 || pos > Width-width {
		return fault.InvalidArgument("pos %d should be in [0..%d]", pos, Width-width)
	}

	for bit := 0; bit < Height; bit++ {
		on := number&(1<<bit) != 0
		for x := pos; x < pos+width; x++ {
			if err := d.SetPixel(x, Height-bit-1, on); err != nil {
				return err
			}
		}
	}
	return nil
}

// DisplayTime draws hour, minute and second as three bars.
func DisplayTime(d Display, dt datetime.DateTime) error {
	return displayTriple(d, dt.Hour, dt.Minute, dt.Second)
}

// DisplayDate draws month, day and the year offset from MinYear as three bars.
func DisplayDate(d Display, dt datetime.DateTime) error {
	if dt.Year < MinYear || dt.Year > MaxYear {
		return fault.Range("year %d should be in [%d..%d]", dt.Year, MinYear, MaxYear)
	}
	return displayTriple(d, int(dt.Month), dt.Day, dt.Year-MinYear)
}

func displayTriple(d Display, a, b, c int) error {
	for i, n := range [3]int{a, b, c} {
		if err := DisplayBinaryNumber(d, n, BinaryWidth, i*(BinaryWidth+1)); err != nil {
			return err
		}
	}
	return nil
}

// SlidePattern shifts from out to the left by step columns while to comes
// in from the right. Step Width yields to and reports last.
func SlidePattern(from, to glyph.Pattern, step int) (p glyph.Pattern, last bool, err error) {
	if step < 0 || step > Width {
		return p, false, fault.Range("step %d should be in [0..%d]", step, Width)
	}
	for i := range p {
		p[i] = from[i]<<step | to[i]>>(Width-step)
	}
	return p, step == Width, nil
}

// SlideText scrolls text one column per step. The first glyph is shown at
// step 0 and the last one at step Width*(len-1), which reports last.
func SlideText(text string, step int) (glyph.Pattern, bool, error) {
	glyphs := glyph.Text(text)
	if len(glyphs) == 0 {
		return glyph.Pattern{}, false, fault.InvalidArgument("empty text")
	}
	lastStep := Width * (len(glyphs) - 1)
	if step < 0 || step > lastStep {
		return glyph.Pattern{}, false, fault.Range("step %d should be in [0..%d] for %q", step, lastStep, text)
	}

	i := step / Width
	next := glyph.Blank
	if i+1 < len(glyphs) {
		next = glyphs[i+1]
	}
	p, _, err := SlidePattern(glyphs[i], next, step%Width)
	return p, step == lastStep, err
}
