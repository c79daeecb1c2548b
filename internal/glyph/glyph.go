// Package glyph holds the 8x8 alphabet of the clock face.
package glyph

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Size is the width and height of a glyph in pixels.
const Size = 8

// Pattern is an 8x8 bitmap, one byte per row, most significant bit on the
// left.
type Pattern [Size]byte

// Icons outside the printable range.
const (
	Smile rune = '\x01'
	Sad   rune = '\x02'
)

var (
	Blank = Pattern{}

	digits = [10]Pattern{
		{0x38, 0x44, 0x4c, 0x54, 0x64, 0x44, 0x38, 0x00},
		{0x08, 0x18, 0x28, 0x08, 0x08, 0x08, 0x08, 0x00},
		{0x38, 0x44, 0x04, 0x08, 0x10, 0x20, 0x7c, 0x00},
		{0x38, 0x44, 0x04, 0x18, 0x04, 0x44, 0x38, 0x00},
		{0x44, 0x44, 0x44, 0x3c, 0x04, 0x04, 0x04, 0x00},
		{0x7c, 0x40, 0x78, 0x04, 0x04, 0x44, 0x38, 0x00},
		{0x38, 0x40, 0x40, 0x78, 0x44, 0x44, 0x38, 0x00},
		{0x7c, 0x04, 0x04, 0x08, 0x10, 0x10, 0x10, 0x00},
		{0x38, 0x44, 0x44, 0x38, 0x44, 0x44, 0x38, 0x00},
		{0x38, 0x44, 0x44, 0x3c, 0x04, 0x04, 0x38, 0x00},
	}

	letters = [26]Pattern{
		{0x10, 0x28, 0x44, 0x44, 0x7c, 0x44, 0x44, 0x00},
		{0x70, 0x48, 0x48, 0x78, 0x44, 0x44, 0x7c, 0x00},
		{0x38, 0x44, 0x40, 0x40, 0x40, 0x44, 0x38, 0x00},
		{0x70, 0x48, 0x44, 0x44, 0x44, 0x48, 0x70, 0x00},
		{0x7c, 0x40, 0x40, 0x78, 0x40, 0x40, 0x7c, 0x00},
		{0x7c, 0x40, 0x40, 0x78, 0x40, 0x40, 0x40, 0x00},
		{0x3c, 0x44, 0x40, 0x40, 0x4c, 0x44, 0x38, 0x00},
		{0x44, 0x44, 0x44, 0x7c, 0x44, 0x44, 0x44, 0x00},
		{0x38, 0x10, 0x10, 0x10, 0x10, 0x10, 0x38, 0x00},
		{0x0c, 0x04, 0x04, 0x04, 0x04, 0x24, 0x18, 0x00},
		{0x44, 0x48, 0x50, 0x60, 0x50, 0x48, 0x44, 0x00},
		{0x40, 0x40, 0x40, 0x40, 0x40, 0x40, 0x7c, 0x00},
		{0x44, 0x6c, 0x54, 0x44, 0x44, 0x44, 0x44, 0x00},
		{0x44, 0x64, 0x64, 0x54, 0x4c, 0x4c, 0x44, 0x00},
		{0x38, 0x44, 0x44, 0x44, 0x44, 0x44, 0x38, 0x00},
		{0x78, 0x44, 0x44, 0x78, 0x40, 0x40, 0x40, 0x00},
		{0x38, 0x44, 0x44, 0x44, 0x54, 0x54, 0x38, 0x00},
		{0x78, 0x44, 0x44, 0x78, 0x60, 0x50, 0x4c, 0x00},
		{0x38, 0x44, 0x40, 0x38, 0x04, 0x44, 0x38, 0x00},
		{0x7c, 0x10, 0x10, 0x10, 0x10, 0x10, 0x10, 0x00},
		{0x44, 0x44, 0x44, 0x44, 0x44, 0x44, 0x38, 0x00},
		{0x44, 0x44, 0x44, 0x44, 0x44, 0x28, 0x10, 0x00},
		{0x44, 0x44, 0x44, 0x54, 0x54, 0x54, 0x28, 0x00},
		{0x44, 0x44, 0x28, 0x10, 0x28, 0x44, 0x44, 0x00},
		{0x44, 0x44, 0x44, 0x28, 0x10, 0x10, 0x10, 0x00},
		{0x7c, 0x04, 0x08, 0x10, 0x20, 0x40, 0x7c, 0x00},
	}

	symbols = map[rune]Pattern{
		' ':   Blank,
		'+':   {0x00, 0x10, 0x10, 0x7c, 0x10, 0x10, 0x00, 0x00},
		'-':   {0x00, 0x00, 0x00, 0x7e, 0x00, 0x00, 0x00, 0x00},
		'*':   {0x00, 0x44, 0x28, 0x10, 0x28, 0x44, 0x00, 0x00},
		'/':   {0x00, 0x02, 0x04, 0x08, 0x10, 0x20, 0x40, 0x00},
		':':   {0x00, 0x18, 0x18, 0x00, 0x00, 0x18, 0x18, 0x00},
		'.':   {0x00, 0x00, 0x00, 0x00, 0x00, 0x18, 0x18, 0x00},
		'!':   {0x18, 0x18, 0x18, 0x18, 0x00, 0x18, 0x18, 0x00},
		'(':   {0x08, 0x10, 0x20, 0x20, 0x20, 0x10, 0x08, 0x00},
		')':   {0x20, 0x10, 0x08, 0x08, 0x08, 0x10, 0x20, 0x00},
		'\'':  {0x18, 0x18, 0x08, 0x10, 0x00, 0x00, 0x00, 0x00},
		Smile: {0x3c, 0x42, 0xa5, 0x81, 0xa5, 0x99, 0x42, 0x3c},
		Sad:   {0x3c, 0x42, 0xa5, 0x81, 0x99, 0xa5, 0x42, 0x3c},
	}
)

// Lookup returns the glyph for r. Lowercase letters are drawn as uppercase
// and characters without a glyph as Blank; both report exact == false.
func Lookup(r rune) (p Pattern, exact bool) {
	switch {
	case r >= '0' && r <= '9':
		return digits[r-'0'], true
	case r >= 'A' && r <= 'Z':
		return letters[r-'A'], true
	case r >= 'a' && r <= 'z':
		return letters[r-'a'], false
	}
	if p, ok := symbols[r]; ok {
		return p, true
	}
	return Blank, false
}

// Fold strips diacritics so that accented letters fall back to their base
// glyph, e.g. "Père Noël" becomes "Pere Noel".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Text returns the glyphs of s after folding, one per rune.
func Text(s string) []Pattern {
	s = Fold(s)
	out := make([]Pattern, 0, len(s))
	for _, r := range s {
		p, _ := Lookup(r)
		out = append(out, p)
	}
	return out
}

// Printable reports whether every rune of s has an exact glyph once folded
// and uppercased.
func Printable(s string) bool {
	for _, r := range strings.ToUpper(Fold(s)) {
		if _, exact := Lookup(r); !exact {
			return false
		}
	}
	return true
}
