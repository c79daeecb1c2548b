// Package button turns raw per-button levels into press and click edges.
package button

import (
	"strconv"
	"strings"

	"binclock/internal/fault"
)

// MaxButtons is the number of buttons a Buttons value tracks.
const MaxButtons = 4

// Well-known button indices.
const (
	Mode = iota
	Left
	Right
	Set
)

// Buttons packs the level of each button in the low nibble and a
// toggled-since-last-seen flag in the high nibble.
type Buttons uint8

func levelBit(i int) Buttons  { return 1 << i }
func toggleBit(i int) Buttons { return 1 << (i + MaxButtons) }

// Press records the current level of button i. A level that differs from
// the stored one raises the toggle flag; an unchanged level clears it, which
// is what makes WasClicked fire exactly once per release.
func (b *Buttons) Press(i int, pressed bool) error {
	if i < 0 || i >= MaxButtons {
		return fault.Range("button %d should be in [0..%d)", i, MaxButtons)
	}

	if b.IsPressed(i) != pressed {
		*b |= toggleBit(i)
	} else {
		*b &^= toggleBit(i)
	}

	if pressed {
		*b |= levelBit(i)
	} else {
		*b &^= levelBit(i)
	}
	return nil
}

// PressAll records the levels of every button in order.
func (b *Buttons) PressAll(levels [MaxButtons]bool) error {
	for i, pressed := range levels {
		if err := b.Press(i, pressed); err != nil {
			return err
		}
	}
	return nil
}

// IsPressed reports the last recorded level of button i.
// Out-of-range indices report false.
func (b Buttons) IsPressed(i int) bool {
	if i < 0 || i >= MaxButtons {
		return false
	}
	return b&levelBit(i) != 0
}

// WasClicked reports whether button i was just released.
func (b Buttons) WasClicked(i int) bool {
	if i < 0 || i >= MaxButtons {
		return false
	}
	return b&toggleBit(i) != 0 && b&levelBit(i) == 0
}

var names = [MaxButtons]string{"mode", "left", "right", "set"}

// Name returns the lower-case name of button i.
func Name(i int) string {
	if i < 0 || i >= MaxButtons {
		return "button(" + strconv.Itoa(i) + ")"
	}
	return names[i]
}

// ByName maps "mode", "left", "right" or "set" to a button index.
func ByName(name string) (int, error) {
	for i, n := range names {
		if strings.EqualFold(n, name) {
			return i, nil
		}
	}
	return 0, fault.InvalidArgument("unknown button %q", name)
}
