package matrix

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"binclock/internal/button"
)

// Buttons reads push buttons wired between a GPIO and ground. Pins are
// pulled up, so a low level means pressed.
type Buttons struct {
	pins [button.MaxButtons]gpio.PinIn
}

// OpenButtons resolves the named pins through gpioreg, in button order
// (mode, left, right, set).
func OpenButtons(names []string) (*Buttons, error) {
	if len(names) != button.MaxButtons {
		return nil, fmt.Errorf("matrix: need %d button pins, got %d", button.MaxButtons, len(names))
	}
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("matrix: periph host init failed: %w", err)
	}

	pins := make([]gpio.PinIn, 0, len(names))
	for _, name := range names {
		p := gpioreg.ByName(name)
		if p == nil {
			return nil, fmt.Errorf("matrix: gpio %s not found", name)
		}
		pins = append(pins, p)
	}
	return NewButtons(pins...)
}

// NewButtons configures pins as pulled-up inputs.
func NewButtons(pins ...gpio.PinIn) (*Buttons, error) {
	if len(pins) != button.MaxButtons {
		return nil, fmt.Errorf("matrix: need %d button pins, got %d", button.MaxButtons, len(pins))
	}
	b := &Buttons{}
	for i, p := range pins {
		if err := p.In(gpio.PullUp, gpio.NoEdge); err != nil {
			return nil, fmt.Errorf("matrix: gpio %s In failed: %w", p, err)
		}
		b.pins[i] = p
	}
	return b, nil
}

// Levels samples every button; true means pressed.
func (b *Buttons) Levels() [button.MaxButtons]bool {
	var levels [button.MaxButtons]bool
	for i, p := range b.pins {
		levels[i] = p.Read() == gpio.Low
	}
	return levels
}
