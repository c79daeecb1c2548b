// Package matrix drives the clock hardware through periph.io: an 8x8 LED
// matrix behind a MAX7219 on SPI and four push buttons on GPIO.
package matrix

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"binclock/internal/screen"
)

// MAX7219 register addresses.
const (
	regDigit0      = 0x01
	regDecodeMode  = 0x09
	regIntensity   = 0x0A
	regScanLimit   = 0x0B
	regShutdown    = 0x0C
	regDisplayTest = 0x0F
)

// MaxBrightness is the highest MAX7219 intensity.
const MaxBrightness = 15

// Matrix is a screen.Display on a MAX7219. Each pixel row maps to one digit
// register; column 0 is the most significant bit.
type Matrix struct {
	mu     sync.Mutex
	conn   conn.Conn
	closer io.Closer
	rows   [screen.Height]byte
}

// Open initializes periph.io and connects to the MAX7219 on port. An empty
// port name selects the first SPI port.
func Open(port string, brightness int) (*Matrix, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("matrix: periph host init failed: %w", err)
	}

	p, err := spireg.Open(port)
	if err != nil {
		return nil, fmt.Errorf("matrix: failed to open SPI port %q: %w", port, err)
	}

	// 1MHz is well inside the MAX7219's 10MHz limit, even on long wires.
	c, err := p.Connect(physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("matrix: failed to connect SPI: %w", err)
	}

	m, err := New(c, brightness)
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	m.closer = p
	return m, nil
}

// New wakes the MAX7219 behind c with a blank face.
func New(c conn.Conn, brightness int) (*Matrix, error) {
	if brightness < 0 || brightness > MaxBrightness {
		return nil, fmt.Errorf("matrix: brightness %d should be in [0..%d]", brightness, MaxBrightness)
	}
	m := &Matrix{conn: c}

	setup := [][2]byte{
		{regDisplayTest, 0},
		{regScanLimit, screen.Height - 1},
		{regDecodeMode, 0},
		{regIntensity, byte(brightness)},
	}
	for _, w := range setup {
		if err := m.write(w[0], w[1]); err != nil {
			return nil, err
		}
	}
	if err := m.Clear(); err != nil {
		return nil, err
	}
	if err := m.write(regShutdown, 1); err != nil {
		return nil, err
	}
	return m, nil
}

// SetPixel updates one LED. Only the affected row is sent, and only when
// it changes.
func (m *Matrix) SetPixel(x, y int, on bool) error {
	if err := screen.CheckBounds(x, y); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	row := m.rows[y]
	if on {
		row |= 0x80 >> x
	} else {
		row &^= 0x80 >> x
	}
	if row == m.rows[y] {
		return nil
	}
	if err := m.write(regDigit0+byte(y), row); err != nil {
		return err
	}
	m.rows[y] = row
	return nil
}

func (m *Matrix) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for y := range m.rows {
		if err := m.write(regDigit0+byte(y), 0); err != nil {
			return err
		}
		m.rows[y] = 0
	}
	return nil
}

// Close blanks the matrix, puts the chip to sleep and releases the port.
func (m *Matrix) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	err := m.write(regShutdown, 0)
	if m.closer != nil {
		err = errors.Join(err, m.closer.Close())
	}
	return err
}

func (m *Matrix) write(reg, value byte) error {
	if err := m.conn.Tx([]byte{reg, value}, nil); err != nil {
		return fmt.Errorf("matrix: write register %#02x: %w", reg, err)
	}
	return nil
}
