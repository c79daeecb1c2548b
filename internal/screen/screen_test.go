package screen

import (
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"binclock/internal/datetime"
	"binclock/internal/fault"
	"binclock/internal/glyph"
)

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestFrame_Bounds(t *testing.T) {
	f := NewFrame()
	assert.ErrorIs(t, f.SetPixel(8, 0, true), fault.ErrInvalidArgument)
	assert.ErrorIs(t, f.SetPixel(0, -1, true), fault.ErrInvalidArgument)
	assert.Equal(t, 0, f.Writes())

	require.NoError(t, f.SetPixel(7, 7, true))
	assert.True(t, f.Pixel(7, 7))
	assert.False(t, f.Pixel(8, 8))
	assert.Equal(t, glyph.Pattern{7: 0x01}, f.Rows())

	require.NoError(t, f.Clear())
	assert.Equal(t, glyph.Blank, f.Rows())
	assert.Equal(t, 2, f.Writes())
}

func TestDrawPattern(t *testing.T) {
	f := NewFrame()
	smile, _ := glyph.Lookup(glyph.Smile)
	require.NoError(t, DrawPattern(f, smile))
	assert.Equal(t, smile, f.Rows())
	newGoldie(t).Assert(t, "smile", []byte(f.String()))
}

func TestDisplayBinaryNumber(t *testing.T) {
	f := NewFrame()
	require.NoError(t, DisplayBinaryNumber(f, 0b10000101, 1, 7))
	assert.Equal(t, glyph.Pattern{0x01, 0, 0, 0, 0, 0x01, 0, 0x01}, f.Rows())

	assert.ErrorIs(t, DisplayBinaryNumber(f, 256, 1, 0), fault.ErrInvalidArgument)
	assert.ErrorIs(t, DisplayBinaryNumber(f, -1, 1, 0), fault.ErrInvalidArgument)
	assert.ErrorIs(t, DisplayBinaryNumber(f, 1, 0, 0), fault.ErrInvalidArgument)
	assert.ErrorIs(t, DisplayBinaryNumber(f, 1, 2, 7), fault.ErrInvalidArgument)
}

func TestDisplayTime(t *testing.T) {
	f := NewFrame()
	require.NoError(t, DisplayTime(f, datetime.DateTime{Hour: 13, Minute: 37, Second: 42}))
	newGoldie(t).Assert(t, "time", []byte(f.String()))
}

func TestDisplayDate(t *testing.T) {
	f := NewFrame()
	require.NoError(t, DisplayDate(f, datetime.Date(2013, time.November, 28)))
	newGoldie(t).Assert(t, "date", []byte(f.String()))

	assert.ErrorIs(t, DisplayDate(f, datetime.Date(1999, time.January, 1)), fault.ErrRange)
	assert.ErrorIs(t, DisplayDate(f, datetime.Date(2256, time.January, 1)), fault.ErrRange)
}

func TestSlidePattern(t *testing.T) {
	from, _ := glyph.Lookup(glyph.Sad)
	to, _ := glyph.Lookup('2')

	want := []glyph.Pattern{
		{0x3c, 0x42, 0xa5, 0x81, 0x99, 0xa5, 0x42, 0x3c},
		{0x78, 0x84, 0x4a, 0x02, 0x32, 0x4a, 0x84, 0x78},
		{0xf0, 0x09, 0x94, 0x04, 0x64, 0x94, 0x09, 0xf0},
		{0xe1, 0x12, 0x28, 0x08, 0xc8, 0x29, 0x13, 0xe0},
		{0xc3, 0x24, 0x50, 0x10, 0x91, 0x52, 0x27, 0xc0},
		{0x87, 0x48, 0xa0, 0x21, 0x22, 0xa4, 0x4f, 0x80},
		{0x0e, 0x91, 0x41, 0x42, 0x44, 0x48, 0x9f, 0x00},
		{0x1c, 0x22, 0x82, 0x84, 0x88, 0x90, 0x3e, 0x00},
		{0x38, 0x44, 0x04, 0x08, 0x10, 0x20, 0x7c, 0x00},
	}
	for step, w := range want {
		got, last, err := SlidePattern(from, to, step)
		require.NoError(t, err)
		assert.Equal(t, w, got, "step %d", step)
		assert.Equal(t, step == Width, last, "step %d", step)
	}

	_, _, err := SlidePattern(from, to, Width+1)
	assert.ErrorIs(t, err, fault.ErrRange)
}

func TestSlideText(t *testing.T) {
	var frames []string
	for step := 0; ; step++ {
		p, last, err := SlideText("Hi!", step)
		require.NoError(t, err)
		frames = append(frames, Dump(p))
		if last {
			assert.Equal(t, 16, step)
			break
		}
	}
	newGoldie(t).Assert(t, "slide_text", []byte(strings.Join(frames, "\n")))

	_, _, err := SlideText("Hi!", 17)
	assert.ErrorIs(t, err, fault.ErrRange)
	_, _, err = SlideText("", 0)
	assert.ErrorIs(t, err, fault.ErrInvalidArgument)

	p, last, err := SlideText("7", 0)
	require.NoError(t, err)
	assert.True(t, last)
	seven, _ := glyph.Lookup('7')
	assert.Equal(t, seven, p)
}

func TestTee(t *testing.T) {
	a, b := NewFrame(), NewFrame()
	tee := Tee{a, b}
	require.NoError(t, tee.SetPixel(3, 4, true))
	assert.True(t, a.Pixel(3, 4))
	assert.True(t, b.Pixel(3, 4))

	assert.ErrorIs(t, tee.SetPixel(9, 9, true), fault.ErrInvalidArgument)
	require.NoError(t, tee.Clear())
	assert.False(t, b.Pixel(3, 4))
}
