package scanconfig

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is a packed 32-bit ARGB value.
type Color uint32

// ParseColor parses "#AARRGGBB" or "#RRGGBB" (alpha defaults to FF).
// The leading '#' is optional.
func ParseColor(s string) (Color, error) {
	h := strings.TrimPrefix(s, "#")
	switch len(h) {
	case 6:
		h = "FF" + h
	case 8:
	default:
		return 0, fmt.Errorf("color %q: %w", s, ErrOutOfRange)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("color %q: %w", s, ErrOutOfRange)
	}
	return Color(v), nil
}

// Hex formats c as "#AARRGGBB" with uppercase digits.
func (c Color) Hex() string { return fmt.Sprintf("#%08X", uint32(c)) }

func (c Color) String() string { return c.Hex() }

// A, R, G and B return the individual channels.
func (c Color) A() uint8 { return uint8(c >> 24) }
func (c Color) R() uint8 { return uint8(c >> 16) }
func (c Color) G() uint8 { return uint8(c >> 8) }
func (c Color) B() uint8 { return uint8(c) }
