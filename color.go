package glslfx

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/soypat/geometry/ms3"
	"golang.org/x/image/colornames"
)

// MaxColorSlots caps the user-managed color slot list.
const MaxColorSlots = 5

var errBadColor = errors.New("unparseable color")

// ParseColor converts a "#rrggbb" (or short "#rgb") hex string or an SVG 1.1
// color name such as "tomato" to RGB channels in [0,1].
func ParseColor(s string) (ms3.Vec, error) {
	if !strings.HasPrefix(s, "#") {
		c, ok := colornames.Map[strings.ToLower(strings.TrimSpace(s))]
		if !ok {
			return ms3.Vec{}, fmt.Errorf("%w: %q", errBadColor, s)
		}
		return ms3.Vec{X: float32(c.R) / 255, Y: float32(c.G) / 255, Z: float32(c.B) / 255}, nil
	}
	hex := s[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return ms3.Vec{}, fmt.Errorf("%w: %q", errBadColor, s)
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return ms3.Vec{}, fmt.Errorf("%w: %q", errBadColor, s)
	}
	return ms3.Vec{
		X: float32(n>>16&0xff) / 255,
		Y: float32(n>>8&0xff) / 255,
		Z: float32(n&0xff) / 255,
	}, nil
}

// FormatColor converts RGB channels in [0,1] to a "#rrggbb" hex string.
// Channels are clamped to the displayable range.
func FormatColor(rgb ms3.Vec) string {
	return fmt.Sprintf("#%02x%02x%02x", channelByte(rgb.X), channelByte(rgb.Y), channelByte(rgb.Z))
}

func channelByte(v float32) uint8 {
	if v <= 0 {
		return 0
	} else if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
