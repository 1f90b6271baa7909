package core

import (
	"strconv"
	"strings"
)

// Color is a hex colour string ("#2196F3" or "#2196F3CC"). The core passes
// colours through untouched; RGBA is only computed for backends that need it.
type Color string

// RGBA holds normalized colour channels in [0, 1].
type RGBA struct {
	R, G, B, A float64
}

// RGBA converts the colour with full opacity. Malformed values yield black.
func (c Color) RGBA() RGBA {
	return c.WithAlpha(1)
}

// WithAlpha converts the colour and overrides its alpha channel.
func (c Color) WithAlpha(alpha float64) RGBA {
	hex := strings.ToUpper(strings.TrimPrefix(string(c), "#"))
	if len(hex) != 6 && len(hex) != 8 {
		return RGBA{A: alpha}
	}

	channel := func(s string) float64 {
		v, err := strconv.ParseUint(s, 16, 8)
		if err != nil {
			return 0
		}
		return float64(v) / 255.0
	}

	return RGBA{
		R: channel(hex[0:2]),
		G: channel(hex[2:4]),
		B: channel(hex[4:6]),
		A: alpha,
	}
}
