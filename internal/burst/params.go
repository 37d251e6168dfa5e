package burst

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	DefaultThickness  = 0.1
	DefaultMetalness  = 0.9
	DefaultRoughness  = 0.25
	DefaultBurstPower = 0.4
	DefaultGravity    = 0.015
)

// RGB is an 8-bit colour.
type RGB struct {
	R, G, B uint8
}

var Gold = RGB{R: 0xff, G: 0xd7, B: 0x00}

// ParseHex parses "#rrggbb" or "rrggbb".
func ParseHex(s string) (RGB, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 {
		return RGB{}, fmt.Errorf("color %q: want 6 hex digits", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("color %q: %w", s, err)
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Floats returns the colour as [0,1] components.
func (c RGB) Floats() (r, g, b float64) {
	return float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255
}

// Params is the burst configuration. Only BurstPower and Gravity affect the
// simulation; the rest describe the coin material for surfaces.
type Params struct {
	Thickness  float64
	Color      RGB
	Metalness  float64
	Roughness  float64
	BurstPower float64
	Gravity    float64
}

func DefaultParams() Params {
	return Params{
		Thickness:  DefaultThickness,
		Color:      Gold,
		Metalness:  DefaultMetalness,
		Roughness:  DefaultRoughness,
		BurstPower: DefaultBurstPower,
		Gravity:    DefaultGravity,
	}
}

// ParamNames lists the numeric parameters SetParam accepts.
var ParamNames = []string{"thickness", "metalness", "roughness", "burst_power", "gravity"}

// SetParam sets a numeric parameter by its config name.
func (p *Params) SetParam(name string, v float64) error {
	switch name {
	case "thickness":
		p.Thickness = v
	case "metalness":
		p.Metalness = v
	case "roughness":
		p.Roughness = v
	case "burst_power":
		p.BurstPower = v
	case "gravity":
		p.Gravity = v
	default:
		return fmt.Errorf("unknown parameter %q", name)
	}
	return nil
}
