package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/coinburst/internal/burst"
)

type LightKind uint8

const (
	LightAmbient LightKind = iota
	LightPoint
	LightDirectional
)

// Light is a cosmetic light source. For directional lights Position is the
// direction the light comes from.
type Light struct {
	Kind      LightKind
	Color     burst.RGB
	Intensity float64
	Position  mgl64.Vec3
}

var white = burst.RGB{R: 255, G: 255, B: 255}

func DefaultLights() []Light {
	return []Light{
		{Kind: LightAmbient, Color: white, Intensity: 0.5},
		{Kind: LightPoint, Color: white, Intensity: 1.0, Position: mgl64.Vec3{5, 5, 5}},
		{Kind: LightPoint, Color: burst.RGB{R: 255, G: 240, B: 210}, Intensity: 0.6, Position: mgl64.Vec3{-5, -3, 4}},
		{Kind: LightDirectional, Color: white, Intensity: 0.8, Position: mgl64.Vec3{0, 10, 10}},
	}
}

// Material describes the coin surface.
type Material struct {
	Color     burst.RGB
	Metalness float64
	Roughness float64
}

func MaterialFrom(p burst.Params) Material {
	return Material{Color: p.Color, Metalness: p.Metalness, Roughness: p.Roughness}
}

// CoinNormal returns the face normal of a coin with the given Euler rotation
// (X, then Y, then Z, applied to the +Y axis).
func CoinNormal(rot mgl64.Vec3) mgl64.Vec3 {
	m := mgl64.Rotate3DX(rot.X()).Mul3(mgl64.Rotate3DY(rot.Y())).Mul3(mgl64.Rotate3DZ(rot.Z()))
	return m.Mul3x1(mgl64.Vec3{0, 1, 0})
}

// Shade tints the material for a surface point with normal n seen from eye.
// Coins are two-sided, so the normal is flipped to face the viewer.
func Shade(m Material, n, pos, eye mgl64.Vec3, lights []Light) burst.RGB {
	base := rgbVec(m.Color)
	view := safeNormalize(eye.Sub(pos))
	n = safeNormalize(n)
	if n.Dot(view) < 0 {
		n = n.Mul(-1)
	}

	metal := clamp01(m.Metalness)
	rough := clamp01(m.Roughness)
	diffuseWeight := 1 - metal*0.8
	specColor := lerpVec(mgl64.Vec3{1, 1, 1}, base, metal)
	shininess := 2 + (1-rough)*(1-rough)*126
	specWeight := 1 - rough*0.7

	var acc mgl64.Vec3
	for _, l := range lights {
		lc := rgbVec(l.Color).Mul(l.Intensity)
		var dir mgl64.Vec3
		switch l.Kind {
		case LightAmbient:
			acc = acc.Add(mulVec(base, lc))
			continue
		case LightPoint:
			dir = safeNormalize(l.Position.Sub(pos))
		case LightDirectional:
			dir = safeNormalize(l.Position)
		}
		ndl := math.Max(0, n.Dot(dir))
		half := safeNormalize(dir.Add(view))
		spec := math.Pow(math.Max(0, n.Dot(half)), shininess) * specWeight
		acc = acc.Add(mulVec(lc, base.Mul(diffuseWeight*ndl).Add(specColor.Mul(spec))))
	}
	return vecRGB(acc)
}

func rgbVec(c burst.RGB) mgl64.Vec3 {
	r, g, b := c.Floats()
	return mgl64.Vec3{r, g, b}
}

func vecRGB(v mgl64.Vec3) burst.RGB {
	return burst.RGB{
		R: uint8(math.Round(clamp01(v.X()) * 255)),
		G: uint8(math.Round(clamp01(v.Y()) * 255)),
		B: uint8(math.Round(clamp01(v.Z()) * 255)),
	}
}

func mulVec(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{a.X() * b.X(), a.Y() * b.Y(), a.Z() * b.Z()}
}

func lerpVec(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

func safeNormalize(v mgl64.Vec3) mgl64.Vec3 {
	if v.Len() == 0 {
		return v
	}
	return v.Normalize()
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
