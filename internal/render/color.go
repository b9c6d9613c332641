package render

import (
	"github.com/lucasb-eyer/go-colorful"
)

// Balance colours. Anything outside [-1, 1] is a broken tree.
var (
	ColorLeftHeavy  = colorful.Color{R: 0.35, G: 0.55, B: 1.0}
	ColorBalanced   = colorful.Color{R: 0.35, G: 0.85, B: 0.45}
	ColorRightHeavy = colorful.Color{R: 1.0, G: 0.62, B: 0.2}
	ColorBroken     = colorful.Color{R: 1.0, G: 0.15, B: 0.15}
	ColorEdge       = colorful.Color{R: 0.55, G: 0.55, B: 0.6}
	ColorCursor     = colorful.Color{R: 1.0, G: 1.0, B: 0.4}
)

// BalanceColor returns the colour for a balance factor.
func BalanceColor(balance int) colorful.Color {
	switch balance {
	case -1:
		return ColorLeftHeavy
	case 0:
		return ColorBalanced
	case 1:
		return ColorRightHeavy
	default:
		return ColorBroken
	}
}

// WeightedColor fades c toward grey for nodes holding a small share of the
// tree. size is the subtree size and total the tree length.
func WeightedColor(c colorful.Color, size, total int) colorful.Color {
	if total <= 0 || size >= total {
		return c
	}
	share := float64(size) / float64(total)
	grey := colorful.Color{R: 0.5, G: 0.5, B: 0.5}
	// Keep at least half the hue so leaves stay readable.
	return grey.BlendLab(c, 0.5+0.5*share).Clamped()
}
