package sizing

import (
	"fmt"
	"math"
)

// nudgeStep is the pixel distance one unit of nudge moves an axis.
const nudgeStep = AlignUnit / 2

// CropCase identifies which side of the original is structurally cropped.
type CropCase int

const (
	// CropEqual means the original already has the target's aspect.
	CropEqual CropCase = iota
	// CropWide means the original is wider than the target.
	CropWide
	// CropTall means the original is taller than the target.
	CropTall
)

// String returns the string representation of a crop case.
func (c CropCase) String() string {
	switch c {
	case CropEqual:
		return "equal"
	case CropWide:
		return "wide"
	case CropTall:
		return "tall"
	default:
		return "unknown"
	}
}

// CropInput holds the sizes the crop calculator compares.
type CropInput struct {
	Width        int     // Original width
	Height       int     // Original height
	TargetWidth  int     // Generation width
	TargetHeight int     // Generation height
	CropExtra    float64 // Extra fraction cropped from every side (0.0-1.0)
	NoCrop       bool    // Report no crop and fit the original inside the target
}

// CropGeometry describes how an original maps onto the generation size.
type CropGeometry struct {
	Case   CropCase
	CropW  int
	CropH  int
	ExtraW int // Part of CropW contributed by CropExtra
	ExtraH int // Part of CropH contributed by CropExtra
	// ExcessW and ExcessH are the structural overhang that has to be cropped
	// once the original is scaled to cover the target.
	ExcessW int
	ExcessH int
	// ScaledWidth and ScaledHeight are the original's size after scaling by
	// ScaleFactor to cover the target.
	ScaledWidth  int
	ScaledHeight int
	ScaleFactor  float64
	// Downscale is the raw factor before BlendDownscale.
	Downscale float64
}

// ComputeCrop computes crop offsets and the raw downscale factor.
//
// Integer results follow truncation toward zero followed by floor division
// by two, so nudged inputs with negative excess still round consistently.
// This is a pure function with no side effects.
func ComputeCrop(in CropInput) (CropGeometry, error) {
	if in.Width <= 0 || in.Height <= 0 {
		return CropGeometry{}, fmt.Errorf("%w: original size %dx%d must be positive",
			ErrFormat, in.Width, in.Height)
	}
	if in.TargetWidth <= 0 || in.TargetHeight <= 0 {
		return CropGeometry{}, fmt.Errorf("%w: target size %dx%d must be positive",
			ErrDomain, in.TargetWidth, in.TargetHeight)
	}

	w, h := float64(in.Width), float64(in.Height)
	tw, th := float64(in.TargetWidth), float64(in.TargetHeight)
	e := in.CropExtra

	g := CropGeometry{
		ExtraW: floorHalf(int(tw * e)),
		ExtraH: floorHalf(int(th * e)),
	}

	switch {
	case w/h == tw/th:
		g.Case = CropEqual
		g.ScaledWidth, g.ScaledHeight = in.TargetWidth, in.TargetHeight
		g.ScaleFactor = tw / w
		g.CropW = g.ExtraW
		g.CropH = g.ExtraH
		g.Downscale = (1 - e) * w / tw
	case w/h > tw/th:
		g.Case = CropWide
		x0 := int(w * th / h)
		g.ExcessW = x0 - in.TargetWidth
		g.ScaledWidth, g.ScaledHeight = x0, in.TargetHeight
		g.ScaleFactor = th / h
		g.CropW = floorHalf(int(float64(g.ExcessW) + tw*e))
		g.CropH = g.ExtraH
		g.Downscale = (1 - e) * h / th
	default:
		g.Case = CropTall
		x0 := int(h * tw / w)
		g.ExcessH = x0 - in.TargetHeight
		g.ScaledWidth, g.ScaledHeight = in.TargetWidth, x0
		g.ScaleFactor = tw / w
		g.CropW = g.ExtraW
		g.CropH = floorHalf(int(float64(g.ExcessH) + th*e))
		g.Downscale = (1 - e) * w / tw
	}

	if in.NoCrop {
		g.CropW, g.CropH = 0, 0
		g.Downscale = math.Min(w/tw, h/th)
	}

	return g, nil
}

// BlendDownscale mixes the raw downscale with "no resize" by effect.
// Effect 0 reports 1.0, effect 1 reports raw. The result never exceeds 1.0.
//
// This is a pure function with no side effects.
func BlendDownscale(raw, effect float64) float64 {
	return math.Min(1-(1-raw)*effect, 1.0)
}

// Axis names a dimension of the original size.
type Axis int

const (
	AxisWidth Axis = iota
	AxisHeight
)

func (a Axis) String() string {
	if a == AxisHeight {
		return "h"
	}
	return "w"
}

// Nudge overrides one original dimension by Amount half-units of alignment.
type Nudge struct {
	Axis   Axis
	Amount float64
}

// Apply recomputes the nudged side of (w, h) from the other side, as if the
// target were Amount·32 pixels larger along the nudged axis. The result
// deliberately disagrees with the strict aspect match to bias the crop.
func (n Nudge) Apply(w, h, tw, th int) (int, int) {
	switch n.Axis {
	case AxisHeight:
		h = int(math.Round(float64(w) / float64(tw) * (float64(th) + n.Amount*nudgeStep)))
	default:
		w = int(math.Round(float64(h) / float64(th) * (float64(tw) + n.Amount*nudgeStep)))
	}
	return w, h
}

// OriginalSize resolves the parsed original resolution against the target.
//
// A pair is used as-is. A scale factor multiplies the target. A single
// dimension is paired with a side computed from aspect; which side it
// names depends on the interpretation mode.
func OriginalSize(orig ParsedSize, target Bucket, aspect float64, mode Interpretation) (int, int, error) {
	var w, h int
	switch orig.Kind {
	case SizePair:
		w, h = orig.W, orig.H
	case SizeScale:
		w = int(orig.Scale * float64(target.Width))
		h = int(orig.Scale * float64(target.Height))
	default:
		n := float64(orig.N)
		landscape := target.Width > target.Height
		switch mode {
		case InterpretShortSide:
			if landscape {
				w, h = int(n*aspect), orig.N
			} else {
				w, h = orig.N, int(n/aspect)
			}
		case InterpretEquivalent:
			root := math.Sqrt(aspect)
			w, h = int(n*root), int(n/root)
		default:
			if landscape {
				w, h = orig.N, int(n/aspect)
			} else {
				w, h = int(n*aspect), orig.N
			}
		}
	}

	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("%w: original resolution %s resolves to %dx%d",
			ErrFormat, orig, w, h)
	}
	return w, h, nil
}

// floorHalf divides by two rounding toward negative infinity.
func floorHalf(n int) int {
	if n < 0 {
		return -((-n + 1) / 2)
	}
	return n / 2
}
