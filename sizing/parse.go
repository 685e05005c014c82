package sizing

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// SizeKind identifies which variant a ParsedSize holds.
type SizeKind int

const (
	// SizeInt is a single dimension, e.g. "1024".
	SizeInt SizeKind = iota
	// SizePair is a width/height pair, e.g. "800x1200" or "2:3".
	SizePair
	// SizeScale is a scale factor, e.g. "2.0".
	SizeScale
)

// String returns the string representation of a size kind.
func (k SizeKind) String() string {
	switch k {
	case SizeInt:
		return "int"
	case SizePair:
		return "pair"
	case SizeScale:
		return "scale"
	default:
		return "unknown"
	}
}

// TrainingResolution is the native resolution the bucket tables were built for.
// A scale-factor native resolution is relative to it.
const TrainingResolution = 1024

// ParsedSize is the tagged result of parsing a resolution or ratio token.
// Only the fields belonging to Kind are meaningful.
type ParsedSize struct {
	Kind  SizeKind
	N     int     // SizeInt
	W, H  int     // SizePair
	Scale float64 // SizeScale
}

// Int returns a ParsedSize holding a single dimension.
func Int(n int) ParsedSize { return ParsedSize{Kind: SizeInt, N: n} }

// Pair returns a ParsedSize holding a width/height pair.
func Pair(w, h int) ParsedSize { return ParsedSize{Kind: SizePair, W: w, H: h} }

// Scale returns a ParsedSize holding a scale factor.
func Scale(s float64) ParsedSize { return ParsedSize{Kind: SizeScale, Scale: s} }

// Ratio returns W/H for pairs. The second value is false for other kinds or
// a zero height.
func (p ParsedSize) Ratio() (float64, bool) {
	if p.Kind != SizePair || p.H == 0 {
		return 0, false
	}
	return float64(p.W) / float64(p.H), true
}

func (p ParsedSize) String() string {
	switch p.Kind {
	case SizePair:
		return fmt.Sprintf("%dx%d", p.W, p.H)
	case SizeScale:
		return strconv.FormatFloat(p.Scale, 'f', -1, 64)
	default:
		return strconv.Itoa(p.N)
	}
}

// keptRunes are the only characters the integer/pair grammar looks at.
const keptRunes = "1234567890xXby*:-"

// separatorReplacer folds every separator spelling into the canonical "x".
// "by" must be replaced before the single-rune forms.
var separatorReplacer = strings.NewReplacer("by", "x", "*", "x", ":", "x", "X", "x")

// ParseSize parses a free-form resolution or ratio token.
//
// Text containing a decimal point is always a scale factor, even if it also
// contains a separator. Otherwise every character outside digits, separators
// and minus signs is dropped, and the text is split once at the first
// separator. "1x2x3" therefore fails: the right half "2x3" is not an integer.
//
// This is a pure function with no side effects.
func ParseSize(text string) (ParsedSize, error) {
	if strings.Contains(text, ".") {
		s, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			return ParsedSize{}, fmt.Errorf("%w: %q is not a decimal", ErrFormat, text)
		}
		return Scale(s), nil
	}

	var b strings.Builder
	for _, r := range text {
		if strings.ContainsRune(keptRunes, r) {
			b.WriteRune(r)
		}
	}
	stripped := separatorReplacer.Replace(b.String())
	if stripped == "" {
		return ParsedSize{}, fmt.Errorf("%w: %q contains no dimensions", ErrFormat, text)
	}

	if left, right, found := strings.Cut(stripped, "x"); found {
		w, err := strconv.Atoi(left)
		if err != nil {
			return ParsedSize{}, fmt.Errorf("%w: width %q in %q", ErrFormat, left, text)
		}
		h, err := strconv.Atoi(right)
		if err != nil {
			return ParsedSize{}, fmt.Errorf("%w: height %q in %q", ErrFormat, right, text)
		}
		return Pair(w, h), nil
	}

	n, err := strconv.Atoi(stripped)
	if err != nil {
		return ParsedSize{}, fmt.Errorf("%w: %q is not an integer", ErrFormat, text)
	}
	return Int(n), nil
}

// ratioSeparators are accepted between the two halves of an option ratio.
const ratioSeparators = ":x*/"

// ParseRatio parses an option argument written either as a decimal ("1.5")
// or as two integers joined by one of ':', 'x', '*' or '/' ("3:2", "16/9").
//
// This is a pure function with no side effects.
func ParseRatio(text string) (float64, error) {
	text = strings.TrimSpace(text)
	if i := strings.IndexAny(text, ratioSeparators); i >= 0 {
		num, err := strconv.Atoi(text[:i])
		if err != nil {
			return 0, fmt.Errorf("%w: ratio numerator %q", ErrFormat, text[:i])
		}
		den, err := strconv.Atoi(text[i+1:])
		if err != nil {
			return 0, fmt.Errorf("%w: ratio denominator %q", ErrFormat, text[i+1:])
		}
		if den <= 0 {
			return 0, fmt.Errorf("%w: ratio denominator must be positive, got %d", ErrFormat, den)
		}
		return float64(num) / float64(den), nil
	}

	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is neither a ratio nor a decimal", ErrFormat, text)
	}
	return v, nil
}

// NativeResolution reduces a parsed native resolution to a single side length.
// A pair gives the side of the square with the same area; a scale factor is
// relative to TrainingResolution.
func NativeResolution(p ParsedSize) (int, error) {
	var n int
	switch p.Kind {
	case SizePair:
		n = int(math.Sqrt(float64(p.W) * float64(p.H)))
	case SizeScale:
		n = int(p.Scale * TrainingResolution)
	default:
		n = p.N
	}
	if n <= 0 {
		return 0, fmt.Errorf("%w: native resolution %s must be positive", ErrFormat, p)
	}
	return n, nil
}

// AspectFrom turns a parsed aspect token into a width/height ratio.
//
// The integer -1 means "use the original resolution's ratio" when the
// original is a pair, and square otherwise. Non-positive values fall back
// to square.
func AspectFrom(aspect, original ParsedSize) (float64, error) {
	switch aspect.Kind {
	case SizePair:
		r, ok := aspect.Ratio()
		if !ok {
			return 0, fmt.Errorf("%w: aspect %s has a zero height", ErrFormat, aspect)
		}
		if r <= 0 {
			return 1.0, nil
		}
		return r, nil
	case SizeScale:
		if aspect.Scale <= 0 || math.IsNaN(aspect.Scale) || math.IsInf(aspect.Scale, 0) {
			return 1.0, nil
		}
		return aspect.Scale, nil
	default:
		if aspect.N == -1 {
			if r, ok := original.Ratio(); ok && r > 0 {
				return r, nil
			}
			return 1.0, nil
		}
		if aspect.N <= 0 {
			return 1.0, nil
		}
		return float64(aspect.N), nil
	}
}
