package sizing

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"
)

// Request holds the inputs of one sizing computation.
type Request struct {
	NativeRes         string     // Native resolution, e.g. "1024", "1000x10", "1.0"
	Aspect            string     // Aspect ratio, e.g. "1:1", "0.5", "1 by 2", "-1"
	OriginalRes       string     // Original image size, e.g. "800x1200", "1600", "2.0"
	CropExtra         float64    // Extra fractional crop (0.0-1.0)
	DownscaleEffect   float64    // Blend between no resize and the raw downscale (0.0-1.0)
	Bucketing         BucketMode // How the generation resolution is chosen
	FitAspectToBucket bool       // Re-derive the aspect from the chosen resolution
	Options           string     // Option string, see ParseOptions
}

// Result holds the seven conditioning values plus the intermediates used to
// explain them.
type Result struct {
	Width        int
	Height       int
	CropW        int
	CropH        int
	TargetWidth  int
	TargetHeight int
	Downscale    float64

	Diagnostics Diagnostics
}

// Bucket returns the generation resolution.
func (r Result) Bucket() Bucket {
	return Bucket{Width: r.TargetWidth, Height: r.TargetHeight}
}

// Diagnostics are intermediate values of a computation. They never change
// the returned geometry.
type Diagnostics struct {
	NativeRes int
	// Aspect is the ratio actually used, after random sampling and fitting.
	Aspect float64
	// InputRatio is the literal ratio when the aspect was given as a pair.
	InputRatio *Fraction
	Match      BucketMatch
	Crop       CropGeometry
	// OriginalWidth and OriginalHeight are the original size before sharpening.
	OriginalWidth  int
	OriginalHeight int
	// RawDownscale is the downscale before the effect blend.
	RawDownscale    float64
	DownscaleEffect float64
	CropExtra       float64
	Options         OptionSet
	// OptionError is set when the option string was rejected and ignored.
	OptionError string
	Notices     []string
}

// Fraction approximates Aspect as a small fraction for display. It is
// computed on demand and never feeds back into the geometry.
func (d Diagnostics) Fraction() (Fraction, bool) {
	return ApproximateFraction(d.Aspect)
}

// ValidateRequest checks the numeric request parameters.
// This is a pure function with no side effects.
func ValidateRequest(req Request) error {
	if math.IsNaN(req.CropExtra) || req.CropExtra < 0 || req.CropExtra > 1 {
		return fmt.Errorf("%w: crop extra %v must be between 0 and 1", ErrInvalidParams, req.CropExtra)
	}
	if math.IsNaN(req.DownscaleEffect) || req.DownscaleEffect < 0 || req.DownscaleEffect > 1 {
		return fmt.Errorf("%w: downscale effect %v must be between 0 and 1", ErrInvalidParams, req.DownscaleEffect)
	}
	if req.Bucketing < BucketOff || req.Bucketing > BucketSnap {
		return fmt.Errorf("%w: unknown bucketing mode %d", ErrInvalidParams, int(req.Bucketing))
	}
	return nil
}

// Calculator runs sizing computations. It only carries the random source
// used by the randomaspect option; everything else is stateless.
//
// A Calculator is not safe for concurrent use when requests use
// randomaspect. The bucket tables it reads are shared and read-only.
type Calculator struct {
	rand *rand.Rand
}

// CalculatorOption configures a Calculator.
type CalculatorOption func(*Calculator)

// WithSeed makes random aspect sampling reproducible.
func WithSeed(seed uint64) CalculatorOption {
	return WithRandSource(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// WithRandSource uses src for random aspect sampling.
func WithRandSource(src *rand.Rand) CalculatorOption {
	return func(c *Calculator) {
		c.rand = src
	}
}

// NewCalculator creates a Calculator. Without options random aspects are
// seeded from the current time.
func NewCalculator(opts ...CalculatorOption) *Calculator {
	c := &Calculator{}
	for _, opt := range opts {
		opt(c)
	}
	if c.rand == nil {
		seed := uint64(time.Now().UnixNano())
		c.rand = rand.New(rand.NewPCG(seed, seed>>1))
	}
	return c
}

// defaultSeed seeds the package-level Compute so it stays deterministic.
const defaultSeed = 0x5d1

// Compute runs one computation with a fresh deterministic Calculator.
func Compute(req Request) (Result, error) {
	return NewCalculator(WithSeed(defaultSeed)).Compute(req)
}

// Compute derives the generation resolution, the original size, crop
// offsets and the downscale factor for req.
//
// Malformed text inputs fail with ErrFormat, bucket invariant violations
// with ErrDomain and out-of-range parameters with ErrInvalidParams. A
// malformed option string never fails the call: the options are ignored
// and Diagnostics.OptionError explains why.
func (c *Calculator) Compute(req Request) (Result, error) {
	if err := ValidateRequest(req); err != nil {
		return Result{}, err
	}

	var diag Diagnostics
	diag.CropExtra = req.CropExtra
	diag.DownscaleEffect = req.DownscaleEffect

	opts, err := ParseOptions(req.Options)
	if err != nil {
		diag.OptionError = err.Error()
		diag.Notices = append(diag.Notices, "options ignored: "+err.Error())
		opts = OptionSet{}
	}
	diag.Options = opts

	nativeSize, err := ParseSize(req.NativeRes)
	if err != nil {
		return Result{}, fmt.Errorf("native resolution: %w", err)
	}
	aspectSize, err := ParseSize(req.Aspect)
	if err != nil {
		return Result{}, fmt.Errorf("aspect: %w", err)
	}
	originalSize, err := ParseSize(req.OriginalRes)
	if err != nil {
		return Result{}, fmt.Errorf("original resolution: %w", err)
	}

	native, err := NativeResolution(nativeSize)
	if err != nil {
		return Result{}, fmt.Errorf("native resolution: %w", err)
	}
	diag.NativeRes = native

	aspect, err := AspectFrom(aspectSize, originalSize)
	if err != nil {
		return Result{}, fmt.Errorf("aspect: %w", err)
	}
	if aspectSize.Kind == SizePair {
		diag.InputRatio = &Fraction{Num: aspectSize.W, Den: aspectSize.H}
	}
	if opts.RandomAspect != nil {
		aspect = opts.RandomAspect.Sample(c.rand)
		diag.InputRatio = nil
		diag.Notices = append(diag.Notices, fmt.Sprintf("random aspect %.5f drawn from [%v, %v]",
			aspect, opts.RandomAspect.Min, opts.RandomAspect.Max))
	}

	match, err := MatchBucket(native, aspect, req.Bucketing)
	if err != nil {
		return Result{}, err
	}
	diag.Match = match
	if match.Notice != "" {
		diag.Notices = append(diag.Notices, match.Notice)
	}
	target := match.Bucket

	if req.FitAspectToBucket {
		aspect = target.Aspect()
	}
	diag.Aspect = aspect

	w, h, err := OriginalSize(originalSize, target, aspect, opts.Mode)
	if err != nil {
		return Result{}, err
	}
	if opts.Nudge != nil {
		w, h = opts.Nudge.Apply(w, h, target.Width, target.Height)
	}
	diag.OriginalWidth, diag.OriginalHeight = w, h

	geom, err := ComputeCrop(CropInput{
		Width:        w,
		Height:       h,
		TargetWidth:  target.Width,
		TargetHeight: target.Height,
		CropExtra:    req.CropExtra,
		NoCrop:       opts.NoCrop,
	})
	if err != nil {
		return Result{}, err
	}
	diag.Crop = geom
	diag.RawDownscale = geom.Downscale

	if m := opts.Multiplier(); m != 1.0 {
		w = int(math.Round(float64(w) * m))
		h = int(math.Round(float64(h) * m))
	}

	return Result{
		Width:        w,
		Height:       h,
		CropW:        geom.CropW,
		CropH:        geom.CropH,
		TargetWidth:  target.Width,
		TargetHeight: target.Height,
		Downscale:    BlendDownscale(geom.Downscale, req.DownscaleEffect),
		Diagnostics:  diag,
	}, nil
}
