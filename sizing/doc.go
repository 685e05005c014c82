// Package sizing computes SDXL size and crop conditioning values.
//
// Given a native resolution, a target aspect ratio and the size of the
// original training image, it derives the generation resolution (optionally
// matched against the SDXL training buckets), the original size to report,
// the crop offsets and a downscale factor. It follows atomic design
// principles:
//
//   - Atoms: Pure functions (ParseSize, ParseRatio, Round64, ApproximateFraction,
//     ComputeCrop, BlendDownscale, ParseOptions)
//   - Molecules: Bucket tables and MatchBucket, OriginalSize
//   - Organism: Calculator.Compute exposing a single request/result API
//
// # Quick Start
//
//	res, err := sizing.Compute(sizing.Request{
//	    NativeRes:   "1024",
//	    Aspect:      "1:1",
//	    OriginalRes: "800x1200",
//	    Bucketing:   sizing.BucketExhaustive,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	// res.Width=800 res.Height=1200 res.CropW=0 res.CropH=256
//	// res.TargetWidth=1024 res.TargetHeight=1024 res.Downscale=1.0
//
// # Input Grammar
//
// Resolutions and ratios are free-form text. "1024" is a single dimension,
// "800x1200", "2:3", "2 by 3" and "2*3" are pairs, and anything containing
// a decimal point ("1.5") is a scale factor. Characters outside digits,
// separators and '-' are ignored.
//
// # Bucketing Modes
//
//   - BucketOff: round the ideal resolution to multiples of 64
//   - BucketReduced: nearest entry of the nine-bucket table
//   - BucketExhaustive: nearest entry of the training report table
//   - BucketSnap: round, then snap onto a neighboring training bucket
//
// Table modes fall back to BucketOff when the aspect lies outside [1:4, 4:1]
// or the native resolution is not 1024.
//
// # Error Handling
//
// All errors wrap one of the sentinels in errors.go:
//
//	res, err := sizing.Compute(req)
//	if errors.Is(err, sizing.ErrFormat) {
//	    // Malformed resolution or ratio text
//	}
//
// # Thread Safety
//
// Every function except Calculator.Compute is safe for concurrent use. A
// Calculator shares one random source for the randomaspect option.
package sizing
