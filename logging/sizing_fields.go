package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"sdxl_sizing/sizing"
)

// SizingRecord is the log representation of a sizing.Result.
// Implements zapcore.ObjectMarshaler.
type SizingRecord struct {
	Result sizing.Result
}

// MarshalLogObject writes the seven conditioning values followed by the
// intermediates worth keeping in a log line.
func (r SizingRecord) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	res := r.Result
	d := res.Diagnostics

	enc.AddInt("width", res.Width)
	enc.AddInt("height", res.Height)
	enc.AddInt("crop_w", res.CropW)
	enc.AddInt("crop_h", res.CropH)
	enc.AddInt("target_width", res.TargetWidth)
	enc.AddInt("target_height", res.TargetHeight)
	enc.AddFloat64("downscale", res.Downscale)

	enc.AddInt("native_res", d.NativeRes)
	enc.AddFloat64("aspect", d.Aspect)
	if f, ok := d.Fraction(); ok {
		enc.AddString("aspect_fraction", f.String())
	}
	enc.AddString("bucketing", d.Match.Applied.String())
	enc.AddString("crop_case", d.Crop.Case.String())
	enc.AddFloat64("raw_downscale", d.RawDownscale)
	if !d.Options.IsZero() {
		enc.AddString("options", d.Options.String())
	}
	return nil
}

// SizingFields wraps a result as a single "sizing" object field.
//
// Example:
//
//	logger.Info("sizing computed", logging.SizingFields(res))
func SizingFields(res sizing.Result) zap.Field {
	return zap.Object("sizing", SizingRecord{Result: res})
}

// RequestFields returns flat fields describing a request.
func RequestFields(req sizing.Request) []zap.Field {
	fields := []zap.Field{
		zap.String("native_res", req.NativeRes),
		zap.String("aspect", req.Aspect),
		zap.String("original_res", req.OriginalRes),
		zap.Float64("crop_extra", req.CropExtra),
		zap.Float64("downscale_effect", req.DownscaleEffect),
		zap.Stringer("bucketing", req.Bucketing),
		zap.Bool("fit_aspect", req.FitAspectToBucket),
	}
	if req.Options != "" {
		fields = append(fields, zap.String("options", req.Options))
	}
	return fields
}

// NoticeFields returns the diagnostic notices of res as a "notices" field,
// or nothing when there are none.
func NoticeFields(res sizing.Result) []zap.Field {
	if len(res.Diagnostics.Notices) == 0 {
		return nil
	}
	return []zap.Field{zap.Strings("notices", res.Diagnostics.Notices)}
}

// RunIDField tags entries with the invocation's run id.
func RunIDField(runID string) zap.Field {
	return zap.String(FieldRunID, runID)
}
