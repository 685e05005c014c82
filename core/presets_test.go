package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"sdxl_sizing/sizing"
)

const samplePresets = `
presets:
  portrait:
    description: "2:3 photo, sharpened"
    aspect: "2:3"
    original_res: "1664"
    options: "-sharp"
  square-nocrop:
    bucketing: reduced
    crop_extra: 0
    downscale_effect: 0.5
    fit_aspect: true
    options: "-nocrop"
`

func writePresets(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "presets.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing presets file: %v", err)
	}
	return path
}

func TestLoadPresets(t *testing.T) {
	pf, err := LoadPresets(writePresets(t, samplePresets))
	if err != nil {
		t.Fatalf("LoadPresets() returned error: %v", err)
	}
	if diff := cmp.Diff([]string{"portrait", "square-nocrop"}, pf.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
	if pf.Presets["portrait"].Description != "2:3 photo, sharpened" {
		t.Errorf("description = %q", pf.Presets["portrait"].Description)
	}
}

func TestLoadPresets_EmptyPath(t *testing.T) {
	pf, err := LoadPresets("")
	if err != nil {
		t.Fatalf("LoadPresets(\"\") returned error: %v", err)
	}
	if len(pf.Names()) != 0 {
		t.Errorf("expected no presets, got %v", pf.Names())
	}
}

func TestLoadPresets_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed yaml", "presets: [unclosed"},
		{"bad bucketing", "presets:\n  p:\n    bucketing: sideways\n"},
		{"crop extra out of range", "presets:\n  p:\n    crop_extra: 2\n"},
		{"effect out of range", "presets:\n  p:\n    downscale_effect: -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadPresets(writePresets(t, tt.content))
			if GetErrorCode(err) != ErrCodePresetsFile {
				t.Errorf("LoadPresets() error = %v, want %s", err, ErrCodePresetsFile)
			}
		})
	}

	_, err := LoadPresets(filepath.Join(t.TempDir(), "missing.yaml"))
	if GetErrorCode(err) != ErrCodePresetsFile {
		t.Errorf("missing file error = %v, want %s", err, ErrCodePresetsFile)
	}
}

func TestPresetFile_Lookup(t *testing.T) {
	pf, err := ParsePresets("inline", []byte(samplePresets))
	if err != nil {
		t.Fatalf("ParsePresets() returned error: %v", err)
	}
	if _, err := pf.Lookup("portrait", "inline"); err != nil {
		t.Errorf("Lookup(portrait) returned error: %v", err)
	}
	if _, err := pf.Lookup("landscape", "inline"); GetErrorCode(err) != ErrCodePresetNotFound {
		t.Errorf("Lookup(landscape) error = %v, want %s", err, ErrCodePresetNotFound)
	}
}

func TestPreset_Apply(t *testing.T) {
	pf, err := ParsePresets("inline", []byte(samplePresets))
	if err != nil {
		t.Fatalf("ParsePresets() returned error: %v", err)
	}

	base := sizing.Request{
		NativeRes:       "1024",
		Aspect:          "1:1",
		OriginalRes:     "800x1200",
		CropExtra:       0.2,
		DownscaleEffect: 1,
		Bucketing:       sizing.BucketExhaustive,
	}

	tests := []struct {
		name   string
		preset string
		want   sizing.Request
	}{
		{
			name:   "text fields only",
			preset: "portrait",
			want: sizing.Request{
				NativeRes: "1024", Aspect: "2:3", OriginalRes: "1664",
				CropExtra: 0.2, DownscaleEffect: 1, Bucketing: sizing.BucketExhaustive,
				Options: "-sharp",
			},
		},
		{
			name:   "explicit zero overrides",
			preset: "square-nocrop",
			want: sizing.Request{
				NativeRes: "1024", Aspect: "1:1", OriginalRes: "800x1200",
				CropExtra: 0, DownscaleEffect: 0.5, Bucketing: sizing.BucketReduced,
				FitAspectToBucket: true, Options: "-nocrop",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pf.Presets[tt.preset].Apply(base)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Apply() mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if got := (Preset{}).Apply(base); got != base {
		t.Errorf("empty preset changed the request: %+v", got)
	}
}
