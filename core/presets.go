package core

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"sdxl_sizing/sizing"
)

// Preset is a named partial request. Empty fields leave the request as is;
// pointer fields distinguish "not set" from zero.
type Preset struct {
	NativeRes       string   `yaml:"native_res"`
	Aspect          string   `yaml:"aspect"`
	OriginalRes     string   `yaml:"original_res"`
	CropExtra       *float64 `yaml:"crop_extra"`
	DownscaleEffect *float64 `yaml:"downscale_effect"`
	Bucketing       string   `yaml:"bucketing"`
	FitAspect       *bool    `yaml:"fit_aspect"`
	Options         string   `yaml:"options"`
	Description     string   `yaml:"description"`
}

// PresetFile is the YAML document layout:
//
//	presets:
//	  portrait:
//	    aspect: "2:3"
//	    original_res: "1664"
//	    options: "-sharp"
type PresetFile struct {
	Presets map[string]Preset `yaml:"presets"`
}

// LoadPresets reads and validates a presets file. An empty path yields an
// empty set.
func LoadPresets(path string) (*PresetFile, error) {
	if path == "" {
		return &PresetFile{Presets: map[string]Preset{}}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrPresetsFile(path, err)
	}
	return ParsePresets(path, data)
}

// ParsePresets decodes presets from YAML. path is only used in errors.
func ParsePresets(path string, data []byte) (*PresetFile, error) {
	var pf PresetFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, ErrPresetsFile(path, err)
	}
	if pf.Presets == nil {
		pf.Presets = map[string]Preset{}
	}

	for name, p := range pf.Presets {
		if err := p.validate(); err != nil {
			return nil, ErrPresetsFile(path, fmt.Errorf("preset %q: %w", name, err))
		}
	}
	return &pf, nil
}

func (p Preset) validate() error {
	if p.Bucketing != "" {
		if _, err := sizing.ParseBucketMode(p.Bucketing); err != nil {
			return err
		}
	}
	if p.CropExtra != nil {
		if err := CheckFraction("crop_extra", *p.CropExtra); err != nil {
			return err
		}
	}
	if p.DownscaleEffect != nil {
		if err := CheckFraction("downscale_effect", *p.DownscaleEffect); err != nil {
			return err
		}
	}
	return nil
}

// Names returns the preset names in sorted order.
func (pf *PresetFile) Names() []string {
	names := make([]string, 0, len(pf.Presets))
	for name := range pf.Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the named preset.
func (pf *PresetFile) Lookup(name, path string) (Preset, error) {
	p, ok := pf.Presets[name]
	if !ok {
		return Preset{}, ErrPresetNotFound(name, path)
	}
	return p, nil
}

// Apply overlays the preset's set fields onto req.
// This is a pure function with no side effects.
func (p Preset) Apply(req sizing.Request) sizing.Request {
	if p.NativeRes != "" {
		req.NativeRes = p.NativeRes
	}
	if p.Aspect != "" {
		req.Aspect = p.Aspect
	}
	if p.OriginalRes != "" {
		req.OriginalRes = p.OriginalRes
	}
	if p.CropExtra != nil {
		req.CropExtra = *p.CropExtra
	}
	if p.DownscaleEffect != nil {
		req.DownscaleEffect = *p.DownscaleEffect
	}
	if p.Bucketing != "" {
		// validated on load
		if mode, err := sizing.ParseBucketMode(p.Bucketing); err == nil {
			req.Bucketing = mode
		}
	}
	if p.FitAspect != nil {
		req.FitAspectToBucket = *p.FitAspect
	}
	if p.Options != "" {
		req.Options = p.Options
	}
	return req
}
