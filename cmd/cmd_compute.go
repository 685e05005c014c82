package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sdxl_sizing/core"
	"sdxl_sizing/logging"
	"sdxl_sizing/report"
	"sdxl_sizing/sizing"
)

// newComputeCmd - the explicit form of the root command
func newComputeCmd(env Env) *cobra.Command {
	computeCmd := &cobra.Command{
		Use:   "compute",
		Short: "Compute conditioning values (default command)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ComputeHandler(cmd, env)
		},
	}
	addComputeFlags(computeCmd)
	return computeCmd
}

func addComputeFlags(cmd *cobra.Command) {
	cmd.Flags().String("native", "", "Native resolution of the model (e.g. 1024, 1000x10, 1.0)")
	cmd.Flags().String("aspect", "", "Aspect ratio (e.g. 1:1, 0.5, \"1 by 2\", -1 to use the original)")
	cmd.Flags().String("original", "", "Original image size (e.g. 800x1200, 1600, 2.0)")
	cmd.Flags().Float64("crop-extra", 0, "Extra fractional crop (0.0-1.0)")
	cmd.Flags().Float64("downscale-effect", 0, "How much of the downscale to apply (0.0-1.0)")
	cmd.Flags().String("bucketing", "", "Bucketing mode: off, reduced, exhaustive or snap")
	cmd.Flags().Bool("fit-aspect", false, "Re-derive the aspect from the chosen resolution")
	cmd.Flags().String("options", "", "Option string (e.g. \"-nocrop -sharp\")")
	cmd.Flags().String("verbose", "", "Output detail: disabled, basic or full")
	cmd.Flags().String("preset", "", "Apply a named preset from the presets file")
	cmd.Flags().Uint64("seed", 0, "Seed for -randomaspect (0 seeds from the clock)")
	cmd.Flags().Bool("json", false, "Print the result as JSON")
}

// ComputeHandler builds the request from configuration, preset and flags,
// runs it and prints the result.
func ComputeHandler(cmd *cobra.Command, env Env) error {
	log := env.Logger.With(logging.RunIDField(newRunID()))

	req, err := buildRequest(cmd, env.Config)
	if err != nil {
		log.Error("invalid sizing request", zap.Error(err))
		return err
	}

	verbose := env.Config.Verbose
	if cmd.Flags().Changed("verbose") {
		verbose, _ = cmd.Flags().GetString("verbose")
	}
	verbosity, err := report.ParseVerbosity(verbose)
	if err != nil {
		return core.ErrInvalidValue(core.EnvVerbose, verbose, err)
	}

	seed := env.Config.Seed
	if cmd.Flags().Changed("seed") {
		seed, _ = cmd.Flags().GetUint64("seed")
	}
	var calc *sizing.Calculator
	if seed != 0 {
		calc = sizing.NewCalculator(sizing.WithSeed(seed))
	} else {
		calc = sizing.NewCalculator()
	}

	log.Info("sizing request", logging.RequestFields(req)...)
	res, err := calc.Compute(req)
	if err != nil {
		log.Error("sizing failed", zap.Error(err))
		return err
	}
	log.Info("sizing computed", logging.SizingFields(res))
	if notices := logging.NoticeFields(res); notices != nil {
		log.Warn("sizing adjusted", notices...)
	}

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return writeJSON(out, res)
	}
	if verbosity == report.Silent {
		return writeLine(out, res)
	}
	return report.Render(out, verbosity, res)
}

// buildRequest layers the request: environment configuration, then the
// selected preset, then flags the user actually set.
func buildRequest(cmd *cobra.Command, cfg *core.Config) (sizing.Request, error) {
	flags := cmd.Flags()

	base := *cfg
	if flags.Changed("bucketing") {
		// checked below; the flag replaces whatever the environment holds
		base.Bucketing = core.DefaultBucketing
	}
	req, err := base.Request()
	if err != nil {
		return sizing.Request{}, err
	}

	if name, _ := flags.GetString("preset"); name != "" {
		presets, err := core.LoadPresets(cfg.PresetsFile)
		if err != nil {
			return sizing.Request{}, err
		}
		preset, err := presets.Lookup(name, cfg.PresetsFile)
		if err != nil {
			return sizing.Request{}, err
		}
		req = preset.Apply(req)
	}

	if flags.Changed("native") {
		req.NativeRes, _ = flags.GetString("native")
	}
	if flags.Changed("aspect") {
		req.Aspect, _ = flags.GetString("aspect")
	}
	if flags.Changed("original") {
		req.OriginalRes, _ = flags.GetString("original")
	}
	if flags.Changed("crop-extra") {
		req.CropExtra, _ = flags.GetFloat64("crop-extra")
	}
	if flags.Changed("downscale-effect") {
		req.DownscaleEffect, _ = flags.GetFloat64("downscale-effect")
	}
	if flags.Changed("bucketing") {
		name, _ := flags.GetString("bucketing")
		mode, err := sizing.ParseBucketMode(name)
		if err != nil {
			return sizing.Request{}, err
		}
		req.Bucketing = mode
	}
	if flags.Changed("fit-aspect") {
		req.FitAspectToBucket, _ = flags.GetBool("fit-aspect")
	}
	if flags.Changed("options") {
		req.Options, _ = flags.GetString("options")
	}
	return req, nil
}

// computeOutput is the --json document.
type computeOutput struct {
	Width        int      `json:"width"`
	Height       int      `json:"height"`
	CropW        int      `json:"crop_w"`
	CropH        int      `json:"crop_h"`
	TargetWidth  int      `json:"target_width"`
	TargetHeight int      `json:"target_height"`
	Downscale    float64  `json:"downscale"`
	Bucketing    string   `json:"bucketing"`
	Aspect       float64  `json:"aspect"`
	Fraction     string   `json:"fraction,omitempty"`
	Notices      []string `json:"notices,omitempty"`
}

func writeJSON(w io.Writer, res sizing.Result) error {
	d := res.Diagnostics
	out := computeOutput{
		Width:        res.Width,
		Height:       res.Height,
		CropW:        res.CropW,
		CropH:        res.CropH,
		TargetWidth:  res.TargetWidth,
		TargetHeight: res.TargetHeight,
		Downscale:    res.Downscale,
		Bucketing:    d.Match.Applied.String(),
		Aspect:       d.Aspect,
		Notices:      d.Notices,
	}
	if f, ok := d.Fraction(); ok {
		out.Fraction = f.String()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// writeLine prints the seven values on one line for scripts.
func writeLine(w io.Writer, res sizing.Result) error {
	_, err := fmt.Fprintf(w, "%d %d %d %d %d %d %s\n",
		res.Width, res.Height, res.CropW, res.CropH,
		res.TargetWidth, res.TargetHeight, report.FormatFloat(res.Downscale))
	return err
}
