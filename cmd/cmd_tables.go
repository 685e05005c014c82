package cmd

import (
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"sdxl_sizing/core"
	"sdxl_sizing/report"
	"sdxl_sizing/sizing"
)

// newBucketsCmd - lists a bucket table
func newBucketsCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "buckets [reduced|exhaustive]",
		Short:     "List the trained bucket resolutions",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"reduced", "exhaustive"},
		RunE:      BucketsHandler,
	}
}

// BucketsHandler prints the exhaustive table, or the one named in args.
func BucketsHandler(cmd *cobra.Command, args []string) error {
	name := "exhaustive"
	if len(args) == 1 {
		name = args[0]
	}
	mode, err := sizing.ParseBucketMode(name)
	if err != nil {
		return err
	}
	table := sizing.TableFor(mode)
	if table == nil {
		return fmt.Errorf("%w: %q has no bucket table", sizing.ErrInvalidParams, name)
	}
	return report.RenderBuckets(cmd.OutOrStdout(), table)
}

// newFractionCmd - shows the small-fraction approximation of a decimal
func newFractionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fraction DECIMAL",
		Short: "Approximate a decimal aspect ratio as a small fraction",
		Args:  cobra.ExactArgs(1),
		RunE:  FractionHandler,
	}
}

// FractionHandler prints the fraction for args[0], or "none" when no small
// fraction matches to the printed precision.
func FractionHandler(cmd *cobra.Command, args []string) error {
	v, err := sizing.ParseRatio(args[0])
	if err != nil {
		return err
	}
	if v <= 0 {
		return fmt.Errorf("%w: ratio %s must be positive", sizing.ErrFormat, args[0])
	}
	f, ok := sizing.ApproximateFraction(v)
	if !ok {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: none\n", report.FormatFloat(v))
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", report.FormatFloat(v), f)
	return nil
}

// newPresetsCmd - lists the presets file
func newPresetsCmd(env Env) *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List presets from " + core.EnvPresetsFile,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return PresetsHandler(cmd, env)
		},
	}
}

// PresetsHandler prints one row per preset in name order.
func PresetsHandler(cmd *cobra.Command, env Env) error {
	path := env.Config.PresetsFile
	out := cmd.OutOrStdout()
	if path == "" {
		fmt.Fprintf(out, "no presets file configured (set %s)\n", core.EnvPresetsFile)
		return nil
	}

	presets, err := core.LoadPresets(path)
	if err != nil {
		return err
	}

	var data [][]string
	for _, name := range presets.Names() {
		p := presets.Presets[name]
		data = append(data, []string{
			name,
			orDash(p.NativeRes),
			orDash(p.Aspect),
			orDash(p.OriginalRes),
			orDash(p.Bucketing),
			orDash(p.Options),
			fractionOrDash(p.CropExtra),
			p.Description,
		})
	}

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"NAME", "NATIVE", "ASPECT", "ORIGINAL", "BUCKETING", "OPTIONS", "CROP EXTRA", "DESCRIPTION"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func fractionOrDash(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}
