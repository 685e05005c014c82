// Package report renders sizing results for humans.
//
// Silent prints nothing, Basic prints the seven output values one per line,
// and Full adds a "Sizing Data" section explaining how the values were
// derived, followed by a table of the outputs.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"sdxl_sizing/sizing"
)

// Verbosity selects how much of a result is rendered.
type Verbosity int

const (
	Silent Verbosity = iota
	Basic
	Full
)

// String returns the name ParseVerbosity accepts.
func (v Verbosity) String() string {
	switch v {
	case Basic:
		return "basic"
	case Full:
		return "full"
	default:
		return "disabled"
	}
}

// ParseVerbosity parses disabled (or silent, off), basic and full.
// An empty string is Silent.
func ParseVerbosity(s string) (Verbosity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "disabled", "silent", "off", "none":
		return Silent, nil
	case "basic":
		return Basic, nil
	case "full":
		return Full, nil
	default:
		return Silent, fmt.Errorf("unknown verbosity %q (want disabled, basic or full)", s)
	}
}

// Render writes res to w at the given verbosity.
func Render(w io.Writer, v Verbosity, res sizing.Result) error {
	switch v {
	case Basic:
		return renderBasic(w, res)
	case Full:
		return renderFull(w, res)
	default:
		return nil
	}
}

func renderBasic(w io.Writer, res sizing.Result) error {
	for _, row := range outputRows(res) {
		if _, err := fmt.Fprintf(w, "%s: %s\n", row[0], row[1]); err != nil {
			return err
		}
	}
	return nil
}

func renderFull(w io.Writer, res sizing.Result) error {
	d := res.Diagnostics
	heading := color.New(color.FgCyan, color.Bold)
	warn := color.New(color.FgYellow)

	fmt.Fprintln(w)
	heading.Fprintln(w, "---- Sizing Data")
	fmt.Fprintf(w, " native resolution: %d\n", d.NativeRes)
	fmt.Fprintf(w, " aspect ratio: %s\n", aspectLine(d))
	fmt.Fprintf(w, " Generation size of %dx%d (%s)\n", res.TargetWidth, res.TargetHeight, d.Match.Applied)
	fmt.Fprintf(w, " %s\n", scalingLine(d))
	fmt.Fprintf(w, " %s\n", cropLine(d))
	if line := downscaleLine(res); line != "" {
		fmt.Fprintf(w, " %s\n", line)
	}
	if !d.Options.IsZero() {
		fmt.Fprintf(w, " options: %s\n", d.Options)
	}
	for _, n := range d.Notices {
		warn.Fprintf(w, " ! %s\n", n)
	}

	fmt.Fprintln(w)
	heading.Fprintln(w, "---- Output Values")
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"VALUE", "RESULT"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	table.AppendBulk(outputRows(res))
	table.Render()
	return nil
}

// RenderBuckets writes a bucket table as WIDTH / HEIGHT / ASPECT rows,
// ordered from tallest to widest.
func RenderBuckets(w io.Writer, t *sizing.BucketTable) error {
	var data [][]string
	for _, b := range t.Buckets() {
		aspect := b.Aspect()
		ratio := strconv.FormatFloat(aspect, 'f', 4, 64)
		if f, ok := sizing.ApproximateFraction(aspect); ok {
			ratio += " (" + f.String() + ")"
		}
		data = append(data, []string{strconv.Itoa(b.Width), strconv.Itoa(b.Height), ratio})
	}

	fmt.Fprintf(w, "%s buckets: %d\n", t.Name(), t.Len())
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"WIDTH", "HEIGHT", "ASPECT"})
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

func outputRows(res sizing.Result) [][]string {
	return [][]string{
		{"width", strconv.Itoa(res.Width)},
		{"height", strconv.Itoa(res.Height)},
		{"crop_w", strconv.Itoa(res.CropW)},
		{"crop_h", strconv.Itoa(res.CropH)},
		{"target_width", strconv.Itoa(res.TargetWidth)},
		{"target_height", strconv.Itoa(res.TargetHeight)},
		{"downscale", FormatFloat(res.Downscale)},
	}
}

func aspectLine(d sizing.Diagnostics) string {
	if f, ok := d.Fraction(); ok {
		return f.String()
	}
	return FormatFloat(d.Aspect)
}

func scalingLine(d sizing.Diagnostics) string {
	c := d.Crop
	return fmt.Sprintf("Original dimensions: %dx%d\n  - scaled by factor of %s to %dx%d.",
		d.OriginalWidth, d.OriginalHeight, FormatFloat(c.ScaleFactor), c.ScaledWidth, c.ScaledHeight)
}

func cropLine(d sizing.Diagnostics) string {
	c := d.Crop
	var line string
	switch {
	case d.Options.NoCrop:
		line = "Cropping disabled."
	case c.ExcessW == 0 && c.ExcessH == 0:
		line = "No cropping required."
	case c.ExcessW > c.ExcessH:
		line = fmt.Sprintf("%d pixels cropped from left and right sides to fit.", c.ExcessW/2)
	default:
		line = fmt.Sprintf("%d pixels cropped from top and bottom to fit.", c.ExcessH/2)
	}
	if d.CropExtra > 0 && !d.Options.NoCrop {
		line += fmt.Sprintf("\n  - additional %d, %d pixels removed from width, height.", c.ExtraW, c.ExtraH)
	}
	return line
}

func downscaleLine(res sizing.Result) string {
	d := res.Diagnostics
	if d.DownscaleEffect <= 0 {
		return ""
	}
	var line string
	if d.DownscaleEffect == 1 {
		line = "Scale resulting image by " + FormatFloat(res.Downscale)
	} else {
		line = fmt.Sprintf("Scale resulting image by %s (%s, effect strength %d%%)",
			FormatFloat(res.Downscale), FormatFloat(d.RawDownscale), int(100*d.DownscaleEffect+0.5))
	}
	return line + fmt.Sprintf("\n  Final image size: %dx%d",
		int(res.Downscale*float64(res.TargetWidth)), int(res.Downscale*float64(res.TargetHeight)))
}

// FormatFloat prints the shortest representation of v, keeping a trailing
// ".0" on integral values so 1 prints as "1.0".
func FormatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}
