package sizing

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
)

// Sharpen multipliers applied to the reported original size.
const (
	SharpFactor      = 1.33
	ExtraSharpFactor = 1.67
	SuperSharpFactor = 2.0
)

// Default bounds for randomaspect when none are given.
const (
	DefaultRandomAspectMin = MinBucketAspect
	DefaultRandomAspectMax = MaxBucketAspect
)

// Interpretation selects how a single-dimension original resolution is read.
type Interpretation int

const (
	// InterpretLongSide assigns the dimension to the longer target side.
	InterpretLongSide Interpretation = iota
	// InterpretShortSide assigns the dimension to the shorter target side.
	InterpretShortSide
	// InterpretEquivalent treats the dimension as the side of a square with
	// the same area.
	InterpretEquivalent
)

// String returns the option name of an interpretation mode.
func (i Interpretation) String() string {
	switch i {
	case InterpretShortSide:
		return "shortside"
	case InterpretEquivalent:
		return "equivalent"
	default:
		return "longside"
	}
}

// AspectRange bounds random aspect sampling.
type AspectRange struct {
	Min float64
	Max float64
}

// Sample draws an aspect log-uniformly from the range, so 1:2 and 2:1 are
// equally likely in a symmetric range.
func (r AspectRange) Sample(src *rand.Rand) float64 {
	lo, hi := math.Log(r.Min), math.Log(r.Max)
	return math.Exp(lo + src.Float64()*(hi-lo))
}

// OptionSet holds the secondary behaviors selected by an option string.
// The zero value applies no options; use Multiplier for the sharpen factor.
type OptionSet struct {
	NoCrop       bool
	Nudge        *Nudge
	Sharpen      float64 // 0 when unset
	Mode         Interpretation
	RandomAspect *AspectRange
}

// Multiplier returns the sharpen factor, 1.0 when none was selected.
func (o OptionSet) Multiplier() float64 {
	if o.Sharpen == 0 {
		return 1.0
	}
	return o.Sharpen
}

// IsZero reports whether no option is set.
func (o OptionSet) IsZero() bool {
	return !o.NoCrop && o.Nudge == nil && o.Sharpen == 0 &&
		o.Mode == InterpretLongSide && o.RandomAspect == nil
}

// String renders the options in the form ParseOptions accepts.
func (o OptionSet) String() string {
	var parts []string
	if o.NoCrop {
		parts = append(parts, "-nocrop")
	}
	if o.Nudge != nil {
		parts = append(parts, fmt.Sprintf("-nudge %s %s", o.Nudge.Axis,
			strconv.FormatFloat(o.Nudge.Amount, 'f', -1, 64)))
	}
	switch o.Sharpen {
	case SharpFactor:
		parts = append(parts, "-sharp")
	case ExtraSharpFactor:
		parts = append(parts, "-extrasharp")
	case SuperSharpFactor:
		parts = append(parts, "-supersharp")
	}
	if o.Mode != InterpretLongSide {
		parts = append(parts, "-"+o.Mode.String())
	}
	if o.RandomAspect != nil {
		parts = append(parts, fmt.Sprintf("-randomaspect %s %s",
			strconv.FormatFloat(o.RandomAspect.Min, 'f', -1, 64),
			strconv.FormatFloat(o.RandomAspect.Max, 'f', -1, 64)))
	}
	return strings.Join(parts, " ")
}

var sharpenFlags = map[string]float64{
	"sharp":      SharpFactor,
	"extrasharp": ExtraSharpFactor,
	"supersharp": SuperSharpFactor,
}

// ParseOptions parses a space-delimited option string such as
// "-nocrop -nudge w 2 -randomaspect 2:3 3:2".
//
// A token starting with '-' followed by a letter opens a flag; the tokens
// after it are its arguments until the next flag. Negative numbers are
// therefore read as arguments. Errors wrap ErrOptionParse.
func ParseOptions(text string) (OptionSet, error) {
	flags, err := tokenizeOptions(text)
	if err != nil {
		return OptionSet{}, err
	}

	var opts OptionSet
	for _, f := range flags {
		switch f.name {
		case "nocrop":
			if err := noArgs(f); err != nil {
				return OptionSet{}, err
			}
			opts.NoCrop = true
		case "nudge":
			n, err := parseNudge(f.args)
			if err != nil {
				return OptionSet{}, err
			}
			opts.Nudge = &n
		case "sharp", "extrasharp", "supersharp":
			if err := noArgs(f); err != nil {
				return OptionSet{}, err
			}
			if opts.Sharpen != 0 {
				return OptionSet{}, fmt.Errorf("%w: only one sharpen flag may be given", ErrOptionParse)
			}
			opts.Sharpen = sharpenFlags[f.name]
		case "shortside", "equivalent":
			if err := noArgs(f); err != nil {
				return OptionSet{}, err
			}
			if opts.Mode != InterpretLongSide {
				return OptionSet{}, fmt.Errorf("%w: shortside and equivalent are mutually exclusive", ErrOptionParse)
			}
			if f.name == "shortside" {
				opts.Mode = InterpretShortSide
			} else {
				opts.Mode = InterpretEquivalent
			}
		case "randomaspect":
			r, err := parseAspectRange(f.args)
			if err != nil {
				return OptionSet{}, err
			}
			opts.RandomAspect = &r
		default:
			return OptionSet{}, fmt.Errorf("%w: unknown option %q", ErrOptionParse, f.name)
		}
	}
	return opts, nil
}

type optionFlag struct {
	name string
	args []string
}

// tokenizeOptions is the first pass: it groups arguments under their flag.
func tokenizeOptions(text string) ([]optionFlag, error) {
	var flags []optionFlag
	seen := make(map[string]bool)

	for _, tok := range strings.Fields(text) {
		if name, ok := flagName(tok); ok {
			if seen[name] {
				return nil, fmt.Errorf("%w: option %q given twice", ErrOptionParse, name)
			}
			seen[name] = true
			flags = append(flags, optionFlag{name: name})
			continue
		}
		if len(flags) == 0 {
			return nil, fmt.Errorf("%w: argument %q before any option", ErrOptionParse, tok)
		}
		last := &flags[len(flags)-1]
		last.args = append(last.args, tok)
	}
	return flags, nil
}

// flagName reports whether tok opens a flag and returns its lower-cased name.
func flagName(tok string) (string, bool) {
	name := strings.TrimLeft(tok, "-")
	if len(name) == len(tok) || len(tok)-len(name) > 2 || name == "" {
		return "", false
	}
	c := name[0]
	if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
		return "", false
	}
	return strings.ToLower(name), true
}

func noArgs(f optionFlag) error {
	if len(f.args) > 0 {
		return fmt.Errorf("%w: option %q takes no arguments, got %q", ErrOptionParse, f.name, f.args)
	}
	return nil
}

// parseNudge accepts "w 2", "w2", "height -1.5" or a bare axis (amount 1).
func parseNudge(args []string) (Nudge, error) {
	s := strings.ToLower(strings.Join(args, ""))

	var n Nudge
	switch {
	case strings.HasPrefix(s, "width"):
		n.Axis, s = AxisWidth, s[len("width"):]
	case strings.HasPrefix(s, "height"):
		n.Axis, s = AxisHeight, s[len("height"):]
	case strings.HasPrefix(s, "w"):
		n.Axis, s = AxisWidth, s[1:]
	case strings.HasPrefix(s, "h"):
		n.Axis, s = AxisHeight, s[1:]
	default:
		return Nudge{}, fmt.Errorf("%w: nudge needs an axis (w or h), got %q", ErrOptionParse, args)
	}

	if s == "" {
		n.Amount = 1
		return n, nil
	}
	amount, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Nudge{}, fmt.Errorf("%w: nudge amount %q is not a number", ErrOptionParse, s)
	}
	n.Amount = amount
	return n, nil
}

func parseAspectRange(args []string) (AspectRange, error) {
	if len(args) > 2 {
		return AspectRange{}, fmt.Errorf("%w: randomaspect takes at most two bounds, got %d", ErrOptionParse, len(args))
	}

	r := AspectRange{Min: DefaultRandomAspectMin, Max: DefaultRandomAspectMax}
	bounds := []*float64{&r.Min, &r.Max}
	for i, arg := range args {
		v, err := ParseRatio(arg)
		if err != nil {
			return AspectRange{}, fmt.Errorf("%w: randomaspect bound: %v", ErrOptionParse, err)
		}
		if v <= 0 || math.IsInf(v, 0) || math.IsNaN(v) {
			return AspectRange{}, fmt.Errorf("%w: randomaspect bound %q must be positive", ErrOptionParse, arg)
		}
		*bounds[i] = v
	}
	if r.Min > r.Max {
		r.Min, r.Max = r.Max, r.Min
	}
	return r, nil
}
