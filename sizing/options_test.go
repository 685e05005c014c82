package sizing

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseOptions_Valid(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected OptionSet
	}{
		{"empty", "", OptionSet{}},
		{"whitespace only", "   ", OptionSet{}},
		{"nocrop", "-nocrop", OptionSet{NoCrop: true}},
		{"double dash and case", "--NoCrop", OptionSet{NoCrop: true}},
		{"sharp", "-sharp", OptionSet{Sharpen: SharpFactor}},
		{"extrasharp", "-extrasharp", OptionSet{Sharpen: ExtraSharpFactor}},
		{"supersharp", "-supersharp", OptionSet{Sharpen: SuperSharpFactor}},
		{"shortside", "-shortside", OptionSet{Mode: InterpretShortSide}},
		{"equivalent", "-equivalent", OptionSet{Mode: InterpretEquivalent}},
		{"nudge separate args", "-nudge w 2", OptionSet{Nudge: &Nudge{Axis: AxisWidth, Amount: 2}}},
		{"nudge joined", "-nudge h-1.5", OptionSet{Nudge: &Nudge{Axis: AxisHeight, Amount: -1.5}}},
		{"nudge negative arg", "-nudge height -1", OptionSet{Nudge: &Nudge{Axis: AxisHeight, Amount: -1}}},
		{"nudge bare axis", "-nudge width", OptionSet{Nudge: &Nudge{Axis: AxisWidth, Amount: 1}}},
		{"randomaspect defaults", "-randomaspect", OptionSet{RandomAspect: &AspectRange{Min: 0.25, Max: 4}}},
		{"randomaspect one bound", "-randomaspect 0.5", OptionSet{RandomAspect: &AspectRange{Min: 0.5, Max: 4}}},
		{"randomaspect swapped", "-randomaspect 3:2 2:3", OptionSet{RandomAspect: &AspectRange{Min: 2.0 / 3.0, Max: 1.5}}},
		{
			"combined",
			"-nocrop -supersharp -nudge w 1 -shortside",
			OptionSet{NoCrop: true, Sharpen: SuperSharpFactor, Mode: InterpretShortSide, Nudge: &Nudge{Axis: AxisWidth, Amount: 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOptions(tt.input)
			if err != nil {
				t.Fatalf("ParseOptions(%q) returned error: %v", tt.input, err)
			}
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("ParseOptions(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestParseOptions_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unknown flag", "-blur"},
		{"argument before flag", "2 -nocrop"},
		{"args on nocrop", "-nocrop 3"},
		{"two sharpen flags", "-sharp -supersharp"},
		{"duplicate flag", "-nocrop -nocrop"},
		{"shortside with equivalent", "-shortside -equivalent"},
		{"nudge without axis", "-nudge 2"},
		{"nudge bad amount", "-nudge w two"},
		{"randomaspect three bounds", "-randomaspect 1 2 3"},
		{"randomaspect bad bound", "-randomaspect wide"},
		{"randomaspect zero bound", "-randomaspect 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOptions(tt.input)
			if !errors.Is(err, ErrOptionParse) {
				t.Errorf("ParseOptions(%q) expected ErrOptionParse, got: %v", tt.input, err)
			}
		})
	}
}

func TestOptionSet_StringRoundTrip(t *testing.T) {
	inputs := []string{
		"-nocrop",
		"-nudge h -2",
		"-extrasharp -equivalent",
		"-randomaspect 0.5 2",
	}

	for _, in := range inputs {
		opts, err := ParseOptions(in)
		if err != nil {
			t.Fatalf("ParseOptions(%q) returned error: %v", in, err)
		}
		again, err := ParseOptions(opts.String())
		if err != nil {
			t.Fatalf("ParseOptions(%q) returned error: %v", opts.String(), err)
		}
		if diff := cmp.Diff(opts, again); diff != "" {
			t.Errorf("round trip of %q mismatch (-want +got):\n%s", in, diff)
		}
	}
}

func TestOptionSet_Multiplier(t *testing.T) {
	if got := (OptionSet{}).Multiplier(); got != 1.0 {
		t.Errorf("Multiplier() = %v, expected 1.0", got)
	}
	if got := (OptionSet{Sharpen: ExtraSharpFactor}).Multiplier(); got != ExtraSharpFactor {
		t.Errorf("Multiplier() = %v, expected %v", got, ExtraSharpFactor)
	}
}

func TestOptionSet_IsZero(t *testing.T) {
	if !(OptionSet{}).IsZero() {
		t.Error("zero OptionSet should report IsZero")
	}
	if (OptionSet{Mode: InterpretEquivalent}).IsZero() {
		t.Error("OptionSet with a mode should not report IsZero")
	}
}

func TestAspectRange_SampleWithinBounds(t *testing.T) {
	r := AspectRange{Min: 0.5, Max: 2}
	src := rand.New(rand.NewPCG(1, 2))

	for i := 0; i < 1000; i++ {
		v := r.Sample(src)
		if v < r.Min || v > r.Max {
			t.Fatalf("Sample() = %v, outside [%v, %v]", v, r.Min, r.Max)
		}
	}
}

func TestInterpretation_String(t *testing.T) {
	tests := map[Interpretation]string{
		InterpretLongSide:   "longside",
		InterpretShortSide:  "shortside",
		InterpretEquivalent: "equivalent",
	}
	for mode, expected := range tests {
		if got := mode.String(); got != expected {
			t.Errorf("Interpretation(%d).String() = %q, expected %q", mode, got, expected)
		}
	}
}
