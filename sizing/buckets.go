package sizing

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/emirpasic/gods/v2/maps/treemap"
)

// Aspect limits outside which no trained bucket exists.
const (
	MinBucketAspect = 0.25
	MaxBucketAspect = 4.0
)

// BucketMode selects how the generation resolution is chosen.
type BucketMode int

const (
	// BucketOff rounds the ideal resolution to the alignment grid.
	BucketOff BucketMode = iota
	// BucketReduced picks the nearest entry of the reduced table.
	BucketReduced
	// BucketExhaustive picks the nearest entry of the training report table.
	BucketExhaustive
	// BucketSnap rounds like BucketOff, then snaps the result onto a real
	// bucket by holding one side fixed.
	BucketSnap
)

// String returns the canonical name of a bucketing mode.
func (m BucketMode) String() string {
	switch m {
	case BucketOff:
		return "off"
	case BucketReduced:
		return "reduced"
	case BucketExhaustive:
		return "exhaustive"
	case BucketSnap:
		return "snap"
	default:
		return "unknown"
	}
}

// ParseBucketMode parses a bucketing mode name. Parsing is case-insensitive.
//
// Valid names: off, disabled, reduced, exhaustive, enabled, snap, strict
func ParseBucketMode(s string) (BucketMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "disabled", "none":
		return BucketOff, nil
	case "reduced":
		return BucketReduced, nil
	case "exhaustive", "enabled":
		return BucketExhaustive, nil
	case "snap", "strict":
		return BucketSnap, nil
	default:
		return BucketOff, fmt.Errorf("%w: unknown bucketing mode %q", ErrInvalidParams, s)
	}
}

// Bucket is a trained generation resolution.
type Bucket struct {
	Width  int
	Height int
}

// Aspect returns Width/Height.
func (b Bucket) Aspect() float64 {
	return float64(b.Width) / float64(b.Height)
}

func (b Bucket) String() string {
	return fmt.Sprintf("%dx%d", b.Width, b.Height)
}

// BucketTable is a read-only set of buckets ordered by aspect ratio.
// Tables are built once at package initialization and are safe for
// concurrent reads.
type BucketTable struct {
	name    string
	entries *treemap.Map[float64, Bucket]
}

func newBucketTable(name string, buckets []Bucket) *BucketTable {
	entries := treemap.New[float64, Bucket]()
	for _, b := range buckets {
		entries.Put(b.Aspect(), b)
	}
	return &BucketTable{name: name, entries: entries}
}

// Name returns the table's name.
func (t *BucketTable) Name() string { return t.name }

// Len returns the number of buckets in the table.
func (t *BucketTable) Len() int { return t.entries.Size() }

// Buckets returns a copy of the table in ascending aspect order.
func (t *BucketTable) Buckets() []Bucket {
	return t.entries.Values()
}

// Contains reports whether b is an entry of the table.
func (t *BucketTable) Contains(b Bucket) bool {
	got, found := t.entries.Get(b.Aspect())
	return found && got == b
}

// Nearest returns the bucket whose aspect is closest to the query.
//
// Keys are scanned in ascending order up to the first key strictly greater
// than the query. That key wins only when it is strictly closer than the key
// before it, so ties go to the smaller (taller) aspect. A query above every
// key returns the widest bucket. A query below every key returns the
// tallest bucket.
func (t *BucketTable) Nearest(aspect float64) Bucket {
	keys := t.entries.Keys()
	for i, k := range keys {
		if k <= aspect {
			continue
		}
		if i == 0 {
			return t.bucket(k)
		}
		prev := keys[i-1]
		if math.Abs(k-aspect) < math.Abs(prev-aspect) {
			return t.bucket(k)
		}
		return t.bucket(prev)
	}
	return t.bucket(keys[len(keys)-1])
}

func (t *BucketTable) bucket(key float64) Bucket {
	b, _ := t.entries.Get(key)
	return b
}

// exhaustiveBuckets are the buckets listed in the SDXL training report.
var exhaustiveBuckets = []Bucket{
	{512, 2048}, {512, 1984}, {512, 1920}, {512, 1856},
	{576, 1792}, {576, 1728}, {576, 1664},
	{640, 1600}, {640, 1536},
	{704, 1472}, {704, 1408}, {704, 1344},
	{768, 1344}, {768, 1280},
	{832, 1216}, {832, 1152},
	{896, 1152}, {896, 1088},
	{960, 1088}, {960, 1024},
	{1024, 1024}, {1024, 960},
	{1088, 960}, {1088, 896},
	{1152, 896}, {1152, 832},
	{1216, 832},
	{1280, 768},
	{1344, 768},
	{1408, 704}, {1472, 704},
	{1536, 640}, {1600, 640},
	{1664, 576}, {1728, 576}, {1792, 576},
	{1856, 512}, {1920, 512}, {1984, 512}, {2048, 512},
}

// reducedBuckets are the commonly recommended SDXL resolutions.
var reducedBuckets = []Bucket{
	{640, 1536}, {768, 1344}, {832, 1216}, {896, 1152},
	{1024, 1024},
	{1152, 896}, {1216, 832}, {1344, 768}, {1536, 640},
}

var (
	exhaustiveTable = newBucketTable("exhaustive", exhaustiveBuckets)
	reducedTable    = newBucketTable("reduced", reducedBuckets)

	// widthToHeights and heightToWidths index the exhaustive table for the
	// snap path. Candidate lists are sorted ascending.
	widthToHeights, heightToWidths = indexBuckets(exhaustiveBuckets)
)

// ExhaustiveTable returns the training report table.
func ExhaustiveTable() *BucketTable { return exhaustiveTable }

// ReducedTable returns the reduced table.
func ReducedTable() *BucketTable { return reducedTable }

// TableFor returns the table a mode searches, or nil for modes that do not
// search a table.
func TableFor(mode BucketMode) *BucketTable {
	switch mode {
	case BucketReduced:
		return reducedTable
	case BucketExhaustive:
		return exhaustiveTable
	default:
		return nil
	}
}

func indexBuckets(buckets []Bucket) (map[int][]int, map[int][]int) {
	wToH := make(map[int][]int)
	hToW := make(map[int][]int)
	for _, b := range buckets {
		wToH[b.Width] = append(wToH[b.Width], b.Height)
		hToW[b.Height] = append(hToW[b.Height], b.Width)
	}
	for _, v := range wToH {
		slices.Sort(v)
	}
	for _, v := range hToW {
		slices.Sort(v)
	}
	return wToH, hToW
}

// OffPath computes the aligned resolution with area native² and the given
// aspect, without consulting any table.
//
// This is a pure function with no side effects.
func OffPath(native int, aspect float64) Bucket {
	c := math.Sqrt(float64(native) * float64(native) / aspect)
	return Bucket{Width: Round64(c * aspect), Height: Round64(c)}
}

// SnapPreference decides which side SnapToBucket holds fixed.
type SnapPreference int

const (
	// PreferWiden moves toward wider buckets.
	PreferWiden SnapPreference = iota
	// PreferNarrow moves toward taller buckets.
	PreferNarrow
)

// SnapToBucket moves an aligned resolution onto a real training bucket.
//
// A resolution that already is a bucket is returned unchanged. Otherwise
// one side is kept and the other is replaced with the nearest valid
// counterpart, depending on whether the height is at or below every
// trained height for that width, and on the preference.
func SnapToBucket(w, h int, prefer SnapPreference) (Bucket, error) {
	if !IsAligned(w, h) {
		return Bucket{}, fmt.Errorf("%w: dimensions %dx%d are not divisible by %d",
			ErrDomain, w, h, AlignUnit)
	}

	heights, ok := widthToHeights[w]
	if !ok {
		return Bucket{}, fmt.Errorf("%w: no trained bucket has width %d", ErrDomain, w)
	}
	if slices.Contains(heights, h) {
		return Bucket{Width: w, Height: h}, nil
	}

	isLow := h <= heights[0]
	keepHeight := isLow == (prefer == PreferWiden)
	if !keepHeight {
		if isLow {
			return Bucket{Width: w, Height: heights[0]}, nil
		}
		return Bucket{Width: w, Height: heights[len(heights)-1]}, nil
	}

	// Only the branches that keep h need buckets of that height.
	widths, ok := heightToWidths[h]
	if !ok {
		return Bucket{}, fmt.Errorf("%w: no trained bucket has height %d", ErrDomain, h)
	}
	if prefer == PreferWiden {
		return Bucket{Width: widths[0], Height: h}, nil
	}
	return Bucket{Width: widths[len(widths)-1], Height: h}, nil
}

// BucketMatch is the outcome of MatchBucket.
type BucketMatch struct {
	Bucket Bucket
	// Requested is the mode the caller asked for.
	Requested BucketMode
	// Applied is the mode that produced Bucket after any downgrade.
	Applied BucketMode
	// Notice explains a downgrade or a snap adjustment. Empty otherwise.
	Notice string
}

// MatchBucket maps an aspect ratio to a generation resolution.
//
// Table modes are silently downgraded to BucketOff when the aspect lies
// outside [MinBucketAspect, MaxBucketAspect] or native differs from
// TrainingResolution; the downgrade is described in the Notice.
func MatchBucket(native int, aspect float64, mode BucketMode) (BucketMatch, error) {
	match := BucketMatch{Requested: mode, Applied: mode}

	if mode != BucketOff {
		switch {
		case aspect < MinBucketAspect || aspect > MaxBucketAspect:
			match.Applied = BucketOff
			match.Notice = "no actual training bucket for this aspect ratio, bucketing disabled"
		case native != TrainingResolution:
			match.Applied = BucketOff
			match.Notice = fmt.Sprintf("bucketing disabled (native resolution %d != %d)",
				native, TrainingResolution)
		}
	}

	switch match.Applied {
	case BucketReduced, BucketExhaustive:
		match.Bucket = TableFor(match.Applied).Nearest(aspect)
	case BucketSnap:
		seed := OffPath(native, aspect)
		snapped, err := SnapToBucket(seed.Width, seed.Height, PreferWiden)
		if err != nil {
			return BucketMatch{}, err
		}
		if snapped != seed {
			match.Notice = fmt.Sprintf("calculated resolution %s not found in training buckets, adjusted to %s",
				seed, snapped)
		}
		match.Bucket = snapped
	default:
		match.Bucket = OffPath(native, aspect)
	}

	if !IsAligned(match.Bucket.Width, match.Bucket.Height) {
		return BucketMatch{}, fmt.Errorf("%w: resolution %s is not aligned to %d",
			ErrDomain, match.Bucket, AlignUnit)
	}
	return match, nil
}
