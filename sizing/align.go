package sizing

// AlignUnit is the grid every generation dimension is a multiple of.
const AlignUnit = 64

// Round64 truncates n to an integer and rounds it to the nearest multiple of
// AlignUnit. A remainder of exactly half the unit rounds up.
//
// This is a pure function with no side effects.
func Round64(n float64) int {
	v := int(n)
	rem := v % AlignUnit
	if rem < AlignUnit/2 {
		return v - rem
	}
	return v - rem + AlignUnit
}

// IsAligned reports whether both sides are positive multiples of AlignUnit.
func IsAligned(w, h int) bool {
	return w > 0 && h > 0 && w%AlignUnit == 0 && h%AlignUnit == 0
}
