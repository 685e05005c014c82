package sizing

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MaxFractionTrials bounds the numerator search in ApproximateFraction.
const MaxFractionTrials = 100000

// fractionDigits is the precision the approximated decimal is rounded to.
const fractionDigits = 5

// Fraction is a ratio of two positive integers.
type Fraction struct {
	Num int
	Den int
}

// String renders the fraction the way aspect ratios are usually written.
func (f Fraction) String() string {
	return fmt.Sprintf("%d:%d", f.Num, f.Den)
}

// ApproximateFraction finds the smallest numerator n such that
// n/round(n/decimal) lies within half a unit of the decimal's last printed
// digit. The decimal is first rounded to five fractional digits, so 0.66667
// prints as 2:3 while 0.6667 needs a closer match.
//
// The search is linear and stops after MaxFractionTrials numerators; ok is
// false when it gives up or the input is not a positive finite number.
// This is a diagnostic helper and never affects computed geometry.
func ApproximateFraction(decimal float64) (f Fraction, ok bool) {
	if decimal <= 0 || math.IsNaN(decimal) || math.IsInf(decimal, 0) {
		return Fraction{}, false
	}

	pow := math.Pow10(fractionDigits)
	decimal = math.RoundToEven(decimal*pow) / pow
	if decimal == 0 {
		return Fraction{}, false
	}

	tolerance := 5 * math.Pow10(-printedDigits(decimal)-1)
	lo, hi := decimal-tolerance, decimal+tolerance

	for i := 1; i <= MaxFractionTrials; i++ {
		den := math.RoundToEven(float64(i) / decimal)
		if den == 0 {
			continue
		}
		t := float64(i) / den
		if lo <= t && t < hi {
			return Fraction{Num: i, Den: int(den)}, true
		}
	}
	return Fraction{}, false
}

// printedDigits counts fractional digits in the shortest decimal rendering.
// Integral values count as one digit ("2" prints as "2.0").
func printedDigits(v float64) int {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	dot := strings.IndexByte(s, '.')
	if dot < 0 {
		return 1
	}
	return len(s) - dot - 1
}
