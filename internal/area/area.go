// Package area decides whether a point belongs to the piecewise region
// parameterised by r, and validates the numeric input domain beforehand.
//
// For r > 0 the region is the union of
//   - a rectangle in the first quadrant: 0 ≤ x ≤ r/2, 0 ≤ y ≤ r;
//   - a quarter disk of radius r/2 in the second quadrant;
//   - a triangle in the third quadrant bounded by the line y = -x - r.
//
// The fourth quadrant is always empty. A negative r reflects the region
// through the origin, and r == 0 yields an empty region.
package area

import (
	"errors"
	"fmt"
	"math"
)

// ErrOutOfDomain is returned when an input is missing or outside the accepted ranges.
var ErrOutOfDomain = errors.New("point is out of the accepted domain")

// Accepted input ranges, inclusive on both ends.
const (
	MinX = -3.0
	MaxX = 3.0
	MinY = -5.0
	MaxY = 3.0
	MinR = -3.0
	MaxR = 3.0
)

// Validate checks that all three coordinates are present and inside the accepted ranges.
// NaN and infinities are rejected.
func Validate(x, y, r *float64) error {
	switch {
	case x == nil:
		return fmt.Errorf("%w: x is required", ErrOutOfDomain)
	case y == nil:
		return fmt.Errorf("%w: y is required", ErrOutOfDomain)
	case r == nil:
		return fmt.Errorf("%w: r is required", ErrOutOfDomain)
	}

	if !inRange(*x, MinX, MaxX) {
		return fmt.Errorf("%w: x must be in [%g, %g]", ErrOutOfDomain, MinX, MaxX)
	}
	if !inRange(*y, MinY, MaxY) {
		return fmt.Errorf("%w: y must be in [%g, %g]", ErrOutOfDomain, MinY, MaxY)
	}
	if !inRange(*r, MinR, MaxR) {
		return fmt.Errorf("%w: r must be in [%g, %g]", ErrOutOfDomain, MinR, MaxR)
	}

	return nil
}

// Check reports whether (x, y) lies inside the region for r.
// Boundary points are inside.
func Check(x, y, r float64) bool {
	if r == 0 {
		return false
	}

	absR := math.Abs(r)
	if r < 0 {
		x, y = -x, -y
	}

	switch {
	case x >= 0 && y >= 0:
		return x <= absR/2 && y <= absR
	case x <= 0 && y >= 0:
		half := absR / 2
		return x*x+y*y <= half*half
	case x <= 0 && y <= 0:
		return y >= -x-absR
	default:
		return false
	}
}

// Evaluate validates the input and then applies Check.
func Evaluate(x, y, r *float64) (bool, error) {
	if err := Validate(x, y, r); err != nil {
		return false, err
	}
	return Check(*x, *y, *r), nil
}

func inRange(v, lo, hi float64) bool {
	return v >= lo && v <= hi
}
