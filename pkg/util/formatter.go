package util

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	NarrowWidth = 6
	WideWidth   = 10
)

var ErrFieldOverflow = errors.New("value does not fit fixed-width field")

// FieldError reports a value that cannot be rendered into its card column.
type FieldError struct {
	Value  float64
	Width  int
	Render string
}

func (e *FieldError) Error() string {
	if math.IsNaN(e.Value) || math.IsInf(e.Value, 0) {
		return fmt.Sprintf("non-finite value %v for %d-column field", e.Value, e.Width)
	}
	return fmt.Sprintf("value %g renders as %q, wider than %d columns", e.Value, e.Render, e.Width)
}

func (e *FieldError) Unwrap() error { return ErrFieldOverflow }

func finite(x float64, width int) error {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return &FieldError{Value: x, Width: width}
	}
	return nil
}

// Fit6 renders x into a 6-column field. A value that rounds up into the
// next decade is rendered again from its rounded value.
func Fit6(x float64) (string, error) {
	if err := finite(x, NarrowWidth); err != nil {
		return "", err
	}

	s := fit6(x)
	if len(s) > NarrowWidth {
		if r, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil && r != x {
			s = fit6(r)
		}
	}
	if len(s) > NarrowWidth {
		return "", &FieldError{Value: x, Width: NarrowWidth, Render: s}
	}
	return s, nil
}

func fit6(x float64) string {
	switch {
	case x == 0.0:
		return "0.0000"
	case x >= 10000:
		exp := 0
		for x >= 1000 {
			x /= 10.0
			exp++
		}
		return fmt.Sprintf("%3d.E%d", int(roundPlaces(x, 3)), exp)
	case x >= 1000:
		return fmt.Sprintf("%6.1f", x)
	case x >= 100:
		return fmt.Sprintf("%6.2f", x)
	case x >= 10:
		return fmt.Sprintf("%6.3f", x)
	case x <= -100.0:
		return fmt.Sprintf("%6.1f", x)
	case x <= -10.0:
		return fmt.Sprintf("%6.2f", x)
	case x < 0.0:
		return fmt.Sprintf("%6.3f", x)
	case x <= 0.001:
		exp := 0
		for x < 10.0 {
			x *= 10.0
			exp++
		}
		return fmt.Sprintf("%2d.E-%d", int(math.RoundToEven(x)), exp)
	}
	return fmt.Sprintf("%6.4f", x)
}

// Fit10 renders x into a 10-column field.
func Fit10(x float64) (string, error) {
	if err := finite(x, WideWidth); err != nil {
		return "", err
	}

	var s string
	switch {
	case x == 0.0:
		return "0.0", nil
	case x < 0.0:
		s = fmt.Sprintf("%9.3e", x)
	default:
		s = fmt.Sprintf("%10.4e", x)
	}

	if len(s) > WideWidth {
		return "", &FieldError{Value: x, Width: WideWidth, Render: s}
	}
	return s, nil
}

// roundPlaces rounds through the decimal rendering, the same way a
// correctly rounded printf does.
func roundPlaces(x float64, places int) float64 {
	v, _ := strconv.ParseFloat(strconv.FormatFloat(x, 'f', places, 64), 64)
	return v
}

func PadBlanks(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}

// RXC renders R, X, C into three 16-column exponent fields.
func RXC(r, x, c float64) (string, error) {
	return exponents(16, r, x, c)
}

// RZTL renders the Bergeron R/length, surge impedance, travel time and length.
func RZTL(r, z, tau, length float64) (string, error) {
	return exponents(12, r, z, tau, length)
}

// E16 renders a single 16-column exponent field.
func E16(x float64) (string, error) {
	return exponents(16, x)
}

func exponents(width int, values ...float64) (string, error) {
	var sb strings.Builder
	for _, v := range values {
		if err := finite(v, width); err != nil {
			return "", err
		}
		s := fmt.Sprintf("%*e", width, v)
		if len(s) > width {
			return "", &FieldError{Value: v, Width: width, Render: s}
		}
		sb.WriteString(s)
	}
	return sb.String(), nil
}

// Fixed renders x with %*.*f and rejects anything wider than the column.
func Fixed(x float64, width, places int) (string, error) {
	if err := finite(x, width); err != nil {
		return "", err
	}
	s := fmt.Sprintf("%*.*f", width, places, x)
	if len(s) > width {
		return "", &FieldError{Value: x, Width: width, Render: s}
	}
	return s, nil
}
