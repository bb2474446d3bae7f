package util

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFit6(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0.0, "0.0000"},
		{13800.0, "138.E2"},
		{1e4, "100.E2"},
		{123456.0, "123.E3"},
		{1234.5, "1234.5"},
		{100.00009, "100.00"},
		{12.3456, "12.346"},
		{9.5218, "9.5218"},
		{5.0, "5.0000"},
		{0.5, "0.5000"},
		{0.285714, "0.2857"},
		{0.0005, "50.E-5"},
		{0.00001234, "12.E-6"},
		{-250.0, "-250.0"},
		{-12.5, "-12.50"},
		{-1.5, "-1.500"},
		{-0.25, "-0.250"},
	}
	for _, tt := range tests {
		got, err := Fit6(tt.in)
		require.NoError(t, err, "%g", tt.in)
		assert.Equal(t, tt.want, got, "%g", tt.in)
	}
}

func TestFit6RoundsIntoNextBucket(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{9.99996, "10.000"},
		{99.9996, "100.00"},
		{999.996, "1000.0"},
		{9999.96, "100.E2"},
		{99999.99, "100.E3"},
		{-9.9996, "-10.00"},
		{-99.996, "-100.0"},
		{0.0009999, "10.E-4"},
		{0.00099996, "10.E-4"},
	}
	for _, tt := range tests {
		got, err := Fit6(tt.in)
		require.NoError(t, err, "%g", tt.in)
		assert.Equal(t, tt.want, got, "%g", tt.in)
	}
}

func TestFit6Width(t *testing.T) {
	for e := -7.0; e < 11.0; e += 0.01 {
		x := math.Pow(10, e)
		s, err := Fit6(x)
		require.NoError(t, err, "%g", x)
		assert.Len(t, s, NarrowWidth, "%g -> %q", x, s)
	}
	for e := -6.0; e < 2.99; e += 0.01 {
		x := -math.Pow(10, e)
		s, err := Fit6(x)
		require.NoError(t, err, "%g", x)
		assert.Len(t, s, NarrowWidth, "%g -> %q", x, s)
	}
}

func TestFit6Overflow(t *testing.T) {
	for _, x := range []float64{-5000.0, 1e13, 1e-12, math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := Fit6(x)
		var ferr *FieldError
		require.ErrorAs(t, err, &ferr, "%g", x)
		assert.ErrorIs(t, err, ErrFieldOverflow)
		assert.Equal(t, NarrowWidth, ferr.Width)
	}
}

func TestFit10(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0.0, "0.0"},
		{-1.5, "-1.500e+00"},
		{12345.678, "1.2346e+04"},
		{1e-7, "1.0000e-07"},
		{-2.5e-9, "-2.500e-09"},
	}
	for _, tt := range tests {
		got, err := Fit10(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	for e := -50.0; e < 50.0; e += 0.1 {
		for _, x := range []float64{math.Pow(10, e), -math.Pow(10, e)} {
			s, err := Fit10(x)
			require.NoError(t, err, "%g", x)
			assert.LessOrEqual(t, len(s), WideWidth, "%g -> %q", x, s)
			assert.GreaterOrEqual(t, len(s), WideWidth-1, "%g -> %q", x, s)
		}
	}

	_, err := Fit10(1e200)
	assert.ErrorIs(t, err, ErrFieldOverflow)
	_, err = Fit10(math.NaN())
	assert.ErrorIs(t, err, ErrFieldOverflow)
}

func TestExponentFields(t *testing.T) {
	s, err := RXC(1.5, 0, -0.25)
	require.NoError(t, err)
	assert.Equal(t, "    1.500000e+00    0.000000e+00   -2.500000e-01", s)

	s, err = RZTL(0.05, 300, 1.7e-4, 50)
	require.NoError(t, err)
	assert.Len(t, s, 48)
	assert.Equal(t, "5.000000e-02", s[:12])

	_, err = RXC(1, math.Inf(1), 0)
	assert.ErrorIs(t, err, ErrFieldOverflow)
	_, err = RZTL(math.NaN(), 1, 1, 1)
	assert.ErrorIs(t, err, ErrFieldOverflow)
}

func TestFixed(t *testing.T) {
	s, err := Fixed(-1.0, 10, 3)
	require.NoError(t, err)
	assert.Equal(t, "    -1.000", s)

	_, err = Fixed(1e9, 10, 3)
	assert.ErrorIs(t, err, ErrFieldOverflow)
	assert.Equal(t, "", PadBlanks(-1))
	assert.Equal(t, "   ", PadBlanks(3))
}
