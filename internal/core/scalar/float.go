package scalar

import (
	"fmt"
	"math"
	"strconv"
)

// Float32 is the single-precision IEEE backend.
type Float32 float32

// Float64 is the double-precision IEEE backend and the default service profile.
type Float64 float64

const (
	float32Epsilon = 1e-6
	float64Epsilon = 1e-12
)

func (a Float32) Add(b Float32) Float32 { return a + b }
func (a Float32) Sub(b Float32) Float32 { return a - b }
func (a Float32) Mul(b Float32) Float32 { return a * b }
func (a Float32) Div(b Float32) Float32 { return a / b }
func (a Float32) Neg() Float32          { return -a }

func (a Float32) Abs() Float32 {
	return Float32(math.Abs(float64(a)))
}

func (a Float32) Sqrt() Float32 {
	return Float32(math.Sqrt(float64(a)))
}

func (a Float32) Pow(b Float32) Float32 {
	return Float32(math.Pow(float64(a), float64(b)))
}

func (a Float32) Sin() Float32  { return Float32(math.Sin(float64(a))) }
func (a Float32) Cos() Float32  { return Float32(math.Cos(float64(a))) }
func (a Float32) Acos() Float32 { return Float32(math.Acos(float64(a))) }

func (a Float32) Atan2(x Float32) Float32 {
	return Float32(math.Atan2(float64(a), float64(x)))
}

func (a Float32) Cmp(b Float32) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (a Float32) IsZero() bool       { return a == 0 }
func (a Float32) IsNearlyZero() bool { return a.Abs() <= float32Epsilon }

func (a Float32) IsNearlyEqual(b Float32) bool {
	diff := (a - b).Abs()
	if diff <= float32Epsilon {
		return true
	}
	return diff <= Float32(math.Max(float64(a.Abs()), float64(b.Abs())))*float32Epsilon
}

func (a Float32) Float64() float64 { return float64(a) }

func (a Float32) String() string {
	return strconv.FormatFloat(float64(a), 'g', -1, 32)
}

func (Float32) Zero() Float32    { return 0 }
func (Float32) One() Float32     { return 1 }
func (Float32) Two() Float32     { return 2 }
func (Float32) Pi() Float32      { return Float32(math.Pi) }
func (Float32) Tau() Float32     { return Float32(2 * math.Pi) }
func (Float32) Epsilon() Float32 { return float32Epsilon }

func (Float32) FromFloat64(f float64) Float32 { return Float32(f) }

func (Float32) FromString(s string) (Float32, error) {
	f, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, fmt.Errorf("scalar: parse float32 %q: %w", s, err)
	}
	return Float32(f), nil
}

func (a Float64) Add(b Float64) Float64 { return a + b }
func (a Float64) Sub(b Float64) Float64 { return a - b }
func (a Float64) Mul(b Float64) Float64 { return a * b }
func (a Float64) Div(b Float64) Float64 { return a / b }
func (a Float64) Neg() Float64          { return -a }

func (a Float64) Abs() Float64 {
	return Float64(math.Abs(float64(a)))
}

func (a Float64) Sqrt() Float64 {
	return Float64(math.Sqrt(float64(a)))
}

func (a Float64) Pow(b Float64) Float64 {
	return Float64(math.Pow(float64(a), float64(b)))
}

func (a Float64) Sin() Float64  { return Float64(math.Sin(float64(a))) }
func (a Float64) Cos() Float64  { return Float64(math.Cos(float64(a))) }
func (a Float64) Acos() Float64 { return Float64(math.Acos(float64(a))) }

func (a Float64) Atan2(x Float64) Float64 {
	return Float64(math.Atan2(float64(a), float64(x)))
}

func (a Float64) Cmp(b Float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (a Float64) IsZero() bool       { return a == 0 }
func (a Float64) IsNearlyZero() bool { return a.Abs() <= float64Epsilon }

func (a Float64) IsNearlyEqual(b Float64) bool {
	diff := (a - b).Abs()
	if diff <= float64Epsilon {
		return true
	}
	return diff <= Float64(math.Max(float64(a.Abs()), float64(b.Abs())))*float64Epsilon
}

func (a Float64) Float64() float64 { return float64(a) }

func (a Float64) String() string {
	return strconv.FormatFloat(float64(a), 'g', -1, 64)
}

func (Float64) Zero() Float64    { return 0 }
func (Float64) One() Float64     { return 1 }
func (Float64) Two() Float64     { return 2 }
func (Float64) Pi() Float64      { return math.Pi }
func (Float64) Tau() Float64     { return 2 * math.Pi }
func (Float64) Epsilon() Float64 { return float64Epsilon }

func (Float64) FromFloat64(f float64) Float64 { return Float64(f) }

func (Float64) FromString(s string) (Float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("scalar: parse float64 %q: %w", s, err)
	}
	return Float64(f), nil
}
