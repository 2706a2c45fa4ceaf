package audio

import (
	"fmt"
	"math"
)

// Curve selects how volume decays over normalized distance t in [0, 1].
type Curve int

const (
	CurveLinear Curve = iota
	CurveExponential
	CurveLogarithmic
	CurveInverseSquare
	CurveSigmoid
	CurveQuadratic
	CurvePower
)

func (c Curve) String() string {
	switch c {
	case CurveExponential:
		return "exponential"
	case CurveLogarithmic:
		return "logarithmic"
	case CurveInverseSquare:
		return "inverse_square"
	case CurveSigmoid:
		return "sigmoid"
	case CurveQuadratic:
		return "quadratic"
	case CurvePower:
		return "power"
	default:
		return "linear"
	}
}

// ParseCurve maps a config string to a Curve.
func ParseCurve(s string) (Curve, error) {
	switch s {
	case "linear":
		return CurveLinear, nil
	case "exponential":
		return CurveExponential, nil
	case "logarithmic":
		return CurveLogarithmic, nil
	case "inverse_square":
		return CurveInverseSquare, nil
	case "sigmoid":
		return CurveSigmoid, nil
	case "quadratic":
		return CurveQuadratic, nil
	case "power":
		return CurvePower, nil
	default:
		return CurveLinear, fmt.Errorf("unknown decay curve %q", s)
	}
}

// VolumeRatio evaluates the decay curve at normalized distance t, returning
// a factor in [0, 1] that is non-increasing in t. Steepness k shapes the
// non-linear curves; non-positive values fall back to 4.
func (c Curve) VolumeRatio(t, k float64) float64 {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	if k <= 0 {
		k = 4
	}

	var factor float64
	switch c {
	case CurveExponential:
		factor = math.Exp(-k * t)
	case CurveLogarithmic:
		factor = 1 - math.Log10(1+9*t)
	case CurveInverseSquare:
		// 1/(1+kt)^2 rescaled so t=0 -> 1 and t=1 -> 0.
		raw := 1 / ((1 + k*t) * (1 + k*t))
		floor := 1 / ((1 + k) * (1 + k))
		factor = (raw - floor) / (1 - floor)
	case CurveSigmoid:
		factor = 1 / (1 + math.Exp(k*(t-0.5)))
	case CurveQuadratic:
		factor = (1 - t) * (1 - t)
	case CurvePower:
		factor = math.Pow(1-t, math.Max(0.1, k))
	default:
		factor = 1 - t
	}

	if factor < 0 {
		return 0
	}
	if factor > 1 {
		return 1
	}
	return factor
}
