package engine

import "math"

// InterpolationMethod is a closed enum of blending strategies, deliberately
// not an open "plug-in any function" surface.
type InterpolationMethod int

const (
	Linear InterpolationMethod = iota
	Cubic
	Smoothstep
	Sigmoid
	CubicSpline
	Bezier
)

func (m InterpolationMethod) String() string {
	switch m {
	case Linear:
		return "linear"
	case Cubic:
		return "cubic"
	case Smoothstep:
		return "smoothstep"
	case Sigmoid:
		return "sigmoid"
	case CubicSpline:
		return "spline"
	case Bezier:
		return "bezier"
	default:
		return "unknown"
	}
}

func ParseInterpolationMethod(s string) (InterpolationMethod, bool) {
	switch s {
	case "linear":
		return Linear, true
	case "cubic":
		return Cubic, true
	case "smoothstep":
		return Smoothstep, true
	case "sigmoid":
		return Sigmoid, true
	case "spline":
		return CubicSpline, true
	case "bezier":
		return Bezier, true
	default:
		return Linear, false
	}
}

// BezierControlPoints holds the two interior control points of a cubic
// Bezier curve in [0,1]x[0,1] ease-style parameterization.
type BezierControlPoints struct {
	X1, Y1, X2, Y2 float64
}

// SplineControlPoints is a small set of (t, value) knots the cubic spline
// interpolates through; t must be sorted ascending in [0,1].
type SplineControlPoints struct {
	T []float64
	V []float64
}

// Interpolator blends a TaperedScore to a scalar using the configured
// method. Custom escape hatch: a caller may instead pass a bare function
// value at the call site through InterpolateWithFunc; it is never stored
// globally.
type Interpolator struct {
	Method           InterpolationMethod
	SigmoidSteepness float64 // k in [1, 20]
	Bezier           BezierControlPoints
	Spline           SplineControlPoints
}

func NewInterpolator() *Interpolator {
	return &Interpolator{
		Method:           Linear,
		SigmoidSteepness: 8,
		Bezier:           BezierControlPoints{X1: 0.25, Y1: 0.1, X2: 0.75, Y2: 0.9},
	}
}

// Interpolate blends score by phase using the interpolator's configured
// method. phase is clamped to [0, 256] before use. All non-linear methods
// preserve the exact-endpoints guarantee: interpolate(s, 256) == mg and
// interpolate(s, 0) == eg.
func (ip *Interpolator) Interpolate(score TaperedScore, phase GamePhase) int32 {
	phase = clampPhase(int32(phase))
	mg, eg := float64(score.MG), float64(score.EG)
	t := float64(phase) / float64(MaxPhase)

	switch ip.Method {
	case Linear:
		return (score.MG*int32(phase) + score.EG*(int32(MaxPhase)-int32(phase))) / int32(MaxPhase)
	case Cubic:
		return round32(mg*cube(t) + eg*(1-cube(t)))
	case Smoothstep:
		s := t * t * (3 - 2*t)
		return round32(mg*s + eg*(1-s))
	case Sigmoid:
		k := ip.SigmoidSteepness
		if k < 1 {
			k = 1
		}
		if k > 20 {
			k = 20
		}
		// Normalize so the sigmoid itself hits exactly 0 and 1 at the
		// endpoints (raw sigmoid never reaches 0/1 exactly).
		raw := func(x float64) float64 { return 1 / (1 + math.Exp(-k*(x-0.5))) }
		lo, hi := raw(0), raw(1)
		s := (raw(t) - lo) / (hi - lo)
		return round32(mg*s + eg*(1-s))
	case CubicSpline:
		s := ip.splineValue(t)
		return round32(mg*s + eg*(1-s))
	case Bezier:
		s := ip.bezierValue(t)
		return round32(mg*s + eg*(1-s))
	default:
		return (score.MG*int32(phase) + score.EG*(int32(MaxPhase)-int32(phase))) / int32(MaxPhase)
	}
}

// InterpolateWithFunc uses a caller-supplied blend function instead of the
// configured method — the one-off "custom function" escape hatch.
func InterpolateWithFunc(score TaperedScore, phase GamePhase, fn func(mg, eg int32, t float64) int32) int32 {
	phase = clampPhase(int32(phase))
	t := float64(phase) / float64(MaxPhase)
	return fn(score.MG, score.EG, t)
}

func cube(x float64) float64 { return x * x * x }

func round32(x float64) int32 {
	if x >= 0 {
		return int32(x + 0.5)
	}
	return int32(x - 0.5)
}

// bezierValue evaluates the cubic Bezier curve y(t) for parametric t,
// solving for the curve parameter u such that x(u) == t via a handful of
// Newton iterations (standard ease-curve evaluation), then returning y(u).
func (ip *Interpolator) bezierValue(t float64) float64 {
	cp := ip.Bezier
	bx := func(u float64) float64 {
		mu := 1 - u
		return 3*mu*mu*u*cp.X1 + 3*mu*u*u*cp.X2 + u*u*u
	}
	by := func(u float64) float64 {
		mu := 1 - u
		return 3*mu*mu*u*cp.Y1 + 3*mu*u*u*cp.Y2 + u*u*u
	}
	u := t
	for i := 0; i < 6; i++ {
		x := bx(u) - t
		dx := 3*(1-u)*(1-u)*cp.X1 + 6*(1-u)*u*(cp.X2-cp.X1) + 3*u*u*(1-cp.X2)
		if dx == 0 {
			break
		}
		u -= x / dx
		if u < 0 {
			u = 0
		}
		if u > 1 {
			u = 1
		}
	}
	return by(u)
}

// splineValue evaluates a piecewise-linear-cosine-smoothed spline through
// the configured control points; falls back to identity (t) when no control
// points are configured.
func (ip *Interpolator) splineValue(t float64) float64 {
	n := len(ip.Spline.T)
	if n < 2 {
		return t
	}
	if t <= ip.Spline.T[0] {
		return ip.Spline.V[0]
	}
	if t >= ip.Spline.T[n-1] {
		return ip.Spline.V[n-1]
	}
	for i := 1; i < n; i++ {
		if t <= ip.Spline.T[i] {
			t0, t1 := ip.Spline.T[i-1], ip.Spline.T[i]
			v0, v1 := ip.Spline.V[i-1], ip.Spline.V[i]
			local := (t - t0) / (t1 - t0)
			// Cosine-smoothed cubic-like blend between knots.
			s := (1 - math.Cos(local*math.Pi)) / 2
			return v0 + (v1-v0)*s
		}
	}
	return ip.Spline.V[n-1]
}
