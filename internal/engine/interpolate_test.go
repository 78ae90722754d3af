package engine

import "testing"

func TestClampPhase(t *testing.T) {
	cases := []struct {
		in   int32
		want GamePhase
	}{
		{-10, 0},
		{0, 0},
		{128, 128},
		{256, 256},
		{500, 256},
	}
	for _, c := range cases {
		if got := clampPhase(c.in); got != c.want {
			t.Errorf("clampPhase(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestInterpolateEndpoints(t *testing.T) {
	score := TaperedScore{MG: 120, EG: -40}
	for _, method := range []InterpolationMethod{Linear, Cubic, Smoothstep, Sigmoid, CubicSpline, Bezier} {
		ip := NewInterpolator()
		ip.Method = method
		if method == CubicSpline {
			ip.Spline = SplineControlPoints{T: []float64{0, 1}, V: []float64{0, 1}}
		}
		if got := ip.Interpolate(score, MaxPhase); got != score.MG {
			t.Errorf("%v: Interpolate at phase=256 = %d, want mg=%d", method, got, score.MG)
		}
		if got := ip.Interpolate(score, 0); got != score.EG {
			t.Errorf("%v: Interpolate at phase=0 = %d, want eg=%d", method, got, score.EG)
		}
	}
}

func TestInterpolateLinearMidpoint(t *testing.T) {
	ip := NewInterpolator()
	score := TaperedScore{MG: 100, EG: 0}
	got := ip.Interpolate(score, 128)
	if got != 50 {
		t.Errorf("linear midpoint = %d, want 50", got)
	}
}

func TestInterpolateClampsOutOfRangePhase(t *testing.T) {
	ip := NewInterpolator()
	score := TaperedScore{MG: 80, EG: 20}
	if got := ip.Interpolate(score, GamePhase(9000)); got != score.MG {
		t.Errorf("over-range phase should clamp to mg, got %d", got)
	}
	if got := ip.Interpolate(score, GamePhase(-50)); got != score.EG {
		t.Errorf("under-range phase should clamp to eg, got %d", got)
	}
}

func TestParseInterpolationMethodRoundTrip(t *testing.T) {
	methods := []InterpolationMethod{Linear, Cubic, Smoothstep, Sigmoid, CubicSpline, Bezier}
	for _, m := range methods {
		parsed, ok := ParseInterpolationMethod(m.String())
		if !ok {
			t.Errorf("ParseInterpolationMethod(%q) not ok", m.String())
		}
		if parsed != m {
			t.Errorf("round trip %v -> %q -> %v", m, m.String(), parsed)
		}
	}
	if _, ok := ParseInterpolationMethod("nonsense"); ok {
		t.Error("expected ok=false for unknown method name")
	}
}

func TestTaperedScoreArithmetic(t *testing.T) {
	a := TaperedScore{MG: 10, EG: 20}
	b := TaperedScore{MG: 3, EG: 4}

	if got := a.Add(b); got != (TaperedScore{13, 24}) {
		t.Errorf("Add = %+v", got)
	}
	if got := a.Sub(b); got != (TaperedScore{7, 16}) {
		t.Errorf("Sub = %+v", got)
	}
	if got := a.Negate(); got != (TaperedScore{-10, -20}) {
		t.Errorf("Negate = %+v", got)
	}
	if got := a.MulInt(2); got != (TaperedScore{20, 40}) {
		t.Errorf("MulInt = %+v", got)
	}
}

func TestPhaseCacheOverflowClears(t *testing.T) {
	c := NewPhaseCache(2)
	c.Put(1, 256)
	c.Put(2, 128)
	if _, ok := c.Get(1); !ok {
		t.Fatal("expected fingerprint 1 present before overflow")
	}
	c.Put(3, 64)
	if _, ok := c.Get(1); ok {
		t.Error("expected cache to clear on overflow, fingerprint 1 still present")
	}
	if got, ok := c.Get(3); !ok || got != 64 {
		t.Errorf("fingerprint 3 after overflow clear = %v, %v", got, ok)
	}
}

func TestComputePhaseStartingPositionIsMax(t *testing.T) {
	var counts [2][14]int
	// Mirrors the starting position's per-side non-pawn, non-king material.
	counts[0][1] = 2 // lance
	counts[0][2] = 2 // knight
	counts[0][3] = 2 // silver
	counts[0][4] = 2 // gold
	counts[0][5] = 1 // bishop
	counts[0][6] = 1 // rook
	counts[1] = counts[0]

	if got := computePhase(counts); got != MaxPhase {
		t.Errorf("starting position phase = %d, want %d", got, MaxPhase)
	}
}

func TestComputePhaseRookPawnEndgameIsBelowEndgameGate(t *testing.T) {
	var counts [2][14]int
	counts[0][0] = 1 // pawn (phase weight 0)
	counts[0][6] = 1 // rook
	counts[0][7] = 1 // king (phase weight 0)
	counts[1] = counts[0]

	if got := computePhase(counts); got >= 64 {
		t.Errorf("kings + rook + pawn each phase = %d, want below the endgame gate (64)", got)
	}
}

func TestComputePhaseBareKingsIsZero(t *testing.T) {
	var counts [2][14]int
	if got := computePhase(counts); got != 0 {
		t.Errorf("bare-king phase = %d, want 0", got)
	}
}
