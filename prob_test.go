package citypandemic

import "testing"

func TestSigmoidDecaying_Monotone(t *testing.T) {
	a := SigmoidDecaying(0, 1)
	b := SigmoidDecaying(1, 1)
	c := SigmoidDecaying(5, 1)
	if !(a > b && b > c) {
		t.Errorf(UnexpectedErrorWhileError, "checking monotone decrease", "values did not decrease")
	}
	if a < 0 || a > 1 || c < 0 || c > 1 {
		t.Errorf(UnexpectedErrorWhileError, "checking sigmoid range", "value outside [0,1]")
	}
}

func TestErfBounded_Range(t *testing.T) {
	lo, hi := 0.1, 0.9
	for _, x := range []float64{-10, -1, 0, 1, 10} {
		v := ErfBounded(x, lo, hi)
		if v < lo || v > hi {
			t.Errorf(UnequalFloatParameterError, "erf_bounded value within range", hi, v)
		}
	}
}

func TestClamp01(t *testing.T) {
	cases := map[float64]float64{-1: 0, 0: 0, 0.5: 0.5, 1: 1, 2: 1}
	for in, want := range cases {
		if got := Clamp01(in); got != want {
			t.Errorf(UnequalFloatParameterError, "clamp01", want, got)
		}
	}
}
