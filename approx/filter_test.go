package approx

import (
	"encoding/json"
	"fmt"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterMatchesSimplify(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		p := randomWalk(seed, 500)
		for _, tol := range []float64{0, 0.5, 3} {
			t.Run(fmt.Sprintf("seed %d tol %v", seed, tol), func(t *testing.T) {
				want, err := Simplify(p, tol, RamerDouglasPeucker)
				require.NoError(t, err)
				got, err := Filter{Mode: RamerDouglasPeucker, Tolerance: tol, XRatio: 1}.Apply(p)
				require.NoError(t, err)
				if diff := cmp.Diff(want, got); diff != "" {
					t.Errorf("Filter.Apply differs from Simplify (-want +got):\n%s", diff)
				}
			})
		}
	}
}

func TestFilterZeroValuePassesThrough(t *testing.T) {
	p := pts(t, 0, 0, 1, 1, 2, 0)
	got, err := Filter{}.Apply(p)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestFilterValidate(t *testing.T) {
	cases := []struct {
		desc    string
		f       Filter
		wantErr bool
	}{
		{"zero", Filter{}, false},
		{"none ignores tolerance", Filter{Mode: None, Tolerance: -1}, false},
		{"rdp", Filter{Mode: RamerDouglasPeucker, Tolerance: 1}, false},
		{"angle", Filter{Mode: RamerDouglasPeucker, Tolerance: 5, Metric: Angle, XRatio: 2, YRatio: 0.5}, false},
		{"negative tolerance", Filter{Mode: RamerDouglasPeucker, Tolerance: -0.5}, true},
		{"nan tolerance", Filter{Mode: RamerDouglasPeucker, Tolerance: math.NaN()}, true},
		{"negative x ratio", Filter{Mode: RamerDouglasPeucker, XRatio: -1}, true},
		{"negative y ratio", Filter{Mode: RamerDouglasPeucker, YRatio: -1}, true},
		{"unknown mode", Filter{Mode: Mode(9)}, true},
		{"unknown metric", Filter{Mode: RamerDouglasPeucker, Metric: Metric(9)}, true},
	}
	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			err := tc.f.Validate()
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidArgument)
				_, err := tc.f.Apply(pts(t, 0, 0, 1, 1, 2, 0))
				assert.ErrorIs(t, err, ErrInvalidArgument)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFilterAngle(t *testing.T) {
	p := pts(t, 0, 0, 1, 1, 2, 2.05, 3, 3)

	got, err := Filter{Mode: RamerDouglasPeucker, Tolerance: 5, Metric: Angle}.Apply(p)
	require.NoError(t, err)
	assert.Equal(t, pts(t, 0, 0, 3, 3), got)

	got, err = Filter{Mode: RamerDouglasPeucker, Tolerance: 0.5, Metric: Angle}.Apply(p)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestFilterRatios(t *testing.T) {
	p := pts(t, 0, 0, 1, 1, 2, 0)

	got, err := Filter{Mode: RamerDouglasPeucker, Tolerance: 0.5}.Apply(p)
	require.NoError(t, err)
	assert.Equal(t, p, got)

	// Squashing the y axis brings the peak within tolerance, and the
	// result still holds the original coordinates.
	got, err = Filter{Mode: RamerDouglasPeucker, Tolerance: 0.5, YRatio: 0.1}.Apply(p)
	require.NoError(t, err)
	assert.Equal(t, pts(t, 0, 0, 2, 0), got)
}

func TestAngleDeviationWraps(t *testing.T) {
	a := Point{0, 0}
	b := Point{-1, -0.001}
	p := Point{-1, 0.001}
	assert.InDelta(t, 0.1146, angleDeviation(p, a, b), 1e-3)
	assert.InDelta(t, 90, angleDeviation(Point{0, 1}, a, Point{1, 0}), 1e-9)
}

func TestFilterJSON(t *testing.T) {
	var f Filter
	require.NoError(t, json.Unmarshal([]byte(`{"mode":"rdp","tolerance":0.25,"metric":"angle"}`), &f))
	assert.Equal(t, Filter{Mode: RamerDouglasPeucker, Tolerance: 0.25, Metric: Angle}, f)

	b, err := json.Marshal(Filter{Mode: RamerDouglasPeucker, Tolerance: 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"mode":"rdp","tolerance":1}`, string(b))
}
