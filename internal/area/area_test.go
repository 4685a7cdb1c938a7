package area

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func ptr(v float64) *float64 {
	return &v
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name string
		x    float64
		y    float64
		r    float64
		want bool
	}{
		{name: "rectangle inside", x: 1, y: 1, r: 4, want: true},
		{name: "rectangle corner", x: 2, y: 4, r: 4, want: true},
		{name: "rectangle right of edge", x: 2.01, y: 1, r: 4, want: false},
		{name: "rectangle above edge", x: 1, y: 4.01, r: 4, want: false},
		{name: "quarter disk inside", x: -1, y: 1, r: 4, want: true},
		{name: "quarter disk outside", x: -3, y: 1, r: 4, want: false},
		{name: "quarter disk on arc", x: -2, y: 0, r: 4, want: true},
		{name: "positive y axis", x: 0, y: 2, r: 4, want: true},
		{name: "triangle inside", x: -2, y: -1, r: 4, want: true},
		{name: "triangle on hypotenuse", x: -2, y: -2, r: 4, want: true},
		{name: "triangle outside", x: -3, y: -2, r: 4, want: false},
		{name: "fourth quadrant", x: 1, y: -1, r: 4, want: false},
		{name: "origin", x: 0, y: 0, r: 4, want: true},
		{name: "positive x axis in rectangle", x: 1, y: 0, r: 3, want: true},
		{name: "negative y axis in triangle", x: 0, y: -3, r: 3, want: true},
		{name: "negative y axis below triangle", x: 0, y: -3.5, r: 3, want: false},
		{name: "reflected rectangle", x: -1, y: -1, r: -4, want: true},
		{name: "reflected quarter disk", x: 1, y: -1, r: -4, want: true},
		{name: "reflected triangle", x: 2, y: 1, r: -4, want: true},
		{name: "reflected empty quadrant", x: -1, y: 1, r: -4, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Check(tt.x, tt.y, tt.r))
		})
	}
}

func TestCheck_ZeroRadiusNeverHits(t *testing.T) {
	for x := MinX; x <= MaxX; x += 0.5 {
		for y := MinY; y <= MaxY; y += 0.5 {
			assert.False(t, Check(x, y, 0), "x=%v y=%v", x, y)
		}
	}
}

func TestCheck_NegativeRadiusReflectsThroughOrigin(t *testing.T) {
	for x := MinX; x <= MaxX; x += 0.25 {
		for y := MinY; y <= MaxY; y += 0.25 {
			for _, r := range []float64{0.5, 1, 2, 3} {
				assert.Equal(t, Check(-x, -y, r), Check(x, y, -r), "x=%v y=%v r=%v", x, y, r)
			}
		}
	}
	assert.Equal(t, Check(1, 1, 4), Check(-1, -1, -4))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		x       *float64
		y       *float64
		r       *float64
		name    string
		wantErr bool
	}{
		{name: "all in range", x: ptr(0), y: ptr(0), r: ptr(1)},
		{name: "x upper bound", x: ptr(3), y: ptr(0), r: ptr(1)},
		{name: "x lower bound", x: ptr(-3), y: ptr(0), r: ptr(1)},
		{name: "x above range", x: ptr(3.1), y: ptr(0), r: ptr(1), wantErr: true},
		{name: "x below range", x: ptr(-3.1), y: ptr(0), r: ptr(1), wantErr: true},
		{name: "y lower bound", x: ptr(0), y: ptr(-5), r: ptr(1)},
		{name: "y upper bound", x: ptr(0), y: ptr(3), r: ptr(1)},
		{name: "y below range", x: ptr(0), y: ptr(-5.1), r: ptr(1), wantErr: true},
		{name: "y above range", x: ptr(0), y: ptr(3.1), r: ptr(1), wantErr: true},
		{name: "r bounds", x: ptr(0), y: ptr(0), r: ptr(-3)},
		{name: "r zero", x: ptr(0), y: ptr(0), r: ptr(0)},
		{name: "r above range", x: ptr(0), y: ptr(0), r: ptr(3.5), wantErr: true},
		{name: "missing x", y: ptr(0), r: ptr(1), wantErr: true},
		{name: "missing y", x: ptr(0), r: ptr(1), wantErr: true},
		{name: "missing r", x: ptr(0), y: ptr(0), wantErr: true},
		{name: "all missing", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.x, tt.y, tt.r)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrOutOfDomain)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEvaluate(t *testing.T) {
	hit, err := Evaluate(ptr(1), ptr(1), ptr(3))
	require.NoError(t, err)
	assert.True(t, hit)

	hit, err = Evaluate(ptr(1), ptr(-1), ptr(3))
	require.NoError(t, err)
	assert.False(t, hit)

	hit, err = Evaluate(ptr(1), ptr(1), nil)
	require.ErrorIs(t, err, ErrOutOfDomain)
	assert.False(t, hit)
}
