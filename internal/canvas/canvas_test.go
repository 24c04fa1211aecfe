package canvas

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveOrigin(t *testing.T) {
	tests := []struct {
		name             string
		d, offset, bound int
		want             int
	}{
		{"zero offset", 10, 0, 100, 0},
		{"near edge", 10, 25, 100, 25},
		{"far edge flush", 10, -1, 100, 89},
		{"far edge inset", 10, -20, 100, 70},
		{"larger than canvas", 150, -1, 100, -51},
		{"offset past bound", 10, 200, 100, 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ResolveOrigin(tt.d, tt.offset, tt.bound))
		})
	}
}

func TestResolveOriginProperty(t *testing.T) {
	for d := 1; d < 20; d++ {
		for o := -30; o <= 30; o++ {
			for _, b := range []int{1, 7, 64} {
				got := ResolveOrigin(d, o, b)
				if o >= 0 {
					require.Equal(t, o, got)
				} else {
					require.Equal(t, b+o-d, got)
				}
			}
		}
	}
}

func TestPlace(t *testing.T) {
	p := Place(Dimensions{Width: 4, Height: 3}, -1, 2, Dimensions{Width: 10, Height: 10})
	require.Equal(t, Placement{X: 5, Y: 2}, p)

	x, y := p.Apply(3, 2)
	require.Equal(t, 8, x)
	require.Equal(t, 4, y)
}

func TestDimensionsContains(t *testing.T) {
	d := Dimensions{Width: 2, Height: 3}
	require.True(t, d.Contains(0, 0))
	require.True(t, d.Contains(1, 2))
	require.False(t, d.Contains(2, 0))
	require.False(t, d.Contains(0, 3))
	require.False(t, d.Contains(-1, 0))
	require.Equal(t, 6, d.Area())
	require.Equal(t, "2x3", d.String())
}
