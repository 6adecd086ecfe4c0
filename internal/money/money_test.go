package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestToMinorRoundsAtTwoPlaces(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"40", 4000},
		{"12.34", 1234},
		{"0.01", 1},
		{"10.005", 1001},
		{"10.004", 1000},
		{"0", 0},
		{"-2.50", -250},
	}
	for _, tc := range cases {
		d, err := decimal.NewFromString(tc.in)
		require.NoError(t, err)
		require.Equal(t, tc.want, ToMinor(d), "input %s", tc.in)
	}
}

func TestFormatRoundTrip(t *testing.T) {
	require.Equal(t, "12.34", Format(1234))
	require.Equal(t, "0.00", Format(0))
	require.Equal(t, "40.00", Format(4000))

	d := FromMinor(1234)
	require.Equal(t, int64(1234), ToMinor(d))
}
