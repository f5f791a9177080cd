package convert

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToFloat64OK(t *testing.T) {
	cases := []struct {
		in   any
		want float64
		ok   bool
	}{
		{12.5, 12.5, true},
		{int64(3), 3, true},
		{json.Number("4.25"), 4.25, true},
		{" 12,5 BB ", 12.5, true},
		{"100bb", 100, true},
		{"", 0, false},
		{"abc", 0, false},
		{math.NaN(), 0, false},
		{math.Inf(1), 0, false},
		{true, 0, false},
		{nil, 0, false},
	}
	for _, tc := range cases {
		got, ok := ToFloat64OK(tc.in)
		assert.Equal(t, tc.ok, ok, "%v", tc.in)
		assert.Equal(t, tc.want, got, "%v", tc.in)
	}
	assert.Equal(t, 0.0, ToFloat64("nope"))
}
