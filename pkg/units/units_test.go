package units

import (
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0 B"},
		{1, "1.00 B"},
		{100, "100.00 B"},
		{1023, "1023.00 B"},
		{1024, "1.00 KiB"},
		{1536, "1.50 KiB"},
		{1048576, "1.00 MiB"},
		{1 << 30, "1.00 GiB"},
		{1 << 40, "1.00 TiB"},
		{1 << 50, "1.00 PiB"},
		{1 << 60, "1024.00 PiB"},
		{0.5, "0.50 B"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatBytes(tt.in), "FormatBytes(%v)", tt.in)
	}
}

// TestFormatBytesNonFinite degenerate throughput must stay visible.
func TestFormatBytesNonFinite(t *testing.T) {
	assert.Equal(t, "NaN B", FormatBytes(math.NaN()))
	assert.Equal(t, "+Inf B", FormatBytes(math.Inf(1)))
}

func TestFormatDurationMinutes(t *testing.T) {
	for ms := 90000.0; ms <= 150000; ms += 7500 {
		got := FormatDuration(ms)
		require.True(t, strings.HasSuffix(got, " mins"), "FormatDuration(%v) = %q", ms, got)
		v, err := strconv.ParseFloat(strings.TrimSuffix(got, " mins"), 64)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, v, 1.50)
		assert.LessOrEqual(t, v, 2.50)
	}
	assert.Equal(t, "1.50 mins", FormatDuration(90000))
	assert.Equal(t, "2.50 mins", FormatDuration(150000))
}

func TestFormatDurationCoarsestUnit(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{2000, "2.00 secs"},
		{20 * minuteMs, "20.00 mins"},
		{45 * minuteMs, "0.75 hours"},
		{3 * hourMs, "3.00 hours"},
		{2 * dayMs, "2.00 days"},
		{14 * dayMs, "2.00 weeks"},
		{45 * dayMs, "1.50 months"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.in), "FormatDuration(%v)", tt.in)
	}
}

// TestFormatDurationSubSecond documents the known gap: sub-second values vanish.
func TestFormatDurationSubSecond(t *testing.T) {
	assert.Equal(t, "", FormatDuration(0))
	assert.Equal(t, "", FormatDuration(500))
	assert.Equal(t, "", FormatDuration(120))
	assert.Equal(t, "500.00 ms", FormatDurationPrecise(500))
	assert.Equal(t, "1.50 mins", FormatDurationPrecise(90000))
}
