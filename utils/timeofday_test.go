package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHHMM(t *testing.T) {
	cases := []struct {
		in           string
		hour, minute int
		ok           bool
	}{
		{"08:00", 8, 0, true},
		{"00:00", 0, 0, true},
		{"23:59", 23, 59, true},
		{" 09:30 ", 9, 30, true},
		{"25:99", 0, 0, false},
		{"24:00", 0, 0, false},
		{"12:60", 0, 0, false},
		{"-1:00", 0, 0, false},
		{"8", 0, 0, false},
		{"8:0:0", 0, 0, false},
		{"aa:bb", 0, 0, false},
		{"", 0, 0, false},
	}
	for _, c := range cases {
		h, m, err := ParseHHMM(c.in)
		if !c.ok {
			assert.Error(t, err, "input %q", c.in)
			continue
		}
		require.NoError(t, err, "input %q", c.in)
		assert.Equal(t, c.hour, h, "input %q", c.in)
		assert.Equal(t, c.minute, m, "input %q", c.in)
	}
}

func TestMinuteOfDay(t *testing.T) {
	got, err := MinuteOfDay("13:45")
	require.NoError(t, err)
	assert.Equal(t, 13*60+45, got)

	_, err = MinuteOfDay("25:99")
	assert.Error(t, err)
}

func TestCombineBangkok(t *testing.T) {
	got, err := CombineBangkok("2025-08-01", "13:00")
	require.NoError(t, err)

	assert.Equal(t, "2025-08-01", got.Format("2006-01-02"))
	assert.Equal(t, "13:00", got.Format("15:04"))
	_, offset := got.Zone()
	assert.Equal(t, 7*60*60, offset)

	_, err = CombineBangkok("2025-13-99", "13:00")
	assert.Error(t, err)
}
