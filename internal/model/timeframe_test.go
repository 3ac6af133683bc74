package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeframes_Catalog(t *testing.T) {
	tfs := Timeframes()
	require.Len(t, tfs, 6)

	labels := make([]string, len(tfs))
	for i, tf := range tfs {
		labels[i] = tf.Label
		assert.Greater(t, tf.Days, 0)
	}
	assert.Equal(t, []string{"1D", "5D", "1M", "3M", "6M", "1Y"}, labels)
	assert.Equal(t, TimeframeSpec{Label: "5D", Days: 5}, DefaultTimeframe())
}

func TestTimeframes_ReturnsCopy(t *testing.T) {
	tfs := Timeframes()
	tfs[0].Days = 999
	assert.Equal(t, 1, Timeframes()[0].Days)
}

func TestTimeframeByLabel(t *testing.T) {
	tf, ok := TimeframeByLabel("3M")
	require.True(t, ok)
	assert.Equal(t, 90, tf.Days)

	_, ok = TimeframeByLabel("2W")
	assert.False(t, ok)
}

func TestRangeEndingAt(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	now := time.Date(2024, 6, 10, 9, 30, 0, 0, ist)

	tests := []struct {
		label string
		start string
	}{
		{"1D", "2024-06-09"},
		{"5D", "2024-06-05"},
		{"1M", "2024-05-11"},
		{"3M", "2024-03-12"},
		{"6M", "2023-12-13"},
		{"1Y", "2023-06-11"},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			tf, ok := TimeframeByLabel(tt.label)
			require.True(t, ok)
			r := tf.RangeEndingAt(now)
			assert.Equal(t, tt.start, r.Start)
			assert.Equal(t, "2024-06-10", r.End)
		})
	}
}

func TestRangeEndingAt_UsesLocation(t *testing.T) {
	// 20:00 UTC on the 9th is already the 10th in IST.
	ist := time.FixedZone("IST", 5*3600+1800)
	now := time.Date(2024, 6, 9, 20, 0, 0, 0, time.UTC).In(ist)
	r := DefaultTimeframe().RangeEndingAt(now)
	assert.Equal(t, DateRange{Start: "2024-06-05", End: "2024-06-10"}, r)
}

func TestDateRange_IsComplete(t *testing.T) {
	assert.True(t, DateRange{Start: "2024-01-01", End: "2024-01-02"}.IsComplete())
	assert.False(t, DateRange{Start: "2024-01-01"}.IsComplete())
	assert.False(t, DateRange{End: "2024-01-02"}.IsComplete())
}
