package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestRecorder(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "journal.db"), log.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestSQLiteRecorder_RecordsEvents(t *testing.T) {
	r := openTestRecorder(t)

	require.NoError(t, r.RecordLoad(&LoadEvent{Symbol: "NIFTY", Timeframe: "5D", Start: "2024-06-05", End: "2024-06-10", Points: 375}))
	require.NoError(t, r.RecordLoad(&LoadEvent{Symbol: "XYZ", Error: "No price data"}))
	require.NoError(t, r.RecordPrediction(&PredictionEvent{Symbol: "NIFTY", Direction: "UP", Confidence: 58.4}))

	base := time.Date(2024, 6, 10, 9, 15, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, r.RecordQuote(&QuoteEvent{Symbol: "NIFTY", Price: 100 + float64(i), At: base.Add(time.Duration(i) * 7 * time.Second)}))
	}
	require.NoError(t, r.RecordQuote(&QuoteEvent{Symbol: "TCS", Price: 3850, At: base}))

	counts, err := r.Counts()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"loads": 2, "predictions": 1, "quotes": 4}, counts)

	quotes, err := r.RecentQuotes("NIFTY", 2)
	require.NoError(t, err)
	require.Len(t, quotes, 2)
	assert.Equal(t, 102.0, quotes[0].Price)
	assert.Equal(t, 101.0, quotes[1].Price)
	assert.Equal(t, base.Add(14*time.Second).Unix(), quotes[0].At.Unix())
}

func TestSQLiteRecorder_Prune(t *testing.T) {
	r := openTestRecorder(t)
	old := time.Now().Add(-48 * time.Hour)

	require.NoError(t, r.RecordQuote(&QuoteEvent{Symbol: "NIFTY", Price: 1, At: old}))
	require.NoError(t, r.RecordQuote(&QuoteEvent{Symbol: "NIFTY", Price: 2}))
	require.NoError(t, r.RecordLoad(&LoadEvent{Symbol: "NIFTY", At: old}))

	n, err := r.Prune(time.Now().Add(-24 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	counts, err := r.Counts()
	require.NoError(t, err)
	assert.Equal(t, 1, counts["quotes"])
	assert.Equal(t, 0, counts["loads"])
}

func TestSQLiteRecorder_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	r, err := NewSQLiteRecorder(path, log.NewNopLogger())
	require.NoError(t, err)
	require.NoError(t, r.RecordQuote(&QuoteEvent{Symbol: "NIFTY", Price: 1}))
	require.NoError(t, r.Close())

	r, err = NewSQLiteRecorder(path, log.NewNopLogger())
	require.NoError(t, err)
	defer r.Close()
	counts, err := r.Counts()
	require.NoError(t, err)
	assert.Equal(t, 1, counts["quotes"])
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	assert.NoError(t, r.RecordLoad(&LoadEvent{}))
	assert.NoError(t, r.RecordPrediction(&PredictionEvent{}))
	assert.NoError(t, r.RecordQuote(&QuoteEvent{}))
	assert.NoError(t, r.Close())
}
