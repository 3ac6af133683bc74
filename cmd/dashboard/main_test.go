package main

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockDashboard/internal/recorder"
)

func TestLevelOption(t *testing.T) {
	tests := []struct {
		name      string
		wantDebug bool
		wantInfo  bool
		wantWarn  bool
	}{
		{"debug", true, true, true},
		{"info", false, true, true},
		{"", false, true, true},
		{"warn", false, false, true},
		{"error", false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := level.NewFilter(log.NewLogfmtLogger(&buf), levelOption(tt.name))

			buf.Reset()
			_ = level.Debug(logger).Log("msg", "x")
			assert.Equal(t, tt.wantDebug, buf.Len() > 0)
			buf.Reset()
			_ = level.Info(logger).Log("msg", "x")
			assert.Equal(t, tt.wantInfo, buf.Len() > 0)
			buf.Reset()
			_ = level.Warn(logger).Log("msg", "x")
			assert.Equal(t, tt.wantWarn, buf.Len() > 0)
		})
	}
}

func TestPruneJob(t *testing.T) {
	r, err := recorder.NewSQLiteRecorder(filepath.Join(t.TempDir(), "journal.db"), log.NewNopLogger())
	require.NoError(t, err)
	defer r.Close()

	require.NoError(t, r.RecordQuote(&recorder.QuoteEvent{Symbol: "NIFTY", Price: 1, At: time.Now().Add(-48 * time.Hour)}))
	require.NoError(t, r.RecordQuote(&recorder.QuoteEvent{Symbol: "NIFTY", Price: 2, At: time.Now()}))

	pruneJob(r, 24*time.Hour, log.NewNopLogger())()

	quotes, err := r.RecentQuotes("NIFTY", 10)
	require.NoError(t, err)
	require.Len(t, quotes, 1)
	assert.Equal(t, 2.0, quotes[0].Price)
}
