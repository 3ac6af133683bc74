package recorder

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists dashboard activity to a SQLite database.
type SQLiteRecorder struct {
	db     *sqlx.DB
	logger log.Logger
	mu     sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, logger log.Logger) (*SQLiteRecorder, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL so external readers don't block the writer.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, logger: logger}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	_ = level.Info(logger).Log("msg", "sqlite recorder opened", "path", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS loads (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp  INTEGER NOT NULL,
			symbol     TEXT,
			timeframe  TEXT,
			start_date TEXT,
			end_date   TEXT,
			points     INTEGER,
			error      TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_loads_ts ON loads(timestamp)`,

		`CREATE TABLE IF NOT EXISTS predictions (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp       INTEGER NOT NULL,
			symbol          TEXT,
			direction       TEXT,
			suggestion      TEXT,
			live_price      REAL,
			predicted_price REAL,
			confidence      REAL,
			error           TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_predictions_ts ON predictions(timestamp)`,

		`CREATE TABLE IF NOT EXISTS quotes (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			symbol    TEXT,
			price     REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_quotes_symbol_ts ON quotes(symbol, timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func unix(t time.Time) int64 {
	if t.IsZero() {
		return time.Now().Unix()
	}
	return t.Unix()
}

func (r *SQLiteRecorder) RecordLoad(evt *LoadEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.NamedExec(`INSERT INTO loads
		(timestamp, symbol, timeframe, start_date, end_date, points, error)
		VALUES (:timestamp, :symbol, :timeframe, :start_date, :end_date, :points, :error)`,
		map[string]interface{}{
			"timestamp":  unix(evt.At),
			"symbol":     evt.Symbol,
			"timeframe":  evt.Timeframe,
			"start_date": evt.Start,
			"end_date":   evt.End,
			"points":     evt.Points,
			"error":      evt.Error,
		})
	return err
}

func (r *SQLiteRecorder) RecordPrediction(evt *PredictionEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO predictions
		(timestamp, symbol, direction, suggestion, live_price, predicted_price, confidence, error)
		VALUES (?,?,?,?,?,?,?,?)`,
		unix(evt.At), evt.Symbol, evt.Direction, evt.Suggestion,
		evt.LivePrice, evt.PredictedPrice, evt.Confidence, evt.Error,
	)
	return err
}

func (r *SQLiteRecorder) RecordQuote(evt *QuoteEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO quotes (timestamp, symbol, price) VALUES (?,?,?)`,
		unix(evt.At), evt.Symbol, evt.Price,
	)
	return err
}

// RecentQuotes returns up to limit quotes for symbol, newest first.
func (r *SQLiteRecorder) RecentQuotes(symbol string, limit int) ([]QuoteEvent, error) {
	var rows []struct {
		Timestamp int64   `db:"timestamp"`
		Symbol    string  `db:"symbol"`
		Price     float64 `db:"price"`
	}
	err := r.db.Select(&rows, `SELECT timestamp, symbol, price FROM quotes
		WHERE symbol = ? ORDER BY timestamp DESC, id DESC LIMIT ?`, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("select quotes: %w", err)
	}
	out := make([]QuoteEvent, len(rows))
	for i, row := range rows {
		out[i] = QuoteEvent{Symbol: row.Symbol, Price: row.Price, At: time.Unix(row.Timestamp, 0)}
	}
	return out, nil
}

// Counts returns the number of rows per journal table.
func (r *SQLiteRecorder) Counts() (map[string]int, error) {
	out := make(map[string]int, 3)
	for _, table := range []string{"loads", "predictions", "quotes"} {
		var n int
		if err := r.db.Get(&n, "SELECT COUNT(*) FROM "+table); err != nil {
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
		out[table] = n
	}
	return out, nil
}

// Prune deletes rows older than cutoff and returns how many were removed.
func (r *SQLiteRecorder) Prune(cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var total int64
	for _, table := range []string{"loads", "predictions", "quotes"} {
		res, err := r.db.Exec("DELETE FROM "+table+" WHERE timestamp < ?", cutoff.Unix())
		if err != nil {
			return total, fmt.Errorf("prune %s: %w", table, err)
		}
		n, _ := res.RowsAffected()
		total += n
	}
	return total, nil
}

func (r *SQLiteRecorder) Close() error {
	_ = level.Info(r.logger).Log("msg", "closing sqlite recorder")
	return r.db.Close()
}
