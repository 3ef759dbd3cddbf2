package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"

	_ "modernc.org/sqlite"

	"ascendex-bars/internal/model"
)

// SQLiteStore persists bars to a SQLite database. Decimal columns are TEXT
// so values read back are byte-identical to what was received.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

var (
	_ Store = (*SQLiteStore)(nil)
	_ Store = (*NoopStore)(nil)
)

// NewSQLiteStore opens (or creates) the SQLite database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so show/prune can read while ingest writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	slog.Info("sqlite store opened", "path", dbPath)
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS bars (
			symbol       TEXT    NOT NULL,
			interval_tag TEXT    NOT NULL,
			open_time    INTEGER NOT NULL,
			message      TEXT    NOT NULL DEFAULT '',
			base_asset   TEXT    NOT NULL DEFAULT '',
			quote_asset  TEXT    NOT NULL DEFAULT '',
			open         TEXT    NOT NULL,
			close        TEXT    NOT NULL,
			high         TEXT    NOT NULL,
			low          TEXT    NOT NULL,
			volume       TEXT    NOT NULL,
			PRIMARY KEY (symbol, interval_tag, open_time)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_bars_time ON bars(open_time)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", truncate(stmt, 40), err)
		}
	}
	return nil
}

const upsertBar = `INSERT INTO bars
	(symbol, interval_tag, open_time, message, base_asset, quote_asset, open, close, high, low, volume)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(symbol, interval_tag, open_time) DO UPDATE SET
		message = excluded.message,
		base_asset = excluded.base_asset,
		quote_asset = excluded.quote_asset,
		open = excluded.open,
		close = excluded.close,
		high = excluded.high,
		low = excluded.low,
		volume = excluded.volume`

func (s *SQLiteStore) SaveBars(ctx context.Context, bars []model.BarHist) (int, error) {
	if len(bars) == 0 {
		return 0, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsertBar)
	if err != nil {
		return 0, fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, b := range bars {
		if _, err := stmt.ExecContext(ctx,
			b.Symbol(), string(b.Interval()), b.Time(),
			b.Message(), b.BaseAsset(), b.QuoteAsset(),
			b.Open(), b.Close(), b.High(), b.Low(), b.Volume(),
		); err != nil {
			return 0, fmt.Errorf("upsert %s %s %d: %w", b.Symbol(), b.Interval(), b.Time(), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return len(bars), nil
}

func (s *SQLiteStore) LatestTime(ctx context.Context, symbol string, interval model.Interval) (int64, bool, error) {
	var t sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT MAX(open_time) FROM bars WHERE symbol = ? AND interval_tag = ?`,
		symbol, string(interval)).Scan(&t)
	if err != nil {
		return 0, false, fmt.Errorf("latest time %s %s: %w", symbol, interval, err)
	}
	return t.Int64, t.Valid, nil
}

func (s *SQLiteStore) Bars(ctx context.Context, symbol string, interval model.Interval, from, to int64) ([]model.BarHist, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT
		symbol, interval_tag, open_time, message, base_asset, quote_asset, open, close, high, low, volume
		FROM bars
		WHERE symbol = ? AND interval_tag = ? AND open_time BETWEEN ? AND ?
		ORDER BY open_time`,
		symbol, string(interval), from, to)
	if err != nil {
		return nil, fmt.Errorf("query bars: %w", err)
	}
	defer rows.Close()

	var bars []model.BarHist
	for rows.Next() {
		var f model.BarHistFields
		var iv string
		if err := rows.Scan(&f.Symbol, &iv, &f.Time, &f.Message, &f.BaseAsset, &f.QuoteAsset,
			&f.Open, &f.Close, &f.High, &f.Low, &f.Volume); err != nil {
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		f.Interval = model.Interval(iv)
		b, err := model.NewBarHist(f)
		if err != nil {
			return nil, fmt.Errorf("stored bar %s %s %d: %w", f.Symbol, iv, f.Time, err)
		}
		bars = append(bars, b)
	}
	return bars, rows.Err()
}

func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bars`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count bars: %w", err)
	}
	return n, nil
}

func (s *SQLiteStore) DeleteBefore(ctx context.Context, cutoff int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM bars WHERE open_time < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete before %d: %w", cutoff, err)
	}
	return res.RowsAffected()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
