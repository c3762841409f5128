package exporter

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	apperrors "returnscli/internal/errors"
	"returnscli/pkg/contracts/domain"

	_ "modernc.org/sqlite"
)

// HistoryStore appends analysis runs to a SQLite database so return rates
// can be compared across runs.
type HistoryStore struct {
	db *sql.DB
}

// RunRecord is one row of the runs table.
type RunRecord struct {
	RunID             string           `json:"run_id"`
	GeneratedAt       time.Time        `json:"generated_at"`
	TotalOrders       int              `json:"total_orders"`
	TotalReturns      int              `json:"total_returns"`
	OverallReturnRate domain.NullFloat `json:"overall_return_rate"`
	DroppedRows       int              `json:"dropped_rows"`
}

// OpenHistoryStore opens or creates the database at path.
func OpenHistoryStore(ctx context.Context, path string) (*HistoryStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, apperrors.NewStorageError("failed to create directory", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to open history database", err).WithContext("path", path)
	}
	db.SetMaxOpenConns(1)

	s := &HistoryStore{db: db}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, apperrors.NewStorageError("failed to migrate history database", err).WithContext("path", path)
	}
	return s, nil
}

func (s *HistoryStore) migrate(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		generated_at TEXT NOT NULL,
		total_orders INTEGER NOT NULL,
		total_returns INTEGER NOT NULL,
		overall_return_rate REAL,
		dropped_rows INTEGER NOT NULL DEFAULT 0
	);
	CREATE TABLE IF NOT EXISTS category_summaries (
		run_id TEXT NOT NULL REFERENCES runs(run_id),
		position INTEGER NOT NULL,
		category TEXT NOT NULL,
		total_orders INTEGER NOT NULL,
		returns INTEGER NOT NULL,
		return_rate REAL NOT NULL,
		pct_of_total_orders REAL NOT NULL,
		pct_of_total_returns REAL NOT NULL,
		avg_price REAL,
		PRIMARY KEY (run_id, category)
	);
	CREATE TABLE IF NOT EXISTS price_summaries (
		run_id TEXT NOT NULL REFERENCES runs(run_id),
		position INTEGER NOT NULL,
		price_range TEXT NOT NULL,
		total_orders INTEGER NOT NULL,
		returns INTEGER NOT NULL,
		return_rate REAL NOT NULL,
		pct_of_total_orders REAL NOT NULL,
		pct_of_total_returns REAL NOT NULL,
		avg_price REAL,
		PRIMARY KEY (run_id, price_range)
	);`
	_, err := s.db.ExecContext(ctx, query)
	return err
}

// RecordRun stores the run and its summaries in one transaction.
func (s *HistoryStore) RecordRun(ctx context.Context, report *domain.AnalysisReport) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewStorageError("failed to begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, generated_at, total_orders, total_returns, overall_return_rate, dropped_rows)
		VALUES (?, ?, ?, ?, ?, ?)`,
		report.RunID,
		report.GeneratedAt.UTC().Format(time.RFC3339Nano),
		report.TotalOrders,
		report.TotalReturns,
		nullable(report.OverallReturnRate),
		report.Join.Dropped(),
	)
	if err != nil {
		return apperrors.NewStorageError("failed to insert run", err).WithContext("run_id", report.RunID)
	}

	if err := insertSummaries(ctx, tx, "category_summaries", "category", report.RunID, report.Categories); err != nil {
		return err
	}
	if err := insertSummaries(ctx, tx, "price_summaries", "price_range", report.RunID, report.PriceRanges); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewStorageError("failed to commit run", err)
	}
	return nil
}

func insertSummaries(ctx context.Context, tx *sql.Tx, table, keyColumn, runID string, groups []domain.GroupSummary) error {
	// table and keyColumn are package constants, never user input.
	query := `INSERT INTO ` + table + ` (run_id, position, ` + keyColumn + `, total_orders, returns,
		return_rate, pct_of_total_orders, pct_of_total_returns, avg_price)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for i, g := range groups {
		_, err := tx.ExecContext(ctx, query,
			runID, i, g.Key, g.TotalOrders, g.Returns,
			g.ReturnRate, g.PctOfTotalOrders, g.PctOfTotalReturns, nullable(g.AvgPrice),
		)
		if err != nil {
			return apperrors.NewStorageError("failed to insert summary", err).
				WithContext("table", table).WithContext("key", g.Key)
		}
	}
	return nil
}

// ListRuns returns the most recent runs first.
func (s *HistoryStore) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, generated_at, total_orders, total_returns, overall_return_rate, dropped_rows
		FROM runs
		ORDER BY generated_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to query runs", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []RunRecord
	for rows.Next() {
		var (
			r         RunRecord
			generated string
			rate      sql.NullFloat64
		)
		if err := rows.Scan(&r.RunID, &generated, &r.TotalOrders, &r.TotalReturns, &rate, &r.DroppedRows); err != nil {
			return nil, apperrors.NewStorageError("failed to scan run", err)
		}
		r.GeneratedAt, _ = time.Parse(time.RFC3339Nano, generated)
		if rate.Valid {
			r.OverallReturnRate = domain.SomeFloat(rate.Float64)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageError("failed to read runs", err)
	}
	return runs, nil
}

// CategoryHistory returns the summaries of one category across runs,
// oldest first. Key holds the run id.
func (s *HistoryStore) CategoryHistory(ctx context.Context, category string) ([]domain.GroupSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.run_id, c.total_orders, c.returns, c.return_rate, c.pct_of_total_orders, c.pct_of_total_returns, c.avg_price
		FROM category_summaries c JOIN runs r ON r.run_id = c.run_id
		WHERE c.category = ?
		ORDER BY r.generated_at ASC`, category)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to query category history", err)
	}
	defer func() { _ = rows.Close() }()

	var out []domain.GroupSummary
	for rows.Next() {
		var (
			g   domain.GroupSummary
			avg sql.NullFloat64
		)
		if err := rows.Scan(&g.Key, &g.TotalOrders, &g.Returns, &g.ReturnRate, &g.PctOfTotalOrders, &g.PctOfTotalReturns, &avg); err != nil {
			return nil, apperrors.NewStorageError("failed to scan category history", err)
		}
		if avg.Valid {
			g.AvgPrice = domain.SomeFloat(avg.Float64)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageError("failed to read category history", err)
	}
	return out, nil
}

// Close closes the database.
func (s *HistoryStore) Close() error {
	return s.db.Close()
}

func nullable(n domain.NullFloat) sql.NullFloat64 {
	return sql.NullFloat64{Float64: n.Value, Valid: n.Valid}
}
