// Package metrics records command usage and reports process health.
package metrics

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// CommandMetric records a single command execution.
type CommandMetric struct {
	Command   string
	Owner     string
	Success   bool
	LatencyMS int64
	Timestamp time.Time
}

// Store handles persistence of metrics to SQLite.
type Store struct {
	db *sql.DB
}

// NewStore initializes the Store with an existing database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Record saves a metric to the database.
func (s *Store) Record(ctx context.Context, m CommandMetric) error {
	ts := m.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO command_metrics (command, owner, success, latency_ms, timestamp) VALUES (?, ?, ?, ?, ?)`,
		m.Command, m.Owner, m.Success, m.LatencyMS, ts.UTC().Format(time.DateTime),
	)
	if err != nil {
		return fmt.Errorf("failed to record metric for %s: %w", m.Command, err)
	}
	return nil
}

// Track runs fn and records how long it took and whether it failed.
func (s *Store) Track(ctx context.Context, command, owner string, fn func() error) error {
	start := time.Now()
	err := fn()
	m := CommandMetric{
		Command:   command,
		Owner:     owner,
		Success:   err == nil,
		LatencyMS: time.Since(start).Milliseconds(),
	}
	if recErr := s.Record(ctx, m); recErr != nil && err == nil {
		return recErr
	}
	return err
}

// DailyUsage represents command totals for a single day.
type DailyUsage struct {
	Date         string
	Executions   int
	Failures     int
	AvgLatencyMS int64
}

// GetDailyUsage retrieves usage for the last N days, newest first.
func (s *Store) GetDailyUsage(ctx context.Context, days int) ([]DailyUsage, error) {
	since := time.Now().UTC().AddDate(0, 0, -days).Format(time.DateTime)
	rows, err := s.db.QueryContext(ctx,
		`SELECT substr(timestamp, 1, 10) AS day,
		        COUNT(*),
		        SUM(CASE WHEN success THEN 0 ELSE 1 END),
		        CAST(AVG(latency_ms) AS INTEGER)
		   FROM command_metrics
		  WHERE timestamp >= ?
		  GROUP BY day
		  ORDER BY day DESC`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily usage: %w", err)
	}
	defer rows.Close()

	var results []DailyUsage
	for rows.Next() {
		var u DailyUsage
		if err := rows.Scan(&u.Date, &u.Executions, &u.Failures, &u.AvgLatencyMS); err != nil {
			return nil, fmt.Errorf("failed to scan daily usage: %w", err)
		}
		results = append(results, u)
	}
	return results, rows.Err()
}

// Cleanup removes records older than the specified number of days.
func (s *Store) Cleanup(ctx context.Context, olderThanDays int) (int64, error) {
	threshold := time.Now().UTC().AddDate(0, 0, -olderThanDays).Format(time.DateTime)
	res, err := s.db.ExecContext(ctx, `DELETE FROM command_metrics WHERE timestamp < ?`, threshold)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up metrics: %w", err)
	}
	return res.RowsAffected()
}
