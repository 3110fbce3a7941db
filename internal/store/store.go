package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"shelfscan/internal/analysis"
	"shelfscan/internal/config"
)

// Analysis is one persisted analysis run. Items are populated by GetByID;
// List returns header rows only.
type Analysis struct {
	ID            string                 `json:"id"`
	VideoPath     string                 `json:"videoPath"`
	CreatedAt     time.Time              `json:"createdAt"`
	AnalysisType  string                 `json:"analysisType"`
	Confidence    float64                `json:"confidence"`
	DetectedCount int                    `json:"detectedCount"`
	Items         []analysis.ItemDetails `json:"items,omitempty"`
}

// Store persists completed analyses backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the results database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.DataDir, "analyses.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Save persists one completed analysis and returns its stored form.
func (s *Store) Save(ctx context.Context, videoPath string, response analysis.MultiItemAnalysisResponse) (*Analysis, error) {
	id := uuid.NewString()
	now := time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin save tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(
		ctx,
		`INSERT INTO analyses (id, video_path, created_at, analysis_type, confidence, detected_count)
         VALUES (?, ?, ?, ?, ?, ?)`,
		id,
		videoPath,
		now.Format(time.RFC3339Nano),
		response.AnalysisType,
		response.Confidence,
		response.DetectedCount,
	)
	if err != nil {
		return nil, fmt.Errorf("insert analysis: %w", err)
	}

	for position, item := range response.Items {
		_, err = tx.ExecContext(
			ctx,
			`INSERT INTO analysis_items (
                analysis_id, position, title, description, category, location,
                make, model, condition, estimated_price, quantity, confidence
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id,
			position,
			item.Title,
			item.Description,
			item.Category,
			item.Location,
			item.Make,
			item.Model,
			item.Condition,
			item.EstimatedPrice,
			item.Quantity,
			item.Confidence,
		)
		if err != nil {
			return nil, fmt.Errorf("insert analysis item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit save: %w", err)
	}
	return s.GetByID(ctx, id)
}

// GetByID fetches one analysis with its items, or nil when absent.
func (s *Store) GetByID(ctx context.Context, id string) (*Analysis, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT id, video_path, created_at, analysis_type, confidence, detected_count
         FROM analyses WHERE id = ?`,
		id,
	)
	record, err := scanAnalysis(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get analysis: %w", err)
	}

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT title, description, category, location, make, model, condition,
                estimated_price, quantity, confidence
         FROM analysis_items WHERE analysis_id = ? ORDER BY position`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("get analysis items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item analysis.ItemDetails
		if err := rows.Scan(
			&item.Title,
			&item.Description,
			&item.Category,
			&item.Location,
			&item.Make,
			&item.Model,
			&item.Condition,
			&item.EstimatedPrice,
			&item.Quantity,
			&item.Confidence,
		); err != nil {
			return nil, fmt.Errorf("scan analysis item: %w", err)
		}
		record.Items = append(record.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate analysis items: %w", err)
	}
	return record, nil
}

// List returns analysis headers, newest first. limit <= 0 means no limit.
func (s *Store) List(ctx context.Context, limit int) ([]*Analysis, error) {
	query := `SELECT id, video_path, created_at, analysis_type, confidence, detected_count
              FROM analyses ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	defer rows.Close()

	var records []*Analysis
	for rows.Next() {
		record, err := scanAnalysis(rows)
		if err != nil {
			return nil, fmt.Errorf("scan analysis: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate analyses: %w", err)
	}
	return records, nil
}

// Delete removes an analysis and its items. Deleting an unknown id is a no-op.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM analyses WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete analysis: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row rowScanner) (*Analysis, error) {
	var record Analysis
	var createdAt string
	if err := row.Scan(
		&record.ID,
		&record.VideoPath,
		&createdAt,
		&record.AnalysisType,
		&record.Confidence,
		&record.DetectedCount,
	); err != nil {
		return nil, err
	}
	parsed, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	record.CreatedAt = parsed
	return &record, nil
}
