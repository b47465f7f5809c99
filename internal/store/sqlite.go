package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/avoronin/intakebot/internal/domain"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a new SQLite-backed repository and initializes the schema.
func NewSQLite(dbPath string) (Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Open database with WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS cases (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at INTEGER NOT NULL,
		chat_id TEXT NOT NULL,
		name TEXT,
		city TEXT,
		debt_type TEXT,
		urgency TEXT,
		debt_details TEXT,
		docs_info TEXT,
		case_summary TEXT,
		contact_info TEXT,
		status TEXT NOT NULL,
		notes TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_cases_created ON cases(created_at);
	CREATE INDEX IF NOT EXISTS idx_cases_chat ON cases(chat_id);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// SaveCase inserts one case record. Retries briefly on SQLITE_BUSY so a
// concurrent sweep or read does not lose a confirmed case.
func (s *SQLiteStore) SaveCase(ctx context.Context, chatID string, data domain.IntakeData, summary string) (int64, error) {
	query := `
	INSERT INTO cases (
		created_at, chat_id, name, city, debt_type, urgency,
		debt_details, docs_info, case_summary, contact_info, status, notes
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	var debtType, urgency string
	if data.Classification != nil {
		debtType = data.Classification.Type
		urgency = data.Classification.Urgency
	}

	args := []interface{}{
		time.Now().Unix(), chatID,
		nullable(data.ClientName), nullable(data.City),
		nullable(debtType), nullable(urgency),
		nullable(data.DebtDetails), nullable(data.DocsInfo),
		nullable(summary), nullable(data.ContactInfo),
		domain.CaseStatusNew, nullable(data.Notes),
	}

	maxRetries := 3
	baseDelay := 100 * time.Millisecond

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		result, err := s.db.ExecContext(ctx, query, args...)
		if err == nil {
			id, err := result.LastInsertId()
			if err != nil {
				return 0, fmt.Errorf("last insert id: %w", err)
			}
			return id, nil
		}
		lastErr = err

		if !isSQLiteConflict(err) || i == maxRetries-1 {
			break
		}
		delay := baseDelay * time.Duration(1<<i)
		slog.Debug("Case insert hit SQLITE_BUSY, retrying",
			"chat_id", chatID,
			"attempt", i+1,
			"delay", delay)
		time.Sleep(delay)
	}

	return 0, fmt.Errorf("insert case for chat %s: %w", chatID, lastErr)
}

// CountCases returns the total number of stored cases.
func (s *SQLiteStore) CountCases(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cases`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count cases: %w", err)
	}
	return count, nil
}

// ListRecentCases returns up to limit cases, newest first.
func (s *SQLiteStore) ListRecentCases(ctx context.Context, limit int) ([]*domain.CaseRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, created_at, chat_id, name, city, debt_type, urgency,
		       debt_details, docs_info, case_summary, contact_info, status, notes
		FROM cases ORDER BY created_at DESC, id DESC LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent cases: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close case rows", "error", closeErr)
		}
	}()

	var records []*domain.CaseRecord
	for rows.Next() {
		var rec domain.CaseRecord
		var createdAt int64
		var name, city, debtType, urgency, details, docs, summary, contact, notes sql.NullString

		if err := rows.Scan(
			&rec.ID, &createdAt, &rec.ChatID, &name, &city, &debtType, &urgency,
			&details, &docs, &summary, &contact, &rec.Status, &notes,
		); err != nil {
			return nil, fmt.Errorf("scan case row: %w", err)
		}

		rec.CreatedAt = time.Unix(createdAt, 0)
		rec.Name = name.String
		rec.City = city.String
		rec.DebtType = debtType.String
		rec.Urgency = urgency.String
		rec.DebtDetails = details.String
		rec.DocsInfo = docs.String
		rec.CaseSummary = summary.String
		rec.ContactInfo = contact.String
		rec.Notes = notes.String
		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate case rows: %w", err)
	}

	return records, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

func nullable(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}

// isSQLiteConflict reports SQLITE_BUSY / "database is locked" errors, the
// concurrency errors that warrant a retry.
func isSQLiteConflict(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}
