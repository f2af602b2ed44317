// Package audit records solve attempts in a local DuckDB file.
package audit

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/google/uuid"

	"quizpilot/internal/question"
)

//go:embed schema.sql
var schemaDDL string

// Attempt is one solve attempt for one question.
type Attempt struct {
	ID         string
	SessionID  string
	PageURL    string
	Adapter    string
	Question   question.Question
	Outcome    string
	Reason     string
	Detail     string
	Suggestion question.Suggestion
	StartedAt  time.Time
	FinishedAt time.Time
}

// Row is an attempt as read back from the store.
type Row struct {
	ID           string    `json:"id"`
	SessionID    string    `json:"sessionId"`
	PageURL      string    `json:"pageUrl"`
	Adapter      string    `json:"adapter"`
	QuestionID   string    `json:"questionId"`
	QuestionKey  string    `json:"questionKey"`
	QuestionType string    `json:"questionType"`
	QuestionText string    `json:"questionText"`
	Outcome      string    `json:"outcome"`
	Reason       string    `json:"reason,omitempty"`
	Detail       string    `json:"detail,omitempty"`
	ClaimedIDs   []string  `json:"claimedIds,omitempty"`
	ClaimedText  string    `json:"claimedText,omitempty"`
	Reasoning    string    `json:"reasoning,omitempty"`
	StartedAt    time.Time `json:"startedAt"`
	FinishedAt   time.Time `json:"finishedAt"`
}

// Store persists attempts.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
// Use ":memory:" for a throwaway store.
func Open(ctx context.Context, path string) (*Store, error) {
	dsn := path
	if dsn == ":memory:" {
		dsn = ""
	}
	db, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, fmt.Errorf("open audit db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping audit db: %w", err)
	}
	if err := EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// EnsureSchema applies the schema DDL to db.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("audit: db is nil")
	}
	if _, err := db.ExecContext(ctx, schemaDDL); err != nil {
		return fmt.Errorf("apply audit schema: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts an attempt and returns its id.
func (s *Store) Record(ctx context.Context, attempt Attempt) (string, error) {
	if attempt.ID == "" {
		attempt.ID = uuid.NewString()
	}
	if attempt.SessionID == "" {
		return "", errors.New("audit: session id is required")
	}
	key, err := QuestionKey(attempt.Question)
	if err != nil {
		return "", fmt.Errorf("question key: %w", err)
	}
	choices, err := json.Marshal(attempt.Question.Choices)
	if err != nil {
		return "", fmt.Errorf("marshal choices: %w", err)
	}
	claimed, err := json.Marshal([]string(attempt.Suggestion.ChoiceIDs))
	if err != nil {
		return "", fmt.Errorf("marshal claimed ids: %w", err)
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO attempts (
		   attempt_id, session_id, page_url, adapter, question_id, question_key,
		   question_type, question_text, question_html, choices, outcome, reason,
		   detail, claimed_ids, claimed_text, reasoning, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		attempt.ID,
		attempt.SessionID,
		attempt.PageURL,
		attempt.Adapter,
		attempt.Question.ID,
		key,
		string(attempt.Question.Type),
		attempt.Question.Text,
		attempt.Question.HTML,
		string(choices),
		attempt.Outcome,
		attempt.Reason,
		attempt.Detail,
		string(claimed),
		attempt.Suggestion.Text.Joined(),
		attempt.Suggestion.Reasoning,
		attempt.StartedAt.UTC(),
		attempt.FinishedAt.UTC(),
	); err != nil {
		return "", fmt.Errorf("insert attempt: %w", err)
	}
	return attempt.ID, nil
}

// Recent returns up to limit attempts, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Row, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT CAST(attempt_id AS VARCHAR), CAST(session_id AS VARCHAR), page_url, adapter,
		        question_id, question_key, question_type, question_text, outcome,
		        COALESCE(reason, ''), COALESCE(detail, ''), COALESCE(CAST(claimed_ids AS VARCHAR), '[]'),
		        COALESCE(claimed_text, ''), COALESCE(reasoning, ''), started_at, finished_at
		 FROM attempts
		 ORDER BY finished_at DESC, attempt_id
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()
	var out []Row
	for rows.Next() {
		var row Row
		var claimed string
		if err := rows.Scan(
			&row.ID, &row.SessionID, &row.PageURL, &row.Adapter,
			&row.QuestionID, &row.QuestionKey, &row.QuestionType, &row.QuestionText, &row.Outcome,
			&row.Reason, &row.Detail, &claimed,
			&row.ClaimedText, &row.Reasoning, &row.StartedAt, &row.FinishedAt,
		); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		if err := json.Unmarshal([]byte(claimed), &row.ClaimedIDs); err != nil {
			return nil, fmt.Errorf("decode claimed ids: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// CountByKey returns how many attempts share a question key.
func (s *Store) CountByKey(ctx context.Context, key string) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM attempts WHERE question_key = ?`, key).Scan(&count); err != nil {
		return 0, fmt.Errorf("count attempts: %w", err)
	}
	return count, nil
}
