package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/samape/samape/models"
)

// LoginAttemptRepository is the append-only ledger of login attempts.
// Rows are only ever inserted; the rate limiter derives its decision by
// counting recent failures.
type LoginAttemptRepository interface {
	Create(ctx context.Context, attempt *models.LoginAttempt) error
	CountRecentFailures(ctx context.Context, identity string, since time.Time) (int, error)
	GetRecent(ctx context.Context, identity string, limit int) ([]models.LoginAttempt, error)
}

// loginAttemptRepository implements LoginAttemptRepository interface
type loginAttemptRepository struct {
	db *sql.DB
}

// NewLoginAttemptRepository creates a new login attempt repository
func NewLoginAttemptRepository(db *sql.DB) LoginAttemptRepository {
	return &loginAttemptRepository{db: db}
}

// Create appends one attempt row. The timestamp is set at write time
// unless the caller provided one.
func (r *loginAttemptRepository) Create(ctx context.Context, attempt *models.LoginAttempt) error {
	if attempt.Timestamp.IsZero() {
		attempt.Timestamp = time.Now().UTC()
	}

	query := `
		INSERT INTO login_attempts (email, success, ip_address, timestamp)
		VALUES (?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		attempt.Email,
		attempt.Success,
		attempt.IPAddress,
		attempt.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to record login attempt: %w", err)
	}

	if id, err := result.LastInsertId(); err == nil {
		attempt.ID = id
	}

	return nil
}

// CountRecentFailures counts failed attempts for an identity with a
// timestamp at or after the given cutoff.
func (r *loginAttemptRepository) CountRecentFailures(ctx context.Context, identity string, since time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM login_attempts
		WHERE email = ? AND success = 0 AND timestamp >= ?
	`

	var count int
	err := r.db.QueryRowContext(ctx, query, identity, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count login failures: %w", err)
	}

	return count, nil
}

// GetRecent retrieves the most recent attempts for an identity, newest
// first. The id tie-breaker keeps rows written at the same instant in
// insertion order; the ledger is append-only, so a higher id is always the
// later attempt.
func (r *loginAttemptRepository) GetRecent(ctx context.Context, identity string, limit int) ([]models.LoginAttempt, error) {
	query := `
		SELECT id, email, success, ip_address, timestamp
		FROM login_attempts
		WHERE email = ?
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, identity, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query login attempts: %w", err)
	}
	defer rows.Close()

	var attempts []models.LoginAttempt
	for rows.Next() {
		var attempt models.LoginAttempt
		var ipAddress sql.NullString

		err := rows.Scan(
			&attempt.ID,
			&attempt.Email,
			&attempt.Success,
			&ipAddress,
			&attempt.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan login attempt: %w", err)
		}

		if ipAddress.Valid {
			attempt.IPAddress = ipAddress.String
		}

		attempts = append(attempts, attempt)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating login attempts: %w", err)
	}

	return attempts, nil
}
