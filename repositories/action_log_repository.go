package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/samape/samape/models"
)

// ActionLogRepository is the append-only store of audited user actions
type ActionLogRepository interface {
	Create(ctx context.Context, entry *models.ActionLogEntry) error
	GetRecent(ctx context.Context, limit int) ([]models.ActionLogEntry, error)
}

// actionLogRepository implements ActionLogRepository interface
type actionLogRepository struct {
	db *sql.DB
}

// NewActionLogRepository creates a new action log repository
func NewActionLogRepository(db *sql.DB) ActionLogRepository {
	return &actionLogRepository{db: db}
}

// Create appends one action log entry
func (r *actionLogRepository) Create(ctx context.Context, entry *models.ActionLogEntry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	query := `
		INSERT INTO action_log (user_id, action, entity_type, entity_id, details, ip_address, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	var entityType sql.NullString
	if entry.EntityType != "" {
		entityType = sql.NullString{String: entry.EntityType, Valid: true}
	}

	var entityID sql.NullInt64
	if entry.EntityID != nil {
		entityID = sql.NullInt64{Int64: int64(*entry.EntityID), Valid: true}
	}

	var userID sql.NullInt64
	if entry.UserID != nil {
		userID = sql.NullInt64{Int64: int64(*entry.UserID), Valid: true}
	}

	result, err := r.db.ExecContext(ctx, query,
		userID,
		entry.Action,
		entityType,
		entityID,
		entry.Details,
		entry.IPAddress,
		entry.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to create action log entry: %w", err)
	}

	if id, err := result.LastInsertId(); err == nil {
		entry.ID = id
	}

	return nil
}

// GetRecent retrieves the most recent entries, newest first, with the
// actor's name joined in for display
func (r *actionLogRepository) GetRecent(ctx context.Context, limit int) ([]models.ActionLogEntry, error) {
	query := `
		SELECT l.id, l.user_id, l.action, l.entity_type, l.entity_id,
		       l.details, l.ip_address, l.timestamp, u.name
		FROM action_log l
		LEFT JOIN users u ON u.id = l.user_id
		ORDER BY l.timestamp DESC, l.id DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query action log: %w", err)
	}
	defer rows.Close()

	var entries []models.ActionLogEntry
	for rows.Next() {
		var entry models.ActionLogEntry
		var userID, entityID sql.NullInt64
		var entityType, details, ipAddress, userName sql.NullString

		err := rows.Scan(
			&entry.ID,
			&userID,
			&entry.Action,
			&entityType,
			&entityID,
			&details,
			&ipAddress,
			&entry.Timestamp,
			&userName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan action log entry: %w", err)
		}

		if userID.Valid {
			id := int(userID.Int64)
			entry.UserID = &id
		}
		if entityID.Valid {
			id := int(entityID.Int64)
			entry.EntityID = &id
		}
		entry.EntityType = entityType.String
		entry.Details = details.String
		entry.IPAddress = ipAddress.String
		entry.UserName = userName.String

		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating action log: %w", err)
	}

	return entries, nil
}
