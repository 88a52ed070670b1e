package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kaan/attendly/internal/app/models"
)

// ScheduleEntryRepository handles database operations for derived schedule entries
type ScheduleEntryRepository struct {
	db *pgxpool.Pool
}

// NewScheduleEntryRepository creates a new ScheduleEntryRepository
func NewScheduleEntryRepository(db *pgxpool.Pool) *ScheduleEntryRepository {
	return &ScheduleEntryRepository{db: db}
}

// Schedule entries only ever change together with the participation or event
// row they derive from, so every write runs inside the caller's transaction.
// The package-level helpers below are shared by the participation and event
// repositories.

// upsertScheduleEntryTx creates or refreshes the single entry for a
// (user, event) pair. The unique constraint keys the conflict, so repeated
// and concurrent calls settle on one row mirroring the event's current window.
func upsertScheduleEntryTx(ctx context.Context, tx pgx.Tx, entry *models.ScheduleEntry) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO schedule_entries (user_id, event_id, entry_date, start_time, end_time)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (user_id, event_id) DO UPDATE SET
		 entry_date = EXCLUDED.entry_date, start_time = EXCLUDED.start_time,
		 end_time = EXCLUDED.end_time, updated_at = NOW()`,
		entry.UserID, entry.EventID, entry.EntryDate, entry.StartTime, entry.EndTime)
	if err != nil {
		return fmt.Errorf("error upserting schedule entry: %w", err)
	}
	return nil
}

// deleteScheduleEntryTx removes the entry for a (user, event) pair. Deleting
// a missing entry is a no-op: rejection must only guarantee absence.
func deleteScheduleEntryTx(ctx context.Context, tx pgx.Tx, eventID, userID int64) error {
	if _, err := tx.Exec(ctx, `DELETE FROM schedule_entries WHERE event_id = $1 AND user_id = $2`, eventID, userID); err != nil {
		return fmt.Errorf("error deleting schedule entry: %w", err)
	}
	return nil
}

// syncEventWindowTx re-points every entry derived from the event at its
// current date and time window.
func syncEventWindowTx(ctx context.Context, tx pgx.Tx, event *models.Event) error {
	_, err := tx.Exec(ctx,
		`UPDATE schedule_entries SET entry_date = $1, start_time = $2, end_time = $3, updated_at = NOW()
		 WHERE event_id = $4`,
		event.EventDate, event.StartTime, event.EndTime, event.ID)
	if err != nil {
		return fmt.Errorf("error syncing schedule entries: %w", err)
	}
	return nil
}

// ListForUser retrieves a user's entries with event names for a date range,
// soonest first. Nil bounds are open.
func (r *ScheduleEntryRepository) ListForUser(ctx context.Context, userID int64, from, to *time.Time) ([]*models.ScheduleEntry, error) {
	query := squirrel.Select(
		"s.id", "s.user_id", "s.event_id", "s.entry_date", "s.start_time", "s.end_time",
		"s.created_at", "s.updated_at", "e.name",
	).
		From("schedule_entries s").
		Join("events e ON e.id = s.event_id").
		Where("s.user_id = ?", userID).
		OrderBy("s.entry_date ASC", "s.start_time ASC NULLS FIRST").
		PlaceholderFormat(squirrel.Dollar)

	if from != nil {
		query = query.Where("s.entry_date >= ?", from.Format("2006-01-02"))
	}
	if to != nil {
		query = query.Where("s.entry_date <= ?", to.Format("2006-01-02"))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var entries []*models.ScheduleEntry
	for rows.Next() {
		var entry models.ScheduleEntry
		var event models.Event
		err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.EventID,
			&entry.EntryDate,
			&entry.StartTime,
			&entry.EndTime,
			&entry.CreatedAt,
			&entry.UpdatedAt,
			&event.Name,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		event.ID = entry.EventID
		entry.Event = &event
		entries = append(entries, &entry)
	}

	return entries, nil
}
