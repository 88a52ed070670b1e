package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kaan/attendly/internal/app/models"
	"github.com/kaan/attendly/internal/db"
	"github.com/kaan/attendly/internal/pkg/apperrors"
)

// EventRepository handles database operations for events
type EventRepository struct {
	db *pgxpool.Pool
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{db: db}
}

var eventColumns = []string{
	"id", "name", "event_type", "event_date", "start_time", "end_time",
	"location_id", "location_text", "description", "capacity", "project_id",
	"created_by", "updated_by", "created_at", "updated_at",
}

func scanEvent(row pgx.Row) (*models.Event, error) {
	var event models.Event
	err := row.Scan(
		&event.ID,
		&event.Name,
		&event.EventType,
		&event.EventDate,
		&event.StartTime,
		&event.EndTime,
		&event.LocationID,
		&event.LocationText,
		&event.Description,
		&event.Capacity,
		&event.ProjectID,
		&event.CreatedBy,
		&event.UpdatedBy,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// CreateWithCreatorParticipation inserts a new event together with the
// creator's approved participation and its derived schedule entry, all in one
// transaction, and returns the event ID. The participation and entry get
// their event_id filled in from the insert.
func (r *EventRepository) CreateWithCreatorParticipation(ctx context.Context, event *models.Event, participation *models.Participation, entry *models.ScheduleEntry) (int64, error) {
	query := squirrel.Insert("events").
		Columns("name", "event_type", "event_date", "start_time", "end_time",
			"location_id", "location_text", "description", "capacity", "project_id",
			"created_by", "updated_by").
		Values(event.Name, event.EventType, event.EventDate, event.StartTime, event.EndTime,
			event.LocationID, event.LocationText, event.Description, event.Capacity, event.ProjectID,
			event.CreatedBy, event.UpdatedBy).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	var id int64
	err = db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
			return fmt.Errorf("error inserting event: %w", err)
		}

		participation.EventID = id
		entry.EventID = id

		if _, err := tx.Exec(ctx,
			`INSERT INTO participations (event_id, user_id, kind, status, invited_by)
			 VALUES ($1, $2, $3, $4, $5)`,
			participation.EventID, participation.UserID, participation.Kind, participation.Status, participation.InvitedBy); err != nil {
			return fmt.Errorf("error inserting creator participation: %w", err)
		}

		return upsertScheduleEntryTx(ctx, tx, entry)
	})
	if err != nil {
		return 0, err
	}

	return id, nil
}

// GetByID retrieves an event by ID
func (r *EventRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	query := squirrel.Select(eventColumns...).
		From("events").
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	event, err := scanEvent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return event, nil
}

// GetAll retrieves events matching the filter, newest date first, with total count
func (r *EventRepository) GetAll(ctx context.Context, eventType *string, from, to *string, offset uint64, limit int) ([]*models.Event, int64, error) {
	base := squirrel.Select(eventColumns...).
		From("events").
		PlaceholderFormat(squirrel.Dollar)
	countBase := squirrel.Select("COUNT(*)").
		From("events").
		PlaceholderFormat(squirrel.Dollar)

	if eventType != nil {
		base = base.Where("event_type = ?", *eventType)
		countBase = countBase.Where("event_type = ?", *eventType)
	}
	if from != nil {
		base = base.Where("event_date >= ?", *from)
		countBase = countBase.Where("event_date >= ?", *from)
	}
	if to != nil {
		base = base.Where("event_date <= ?", *to)
		countBase = countBase.Where("event_date <= ?", *to)
	}

	countSQL, countArgs, err := countBase.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error executing query: %w", err)
	}

	listSQL, listArgs, err := base.
		OrderBy("event_date DESC", "id DESC").
		Offset(offset).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning row: %w", err)
		}
		events = append(events, event)
	}

	return events, total, nil
}

func buildEventUpdate(event *models.Event) (string, []interface{}, error) {
	return squirrel.Update("events").
		Set("name", event.Name).
		Set("event_type", event.EventType).
		Set("event_date", event.EventDate).
		Set("start_time", event.StartTime).
		Set("end_time", event.EndTime).
		Set("location_id", event.LocationID).
		Set("location_text", event.LocationText).
		Set("description", event.Description).
		Set("capacity", event.Capacity).
		Set("project_id", event.ProjectID).
		Set("updated_by", event.UpdatedBy).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where("id = ?", event.ID).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

// Update persists mutable event fields and refreshes updated_at
func (r *EventRepository) Update(ctx context.Context, event *models.Event) error {
	sql, args, err := buildEventUpdate(event)
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	result, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrEventNotFound
	}

	return nil
}

// UpdateWithScheduleSync persists mutable event fields and re-points every
// derived schedule entry at the new date and time window in the same
// transaction, so a window move can never leave the mirror stale.
func (r *EventRepository) UpdateWithScheduleSync(ctx context.Context, event *models.Event) error {
	sql, args, err := buildEventUpdate(event)
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		result, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			return fmt.Errorf("error executing query: %w", err)
		}
		if result.RowsAffected() == 0 {
			return apperrors.ErrEventNotFound
		}

		return syncEventWindowTx(ctx, tx, event)
	})
}

// DeleteCascade transactionally removes the event, its participations and all
// derived schedule entries.
func (r *EventRepository) DeleteCascade(ctx context.Context, id int64) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM schedule_entries WHERE event_id = $1`, id); err != nil {
			return fmt.Errorf("error deleting schedule entries: %w", err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM participations WHERE event_id = $1`, id); err != nil {
			return fmt.Errorf("error deleting participations: %w", err)
		}

		result, err := tx.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("error deleting event: %w", err)
		}
		if result.RowsAffected() == 0 {
			return apperrors.ErrEventNotFound
		}

		return nil
	})
}
