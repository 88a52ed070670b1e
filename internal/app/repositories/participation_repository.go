package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kaan/attendly/internal/app/models"
	"github.com/kaan/attendly/internal/app/workflow"
	"github.com/kaan/attendly/internal/db"
	"github.com/kaan/attendly/internal/pkg/apperrors"
	"github.com/kaan/attendly/internal/pkg/dberrors"
)

// ParticipationRepository handles database operations for participations
type ParticipationRepository struct {
	db *pgxpool.Pool
}

// NewParticipationRepository creates a new ParticipationRepository
func NewParticipationRepository(db *pgxpool.Pool) *ParticipationRepository {
	return &ParticipationRepository{db: db}
}

var participationColumns = []string{
	"id", "event_id", "user_id", "kind", "status", "note",
	"invited_by", "created_at", "updated_at", "responded_at",
}

func scanParticipation(row pgx.Row) (*models.Participation, error) {
	var p models.Participation
	err := row.Scan(
		&p.ID,
		&p.EventID,
		&p.UserID,
		&p.Kind,
		&p.Status,
		&p.Note,
		&p.InvitedBy,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.RespondedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByID retrieves a participation by ID
func (r *ParticipationRepository) GetByID(ctx context.Context, id int64) (*models.Participation, error) {
	query := squirrel.Select(participationColumns...).
		From("participations").
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	p, err := scanParticipation(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrParticipationNotFound
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return p, nil
}

// GetByEventAndUser retrieves the unique participation for an (event, user)
// pair, or nil when none exists.
func (r *ParticipationRepository) GetByEventAndUser(ctx context.Context, eventID, userID int64) (*models.Participation, error) {
	query := squirrel.Select(participationColumns...).
		From("participations").
		Where("event_id = ? AND user_id = ?", eventID, userID).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	p, err := scanParticipation(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return p, nil
}

// ListByEvent retrieves all participations for an event with participant info
func (r *ParticipationRepository) ListByEvent(ctx context.Context, eventID int64) ([]*models.Participation, error) {
	query := squirrel.Select(
		"p.id", "p.event_id", "p.user_id", "p.kind", "p.status", "p.note",
		"p.invited_by", "p.created_at", "p.updated_at", "p.responded_at",
		"u.email", "u.first_name", "u.last_name",
	).
		From("participations p").
		Join("users u ON u.id = p.user_id").
		Where("p.event_id = ?", eventID).
		OrderBy("p.created_at ASC").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var participations []*models.Participation
	for rows.Next() {
		var p models.Participation
		var user models.User
		err := rows.Scan(
			&p.ID,
			&p.EventID,
			&p.UserID,
			&p.Kind,
			&p.Status,
			&p.Note,
			&p.InvitedBy,
			&p.CreatedAt,
			&p.UpdatedAt,
			&p.RespondedAt,
			&user.Email,
			&user.FirstName,
			&user.LastName,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		user.ID = p.UserID
		p.User = &user
		participations = append(participations, &p)
	}

	return participations, nil
}

// Create inserts a participation. The unique constraint on (event_id, user_id)
// serializes concurrent invites: when a concurrent insert already created the
// row, ErrResourceAlreadyExists is returned and the caller re-reads.
func (r *ParticipationRepository) Create(ctx context.Context, p *models.Participation) (int64, error) {
	query := squirrel.Insert("participations").
		Columns("event_id", "user_id", "kind", "status", "invited_by").
		Values(p.EventID, p.UserID, p.Kind, p.Status, p.InvitedBy).
		Suffix("ON CONFLICT (event_id, user_id) DO NOTHING RETURNING id").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrResourceAlreadyExists
		}
		if dberrors.IsForeignKeyViolation(err) {
			return 0, apperrors.ErrUserNotFound
		}
		return 0, fmt.Errorf("error executing query: %w", err)
	}

	return id, nil
}

// UpdateKind changes the participation kind in place without touching status
func (r *ParticipationRepository) UpdateKind(ctx context.Context, id int64, kind models.ParticipationKind) error {
	query := squirrel.Update("participations").
		Set("kind", kind).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	result, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrParticipationNotFound
	}

	return nil
}

// ResolveWithScheduleEntry moves a PENDING participation into a terminal
// status and mutates the derived schedule entry in the same transaction:
// APPROVED upserts the entry, REJECTED guarantees its absence. The WHERE
// clause re-checks the status so concurrent answers settle on exactly one
// winner; losing callers see ErrAlreadyResolved.
func (r *ParticipationRepository) ResolveWithScheduleEntry(ctx context.Context, id int64, status workflow.Status, note *string, respondedAt time.Time, entry *models.ScheduleEntry) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		result, err := tx.Exec(ctx,
			`UPDATE participations SET status = $1, note = $2, responded_at = $3, updated_at = NOW()
			 WHERE id = $4 AND status = $5`,
			status, note, respondedAt, id, workflow.StatusPending)
		if err != nil {
			return fmt.Errorf("error resolving participation: %w", err)
		}
		if result.RowsAffected() == 0 {
			return apperrors.ErrAlreadyResolved
		}

		switch status {
		case workflow.StatusApproved:
			return upsertScheduleEntryTx(ctx, tx, entry)
		case workflow.StatusRejected:
			return deleteScheduleEntryTx(ctx, tx, entry.EventID, entry.UserID)
		}
		return nil
	})
}

// DeleteWithScheduleEntry transactionally removes the participation for an
// (event, user) pair together with its derived schedule entry, if any.
func (r *ParticipationRepository) DeleteWithScheduleEntry(ctx context.Context, eventID, userID int64) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if err := deleteScheduleEntryTx(ctx, tx, eventID, userID); err != nil {
			return err
		}

		result, err := tx.Exec(ctx, `DELETE FROM participations WHERE event_id = $1 AND user_id = $2`, eventID, userID)
		if err != nil {
			return fmt.Errorf("error deleting participation: %w", err)
		}
		if result.RowsAffected() == 0 {
			return apperrors.ErrParticipationNotFound
		}

		return nil
	})
}

// CountApprovedByKind counts approved participations per kind for a user
// whose event instant falls in [from, to). Nil bounds are open.
func (r *ParticipationRepository) CountApprovedByKind(ctx context.Context, userID int64, from, to *time.Time) (map[models.ParticipationKind]int, error) {
	query := squirrel.Select("p.kind", "COUNT(*)").
		From("participations p").
		Join("events e ON e.id = p.event_id").
		Where("p.user_id = ? AND p.status = ?", userID, workflow.StatusApproved).
		GroupBy("p.kind").
		PlaceholderFormat(squirrel.Dollar)

	// The event instant is its date at the start time (midnight when the
	// event is all-day). Bounds arrive in the organization's timezone and are
	// compared as wall-clock timestamps.
	if from != nil {
		query = query.Where("e.event_date + COALESCE(e.start_time, '00:00')::time >= ?::timestamp", from.Format("2006-01-02 15:04:05"))
	}
	if to != nil {
		query = query.Where("e.event_date + COALESCE(e.start_time, '00:00')::time < ?::timestamp", to.Format("2006-01-02 15:04:05"))
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

	counts := make(map[models.ParticipationKind]int)
	for rows.Next() {
		var kind models.ParticipationKind
		var count int
		if err := rows.Scan(&kind, &count); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		counts[kind] = count
	}

	return counts, nil
}
