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
	"github.com/kaan/attendly/internal/pkg/apperrors"
	"github.com/kaan/attendly/internal/pkg/dberrors"
)

// TaskRequestRepository handles database operations for task requests
type TaskRequestRepository struct {
	db *pgxpool.Pool
}

// NewTaskRequestRepository creates a new TaskRequestRepository
func NewTaskRequestRepository(db *pgxpool.Pool) *TaskRequestRepository {
	return &TaskRequestRepository{db: db}
}

var taskRequestColumns = []string{
	"id", "title", "detail", "requester_id", "assignee_id", "status", "note",
	"created_at", "updated_at", "responded_at",
}

func scanTaskRequest(row pgx.Row) (*models.TaskRequest, error) {
	var t models.TaskRequest
	err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Detail,
		&t.RequesterID,
		&t.AssigneeID,
		&t.Status,
		&t.Note,
		&t.CreatedAt,
		&t.UpdatedAt,
		&t.RespondedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserts a new task request and returns its ID
func (r *TaskRequestRepository) Create(ctx context.Context, t *models.TaskRequest) (int64, error) {
	query := squirrel.Insert("task_requests").
		Columns("title", "detail", "requester_id", "assignee_id", "status").
		Values(t.Title, t.Detail, t.RequesterID, t.AssigneeID, t.Status).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return 0, apperrors.ErrUserNotFound
		}
		return 0, fmt.Errorf("error executing query: %w", err)
	}

	return id, nil
}

// GetByID retrieves a task request by ID
func (r *TaskRequestRepository) GetByID(ctx context.Context, id int64) (*models.TaskRequest, error) {
	query := squirrel.Select(taskRequestColumns...).
		From("task_requests").
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	t, err := scanTaskRequest(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTaskRequestNotFound
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return t, nil
}

// ListForUser retrieves task requests where the user is requester or assignee,
// newest first, with total count
func (r *TaskRequestRepository) ListForUser(ctx context.Context, userID int64, offset uint64, limit int) ([]*models.TaskRequest, int64, error) {
	countQuery := squirrel.Select("COUNT(*)").
		From("task_requests").
		Where("requester_id = ? OR assignee_id = ?", userID, userID).
		PlaceholderFormat(squirrel.Dollar)

	countSQL, countArgs, err := countQuery.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error executing query: %w", err)
	}

	listQuery := squirrel.Select(taskRequestColumns...).
		From("task_requests").
		Where("requester_id = ? OR assignee_id = ?", userID, userID).
		OrderBy("created_at DESC", "id DESC").
		Offset(offset).
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := listQuery.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var requests []*models.TaskRequest
	for rows.Next() {
		t, err := scanTaskRequest(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning row: %w", err)
		}
		requests = append(requests, t)
	}

	return requests, total, nil
}

// Resolve moves a PENDING task request into a terminal status. The WHERE
// clause re-checks the status so concurrent answers settle on one winner.
func (r *TaskRequestRepository) Resolve(ctx context.Context, id int64, status workflow.Status, note *string, respondedAt time.Time) error {
	query := squirrel.Update("task_requests").
		Set("status", status).
		Set("note", note).
		Set("responded_at", respondedAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where("id = ? AND status = ?", id, workflow.StatusPending).
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
		return apperrors.ErrAlreadyResolved
	}

	return nil
}
