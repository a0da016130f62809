package goals

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/fitcoach/internal/telemetry/tracing"
	"github.com/2beens/fitcoach/pkg"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrGoalNotFound         = errors.New("goal not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrProgressLimitReached = errors.New("goal progress limit reached")
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, goal *Goal) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.goals.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("goal.id", goal.ID.String()))

	progressJson, err := json.Marshal(goal.Progress)
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO goal
				(id, user_id, created_at, starting_date, target_date, achieved, active, starting_point, target, progress)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);`,
		goal.ID, goal.UserID, goal.CreatedAt, goal.StartingDate, goal.TargetDate,
		goal.Achieved, goal.Active, goal.StartingPoint, goal.Target, progressJson,
	)
	if err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return ErrUserNotFound
		}
		return err
	}

	return nil
}

func (r *Repo) Get(ctx context.Context, userID, goalID uuid.UUID) (_ *Goal, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.goals.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("goal.id", goalID.String()))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, user_id, created_at, starting_date, target_date, achieved, active, starting_point, target, progress
			FROM goal
			WHERE id = $1 AND user_id = $2;`,
		goalID, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	userGoals, err := r.rows2goals(rows)
	if err != nil {
		return nil, err
	}

	if len(userGoals) != 1 {
		return nil, ErrGoalNotFound
	}

	return &userGoals[0], nil
}

// List returns all goals of one user, most recently created first.
func (r *Repo) List(ctx context.Context, userID uuid.UUID) (_ []Goal, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.goals.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID.String()))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, user_id, created_at, starting_date, target_date, achieved, active, starting_point, target, progress
			FROM goal
			WHERE user_id = $1
			ORDER BY created_at DESC;`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return r.rows2goals(rows)
}

// AppendProgress atomically appends data points to the goal progress log.
// The append is refused once the log would grow past its limit.
func (r *Repo) AppendProgress(ctx context.Context, userID, goalID uuid.UUID, points []DataPoint) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.goals.appendProgress")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("goal.id", goalID.String()),
		attribute.Int("points", len(points)),
	)

	pointsJson, err := json.Marshal(points)
	if err != nil {
		return fmt.Errorf("marshal progress points: %w", err)
	}

	tag, err := r.db.Exec(
		ctx,
		`UPDATE goal
			SET progress = progress || $1::jsonb
			WHERE id = $2 AND user_id = $3 AND jsonb_array_length(progress) + $4 <= $5;`,
		pointsJson, goalID, userID, len(points), maxProgressDataPoints,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		// either the goal is missing or its progress log is full
		if _, err := r.Get(ctx, userID, goalID); err != nil {
			return err
		}
		return ErrProgressLimitReached
	}

	return nil
}

func (r *Repo) Delete(ctx context.Context, userID, goalID uuid.UUID) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.goals.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("goal.id", goalID.String()))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM goal WHERE id = $1 AND user_id = $2;`,
		goalID, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrGoalNotFound
	}
	return nil
}

func (r *Repo) rows2goals(rows pgx.Rows) ([]Goal, error) {
	var userGoals []Goal
	for rows.Next() {
		var goal Goal
		var targetDate *time.Time
		var progressBytes []byte
		if err := rows.Scan(
			&goal.ID, &goal.UserID, &goal.CreatedAt, &goal.StartingDate, &targetDate,
			&goal.Achieved, &goal.Active, &goal.StartingPoint, &goal.Target, &progressBytes,
		); err != nil {
			return nil, err
		}

		goal.TargetDate = targetDate

		if len(progressBytes) > 0 {
			if err := json.Unmarshal(progressBytes, &goal.Progress); err != nil {
				return nil, fmt.Errorf("unmarshal progress for goal %s: %w", goal.ID, err)
			}
		}
		if goal.Progress == nil {
			goal.Progress = make([]DataPoint, 0)
		}

		userGoals = append(userGoals, goal)
	}

	if userGoals == nil {
		userGoals = make([]Goal, 0)
	}

	return userGoals, nil
}
