package weeks

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
	ErrWeekNotFound = errors.New("week not found")
	ErrUserNotFound = errors.New("user not found")
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, week *Week) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.weeks.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("week.id", week.ID.String()))

	workoutsJson, err := json.Marshal(week.Workouts)
	if err != nil {
		return fmt.Errorf("marshal workouts: %w", err)
	}

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO week
				(id, user_id, created_at, completed_at, start_date, workouts)
				VALUES ($1, $2, $3, $4, $5, $6);`,
		week.ID, week.UserID, week.CreatedAt, week.CompletedAt, week.StartDate, workoutsJson,
	)
	if err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return ErrUserNotFound
		}
		return err
	}

	return nil
}

func (r *Repo) Get(ctx context.Context, userID, weekID uuid.UUID) (_ *Week, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.weeks.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("week.id", weekID.String()))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, user_id, created_at, completed_at, start_date, workouts
			FROM week
			WHERE id = $1 AND user_id = $2;`,
		weekID, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	weeks, err := r.rows2weeks(rows)
	if err != nil {
		return nil, err
	}

	if len(weeks) != 1 {
		return nil, ErrWeekNotFound
	}

	return &weeks[0], nil
}

// List returns all weeks of one user, most recently started first.
func (r *Repo) List(ctx context.Context, userID uuid.UUID) (_ []Week, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.weeks.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID.String()))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, user_id, created_at, completed_at, start_date, workouts
			FROM week
			WHERE user_id = $1
			ORDER BY start_date DESC;`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return r.rows2weeks(rows)
}

// Update replaces the stored week document, the workouts column included.
func (r *Repo) Update(ctx context.Context, week *Week) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.weeks.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("week.id", week.ID.String()))

	workoutsJson, err := json.Marshal(week.Workouts)
	if err != nil {
		return fmt.Errorf("marshal workouts: %w", err)
	}

	tag, err := r.db.Exec(
		ctx,
		`UPDATE week
			SET completed_at = $1, start_date = $2, workouts = $3
			WHERE id = $4 AND user_id = $5;`,
		week.CompletedAt, week.StartDate, workoutsJson, week.ID, week.UserID,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrWeekNotFound
	}

	return nil
}

func (r *Repo) Delete(ctx context.Context, userID, weekID uuid.UUID) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.weeks.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("week.id", weekID.String()))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM week WHERE id = $1 AND user_id = $2;`,
		weekID, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrWeekNotFound
	}
	return nil
}

func (r *Repo) rows2weeks(rows pgx.Rows) ([]Week, error) {
	var weeks []Week
	for rows.Next() {
		var week Week
		var completedAt *time.Time
		var workoutsBytes []byte
		if err := rows.Scan(
			&week.ID, &week.UserID, &week.CreatedAt, &completedAt, &week.StartDate, &workoutsBytes,
		); err != nil {
			return nil, err
		}

		week.CompletedAt = completedAt

		if len(workoutsBytes) > 0 {
			if err := json.Unmarshal(workoutsBytes, &week.Workouts); err != nil {
				return nil, fmt.Errorf("unmarshal workouts for week %s: %w", week.ID, err)
			}
		}
		if week.Workouts == nil {
			week.Workouts = make([]Workout, 0)
		}

		weeks = append(weeks, week)
	}

	if weeks == nil {
		weeks = make([]Week, 0)
	}

	return weeks, nil
}
