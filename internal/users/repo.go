package users

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
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already taken")
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, user *User) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", user.ID.String()))

	interestsJson, err := json.Marshal(user.Interests)
	if err != nil {
		return fmt.Errorf("marshal interests: %w", err)
	}

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO fitness_user
				(id, created_at, email, password_hash, google_id, provider,
				first_name, last_name, display_name, age, birthday,
				is_active, is_premium,
				measurement_system, activity_level, variety_preference,
				desired_workouts_per_week, interests)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);`,
		user.ID, user.CreatedAt,
		nullable(user.Email), nullable(user.PasswordHash), nullable(user.GoogleID), nullable(user.Provider),
		nullable(user.FirstName), nullable(user.LastName), nullable(user.DisplayName),
		user.Age, user.Birthday,
		user.IsActive, user.IsPremium,
		nullable(string(user.MeasurementSystem)), nullable(string(user.ActivityLevel)), string(user.VarietyPreference),
		user.DesiredWorkoutsPerWeek, interestsJson,
	)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return ErrEmailTaken
		}
		return err
	}

	return nil
}

func (r *Repo) Get(ctx context.Context, id uuid.UUID) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", id.String()))

	return r.getByField(ctx, "id", id)
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.getByEmail")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return r.getByField(ctx, "email", email)
}

func (r *Repo) GetByGoogleID(ctx context.Context, googleID string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.getByGoogleId")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return r.getByField(ctx, "google_id", googleID)
}

func (r *Repo) getByField(ctx context.Context, field string, value any) (*User, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT
				id, created_at, email, password_hash, google_id, provider,
				first_name, last_name, display_name, age, birthday,
				is_active, is_premium,
				measurement_system, activity_level, variety_preference,
				desired_workouts_per_week, interests
			FROM fitness_user
			WHERE `+field+` = $1;`,
		value,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	foundUsers, err := r.rows2users(rows)
	if err != nil {
		return nil, err
	}

	if len(foundUsers) != 1 {
		return nil, ErrUserNotFound
	}

	return &foundUsers[0], nil
}

// Update replaces the profile fields. The account fields (email, password
// hash, google id, provider) are deliberately not touched here.
func (r *Repo) Update(ctx context.Context, user *User) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", user.ID.String()))

	interestsJson, err := json.Marshal(user.Interests)
	if err != nil {
		return fmt.Errorf("marshal interests: %w", err)
	}

	tag, err := r.db.Exec(
		ctx,
		`UPDATE fitness_user SET
				first_name = $1, last_name = $2, display_name = $3, age = $4, birthday = $5,
				is_active = $6, is_premium = $7,
				measurement_system = $8, activity_level = $9, variety_preference = $10,
				desired_workouts_per_week = $11, interests = $12
			WHERE id = $13;`,
		nullable(user.FirstName), nullable(user.LastName), nullable(user.DisplayName),
		user.Age, user.Birthday,
		user.IsActive, user.IsPremium,
		nullable(string(user.MeasurementSystem)), nullable(string(user.ActivityLevel)), string(user.VarietyPreference),
		user.DesiredWorkoutsPerWeek, interestsJson,
		user.ID,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (r *Repo) rows2users(rows pgx.Rows) ([]User, error) {
	var foundUsers []User
	for rows.Next() {
		var user User
		var email, passwordHash, googleID, provider *string
		var firstName, lastName, displayName *string
		var age *int
		var birthday *time.Time
		var measurementSystem, activityLevel *string
		var interestsBytes []byte

		if err := rows.Scan(
			&user.ID, &user.CreatedAt, &email, &passwordHash, &googleID, &provider,
			&firstName, &lastName, &displayName, &age, &birthday,
			&user.IsActive, &user.IsPremium,
			&measurementSystem, &activityLevel, &user.VarietyPreference,
			&user.DesiredWorkoutsPerWeek, &interestsBytes,
		); err != nil {
			return nil, err
		}

		user.Email = deref(email)
		user.PasswordHash = deref(passwordHash)
		user.GoogleID = deref(googleID)
		user.Provider = deref(provider)
		user.FirstName = deref(firstName)
		user.LastName = deref(lastName)
		user.DisplayName = deref(displayName)
		if age != nil {
			user.Age = *age
		}
		user.Birthday = birthday
		user.MeasurementSystem = MeasurementSystem(deref(measurementSystem))
		user.ActivityLevel = ActivityLevel(deref(activityLevel))

		if len(interestsBytes) > 0 {
			if err := json.Unmarshal(interestsBytes, &user.Interests); err != nil {
				return nil, fmt.Errorf("unmarshal interests for user %s: %w", user.ID, err)
			}
		}
		if user.Interests == nil {
			user.Interests = make([]Interest, 0)
		}

		foundUsers = append(foundUsers, user)
	}

	return foundUsers, nil
}

// nullable maps an empty string to SQL NULL, so the unique indexes on
// email and google_id are not tripped by users without those fields.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
