package mcp

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/2beens/fitcoach/internal/goals"
	"github.com/2beens/fitcoach/internal/users"
	"github.com/2beens/fitcoach/internal/weeks"

	"github.com/google/uuid"
)

// mockSchemaRepo implements SchemaRepo for service tests.
type mockSchemaRepo struct {
	cols []SchemaColumn
	err  error
}

func (m *mockSchemaRepo) GetFitcoachColumns(ctx context.Context) ([]SchemaColumn, error) {
	return m.cols, m.err
}

// mockUsersRepo implements UsersRepo for service tests.
type mockUsersRepo struct {
	user *users.User
	err  error
}

func (m *mockUsersRepo) Get(ctx context.Context, id uuid.UUID) (*users.User, error) {
	return m.user, m.err
}

// mockGoalsRepo implements GoalsRepo for service tests.
type mockGoalsRepo struct {
	goals []goals.Goal
	err   error
}

func (m *mockGoalsRepo) List(ctx context.Context, userID uuid.UUID) ([]goals.Goal, error) {
	return m.goals, m.err
}

// mockWeeksRepo implements WeeksRepo for service tests.
type mockWeeksRepo struct {
	weeks []weeks.Week
	err   error
}

func (m *mockWeeksRepo) List(ctx context.Context, userID uuid.UUID) ([]weeks.Week, error) {
	return m.weeks, m.err
}

func newTestService(schema *mockSchemaRepo, usersRepo *mockUsersRepo, goalsRepo *mockGoalsRepo, weeksRepo *mockWeeksRepo) *ContextService {
	if schema == nil {
		schema = &mockSchemaRepo{}
	}
	if usersRepo == nil {
		usersRepo = &mockUsersRepo{}
	}
	if goalsRepo == nil {
		goalsRepo = &mockGoalsRepo{}
	}
	if weeksRepo == nil {
		weeksRepo = &mockWeeksRepo{}
	}
	return NewContextService(schema, usersRepo, goalsRepo, weeksRepo)
}

func TestContextService_GetSchema(t *testing.T) {
	t.Run("returns_formatted_schema", func(t *testing.T) {
		cols := []SchemaColumn{
			{TableSchema: "public", TableName: "fitness_user", ColumnName: "id", DataType: "uuid", IsNullable: "NO", ColumnDef: nil},
			{TableSchema: "public", TableName: "fitness_user", ColumnName: "email", DataType: "text", IsNullable: "YES", ColumnDef: nil},
			{TableSchema: "public", TableName: "week", ColumnName: "workouts", DataType: "jsonb", IsNullable: "NO", ColumnDef: strPtr("'[]'::jsonb")},
		}
		svc := newTestService(&mockSchemaRepo{cols: cols}, nil, nil, nil)

		got, err := svc.GetSchema(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(got, "# Fitcoach DB Schema") {
			t.Errorf("expected header; got %q", got)
		}
		if !strings.Contains(got, "## fitness_user") {
			t.Errorf("expected table name; got %q", got)
		}
		if !strings.Contains(got, "| id | uuid |") {
			t.Errorf("expected column row; got %q", got)
		}
		if !strings.Contains(got, "| workouts | jsonb | NO | '[]'::jsonb |") {
			t.Errorf("expected column row with default; got %q", got)
		}
	})

	t.Run("returns_empty_message_when_no_columns", func(t *testing.T) {
		svc := newTestService(&mockSchemaRepo{cols: nil}, nil, nil, nil)

		got, err := svc.GetSchema(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(got, "No fitcoach tables found in the database") {
			t.Errorf("expected empty message; got %q", got)
		}
	})

	t.Run("returns_error_when_repo_fails", func(t *testing.T) {
		wantErr := errors.New("db connection failed")
		svc := newTestService(&mockSchemaRepo{err: wantErr}, nil, nil, nil)

		_, err := svc.GetSchema(context.Background())
		if err != wantErr {
			t.Fatalf("err = %v, want %v", err, wantErr)
		}
	})
}

func TestContextService_GetUserProfile(t *testing.T) {
	t.Run("returns_user_from_repo", func(t *testing.T) {
		want := &users.User{ID: uuid.New(), DisplayName: "Mila"}
		svc := newTestService(nil, &mockUsersRepo{user: want}, nil, nil)

		got, err := svc.GetUserProfile(context.Background(), want.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.ID != want.ID || got.DisplayName != want.DisplayName {
			t.Errorf("got %+v, want %+v", got, want)
		}
	})

	t.Run("returns_error_when_repo_fails", func(t *testing.T) {
		svc := newTestService(nil, &mockUsersRepo{err: users.ErrUserNotFound}, nil, nil)

		_, err := svc.GetUserProfile(context.Background(), uuid.New())
		if !errors.Is(err, users.ErrUserNotFound) {
			t.Fatalf("err = %v, want %v", err, users.ErrUserNotFound)
		}
	})
}

func TestContextService_GetGoals(t *testing.T) {
	userGoals := []goals.Goal{
		{ID: uuid.New(), Target: "Back squat 100 kg", Active: true},
		{ID: uuid.New(), Target: "Run 5k", Active: true, Achieved: true},
		{ID: uuid.New(), Target: "Handstand", Active: false},
	}

	t.Run("returns_all_goals", func(t *testing.T) {
		svc := newTestService(nil, nil, &mockGoalsRepo{goals: userGoals}, nil)

		got, err := svc.GetGoals(context.Background(), uuid.New(), false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 3 {
			t.Errorf("got %d goals, want 3", len(got))
		}
	})

	t.Run("returns_only_active_goals", func(t *testing.T) {
		svc := newTestService(nil, nil, &mockGoalsRepo{goals: userGoals}, nil)

		got, err := svc.GetGoals(context.Background(), uuid.New(), true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 1 {
			t.Fatalf("got %d goals, want 1", len(got))
		}
		if got[0].Target != "Back squat 100 kg" {
			t.Errorf("got %q, want the active goal", got[0].Target)
		}
	})

	t.Run("returns_error_when_repo_fails", func(t *testing.T) {
		wantErr := errors.New("connection refused")
		svc := newTestService(nil, nil, &mockGoalsRepo{err: wantErr}, nil)

		_, err := svc.GetGoals(context.Background(), uuid.New(), false)
		if err != wantErr {
			t.Fatalf("err = %v, want %v", err, wantErr)
		}
	})
}

func TestContextService_GetWeeks(t *testing.T) {
	userWeeks := []weeks.Week{
		{ID: uuid.New(), StartDate: time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)},
		{ID: uuid.New(), StartDate: time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)},
		{ID: uuid.New(), StartDate: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)},
	}

	t.Run("returns_all_weeks_without_range", func(t *testing.T) {
		svc := newTestService(nil, nil, nil, &mockWeeksRepo{weeks: userWeeks})

		got, err := svc.GetWeeks(context.Background(), uuid.New(), nil, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 3 {
			t.Errorf("got %d weeks, want 3", len(got))
		}
	})

	t.Run("filters_by_start_date_range", func(t *testing.T) {
		svc := newTestService(nil, nil, nil, &mockWeeksRepo{weeks: userWeeks})

		from := time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)
		to := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
		got, err := svc.GetWeeks(context.Background(), uuid.New(), &from, &to)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 1 {
			t.Fatalf("got %d weeks, want 1", len(got))
		}
		if !got[0].StartDate.Equal(userWeeks[1].StartDate) {
			t.Errorf("got week starting %s, want %s", got[0].StartDate, userWeeks[1].StartDate)
		}
	})

	t.Run("open_ended_from", func(t *testing.T) {
		svc := newTestService(nil, nil, nil, &mockWeeksRepo{weeks: userWeeks})

		from := time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)
		got, err := svc.GetWeeks(context.Background(), uuid.New(), &from, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 2 {
			t.Errorf("got %d weeks, want 2", len(got))
		}
	})

	t.Run("returns_error_when_repo_fails", func(t *testing.T) {
		wantErr := errors.New("timeout")
		svc := newTestService(nil, nil, nil, &mockWeeksRepo{err: wantErr})

		_, err := svc.GetWeeks(context.Background(), uuid.New(), nil, nil)
		if err != wantErr {
			t.Fatalf("err = %v, want %v", err, wantErr)
		}
	})
}

func strPtr(s string) *string {
	return &s
}
