package mcp

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/2beens/fitcoach/internal/goals"
	"github.com/2beens/fitcoach/internal/users"
	"github.com/2beens/fitcoach/internal/weeks"

	"github.com/google/uuid"
)

// UsersRepo provides user profile lookup (for dependency injection and testing).
type UsersRepo interface {
	Get(ctx context.Context, id uuid.UUID) (*users.User, error)
}

// GoalsRepo provides the user's goals (for dependency injection and testing).
type GoalsRepo interface {
	List(ctx context.Context, userID uuid.UUID) ([]goals.Goal, error)
}

// WeeksRepo provides the user's training weeks (for dependency injection and testing).
type WeeksRepo interface {
	List(ctx context.Context, userID uuid.UUID) ([]weeks.Week, error)
}

// contextService provides fitcoach context data (schema, profile, goals, weeks).
// Used by Handler for testability.
type contextService interface {
	GetSchema(ctx context.Context) (string, error)
	GetUserProfile(ctx context.Context, userID uuid.UUID) (*users.User, error)
	GetGoals(ctx context.Context, userID uuid.UUID, onlyActive bool) ([]goals.Goal, error)
	GetWeeks(ctx context.Context, userID uuid.UUID, from, to *time.Time) ([]weeks.Week, error)
}

// ContextService holds dependencies and implements the fitcoach context business logic.
type ContextService struct {
	schema SchemaRepo
	users  UsersRepo
	goals  GoalsRepo
	weeks  WeeksRepo
}

// NewContextService builds a ContextService with the given dependencies.
func NewContextService(schemaRepo SchemaRepo, usersRepo UsersRepo, goalsRepo GoalsRepo, weeksRepo WeeksRepo) *ContextService {
	return &ContextService{
		schema: schemaRepo,
		users:  usersRepo,
		goals:  goalsRepo,
		weeks:  weeksRepo,
	}
}

// GetSchema returns the DB schema (table names, columns, types) for the
// fitcoach tables: fitness_user, week, goal.
func (s *ContextService) GetSchema(ctx context.Context) (string, error) {
	cols, err := s.schema.GetFitcoachColumns(ctx)
	if err != nil {
		return "", err
	}
	return formatFitcoachSchema(cols), nil
}

func formatFitcoachSchema(cols []SchemaColumn) string {
	if len(cols) == 0 {
		return "# Fitcoach DB Schema\n\nNo fitcoach tables found in the database.\n"
	}

	byTable := make(map[string][]SchemaColumn)
	for _, c := range cols {
		byTable[c.TableName] = append(byTable[c.TableName], c)
	}

	tableOrder := make([]string, 0, len(byTable))
	for t := range byTable {
		tableOrder = append(tableOrder, t)
	}
	sort.Strings(tableOrder)

	var b strings.Builder
	b.WriteString("# Fitcoach DB Schema\n\n")
	b.WriteString("Tables: fitness_user, week, goal (schema: public).\n\n")

	for _, tableName := range tableOrder {
		tableCols := byTable[tableName]
		b.WriteString("## ")
		b.WriteString(tableName)
		b.WriteString("\n\n| Column | Type | Nullable | Default |\n|--------|------|----------|--------|\n")
		for _, c := range tableCols {
			def := "—"
			if c.ColumnDef != nil && *c.ColumnDef != "" {
				def = *c.ColumnDef
			}
			b.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n", c.ColumnName, c.DataType, c.IsNullable, def))
		}
		b.WriteString("\n")
	}

	return strings.TrimSuffix(b.String(), "\n\n") + "\n"
}

// GetUserProfile returns the full profile of one user.
func (s *ContextService) GetUserProfile(ctx context.Context, userID uuid.UUID) (*users.User, error) {
	return s.users.Get(ctx, userID)
}

// GetGoals returns the user's goals, optionally narrowed to the ones still being chased.
func (s *ContextService) GetGoals(ctx context.Context, userID uuid.UUID, onlyActive bool) ([]goals.Goal, error) {
	userGoals, err := s.goals.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if onlyActive {
		return goals.Active(userGoals), nil
	}
	return userGoals, nil
}

// GetWeeks returns the user's training weeks, optionally narrowed to the ones
// starting within [from, to].
func (s *ContextService) GetWeeks(ctx context.Context, userID uuid.UUID, from, to *time.Time) ([]weeks.Week, error) {
	userWeeks, err := s.weeks.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if from == nil && to == nil {
		return userWeeks, nil
	}

	filtered := make([]weeks.Week, 0, len(userWeeks))
	for _, week := range userWeeks {
		if from != nil && week.StartDate.Before(*from) {
			continue
		}
		if to != nil && week.StartDate.After(*to) {
			continue
		}
		filtered = append(filtered, week)
	}
	return filtered, nil
}
