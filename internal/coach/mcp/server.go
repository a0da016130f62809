package mcp

import (
	"github.com/2beens/fitcoach/internal/goals"
	"github.com/2beens/fitcoach/internal/users"
	"github.com/2beens/fitcoach/internal/weeks"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer builds an MCP server with fitcoach context tools: schema, user profile,
// goals, training weeks. Used by the main backend when mounting MCP at /mcp
// (internal/server) and by cmd/coach_mcp over stdio.
func NewServer(pool *pgxpool.Pool, usersRepo *users.Repo, goalsRepo *goals.Repo, weeksRepo *weeks.Repo) *mcp.Server {
	svc := NewContextService(NewPoolSchemaRepo(pool), usersRepo, goalsRepo, weeksRepo)
	h := NewHandler(svc)
	s := mcp.NewServer(&mcp.Implementation{
		Name:    "fitcoach-context",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_fitcoach_schema",
		Description: "Returns the DB schema for the fitcoach tables (fitness_user, week, goal): table names, columns, types, nullable, default. Use when developing the fitcoach app and you need the actual backend schema.",
	}, h.GetFitcoachSchemaTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_user_profile",
		Description: "Returns one user's full coaching profile: measurement system, activity level, variety preference, desired workouts per week, interests. Arg: user_id (UUID). Use when you need the profile that drives workout generation.",
	}, h.GetUserProfileTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_goals",
		Description: "Returns one user's fitness goals with their progress data points. Arg: user_id (UUID); optional: only_active. Use when you need to see what the user is working towards.",
	}, h.GetGoalsTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_weeks",
		Description: "Returns one user's training weeks with all workouts and sets, most recently started first. Args: user_id (UUID); optional: from_date, to_date (YYYY-MM-DD) filtering by week start. Use when you need the actual training history.",
	}, h.GetWeeksTool())

	return s
}
