package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/2beens/fitcoach/internal/users"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Handler handles MCP tool requests and responses: parses input, calls the service, formats MCP result.
type Handler struct {
	service contextService
}

// NewHandler builds a handler with the given service.
func NewHandler(service contextService) *Handler {
	return &Handler{
		service: service,
	}
}

// GetFitcoachSchemaTool returns the MCP tool handler for get_fitcoach_schema.
func (h *Handler) GetFitcoachSchemaTool() func(context.Context, *mcp.CallToolRequest, any) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ any) (*mcp.CallToolResult, any, error) {
		text, err := h.service.GetSchema(ctx)
		if err != nil {
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: "Error fetching schema: " + err.Error()}},
				IsError: true,
			}, nil, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: text}},
		}, nil, nil
	}
}

// UserProfileInput is the input for get_user_profile.
type UserProfileInput struct {
	UserID string `json:"user_id" jsonschema:"User id (UUID)"`
}

// GetUserProfileTool returns the MCP tool handler for get_user_profile.
func (h *Handler) GetUserProfileTool() func(context.Context, *mcp.CallToolRequest, UserProfileInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in UserProfileInput) (*mcp.CallToolResult, any, error) {
		userID, err := uuid.Parse(in.UserID)
		if err != nil {
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: "Invalid user_id: use a UUID"}},
				IsError: true,
			}, nil, nil
		}
		user, err := h.service.GetUserProfile(ctx, userID)
		if err != nil {
			if errors.Is(err, users.ErrUserNotFound) {
				return &mcp.CallToolResult{
					Content: []mcp.Content{&mcp.TextContent{Text: "User not found"}},
					IsError: true,
				}, nil, nil
			}
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: "Error fetching user profile: " + err.Error()}},
				IsError: true,
			}, nil, nil
		}
		raw, err := json.MarshalIndent(user, "", "  ")
		if err != nil {
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: "Error encoding response: " + err.Error()}},
				IsError: true,
			}, nil, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
		}, nil, nil
	}
}

// GoalsInput is the input for get_goals.
type GoalsInput struct {
	UserID     string `json:"user_id" jsonschema:"User id (UUID)"`
	OnlyActive bool   `json:"only_active,omitempty" jsonschema:"Return only goals still being chased (not achieved, not deactivated)"`
}

// GetGoalsTool returns the MCP tool handler for get_goals.
func (h *Handler) GetGoalsTool() func(context.Context, *mcp.CallToolRequest, GoalsInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in GoalsInput) (*mcp.CallToolResult, any, error) {
		userID, err := uuid.Parse(in.UserID)
		if err != nil {
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: "Invalid user_id: use a UUID"}},
				IsError: true,
			}, nil, nil
		}
		userGoals, err := h.service.GetGoals(ctx, userID, in.OnlyActive)
		if err != nil {
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: "Error fetching goals: " + err.Error()}},
				IsError: true,
			}, nil, nil
		}
		raw, err := json.MarshalIndent(userGoals, "", "  ")
		if err != nil {
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: "Error encoding response: " + err.Error()}},
				IsError: true,
			}, nil, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
		}, nil, nil
	}
}

// WeeksInput is the input for get_weeks.
type WeeksInput struct {
	UserID   string `json:"user_id" jsonschema:"User id (UUID)"`
	FromDate string `json:"from_date,omitempty" jsonschema:"Only weeks starting on or after this date (YYYY-MM-DD)"`
	ToDate   string `json:"to_date,omitempty" jsonschema:"Only weeks starting on or before this date (YYYY-MM-DD)"`
}

// GetWeeksTool returns the MCP tool handler for get_weeks.
func (h *Handler) GetWeeksTool() func(context.Context, *mcp.CallToolRequest, WeeksInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in WeeksInput) (*mcp.CallToolResult, any, error) {
		userID, err := uuid.Parse(in.UserID)
		if err != nil {
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: "Invalid user_id: use a UUID"}},
				IsError: true,
			}, nil, nil
		}

		var from, to *time.Time
		if in.FromDate != "" {
			parsed, err := time.Parse("2006-01-02", in.FromDate)
			if err != nil {
				return &mcp.CallToolResult{
					Content: []mcp.Content{&mcp.TextContent{Text: "Invalid from_date: use YYYY-MM-DD"}},
					IsError: true,
				}, nil, nil
			}
			from = &parsed
		}
		if in.ToDate != "" {
			parsed, err := time.Parse("2006-01-02", in.ToDate)
			if err != nil {
				return &mcp.CallToolResult{
					Content: []mcp.Content{&mcp.TextContent{Text: "Invalid to_date: use YYYY-MM-DD"}},
					IsError: true,
				}, nil, nil
			}
			parsed = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 23, 59, 59, 999999999, parsed.Location())
			to = &parsed
		}

		userWeeks, err := h.service.GetWeeks(ctx, userID, from, to)
		if err != nil {
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: "Error fetching weeks: " + err.Error()}},
				IsError: true,
			}, nil, nil
		}
		raw, err := json.MarshalIndent(userWeeks, "", "  ")
		if err != nil {
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: "Error encoding response: " + err.Error()}},
				IsError: true,
			}, nil, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
		}, nil, nil
	}
}
