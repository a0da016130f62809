package goals

import (
	"fmt"
	"time"

	"github.com/2beens/fitcoach/internal/sanitize"

	"github.com/google/uuid"
)

const (
	maxGoalTextLen = 140

	// maxProgressDataPoints caps the progress log of a single goal.
	maxProgressDataPoints = 1460
)

// DataPoint is a point-in-time assessment of progress towards a goal.
// Once recorded it is never mutated, only new points get appended.
type DataPoint struct {
	Date time.Time `json:"date"`
	// PercentEstimate is the 0 to 1 progress estimate. Values are stored
	// as reported, out of range estimates included.
	PercentEstimate     float64 `json:"percentEstimate"`
	SemanticDescription string  `json:"semanticDescription,omitempty"`
}

func (dp *DataPoint) Validate() error {
	if dp.SemanticDescription != "" {
		description, err := sanitize.SanitizeWithLimit(dp.SemanticDescription, maxGoalTextLen)
		if err != nil {
			return fmt.Errorf("semantic description: %w", err)
		}
		dp.SemanticDescription = description
	}
	return nil
}

type Goal struct {
	ID            uuid.UUID   `json:"id"`
	UserID        uuid.UUID   `json:"userId"`
	CreatedAt     time.Time   `json:"createdAt"`
	StartingDate  time.Time   `json:"startingDate"`
	TargetDate    *time.Time  `json:"targetDate,omitempty"`
	Achieved      bool        `json:"achieved"`
	Active        bool        `json:"active"`
	StartingPoint string      `json:"startingPoint"`
	Target        string      `json:"target"`
	Progress      []DataPoint `json:"progress"`
}

// Validate checks the free text fields and the progress log. Goal texts
// end up in model prompts, so they go through the sanitizer like any
// other untrusted input.
func (g *Goal) Validate() error {
	startingPoint, err := sanitize.SanitizeWithLimit(g.StartingPoint, maxGoalTextLen)
	if err != nil {
		return fmt.Errorf("starting point: %w", err)
	}
	g.StartingPoint = startingPoint

	target, err := sanitize.SanitizeWithLimit(g.Target, maxGoalTextLen)
	if err != nil {
		return fmt.Errorf("target: %w", err)
	}
	g.Target = target

	if len(g.Progress) > maxProgressDataPoints {
		return fmt.Errorf("progress entries exceed the limit of %d", maxProgressDataPoints)
	}
	for i := range g.Progress {
		if err := g.Progress[i].Validate(); err != nil {
			return fmt.Errorf("progress point %d: %w", i, err)
		}
	}

	return nil
}

// Active filters out achieved and deactivated goals.
func Active(userGoals []Goal) []Goal {
	activeGoals := make([]Goal, 0, len(userGoals))
	for _, goal := range userGoals {
		if goal.Active && !goal.Achieved {
			activeGoals = append(activeGoals, goal)
		}
	}
	return activeGoals
}
