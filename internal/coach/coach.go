// Package coach turns a user profile, their goals and the current training
// week into concrete workouts, with the heavy lifting done by a language
// model. The model is only ever asked for suggestions and texts, all numbers
// that end up in a workout go through the deterministic expansion code here.
package coach

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/fitcoach/internal/goals"
	"github.com/2beens/fitcoach/internal/sanitize"
	"github.com/2beens/fitcoach/internal/users"
	"github.com/2beens/fitcoach/internal/weeks"
)

//go:generate mockgen -source=$GOFILE -destination=provider_mocks_test.go -package=coach_test

const (
	maxSuggestionNameLen = 20
	maxUnitLen           = 20
)

var (
	// ErrInvalidInput marks requests rejected before any model call is made.
	ErrInvalidInput = errors.New("invalid input")
	// ErrTimeout marks a model invocation that ran over its deadline.
	ErrTimeout = errors.New("model call timed out")
	// ErrMalformedResponse marks model output that failed parsing or
	// post-parse validation.
	ErrMalformedResponse = errors.New("malformed model response")
	// ErrProvider marks a non-timeout failure reported by the model backend.
	ErrProvider = errors.New("model provider error")
)

// Provider is implemented by the model backends. All three calls are
// synchronous and honor the given context, a failure in any internal stage
// aborts the whole call, partial results are never returned.
type Provider interface {
	// GenerateWorkout creates one workout for the current training week,
	// taking the already existing workouts of that week into account.
	GenerateWorkout(
		ctx context.Context,
		user users.User,
		userGoals []goals.Goal,
		existingWorkouts []weeks.Workout,
	) (*weeks.Workout, error)

	// GenerateWeek creates a full week of workouts in a single shot,
	// sized by the user's desired workouts per week.
	GenerateWeek(ctx context.Context, user users.User, userGoals []goals.Goal) ([]weeks.Workout, error)

	// AnalyzeGoalProgress estimates, from one completed workout, how far
	// along the user is towards the given goal.
	AnalyzeGoalProgress(
		ctx context.Context,
		goal goals.Goal,
		workout weeks.Workout,
	) ([]goals.DataPoint, error)
}

// ExerciseSuggestion is what the first pipeline stage asks the model for:
// an exercise with a set count and prescribed ranges, but no concrete
// per-set numbers yet. Suggestions live only within a single generation
// call and are never persisted.
type ExerciseSuggestion struct {
	Name                    string      `json:"name"`
	NumberOfSets            int         `json:"numberOfSets"`
	PrescribedAmount        weeks.Range `json:"prescribedAmount"`
	PrescribedAmountUnit    string      `json:"prescribedAmountUnit"`
	PrescribedIntensity     weeks.Range `json:"prescribedIntensity"`
	PrescribedIntensityUnit string      `json:"prescribedIntensityUnit"`
}

// Validate screens the model produced texts and checks the set count.
// Ranges are deliberately not checked, inverted or zero ranges still
// expand to usable sets.
func (es *ExerciseSuggestion) Validate() error {
	var err error
	if es.Name, err = sanitize.SanitizeWithLimit(es.Name, maxSuggestionNameLen); err != nil {
		return fmt.Errorf("name: %w", err)
	}
	if es.Name == "" {
		return errors.New("name missing")
	}
	if es.NumberOfSets < 1 {
		return fmt.Errorf("number of sets must be positive, got %d", es.NumberOfSets)
	}
	if es.PrescribedAmountUnit, err = sanitize.SanitizeWithLimit(es.PrescribedAmountUnit, maxUnitLen); err != nil {
		return fmt.Errorf("amount unit: %w", err)
	}
	if es.PrescribedAmountUnit == "" {
		return errors.New("amount unit missing")
	}
	if es.PrescribedIntensityUnit, err = sanitize.SanitizeWithLimit(es.PrescribedIntensityUnit, maxUnitLen); err != nil {
		return fmt.Errorf("intensity unit: %w", err)
	}
	if es.PrescribedIntensityUnit == "" {
		return errors.New("intensity unit missing")
	}
	return nil
}
