// Package mock is the coach provider for development mode and tests,
// canned workouts instead of model calls. The fixtures still go through
// the real expansion code so the shape of the output matches production.
package mock

import (
	"context"
	"time"

	"github.com/2beens/fitcoach/internal/coach"
	"github.com/2beens/fitcoach/internal/goals"
	"github.com/2beens/fitcoach/internal/users"
	"github.com/2beens/fitcoach/internal/weeks"

	"github.com/google/uuid"
)

var _ coach.Provider = (*Provider)(nil)

type Provider struct{}

func NewProvider() *Provider {
	return &Provider{}
}

type sampleSession struct {
	title       string
	headline    string
	suggestions []coach.ExerciseSuggestion
}

var sampleSessions = []sampleSession{
	{
		title:    "Lower Body Builder",
		headline: "Quads and hamstrings with a heavy squat focus",
		suggestions: []coach.ExerciseSuggestion{
			{Name: "Back Squat", NumberOfSets: 4, PrescribedAmount: weeks.Range{Min: 5, Max: 8}, PrescribedAmountUnit: "reps", PrescribedIntensity: weeks.Range{Min: 80, Max: 110}, PrescribedIntensityUnit: "kg"},
			{Name: "Romanian Deadlift", NumberOfSets: 3, PrescribedAmount: weeks.Range{Min: 8, Max: 10}, PrescribedAmountUnit: "reps", PrescribedIntensity: weeks.Range{Min: 60, Max: 80}, PrescribedIntensityUnit: "kg"},
			{Name: "Walking Lunges", NumberOfSets: 3, PrescribedAmount: weeks.Range{Min: 20, Max: 30}, PrescribedAmountUnit: "meters", PrescribedIntensity: weeks.Range{Min: 10, Max: 20}, PrescribedIntensityUnit: "kg"},
			{Name: "Calf Raises", NumberOfSets: 3, PrescribedAmount: weeks.Range{Min: 12, Max: 15}, PrescribedAmountUnit: "reps", PrescribedIntensity: weeks.Range{Min: 40, Max: 50}, PrescribedIntensityUnit: "kg"},
		},
	},
	{
		title:    "Push Day Power",
		headline: "Chest and shoulders, pressing volume up front",
		suggestions: []coach.ExerciseSuggestion{
			{Name: "Bench Press", NumberOfSets: 4, PrescribedAmount: weeks.Range{Min: 6, Max: 10}, PrescribedAmountUnit: "reps", PrescribedIntensity: weeks.Range{Min: 60, Max: 85}, PrescribedIntensityUnit: "kg"},
			{Name: "Overhead Press", NumberOfSets: 3, PrescribedAmount: weeks.Range{Min: 6, Max: 8}, PrescribedAmountUnit: "reps", PrescribedIntensity: weeks.Range{Min: 35, Max: 50}, PrescribedIntensityUnit: "kg"},
			{Name: "Incline Press", NumberOfSets: 3, PrescribedAmount: weeks.Range{Min: 8, Max: 12}, PrescribedAmountUnit: "reps", PrescribedIntensity: weeks.Range{Min: 22, Max: 30}, PrescribedIntensityUnit: "kg"},
			{Name: "Triceps Pushdown", NumberOfSets: 2, PrescribedAmount: weeks.Range{Min: 10, Max: 15}, PrescribedAmountUnit: "reps", PrescribedIntensity: weeks.Range{Min: 20, Max: 25}, PrescribedIntensityUnit: "kg"},
		},
	},
	{
		title:    "Pull and Posture",
		headline: "Back thickness and grip, deadlift led",
		suggestions: []coach.ExerciseSuggestion{
			{Name: "Deadlift", NumberOfSets: 4, PrescribedAmount: weeks.Range{Min: 3, Max: 6}, PrescribedAmountUnit: "reps", PrescribedIntensity: weeks.Range{Min: 100, Max: 140}, PrescribedIntensityUnit: "kg"},
			{Name: "Pull Ups", NumberOfSets: 3, PrescribedAmount: weeks.Range{Min: 6, Max: 10}, PrescribedAmountUnit: "reps", PrescribedIntensity: weeks.Range{Min: 0, Max: 10}, PrescribedIntensityUnit: "kg"},
			{Name: "Barbell Row", NumberOfSets: 3, PrescribedAmount: weeks.Range{Min: 8, Max: 10}, PrescribedAmountUnit: "reps", PrescribedIntensity: weeks.Range{Min: 50, Max: 70}, PrescribedIntensityUnit: "kg"},
			{Name: "Face Pulls", NumberOfSets: 2, PrescribedAmount: weeks.Range{Min: 12, Max: 20}, PrescribedAmountUnit: "reps", PrescribedIntensity: weeks.Range{Min: 15, Max: 20}, PrescribedIntensityUnit: "kg"},
		},
	},
}

// GenerateWorkout returns the next canned session, rotating through the
// fixtures as the week fills up.
func (p *Provider) GenerateWorkout(
	_ context.Context,
	_ users.User,
	_ []goals.Goal,
	existingWorkouts []weeks.Workout,
) (*weeks.Workout, error) {
	session := sampleSessions[len(existingWorkouts)%len(sampleSessions)]
	return &weeks.Workout{
		ID:       uuid.New(),
		Title:    session.title,
		Headline: session.headline,
		Date:     time.Now(),
		Sets:     coach.ExpandSuggestions(session.suggestions),
	}, nil
}

// GenerateWeek returns as many canned workouts as the user wants per week.
func (p *Provider) GenerateWeek(_ context.Context, user users.User, _ []goals.Goal) ([]weeks.Workout, error) {
	desired := user.DesiredWorkoutsPerWeek
	if desired < 1 {
		desired = users.DefaultWorkoutsPerWeek
	}

	workouts := make([]weeks.Workout, 0, desired)
	for i := 0; i < desired; i++ {
		session := sampleSessions[i%len(sampleSessions)]
		workouts = append(workouts, weeks.Workout{
			ID:       uuid.New(),
			Title:    session.title,
			Headline: session.headline,
			Date:     time.Now().AddDate(0, 0, i),
			Sets:     coach.ExpandSuggestions(session.suggestions),
		})
	}
	return workouts, nil
}

// AnalyzeGoalProgress returns a fixed pair of plausible data points.
func (p *Provider) AnalyzeGoalProgress(
	_ context.Context,
	_ goals.Goal,
	workout weeks.Workout,
) ([]goals.DataPoint, error) {
	now := time.Now()
	return []goals.DataPoint{
		{
			Date:                now,
			PercentEstimate:     0.35,
			SemanticDescription: "Completed " + workout.Title + ", steady progress",
		},
		{
			Date:                now,
			PercentEstimate:     0.4,
			SemanticDescription: "Training volume trending up week over week",
		},
	}, nil
}
