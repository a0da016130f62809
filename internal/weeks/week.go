package weeks

import (
	"fmt"
	"time"

	"github.com/2beens/fitcoach/internal/sanitize"

	"github.com/google/uuid"
)

const (
	maxExerciseNameLen = 80
	maxUnitLen         = 20
	maxTitleLen        = 80
	maxHeadlineLen     = 140
)

// Range is a closed numeric interval used for prescribed amounts and
// intensities. Construction is permissive, min > max is not rejected here.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (r Range) String() string {
	return fmt.Sprintf("[%g, %g]", r.Min, r.Max)
}

type PerceivedExertion string

const (
	PerceivedExertionEasy   PerceivedExertion = "Easy"
	PerceivedExertionMedium PerceivedExertion = "Medium"
	PerceivedExertionHard   PerceivedExertion = "Hard"
)

func (pe PerceivedExertion) IsValid() bool {
	switch pe {
	case PerceivedExertionEasy, PerceivedExertionMedium, PerceivedExertionHard:
		return true
	default:
		return false
	}
}

// Set is a single performed set of one exercise. The prescribed ranges are
// shared by all sets of that exercise, the actual values are the concrete
// points picked for this particular set.
type Set struct {
	ID                  uuid.UUID         `json:"id"`
	SortIndex           int               `json:"sortIndex"`
	Exercise            string            `json:"exercise"`
	PrescribedAmount    Range             `json:"prescribedAmount"`
	ActualAmount        *float64          `json:"actualAmount,omitempty"`
	AmountUnit          string            `json:"amountUnit"`
	PrescribedIntensity Range             `json:"prescribedIntensity"`
	ActualIntensity     *float64          `json:"actualIntensity,omitempty"`
	IntensityUnit       string            `json:"intensityUnit"`
	PerceivedExertion   PerceivedExertion `json:"perceivedExertion"`
	Done                bool              `json:"done"`
}

func (s *Set) Validate() error {
	sanitized, err := sanitize.SanitizeWithLimit(s.Exercise, maxExerciseNameLen)
	if err != nil {
		return fmt.Errorf("exercise name: %w", err)
	}
	s.Exercise = sanitized

	if s.AmountUnit, err = sanitize.SanitizeWithLimit(s.AmountUnit, maxUnitLen); err != nil {
		return fmt.Errorf("amount unit: %w", err)
	}
	if s.IntensityUnit, err = sanitize.SanitizeWithLimit(s.IntensityUnit, maxUnitLen); err != nil {
		return fmt.Errorf("intensity unit: %w", err)
	}

	if s.PerceivedExertion == "" {
		s.PerceivedExertion = PerceivedExertionMedium
	}
	if !s.PerceivedExertion.IsValid() {
		return fmt.Errorf("invalid perceived exertion: %s", s.PerceivedExertion)
	}

	return nil
}

// Workout is one training session, an ordered sequence of sets.
type Workout struct {
	ID       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	Headline string    `json:"headline,omitempty"`
	Date     time.Time `json:"date,omitempty"`
	Sets     []Set     `json:"sets"`
	Done     bool      `json:"done"`
}

func (w *Workout) Validate() error {
	var err error
	if w.Title, err = sanitize.SanitizeWithLimit(w.Title, maxTitleLen); err != nil {
		return fmt.Errorf("title: %w", err)
	}
	if w.Headline != "" {
		if w.Headline, err = sanitize.SanitizeWithLimit(w.Headline, maxHeadlineLen); err != nil {
			return fmt.Errorf("headline: %w", err)
		}
	}
	for i := range w.Sets {
		if err := w.Sets[i].Validate(); err != nil {
			return fmt.Errorf("set %d: %w", i, err)
		}
	}
	return nil
}

// Week is the top level training plan document, one calendar week of
// workouts, stored as a single row with the workouts in a JSONB column.
type Week struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"userId"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	StartDate   time.Time  `json:"startDate"`
	Workouts    []Workout  `json:"workouts"`
}

func (w *Week) Validate() error {
	for i := range w.Workouts {
		if err := w.Workouts[i].Validate(); err != nil {
			return fmt.Errorf("workout %d: %w", i, err)
		}
	}
	return nil
}

// WorkoutTitles returns the titles of all workouts in the week, in order.
func (w *Week) WorkoutTitles() []string {
	titles := make([]string, 0, len(w.Workouts))
	for _, workout := range w.Workouts {
		titles = append(titles, workout.Title)
	}
	return titles
}

// FindWorkout returns the workout with the given ID, or nil if not present.
func (w *Week) FindWorkout(workoutID uuid.UUID) *Workout {
	for i := range w.Workouts {
		if w.Workouts[i].ID == workoutID {
			return &w.Workouts[i]
		}
	}
	return nil
}
