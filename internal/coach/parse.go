package coach

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/2beens/fitcoach/internal/goals"
	"github.com/2beens/fitcoach/internal/sanitize"
	"github.com/2beens/fitcoach/internal/weeks"

	"github.com/google/uuid"
)

const (
	maxTitleLen    = 80
	maxHeadlineLen = 140
)

// Wire shapes for model produced workouts. IDs are never taken from the
// model, and numeric fields are pointers so an absent value can be told
// apart from an explicit zero.
type rangePayload struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

func (rp rangePayload) toRange() weeks.Range {
	var r weeks.Range
	if rp.Min != nil {
		r.Min = *rp.Min
	}
	if rp.Max != nil {
		r.Max = *rp.Max
	}
	return r
}

type setPayload struct {
	Exercise            string       `json:"exercise"`
	PrescribedAmount    rangePayload `json:"prescribedAmount"`
	ActualAmount        *float64     `json:"actualAmount"`
	AmountUnit          string       `json:"amountUnit"`
	PrescribedIntensity rangePayload `json:"prescribedIntensity"`
	ActualIntensity     *float64     `json:"actualIntensity"`
	IntensityUnit       string       `json:"intensityUnit"`
}

type workoutPayload struct {
	Title    *string      `json:"title"`
	Headline string       `json:"headline"`
	Date     *string      `json:"date"`
	Sets     []setPayload `json:"sets"`
}

// ParseSuggestions decodes and validates the suggestion stage response, a
// JSON list of exercise suggestions. All model texts go through the
// sanitizer before they are accepted.
func ParseSuggestions(raw string) ([]ExerciseSuggestion, error) {
	var suggestions []ExerciseSuggestion
	if err := json.Unmarshal([]byte(raw), &suggestions); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedResponse, err)
	}
	for i := range suggestions {
		if err := suggestions[i].Validate(); err != nil {
			return nil, fmt.Errorf("%w: suggestion %d: %s", ErrMalformedResponse, i, err)
		}
	}
	return suggestions, nil
}

// ParseTitleHeadline decodes the title stage response, a JSON object with
// title and headline fields. Repeated titles are not rejected here, keeping
// them unique is left to the prompt.
func ParseTitleHeadline(raw string) (title, headline string, err error) {
	var payload struct {
		Title    *string `json:"title"`
		Headline *string `json:"headline"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return "", "", fmt.Errorf("%w: %s", ErrMalformedResponse, err)
	}
	if payload.Title == nil {
		return "", "", fmt.Errorf("%w: title missing", ErrMalformedResponse)
	}
	if payload.Headline == nil {
		return "", "", fmt.Errorf("%w: headline missing", ErrMalformedResponse)
	}

	if title, err = sanitize.SanitizeWithLimit(*payload.Title, maxTitleLen); err != nil {
		return "", "", fmt.Errorf("%w: title: %s", ErrMalformedResponse, err)
	}
	if headline, err = sanitize.SanitizeWithLimit(*payload.Headline, maxHeadlineLen); err != nil {
		return "", "", fmt.Errorf("%w: headline: %s", ErrMalformedResponse, err)
	}
	return title, headline, nil
}

// ParseWorkout decodes a single model produced workout, a JSON object, and
// injects fresh server side IDs for the workout and every set.
func ParseWorkout(raw string) (*weeks.Workout, error) {
	var payload workoutPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedResponse, err)
	}
	workout, err := payload.toWorkout()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedResponse, err)
	}
	return workout, nil
}

// ParseWeek decodes the one-shot week response, a JSON list of workouts,
// injecting fresh IDs on both levels.
func ParseWeek(raw string) ([]weeks.Workout, error) {
	var payloads []workoutPayload
	if err := json.Unmarshal([]byte(raw), &payloads); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedResponse, err)
	}
	workouts := make([]weeks.Workout, 0, len(payloads))
	for i, payload := range payloads {
		workout, err := payload.toWorkout()
		if err != nil {
			return nil, fmt.Errorf("%w: workout %d: %s", ErrMalformedResponse, i, err)
		}
		workouts = append(workouts, *workout)
	}
	return workouts, nil
}

// ParseDataPoints decodes the goal analysis response, a JSON list of
// progress data points. The percent estimate is stored as reported, out of
// range values included.
func ParseDataPoints(raw string) ([]goals.DataPoint, error) {
	var payloads []struct {
		Date                *string  `json:"date"`
		PercentEstimate     *float64 `json:"percentEstimate"`
		SemanticDescription string   `json:"semanticDescription"`
	}
	if err := json.Unmarshal([]byte(raw), &payloads); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedResponse, err)
	}

	points := make([]goals.DataPoint, 0, len(payloads))
	for i, payload := range payloads {
		if payload.PercentEstimate == nil {
			return nil, fmt.Errorf("%w: data point %d: percent estimate missing", ErrMalformedResponse, i)
		}
		point := goals.DataPoint{
			PercentEstimate:     *payload.PercentEstimate,
			SemanticDescription: payload.SemanticDescription,
		}
		if payload.Date != nil {
			date, err := parseModelTime(*payload.Date)
			if err != nil {
				return nil, fmt.Errorf("%w: data point %d: %s", ErrMalformedResponse, i, err)
			}
			point.Date = date
		}
		if err := point.Validate(); err != nil {
			return nil, fmt.Errorf("%w: data point %d: %s", ErrMalformedResponse, i, err)
		}
		points = append(points, point)
	}
	return points, nil
}

func (wp workoutPayload) toWorkout() (*weeks.Workout, error) {
	if wp.Title == nil {
		return nil, fmt.Errorf("workout title missing")
	}
	if wp.Sets == nil {
		return nil, fmt.Errorf("workout sets missing")
	}

	workout := &weeks.Workout{
		ID:       uuid.New(),
		Title:    *wp.Title,
		Headline: wp.Headline,
		Sets:     make([]weeks.Set, 0, len(wp.Sets)),
	}
	if wp.Date != nil {
		date, err := parseModelTime(*wp.Date)
		if err != nil {
			return nil, err
		}
		workout.Date = date
	}

	for i, sp := range wp.Sets {
		set := weeks.Set{
			ID:                  uuid.New(),
			SortIndex:           i,
			Exercise:            sp.Exercise,
			PrescribedAmount:    sp.PrescribedAmount.toRange(),
			ActualAmount:        sp.ActualAmount,
			AmountUnit:          sp.AmountUnit,
			PrescribedIntensity: sp.PrescribedIntensity.toRange(),
			ActualIntensity:     sp.ActualIntensity,
			IntensityUnit:       sp.IntensityUnit,
		}
		// one-shot responses occasionally skip the concrete values,
		// fall back to the middle of the prescribed range
		if set.ActualAmount == nil {
			set.ActualAmount = Midpoint(sp.PrescribedAmount.Min, sp.PrescribedAmount.Max)
		}
		if set.ActualIntensity == nil {
			set.ActualIntensity = Midpoint(sp.PrescribedIntensity.Min, sp.PrescribedIntensity.Max)
		}
		workout.Sets = append(workout.Sets, set)
	}

	if err := workout.Validate(); err != nil {
		return nil, err
	}
	return workout, nil
}

// parseModelTime accepts the two timestamp flavors models actually produce,
// full RFC 3339 or a bare date.
func parseModelTime(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("unparseable time %q", value)
	}
	return t, nil
}
