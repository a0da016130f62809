package coach

import (
	"math"

	"github.com/2beens/fitcoach/internal/weeks"

	"github.com/google/uuid"
)

// RoundSmart rounds a computed training number to something a human would
// actually put on a bar or a timer. Small values keep one decimal, medium
// values snap to whole numbers, bigger ones to multiples of 5 and then 10.
func RoundSmart(value float64) float64 {
	switch {
	case value < 1:
		return math.Round(value*10) / 10
	case value < 30:
		return math.Round(value)
	case value < 700:
		return math.Round(value/5) * 5
	default:
		return math.Round(value/10) * 10
	}
}

// Midpoint collapses a range with possibly missing bounds into a single
// value: both bounds give the rounded mean, one bound gives that bound
// rounded, none gives nil. Used to fill in actual values on the one-shot
// path when the model leaves them out, the multistep path never needs it.
func Midpoint(low, high *float64) *float64 {
	switch {
	case low != nil && high != nil:
		mid := math.Round((*low + *high) / 2)
		return &mid
	case low != nil:
		rounded := math.Round(*low)
		return &rounded
	case high != nil:
		rounded := math.Round(*high)
		return &rounded
	default:
		return nil
	}
}

// ExpandSuggestions turns exercise suggestions into the flat, ordered list
// of sets that makes up a workout. Suggestions are expanded in the order
// given, all sets of one exercise before the next, so sets of the same
// exercise are always contiguous and the sort index counts up without gaps.
//
// Within one exercise the sets ramp: intensity climbs from the bottom of
// the prescribed range to the top, while amount walks down from the top of
// its range, the usual heavier-but-fewer progression as fatigue sets in.
func ExpandSuggestions(suggestions []ExerciseSuggestion) []weeks.Set {
	totalSets := 0
	for _, suggestion := range suggestions {
		if suggestion.NumberOfSets > 0 {
			totalSets += suggestion.NumberOfSets
		}
	}

	sets := make([]weeks.Set, 0, totalSets)
	index := 0
	for _, suggestion := range suggestions {
		numSets := suggestion.NumberOfSets
		intensityStep := (suggestion.PrescribedIntensity.Max - suggestion.PrescribedIntensity.Min) / float64(max(numSets-1, 1))
		amountStep := (suggestion.PrescribedAmount.Max - suggestion.PrescribedAmount.Min) / float64(max(numSets-1, 1))

		for i := 0; i < numSets; i++ {
			intensity := RoundSmart(suggestion.PrescribedIntensity.Min + intensityStep*float64(i))
			amount := RoundSmart(suggestion.PrescribedAmount.Max - amountStep*float64(i))

			sets = append(sets, weeks.Set{
				ID:                  uuid.New(),
				SortIndex:           index,
				Exercise:            suggestion.Name,
				PrescribedAmount:    suggestion.PrescribedAmount,
				ActualAmount:        &amount,
				AmountUnit:          suggestion.PrescribedAmountUnit,
				PrescribedIntensity: suggestion.PrescribedIntensity,
				ActualIntensity:     &intensity,
				IntensityUnit:       suggestion.PrescribedIntensityUnit,
				PerceivedExertion:   weeks.PerceivedExertionMedium,
			})
			index++
		}
	}

	return sets
}
