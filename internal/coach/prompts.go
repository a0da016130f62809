package coach

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/2beens/fitcoach/internal/goals"
	"github.com/2beens/fitcoach/internal/users"
	"github.com/2beens/fitcoach/internal/weeks"
)

// SuggestionPrompt asks the model for exercise suggestions for one session
// of the current training week. The instruction block encodes the coaching
// policy, session size, per category set counts, how favorites and previous
// workouts factor in. The wording shapes model output quality, change it
// with care.
func SuggestionPrompt(user users.User, userGoals []goals.Goal, existingWorkouts []weeks.Workout) (string, error) {
	amountUnits, err := amountUnitExamples(user.MeasurementSystem)
	if err != nil {
		return "", err
	}
	intensityUnits, err := intensityUnitExamples(user.MeasurementSystem)
	if err != nil {
		return "", err
	}

	profile := fmt.Sprintf(
		"User Profile:\n"+
			"Name: %s\n"+
			"Number of workouts to create: 1\n"+
			"Age: %d\n"+
			"Interests:\n%s\n"+
			"Goals:\n%s\n"+
			"Measurement System: %s\n"+
			"About user:\n%s\n%s\n%s\n",
		user.DisplayName,
		user.Age,
		interestsBlock(user.ActiveInterests()),
		goalsBlock(userGoals),
		user.MeasurementSystem,
		activityLine(user.ActivityLevel),
		varietyLine(user.VarietyPreference),
		workoutNumberGuidance(len(existingWorkouts), user.DesiredWorkoutsPerWeek),
	)

	instructions := "INSTRUCTIONS:\n" +
		"- You are generating exercise suggestions for ONE workout session within the current training week.\n" +
		"- Do NOT plan the entire week; only this single session.\n\n" +
		"- Pay close attention to the user's interests and goals when selecting exercises;  DO NOT provide vanilla workouts.\n" +
		"SESSION SIZE AND STRUCTURE:\n" +
		"- Target 4-8 DISTINCT exercises for this session; never generate more than 10 distinct exercises.\n" +
		"- Choose a realistic numberOfSets for each exercise:\n" +
		"    - Compound exercises: usually 3-5 sets.\n" +
		"    - Isolation exercises: usually 2-4 sets.\n" +
		"    - Cardio or conditioning: usually 1-2 sets.\n" +
		"- Use the week context above (workout number and remaining workouts) to modulate total volume and intensity:\n" +
		"    - If there are several workouts left, avoid maxing out volume and intensity.\n" +
		"    - If this is the last workout in the week, a slightly higher volume or intensity is acceptable.\n\n" +
		"FAVORITES, VARIETY, AND PREVIOUS WORKOUTS:\n" +
		"- Use the user's favorite exercises as TIE-BREAKERS only, not mandatory picks.\n" +
		"- Do NOT fill the session mostly or entirely with favorite exercises.\n" +
		"- Include a mix of appropriate movements that match the user's goals and current week, even if they are not favorites.\n" +
		"- Consider the previous workouts in this week:\n" +
		"    - Avoid repeating the exact same exercise across many workouts unless it is clearly central to the user's goals.\n" +
		"    - Prefer related variations or complementary movements when repetition would hurt variety or recovery.\n\n" +
		"BALANCE AND FOCUS:\n" +
		"- Design this as a coherent session (e.g., full-body, upper, lower, push, pull) rather than trying to hit every muscle equally.\n" +
		"- Within the chosen focus, keep a sensible balance across the primary muscle groups involved.\n\n" +
		"OUTPUT REQUIREMENTS (PER EXERCISE):\n" +
		"- For EACH exercise suggestion in this single session, provide:\n" +
		"    - name\n" +
		"    - numberOfSets\n" +
		"    - prescribedAmount (min and max)\n" +
		"    - prescribedAmountUnit\n" +
		"    - prescribedIntensity (min and max)\n" +
		"    - prescribedIntensityUnit\n\n" +
		"MEASUREMENT UNIT EXAMPLES:\n" +
		"- Amount Units: " + amountUnits + "\n" +
		"- Intensity Units: " + intensityUnits + "\n" +
		"- Units you use MUST follow these patterns; do not invent new unit types.\n"

	return profile + "\n" + previousWorkoutsBlock(existingWorkouts) + instructions, nil
}

// TitleHeadlinePrompt asks for a title and headline for an already expanded
// workout, listing the titles used earlier in the week so they do not get
// repeated. Uniqueness is enforced through this instruction only, the
// parser accepts whatever comes back.
func TitleHeadlinePrompt(sets []weeks.Set, existingTitles []string) (string, error) {
	setsJson, err := json.Marshal(sets)
	if err != nil {
		return "", fmt.Errorf("marshal sets: %w", err)
	}
	if existingTitles == nil {
		existingTitles = []string{}
	}
	titlesJson, err := json.Marshal(existingTitles)
	if err != nil {
		return "", fmt.Errorf("marshal titles: %w", err)
	}

	return "Generate a concise and catchy title and headline for the following workout:\n" +
		string(setsJson) + "\n" +
		"Respond in JSON format with 'title' and 'headline' fields." +
		"Title should be max 30 characters, headline max 70 characters. Headline should summarize the workout focus." +
		"TITLES YOU CANNOT REPEAT FROM PREVIOUS WORKOUTS: " + string(titlesJson) + "\n", nil
}

// WeekPrompt asks for a whole week of fully specified workouts in one call.
func WeekPrompt(user users.User, userGoals []goals.Goal) string {
	profile := fmt.Sprintf(
		"User Profile:\n"+
			"Name: %s\n"+
			"Number of workouts to create %d\n"+
			"Age: %d\n"+
			"Interests:\n%s\n"+
			"Goals:\n%s\n"+
			"About user:\n%s\n%s\n",
		user.DisplayName,
		user.DesiredWorkoutsPerWeek,
		user.Age,
		interestsBlock(user.ActiveInterests()),
		goalsBlock(userGoals),
		activityLine(user.ActivityLevel),
		varietyLine(user.VarietyPreference),
	)

	instructions := fmt.Sprintf(
		"!INSTRUCTION:\n"+
			"The workout week should consist of exactly %d workouts.\n"+
			"Create %d highly detailed and well balanced workouts aligned to the user's profile and goals, each and every set must detailed in full.\n"+
			"IMPORTANT: Amount units should be things like 'reps', 'yards', 'meters', 'miles', 'km', 'minutes', 'seconds'\n"+
			"IMPORTANT: Intensity units should be things like 'min', 'kg', 'bpm', 'rpm', 'seconds'\n"+
			"IMPORTANT: Ensure that each workout is varied and targets different muscle groups while considering the user's preferences and goals.\n"+
			"IMPORTANT: Repeat exercises multiple times for things that have multiple sets, ensuring that the prescribed amount and intensity are followed for each set.\n"+
			"Workout title limit: 40 characters, headline limit: 80 characters, exercise name limit: 30 characters.\n",
		user.DesiredWorkoutsPerWeek, user.DesiredWorkoutsPerWeek,
	)

	return profile + "\n" + instructions
}

// GoalAnalysisPrompt asks for progress data points towards one goal, based
// on a single completed workout.
func GoalAnalysisPrompt(goal goals.Goal, workout weeks.Workout) string {
	return "Analyze the user's progress towards their goals based on the provided workout data." +
		"Provide 0-5 key data points, each with a brief description of what the user did and a numerical value indicating on a 0-100 how close they are to achieving their goal." +
		"Reference explicitly what the user did to support each datapoint, avoiding unnecessary details. At most 100 characters." +
		"\n\nUser Goal:\n" + goalLine(goal) +
		"\n\nWorkout Data:\n" + completedWorkoutBlock(workout)
}

func interestsBlock(interests []users.Interest) string {
	if len(interests) == 0 {
		return "No specific fitness interests provided."
	}

	lines := make([]string, 0, len(interests))
	for _, interest := range interests {
		line := "- " + interest.Name
		if interest.Focus != "" {
			line += fmt.Sprintf(" (with a focus on %s)", interest.Focus)
		}
		if len(interest.FavoriteExercises) > 0 {
			line += fmt.Sprintf(". Favorite exercises include: %s.", strings.Join(interest.FavoriteExercises, ", "))
		} else {
			line += "."
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func varietyLine(preference users.VarietyPreference) string {
	switch preference {
	case users.VarietyPreferenceLow:
		return "Stick to a few familiar exercises, close attention to the user's favorite exercises."
	case users.VarietyPreferenceMedium:
		return "Mix familiar and new exercises to keep the workouts engaging."
	case users.VarietyPreferenceHigh:
		return "Introduce a wide variety of interesting and diverse exercises to maintain high engagement."
	default:
		return "The user's variety preference is unspecified."
	}
}

func activityLine(level users.ActivityLevel) string {
	switch level {
	case users.ActivityLevelSedentary:
		return "The user has a sedentary lifestyle with minimal physical activity."
	case users.ActivityLevelLightlyActive:
		return "The user is lightly active, engaging in light exercise or sports 1-3 days a week."
	case users.ActivityLevelActive:
		return "The user is active, participating in moderate exercise or sports 3-5 days a week."
	case users.ActivityLevelModeratelyActive:
		return "The user is moderately active, engaging in intense exercise or sports 6-7 days a week."
	case users.ActivityLevelVeryActive:
		return "The user is very active, with a physically demanding job or training twice a day."
	default:
		return "The user's activity level is unspecified."
	}
}

// workoutNumberGuidance tells the model where in the week this session
// falls so it can pace volume and intensity. The workout number is clamped
// to the plan size, generating past the plan reads as the last workout.
func workoutNumberGuidance(existingWorkouts, desiredPerWeek int) string {
	desired := max(desiredPerWeek, 1)
	current := min(existingWorkouts+1, desired)
	remaining := max(desired-current, 0)

	var remainingPhrase string
	switch remaining {
	case 0:
		remainingPhrase = "no workouts left in this week, so feel free to finish strong."
	case 1:
		remainingPhrase = "one more workout in this week, so keep some gas in the tank."
	default:
		remainingPhrase = fmt.Sprintf("%d more workouts in this week, so pace the intensity.", remaining)
	}

	return fmt.Sprintf("This is workout %d of %d; the user has %s", current, desired, remainingPhrase)
}

func goalLine(goal goals.Goal) string {
	target := "Goal: " + goal.Target
	if goal.TargetDate != nil {
		target += " by " + goal.TargetDate.Format("2006-01-02")
	}

	status := "Inactive"
	if goal.Achieved {
		status = "Achieved"
	} else if goal.Active {
		status = "Active"
	}

	return fmt.Sprintf("- %s (Starting from: %s) [Status: %s]", target, goal.StartingPoint, status)
}

func goalsBlock(userGoals []goals.Goal) string {
	if len(userGoals) == 0 {
		return "No goals set."
	}
	lines := make([]string, 0, len(userGoals))
	for _, goal := range userGoals {
		lines = append(lines, goalLine(goal))
	}
	return strings.Join(lines, "\n")
}

func previousWorkoutsBlock(existingWorkouts []weeks.Workout) string {
	if len(existingWorkouts) == 0 {
		return ""
	}

	sections := make([]string, 0, len(existingWorkouts))
	for i, workout := range existingWorkouts {
		exercises := make([]string, 0, len(workout.Sets))
		for _, set := range workout.Sets {
			exercises = append(exercises, fmt.Sprintf(
				"- %s: %g-%g %s @ %g-%g %s",
				set.Exercise,
				set.PrescribedAmount.Min, set.PrescribedAmount.Max, set.AmountUnit,
				set.PrescribedIntensity.Min, set.PrescribedIntensity.Max, set.IntensityUnit,
			))
		}
		sections = append(sections, fmt.Sprintf(
			"Workout %d: %s\n%s\nExercises:\n%s",
			i+1, workout.Title, workout.Headline, strings.Join(exercises, "\n"),
		))
	}
	return "Previous Workouts:\n" + strings.Join(sections, "\n\n") + "\n"
}

func completedWorkoutBlock(workout weeks.Workout) string {
	lines := make([]string, 0, len(workout.Sets))
	for _, set := range workout.Sets {
		lines = append(lines, fmt.Sprintf(
			"- %s: %s %s, %s %s",
			set.Exercise,
			formatActual(set.ActualIntensity), set.IntensityUnit,
			formatActual(set.ActualAmount), set.AmountUnit,
		))
	}
	return strings.Join(lines, "\n")
}

func formatActual(value *float64) string {
	if value == nil {
		return "?"
	}
	return fmt.Sprintf("%g", *value)
}

func amountUnitExamples(system users.MeasurementSystem) (string, error) {
	switch system {
	case users.MeasurementSystemImperial:
		return "'reps', 'inches', 'feet', 'miles', 'minutes', 'seconds'", nil
	case users.MeasurementSystemMetric:
		return "'reps', 'centimeters', 'meters', 'kilometers', 'minutes', 'seconds'", nil
	default:
		return "", fmt.Errorf("unknown measurement system: %q", system)
	}
}

func intensityUnitExamples(system users.MeasurementSystem) (string, error) {
	switch system {
	case users.MeasurementSystemImperial:
		return "'min', 'lbs', 'bpm', 'rpm', 'seconds'", nil
	case users.MeasurementSystemMetric:
		return "'min', 'kg', 'bpm', 'rpm', 'seconds'", nil
	default:
		return "", fmt.Errorf("unknown measurement system: %q", system)
	}
}
