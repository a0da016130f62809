package users

import (
	"fmt"
	"time"

	"github.com/2beens/fitcoach/internal/sanitize"

	"github.com/google/uuid"
)

const (
	maxNameLen = 80

	MinWorkoutsPerWeek = 1
	MaxWorkoutsPerWeek = 14

	DefaultWorkoutsPerWeek = 3
)

type MeasurementSystem string

const (
	MeasurementSystemImperial MeasurementSystem = "Imperial"
	MeasurementSystemMetric   MeasurementSystem = "Metric"
)

func (ms MeasurementSystem) IsValid() bool {
	switch ms {
	case MeasurementSystemImperial, MeasurementSystemMetric:
		return true
	default:
		return false
	}
}

type VarietyPreference string

const (
	VarietyPreferenceLow    VarietyPreference = "Low"
	VarietyPreferenceMedium VarietyPreference = "Medium"
	VarietyPreferenceHigh   VarietyPreference = "High"
)

func (vp VarietyPreference) IsValid() bool {
	switch vp {
	case VarietyPreferenceLow, VarietyPreferenceMedium, VarietyPreferenceHigh:
		return true
	default:
		return false
	}
}

// Skill is the self-assessed experience with one interest.
type Skill string

const (
	SkillNew          Skill = "New"
	SkillNovice       Skill = "Novice"
	SkillIntermediate Skill = "Intermediate"
	SkillAdvanced     Skill = "Advanced"
)

func (s Skill) IsValid() bool {
	switch s {
	case SkillNew, SkillNovice, SkillIntermediate, SkillAdvanced:
		return true
	default:
		return false
	}
}

// FocusLevel says how central an interest is to the training plan.
type FocusLevel string

const (
	FocusLevelPrimary   FocusLevel = "Primary"
	FocusLevelSecondary FocusLevel = "Secondary"
	FocusLevelMinor     FocusLevel = "Minor"
)

func (fl FocusLevel) IsValid() bool {
	switch fl {
	case FocusLevelPrimary, FocusLevelSecondary, FocusLevelMinor:
		return true
	default:
		return false
	}
}

type ActivityLevel string

const (
	ActivityLevelSedentary        ActivityLevel = "Sedentary"
	ActivityLevelLightlyActive    ActivityLevel = "Lightly Active"
	ActivityLevelActive           ActivityLevel = "Active"
	ActivityLevelModeratelyActive ActivityLevel = "Moderately Active"
	ActivityLevelVeryActive       ActivityLevel = "Very Active"
)

func (al ActivityLevel) IsValid() bool {
	switch al {
	case ActivityLevelSedentary, ActivityLevelLightlyActive, ActivityLevelActive,
		ActivityLevelModeratelyActive, ActivityLevelVeryActive:
		return true
	default:
		return false
	}
}

// Interest is one sport or training style the user wants in their plan.
type Interest struct {
	Name              string     `json:"name"`
	Skill             Skill      `json:"skill"`
	Focus             FocusLevel `json:"focus"`
	Active            bool       `json:"active"`
	FavoriteExercises []string   `json:"favoriteExercises,omitempty"`
}

func (i *Interest) Validate() error {
	sanitized, err := sanitize.SanitizeWithLimit(i.Name, maxNameLen)
	if err != nil {
		return fmt.Errorf("interest name: %w", err)
	}
	i.Name = sanitized

	if !i.Skill.IsValid() {
		return fmt.Errorf("invalid skill: %s", i.Skill)
	}
	if !i.Focus.IsValid() {
		return fmt.Errorf("invalid focus: %s", i.Focus)
	}

	for fi, favorite := range i.FavoriteExercises {
		if i.FavoriteExercises[fi], err = sanitize.SanitizeWithLimit(favorite, maxNameLen); err != nil {
			return fmt.Errorf("favorite exercise %d: %w", fi, err)
		}
	}

	return nil
}

type User struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	Email        string `json:"email,omitempty"`
	PasswordHash string `json:"-"`
	GoogleID     string `json:"-"`
	Provider     string `json:"provider,omitempty"`

	FirstName   string     `json:"firstName,omitempty"`
	LastName    string     `json:"lastName,omitempty"`
	DisplayName string     `json:"displayName,omitempty"`
	Age         int        `json:"age,omitempty"`
	Birthday    *time.Time `json:"birthday,omitempty"`

	IsActive  bool `json:"isActive"`
	IsPremium bool `json:"isPremium"`

	MeasurementSystem      MeasurementSystem `json:"measurementSystem,omitempty"`
	ActivityLevel          ActivityLevel     `json:"activityLevel,omitempty"`
	VarietyPreference      VarietyPreference `json:"varietyPreference"`
	DesiredWorkoutsPerWeek int               `json:"desiredWorkoutsPerWeek"`
	Interests              []Interest        `json:"interests"`
}

// Validate sanitizes the free-text fields and fills in the defaults. The
// profile texts end up inside model prompts, so they go through the same
// screening as any other untrusted text.
func (u *User) Validate() error {
	var err error
	if u.DisplayName != "" {
		if u.DisplayName, err = sanitize.SanitizeWithLimit(u.DisplayName, maxNameLen); err != nil {
			return fmt.Errorf("display name: %w", err)
		}
	}
	if u.FirstName != "" {
		if u.FirstName, err = sanitize.SanitizeWithLimit(u.FirstName, maxNameLen); err != nil {
			return fmt.Errorf("first name: %w", err)
		}
	}
	if u.LastName != "" {
		if u.LastName, err = sanitize.SanitizeWithLimit(u.LastName, maxNameLen); err != nil {
			return fmt.Errorf("last name: %w", err)
		}
	}

	if u.MeasurementSystem != "" && !u.MeasurementSystem.IsValid() {
		return fmt.Errorf("invalid measurement system: %s", u.MeasurementSystem)
	}
	if u.ActivityLevel != "" && !u.ActivityLevel.IsValid() {
		return fmt.Errorf("invalid activity level: %s", u.ActivityLevel)
	}

	if u.VarietyPreference == "" {
		u.VarietyPreference = VarietyPreferenceMedium
	}
	if !u.VarietyPreference.IsValid() {
		return fmt.Errorf("invalid variety preference: %s", u.VarietyPreference)
	}

	if u.DesiredWorkoutsPerWeek == 0 {
		u.DesiredWorkoutsPerWeek = DefaultWorkoutsPerWeek
	}
	if u.DesiredWorkoutsPerWeek < MinWorkoutsPerWeek || u.DesiredWorkoutsPerWeek > MaxWorkoutsPerWeek {
		return fmt.Errorf(
			"desired workouts per week must be between %d and %d",
			MinWorkoutsPerWeek, MaxWorkoutsPerWeek,
		)
	}

	for ii := range u.Interests {
		if err := u.Interests[ii].Validate(); err != nil {
			return fmt.Errorf("interest %d: %w", ii, err)
		}
	}

	return nil
}

// ActiveInterests returns only the interests currently marked active.
func (u *User) ActiveInterests() []Interest {
	active := make([]Interest, 0, len(u.Interests))
	for _, interest := range u.Interests {
		if interest.Active {
			active = append(active, interest)
		}
	}
	return active
}
