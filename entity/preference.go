package entity

import (
	"fmt"
	"time"
)

// LearnedPreferenceProfile is the running additive ledger of what a user liked.
type LearnedPreferenceProfile struct {
	Cuisines       map[string]float64 `json:"cuisines"`
	Flavors        map[string]float64 `json:"flavors"`
	Ingredients    map[string]float64 `json:"ingredients"`
	AvoidPatterns  map[string]float64 `json:"avoidPatterns"`
	TotalFeedbacks int                `json:"totalFeedbacks"`
}

// NewLearnedPreferenceProfile returns an empty profile.
func NewLearnedPreferenceProfile() *LearnedPreferenceProfile {
	return &LearnedPreferenceProfile{
		Cuisines:      map[string]float64{},
		Flavors:       map[string]float64{},
		Ingredients:   map[string]float64{},
		AvoidPatterns: map[string]float64{},
	}
}

// EnsureMaps replaces nil maps with empty ones.
func (p *LearnedPreferenceProfile) EnsureMaps() {
	if p.Cuisines == nil {
		p.Cuisines = map[string]float64{}
	}
	if p.Flavors == nil {
		p.Flavors = map[string]float64{}
	}
	if p.Ingredients == nil {
		p.Ingredients = map[string]float64{}
	}
	if p.AvoidPatterns == nil {
		p.AvoidPatterns = map[string]float64{}
	}
}

// PreferenceDelta is the bounded change extracted from a single feedback.
type PreferenceDelta struct {
	Cuisines    map[string]float64 `json:"cuisines"`
	Flavors     map[string]float64 `json:"flavors"`
	Ingredients map[string]float64 `json:"ingredients"`
}

// RepeatPreference is whether the user wants the recipe again.
type RepeatPreference string

const (
	RepeatDefinitely RepeatPreference = "definitely"
	RepeatSometimes  RepeatPreference = "sometimes"
	RepeatNever      RepeatPreference = "never"
)

// Ratings are post-meal scores on a 1-5 scale.
type Ratings struct {
	Overall      int `json:"overall"`
	Taste        int `json:"taste"`
	Ease         int `json:"ease"`
	Satisfaction int `json:"satisfaction"`
}

// FeedbackRecord is the user's reaction to a served meal.
type FeedbackRecord struct {
	ID               string           `json:"id"`
	UserID           string           `json:"userId"`
	RecipeID         string           `json:"recipeId"`
	Cooked           bool             `json:"cooked"`
	Ratings          Ratings          `json:"ratings"`
	RepeatPreference RepeatPreference `json:"repeatPreference"`
	Comment          string           `json:"comment"`
	PositiveTags     []string         `json:"positiveTags,omitempty"`
	NegativeTags     []string         `json:"negativeTags,omitempty"`
	CreatedAt        time.Time        `json:"createdAt"`
}

// Validate checks the recipe reference, the rating scale and the repeat preference.
func (f FeedbackRecord) Validate() error {
	if f.RecipeID == "" {
		return fmt.Errorf("%w: recipeId is required", ErrInvalidInput)
	}
	for name, v := range map[string]int{
		"overall":      f.Ratings.Overall,
		"taste":        f.Ratings.Taste,
		"ease":         f.Ratings.Ease,
		"satisfaction": f.Ratings.Satisfaction,
	} {
		if v < 1 || v > 5 {
			return fmt.Errorf("%w: rating %s must be between 1 and 5", ErrInvalidInput, name)
		}
	}
	switch f.RepeatPreference {
	case RepeatDefinitely, RepeatSometimes, RepeatNever:
	default:
		return fmt.Errorf("%w: unknown repeat preference %q", ErrInvalidInput, f.RepeatPreference)
	}
	return nil
}
