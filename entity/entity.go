package entity

import (
	"fmt"
	"strings"
	"time"
)

// Gender is the biological sex used by the BMR equation.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// ActivityLevel scales BMR into TDEE.
type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "very_active"
)

// Goal is the body-weight direction the user is working towards.
type Goal string

const (
	GoalLose     Goal = "lose"
	GoalMaintain Goal = "maintain"
	GoalGain     Goal = "gain"
)

// GainStrategy tunes how hard a gain goal pushes the surplus.
type GainStrategy string

const (
	GainLean       GainStrategy = "lean"
	GainStandard   GainStrategy = "standard"
	GainAggressive GainStrategy = "aggressive"
)

// MacroPreset selects the fat share of the calorie target.
type MacroPreset string

const (
	PresetBalanced    MacroPreset = "balanced"
	PresetLowFat      MacroPreset = "lowfat"
	PresetLowCarb     MacroPreset = "lowcarb"
	PresetHighProtein MacroPreset = "highprotein"
)

// UserProfile holds the physiology inputs of the macro calculation.
type UserProfile struct {
	Age           int           `json:"age" yaml:"age"`
	Gender        Gender        `json:"gender" yaml:"gender"`
	HeightCm      float64       `json:"heightCm" yaml:"height_cm"`
	WeightKg      float64       `json:"weightKg" yaml:"weight_kg"`
	ActivityLevel ActivityLevel `json:"activityLevel" yaml:"activity_level"`
	Goal          Goal          `json:"goal" yaml:"goal"`
}

// Validate checks every field against its allowed range.
func (p UserProfile) Validate() error {
	if p.Age < 1 || p.Age > 120 {
		return fmt.Errorf("%w: age must be between 1 and 120", ErrInvalidInput)
	}
	if p.Gender != GenderMale && p.Gender != GenderFemale {
		return fmt.Errorf("%w: unknown gender %q", ErrInvalidInput, p.Gender)
	}
	if p.HeightCm < 50 || p.HeightCm > 300 {
		return fmt.Errorf("%w: height must be between 50 and 300 cm", ErrInvalidInput)
	}
	if p.WeightKg < 10 || p.WeightKg > 500 {
		return fmt.Errorf("%w: weight must be between 10 and 500 kg", ErrInvalidInput)
	}
	switch p.ActivityLevel {
	case ActivitySedentary, ActivityLight, ActivityModerate, ActivityActive, ActivityVeryActive:
	default:
		return fmt.Errorf("%w: unknown activity level %q", ErrInvalidInput, p.ActivityLevel)
	}
	switch p.Goal {
	case GoalLose, GoalMaintain, GoalGain:
	default:
		return fmt.Errorf("%w: unknown goal %q", ErrInvalidInput, p.Goal)
	}
	return nil
}

// NutritionPreferences are optional overrides of the default goal adjustment
// and macro split. Nil pointers mean "use the default".
type NutritionPreferences struct {
	LossPaceKgPerMonth          *float64     `json:"lossPaceKgPerMonth,omitempty"`
	MaintenanceAdjustKcalPerDay *float64     `json:"maintenanceAdjustKcalPerDay,omitempty"`
	GainPaceKgPerMonth          *float64     `json:"gainPaceKgPerMonth,omitempty"`
	GainStrategy                GainStrategy `json:"gainStrategy,omitempty"`
	MacroPreset                 MacroPreset  `json:"macroPreset,omitempty"`
}

// Validate rejects negative paces and unknown enum values.
func (p NutritionPreferences) Validate() error {
	if p.LossPaceKgPerMonth != nil && *p.LossPaceKgPerMonth < 0 {
		return fmt.Errorf("%w: lossPaceKgPerMonth must not be negative", ErrInvalidInput)
	}
	if p.GainPaceKgPerMonth != nil && *p.GainPaceKgPerMonth < 0 {
		return fmt.Errorf("%w: gainPaceKgPerMonth must not be negative", ErrInvalidInput)
	}
	switch p.GainStrategy {
	case "", GainLean, GainStandard, GainAggressive:
	default:
		return fmt.Errorf("%w: unknown gain strategy %q", ErrInvalidInput, p.GainStrategy)
	}
	switch p.MacroPreset {
	case "", PresetBalanced, PresetLowFat, PresetLowCarb, PresetHighProtein:
	default:
		return fmt.Errorf("%w: unknown macro preset %q", ErrInvalidInput, p.MacroPreset)
	}
	return nil
}

// PFC is a protein/fat/carbohydrate split in grams.
type PFC struct {
	Protein float64 `json:"protein"`
	Fat     float64 `json:"fat"`
	Carbs   float64 `json:"carbs"`
}

// Kcal returns the energy of the split (4/9/4 kcal per gram).
func (p PFC) Kcal() float64 {
	return p.Protein*4 + p.Fat*9 + p.Carbs*4
}

// NutritionTargets is the output of the macro calculation.
type NutritionTargets struct {
	BMR            float64 `json:"bmr"`
	TDEE           float64 `json:"tdee"`
	TargetCalories float64 `json:"targetCalories"`
	PFC            PFC     `json:"pfc"`
}

// MealStatus tracks what happened to a planned meal.
type MealStatus string

const (
	MealPlanned MealStatus = "planned"
	MealSwapped MealStatus = "swapped"
	MealCooked  MealStatus = "cooked"
)

// Valid reports whether s is one of the known statuses.
func (s MealStatus) Valid() bool {
	return s == MealPlanned || s == MealSwapped || s == MealCooked
}

// SlotName identifies one of the three daily meals.
type SlotName string

const (
	Breakfast SlotName = "breakfast"
	Lunch     SlotName = "lunch"
	Dinner    SlotName = "dinner"
)

// Slots lists the meal slots in the order they are eaten.
var Slots = []SlotName{Breakfast, Lunch, Dinner}

// ParseSlotName validates a slot name coming from a caller.
func ParseSlotName(s string) (SlotName, error) {
	switch SlotName(strings.ToLower(s)) {
	case Breakfast:
		return Breakfast, nil
	case Lunch:
		return Lunch, nil
	case Dinner:
		return Dinner, nil
	}
	return "", fmt.Errorf("%w: unknown meal slot %q", ErrInvalidInput, s)
}

// Nutrition is the per-serving nutrition of a meal.
type Nutrition struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Carbs    float64 `json:"carbs"`
}

// IsZero reports whether every field is zero.
func (n Nutrition) IsZero() bool {
	return n == Nutrition{}
}

// Tags used on meal slots.
const (
	TagFixed      = "fixed"
	TagUnresolved = "unresolved"
)

// MealSlot is one meal of a plan day.
type MealSlot struct {
	RecipeID    string     `json:"recipeId,omitempty"`
	Title       string     `json:"title"`
	Status      MealStatus `json:"status"`
	Nutrition   Nutrition  `json:"nutrition"`
	Tags        []string   `json:"tags"`
	Ingredients []string   `json:"ingredients"`
	Steps       []string   `json:"steps"`
}

// HasTag reports whether the slot carries tag.
func (m MealSlot) HasTag(tag string) bool {
	for _, t := range m.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers can mutate slices freely.
func (m MealSlot) Clone() MealSlot {
	m.Tags = append([]string(nil), m.Tags...)
	m.Ingredients = append([]string(nil), m.Ingredients...)
	m.Steps = append([]string(nil), m.Steps...)
	return m
}

// DayMeals holds the three meals of a day.
type DayMeals struct {
	Breakfast MealSlot `json:"breakfast"`
	Lunch     MealSlot `json:"lunch"`
	Dinner    MealSlot `json:"dinner"`
}

// Slot returns a pointer to the named meal, or nil for an unknown name.
func (d *DayMeals) Slot(name SlotName) *MealSlot {
	switch name {
	case Breakfast:
		return &d.Breakfast
	case Lunch:
		return &d.Lunch
	case Dinner:
		return &d.Dinner
	}
	return nil
}

// DateLayout is the ISO calendar date format used for plan days.
const DateLayout = "2006-01-02"

// DayPlan is one day of a meal plan.
type DayPlan struct {
	Date       string   `json:"date"`
	IsCheatDay bool     `json:"isCheatDay"`
	Meals      DayMeals `json:"meals"`
}

// ShoppingListItem is one checkable line of the shopping list.
type ShoppingListItem struct {
	Ingredient string `json:"ingredient"`
	Amount     string `json:"amount"`
	Category   string `json:"category"`
	Checked    bool   `json:"checked"`
}

// CheatDayFrequency controls how often a relaxed day is scheduled.
type CheatDayFrequency string

const (
	CheatWeekly   CheatDayFrequency = "weekly"
	CheatBiweekly CheatDayFrequency = "biweekly"
)

// ParseCheatDayFrequency validates a frequency, defaulting empty input to weekly.
func ParseCheatDayFrequency(s string) (CheatDayFrequency, error) {
	switch CheatDayFrequency(s) {
	case "", CheatWeekly:
		return CheatWeekly, nil
	case CheatBiweekly:
		return CheatBiweekly, nil
	}
	return "", fmt.Errorf("%w: unknown cheat day frequency %q", ErrInvalidInput, s)
}

// MealPlan is a persisted plan with its shopping list.
type MealPlan struct {
	ID                string             `json:"id"`
	UserID            string             `json:"userId"`
	StartDate         string             `json:"startDate"`
	CheatDayFrequency CheatDayFrequency  `json:"cheatDayFrequency"`
	Days              []DayPlan          `json:"days"`
	ShoppingList      []ShoppingListItem `json:"shoppingList"`
	CreatedAt         time.Time          `json:"createdAt"`
}

// Day finds the day with the given date.
func (p *MealPlan) Day(date string) *DayPlan {
	for i := range p.Days {
		if p.Days[i].Date == date {
			return &p.Days[i]
		}
	}
	return nil
}

// ServedMeal is a meal located by its recipe ID.
type ServedMeal struct {
	PlanID string   `json:"planId"`
	Date   string   `json:"date"`
	Slot   SlotName `json:"slot"`
	Meal   MealSlot `json:"meal"`
}

// FixedMealTitles are the meals a user has pinned to a fixed menu.
type FixedMealTitles struct {
	Breakfast string `json:"breakfast,omitempty"`
	Lunch     string `json:"lunch,omitempty"`
	Dinner    string `json:"dinner,omitempty"`
}

// Title returns the pinned title of a slot.
func (f FixedMealTitles) Title(slot SlotName) string {
	switch slot {
	case Breakfast:
		return f.Breakfast
	case Lunch:
		return f.Lunch
	case Dinner:
		return f.Dinner
	}
	return ""
}

// UserSettings is everything a user configures before generating a plan.
type UserSettings struct {
	UserID              string               `json:"userId"`
	Profile             UserProfile          `json:"profile"`
	Preferences         NutritionPreferences `json:"preferences"`
	FixedMeals          FixedMealTitles      `json:"fixedMeals"`
	CheatDayFrequency   CheatDayFrequency    `json:"cheatDayFrequency"`
	DislikedIngredients []string             `json:"dislikedIngredients"`
}

// Validate checks the profile, the preferences and the cheat frequency.
func (s UserSettings) Validate() error {
	if err := s.Profile.Validate(); err != nil {
		return err
	}
	if err := s.Preferences.Validate(); err != nil {
		return err
	}
	if _, err := ParseCheatDayFrequency(string(s.CheatDayFrequency)); err != nil {
		return err
	}
	return nil
}

// FavoriteRecipe is a recipe the user marked as a favorite.
type FavoriteRecipe struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
}
