package model

import (
	"time"

	"github.com/akihiro4321/favefit-sub001/entity"

	"gorm.io/datatypes"
)

// UserSettings stores the profile and planning options of one user.
type UserSettings struct {
	UserID              string                                         `gorm:"primaryKey;size:128" json:"user_id"`
	Profile             datatypes.JSONType[entity.UserProfile]          `json:"profile"`
	Preferences         datatypes.JSONType[entity.NutritionPreferences] `json:"preferences"`
	FixedMeals          datatypes.JSONType[entity.FixedMealTitles]      `json:"fixed_meals"`
	CheatDayFrequency   string                                         `gorm:"size:16;not null" json:"cheat_day_frequency"`
	DislikedIngredients datatypes.JSONType[[]string]                   `json:"disliked_ingredients"`
	CreatedAt           time.Time                                      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time                                      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (UserSettings) TableName() string { return "user_settings" }

// LearnedPreference is the additive preference ledger of one user.
type LearnedPreference struct {
	UserID         string                                 `gorm:"primaryKey;size:128" json:"user_id"`
	Cuisines       datatypes.JSONType[map[string]float64] `json:"cuisines"`
	Flavors        datatypes.JSONType[map[string]float64] `json:"flavors"`
	Ingredients    datatypes.JSONType[map[string]float64] `json:"ingredients"`
	AvoidPatterns  datatypes.JSONType[map[string]float64] `json:"avoid_patterns"`
	TotalFeedbacks int                                    `gorm:"not null;default:0" json:"total_feedbacks"`
	UpdatedAt      time.Time                              `gorm:"autoUpdateTime" json:"updated_at"`
}

func (LearnedPreference) TableName() string { return "learned_preferences" }

// MealPlan is the header row of a 14-day plan.
type MealPlan struct {
	ID                string         `gorm:"primaryKey;size:36" json:"id"`
	UserID            string         `gorm:"size:128;not null;index" json:"user_id"`
	StartDate         string         `gorm:"size:10;not null" json:"start_date"`
	CheatDayFrequency string         `gorm:"size:16;not null" json:"cheat_day_frequency"`
	Days              []PlanDay      `gorm:"foreignKey:PlanID;constraint:OnDelete:CASCADE" json:"days"`
	ShoppingItems     []ShoppingItem `gorm:"foreignKey:PlanID;constraint:OnDelete:CASCADE" json:"shopping_items"`
	CreatedAt         time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
}

func (MealPlan) TableName() string { return "meal_plans" }

// PlanDay is one day of a plan; DayIndex keeps calendar order.
type PlanDay struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	PlanID     string     `gorm:"size:36;not null;index" json:"plan_id"`
	DayIndex   int        `gorm:"not null" json:"day_index"`
	Date       string     `gorm:"size:10;not null" json:"date"`
	IsCheatDay bool       `gorm:"not null;default:false" json:"is_cheat_day"`
	Meals      []PlanMeal `gorm:"foreignKey:DayID;constraint:OnDelete:CASCADE" json:"meals"`
}

func (PlanDay) TableName() string { return "plan_days" }

// PlanMeal is one slot of a plan day. RecipeID is how feedback finds it.
type PlanMeal struct {
	ID          uint                         `gorm:"primaryKey" json:"id"`
	DayID       uint                         `gorm:"not null;index" json:"day_id"`
	PlanID      string                       `gorm:"size:36;not null;index" json:"plan_id"`
	RecipeID    string                       `gorm:"size:36;not null;uniqueIndex" json:"recipe_id"`
	Slot        string                       `gorm:"size:16;not null" json:"slot"`
	Title       string                       `gorm:"size:255;not null" json:"title"`
	Status      string                       `gorm:"size:16;not null" json:"status"`
	Calories    float64                      `json:"calories"`
	Protein     float64                      `json:"protein"`
	Fat         float64                      `json:"fat"`
	Carbs       float64                      `json:"carbs"`
	Tags        datatypes.JSONType[[]string] `json:"tags"`
	Ingredients datatypes.JSONType[[]string] `json:"ingredients"`
	Steps       datatypes.JSONType[[]string] `json:"steps"`
}

func (PlanMeal) TableName() string { return "plan_meals" }

// ShoppingItem is one line of a plan's shopping list. Position is the
// index callers use to check items off.
type ShoppingItem struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	PlanID     string `gorm:"size:36;not null;uniqueIndex:idx_plan_position" json:"plan_id"`
	Position   int    `gorm:"not null;uniqueIndex:idx_plan_position" json:"position"`
	Ingredient string `gorm:"size:255;not null" json:"ingredient"`
	Amount     string `gorm:"size:255" json:"amount"`
	Category   string `gorm:"size:32;not null" json:"category"`
	Checked    bool   `gorm:"not null;default:false" json:"checked"`
}

func (ShoppingItem) TableName() string { return "shopping_items" }

// Feedback is a stored post-meal rating with the tags the analysis extracted.
type Feedback struct {
	ID               string                       `gorm:"primaryKey;size:36" json:"id"`
	UserID           string                       `gorm:"size:128;not null;uniqueIndex:idx_feedback_user_recipe" json:"user_id"`
	RecipeID         string                       `gorm:"size:36;not null;uniqueIndex:idx_feedback_user_recipe" json:"recipe_id"`
	Cooked           bool                         `json:"cooked"`
	Overall          int                          `json:"overall"`
	Taste            int                          `json:"taste"`
	Ease             int                          `json:"ease"`
	Satisfaction     int                          `json:"satisfaction"`
	RepeatPreference string                       `gorm:"size:16" json:"repeat_preference"`
	Comment          string                       `gorm:"type:text" json:"comment"`
	PositiveTags     datatypes.JSONType[[]string] `json:"positive_tags"`
	NegativeTags     datatypes.JSONType[[]string] `json:"negative_tags"`
	CreatedAt        time.Time                    `gorm:"autoCreateTime" json:"created_at"`
}

func (Feedback) TableName() string { return "feedbacks" }

// FavoriteRecipe is a recipe the user saved.
type FavoriteRecipe struct {
	ID        string                       `gorm:"primaryKey;size:36" json:"id"`
	UserID    string                       `gorm:"size:128;not null;index" json:"user_id"`
	Title     string                       `gorm:"size:255;not null" json:"title"`
	Tags      datatypes.JSONType[[]string] `json:"tags"`
	CreatedAt time.Time                    `gorm:"autoCreateTime" json:"created_at"`
}

func (FavoriteRecipe) TableName() string { return "favorite_recipes" }

// All lists every table for AutoMigrate.
func All() []any {
	return []any{
		&UserSettings{},
		&LearnedPreference{},
		&MealPlan{},
		&PlanDay{},
		&PlanMeal{},
		&ShoppingItem{},
		&Feedback{},
		&FavoriteRecipe{},
	}
}
