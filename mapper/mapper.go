package mapper

import (
	"sort"

	"github.com/akihiro4321/favefit-sub001/entity"
	"github.com/akihiro4321/favefit-sub001/model"

	"gorm.io/datatypes"
)

// SettingsEntityToModel maps UserSettings to the corresponding model.
func SettingsEntityToModel(e *entity.UserSettings) *model.UserSettings {
	return &model.UserSettings{
		UserID:              e.UserID,
		Profile:             datatypes.NewJSONType(e.Profile),
		Preferences:         datatypes.NewJSONType(e.Preferences),
		FixedMeals:          datatypes.NewJSONType(e.FixedMeals),
		CheatDayFrequency:   string(e.CheatDayFrequency),
		DislikedIngredients: datatypes.NewJSONType(nonNil(e.DislikedIngredients)),
	}
}

// SettingsModelToEntity maps a UserSettings model to the entity.
func SettingsModelToEntity(m *model.UserSettings) *entity.UserSettings {
	return &entity.UserSettings{
		UserID:              m.UserID,
		Profile:             m.Profile.Data(),
		Preferences:         m.Preferences.Data(),
		FixedMeals:          m.FixedMeals.Data(),
		CheatDayFrequency:   entity.CheatDayFrequency(m.CheatDayFrequency),
		DislikedIngredients: nonNil(m.DislikedIngredients.Data()),
	}
}

// PreferenceEntityToModel maps a learned profile to its row.
func PreferenceEntityToModel(userID string, e *entity.LearnedPreferenceProfile) *model.LearnedPreference {
	e.EnsureMaps()
	return &model.LearnedPreference{
		UserID:         userID,
		Cuisines:       datatypes.NewJSONType(e.Cuisines),
		Flavors:        datatypes.NewJSONType(e.Flavors),
		Ingredients:    datatypes.NewJSONType(e.Ingredients),
		AvoidPatterns:  datatypes.NewJSONType(e.AvoidPatterns),
		TotalFeedbacks: e.TotalFeedbacks,
	}
}

// PreferenceModelToEntity maps a learned preference row to the entity.
func PreferenceModelToEntity(m *model.LearnedPreference) *entity.LearnedPreferenceProfile {
	p := &entity.LearnedPreferenceProfile{
		Cuisines:       m.Cuisines.Data(),
		Flavors:        m.Flavors.Data(),
		Ingredients:    m.Ingredients.Data(),
		AvoidPatterns:  m.AvoidPatterns.Data(),
		TotalFeedbacks: m.TotalFeedbacks,
	}
	p.EnsureMaps()
	return p
}

// MealEntityToModel maps one slot of a day.
func MealEntityToModel(planID string, slot entity.SlotName, e *entity.MealSlot) model.PlanMeal {
	return model.PlanMeal{
		PlanID:      planID,
		RecipeID:    e.RecipeID,
		Slot:        string(slot),
		Title:       e.Title,
		Status:      string(e.Status),
		Calories:    e.Nutrition.Calories,
		Protein:     e.Nutrition.Protein,
		Fat:         e.Nutrition.Fat,
		Carbs:       e.Nutrition.Carbs,
		Tags:        datatypes.NewJSONType(nonNil(e.Tags)),
		Ingredients: datatypes.NewJSONType(nonNil(e.Ingredients)),
		Steps:       datatypes.NewJSONType(nonNil(e.Steps)),
	}
}

// MealModelToEntity maps a plan_meals row to a slot.
func MealModelToEntity(m *model.PlanMeal) entity.MealSlot {
	return entity.MealSlot{
		RecipeID: m.RecipeID,
		Title:    m.Title,
		Status:   entity.MealStatus(m.Status),
		Nutrition: entity.Nutrition{
			Calories: m.Calories,
			Protein:  m.Protein,
			Fat:      m.Fat,
			Carbs:    m.Carbs,
		},
		Tags:        nonNil(m.Tags.Data()),
		Ingredients: nonNil(m.Ingredients.Data()),
		Steps:       nonNil(m.Steps.Data()),
	}
}

// PlanEntityToModel maps a plan with its days, meals and shopping list.
func PlanEntityToModel(e *entity.MealPlan) *model.MealPlan {
	m := &model.MealPlan{
		ID:                e.ID,
		UserID:            e.UserID,
		StartDate:         e.StartDate,
		CheatDayFrequency: string(e.CheatDayFrequency),
		CreatedAt:         e.CreatedAt,
	}
	for i := range e.Days {
		day := &e.Days[i]
		row := model.PlanDay{
			PlanID:     e.ID,
			DayIndex:   i,
			Date:       day.Date,
			IsCheatDay: day.IsCheatDay,
		}
		for _, slot := range entity.Slots {
			row.Meals = append(row.Meals, MealEntityToModel(e.ID, slot, day.Meals.Slot(slot)))
		}
		m.Days = append(m.Days, row)
	}
	for i, item := range e.ShoppingList {
		m.ShoppingItems = append(m.ShoppingItems, ShoppingItemEntityToModel(e.ID, i, item))
	}
	return m
}

// PlanModelToEntity maps a plan row with preloaded children to the entity.
func PlanModelToEntity(m *model.MealPlan) *entity.MealPlan {
	days := append([]model.PlanDay(nil), m.Days...)
	sort.Slice(days, func(i, j int) bool { return days[i].DayIndex < days[j].DayIndex })
	items := append([]model.ShoppingItem(nil), m.ShoppingItems...)
	sort.Slice(items, func(i, j int) bool { return items[i].Position < items[j].Position })

	e := &entity.MealPlan{
		ID:                m.ID,
		UserID:            m.UserID,
		StartDate:         m.StartDate,
		CheatDayFrequency: entity.CheatDayFrequency(m.CheatDayFrequency),
		Days:              make([]entity.DayPlan, 0, len(days)),
		ShoppingList:      make([]entity.ShoppingListItem, 0, len(items)),
		CreatedAt:         m.CreatedAt,
	}
	for _, d := range days {
		day := entity.DayPlan{Date: d.Date, IsCheatDay: d.IsCheatDay}
		for i := range d.Meals {
			if slot := day.Meals.Slot(entity.SlotName(d.Meals[i].Slot)); slot != nil {
				*slot = MealModelToEntity(&d.Meals[i])
			}
		}
		e.Days = append(e.Days, day)
	}
	for i := range items {
		e.ShoppingList = append(e.ShoppingList, ShoppingItemModelToEntity(&items[i]))
	}
	return e
}

// ShoppingItemEntityToModel maps a list line at position.
func ShoppingItemEntityToModel(planID string, position int, e entity.ShoppingListItem) model.ShoppingItem {
	return model.ShoppingItem{
		PlanID:     planID,
		Position:   position,
		Ingredient: e.Ingredient,
		Amount:     e.Amount,
		Category:   e.Category,
		Checked:    e.Checked,
	}
}

// ShoppingItemModelToEntity maps a shopping_items row to a list line.
func ShoppingItemModelToEntity(m *model.ShoppingItem) entity.ShoppingListItem {
	return entity.ShoppingListItem{
		Ingredient: m.Ingredient,
		Amount:     m.Amount,
		Category:   m.Category,
		Checked:    m.Checked,
	}
}

// FeedbackEntityToModel maps a feedback record to its row.
func FeedbackEntityToModel(e *entity.FeedbackRecord) *model.Feedback {
	return &model.Feedback{
		ID:               e.ID,
		UserID:           e.UserID,
		RecipeID:         e.RecipeID,
		Cooked:           e.Cooked,
		Overall:          e.Ratings.Overall,
		Taste:            e.Ratings.Taste,
		Ease:             e.Ratings.Ease,
		Satisfaction:     e.Ratings.Satisfaction,
		RepeatPreference: string(e.RepeatPreference),
		Comment:          e.Comment,
		PositiveTags:     datatypes.NewJSONType(nonNil(e.PositiveTags)),
		NegativeTags:     datatypes.NewJSONType(nonNil(e.NegativeTags)),
		CreatedAt:        e.CreatedAt,
	}
}

// FeedbackModelToEntity maps a feedbacks row to the entity.
func FeedbackModelToEntity(m *model.Feedback) *entity.FeedbackRecord {
	return &entity.FeedbackRecord{
		ID:       m.ID,
		UserID:   m.UserID,
		RecipeID: m.RecipeID,
		Cooked:   m.Cooked,
		Ratings: entity.Ratings{
			Overall:      m.Overall,
			Taste:        m.Taste,
			Ease:         m.Ease,
			Satisfaction: m.Satisfaction,
		},
		RepeatPreference: entity.RepeatPreference(m.RepeatPreference),
		Comment:          m.Comment,
		PositiveTags:     m.PositiveTags.Data(),
		NegativeTags:     m.NegativeTags.Data(),
		CreatedAt:        m.CreatedAt,
	}
}

// FavoriteEntityToModel maps a favorite recipe to its row.
func FavoriteEntityToModel(e *entity.FavoriteRecipe) *model.FavoriteRecipe {
	return &model.FavoriteRecipe{
		ID:        e.ID,
		UserID:    e.UserID,
		Title:     e.Title,
		Tags:      datatypes.NewJSONType(nonNil(e.Tags)),
		CreatedAt: e.CreatedAt,
	}
}

// FavoriteModelToEntity maps a favorite_recipes row to the entity.
func FavoriteModelToEntity(m *model.FavoriteRecipe) *entity.FavoriteRecipe {
	return &entity.FavoriteRecipe{
		ID:        m.ID,
		UserID:    m.UserID,
		Title:     m.Title,
		Tags:      nonNil(m.Tags.Data()),
		CreatedAt: m.CreatedAt,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
