package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/akihiro4321/favefit-sub001/entity"
	"github.com/akihiro4321/favefit-sub001/mapper"
	"github.com/akihiro4321/favefit-sub001/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PlanRepository stores meal plans with their days, meals and shopping items.
type PlanRepository struct {
	DB *gorm.DB
}

func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{
		DB: db,
	}
}

// WithTx returns a repository bound to an open transaction.
func (r *PlanRepository) WithTx(tx *gorm.DB) *PlanRepository {
	return &PlanRepository{DB: tx}
}

// CreatePlan stores a plan and all of its children in one transaction.
func (r *PlanRepository) CreatePlan(ctx context.Context, plan *entity.MealPlan) error {
	planModel := mapper.PlanEntityToModel(plan)
	if err := r.DB.WithContext(ctx).Create(planModel).Error; err != nil {
		return err
	}
	plan.CreatedAt = planModel.CreatedAt
	return nil
}

func (r *PlanRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).
		Preload("Days", func(db *gorm.DB) *gorm.DB { return db.Order("day_index") }).
		Preload("Days.Meals").
		Preload("ShoppingItems", func(db *gorm.DB) *gorm.DB { return db.Order("position") })
}

// GetPlan fetches a plan owned by userID.
func (r *PlanRepository) GetPlan(ctx context.Context, userID, planID string) (*entity.MealPlan, error) {
	var planModel model.MealPlan
	err := r.preloaded(ctx).Where("id = ? AND user_id = ?", planID, userID).First(&planModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: plan %s", entity.ErrNotFound, planID)
		}
		return nil, err
	}
	return mapper.PlanModelToEntity(&planModel), nil
}

// LatestPlan fetches the most recently created plan of a user.
func (r *PlanRepository) LatestPlan(ctx context.Context, userID string) (*entity.MealPlan, error) {
	var planModel model.MealPlan
	err := r.preloaded(ctx).Where("user_id = ?", userID).Order("created_at DESC").First(&planModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: no plan for user %s", entity.ErrNotFound, userID)
		}
		return nil, err
	}
	return mapper.PlanModelToEntity(&planModel), nil
}

// UpdateMeal replaces the meal currently stored under recipeID.
func (r *PlanRepository) UpdateMeal(ctx context.Context, planID, recipeID string, meal *entity.MealSlot) error {
	res := r.DB.WithContext(ctx).Model(&model.PlanMeal{}).
		Where("plan_id = ? AND recipe_id = ?", planID, recipeID).
		Updates(map[string]interface{}{
			"recipe_id":   meal.RecipeID,
			"title":       meal.Title,
			"status":      string(meal.Status),
			"calories":    meal.Nutrition.Calories,
			"protein":     meal.Nutrition.Protein,
			"fat":         meal.Nutrition.Fat,
			"carbs":       meal.Nutrition.Carbs,
			"tags":        datatypes.NewJSONType(meal.Tags),
			"ingredients": datatypes.NewJSONType(meal.Ingredients),
			"steps":       datatypes.NewJSONType(meal.Steps),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: recipe %s in plan %s", entity.ErrNotFound, recipeID, planID)
	}
	return nil
}

// UpdateMealStatus sets the status of the meal with recipeID.
func (r *PlanRepository) UpdateMealStatus(ctx context.Context, recipeID string, status entity.MealStatus) error {
	res := r.DB.WithContext(ctx).Model(&model.PlanMeal{}).
		Where("recipe_id = ?", recipeID).
		Update("status", string(status))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: recipe %s", entity.ErrNotFound, recipeID)
	}
	return nil
}

// SetItemChecked writes the checked flag of one shopping item. Rows already
// holding the value are not touched, so the returned flag reports whether a
// write happened.
func (r *PlanRepository) SetItemChecked(ctx context.Context, planID string, position int, checked bool) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&model.ShoppingItem{}).
		Where("plan_id = ? AND position = ? AND checked <> ?", planID, position, checked).
		Update("checked", checked)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// FindMealByRecipeID locates a served meal across all plans of a user.
func (r *PlanRepository) FindMealByRecipeID(ctx context.Context, userID, recipeID string) (*entity.ServedMeal, error) {
	var mealModel model.PlanMeal
	err := r.DB.WithContext(ctx).
		Joins("JOIN meal_plans ON meal_plans.id = plan_meals.plan_id").
		Where("plan_meals.recipe_id = ? AND meal_plans.user_id = ?", recipeID, userID).
		First(&mealModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: recipe %s", entity.ErrNotFound, recipeID)
		}
		return nil, err
	}

	var dayModel model.PlanDay
	if err := r.DB.WithContext(ctx).First(&dayModel, mealModel.DayID).Error; err != nil {
		return nil, err
	}
	return &entity.ServedMeal{
		PlanID: mealModel.PlanID,
		Date:   dayModel.Date,
		Slot:   entity.SlotName(mealModel.Slot),
		Meal:   mapper.MealModelToEntity(&mealModel),
	}, nil
}
