package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/akihiro4321/favefit-sub001/entity"
	"github.com/akihiro4321/favefit-sub001/model"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := db.AutoMigrate(model.All()...); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func samplePlan(userID string) *entity.MealPlan {
	plan := &entity.MealPlan{
		ID:                uuid.NewString(),
		UserID:            userID,
		StartDate:         "2026-10-19",
		CheatDayFrequency: entity.CheatWeekly,
	}
	start, _ := time.Parse(entity.DateLayout, plan.StartDate)
	for i := 0; i < 2; i++ {
		day := entity.DayPlan{Date: start.AddDate(0, 0, i).Format(entity.DateLayout)}
		for _, slot := range entity.Slots {
			*day.Meals.Slot(slot) = entity.MealSlot{
				RecipeID:    uuid.NewString(),
				Title:       fmt.Sprintf("%s %d", slot, i),
				Status:      entity.MealPlanned,
				Nutrition:   entity.Nutrition{Calories: 500, Protein: 30, Fat: 15, Carbs: 60},
				Tags:        []string{"和食"},
				Ingredients: []string{"鶏むね肉 200g"},
				Steps:       []string{"焼く"},
			}
		}
		plan.Days = append(plan.Days, day)
	}
	plan.ShoppingList = []entity.ShoppingListItem{
		{Ingredient: "鶏むね肉", Amount: "200g", Category: "meat"},
		{Ingredient: "キャベツ", Amount: "1/4個", Category: "vegetable"},
	}
	return plan
}

func TestSettingsRoundTripAndUpsert(t *testing.T) {
	db := newTestDB(t)
	repo := NewSettingsRepository(db)
	ctx := context.Background()

	if _, err := repo.GetSettings(ctx, "u1"); !errors.Is(err, entity.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}

	pace := 2.0
	settings := &entity.UserSettings{
		UserID:              "u1",
		Profile:             entity.UserProfile{Age: 30, Gender: entity.GenderMale, HeightCm: 175, WeightKg: 70, ActivityLevel: entity.ActivityModerate, Goal: entity.GoalLose},
		Preferences:         entity.NutritionPreferences{LossPaceKgPerMonth: &pace},
		FixedMeals:          entity.FixedMealTitles{Breakfast: "ゆで卵"},
		CheatDayFrequency:   entity.CheatWeekly,
		DislikedIngredients: []string{"セロリ"},
	}
	if err := repo.SaveSettings(ctx, settings); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	settings.CheatDayFrequency = entity.CheatBiweekly
	if err := repo.SaveSettings(ctx, settings); err != nil {
		t.Fatalf("Expected upsert to succeed, got %v", err)
	}

	got, err := repo.GetSettings(ctx, "u1")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got.CheatDayFrequency != entity.CheatBiweekly {
		t.Errorf("Expected biweekly, got %q", got.CheatDayFrequency)
	}
	if got.Preferences.LossPaceKgPerMonth == nil || *got.Preferences.LossPaceKgPerMonth != 2 {
		t.Errorf("Expected loss pace override to survive, got %+v", got.Preferences)
	}
	if got.FixedMeals.Breakfast != "ゆで卵" || len(got.DislikedIngredients) != 1 {
		t.Errorf("Unexpected settings %+v", got)
	}
}

func TestPreferenceLockAndSave(t *testing.T) {
	db := newTestDB(t)
	repo := NewPreferenceRepository(db)
	ctx := context.Background()

	empty, err := repo.GetProfile(ctx, "u1")
	if err != nil || empty.TotalFeedbacks != 0 || empty.Cuisines == nil {
		t.Fatalf("Expected empty profile, got %+v err=%v", empty, err)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		txRepo := repo.WithTx(tx)
		profile, err := txRepo.LockProfile(ctx, "u1")
		if err != nil {
			return err
		}
		profile.Cuisines["和食"] += 0.5
		profile.TotalFeedbacks++
		return txRepo.SaveProfile(ctx, "u1", profile)
	})
	if err != nil {
		t.Fatalf("Expected transaction to succeed, got %v", err)
	}

	got, err := repo.GetProfile(ctx, "u1")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got.Cuisines["和食"] != 0.5 || got.TotalFeedbacks != 1 {
		t.Errorf("Unexpected profile %+v", got)
	}
}

func TestPlanCreateGetLatest(t *testing.T) {
	db := newTestDB(t)
	repo := NewPlanRepository(db)
	ctx := context.Background()

	plan := samplePlan("u1")
	if err := repo.CreatePlan(ctx, plan); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	got, err := repo.GetPlan(ctx, "u1", plan.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(got.Days) != 2 || got.Days[1].Date != "2026-10-20" {
		t.Fatalf("Unexpected days %+v", got.Days)
	}
	if got.Days[0].Meals.Dinner.Title != "dinner 0" || got.Days[0].Meals.Dinner.Nutrition.Calories != 500 {
		t.Errorf("Unexpected dinner %+v", got.Days[0].Meals.Dinner)
	}
	if len(got.ShoppingList) != 2 || got.ShoppingList[1].Ingredient != "キャベツ" {
		t.Errorf("Unexpected shopping list %+v", got.ShoppingList)
	}

	if _, err := repo.GetPlan(ctx, "someone-else", plan.ID); !errors.Is(err, entity.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for another user, got %v", err)
	}

	latest, err := repo.LatestPlan(ctx, "u1")
	if err != nil || latest.ID != plan.ID {
		t.Errorf("Expected latest plan %s, got %+v err=%v", plan.ID, latest, err)
	}
	if _, err := repo.LatestPlan(ctx, "nobody"); !errors.Is(err, entity.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestPlanMealUpdatesAndLookup(t *testing.T) {
	db := newTestDB(t)
	repo := NewPlanRepository(db)
	ctx := context.Background()

	plan := samplePlan("u1")
	if err := repo.CreatePlan(ctx, plan); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	lunch := plan.Days[1].Meals.Lunch

	served, err := repo.FindMealByRecipeID(ctx, "u1", lunch.RecipeID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if served.Date != "2026-10-20" || served.Slot != entity.Lunch || served.Meal.Title != lunch.Title {
		t.Errorf("Unexpected served meal %+v", served)
	}
	if _, err := repo.FindMealByRecipeID(ctx, "u2", lunch.RecipeID); !errors.Is(err, entity.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for another user, got %v", err)
	}

	if err := repo.UpdateMealStatus(ctx, lunch.RecipeID, entity.MealCooked); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	swapped := entity.MealSlot{RecipeID: uuid.NewString(), Title: "鮭の塩焼き", Status: entity.MealSwapped, Ingredients: []string{"鮭 1切れ"}}
	if err := repo.UpdateMeal(ctx, plan.ID, plan.Days[0].Meals.Dinner.RecipeID, &swapped); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := repo.UpdateMeal(ctx, plan.ID, "missing", &swapped); !errors.Is(err, entity.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	got, err := repo.GetPlan(ctx, "u1", plan.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got.Days[1].Meals.Lunch.Status != entity.MealCooked {
		t.Errorf("Expected cooked, got %q", got.Days[1].Meals.Lunch.Status)
	}
	if got.Days[0].Meals.Dinner.Title != "鮭の塩焼き" || got.Days[0].Meals.Dinner.RecipeID != swapped.RecipeID {
		t.Errorf("Expected swapped dinner, got %+v", got.Days[0].Meals.Dinner)
	}
}

func TestSetItemCheckedWritesOnce(t *testing.T) {
	db := newTestDB(t)
	repo := NewPlanRepository(db)
	ctx := context.Background()

	plan := samplePlan("u1")
	if err := repo.CreatePlan(ctx, plan); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	changed, err := repo.SetItemChecked(ctx, plan.ID, 1, true)
	if err != nil || !changed {
		t.Fatalf("Expected a write, got changed=%v err=%v", changed, err)
	}
	changed, err = repo.SetItemChecked(ctx, plan.ID, 1, true)
	if err != nil || changed {
		t.Fatalf("Expected no second write, got changed=%v err=%v", changed, err)
	}

	got, _ := repo.GetPlan(ctx, "u1", plan.ID)
	if got.ShoppingList[0].Checked || !got.ShoppingList[1].Checked {
		t.Errorf("Unexpected checked state %+v", got.ShoppingList)
	}
}

func TestFeedbackAndFavorites(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	feedbacks := NewFeedbackRepository(db)
	record := &entity.FeedbackRecord{
		ID:               uuid.NewString(),
		UserID:           "u1",
		RecipeID:         uuid.NewString(),
		Ratings:          entity.Ratings{Overall: 5, Taste: 5, Ease: 4, Satisfaction: 5},
		RepeatPreference: entity.RepeatDefinitely,
		PositiveTags:     []string{"spicy"},
	}
	if err := feedbacks.CreateFeedback(ctx, record); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if has, err := feedbacks.HasFeedback(ctx, "u1", record.RecipeID); err != nil || !has {
		t.Errorf("Expected stored feedback to be found, got %v err=%v", has, err)
	}
	if has, _ := feedbacks.HasFeedback(ctx, "u2", record.RecipeID); has {
		t.Error("Expected no feedback for another user")
	}
	dup := *record
	dup.ID = uuid.NewString()
	if err := feedbacks.CreateFeedback(ctx, &dup); err == nil {
		t.Error("Expected unique index to reject a second feedback for the recipe")
	}

	list, err := feedbacks.ListFeedback(ctx, "u1", 10)
	if err != nil || len(list) != 1 || list[0].PositiveTags[0] != "spicy" {
		t.Errorf("Unexpected feedback list %+v err=%v", list, err)
	}

	favorites := NewFavoriteRepository(db)
	for _, title := range []string{"麻婆豆腐", "親子丼"} {
		fav := &entity.FavoriteRecipe{ID: uuid.NewString(), UserID: "u1", Title: title, Tags: []string{"中華"}}
		if err := favorites.CreateFavorite(ctx, fav); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
	}
	favs, err := favorites.ListFavorites(ctx, "u1", 1)
	if err != nil || len(favs) != 1 {
		t.Errorf("Expected limit to apply, got %+v err=%v", favs, err)
	}
	if none, _ := favorites.ListFavorites(ctx, "u2", 0); len(none) != 0 {
		t.Errorf("Expected no favorites for u2, got %+v", none)
	}
}
