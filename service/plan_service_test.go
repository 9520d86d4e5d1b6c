package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/akihiro4321/favefit-sub001/entity"
	"github.com/akihiro4321/favefit-sub001/llm"
	"github.com/akihiro4321/favefit-sub001/model"
	"github.com/akihiro4321/favefit-sub001/nutrition"
	"github.com/akihiro4321/favefit-sub001/repository"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeCompleter struct {
	replies  []string
	err      error
	messages [][]llm.Message
}

func (f *fakeCompleter) Chat(_ context.Context, messages []llm.Message, _ llm.Options) (string, error) {
	f.messages = append(f.messages, messages)
	if f.err != nil {
		return "", f.err
	}
	if len(f.replies) == 0 {
		return "", errors.New("no scripted reply")
	}
	reply := f.replies[0]
	if len(f.replies) > 1 {
		f.replies = f.replies[1:]
	}
	return reply, nil
}

func (f *fakeCompleter) lastPrompt() string {
	if len(f.messages) == 0 {
		return ""
	}
	msgs := f.messages[len(f.messages)-1]
	return msgs[len(msgs)-1].Content
}

type fakeMarket struct {
	items []string
	err   error
}

func (m *fakeMarket) CheapIngredients(context.Context, time.Time) ([]string, error) {
	return m.items, m.err
}

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

// candidateJSON renders a model answer with wrong dates and every day
// flagged as a cheat day.
func candidateJSON(days int) string {
	c := planCandidate{}
	for i := 0; i < days; i++ {
		d := entity.DayPlan{Date: "1999-01-01", IsCheatDay: true}
		for _, slot := range entity.Slots {
			*d.Meals.Slot(slot) = entity.MealSlot{
				Title:       fmt.Sprintf("%s-%d", slot, i),
				Nutrition:   entity.Nutrition{Calories: 600, Protein: 30, Fat: 20, Carbs: 70},
				Tags:        []string{"和食"},
				Ingredients: []string{"鶏むね肉 200g", "キャベツ 1/4個"},
				Steps:       []string{"焼く"},
			}
		}
		c.Days = append(c.Days, d)
	}
	c.ShoppingList = []entity.ShoppingListItem{{Ingredient: "鶏むね肉", Amount: "2.8kg"}}
	b, _ := json.Marshal(c)
	return string(b)
}

var planStart = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

func baseRequest() PlanRequest {
	return PlanRequest{
		Targets:           entity.NutritionTargets{TargetCalories: 2000, PFC: entity.PFC{Protein: 140, Fat: 55.6, Carbs: 234.9}},
		Learned:           entity.NewLearnedPreferenceProfile(),
		CheatDayFrequency: entity.CheatWeekly,
		StartDate:         planStart,
	}
}

func TestGeneratePlanCheatDays(t *testing.T) {
	tests := []struct {
		freq entity.CheatDayFrequency
		want map[int]bool
	}{
		{entity.CheatWeekly, map[int]bool{7: true, 14: true}},
		{entity.CheatBiweekly, map[int]bool{14: true}},
	}
	for _, tt := range tests {
		t.Run(string(tt.freq), func(t *testing.T) {
			svc := &planService{chat: &fakeCompleter{replies: []string{candidateJSON(PlanDays)}}}
			req := baseRequest()
			req.CheatDayFrequency = tt.freq

			result, err := svc.GeneratePlan(context.Background(), req)
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			for i, day := range result.Days {
				if day.IsCheatDay != tt.want[i+1] {
					t.Errorf("Day %d: expected cheat=%v, got %v", i+1, tt.want[i+1], day.IsCheatDay)
				}
				wantDate := planStart.AddDate(0, 0, i).Format(entity.DateLayout)
				if day.Date != wantDate {
					t.Errorf("Day %d: expected date %s, got %s", i+1, wantDate, day.Date)
				}
			}
		})
	}
}

func TestGeneratePlanOverlaysFixedMeals(t *testing.T) {
	svc := &planService{chat: &fakeCompleter{replies: []string{candidateJSON(PlanDays)}}}
	req := baseRequest()
	req.FixedMeals = nutrition.ResolveFixedMeals(entity.FixedMealTitles{Breakfast: "ゆで卵", Lunch: "謎の弁当"})

	result, err := svc.GeneratePlan(context.Background(), req)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	for i, day := range result.Days {
		if day.Meals.Breakfast.Title != "ゆで卵" || !day.Meals.Breakfast.HasTag(entity.TagFixed) {
			t.Fatalf("Day %d: expected fixed breakfast, got %+v", i+1, day.Meals.Breakfast)
		}
		if day.Meals.Breakfast.Nutrition.Calories != 80 {
			t.Errorf("Day %d: expected 80 kcal breakfast, got %v", i+1, day.Meals.Breakfast.Nutrition.Calories)
		}
		if !day.Meals.Lunch.HasTag(entity.TagUnresolved) || !day.Meals.Lunch.Nutrition.IsZero() {
			t.Errorf("Day %d: expected unresolved zero lunch, got %+v", i+1, day.Meals.Lunch)
		}
		if day.Meals.Dinner.Title != fmt.Sprintf("dinner-%d", i) {
			t.Errorf("Day %d: expected model dinner, got %q", i+1, day.Meals.Dinner.Title)
		}
		if day.Meals.Dinner.Status != entity.MealPlanned {
			t.Errorf("Day %d: expected planned status, got %q", i+1, day.Meals.Dinner.Status)
		}
	}

	result.Days[0].Meals.Breakfast.Tags[0] = "changed"
	if result.Days[1].Meals.Breakfast.Tags[0] != entity.TagFixed {
		t.Error("Expected fixed meals to be copied per day")
	}
}

func TestGeneratePlanShoppingListFromMeals(t *testing.T) {
	svc := &planService{chat: &fakeCompleter{replies: []string{candidateJSON(PlanDays)}}}
	result, err := svc.GeneratePlan(context.Background(), baseRequest())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(result.ShoppingList) != PlanDays*3*2 {
		t.Fatalf("Expected %d items, got %d", PlanDays*3*2, len(result.ShoppingList))
	}
	first := result.ShoppingList[0]
	if first.Ingredient != "鶏むね肉" || first.Amount != "200g" || first.Category != "meat" || first.Checked {
		t.Errorf("Unexpected first item %+v", first)
	}
}

func TestGeneratePlanRepairsWrappedResponse(t *testing.T) {
	wrapped := "Sure! Here is the plan.\n```json\n" + candidateJSON(PlanDays) + "\n```\nLet me know {if} you need changes."
	svc := &planService{chat: &fakeCompleter{replies: []string{wrapped}}}
	result, err := svc.GeneratePlan(context.Background(), baseRequest())
	if err != nil {
		t.Fatalf("Expected repair to succeed, got %v", err)
	}
	if result.Days[13].Meals.Lunch.Title != "lunch-13" {
		t.Errorf("Unexpected lunch %q", result.Days[13].Meals.Lunch.Title)
	}
}

func TestGeneratePlanFailures(t *testing.T) {
	tests := []struct {
		name  string
		chat  *fakeCompleter
		stage string
	}{
		{"malformed", &fakeCompleter{replies: []string{`{"days": [ {"date": `}}, "decode"},
		{"prose only", &fakeCompleter{replies: []string{"I could not build a plan today."}}, "decode"},
		{"too few days", &fakeCompleter{replies: []string{candidateJSON(13)}}, "validate"},
		{"boundary", &fakeCompleter{err: errors.New("timeout")}, "boundary"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &planService{chat: tt.chat}
			result, err := svc.GeneratePlan(context.Background(), baseRequest())
			if result != nil {
				t.Errorf("Expected no days, got %+v", result)
			}
			if !errors.Is(err, entity.ErrGenerationFailure) {
				t.Fatalf("Expected generation failure, got %v", err)
			}
			var genErr *entity.GenerationError
			if !errors.As(err, &genErr) || genErr.Stage != tt.stage {
				t.Errorf("Expected stage %q, got %v", tt.stage, err)
			}
		})
	}
}

func TestGeneratePlanRejectsUntitledMeal(t *testing.T) {
	raw := strings.Replace(candidateJSON(PlanDays), `"title":"dinner-3"`, `"title":""`, 1)
	svc := &planService{chat: &fakeCompleter{replies: []string{raw}}}
	if _, err := svc.GeneratePlan(context.Background(), baseRequest()); !errors.Is(err, entity.ErrGenerationFailure) {
		t.Errorf("Expected generation failure, got %v", err)
	}
}

func TestBuildPlanMessages(t *testing.T) {
	req := baseRequest()
	req.DislikedIngredients = []string{"セロリ", "パクチー"}
	req.FavoriteDigest = []string{"麻婆豆腐 (中華)"}
	req.CheapIngredients = []string{"さつまいも"}
	req.Learned.Cuisines["和食"] = 1.2
	req.Learned.Cuisines["洋食"] = -0.4
	req.FixedMeals = nutrition.ResolveFixedMeals(entity.FixedMealTitles{Breakfast: "納豆ご飯"})

	msgs := buildPlanMessages(req)
	prompt := msgs[len(msgs)-1].Content
	for _, want := range []string{"セロリ, パクチー", "麻婆豆腐 (中華)", "さつまいも", "PREFERRED CUISINES: 和食\n", "plan day 7 and 14", "breakfast: 納豆ご飯", "2026-10-19", "40%", "20%"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Expected prompt to contain %q", want)
		}
	}
	if strings.Contains(prompt, "洋食") {
		t.Error("Expected negatively scored cuisine to be left out")
	}
}

func TestDislikedIngredients(t *testing.T) {
	learned := entity.NewLearnedPreferenceProfile()
	learned.Ingredients["ピーマン"] = -1.0
	learned.Ingredients["なす"] = -0.9
	learned.Ingredients["鮭"] = 1.5
	learned.AvoidPatterns["辛すぎる"] = 0.5
	learned.AvoidPatterns["old"] = 0

	got := DislikedIngredients([]string{"セロリ", " ", "ピーマン"}, learned)
	want := []string{"セロリ", "ピーマン", "辛すぎる"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

type planFixture struct {
	svc      *planService
	chat     *fakeCompleter
	settings *repository.SettingsRepository
	plans    *repository.PlanRepository
	db       *gorm.DB
}

func newPlanFixture(t *testing.T, market CheapIngredientSource) *planFixture {
	db := newTestDB(t)
	chat := &fakeCompleter{replies: []string{candidateJSON(PlanDays)}}
	f := &planFixture{
		chat:     chat,
		settings: repository.NewSettingsRepository(db),
		plans:    repository.NewPlanRepository(db),
		db:       db,
	}
	f.svc = &planService{
		chat:      chat,
		settings:  f.settings,
		prefs:     repository.NewPreferenceRepository(db),
		plans:     f.plans,
		favorites: repository.NewFavoriteRepository(db),
		market:    market,
		now:       func() time.Time { return planStart },
	}
	return f
}

func saveTestSettings(t *testing.T, repo *repository.SettingsRepository, fixed entity.FixedMealTitles) {
	t.Helper()
	err := repo.SaveSettings(context.Background(), &entity.UserSettings{
		UserID:              "u1",
		Profile:             entity.UserProfile{Age: 30, Gender: entity.GenderMale, HeightCm: 175, WeightKg: 70, ActivityLevel: entity.ActivityModerate, Goal: entity.GoalLose},
		FixedMeals:          fixed,
		CheatDayFrequency:   entity.CheatBiweekly,
		DislikedIngredients: []string{"セロリ"},
	})
	if err != nil {
		t.Fatalf("failed to save settings: %v", err)
	}
}

func TestCreatePlanPersists(t *testing.T) {
	f := newPlanFixture(t, &fakeMarket{err: errors.New("market down")})
	saveTestSettings(t, f.settings, entity.FixedMealTitles{Breakfast: "ゆで卵"})
	ctx := context.Background()

	plan, err := f.svc.CreatePlan(ctx, "u1", CreatePlanOptions{})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if plan.StartDate != "2026-10-19" || plan.CheatDayFrequency != entity.CheatBiweekly {
		t.Errorf("Unexpected plan header %+v", plan)
	}
	if !strings.Contains(f.chat.lastPrompt(), "セロリ") {
		t.Error("Expected explicit dislike in the prompt")
	}
	if !strings.Contains(f.chat.lastPrompt(), "Calories: 2056 kcal") {
		t.Error("Expected computed calorie target in the prompt")
	}

	seen := map[string]bool{}
	for _, day := range plan.Days {
		for _, slot := range entity.Slots {
			id := day.Meals.Slot(slot).RecipeID
			if id == "" || seen[id] {
				t.Fatalf("Expected unique recipe IDs, got %q", id)
			}
			seen[id] = true
		}
	}

	stored, err := f.svc.GetPlan(ctx, "u1", plan.ID)
	if err != nil {
		t.Fatalf("Expected stored plan, got %v", err)
	}
	if len(stored.Days) != PlanDays || !stored.Days[13].IsCheatDay || stored.Days[6].IsCheatDay {
		t.Errorf("Unexpected stored cheat days")
	}
	if stored.Days[0].Meals.Breakfast.Title != "ゆで卵" {
		t.Errorf("Expected fixed breakfast stored, got %q", stored.Days[0].Meals.Breakfast.Title)
	}
	latest, err := f.svc.LatestPlan(ctx, "u1")
	if err != nil || latest.ID != plan.ID {
		t.Errorf("Expected latest plan %s, got %v", plan.ID, err)
	}
}

func TestCreatePlanRequiresSettings(t *testing.T) {
	f := newPlanFixture(t, nil)
	if _, err := f.svc.CreatePlan(context.Background(), "u1", CreatePlanOptions{}); !errors.Is(err, entity.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if len(f.chat.messages) != 0 {
		t.Error("Expected no model call without settings")
	}
}

func TestCreatePlanRejectsBadInput(t *testing.T) {
	f := newPlanFixture(t, nil)
	saveTestSettings(t, f.settings, entity.FixedMealTitles{})
	for _, opts := range []CreatePlanOptions{{StartDate: "19/10/2026"}, {CheatDayFrequency: "daily"}} {
		if _, err := f.svc.CreatePlan(context.Background(), "u1", opts); !errors.Is(err, entity.ErrInvalidInput) {
			t.Errorf("Expected ErrInvalidInput for %+v, got %v", opts, err)
		}
	}
}

func TestPlanActions(t *testing.T) {
	f := newPlanFixture(t, &fakeMarket{items: []string{"さつまいも"}})
	saveTestSettings(t, f.settings, entity.FixedMealTitles{Breakfast: "ゆで卵"})
	ctx := context.Background()

	plan, err := f.svc.CreatePlan(ctx, "u1", CreatePlanOptions{StartDate: "2026-11-02", CheatDayFrequency: entity.CheatWeekly})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	date := plan.Days[2].Date

	cooked, err := f.svc.MarkCooked(ctx, "u1", plan.ID, date, entity.Lunch)
	if err != nil || cooked.Status != entity.MealCooked {
		t.Fatalf("Expected cooked lunch, got %+v err=%v", cooked, err)
	}

	if _, err := f.svc.SwapMeal(ctx, "u1", plan.ID, date, entity.Breakfast); !errors.Is(err, entity.ErrInvalidInput) {
		t.Errorf("Expected fixed breakfast swap to be rejected, got %v", err)
	}
	calls := len(f.chat.messages)
	if _, err := f.svc.SwapMeal(ctx, "u1", plan.ID, date, entity.Lunch); !errors.Is(err, entity.ErrInvalidInput) {
		t.Errorf("Expected cooked lunch swap to be rejected, got %v", err)
	}
	if len(f.chat.messages) != calls {
		t.Error("Expected no model call for a rejected swap")
	}

	f.chat.replies = []string{`{"title": "鮭の塩焼き定食", "nutrition": {"calories": 620, "protein": 38, "fat": 18, "carbs": 72}, "ingredients": ["鮭 1切れ"]}`}
	swapped, err := f.svc.SwapMeal(ctx, "u1", plan.ID, date, entity.Dinner)
	if err != nil {
		t.Fatalf("Expected swap to succeed, got %v", err)
	}
	if swapped.Status != entity.MealSwapped || swapped.RecipeID == plan.Days[2].Meals.Dinner.RecipeID {
		t.Errorf("Unexpected swapped meal %+v", swapped)
	}
	prompt := f.chat.lastPrompt()
	if !strings.Contains(prompt, "dinner-2") || !strings.Contains(prompt, "dinner-1") || !strings.Contains(prompt, "dinner-3") {
		t.Errorf("Expected current and adjacent dinners to be avoided, got %q", prompt)
	}

	stored, _ := f.svc.GetPlan(ctx, "u1", plan.ID)
	if stored.Days[2].Meals.Lunch.Status != entity.MealCooked || stored.Days[2].Meals.Dinner.Title != "鮭の塩焼き定食" {
		t.Errorf("Expected actions persisted, got %+v", stored.Days[2].Meals)
	}

	if _, err := f.svc.MarkCooked(ctx, "u1", plan.ID, "2030-01-01", entity.Lunch); !errors.Is(err, entity.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for missing day, got %v", err)
	}
	if _, err := f.svc.MarkCooked(ctx, "u2", plan.ID, date, entity.Lunch); !errors.Is(err, entity.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for another user, got %v", err)
	}
}

func TestSwapMealUsesLearnedDislikesWithoutSettings(t *testing.T) {
	f := newPlanFixture(t, nil)
	saveTestSettings(t, f.settings, entity.FixedMealTitles{})
	ctx := context.Background()

	plan, err := f.svc.CreatePlan(ctx, "u1", CreatePlanOptions{})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := f.db.Where("user_id = ?", "u1").Delete(&model.UserSettings{}).Error; err != nil {
		t.Fatalf("Expected settings removed, got %v", err)
	}

	prefs := repository.NewPreferenceRepository(f.db)
	profile, err := prefs.LockProfile(ctx, "u1")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	profile.Ingredients["パクチー"] = -1.5
	if err := prefs.SaveProfile(ctx, "u1", profile); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	f.chat.replies = []string{`{"title": "親子丼", "nutrition": {"calories": 650, "protein": 35, "fat": 15, "carbs": 90}}`}
	if _, err := f.svc.SwapMeal(ctx, "u1", plan.ID, plan.Days[5].Date, entity.Lunch); err != nil {
		t.Fatalf("Expected swap to succeed, got %v", err)
	}
	if prompt := f.chat.lastPrompt(); !strings.Contains(prompt, "FORBIDDEN INGREDIENTS") || !strings.Contains(prompt, "パクチー") {
		t.Errorf("Expected learned dislike in the swap prompt, got %q", prompt)
	}
}

func TestSetShoppingItemCheckedPersistedIdempotent(t *testing.T) {
	f := newPlanFixture(t, nil)
	saveTestSettings(t, f.settings, entity.FixedMealTitles{})
	ctx := context.Background()

	plan, err := f.svc.CreatePlan(ctx, "u1", CreatePlanOptions{})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	item, err := f.svc.SetShoppingItemChecked(ctx, "u1", plan.ID, 3, true)
	if err != nil || !item.Checked {
		t.Fatalf("Expected checked item, got %+v err=%v", item, err)
	}
	once, _ := f.svc.GetPlan(ctx, "u1", plan.ID)

	if _, err := f.svc.SetShoppingItemChecked(ctx, "u1", plan.ID, 3, true); err != nil {
		t.Fatalf("Expected repeat to succeed, got %v", err)
	}
	twice, _ := f.svc.GetPlan(ctx, "u1", plan.ID)

	for i := range once.ShoppingList {
		if once.ShoppingList[i] != twice.ShoppingList[i] {
			t.Errorf("Item %d changed on repeat: %+v vs %+v", i, once.ShoppingList[i], twice.ShoppingList[i])
		}
		if once.ShoppingList[i].Checked != (i == 3) {
			t.Errorf("Item %d: unexpected checked=%v", i, once.ShoppingList[i].Checked)
		}
	}

	if _, err := f.svc.SetShoppingItemChecked(ctx, "u1", plan.ID, len(plan.ShoppingList), true); !errors.Is(err, entity.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for out of range index, got %v", err)
	}
}
