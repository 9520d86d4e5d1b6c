package nutrition

import (
	"testing"

	"github.com/akihiro4321/favefit-sub001/entity"
)

func TestResolveFixedMealsExact(t *testing.T) {
	got := ResolveFixedMeals(entity.FixedMealTitles{Breakfast: "ゆで卵"})

	meal, ok := got[entity.Breakfast]
	if !ok {
		t.Fatal("Expected breakfast to be resolved")
	}
	want := entity.Nutrition{Calories: 80, Protein: 7, Fat: 5, Carbs: 0.5}
	if meal.Nutrition != want {
		t.Errorf("Expected %+v, got %+v", want, meal.Nutrition)
	}
	if !meal.HasTag(entity.TagFixed) || meal.HasTag(entity.TagUnresolved) {
		t.Errorf("Expected only the fixed tag, got %v", meal.Tags)
	}
	if _, ok := got[entity.Lunch]; ok {
		t.Error("Expected lunch to be absent")
	}
}

func TestResolveFixedMealsPartial(t *testing.T) {
	got := ResolveFixedMeals(entity.FixedMealTitles{Lunch: "朝のプロテイン", Dinner: "プロテイン"})

	if got[entity.Lunch].Nutrition != got[entity.Dinner].Nutrition {
		t.Errorf("Expected partial match to equal exact match, got %+v vs %+v",
			got[entity.Lunch].Nutrition, got[entity.Dinner].Nutrition)
	}
	if got[entity.Lunch].Title != "朝のプロテイン" {
		t.Errorf("Expected the user's title to be kept, got %q", got[entity.Lunch].Title)
	}
}

func TestResolveFixedMealsUnmatched(t *testing.T) {
	got := ResolveFixedMeals(entity.FixedMealTitles{Dinner: "謎の料理"})

	meal := got[entity.Dinner]
	if !meal.Nutrition.IsZero() {
		t.Errorf("Expected zero nutrition, got %+v", meal.Nutrition)
	}
	if !meal.HasTag(entity.TagFixed) {
		t.Errorf("Expected fixed tag, got %v", meal.Tags)
	}
	degraded := got.Degraded()
	if len(degraded) != 1 || degraded[0] != entity.Dinner {
		t.Errorf("Expected dinner to be degraded, got %v", degraded)
	}
}

func TestResolveFixedMealsSkipsBlank(t *testing.T) {
	got := ResolveFixedMeals(entity.FixedMealTitles{Breakfast: "   "})
	if len(got) != 0 {
		t.Errorf("Expected no fixed meals, got %v", got)
	}
}

func TestLookupPrefersTableOrder(t *testing.T) {
	// "おにぎり" precedes "ご飯" in the table, so a title holding both picks おにぎり.
	n, ok := Lookup("ご飯のおにぎり")
	if !ok {
		t.Fatal("Expected a match")
	}
	if n != foodIndex["おにぎり"] {
		t.Errorf("Expected おにぎり nutrition, got %+v", n)
	}
}
