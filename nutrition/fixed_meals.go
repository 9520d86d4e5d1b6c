package nutrition

import (
	"strings"

	"github.com/akihiro4321/favefit-sub001/entity"
)

// FixedMeals maps each locked slot to its resolved meal. Slots the user did
// not pin are absent.
type FixedMeals map[entity.SlotName]entity.MealSlot

// Degraded lists the slots whose title could not be matched to the food table.
func (f FixedMeals) Degraded() []entity.SlotName {
	var out []entity.SlotName
	for _, slot := range entity.Slots {
		if meal, ok := f[slot]; ok && meal.HasTag(entity.TagUnresolved) {
			out = append(out, slot)
		}
	}
	return out
}

// ResolveFixedMeals annotates pinned titles with nutrition. Unknown titles
// become zero-nutrition placeholders; resolution itself never fails.
func ResolveFixedMeals(titles entity.FixedMealTitles) FixedMeals {
	out := FixedMeals{}
	for _, slot := range entity.Slots {
		title := strings.TrimSpace(titles.Title(slot))
		if title == "" {
			continue
		}
		out[slot] = resolveTitle(title)
	}
	return out
}

func resolveTitle(title string) entity.MealSlot {
	meal := entity.MealSlot{
		Title:       title,
		Status:      entity.MealPlanned,
		Tags:        []string{entity.TagFixed},
		Ingredients: []string{},
		Steps:       []string{},
	}
	n, ok := Lookup(title)
	if !ok {
		meal.Tags = append(meal.Tags, entity.TagUnresolved)
		return meal
	}
	meal.Nutrition = n
	return meal
}

func containsName(title, name string) bool {
	return strings.Contains(title, name)
}
