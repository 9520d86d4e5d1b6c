package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/akihiro4321/favefit-sub001/entity"
	"github.com/akihiro4321/favefit-sub001/llm"
)

const planSystemPrompt = "You are a registered dietitian and home cooking expert in Japan. " +
	"You design practical two-week meal plans and always answer with a single JSON object and nothing else."

const feedbackSystemPrompt = "You analyse how a user felt about a recipe they ate and extract their food preferences. " +
	"You always answer with a single JSON object and nothing else."

// buildPlanMessages assembles the instructions for a 14-day plan.
func buildPlanMessages(req PlanRequest) []llm.Message {
	var b strings.Builder

	b.WriteString("Create a meal plan for 14 consecutive days with breakfast, lunch and dinner every day.\n\n")

	b.WriteString("DAILY TARGETS:\n")
	fmt.Fprintf(&b, "- Calories: %.0f kcal\n", req.Targets.TargetCalories)
	fmt.Fprintf(&b, "- Protein: %.1fg\n", req.Targets.PFC.Protein)
	fmt.Fprintf(&b, "- Fat: %.1fg\n", req.Targets.PFC.Fat)
	fmt.Fprintf(&b, "- Carbs: %.1fg\n\n", req.Targets.PFC.Carbs)

	b.WriteString("RECIPE MIX:\n")
	b.WriteString("- About 40% of meals should be based on or inspired by the user's favorites.\n")
	b.WriteString("- About 40% should be new recipes the user has not had before.\n")
	b.WriteString("- About 20% should make use of the cheap ingredients listed below.\n")
	b.WriteString("- Never serve the identical recipe on two consecutive days.\n\n")

	if len(req.FavoriteDigest) > 0 {
		fmt.Fprintf(&b, "FAVORITES: %s\n\n", strings.Join(req.FavoriteDigest, ", "))
	}
	if len(req.CheapIngredients) > 0 {
		fmt.Fprintf(&b, "CHEAP INGREDIENTS THIS SEASON: %s\n\n", strings.Join(req.CheapIngredients, ", "))
	}
	if req.Learned != nil {
		if top := topLabels(req.Learned.Cuisines, 5); len(top) > 0 {
			fmt.Fprintf(&b, "PREFERRED CUISINES: %s\n", strings.Join(top, ", "))
		}
		if top := topLabels(req.Learned.Flavors, 5); len(top) > 0 {
			fmt.Fprintf(&b, "PREFERRED FLAVORS: %s\n", strings.Join(top, ", "))
		}
		b.WriteString("\n")
	}

	if len(req.DislikedIngredients) > 0 {
		fmt.Fprintf(&b, "FORBIDDEN INGREDIENTS (never use, not even as seasoning): %s\n\n", strings.Join(req.DislikedIngredients, ", "))
	}

	b.WriteString("CHEAT DAYS:\n")
	days := cheatDayNumbers(req.CheatDayFrequency)
	fmt.Fprintf(&b, "- Cheat days fall on plan day %s. Meals there may exceed the calorie target.\n\n", joinInts(days))

	if len(req.FixedMeals) > 0 {
		b.WriteString("LOCKED MEALS (use exactly this title for the slot on every day):\n")
		for _, slot := range entity.Slots {
			if meal, ok := req.FixedMeals[slot]; ok {
				fmt.Fprintf(&b, "- %s: %s\n", slot, meal.Title)
			}
		}
		b.WriteString("Plan the other meals so the day still fits the targets.\n\n")
	}

	b.WriteString("OUTPUT FORMAT:\n")
	fmt.Fprintf(&b, "Start on %s. Respond with JSON shaped like:\n", req.StartDate.Format(entity.DateLayout))
	b.WriteString(`{"days": [{"date": "YYYY-MM-DD", "isCheatDay": false, "meals": {` +
		`"breakfast": {"title": "", "status": "planned", "nutrition": {"calories": 0, "protein": 0, "fat": 0, "carbs": 0}, ` +
		`"tags": [], "ingredients": ["鶏むね肉 200g"], "steps": []}, "lunch": {...}, "dinner": {...}}}], ` +
		`"shoppingList": [{"ingredient": "", "amount": "", "category": "vegetable|meat|fish|seasoning|other"}]}`)
	b.WriteString("\nEach ingredient string is the name followed by a space and the amount.")

	return []llm.Message{
		{Role: "system", Content: planSystemPrompt},
		{Role: "user", Content: b.String()},
	}
}

// buildFeedbackMessages assembles the preference extraction instructions.
func buildFeedbackMessages(recipe entity.MealSlot, feedback entity.FeedbackRecord) []llm.Message {
	var b strings.Builder

	b.WriteString("RECIPE:\n")
	fmt.Fprintf(&b, "- Title: %s\n", recipe.Title)
	if len(recipe.Tags) > 0 {
		fmt.Fprintf(&b, "- Tags: %s\n", strings.Join(recipe.Tags, ", "))
	}
	if len(recipe.Ingredients) > 0 {
		fmt.Fprintf(&b, "- Ingredients: %s\n", strings.Join(recipe.Ingredients, ", "))
	}
	b.WriteString("\n")

	b.WriteString("FEEDBACK:\n")
	fmt.Fprintf(&b, "- Cooked: %t\n", feedback.Cooked)
	fmt.Fprintf(&b, "- Overall: %d/5, Taste: %d/5, Ease: %d/5, Satisfaction: %d/5\n",
		feedback.Ratings.Overall, feedback.Ratings.Taste, feedback.Ratings.Ease, feedback.Ratings.Satisfaction)
	fmt.Fprintf(&b, "- Would eat again: %s\n", feedback.RepeatPreference)
	if c := strings.TrimSpace(feedback.Comment); c != "" {
		fmt.Fprintf(&b, "- Comment: %s\n", c)
	}
	b.WriteString("\n")

	b.WriteString("SCORING RULES:\n")
	b.WriteString("- Scores are between -0.5 and 0.5 per label.\n")
	b.WriteString("- Overall 4-5 with a comment that agrees: move toward +0.5.\n")
	b.WriteString("- Overall 1-2 with a comment that agrees: move toward -0.5.\n")
	b.WriteString("- Otherwise keep scores modest.\n\n")

	b.WriteString("OUTPUT FORMAT:\n")
	b.WriteString(`{"positiveTags": [], "negativeTags": [], "extractedPreferences": ` +
		`{"cuisines": {"label": 0.0}, "flavors": {"label": 0.0}, "ingredients": {"label": 0.0}}}`)

	return []llm.Message{
		{Role: "system", Content: feedbackSystemPrompt},
		{Role: "user", Content: b.String()},
	}
}

// topLabels returns up to n labels with a positive score, best first.
func topLabels(scores map[string]float64, n int) []string {
	labels := make([]string, 0, len(scores))
	for label, score := range scores {
		if score > 0 {
			labels = append(labels, label)
		}
	}
	sort.Slice(labels, func(i, j int) bool {
		if scores[labels[i]] != scores[labels[j]] {
			return scores[labels[i]] > scores[labels[j]]
		}
		return labels[i] < labels[j]
	})
	if len(labels) > n {
		labels = labels[:n]
	}
	return labels
}

func joinInts(v []int) string {
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = fmt.Sprint(n)
	}
	return strings.Join(parts, " and ")
}

// buildSwapMessages asks for a single replacement recipe.
func buildSwapMessages(current entity.MealSlot, slot entity.SlotName, avoid, disliked []string) []llm.Message {
	var b strings.Builder

	fmt.Fprintf(&b, "Suggest one %s recipe to replace \"%s\".\n\n", slot, current.Title)
	b.WriteString("TARGET:\n")
	fmt.Fprintf(&b, "- About %.0f kcal, protein %.1fg, fat %.1fg, carbs %.1fg\n\n",
		current.Nutrition.Calories, current.Nutrition.Protein, current.Nutrition.Fat, current.Nutrition.Carbs)
	if len(avoid) > 0 {
		fmt.Fprintf(&b, "DO NOT SUGGEST: %s\n\n", strings.Join(avoid, ", "))
	}
	if len(disliked) > 0 {
		fmt.Fprintf(&b, "FORBIDDEN INGREDIENTS (never use, not even as seasoning): %s\n\n", strings.Join(disliked, ", "))
	}
	b.WriteString("OUTPUT FORMAT:\n")
	b.WriteString(`{"title": "", "nutrition": {"calories": 0, "protein": 0, "fat": 0, "carbs": 0}, ` +
		`"tags": [], "ingredients": ["鶏むね肉 200g"], "steps": []}`)

	return []llm.Message{
		{Role: "system", Content: planSystemPrompt},
		{Role: "user", Content: b.String()},
	}
}
