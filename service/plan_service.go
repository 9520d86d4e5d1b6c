package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/akihiro4321/favefit-sub001/entity"
	"github.com/akihiro4321/favefit-sub001/llm"
	"github.com/akihiro4321/favefit-sub001/logger"
	"github.com/akihiro4321/favefit-sub001/nutrition"
	"github.com/akihiro4321/favefit-sub001/repository"
	"github.com/akihiro4321/favefit-sub001/shopping"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// PlanDays is the length of every generated plan.
const PlanDays = 14

// dislikeThreshold is the learned ingredient score at or below which an
// ingredient is treated as disliked.
const dislikeThreshold = -1.0

// Completer is the generative boundary used for plans and feedback analysis.
type Completer interface {
	Chat(ctx context.Context, messages []llm.Message, opts llm.Options) (string, error)
}

// CheapIngredientSource supplies the seasonal ingredient context.
type CheapIngredientSource interface {
	CheapIngredients(ctx context.Context, date time.Time) ([]string, error)
}

// PlanRequest is everything the plan generation needs.
type PlanRequest struct {
	Targets             entity.NutritionTargets
	Learned             *entity.LearnedPreferenceProfile
	DislikedIngredients []string
	FavoriteDigest      []string
	CheapIngredients    []string
	CheatDayFrequency   entity.CheatDayFrequency
	StartDate           time.Time
	FixedMeals          nutrition.FixedMeals
}

// PlanResult is a validated and normalized plan.
type PlanResult struct {
	Days         [PlanDays]entity.DayPlan
	ShoppingList []entity.ShoppingListItem
}

// CreatePlanOptions are the caller-chosen parameters of a new plan.
type CreatePlanOptions struct {
	StartDate         string                   `json:"startDate"`
	CheatDayFrequency entity.CheatDayFrequency `json:"cheatDayFrequency"`
}

// PlanService generates plans and applies the actions users take on them.
type PlanService interface {
	GeneratePlan(ctx context.Context, req PlanRequest) (*PlanResult, error)
	CreatePlan(ctx context.Context, userID string, opts CreatePlanOptions) (*entity.MealPlan, error)
	GetPlan(ctx context.Context, userID, planID string) (*entity.MealPlan, error)
	LatestPlan(ctx context.Context, userID string) (*entity.MealPlan, error)
	MarkCooked(ctx context.Context, userID, planID, date string, slot entity.SlotName) (*entity.MealSlot, error)
	SwapMeal(ctx context.Context, userID, planID, date string, slot entity.SlotName) (*entity.MealSlot, error)
	SetShoppingItemChecked(ctx context.Context, userID, planID string, index int, checked bool) (*entity.ShoppingListItem, error)
}

type planService struct {
	chat      Completer
	settings  *repository.SettingsRepository
	prefs     *repository.PreferenceRepository
	plans     *repository.PlanRepository
	favorites *repository.FavoriteRepository
	market    CheapIngredientSource
	now       func() time.Time
}

// NewPlanService creates and returns a new PlanService.
func NewPlanService(
	chat Completer,
	settings *repository.SettingsRepository,
	prefs *repository.PreferenceRepository,
	plans *repository.PlanRepository,
	favorites *repository.FavoriteRepository,
	market CheapIngredientSource,
) PlanService {
	return &planService{
		chat:      chat,
		settings:  settings,
		prefs:     prefs,
		plans:     plans,
		favorites: favorites,
		market:    market,
		now:       time.Now,
	}
}

type planCandidate struct {
	Days         []entity.DayPlan          `json:"days"`
	ShoppingList []entity.ShoppingListItem `json:"shoppingList"`
}

// GeneratePlan asks the model for a plan, validates it and normalizes it.
// Nothing is fabricated when the response is unusable.
func (s *planService) GeneratePlan(ctx context.Context, req PlanRequest) (*PlanResult, error) {
	raw, err := s.chat.Chat(ctx, buildPlanMessages(req), llm.Options{JSON: true})
	if err != nil {
		return nil, &entity.GenerationError{Stage: "boundary", Err: err}
	}

	var candidate planCandidate
	err = llm.DecodeObject(raw, &candidate, func() error {
		return validateCandidate(&candidate, req.FixedMeals)
	})
	if err != nil {
		stage := "validate"
		if errors.Is(err, llm.ErrNoObject) {
			stage = "decode"
		}
		return nil, &entity.GenerationError{Stage: stage, Err: err}
	}

	result := &PlanResult{}
	copy(result.Days[:], candidate.Days)
	for i := range result.Days {
		normalizeDay(&result.Days[i], i, req)
	}
	result.ShoppingList = shopping.Aggregate(shopping.FromDays(result.Days[:]))
	return result, nil
}

// validateCandidate checks the structural contract of a model plan. Slots
// that will be overwritten by a fixed meal may be left empty.
func validateCandidate(c *planCandidate, fixed nutrition.FixedMeals) error {
	if len(c.Days) != PlanDays {
		return fmt.Errorf("expected %d days, got %d", PlanDays, len(c.Days))
	}
	for i := range c.Days {
		for _, slot := range entity.Slots {
			meal := c.Days[i].Meals.Slot(slot)
			if _, locked := fixed[slot]; locked {
				continue
			}
			if strings.TrimSpace(meal.Title) == "" {
				return fmt.Errorf("day %d %s has no title", i+1, slot)
			}
			n := meal.Nutrition
			if n.Calories < 0 || n.Protein < 0 || n.Fat < 0 || n.Carbs < 0 {
				return fmt.Errorf("day %d %s has negative nutrition", i+1, slot)
			}
			if meal.Status != "" && !meal.Status.Valid() {
				return fmt.Errorf("day %d %s has unknown status %q", i+1, slot, meal.Status)
			}
		}
	}
	for i, item := range c.ShoppingList {
		if strings.TrimSpace(item.Ingredient) == "" {
			return fmt.Errorf("shopping item %d has no ingredient", i)
		}
	}
	return nil
}

// normalizeDay stamps the calendar date and cheat flag, overlays fixed meals
// and fills defaults.
func normalizeDay(day *entity.DayPlan, index int, req PlanRequest) {
	day.Date = req.StartDate.AddDate(0, 0, index).Format(entity.DateLayout)
	day.IsCheatDay = IsCheatDay(req.CheatDayFrequency, index)
	for _, slot := range entity.Slots {
		meal := day.Meals.Slot(slot)
		if fixedMeal, ok := req.FixedMeals[slot]; ok {
			*meal = fixedMeal.Clone()
		}
		// A fresh plan has nothing cooked or swapped yet.
		meal.Status = entity.MealPlanned
		if meal.Tags == nil {
			meal.Tags = []string{}
		}
		if meal.Ingredients == nil {
			meal.Ingredients = []string{}
		}
		if meal.Steps == nil {
			meal.Steps = []string{}
		}
	}
}

// IsCheatDay reports whether the zero-based day index is a cheat day.
func IsCheatDay(freq entity.CheatDayFrequency, index int) bool {
	period := 7
	if freq == entity.CheatBiweekly {
		period = 14
	}
	return (index+1)%period == 0
}

func cheatDayNumbers(freq entity.CheatDayFrequency) []int {
	var days []int
	for i := 0; i < PlanDays; i++ {
		if IsCheatDay(freq, i) {
			days = append(days, i+1)
		}
	}
	return days
}

// DislikedIngredients merges explicit dislikes with what feedback taught.
func DislikedIngredients(explicit []string, learned *entity.LearnedPreferenceProfile) []string {
	seen := map[string]bool{}
	var out []string
	add := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		out = append(out, name)
	}
	for _, name := range explicit {
		add(name)
	}
	if learned != nil {
		for _, name := range sortedKeys(learned.Ingredients) {
			if learned.Ingredients[name] <= dislikeThreshold {
				add(name)
			}
		}
		for _, name := range sortedKeys(learned.AvoidPatterns) {
			if learned.AvoidPatterns[name] > 0 {
				add(name)
			}
		}
	}
	return out
}

func favoriteDigest(favorites []*entity.FavoriteRecipe) []string {
	digest := make([]string, 0, len(favorites))
	for _, f := range favorites {
		if len(f.Tags) > 0 {
			digest = append(digest, fmt.Sprintf("%s (%s)", f.Title, strings.Join(f.Tags, "/")))
		} else {
			digest = append(digest, f.Title)
		}
	}
	return digest
}

func (s *planService) CreatePlan(ctx context.Context, userID string, opts CreatePlanOptions) (*entity.MealPlan, error) {
	start, err := s.startDate(opts.StartDate)
	if err != nil {
		return nil, err
	}

	var (
		settings  *entity.UserSettings
		learned   *entity.LearnedPreferenceProfile
		favorites []*entity.FavoriteRecipe
		cheap     []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		settings, err = s.settings.GetSettings(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		learned, err = s.prefs.GetProfile(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		favorites, err = s.favorites.ListFavorites(gctx, userID, 20)
		return err
	})
	if s.market != nil {
		g.Go(func() error {
			items, err := s.market.CheapIngredients(gctx, start)
			if err != nil {
				logger.Warn("Cheap ingredient lookup failed, continuing without it", "user_id", userID, "error", err)
				return nil
			}
			cheap = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load planning context: %w", err)
	}

	freq := opts.CheatDayFrequency
	if freq == "" {
		freq = settings.CheatDayFrequency
	}
	freq, err = entity.ParseCheatDayFrequency(string(freq))
	if err != nil {
		return nil, err
	}

	fixed := nutrition.ResolveFixedMeals(settings.FixedMeals)
	if degraded := fixed.Degraded(); len(degraded) > 0 {
		logger.Warn("Fixed meals could not be resolved", "user_id", userID, "slots", degraded)
	}

	req := PlanRequest{
		Targets:             nutrition.Compute(settings.Profile, &settings.Preferences),
		Learned:             learned,
		DislikedIngredients: DislikedIngredients(settings.DislikedIngredients, learned),
		FavoriteDigest:      favoriteDigest(favorites),
		CheapIngredients:    cheap,
		CheatDayFrequency:   freq,
		StartDate:           start,
		FixedMeals:          fixed,
	}
	result, err := s.GeneratePlan(ctx, req)
	if err != nil {
		return nil, err
	}

	plan := &entity.MealPlan{
		ID:                uuid.NewString(),
		UserID:            userID,
		StartDate:         start.Format(entity.DateLayout),
		CheatDayFrequency: freq,
		Days:              result.Days[:],
		ShoppingList:      result.ShoppingList,
	}
	for i := range plan.Days {
		for _, slot := range entity.Slots {
			plan.Days[i].Meals.Slot(slot).RecipeID = uuid.NewString()
		}
	}

	if err := s.plans.CreatePlan(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to save plan: %w", err)
	}
	logger.Info("Meal plan created", "user_id", userID, "plan_id", plan.ID, "start_date", plan.StartDate)
	return plan, nil
}

func (s *planService) startDate(value string) (time.Time, error) {
	if value == "" {
		now := s.now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	start, err := time.Parse(entity.DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: startDate must be YYYY-MM-DD", entity.ErrInvalidInput)
	}
	return start, nil
}

func (s *planService) GetPlan(ctx context.Context, userID, planID string) (*entity.MealPlan, error) {
	return s.plans.GetPlan(ctx, userID, planID)
}

func (s *planService) LatestPlan(ctx context.Context, userID string) (*entity.MealPlan, error) {
	return s.plans.LatestPlan(ctx, userID)
}

func (s *planService) findSlot(ctx context.Context, userID, planID, date string, slot entity.SlotName) (*entity.MealPlan, *entity.DayPlan, *entity.MealSlot, error) {
	plan, err := s.plans.GetPlan(ctx, userID, planID)
	if err != nil {
		return nil, nil, nil, err
	}
	day := plan.Day(date)
	if day == nil {
		return nil, nil, nil, fmt.Errorf("%w: day %s in plan %s", entity.ErrNotFound, date, planID)
	}
	meal := day.Meals.Slot(slot)
	if meal == nil {
		return nil, nil, nil, fmt.Errorf("%w: meal slot %q", entity.ErrNotFound, slot)
	}
	return plan, day, meal, nil
}

// MarkCooked records that the user cooked the meal.
func (s *planService) MarkCooked(ctx context.Context, userID, planID, date string, slot entity.SlotName) (*entity.MealSlot, error) {
	_, _, meal, err := s.findSlot(ctx, userID, planID, date, slot)
	if err != nil {
		return nil, err
	}
	if meal.Status == entity.MealCooked {
		return meal, nil
	}
	if err := s.plans.UpdateMealStatus(ctx, meal.RecipeID, entity.MealCooked); err != nil {
		return nil, fmt.Errorf("failed to mark meal cooked: %w", err)
	}
	meal.Status = entity.MealCooked
	return meal, nil
}

type swapCandidate struct {
	Title       string           `json:"title"`
	Nutrition   entity.Nutrition `json:"nutrition"`
	Tags        []string         `json:"tags"`
	Ingredients []string         `json:"ingredients"`
	Steps       []string         `json:"steps"`
}

// SwapMeal replaces one planned meal with a new recipe of similar energy.
// Fixed slots and meals already cooked cannot be swapped.
func (s *planService) SwapMeal(ctx context.Context, userID, planID, date string, slot entity.SlotName) (*entity.MealSlot, error) {
	plan, day, meal, err := s.findSlot(ctx, userID, planID, date, slot)
	if err != nil {
		return nil, err
	}
	if meal.HasTag(entity.TagFixed) {
		return nil, fmt.Errorf("%w: %s is a fixed meal", entity.ErrInvalidInput, slot)
	}
	if meal.Status == entity.MealCooked {
		return nil, fmt.Errorf("%w: %s on %s was already cooked", entity.ErrInvalidInput, slot, date)
	}

	var explicit []string
	settings, err := s.settings.GetSettings(ctx, userID)
	switch {
	case err == nil:
		explicit = settings.DislikedIngredients
	case !errors.Is(err, entity.ErrNotFound):
		return nil, err
	}
	learned, err := s.prefs.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	disliked := DislikedIngredients(explicit, learned)

	avoid := []string{meal.Title}
	for _, other := range []string{adjacentTitle(plan, day.Date, -1, slot), adjacentTitle(plan, day.Date, 1, slot)} {
		if other != "" {
			avoid = append(avoid, other)
		}
	}

	raw, err := s.chat.Chat(ctx, buildSwapMessages(*meal, slot, avoid, disliked), llm.Options{JSON: true})
	if err != nil {
		return nil, &entity.GenerationError{Stage: "boundary", Err: err}
	}
	var candidate swapCandidate
	err = llm.DecodeObject(raw, &candidate, func() error {
		if strings.TrimSpace(candidate.Title) == "" {
			return errors.New("replacement has no title")
		}
		n := candidate.Nutrition
		if n.Calories < 0 || n.Protein < 0 || n.Fat < 0 || n.Carbs < 0 {
			return errors.New("replacement has negative nutrition")
		}
		return nil
	})
	if err != nil {
		return nil, &entity.GenerationError{Stage: "swap", Err: err}
	}

	replacement := entity.MealSlot{
		RecipeID:    uuid.NewString(),
		Title:       candidate.Title,
		Status:      entity.MealSwapped,
		Nutrition:   candidate.Nutrition,
		Tags:        nonNil(candidate.Tags),
		Ingredients: nonNil(candidate.Ingredients),
		Steps:       nonNil(candidate.Steps),
	}
	if err := s.plans.UpdateMeal(ctx, planID, meal.RecipeID, &replacement); err != nil {
		return nil, fmt.Errorf("failed to swap meal: %w", err)
	}
	logger.Info("Meal swapped", "plan_id", planID, "date", date, "slot", slot, "title", replacement.Title)
	return &replacement, nil
}

// SetShoppingItemChecked toggles one shopping item. The database is only
// written when the flag actually changes.
func (s *planService) SetShoppingItemChecked(ctx context.Context, userID, planID string, index int, checked bool) (*entity.ShoppingListItem, error) {
	plan, err := s.plans.GetPlan(ctx, userID, planID)
	if err != nil {
		return nil, err
	}
	changed, err := shopping.SetChecked(plan.ShoppingList, index, checked)
	if err != nil {
		return nil, err
	}
	if changed {
		if _, err := s.plans.SetItemChecked(ctx, planID, index, checked); err != nil {
			return nil, fmt.Errorf("failed to update shopping item: %w", err)
		}
	}
	item := plan.ShoppingList[index]
	return &item, nil
}

// adjacentTitle returns the title in the same slot offset days away, if any.
func adjacentTitle(plan *entity.MealPlan, date string, offset int, slot entity.SlotName) string {
	d, err := time.Parse(entity.DateLayout, date)
	if err != nil {
		return ""
	}
	day := plan.Day(d.AddDate(0, 0, offset).Format(entity.DateLayout))
	if day == nil {
		return ""
	}
	return day.Meals.Slot(slot).Title
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
