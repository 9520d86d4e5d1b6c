package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/akihiro4321/favefit-sub001/entity"
	"github.com/akihiro4321/favefit-sub001/llm"
	"github.com/akihiro4321/favefit-sub001/logger"
	"github.com/akihiro4321/favefit-sub001/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxDelta bounds the change a single feedback can make to one label.
const MaxDelta = 0.5

// avoidStep is added to an avoid pattern for each negative tag of a
// "never again" feedback.
const avoidStep = 0.5

// FeedbackAnalysis is what the model extracted from one feedback.
type FeedbackAnalysis struct {
	PositiveTags         []string               `json:"positiveTags"`
	NegativeTags         []string               `json:"negativeTags"`
	ExtractedPreferences entity.PreferenceDelta `json:"extractedPreferences"`

	// set when the object carried the key at all
	hasPreferences bool
}

// UnmarshalJSON records whether extractedPreferences was present so an
// off-schema object is not mistaken for an empty delta.
func (a *FeedbackAnalysis) UnmarshalJSON(data []byte) error {
	var raw struct {
		PositiveTags         []string                `json:"positiveTags"`
		NegativeTags         []string                `json:"negativeTags"`
		ExtractedPreferences *entity.PreferenceDelta `json:"extractedPreferences"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*a = FeedbackAnalysis{PositiveTags: raw.PositiveTags, NegativeTags: raw.NegativeTags}
	if raw.ExtractedPreferences != nil {
		a.ExtractedPreferences = *raw.ExtractedPreferences
		a.hasPreferences = true
	}
	return nil
}

func (a *FeedbackAnalysis) validate() error {
	if !a.hasPreferences {
		return errors.New("missing extractedPreferences")
	}
	return nil
}

// FeedbackResult is returned after a feedback has been learned from.
type FeedbackResult struct {
	Feedback *entity.FeedbackRecord          `json:"feedback"`
	Delta    entity.PreferenceDelta          `json:"delta"`
	Profile  *entity.LearnedPreferenceProfile `json:"profile"`
}

// LearningService turns feedback into preference updates.
type LearningService interface {
	Learn(ctx context.Context, recipe entity.MealSlot, feedback entity.FeedbackRecord) (entity.PreferenceDelta, *FeedbackAnalysis, error)
	SubmitFeedback(ctx context.Context, userID string, feedback entity.FeedbackRecord) (*FeedbackResult, error)
	LearnedProfile(ctx context.Context, userID string) (*entity.LearnedPreferenceProfile, error)
}

type learningService struct {
	db        *gorm.DB
	chat      Completer
	prefs     *repository.PreferenceRepository
	plans     *repository.PlanRepository
	feedbacks *repository.FeedbackRepository
}

// NewLearningService creates and returns a new LearningService.
func NewLearningService(
	db *gorm.DB,
	chat Completer,
	prefs *repository.PreferenceRepository,
	plans *repository.PlanRepository,
	feedbacks *repository.FeedbackRepository,
) LearningService {
	return &learningService{
		db:        db,
		chat:      chat,
		prefs:     prefs,
		plans:     plans,
		feedbacks: feedbacks,
	}
}

// Learn analyses one feedback and returns the clamped preference delta.
func (s *learningService) Learn(ctx context.Context, recipe entity.MealSlot, feedback entity.FeedbackRecord) (entity.PreferenceDelta, *FeedbackAnalysis, error) {
	raw, err := s.chat.Chat(ctx, buildFeedbackMessages(recipe, feedback), llm.Options{JSON: true, Temperature: 0.2, MaxTokens: 1000})
	if err != nil {
		return entity.PreferenceDelta{}, nil, &entity.GenerationError{Stage: "boundary", Err: err}
	}

	var analysis FeedbackAnalysis
	if err := llm.DecodeObject(raw, &analysis, analysis.validate); err != nil {
		stage := "validate"
		if errors.Is(err, llm.ErrNoObject) {
			stage = "decode"
		}
		return entity.PreferenceDelta{}, nil, &entity.GenerationError{Stage: stage, Err: err}
	}
	analysis.PositiveTags = cleanTags(analysis.PositiveTags)
	analysis.NegativeTags = cleanTags(analysis.NegativeTags)
	analysis.ExtractedPreferences = ClampDelta(analysis.ExtractedPreferences)
	return analysis.ExtractedPreferences, &analysis, nil
}

// ClampDelta bounds every score into [-MaxDelta, MaxDelta] and drops blank labels.
func ClampDelta(d entity.PreferenceDelta) entity.PreferenceDelta {
	return entity.PreferenceDelta{
		Cuisines:    clampScores(d.Cuisines),
		Flavors:     clampScores(d.Flavors),
		Ingredients: clampScores(d.Ingredients),
	}
}

func clampScores(in map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for label, v := range in {
		if label = strings.TrimSpace(label); label != "" {
			out[label] += v
		}
	}
	for label, v := range out {
		switch {
		case v > MaxDelta:
			out[label] = MaxDelta
		case v < -MaxDelta:
			out[label] = -MaxDelta
		}
	}
	return out
}

// MergeDelta adds a delta into the ledger and counts the feedback. There is
// no decay or normalization, so merges commute.
func MergeDelta(profile *entity.LearnedPreferenceProfile, delta entity.PreferenceDelta) {
	profile.EnsureMaps()
	for label, v := range delta.Cuisines {
		profile.Cuisines[label] += v
	}
	for label, v := range delta.Flavors {
		profile.Flavors[label] += v
	}
	for label, v := range delta.Ingredients {
		profile.Ingredients[label] += v
	}
	profile.TotalFeedbacks++
}

// SubmitFeedback learns from a feedback and persists the result. The model
// call happens before the transaction; the merge itself runs under a row
// lock so concurrent feedback for one user is applied one at a time.
func (s *learningService) SubmitFeedback(ctx context.Context, userID string, feedback entity.FeedbackRecord) (*FeedbackResult, error) {
	if err := feedback.Validate(); err != nil {
		return nil, err
	}
	served, err := s.plans.FindMealByRecipeID(ctx, userID, feedback.RecipeID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureNoFeedback(ctx, s.feedbacks, userID, feedback.RecipeID); err != nil {
		return nil, err
	}

	delta, analysis, err := s.Learn(ctx, served.Meal, feedback)
	if err != nil {
		return nil, err
	}

	feedback.ID = uuid.NewString()
	feedback.UserID = userID
	feedback.PositiveTags = analysis.PositiveTags
	feedback.NegativeTags = analysis.NegativeTags

	var profile *entity.LearnedPreferenceProfile
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		profile, err = s.prefs.WithTx(tx).LockProfile(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to lock preferences: %w", err)
		}
		// The lock serializes a user's feedback, so this catches a concurrent duplicate.
		if err := s.ensureNoFeedback(ctx, s.feedbacks.WithTx(tx), userID, feedback.RecipeID); err != nil {
			return err
		}
		MergeDelta(profile, delta)
		if feedback.RepeatPreference == entity.RepeatNever {
			for _, tag := range feedback.NegativeTags {
				profile.AvoidPatterns[tag] += avoidStep
			}
		}
		if err := s.prefs.WithTx(tx).SaveProfile(ctx, userID, profile); err != nil {
			return fmt.Errorf("failed to save preferences: %w", err)
		}
		if err := s.feedbacks.WithTx(tx).CreateFeedback(ctx, &feedback); err != nil {
			return fmt.Errorf("failed to save feedback: %w", err)
		}
		if feedback.Cooked && served.Meal.Status != entity.MealCooked {
			if err := s.plans.WithTx(tx).UpdateMealStatus(ctx, feedback.RecipeID, entity.MealCooked); err != nil {
				return fmt.Errorf("failed to mark meal cooked: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Feedback learned", "user_id", userID, "recipe_id", feedback.RecipeID, "total_feedbacks", profile.TotalFeedbacks)
	return &FeedbackResult{Feedback: &feedback, Delta: delta, Profile: profile}, nil
}

// ensureNoFeedback keeps feedback one-to-one with a served meal.
func (s *learningService) ensureNoFeedback(ctx context.Context, feedbacks *repository.FeedbackRepository, userID, recipeID string) error {
	exists, err := feedbacks.HasFeedback(ctx, userID, recipeID)
	if err != nil {
		return fmt.Errorf("failed to check feedback: %w", err)
	}
	if exists {
		return fmt.Errorf("%w: feedback for recipe %s already exists", entity.ErrConflict, recipeID)
	}
	return nil
}

func (s *learningService) LearnedProfile(ctx context.Context, userID string) (*entity.LearnedPreferenceProfile, error) {
	return s.prefs.GetProfile(ctx, userID)
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := map[string]bool{}
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}
