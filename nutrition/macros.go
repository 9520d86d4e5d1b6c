package nutrition

import (
	"math"

	"github.com/akihiro4321/favefit-sub001/entity"
)

const (
	kcalPerKg        = 7700.0
	daysPerMonth     = 30.0
	proteinPerKg     = 2.0
	kcalPerGramProt  = 4.0
	kcalPerGramCarb  = 4.0
	kcalPerGramFat   = 9.0
	defaultLossKcal  = -500.0
	defaultGainKcal  = 300.0
	defaultMaintKcal = 0.0
)

// activityMultipliers maps activity level to its TDEE multiplier.
var activityMultipliers = map[entity.ActivityLevel]float64{
	entity.ActivitySedentary:  1.2,
	entity.ActivityLight:      1.375,
	entity.ActivityModerate:   1.55,
	entity.ActivityActive:     1.725,
	entity.ActivityVeryActive: 1.9,
}

// fatShare is the share of the calorie target that comes from fat.
var fatShare = map[entity.MacroPreset]float64{
	entity.PresetBalanced:    0.25,
	entity.PresetLowFat:      0.15,
	entity.PresetHighProtein: 0.20,
	entity.PresetLowCarb:     0.35,
}

var gainStrategyMultipliers = map[entity.GainStrategy]float64{
	entity.GainLean:       0.75,
	entity.GainStandard:   1.0,
	entity.GainAggressive: 1.25,
}

// BMR computes the basal metabolic rate with the Mifflin-St Jeor equation.
func BMR(p entity.UserProfile) float64 {
	bmr := 10*p.WeightKg + 6.25*p.HeightCm - 5*float64(p.Age)
	if p.Gender == entity.GenderMale {
		return bmr + 5
	}
	return bmr - 161
}

// TDEE scales BMR by the activity multiplier.
func TDEE(bmr float64, level entity.ActivityLevel) float64 {
	mult, ok := activityMultipliers[level]
	if !ok {
		mult = activityMultipliers[entity.ActivitySedentary]
	}
	return bmr * mult
}

// PaceToDailyKcal converts a body-mass change per month into kcal per day.
func PaceToDailyKcal(kgPerMonth float64) float64 {
	return kgPerMonth * kcalPerKg / daysPerMonth
}

// GoalAdjustment returns the kcal/day added to TDEE for the goal. Overrides
// in prefs only apply when they belong to the profile's goal.
func GoalAdjustment(goal entity.Goal, prefs *entity.NutritionPreferences) float64 {
	switch goal {
	case entity.GoalLose:
		if prefs != nil && prefs.LossPaceKgPerMonth != nil {
			return -PaceToDailyKcal(*prefs.LossPaceKgPerMonth)
		}
		return defaultLossKcal
	case entity.GoalGain:
		adjust := defaultGainKcal
		if prefs != nil && prefs.GainPaceKgPerMonth != nil {
			adjust = PaceToDailyKcal(*prefs.GainPaceKgPerMonth)
		}
		mult := 1.0
		if prefs != nil {
			if m, ok := gainStrategyMultipliers[prefs.GainStrategy]; ok {
				mult = m
			}
		}
		return adjust * mult
	default:
		if prefs != nil && prefs.MaintenanceAdjustKcalPerDay != nil {
			return *prefs.MaintenanceAdjustKcalPerDay
		}
		return defaultMaintKcal
	}
}

// Split derives the PFC grams for a calorie target. Carbs absorb whatever
// energy is left after protein and fat. Neither fat nor carbs go below zero.
func Split(targetCalories, weightKg float64, preset entity.MacroPreset) entity.PFC {
	share, ok := fatShare[preset]
	if !ok {
		share = fatShare[entity.PresetBalanced]
	}

	protein := round1(weightKg * proteinPerKg)
	fat := 0.0
	if targetCalories > 0 {
		fat = round1(targetCalories * share / kcalPerGramFat)
	}
	remaining := targetCalories - protein*kcalPerGramProt - fat*kcalPerGramFat
	carbs := 0.0
	if remaining > 0 {
		carbs = round1(remaining / kcalPerGramCarb)
	}
	return entity.PFC{Protein: protein, Fat: fat, Carbs: carbs}
}

// Compute turns a validated profile into nutrition targets.
func Compute(profile entity.UserProfile, prefs *entity.NutritionPreferences) entity.NutritionTargets {
	bmr := BMR(profile)
	tdee := TDEE(bmr, profile.ActivityLevel)
	target := tdee + GoalAdjustment(profile.Goal, prefs)

	preset := entity.PresetBalanced
	if prefs != nil && prefs.MacroPreset != "" {
		preset = prefs.MacroPreset
	}

	return entity.NutritionTargets{
		BMR:            bmr,
		TDEE:           tdee,
		TargetCalories: target,
		PFC:            Split(target, profile.WeightKg, preset),
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
