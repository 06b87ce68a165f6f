// Package traits maps a message's signals and the chosen policy to the
// recurring behavioral patterns Buddy remembers about a user.
package traits

import (
	"slices"

	"github.com/MikeSquared-Agency/buddy/internal/extractor"
	"github.com/MikeSquared-Agency/buddy/internal/policy"
)

// Trait is a persistent label for a recurring user pattern.
type Trait string

const (
	AvoidsConflict        Trait = "avoids_conflict"
	NeedsValidation       Trait = "needs_validation"
	ReassuranceSeeking    Trait = "reassurance_seeking"
	HighAnxietyBaseline   Trait = "high_anxiety_baseline"
	HumorResponsive       Trait = "humor_responsive"
	SolutionOriented      Trait = "solution_oriented"
	NeedsEmotionalSupport Trait = "needs_emotional_support"
	WorkplaceStressProne  Trait = "workplace_stress_prone"
)

// Rule tags a user with Trait whenever When holds.
type Rule struct {
	Trait Trait
	When  func(s extractor.Signals, p policy.Policy) bool
}

// Rules is the full rule table. Rules are independent and may overlap.
var Rules = []Rule{
	{AvoidsConflict, func(s extractor.Signals, _ policy.Policy) bool {
		return s.Relationship == extractor.RelationshipAuthority && s.ConflictRisk == extractor.RiskHigh
	}},
	{NeedsValidation, func(s extractor.Signals, p policy.Policy) bool {
		return p.Mode == policy.ModeVentingListener || s.UserNeed == extractor.NeedVent
	}},
	{ReassuranceSeeking, func(s extractor.Signals, _ policy.Policy) bool {
		return isAny(s.PrimaryEmotion, extractor.EmotionAnxiety, extractor.EmotionStressed) && s.Intensity >= 7
	}},
	{HighAnxietyBaseline, func(s extractor.Signals, _ policy.Policy) bool {
		return s.PrimaryEmotion == extractor.EmotionAnxiety && s.Intensity >= 8
	}},
	{HumorResponsive, func(s extractor.Signals, p policy.Policy) bool {
		return p.HumorLevel >= 2 &&
			isAny(s.PrimaryEmotion, extractor.EmotionBoredom, extractor.EmotionNeutral, extractor.EmotionHappy)
	}},
	{SolutionOriented, func(s extractor.Signals, p policy.Policy) bool {
		return isAny(s.UserNeed, extractor.NeedAdvice, extractor.NeedDecisionHelp) || p.Mode == policy.ModePracticalHelper
	}},
	{NeedsEmotionalSupport, func(s extractor.Signals, _ policy.Policy) bool {
		return isAny(s.UserNeed, extractor.NeedReassurance, extractor.NeedValidation)
	}},
	{WorkplaceStressProne, func(s extractor.Signals, _ policy.Policy) bool {
		return s.Relationship == extractor.RelationshipAuthority &&
			isAny(s.PrimaryEmotion, extractor.EmotionFrustration, extractor.EmotionAnger, extractor.EmotionAnxiety)
	}},
}

// Infer evaluates every rule and returns the traits that fired, sorted and
// without duplicates.
func Infer(s extractor.Signals, p policy.Policy) []Trait {
	return Evaluate(Rules, s, p)
}

// Evaluate runs an arbitrary rule table.
func Evaluate(rules []Rule, s extractor.Signals, p policy.Policy) []Trait {
	var out []Trait
	for _, r := range rules {
		if r.When(s, p) {
			out = append(out, r.Trait)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

func isAny[T comparable](v T, set ...T) bool {
	return slices.Contains(set, v)
}
