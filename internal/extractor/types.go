package extractor

import "github.com/MikeSquared-Agency/buddy/internal/llm"

// Emotion is the dominant feeling detected in a message.
type Emotion string

const (
	EmotionFrustration Emotion = "frustration"
	EmotionAnger       Emotion = "anger"
	EmotionSadness     Emotion = "sadness"
	EmotionAnxiety     Emotion = "anxiety"
	EmotionConfusion   Emotion = "confusion"
	EmotionBoredom     Emotion = "boredom"
	EmotionHappy       Emotion = "happy"
	EmotionNeutral     Emotion = "neutral"

	// EmotionStressed is never produced by the extractor but older profiles
	// and rules still refer to it.
	EmotionStressed Emotion = "stressed"
)

// Need is what the user wants out of the conversation.
type Need string

const (
	NeedVent         Need = "vent"
	NeedAdvice       Need = "advice"
	NeedReassurance  Need = "reassurance"
	NeedDistraction  Need = "distraction"
	NeedDecisionHelp Need = "decision_help"
	NeedValidation   Need = "validation"
)

// Relationship is who the message is about.
type Relationship string

const (
	RelationshipFriend        Relationship = "friend"
	RelationshipStranger      Relationship = "stranger"
	RelationshipAuthority     Relationship = "authority"
	RelationshipServicePerson Relationship = "service_person"
	RelationshipFamily        Relationship = "family"
	RelationshipRomantic      Relationship = "romantic"
	RelationshipUnknown       Relationship = "unknown"
)

// Risk is the likelihood of the situation escalating.
type Risk string

const (
	RiskLow    Risk = "low"
	RiskMedium Risk = "medium"
	RiskHigh   Risk = "high"
)

var (
	emotions = []Emotion{
		EmotionFrustration, EmotionAnger, EmotionSadness, EmotionAnxiety,
		EmotionConfusion, EmotionBoredom, EmotionHappy, EmotionNeutral,
	}
	needs = []Need{
		NeedVent, NeedAdvice, NeedReassurance, NeedDistraction, NeedDecisionHelp, NeedValidation,
	}
	relationships = []Relationship{
		RelationshipFriend, RelationshipStranger, RelationshipAuthority, RelationshipServicePerson,
		RelationshipFamily, RelationshipRomantic, RelationshipUnknown,
	}
	risks = []Risk{RiskLow, RiskMedium, RiskHigh}
)

// Signals is the emotional and relational read-out of a single message.
type Signals struct {
	PrimaryEmotion Emotion      `json:"primary_emotion" jsonschema:"enum=frustration,enum=anger,enum=sadness,enum=anxiety,enum=confusion,enum=boredom,enum=happy,enum=neutral"`
	Intensity      int          `json:"intensity" jsonschema:"minimum=1,maximum=10"`
	UserNeed       Need         `json:"user_need" jsonschema:"enum=vent,enum=advice,enum=reassurance,enum=distraction,enum=decision_help,enum=validation"`
	Relationship   Relationship `json:"relationship" jsonschema:"enum=friend,enum=stranger,enum=authority,enum=service_person,enum=family,enum=romantic,enum=unknown"`
	ConflictRisk   Risk         `json:"conflict_risk" jsonschema:"enum=low,enum=medium,enum=high"`
}

// DefaultSignals is the neutral read-out used whenever extraction fails.
func DefaultSignals() Signals {
	return Signals{
		PrimaryEmotion: EmotionNeutral,
		Intensity:      5,
		UserNeed:       NeedAdvice,
		Relationship:   RelationshipUnknown,
		ConflictRisk:   RiskLow,
	}
}

// Validate checks every field against its allowed values.
func (s Signals) Validate() error {
	if !contains(emotions, s.PrimaryEmotion) {
		return llm.SchemaError("primary_emotion", "unknown value %q", s.PrimaryEmotion)
	}
	if s.Intensity < 1 || s.Intensity > 10 {
		return llm.SchemaError("intensity", "%d outside 1..10", s.Intensity)
	}
	if !contains(needs, s.UserNeed) {
		return llm.SchemaError("user_need", "unknown value %q", s.UserNeed)
	}
	if !contains(relationships, s.Relationship) {
		return llm.SchemaError("relationship", "unknown value %q", s.Relationship)
	}
	if !contains(risks, s.ConflictRisk) {
		return llm.SchemaError("conflict_risk", "unknown value %q", s.ConflictRisk)
	}
	return nil
}

func contains[T comparable](values []T, v T) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

// wireSignals mirrors Signals with pointer fields so a missing key can be
// told apart from a zero value.
type wireSignals struct {
	PrimaryEmotion *Emotion      `json:"primary_emotion"`
	Intensity      *int          `json:"intensity"`
	UserNeed       *Need         `json:"user_need"`
	Relationship   *Relationship `json:"relationship"`
	ConflictRisk   *Risk         `json:"conflict_risk"`
}

func (w wireSignals) signals() (Signals, error) {
	switch {
	case w.PrimaryEmotion == nil:
		return Signals{}, llm.SchemaError("primary_emotion", "missing")
	case w.Intensity == nil:
		return Signals{}, llm.SchemaError("intensity", "missing")
	case w.UserNeed == nil:
		return Signals{}, llm.SchemaError("user_need", "missing")
	case w.Relationship == nil:
		return Signals{}, llm.SchemaError("relationship", "missing")
	case w.ConflictRisk == nil:
		return Signals{}, llm.SchemaError("conflict_risk", "missing")
	}

	s := Signals{
		PrimaryEmotion: *w.PrimaryEmotion,
		Intensity:      *w.Intensity,
		UserNeed:       *w.UserNeed,
		Relationship:   *w.Relationship,
		ConflictRisk:   *w.ConflictRisk,
	}
	return s, s.Validate()
}
