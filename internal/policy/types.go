package policy

import "github.com/MikeSquared-Agency/buddy/internal/llm"

// Mode is the overall interaction style.
type Mode string

const (
	ModeVentingListener   Mode = "venting_listener"
	ModeChillCompanion    Mode = "chill_companion"
	ModePracticalHelper   Mode = "practical_helper"
	ModeDiplomaticAdvisor Mode = "diplomatic_advisor"
	ModeMotivationalPush  Mode = "motivational_push"
	ModeSilentSupport     Mode = "silent_support"
)

// Tone is the voice a reply is written in.
type Tone string

const (
	ToneCasualSupportive Tone = "casual_supportive"
	ToneCalmReassuring   Tone = "calm_reassuring"
	ToneLightHumor       Tone = "light_humor"
	ToneSeriousCare      Tone = "serious_care"
	ToneRespectfulFormal Tone = "respectful_formal"
)

// Length is how much a reply should say.
type Length string

const (
	LengthShort  Length = "short"
	LengthMedium Length = "medium"
	LengthLong   Length = "long"
)

// Initiative is how proactive a reply should be.
type Initiative string

const (
	InitiativeLow    Initiative = "low"
	InitiativeMedium Initiative = "medium"
	InitiativeHigh   Initiative = "high"
)

var (
	modes = []Mode{
		ModeVentingListener, ModeChillCompanion, ModePracticalHelper,
		ModeDiplomaticAdvisor, ModeMotivationalPush, ModeSilentSupport,
	}
	tones = []Tone{
		ToneCasualSupportive, ToneCalmReassuring, ToneLightHumor, ToneSeriousCare, ToneRespectfulFormal,
	}
	lengths     = []Length{LengthShort, LengthMedium, LengthLong}
	initiatives = []Initiative{InitiativeLow, InitiativeMedium, InitiativeHigh}
)

// Policy directs how a reply is written.
type Policy struct {
	Mode                Mode       `json:"mode" jsonschema:"enum=venting_listener,enum=chill_companion,enum=practical_helper,enum=diplomatic_advisor,enum=motivational_push,enum=silent_support"`
	Tone                Tone       `json:"tone" jsonschema:"enum=casual_supportive,enum=calm_reassuring,enum=light_humor,enum=serious_care,enum=respectful_formal"`
	HumorLevel          int        `json:"humor_level" jsonschema:"minimum=0,maximum=3,description=0 none 1 subtle 2 moderate 3 full banter"`
	MessageLength       Length     `json:"message_length" jsonschema:"enum=short,enum=medium,enum=long"`
	Initiative          Initiative `json:"initiative" jsonschema:"enum=low,enum=medium,enum=high"`
	GiveActionSteps     bool       `json:"give_action_steps"`
	AskFollowupQuestion bool       `json:"ask_followup_question"`
}

// DefaultPolicy is the relaxed companion stance used when no decision can be made.
func DefaultPolicy() Policy {
	return Policy{
		Mode:                ModeChillCompanion,
		Tone:                ToneCasualSupportive,
		HumorLevel:          1,
		MessageLength:       LengthMedium,
		Initiative:          InitiativeMedium,
		GiveActionSteps:     false,
		AskFollowupQuestion: true,
	}
}

func (p Policy) Validate() error {
	if !contains(modes, p.Mode) {
		return llm.SchemaError("mode", "unknown value %q", p.Mode)
	}
	if !contains(tones, p.Tone) {
		return llm.SchemaError("tone", "unknown value %q", p.Tone)
	}
	if p.HumorLevel < 0 || p.HumorLevel > 3 {
		return llm.SchemaError("humor_level", "%d outside 0..3", p.HumorLevel)
	}
	if !contains(lengths, p.MessageLength) {
		return llm.SchemaError("message_length", "unknown value %q", p.MessageLength)
	}
	if !contains(initiatives, p.Initiative) {
		return llm.SchemaError("initiative", "unknown value %q", p.Initiative)
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

type wirePolicy struct {
	Mode                *Mode       `json:"mode"`
	Tone                *Tone       `json:"tone"`
	HumorLevel          *int        `json:"humor_level"`
	MessageLength       *Length     `json:"message_length"`
	Initiative          *Initiative `json:"initiative"`
	GiveActionSteps     *bool       `json:"give_action_steps"`
	AskFollowupQuestion *bool       `json:"ask_followup_question"`
}

func (w wirePolicy) policy() (Policy, error) {
	switch {
	case w.Mode == nil:
		return Policy{}, llm.SchemaError("mode", "missing")
	case w.Tone == nil:
		return Policy{}, llm.SchemaError("tone", "missing")
	case w.HumorLevel == nil:
		return Policy{}, llm.SchemaError("humor_level", "missing")
	case w.MessageLength == nil:
		return Policy{}, llm.SchemaError("message_length", "missing")
	case w.Initiative == nil:
		return Policy{}, llm.SchemaError("initiative", "missing")
	case w.GiveActionSteps == nil:
		return Policy{}, llm.SchemaError("give_action_steps", "missing")
	case w.AskFollowupQuestion == nil:
		return Policy{}, llm.SchemaError("ask_followup_question", "missing")
	}

	p := Policy{
		Mode:                *w.Mode,
		Tone:                *w.Tone,
		HumorLevel:          *w.HumorLevel,
		MessageLength:       *w.MessageLength,
		Initiative:          *w.Initiative,
		GiveActionSteps:     *w.GiveActionSteps,
		AskFollowupQuestion: *w.AskFollowupQuestion,
	}
	return p, p.Validate()
}
