package traits

import (
	"slices"
	"strings"
)

type note struct {
	adaptation string
	meaning    string
}

var notes = map[Trait]note{
	AvoidsConflict: {
		"Buddy learned you prefer diplomatic approaches",
		"Authority conflicts come up often, so replies lean diplomatic",
	},
	NeedsValidation: {
		"Buddy adapted to validate your emotions first",
		"Vents often and wants to be heard before anything else",
	},
	ReassuranceSeeking: {
		"Buddy learned to keep things calm and reassuring for you",
		"Anxious moments call for reassurance and calm guidance",
	},
	HighAnxietyBaseline: {
		"Buddy learned to stay steady when things feel overwhelming",
		"Frequently very anxious, so replies stay calm and steady",
	},
	HumorResponsive: {
		"Buddy learned you enjoy a bit of banter",
		"Responds well to humor, so a lighter tone works",
	},
	SolutionOriented: {
		"Buddy learned you like practical next steps",
		"Looks for practical solutions and actionable advice",
	},
	NeedsEmotionalSupport: {
		"Buddy learned to put your feelings before fixes",
		"Needs empathy first, solutions second",
	},
	WorkplaceStressProne: {
		"Buddy learned work stress hits you hard",
		"Sensitive to workplace issues and pressure from seniors",
	},
}

// Adaptation returns the user-facing note announcing that t was learned.
func Adaptation(t Trait) string {
	if n, ok := notes[t]; ok {
		return n.adaptation
	}
	return "Buddy learned something new about you: " + strings.ReplaceAll(string(t), "_", " ")
}

// Describe explains what t says about a user.
func Describe(t Trait) string {
	return notes[t].meaning
}

// All lists every known trait in sorted order.
func All() []Trait {
	out := make([]Trait, 0, len(Rules))
	for _, r := range Rules {
		out = append(out, r.Trait)
	}
	slices.Sort(out)
	return slices.Compact(out)
}
