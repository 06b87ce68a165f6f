// Package knowledge holds Buddy's library of hand-written behavior guidance
// and picks the entry that best fits a message.
package knowledge

import (
	"strings"

	"github.com/MikeSquared-Agency/buddy/internal/extractor"
)

// Record is one piece of behavior guidance for a scenario.
type Record struct {
	Scenario        string   `json:"scenario,omitempty" yaml:"scenario,omitempty"`
	TypicalEmotions []string `json:"typical_emotions,omitempty" yaml:"typical_emotions,omitempty"`
	Do              []string `json:"do,omitempty" yaml:"do,omitempty"`
	Dont            []string `json:"dont,omitempty" yaml:"dont,omitempty"`
	Tone            *string  `json:"tone,omitempty" yaml:"tone,omitempty"`
	HumorAllowed    *bool    `json:"humor_allowed,omitempty" yaml:"humor_allowed,omitempty"`
}

// Entry is a record together with the identifier it was loaded under,
// normally its file name without extension.
type Entry struct {
	ID     string
	Record Record
}

const (
	qualifierSuffix = "_enhanced"
	idBonus         = 2
)

// Match scores every entry against query and returns the best record.
//
// The score is the number of query tokens found among the entry's keywords,
// plus a bonus when any query token appears inside the identifier. Only a
// strictly higher score replaces the current best, so the earliest entry wins
// ties. ok is false when nothing scores above zero.
func Match(query string, entries []Entry) (rec Record, ok bool) {
	q := tokenSet(strings.ToLower(query))
	if len(q) == 0 {
		return Record{}, false
	}

	best := 0
	for _, e := range entries {
		score := overlap(q, keywords(e))
		if idContainsAny(e.ID, q) {
			score += idBonus
		}
		if score > best {
			best = score
			rec = e.Record
		}
	}
	return rec, best > 0
}

// Query builds the matcher input from a message and its signals.
func Query(message string, s extractor.Signals) string {
	parts := []string{message}
	for _, v := range []string{string(s.PrimaryEmotion), string(s.Relationship), string(s.UserNeed)} {
		if v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " ")
}

// keywords are the identifier and scenario name split into words. Case is
// kept as written.
func keywords(e Entry) map[string]struct{} {
	set := tokenSet(ScenarioName(e.ID))
	if e.Record.Scenario != "" {
		for _, tok := range strings.Fields(strings.ReplaceAll(e.Record.Scenario, "_", " ")) {
			set[tok] = struct{}{}
		}
	}
	return set
}

// ScenarioName is the display name of an entry: its identifier without the
// qualifier suffix, with underscores turned into spaces.
func ScenarioName(id string) string {
	return strings.ReplaceAll(strings.ReplaceAll(id, qualifierSuffix, ""), "_", " ")
}

func tokenSet(s string) map[string]struct{} {
	fields := strings.Fields(s)
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

func overlap(a, b map[string]struct{}) int {
	n := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			n++
		}
	}
	return n
}

func idContainsAny(id string, q map[string]struct{}) bool {
	lower := strings.ToLower(id)
	for tok := range q {
		if strings.Contains(lower, tok) {
			return true
		}
	}
	return false
}
