package orchestrator

import (
	"maps"
	"strings"
)

var placeKeywords = []struct {
	place    string
	keywords []string
}{
	{"transit", []string{"train", "railway", "platform", "metro"}},
	{"workplace", []string{"office", "boss", "manager", "meeting", "work"}},
	{"educational", []string{"exam", "test", "college", "university", "class"}},
	{"airport", []string{"airport", "flight"}},
	{"hospital", []string{"hospital", "doctor"}},
}

// withPlace returns a copy of meta with "place" guessed from the message
// when the caller did not set one. The first matching group wins.
func withPlace(meta map[string]string, message string) map[string]string {
	out := maps.Clone(meta)
	if out == nil {
		out = make(map[string]string)
	}
	if out["place"] != "" {
		return out
	}

	lower := strings.ToLower(message)
	for _, group := range placeKeywords {
		for _, kw := range group.keywords {
			if strings.Contains(lower, kw) {
				out["place"] = group.place
				return out
			}
		}
	}
	return out
}
