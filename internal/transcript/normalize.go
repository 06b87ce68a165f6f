package transcript

import "strings"

// systemNotices are platform notices that are not part of the conversation.
// A message whose lowercase text contains any of them is dropped.
var systemNotices = []string{
	"messages and calls are end-to-end encrypted",
	"created group",
	"created this group",
	" added you",
	" was added",
	" left the group",
	"joined using this group's invite link",
	"removed you",
	"changed the subject",
	"changed this group",
	"image omitted",
	"video omitted",
	"audio omitted",
	"sticker omitted",
	"document omitted",
	"gif omitted",
	"contact card omitted",
	"location omitted",
}

// Normalize strips timestamps, senders and system notices from a chat export
// and returns the message bodies joined by newlines, in their original order.
func Normalize(raw string) string {
	return strings.Join(bodies(Parse(raw)), "\n")
}

// LastN normalizes raw and keeps only the last n messages. n <= 0 keeps all.
func LastN(raw string, n int) string {
	lines := bodies(Parse(raw))
	if n > 0 && len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}

func bodies(msgs []Message) []string {
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		if strings.TrimSpace(m.Body) == "" || IsSystemNotice(m.Body) {
			continue
		}
		out = append(out, m.Body)
	}
	return out
}

// lrm prefixes the notices iOS exports write under the group's name.
const lrm = "\u200e"

// IsSystemNotice reports whether text looks like a platform notice.
func IsSystemNotice(text string) bool {
	if strings.HasPrefix(strings.TrimSpace(text), lrm) {
		return true
	}
	lower := strings.ToLower(text)
	for _, notice := range systemNotices {
		if strings.Contains(lower, notice) {
			return true
		}
	}
	return false
}
