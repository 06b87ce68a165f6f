// Package transcript turns exported chat logs into plain, de-identified
// message text. Nothing parsed here is written to disk.
package transcript

import (
	"regexp"
	"strings"
)

// Message is a single chat message with its sender de-identified.
type Message struct {
	Sender string
	Body   string
}

// headPattern matches the first line of a message in either export format:
//
//	12/01/2024, 10:30 - Contact Name: text
//	[1/12/24, 10:30:45 AM] Contact: text
var headPattern = regexp.MustCompile(`(?i)^\[?` +
	`(?P<date>\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4})` +
	`[,\s]+` +
	`(?P<time>\d{1,2}:\d{2}(?::\d{2})?(?:\s*[AP]M)?)` +
	`\]?` +
	`\s*-?\s*` +
	`(?P<sender>[^\]:]+?)` +
	`:\s*` +
	`(?P<message>.*)$`)

// stampPattern matches the timestamp that opens every line the platform
// writes, including sender-less system lines such as
//
//	12/01/2024, 10:31 - Ann added Bob
var stampPattern = regexp.MustCompile(`(?i)^\[?` +
	`\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4}` +
	`[,\s]+` +
	`\d{1,2}:\d{2}(?::\d{2})?(?:\s*[AP]M)?` +
	`\]?`)

var (
	senderIdx  = headPattern.SubexpIndex("sender")
	messageIdx = headPattern.SubexpIndex("message")
)

// phonePattern matches phone-number-like runs: 9+ digits allowing spaces
// and dashes between them, with an optional leading +.
var phonePattern = regexp.MustCompile(`\+?\d[\d\s\-]{8,}`)

// anonymousSender replaces phone numbers found in sender names.
const anonymousSender = "User"

// Parse splits a raw export into messages. Continuation lines are merged into
// the message they follow with single spaces; lines that cannot be attributed
// to any message are dropped, and so are timestamped lines without a sender.
// System notices that do carry a sender are not filtered here.
func Parse(raw string) []Message {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var (
		msgs    []Message
		current *Message
		parts   []string
	)

	flush := func() {
		if current == nil {
			return
		}
		current.Body = strings.Join(parts, " ")
		msgs = append(msgs, *current)
		current = nil
		parts = nil
	}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		m := headPattern.FindStringSubmatch(line)
		if m == nil {
			if stampPattern.MatchString(line) {
				// Membership changes and similar platform lines.
				flush()
				continue
			}
			// Soft-wrapped continuation of the open message, if any.
			if current != nil {
				parts = append(parts, line)
			}
			continue
		}

		flush()
		current = &Message{Sender: anonymizeSender(m[senderIdx])}
		if text := strings.TrimSpace(m[messageIdx]); text != "" {
			parts = append(parts, text)
		}
	}
	flush()

	return msgs
}

func anonymizeSender(sender string) string {
	sender = strings.TrimSpace(sender)
	return strings.TrimSpace(phonePattern.ReplaceAllString(sender, anonymousSender))
}
