package orchestrator

// Source says what kind of input a request carries.
type Source string

const (
	SourceText       Source = "text"
	SourceChatExport Source = "chat_export"
)

// normalize maps the legacy "whatsapp" name and anything unknown onto the
// two supported sources.
func (s Source) normalize() Source {
	switch s {
	case SourceChatExport, "whatsapp":
		return SourceChatExport
	default:
		return SourceText
	}
}

// Request is one chat turn.
type Request struct {
	UserID string            `json:"user_id"`
	Input  string            `json:"input"`
	Source Source            `json:"source,omitempty"`
	Meta   map[string]string `json:"meta,omitempty"`
}

// Result is what the caller gets back for a turn. Reply is never empty.
type Result struct {
	Reply        string  `json:"reply"`
	Mode         string  `json:"mode"`
	Emotion      string  `json:"emotion"`
	Intensity    int     `json:"intensity"`
	Relationship string  `json:"relationship"`
	Learning     *string `json:"learning"`
	Error        *string `json:"error"`
}

const (
	fallbackReply           = "Hey, I'm here for you. What's going on?"
	fallbackChatExportReply = "I couldn't fully analyze the chat export, but I'm here to help. What's the main issue?"
)

func fallback(source Source, err error) Result {
	msg := err.Error()
	res := Result{
		Reply:        fallbackReply,
		Mode:         "chill_companion",
		Emotion:      "neutral",
		Intensity:    5,
		Relationship: "friend",
		Error:        &msg,
	}
	if source == SourceChatExport {
		res.Reply = fallbackChatExportReply
		res.Relationship = "unknown"
	}
	return res
}
