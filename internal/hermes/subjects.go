package hermes

import "time"

const (
	// SubjectChatRequest carries a chat turn; the reply is the turn's result.
	SubjectChatRequest = "buddy.chat.request"
	// SubjectLearningRequest asks for what has been learned about a user.
	SubjectLearningRequest = "buddy.learning.request"
	// SubjectTraitsLearned announces traits a user did not have before.
	SubjectTraitsLearned = "buddy.traits.learned"
	// SubjectRegistered announces the service on startup.
	SubjectRegistered = "swarm.agent.buddy.registered"

	// QueueGroup load-balances requests across Buddy instances.
	QueueGroup = "buddy"
)

// TraitsLearnedEvent carries trait labels only, never message text.
type TraitsLearnedEvent struct {
	UserID    string    `json:"user_id"`
	Traits    []string  `json:"traits"`
	Timestamp time.Time `json:"timestamp"`
}

// LearningRequest is the payload of SubjectLearningRequest.
type LearningRequest struct {
	UserID string `json:"user_id"`
}

// ErrorReply is sent back when a request cannot be handled at all.
type ErrorReply struct {
	Error string `json:"error"`
}
