package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MikeSquared-Agency/buddy/internal/hermes"
)

var errMissingUserID = errors.New("user_id is required")

// HandleChatRequest is the NATS handler for buddy.chat.request.
func (o *Orchestrator) HandleChatRequest(subject string, data []byte) ([]byte, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("parse chat request: %w", err)
	}
	if req.UserID == "" {
		return nil, errMissingUserID
	}

	res := o.Process(context.Background(), req)
	return json.Marshal(res)
}

// HandleLearningRequest is the NATS handler for buddy.learning.request.
func (o *Orchestrator) HandleLearningRequest(subject string, data []byte) ([]byte, error) {
	var req hermes.LearningRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("parse learning request: %w", err)
	}
	if req.UserID == "" {
		return nil, errMissingUserID
	}

	return json.Marshal(o.Learning(context.Background(), req.UserID))
}
