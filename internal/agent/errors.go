package agent

import (
	"fmt"
)

// TransportError wraps a failed model call (network, auth, timeout)
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("model call failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// MalformedResponseError reports a reply that held no decodable issue list
type MalformedResponseError struct {
	Reply string // Raw reply, truncated for logging
	Err   error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed model reply: %v", e.Err)
	}
	return "malformed model reply: no JSON found"
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// AgentError is raised once the retry budget is exhausted. Err is the cause
// from the final attempt, a *TransportError or *MalformedResponseError.
type AgentError struct {
	Role     string
	Attempts int
	Err      error
}

func (e *AgentError) Error() string {
	return fmt.Sprintf("%s check failed after %d attempts: %v", e.Role, e.Attempts, e.Err)
}

func (e *AgentError) Unwrap() error {
	return e.Err
}
