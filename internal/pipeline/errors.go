package pipeline

import (
	"errors"
	"fmt"
	"strings"
)

// ErrRobotsDisallowed is returned when robots.txt forbids fetching a report URL
var ErrRobotsDisallowed = errors.New("fetch disallowed by robots.txt")

// AggregateError reports every distinct agent failure of one batch check
type AggregateError struct {
	Errors []error
}

func newAggregateError(errs []error) *AggregateError {
	return &AggregateError{Errors: errs}
}

// Messages returns the distinct failure messages in launch order
func (e *AggregateError) Messages() []string {
	seen := make(map[string]bool, len(e.Errors))
	var messages []string
	for _, err := range e.Errors {
		msg := err.Error()
		if seen[msg] {
			continue
		}
		seen[msg] = true
		messages = append(messages, msg)
	}
	return messages
}

func (e *AggregateError) Error() string {
	return fmt.Sprintf("proofreading failed: %s", strings.Join(e.Messages(), "; "))
}

// Unwrap exposes the individual failures to errors.Is and errors.As
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// StatusError is a non-2xx response to a report fetch
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status: %d %s", e.Code, e.Status)
}
