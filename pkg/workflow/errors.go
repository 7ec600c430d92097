package workflow

import (
	"errors"
	"fmt"
)

// ErrMissingDistinctions is returned by stages that depend on the analysis
// stage when they are run against a Context without distinctions.
var ErrMissingDistinctions = errors.New("context has no distinctions")

// GatewayError reports a failed LLM call. The cause is never retried.
type GatewayError struct {
	Stage string
	Err   error
}

func (e *GatewayError) Error() string {
	if e == nil {
		return "gateway error"
	}
	return fmt.Sprintf("%s: llm call failed: %v", e.Stage, e.Err)
}

func (e *GatewayError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// MalformedResponseError reports LLM output that could not be decoded into
// the shape a stage expects. Payload holds the de-fenced text.
type MalformedResponseError struct {
	Stage   string
	Payload string
	Err     error
}

func (e *MalformedResponseError) Error() string {
	if e == nil {
		return "malformed response"
	}
	return fmt.Sprintf("%s: malformed response: %v", e.Stage, e.Err)
}

func (e *MalformedResponseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
