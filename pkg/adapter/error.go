package adapter

import (
	"errors"
	"fmt"
)

// AdapterError wraps provider errors with status metadata.
type AdapterError struct {
	Provider string
	Status   int
	Err      error
}

func (e *AdapterError) Error() string {
	if e == nil {
		return "adapter error"
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s adapter error (status=%d)", e.Provider, e.Status)
}

func (e *AdapterError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// StatusOf returns the provider HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var adapterErr *AdapterError
	if err == nil || !errors.As(err, &adapterErr) {
		return 0
	}
	return adapterErr.Status
}
