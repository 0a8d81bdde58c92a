package ai

import (
	"context"
	"errors"
)

// ErrUnavailable reports that the model could not produce a completion: transport
// failure, vendor error, empty response or an expired context.
var ErrUnavailable = errors.New("ai unavailable")

// Client sends a single prompt to a generative model and returns its raw text.
// Implementations make exactly one attempt and never interpret the text.
type Client interface {
	Invoke(ctx context.Context, prompt string) (string, error)
}
