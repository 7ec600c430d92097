package adapter

import (
	"context"
	"time"

	"github.com/zen-systems/skillmaster/pkg/logger"
)

type loggingAdapter struct {
	Adapter
	log *logger.Logger
}

// WithLogging wraps a so that every Generate call is logged with its model,
// duration and token usage.
func WithLogging(a Adapter, log *logger.Logger) Adapter {
	if log == nil {
		return a
	}
	return &loggingAdapter{Adapter: a, log: log}
}

func (a *loggingAdapter) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := a.Adapter.Generate(ctx, req)
	fields := []interface{}{
		"provider", a.Name(),
		"model", req.Model,
		"messages", len(req.Messages),
		"duration_ms", time.Since(start).Milliseconds(),
	}
	if err != nil {
		if status := StatusOf(err); status != 0 {
			fields = append(fields, "status", status)
		}
		a.log.Warn("llm call failed", append(fields, "error", err.Error())...)
		return nil, err
	}
	if resp.Usage != nil {
		fields = append(fields,
			"prompt_tokens", resp.Usage.PromptTokens,
			"completion_tokens", resp.Usage.CompletionTokens,
		)
	}
	a.log.Debug("llm call", fields...)
	return resp, nil
}
