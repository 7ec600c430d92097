package adapter

import (
	"context"
	"sync"
)

// CallReport describes one Generate call seen by a Meter.
type CallReport struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Usage    Usage  `json:"usage"`
	Error    string `json:"error,omitempty"`
}

// Meter wraps an Adapter and accumulates token usage across calls.
type Meter struct {
	Adapter

	mu    sync.Mutex
	total Usage
	calls []CallReport
}

func NewMeter(a Adapter) *Meter {
	return &Meter{Adapter: a}
}

func (m *Meter) Generate(ctx context.Context, req Request) (*Response, error) {
	resp, err := m.Adapter.Generate(ctx, req)

	report := CallReport{Provider: m.Name(), Model: req.Model}
	if err != nil {
		report.Error = err.Error()
	} else {
		report.Usage = normalizeUsage(resp.Usage)
		if resp.Model != "" {
			report.Model = resp.Model
		}
	}

	m.mu.Lock()
	m.calls = append(m.calls, report)
	if err == nil {
		m.total = addUsage(m.total, report.Usage)
	}
	m.mu.Unlock()

	return resp, err
}

// Total returns the usage summed over successful calls.
func (m *Meter) Total() Usage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.total
}

// Calls returns a copy of the recorded call reports.
func (m *Meter) Calls() []CallReport {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]CallReport(nil), m.calls...)
}

func normalizeUsage(u *Usage) Usage {
	if u == nil {
		return Usage{}
	}
	usage := *u
	if usage.TotalTokens == 0 && (usage.PromptTokens > 0 || usage.CompletionTokens > 0) {
		usage.TotalTokens = usage.PromptTokens + usage.CompletionTokens
	}
	return usage
}

func addUsage(a Usage, b Usage) Usage {
	return Usage{
		PromptTokens:     a.PromptTokens + b.PromptTokens,
		CompletionTokens: a.CompletionTokens + b.CompletionTokens,
		TotalTokens:      a.TotalTokens + b.TotalTokens,
	}
}
