// Package ai holds the prompt flows that turn activity logs into text through a hosted model.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrEmptyInput is returned when there are no formatted logs to send.
	ErrEmptyInput = errors.New("no activity logs to analyze")
	// ErrInvalidOutput is returned when the model response does not match the output schema.
	ErrInvalidOutput = errors.New("model response does not match the output schema")
)

// FlowError reports which flow failed. Err keeps the cause as produced by the
// input check, the model or the output check.
type FlowError struct {
	Flow string
	Err  error
}

func (e *FlowError) Error() string {
	return e.Flow + ": " + e.Err.Error()
}

func (e *FlowError) Unwrap() error {
	return e.Err
}

// OnboardingTipsInput is the input of GenerateOnboardingTips.
type OnboardingTipsInput struct {
	SystemActivityLogs string `json:"systemActivityLogs"`
}

// OnboardingTipsOutput is the output of GenerateOnboardingTips.
type OnboardingTipsOutput struct {
	Tips string `json:"tips"`
}

// ActivitySummaryInput is the input of SummarizeSystemActivity.
type ActivitySummaryInput struct {
	Logs string `json:"logs"`
}

// ActivitySummaryOutput is the output of SummarizeSystemActivity.
type ActivitySummaryOutput struct {
	Summary string `json:"summary"`
}

// Flows runs the prompt flows against a Model.
type Flows struct {
	model   Model
	timeout time.Duration
	logger  *zap.Logger
}

// NewFlows creates the flows. A zero timeout leaves the call bounded only by ctx.
func NewFlows(m Model, timeout time.Duration, logger *zap.Logger) *Flows {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Flows{model: m, timeout: timeout, logger: logger}
}

// GenerateOnboardingTips produces personalized tips from formatted activity logs.
func (f *Flows) GenerateOnboardingTips(ctx context.Context, in OnboardingTipsInput) (OnboardingTipsOutput, error) {
	text, err := f.run(ctx, onboardingTipsPrompt, in.SystemActivityLogs)
	if err != nil {
		return OnboardingTipsOutput{}, err
	}
	return OnboardingTipsOutput{Tips: text}, nil
}

// SummarizeSystemActivity produces a summary of formatted activity logs.
func (f *Flows) SummarizeSystemActivity(ctx context.Context, in ActivitySummaryInput) (ActivitySummaryOutput, error) {
	text, err := f.run(ctx, activitySummaryPrompt, in.Logs)
	if err != nil {
		return ActivitySummaryOutput{}, err
	}
	return ActivitySummaryOutput{Summary: text}, nil
}

func (f *Flows) run(ctx context.Context, p prompt, logs string) (string, error) {
	if strings.TrimSpace(logs) == "" {
		return "", &FlowError{Flow: p.name, Err: ErrEmptyInput}
	}

	rendered, err := p.render(logs)
	if err != nil {
		return "", &FlowError{Flow: p.name, Err: fmt.Errorf("render prompt: %w", err)}
	}

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	start := time.Now()
	raw, err := f.model.GenerateJSON(ctx, rendered, p.schema())
	if err != nil {
		return "", &FlowError{Flow: p.name, Err: err}
	}
	f.logger.Debug("model round trip finished",
		zap.String("prompt", p.name),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("response_bytes", len(raw)))

	text, err := decodeField(raw, p.field)
	if err != nil {
		return "", &FlowError{Flow: p.name, Err: err}
	}
	return text, nil
}

// decodeField extracts the single required string field from a model response.
func decodeField(raw, field string) (string, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}
	value, ok := obj[field]
	if !ok {
		return "", fmt.Errorf("%w: missing field %q", ErrInvalidOutput, field)
	}
	var s string
	if err := json.Unmarshal(value, &s); err != nil {
		return "", fmt.Errorf("%w: field %q is not a string", ErrInvalidOutput, field)
	}
	return s, nil
}
