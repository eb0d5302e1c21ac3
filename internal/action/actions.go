// Package action exposes the server-side operations invoked by the dashboard.
// Actions never fail: every error is logged and mapped to a result value.
package action

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"nova-sync-backend/internal/ai"
	"nova-sync-backend/internal/model"
)

// Flows is the subset of ai.Flows the actions depend on.
type Flows interface {
	GenerateOnboardingTips(ctx context.Context, in ai.OnboardingTipsInput) (ai.OnboardingTipsOutput, error)
	SummarizeSystemActivity(ctx context.Context, in ai.ActivitySummaryInput) (ai.ActivitySummaryOutput, error)
}

// TipsResult is either {success:true, tips} or {success:false, error}.
type TipsResult struct {
	Success bool
	Tips    string
	Error   string
}

// MarshalJSON emits only the fields that belong to the outcome.
func (r TipsResult) MarshalJSON() ([]byte, error) {
	if r.Success {
		return json.Marshal(struct {
			Success bool   `json:"success"`
			Tips    string `json:"tips"`
		}{true, r.Tips})
	}
	return json.Marshal(failure{Error: r.Error})
}

// SummaryResult is either {success:true, summary} or {success:false, error}.
type SummaryResult struct {
	Success bool
	Summary string
	Error   string
}

// MarshalJSON emits only the fields that belong to the outcome.
func (r SummaryResult) MarshalJSON() ([]byte, error) {
	if r.Success {
		return json.Marshal(struct {
			Success bool   `json:"success"`
			Summary string `json:"summary"`
		}{true, r.Summary})
	}
	return json.Marshal(failure{Error: r.Error})
}

type failure struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Actions binds the AI flows to the dashboard.
type Actions struct {
	flows  Flows
	loc    *time.Location
	logger *zap.Logger
}

// New creates the actions. loc is the timezone used when formatting log times.
func New(flows Flows, loc *time.Location, logger *zap.Logger) *Actions {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Actions{flows: flows, loc: loc, logger: logger}
}

// GetOnboardingTips asks the model for onboarding tips based on logs.
func (a *Actions) GetOnboardingTips(ctx context.Context, logs []model.SystemLog) TipsResult {
	input := ai.OnboardingTipsInput{SystemActivityLogs: FormatLogsForAI(logs, a.loc)}
	out, err := a.flows.GenerateOnboardingTips(ctx, input)
	if err != nil {
		a.logger.Error("error generating onboarding tips", zap.Error(err), zap.Int("logs", len(logs)))
		return TipsResult{Error: "Failed to generate tips: " + causeMessage(err)}
	}
	return TipsResult{Success: true, Tips: out.Tips}
}

// GetSystemActivitySummary asks the model to summarize logs.
func (a *Actions) GetSystemActivitySummary(ctx context.Context, logs []model.SystemLog) SummaryResult {
	input := ai.ActivitySummaryInput{Logs: FormatLogsForAI(logs, a.loc)}
	out, err := a.flows.SummarizeSystemActivity(ctx, input)
	if err != nil {
		a.logger.Error("error summarizing system activity", zap.Error(err), zap.Int("logs", len(logs)))
		return SummaryResult{Error: "Failed to summarize activity: " + causeMessage(err)}
	}
	return SummaryResult{Success: true, Summary: out.Summary}
}

// causeMessage returns the error text without the failing flow's name.
func causeMessage(err error) string {
	if err == nil {
		return "Unknown error"
	}
	var fe *ai.FlowError
	if errors.As(err, &fe) {
		return fe.Err.Error()
	}
	return err.Error()
}
