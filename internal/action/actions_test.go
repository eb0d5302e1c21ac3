package action

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"nova-sync-backend/internal/ai"
	"nova-sync-backend/internal/model"
)

// mockFlows is a mock implementation of the Flows interface.
type mockFlows struct {
	TipsFunc    func(ctx context.Context, in ai.OnboardingTipsInput) (ai.OnboardingTipsOutput, error)
	SummaryFunc func(ctx context.Context, in ai.ActivitySummaryInput) (ai.ActivitySummaryOutput, error)
}

func (m *mockFlows) GenerateOnboardingTips(ctx context.Context, in ai.OnboardingTipsInput) (ai.OnboardingTipsOutput, error) {
	return m.TipsFunc(ctx, in)
}

func (m *mockFlows) SummarizeSystemActivity(ctx context.Context, in ai.ActivitySummaryInput) (ai.ActivitySummaryOutput, error) {
	return m.SummaryFunc(ctx, in)
}

var sampleLogs = []model.SystemLog{
	{ID: "log1", Timestamp: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), EventType: "appLaunch", Details: "launched"},
}

func TestGetOnboardingTips_Success(t *testing.T) {
	var got ai.OnboardingTipsInput
	actions := New(&mockFlows{
		TipsFunc: func(_ context.Context, in ai.OnboardingTipsInput) (ai.OnboardingTipsOutput, error) {
			got = in
			return ai.OnboardingTipsOutput{Tips: "Use shortcuts."}, nil
		},
	}, time.UTC, zap.NewNop())

	res := actions.GetOnboardingTips(context.Background(), sampleLogs)

	assert.Equal(t, TipsResult{Success: true, Tips: "Use shortcuts."}, res)
	assert.Equal(t, "[10:00:00 AM] appLaunch: launched", got.SystemActivityLogs)

	body, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"tips":"Use shortcuts."}`, string(body))
}

func TestGetOnboardingTips_ModelFailure(t *testing.T) {
	// The flow wraps the model error; the result carries only the cause.
	actions := New(&mockFlows{
		TipsFunc: func(context.Context, ai.OnboardingTipsInput) (ai.OnboardingTipsOutput, error) {
			return ai.OnboardingTipsOutput{}, &ai.FlowError{Flow: "generateOnboardingTipsPrompt", Err: errors.New("rate limited")}
		},
	}, time.UTC, nil)

	res := actions.GetOnboardingTips(context.Background(), sampleLogs)

	assert.False(t, res.Success)
	assert.Equal(t, "Failed to generate tips: rate limited", res.Error)

	body, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"error":"Failed to generate tips: rate limited"}`, string(body))
}

func TestGetOnboardingTips_EmptyLogs(t *testing.T) {
	flows := ai.NewFlows(ai.UnavailableModel{}, 0, nil)
	actions := New(flows, time.UTC, nil)

	res := actions.GetOnboardingTips(context.Background(), nil)

	assert.False(t, res.Success)
	assert.Equal(t, "Failed to generate tips: "+ai.ErrEmptyInput.Error(), res.Error)
}

func TestGetSystemActivitySummary(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		actions := New(&mockFlows{
			SummaryFunc: func(_ context.Context, in ai.ActivitySummaryInput) (ai.ActivitySummaryOutput, error) {
				return ai.ActivitySummaryOutput{Summary: "one launch"}, nil
			},
		}, time.UTC, nil)

		res := actions.GetSystemActivitySummary(context.Background(), sampleLogs)
		assert.Equal(t, SummaryResult{Success: true, Summary: "one launch"}, res)
	})

	t.Run("empty summary still succeeds", func(t *testing.T) {
		actions := New(&mockFlows{
			SummaryFunc: func(context.Context, ai.ActivitySummaryInput) (ai.ActivitySummaryOutput, error) {
				return ai.ActivitySummaryOutput{}, nil
			},
		}, time.UTC, nil)

		body, err := json.Marshal(actions.GetSystemActivitySummary(context.Background(), sampleLogs))
		require.NoError(t, err)
		assert.JSONEq(t, `{"success":true,"summary":""}`, string(body))
	})

	t.Run("failure", func(t *testing.T) {
		actions := New(&mockFlows{
			SummaryFunc: func(context.Context, ai.ActivitySummaryInput) (ai.ActivitySummaryOutput, error) {
				return ai.ActivitySummaryOutput{}, errors.New("quota exceeded")
			},
		}, time.UTC, nil)

		res := actions.GetSystemActivitySummary(context.Background(), sampleLogs)
		assert.Equal(t, "Failed to summarize activity: quota exceeded", res.Error)
	})
}

func TestCauseMessage(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want string
	}{
		{name: "flow name stripped", err: &ai.FlowError{Flow: "generateOnboardingTipsPrompt", Err: errors.New("rate limited")}, want: "rate limited"},
		{
			name: "schema detail kept",
			err:  &ai.FlowError{Flow: "generateOnboardingTipsPrompt", Err: fmt.Errorf("%w: missing field %q", ai.ErrInvalidOutput, "tips")},
			want: `model response does not match the output schema: missing field "tips"`,
		},
		{
			name: "library context kept",
			err:  &ai.FlowError{Flow: "summarizeSystemActivityPrompt", Err: fmt.Errorf("read response: %w", io.EOF)},
			want: "read response: EOF",
		},
		{name: "plain error", err: errors.New("quota exceeded"), want: "quota exceeded"},
		{name: "nil", err: nil, want: "Unknown error"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, causeMessage(tc.err))
		})
	}
}

func TestPresence(t *testing.T) {
	status := model.NovaSystemStatus{AIStatus: model.AIOnline}
	guest := model.UserProfile{ID: "user2", OnlineStatus: model.Offline, FaceRecognitionStatus: model.FaceInactive}
	owner := model.UserProfile{ID: "user1", OnlineStatus: model.Online, FaceRecognitionStatus: model.FaceActive}
	pending := model.UserProfile{ID: "user3", OnlineStatus: model.Online, FaceRecognitionStatus: model.FacePending}

	testCases := []struct {
		name     string
		users    []model.UserProfile
		wantUser string
		wantMsg  string
	}{
		{name: "active user preferred", users: []model.UserProfile{guest, owner}, wantUser: "user1", wantMsg: "User active. System monitoring."},
		{name: "falls back to first user", users: []model.UserProfile{guest, pending}, wantUser: "user2", wantMsg: "User not detected. Nova system would prepare to enter sleep mode."},
		{name: "unknown state", users: []model.UserProfile{pending}, wantUser: "user3", wantMsg: ""},
		{name: "no users", users: nil, wantMsg: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Presence(tc.users, status)
			body, err := json.Marshal(got)
			require.NoError(t, err)
			if tc.wantMsg == "" {
				assert.NotContains(t, string(body), `"message"`)
			}
			assert.Equal(t, tc.wantMsg, got.Message)
			assert.Equal(t, status, got.Status)
			if tc.wantUser == "" {
				assert.Nil(t, got.User)
				return
			}
			require.NotNil(t, got.User)
			assert.Equal(t, tc.wantUser, got.User.ID)
		})
	}
}
