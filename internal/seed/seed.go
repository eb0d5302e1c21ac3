// Package seed holds the demo dataset the feed starts from.
package seed

import (
	"time"

	"gorm.io/datatypes"

	"nova-sync-backend/internal/model"
)

// Users returns the seeded user profiles. Timestamps are relative to now.
func Users(now time.Time) []model.UserProfile {
	return []model.UserProfile{
		{
			ID:                    "user1",
			Name:                  "Authorized User",
			FaceRecognitionStatus: model.FaceActive,
			OnlineStatus:          model.Online,
			LastSeen:              now,
			AvatarURL:             "https://placehold.co/100x100.png",
		},
		{
			ID:                    "user2",
			Name:                  "Guest User",
			FaceRecognitionStatus: model.FaceInactive,
			OnlineStatus:          model.Offline,
			LastSeen:              now.Add(-48 * time.Hour),
			AvatarURL:             "https://placehold.co/100x100.png",
		},
	}
}

// Logs returns the seeded activity logs, most recent first.
func Logs(now time.Time) []model.SystemLog {
	return []model.SystemLog{
		{
			ID:        "log1",
			Timestamp: now.Add(-5 * time.Second),
			EventType: "appLaunch",
			EventData: datatypes.JSON(`{"app":"Nova Sync Dashboard"}`),
			Details:   "Application 'Nova Sync Dashboard' launched.",
		},
		{
			ID:        "log2",
			Timestamp: now.Add(-10 * time.Second),
			EventType: "cursorMove",
			EventData: datatypes.JSON(`{"x":120,"y":340}`),
			Details:   "Cursor moved to (120, 340).",
		},
		{
			ID:        "log3",
			Timestamp: now.Add(-15 * time.Second),
			EventType: "keypress",
			EventData: datatypes.JSON(`{"key":"Enter"}`),
			Details:   "Key 'Enter' pressed.",
		},
		{
			ID:        "log4",
			Timestamp: now.Add(-20 * time.Second),
			EventType: "downloadStart",
			EventData: datatypes.JSON(`{"file":"update_package.zip","url":"https://example.com/update.zip"}`),
			Details:   "Download started: update_package.zip",
		},
		{
			ID:        "log5",
			Timestamp: now.Add(-5 * time.Minute),
			EventType: "userLogin",
			UserID:    "user1",
			EventData: datatypes.JSON(`{"method":"facial_recognition"}`),
			Details:   "User 'Authorized User' logged in via facial recognition.",
		},
	}
}

// Commands returns the seeded command queue.
func Commands(now time.Time) []model.Command {
	at := func(d time.Duration) *time.Time {
		t := now.Add(-d)
		return &t
	}
	return []model.Command{
		{
			ID:          "cmd1",
			CommandName: "turnOnWifi",
			Status:      model.CommandCompleted,
			CreatedAt:   now.Add(-10 * time.Minute),
			ExecutedAt:  at(9 * time.Minute),
			RequestedBy: "dashboard",
		},
		{
			ID:          "cmd2",
			CommandName: "downloadFile",
			Payload:     datatypes.JSON(`{"url":"https://example.com/important_document.pdf","destination":"/docs"}`),
			Status:      model.CommandInProgress,
			CreatedAt:   now.Add(-5 * time.Minute),
			RequestedBy: "nova-local",
		},
		{
			ID:          "cmd3",
			CommandName: "moveMouse",
			Payload:     datatypes.JSON(`{"x":800,"y":600}`),
			Status:      model.CommandPending,
			CreatedAt:   now.Add(-2 * time.Minute),
			RequestedBy: "dashboard",
		},
		{
			ID:          "cmd4",
			CommandName: "optimizeSystem",
			Status:      model.CommandFailed,
			Error:       "Permission denied for resource cleanup.",
			CreatedAt:   now.Add(-15 * time.Minute),
			ExecutedAt:  at(14 * time.Minute),
			RequestedBy: "nova-local",
		},
		{
			ID:          "cmd5",
			CommandName: "shutdown",
			Status:      model.CommandQueued,
			CreatedAt:   now,
			RequestedBy: "dashboard",
		},
	}
}

// Status returns the seeded system status.
func Status(now time.Time) model.NovaSystemStatus {
	return model.NovaSystemStatus{
		AIStatus:    model.AIOnline,
		LastSync:    now,
		CPUUsage:    35.5,
		MemoryUsage: 60.2,
		ActiveUser:  "Authorized User",
	}
}
