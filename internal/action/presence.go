package action

import "nova-sync-backend/internal/model"

var presenceMessages = map[model.FaceRecognitionStatus]string{
	model.FaceInactive: "User not detected. Nova system would prepare to enter sleep mode.",
	model.FaceActive:   "User active. System monitoring.",
}

// PresenceSummary is what the presence card shows.
type PresenceSummary struct {
	User    *model.UserProfile     `json:"user"`
	Message string                 `json:"message,omitempty"` // empty unless the face state is active or inactive
	Status  model.NovaSystemStatus `json:"status"`
}

// Presence picks the active user, the first one online with an active face
// match or else the first user, and derives the system action message.
func Presence(users []model.UserProfile, status model.NovaSystemStatus) PresenceSummary {
	summary := PresenceSummary{Status: status}
	if len(users) == 0 {
		return summary
	}

	current := users[0]
	for _, u := range users {
		if u.OnlineStatus == model.Online && u.FaceRecognitionStatus == model.FaceActive {
			current = u
			break
		}
	}
	summary.User = &current
	if msg, ok := presenceMessages[current.FaceRecognitionStatus]; ok {
		summary.Message = msg
	}
	return summary
}
