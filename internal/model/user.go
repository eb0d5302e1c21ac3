package model

import "time"

// FaceRecognitionStatus is the state of the camera-based presence detector for a user.
type FaceRecognitionStatus string

const (
	FaceActive   FaceRecognitionStatus = "active"
	FaceInactive FaceRecognitionStatus = "inactive"
	FaceUnknown  FaceRecognitionStatus = "unknown"
	FaceError    FaceRecognitionStatus = "error"
	FacePending  FaceRecognitionStatus = "pending"
)

// OnlineStatus reports whether a user is connected.
type OnlineStatus string

const (
	Online  OnlineStatus = "online"
	Offline OnlineStatus = "offline"
)

// UserProfile is a known dashboard user.
type UserProfile struct {
	ID                    string                `json:"id"`
	Name                  string                `json:"name"`
	FaceRecognitionStatus FaceRecognitionStatus `json:"faceRecognitionStatus"`
	OnlineStatus          OnlineStatus          `json:"onlineStatus"`
	LastSeen              time.Time             `json:"lastSeen"`
	AvatarURL             string                `json:"avatarUrl,omitempty"`
}
