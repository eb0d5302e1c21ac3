package model

import "time"

// AIStatus is the state of the Nova AI subsystem.
type AIStatus string

const (
	AIOnline       AIStatus = "online"
	AIOffline      AIStatus = "offline"
	AIInitializing AIStatus = "initializing"
	AIError        AIStatus = "error"
)

// NovaSystemStatus is the singleton snapshot of the AI subsystem.
type NovaSystemStatus struct {
	AIStatus    AIStatus  `json:"aiStatus"`
	LastSync    time.Time `json:"lastSync"`
	CPUUsage    float64   `json:"cpuUsage"`    // percent
	MemoryUsage float64   `json:"memoryUsage"` // percent
	ActiveUser  string    `json:"activeUser,omitempty"`
}
