package model

import (
	"time"

	"gorm.io/datatypes"
)

// CommandStatus is the lifecycle state of a queued command.
type CommandStatus string

const (
	CommandPending    CommandStatus = "pending"
	CommandInProgress CommandStatus = "in_progress"
	CommandCompleted  CommandStatus = "completed"
	CommandFailed     CommandStatus = "failed"
	CommandQueued     CommandStatus = "queued"
)

// Command is a unit of work requested from the dashboard or the local agent.
type Command struct {
	ID          string         `json:"id"`
	CommandName string         `json:"commandName"`
	Payload     datatypes.JSON `json:"payload,omitempty"`
	Status      CommandStatus  `json:"status"`
	CreatedAt   time.Time      `json:"createdAt"`
	ExecutedAt  *time.Time     `json:"executedAt,omitempty"`
	RequestedBy string         `json:"requestedBy,omitempty"`
	Error       string         `json:"error,omitempty"`
}

// Clone returns a copy that shares no memory with c.
func (c Command) Clone() Command {
	c.Payload = cloneJSON(c.Payload)
	if c.ExecutedAt != nil {
		t := *c.ExecutedAt
		c.ExecutedAt = &t
	}
	return c
}

// CommandTransition records one observed status change of a command.
type CommandTransition struct {
	ID          int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	CommandID   string        `gorm:"size:64;not null;index" json:"commandId"`
	CommandName string        `gorm:"size:128;not null" json:"commandName"`
	From        CommandStatus `gorm:"column:from_status;size:32;not null" json:"from"`
	To          CommandStatus `gorm:"column:to_status;size:32;not null" json:"to"`
	ObservedAt  time.Time     `gorm:"not null;index" json:"observedAt"`
}
