package model

import (
	"time"

	"gorm.io/datatypes"
)

// SystemLog is a single activity event. EventData holds either a JSON object or a JSON string.
type SystemLog struct {
	ID        string         `gorm:"primaryKey;size:64" json:"id"`
	Timestamp time.Time      `gorm:"not null;index" json:"timestamp"`
	UserID    string         `gorm:"size:64" json:"userId,omitempty"`
	EventType string         `gorm:"size:64;not null" json:"eventType"`
	EventData datatypes.JSON `json:"eventData"`
	Details   string         `json:"details,omitempty"`
}

// Clone returns a copy that shares no memory with l.
func (l SystemLog) Clone() SystemLog {
	l.EventData = cloneJSON(l.EventData)
	return l
}

// LogArchive is the persisted form of a SystemLog, written when the log is
// created. EvictedAt is set once the log drops out of the live window.
type LogArchive struct {
	SystemLog  `gorm:"embedded"`
	ArchivedAt time.Time  `gorm:"not null" json:"archivedAt"`
	EvictedAt  *time.Time `gorm:"index" json:"evictedAt,omitempty"`
}

func cloneJSON(j datatypes.JSON) datatypes.JSON {
	if j == nil {
		return nil
	}
	out := make(datatypes.JSON, len(j))
	copy(out, j)
	return out
}
