package feed

import (
	"errors"
	"fmt"
	"time"

	"nova-sync-backend/internal/model"
	"nova-sync-backend/internal/seed"
)

// Key names one of the datasets served by the hub.
type Key string

const (
	KeyUsers    Key = "users"
	KeyLogs     Key = "logs"
	KeyCommands Key = "commands"
	KeyStatus   Key = "status"
)

// Keys lists every dataset key in a stable order.
var Keys = []Key{KeyUsers, KeyLogs, KeyCommands, KeyStatus}

// ErrUnknownKey is returned for a key outside Keys.
var ErrUnknownKey = errors.New("unknown feed key")

// ParseKey validates a raw key.
func ParseKey(s string) (Key, error) {
	for _, k := range Keys {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKey, s)
}

// Dataset is the full mutable state owned by a Hub.
type Dataset struct {
	Users    []model.UserProfile
	Logs     []model.SystemLog
	Commands []model.Command
	Status   model.NovaSystemStatus
}

// SeedDataset builds the demo dataset with timestamps relative to now.
func SeedDataset(now time.Time) Dataset {
	return Dataset{
		Users:    seed.Users(now),
		Logs:     seed.Logs(now),
		Commands: seed.Commands(now),
		Status:   seed.Status(now),
	}
}

// Snapshot is a deep copy of one dataset. Only the field matching Key is set.
type Snapshot struct {
	Key      Key
	Users    []model.UserProfile
	Logs     []model.SystemLog
	Commands []model.Command
	Status   *model.NovaSystemStatus
}

// Data returns the dataset carried by the snapshot, ready for JSON encoding.
func (s Snapshot) Data() any {
	switch s.Key {
	case KeyUsers:
		return s.Users
	case KeyLogs:
		return s.Logs
	case KeyCommands:
		return s.Commands
	case KeyStatus:
		return s.Status
	}
	return nil
}

// Clone returns a snapshot that shares no memory with s.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{Key: s.Key}
	switch s.Key {
	case KeyUsers:
		out.Users = cloneUsers(s.Users)
	case KeyLogs:
		out.Logs = cloneLogs(s.Logs)
	case KeyCommands:
		out.Commands = cloneCommands(s.Commands)
	case KeyStatus:
		if s.Status != nil {
			st := *s.Status
			out.Status = &st
		}
	}
	return out
}

func (d *Dataset) snapshot(key Key) Snapshot {
	switch key {
	case KeyUsers:
		return Snapshot{Key: key, Users: cloneUsers(d.Users)}
	case KeyLogs:
		return Snapshot{Key: key, Logs: cloneLogs(d.Logs)}
	case KeyCommands:
		return Snapshot{Key: key, Commands: cloneCommands(d.Commands)}
	default:
		st := d.Status
		return Snapshot{Key: KeyStatus, Status: &st}
	}
}

func cloneUsers(in []model.UserProfile) []model.UserProfile {
	out := make([]model.UserProfile, len(in))
	copy(out, in)
	return out
}

func cloneLogs(in []model.SystemLog) []model.SystemLog {
	out := make([]model.SystemLog, len(in))
	for i, l := range in {
		out[i] = l.Clone()
	}
	return out
}

func cloneCommands(in []model.Command) []model.Command {
	out := make([]model.Command, len(in))
	for i, c := range in {
		out[i] = c.Clone()
	}
	return out
}
