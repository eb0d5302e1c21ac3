package feed

import (
	"encoding/json"
	"math"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"nova-sync-backend/internal/model"
)

// MaxLogs is the size of the live log window.
const MaxLogs = 20

// Utilization ranges for the simulated status. Upper bounds are exclusive.
const (
	cpuMin    = 20.0
	cpuMax    = 80.0
	memoryMin = 30.0
	memoryMax = 80.0
)

// Transition is a command status change applied by a tick.
type Transition struct {
	Command model.Command
	From    model.CommandStatus
}

// Change describes what a single tick did to the dataset.
type Change struct {
	At       time.Time
	Log      model.SystemLog
	Evicted  []model.SystemLog
	Advanced *Transition
}

// synthesizeLog fabricates one cursor or keyboard event.
func synthesizeLog(r *rand.Rand, now time.Time) model.SystemLog {
	entry := model.SystemLog{
		ID:        "log-" + uuid.NewString(),
		Timestamp: now,
	}

	var payload any
	if r.Float64() > 0.5 {
		entry.EventType = "cursorMove"
		entry.Details = "Cursor moved."
		payload = map[string]int{"x": r.IntN(1000), "y": r.IntN(800)}
	} else {
		entry.EventType = "keypress"
		entry.Details = "Key pressed."
		payload = map[string]string{"key": string(rune('a' + r.IntN(26)))}
	}

	// Marshalling plain maps of ints and strings cannot fail.
	raw, _ := json.Marshal(payload)
	entry.EventData = datatypes.JSON(raw)
	return entry
}

// prependLog puts entry in front of logs and drops whatever falls past MaxLogs.
func prependLog(logs []model.SystemLog, entry model.SystemLog) ([]model.SystemLog, []model.SystemLog) {
	out := make([]model.SystemLog, 0, len(logs)+1)
	out = append(out, entry)
	out = append(out, logs...)
	if len(out) <= MaxLogs {
		return out, nil
	}
	evicted := make([]model.SystemLog, len(out)-MaxLogs)
	copy(evicted, out[MaxLogs:])
	return out[:MaxLogs:MaxLogs], evicted
}

// advanceCommand moves the first pending command to in_progress.
func advanceCommand(cmds []model.Command) (*Transition, bool) {
	for i := range cmds {
		if cmds[i].Status != model.CommandPending {
			continue
		}
		cmds[i].Status = model.CommandInProgress
		return &Transition{Command: cmds[i].Clone(), From: model.CommandPending}, true
	}
	return nil, false
}

// refreshStatus redraws the utilization figures and stamps the sync time.
func refreshStatus(s *model.NovaSystemStatus, r *rand.Rand, now time.Time) {
	s.LastSync = now
	s.CPUUsage = drawPercent(r, cpuMin, cpuMax)
	s.MemoryUsage = drawPercent(r, memoryMin, memoryMax)
}

// drawPercent draws uniformly from [lo, hi) with one decimal place.
func drawPercent(r *rand.Rand, lo, hi float64) float64 {
	v := math.Round((r.Float64()*(hi-lo)+lo)*10) / 10
	return clampPercent(v, lo, hi)
}

// clampPercent keeps v inside [lo, hi); rounding can otherwise reach hi.
func clampPercent(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v >= hi {
		return hi - 0.1
	}
	return v
}
