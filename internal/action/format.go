package action

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"nova-sync-backend/internal/model"
)

// MaxPromptLogs is the number of log entries included in a prompt.
const MaxPromptLogs = 20

// promptTimeLayout renders a 12-hour wall clock time, e.g. "3:04:05 PM".
const promptTimeLayout = "3:04:05 PM"

// FormatLogsForAI renders the first MaxPromptLogs entries, one per line, as
// "[time] eventType: details", falling back to the JSON payload when a log
// has no details. Times are shown in loc.
func FormatLogsForAI(logs []model.SystemLog, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	if len(logs) > MaxPromptLogs {
		logs = logs[:MaxPromptLogs]
	}

	lines := make([]string, 0, len(logs))
	for _, l := range logs {
		lines = append(lines, fmt.Sprintf("[%s] %s: %s", l.Timestamp.In(loc).Format(promptTimeLayout), l.EventType, describe(l)))
	}
	return strings.Join(lines, "\n")
}

func describe(l model.SystemLog) string {
	if l.Details != "" {
		return l.Details
	}
	if len(l.EventData) == 0 {
		return "null"
	}
	var b bytes.Buffer
	if err := json.Compact(&b, l.EventData); err != nil {
		return string(l.EventData)
	}
	return b.String()
}
