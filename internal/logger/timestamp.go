package logger

import (
	"strings"
	"time"
)

// ParseTimestamp extracts the record time from a line written by either
// handler. It returns the zero time when the line carries none.
func ParseTimestamp(line string) time.Time {
	// Text: "[2006-01-02 15:04:05] [INFO] ..."
	if len(line) >= len(time.DateTime)+2 && line[0] == '[' && line[len(time.DateTime)+1] == ']' {
		if t, err := time.ParseInLocation(time.DateTime, line[1:len(time.DateTime)+1], time.Local); err == nil {
			return t
		}
	}

	// JSON: {"time":"2024-01-15T10:30:45.123456789Z",...}
	const timeKey = `"time":"`
	if idx := strings.Index(line, timeKey); idx >= 0 {
		rest := line[idx+len(timeKey):]
		if end := strings.IndexByte(rest, '"'); end > 0 {
			if t, err := time.Parse(time.RFC3339Nano, rest[:end]); err == nil {
				return t
			}
		}
	}

	return time.Time{}
}
