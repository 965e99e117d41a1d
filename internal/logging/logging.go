package logging

import (
	"fmt"
	"path/filepath"
	"time"
)

// AppName prefixes every log file.
const AppName = "nacawing"

// LogFilePath returns logsDir/<name>.<yyyymmdd_hhmmss>.log for a run started at start.
func LogFilePath(logsDir, name string, start time.Time) string {
	return filepath.Join(logsDir, fmt.Sprintf("%s.%s.log", name, start.Format("20060102_150405")))
}
