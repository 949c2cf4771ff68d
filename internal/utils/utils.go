package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatFileSize converts bytes to human-readable format
func FormatFileSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}

// FormatUnixMillis renders t as a decimal count of milliseconds since the
// epoch, the representation used for persisted deadlines.
func FormatUnixMillis(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}

// maxUnixMillis is the last millisecond of year 9999
const maxUnixMillis = 253402300799999

// ParseUnixMillis parses a decimal millisecond timestamp. A fractional part
// is accepted and truncated. Negative values and values past year 9999 are
// rejected.
func ParseUnixMillis(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		if ms < 0 || ms > maxUnixMillis {
			return time.Time{}, fmt.Errorf("timestamp %q out of range", s)
		}
		return time.UnixMilli(ms), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
	}
	if !(f >= 0 && f <= maxUnixMillis) {
		return time.Time{}, fmt.Errorf("timestamp %q out of range", s)
	}
	return time.UnixMilli(int64(f)), nil
}
