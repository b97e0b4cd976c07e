package config

import (
	"strconv"
	"time"
)

// parseDuration accepts Go durations and plain seconds, "1.5s" or "1.5".
func parseDuration(s string) (time.Duration, error) {
	if secs, err := strconv.ParseFloat(s, 64); nil == err {
		return time.Duration(secs * float64(time.Second)), nil
	}
	return time.ParseDuration(s)
}
