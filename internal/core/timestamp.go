package core

import (
	"encoding/json"
	"time"
)

// millisThreshold separates second from millisecond UNIX timestamps.
// 10^12 is roughly the millisecond timestamp of September 2001, so the
// heuristic is ambiguous for dates before then. Callers feeding historical
// data older than that must normalize upstream.
const millisThreshold = 1_000_000_000_000

// NormalizeTimestamp converts a loosely typed timestamp into UNIX seconds.
// Accepted inputs: a number in seconds, a number in milliseconds (anything
// strictly above millisThreshold), or an ISO-8601 / RFC 3339 string.
// Everything else yields ErrInvalidTimestamp.
func NormalizeTimestamp(v any) (int64, error) {
	switch t := v.(type) {
	case int64:
		return normalizeNumeric(t), nil
	case int:
		return normalizeNumeric(int64(t)), nil
	case float64:
		return normalizeNumeric(int64(t)), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, WrapError(ErrInvalidTimestamp, err)
		}
		return normalizeNumeric(int64(f)), nil
	case string:
		ts, err := time.Parse(time.RFC3339Nano, t)
		if err != nil {
			return 0, WrapError(ErrInvalidTimestamp, err)
		}
		return ts.Unix(), nil
	case time.Time:
		return t.Unix(), nil
	default:
		return 0, ErrInvalidTimestamp
	}
}

func normalizeNumeric(n int64) int64 {
	if n > millisThreshold {
		return n / 1000
	}
	return n
}
