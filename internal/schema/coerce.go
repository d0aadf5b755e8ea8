package schema

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// timestampLayouts are tried in order when parsing timestamp and date
// columns. The Kobo export mixes RFC3339 values with zone-less and
// date-only forms depending on the question type.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Coerce converts a raw string value to the Go value for the given kind.
// It is total: an unparsable value becomes nil (SQL NULL), never an error.
// Text passes through verbatim, including the empty string.
func Coerce(kind Kind, raw string) interface{} {
	if kind == KindText {
		return raw
	}

	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}

	switch kind {
	case KindTimestamp:
		if t, ok := parseTimestamp(s); ok {
			return t
		}
	case KindDate:
		if t, ok := parseTimestamp(s); ok {
			return truncateToDate(t)
		}
	case KindInteger, KindBigInt:
		if n, ok := parseInteger(s); ok {
			return n
		}
	}

	return nil
}

func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseInteger accepts plain integers and integral decimal forms like "34.0",
// which the export produces for numeric questions. Non-integral floats,
// NaN/Inf and values outside the int64 range are rejected, not truncated.
func parseInteger(s string) (int64, bool) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		// math.MaxInt64 rounds up to 2^63 as a float64, so the upper
		// bound check must be strict.
		if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return 0, false
		}
		return int64(f), true
	}
	return 0, false
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
