package export

import (
	"math"
	"time"
)

// ZeroTimestamp is the placeholder rendered for a missing or invalid timestamp.
const ZeroTimestamp = "0000-00-00 00:00:00"

const timestampLayout = "2006-01-02 15:04:05"

// FormatTimestamp renders v as a local date-time string when it is a number of
// whole seconds since the Unix epoch, zero or later. Anything else (missing,
// negative, non-numeric, out of range) renders ZeroTimestamp.
func FormatTimestamp(v Value) string {
	switch v.Kind {
	case KindInt:
		if v.Int >= 0 {
			return time.Unix(v.Int, 0).Format(timestampLayout)
		}
	case KindFloat:
		if v.Float >= 0 && v.Float < float64(math.MaxInt64) {
			return time.Unix(int64(v.Float), 0).Format(timestampLayout)
		}
	}
	return ZeroTimestamp
}
