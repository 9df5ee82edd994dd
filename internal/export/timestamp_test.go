package export

import (
	"math"
	"regexp"
	"testing"
	"time"
)

var timestampPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}$`)

func TestFormatTimestampValid(t *testing.T) {
	cases := []Value{
		IntValue(0),
		IntValue(1700000000),
		FloatValue(0),
		FloatValue(1700000000.5),
	}
	for _, v := range cases {
		got := FormatTimestamp(v)
		if !timestampPattern.MatchString(got) {
			t.Errorf("FormatTimestamp(%+v) = %q, not a date-time", v, got)
		}
		if got == ZeroTimestamp {
			t.Errorf("FormatTimestamp(%+v) returned the sentinel", v)
		}
	}

	want := time.Unix(1700000000, 0).Format("2006-01-02 15:04:05")
	if got := FormatTimestamp(IntValue(1700000000)); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatTimestampSentinel(t *testing.T) {
	cases := []Value{
		IntValue(-1),
		FloatValue(-0.5),
		FloatValue(math.NaN()),
		FloatValue(math.Inf(1)),
		StringValue("1700000000"),
		BoolValue(true),
		Null(),
	}
	for _, v := range cases {
		if got := FormatTimestamp(v); got != ZeroTimestamp {
			t.Errorf("FormatTimestamp(%+v) = %q, want sentinel", v, got)
		}
	}
}

func TestZeroTimestampLiteral(t *testing.T) {
	if ZeroTimestamp != "0000-00-00 00:00:00" {
		t.Errorf("sentinel changed: %q", ZeroTimestamp)
	}
}
