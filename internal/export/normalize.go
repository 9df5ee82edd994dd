package export

// textFields are the fields whose string values are sanitized for cell text.
var textFields = map[string]bool{
	"nickname": true,
	"card":     true,
	"title":    true,
}

// timestampFields lists the fields rendered as date-time strings, in the
// order missing ones are materialized. A nil default means "never": when the
// field is absent, or its raw value is zero or below (the platform reports 0
// for members who never acted), the zero sentinel is rendered. A non-nil
// default is formatted as-is when the field is absent.
var timestampFields = []struct {
	key string
	def *int64
}{
	{key: "join_time"},
	{key: "last_sent_time"},
	{key: "title_expire_time", def: new(int64)},
	{key: "shut_up_timestamp", def: new(int64)},
}

// Normalize returns a copy of rec with the designated text fields sanitized
// and the designated timestamp fields replaced by formatted date-time
// strings. All four timestamp fields are present in the output even when the
// input supplied none; every other field passes through unchanged in source
// order. A nil rec yields nil.
func Normalize(rec *Record) *Record {
	if rec == nil {
		return nil
	}
	out := NewRecord()
	for _, f := range rec.Fields() {
		switch {
		case textFields[f.Key]:
			out.Set(f.Key, SanitizeValue(f.Value))
		case isTimestampField(f.Key):
			out.Set(f.Key, StringValue(formatTimestampField(f.Key, f.Value, true)))
		default:
			out.Set(f.Key, f.Value)
		}
	}
	for _, tf := range timestampFields {
		if _, ok := out.Get(tf.key); !ok {
			out.Set(tf.key, StringValue(formatTimestampField(tf.key, Value{}, false)))
		}
	}
	return out
}

func isTimestampField(key string) bool {
	for _, tf := range timestampFields {
		if tf.key == key {
			return true
		}
	}
	return false
}

// formatTimestampField applies the per-field default policy before formatting.
func formatTimestampField(key string, v Value, present bool) string {
	var def *int64
	for _, tf := range timestampFields {
		if tf.key == key {
			def = tf.def
			break
		}
	}
	if !present {
		if def == nil {
			return ZeroTimestamp
		}
		return FormatTimestamp(IntValue(*def))
	}
	if def == nil {
		// "never" fields: zero and below mean the event has not happened
		if (v.Kind == KindInt && v.Int <= 0) || (v.Kind == KindFloat && v.Float <= 0) {
			return ZeroTimestamp
		}
	}
	return FormatTimestamp(v)
}
