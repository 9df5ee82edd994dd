package export

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseRecordPreservesOrder(t *testing.T) {
	raw := json.RawMessage(`{"user_id":10001,"nickname":"alice","role":"member","age":1.5,"ok":true,"extra":null}`)
	rec, err := ParseRecord(raw)
	if err != nil {
		t.Fatalf("ParseRecord error: %v", err)
	}
	wantKeys := []string{"user_id", "nickname", "role", "age", "ok", "extra"}
	fields := rec.Fields()
	if len(fields) != len(wantKeys) {
		t.Fatalf("got %d fields, want %d", len(fields), len(wantKeys))
	}
	for i, k := range wantKeys {
		if fields[i].Key != k {
			t.Errorf("field %d: got key %q, want %q", i, fields[i].Key, k)
		}
	}

	if v, _ := rec.Get("user_id"); v.Kind != KindInt || v.Int != 10001 {
		t.Errorf("user_id: %+v", v)
	}
	if v, _ := rec.Get("nickname"); v.Kind != KindString || v.Str != "alice" {
		t.Errorf("nickname: %+v", v)
	}
	if v, _ := rec.Get("age"); v.Kind != KindFloat || v.Float != 1.5 {
		t.Errorf("age: %+v", v)
	}
	if v, _ := rec.Get("ok"); v.Kind != KindBool || !v.Bool {
		t.Errorf("ok: %+v", v)
	}
	if v, _ := rec.Get("extra"); v.Kind != KindNull {
		t.Errorf("extra: %+v", v)
	}
}

func TestParseRecordNestedValuesKeptRaw(t *testing.T) {
	rec, err := ParseRecord(json.RawMessage(`{"tags":["a","b"],"meta":{"x":1}}`))
	if err != nil {
		t.Fatalf("ParseRecord error: %v", err)
	}
	if v, _ := rec.Get("tags"); v.Kind != KindRaw || string(v.Raw) != `["a","b"]` {
		t.Errorf("tags: %+v", v)
	}
	if v, _ := rec.Get("meta"); v.Kind != KindRaw {
		t.Errorf("meta: %+v", v)
	}
}

func TestParseRecordRejectsNonObjects(t *testing.T) {
	for _, raw := range []string{`[1,2]`, `"text"`, `42`, `null`, `true`} {
		_, err := ParseRecord(json.RawMessage(raw))
		if !errors.Is(err, ErrNotObject) {
			t.Errorf("ParseRecord(%s): got %v, want ErrNotObject", raw, err)
		}
	}
}

func TestParseRecordLargeIntegerStaysExact(t *testing.T) {
	rec, err := ParseRecord(json.RawMessage(`{"group_id":9007199254740993}`))
	if err != nil {
		t.Fatalf("ParseRecord error: %v", err)
	}
	if v, _ := rec.Get("group_id"); v.Kind != KindInt || v.Int != 9007199254740993 {
		t.Errorf("large int lost precision: %+v", v)
	}
}

func TestRecordSetReplacesInPlace(t *testing.T) {
	rec := NewRecord()
	rec.Set("a", IntValue(1))
	rec.Set("b", IntValue(2))
	rec.Set("a", IntValue(3))
	if rec.Len() != 2 {
		t.Fatalf("got %d fields", rec.Len())
	}
	if rec.Fields()[0].Key != "a" || rec.Fields()[0].Value.Int != 3 {
		t.Errorf("replace moved or lost the field: %+v", rec.Fields())
	}
}
