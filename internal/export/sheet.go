package export

import (
	"encoding/json"

	"go.uber.org/zap"
)

// GroupIdentity names a group whose roster is being exported.
type GroupIdentity struct {
	ID   int64
	Name string
}

// Sheet is one named table of normalized member rows.
type Sheet struct {
	Rows []*Record
}

// BuildSheet normalizes raw member entries into one sheet. Entries that are
// not JSON objects are dropped with a warning and do not abort the export.
// When group is non-nil every row gets a sanitized group_name column, used to
// tell rows apart in a multi-group workbook.
func BuildSheet(members []json.RawMessage, group *GroupIdentity, logger *zap.Logger) *Sheet {
	if logger == nil {
		logger = zap.NewNop()
	}
	sheet := &Sheet{}
	for _, entry := range members {
		rec, err := ParseRecord(entry)
		if err != nil {
			logger.Warn("skipping malformed member entry", zap.Error(err))
			continue
		}
		row := Normalize(rec)
		if group != nil {
			row.Set("group_name", StringValue(Sanitize(group.Name)))
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet
}

// Columns returns the union of keys across all rows, in first-seen order.
func (s *Sheet) Columns() []string {
	var cols []string
	seen := make(map[string]bool)
	for _, row := range s.Rows {
		for _, f := range row.Fields() {
			if !seen[f.Key] {
				seen[f.Key] = true
				cols = append(cols, f.Key)
			}
		}
	}
	return cols
}

// CellValue renders v for a spreadsheet cell. Null renders as an empty cell;
// nested JSON renders as its compact text.
func CellValue(v Value) interface{} {
	switch v.Kind {
	case KindBool:
		return v.Bool
	case KindInt:
		return v.Int
	case KindFloat:
		return v.Float
	case KindString:
		return v.Str
	case KindRaw:
		return string(v.Raw)
	default:
		return ""
	}
}
