package export

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/futureppo/groupexport/pkg/utils"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// maxSheetNameRunes is the xlsx sheet-name length limit enforced by the format.
const maxSheetNameRunes = 31

// SingleSheetName derives the sheet name for a one-group workbook.
// groupID is kept as text so oversized identifiers truncate instead of failing.
func SingleSheetName(groupID string) string {
	return utils.TruncateRunes("Group_"+groupID, maxSheetNameRunes)
}

// GroupSheetName derives the per-group sheet name for a multi-group workbook.
func GroupSheetName(groupID string) string {
	return utils.TruncateRunes("G"+groupID, maxSheetNameRunes)
}

// sheetNamer hands out workbook-unique sheet names. When truncation makes two
// groups collide, later ones get a ~2, ~3, ... suffix, re-truncated so the
// result stays within the length limit.
type sheetNamer struct {
	used map[string]bool
}

func newSheetNamer() *sheetNamer {
	return &sheetNamer{used: make(map[string]bool)}
}

func (n *sheetNamer) unique(name string) string {
	if !n.used[name] {
		n.used[name] = true
		return name
	}
	for i := 2; ; i++ {
		suffix := "~" + strconv.Itoa(i)
		candidate := utils.TruncateRunes(name, maxSheetNameRunes-len(suffix)) + suffix
		if !n.used[candidate] {
			n.used[candidate] = true
			return candidate
		}
	}
}

// BuildSingle serializes one sheet under sheetName and returns the workbook bytes.
func BuildSingle(sheet *Sheet, sheetName string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("name sheet %q: %w", sheetName, err)
	}
	if err := writeSheet(f, sheetName, sheet); err != nil {
		return nil, err
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// FetchMembers fetches the raw roster for one group. It may fail; the
// multi-group builder logs and skips that group.
type FetchMembers func(group GroupIdentity) ([]json.RawMessage, error)

// BuildMulti assembles one sheet per group into a single workbook, fetching
// each roster through fetch. A failed fetch or an empty roster skips that
// group without aborting the rest. Returns the workbook bytes, the total
// member count, and the number of groups that produced a sheet; with zero
// processed groups the workbook is still valid, just empty.
func BuildMulti(groups []GroupIdentity, fetch FetchMembers, logger *zap.Logger) ([]byte, int, int, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	f := excelize.NewFile()
	defer f.Close()

	namer := newSheetNamer()
	totalMembers := 0
	processed := 0
	for _, group := range groups {
		members, err := fetch(group)
		if err != nil {
			logger.Error("group fetch failed, skipping",
				zap.Int64("group_id", group.ID),
				zap.String("group_name", group.Name),
				zap.Error(err))
			continue
		}
		sheet := BuildSheet(members, &group, logger)
		if len(sheet.Rows) == 0 {
			logger.Debug("group yielded no members, skipping", zap.Int64("group_id", group.ID))
			continue
		}

		name := namer.unique(GroupSheetName(strconv.FormatInt(group.ID, 10)))
		if processed == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return nil, 0, 0, fmt.Errorf("name sheet %q: %w", name, err)
			}
		} else {
			if _, err := f.NewSheet(name); err != nil {
				return nil, 0, 0, fmt.Errorf("add sheet %q: %w", name, err)
			}
		}
		if err := writeSheet(f, name, sheet); err != nil {
			return nil, 0, 0, err
		}
		totalMembers += len(sheet.Rows)
		processed++
		logger.Info("group exported",
			zap.Int64("group_id", group.ID),
			zap.String("group_name", group.Name),
			zap.Int("members", len(sheet.Rows)))
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, 0, 0, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), totalMembers, processed, nil
}

// writeSheet writes the header row and one row per record to an existing sheet.
// Cells in a row with no value for a column stay empty.
func writeSheet(f *excelize.File, name string, sheet *Sheet) error {
	cols := sheet.Columns()
	header := make([]interface{}, len(cols))
	colIndex := make(map[string]int, len(cols))
	for i, c := range cols {
		header[i] = c
		colIndex[c] = i
	}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return fmt.Errorf("write header for sheet %q: %w", name, err)
	}
	for rowNum, rec := range sheet.Rows {
		row := make([]interface{}, len(cols))
		for i := range row {
			row[i] = ""
		}
		for _, field := range rec.Fields() {
			row[colIndex[field.Key]] = CellValue(field.Value)
		}
		cell, err := excelize.CoordinatesToCellName(1, rowNum+2)
		if err != nil {
			return fmt.Errorf("row coordinates for sheet %q: %w", name, err)
		}
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return fmt.Errorf("write row %d for sheet %q: %w", rowNum+2, name, err)
		}
	}
	return nil
}
