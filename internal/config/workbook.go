// internal/config/workbook.go
package config

import (
	"fmt"
	"strings"

	"dmxMapper/internal/domain/dmxmap"
	"dmxMapper/internal/logging"

	"github.com/xuri/excelize/v2"
)

const (
	ChannelsSheet = "Channels"
	MapsSheet     = "Maps"
)

// SaveWorkbook writes the tables of m to an .xlsx file: the non-zero channel
// assignments on the Channels sheet (1-based channels) and every loadable map
// as one column of the Maps sheet.
func SaveWorkbook(m *dmxmap.Mapper, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(ChannelsSheet)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)

	headers := []string{"Channel", "Map"}
	if err := f.SetSheetRow(ChannelsSheet, "A1", &headers); err != nil {
		return err
	}
	row := 2
	for c, idx := range m.Assignments() {
		if idx == 0 {
			continue
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		values := []interface{}{c + 1, idx}
		if err := f.SetSheetRow(ChannelsSheet, cell, &values); err != nil {
			return err
		}
		row++
	}

	if _, err := f.NewSheet(MapsSheet); err != nil {
		return err
	}
	mapHeaders := []interface{}{"Value"}
	for i := 1; i < dmxmap.MaxMaps; i++ {
		mapHeaders = append(mapHeaders, fmt.Sprintf("Map %d", i))
	}
	if err := f.SetSheetRow(MapsSheet, "A1", &mapHeaders); err != nil {
		return err
	}

	var tables [dmxmap.MaxMaps][dmxmap.MaxValues]byte
	for i := range tables {
		tables[i], _ = m.Map(i)
	}
	for v := 0; v < dmxmap.MaxValues; v++ {
		values := []interface{}{v}
		for i := 1; i < dmxmap.MaxMaps; i++ {
			values = append(values, int(tables[i][v]))
		}
		cell, _ := excelize.CoordinatesToCellName(1, v+2)
		if err := f.SetSheetRow(MapsSheet, cell, &values); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(ChannelsSheet, "A", "B", 12); err != nil {
		return err
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("cannot save workbook %s: %w", path, err)
	}
	logging.LogInfo("Workbook: tables exported", "file", path)
	return nil
}

// LoadWorkbook reads a workbook written by SaveWorkbook into m, with the same
// rules as the text files: invalid channels, map 0 and unknown map columns are skipped,
// cells parse leniently and keep their low byte.
func LoadWorkbook(path string, m *dmxmap.Mapper) error {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return fmt.Errorf("cannot open workbook %s: %w", path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(ChannelsSheet)
	if err != nil {
		return fmt.Errorf("cannot read sheet %s: %w", ChannelsSheet, err)
	}
	var batch []dmxmap.Assignment
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if len(row) < 2 {
			logging.LogDebug("Workbook: row ignored", "sheet", ChannelsSheet, "row", i+1)
			continue
		}
		batch = append(batch, dmxmap.Assignment{Channel: ParseInt(row[0]) - 1, Map: ParseInt(row[1])})
	}
	applied := m.SetAssignments(batch)

	rows, err = f.GetRows(MapsSheet)
	if err != nil {
		return fmt.Errorf("cannot read sheet %s: %w", MapsSheet, err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("sheet %s is empty", MapsSheet)
	}

	columns := make(map[int]int)
	for col, h := range rows[0] {
		if col == 0 {
			continue
		}
		idx := ParseInt(strings.TrimPrefix(strings.TrimSpace(h), "Map"))
		if dmxmap.LoadableMap(idx) {
			columns[col] = idx
		}
	}

	tables := make(map[int][dmxmap.MaxValues]byte)
	for _, idx := range columns {
		tables[idx], _ = m.Map(idx)
	}
	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		v := ParseInt(row[0])
		if v < 0 || v >= dmxmap.MaxValues {
			continue
		}
		for col, idx := range columns {
			if col >= len(row) || strings.TrimSpace(row[col]) == "" {
				continue
			}
			table := tables[idx]
			table[v] = byte(ParseInt(row[col]))
			tables[idx] = table
		}
	}
	m.SetMaps(tables)

	logging.LogInfo("Workbook: tables imported", "file", path, "assignments", applied, "maps", len(tables))
	return nil
}
