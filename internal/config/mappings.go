// internal/config/mappings.go
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"strconv"
	"strings"

	"dmxMapper/internal/domain/dmxmap"
	"dmxMapper/internal/logging"
)

const AssignmentsFile = "mappings.txt"

// MapFileName is the file holding value map idx, e.g. "3.map".
func MapFileName(idx int) string {
	return strconv.Itoa(idx) + ".map"
}

// IsLineComment reports whether a line starts with '#' or ';'.
func IsLineComment(line string) bool {
	return strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";")
}

// ParseInt reads a leading integer the lenient way: leading blanks, an optional sign,
// then digits up to the first non-digit. No digits gives 0. Overflow saturates.
func ParseInt(s string) int {
	i := 0
	for i < len(s) && isBlank(s[i]) {
		i++
	}
	neg := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}
	n := 0
	for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		if n > (math.MaxInt32-9)/10 {
			n = math.MaxInt32
			continue
		}
		n = n*10 + int(s[i]-'0')
	}
	if neg {
		return -n
	}
	return n
}

func isBlank(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

// ParseAssignment reads a "<1-based channel>,<map>" line. The channel is returned 0-based.
// A missing map field reads as map 0.
func ParseAssignment(line string) dmxmap.Assignment {
	chanField, mapField, _ := strings.Cut(line, ",")
	return dmxmap.Assignment{
		Channel: ParseInt(chanField) - 1,
		Map:     ParseInt(mapField),
	}
}

// LoadChannelAssignments reads mappings.txt from fsys into m.
// The error wraps fs.ErrNotExist when the file is absent; lines that do not name a
// valid channel and a map in 1..MaxMaps-1 are skipped without error.
func LoadChannelAssignments(fsys fs.FS, m *dmxmap.Mapper) error {
	f, err := fsys.Open(AssignmentsFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logging.LogWarn("Mappings: no assignment file", "file", AssignmentsFile)
		}
		return fmt.Errorf("cannot open %s: %w", AssignmentsFile, err)
	}
	defer f.Close()

	var batch []dmxmap.Assignment
	err = eachLine(f, func(line string) {
		if IsLineComment(line) {
			logging.LogDebug("Mappings: line ignored", "line", line)
			return
		}
		a := ParseAssignment(line)
		if !dmxmap.ValidChannel(a.Channel) || !dmxmap.LoadableMap(a.Map) {
			logging.LogDebug("Mappings: entry dropped", "line", line, "chan", a.Channel, "map", a.Map)
			return
		}
		logging.LogDebug("Mappings: entry", "chan", a.Channel, "map", a.Map)
		batch = append(batch, a)
	})
	if err != nil {
		logging.LogWarn("Mappings: read stopped early", "file", AssignmentsFile, "error", err)
	}

	applied := m.SetAssignments(batch)
	logging.LogInfo("Mappings: channel assignments loaded", "file", AssignmentsFile, "applied", applied)
	return nil
}

// LoadValueMaps reads 1.map .. 19.map from fsys into m. Missing files leave their map
// unchanged. It returns the indices of the maps that were read.
func LoadValueMaps(fsys fs.FS, m *dmxmap.Mapper) []int {
	tables := make(map[int][dmxmap.MaxValues]byte)
	var loaded []int

	for i := 1; i < dmxmap.MaxMaps; i++ {
		name := MapFileName(i)
		f, err := fsys.Open(name)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				logging.LogWarn("Maps: cannot open map file", "file", name, "error", err)
			} else {
				logging.LogDebug("Maps: no file", "file", name)
			}
			continue
		}

		table, _ := m.Map(i)
		table, err = readValueMap(f, table)
		f.Close()
		if err != nil {
			logging.LogWarn("Maps: read stopped early", "file", name, "error", err)
		}

		tables[i] = table
		loaded = append(loaded, i)
		logging.LogDebug("Maps: file read", "file", name)
	}

	m.SetMaps(tables)
	logging.LogInfo("Maps: value maps loaded", "count", len(loaded))
	return loaded
}

// readValueMap overwrites table from the start with one value per non-comment line.
func readValueMap(r io.Reader, table [dmxmap.MaxValues]byte) ([dmxmap.MaxValues]byte, error) {
	pos := 0
	err := eachLine(r, func(line string) {
		if IsLineComment(line) {
			logging.LogDebug("Maps: line ignored", "line", line)
			return
		}
		if pos >= dmxmap.MaxValues {
			return
		}
		table[pos] = byte(ParseInt(line))
		pos++
	})
	return table, err
}

// eachLine calls fn for every line of r without its line ending. Lines have no
// length limit.
func eachLine(r io.Reader, fn func(line string)) error {
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			fn(strings.TrimRight(line, "\r\n"))
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// LoadTables re-reads both tables from fsys into a fresh staging mapper and swaps it
// into m in one step. When mappings.txt is absent the current assignments of m are
// kept and the error is returned.
func LoadTables(fsys fs.FS, m *dmxmap.Mapper) error {
	staging := dmxmap.New()

	err := LoadChannelAssignments(fsys, staging)
	if err != nil {
		var keep []dmxmap.Assignment
		for c, idx := range m.Assignments() {
			if idx != 0 {
				keep = append(keep, dmxmap.Assignment{Channel: c, Map: idx})
			}
		}
		staging.SetAssignments(keep)
	}
	LoadValueMaps(fsys, staging)

	m.CopyFrom(staging)
	return err
}
