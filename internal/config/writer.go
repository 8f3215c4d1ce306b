// internal/config/writer.go
package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"dmxMapper/internal/domain/dmxmap"
	"dmxMapper/internal/logging"
)

// WriteMappingFiles writes mappings.txt and one <N>.map per non-identity map into dir.
// Map files of identity maps are removed so that a later load matches m.
func WriteMappingFiles(dir string, m *dmxmap.Mapper) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	err := writeLines(filepath.Join(dir, AssignmentsFile), func(w *bufio.Writer) {
		fmt.Fprintln(w, "# channel,map (channel 1-512, map 1-19)")
		for c, idx := range m.Assignments() {
			if idx != 0 {
				fmt.Fprintf(w, "%d,%d\n", c+1, idx)
			}
		}
	})
	if err != nil {
		return err
	}

	written := 0
	for i := 1; i < dmxmap.MaxMaps; i++ {
		path := filepath.Join(dir, MapFileName(i))
		table, _ := m.Map(i)
		if dmxmap.IsIdentityTable(table) {
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				return err
			}
			continue
		}
		err := writeLines(path, func(w *bufio.Writer) {
			fmt.Fprintf(w, "# map %d: one output value per input value 0-255\n", i)
			for _, out := range table {
				fmt.Fprintln(w, out)
			}
		})
		if err != nil {
			return err
		}
		written++
	}

	logging.LogInfo("Writer: mapping files written", "dir", dir, "maps", written)
	return nil
}

func writeLines(path string, fill func(w *bufio.Writer)) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	fill(w)
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
