// internal/config/routes.go
package config

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"dmxMapper/internal/logging"
)

// LoadRoutes reads a ';' separated routing file:
//
//	Name;In Universe;Out Universe;ArtNet IP
//
// The first row is a header. Rows with missing columns or bad numbers are skipped.
func LoadRoutes(path string) ([]Route, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open routes file %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = ';'
	r.FieldsPerRecord = -1
	if _, err := r.Read(); err != nil {
		return nil, fmt.Errorf("routes file %s has no header: %w", path, err)
	}

	var routes []Route
	line := 1
	for {
		rec, err := r.Read()
		line++
		if err == io.EOF {
			break
		}
		if err != nil || len(rec) < 4 {
			logging.LogWarn("Routes: row ignored", "file", path, "line", line)
			continue
		}

		in, errIn := strconv.Atoi(strings.TrimSpace(rec[1]))
		out, errOut := strconv.Atoi(strings.TrimSpace(rec[2]))
		if errIn != nil || errOut != nil {
			logging.LogWarn("Routes: row ignored (bad universe)", "file", path, "line", line)
			continue
		}

		routes = append(routes, Route{
			Name: strings.TrimSpace(rec[0]),
			In:   in,
			Out:  out,
			IP:   strings.TrimSpace(rec[3]),
		})
	}

	logging.LogInfo("Routes: file loaded", "file", path, "routes", len(routes))
	return routes, nil
}
