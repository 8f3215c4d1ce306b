// Package dmxmap holds the per-channel value remapping tables for one DMX512 universe.
//
// Every channel is assigned a map index, every map is a 256 entry byte lookup table.
// Map 0 is the identity map and can never be changed.
package dmxmap

import "sync"

const (
	MaxChans  = 512
	MaxValues = 256
	MaxMaps   = 20
)

// Assignment binds a 0-based channel to a map index.
type Assignment struct {
	Channel int
	Map     int
}

// Mapper owns the assignment table and the value maps.
//
// A zero Mapper has every map filled with 0, call Init (or use New) before Apply.
// Apply may run concurrently with the Set* and CopyFrom calls.
type Mapper struct {
	mu       sync.RWMutex
	chan2map [MaxChans]uint8
	maps     [MaxMaps][MaxValues]byte
}

// New returns an initialised Mapper: all channels on map 0, all maps identity.
func New() *Mapper {
	m := &Mapper{}
	m.Init()
	return m
}

// Init resets every channel to map 0 and every map to identity.
func (m *Mapper) Init() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.chan2map = [MaxChans]uint8{}
	for i := range m.maps {
		// v must be wider than a byte or the loop never ends.
		for v := 0; v < MaxValues; v++ {
			m.maps[i][v] = byte(v)
		}
	}
}

// Apply remaps the first chans bytes of frame in place.
// chans is clamped to MaxChans and len(frame).
func (m *Mapper) Apply(frame []byte, chans int) {
	if chans > MaxChans {
		chans = MaxChans
	}
	if chans > len(frame) {
		chans = len(frame)
	}

	m.mu.RLock()
	for c := 0; c < chans; c++ {
		frame[c] = m.maps[m.chan2map[c]][frame[c]]
	}
	m.mu.RUnlock()
}

// SetAssignments commits a batch of channel assignments under one write lock.
// Entries with a channel outside [0, MaxChans) or a map outside (0, MaxMaps) are skipped.
// It returns the number of entries applied.
func (m *Mapper) SetAssignments(batch []Assignment) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	applied := 0
	for _, a := range batch {
		if !ValidChannel(a.Channel) || !LoadableMap(a.Map) {
			continue
		}
		m.chan2map[a.Channel] = uint8(a.Map)
		applied++
	}
	return applied
}

// SetMaps replaces whole value maps under one write lock. Map 0 and out of range
// indices are skipped. It returns the number of maps replaced.
func (m *Mapper) SetMaps(tables map[int][MaxValues]byte) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	replaced := 0
	for idx, table := range tables {
		if !LoadableMap(idx) {
			continue
		}
		m.maps[idx] = table
		replaced++
	}
	return replaced
}

// CopyFrom replaces both tables with the ones of src.
func (m *Mapper) CopyFrom(src *Mapper) {
	if src == m {
		return
	}
	src.mu.RLock()
	chans, maps := src.chan2map, src.maps
	src.mu.RUnlock()

	m.mu.Lock()
	m.chan2map, m.maps = chans, maps
	m.mu.Unlock()
}

// ChannelMap returns the map index used by channel c (0-based), or 0 when c is out of range.
func (m *Mapper) ChannelMap(c int) int {
	if !ValidChannel(c) {
		return 0
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int(m.chan2map[c])
}

// Assignments returns a copy of the whole assignment table.
func (m *Mapper) Assignments() [MaxChans]int {
	var out [MaxChans]int
	m.mu.RLock()
	for c, idx := range m.chan2map {
		out[c] = int(idx)
	}
	m.mu.RUnlock()
	return out
}

// Map returns a copy of value map idx. ok is false when idx is out of range.
func (m *Mapper) Map(idx int) (table [MaxValues]byte, ok bool) {
	if idx < 0 || idx >= MaxMaps {
		return table, false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.maps[idx], true
}

// IsIdentity reports whether map idx leaves every value unchanged.
func (m *Mapper) IsIdentity(idx int) bool {
	table, ok := m.Map(idx)
	if !ok {
		return false
	}
	return IsIdentityTable(table)
}

// IsIdentityTable reports whether table[v] == v for every v.
func IsIdentityTable(table [MaxValues]byte) bool {
	return RemappedValues(table) == 0
}

// RemappedValues counts the inputs v with table[v] != v.
func RemappedValues(table [MaxValues]byte) int {
	n := 0
	for v, out := range table {
		if int(out) != v {
			n++
		}
	}
	return n
}

// IdentityTable returns a map with table[v] == v.
func IdentityTable() [MaxValues]byte {
	var table [MaxValues]byte
	for v := range table {
		table[v] = byte(v)
	}
	return table
}

// ValidChannel reports whether c is a 0-based channel index below MaxChans.
func ValidChannel(c int) bool {
	return c >= 0 && c < MaxChans
}

// LoadableMap reports whether idx may be set from configuration. Map 0 never is.
func LoadableMap(idx int) bool {
	return idx > 0 && idx < MaxMaps
}
