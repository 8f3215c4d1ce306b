package config_test

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"

	"dmxMapper/internal/config"
	"dmxMapper/internal/domain/dmxmap"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func file(content string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte(content)}
}

func TestParseInt(t *testing.T) {
	cases := map[string]int{
		"":            0,
		"abc":         0,
		"42":          42,
		"  7":         7,
		"12abc":       12,
		"10\r":        10,
		"-3":          -3,
		"+5":          5,
		"5,2":         5,
		"99999999999": 2147483647,
	}
	for in, want := range cases {
		assert.Equal(t, want, config.ParseInt(in), "input %q", in)
	}
}

func TestParseAssignment(t *testing.T) {
	assert.Equal(t, dmxmap.Assignment{Channel: 4, Map: 2}, config.ParseAssignment("5,2"))
	assert.Equal(t, dmxmap.Assignment{Channel: 4, Map: 2}, config.ParseAssignment(" 5 , 2\r"))
	assert.Equal(t, dmxmap.Assignment{Channel: 4, Map: 0}, config.ParseAssignment("5"))
	assert.Equal(t, dmxmap.Assignment{Channel: -1, Map: 0}, config.ParseAssignment(""))
}

func TestLoadChannelAssignments(t *testing.T) {
	m := dmxmap.New()
	fsys := fstest.MapFS{
		config.AssignmentsFile: file("# channel,map\n5,2\n; 6,3\n7,0\n0,4\n513,4\n8,20\n9,19\nfoo,bar\n"),
	}

	require.NoError(t, config.LoadChannelAssignments(fsys, m))

	assert.Equal(t, 2, m.ChannelMap(4))
	assert.Equal(t, 0, m.ChannelMap(5), "commented line must not apply")
	assert.Equal(t, 0, m.ChannelMap(6), "map 0 is never assigned")
	assert.Equal(t, 0, m.ChannelMap(7), "map 20 is out of range")
	assert.Equal(t, 19, m.ChannelMap(8))

	assigned := 0
	for _, idx := range m.Assignments() {
		if idx != 0 {
			assigned++
		}
	}
	assert.Equal(t, 2, assigned)
}

func TestLoadChannelAssignmentsKeepsPriorAssignment(t *testing.T) {
	m := dmxmap.New()
	m.SetAssignments([]dmxmap.Assignment{{Channel: 4, Map: 3}})

	fsys := fstest.MapFS{config.AssignmentsFile: file("5,0\n")}
	require.NoError(t, config.LoadChannelAssignments(fsys, m))

	assert.Equal(t, 3, m.ChannelMap(4))
}

func TestLoadChannelAssignmentsMissingFile(t *testing.T) {
	m := dmxmap.New()
	m.SetAssignments([]dmxmap.Assignment{{Channel: 0, Map: 1}})

	m.SetMaps(map[int][dmxmap.MaxValues]byte{1: {0: 99}})
	before, _ := m.Map(1)

	err := config.LoadChannelAssignments(fstest.MapFS{}, m)

	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.Equal(t, 1, m.ChannelMap(0))
	for c := 1; c < dmxmap.MaxChans; c++ {
		assert.Equal(t, 0, m.ChannelMap(c))
	}
	after, _ := m.Map(1)
	assert.Equal(t, before, after)
	assert.True(t, m.IsIdentity(2))
}

func TestLongCommentLines(t *testing.T) {
	long := "#" + strings.Repeat("x", 70000) + "\n"
	m := dmxmap.New()
	fsys := fstest.MapFS{
		config.AssignmentsFile: file(long + "5,2\n"),
		"2.map":                file(long + "10\n20\n"),
	}

	require.NoError(t, config.LoadChannelAssignments(fsys, m))
	loaded := config.LoadValueMaps(fsys, m)

	assert.Equal(t, 2, m.ChannelMap(4))
	assert.Equal(t, []int{2}, loaded)
	table, _ := m.Map(2)
	assert.Equal(t, byte(10), table[0])
	assert.Equal(t, byte(20), table[1])
	assert.Equal(t, byte(2), table[2])
}

func TestCRLFLines(t *testing.T) {
	m := dmxmap.New()
	fsys := fstest.MapFS{
		config.AssignmentsFile: file("# dos\r\n5,2\r\n"),
		"2.map":                file("10\r\n20"),
	}

	require.NoError(t, config.LoadChannelAssignments(fsys, m))
	config.LoadValueMaps(fsys, m)

	assert.Equal(t, 2, m.ChannelMap(4))
	table, _ := m.Map(2)
	assert.Equal(t, byte(10), table[0])
	assert.Equal(t, byte(20), table[1])
}

func TestLoadChannelAssignmentsEmptyFile(t *testing.T) {
	m := dmxmap.New()
	fsys := fstest.MapFS{config.AssignmentsFile: file("# nothing\n")}
	assert.NoError(t, config.LoadChannelAssignments(fsys, m))
}

func TestLoadValueMaps(t *testing.T) {
	m := dmxmap.New()
	fsys := fstest.MapFS{
		"2.map": file("# dimmer curve\n10\n;20\n20\n30"),
	}

	loaded := config.LoadValueMaps(fsys, m)
	assert.Equal(t, []int{2}, loaded)

	table, ok := m.Map(2)
	require.True(t, ok)
	assert.Equal(t, byte(10), table[0])
	assert.Equal(t, byte(20), table[1])
	assert.Equal(t, byte(30), table[2])
	for v := 3; v < dmxmap.MaxValues; v++ {
		assert.Equal(t, byte(v), table[v])
	}

	assert.True(t, m.IsIdentity(7), "missing 7.map keeps identity")
	assert.True(t, m.IsIdentity(0))
}

func TestLoadValueMapsIgnoresMapZeroFile(t *testing.T) {
	m := dmxmap.New()
	fsys := fstest.MapFS{"0.map": file("5\n5\n5\n")}

	assert.Empty(t, config.LoadValueMaps(fsys, m))
	assert.True(t, m.IsIdentity(0))
}

func TestLoadValueMapsTruncatesAndCaps(t *testing.T) {
	var b strings.Builder
	b.WriteString("256\n-1\n\n")
	for i := 3; i < 300; i++ {
		b.WriteString("7\n")
	}
	m := dmxmap.New()
	config.LoadValueMaps(fstest.MapFS{"1.map": file(b.String())}, m)

	table, _ := m.Map(1)
	assert.Equal(t, byte(0), table[0], "256 keeps the low byte")
	assert.Equal(t, byte(255), table[1])
	assert.Equal(t, byte(0), table[2], "blank line counts as 0")
	assert.Equal(t, byte(7), table[255])
}

func TestApplyAfterLoading(t *testing.T) {
	m := dmxmap.New()
	fsys := fstest.MapFS{
		config.AssignmentsFile: file("6,2\n"),
		"2.map":                file("10\n20\n30\n"),
	}
	require.NoError(t, config.LoadChannelAssignments(fsys, m))
	config.LoadValueMaps(fsys, m)

	frame := make([]byte, 8)
	frame[2] = 1
	m.Apply(frame, len(frame))

	assert.Equal(t, byte(10), frame[5])
	assert.Equal(t, byte(1), frame[2])
	assert.Equal(t, byte(0), frame[0])
}

func TestLoadTablesReplacesPreviousState(t *testing.T) {
	m := dmxmap.New()
	m.SetAssignments([]dmxmap.Assignment{{Channel: 1, Map: 5}})
	old := dmxmap.IdentityTable()
	old[0] = 1
	m.SetMaps(map[int][dmxmap.MaxValues]byte{5: old})

	fsys := fstest.MapFS{
		config.AssignmentsFile: file("1,3\n"),
		"3.map":                file("9\n"),
	}
	require.NoError(t, config.LoadTables(fsys, m))

	assert.Equal(t, 3, m.ChannelMap(0))
	assert.Equal(t, 0, m.ChannelMap(1))
	assert.True(t, m.IsIdentity(5))
	table, _ := m.Map(3)
	assert.Equal(t, byte(9), table[0])
}

func TestLoadTablesKeepsAssignmentsWithoutFile(t *testing.T) {
	m := dmxmap.New()
	m.SetAssignments([]dmxmap.Assignment{{Channel: 1, Map: 5}})

	err := config.LoadTables(fstest.MapFS{"5.map": file("3\n")}, m)

	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.Equal(t, 5, m.ChannelMap(1))
	table, _ := m.Map(5)
	assert.Equal(t, byte(3), table[0])
}
