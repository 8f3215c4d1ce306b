package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func mappingDir(t *testing.T) string {
	t.Helper()
	chdir(t, t.TempDir())
	dir := "maps"
	require.NoError(t, os.Mkdir(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mappings.txt"), []byte("5,2\n; 1,2\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2.map"), []byte("10\n20\n30\n"), 0o644))
	return dir
}

func TestParseFrame(t *testing.T) {
	frame, err := parseFrame("0, 1,2\n255")
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 1, 2, 255}, frame)

	_, err = parseFrame("256")
	assert.Error(t, err)
	_, err = parseFrame("x")
	assert.Error(t, err)
	_, err = parseFrame(strings.Repeat("1 ", 513))
	assert.Error(t, err)
}

func TestApplyArgs(t *testing.T) {
	dir := mappingDir(t)

	out, err := run(t, "", "apply", "-d", dir, "0", "0", "0", "0", "0", "0", "1")
	require.NoError(t, err)
	assert.Equal(t, "0,0,0,0,10,0,1\n", out)
}

func TestApplyStdin(t *testing.T) {
	dir := mappingDir(t)

	out, err := run(t, "7,7,7,7,2\n", "apply", "--mapping-dir", dir)
	require.NoError(t, err)
	assert.Equal(t, "7,7,7,7,30\n", out)
}

func TestApplyWithoutMappingFiles(t *testing.T) {
	chdir(t, t.TempDir())

	out, err := run(t, "", "apply", "3", "4")
	require.NoError(t, err)
	assert.Equal(t, "3,4\n", out)
}

func TestShow(t *testing.T) {
	dir := mappingDir(t)

	out, err := run(t, "", "show", "-d", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "channel 5 -> map 2")
	assert.NotContains(t, out, "channel 1 ->")
	assert.Contains(t, out, "map 2: 3 of 256 values remapped")
}

func TestExportThenImport(t *testing.T) {
	dir := mappingDir(t)

	_, err := run(t, "", "export", "-d", dir, "tables.xlsx")
	require.NoError(t, err)

	_, err = run(t, "", "import", "tables.xlsx", "--out", "copy")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join("copy", "mappings.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "5,2\n")

	out, err := run(t, "", "apply", "-d", "copy", "0", "0", "0", "0", "1")
	require.NoError(t, err)
	assert.Equal(t, "0,0,0,0,20\n", out)
}

func TestBadSettingsFile(t *testing.T) {
	chdir(t, t.TempDir())
	_, err := run(t, "", "show", "--config", "missing.yaml")
	assert.Error(t, err)
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
