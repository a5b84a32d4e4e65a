package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/JonMunkholm/roster/internal/core"
)

const sampleRoster = "Name,Class,Level,HP,Equipment\n" +
	"Aria,Mage,3,42,Staff|Robe\n" +
	"\"Smith, the Bold\",Warrior,5,80,Sword\n"

// isolate clears configuration from the environment and returns a roster path.
func isolate(t *testing.T, content string) string {
	t.Helper()
	for _, name := range []string{"ROSTER_FILE", "DATABASE_URL", "DB_URL", "LOG_LEVEL", "LOG_FORMAT", "LOG_FILE", "SERVER_PORT"} {
		t.Setenv(name, "")
	}
	path := filepath.Join(t.TempDir(), "input.csv")
	if content != "" {
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return path
}

func execute(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = Execute(context.Background(), args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestList(t *testing.T) {
	path := isolate(t, sampleRoster)

	code, out, _ := execute(t, "list", "--file", path)
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Name: Smith, the Bold\nProfession: Warrior\nLevel: 5\nHP: 80\nEquipment:\n - Sword\n")
}

func TestList_FromEnvironment(t *testing.T) {
	path := isolate(t, sampleRoster)
	t.Setenv("ROSTER_FILE", path)

	code, out, _ := execute(t, "list")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Name: Aria")
}

func TestList_MissingFile(t *testing.T) {
	path := isolate(t, "")

	code, out, errOut := execute(t, "list", "-f", path)
	assert.Equal(t, 1, code)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "Data file not found (Code: FILE001)")
}

func TestAddThenLevelUp(t *testing.T) {
	path := isolate(t, "")

	code, out, errOut := execute(t, "add", "-f", path,
		"--name", "Smith, the Bold", "--class", "Warrior", "--level", "5", "--hp", "80", "--equipment", "Sword|Shield")
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, "Character added.\n", out)

	code, out, errOut = execute(t, "levelup", "1", "-f", path)
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, "Leveled up Smith, the Bold: Warrior, Level 5 -> 6, HP 80, Equipment items: 2.\n", out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "\"Smith, the Bold\",Warrior,6,80,Sword|Shield\n", string(data))
}

func TestAdd_NonNumeric(t *testing.T) {
	path := isolate(t, "")

	code, _, errOut := execute(t, "add", "-f", path, "--name", "Bob", "--level", "one", "--hp", "1")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "REC002")

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestAdd_UnstorableText(t *testing.T) {
	path := isolate(t, "")

	code, _, errOut := execute(t, "add", "-f", path,
		"--name", "Bob", "--class", "Fighter, Mage", "--level", "5", "--hp", "10", "--equipment", "Sword, Shield|Bow")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "Character details were rejected (Code: REC003)")

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestLevelUp_Errors(t *testing.T) {
	tests := []struct {
		name string
		arg  string
		want string
	}{
		{name: "not a number", arg: "x", want: "SEL002"},
		{name: "out of range", arg: "3", want: "SEL001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := isolate(t, sampleRoster)
			code, _, errOut := execute(t, "levelup", tt.arg, "-f", path)
			assert.Equal(t, 1, code)
			assert.Contains(t, errOut, tt.want)

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, sampleRoster, string(data))
		})
	}
}

func TestExport(t *testing.T) {
	path := isolate(t, sampleRoster)

	code, out, _ := execute(t, "export", "-f", path)
	require.Equal(t, 0, code)
	var doc core.Export
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Len(t, doc.Characters, 2)

	code, out, _ = execute(t, "export", "--format", "yaml", "-f", path)
	require.Equal(t, 0, code)
	doc = core.Export{}
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "Smith, the Bold", doc.Characters[1].Name)

	code, _, errOut := execute(t, "export", "--format", "xml", "-f", path)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "EXP001")
}

func TestSync_NotConfigured(t *testing.T) {
	path := isolate(t, sampleRoster)

	code, _, errOut := execute(t, "sync", "-f", path)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "DB001")
}

func TestInvalidConfig(t *testing.T) {
	path := isolate(t, sampleRoster)
	t.Setenv("LOG_LEVEL", "loud")

	code, _, errOut := execute(t, "list", "-f", path)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "LOG_LEVEL")
}

func TestUnknownCommand(t *testing.T) {
	isolate(t, "")
	code, _, errOut := execute(t, "bogus")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "Error:")
}

func TestServe_StopsOnCancel(t *testing.T) {
	path := isolate(t, sampleRoster)
	t.Setenv("SERVER_HOST", "127.0.0.1")
	t.Setenv("SERVER_PORT", "38917")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out, errOut bytes.Buffer
	code := Execute(ctx, []string{"serve", "-f", path}, &out, &errOut)
	assert.Equal(t, 0, code, errOut.String())
}
