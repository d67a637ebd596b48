package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/ryabkov82/clubstats/internal/config"
	"github.com/ryabkov82/clubstats/internal/workbook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (Output, error) {
	t.Helper()
	t.Setenv(config.ConfigEnv, "")

	var buf bytes.Buffer
	cmd := newRootCmd(&buf)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())

	var out Output
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out), buf.String())
	return out, err
}

func TestMembersCommand(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, workbook.Save(filepath.Join(root, "persons.xlsx"), workbook.Sheet{
		Name:    "Data",
		Headers: []string{"Förnamn", "Efternamn", "Födelsedat/Personnr", "Kön"},
		Rows:    [][]interface{}{{"Anna", "Ek", "2003-01-15", "Kvinna"}},
	}))

	out, err := execute(t, "members", "--root", root, "--year", "2019", "--input", "persons.xlsx")
	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.EqualValues(t, 1, out.RowCount)
	assert.Len(t, out.OutputFiles, 3)
}

func TestCommandReportsFailure(t *testing.T) {
	root := t.TempDir()
	out, err := execute(t, "members", "--root", root, "--year", "2019", "--input", "missing.xlsx")
	require.Error(t, err)
	assert.False(t, out.Success)
	assert.Equal(t, "MISSING_FILE", out.Code)
	assert.NotEmpty(t, out.Error)
}

func TestConfigFlag(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clubstats.yaml")
	require.NoError(t, os.WriteFile(path, []byte("activity:\n  days: [Fredag]\n"), 0o600))

	out, err := execute(t, "--config", path, "activity", "--year", "2020")
	require.Error(t, err)
	assert.Equal(t, "CONFIG_ERROR", out.Code)
}
