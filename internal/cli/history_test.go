package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/diwire/internal/ir"
)

// recordTwoBuilds compiles two different specs into a fresh database.
func recordTwoBuilds(t *testing.T) string {
	t.Helper()
	useSequenceIDs(t)
	db := filepath.Join(t.TempDir(), "builds.db")

	_, err := execute(t, "compile", "testdata/specs/valid", "--db", db)
	require.NoError(t, err)

	dir := t.TempDir()
	writeFile(t, dir, "services.yaml", "services:\n  a:\n    class: app.A\n")
	_, err = execute(t, "compile", dir, "--db", db)
	require.NoError(t, err)
	return db
}

func TestHistoryList(t *testing.T) {
	db := recordTwoBuilds(t)

	out, err := execute(t, "history", "--db", db, "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string         `json:"status"`
		Data   []BuildSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data, 2)

	assert.Equal(t, int64(1), resp.Data[0].Seq)
	assert.Equal(t, "build-1", resp.Data[0].ID)
	assert.Equal(t, 4, resp.Data[0].Services)
	assert.Equal(t, 5, resp.Data[0].Passes)
	assert.True(t, filepath.IsAbs(resp.Data[0].SpecDir))

	assert.Equal(t, "build-2", resp.Data[1].ID)
	assert.Equal(t, 1, resp.Data[1].Services)
}

func TestHistoryListText(t *testing.T) {
	db := recordTwoBuilds(t)

	out, err := execute(t, "history", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "build-1")
	assert.Contains(t, out, "build-2")
	assert.Contains(t, out, "4 service(s)")
}

func TestHistoryShowBuild(t *testing.T) {
	db := recordTwoBuilds(t)

	out, err := execute(t, "history", "--db", db, "--build", "build-1", "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status  string               `json:"status"`
		Data    ir.CompiledContainer `json:"data"`
		BuildID string               `json:"build_id"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "build-1", resp.BuildID)

	chain, ok := resp.Data.Service("chain")
	require.True(t, ok)
	require.Len(t, chain.MethodCalls, 2)
	assert.Equal(t, ir.IRArray{ir.NewReference("audit")}, chain.MethodCalls[0].Arguments)

	text, err := execute(t, "history", "--db", db, "--build", "build-1")
	require.NoError(t, err)
	assert.Contains(t, text, "Build build-1 (#1)")
	assert.Contains(t, text, "chain  app.Chain")
}

func TestHistoryUnknownBuild(t *testing.T) {
	db := filepath.Join(t.TempDir(), "builds.db")
	_, err := execute(t, "compile", "testdata/specs/valid", "--db", db)
	require.NoError(t, err)

	out, err := execute(t, "history", "--db", db, "--build", "missing")
	require.Error(t, err)
	assert.Contains(t, out, ErrCodeBuildNotFound)
}

func TestHistoryErrors(t *testing.T) {
	_, err := execute(t, "history")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--db is required")

	_, err = execute(t, "history", "--db", filepath.Join(t.TempDir(), "missing.db"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database not found")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
