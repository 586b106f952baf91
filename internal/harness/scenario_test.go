package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "specs"), 0o755))
	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScenario_Fixture(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/handlers.yaml")
	require.NoError(t, err)

	assert.Equal(t, "handlers_via_add_method", s.Name)
	assert.Equal(t, filepath.Join("testdata", "specs", "handlers"), s.Specs)
	assert.False(t, s.Golden)
	require.Contains(t, s.Expect.Services, "chain")
	assert.Len(t, s.Expect.Services["chain"].MethodCalls, 2)
	assert.Nil(t, s.Expect.Services["chain"].Arguments, "absent arguments are not checked")
	assert.Equal(t, []string{"base_handler"}, s.Expect.Absent)
}

func TestLoadScenario_ResolvesSpecsRelativeToFile(t *testing.T) {
	path := writeScenario(t, "name: x\ndescription: d\nspecs: specs\ngolden: true\n")

	s, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "specs"), s.Specs)
}

func TestLoadScenario_UnknownField(t *testing.T) {
	path := writeScenario(t, "name: x\ndescription: d\nspecs: specs\nexpect:\n  servces: {}\n")

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "servces")
}

func TestLoadScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"missing name", "description: d\nspecs: specs\ngolden: true\n", "name is required"},
		{"missing description", "name: x\nspecs: specs\ngolden: true\n", "description is required"},
		{"missing specs", "name: x\ndescription: d\ngolden: true\n", "specs directory is required"},
		{"specs not found", "name: x\ndescription: d\nspecs: nowhere\ngolden: true\n", "specs directory not found"},
		{"checks nothing", "name: x\ndescription: d\nspecs: specs\n", "checks nothing"},
		{"error plus golden", "name: x\ndescription: d\nspecs: specs\ngolden: true\nexpect:\n  error: boom\n", "cannot be combined"},
		{
			"call without method",
			"name: x\ndescription: d\nspecs: specs\nexpect:\n  services:\n    a:\n      method_calls:\n        - arguments: []\n",
			"method is required",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenario(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario("testdata/scenarios/nope.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}
