package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the CLI with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--no-color"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

const sample = `enum mode { OFF, ON };
struct point { int x, y; };
int add(int a, int b) { return a + b; }
`

func writeSample(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "sample.c")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))
	return path
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "c2cs 0.5.0 (")
}

func TestInit(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "my-lib")
	out, err := execute(t, "init", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Initialized project my_lib in ")

	data, err := os.ReadFile(filepath.Join(dir, "c2cs.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `project_name = "my_lib"`)

	_, err = execute(t, "init", dir)
	assert.ErrorContains(t, err, "already initialized")
}

func TestIdentifier(t *testing.T) {
	tests := map[string]string{
		"my-lib":  "my_lib",
		"Demo":    "Demo",
		"2d":      "_2d",
		"":        "Untitled",
		"---":     "Untitled",
		"café":    "caf_",
		"a.b_c 9": "a_b_c_9",
	}
	for in, want := range tests {
		assert.Equal(t, want, identifier(in), "identifier(%q)", in)
	}
}

func TestConvertWithProjectFile(t *testing.T) {
	dir := t.TempDir()
	writeSample(t, dir)
	cfg := filepath.Join(dir, "c2cs.toml")
	require.NoError(t, os.WriteFile(cfg, []byte(`project_name = "Sample"
source_files = ["sample.c"]
output_directory = "gen//[ProjectName]"
`), 0o644))

	out, err := execute(t, "convert", "-c", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "converted")
	assert.Contains(t, out, "Sample: 1 converted, 0 cached, 0 failed, 0 missing")

	outDir := filepath.Join(dir, "gen", "Sample")
	cs, err := os.ReadFile(filepath.Join(outDir, "sample.cs"))
	require.NoError(t, err)
	assert.Contains(t, string(cs), "namespace Sample")
	assert.Contains(t, string(cs), "public static int add(int a, int b)")
	assert.FileExists(t, filepath.Join(outDir, "CRuntime.cs"))
	assert.FileExists(t, filepath.Join(outDir, "Sample.csproj"))
}

func TestConvertFlagsOverrideProjectFile(t *testing.T) {
	dir := t.TempDir()
	src := writeSample(t, dir)
	outDir := filepath.Join(dir, "custom")

	_, err := execute(t, "convert", "--name", "Flagged", "-o", outDir, "--dump-ast", src)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(outDir, "sample.cs"))
	assert.FileExists(t, filepath.Join(outDir, "sample.ast.txt"))
	assert.FileExists(t, filepath.Join(outDir, "Flagged.csproj"))
}

func TestConvertDryRun(t *testing.T) {
	dir := t.TempDir()
	src := writeSample(t, dir)
	outDir := filepath.Join(dir, "out")

	out, err := execute(t, "convert", "--dry-run", "-o", outDir, src)
	require.NoError(t, err)
	assert.Contains(t, out, "Would write:")
	assert.Contains(t, out, filepath.Join(outDir, "sample.cs"))
	assert.NoFileExists(t, filepath.Join(outDir, "sample.cs"))
}

func TestConvertReportsMissingFiles(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "convert", "-o", filepath.Join(dir, "out"), filepath.Join(dir, "absent.c"))
	assert.ErrorContains(t, err, "1 of 1 files were not converted")
}

func TestConvertMissingProjectFile(t *testing.T) {
	_, err := execute(t, "convert", "-c", filepath.Join(t.TempDir(), "none.toml"))
	assert.ErrorContains(t, err, "reading project file")
}

func TestAST(t *testing.T) {
	src := writeSample(t, t.TempDir())

	text, err := execute(t, "ast", src)
	require.NoError(t, err)
	assert.Contains(t, text, "TranslationUnit")
	assert.Contains(t, text, "FunctionDecl [add]")

	yml, err := execute(t, "ast", "--format", "yaml", src)
	require.NoError(t, err)
	assert.Contains(t, yml, "kind: TranslationUnit")

	js, err := execute(t, "ast", "-f", "json", src)
	require.NoError(t, err)
	var tree map[string]any
	require.NoError(t, json.Unmarshal([]byte(js), &tree))
	assert.Equal(t, "TranslationUnit", tree["kind"])

	_, err = execute(t, "ast", "-f", "xml", src)
	assert.ErrorContains(t, err, "unsupported format")
}

func TestTokens(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "t.c")
	require.NoError(t, os.WriteFile(path, []byte("#define N 3\nint x = N;\n"), 0o644))

	out, err := execute(t, "tokens", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Tokens (")
	assert.Contains(t, out, "IDENTIFIER")
	assert.Contains(t, out, `"3"`)
	assert.NotContains(t, out, `"N"`)
}
