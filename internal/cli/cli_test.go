package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	cfg := fmt.Sprintf(`backend: sqlite
sqlite:
  path: %s
tables:
  doc: main.docs
`, filepath.Join(dir, "kv.db"))

	path := filepath.Join(dir, "kvstore.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o600))
	return path
}

func run(t *testing.T, config string, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", config, "--env-file", ""}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func TestCLI_PutGetList(t *testing.T) {
	config := writeConfig(t)

	out, err := run(t, config, "init", "doc")
	require.NoError(t, err)
	require.Contains(t, out, "table main.docs ready")

	for i := 1; i <= 5; i++ {
		key := fmt.Sprintf("%05d", i)
		_, err := run(t, config, "put", "doc", key, fmt.Sprintf(`{"a": %q}`, key))
		require.NoError(t, err)
	}

	out, err = run(t, config, "get", "doc", "00002")
	require.NoError(t, err)
	require.Equal(t, "00002\t{\"a\":\"00002\"}\n", out)

	out, err = run(t, config, "list", "doc", "--after", "00001", "--limit", "2")
	require.NoError(t, err)
	require.Equal(t, []string{"00002", "00003"}, firstColumn(out))

	out, err = run(t, config, "list", "doc", "--desc", "-n", "2")
	require.NoError(t, err)
	require.Equal(t, []string{"00005", "00004"}, firstColumn(out))

	out, err = run(t, config, "list", "doc", "--before", "")
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestCLI_PutModes(t *testing.T) {
	config := writeConfig(t)
	_, err := run(t, config, "init", "doc")
	require.NoError(t, err)

	_, err = run(t, config, "put", "doc", "k", `{"v":1}`)
	require.NoError(t, err)

	_, err = run(t, config, "put", "doc", "k", `{"v":2}`)
	require.ErrorContains(t, err, "already exists")

	_, err = run(t, config, "put", "--mode", "ignore", "doc", "k", `{"v":3}`)
	require.NoError(t, err)
	out, err := run(t, config, "get", "doc", "k")
	require.NoError(t, err)
	require.Contains(t, out, `{"v":1}`)

	_, err = run(t, config, "put", "--mode", "replace", "doc", "k", `{"v":4}`)
	require.NoError(t, err)
	out, err = run(t, config, "get", "doc", "k")
	require.NoError(t, err)
	require.Contains(t, out, `{"v":4}`)

	_, err = run(t, config, "put", "--mode", "update", "doc", "missing", `{"v":5}`)
	require.ErrorContains(t, err, "not found")

	_, err = run(t, config, "put", "doc", "bad", `{not json`)
	require.ErrorContains(t, err, "not valid JSON")

	out, err = run(t, config, "put", "--new-key", "doc", `{"v":6}`)
	require.NoError(t, err)
	require.Len(t, strings.TrimSpace(out), 36)
}

func TestCLI_Delete(t *testing.T) {
	config := writeConfig(t)
	_, err := run(t, config, "init", "doc")
	require.NoError(t, err)

	_, err = run(t, config, "delete", "doc", "missing")
	require.NoError(t, err)

	_, err = run(t, config, "delete", "doc", "missing", "--must-exist")
	require.ErrorContains(t, err, "not found")

	_, err = run(t, config, "get", "doc", "missing")
	require.ErrorContains(t, err, "not found")
}

func TestCLI_UnmappedType(t *testing.T) {
	config := writeConfig(t)

	_, err := run(t, config, "get", "order", "k")
	require.ErrorContains(t, err, "table name mapping is not found")
}

func TestCLI_Export(t *testing.T) {
	config := writeConfig(t)
	_, err := run(t, config, "init", "doc")
	require.NoError(t, err)

	for i := 1; i <= 7; i++ {
		_, err := run(t, config, "put", "doc", fmt.Sprintf("%05d", i), fmt.Sprintf(`{"n":%d}`, i))
		require.NoError(t, err)
	}

	dest := filepath.Join(t.TempDir(), "docs.jsonl")
	out, err := run(t, config, "export", "doc", "--out", dest, "--page-size", "3")
	require.NoError(t, err)
	require.Contains(t, out, "exported 7 documents")

	data, err := os.ReadFile(dest)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 7)
	require.Equal(t, `{"key":"00001","value":{"n":1}}`, lines[0])
	require.Equal(t, `{"key":"00007","value":{"n":7}}`, lines[6])
}

func firstColumn(out string) []string {
	var keys []string
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		keys = append(keys, strings.SplitN(line, "\t", 2)[0])
	}
	return keys
}
