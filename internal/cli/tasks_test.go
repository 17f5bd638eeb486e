package cli_test

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tada/internal/cli"
	"github.com/Makepad-fr/tada/internal/server"
	"github.com/Makepad-fr/tada/internal/store/jsonstore"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"TADA_URL", "TADA_WEB_ADDR", "TADA_SERVER_ADDR", "TADA_BACKEND", "TADA_DATA", "TADA_THEME", "TADA_LOG_LEVEL", "TADA_LOG_FILE"} {
		t.Setenv(k, "")
	}
}

type runner struct {
	t   *testing.T
	url string
}

func newRunner(t *testing.T) runner {
	t.Helper()
	clearEnv(t)
	repo, err := jsonstore.Open(filepath.Join(t.TempDir(), "todos.json"))
	require.NoError(t, err)
	ts := httptest.NewServer(server.New(repo, nil).Handler())
	t.Cleanup(ts.Close)
	return runner{t: t, url: ts.URL + server.CollectionPath}
}

func (r runner) run(args ...string) (int, string, string) {
	r.t.Helper()
	var stdout, stderr bytes.Buffer
	full := append([]string{"--url", r.url, "--no-color", "--theme", "mono"}, args...)
	code := cli.Execute(context.Background(), full, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestScriptedRoundTrip(t *testing.T) {
	r := newRunner(t)

	code, out, _ := r.run("add", "Buy", "milk")
	require.Equal(t, cli.ExitOK, code)
	assert.Equal(t, "✔ added #1\n", out)

	code, _, _ = r.run("add", "Walk dog")
	require.Equal(t, cli.ExitOK, code)

	code, out, _ = r.run("done", "1")
	require.Equal(t, cli.ExitOK, code)
	assert.Contains(t, out, "completed #1")

	code, out, _ = r.run("ls")
	require.Equal(t, cli.ExitOK, code)
	assert.Contains(t, out, "[x] Buy milk")
	assert.Contains(t, out, "[ ] Walk dog")
	assert.Contains(t, out, "Total 2")

	code, out, _ = r.run("ls", "--group")
	require.Equal(t, cli.ExitOK, code)
	assert.Contains(t, out, "Active")
	assert.Contains(t, out, "Completed")

	code, out, _ = r.run("edit", "2", "Walk", "the", "dog")
	require.Equal(t, cli.ExitOK, code)
	assert.Contains(t, out, "renamed #2")

	code, _, _ = r.run("rm", "1")
	require.Equal(t, cli.ExitOK, code)

	_, out, _ = r.run("ls")
	assert.NotContains(t, out, "Buy milk")
	assert.Contains(t, out, "Walk the dog")
}

func TestScriptedUsageErrors(t *testing.T) {
	r := newRunner(t)

	cases := [][]string{
		{"add"},
		{"add", "   "},
		{"rm"},
		{"done", "1", "2"},
		{"edit", "1"},
		{"bogus"},
		{"ls", "--nope"},
	}
	for _, args := range cases {
		code, _, stderr := r.run(args...)
		assert.Equal(t, cli.ExitUsage, code, "args %q", args)
		assert.NotEmpty(t, stderr, "args %q", args)
	}
}

func TestDone_UnknownIDHints(t *testing.T) {
	r := newRunner(t)

	code, _, stderr := r.run("done", "99")
	assert.Equal(t, cli.ExitUsage, code)
	assert.Contains(t, stderr, "no task #99")
	assert.Contains(t, stderr, "tada ls")
}

func TestRemoteFailureIsRuntimeError(t *testing.T) {
	r := newRunner(t)

	code, _, stderr := r.run("rm", "42")
	assert.Equal(t, cli.ExitError, code)
	assert.Contains(t, stderr, "delete todo failed: ")
}

func TestInvalidConfig(t *testing.T) {
	clearEnv(t)
	t.Setenv("TADA_BACKEND", "postgres")

	var stdout, stderr bytes.Buffer
	code := cli.Execute(context.Background(), []string{"ls"}, &stdout, &stderr)
	assert.Equal(t, cli.ExitError, code)
	assert.Contains(t, stderr.String(), "unknown backend")
}
