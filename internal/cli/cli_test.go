package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/liste/internal/export"
	"github.com/idilsaglam/liste/internal/server"
)

type result struct {
	code        int
	out, errOut string
}

type harness struct {
	t   *testing.T
	url string
}

func newHarness(t *testing.T) harness {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("LISTE_CONFIG", "")
	t.Setenv("LISTE_PASSWORD", "")
	t.Setenv("LISTE_SERVER_PASSWORD", "hunter2")
	t.Setenv("LISTE_SERVE_PASSWORD", "")

	db, err := server.OpenDB(filepath.Join(home, "server.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	srv := server.New(server.Config{Username: "listclient", Password: "hunter2"}, db,
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return harness{t: t, url: ts.URL}
}

func (h harness) runIn(stdin string, args ...string) result {
	h.t.Helper()
	var out, errOut bytes.Buffer
	args = append([]string{"--server", h.url, "--theme", "mono"}, args...)
	code := Run(context.Background(), args, strings.NewReader(stdin), &out, &errOut)
	return result{code: code, out: out.String(), errOut: errOut.String()}
}

func (h harness) run(args ...string) result {
	h.t.Helper()
	return h.runIn("", args...)
}

func (h harness) ok(args ...string) string {
	h.t.Helper()
	r := h.run(args...)
	require.Equal(h.t, 0, r.code, "liste %v: %s", args, r.errOut)
	return r.out
}

func TestItemAndListCommands(t *testing.T) {
	h := newHarness(t)

	assert.Contains(t, h.ok("list", "new", "Courses"), "created list Courses (#1)")
	assert.Contains(t, h.ok("add", "Courses", "milk"), "added #1 to Courses")
	assert.Contains(t, h.ok("add", "1", "whole", "bread"), "added #2 to Courses")

	out := h.ok("ls")
	assert.Contains(t, out, "Courses")
	assert.Contains(t, out, "2 items")
	assert.Contains(t, out, "#1")
	assert.Contains(t, out, "whole bread")

	assert.Contains(t, h.ok("edit", "1", "oat", "milk"), "edited #1")
	assert.Contains(t, h.ok("ls", "courses"), "oat milk")
	assert.Contains(t, h.ok("rm", "2"), "removed #2")
	assert.NotContains(t, h.ok("ls"), "whole bread")

	assert.Contains(t, h.ok("list", "rename", "Courses", "Épicerie"), "renamed Courses to Épicerie")
	assert.Contains(t, h.ok("list", "rm", "Épicerie"), "removed list Épicerie")
	assert.Contains(t, h.ok("ls"), "no lists")
}

func TestUsageErrors(t *testing.T) {
	h := newHarness(t)

	r := h.run("add")
	assert.Equal(t, 2, r.code)
	assert.Contains(t, r.errOut, "usage: liste add <list> <content...>")

	r = h.run("edit", "x", "y")
	assert.Equal(t, 2, r.code)
	assert.Contains(t, r.errOut, "not an id")

	r = h.run("add", "Courses", "  ")
	assert.Equal(t, 2, r.code)

	assert.Equal(t, 2, h.run("frobnicate").code)
	assert.Equal(t, 2, h.run("ls", "--bogus").code)
	assert.Equal(t, 2, h.run("export", "-f", "csv").code)
}

func TestServiceErrors(t *testing.T) {
	h := newHarness(t)

	r := h.run("add", "Nope", "x")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.errOut, `no list "Nope"`)

	h.ok("list", "new", "Courses")
	r = h.run("list", "new", "Courses")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.errOut, "duplicate name")

	r = h.run("rm", "42")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.errOut, "400")
}

func TestExport(t *testing.T) {
	h := newHarness(t)
	h.ok("list", "new", "Courses")
	h.ok("add", "Courses", "milk")

	out := h.ok("export", "-f", "yaml")
	assert.Contains(t, out, "name: Courses")
	assert.Contains(t, out, "content: milk")

	path := filepath.Join(t.TempDir(), "lists.json")
	assert.Contains(t, h.ok("export", "-o", path), "exported to")
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	var snap export.Snapshot
	require.NoError(t, json.Unmarshal(b, &snap))
	require.Len(t, snap.Lists, 1)
	assert.Equal(t, "milk", snap.Lists[0].Items[0].Content)
	assert.Equal(t, h.url, snap.Server)
}

func TestAuthLoginLogout(t *testing.T) {
	h := newHarness(t)
	t.Setenv("LISTE_SERVER_PASSWORD", "")

	r := h.run("ls")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.errOut, "401")

	r = h.runIn("wrong\n", "auth", "login")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.errOut, "rejected")

	r = h.runIn("hunter2\n", "auth", "login")
	require.Equal(t, 0, r.code, r.errOut)
	assert.Contains(t, r.out, "logged in as listclient")

	h.ok("list", "new", "Courses")
	status := h.ok("auth", "status")
	assert.Contains(t, status, "source: file")
	assert.Contains(t, status, "username: listclient")

	assert.Contains(t, h.ok("auth", "logout"), "logged out")
	assert.Contains(t, h.ok("auth", "status"), "not logged in")
}

func TestServeRequiresPassword(t *testing.T) {
	h := newHarness(t)
	r := h.run("serve", "--addr", "127.0.0.1:0")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.errOut, "serve.password")
}

func TestInteractiveViewNeedsTerminal(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, 2, h.run().code)
}
