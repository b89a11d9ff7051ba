package cli

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tada/internal/devserver"
	"github.com/Makepad-fr/tada/internal/logging"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store/jsonstore"
	"github.com/Makepad-fr/tada/internal/store/sqlitestore"
)

type harness struct {
	t   *testing.T
	url string
	st  *jsonstore.Store
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	for _, k := range []string{"TADA_TOKEN", "TADA_USER_ID", "TADA_API_URL", "TADA_TIMEOUT", "TADA_THEME", "TADA_LOG_FILE", "TADA_LOG_LEVEL"} {
		t.Setenv(k, "")
	}

	st := jsonstore.New(filepath.Join(t.TempDir(), "todos.json"))
	ts := httptest.NewServer(devserver.New(st, logging.Discard()))
	t.Cleanup(ts.Close)
	return &harness{t: t, url: ts.URL, st: st}
}

// exec runs the CLI as user 7 against the dev server.
func (h *harness) exec(args ...string) (code int, stdout, stderr string) {
	h.t.Helper()
	full := append([]string{"--api-url", h.url, "--theme", "mono", "--log-level", "error"}, args...)
	var out, errOut bytes.Buffer
	code = run(full, strings.NewReader(""), &out, &errOut)
	return code, out.String(), errOut.String()
}

func (h *harness) seed(title string, completed bool) model.Item {
	h.t.Helper()
	it, err := h.st.Create(context.Background(), model.Draft{UserID: 7, Title: title, Completed: completed})
	require.NoError(h.t, err)
	return it
}

func TestAddThenList(t *testing.T) {
	h := newHarness(t)

	code, out, errOut := h.exec("--user-id", "7", "add", "Buy", "milk")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "added #1 Buy milk")

	code, out, errOut = h.exec("--user-id", "7", "ls")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "#1")
	assert.Contains(t, out, "[ ] Buy milk")
	assert.Contains(t, out, "1 item left")
	assert.Contains(t, out, "0/1")
}

func TestListFilterAndGroup(t *testing.T) {
	h := newHarness(t)
	h.seed("Read", false)
	h.seed("Walk dog", true)

	code, out, _ := h.exec("--user-id", "7", "ls", "--filter", "completed")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "[x] Walk dog")
	assert.NotContains(t, out, "Read")

	code, out, _ = h.exec("--user-id", "7", "ls", "--group")
	require.Equal(t, 0, code)
	assert.Less(t, strings.Index(out, "Active"), strings.Index(out, "Read"))
	assert.Less(t, strings.Index(out, "Completed"), strings.Index(out, "Walk dog"))

	code, _, errOut := h.exec("--user-id", "7", "ls", "--filter", "someday")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "unknown filter")
}

func TestListTruncatesLongTitlesOnRuneBoundaries(t *testing.T) {
	title := strings.Repeat("é", 100)
	lines := flatLines([]model.Item{{ID: 1, UserID: 7, Title: title}})

	require.Len(t, lines, 1)
	assert.True(t, utf8.ValidString(lines[0]))
	assert.Contains(t, lines[0], "...")
	assert.NotContains(t, lines[0], title)

	short := flatLines([]model.Item{{ID: 2, UserID: 7, Title: "Café ☕"}})
	assert.Contains(t, short[0], "Café ☕")
}

func TestListScopedToOwner(t *testing.T) {
	h := newHarness(t)
	h.seed("Mine", false)

	code, out, _ := h.exec("--user-id", "8", "ls")
	require.Equal(t, 0, code)
	assert.NotContains(t, out, "Mine")
	assert.Contains(t, out, "no items")
}

func TestAddEmptyTitleIsUsageError(t *testing.T) {
	h := newHarness(t)

	code, _, errOut := h.exec("--user-id", "7", "add", "   ")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "Title should not be empty")

	items, err := h.st.List(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCommandsNeedUserID(t *testing.T) {
	h := newHarness(t)

	code, _, errOut := h.exec("ls")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "user id is not set")
}

func TestRemove(t *testing.T) {
	h := newHarness(t)
	it := h.seed("Read", false)

	code, out, _ := h.exec("--user-id", "7", "rm", "1")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "removed #1")
	items, err := h.st.List(context.Background(), 7)
	require.NoError(t, err)
	assert.NotContains(t, items, it)

	code, _, errOut := h.exec("--user-id", "7", "rm", "1")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "Unable to delete a todo")

	code, _, _ = h.exec("--user-id", "7", "rm", "abc")
	assert.Equal(t, 2, code)
}

func TestClearCompleted(t *testing.T) {
	h := newHarness(t)
	keep := h.seed("Read", false)
	h.seed("Walk dog", true)
	h.seed("Wash car", true)

	code, out, errOut := h.exec("--user-id", "7", "clear-completed")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "removed 2 of 2 completed")

	items, err := h.st.List(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, []model.Item{keep}, items)

	code, out, _ = h.exec("--user-id", "7", "clear-completed")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "nothing to clear")
}

func TestAuthLoginStatusLogout(t *testing.T) {
	h := newHarness(t)

	code, out, _ := h.exec("auth", "status")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "not logged in")

	code, out, errOut := h.exec("auth", "login", "--token", "Bearer secret-1234")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "token saved")

	code, out, _ = h.exec("auth", "status")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "source: file")
	assert.Contains(t, out, "****1234")
	assert.NotContains(t, out, "secret")

	code, out, _ = h.exec("--api-url", "http://other.example", "auth", "status")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "not logged in to http://other.example")
	assert.Contains(t, out, "also saved: "+h.url)

	code, _, _ = h.exec("--api-url", "http://other.example", "auth", "logout")
	require.Equal(t, 0, code)
	_, out, _ = h.exec("auth", "status")
	assert.Contains(t, out, "****1234", "logging out elsewhere keeps this endpoint's token")

	code, _, _ = h.exec("auth", "logout")
	require.Equal(t, 0, code)
	_, out, _ = h.exec("auth", "status")
	assert.Contains(t, out, "not logged in")

	code, _, _ = h.exec("auth", "login")
	assert.Equal(t, 2, code)

	code, _, _ = h.exec("auth", "login", "--token", "abc", "--ttl", "-1s")
	assert.Equal(t, 2, code)
}

func TestConfigPrintsEffectiveValues(t *testing.T) {
	h := newHarness(t)

	code, out, _ := h.exec("--user-id", "42", "config")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "user_id = 42")
	assert.Contains(t, out, `theme = "mono"`)
	assert.Contains(t, out, h.url)
}

func TestUsageErrors(t *testing.T) {
	h := newHarness(t)

	code, _, _ := h.exec("--no-such-flag")
	assert.Equal(t, 2, code)

	code, _, errOut := h.exec("--user-id", "-3", "ls")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "must not be negative")

	code, _, _ = h.exec("--theme", "plaid", "config")
	assert.Equal(t, 2, code)

	code, _, errOut = h.exec("frob")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "unknown command")

	code, _, _ = h.exec("--user-id", "abc", "ls")
	assert.Equal(t, 2, code, "bad flag value")

	code, _, _ = h.exec("--user-id", "7", "ls", "--nope")
	assert.Equal(t, 2, code, "unknown subcommand flag")

	code, _, _ = h.exec("--user-id", "7", "rm")
	assert.Equal(t, 2, code, "missing id")

	code, _, _ = h.exec("--user-id", "7", "ls", "extra")
	assert.Equal(t, 2, code, "unexpected argument")
}

func TestOpenStore(t *testing.T) {
	dir := t.TempDir()

	js, err := openStore("json", filepath.Join(dir, "a.json"))
	require.NoError(t, err)
	assert.IsType(t, &jsonstore.Store{}, js)
	require.NoError(t, js.Close())

	sq, err := openStore("sqlite", filepath.Join(dir, "a.db"))
	require.NoError(t, err)
	assert.IsType(t, &sqlitestore.Store{}, sq)
	require.NoError(t, sq.Close())

	_, err = openStore("redis", "")
	assert.Error(t, err)
}
