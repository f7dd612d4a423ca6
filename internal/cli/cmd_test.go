package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/graphvinci/graphvinci/internal/config"
	"github.com/graphvinci/graphvinci/internal/domainstate"
	"github.com/graphvinci/graphvinci/internal/repository"
	"github.com/graphvinci/graphvinci/internal/schema"
	"github.com/graphvinci/graphvinci/internal/service"
	"github.com/graphvinci/graphvinci/internal/testutil"
	"github.com/graphvinci/graphvinci/internal/viz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const shopSDL = `
type Query { me: User }

type User @domain(name: "users") {
  id: ID!
  email: String!
  account: Account
  orders: [Order!]!
}

type Account @domain(name: "users") {
  id: ID!
  balance: Float
}

type Order @domain(name: "orders") {
  id: ID!
  total: Float!
  owner: User!
  items: [LineItem!]!
  status: OrderStatus!
}

type LineItem @domain(name: "orders") { quantity: Int! }

enum OrderStatus @domain(name: "orders") { OPEN SHIPPED CLOSED }
`

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string { return ansiPattern.ReplaceAllString(s, "") }

// testApp wires an App backed by an in-memory DB. Deferred renders run
// inline and untagged types fall into the "users" domain.
func testApp(t *testing.T) *App {
	t.Helper()
	db := testutil.NewTestDB(t)
	cfg := config.Default()
	cfg.Explorer.SettleMs = 0
	cfg.Explorer.PrimaryDomain = "users"

	return &App{
		Config:  cfg,
		History: service.NewHistoryService(repository.NewSQLiteHistoryRepo(db), testutil.NewTestUoW(db), "", nil),
	}
}

func writeSchema(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shop.graphql")
	require.NoError(t, os.WriteFile(path, []byte(shopSDL), 0o644))
	return path
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return stripANSI(buf.String()), err
}

func renderFrame(t *testing.T, app *App, args ...string) *viz.Frame {
	t.Helper()
	root := NewRootCmd(app)
	out := new(bytes.Buffer)
	root.SetOut(out)
	root.SetErr(new(bytes.Buffer))
	root.SetArgs(append([]string{"render", writeSchema(t)}, args...))
	require.NoError(t, root.Execute())

	var f viz.Frame
	require.NoError(t, json.Unmarshal(out.Bytes(), &f))
	return &f
}

func domainStates(f *viz.Frame) map[string]domainstate.State {
	out := map[string]domainstate.State{}
	for _, d := range f.Domains {
		out[d.Domain] = d.State
	}
	return out
}

func nodeIDs(f *viz.Frame) []string {
	var ids []string
	for _, n := range f.Nodes {
		ids = append(ids, n.ID)
	}
	return ids
}

// --- layout ---

func TestLayoutCmd_SingleType(t *testing.T) {
	out, err := executeCmd(t, testApp(t), "layout", writeSchema(t), "--type", "User")
	require.NoError(t, err)
	assert.Contains(t, out, "User  OBJECT  users")
	assert.Contains(t, out, "account")
	assert.Contains(t, out, "LINK")
	assert.NotContains(t, out, "OrderStatus")
}

func TestLayoutCmd_AllTypes(t *testing.T) {
	out, err := executeCmd(t, testApp(t), "layout", writeSchema(t))
	require.NoError(t, err)
	for _, name := range []string{"Account", "LineItem", "Order", "OrderStatus", "Query", "User"} {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "SHIPPED")
}

func TestLayoutCmd_Errors(t *testing.T) {
	_, err := executeCmd(t, testApp(t), "layout", writeSchema(t), "--type", "Nope")
	assert.ErrorContains(t, err, `type "Nope" not found`)

	_, err = executeCmd(t, testApp(t), "layout", filepath.Join(t.TempDir(), "missing.graphql"))
	assert.Error(t, err)
}

// --- render ---

func TestRenderCmd_InitialState(t *testing.T) {
	f := renderFrame(t, testApp(t))

	assert.Equal(t, map[string]domainstate.State{"users": domainstate.Nodes, "orders": domainstate.Minimized}, domainStates(f))
	assert.ElementsMatch(t, []string{"Account", "Query", "User"}, nodeIDs(f))
	require.Len(t, f.Glyphs, 1)
	assert.Equal(t, "orders", f.Glyphs[0].Domain)
	assert.Equal(t, 3, f.Glyphs[0].NodeCount)

	var fields []string
	for _, e := range f.Edges {
		fields = append(fields, e.Field)
	}
	assert.Contains(t, fields, "account")
	assert.NotContains(t, fields, "items", "glyph to glyph edges are not drawn")
}

func TestRenderCmd_Kaboom(t *testing.T) {
	f := renderFrame(t, testApp(t), "--action", "kaboom")

	assert.Equal(t, map[string]domainstate.State{"users": domainstate.Nodes, "orders": domainstate.Nodes}, domainStates(f))
	assert.Len(t, f.Nodes, 6)
	assert.Empty(t, f.Glyphs)
}

func TestRenderCmd_Nothing(t *testing.T) {
	f := renderFrame(t, testApp(t), "--action", "nothing")

	assert.Empty(t, f.Nodes)
	assert.Empty(t, f.Glyphs)
	assert.Empty(t, f.Edges)
}

func TestRenderCmd_SetAndExclude(t *testing.T) {
	f := renderFrame(t, testApp(t), "--set", "orders=nodes", "--exclude", "Order")

	assert.NotContains(t, nodeIDs(f), "Order")
	assert.Contains(t, nodeIDs(f), "LineItem")
	for _, d := range f.Domains {
		if d.Domain == "orders" {
			assert.Equal(t, 1, d.Excluded)
			assert.Equal(t, 2, d.Visible)
		}
	}
}

func TestRenderCmd_Stick(t *testing.T) {
	f := renderFrame(t, testApp(t), "--stick", "--ticks", "5")
	require.NotEmpty(t, f.Nodes)
	for _, n := range f.Nodes {
		assert.True(t, n.Fixed, n.ID)
	}
}

func TestRenderCmd_BadInput(t *testing.T) {
	schema := writeSchema(t)

	_, err := executeCmd(t, testApp(t), "render", schema, "--set", "orders")
	assert.ErrorContains(t, err, "want DOMAIN=STATE")

	_, err = executeCmd(t, testApp(t), "render", schema, "--set", "orders=hidden")
	assert.Error(t, err)

	_, err = executeCmd(t, testApp(t), "render", schema, "--action", "explode")
	assert.ErrorContains(t, err, `unknown action "explode"`)

	_, err = executeCmd(t, testApp(t), "render", schema, "--exclude", "Ghost")
	assert.Error(t, err)
}

// --- domains ---

func TestDomainsCmd_PrimaryOpen(t *testing.T) {
	out, err := executeCmd(t, testApp(t), "domains", writeSchema(t))
	require.NoError(t, err)

	assert.Contains(t, out, "DOMAINS")
	assert.Contains(t, out, "users (3)")
	assert.Contains(t, out, "orders (3)")
	assert.Contains(t, out, "● NODES")
	assert.Contains(t, out, "● MINIMIZED")
	assert.Contains(t, out, "├─ Account")
	assert.Contains(t, out, "└─ User")
	assert.NotContains(t, out, "OrderStatus")
}

func TestDomainsCmd_OpenOther(t *testing.T) {
	out, err := executeCmd(t, testApp(t), "domains", writeSchema(t), "--open", "orders", "--set", "users=removed")
	require.NoError(t, err)
	assert.Contains(t, out, "└─ OrderStatus")
	assert.Contains(t, out, "● REMOVED")
	assert.NotContains(t, out, "Account")

	_, err = executeCmd(t, testApp(t), "domains", writeSchema(t), "--open", "nope")
	assert.ErrorContains(t, err, `domain "nope" not found`)
}

// --- history ---

func TestHistoryCmd_SaveListShowDelete(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "history", "save", "--query", "{ users { id } }")
	require.NoError(t, err)
	assert.Equal(t, "Saved query users [1315579548]\n", out)

	out, err = executeCmd(t, app, "history", "save", "-q", "{ users { id } }")
	require.NoError(t, err)
	assert.Equal(t, "Already saved [1315579548]\n", out)

	out, err = executeCmd(t, app, "history", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "1315579548")
	assert.Contains(t, out, "users")

	out, err = executeCmd(t, app, "history", "list", "--filter", "orders")
	require.NoError(t, err)
	assert.Contains(t, out, "No saved operations")

	out, err = executeCmd(t, app, "history", "show", "1315579548")
	require.NoError(t, err)
	assert.Contains(t, out, "{ users { id } }")

	out, err = executeCmd(t, app, "history", "delete", "1315579548")
	require.NoError(t, err)
	assert.Equal(t, "Deleted [1315579548]\n", out)

	_, err = executeCmd(t, app, "history", "delete", "1315579548")
	assert.Error(t, err)
}

func TestHistoryCmd_SaveFromFileWithVariables(t *testing.T) {
	app := testApp(t)
	path := filepath.Join(t.TempDir(), "q.graphql")
	require.NoError(t, os.WriteFile(path, []byte("query Q($id: ID!) { user(id: $id) { name } }"), 0o644))

	out, err := executeCmd(t, app, "history", "save", "--file", path, "--variables", `{"id":"42"}`)
	require.NoError(t, err)
	assert.Equal(t, "Saved query user [221217611]\n", out)

	out, err = executeCmd(t, app, "history", "show", "221217611")
	require.NoError(t, err)
	assert.Contains(t, out, `{"id":"42"}`)
}

func TestHistoryCmd_Validation(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "history", "save")
	assert.ErrorContains(t, err, "exactly one of")

	_, err = executeCmd(t, app, "history", "save", "-q", "{ a }", "--variables", "{nope")
	assert.ErrorContains(t, err, "not valid JSON")

	_, err = executeCmd(t, app, "history", "show")
	assert.ErrorContains(t, err, "hash is required")

	_, err = executeCmd(t, app, "history", "show", "abc")
	assert.ErrorContains(t, err, "invalid hash")
}

func TestHistoryCmd_ExportImport(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "history", "save", "-q", "{ users { id } }")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "history.json")
	_, err = executeCmd(t, app, "history", "export", "-o", path)
	require.NoError(t, err)

	other := testApp(t)
	out, err := executeCmd(t, other, "history", "import", path)
	require.NoError(t, err)
	assert.Equal(t, "Imported 1, skipped 0 already saved\n", out)

	out, err = executeCmd(t, other, "history", "import", path)
	require.NoError(t, err)
	assert.Equal(t, "Imported 0, skipped 1 already saved\n", out)
}

// --- explore ---

func TestExploreCmd_RequiresTerminal(t *testing.T) {
	_, err := executeCmd(t, testApp(t), "explore", writeSchema(t))
	assert.ErrorContains(t, err, "interactive terminal")
}

func TestExploreCmd_RunsProgram(t *testing.T) {
	app := testApp(t)
	var got *exploreModel
	app.RunProgram = func(m *exploreModel, _ io.Reader, _ io.Writer) error {
		got = m
		return nil
	}

	_, err := executeCmd(t, app, "explore", writeSchema(t))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Len(t, got.visibleTiles(), 5)
}

func TestExploreCmd_WatchReloadsSchema(t *testing.T) {
	app := testApp(t)
	path := writeSchema(t)

	var reload schema.Reload
	app.RunProgram = func(m *exploreModel, _ io.Reader, _ io.Writer) error {
		require.NotNil(t, m.reloads)
		require.NoError(t, os.WriteFile(path, []byte(shopSDL+"\ntype Coupon @domain(name: \"orders\") { code: String }\n"), 0o644))

		got := make(chan tea.Msg, 1)
		go func() { got <- m.waitForReload()() }()
		select {
		case msg := <-got:
			reload = msg.(schema.Reload)
		case <-time.After(3 * time.Second):
			t.Fatal("no reload within 3s")
		}
		m.Update(reload)
		return nil
	}

	_, err := executeCmd(t, app, "explore", "--watch", path)
	require.NoError(t, err)
	require.NoError(t, reload.Err)
	assert.Len(t, reload.Nodes, 7)
}
