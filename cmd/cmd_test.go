package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/protek/protek/pkg/filter"
	"github.com/protek/protek/pkg/standards"
)

// run executes the root command with args and returns what it printed.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(append(args, "--config", filepath.Join(t.TempDir(), "protek.yaml")))
	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

// resetFlags puts every flag back to its default; the command tree is
// package-level so values otherwise leak from one run into the next.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			sv.Replace(nil)
		} else {
			f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func TestListBundledJSON(t *testing.T) {
	out, err := run(t, "list", "--bundled", "--json", "--impact", "high")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var got []standards.Standard
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(got) == 0 {
		t.Fatal("expected at least one high impact standard")
	}
	for _, s := range got {
		if s.Impact != standards.HighImpact {
			t.Errorf("%s has impact %q", s.Name, s.Impact)
		}
	}
}

func TestListRejectsBadImpact(t *testing.T) {
	if _, err := run(t, "list", "--bundled", "--impact", "extreme"); err == nil {
		t.Fatal("expected error for unknown impact")
	}
}

var fixtures = []standards.Standard{
	{Name: "mfa", Label: "Require MFA", Cat: "Entra", Impact: standards.HighImpact, AddedDate: "2026-10-10", Tag: []string{"CIS"}, HelpText: "Requires **MFA** everywhere."},
	{Name: "audit", Label: "Enable audit log", Cat: "Global", Impact: standards.LowImpact, AddedDate: "2021-01-01"},
	{Name: "legacy", Label: "Legacy (deprecated)", Cat: "Entra", Impact: standards.MediumImpact, AddedDate: "2026-10-14"},
}

var fixtureNow = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

func fixtureView(st filter.State) filter.View {
	return filter.Derive(fixtures, st, filter.Options{NewStandardsDays: 30, Now: fixtureNow})
}

func TestPrintCards(t *testing.T) {
	var buf bytes.Buffer
	printCards(&buf, fixtureView(filter.NewState()), fixtureNow, 30, 10)
	out := buf.String()

	if !strings.Contains(out, "Require MFA [High Impact]") {
		t.Errorf("missing card title:\n%s", out)
	}
	if !strings.Contains(out, "Entra | added 10/10/2026 | NEW") {
		t.Errorf("missing meta line:\n%s", out)
	}
	if !strings.Contains(out, "Requires M...") {
		t.Errorf("help text not stripped and truncated:\n%s", out)
	}
	if strings.Contains(out, "Legacy") {
		t.Errorf("deprecated standard shown by default:\n%s", out)
	}
	if strings.Index(out, "Require MFA") > strings.Index(out, "Enable audit log") {
		t.Errorf("newest standard should come first:\n%s", out)
	}
}

func TestPrintTable(t *testing.T) {
	st := filter.NewState()
	st.ShowDeprecated = true
	var buf bytes.Buffer
	printTable(&buf, fixtureView(st))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header + 3 rows, got %d:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[1], "legacy") {
		t.Errorf("first row should be the newest standard: %q", lines[1])
	}
}

func TestPrintStats(t *testing.T) {
	var buf bytes.Buffer
	printStats(&buf, fixtureView(filter.NewState()), 30)
	out := buf.String()
	for _, want := range []string{"Showing 2 of 2 standards", "New in the last 30 days: 1 (50%)", "TOTAL"} {
		if !strings.Contains(out, want) {
			t.Errorf("stats missing %q:\n%s", want, out)
		}
	}
}

func TestSyncCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"name": "standards.AuditLog", "label": "Enable the Unified Audit Log", "cat": "Global Standards", "impact": "Low Impact", "addedDate": "2021-11-16"},
			{"name": "standards.BrandNew", "label": "Brand new", "cat": "Teams Standards", "impact": "High Impact", "addedDate": "2026-10-12"}
		]`))
	}))
	defer srv.Close()
	t.Setenv("PROTEK_SYNC_URL", srv.URL)

	dbPath := filepath.Join(t.TempDir(), "protek.sqlite")

	out, err := run(t, "sync", "--dbpath", dbPath)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if !strings.Contains(out, "Synced 2 standards") || !strings.Contains(out, "(1 not in the bundled set)") {
		t.Errorf("unexpected sync output: %q", out)
	}

	out, err = run(t, "sync", "status", "--dbpath", dbPath)
	if err != nil {
		t.Fatalf("sync status: %v", err)
	}
	if !strings.Contains(out, "2 standards, 1 not in the bundled set") {
		t.Errorf("restore did not pick up the sync: %q", out)
	}

	out, err = run(t, "changes", "--dbpath", dbPath)
	if err != nil {
		t.Fatalf("changes: %v", err)
	}
	if !strings.Contains(out, "added    standards.BrandNew") {
		t.Errorf("change log missing added standard:\n%s", out)
	}
	if !strings.Contains(out, "removed  standards.MailContacts") {
		t.Errorf("change log missing removed standard:\n%s", out)
	}
}

func TestSyncCommandFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()
	t.Setenv("PROTEK_SYNC_URL", srv.URL)

	_, err := run(t, "sync", "--dbpath", filepath.Join(t.TempDir(), "protek.sqlite"))
	if err == nil || !strings.Contains(err.Error(), "HTTP 404") {
		t.Fatalf("expected HTTP 404 failure, got %v", err)
	}
}

func TestDBShellWithoutSqlite3(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "protek.sqlite")
	if err := os.WriteFile(dbPath, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", t.TempDir())

	_, err := run(t, "db", "shell", "--dbpath", dbPath)
	if err == nil || !strings.Contains(err.Error(), "sqlite3 not found in PATH") {
		t.Fatalf("expected missing sqlite3 error, got %v", err)
	}
}
