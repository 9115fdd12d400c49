package analytics

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/haasonsaas/session-memory/internal/core/db"
	"github.com/haasonsaas/session-memory/internal/core/ledger"
	"github.com/haasonsaas/session-memory/internal/core/models"
	"github.com/haasonsaas/session-memory/internal/core/session"
)

func newTestSession(t *testing.T) (*db.DB, *ledger.Ledger, int64) {
	t.Helper()

	database, err := db.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("db.New() error = %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	sessionID, err := session.Resolve(database, "/home/dev/repo")
	if err != nil {
		t.Fatalf("session.Resolve() error = %v", err)
	}

	return database, ledger.New(database), sessionID
}

func TestForSession_Counts(t *testing.T) {
	database, ldg, sessionID := newTestSession(t)

	for i := 0; i < 2; i++ {
		if _, err := ldg.LogRead(sessionID, fmt.Sprintf("/r/file%d.py", i), "reading"); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := ldg.LogChange(sessionID, "/r/new.py", models.ChangeCreate, "add"); err != nil {
		t.Fatal(err)
	}
	for _, result := range []models.TestResult{models.TestPass, models.TestPass, models.TestFail} {
		if _, err := ldg.LogTest(sessionID, "pytest", result, ""); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := ldg.AddNote(sessionID, "note", nil); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		if _, err := ldg.LogError(sessionID, "E", "boom", "", ""); err != nil {
			t.Fatal(err)
		}
	}

	m, err := ForSession(database, sessionID)
	if err != nil {
		t.Fatalf("ForSession() error = %v", err)
	}

	if m.FilesRead != 2 || m.ChangesMade != 1 || m.TestsRun != 3 || m.NotesAdded != 1 || m.ErrorsLogged != 2 {
		t.Errorf("counts = (%d, %d, %d, %d, %d), want (2, 1, 3, 1, 2)",
			m.FilesRead, m.ChangesMade, m.TestsRun, m.NotesAdded, m.ErrorsLogged)
	}
}

func TestForSession_TestSuccessRate(t *testing.T) {
	database, ldg, sessionID := newTestSession(t)

	for _, result := range []models.TestResult{models.TestPass, models.TestPass, models.TestFail} {
		if _, err := ldg.LogTest(sessionID, "pytest", result, ""); err != nil {
			t.Fatal(err)
		}
	}

	m, err := ForSession(database, sessionID)
	if err != nil {
		t.Fatalf("ForSession() error = %v", err)
	}

	if m.TestsRun != 3 {
		t.Errorf("TestsRun = %d, want 3", m.TestsRun)
	}
	if m.TestSuccessRate == nil {
		t.Fatal("TestSuccessRate = nil, want 2/3 as a percentage")
	}
	if got := fmt.Sprintf("%.1f", *m.TestSuccessRate); got != "66.7" {
		t.Errorf("TestSuccessRate = %s, want 66.7", got)
	}
}

func TestForSession_NoTestsOmitsRate(t *testing.T) {
	database, ldg, sessionID := newTestSession(t)

	if _, err := ldg.AddNote(sessionID, "no tests yet", nil); err != nil {
		t.Fatal(err)
	}

	m, err := ForSession(database, sessionID)
	if err != nil {
		t.Fatalf("ForSession() error = %v", err)
	}
	if m.TestSuccessRate != nil {
		t.Errorf("TestSuccessRate = %v, want nil when no tests exist", *m.TestSuccessRate)
	}

	// The field must disappear from serialized output, not render as zero
	data, err := json.Marshal(m)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "test_success_rate") {
		t.Errorf("serialized metrics should omit test_success_rate: %s", data)
	}
}

func TestForSession_AllPass(t *testing.T) {
	database, ldg, sessionID := newTestSession(t)

	for i := 0; i < 4; i++ {
		if _, err := ldg.LogTest(sessionID, "go test ./...", models.TestPass, ""); err != nil {
			t.Fatal(err)
		}
	}

	m, err := ForSession(database, sessionID)
	if err != nil {
		t.Fatalf("ForSession() error = %v", err)
	}
	if m.TestSuccessRate == nil || *m.TestSuccessRate != 100 {
		t.Errorf("TestSuccessRate = %v, want 100", m.TestSuccessRate)
	}
}

func TestForSession_FileTypes(t *testing.T) {
	database, ldg, sessionID := newTestSession(t)

	for _, p := range []string{"/r/a.py", "/r/b.py", "/r/c.js", "/r/d.md", "/r/e.xyz"} {
		if _, err := ldg.LogRead(sessionID, p, "reading"); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := ldg.LogChange(sessionID, "/r/f.py", models.ChangeCreate, "new"); err != nil {
		t.Fatal(err)
	}
	if _, err := ldg.LogChange(sessionID, "/r/g.html", models.ChangeModify, "markup"); err != nil {
		t.Fatal(err)
	}

	m, err := ForSession(database, sessionID)
	if err != nil {
		t.Fatalf("ForSession() error = %v", err)
	}

	want := []FileTypeCount{
		{Type: "Python", Count: 3},
		{Type: "Other", Count: 2},
		{Type: "JavaScript", Count: 1},
		{Type: "Markdown", Count: 1},
	}
	if !reflect.DeepEqual(m.FileTypes, want) {
		t.Errorf("FileTypes = %+v, want %+v", m.FileTypes, want)
	}

	total := 0
	for _, ft := range m.FileTypes {
		total += ft.Count
	}
	if total > m.FilesRead+m.ChangesMade {
		t.Errorf("histogram total %d exceeds reads+changes %d", total, m.FilesRead+m.ChangesMade)
	}
}

func TestForSession_FileTypesTruncatedToFive(t *testing.T) {
	database, ldg, sessionID := newTestSession(t)

	paths := []string{
		"/r/a.py", "/r/b.py",
		"/r/c.js", "/r/d.ts", "/r/e.jsx", "/r/f.tsx", "/r/g.css", "/r/h.md",
	}
	for _, p := range paths {
		if _, err := ldg.LogRead(sessionID, p, "reading"); err != nil {
			t.Fatal(err)
		}
	}

	m, err := ForSession(database, sessionID)
	if err != nil {
		t.Fatalf("ForSession() error = %v", err)
	}

	if len(m.FileTypes) != 5 {
		t.Fatalf("len(FileTypes) = %d, want 5", len(m.FileTypes))
	}
	if m.FileTypes[0].Type != "Python" || m.FileTypes[0].Count != 2 {
		t.Errorf("top bucket = %+v, want Python with 2", m.FileTypes[0])
	}
	// Single-count buckets follow in stable alphabetical order
	want := []FileTypeCount{
		{Type: "Python", Count: 2},
		{Type: "CSS", Count: 1},
		{Type: "JavaScript", Count: 1},
		{Type: "Markdown", Count: 1},
		{Type: "React", Count: 1},
	}
	if !reflect.DeepEqual(m.FileTypes, want) {
		t.Errorf("FileTypes = %+v, want %+v", m.FileTypes, want)
	}
}

func TestForSession_Duration(t *testing.T) {
	database, _, _ := newTestSession(t)

	result, err := database.Exec(`
		INSERT INTO sessions (uid, project_path, started_at, last_active)
		VALUES ('fixed', '/fixed', '2026-01-01 10:00:00', '2026-01-01 12:05:30')
	`)
	if err != nil {
		t.Fatal(err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		t.Fatal(err)
	}

	m, err := ForSession(database, id)
	if err != nil {
		t.Fatalf("ForSession() error = %v", err)
	}

	// 2h05m30s elapsed floors to 125 whole minutes
	if m.DurationMinutes != 125 {
		t.Errorf("DurationMinutes = %d, want 125", m.DurationMinutes)
	}
}

func TestForSession_MissingSession(t *testing.T) {
	database, _, _ := newTestSession(t)

	if _, err := ForSession(database, 99999); err == nil {
		t.Error("expected error for missing session")
	}
}

func TestActivityRate(t *testing.T) {
	tests := []struct {
		name     string
		metrics  Metrics
		wantRate float64
		wantOK   bool
	}{
		{"two per minute", Metrics{FilesRead: 10, ChangesMade: 5, TestsRun: 5, DurationMinutes: 10}, 2.0, true},
		{"zero duration", Metrics{FilesRead: 10, DurationMinutes: 0}, 0, false},
		{"no actions", Metrics{NotesAdded: 3, DurationMinutes: 5}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rate, ok := tt.metrics.ActivityRate()
			if ok != tt.wantOK || rate != tt.wantRate {
				t.Errorf("ActivityRate() = (%v, %v), want (%v, %v)", rate, ok, tt.wantRate, tt.wantOK)
			}
		})
	}
}
