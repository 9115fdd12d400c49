package export

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
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

func TestBuild(t *testing.T) {
	database, ldg, sessionID := newTestSession(t)

	if _, err := ldg.LogRead(sessionID, "/r/main.py", "reading"); err != nil {
		t.Fatal(err)
	}
	if _, err := ldg.LogTest(sessionID, "pytest", models.TestPass, ""); err != nil {
		t.Fatal(err)
	}
	if _, err := ldg.AddNote(sessionID, "works", []string{"done"}); err != nil {
		t.Fatal(err)
	}

	snapshot, err := Build(database, sessionID)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if snapshot.SessionID != sessionID {
		t.Errorf("SessionID = %d, want %d", snapshot.SessionID, sessionID)
	}
	if snapshot.SessionUID == "" {
		t.Error("SessionUID not populated")
	}
	if snapshot.ProjectPath != "/home/dev/repo" {
		t.Errorf("ProjectPath = %q, want /home/dev/repo", snapshot.ProjectPath)
	}
	if snapshot.ExportedAt.IsZero() {
		t.Error("ExportedAt not populated")
	}
	if len(snapshot.Reads) != 1 || len(snapshot.Tests) != 1 || len(snapshot.Notes) != 1 {
		t.Errorf("event counts = (%d, %d, %d), want (1, 1, 1)",
			len(snapshot.Reads), len(snapshot.Tests), len(snapshot.Notes))
	}
}

func TestBuild_EmptyKindsSerializeAsLists(t *testing.T) {
	database, _, sessionID := newTestSession(t)

	snapshot, err := Build(database, sessionID)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	data, err := snapshot.JSON()
	if err != nil {
		t.Fatalf("JSON() error = %v", err)
	}

	out := string(data)
	for _, key := range []string{`"reads": []`, `"changes": []`, `"tests": []`, `"notes": []`, `"errors": []`} {
		if !strings.Contains(out, key) {
			t.Errorf("serialized snapshot missing %s:\n%s", key, out)
		}
	}
}

func TestBuild_CapsRowsPerKind(t *testing.T) {
	database, _, sessionID := newTestSession(t)

	err := database.WithTx(func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`INSERT INTO notes (session_id, content) VALUES (?, ?)`)
		if err != nil {
			return err
		}
		defer func() { _ = stmt.Close() }()

		for i := 0; i < 1005; i++ {
			if _, err := stmt.Exec(sessionID, fmt.Sprintf("note %d", i)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	snapshot, err := Build(database, sessionID)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if len(snapshot.Notes) != 1000 {
		t.Errorf("len(Notes) = %d, want capped at 1000", len(snapshot.Notes))
	}
	if snapshot.Notes[0].Content != "note 1004" {
		t.Errorf("Notes[0].Content = %q, want most recent note first", snapshot.Notes[0].Content)
	}
}

func TestBuild_MissingSession(t *testing.T) {
	database, _, _ := newTestSession(t)

	if _, err := Build(database, 99999); err == nil {
		t.Error("expected error for missing session")
	}
}

func TestSnapshot_JSONRoundTrip(t *testing.T) {
	database, ldg, sessionID := newTestSession(t)

	if _, err := ldg.AddNote(sessionID, "check token refresh", []string{"bug", "urgent"}); err != nil {
		t.Fatal(err)
	}

	snapshot, err := Build(database, sessionID)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	data, err := snapshot.JSON()
	if err != nil {
		t.Fatalf("JSON() error = %v", err)
	}

	var decoded Snapshot
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("snapshot does not round-trip: %v", err)
	}
	if len(decoded.Notes) != 1 || decoded.Notes[0].Tags[0] != "bug" {
		t.Errorf("decoded notes = %+v, want tag order preserved", decoded.Notes)
	}
}
