package marks

import (
	"path/filepath"
	"testing"
	"time"
)

func TestStoreRecordAndSearchAll(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer store.Close()

	ok := 0
	failed := 1
	if err := store.RecordCommand("session-a", "/proj/one", "git commit -m fix", &ok, time.Unix(1000, 0)); err != nil {
		t.Fatalf("RecordCommand: %v", err)
	}
	if err := store.RecordCommand("session-b", "/proj/two", "npm run build", &failed, time.Unix(2000, 0)); err != nil {
		t.Fatalf("RecordCommand: %v", err)
	}

	results, err := store.SearchAll("git", "", 10)
	if err != nil {
		t.Fatalf("SearchAll: %v", err)
	}
	if len(results) != 1 || results[0].CommandText != "git commit -m fix" {
		t.Fatalf("expected one git hit, got %+v", results)
	}
	if results[0].ExitCode == nil || *results[0].ExitCode != 0 {
		t.Fatalf("expected exit code 0, got %+v", results[0].ExitCode)
	}
}

func TestStoreSearchAllScopesToProjectDir(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer store.Close()

	store.RecordCommand("s1", "/proj/one", "make test", nil, time.Unix(1, 0))
	store.RecordCommand("s2", "/proj/two", "make test", nil, time.Unix(2, 0))

	results, err := store.SearchAll("make", "/proj/one", 10)
	if err != nil {
		t.Fatalf("SearchAll: %v", err)
	}
	if len(results) != 1 || results[0].ProjectDir != "/proj/one" {
		t.Fatalf("expected one scoped hit, got %+v", results)
	}
}

func TestNewStoreCreatesDBFileInConfigDir(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer store.Close()

	if store.dbPath != filepath.Join(dir, DBFileName) {
		t.Fatalf("unexpected db path: %s", store.dbPath)
	}
}
