package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func newTestStore(t *testing.T) (Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "storage.json")
	s, err := NewFileStore(path)
	if err != nil {
		t.Fatal(err)
	}
	return s, path
}

func TestReadAllCreatesMissingFile(t *testing.T) {
	s, path := newTestStore(t)
	if ok, err := s.Exists(); err != nil || ok {
		t.Fatalf("got %v, %v; want false, nil", ok, err)
	}
	doc, err := s.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(doc) != 0 {
		t.Errorf("got %v, want an empty document", doc)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "{}" {
		t.Errorf("got %q, want {}", b)
	}
}

func TestReadDoesNotCreateMissingFile(t *testing.T) {
	s, path := newTestStore(t)
	if _, err := s.Read(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want %v", err, ErrNotFound)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("Read created the storage file: %v", err)
	}
}

func TestReadAllCorrupt(t *testing.T) {
	s, path := newTestStore(t)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	for _, content := range []string{"{not json", "[1, 2]", "null", ""} {
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := s.ReadAll(); !errors.Is(err, ErrCorruptStorage) {
			t.Errorf("content %q: got %v, want %v", content, err, ErrCorruptStorage)
		}
	}
}

func TestWriteAllRoundTrip(t *testing.T) {
	s, _ := newTestStore(t)
	want := map[string]interface{}{
		"G1": map[string]interface{}{
			"M1":   map[string]interface{}{"money": 150.0, "inventory": []interface{}{}},
			"shop": []interface{}{map[string]interface{}{"id": 1.0, "name": "sword"}},
		},
	}
	if err := s.WriteAll(want); err != nil {
		t.Fatal(err)
	}
	got, err := s.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected document (-want +got):\n%s", diff)
	}
}

func TestWriteAllSkipsIdenticalContent(t *testing.T) {
	s, path := newTestStore(t)
	doc := map[string]interface{}{"a": 1.0}
	if err := s.WriteAll(doc); err != nil {
		t.Fatal(err)
	}
	past := time.Now().Add(-time.Hour).Truncate(time.Second)
	if err := os.Chtimes(path, past, past); err != nil {
		t.Fatal(err)
	}

	if err := s.WriteAll(map[string]interface{}{"a": 1.0}); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if !info.ModTime().Equal(past) {
		t.Errorf("identical write modified the file: mtime %v, want %v", info.ModTime(), past)
	}

	if err := s.WriteAll(map[string]interface{}{"a": 2.0}); err != nil {
		t.Fatal(err)
	}
	info, err = os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.ModTime().Equal(past) {
		t.Error("changed write did not modify the file")
	}
}

func TestCreate(t *testing.T) {
	s, path := newTestStore(t)
	if err := s.Create(); err != nil {
		t.Fatal(err)
	}
	if ok, err := s.Exists(); err != nil || !ok {
		t.Fatalf("got %v, %v; want true, nil", ok, err)
	}
	if err := os.WriteFile(path, []byte(`{"keep":true}`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := s.Create(); err != nil {
		t.Fatal(err)
	}
	doc, err := s.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if doc["keep"] != true {
		t.Errorf("Create overwrote an existing document: %v", doc)
	}
}

func TestValidatePath(t *testing.T) {
	for _, path := range []string{"", "  ", "go.mod", "./project/package.json", "/srv/app/GO.SUM", "data/"} {
		if err := ValidatePath(path); !errors.Is(err, ErrReservedPath) {
			t.Errorf("ValidatePath(%q) = %v, want %v", path, err, ErrReservedPath)
		}
	}
	for _, path := range []string{"storage.json", "./data/economy.json", "/var/lib/economy/db.json"} {
		if err := ValidatePath(path); err != nil {
			t.Errorf("ValidatePath(%q) = %v, want nil", path, err)
		}
	}
	if _, err := NewFileStore("package.json"); !errors.Is(err, ErrReservedPath) {
		t.Errorf("got %v, want %v", err, ErrReservedPath)
	}
}

func TestNewStoreDefaultsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	s, err := NewStore(Options{Type: "unknown", Path: path})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if s.Name() != path {
		t.Errorf("got %q, want %q", s.Name(), path)
	}
}
