package database

import (
	"errors"
	"os"
	"testing"
	"time"
)

func TestCheckStorageRecreatesMissingFile(t *testing.T) {
	db, path := newTestDB(t)
	mustSet(t, db, "a", 1.0)
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if err := db.CheckStorage(); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "{}" {
		t.Errorf("got %q, want {}", b)
	}
}

func TestCheckStorageReportsCorruption(t *testing.T) {
	db, path := newTestDB(t)
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := db.CheckStorage(); !errors.Is(err, ErrCorruptStorage) {
		t.Fatalf("got %v, want %v", err, ErrCorruptStorage)
	}
	select {
	case err := <-db.Errors():
		if !errors.Is(err, ErrCorruptStorage) {
			t.Errorf("got %v, want %v", err, ErrCorruptStorage)
		}
	default:
		t.Error("corruption was not reported on the error channel")
	}
}

func TestWatchdogRecreatesFile(t *testing.T) {
	db, path := newTestDB(t)
	mustSet(t, db, "a", 1.0)
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}

	db.StartWatchdog(5 * time.Millisecond)
	db.StartWatchdog(5 * time.Millisecond)
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(path); err == nil {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	db.StopWatchdog()
	db.StopWatchdog()

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("watchdog did not recreate the storage file: %v", err)
	}

	// No checks run once stopped.
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	time.Sleep(30 * time.Millisecond)
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("storage was recreated after the watchdog stopped: %v", err)
	}
}

func TestWatchdogSurfacesCorruption(t *testing.T) {
	db, path := newTestDB(t)
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	db.StartWatchdog(5 * time.Millisecond)
	defer db.StopWatchdog()

	select {
	case err := <-db.Errors():
		if !errors.Is(err, ErrCorruptStorage) {
			t.Errorf("got %v, want %v", err, ErrCorruptStorage)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("watchdog did not report the corrupt storage")
	}
}
