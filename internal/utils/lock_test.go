package utils

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestRunLockExclusive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "repeaters.csv")

	first, err := NewRunLock(path)
	if err != nil {
		t.Fatalf("NewRunLock: %v", err)
	}
	if want := path + ".lock"; first.Path() != want {
		t.Fatalf("expected lock at %s, got %s", want, first.Path())
	}
	if err := first.TryLock(); err != nil {
		t.Fatalf("first TryLock: %v", err)
	}

	second, err := NewRunLock(path)
	if err != nil {
		t.Fatalf("NewRunLock: %v", err)
	}
	if err := second.TryLock(); !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}

	if err := first.Unlock(); err != nil {
		t.Fatalf("Unlock: %v", err)
	}
	if err := second.TryLock(); err != nil {
		t.Fatalf("TryLock after release: %v", err)
	}
	_ = second.Unlock()
}

func TestPercent(t *testing.T) {
	if got := Percent(1, 3); got != "33.3" {
		t.Fatalf("expected 33.3, got %s", got)
	}
	if got := Percent(0, 0); got != "0.0" {
		t.Fatalf("expected 0.0 for empty total, got %s", got)
	}
}

func TestSortedKeys(t *testing.T) {
	got := SortedKeys(map[string]int{"70cm": 1, "2m": 4, "1.25m": 2})
	want := []string{"1.25m", "2m", "70cm"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}
