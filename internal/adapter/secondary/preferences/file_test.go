package preferences

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"volumelockr/internal/domain"
)

func TestFileStoreDefaults(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "nested", "prefs.yaml"))
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if s.Bool(domain.PasswordProtectedKey, false) {
		t.Error("password_protected should default to false")
	}
	if s.Mode() != domain.ModeNormal {
		t.Errorf("Mode() = %v, want normal", s.Mode())
	}
}

func TestFileStorePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	s, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if err := s.SetBool(domain.PasswordProtectedKey, true); err != nil {
		t.Fatalf("SetBool: %v", err)
	}
	if err := s.SetMode(domain.ModeSilent); err != nil {
		t.Fatalf("SetMode: %v", err)
	}

	reopened, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if !reopened.Bool(domain.PasswordProtectedKey, false) {
		t.Error("password_protected not persisted")
	}
	if reopened.Mode() != domain.ModeSilent {
		t.Errorf("Mode() = %v, want silent", reopened.Mode())
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("tmp file left behind: %v", err)
	}
}

func TestFileStoreRejectsInvalidMode(t *testing.T) {
	s := NewMemoryStore()
	if err := s.SetMode(domain.Mode(9)); !errors.Is(err, domain.ErrInvalidMode) {
		t.Errorf("SetMode(9) err = %v, want ErrInvalidMode", err)
	}
}

func TestFileStoreIgnoresWrongTypes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	if err := os.WriteFile(path, []byte("password_protected: \"yes\"\nringer_mode: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if s.Bool(domain.PasswordProtectedKey, false) {
		t.Error("string value must not be read as true")
	}
	if s.Mode() != domain.ModeVibrate {
		t.Errorf("Mode() = %v, want vibrate", s.Mode())
	}
}

func TestFileStoreWatchReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	s, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = s.Watch(ctx) }()

	// Give watcher time to start.
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(path, []byte("password_protected: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for !s.Bool(domain.PasswordProtectedKey, false) {
		if time.Now().After(deadline) {
			t.Fatal("store did not reload after external write")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
