package session

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "saves.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPutGet(t *testing.T) {
	s := openStore(t)

	want := []byte(`{"hp":72}`)
	if err := s.Put("quicksave", want); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := s.Get("quicksave")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("Get = %s, want %s", got, want)
	}
}

func TestPutOverwrites(t *testing.T) {
	s := openStore(t)

	s.Put("slot", []byte("old"))
	if err := s.Put("slot", []byte("new")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := s.Get("slot")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "new" {
		t.Errorf("Get = %s, want new", got)
	}

	slots, err := s.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(slots) != 1 {
		t.Errorf("List = %d slots, want 1", len(slots))
	}
}

func TestGetMissing(t *testing.T) {
	s := openStore(t)
	if _, err := s.Get("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get missing: %v, want ErrNotFound", err)
	}
}

func TestList(t *testing.T) {
	s := openStore(t)
	s.Put("alpha", []byte("a"))
	s.Put("beta", []byte("b"))

	slots, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(slots) != 2 {
		t.Fatalf("List = %d slots, want 2", len(slots))
	}
	for _, slot := range slots {
		if slot.SavedAt.IsZero() {
			t.Errorf("slot %s has zero timestamp", slot.Name)
		}
	}
}

func TestDelete(t *testing.T) {
	s := openStore(t)
	s.Put("doomed", []byte("x"))

	if err := s.Delete("doomed"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get("doomed"); !errors.Is(err, ErrNotFound) {
		t.Error("deleted slot still readable")
	}
	if err := s.Delete("doomed"); !errors.Is(err, ErrNotFound) {
		t.Errorf("double delete: %v, want ErrNotFound", err)
	}
}

func TestReopenPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saves.db")
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	s.Put("durable", []byte("payload"))
	s.Close()

	s2, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	got, err := s2.Get("durable")
	if err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
	if string(got) != "payload" {
		t.Errorf("Get = %s", got)
	}
}
