package markers

import (
	"testing"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestGet_AbsentMarker(t *testing.T) {
	s := setupStore(t)

	liked, ok, err := s.Get("st-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok || liked {
		t.Fatalf("absent marker: got (%v,%v), want (false,false)", liked, ok)
	}
}

func TestSetAndGet(t *testing.T) {
	s := setupStore(t)

	if err := s.Set("st-1", true); err != nil {
		t.Fatalf("set: %v", err)
	}
	liked, ok, err := s.Get("st-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok || !liked {
		t.Fatalf("marker: got (%v,%v), want (true,true)", liked, ok)
	}
}

func TestSet_Overwrites(t *testing.T) {
	s := setupStore(t)

	if err := s.Set("st-1", true); err != nil {
		t.Fatalf("set true: %v", err)
	}
	if err := s.Set("st-1", false); err != nil {
		t.Fatalf("set false: %v", err)
	}
	liked, ok, err := s.Get("st-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok || liked {
		t.Fatalf("marker: got (%v,%v), want (false,true)", liked, ok)
	}
}

func TestOpen_Reopens(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Set("st-1", true); err != nil {
		t.Fatalf("set: %v", err)
	}
	s.Close()

	s2, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	liked, ok, err := s2.Get("st-1")
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if !ok || !liked {
		t.Fatalf("marker lost across reopen: (%v,%v)", liked, ok)
	}
}
