package config

import (
	"testing"
)

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Token != "" || cfg.ServerURL != "" {
		t.Fatalf("empty config expected, got %+v", cfg)
	}
}

func TestSetCredentials_RoundTrip(t *testing.T) {
	dir := t.TempDir()

	if err := SetCredentials(dir, "tok-1", "us-1", "frieda"); err != nil {
		t.Fatalf("set: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Token != "tok-1" || cfg.UserID != "us-1" || cfg.Username != "frieda" {
		t.Fatalf("config: %+v", cfg)
	}

	if err := ClearCredentials(dir); err != nil {
		t.Fatalf("clear: %v", err)
	}
	cfg, _ = Load(dir)
	if cfg.Token != "" {
		t.Fatal("token not cleared")
	}
}

func TestServerURL_Default(t *testing.T) {
	dir := t.TempDir()

	url, err := ServerURL(dir)
	if err != nil {
		t.Fatalf("server url: %v", err)
	}
	if url != DefaultServerURL {
		t.Fatalf("url: got %q, want default", url)
	}

	if err := SetServerURL(dir, "https://tale.example"); err != nil {
		t.Fatalf("set: %v", err)
	}
	url, _ = ServerURL(dir)
	if url != "https://tale.example" {
		t.Fatalf("url: got %q", url)
	}
}
