package secrets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	filled := filepath.Join(dir, "token")
	if err := os.WriteFile(filled, []byte("  from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	empty := filepath.Join(dir, "empty")
	if err := os.WriteFile(empty, []byte("\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		src     Source
		expect  string
		wantErr string
	}{
		{name: "inline value", src: Source{Name: "token", Value: " inline "}, expect: "inline"},
		{name: "file wins over value", src: Source{Name: "token", Value: "inline", File: filled}, expect: "from-file"},
		{name: "empty file", src: Source{Name: "token", File: empty}, wantErr: "is empty"},
		{name: "missing file", src: Source{Name: "token", File: filepath.Join(dir, "nope")}, wantErr: "reading token"},
		{name: "not configured", src: Source{}, wantErr: "secret is not configured"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.src)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	var token, password string

	err := Resolve(map[*string]Source{
		&token:    {Name: "token", Value: "abc"},
		&password: {Name: "password", Value: "secret"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if token != "abc" || password != "secret" {
		t.Fatalf("unexpected values: %q %q", token, password)
	}

	var missing string
	if err := Resolve(map[*string]Source{&missing: {Name: "api key"}}); err == nil {
		t.Fatal("expected error for missing secret")
	}
}
