package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDeriveOutputPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		target string
		want   string
	}{
		{"txt file", "notes.txt", "ru", "notes.ru.txt"},
		{"markdown", "README.md", "ru", "README.ru.md"},
		{"no extension", "notes", "ru", "notes.ru"},
		{"nested path", "docs/guide.txt", "ru", "docs/guide.ru.txt"},
		{"dotfile-like", "a.b.txt", "ru", "a.b.ru.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := deriveOutputPath(tt.input, tt.target); got != tt.want {
				t.Errorf("deriveOutputPath(%q, %q) = %q, want %q", tt.input, tt.target, got, tt.want)
			}
		})
	}
}

func TestWriteFileAtomic(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.txt")
	if err := writeFileAtomic(path, "hello"); err != nil {
		t.Fatalf("writeFileAtomic failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back failed: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("content = %q, want %q", data, "hello")
	}
}

func TestWriteFileAtomic_RefusesExisting(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.txt")
	if err := os.WriteFile(path, []byte("original"), 0644); err != nil {
		t.Fatal(err)
	}

	err := writeFileAtomic(path, "replacement")
	if !errors.Is(err, ErrOutputExists) {
		t.Fatalf("err = %v, want ErrOutputExists", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "original" {
		t.Errorf("existing file was modified: %q", data)
	}
}
