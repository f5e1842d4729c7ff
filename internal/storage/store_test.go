package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pixil98/go-testutil"
)

type testSpec struct {
	Name     string `json:"name"`
	MinLevel int    `json:"min_level"`
}

func (s *testSpec) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("name must be set")
	}
	return nil
}

func writeAsset(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFileStore_Load(t *testing.T) {
	dir := t.TempDir()
	writeAsset(t, dir, "downtown.json", `{"version": 1, "id": "downtown", "spec": {"name": "Downtown", "min_level": 1}}`)
	writeAsset(t, dir, "port.json", `{"version": 1, "id": "port", "spec": {"name": "Port", "min_level": 3}}`)
	writeAsset(t, dir, "notes.txt", `not an asset`)

	s, err := NewFileStore[*testSpec](dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "record count", len(s.GetAll()), 2)
	testutil.AssertEqual(t, "downtown name", s.Get("downtown").Name, "Downtown")
	testutil.AssertEqual(t, "port min level", s.Get("port").MinLevel, 3)

	var nilSpec *testSpec
	testutil.AssertEqual(t, "missing record", s.Get("nowhere"), nilSpec)
}

func TestFileStore_LoadErrors(t *testing.T) {
	tests := map[string]struct {
		files  map[string]string
		expErr string
	}{
		"duplicate id": {
			files: map[string]string{
				"a.json": `{"version": 1, "id": "downtown", "spec": {"name": "A"}}`,
				"b.json": `{"version": 1, "id": "downtown", "spec": {"name": "B"}}`,
			},
			expErr: "duplicate key",
		},
		"missing version": {
			files: map[string]string{
				"a.json": `{"id": "downtown", "spec": {"name": "A"}}`,
			},
			expErr: "version must be set",
		},
		"missing id": {
			files: map[string]string{
				"a.json": `{"version": 1, "spec": {"name": "A"}}`,
			},
			expErr: "id must be set",
		},
		"invalid id characters": {
			files: map[string]string{
				"a.json": `{"version": 1, "id": "down town", "spec": {"name": "A"}}`,
			},
			expErr: "id must be alphanumeric",
		},
		"spec validation failure": {
			files: map[string]string{
				"a.json": `{"version": 1, "id": "downtown", "spec": {}}`,
			},
			expErr: "name must be set",
		},
		"malformed json": {
			files: map[string]string{
				"a.json": `{"version": 1,`,
			},
			expErr: "unmarshalling asset",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			for file, content := range tt.files {
				writeAsset(t, dir, file, content)
			}

			_, err := NewFileStore[*testSpec](dir)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.expErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.expErr)
			}
		})
	}
}

func TestFileStore_MissingDirectory(t *testing.T) {
	_, err := NewFileStore[*testSpec](filepath.Join(t.TempDir(), "nope"))
	if err == nil {
		t.Error("expected error for missing directory")
	}
}
