package migration

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
)

func TestEmbeddedFilesArePaired(t *testing.T) {
	// Arrange
	entries, err := fs.ReadDir(files, "migrations")
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}

	ups := map[string]bool{}
	downs := map[string]bool{}

	// Act
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		}
	}

	// Assert
	if len(ups) == 0 {
		t.Fatalf("no migrations embedded")
	}
	for v := range ups {
		if !downs[v] {
			t.Fatalf("migration %s has no down file", v)
		}
	}
}

func TestUp_RequiresDSN(t *testing.T) {
	if err := Up(""); !errors.Is(err, ErrEmptyDSN) {
		t.Fatalf("Up(\"\") error = %v, want ErrEmptyDSN", err)
	}
}
