package migrations

import (
	"io/fs"
	"strings"
	"testing"
)

func TestDriverURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"postgres scheme", "postgres://u:p@localhost:5432/db?sslmode=disable", "pgx5://u:p@localhost:5432/db?sslmode=disable"},
		{"postgresql scheme", "postgresql://u@db/app", "pgx5://u@db/app"},
		{"already pgx5", "pgx5://u@db/app", "pgx5://u@db/app"},
		{"unrelated", "sqlite://file.db", "sqlite://file.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DriverURL(tt.in); got != tt.want {
				t.Errorf("DriverURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestEmbeddedFiles(t *testing.T) {
	entries, err := fs.ReadDir(files, ".")
	if err != nil {
		t.Fatalf("ReadDir() unexpected error: %v", err)
	}

	ups, downs := 0, 0
	for _, e := range entries {
		switch {
		case strings.HasSuffix(e.Name(), ".up.sql"):
			ups++
		case strings.HasSuffix(e.Name(), ".down.sql"):
			downs++
		}
	}

	if ups == 0 {
		t.Fatal("no up migrations embedded")
	}
	if ups != downs {
		t.Errorf("got %d up and %d down migrations, want matching pairs", ups, downs)
	}
}
