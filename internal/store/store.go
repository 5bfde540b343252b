package store

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	sqliteFileName = "planner.sqlite"

	// Namespace is the record namespace holding the planner's three keys.
	Namespace = "planner.data"

	KeyEvents = "events"
	KeyTasks  = "tasks"
	KeyNextID = "next_id"
)

// Store is a data directory. The zero value is unusable; Dir must be set.
type Store struct {
	Dir string
}

// DefaultDir resolves the data directory when none is configured:
// $DAYPLANNER_DIR, then $XDG_DATA_HOME/dayplanner, then ~/.local/share/dayplanner.
func DefaultDir() (string, error) {
	if v := strings.TrimSpace(os.Getenv("DAYPLANNER_DIR")); v != "" {
		return v, nil
	}
	if v := strings.TrimSpace(os.Getenv("XDG_DATA_HOME")); v != "" {
		return filepath.Join(v, "dayplanner"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", "dayplanner"), nil
}

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) sqlitePath() string {
	return filepath.Join(s.Dir, sqliteFileName)
}

// SQLitePath is where the records database lives.
func (s Store) SQLitePath() string {
	return s.sqlitePath()
}
