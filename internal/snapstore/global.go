package snapstore

import (
	"os"
	"path/filepath"
)

// DefaultDBFilePath returns the path to the SQLite DB file for the
// snapshot archive.
func DefaultDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".sprintlens_snapshots.db"
	}
	return filepath.Join(homeDir, ".sprintlens_snapshots.db")
}
