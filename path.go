package things

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// EnvVar names the environment variable that overrides the database path.
const EnvVar = "THINGSDB"

// defaultFileroot is the Things group container on macOS, relative to the
// user's home directory.
const defaultFileroot = "Library/Group Containers/JLMPQHK86H.com.culturedcode.ThingsMac"

const databaseFilename = "Things Database.thingsdatabase/main.sqlite"

// movedMarker is the first-line text Things leaves behind in the old
// database location after the 3.12.6/3.13.1 migration moved the file.
const movedMarker = "Your database file has been moved there"

// DefaultPath returns the default location of the Things database,
// accounting for the per-account ThingsData-* containers introduced in the
// April 2023 update.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	fileroot := filepath.Join(home, defaultFileroot)
	if info, err := os.Stat(filepath.Join(fileroot, "Things Database.thingsdatabase")); err == nil && info.IsDir() {
		matches, _ := filepath.Glob(filepath.Join(fileroot, "ThingsData-*"))
		for _, match := range matches {
			fileroot = match
		}
	}
	return filepath.Join(fileroot, databaseFilename)
}

// ResolvePath picks the database path from, in order: the explicit argument,
// the THINGSDB environment variable, and the default location. If the chosen
// file is a one-line "moved" marker left by a historical migration of the
// app, the default location is used instead.
func ResolvePath(explicit string) string {
	path := explicit
	if path == "" {
		path = os.Getenv(EnvVar)
	}
	if path == "" {
		path = DefaultPath()
	}
	if isMovedMarker(path) {
		path = DefaultPath()
	}
	return path
}

// isMovedMarker reports whether path is a moved-database marker file.
// Binary content (an actual database) and unreadable files are not markers.
func isMovedMarker(path string) bool {
	file, err := os.Open(path)
	if err != nil {
		return false
	}
	defer file.Close()
	scanner := bufio.NewScanner(file)
	if !scanner.Scan() {
		return false
	}
	return strings.Contains(scanner.Text(), movedMarker)
}
