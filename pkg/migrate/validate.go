package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var migrationFileRe = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)

// ValidateDir checks every .sql file in dir before goose ever sees it:
// versioned snake_case filenames, unique versions, and an Up section followed
// by a Down section. Non-SQL files and subdirectories are ignored.
func ValidateDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("migrations directory is required")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading migrations directory %q: %w", dir, err)
	}

	versions := map[string]string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}

		match := migrationFileRe.FindStringSubmatch(name)
		if match == nil {
			return fmt.Errorf("migration %q is not named <YYYYMMDDHHMMSS>_<snake_case>.sql", name)
		}
		if earlier, dup := versions[match[1]]; dup {
			return fmt.Errorf("migrations %q and %q share version %s", earlier, name, match[1])
		}
		versions[match[1]] = name

		if err := validateSections(filepath.Join(dir, name)); err != nil {
			return err
		}
	}
	return nil
}

func validateSections(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading migration %q: %w", path, err)
	}

	content := string(data)
	up := strings.Index(content, "-- +goose Up")
	down := strings.Index(content, "-- +goose Down")
	switch {
	case up < 0:
		return fmt.Errorf("migration %q has no \"-- +goose Up\" section", filepath.Base(path))
	case down < 0:
		return fmt.Errorf("migration %q has no \"-- +goose Down\" section", filepath.Base(path))
	case down < up:
		return fmt.Errorf("migration %q declares Down before Up", filepath.Base(path))
	}
	return nil
}
