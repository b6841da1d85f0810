package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const migrationTemplate = `-- +goose Up
-- +goose StatementBegin
-- schema change: %s
-- +goose StatementEnd

-- +goose Down
-- +goose StatementBegin
-- undo: %s
-- +goose StatementEnd
`

// CreateSQLMigration writes an empty goose migration named
// <dir>/<YYYYMMDDHHMMSS>_<slug>.sql and returns its path. The slug is the
// given name lowercased with every non [a-z0-9] run collapsed to a single
// underscore, matching what ValidateDir accepts.
func CreateSQLMigration(dir, name string) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("migrations directory is required")
	}
	slug := slugify(name)
	if slug == "" {
		return "", fmt.Errorf("migration name %q leaves nothing after sanitizing", name)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating migrations directory %q: %w", dir, err)
	}

	version := time.Now().UTC().Format("20060102150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.sql", version, slug))
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("migration %s already exists", path)
	}

	content := fmt.Sprintf(migrationTemplate, slug, slug)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("writing migration %q: %w", path, err)
	}
	return path, nil
}

func slugify(name string) string {
	lowered := strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	lastUnderscore := true // suppress a leading underscore
	for _, r := range lowered {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastUnderscore = false
		case !lastUnderscore:
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	return strings.TrimRight(b.String(), "_")
}
