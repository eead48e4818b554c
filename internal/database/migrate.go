package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"strings"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Migrate applies the embedded schema files in name order.  Every statement
// is idempotent (CREATE TABLE IF NOT EXISTS), so Migrate runs on each start.
func Migrate(ctx context.Context, db *sql.DB, log *slog.Logger) error {
	names, err := fs.Glob(migrationFS, "migrations/*.sql")
	if err != nil {
		return err
	}
	sort.Strings(names)
	for _, name := range names {
		body, err := migrationFS.ReadFile(name)
		if err != nil {
			return err
		}
		for _, stmt := range SplitStatements(string(body)) {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("apply %s: %w", name, err)
			}
		}
		log.Info("migration applied", slog.String("name", name))
	}
	return nil
}

// SplitStatements cuts a schema file on semicolons.  The files carry no
// procedures or string literals containing ';'.
func SplitStatements(body string) []string {
	var out []string
	for _, part := range strings.Split(body, ";") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}
