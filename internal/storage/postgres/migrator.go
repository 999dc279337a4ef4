package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

//go:embed sql/migrations/*.sql
var migrationsFS embed.FS

const (
	migrationsGlob   = "sql/migrations/*.sql"
	migrationLockKey = int64(20250531)

	migrationTableDDL = `
CREATE TABLE IF NOT EXISTS schema_migrations (
    version BIGINT PRIMARY KEY,
    name TEXT NOT NULL,
    applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`
)

// Имя файла: <версия>_<имя>.<up|down>.sql, up и down обязательны парой.
var migrationFilePattern = regexp.MustCompile(`^(\d+)_([a-zA-Z0-9_]+)\.(up|down)\.sql$`)

type migration struct {
	Version int64
	Name    string
	UpSQL   string
	DownSQL string
}

// MigrateUp применяет up-миграции; steps=0 — все доступные.
func (s *Store) MigrateUp(ctx context.Context, steps int) error {
	return s.migrate(ctx, true, steps)
}

// MigrateDown откатывает миграции; steps<=0 трактуется как один шаг.
func (s *Store) MigrateDown(ctx context.Context, steps int) error {
	if steps <= 0 {
		steps = 1
	}
	return s.migrate(ctx, false, steps)
}

// MigrationStatus возвращает текущую версию схемы и число применённых миграций.
func (s *Store) MigrationStatus(ctx context.Context) (int64, int, error) {
	if s == nil || s.db == nil {
		return 0, 0, errors.New("postgres store is not initialized")
	}

	queryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := s.db.ExecContext(queryCtx, migrationTableDDL); err != nil {
		return 0, 0, fmt.Errorf("ensure migration table: %w", err)
	}

	var (
		version int64
		count   int
	)
	err := s.db.QueryRowContext(queryCtx, `
		SELECT COALESCE(MAX(version), 0), COUNT(*)
		FROM schema_migrations
	`).Scan(&version, &count)
	if err != nil {
		return 0, 0, fmt.Errorf("query migration status: %w", err)
	}

	return version, count, nil
}

func (s *Store) migrate(ctx context.Context, up bool, steps int) error {
	if s == nil || s.db == nil {
		return errors.New("postgres store is not initialized")
	}

	migrations, err := loadMigrations()
	if err != nil {
		return err
	}

	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire db connection: %w", err)
	}
	defer conn.Close()

	// Advisory lock сериализует прогон миграций между репликами сервиса.
	lockCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := conn.ExecContext(lockCtx, "SELECT pg_advisory_lock($1)", migrationLockKey); err != nil {
		return fmt.Errorf("acquire migration lock: %w", err)
	}
	defer func() {
		_, _ = conn.ExecContext(context.Background(), "SELECT pg_advisory_unlock($1)", migrationLockKey)
	}()

	if _, err := conn.ExecContext(ctx, migrationTableDDL); err != nil {
		return fmt.Errorf("ensure migration table: %w", err)
	}

	pending, err := selectPending(ctx, conn, migrations, up, steps)
	if err != nil {
		return err
	}
	for _, m := range pending {
		if err := applyOne(ctx, conn, m, up); err != nil {
			return err
		}
	}
	return nil
}

// selectPending выбирает миграции к выполнению: непримёненные по возрастанию
// версии для up, применённые по убыванию для down.
func selectPending(ctx context.Context, conn *sql.Conn, migrations []migration, up bool, steps int) ([]migration, error) {
	applied, err := appliedVersions(ctx, conn)
	if err != nil {
		return nil, err
	}

	byVersion := make(map[int64]migration, len(migrations))
	for _, m := range migrations {
		byVersion[m.Version] = m
	}

	var pending []migration
	if up {
		for _, m := range migrations {
			if applied[m.Version] {
				continue
			}
			pending = append(pending, m)
			if steps > 0 && len(pending) >= steps {
				break
			}
		}
		return pending, nil
	}

	versions := make([]int64, 0, len(applied))
	for version := range applied {
		versions = append(versions, version)
	}
	sort.Slice(versions, func(i, j int) bool { return versions[i] > versions[j] })

	for _, version := range versions {
		m, ok := byVersion[version]
		if !ok {
			return nil, fmt.Errorf("cannot rollback unknown migration version %d", version)
		}
		pending = append(pending, m)
		if len(pending) >= steps {
			break
		}
	}
	return pending, nil
}

// applyOne выполняет одну миграцию и запись о ней в одной транзакции.
func applyOne(ctx context.Context, conn *sql.Conn, m migration, up bool) error {
	direction := "down"
	body := m.DownSQL
	record := `DELETE FROM schema_migrations WHERE version = $1`
	args := []any{m.Version}
	if up {
		direction = "up"
		body = m.UpSQL
		record = `INSERT INTO schema_migrations (version, name, applied_at) VALUES ($1, $2, NOW())`
		args = []any{m.Version, m.Name}
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration tx (%s %d): %w", direction, m.Version, err)
	}

	if _, err := tx.ExecContext(ctx, body); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("execute %s migration %d_%s: %w", direction, m.Version, m.Name, err)
	}
	if _, err := tx.ExecContext(ctx, record, args...); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("record %s migration %d_%s: %w", direction, m.Version, m.Name, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s migration %d_%s: %w", direction, m.Version, m.Name, err)
	}

	return nil
}

func appliedVersions(ctx context.Context, conn *sql.Conn) (map[int64]bool, error) {
	rows, err := conn.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("query applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int64]bool)
	for rows.Next() {
		var version int64
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("scan applied migration version: %w", err)
		}
		applied[version] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate applied migrations: %w", err)
	}

	return applied, nil
}

// loadMigrations читает встроенные файлы и собирает их в пары up/down.
func loadMigrations() ([]migration, error) {
	files, err := fs.Glob(migrationsFS, migrationsGlob)
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}
	if len(files) == 0 {
		return nil, errors.New("no migration files found")
	}

	byVersion := make(map[int64]*migration)
	for _, file := range files {
		base := path.Base(file)
		matches := migrationFilePattern.FindStringSubmatch(base)
		if len(matches) != 4 {
			return nil, fmt.Errorf("invalid migration file name: %s", base)
		}

		version, err := strconv.ParseInt(matches[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse migration version from %s: %w", base, err)
		}
		name := matches[2]

		raw, err := fs.ReadFile(migrationsFS, file)
		if err != nil {
			return nil, fmt.Errorf("read migration file %s: %w", file, err)
		}
		body := strings.TrimSpace(string(raw))
		if body == "" {
			return nil, fmt.Errorf("migration file is empty: %s", base)
		}

		m := byVersion[version]
		if m == nil {
			m = &migration{Version: version, Name: name}
			byVersion[version] = m
		} else if m.Name != name {
			return nil, fmt.Errorf("migration name mismatch for version %d: %s vs %s", version, m.Name, name)
		}

		if matches[3] == "up" {
			m.UpSQL = body
		} else {
			m.DownSQL = body
		}
	}

	migrations := make([]migration, 0, len(byVersion))
	for _, m := range byVersion {
		if m.UpSQL == "" || m.DownSQL == "" {
			return nil, fmt.Errorf("migration %d_%s must have both up and down files", m.Version, m.Name)
		}
		migrations = append(migrations, *m)
	}
	sort.Slice(migrations, func(i, j int) bool { return migrations[i].Version < migrations[j].Version })

	return migrations, nil
}
