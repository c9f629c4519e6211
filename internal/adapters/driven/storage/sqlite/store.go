package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/aldrinstellus/worksearch/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/aldrinstellus/worksearch/internal/core/domain"
	"github.com/aldrinstellus/worksearch/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.RecordStore = (*Store)(nil)

// Store is a SQLite-backed implementation of driven.RecordStore.
// It is the read model over the platform's content: articles, news,
// knowledge items, KB documents and employee directory entries.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.worksearch/data/records.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".worksearch", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "records.db")

	// WAL mode for better concurrency between the loader and searches.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: dbPath}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Save inserts or updates a record.
func (s *Store) Save(ctx context.Context, rec *domain.Record) error {
	tags, err := json.Marshal(rec.Tags)
	if err != nil {
		return fmt.Errorf("marshalling tags: %w", err)
	}
	meta, err := json.Marshal(rec.Metadata)
	if err != nil {
		return fmt.Errorf("marshalling metadata: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO records (id, kind, organization_id, owner_id, space_id,
			title, body, content_type, tags, metadata, published_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (kind, id) DO UPDATE SET
			organization_id = excluded.organization_id,
			owner_id = excluded.owner_id,
			space_id = excluded.space_id,
			title = excluded.title,
			body = excluded.body,
			content_type = excluded.content_type,
			tags = excluded.tags,
			metadata = excluded.metadata,
			published_at = excluded.published_at,
			updated_at = excluded.updated_at
	`, rec.ID, string(rec.Kind), rec.OrganizationID, rec.OwnerID, rec.SpaceID,
		rec.Title, rec.Body, rec.ContentType, string(tags), string(meta),
		rec.PublishedAt, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("saving record %s/%s: %w", rec.Kind, rec.ID, err)
	}
	return nil
}

// Get retrieves a record by kind and ID.
func (s *Store) Get(ctx context.Context, kind domain.SourceKind, id string) (*domain.Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, kind, organization_id, owner_id, space_id,
			title, body, content_type, tags, metadata, published_at, updated_at
		FROM records WHERE kind = ? AND id = ?
	`, string(kind), id)

	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting record %s/%s: %w", kind, id, err)
	}
	return rec, nil
}

// bodyMatchOffset ranks body-only matches after every title match when
// ordering by match position.
const bodyMatchOffset = 1 << 20

// FindMatching queries records of the kind whose title or body contains
// the match string (case-insensitive), scoped to the tenant and content
// types. Matches are ordered by match position (title before body,
// earlier first, ID as tie-break) before the limit applies, so capping
// keeps the strongest matches rather than the lowest IDs.
func (s *Store) FindMatching(
	ctx context.Context, kind domain.SourceKind, match string,
	scope domain.TenantScope, contentTypes []string, limit int,
) ([]domain.Record, error) {
	query := strings.Builder{}
	query.WriteString(`
		SELECT id, kind, organization_id, owner_id, space_id,
			title, body, content_type, tags, metadata, published_at, updated_at
		FROM records WHERE kind = ?`)
	args := []any{string(kind)}

	if match != "" {
		query.WriteString(` AND (instr(lower(title), ?) > 0 OR instr(lower(body), ?) > 0)`)
		needle := strings.ToLower(match)
		args = append(args, needle, needle)
	}
	if scope.OrganizationID != "" {
		query.WriteString(` AND (organization_id = '' OR organization_id = ?)`)
		args = append(args, scope.OrganizationID)
	}
	// Owner-restricted records are only visible to their owner.
	query.WriteString(` AND (owner_id = '' OR owner_id = ?)`)
	args = append(args, scope.UserID)

	if kind == domain.SourceInternalKB && len(scope.KBSpaceIDs) > 0 {
		query.WriteString(` AND space_id IN (?` + strings.Repeat(",?", len(scope.KBSpaceIDs)-1) + `)`)
		for _, id := range scope.KBSpaceIDs {
			args = append(args, id)
		}
	}
	if len(contentTypes) > 0 {
		query.WriteString(` AND content_type IN (?` + strings.Repeat(",?", len(contentTypes)-1) + `)`)
		for _, ct := range contentTypes {
			args = append(args, ct)
		}
	}

	if match != "" {
		needle := strings.ToLower(match)
		query.WriteString(` ORDER BY CASE WHEN instr(lower(title), ?) > 0
			THEN instr(lower(title), ?)
			ELSE ` + strconv.Itoa(bodyMatchOffset) + ` + instr(lower(body), ?) END, id`)
		args = append(args, needle, needle, needle)
	} else {
		query.WriteString(` ORDER BY id`)
	}
	if limit > 0 {
		query.WriteString(` LIMIT ?`)
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var out []domain.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}
	return out, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*domain.Record, error) {
	var rec domain.Record
	var kind, tags, meta string
	var publishedAt, updatedAt sql.NullTime

	err := row.Scan(&rec.ID, &kind, &rec.OrganizationID, &rec.OwnerID, &rec.SpaceID,
		&rec.Title, &rec.Body, &rec.ContentType, &tags, &meta, &publishedAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	rec.Kind = domain.SourceKind(kind)
	if err := json.Unmarshal([]byte(tags), &rec.Tags); err != nil {
		return nil, fmt.Errorf("unmarshalling tags: %w", err)
	}
	if err := json.Unmarshal([]byte(meta), &rec.Metadata); err != nil {
		return nil, fmt.Errorf("unmarshalling metadata: %w", err)
	}
	if publishedAt.Valid {
		rec.PublishedAt = publishedAt.Time.UTC()
	}
	if updatedAt.Valid {
		rec.UpdatedAt = updatedAt.Time.UTC()
	}
	return &rec, nil
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}
