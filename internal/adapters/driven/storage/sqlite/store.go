package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/sercha-audio/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/sercha-audio/internal/core/ports/driven"
)

// dbFileName is the database file created inside the data directory.
const dbFileName = "cache.db"

// maxQueryParams keeps IN lists below SQLite's host parameter limit.
const maxQueryParams = 500

// Store is a SQLite database holding application caches.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.sercha-audio/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".sercha-audio", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFileName)

	// WAL mode lets readers proceed while a writer holds the lock.
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

// EmbeddingCache returns an EmbeddingCache backed by this store.
func (s *Store) EmbeddingCache() driven.EmbeddingCache {
	return &embeddingCache{store: s}
}

// SchemaVersion returns the highest applied migration version.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	var v int
	err := s.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&v)
	return v, err
}

// migrate runs all pending up migrations in version order and records each one.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	currentVersion, err := s.SchemaVersion(context.Background())
	if err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_embedding_cache.up.sql" -> 1
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

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("beginning migration %s: %w", name, err)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Embedding Cache ====================

// embeddingCache implements driven.EmbeddingCache.
type embeddingCache struct {
	store *Store
}

var _ driven.EmbeddingCache = (*embeddingCache)(nil)

// GetEmbeddings returns cached vectors for the given text hashes.
func (c *embeddingCache) GetEmbeddings(ctx context.Context, model string, hashes []string) (map[string][]float32, error) {
	found := make(map[string][]float32, len(hashes))
	for start := 0; start < len(hashes); start += maxQueryParams {
		batch := hashes[start:min(start+maxQueryParams, len(hashes))]

		args := make([]any, 0, len(batch)+1)
		args = append(args, model)
		for _, h := range batch {
			args = append(args, h)
		}
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(batch)), ",")

		// #nosec G202 -- placeholders are generated, values are bound
		rows, err := c.store.db.QueryContext(ctx,
			"SELECT text_hash, vector FROM embedding_cache WHERE model = ? AND text_hash IN ("+placeholders+")",
			args...)
		if err != nil {
			return nil, fmt.Errorf("querying embedding cache: %w", err)
		}

		for rows.Next() {
			var hash string
			var blob []byte
			if err := rows.Scan(&hash, &blob); err != nil {
				rows.Close()
				return nil, fmt.Errorf("scanning embedding: %w", err)
			}
			found[hash] = bytesToFloat32Slice(blob)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, fmt.Errorf("iterating embeddings: %w", err)
		}
		rows.Close()
	}
	return found, nil
}

// PutEmbeddings stores vectors keyed by text hash, replacing existing entries.
func (c *embeddingCache) PutEmbeddings(ctx context.Context, model string, vectors map[string][]float32) error {
	if len(vectors) == 0 {
		return nil
	}

	tx, err := c.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO embedding_cache (model, text_hash, dimensions, vector, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(model, text_hash) DO UPDATE SET
			dimensions = excluded.dimensions,
			vector = excluded.vector,
			created_at = excluded.created_at
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for hash, vec := range vectors {
		if _, err := stmt.ExecContext(ctx, model, hash, len(vec), float32SliceToBytes(vec), now); err != nil {
			return fmt.Errorf("storing embedding: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing embeddings: %w", err)
	}
	return nil
}

// Close is a no-op; the owning Store closes the database.
func (c *embeddingCache) Close() error {
	return nil
}

// ==================== Helper Functions ====================

// float32SliceToBytes converts a []float32 to a little-endian byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a stored byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
