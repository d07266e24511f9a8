package store

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	sqlitevec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"

	"github.com/ragcore/engine/internal/docmodel"
	"github.com/ragcore/engine/internal/filter"
	"github.com/ragcore/engine/internal/ragerr"
)

// auto-registers the vec0 extension on every connection opened through
// the standard "sqlite3" driver, per the package's documented init
// pattern.
func init() {
	sqlitevec.Auto()
}

// SQLiteConfig configures the reference SQL+vector backend.
type SQLiteConfig struct {
	Path      string // backing file; ":memory:" for an ephemeral store
	Dimension int
}

// DefaultSQLiteConfig matches spec.md §6's documented defaults.
func DefaultSQLiteConfig() SQLiteConfig {
	return SQLiteConfig{Path: "./ragcore.db", Dimension: 768}
}

// SQLite is the reference persistent Adapter, built on an embedded SQL
// engine (mattn/go-sqlite3) plus a k-NN vector virtual table
// (asg017/sqlite-vec-go-bindings/cgo, vec0).
type SQLite struct {
	mu          sync.Mutex
	cfg         SQLiteConfig
	db          *sql.DB
	initialized bool
	closed      bool
}

// NewSQLite constructs an uninitialized SQLite adapter.
func NewSQLite(cfg SQLiteConfig) *SQLite {
	if cfg.Dimension == 0 {
		cfg.Dimension = 768
	}
	if cfg.Path == "" {
		cfg.Path = "./ragcore.db"
	}
	return &SQLite{cfg: cfg}
}

const schema = `
CREATE TABLE IF NOT EXISTS sources (
	source_id TEXT PRIMARY KEY,
	original_content TEXT,
	title TEXT,
	url TEXT,
	source_type TEXT,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS documents (
	id TEXT PRIMARY KEY,
	source_id TEXT REFERENCES sources(source_id) ON DELETE CASCADE,
	content TEXT NOT NULL,
	metadata TEXT NOT NULL DEFAULT '{}',
	vec_rowid INTEGER NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_sources_source_type ON sources(source_type);
CREATE INDEX IF NOT EXISTS idx_documents_source_id ON documents(source_id);
CREATE INDEX IF NOT EXISTS idx_documents_created_at ON documents(created_at);
CREATE INDEX IF NOT EXISTS idx_documents_vec_rowid ON documents(vec_rowid);

CREATE TRIGGER IF NOT EXISTS trg_documents_updated_at
AFTER UPDATE ON documents
BEGIN
	UPDATE documents SET updated_at = CURRENT_TIMESTAMP WHERE id = NEW.id;
END;
`

func (s *SQLite) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.initialized {
		return nil
	}

	dsnSep := "?"
	if strings.Contains(s.cfg.Path, "?") {
		dsnSep = "&"
	}
	db, err := sql.Open("sqlite3", s.cfg.Path+dsnSep+"_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL")
	if err != nil {
		return ragerr.Wrap(ragerr.KindExtensionUnavailable, "failed to open sqlite database", err).
			WithSuggestion("verify the path is writable and mattn/go-sqlite3 built with cgo enabled")
	}
	db.SetMaxOpenConns(1)

	vecTable := fmt.Sprintf("CREATE VIRTUAL TABLE IF NOT EXISTS vec_documents USING vec0(embedding float[%d])", s.cfg.Dimension)
	if _, err := db.ExecContext(ctx, vecTable); err != nil {
		_ = db.Close()
		return ragerr.Wrap(ragerr.KindExtensionUnavailable, "failed to load vec0 extension", err).
			WithSuggestion("ensure the sqlite-vec extension was compiled into this binary")
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return ragerr.Wrap(ragerr.KindBackendError, "failed to apply schema", err)
	}

	s.db = db
	s.initialized = true
	return nil
}

func (s *SQLite) checkReady() error {
	if !s.initialized || s.closed {
		return ragerr.New(ragerr.KindNotInitialized, "sqlite adapter is not initialized")
	}
	return nil
}

// insertSource lazily creates the Source row the first time its first
// chunk (chunk_index 0 or unset) carries originalContent.
func insertSource(ctx context.Context, tx *sql.Tx, md docmodel.Metadata) error {
	sourceID, _ := md[docmodel.MetaSourceID].(string)
	if sourceID == "" {
		return nil
	}
	var exists int
	if err := tx.QueryRowContext(ctx, "SELECT 1 FROM sources WHERE source_id = ?", sourceID).Scan(&exists); err == nil {
		return nil // already present
	} else if err != sql.ErrNoRows {
		return err
	}

	chunkIndex, hasIndex := md[docmodel.MetaChunkIndex]
	isFirst := !hasIndex
	if hasIndex {
		if f, ok := toFloat(chunkIndex); ok {
			isFirst = f == 0
		}
	}
	original, hasOriginal := md[docmodel.MetaOriginalContent].(string)
	if !isFirst || !hasOriginal {
		return nil
	}

	title, _ := md[docmodel.MetaTitle].(string)
	url, _ := md[docmodel.MetaURL].(string)
	sourceType, _ := md[docmodel.MetaSourceType].(string)
	_, err := tx.ExecContext(ctx,
		"INSERT INTO sources (source_id, original_content, title, url, source_type) VALUES (?, ?, ?, ?, ?)",
		sourceID, original, title, url, sourceType)
	return err
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	default:
		return 0, false
	}
}

// stripForPersistence removes originalContent (which lives only on the
// Source) before a Chunk's metadata is serialized to the documents
// table.
func stripForPersistence(md docmodel.Metadata) docmodel.Metadata {
	out := make(docmodel.Metadata, len(md))
	for k, v := range md {
		if k == docmodel.MetaOriginalContent {
			continue
		}
		out[k] = v
	}
	return out
}

func (s *SQLite) Insert(ctx context.Context, c docmodel.Chunk) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids, err := s.insertBatchLocked(ctx, []docmodel.Chunk{c})
	if err != nil {
		return "", err
	}
	return ids[0], nil
}

func (s *SQLite) InsertBatch(ctx context.Context, cs []docmodel.Chunk) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertBatchLocked(ctx, cs)
}

func (s *SQLite) insertBatchLocked(ctx context.Context, cs []docmodel.Chunk) ([]string, error) {
	if err := s.checkReady(); err != nil {
		return nil, err
	}
	for _, c := range cs {
		if err := docmodel.EnsureDimension(c.Embedding, s.cfg.Dimension); err != nil {
			return nil, err
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, ragerr.Wrap(ragerr.KindBackendError, "begin transaction", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ids := make([]string, len(cs))
	for i, c := range cs {
		id, err := s.upsertOne(ctx, tx, c)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}

	if err := tx.Commit(); err != nil {
		return nil, ragerr.Wrap(ragerr.KindBackendError, "commit transaction", err)
	}
	return ids, nil
}

// upsertOne implements insert-as-upsert by ChunkID: on a colliding id it
// reclaims the old vector row instead of leaving it orphaned, resolving
// the upsert-vs-strict-insert open question in favor of upsert semantics
// with orphan-vector reclamation.
func (s *SQLite) upsertOne(ctx context.Context, tx *sql.Tx, c docmodel.Chunk) (string, error) {
	c.ChunkID = docmodel.GenerateID(c.ChunkID)

	vecBytes, err := sqlitevec.SerializeFloat32(c.Embedding)
	if err != nil {
		return "", ragerr.Wrap(ragerr.KindBackendError, "serialize embedding", err)
	}

	persisted := stripForPersistence(c.Metadata)
	metaJSON, err := json.Marshal(persisted)
	if err != nil {
		return "", ragerr.Wrap(ragerr.KindBackendError, "marshal metadata", err)
	}

	var oldVecRowID sql.NullInt64
	err = tx.QueryRowContext(ctx, "SELECT vec_rowid FROM documents WHERE id = ?", c.ChunkID).Scan(&oldVecRowID)
	switch {
	case err == nil:
		if err := insertSource(ctx, tx, c.Metadata); err != nil {
			return "", ragerr.Wrap(ragerr.KindBackendError, "insert source", err)
		}
		if oldVecRowID.Valid {
			if _, err := tx.ExecContext(ctx, "DELETE FROM vec_documents WHERE rowid = ?", oldVecRowID.Int64); err != nil {
				return "", ragerr.Wrap(ragerr.KindBackendError, "reclaim orphan vector row", err)
			}
		}
		res, err := tx.ExecContext(ctx, "INSERT INTO vec_documents (embedding) VALUES (?)", vecBytes)
		if err != nil {
			return "", ragerr.Wrap(ragerr.KindBackendError, "insert vector", err)
		}
		newRowID, err := res.LastInsertId()
		if err != nil {
			return "", ragerr.Wrap(ragerr.KindBackendError, "read vector rowid", err)
		}
		_, err = tx.ExecContext(ctx,
			"UPDATE documents SET source_id = ?, content = ?, metadata = ?, vec_rowid = ? WHERE id = ?",
			nullableString(c.SourceID), c.Content, string(metaJSON), newRowID, c.ChunkID)
		if err != nil {
			return "", ragerr.Wrap(ragerr.KindBackendError, "update document", err)
		}
		return c.ChunkID, nil

	case err == sql.ErrNoRows:
		if err := insertSource(ctx, tx, c.Metadata); err != nil {
			return "", ragerr.Wrap(ragerr.KindBackendError, "insert source", err)
		}
		res, err := tx.ExecContext(ctx, "INSERT INTO vec_documents (embedding) VALUES (?)", vecBytes)
		if err != nil {
			return "", ragerr.Wrap(ragerr.KindBackendError, "insert vector", err)
		}
		rowID, err := res.LastInsertId()
		if err != nil {
			return "", ragerr.Wrap(ragerr.KindBackendError, "read vector rowid", err)
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO documents (id, source_id, content, metadata, vec_rowid) VALUES (?, ?, ?, ?, ?)",
			c.ChunkID, nullableString(c.SourceID), c.Content, string(metaJSON), rowID)
		if err != nil {
			return "", ragerr.Wrap(ragerr.KindBackendError, "insert document", err)
		}
		return c.ChunkID, nil

	default:
		return "", ragerr.Wrap(ragerr.KindBackendError, "lookup existing document", err)
	}
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// deserializeFloat32 decodes a vec0 "float32[N]" column value: a packed
// little-endian float32 array, the inverse of
// sqlitevec.SerializeFloat32. sqlite-vec-go-bindings exposes a
// serializer but no matching deserializer, so this decodes the
// documented wire format directly.
func deserializeFloat32(b []byte) []float32 {
	if len(b) == 0 {
		return nil
	}
	out := make([]float32, len(b)/4)
	for i := range out {
		bits := binary.LittleEndian.Uint32(b[i*4 : i*4+4])
		out[i] = math.Float32frombits(bits)
	}
	return out
}

type documentRow struct {
	id         string
	sourceID   sql.NullString
	content    string
	metaJSON   string
	embedding  []byte
	chunkIdx   sql.NullInt64
	createdAt  time.Time
	updatedAt  time.Time
	srcTitle   sql.NullString
	srcURL     sql.NullString
	srcType    sql.NullString
	srcContent sql.NullString
}

func rowToChunk(r documentRow) (docmodel.Chunk, error) {
	var md docmodel.Metadata
	if err := json.Unmarshal([]byte(r.metaJSON), &md); err != nil {
		return docmodel.Chunk{}, ragerr.Wrap(ragerr.KindBackendError, "unmarshal metadata", err)
	}
	if md == nil {
		md = docmodel.Metadata{}
	}
	if r.sourceID.Valid {
		md[docmodel.MetaSourceID] = r.sourceID.String
	}
	chunkIndex := 0
	if v, ok := md[docmodel.MetaChunkIndex]; ok {
		if f, ok := toFloat(v); ok {
			chunkIndex = int(f)
		}
	}
	if chunkIndex == 0 && r.srcContent.Valid {
		md[docmodel.MetaOriginalContent] = r.srcContent.String
	}
	if r.srcTitle.Valid {
		md[docmodel.MetaTitle] = r.srcTitle.String
	}
	if r.srcURL.Valid {
		md[docmodel.MetaURL] = r.srcURL.String
	}
	if r.srcType.Valid {
		md[docmodel.MetaSourceType] = r.srcType.String
	}

	return docmodel.Chunk{
		ChunkID:   r.id,
		SourceID:  r.sourceID.String,
		Content:   r.content,
		Embedding: deserializeFloat32(r.embedding),
		Metadata:  md,
		CreatedAt: r.createdAt,
		UpdatedAt: r.updatedAt,
	}, nil
}

const selectDocumentJoin = `
SELECT d.id, d.source_id, d.content, d.metadata, v.embedding, d.created_at, d.updated_at,
       s.title, s.url, s.source_type, s.original_content
FROM documents d
JOIN vec_documents v ON d.vec_rowid = v.rowid
LEFT JOIN sources s ON d.source_id = s.source_id
WHERE d.id = ?`

func (s *SQLite) Get(ctx context.Context, id string) (*docmodel.Chunk, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkReady(); err != nil {
		return nil, err
	}

	var r documentRow
	r.id = id
	err := s.db.QueryRowContext(ctx, selectDocumentJoin, id).Scan(
		&r.id, &r.sourceID, &r.content, &r.metaJSON, &r.embedding, &r.createdAt, &r.updatedAt,
		&r.srcTitle, &r.srcURL, &r.srcType, &r.srcContent)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, ragerr.Wrap(ragerr.KindBackendError, "get document", err)
	}
	c, err := rowToChunk(r)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *SQLite) Update(ctx context.Context, id string, p Partial) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkReady(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ragerr.Wrap(ragerr.KindBackendError, "begin transaction", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var existing sql.NullInt64
	err = tx.QueryRowContext(ctx, "SELECT vec_rowid FROM documents WHERE id = ?", id).Scan(&existing)
	if err == sql.ErrNoRows {
		return ragerr.New(ragerr.KindNotFound, "chunk not found").WithDetail("id", id)
	}
	if err != nil {
		return ragerr.Wrap(ragerr.KindBackendError, "lookup document", err)
	}

	sets := make([]string, 0, 3)
	args := make([]any, 0, 4)

	if p.Embedding != nil {
		if err := docmodel.EnsureDimension(p.Embedding, s.cfg.Dimension); err != nil {
			return err
		}
		vecBytes, err := sqlitevec.SerializeFloat32(p.Embedding)
		if err != nil {
			return ragerr.Wrap(ragerr.KindBackendError, "serialize embedding", err)
		}
		if existing.Valid {
			if _, err := tx.ExecContext(ctx, "DELETE FROM vec_documents WHERE rowid = ?", existing.Int64); err != nil {
				return ragerr.Wrap(ragerr.KindBackendError, "reclaim orphan vector row", err)
			}
		}
		res, err := tx.ExecContext(ctx, "INSERT INTO vec_documents (embedding) VALUES (?)", vecBytes)
		if err != nil {
			return ragerr.Wrap(ragerr.KindBackendError, "insert vector", err)
		}
		newRowID, err := res.LastInsertId()
		if err != nil {
			return ragerr.Wrap(ragerr.KindBackendError, "read vector rowid", err)
		}
		sets = append(sets, "vec_rowid = ?")
		args = append(args, newRowID)
	}
	if p.Content != nil {
		sets = append(sets, "content = ?")
		args = append(args, *p.Content)
	}
	if p.Metadata != nil {
		// originalContent cannot be changed via Chunk update; it is an
		// immutable Source attribute.
		metaJSON, err := json.Marshal(stripForPersistence(p.Metadata))
		if err != nil {
			return ragerr.Wrap(ragerr.KindBackendError, "marshal metadata", err)
		}
		sets = append(sets, "metadata = ?")
		args = append(args, string(metaJSON))
	}

	if len(sets) > 0 {
		args = append(args, id)
		stmt := "UPDATE documents SET " + strings.Join(sets, ", ") + " WHERE id = ?"
		if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
			return ragerr.Wrap(ragerr.KindBackendError, "update document", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return ragerr.Wrap(ragerr.KindBackendError, "commit transaction", err)
	}
	return nil
}

func (s *SQLite) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkReady(); err != nil {
		return err
	}
	return s.deleteOne(ctx, id)
}

func (s *SQLite) DeleteBatch(ctx context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkReady(); err != nil {
		return err
	}
	for _, id := range ids {
		var exists int
		if err := s.db.QueryRowContext(ctx, "SELECT 1 FROM documents WHERE id = ?", id).Scan(&exists); err == sql.ErrNoRows {
			return ragerr.New(ragerr.KindNotFound, "chunk not found").WithDetail("id", id)
		} else if err != nil {
			return ragerr.Wrap(ragerr.KindBackendError, "lookup document", err)
		}
	}
	for _, id := range ids {
		if err := s.deleteOne(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLite) deleteOne(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ragerr.Wrap(ragerr.KindBackendError, "begin transaction", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var vecRowID int64
	var sourceID sql.NullString
	err = tx.QueryRowContext(ctx, "SELECT vec_rowid, source_id FROM documents WHERE id = ?", id).Scan(&vecRowID, &sourceID)
	if err == sql.ErrNoRows {
		return ragerr.New(ragerr.KindNotFound, "chunk not found").WithDetail("id", id)
	}
	if err != nil {
		return ragerr.Wrap(ragerr.KindBackendError, "lookup document", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id); err != nil {
		return ragerr.Wrap(ragerr.KindBackendError, "delete document", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM vec_documents WHERE rowid = ?", vecRowID); err != nil {
		return ragerr.Wrap(ragerr.KindBackendError, "delete vector", err)
	}

	if sourceID.Valid {
		var remaining int
		if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents WHERE source_id = ?", sourceID.String).Scan(&remaining); err != nil {
			return ragerr.Wrap(ragerr.KindBackendError, "count remaining chunks", err)
		}
		if remaining == 0 {
			if _, err := tx.ExecContext(ctx, "DELETE FROM sources WHERE source_id = ?", sourceID.String); err != nil {
				return ragerr.Wrap(ragerr.KindBackendError, "delete orphaned source", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return ragerr.Wrap(ragerr.KindBackendError, "commit transaction", err)
	}
	return nil
}

func (s *SQLite) Search(ctx context.Context, embedding []float32, opts SearchOptions) ([]docmodel.Hit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkReady(); err != nil {
		return nil, err
	}
	compiled, err := filter.Compile(opts.Filter)
	if err != nil {
		return nil, err
	}
	k := opts.K
	if k <= 0 {
		k = 1
	}
	vecBytes, err := sqlitevec.SerializeFloat32(embedding)
	if err != nil {
		return nil, ragerr.Wrap(ragerr.KindBackendError, "serialize query embedding", err)
	}

	where := ""
	args := make([]any, 0, len(compiled.SQLArgs)+3)
	if compiled.SQLWhere != "" {
		where = compiled.SQLWhere + " AND "
		args = append(args, compiled.SQLArgs...)
	}
	args = append(args, vecBytes, k, k)

	query := fmt.Sprintf(`
SELECT d.id, d.source_id, d.content, d.metadata, v.embedding, d.created_at, d.updated_at,
       s.title, s.url, s.source_type, s.original_content, v.distance
FROM vec_documents v
JOIN documents d ON d.vec_rowid = v.rowid
LEFT JOIN sources s ON d.source_id = s.source_id
WHERE %sv.rowid IN (SELECT rowid FROM vec_documents
            WHERE embedding MATCH ? ORDER BY distance LIMIT ?)
ORDER BY v.distance LIMIT ?`, where)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, ragerr.Wrap(ragerr.KindBackendError, "vector search", err)
	}
	defer rows.Close()

	var hits []docmodel.Hit
	for rows.Next() {
		var r documentRow
		var distance float64
		if err := rows.Scan(&r.id, &r.sourceID, &r.content, &r.metaJSON, &r.embedding, &r.createdAt, &r.updatedAt,
			&r.srcTitle, &r.srcURL, &r.srcType, &r.srcContent, &distance); err != nil {
			return nil, ragerr.Wrap(ragerr.KindBackendError, "scan search row", err)
		}
		c, err := rowToChunk(r)
		if err != nil {
			return nil, err
		}
		hits = append(hits, docmodel.Hit{Chunk: c, Score: 1 - distance})
	}
	return hits, rows.Err()
}

func (s *SQLite) List(ctx context.Context, opts ListOptions) ([]docmodel.Chunk, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkReady(); err != nil {
		return nil, err
	}
	compiled, err := filter.Compile(opts.Filter)
	if err != nil {
		return nil, err
	}

	where := ""
	args := make([]any, 0, len(compiled.SQLArgs)+2)
	if compiled.SQLWhere != "" {
		where = "WHERE " + compiled.SQLWhere
		args = append(args, compiled.SQLArgs...)
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = -1 // sqlite: negative LIMIT means unlimited
	}
	query := fmt.Sprintf(`
SELECT d.id, d.source_id, d.content, d.metadata, v.embedding, d.created_at, d.updated_at,
       s.title, s.url, s.source_type, s.original_content
FROM documents d
JOIN vec_documents v ON d.vec_rowid = v.rowid
LEFT JOIN sources s ON d.source_id = s.source_id
%s
ORDER BY d.created_at DESC
LIMIT ? OFFSET ?`, where)
	args = append(args, limit, opts.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, ragerr.Wrap(ragerr.KindBackendError, "list documents", err)
	}
	defer rows.Close()

	var out []docmodel.Chunk
	for rows.Next() {
		var r documentRow
		if err := rows.Scan(&r.id, &r.sourceID, &r.content, &r.metaJSON, &r.embedding, &r.createdAt, &r.updatedAt,
			&r.srcTitle, &r.srcURL, &r.srcType, &r.srcContent); err != nil {
			return nil, ragerr.Wrap(ragerr.KindBackendError, "scan list row", err)
		}
		c, err := rowToChunk(r)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLite) Count(ctx context.Context, opts CountOptions) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkReady(); err != nil {
		return 0, err
	}
	compiled, err := filter.Compile(opts.Filter)
	if err != nil {
		return 0, err
	}
	where := ""
	args := compiled.SQLArgs
	if compiled.SQLWhere != "" {
		where = "WHERE " + compiled.SQLWhere
	}
	var n int
	query := "SELECT COUNT(*) FROM documents " + where
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, ragerr.Wrap(ragerr.KindBackendError, "count documents", err)
	}
	return n, nil
}

func (s *SQLite) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		_ = s.db.Close()
	}
	s.closed = true
	return nil
}

func (s *SQLite) Info() Info {
	return Info{
		Provider:     "sqlite",
		Version:      "1",
		Capabilities: []string{"search", "list", "count", "batch", "persistent"},
	}
}
