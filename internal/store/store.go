// Package store persists dependency graphs in SQLite. Graphs are stored as
// one row each: identity and summary columns for querying, plus a JSON
// payload holding nodes, edges, and stats. Expiry is enforced at query time;
// an expired row is invisible to reads until CleanupExpired reclaims it.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "github.com/mattn/go-sqlite3"
)

// graphCacheSize bounds the in-process read cache.
const graphCacheSize = 256

// Store is the SQLite data access layer for dependency graphs. A small LRU
// cache fronts reads; writes and deletes invalidate it.
type Store struct {
	db    *sql.DB
	cache *lru.Cache[string, *DependencyGraph]
}

// Open opens a SQLite database at dbPath with WAL mode enabled.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	cache, err := lru.New[string, *DependencyGraph](graphCacheSize)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create cache: %w", err)
	}
	return &Store{db: db, cache: cache}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate creates the schema. Idempotent.
func (s *Store) Migrate() error {
	_, err := s.db.Exec(schemaDDL)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS graphs (
  project_id            TEXT PRIMARY KEY,
  user_id               TEXT NOT NULL,
  persistent_project_id TEXT,
  project_name          TEXT NOT NULL,
  branch                TEXT,
  project_path          TEXT,
  file_count            INTEGER NOT NULL,
  function_count        INTEGER NOT NULL,
  analyzed_at           TIMESTAMP NOT NULL,
  expires_at            TIMESTAMP NOT NULL,
  payload               TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_graphs_user ON graphs(user_id);
CREATE INDEX IF NOT EXISTS idx_graphs_persistent ON graphs(persistent_project_id, user_id);
CREATE INDEX IF NOT EXISTS idx_graphs_expires ON graphs(expires_at);
`

// graphPayload is the JSON-encoded portion of a graph row.
type graphPayload struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
	Stats GraphStats  `json:"stats"`
}

func cacheKey(projectID, userID string) string {
	return projectID + "\x00" + userID
}

// SaveGraph inserts or replaces the graph stored under its project ID.
func (s *Store) SaveGraph(ctx context.Context, g *DependencyGraph) error {
	payload, err := json.Marshal(graphPayload{Nodes: g.Nodes, Edges: g.Edges, Stats: g.Stats})
	if err != nil {
		return fmt.Errorf("encode graph payload: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO graphs (
		  project_id, user_id, persistent_project_id, project_name, branch,
		  project_path, file_count, function_count, analyzed_at, expires_at, payload
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(project_id) DO UPDATE SET
		  user_id = excluded.user_id,
		  persistent_project_id = excluded.persistent_project_id,
		  project_name = excluded.project_name,
		  branch = excluded.branch,
		  project_path = excluded.project_path,
		  file_count = excluded.file_count,
		  function_count = excluded.function_count,
		  analyzed_at = excluded.analyzed_at,
		  expires_at = excluded.expires_at,
		  payload = excluded.payload`,
		g.ProjectID, g.UserID, g.PersistentProjectID, g.ProjectName, g.Branch,
		g.ProjectPath, g.Stats.TotalFiles, g.Stats.TotalFunctions,
		g.AnalyzedAt, g.ExpiresAt, string(payload))
	if err != nil {
		return fmt.Errorf("save graph: %w", err)
	}

	s.cache.Remove(cacheKey(g.ProjectID, g.UserID))
	return nil
}

// GraphByID returns the unexpired graph for a project ID and user, or nil if
// no such graph exists or it has expired.
func (s *Store) GraphByID(ctx context.Context, projectID, userID string) (*DependencyGraph, error) {
	key := cacheKey(projectID, userID)
	if g, ok := s.cache.Get(key); ok {
		if g.Expired(time.Now()) {
			s.cache.Remove(key)
			return nil, nil
		}
		return g, nil
	}

	g, err := s.queryGraph(ctx, `
		SELECT project_id, user_id, persistent_project_id, project_name, branch,
		       project_path, analyzed_at, expires_at, payload
		FROM graphs
		WHERE project_id = ? AND user_id = ? AND expires_at > ?`,
		projectID, userID, time.Now())
	if err != nil || g == nil {
		return g, err
	}
	s.cache.Add(key, g)
	return g, nil
}

// GraphByPersistentProjectID returns the most recently analyzed unexpired
// graph stored under a caller-supplied persistent project ID, or nil.
func (s *Store) GraphByPersistentProjectID(ctx context.Context, persistentID, userID string) (*DependencyGraph, error) {
	g, err := s.queryGraph(ctx, `
		SELECT project_id, user_id, persistent_project_id, project_name, branch,
		       project_path, analyzed_at, expires_at, payload
		FROM graphs
		WHERE persistent_project_id = ? AND user_id = ? AND expires_at > ?
		ORDER BY analyzed_at DESC
		LIMIT 1`,
		persistentID, userID, time.Now())
	if err != nil || g == nil {
		return g, err
	}
	s.cache.Add(cacheKey(g.ProjectID, g.UserID), g)
	return g, nil
}

func (s *Store) queryGraph(ctx context.Context, query string, args ...any) (*DependencyGraph, error) {
	row := s.db.QueryRowContext(ctx, query, args...)

	var g DependencyGraph
	var persistentID, branch, projectPath sql.NullString
	var payload string
	err := row.Scan(&g.ProjectID, &g.UserID, &persistentID, &g.ProjectName,
		&branch, &projectPath, &g.AnalyzedAt, &g.ExpiresAt, &payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query graph: %w", err)
	}
	g.PersistentProjectID = persistentID.String
	g.Branch = branch.String
	g.ProjectPath = projectPath.String

	var p graphPayload
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return nil, fmt.Errorf("decode graph payload: %w", err)
	}
	g.Nodes = p.Nodes
	g.Edges = p.Edges
	g.Stats = p.Stats
	return &g, nil
}

// DeleteGraph removes the graph stored under a project ID and user. Returns
// whether a row was deleted.
func (s *Store) DeleteGraph(ctx context.Context, projectID, userID string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM graphs WHERE project_id = ? AND user_id = ?", projectID, userID)
	if err != nil {
		return false, fmt.Errorf("delete graph: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete graph rows affected: %w", err)
	}
	s.cache.Remove(cacheKey(projectID, userID))
	return n > 0, nil
}

// ListSummaries returns summaries of the user's unexpired graphs, most
// recently analyzed first.
func (s *Store) ListSummaries(ctx context.Context, userID string) ([]GraphSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT project_id, project_name, branch, file_count, function_count,
		       analyzed_at, expires_at
		FROM graphs
		WHERE user_id = ? AND expires_at > ?
		ORDER BY analyzed_at DESC`,
		userID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("list graphs: %w", err)
	}
	defer rows.Close()

	summaries := []GraphSummary{}
	for rows.Next() {
		var sum GraphSummary
		var branch sql.NullString
		if err := rows.Scan(&sum.ProjectID, &sum.ProjectName, &branch,
			&sum.FileCount, &sum.FunctionCount, &sum.AnalyzedAt, &sum.ExpiresAt); err != nil {
			return nil, fmt.Errorf("scan graph summary: %w", err)
		}
		sum.Branch = branch.String
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate graph summaries: %w", err)
	}
	return summaries, nil
}

// CleanupExpired removes expired graph rows and returns how many were
// reclaimed. The cache is purged wholesale; surviving entries repopulate on
// the next read.
func (s *Store) CleanupExpired(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM graphs WHERE expires_at <= ?", time.Now())
	if err != nil {
		return 0, fmt.Errorf("cleanup expired graphs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("cleanup rows affected: %w", err)
	}
	s.cache.Purge()
	return int(n), nil
}
