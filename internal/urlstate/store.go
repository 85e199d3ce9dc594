// Package urlstate implements the URL-State Store (spec component A): a
// keyed persistent map from URL to UrlState, backed by SQLite so repeated
// runs share conditional-GET metadata without re-parsing unchanged pages.
package urlstate

import (
	"database/sql"
	"net/http"
	"time"

	_ "modernc.org/sqlite"

	"github.com/scholartriage/pipeline/internal/leadmodel"
	"github.com/scholartriage/pipeline/pkg/failure"
)

// Store is the persistent per-URL metadata map.
type Store interface {
	Get(url string) (leadmodel.UrlState, bool, failure.ClassifiedError)
	Upsert(state leadmodel.UrlState) failure.ClassifiedError
	CleanupOlderThan(days int) (int, failure.ClassifiedError)
	Close() error
}

// SQLiteStore is the concrete Store backed by a modernc.org/sqlite (pure Go,
// no cgo) database file.
type SQLiteStore struct {
	db *sql.DB
}

// Open opens or creates the SQLite database at path and ensures the schema
// exists.
func Open(path string) (*SQLiteStore, failure.ClassifiedError) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, StoreError{Message: "open url state db", Cause: ErrCauseOpenFailed, Wrapped: err}
	}
	if err := db.Ping(); err != nil {
		return nil, StoreError{Message: "ping url state db", Cause: ErrCauseOpenFailed, Wrapped: err}
	}
	if _, err := db.Exec(schemaDDL); err != nil {
		return nil, StoreError{Message: "create url state schema", Cause: ErrCauseOpenFailed, Wrapped: err}
	}
	return &SQLiteStore{db: db}, nil
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS url_state (
	url TEXT PRIMARY KEY,
	etag TEXT,
	last_modified TEXT,
	content_hash TEXT,
	last_seen INTEGER,
	status TEXT NOT NULL,
	http_code INTEGER
);
`

func (s *SQLiteStore) Get(url string) (leadmodel.UrlState, bool, failure.ClassifiedError) {
	row := s.db.QueryRow(`SELECT url, etag, last_modified, content_hash, last_seen, status, http_code FROM url_state WHERE url = ?`, url)

	var (
		state        leadmodel.UrlState
		etag, lm, ch sql.NullString
		lastSeen     sql.NullInt64
		httpCode     sql.NullInt64
	)
	if err := row.Scan(&state.URL, &etag, &lm, &ch, &lastSeen, &state.Status, &httpCode); err != nil {
		if err == sql.ErrNoRows {
			return leadmodel.UrlState{}, false, nil
		}
		return leadmodel.UrlState{}, false, StoreError{Message: "get url state", Cause: ErrCauseQueryFailed, Wrapped: err}
	}
	state.ETag = etag.String
	state.LastModified = lm.String
	state.ContentHash = ch.String
	if httpCode.Valid {
		state.HTTPCode = int(httpCode.Int64)
	}
	if lastSeen.Valid {
		t := time.Unix(lastSeen.Int64, 0).UTC()
		state.LastSeen = &t
	}
	return state, true, nil
}

func (s *SQLiteStore) Upsert(state leadmodel.UrlState) failure.ClassifiedError {
	var lastSeen interface{}
	if state.LastSeen != nil {
		lastSeen = state.LastSeen.Unix()
	}
	_, err := s.db.Exec(`
		INSERT INTO url_state (url, etag, last_modified, content_hash, last_seen, status, http_code)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			etag=excluded.etag,
			last_modified=excluded.last_modified,
			content_hash=excluded.content_hash,
			last_seen=excluded.last_seen,
			status=excluded.status,
			http_code=excluded.http_code
	`, state.URL, nullableString(state.ETag), nullableString(state.LastModified), nullableString(state.ContentHash), lastSeen, state.Status, state.HTTPCode)
	if err != nil {
		return StoreError{Message: "upsert url state", Cause: ErrCauseQueryFailed, Wrapped: err}
	}
	return nil
}

func (s *SQLiteStore) CleanupOlderThan(days int) (int, failure.ClassifiedError) {
	cutoff := time.Now().Add(-time.Duration(days) * 24 * time.Hour).Unix()
	res, err := s.db.Exec(`DELETE FROM url_state WHERE last_seen IS NOT NULL AND last_seen < ?`, cutoff)
	if err != nil {
		return 0, StoreError{Message: "cleanup url state", Cause: ErrCauseQueryFailed, Wrapped: err}
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// BuildConditionalHeaders emits If-None-Match / If-Modified-Since when the
// stored state carries them, so an unchanged resource can be confirmed with
// a 304 instead of being re-fetched and re-parsed in full.
func BuildConditionalHeaders(state leadmodel.UrlState) http.Header {
	h := make(http.Header)
	if state.ETag != "" {
		h.Set("If-None-Match", state.ETag)
	}
	if state.LastModified != "" {
		h.Set("If-Modified-Since", state.LastModified)
	}
	return h
}
