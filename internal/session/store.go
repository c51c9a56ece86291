// Package session keeps processed reports in memory between requests.
package session

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/coocood/freecache"

	"workout-stats-go/internal/highlights"
	"workout-stats-go/internal/report"
)

var (
	ErrNotFound  = errors.New("session not found")
	ErrNoTable   = errors.New("dimension not in session")
	ErrInvalidID = errors.New("invalid session id")
)

// ChunkRows is the number of table rows stored per cache entry.
const ChunkRows = 200

// Session is everything kept about one processed export.
type Session struct {
	ID         string                `json:"id"`
	CreatedAt  time.Time             `json:"created_at"`
	Source     string                `json:"source"`
	Rows       int                   `json:"rows"`
	Workouts   int                   `json:"workouts"`
	Undated    int                   `json:"undated"`
	Dimensions []string              `json:"dimensions"`
	Highlights highlights.Highlights `json:"highlights"`
	Warnings   []string              `json:"warnings,omitempty"`
}

// Store is a size-bounded, expiring cache of sessions. Keys are
// namespaced: "s/<id>" holds the header, "t/<id>/<dim>" a table's shape and
// "t/<id>/<dim>/<n>" its rows in chunks of ChunkRows. No single entry grows
// with the size of the export.
type Store struct {
	cache *freecache.Cache
	ttl   time.Duration
}

type tableMeta struct {
	Dimension string   `json:"dimension"`
	Title     string   `json:"title"`
	Columns   []string `json:"columns"`
	Rows      int      `json:"rows"`
	Chunks    int      `json:"chunks"`
}

// NewStore allocates a cache of sizeBytes. freecache rejects single entries
// larger than 1/1024 of the cache size.
func NewStore(sizeBytes int, ttl time.Duration) *Store {
	return &Store{cache: freecache.NewCache(sizeBytes), ttl: ttl}
}

func validID(id string) bool {
	return id != "" && !strings.Contains(id, "/")
}

// Put stores the session header and every table of rep.
func (s *Store) Put(sess Session, rep *report.Report) error {
	if !validID(sess.ID) {
		return fmt.Errorf("%w: %q", ErrInvalidID, sess.ID)
	}
	sess.Dimensions = sess.Dimensions[:0]
	for _, t := range rep.Tables {
		if err := s.putTable(sess.ID, t); err != nil {
			return fmt.Errorf("store table %s: %w", t.Dimension, err)
		}
		sess.Dimensions = append(sess.Dimensions, t.Dimension)
	}
	if err := s.set(sessionKey(sess.ID), sess); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

func (s *Store) putTable(id string, t *report.Table) error {
	meta := tableMeta{
		Dimension: t.Dimension,
		Title:     t.Title,
		Columns:   t.Columns,
		Rows:      len(t.Rows),
		Chunks:    (len(t.Rows) + ChunkRows - 1) / ChunkRows,
	}
	for n := 0; n < meta.Chunks; n++ {
		rows := t.Rows[n*ChunkRows : min((n+1)*ChunkRows, len(t.Rows))]
		if err := s.set(chunkKey(id, t.Dimension, n), rows); err != nil {
			return fmt.Errorf("chunk %d: %w", n, err)
		}
	}
	return s.set(tableKey(id, t.Dimension), meta)
}

func (s *Store) Get(id string) (*Session, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	var sess Session
	if err := s.get(sessionKey(id), &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// Table returns one dimension table of a session. A table with an evicted
// chunk is reported as not found.
func (s *Store) Table(id, dimension string) (*report.Table, error) {
	if _, err := s.Get(id); err != nil {
		return nil, err
	}
	var meta tableMeta
	if err := s.get(tableKey(id, dimension), &meta); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNoTable
		}
		return nil, err
	}
	t := &report.Table{
		Dimension: meta.Dimension,
		Title:     meta.Title,
		Columns:   meta.Columns,
		Rows:      make([]report.Row, 0, meta.Rows),
	}
	for n := 0; n < meta.Chunks; n++ {
		var rows []report.Row
		if err := s.get(chunkKey(id, dimension, n), &rows); err != nil {
			return nil, fmt.Errorf("table %s chunk %d: %w", dimension, n, err)
		}
		t.Rows = append(t.Rows, rows...)
	}
	return t, nil
}

// Len is the number of cache entries held: headers, table shapes and row
// chunks alike.
func (s *Store) Len() int64 {
	return s.cache.EntryCount()
}

func sessionKey(id string) string {
	return "s/" + id
}

func tableKey(id, dimension string) string {
	return "t/" + id + "/" + dimension
}

func chunkKey(id, dimension string, n int) string {
	return tableKey(id, dimension) + "/" + strconv.Itoa(n)
}

func (s *Store) set(key string, v any) error {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if err := json.NewEncoder(zw).Encode(v); err != nil {
		return err
	}
	if err := zw.Close(); err != nil {
		return err
	}
	return s.cache.Set([]byte(key), buf.Bytes(), int(s.ttl.Seconds()))
}

func (s *Store) get(key string, v any) error {
	data, err := s.cache.Get([]byte(key))
	if errors.Is(err, freecache.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decompress %s: %w", key, err)
	}
	defer zr.Close()
	raw, err := io.ReadAll(zr)
	if err != nil {
		return fmt.Errorf("decompress %s: %w", key, err)
	}
	return json.Unmarshal(raw, v)
}
