// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package store persists compiled shader bytecode in SQLite so that a
// process restart does not recompile shaders it has seen before.
//
// Entries are keyed by backend name, stage, capability set and the sha256 of
// the generated source. Keying by source keeps the store sound across
// generator changes: a different source is a different key.
package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	_ "embed"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gogpu/ffshader/caps"
	"github.com/gogpu/ffshader/compile"
	"github.com/gogpu/ffshader/ir"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - no schema
// 1 - bytecode table with backend index
const currentSchemaVersion = 1

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("store: closed")

// Key identifies one compiled shader.
type Key struct {
	Backend string
	Stage   ir.Stage
	Caps    caps.Set
	Source  string
}

// Hash returns the hex sha256 of the key's source.
func (k Key) Hash() string {
	sum := sha256.Sum256([]byte(k.Source))
	return hex.EncodeToString(sum[:])
}

// Store is a SQLite-backed bytecode store. It is safe for concurrent use.
type Store struct {
	mu sync.RWMutex // guards db; held shared for the length of a statement
	db *sql.DB
}

// Open creates or opens the database at path and applies the schema.
// ":memory:" opens a private in-memory database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: connect %s: %w", path, err)
	}

	// SQLite has a single writer; one connection also keeps an in-memory
	// database alive for the life of the store.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, err
	}
	if err := applySchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close waits for running statements and closes the database. Later calls
// return nil.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// conn returns the open database with the read lock held. The caller must
// call s.mu.RUnlock when err is nil.
func (s *Store) conn() (*sql.DB, error) {
	if s == nil {
		return nil, ErrClosed
	}
	s.mu.RLock()
	if s.db == nil {
		s.mu.RUnlock()
		return nil, ErrClosed
	}
	return s.db, nil
}

// Get returns the bytecode stored under key. The boolean is false on a miss.
func (s *Store) Get(ctx context.Context, key Key) (*compile.Bytecode, bool, error) {
	db, err := s.conn()
	if err != nil {
		return nil, false, err
	}
	defer s.mu.RUnlock()
	var (
		profile string
		format  uint8
		data    []byte
	)
	err = db.QueryRowContext(ctx, `
		SELECT profile, format, data
		FROM bytecode
		WHERE backend = ? AND stage = ? AND caps = ? AND source_hash = ?
	`, key.Backend, int(key.Stage), int64(key.Caps), key.Hash()).Scan(&profile, &format, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("store: get %s %s %s: %w", key.Backend, key.Stage, key.Caps, err)
	}
	return &compile.Bytecode{
		Stage:   key.Stage,
		Profile: profile,
		Format:  compile.Format(format),
		Data:    data,
	}, true, nil
}

// Put stores code under key, replacing an existing entry.
func (s *Store) Put(ctx context.Context, key Key, code *compile.Bytecode) error {
	if code == nil || len(code.Data) == 0 {
		return errors.New("store: put: empty bytecode")
	}
	db, err := s.conn()
	if err != nil {
		return err
	}
	defer s.mu.RUnlock()
	_, err = db.ExecContext(ctx, `
		INSERT INTO bytecode
		(backend, stage, caps, source_hash, profile, format, data, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(backend, stage, caps, source_hash) DO UPDATE SET
			profile = excluded.profile,
			format = excluded.format,
			data = excluded.data,
			created_at = excluded.created_at
	`,
		key.Backend,
		int(key.Stage),
		int64(key.Caps),
		key.Hash(),
		code.Profile,
		int(code.Format),
		code.Data,
		time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("store: put %s %s %s: %w", key.Backend, key.Stage, key.Caps, err)
	}
	return nil
}

// Count returns the number of stored entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	db, err := s.conn()
	if err != nil {
		return 0, err
	}
	defer s.mu.RUnlock()
	var n int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM bytecode").Scan(&n); err != nil {
		return 0, fmt.Errorf("store: count: %w", err)
	}
	return n, nil
}

// Prune deletes every entry of a backend and returns how many were removed.
// An empty backend prunes everything.
func (s *Store) Prune(ctx context.Context, backend string) (int64, error) {
	db, err := s.conn()
	if err != nil {
		return 0, err
	}
	defer s.mu.RUnlock()
	var res sql.Result
	if backend == "" {
		res, err = db.ExecContext(ctx, "DELETE FROM bytecode")
	} else {
		res, err = db.ExecContext(ctx, "DELETE FROM bytecode WHERE backend = ?", backend)
	}
	if err != nil {
		return 0, fmt.Errorf("store: prune %q: %w", backend, err)
	}
	return res.RowsAffected()
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("store: %q: %w", pragma, err)
		}
	}
	return nil
}

// applySchema creates the tables and runs migrations. It is idempotent.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("store: schema: %w", err)
	}

	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("store: get user_version: %w", err)
	}
	if version > currentSchemaVersion {
		return fmt.Errorf("store: schema version %d is newer than %d", version, currentSchemaVersion)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("store: set user_version: %w", err)
	}
	return nil
}
