// Package rules persists accepted rule definitions and serves the recent
// history the assistant grounds its prompts on.
package rules

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"reglagen/internal/core"
	"reglagen/pkg/schema"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// Fixed-width timestamp layout so lexicographic ordering matches
// chronological ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrNotFound is returned when a rule ID does not exist.
var ErrNotFound = errors.New("rule not found")

const schemaSQL = `
CREATE TABLE IF NOT EXISTS rules (
	id           TEXT PRIMARY KEY,
	nombre       TEXT NOT NULL,
	tipo_dato    TEXT NOT NULL,
	needs_review INTEGER NOT NULL DEFAULT 0,
	definition   TEXT NOT NULL,
	created_at   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_rules_created_at ON rules (created_at DESC);
`

// Store is a SQLite-backed store of accepted rule definitions.
type Store struct {
	db *sql.DB
}

// NewStore opens (creating if needed) the rule database at path.
func NewStore(path string) (*Store, error) {
	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, &core.StoreError{Operation: "open", Message: path, Err: err}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, &core.StoreError{Operation: "migrate", Message: "create rules table", Err: err}
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save persists an accepted rule definition. Only artifacts that left the
// reconciliation engine are storable: the definition must be accepted and
// carry a non-empty Header. An ID is assigned when missing.
func (s *Store) Save(ctx context.Context, def *schema.RuleDefinition) error {
	if def.Estado != schema.StateAccepted {
		return &core.StoreError{Operation: "save", Message: fmt.Sprintf("definition state is %q, want %q", def.Estado, schema.StateAccepted)}
	}
	if len(def.Header) == 0 {
		return &core.StoreError{Operation: "save", Message: "definition has an empty Header"}
	}

	if def.ID == "" {
		id, err := schema.NewRuleID()
		if err != nil {
			return &core.StoreError{Operation: "save", Message: "generate rule ID", Err: err}
		}
		def.ID = id
	}

	payload, err := json.Marshal(def)
	if err != nil {
		return &core.StoreError{Operation: "save", Message: "marshal definition", Err: err}
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO rules (id, nombre, tipo_dato, needs_review, definition, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		def.ID, def.Nombre, string(def.TipoDato), boolToInt(def.NeedsReview),
		string(payload), time.Now().UTC().Format(timeLayout),
	)
	if err != nil {
		return &core.StoreError{Operation: "save", Message: def.ID, Err: err}
	}
	return nil
}

// Get returns one rule definition by ID.
func (s *Store) Get(ctx context.Context, id string) (*schema.RuleDefinition, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT definition, needs_review FROM rules WHERE id = ?`, id)

	var payload string
	var needsReview int
	if err := row.Scan(&payload, &needsReview); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, &core.StoreError{Operation: "get", Message: id, Err: err}
	}

	return decodeStored(payload, needsReview)
}

// ListRecent returns up to limit rule definitions, newest first. This is the
// query the context assembler grounds on; it performs a fresh read per call.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]schema.RuleDefinition, error) {
	if limit <= 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT definition, needs_review FROM rules ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, &core.StoreError{Operation: "list", Message: "recent rules", Err: err}
	}
	defer rows.Close()

	var out []schema.RuleDefinition
	for rows.Next() {
		var payload string
		var needsReview int
		if err := rows.Scan(&payload, &needsReview); err != nil {
			return nil, &core.StoreError{Operation: "list", Message: "scan row", Err: err}
		}
		def, err := decodeStored(payload, needsReview)
		if err != nil {
			return nil, err
		}
		out = append(out, *def)
	}
	if err := rows.Err(); err != nil {
		return nil, &core.StoreError{Operation: "list", Message: "iterate rows", Err: err}
	}
	return out, nil
}

func decodeStored(payload string, needsReview int) (*schema.RuleDefinition, error) {
	var def schema.RuleDefinition
	if err := json.Unmarshal([]byte(payload), &def); err != nil {
		return nil, &core.StoreError{Operation: "decode", Message: "stored definition", Err: err}
	}
	def.Estado = schema.StateAccepted
	def.NeedsReview = needsReview != 0
	return &def, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
