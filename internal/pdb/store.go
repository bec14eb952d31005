package pdb

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id      TEXT PRIMARY KEY,
	started TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS funs (
	session TEXT    NOT NULL REFERENCES sessions(id),
	sym     INTEGER NOT NULL,
	name    TEXT    NOT NULL,
	wraps   INTEGER,
	depth   INTEGER NOT NULL,
	arity   INTEGER NOT NULL,
	code    TEXT    NOT NULL,
	PRIMARY KEY (session, sym)
);
`

// Store persists installed functions to a SQLite program database. Each
// Store is one compilation session.
type Store struct {
	db      *sql.DB
	session string
}

// FunRecord is one stored function.
type FunRecord struct {
	Sym   int
	Name  string
	Wraps int // 0 when the function wraps nothing
	Depth int
	Arity int
	Code  string
}

// OpenStore opens or creates the database at path and starts a session.
// Use ":memory:" for a private in-memory database.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening program database %s: %w", path, err)
	}
	// one connection: an in-memory database is per connection
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema in %s: %w", path, err)
	}
	s := &Store{db: db, session: uuid.NewString()}
	if _, err := db.Exec(`INSERT INTO sessions (id, started) VALUES (?, ?)`,
		s.session, time.Now().UTC().Format(time.RFC3339)); err != nil {
		db.Close()
		return nil, fmt.Errorf("starting session: %w", err)
	}
	return s, nil
}

// Session returns the id of the current session.
func (s *Store) Session() string { return s.session }

// Record stores f under name with its code listing. Recording the same
// function again replaces the previous row.
func (s *Store) Record(f *Fun, name, code string) error {
	var wraps sql.NullInt64
	if f.Wraps != nil {
		wraps = sql.NullInt64{Int64: int64(f.Wraps.Sym), Valid: true}
	}
	_, err := s.db.Exec(`INSERT OR REPLACE INTO funs (session, sym, name, wraps, depth, arity, code)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.session, int64(f.Sym), name, wraps, f.Depth(), len(f.PositionalArgPositions), code)
	if err != nil {
		return fmt.Errorf("recording function %s: %w", name, err)
	}
	return nil
}

// Funs returns the functions of the current session in symbol order.
func (s *Store) Funs() ([]FunRecord, error) {
	rows, err := s.db.Query(`SELECT sym, name, wraps, depth, arity, code FROM funs
		WHERE session = ? ORDER BY sym`, s.session)
	if err != nil {
		return nil, fmt.Errorf("querying functions: %w", err)
	}
	defer rows.Close()
	var out []FunRecord
	for rows.Next() {
		var r FunRecord
		var wraps sql.NullInt64
		if err := rows.Scan(&r.Sym, &r.Name, &wraps, &r.Depth, &r.Arity, &r.Code); err != nil {
			return nil, fmt.Errorf("scanning function: %w", err)
		}
		if wraps.Valid {
			r.Wraps = int(wraps.Int64)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
