package pdb

import (
	"github.com/funvibe/lowerkit/internal/symbols"
)

// DB is the ordered set of installed functions.
type DB struct {
	Funs  []*Fun
	bySym map[symbols.ID]*Fun
}

func NewDB() *DB {
	return &DB{bySym: make(map[symbols.ID]*Fun)}
}

// Add installs f.
func (db *DB) Add(f *Fun) {
	db.Funs = append(db.Funs, f)
	db.bySym[f.Sym] = f
}

// FunOf returns the installed function of sym, or nil.
func (db *DB) FunOf(sym symbols.ID) *Fun {
	return db.bySym[sym]
}

// Len returns the number of installed functions.
func (db *DB) Len() int { return len(db.Funs) }
