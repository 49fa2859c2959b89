// Package stmt implements the named prepared-statement cache every store
// worker loads once at construction from a schema-level repository of SQL
// fragments.
package stmt

import (
	"database/sql"
	"fmt"
)

// Cache holds one prepared statement per named SQL fragment, bound to a
// single connection. It is rebuilt whenever a worker (re)opens its
// connection, never shared across goroutines.
type Cache struct {
	db  *sql.DB
	stmts map[string]*sql.Stmt
}

// New prepares every fragment in defs against db, failing fast if any
// fragment does not compile — a broken named statement should abort worker
// startup, not surface lazily on first use.
func New(db *sql.DB, defs map[string]string) (*Cache, error) {
	c := &Cache{db: db, stmts: make(map[string]*sql.Stmt, len(defs))}
	for name, sqlText := range defs {
		prepared, err := db.Prepare(sqlText)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("prepare %q: %w", name, err)
		}
		c.stmts[name] = prepared
	}
	return c, nil
}

// Stmt returns the named prepared statement. It panics on an unknown name:
// statement names are a closed, compile-time-known set, so an unknown name
// is a programmer error in this store's code, not a runtime condition.
func (c *Cache) Stmt(name string) *sql.Stmt {
	s, ok := c.stmts[name]
	if !ok {
		panic(fmt.Sprintf("stmt: unknown statement %q", name))
	}
	return s
}

// Close releases every prepared statement in the cache.
func (c *Cache) Close() error {
	var firstErr error
	for _, s := range c.stmts {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
