package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

var (
	ErrInternal = errors.New("internal storage error")
	ErrTxDone   = errors.New("transaction already committed or rolled back")
)

type DBContext interface {
	Begin(ctx context.Context) (DBContext, error)
	Commit() error
	Rollback() error
	Get(table, key string) (any, bool)
	Put(table, key string, value any)
	Delete(table, key string)
	Scan(table string, fn func(key string, value any) bool)
}

// DB is a process-lifetime table store. Transactions are serialized: Begin
// holds the store until Commit or Rollback.
type DB struct {
	sem    chan struct{}
	tables map[string]map[string]any
}

func New() *DB {
	return &DB{
		sem:    make(chan struct{}, 1),
		tables: make(map[string]map[string]any),
	}
}

func (db *DB) Begin(ctx context.Context) (DBContext, error) {
	select {
	case db.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, InternalError(ctx.Err())
	}
	return &Tx{
		db:     db,
		writes: make(map[string]map[string]write),
	}, nil
}

type write struct {
	value   any
	deleted bool
}

type Tx struct {
	db     *DB
	writes map[string]map[string]write
	done   bool
}

func (t *Tx) Begin(ctx context.Context) (DBContext, error) {
	return t, nil
}

func (t *Tx) Get(table, key string) (any, bool) {
	if w, ok := t.writes[table][key]; ok {
		if w.deleted {
			return nil, false
		}
		return w.value, true
	}
	v, ok := t.db.tables[table][key]
	return v, ok
}

func (t *Tx) Put(table, key string, value any) {
	t.stage(table, key, write{value: value})
}

func (t *Tx) Delete(table, key string) {
	t.stage(table, key, write{deleted: true})
}

// Scan visits rows in key order and stops when fn returns false.
func (t *Tx) Scan(table string, fn func(key string, value any) bool) {
	keys := make([]string, 0, len(t.db.tables[table])+len(t.writes[table]))
	for k := range t.db.tables[table] {
		if _, staged := t.writes[table][k]; !staged {
			keys = append(keys, k)
		}
	}
	for k, w := range t.writes[table] {
		if !w.deleted {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, k := range keys {
		v, _ := t.Get(table, k)
		if !fn(k, v) {
			return
		}
	}
}

func (t *Tx) Commit() error {
	if t.done {
		return ErrTxDone
	}
	for table, rows := range t.writes {
		dst, ok := t.db.tables[table]
		if !ok {
			dst = make(map[string]any, len(rows))
			t.db.tables[table] = dst
		}
		for k, w := range rows {
			if w.deleted {
				delete(dst, k)
			} else {
				dst[k] = w.value
			}
		}
	}
	t.release()
	return nil
}

// Rollback is a no-op after Commit, so it is safe to defer.
func (t *Tx) Rollback() error {
	if t.done {
		return nil
	}
	t.release()
	return nil
}

func (t *Tx) stage(table, key string, w write) {
	rows, ok := t.writes[table]
	if !ok {
		rows = make(map[string]write)
		t.writes[table] = rows
	}
	rows[key] = w
}

func (t *Tx) release() {
	t.done = true
	t.writes = nil
	<-t.db.sem
}

func InternalError(err error) error {
	return errors.Join(fmt.Errorf("internal storage error: %w", err), ErrInternal)
}
