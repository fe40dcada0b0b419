package inmemdb

import (
	"sync"

	"github.com/lowkey/studybuddy/core"
)

// DB keeps store records in process memory.
type DB struct {
	sync.RWMutex
	table map[core.StoreID][]byte
}

var _ core.Backend = (*DB)(nil) // interface compliance check

func Open() *DB {
	return &DB{table: make(map[core.StoreID][]byte)}
}

func (db *DB) Load(id core.StoreID) ([]byte, error) {
	db.RLock()
	defer db.RUnlock()

	data, ok := db.table[id]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), data...), nil
}

func (db *DB) Save(id core.StoreID, data []byte) error {
	db.Lock()
	defer db.Unlock()

	db.table[id] = append([]byte(nil), data...)
	return nil
}

func (db *DB) Close() error { return nil }
