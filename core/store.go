package core

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// StoreID names one persisted keyed collection.
type StoreID string

const (
	StoreStudents     StoreID = "students"
	StoreEducators    StoreID = "educators"
	StoreOrganization StoreID = "organization"
)

// AllStores lists every store the application persists.
var AllStores = []StoreID{StoreStudents, StoreEducators, StoreOrganization}

// Backend persists whole store records.
// Load returns nil data and a nil error when the record does not exist yet.
// Save replaces the record as a whole; readers never observe a partially written record.
type Backend interface {
	Load(id StoreID) ([]byte, error)
	Save(id StoreID, data []byte) error
	Close() error
}

// LoadStore decodes the record `id` as a mapping of username to T.
// A missing record yields an empty, non-nil map.
func LoadStore[T any](b Backend, id StoreID) (map[string]T, error) {
	out := make(map[string]T)
	data, err := b.Load(id)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", id)
	}
	if len(data) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, errors.Wrapf(err, "decoding %s", id)
	}
	if out == nil { // "null" on disk
		out = make(map[string]T)
	}
	return out, nil
}

// SaveStore encodes m and overwrites the record `id` with it.
func SaveStore[T any](b Backend, id StoreID, m map[string]T) error {
	if m == nil {
		m = make(map[string]T)
	}
	return SaveRecord(b, id, m)
}

// LoadRecord decodes the record `id` into out. It reports false when the record does not exist.
func LoadRecord(b Backend, id StoreID, out interface{}) (bool, error) {
	data, err := b.Load(id)
	if err != nil {
		return false, errors.Wrapf(err, "loading %s", id)
	}
	if len(data) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, errors.Wrapf(err, "decoding %s", id)
	}
	return true, nil
}

// SaveRecord encodes v and overwrites the record `id` with it.
func SaveRecord(b Backend, id StoreID, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return errors.Wrapf(err, "encoding %s", id)
	}
	if err := b.Save(id, data); err != nil {
		return errors.Wrapf(err, "saving %s", id)
	}
	return nil
}
