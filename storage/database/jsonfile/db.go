package jsondb

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/lowkey/studybuddy/core"
)

var fileNames = map[core.StoreID]string{
	core.StoreStudents:     "students.json",
	core.StoreEducators:    "educators.json",
	core.StoreOrganization: "org.json",
}

var syncDirFunc = syncDir // mockable

// DB stores each record as one JSON file inside dir.
type DB struct {
	dir string
}

var _ core.Backend = (*DB)(nil) // interface compliance check

// Open makes sure dir exists and returns a DB rooted at it.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating data directory")
	}
	return &DB{dir: dir}, nil
}

// Path returns the file backing the record `id`.
func (db *DB) Path(id core.StoreID) string {
	name, ok := fileNames[id]
	if !ok {
		name = string(id) + ".json"
	}
	return filepath.Join(db.dir, name)
}

func (db *DB) Load(id core.StoreID) ([]byte, error) {
	data, err := os.ReadFile(db.Path(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

// Save writes data to a temporary file next to the target and renames it into place,
// so the previous content stays intact until the new one is complete.
func (db *DB) Save(id core.StoreID, data []byte) error {
	path := db.Path(id)
	tmp, err := os.CreateTemp(db.dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }() // no-op once renamed

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "writing temp file")
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "syncing temp file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "closing temp file")
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return errors.Wrap(err, "setting file mode")
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errors.Wrapf(err, "replacing %s", path)
	}
	return syncDirFunc(db.dir)
}

// syncDir flushes dir's entries so a completed rename survives a crash.
func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return errors.Wrap(err, "opening data directory")
	}
	defer d.Close()
	if err := d.Sync(); err != nil {
		return errors.Wrap(err, "syncing data directory")
	}
	return nil
}

func (db *DB) Close() error { return nil }
