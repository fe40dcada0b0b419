package database

import (
	"github.com/pkg/errors"

	"github.com/lowkey/studybuddy/core"
	boltdb "github.com/lowkey/studybuddy/storage/database/bolt"
	inmemdb "github.com/lowkey/studybuddy/storage/database/inmem"
	jsondb "github.com/lowkey/studybuddy/storage/database/jsonfile"
	sqlitedb "github.com/lowkey/studybuddy/storage/database/sqlite"
)

// Open returns the Backend selected by conf.Storage.Engine.
func Open(conf *core.Config) (core.Backend, error) {
	var (
		backend core.Backend
		err     error
	)
	switch conf.Storage.Engine {
	case core.EngineJSON:
		backend, err = jsondb.Open(conf.Storage.Path)
	case core.EngineBolt:
		backend, err = boltdb.Open(conf.Storage.Path)
	case core.EngineSQLite:
		backend, err = sqlitedb.Open(conf.Storage.Path)
	case core.EngineMemory:
		backend = inmemdb.Open()
	default:
		return nil, errors.Errorf("unknown storage engine %q", conf.Storage.Engine)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s storage", conf.Storage.Engine)
	}
	return backend, nil
}
