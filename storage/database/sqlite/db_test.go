package sqlitedb

import (
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/lowkey/studybuddy/core"
)

func TestDB_inMemory(t *testing.T) {
	db, err := Open("file::memory:?cache=shared")
	require.NoError(t, err)
	defer db.Close()

	data, err := db.Load(core.StoreOrganization)
	require.NoError(t, err)
	assert.Nil(t, data)

	require.NoError(t, db.Save(core.StoreOrganization, []byte(`{"id":"1"}`)))
	require.NoError(t, db.Save(core.StoreOrganization, []byte(`{"id":"2"}`)))

	data, err = db.Load(core.StoreOrganization)
	require.NoError(t, err)
	assert.Equal(t, `{"id":"2"}`, string(data))

	var count int64
	require.NoError(t, db.db.Model(&StoreRecord{}).Count(&count).Error)
	assert.Equal(t, int64(1), count, "saves upsert a single row")
}

func TestDB_persistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "studybuddy.sqlite")

	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, core.SaveStore(db, core.StoreStudents, map[string]int{"Krish": 55}))
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close()

	got, err := core.LoadStore[int](db, core.StoreStudents)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Krish": 55}, got)
}

func TestOpen_migrateFailureCloses(t *testing.T) {
	var opened *gorm.DB
	orig := migrateFunc
	migrateFunc = func(db *gorm.DB) error {
		opened = db
		return errors.New("no table for you")
	}
	defer func() { migrateFunc = orig }()

	_, err := Open(filepath.Join(t.TempDir(), "studybuddy.sqlite"))
	require.Error(t, err)
	require.NotNil(t, opened)

	sqlDB, err := opened.DB()
	require.NoError(t, err)
	assert.Error(t, sqlDB.Ping(), "connection must be closed")
}
