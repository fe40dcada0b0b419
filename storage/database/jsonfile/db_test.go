package jsondb

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lowkey/studybuddy/core"
)

func TestDB_fileLayout(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	db, err := Open(dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "students.json"), db.Path(core.StoreStudents))
	assert.Equal(t, filepath.Join(dir, "educators.json"), db.Path(core.StoreEducators))
	assert.Equal(t, filepath.Join(dir, "org.json"), db.Path(core.StoreOrganization))

	require.NoError(t, db.Save(core.StoreOrganization, []byte(`{"id":"x"}`)))
	raw, err := os.ReadFile(filepath.Join(dir, "org.json"))
	require.NoError(t, err)
	assert.Equal(t, `{"id":"x"}`, string(raw))

	// no temp files left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "org.json", entries[0].Name())
}

func TestDB_persistsAcrossOpen(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, core.SaveStore(db, core.StoreStudents, map[string]int{"Krish": 1}))
	require.NoError(t, db.Close())

	db, err = Open(dir)
	require.NoError(t, err)
	got, err := core.LoadStore[int](db, core.StoreStudents)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Krish": 1}, got)
}

func TestDB_corruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "students.json"), []byte("{not json"), 0o600))
	db, err := Open(dir)
	require.NoError(t, err)

	_, err = core.LoadStore[int](db, core.StoreStudents)
	assert.Error(t, err)
}

func TestDB_Save_syncsDirectory(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(dir)
	require.NoError(t, err)

	var synced []string
	orig := syncDirFunc
	syncDirFunc = func(d string) error {
		synced = append(synced, d)
		return orig(d)
	}
	defer func() { syncDirFunc = orig }()

	require.NoError(t, db.Save(core.StoreStudents, []byte(`{}`)))
	assert.Equal(t, []string{dir}, synced)

	assert.NoError(t, syncDir(dir))
	assert.Error(t, syncDir(filepath.Join(dir, "missing")))
}
