package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lowkey/studybuddy/core"
)

func openEngine(t *testing.T, engine string) core.Backend {
	t.Helper()
	v, err := core.NewViper("")
	require.NoError(t, err)
	v.Set("data_dir", t.TempDir())
	v.Set("storage.engine", engine)
	conf, err := core.NewConfig(v)
	require.NoError(t, err)

	backend, err := Open(conf)
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })
	return backend
}

func TestOpen_contract(t *testing.T) {
	for _, engine := range []string{core.EngineJSON, core.EngineBolt, core.EngineSQLite, core.EngineMemory} {
		t.Run(engine, func(t *testing.T) {
			backend := openEngine(t, engine)

			for _, id := range core.AllStores {
				data, err := backend.Load(id)
				require.NoError(t, err)
				assert.Nil(t, data, "%s should start empty", id)
			}

			require.NoError(t, backend.Save(core.StoreStudents, []byte(`{"a":1}`)))
			require.NoError(t, backend.Save(core.StoreStudents, []byte(`{"b":2}`)))
			require.NoError(t, backend.Save(core.StoreEducators, []byte(`{}`)))

			data, err := backend.Load(core.StoreStudents)
			require.NoError(t, err)
			assert.Equal(t, `{"b":2}`, string(data))

			data, err = backend.Load(core.StoreEducators)
			require.NoError(t, err)
			assert.Equal(t, `{}`, string(data))

			data, err = backend.Load(core.StoreOrganization)
			require.NoError(t, err)
			assert.Nil(t, data)
		})
	}
}

func TestOpen_unknownEngine(t *testing.T) {
	_, err := Open(&core.Config{Storage: core.StorageConfig{Engine: "mongo"}})
	assert.Error(t, err)
}
