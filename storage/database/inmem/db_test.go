package inmemdb

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lowkey/studybuddy/core"
)

func TestDB_copies(t *testing.T) {
	db := Open()

	in := []byte("abc")
	require.NoError(t, db.Save(core.StoreStudents, in))
	in[0] = 'x'

	out, err := db.Load(core.StoreStudents)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(out))
	out[0] = 'y'

	again, _ := db.Load(core.StoreStudents)
	assert.Equal(t, "abc", string(again))
}

func TestDB_concurrentAccess(t *testing.T) {
	db := Open()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = db.Save(core.StoreEducators, []byte("{}"))
			_, _ = db.Load(core.StoreEducators)
		}()
	}
	wg.Wait()

	data, err := db.Load(core.StoreEducators)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
}
