package mystore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileStore(t *testing.T) {
	c := context.TODO()
	dir := t.TempDir()

	ps, cleanup, err := newFileStore[Person](c, dir, "persons")
	assert.NoError(t, err)
	defer cleanup()

	t.Run("Put and get", func(t *testing.T) {
		err := ps.Put(c, person.UID, person)
		assert.NoError(t, err)

		p, found, err := ps.Get(c, person.UID)
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, person, p)
	})

	t.Run("Survives a restart", func(t *testing.T) {
		reopened, cleanup, err := newFileStore[Person](c, dir, "persons")
		assert.NoError(t, err)
		defer cleanup()

		p, found, err := reopened.Get(c, person.UID)
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, person, p)
	})

	t.Run("Delete persists", func(t *testing.T) {
		err := ps.Delete(c, person.UID)
		assert.NoError(t, err)

		reopened, cleanup, err := newFileStore[Person](c, dir, "persons")
		assert.NoError(t, err)
		defer cleanup()

		_, found, err := reopened.Get(c, person.UID)
		assert.NoError(t, err)
		assert.False(t, found)
	})
}
