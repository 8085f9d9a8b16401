package migration

import (
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMigrations_Embedded(t *testing.T) {
	src, err := fs.Sub(embedded, "sql")
	require.NoError(t, err)

	migs, err := loadMigrations(src)
	require.NoError(t, err)
	require.Len(t, migs, 2)

	assert.Equal(t, int64(1), migs[0].Version)
	assert.Equal(t, "create_job_batches", migs[0].Name)
	assert.Equal(t, int64(2), migs[1].Version)
	assert.Len(t, migs[1].Checksum, 64)
}

func TestLoadMigrations_OrderAndFilter(t *testing.T) {
	src := fstest.MapFS{
		"V10__later.sql":  {Data: []byte("SELECT 10;")},
		"V2__first.sql":   {Data: []byte("SELECT 2;")},
		"README.md":       {Data: []byte("ignored")},
		"v3__lower.sql":   {Data: []byte("SELECT 3;")},
		"sub/V4__dir.sql": {Data: []byte("SELECT 4;")},
	}

	migs, err := loadMigrations(src)
	require.NoError(t, err)
	require.Len(t, migs, 2)
	assert.Equal(t, "first", migs[0].Name)
	assert.Equal(t, "later", migs[1].Name)
}

func TestLoadMigrations_Errors(t *testing.T) {
	_, err := loadMigrations(fstest.MapFS{"V1__empty.sql": {Data: []byte("  \n")}})
	assert.ErrorContains(t, err, "empty migration file")

	_, err = loadMigrations(fstest.MapFS{
		"V1__a.sql":  {Data: []byte("SELECT 1;")},
		"V01__b.sql": {Data: []byte("SELECT 1;")},
	})
	assert.ErrorContains(t, err, "duplicate migration version")
}

func TestRunner_SourceDir(t *testing.T) {
	_, err := Runner{Dir: "does-not-exist"}.source()
	assert.Error(t, err)

	src, err := Runner{Dir: t.TempDir()}.source()
	require.NoError(t, err)
	migs, err := loadMigrations(src)
	require.NoError(t, err)
	assert.Empty(t, migs)
}
