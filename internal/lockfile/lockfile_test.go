package lockfile

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kclaka/seedkit/internal/schema"
)

func sampleLockFile() *LockFile {
	return &LockFile{
		SchemaHash:     "a1b2c3",
		Seed:           42,
		SeedkitVersion: "0.1.0",
		BaseTime:       "2026-01-15T00:00:00",
		CreatedAt:      "2026-01-15T00:00:00Z",
		SchemaSnapshot: &schema.Database{
			Name: "shop",
			Tables: []*schema.Table{
				{Name: "users", Columns: []*schema.Column{{Name: "id", Type: schema.DataTypeSerial}}},
			},
		},
		Config: LockConfig{
			DefaultRowCount: 100,
			TableRowCounts:  map[string]int{"orders": 500},
			AIEnabled:       true,
			Include:         []string{"users", "orders"},
			Classifications: map[string]map[string]int{
				"users": {"email": 7},
			},
			ColumnOverrides: map[string]ColumnOverrideLock{
				"users.status": {Values: []string{"active", "inactive"}, Weights: []float64{0.9, 0.1}},
			},
		},
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seedkit.lock")

	original := sampleLockFile()
	require.NoError(t, Write(path, original))

	got, err := Read(path)
	require.NoError(t, err)

	got.CreatedAt = original.CreatedAt // invariant ignores created_at
	assert.Equal(t, original, got)
}

func TestWriteIsAtomicNoTempFileLeftBehind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seedkit.lock")

	require.NoError(t, Write(path, sampleLockFile()))

	entries, err := filepath.Glob(filepath.Join(dir, "*"))
	require.NoError(t, err)
	assert.Equal(t, []string{path}, entries)
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seedkit.lock")

	assert.False(t, Exists(path))
	require.NoError(t, Write(path, sampleLockFile()))
	assert.True(t, Exists(path))
}

func TestReadMissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "missing.lock"))
	assert.Error(t, err)
}

func TestStamp(t *testing.T) {
	lf := &LockFile{}
	now := time.Date(2026, 7, 29, 12, 0, 0, 0, time.UTC)
	Stamp(lf, now)
	assert.Equal(t, "2026-07-29T12:00:00Z", lf.CreatedAt)
}
