package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	var version int
	require.NoError(t, s2.db.QueryRow("PRAGMA user_version").Scan(&version))
	assert.Equal(t, currentSchemaVersion, version)

	var mode string
	require.NoError(t, s2.db.QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)
}

func TestTimeLayoutSortsLexically(t *testing.T) {
	early := formatTime(at(9, 0))
	late := formatTime(at(9, 0).Add(500_000_000))
	assert.Less(t, early, late)

	parsed, err := parseTime(late)
	require.NoError(t, err)
	assert.True(t, parsed.Equal(at(9, 0).Add(500_000_000)))
}
