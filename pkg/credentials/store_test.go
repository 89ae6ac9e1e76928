package credentials

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func writeCredFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "users.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadParsesCredentialFile(t *testing.T) {
	path := writeCredFile(t, "alice:pw1\nbob:pw2\n")

	store, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, store.Len())

	pw, ok := store.Lookup("alice")
	require.True(t, ok)
	assert.Equal(t, "pw1", pw)

	_, ok = store.Lookup("mallory")
	assert.False(t, ok)
}

func TestLoadSkipsMalformedLines(t *testing.T) {
	path := writeCredFile(t, "alice:pw1\nno separator here\n\nbob:pw2\n")

	store, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, store.Len())
}

func TestLoadMissingFileYieldsEmptyStore(t *testing.T) {
	store, err := Load(filepath.Join(t.TempDir(), "absent.txt"))
	require.NoError(t, err)
	assert.Equal(t, 0, store.Len())
	assert.False(t, store.Verify("anyone", "anything"))
}

func TestVerifyExactMatch(t *testing.T) {
	path := writeCredFile(t, "alice:pw1\n")
	store, err := Load(path)
	require.NoError(t, err)

	assert.True(t, store.Verify("alice", "pw1"))
	assert.False(t, store.Verify("alice", "pw2"))
	assert.False(t, store.Verify("alice", "PW1"))
	assert.False(t, store.Verify("unknown", "pw1"))
}

func TestVerifyPasswordWithColon(t *testing.T) {
	// Only the first separator splits; the password may contain colons.
	path := writeCredFile(t, "alice:pw:with:colons\n")
	store, err := Load(path)
	require.NoError(t, err)

	assert.True(t, store.Verify("alice", "pw:with:colons"))
}

func TestVerifyBcryptEntry(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	path := writeCredFile(t, "carol:"+string(hash)+"\n")
	store, err := Load(path)
	require.NoError(t, err)

	assert.True(t, store.Verify("carol", "s3cret"))
	assert.False(t, store.Verify("carol", "wrong"))
	// The raw hash is not accepted as the password.
	assert.False(t, store.Verify("carol", string(hash)))
}
