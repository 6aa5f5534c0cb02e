package auth

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOrGenerateKey_PersistsKey(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")

	first, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Len(t, first, keyLength)

	info, err := os.Stat(filepath.Join(dir, "session.key"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	second, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestLoadOrGenerateKey_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "session.key"), []byte("short"), 0o600))

	_, err := LoadOrGenerateKey(dir)
	assert.Error(t, err)
}

func TestParseKeyHex(t *testing.T) {
	raw := make([]byte, keyLength)
	for i := range raw {
		raw[i] = byte(i)
	}

	key, err := ParseKeyHex(" " + hex.EncodeToString(raw) + "\n")
	require.NoError(t, err)
	assert.Equal(t, raw, key)

	_, err = ParseKeyHex("abcd")
	assert.Error(t, err)

	_, err = ParseKeyHex(string(make([]byte, keyHexLength)))
	assert.Error(t, err)
}
