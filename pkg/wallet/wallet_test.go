package wallet

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// well-known test vector key, never funded
const testKey = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"

func TestFromHex(t *testing.T) {
	t.Run("valid key", func(t *testing.T) {
		w, err := FromHex(1, testKey)
		require.NoError(t, err)
		assert.Equal(t, 1, w.Index)
		assert.NotEqual(t, "0x0000000000000000000000000000000000000000", w.Address.Hex())
	})

	t.Run("valid key with 0x prefix", func(t *testing.T) {
		w, err := FromHex(1, "0x"+testKey)
		require.NoError(t, err)

		plain, err := FromHex(1, testKey)
		require.NoError(t, err)
		assert.Equal(t, plain.Address, w.Address)
	})

	t.Run("invalid key", func(t *testing.T) {
		_, err := FromHex(1, "not-a-key")
		assert.Error(t, err)
	})
}

func TestShort(t *testing.T) {
	w, err := FromHex(1, testKey)
	require.NoError(t, err)

	short := w.Short()
	assert.Len(t, short, 13)
	assert.Contains(t, short, "...")
	assert.Equal(t, w.Address.Hex()[:6], short[:6])
}

func TestLoadFile(t *testing.T) {
	t.Run("multiple keys with comments and blanks", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "wallet.txt")
		content := "# funding account\n" + testKey + "\n\n0x" + testKey + "\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0600))

		wallets, invalid, err := LoadFile(path)
		require.NoError(t, err)
		assert.Empty(t, invalid)
		require.Len(t, wallets, 2)
		assert.Equal(t, 1, wallets[0].Index)
		assert.Equal(t, 2, wallets[1].Index)
		assert.Equal(t, wallets[0].Address, wallets[1].Address)
	})

	t.Run("empty file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "wallet.txt")
		require.NoError(t, os.WriteFile(path, []byte("\n# nothing here\n"), 0600))

		_, _, err := LoadFile(path)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, _, err := LoadFile(filepath.Join(t.TempDir(), "missing.txt"))
		assert.Error(t, err)
	})

	t.Run("malformed key is skipped, not fatal", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "wallet.txt")
		content := testKey + "\ngarbage\n0x" + testKey + "\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0600))

		wallets, invalid, err := LoadFile(path)
		require.NoError(t, err)
		require.Len(t, wallets, 2)
		require.Len(t, invalid, 1)
		assert.Contains(t, invalid[0].Error(), "line 2")
	})

	t.Run("only malformed keys", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "wallet.txt")
		require.NoError(t, os.WriteFile(path, []byte("garbage\n"), 0600))

		_, invalid, err := LoadFile(path)
		require.Error(t, err)
		assert.Len(t, invalid, 1)
	})
}
