package collector

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadAddressFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pools.txt")
	content := "0xaaa\n\n  0xbbb  \n# retired pool\n\t\nnot-an-address\n0xaaa\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	addresses, err := ReadAddressFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"0xaaa", "0xbbb", "not-an-address", "0xaaa"}, addresses)
}

func TestReadAddressFileEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	addresses, err := ReadAddressFile(path)
	require.NoError(t, err)
	assert.Empty(t, addresses)
}

func TestReadAddressFileLongLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pools.txt")
	long := strings.Repeat("f", 70*1024)
	content := "0xaaa\n" + long + "\n0xbbb"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	addresses, err := ReadAddressFile(path)
	require.NoError(t, err)
	require.Len(t, addresses, 3)
	assert.Equal(t, "0xaaa", addresses[0])
	assert.Equal(t, long, addresses[1])
	assert.Equal(t, "0xbbb", addresses[2])
}

func TestReadAddressFileSkipsInvalidUTF8(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pools.txt")
	content := []byte("0xaaa\n0x\xff\xfe\n0xbbb\n")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	addresses, err := ReadAddressFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"0xaaa", "0xbbb"}, addresses)
}

func TestReadAddressFileMissing(t *testing.T) {
	_, err := ReadAddressFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, ErrSourceUnavailable)
}
