package checksum

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tanq16/splitdl/internal/utils"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestKnownVectors(t *testing.T) {
	path := writeFile(t, "abc")
	got, err := ComputeDigests(path, []string{"MD5", "SHA-1", "sha256"}, 2)
	require.NoError(t, err)
	require.Equal(t, []utils.ChecksumResult{
		{Algorithm: "md5", HexDigest: "900150983cd24fb0d6963f7d28e17f72"},
		{Algorithm: "sha1", HexDigest: "a9993e364706816aba3e25717850c26c9cd0d89d"},
		{Algorithm: "sha256", HexDigest: "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
	}, got)
}

func TestExtendedAlgorithms(t *testing.T) {
	got, err := Digest(strings.NewReader("abc"), []string{"sha3-256", "blake2b-256", "sha512"}, 0)
	require.NoError(t, err)
	require.Equal(t, "3a985da74fe225b2045c172d6bd390bd855f086e3e9d525b46bfe24511431532", got[0].HexDigest)
	require.Equal(t, "bddd813c634239723171ef3fee98579b94964e3bb1cb3e427262c8c068d52319", got[1].HexDigest)
	require.Len(t, got[2].HexDigest, 128)
}

func TestEmptyInput(t *testing.T) {
	got, err := ComputeDigests(writeFile(t, ""), []string{"md5", "sha1"}, 8192)
	require.NoError(t, err)
	require.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", got[0].HexDigest)
	require.Equal(t, "da39a3ee5e6b4b0d3255bfef95601890afd80709", got[1].HexDigest)
}

func TestDigestsAreIdempotent(t *testing.T) {
	path := writeFile(t, strings.Repeat("splitdl", 10000))
	first, err := ComputeDigests(path, []string{"md5", "sha1"}, 4096)
	require.NoError(t, err)
	second, err := ComputeDigests(path, []string{"md5", "sha1"}, 333)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestUnsupportedAlgorithm(t *testing.T) {
	_, err := ComputeDigests(filepath.Join(t.TempDir(), "missing"), []string{"md5", "crc99"}, 0)
	var digestErr *utils.DigestError
	require.ErrorAs(t, err, &digestErr)
	require.Equal(t, "crc99", digestErr.Algorithm)
}

func TestMissingFile(t *testing.T) {
	_, err := ComputeDigests(filepath.Join(t.TempDir(), "missing"), []string{"md5"}, 0)
	var ioErr *utils.IOError
	require.ErrorAs(t, err, &ioErr)
	require.Equal(t, "open", ioErr.Op)
}

func TestNormalize(t *testing.T) {
	require.Equal(t, "sha1", Normalize("SHA-1"))
	require.Equal(t, "sha256", Normalize(" Sha-256 "))
	require.Equal(t, "sha3-256", Normalize("SHA3-256"))
	require.Equal(t, "blake2b-256", Normalize("BLAKE2B-256"))
	require.Equal(t, "sha3-256", Normalize("sha3256"))
	require.Equal(t, "blake2b-256", Normalize("Blake2b256"))
	require.Equal(t, "sha1", Normalize("s-h-a-1"))

	results, err := Digest(strings.NewReader("abc"), []string{"sha3256", "sha3-256"}, 0)
	require.NoError(t, err)
	require.Equal(t, "sha3-256", results[0].Algorithm)
	require.Equal(t, results[1].HexDigest, results[0].HexDigest)
	require.Contains(t, Supported(), "md5")
}
