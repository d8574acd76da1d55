// Package checksum digests a file with several algorithms in one read pass.
package checksum

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"hash"
	"io"
	"os"
	"sort"
	"strings"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"

	"github.com/tanq16/splitdl/internal/utils"
)

var registry = map[string]func() hash.Hash{
	"md5":    md5.New,
	"sha1":   sha1.New,
	"sha256": sha256.New,
	"sha512": sha512.New,
	"sha3-256": func() hash.Hash {
		return sha3.New256()
	},
	"blake2b-256": func() hash.Hash {
		h, _ := blake2b.New256(nil) // only fails for oversized keys
		return h
	},
}

// Normalize maps user spellings ("SHA-1", "Sha256", "sha3256") to registry
// names. Dashes are ignored on both sides of the comparison.
func Normalize(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	bare := strings.ReplaceAll(n, "-", "")
	for key := range registry {
		if strings.ReplaceAll(key, "-", "") == bare {
			return key
		}
	}
	return bare
}

// Supported lists the available algorithm names, sorted.
func Supported() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func newHashes(algorithms []string) ([]string, []hash.Hash, error) {
	names := make([]string, len(algorithms))
	hashes := make([]hash.Hash, len(algorithms))
	for i, algorithm := range algorithms {
		name := Normalize(algorithm)
		ctor, ok := registry[name]
		if !ok {
			return nil, nil, &utils.DigestError{Algorithm: algorithm}
		}
		names[i] = name
		hashes[i] = ctor()
	}
	return names, hashes, nil
}

// Digest streams r once through every requested algorithm. Results keep
// the order of algorithms.
func Digest(r io.Reader, algorithms []string, bufferSize int) ([]utils.ChecksumResult, error) {
	names, hashes, err := newHashes(algorithms)
	if err != nil {
		return nil, err
	}
	if err := feed(r, hashes, bufferSize); err != nil {
		return nil, err
	}
	return results(names, hashes), nil
}

// ComputeDigests opens path and digests it in a single sequential pass.
// Algorithms are validated before the file is opened.
func ComputeDigests(path string, algorithms []string, bufferSize int) ([]utils.ChecksumResult, error) {
	names, hashes, err := newHashes(algorithms)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, &utils.IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()
	if err := feed(f, hashes, bufferSize); err != nil {
		return nil, &utils.IOError{Op: "read", Path: path, Err: err}
	}
	return results(names, hashes), nil
}

func feed(r io.Reader, hashes []hash.Hash, bufferSize int) error {
	if bufferSize <= 0 {
		bufferSize = utils.DefaultBufferSize
	}
	writers := make([]io.Writer, len(hashes))
	for i, h := range hashes {
		writers[i] = h
	}
	buffer := make([]byte, bufferSize)
	_, err := io.CopyBuffer(io.MultiWriter(writers...), onlyReader{r}, buffer)
	return err
}

func results(names []string, hashes []hash.Hash) []utils.ChecksumResult {
	out := make([]utils.ChecksumResult, len(hashes))
	for i, h := range hashes {
		out[i] = utils.ChecksumResult{Algorithm: names[i], HexDigest: hex.EncodeToString(h.Sum(nil))}
	}
	return out
}

// onlyReader hides WriterTo so CopyBuffer reads in bufferSize steps.
type onlyReader struct {
	io.Reader
}
