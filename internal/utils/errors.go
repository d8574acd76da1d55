package utils

import "fmt"

// ResolutionError means the metadata probe failed or the URL is unusable.
// No download is attempted after one.
type ResolutionError struct {
	URL    string
	Status int
	Err    error
}

func (e *ResolutionError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("resolve %s: server returned status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("resolve %s: %v", e.URL, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// TransportError is a failed or rejected fetch of a single range.
type TransportError struct {
	Range  ByteRange
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: unexpected status code: %d", e.Range.Header(), e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.Range.Header(), e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IOError is a local file failure (open, write, read).
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// DigestError means a requested checksum algorithm is not available.
type DigestError struct {
	Algorithm string
}

func (e *DigestError) Error() string {
	return fmt.Sprintf("unsupported digest algorithm: %q", e.Algorithm)
}
