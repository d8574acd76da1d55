// Package testutils provides an in-process HTTP server with byte-range
// support for tests.
package testutils

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// Request is what the server saw for one call.
type Request struct {
	Method string
	Path   string
	Range  string
}

// RangeServer serves in-memory files and records every request.
type RangeServer struct {
	*httptest.Server

	mu       sync.Mutex
	files    map[string][]byte
	requests []Request

	// IgnoreRange answers ranged GETs with the full body and 200.
	IgnoreRange bool
	// HeadStatus overrides the HEAD status when non-zero.
	HeadStatus int
	// FailRange, when set, returns a status to send instead of the range.
	FailRange func(rangeHeader string) int
}

// GenerateTestData returns size deterministic bytes.
func GenerateTestData(size int) []byte {
	data := make([]byte, size)
	for i := range data {
		data[i] = byte((i*7 + i/251) % 256)
	}
	return data
}

// StartRangeServer starts the server after applying the configure funcs.
func StartRangeServer(t *testing.T, files map[string][]byte, configure ...func(*RangeServer)) *RangeServer {
	t.Helper()
	rs := &RangeServer{files: files}
	for _, fn := range configure {
		fn(rs)
	}
	rs.Server = httptest.NewServer(http.HandlerFunc(rs.handle))
	t.Cleanup(rs.Close)
	return rs
}

// Requests returns a copy of the recorded requests.
func (rs *RangeServer) Requests() []Request {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return append([]Request(nil), rs.requests...)
}

// GETs returns the recorded GET requests.
func (rs *RangeServer) GETs() []Request {
	var gets []Request
	for _, r := range rs.Requests() {
		if r.Method == http.MethodGet {
			gets = append(gets, r)
		}
	}
	return gets
}

func (rs *RangeServer) handle(w http.ResponseWriter, r *http.Request) {
	rangeHeader := r.Header.Get("Range")
	rs.mu.Lock()
	rs.requests = append(rs.requests, Request{Method: r.Method, Path: r.URL.Path, Range: rangeHeader})
	data, ok := rs.files[r.URL.Path]
	rs.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	size := int64(len(data))

	if r.Method == http.MethodHead {
		if rs.HeadStatus != 0 {
			w.WriteHeader(rs.HeadStatus)
			return
		}
		w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
		w.Header().Set("Accept-Ranges", "bytes")
		return
	}

	if rangeHeader != "" && rs.FailRange != nil {
		if status := rs.FailRange(rangeHeader); status != 0 {
			w.WriteHeader(status)
			return
		}
	}

	if rangeHeader == "" || rs.IgnoreRange {
		w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
		w.Write(data)
		return
	}

	// bytes=start-end
	bounds := strings.TrimPrefix(rangeHeader, "bytes=")
	parts := strings.Split(bounds, "-")
	start, _ := strconv.ParseInt(parts[0], 10, 64)
	end, _ := strconv.ParseInt(parts[1], 10, 64)
	if end >= size {
		end = size - 1
	}
	if start > end {
		w.WriteHeader(http.StatusRequestedRangeNotSatisfiable)
		return
	}

	w.Header().Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", start, end, size))
	w.Header().Set("Content-Length", strconv.FormatInt(end-start+1, 10))
	w.WriteHeader(http.StatusPartialContent)
	w.Write(data[start : end+1])
}
