package utils

import "fmt"

// DownloadTarget is the resolved remote resource. It is built once by a
// metadata probe and not modified afterwards.
type DownloadTarget struct {
	URL       string
	TotalSize int64
	FileName  string
}

// ByteRange is an inclusive [Start, End] span of a resource.
type ByteRange struct {
	Start int64
	End   int64
}

func (r ByteRange) Size() int64 {
	return r.End - r.Start + 1
}

// Header renders the range as an HTTP Range header value.
func (r ByteRange) Header() string {
	return fmt.Sprintf("bytes=%d-%d", r.Start, r.End)
}

// Covers reports whether r spans the entire resource of the given size.
func (r ByteRange) Covers(totalSize int64) bool {
	return r.Start == 0 && r.End == totalSize-1
}

type ChunkStatus int

const (
	ChunkPending ChunkStatus = iota
	ChunkInProgress
	ChunkCompleted
	ChunkFailed
)

func (s ChunkStatus) String() string {
	switch s {
	case ChunkPending:
		return "pending"
	case ChunkInProgress:
		return "in-progress"
	case ChunkCompleted:
		return "completed"
	case ChunkFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ChunkTask is one worker's range and its state. Only the goroutine running
// the task writes to it.
type ChunkTask struct {
	Index   int
	Range   ByteRange
	Status  ChunkStatus
	Written int64
	Err     error
}

type ChecksumResult struct {
	Algorithm string
	HexDigest string
}
