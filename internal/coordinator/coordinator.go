// Package coordinator downloads planned byte ranges concurrently into one
// shared output file.
//
// Every range runs as its own task on a fixed-size pool. A task streams its
// range from the fetcher and writes it with positioned writes starting at
// the range's first byte, so tasks never share a file cursor and never touch
// bytes outside their range. A failed task does not stop the others; the
// run fails with the first error once every task has finished.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/tanq16/splitdl/internal/fetcher"
	"github.com/tanq16/splitdl/internal/output"
	"github.com/tanq16/splitdl/internal/utils"
)

type Options struct {
	// Workers bounds the number of ranges in flight.
	Workers int
	// BufferSize is the read size for each copy step.
	BufferSize int
	Reporter   output.ProgressReporter
}

// DownloadFailure is returned by Run when at least one chunk failed. It
// carries the first failure observed.
type DownloadFailure struct {
	Chunk int
	Range utils.ByteRange
	Err   error
}

func (e *DownloadFailure) Error() string {
	return fmt.Sprintf("chunk %d (%s) failed: %v", e.Chunk, e.Range.Header(), e.Err)
}

func (e *DownloadFailure) Unwrap() error { return e.Err }

var errOverrun = errors.New("server sent more bytes than requested")

type Coordinator struct {
	fetcher fetcher.Fetcher
	opts    Options
}

func New(f fetcher.Fetcher, opts Options) *Coordinator {
	if opts.Workers < 1 {
		opts.Workers = utils.DefaultWorkers
	}
	if opts.BufferSize < 1 {
		opts.BufferSize = utils.DefaultBufferSize
	}
	if opts.Reporter == nil {
		opts.Reporter = output.NopReporter{}
	}
	return &Coordinator{fetcher: f, opts: opts}
}

// Run creates (or truncates) outputPath, downloads every range into it and
// returns the final state of each task. The file is closed only after all
// tasks are terminal.
func (c *Coordinator) Run(ctx context.Context, target utils.DownloadTarget, outputPath string, ranges []utils.ByteRange) ([]utils.ChunkTask, error) {
	out, err := os.OpenFile(outputPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, &utils.IOError{Op: "create", Path: outputPath, Err: err}
	}
	if err := out.Truncate(target.TotalSize); err != nil {
		out.Close()
		return nil, &utils.IOError{Op: "allocate", Path: outputPath, Err: err}
	}

	tasks := make([]utils.ChunkTask, len(ranges))
	for i, r := range ranges {
		tasks[i] = utils.ChunkTask{Index: i, Range: r, Status: utils.ChunkPending}
	}

	log.Debug().Str("op", "coordinator/run").Msgf("downloading %d chunk(s) of %s with %d worker(s)", len(tasks), target.URL, c.opts.Workers)
	c.opts.Reporter.Start(target.TotalSize, len(tasks))

	var g errgroup.Group
	g.SetLimit(c.opts.Workers)
	for i := range tasks {
		task := &tasks[i]
		g.Go(func() error {
			task.Status = utils.ChunkInProgress
			if err := c.runChunk(ctx, target, out, task); err != nil {
				task.Status = utils.ChunkFailed
				task.Err = err
				log.Error().Str("op", "coordinator/chunk").Err(err).Msgf("chunk %d failed", task.Index)
				return &DownloadFailure{Chunk: task.Index, Range: task.Range, Err: err}
			}
			task.Status = utils.ChunkCompleted
			log.Debug().Str("op", "coordinator/chunk").Msgf("chunk %d completed (%d bytes)", task.Index, task.Written)
			return nil
		})
	}
	runErr := g.Wait()
	c.opts.Reporter.Finish()

	if err := out.Close(); err != nil && runErr == nil {
		runErr = &utils.IOError{Op: "close", Path: outputPath, Err: err}
	}
	return tasks, runErr
}

// runChunk streams one range into its region of out. Writes go through an
// OffsetWriter, which uses WriteAt and keeps its own position.
func (c *Coordinator) runChunk(ctx context.Context, target utils.DownloadTarget, out *os.File, task *utils.ChunkTask) error {
	body, err := c.fetcher.Fetch(ctx, target, task.Range)
	if err != nil {
		return err
	}
	defer body.Close()

	size := task.Range.Size()
	w := io.NewOffsetWriter(out, task.Range.Start)
	buffer := make([]byte, c.opts.BufferSize)
	for {
		n, readErr := body.Read(buffer)
		if n > 0 {
			if task.Written+int64(n) > size {
				return &utils.TransportError{Range: task.Range, Err: errOverrun}
			}
			if _, err := w.Write(buffer[:n]); err != nil {
				return &utils.IOError{Op: "write", Path: out.Name(), Err: err}
			}
			task.Written += int64(n)
			c.opts.Reporter.Report(task.Index, task.Written, size)
		}
		if readErr != nil {
			if readErr == io.EOF {
				break
			}
			return &utils.TransportError{Range: task.Range, Err: fmt.Errorf("error reading response body: %w", readErr)}
		}
	}
	if task.Written != size {
		return &utils.TransportError{Range: task.Range, Err: fmt.Errorf("size mismatch: expected %d bytes, got %d", size, task.Written)}
	}
	return nil
}
