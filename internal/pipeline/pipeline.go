// Package pipeline sequences one download: metadata probe, planning,
// coordinated download and checksum verification.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tanq16/splitdl/internal/checksum"
	"github.com/tanq16/splitdl/internal/coordinator"
	"github.com/tanq16/splitdl/internal/fetcher"
	"github.com/tanq16/splitdl/internal/output"
	"github.com/tanq16/splitdl/internal/planner"
	"github.com/tanq16/splitdl/internal/utils"
)

type State int

const (
	ResolvingMetadata State = iota
	Planning
	Downloading
	Verifying
	Done
	Failed
)

func (s State) String() string {
	switch s {
	case ResolvingMetadata:
		return "resolving-metadata"
	case Planning:
		return "planning"
	case Downloading:
		return "downloading"
	case Verifying:
		return "verifying"
	case Done:
		return "done"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Config holds every tunable of a run. Zero values fall back to defaults.
type Config struct {
	Workers    int
	BufferSize int
	// Threshold is the largest size fetched as a single stream.
	Threshold  int64
	Algorithms []string
	// OutputPath overrides the name derived from the URL.
	OutputPath string
	// OutputDir is joined with the derived name when OutputPath is empty.
	OutputDir string
	Reporter  output.ProgressReporter
	// OnState is called on every transition.
	OnState func(State)
}

type Result struct {
	RunID      string
	Target     utils.DownloadTarget
	OutputPath string
	Chunks     []utils.ChunkTask
	Digests    []utils.ChecksumResult
	// Elapsed covers the download phase only.
	Elapsed time.Duration
}

type Driver struct {
	fetcher fetcher.Fetcher
	cfg     Config
	state   State
}

func New(f fetcher.Fetcher, cfg Config) *Driver {
	if cfg.Workers < 1 {
		cfg.Workers = utils.DefaultWorkers
	}
	if cfg.BufferSize < 1 {
		cfg.BufferSize = utils.DefaultBufferSize
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = utils.DefaultThreshold
	}
	if len(cfg.Algorithms) == 0 {
		cfg.Algorithms = utils.DefaultAlgorithms
	}
	if cfg.Reporter == nil {
		cfg.Reporter = output.NopReporter{}
	}
	return &Driver{fetcher: f, cfg: cfg, state: ResolvingMetadata}
}

// State returns the state the last Run stopped in.
func (d *Driver) State() State {
	return d.state
}

func (d *Driver) transition(logger zerolog.Logger, s State) {
	logger.Debug().Str("op", "pipeline/state").Msgf("%s -> %s", d.state, s)
	d.state = s
	if d.cfg.OnState != nil {
		d.cfg.OnState(s)
	}
}

func (d *Driver) fail(logger zerolog.Logger, err error) error {
	d.transition(logger, Failed)
	return err
}

// Run downloads rawURL and returns the digests of the written file.
func (d *Driver) Run(ctx context.Context, rawURL string) (*Result, error) {
	result := &Result{RunID: uuid.NewString()}
	logger := utils.GetLogger("pipeline").With().Str("run", result.RunID).Logger()
	d.state = ResolvingMetadata
	if d.cfg.OnState != nil {
		d.cfg.OnState(ResolvingMetadata)
	}

	target, err := d.fetcher.Probe(ctx, rawURL)
	if err != nil {
		return result, d.fail(logger, fmt.Errorf("error resolving metadata: %w", err))
	}
	result.Target = target
	result.OutputPath = d.outputPath(target)
	logger.Info().Str("op", "pipeline/resolve").Msgf("%s is %s, saving to %s", rawURL, utils.FormatBytes(uint64(target.TotalSize)), result.OutputPath)

	d.transition(logger, Planning)
	ranges := planner.Choose(target.TotalSize, d.cfg.Threshold, d.cfg.Workers)
	logger.Debug().Str("op", "pipeline/plan").Msgf("%d range(s) planned", len(ranges))

	d.transition(logger, Downloading)
	coord := coordinator.New(d.fetcher, coordinator.Options{
		Workers:    d.cfg.Workers,
		BufferSize: d.cfg.BufferSize,
		Reporter:   d.cfg.Reporter,
	})
	start := time.Now()
	result.Chunks, err = coord.Run(ctx, target, result.OutputPath, ranges)
	if err != nil {
		return result, d.fail(logger, fmt.Errorf("error downloading: %w", err))
	}

	result.Elapsed = time.Since(start)
	logger.Info().Str("op", "pipeline/download").Msgf("fetched %s in %s (%s)", utils.FormatBytes(uint64(target.TotalSize)),
		result.Elapsed.Round(time.Millisecond), utils.FormatSpeed(target.TotalSize, result.Elapsed.Seconds()))

	d.transition(logger, Verifying)
	result.Digests, err = checksum.ComputeDigests(result.OutputPath, d.cfg.Algorithms, d.cfg.BufferSize)
	if err != nil {
		return result, d.fail(logger, fmt.Errorf("error computing checksums: %w", err))
	}

	d.transition(logger, Done)
	logger.Info().Str("op", "pipeline/done").Msgf("download of %s complete", result.OutputPath)
	return result, nil
}

func (d *Driver) outputPath(target utils.DownloadTarget) string {
	if d.cfg.OutputPath != "" {
		return d.cfg.OutputPath
	}
	return filepath.Join(d.cfg.OutputDir, target.FileName)
}
