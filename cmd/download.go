package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tanq16/splitdl/internal/config"
	"github.com/tanq16/splitdl/internal/fetcher"
	"github.com/tanq16/splitdl/internal/output"
	"github.com/tanq16/splitdl/internal/pipeline"
	"github.com/tanq16/splitdl/internal/utils"
)

type downloadConfig struct {
	config.Config
	OutputPath string
}

// baseConfig layers defaults, the --config file and SPLITDL_* variables.
func baseConfig() (config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.LoadFromFile(configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}
	if err := cfg.LoadFromEnv(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// applyDigestFlags applies the persistent flags shared with the checksum
// subcommand.
func applyDigestFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("buffer-size") {
		size, err := config.ParseBytes(bufferSize)
		if err != nil {
			return fmt.Errorf("invalid --buffer-size: %w", err)
		}
		cfg.BufferSize = int(size)
	}
	if flags.Changed("algorithms") {
		cfg.Algorithms = config.SplitList(algorithms)
	}
	return nil
}

// resolveConfig applies explicitly set flags on top of baseConfig.
func resolveConfig(cmd *cobra.Command) (downloadConfig, error) {
	cfg, err := baseConfig()
	if err != nil {
		return downloadConfig{}, err
	}
	if err := applyDigestFlags(cmd, &cfg); err != nil {
		return downloadConfig{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("connections") {
		cfg.Workers = connections
	}
	if flags.Changed("threshold") {
		size, err := config.ParseBytes(threshold)
		if err != nil {
			return downloadConfig{}, fmt.Errorf("invalid --threshold: %w", err)
		}
		cfg.Threshold = size
	}
	if flags.Changed("progress") {
		cfg.Progress = progress
	}
	if flags.Changed("timeout") {
		cfg.Timeout = timeout
	}
	if flags.Changed("keep-alive-timeout") {
		cfg.KeepAliveTimeout = kaTimeout
	}
	if flags.Changed("user-agent") {
		cfg.UserAgent = userAgent
	}
	if flags.Changed("proxy") {
		cfg.Proxy = proxyURL
	}
	if flags.Changed("header") {
		if cfg.Headers == nil {
			cfg.Headers = map[string]string{}
		}
		for k, v := range utils.ParseHeaderArgs(headers) {
			cfg.Headers[k] = v
		}
	}
	if flags.Changed("aws-profile") {
		cfg.AWSProfile = awsProfile
	}
	if err := cfg.Validate(); err != nil {
		return downloadConfig{}, err
	}
	return downloadConfig{Config: cfg, OutputPath: outputPath}, nil
}

// readURL reads one line from in after printing a prompt.
func readURL(in io.Reader, prompt io.Writer) (string, error) {
	output.PrintInfo(prompt, "Enter the URL of the file to download:")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("error reading URL: %w", err)
	}
	url := strings.TrimSpace(line)
	if url == "" {
		return "", errors.New("no URL provided")
	}
	return url, nil
}

func runDownload(ctx context.Context, cfg downloadConfig, rawURL string, stdout io.Writer) error {
	f, err := fetcher.ForURL(ctx, rawURL, fetcher.Options{
		HTTP:       cfg.HTTPClientConfig(),
		AWSProfile: cfg.AWSProfile,
	})
	if err != nil {
		return err
	}
	reporter, err := output.NewReporter(cfg.Progress, stdout)
	if err != nil {
		return err
	}
	driver := pipeline.New(f, pipeline.Config{
		Workers:    cfg.Workers,
		BufferSize: cfg.BufferSize,
		Threshold:  cfg.Threshold,
		Algorithms: cfg.Algorithms,
		OutputPath: cfg.OutputPath,
		OutputDir:  cfg.OutputDir,
		Reporter:   reporter,
	})
	result, err := driver.Run(ctx, rawURL)
	if err != nil {
		return err
	}
	for i, digest := range result.Digests {
		output.PrintDigest(stdout, i, digest.Algorithm, digest.HexDigest)
	}
	output.PrintSuccess(stdout, "Download complete!")
	return nil
}
