// Package config loads splitdl settings from YAML files and SPLITDL_
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tanq16/splitdl/internal/checksum"
	"github.com/tanq16/splitdl/internal/utils"
)

type Config struct {
	Workers          int
	Threshold        int64
	BufferSize       int
	Algorithms       []string
	Progress         string
	OutputDir        string
	Timeout          time.Duration
	KeepAliveTimeout time.Duration
	UserAgent        string
	Proxy            string
	Headers          map[string]string
	AWSProfile       string
}

func Default() Config {
	return Config{
		Workers:          utils.DefaultWorkers,
		Threshold:        utils.DefaultThreshold,
		BufferSize:       utils.DefaultBufferSize,
		Algorithms:       append([]string(nil), utils.DefaultAlgorithms...),
		Progress:         "lines",
		Timeout:          3 * time.Minute,
		KeepAliveTimeout: 90 * time.Second,
		UserAgent:        utils.ToolUserAgent,
	}
}

// yamlConfig keeps sizes and durations as strings ("16MB", "30s").
type yamlConfig struct {
	Workers          int               `yaml:"workers"`
	Threshold        string            `yaml:"threshold"`
	BufferSize       string            `yaml:"buffer_size"`
	Algorithms       []string          `yaml:"algorithms"`
	Progress         string            `yaml:"progress"`
	OutputDir        string            `yaml:"output_dir"`
	Timeout          string            `yaml:"timeout"`
	KeepAliveTimeout string            `yaml:"keep_alive_timeout"`
	UserAgent        string            `yaml:"user_agent"`
	Proxy            string            `yaml:"proxy"`
	Headers          map[string]string `yaml:"headers"`
	AWSProfile       string            `yaml:"aws_profile"`
}

// LoadFromFile reads a YAML file on top of Default().
func LoadFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}

	cfg := Default()
	if yc.Workers != 0 {
		cfg.Workers = yc.Workers
	}
	if yc.Threshold != "" {
		size, err := ParseBytes(yc.Threshold)
		if err != nil {
			return Config{}, fmt.Errorf("parse threshold: %w", err)
		}
		cfg.Threshold = size
	}
	if yc.BufferSize != "" {
		size, err := ParseBytes(yc.BufferSize)
		if err != nil {
			return Config{}, fmt.Errorf("parse buffer_size: %w", err)
		}
		cfg.BufferSize = int(size)
	}
	if len(yc.Algorithms) > 0 {
		cfg.Algorithms = yc.Algorithms
	}
	if yc.Progress != "" {
		cfg.Progress = yc.Progress
	}
	cfg.OutputDir = yc.OutputDir
	if yc.Timeout != "" {
		d, err := time.ParseDuration(yc.Timeout)
		if err != nil {
			return Config{}, fmt.Errorf("parse timeout: %w", err)
		}
		cfg.Timeout = d
	}
	if yc.KeepAliveTimeout != "" {
		d, err := time.ParseDuration(yc.KeepAliveTimeout)
		if err != nil {
			return Config{}, fmt.Errorf("parse keep_alive_timeout: %w", err)
		}
		cfg.KeepAliveTimeout = d
	}
	if yc.UserAgent != "" {
		cfg.UserAgent = yc.UserAgent
	}
	cfg.Proxy = yc.Proxy
	cfg.Headers = yc.Headers
	cfg.AWSProfile = yc.AWSProfile
	return cfg, nil
}

// LoadFromEnv applies SPLITDL_* variables.
func (c *Config) LoadFromEnv() error {
	if v := os.Getenv("SPLITDL_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse SPLITDL_WORKERS: %w", err)
		}
		c.Workers = n
	}
	if v := os.Getenv("SPLITDL_THRESHOLD"); v != "" {
		size, err := ParseBytes(v)
		if err != nil {
			return fmt.Errorf("parse SPLITDL_THRESHOLD: %w", err)
		}
		c.Threshold = size
	}
	if v := os.Getenv("SPLITDL_ALGORITHMS"); v != "" {
		c.Algorithms = SplitList(v)
	}
	if v := os.Getenv("SPLITDL_PROXY"); v != "" {
		c.Proxy = v
	}
	if v := os.Getenv("SPLITDL_AWS_PROFILE"); v != "" {
		c.AWSProfile = v
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Workers <= 0 {
		return errors.New("config: workers must be positive")
	}
	if c.Threshold <= 0 {
		return errors.New("config: threshold must be positive")
	}
	if c.BufferSize <= 0 {
		return errors.New("config: buffer_size must be positive")
	}
	if len(c.Algorithms) == 0 {
		return errors.New("config: at least one algorithm is required")
	}
	for _, a := range c.Algorithms {
		if !slices.Contains(checksum.Supported(), checksum.Normalize(a)) {
			return fmt.Errorf("config: unsupported algorithm %q (supported: %s)", a, strings.Join(checksum.Supported(), ", "))
		}
	}
	switch c.Progress {
	case "lines", "bar", "auto", "none":
	default:
		return fmt.Errorf("config: unknown progress mode %q", c.Progress)
	}
	return nil
}

// HTTPClientConfig derives the transport settings for the HTTP fetcher.
func (c *Config) HTTPClientConfig() utils.HTTPClientConfig {
	cfg := utils.HTTPClientConfig{
		Timeout:        c.Timeout,
		KATimeout:      c.KeepAliveTimeout,
		ProxyURL:       c.Proxy,
		UserAgent:      c.UserAgent,
		Headers:        c.Headers,
		HighThreadMode: c.Workers > 5,
	}
	utils.SplitProxyAuth(&cfg)
	return cfg
}

// SplitList parses "md5, sha1" into its trimmed, non-empty parts.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ParseBytes parses sizes like "8KB", "16MB" or "1024".
func ParseBytes(s string) (int64, error) {
	var multiplier int64 = 1
	s = strings.ToUpper(strings.TrimSpace(s))
	switch {
	case strings.HasSuffix(s, "GB"):
		multiplier = 1024 * 1024 * 1024
		s = s[:len(s)-2]
	case strings.HasSuffix(s, "MB"):
		multiplier = 1024 * 1024
		s = s[:len(s)-2]
	case strings.HasSuffix(s, "KB"):
		multiplier = 1024
		s = s[:len(s)-2]
	case strings.HasSuffix(s, "B"):
		s = s[:len(s)-1]
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || value < 0 {
		return 0, fmt.Errorf("invalid byte string: %q", s)
	}
	return int64(value * float64(multiplier)), nil
}
