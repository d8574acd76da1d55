// Package fetcher resolves remote resources and streams byte ranges of them.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/tanq16/splitdl/internal/utils"
)

// Fetcher is the capability the download pipeline consumes: a metadata probe
// and a ranged read of the probed resource.
type Fetcher interface {
	Probe(ctx context.Context, rawURL string) (utils.DownloadTarget, error)
	Fetch(ctx context.Context, target utils.DownloadTarget, r utils.ByteRange) (io.ReadCloser, error)
}

type Options struct {
	HTTP       utils.HTTPClientConfig
	AWSProfile string
}

// ForURL picks a fetcher implementation from the URL scheme.
func ForURL(ctx context.Context, rawURL string, opts Options) (Fetcher, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, &utils.ResolutionError{URL: rawURL, Err: fmt.Errorf("invalid URL: %w", err)}
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https":
		return NewHTTPFetcher(utils.NewHTTPClient(opts.HTTP)), nil
	case "s3":
		return NewS3Fetcher(ctx, opts.AWSProfile)
	default:
		return nil, &utils.ResolutionError{URL: rawURL, Err: fmt.Errorf("unsupported scheme: %q", parsed.Scheme)}
	}
}

// parseContentRange reads "bytes <start>-<end>/<total>" as sent with a 206.
func parseContentRange(value string) (utils.ByteRange, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(value), "bytes ")
	if !ok {
		return utils.ByteRange{}, fmt.Errorf("malformed Content-Range %q", value)
	}
	span, _, _ := strings.Cut(rest, "/")
	startStr, endStr, ok := strings.Cut(span, "-")
	if !ok {
		return utils.ByteRange{}, fmt.Errorf("malformed Content-Range %q", value)
	}
	start, err := strconv.ParseInt(startStr, 10, 64)
	if err != nil {
		return utils.ByteRange{}, fmt.Errorf("malformed Content-Range %q: %w", value, err)
	}
	end, err := strconv.ParseInt(endStr, 10, 64)
	if err != nil {
		return utils.ByteRange{}, fmt.Errorf("malformed Content-Range %q: %w", value, err)
	}
	return utils.ByteRange{Start: start, End: end}, nil
}

// checkContentRange rejects a partial response that does not start where
// the request asked it to.
func checkContentRange(value string, want utils.ByteRange) error {
	if value == "" {
		return nil
	}
	got, err := parseContentRange(value)
	if err != nil {
		return err
	}
	if got.Start != want.Start || got.End > want.End {
		return fmt.Errorf("server answered %s for requested %s", value, want.Header())
	}
	return nil
}
