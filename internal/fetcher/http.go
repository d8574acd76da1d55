package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/tanq16/splitdl/internal/utils"
)

type HTTPFetcher struct {
	client utils.HTTPDoer
}

func NewHTTPFetcher(client utils.HTTPDoer) *HTTPFetcher {
	return &HTTPFetcher{client: client}
}

func (f *HTTPFetcher) Probe(ctx context.Context, rawURL string) (utils.DownloadTarget, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return utils.DownloadTarget{}, &utils.ResolutionError{URL: rawURL, Err: fmt.Errorf("invalid URL: %w", err)}
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return utils.DownloadTarget{}, &utils.ResolutionError{URL: rawURL, Err: fmt.Errorf("unsupported scheme: %q", parsedURL.Scheme)}
	}
	if parsedURL.Host == "" {
		return utils.DownloadTarget{}, &utils.ResolutionError{URL: rawURL, Err: errors.New("URL has no host")}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return utils.DownloadTarget{}, &utils.ResolutionError{URL: rawURL, Err: fmt.Errorf("error creating request: %w", err)}
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return utils.DownloadTarget{}, &utils.ResolutionError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return utils.DownloadTarget{}, &utils.ResolutionError{URL: rawURL, Status: resp.StatusCode}
	}

	contentLength := resp.Header.Get("Content-Length")
	if contentLength == "" {
		return utils.DownloadTarget{}, &utils.ResolutionError{URL: rawURL, Err: utils.ErrUnknownLength}
	}
	size, err := strconv.ParseInt(contentLength, 10, 64)
	if err != nil || size < 0 {
		return utils.DownloadTarget{}, &utils.ResolutionError{URL: rawURL, Err: fmt.Errorf("invalid Content-Length %q", contentLength)}
	}
	if resp.Header.Get("Accept-Ranges") != "bytes" {
		log.Warn().Str("op", "fetcher/http").Msgf("%s does not advertise byte ranges", rawURL)
	}

	return utils.DownloadTarget{
		URL:       rawURL,
		TotalSize: size,
		FileName:  utils.FileNameFromPath(parsedURL.Path),
	}, nil
}

// Fetch issues a GET for r. A range spanning the whole resource goes out
// without a Range header; any other range must be answered with 206.
func (f *HTTPFetcher) Fetch(ctx context.Context, target utils.DownloadTarget, r utils.ByteRange) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.URL, nil)
	if err != nil {
		return nil, &utils.TransportError{Range: r, Err: fmt.Errorf("error creating GET request: %w", err)}
	}
	whole := r.Covers(target.TotalSize)
	if !whole {
		req.Header.Set("Range", r.Header())
	}
	req.Header.Set("Connection", "keep-alive")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &utils.TransportError{Range: r, Err: err}
	}
	switch {
	case whole && (resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusPartialContent):
	case !whole && resp.StatusCode == http.StatusPartialContent:
		if err := checkContentRange(resp.Header.Get("Content-Range"), r); err != nil {
			resp.Body.Close()
			return nil, &utils.TransportError{Range: r, Err: err}
		}
	default:
		resp.Body.Close()
		return nil, &utils.TransportError{Range: r, Status: resp.StatusCode}
	}
	log.Debug().Str("op", "fetcher/http").Msgf("streaming %s of %s", r.Header(), target.URL)
	return resp.Body, nil
}
