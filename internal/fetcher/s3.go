package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"

	"github.com/tanq16/splitdl/internal/utils"
)

// s3API is the subset of *s3.Client used for ranged object reads.
type s3API interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Fetcher reads s3://bucket/key objects with ranged GetObject calls.
type S3Fetcher struct {
	client s3API
}

func NewS3Fetcher(ctx context.Context, profile string) (*S3Fetcher, error) {
	opts := []func(*config.LoadOptions) error{config.WithRetryMode(aws.RetryModeStandard)}
	if profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("error loading AWS config: %w", err)
	}
	return &S3Fetcher{client: s3.NewFromConfig(cfg)}, nil
}

func (f *S3Fetcher) Probe(ctx context.Context, rawURL string) (utils.DownloadTarget, error) {
	bucket, key, err := parseS3URL(rawURL)
	if err != nil {
		return utils.DownloadTarget{}, &utils.ResolutionError{URL: rawURL, Err: err}
	}
	head, err := f.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return utils.DownloadTarget{}, &utils.ResolutionError{URL: rawURL, Err: err}
	}
	if head.ContentLength == nil || *head.ContentLength < 0 {
		return utils.DownloadTarget{}, &utils.ResolutionError{URL: rawURL, Err: utils.ErrUnknownLength}
	}
	log.Debug().Str("op", "fetcher/s3").Msgf("s3://%s/%s is %d bytes", bucket, key, *head.ContentLength)
	return utils.DownloadTarget{
		URL:       rawURL,
		TotalSize: *head.ContentLength,
		FileName:  utils.FileNameFromPath(key),
	}, nil
}

func (f *S3Fetcher) Fetch(ctx context.Context, target utils.DownloadTarget, r utils.ByteRange) (io.ReadCloser, error) {
	bucket, key, err := parseS3URL(target.URL)
	if err != nil {
		return nil, &utils.TransportError{Range: r, Err: err}
	}
	input := &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}
	if !r.Covers(target.TotalSize) {
		input.Range = aws.String(r.Header())
	}
	out, err := f.client.GetObject(ctx, input)
	if err != nil {
		return nil, &utils.TransportError{Range: r, Err: err}
	}
	if input.Range != nil {
		if err := checkContentRange(aws.ToString(out.ContentRange), r); err != nil {
			out.Body.Close()
			return nil, &utils.TransportError{Range: r, Err: err}
		}
	}
	return out.Body, nil
}

func parseS3URL(rawURL string) (string, string, error) {
	rest, ok := strings.CutPrefix(rawURL, "s3://")
	if !ok {
		return "", "", fmt.Errorf("not an s3 URL: %q", rawURL)
	}
	bucket, key, _ := strings.Cut(rest, "/")
	if bucket == "" {
		return "", "", errors.New("invalid S3 URL format: missing bucket")
	}
	if key == "" || strings.HasSuffix(key, "/") {
		return "", "", errors.New("invalid S3 URL format: missing object key")
	}
	return bucket, key, nil
}
