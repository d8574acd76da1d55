package utils

import (
	"errors"
	"regexp"
)

const socketBufferSize = 1024 * 1024

const (
	DefaultWorkers    = 16
	DefaultThreshold  = 16 * 1024 * 1024 // 16MB
	DefaultBufferSize = 8 * 1024         // 8KB
	DefaultFileName   = "downloaded_file"
	ToolUserAgent     = "splitdl/1.0"
)

var DefaultAlgorithms = []string{"md5", "sha1"}

var ErrUnknownLength = errors.New("server did not report a content length")
var FileNameRegex = regexp.MustCompile(`[^a-zA-Z0-9_\-\. ]+`)
