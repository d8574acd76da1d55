package utils

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// FileNameFromPath returns the last segment of an already decoded URL path
// or object key, sanitized for the local filesystem, or DefaultFileName when
// there is none.
func FileNameFromPath(p string) string {
	if p == "" || strings.HasSuffix(p, "/") {
		return DefaultFileName
	}
	name := path.Base(p)
	if name == "." || name == "/" || name == ".." {
		return DefaultFileName
	}
	name = FileNameRegex.ReplaceAllString(name, "_")
	if strings.Trim(name, ". ") == "" {
		return DefaultFileName
	}
	return name
}

func ParseHeaderArgs(headers []string) map[string]string {
	result := make(map[string]string)
	for _, header := range headers {
		parts := strings.SplitN(header, ":", 2)
		if len(parts) == 2 {
			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])
			result[key] = value
		}
	}
	return result
}

// SplitProxyAuth moves credentials embedded in a proxy URL into the
// config's username/password fields when those are not already set.
func SplitProxyAuth(cfg *HTTPClientConfig) {
	parsed, err := url.Parse(cfg.ProxyURL)
	if err != nil || parsed.User == nil || cfg.ProxyUsername != "" {
		return
	}
	cfg.ProxyUsername = parsed.User.Username()
	if password, set := parsed.User.Password(); set {
		cfg.ProxyPassword = password
	}
	parsed.User = nil
	cfg.ProxyURL = parsed.String()
}

func FormatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := uint64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

func FormatSpeed(bytes int64, elapsed float64) string {
	if elapsed == 0 {
		return "0 B/s"
	}
	bps := float64(bytes) / elapsed
	formatted := FormatBytes(uint64(bps))
	return formatted[:len(formatted)-1] + "B/s" // Slice off "B" and add "B/s"
}
