// Package videourl decides whether a URL plausibly points at playable video.
package videourl

import (
	"net/url"
	"regexp"
	"strings"
)

var videoExtensions = []string{
	".mp4", ".m3u8", ".webm", ".mov", ".mkv", ".avi", ".flv", ".wmv", ".mpg", ".mpeg",
	".3gp", ".3g2", ".m4v", ".f4v", ".f4p", ".f4a", ".f4b", ".mpd",
}

var videoDomains = []string{
	"youtube.com", "youtu.be", "vimeo.com", "dailymotion.com", "dai.ly",
	"twitch.tv", "streamable.com", "giphy.com", "imgur.com", "gfycat.com",
	"reddit.com", "redgifs.com",
}

var cdnPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\.(cloudfront|akamai|fastly|cloudflare)\.net$`),
	regexp.MustCompile(`\.(s3|amazonaws)\.com$`),
	regexp.MustCompile(`\.(cdn|media)\.`),
	regexp.MustCompile(`\.(video|stream)\.`),
}

var apiPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/video/`),
	regexp.MustCompile(`/stream/`),
	regexp.MustCompile(`/media/`),
	regexp.MustCompile(`/content/`),
	regexp.MustCompile(`/play/`),
}

// IsValid reports whether rawURL is an absolute URL that looks like a direct
// video file, a known video host, a video CDN or a video-serving API path.
func IsValid(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return false
	}

	path := strings.ToLower(parsed.Path)
	hostname := strings.ToLower(parsed.Hostname())

	for _, ext := range videoExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}

	for _, domain := range videoDomains {
		if strings.Contains(hostname, domain) {
			return true
		}
	}

	for _, pattern := range cdnPatterns {
		if pattern.MatchString(hostname) {
			return true
		}
	}

	for _, pattern := range apiPatterns {
		if pattern.MatchString(path) {
			return true
		}
	}

	return false
}
