package video

import (
	"regexp"

	"github.com/vidsum/core/internal/models"
)

var platformPatterns = map[models.Platform][]*regexp.Regexp{
	models.PlatformYouTube: {
		regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/|youtube\.com/shorts/)([a-zA-Z0-9_-]{11})`),
	},
	models.PlatformVimeo: {
		regexp.MustCompile(`vimeo\.com/(\d+)`),
		regexp.MustCompile(`player\.vimeo\.com/video/(\d+)`),
	},
}

// DetectPlatform identifies which supported platform a URL belongs to.
func DetectPlatform(url string) models.Platform {
	for _, platform := range []models.Platform{models.PlatformYouTube, models.PlatformVimeo} {
		for _, pattern := range platformPatterns[platform] {
			if pattern.MatchString(url) {
				return platform
			}
		}
	}
	return models.PlatformUnknown
}

// ExtractVideoID pulls the platform-native video id out of a URL.
// Returns "" when the URL does not match any known pattern.
func ExtractVideoID(url string, platform models.Platform) string {
	for _, pattern := range platformPatterns[platform] {
		if m := pattern.FindStringSubmatch(url); len(m) > 1 && m[1] != "" {
			return m[1]
		}
	}
	return ""
}

// FromURL builds a minimal VideoReference from a page URL. Title and
// category enrichment happen separately via the metadata lookup.
func FromURL(url string) *models.VideoReference {
	platform := DetectPlatform(url)
	if platform == models.PlatformUnknown {
		return nil
	}
	videoID := ExtractVideoID(url, platform)
	if videoID == "" {
		return nil
	}
	canonical := url
	if platform == models.PlatformYouTube {
		canonical = "https://www.youtube.com/watch?v=" + videoID
	}
	return &models.VideoReference{
		VideoID:  videoID,
		Platform: platform,
		URL:      canonical,
	}
}
