package models

// Platform identifies the video hosting site a reference was scraped from.
type Platform string

const (
	PlatformYouTube Platform = "youtube"
	PlatformVimeo   Platform = "vimeo"
	PlatformUnknown Platform = "unknown"
)

// VideoReference describes a video detected on a page. It is constructed
// by the scraping surface and never mutated by the orchestrator.
type VideoReference struct {
	VideoID      string   `json:"videoId"`
	Platform     Platform `json:"platform"`
	URL          string   `json:"url"`
	Title        string   `json:"title"`
	Duration     string   `json:"duration,omitempty"`
	CategoryID   string   `json:"categoryId,omitempty"`
	CategoryName string   `json:"categoryName,omitempty"`
}

// Key returns the identity of the video: platform-scoped video id.
func (v VideoReference) Key() string {
	return VideoKey(v.VideoID, v.Platform)
}

// VideoKey builds the canonical "(platform, videoId)" identity string used
// by the in-flight registry and the summary cache.
func VideoKey(videoID string, platform Platform) string {
	return string(platform) + ":" + videoID
}
