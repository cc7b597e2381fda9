package models

// CachedSummary is the per-video cache slot. One entry per
// (platform, videoId) regardless of prompt; regenerating with a different
// prompt overwrites the slot.
type CachedSummary struct {
	VideoID    string   `json:"videoId"`
	Platform   Platform `json:"platform"`
	VideoTitle string   `json:"videoTitle"`
	VideoURL   string   `json:"videoUrl"`
	PromptID   string   `json:"promptId"`
	PromptName string   `json:"promptName"`
	Summary    string   `json:"summary"`
	Timestamp  int64    `json:"timestamp"` // unix millis
}

// SummarizeRequest is the inbound summarization message payload.
type SummarizeRequest struct {
	VideoInfo       VideoReference `json:"videoInfo"`
	PromptID        string         `json:"promptId"`
	ForceRegenerate bool           `json:"forceRegenerate,omitempty"`
}

// SummarizeResult is the terminal outcome of one summarization request.
type SummarizeResult struct {
	Success    bool   `json:"success"`
	Summary    string `json:"summary,omitempty"`
	Error      string `json:"error,omitempty"`
	Cached     bool   `json:"cached,omitempty"`
	InProgress bool   `json:"inProgress,omitempty"`
}

// StreamChunk is one broadcast fragment of a streaming summarization.
// An empty chunk with Done set marks end of stream.
type StreamChunk struct {
	Chunk string `json:"chunk"`
	Done  bool   `json:"done"`
}

// InFlightStatus reports whether a summarization is currently running for
// a video, and if so since when and with which prompt.
type InFlightStatus struct {
	InProgress bool   `json:"inProgress"`
	StartTime  int64  `json:"startTime,omitempty"` // unix millis
	PromptID   string `json:"promptId,omitempty"`
}
