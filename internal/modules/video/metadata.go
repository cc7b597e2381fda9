package video

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const metadataEndpoint = "https://www.googleapis.com/youtube/v3/videos"

// Metadata is the best-effort enrichment returned by the lookup API.
type Metadata struct {
	CategoryID   string
	CategoryName string
	Title        string
	Duration     string
}

// MetadataClient queries the YouTube Data API for video category/title
// metadata. Every failure degrades to nil; lookup is never fatal.
type MetadataClient struct {
	httpClient *http.Client
	logger     *zap.Logger
	endpoint   string
}

func NewMetadataClient(logger *zap.Logger) *MetadataClient {
	return &MetadataClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
		endpoint:   metadataEndpoint,
	}
}

// FetchMetadata returns category and title info for a video, or nil on
// any failure (missing credential, network error, unknown video).
func (c *MetadataClient) FetchMetadata(ctx context.Context, videoID, apiKey string) *Metadata {
	if strings.TrimSpace(apiKey) == "" {
		return nil
	}

	u, err := neturl.Parse(c.endpoint)
	if err != nil {
		return nil
	}
	q := u.Query()
	q.Set("part", "snippet,contentDetails")
	q.Set("id", videoID)
	q.Set("key", apiKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("video metadata request failed", zap.String("videoId", videoID), zap.Error(err))
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Debug("video metadata request rejected",
			zap.String("videoId", videoID), zap.Int("status", resp.StatusCode))
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil
	}

	var payload struct {
		Items []struct {
			Snippet struct {
				CategoryID string `json:"categoryId"`
				Title      string `json:"title"`
			} `json:"snippet"`
			ContentDetails struct {
				Duration string `json:"duration"`
			} `json:"contentDetails"`
		} `json:"items"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		c.logger.Debug("video metadata parse failed", zap.String("videoId", videoID), zap.Error(err))
		return nil
	}
	if len(payload.Items) == 0 {
		return nil
	}

	item := payload.Items[0]
	return &Metadata{
		CategoryID:   item.Snippet.CategoryID,
		CategoryName: CategoryName(item.Snippet.CategoryID),
		Title:        item.Snippet.Title,
		Duration:     ParseDuration(item.ContentDetails.Duration),
	}
}

var isoDurationPattern = regexp.MustCompile(`PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?`)

// ParseDuration converts an ISO-8601 duration (PT1H2M3S) into a
// human-readable clock string (1:02:03). Unparseable input yields "".
func ParseDuration(isoDuration string) string {
	m := isoDurationPattern.FindStringSubmatch(isoDuration)
	if m == nil {
		return ""
	}

	hours := atoiOrZero(m[1])
	minutes := atoiOrZero(m[2])
	seconds := atoiOrZero(m[3])

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

func atoiOrZero(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
