// Package summarize is the request-orchestration core: single-flight
// dedup per video, cache-hit vs. miss vs. in-flight decisions, the
// timeout race around the upstream generation call, failure
// classification, and best-effort stream relay to the popup.
package summarize

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/vidsum/core/internal/models"
	"github.com/vidsum/core/internal/modules/prompts"
	"github.com/vidsum/core/internal/modules/settings"
	"github.com/vidsum/core/internal/modules/upstream"
	"github.com/vidsum/core/internal/modules/video"
)

// ClientProvider hands out the upstream client for a credential/model
// pair. Satisfied by *upstream.Factory.
type ClientProvider interface {
	ClientFor(apiKey, model string) (upstream.Client, error)
}

// Service coordinates one summarization request end to end. The
// in-flight registry and result cache are owned here; UI surfaces only
// reach them through request handlers.
type Service struct {
	settings *settings.Service
	prompts  *prompts.Service
	cache    *Cache
	inflight *Registry
	factory  ClientProvider
	metadata *video.MetadataClient
	relay    Relay
	logger   *zap.Logger

	// deadlineFor converts the configured timeout minutes to the race
	// deadline. Replaced in tests to avoid minute-scale waits.
	deadlineFor func(minutes int) time.Duration
}

func NewService(
	settingsSvc *settings.Service,
	promptsSvc *prompts.Service,
	cache *Cache,
	inflight *Registry,
	factory ClientProvider,
	metadata *video.MetadataClient,
	relay Relay,
	logger *zap.Logger,
) *Service {
	if relay == nil {
		relay = NopRelay{}
	}
	return &Service{
		settings: settingsSvc,
		prompts:  promptsSvc,
		cache:    cache,
		inflight: inflight,
		factory:  factory,
		metadata: metadata,
		relay:    relay,
		logger:   logger,
		deadlineFor: func(minutes int) time.Duration {
			return time.Duration(minutes) * time.Minute
		},
	}
}

// Summarize handles one request. Streaming requests return
// {success:true, inProgress:true} immediately and deliver output through
// the relay; blocking requests return the terminal result.
func (s *Service) Summarize(ctx context.Context, req models.SummarizeRequest) models.SummarizeResult {
	key := req.VideoInfo.Key()

	if s.inflight.IsInProgress(key) {
		return inProgressResult()
	}

	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return failure(Classify(err))
	}

	if !req.ForceRegenerate {
		cached, err := s.cache.Get(ctx, req.VideoInfo.VideoID, req.VideoInfo.Platform)
		if err != nil {
			// Degrade to a miss; the slot is rewritten on success anyway.
			s.logger.Warn("cache lookup failed", zap.String("key", key), zap.Error(err))
		}
		if cached != nil && cached.PromptID == req.PromptID {
			return models.SummarizeResult{Success: true, Summary: cached.Summary, Cached: true}
		}
	}

	prompt, err := s.prompts.GetByID(ctx, req.PromptID)
	if err != nil {
		return failure(NewError(CodePromptNotFound, req.PromptID))
	}
	if cfg.GeminiAPIKey == "" {
		return failure(NewError(CodeNoAPIKey, ""))
	}
	if req.VideoInfo.Platform != models.PlatformYouTube {
		return failure(NewError(CodeUnsupportedPlatform, string(req.VideoInfo.Platform)))
	}

	client, err := s.factory.ClientFor(cfg.GeminiAPIKey, cfg.Model)
	if err != nil {
		return failure(Classify(err))
	}

	// Atomic claim: two near-simultaneous requests for the same video
	// can both pass the check above, but only one wins here.
	if !s.inflight.TryMark(key, req.PromptID) {
		return inProgressResult()
	}

	deadline := s.deadlineFor(cfg.SummarizationTimeoutMinute)

	if cfg.StreamResponse {
		go func() {
			result := s.run(context.WithoutCancel(ctx), req, prompt, client, deadline, cfg.SummarizationTimeoutMinute, true)
			if !result.Success {
				s.logger.Error("streaming summarization failed",
					zap.String("key", key), zap.String("error", result.Error))
				s.relay.EmitResult(result)
			}
		}()
		return models.SummarizeResult{Success: true, InProgress: true}
	}

	return s.run(ctx, req, prompt, client, deadline, cfg.SummarizationTimeoutMinute, false)
}

// run executes the dispatch under the timeout race. The in-flight entry
// is released on every exit path.
func (s *Service) run(
	ctx context.Context,
	req models.SummarizeRequest,
	prompt *models.PromptTemplate,
	client upstream.Client,
	deadline time.Duration,
	deadlineMinutes int,
	streaming bool,
) models.SummarizeResult {
	key := req.VideoInfo.Key()
	defer s.inflight.MarkComplete(key)

	// Set once the race is lost so late chunks from the abandoned
	// upstream call stop reaching the relay.
	var abandoned atomic.Bool

	dispatch := func(ctx context.Context) (string, error) {
		if !streaming {
			return client.SummarizeVideo(ctx, req.VideoInfo, prompt.Prompt)
		}
		text, err := client.SummarizeVideoStream(ctx, req.VideoInfo, prompt.Prompt, func(token string) {
			if token == "" || abandoned.Load() {
				return
			}
			s.relay.EmitChunk(token, false)
		})
		if err == nil && !abandoned.Load() {
			s.relay.EmitChunk("", true)
		}
		return text, err
	}

	summary, err := raceDeadline(ctx, deadline, NewTimeoutError(deadlineMinutes), dispatch)
	if err != nil {
		abandoned.Store(true)
		classified := Classify(err)
		s.logger.Warn("summarization failed",
			zap.String("key", key),
			zap.String("code", string(classified.Code)),
			zap.String("details", classified.Details))
		return failure(classified)
	}

	entry := models.CachedSummary{
		VideoID:    req.VideoInfo.VideoID,
		Platform:   req.VideoInfo.Platform,
		VideoTitle: req.VideoInfo.Title,
		VideoURL:   req.VideoInfo.URL,
		PromptID:   req.PromptID,
		PromptName: prompt.Name,
		Summary:    summary,
		Timestamp:  time.Now().UnixMilli(),
	}
	if err := s.cache.Put(ctx, entry); err != nil {
		return failure(Classify(err))
	}

	return models.SummarizeResult{Success: true, Summary: summary}
}

// SummarizeTranscript summarizes pasted transcript text. No single
// flight here: there is no video key to dedup on.
func (s *Service) SummarizeTranscript(ctx context.Context, transcript, promptID string) models.SummarizeResult {
	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return failure(Classify(err))
	}
	if cfg.GeminiAPIKey == "" {
		return failure(NewError(CodeNoAPIKey, ""))
	}
	prompt, err := s.prompts.GetByID(ctx, promptID)
	if err != nil {
		return failure(NewError(CodePromptNotFound, promptID))
	}
	client, err := s.factory.ClientFor(cfg.GeminiAPIKey, cfg.Model)
	if err != nil {
		return failure(Classify(err))
	}

	deadline := s.deadlineFor(cfg.SummarizationTimeoutMinute)
	summary, err := raceDeadline(ctx, deadline, NewTimeoutError(cfg.SummarizationTimeoutMinute), func(ctx context.Context) (string, error) {
		return client.SummarizeTranscript(ctx, transcript, prompt.Prompt)
	})
	if err != nil {
		return failure(Classify(err))
	}
	return models.SummarizeResult{Success: true, Summary: summary}
}

// TestAPIKey probes a credential with a throwaway client so the cached
// factory client is untouched.
func (s *Service) TestAPIKey(ctx context.Context, apiKey string) bool {
	client, err := upstream.New(apiKey, models.DefaultModel)
	if err != nil {
		return false
	}
	return client.TestConnection(ctx)
}

// PromptIDForVideo picks the prompt for a video: the mapped category
// prompt when auto-detect is on and metadata lookup succeeds, otherwise
// the configured default. Lookup failures never block summarization.
func (s *Service) PromptIDForVideo(ctx context.Context, info models.VideoReference) string {
	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return models.DefaultPromptID
	}
	if cfg.AutoDetectCategory && info.Platform == models.PlatformYouTube && cfg.YouTubeAPIKey != "" {
		if meta := s.metadata.FetchMetadata(ctx, info.VideoID, cfg.YouTubeAPIKey); meta != nil {
			return ResolvePromptID(meta.CategoryID, cfg.DefaultPromptID)
		}
	}
	return cfg.DefaultPromptID
}

// VideoInfo resolves a raw page URL into a VideoReference, enriched
// with best-effort category/title metadata. Returns nil for URLs that
// are not a recognized video page.
func (s *Service) VideoInfo(ctx context.Context, rawURL string) *models.VideoReference {
	info := video.FromURL(rawURL)
	if info == nil {
		return nil
	}
	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return info
	}
	if info.Platform == models.PlatformYouTube && cfg.YouTubeAPIKey != "" {
		if meta := s.metadata.FetchMetadata(ctx, info.VideoID, cfg.YouTubeAPIKey); meta != nil {
			info.CategoryID = meta.CategoryID
			info.CategoryName = meta.CategoryName
			if meta.Title != "" {
				info.Title = meta.Title
			}
			if meta.Duration != "" {
				info.Duration = meta.Duration
			}
		}
	}
	return info
}

// InProgress reports the in-flight state for a video.
func (s *Service) InProgress(videoID string, platform models.Platform) models.InFlightStatus {
	return s.inflight.StatusOf(models.VideoKey(videoID, platform))
}

// Cached returns the cached summary for a video, or nil.
func (s *Service) Cached(ctx context.Context, videoID string, platform models.Platform) (*models.CachedSummary, error) {
	return s.cache.Get(ctx, videoID, platform)
}

// ClearCached removes the cached summary for a video.
func (s *Service) ClearCached(ctx context.Context, videoID string, platform models.Platform) error {
	return s.cache.Delete(ctx, videoID, platform)
}

// AllCached returns every cached summary, newest first.
func (s *Service) AllCached(ctx context.Context) ([]models.CachedSummary, error) {
	return s.cache.ListAll(ctx)
}

// ClearAllCached wipes the whole summary cache.
func (s *Service) ClearAllCached(ctx context.Context) error {
	return s.cache.ClearAll(ctx)
}

func failure(err *Error) models.SummarizeResult {
	return models.SummarizeResult{Success: false, Error: err.Message}
}

func inProgressResult() models.SummarizeResult {
	return models.SummarizeResult{
		Success:    false,
		Error:      "Summarization already in progress for this video",
		InProgress: true,
	}
}
