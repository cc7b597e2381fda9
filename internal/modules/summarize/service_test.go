package summarize

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vidsum/core/internal/models"
	"github.com/vidsum/core/internal/modules/prompts"
	"github.com/vidsum/core/internal/modules/settings"
	"github.com/vidsum/core/internal/modules/upstream"
	"github.com/vidsum/core/internal/modules/video"
	"github.com/vidsum/core/internal/pkg/kv"
)

// fakeClient scripts the upstream generation backend.
type fakeClient struct {
	mu     sync.Mutex
	calls  int
	result string
	err    error
	tokens []string
	// When non-nil, blocking calls wait here before returning.
	block chan struct{}
}

func (f *fakeClient) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeClient) recordCall() {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
}

func (f *fakeClient) SummarizeVideo(context.Context, models.VideoReference, string) (string, error) {
	f.recordCall()
	if f.block != nil {
		<-f.block
	}
	return f.result, f.err
}

func (f *fakeClient) SummarizeVideoStream(_ context.Context, _ models.VideoReference, _ string, onToken func(string)) (string, error) {
	f.recordCall()
	if f.block != nil {
		<-f.block
	}
	if f.err != nil {
		return "", f.err
	}
	full := ""
	for _, token := range f.tokens {
		full += token
		if onToken != nil {
			onToken(token)
		}
	}
	if full == "" {
		full = f.result
	}
	return full, nil
}

func (f *fakeClient) SummarizeTranscript(context.Context, string, string) (string, error) {
	f.recordCall()
	return f.result, f.err
}

func (f *fakeClient) TestConnection(context.Context) bool { return true }

type fakeProvider struct {
	client upstream.Client
}

func (p fakeProvider) ClientFor(string, string) (upstream.Client, error) {
	return p.client, nil
}

// captureRelay records everything emitted through the relay.
type captureRelay struct {
	mu      sync.Mutex
	chunks  []models.StreamChunk
	results []models.SummarizeResult
}

func (r *captureRelay) EmitChunk(chunk string, done bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chunks = append(r.chunks, models.StreamChunk{Chunk: chunk, Done: done})
}

func (r *captureRelay) EmitResult(result models.SummarizeResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, result)
}

func (r *captureRelay) chunkSnapshot() []models.StreamChunk {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.StreamChunk(nil), r.chunks...)
}

func (r *captureRelay) resultSnapshot() []models.SummarizeResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.SummarizeResult(nil), r.results...)
}

type orchestratorEnv struct {
	svc      *Service
	client   *fakeClient
	relay    *captureRelay
	registry *Registry
	cache    *Cache
}

func newOrchestratorEnv(t *testing.T, cfg models.Settings, client *fakeClient) *orchestratorEnv {
	t.Helper()

	ctx := context.Background()
	syncStore := kv.NewMemory()
	raw, err := json.Marshal(cfg)
	require.NoError(t, err)
	require.NoError(t, syncStore.Set(ctx, "settings", string(raw)))

	logger := zap.NewNop()
	registry := NewRegistry()
	cache := NewCache(kv.NewMemory(), logger)
	relay := &captureRelay{}

	svc := NewService(
		settings.NewService(syncStore),
		prompts.NewService(syncStore),
		cache,
		registry,
		fakeProvider{client: client},
		video.NewMetadataClient(logger),
		relay,
		logger,
	)
	svc.deadlineFor = func(int) time.Duration { return 250 * time.Millisecond }

	return &orchestratorEnv{svc: svc, client: client, relay: relay, registry: registry, cache: cache}
}

func testSettings(stream bool) models.Settings {
	cfg := models.DefaultSettings()
	cfg.GeminiAPIKey = "test-key"
	cfg.StreamResponse = stream
	cfg.AutoDetectCategory = false
	return cfg
}

func requestFor(videoID, promptID string) models.SummarizeRequest {
	return models.SummarizeRequest{
		VideoInfo: models.VideoReference{
			VideoID:  videoID,
			Platform: models.PlatformYouTube,
			URL:      "https://www.youtube.com/watch?v=" + videoID,
			Title:    "Some video",
		},
		PromptID: promptID,
	}
}

func TestSummarizeEndToEnd(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newOrchestratorEnv(t, testSettings(false), &fakeClient{result: "Summary text"})
	req := requestFor("abc123", "general")

	result := env.svc.Summarize(ctx, req)
	require.True(t, result.Success)
	require.Equal(t, "Summary text", result.Summary)
	require.False(t, result.Cached)
	require.Equal(t, 1, env.client.callCount())
	require.False(t, env.registry.IsInProgress(req.VideoInfo.Key()))

	// Identical follow-up is served from cache without a new call.
	again := env.svc.Summarize(ctx, req)
	require.True(t, again.Success)
	require.True(t, again.Cached)
	require.Equal(t, "Summary text", again.Summary)
	require.Equal(t, 1, env.client.callCount())

	cached, err := env.cache.Get(ctx, "abc123", models.PlatformYouTube)
	require.NoError(t, err)
	require.NotNil(t, cached)
	require.Equal(t, "general", cached.PromptID)
	require.Equal(t, "Some video", cached.VideoTitle)
}

func TestSummarizeSingleFlight(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := &fakeClient{result: "Summary text", block: make(chan struct{})}
	env := newOrchestratorEnv(t, testSettings(false), client)
	req := requestFor("abc123", "general")

	firstDone := make(chan models.SummarizeResult, 1)
	go func() {
		firstDone <- env.svc.Summarize(ctx, req)
	}()

	require.Eventually(t, func() bool {
		return env.registry.IsInProgress(req.VideoInfo.Key())
	}, time.Second, time.Millisecond)

	second := env.svc.Summarize(ctx, req)
	require.False(t, second.Success)
	require.True(t, second.InProgress)
	require.Contains(t, second.Error, "already in progress")

	close(client.block)
	first := <-firstDone
	require.True(t, first.Success)
	require.Equal(t, 1, env.client.callCount())
	require.False(t, env.registry.IsInProgress(req.VideoInfo.Key()))
}

func TestSummarizePromptMismatchIsAMiss(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newOrchestratorEnv(t, testSettings(false), &fakeClient{result: "Fresh summary"})
	require.NoError(t, env.cache.Put(ctx, models.CachedSummary{
		VideoID:  "abc123",
		Platform: models.PlatformYouTube,
		PromptID: "general",
		Summary:  "Old summary",
	}))

	result := env.svc.Summarize(ctx, requestFor("abc123", "technical"))
	require.True(t, result.Success)
	require.False(t, result.Cached)
	require.Equal(t, "Fresh summary", result.Summary)
	require.Equal(t, 1, env.client.callCount())

	cached, err := env.cache.Get(ctx, "abc123", models.PlatformYouTube)
	require.NoError(t, err)
	require.NotNil(t, cached)
	require.Equal(t, "technical", cached.PromptID)
	require.Equal(t, "Fresh summary", cached.Summary)
}

func TestSummarizeForceRegenerateSkipsCacheNotSingleFlight(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := &fakeClient{result: "Regenerated"}
	env := newOrchestratorEnv(t, testSettings(false), client)
	require.NoError(t, env.cache.Put(ctx, models.CachedSummary{
		VideoID:  "abc123",
		Platform: models.PlatformYouTube,
		PromptID: "general",
		Summary:  "Old summary",
	}))

	req := requestFor("abc123", "general")
	req.ForceRegenerate = true

	result := env.svc.Summarize(ctx, req)
	require.True(t, result.Success)
	require.False(t, result.Cached)
	require.Equal(t, "Regenerated", result.Summary)
	require.Equal(t, 1, client.callCount())

	// While in flight, a forced request is still rejected.
	client.block = make(chan struct{})
	firstDone := make(chan models.SummarizeResult, 1)
	go func() {
		firstDone <- env.svc.Summarize(ctx, req)
	}()
	require.Eventually(t, func() bool {
		return env.registry.IsInProgress(req.VideoInfo.Key())
	}, time.Second, time.Millisecond)

	blocked := env.svc.Summarize(ctx, req)
	require.False(t, blocked.Success)
	require.True(t, blocked.InProgress)

	close(client.block)
	<-firstDone
}

func TestSummarizeReleasesOnFailure(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newOrchestratorEnv(t, testSettings(false), &fakeClient{err: errors.New("upstream said 429")})
	req := requestFor("abc123", "general")

	result := env.svc.Summarize(ctx, req)
	require.False(t, result.Success)
	require.Equal(t, "API rate limit exceeded. Try again later.", result.Error)
	require.False(t, env.registry.IsInProgress(req.VideoInfo.Key()))

	// The key can be claimed again right away.
	env.client.err = nil
	env.client.result = "Recovered"
	retry := env.svc.Summarize(ctx, req)
	require.True(t, retry.Success)
}

func TestSummarizeTimeout(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := &fakeClient{result: "too late", block: make(chan struct{})}
	defer close(client.block)

	env := newOrchestratorEnv(t, testSettings(false), client)
	req := requestFor("abc123", "general")

	result := env.svc.Summarize(ctx, req)
	require.False(t, result.Success)
	require.Equal(t, "Summarization timed out after 5 minutes", result.Error)
	require.False(t, env.registry.IsInProgress(req.VideoInfo.Key()))

	// Nothing was cached for the abandoned call.
	cached, err := env.cache.Get(ctx, "abc123", models.PlatformYouTube)
	require.NoError(t, err)
	require.Nil(t, cached)
}

func TestSummarizeNoAPIKey(t *testing.T) {
	t.Parallel()

	cfg := testSettings(false)
	cfg.GeminiAPIKey = ""
	env := newOrchestratorEnv(t, cfg, &fakeClient{result: "unused"})

	result := env.svc.Summarize(context.Background(), requestFor("abc123", "general"))
	require.False(t, result.Success)
	require.Equal(t, "No API key configured. Add your Gemini API key in settings.", result.Error)
	require.Zero(t, env.client.callCount())
}

func TestSummarizePromptNotFound(t *testing.T) {
	t.Parallel()

	env := newOrchestratorEnv(t, testSettings(false), &fakeClient{result: "unused"})

	result := env.svc.Summarize(context.Background(), requestFor("abc123", "no-such-prompt"))
	require.False(t, result.Success)
	require.Equal(t, "Selected prompt not found", result.Error)
	require.Zero(t, env.client.callCount())
}

func TestSummarizeUnsupportedPlatform(t *testing.T) {
	t.Parallel()

	env := newOrchestratorEnv(t, testSettings(false), &fakeClient{result: "unused"})
	req := requestFor("12345", "general")
	req.VideoInfo.Platform = models.PlatformVimeo

	result := env.svc.Summarize(context.Background(), req)
	require.False(t, result.Success)
	require.Equal(t, "This video platform is not supported.", result.Error)
	require.Zero(t, env.client.callCount())
	require.False(t, env.registry.IsInProgress(req.VideoInfo.Key()))
}

func TestSummarizeStreamingReturnsImmediatelyAndRelaysChunks(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newOrchestratorEnv(t, testSettings(true), &fakeClient{tokens: []string{"Sum", "mary", " text"}})
	req := requestFor("abc123", "general")

	result := env.svc.Summarize(ctx, req)
	require.True(t, result.Success)
	require.True(t, result.InProgress)
	require.Empty(t, result.Summary)

	require.Eventually(t, func() bool {
		chunks := env.relay.chunkSnapshot()
		return len(chunks) > 0 && chunks[len(chunks)-1].Done
	}, 2*time.Second, 5*time.Millisecond)

	chunks := env.relay.chunkSnapshot()
	require.Equal(t, models.StreamChunk{Chunk: "Sum"}, chunks[0])
	require.Equal(t, models.StreamChunk{Chunk: "mary"}, chunks[1])
	require.Equal(t, models.StreamChunk{Chunk: " text"}, chunks[2])
	require.Equal(t, models.StreamChunk{Done: true}, chunks[3])

	require.Eventually(t, func() bool {
		cached, err := env.cache.Get(ctx, "abc123", models.PlatformYouTube)
		return err == nil && cached != nil
	}, 2*time.Second, 5*time.Millisecond)

	cached, err := env.cache.Get(ctx, "abc123", models.PlatformYouTube)
	require.NoError(t, err)
	require.Equal(t, "Summary text", cached.Summary)
	require.False(t, env.registry.IsInProgress(req.VideoInfo.Key()))
	require.Empty(t, env.relay.resultSnapshot())
}

func TestSummarizeStreamingFailureBroadcastsResult(t *testing.T) {
	t.Parallel()

	env := newOrchestratorEnv(t, testSettings(true), &fakeClient{err: errors.New("connect ECONNREFUSED 127.0.0.1:443")})
	req := requestFor("abc123", "general")

	result := env.svc.Summarize(context.Background(), req)
	require.True(t, result.Success)
	require.True(t, result.InProgress)

	require.Eventually(t, func() bool {
		return len(env.relay.resultSnapshot()) == 1
	}, 2*time.Second, 5*time.Millisecond)

	broadcast := env.relay.resultSnapshot()[0]
	require.False(t, broadcast.Success)
	require.Equal(t, "Network error. Check your connection.", broadcast.Error)
	require.False(t, env.registry.IsInProgress(req.VideoInfo.Key()))
}

func TestSummarizeTranscript(t *testing.T) {
	t.Parallel()

	env := newOrchestratorEnv(t, testSettings(false), &fakeClient{result: "Transcript summary"})

	result := env.svc.SummarizeTranscript(context.Background(), "lots of spoken words", "general")
	require.True(t, result.Success)
	require.Equal(t, "Transcript summary", result.Summary)

	missing := env.svc.SummarizeTranscript(context.Background(), "words", "no-such-prompt")
	require.False(t, missing.Success)
	require.Equal(t, "Selected prompt not found", missing.Error)
}

func TestInProgressStatus(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := &fakeClient{result: "Summary text", block: make(chan struct{})}
	env := newOrchestratorEnv(t, testSettings(false), client)
	req := requestFor("abc123", "general")

	require.False(t, env.svc.InProgress("abc123", models.PlatformYouTube).InProgress)

	done := make(chan struct{})
	go func() {
		env.svc.Summarize(ctx, req)
		close(done)
	}()
	require.Eventually(t, func() bool {
		return env.svc.InProgress("abc123", models.PlatformYouTube).InProgress
	}, time.Second, time.Millisecond)

	status := env.svc.InProgress("abc123", models.PlatformYouTube)
	require.Equal(t, "general", status.PromptID)
	require.NotZero(t, status.StartTime)

	close(client.block)
	<-done
	require.False(t, env.svc.InProgress("abc123", models.PlatformYouTube).InProgress)
}
