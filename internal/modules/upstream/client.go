// Package upstream wraps the hosted generative-AI services that produce
// summaries. The orchestrator treats it as a black box: a blocking call,
// a streaming call feeding an onToken callback, and a connectivity probe.
// Raw failures bubble up as free-text errors for the classifier.
package upstream

import (
	"context"
	"strings"
	"sync"

	"github.com/vidsum/core/internal/models"
)

// Client is one configured generation backend.
type Client interface {
	// SummarizeVideo runs a single blocking generation over the video URL.
	SummarizeVideo(ctx context.Context, video models.VideoReference, prompt string) (string, error)
	// SummarizeVideoStream streams the generation, invoking onToken for
	// each text fragment, and returns the accumulated full text.
	SummarizeVideoStream(ctx context.Context, video models.VideoReference, prompt string, onToken func(string)) (string, error)
	// SummarizeTranscript summarizes pasted transcript text instead of a
	// video reference. Available on every provider.
	SummarizeTranscript(ctx context.Context, transcript, prompt string) (string, error)
	// TestConnection probes the credential with a minimal generation.
	TestConnection(ctx context.Context) bool
}

// Factory builds and caches the Client for the current settings. The
// cached instance is invalidated whenever settings change, so a new key
// or model takes effect on the next request.
type Factory struct {
	mu     sync.Mutex
	client Client
	apiKey string
	model  string
}

func NewFactory() *Factory {
	return &Factory{}
}

// ClientFor returns a Client for the given credentials, reusing the
// cached instance when key and model are unchanged.
func (f *Factory) ClientFor(apiKey, model string) (Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.client != nil && f.apiKey == apiKey && f.model == model {
		return f.client, nil
	}

	client, err := newClient(apiKey, model)
	if err != nil {
		return nil, err
	}
	f.client = client
	f.apiKey = apiKey
	f.model = model
	return client, nil
}

// Reset drops the cached client. Wired to the settings change
// notification.
func (f *Factory) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.client = nil
	f.apiKey = ""
	f.model = ""
}

// New builds a one-off client outside the factory cache, e.g. for
// credential probes.
func New(apiKey, model string) (Client, error) {
	return newClient(apiKey, model)
}

// newClient selects the backend by model id. Gemini models speak the
// video-capable REST API; gpt-*/claude-* models run transcript-mode
// through their native SDKs.
func newClient(apiKey, model string) (Client, error) {
	switch {
	case strings.HasPrefix(model, "gpt-"), strings.HasPrefix(model, "o1"), strings.HasPrefix(model, "claude-"):
		return newSDKClient(apiKey, model)
	default:
		return newGeminiClient(apiKey, model)
	}
}
