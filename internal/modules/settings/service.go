package settings

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/vidsum/core/internal/models"
	"github.com/vidsum/core/internal/pkg/kv"
)

const storeKey = "settings"

// Service manages the persisted user settings record. Reads are served
// from a cached copy; writes persist to the sync partition and then
// notify subscribers. Last writer wins.
type Service struct {
	store kv.Store

	mu     sync.RWMutex
	cached *models.Settings

	subMu       sync.Mutex
	subscribers []func(models.Settings)
}

func NewService(store kv.Store) *Service {
	return &Service{store: store}
}

// Get returns the current settings, loading from the store on first use.
// Missing keys default to the hardcoded first-run values.
func (s *Service) Get(ctx context.Context) (models.Settings, error) {
	s.mu.RLock()
	if s.cached != nil {
		defer s.mu.RUnlock()
		return *s.cached, nil
	}
	s.mu.RUnlock()

	return s.load(ctx)
}

func (s *Service) load(ctx context.Context) (models.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil {
		return *s.cached, nil
	}

	settings := models.DefaultSettings()
	raw, ok, err := s.store.Get(ctx, storeKey)
	if err != nil {
		return models.Settings{}, err
	}
	if ok {
		if err := json.Unmarshal([]byte(raw), &settings); err != nil {
			return models.Settings{}, err
		}
	}
	normalize(&settings)
	s.cached = &settings

	if !ok {
		// seed the partition so first run is observable on disk
		if data, err := json.Marshal(settings); err == nil {
			_ = s.store.Set(ctx, storeKey, string(data))
		}
	}
	return settings, nil
}

// Patch merges the given partial JSON update into the current settings,
// persists, and notifies subscribers. Unknown keys are ignored.
func (s *Service) Patch(ctx context.Context, partial map[string]json.RawMessage) (models.Settings, error) {
	current, err := s.Get(ctx)
	if err != nil {
		return models.Settings{}, err
	}

	currentJSON, err := json.Marshal(current)
	if err != nil {
		return models.Settings{}, err
	}
	merged := map[string]json.RawMessage{}
	if err := json.Unmarshal(currentJSON, &merged); err != nil {
		return models.Settings{}, err
	}
	for k, v := range partial {
		if len(strings.TrimSpace(string(v))) == 0 {
			continue
		}
		merged[k] = v
	}

	mergedJSON, err := json.Marshal(merged)
	if err != nil {
		return models.Settings{}, err
	}
	updated := models.DefaultSettings()
	if err := json.Unmarshal(mergedJSON, &updated); err != nil {
		return models.Settings{}, err
	}

	return s.save(ctx, updated)
}

// Reset restores the hardcoded defaults.
func (s *Service) Reset(ctx context.Context) (models.Settings, error) {
	return s.save(ctx, models.DefaultSettings())
}

func (s *Service) save(ctx context.Context, settings models.Settings) (models.Settings, error) {
	normalize(&settings)

	data, err := json.Marshal(settings)
	if err != nil {
		return models.Settings{}, err
	}
	if err := s.store.Set(ctx, storeKey, string(data)); err != nil {
		return models.Settings{}, err
	}

	s.mu.Lock()
	s.cached = &settings
	s.mu.Unlock()

	s.notify(settings)
	return settings, nil
}

// OnChange registers a callback invoked after every successful save.
// Used to invalidate credential-derived singletons (the upstream client).
func (s *Service) OnChange(fn func(models.Settings)) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *Service) notify(settings models.Settings) {
	s.subMu.Lock()
	subs := make([]func(models.Settings), len(s.subscribers))
	copy(subs, s.subscribers)
	s.subMu.Unlock()

	for _, fn := range subs {
		fn(settings)
	}
}

func normalize(settings *models.Settings) {
	if strings.TrimSpace(settings.Model) == "" {
		settings.Model = models.DefaultModel
	}
	if strings.TrimSpace(settings.DefaultPromptID) == "" {
		settings.DefaultPromptID = models.DefaultPromptID
	}
	if settings.SummarizationTimeoutMinute == 0 {
		settings.SummarizationTimeoutMinute = models.DefaultTimeoutMinutes
	}
	settings.ClampTimeout()
	switch settings.Theme {
	case "light", "dark", "system":
	default:
		settings.Theme = "system"
	}
}
