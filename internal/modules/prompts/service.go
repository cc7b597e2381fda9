package prompts

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/vidsum/core/internal/models"
	"github.com/vidsum/core/internal/pkg/kv"
)

const storeKey = "prompts"

var (
	ErrNotFound       = errors.New("prompt not found")
	ErrBuiltInDelete  = errors.New("built-in prompts cannot be deleted")
	ErrDuplicateID    = errors.New("prompt id already exists")
	ErrNameRequired   = errors.New("prompt name is required")
	ErrPromptRequired = errors.New("prompt text is required")
)

// Service manages prompt templates in the sync partition. The whole list
// is stored as one JSON array, mirroring its small fixed-capacity home.
type Service struct {
	store kv.Store
	mu    sync.Mutex
}

func NewService(store kv.Store) *Service {
	return &Service{store: store}
}

// GetAll returns every template, seeding the built-ins at first access.
func (s *Service) GetAll(ctx context.Context) ([]models.PromptTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

// GetByID returns the template with the given id, or ErrNotFound.
func (s *Service) GetByID(ctx context.Context, id string) (*models.PromptTemplate, error) {
	list, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].ID == id {
			return &list[i], nil
		}
	}
	return nil, ErrNotFound
}

// GetForCategory returns the first template mapping the given platform
// category id, or nil when none does.
func (s *Service) GetForCategory(ctx context.Context, categoryID string) (*models.PromptTemplate, error) {
	list, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].MapsCategory(categoryID) {
			return &list[i], nil
		}
	}
	return nil, nil
}

// Add appends a user template. A missing id gets a generated UUID;
// user templates are never built-in regardless of what the caller sent.
func (s *Service) Add(ctx context.Context, tpl models.PromptTemplate) (models.PromptTemplate, error) {
	if strings.TrimSpace(tpl.Name) == "" {
		return models.PromptTemplate{}, ErrNameRequired
	}
	if strings.TrimSpace(tpl.Prompt) == "" {
		return models.PromptTemplate{}, ErrPromptRequired
	}
	if strings.TrimSpace(tpl.ID) == "" {
		tpl.ID = uuid.New().String()
	}
	tpl.IsBuiltIn = false
	if tpl.MappedCategories == nil {
		tpl.MappedCategories = []string{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.loadLocked(ctx)
	if err != nil {
		return models.PromptTemplate{}, err
	}
	for _, existing := range list {
		if existing.ID == tpl.ID {
			return models.PromptTemplate{}, ErrDuplicateID
		}
	}
	list = append(list, tpl)
	if err := s.saveLocked(ctx, list); err != nil {
		return models.PromptTemplate{}, err
	}
	return tpl, nil
}

// Update mutates an existing template in place. The built-in flag and id
// are immutable.
func (s *Service) Update(ctx context.Context, id string, name, prompt *string, mappedCategories []string) (models.PromptTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.loadLocked(ctx)
	if err != nil {
		return models.PromptTemplate{}, err
	}
	for i := range list {
		if list[i].ID != id {
			continue
		}
		if name != nil && strings.TrimSpace(*name) != "" {
			list[i].Name = *name
		}
		if prompt != nil && strings.TrimSpace(*prompt) != "" {
			list[i].Prompt = *prompt
		}
		if mappedCategories != nil {
			list[i].MappedCategories = mappedCategories
		}
		if err := s.saveLocked(ctx, list); err != nil {
			return models.PromptTemplate{}, err
		}
		return list[i], nil
	}
	return models.PromptTemplate{}, ErrNotFound
}

// Delete removes a user template. Built-ins are protected.
func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.loadLocked(ctx)
	if err != nil {
		return err
	}
	filtered := make([]models.PromptTemplate, 0, len(list))
	found := false
	for _, tpl := range list {
		if tpl.ID == id {
			found = true
			if tpl.IsBuiltIn {
				return ErrBuiltInDelete
			}
			continue
		}
		filtered = append(filtered, tpl)
	}
	if !found {
		return ErrNotFound
	}
	return s.saveLocked(ctx, filtered)
}

// loadLocked reads the template list, writing the built-in seed on first
// access. Caller holds s.mu.
func (s *Service) loadLocked(ctx context.Context) ([]models.PromptTemplate, error) {
	raw, ok, err := s.store.Get(ctx, storeKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		list := builtInPrompts()
		if err := s.saveLocked(ctx, list); err != nil {
			return nil, err
		}
		return list, nil
	}

	var list []models.PromptTemplate
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *Service) saveLocked(ctx context.Context, list []models.PromptTemplate) error {
	data, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, storeKey, string(data))
}
