package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"reservas/internal/catalog/repository"
	"reservas/pkg/config"
	apperrors "reservas/pkg/errors"
	"reservas/pkg/logger"
	"reservas/pkg/model"
	"reservas/pkg/sanitizer"
)

// CatalogService exposes the reference data reservations hang off of:
// bookable spaces and the reservation state catalog. State lookups are
// cached because every approval resolves the same handful of names.
type CatalogService interface {
	CreateSpace(ctx context.Context, space *model.Space) (*model.Space, error)
	GetSpace(ctx context.Context, id string) (*model.Space, error)
	ListSpaces(ctx context.Context, limit int, offset int64) ([]*model.Space, int64, error)
	ListStates(ctx context.Context) ([]*model.ReservationState, error)
	StateByID(ctx context.Context, id string) (*model.ReservationState, error)
	StateByName(ctx context.Context, name string) (*model.ReservationState, error)
}

type cachedState struct {
	state     *model.ReservationState
	expiresAt time.Time
}

type catalogService struct {
	spaceRepo repository.SpaceRepository
	stateRepo repository.StateRepository
	logger    *logger.Logger
	cacheTTL  time.Duration

	mu      sync.RWMutex
	byID    map[string]cachedState
	byName  map[string]cachedState
}

func NewCatalogService(cfg *config.Config, spaceRepo repository.SpaceRepository, stateRepo repository.StateRepository) CatalogService {
	return &catalogService{
		spaceRepo: spaceRepo,
		stateRepo: stateRepo,
		logger:    cfg.Log,
		cacheTTL:  cfg.StateCacheTTL,
		byID:      make(map[string]cachedState),
		byName:    make(map[string]cachedState),
	}
}

func (s *catalogService) CreateSpace(ctx context.Context, space *model.Space) (*model.Space, error) {
	space.Name = sanitizer.SanitizeTitle(space.Name)
	space.Description = sanitizer.SanitizeText(space.Description)
	space.Code = sanitizer.SanitizeCode(space.Code)

	if space.Status == "" {
		space.Status = model.SpaceStatusActive
	}

	if err := s.spaceRepo.Create(ctx, space); err != nil {
		s.logger.Error("Failed to create space", "code", space.Code, "error", err)
		return nil, apperrors.Internal("failed to create space", err)
	}

	s.logger.Info("Space created", "space_id", space.ID, "code", space.Code)
	return space, nil
}

func (s *catalogService) GetSpace(ctx context.Context, id string) (*model.Space, error) {
	space, err := s.spaceRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSpaceNotFound) {
			return nil, apperrors.NotFoundWithID("space", id)
		}
		return nil, apperrors.Internal("failed to get space", err)
	}
	return space, nil
}

func (s *catalogService) ListSpaces(ctx context.Context, limit int, offset int64) ([]*model.Space, int64, error) {
	spaces, err := s.spaceRepo.FindAll(ctx, limit, offset)
	if err != nil {
		return nil, 0, apperrors.Internal("failed to list spaces", err)
	}

	total, err := s.spaceRepo.Count(ctx)
	if err != nil {
		return nil, 0, apperrors.Internal("failed to count spaces", err)
	}

	return spaces, total, nil
}

func (s *catalogService) ListStates(ctx context.Context) ([]*model.ReservationState, error) {
	states, err := s.stateRepo.FindAll(ctx)
	if err != nil {
		return nil, apperrors.Internal("failed to list reservation states", err)
	}
	return states, nil
}

func (s *catalogService) StateByID(ctx context.Context, id string) (*model.ReservationState, error) {
	if state, ok := s.cacheGet(s.byID, id); ok {
		return state, nil
	}

	state, err := s.stateRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrStateNotFound) {
			return nil, apperrors.NotFoundWithID("reservation state", id)
		}
		return nil, apperrors.Internal("failed to get reservation state", err)
	}

	s.cachePut(state)
	return state, nil
}

func (s *catalogService) StateByName(ctx context.Context, name string) (*model.ReservationState, error) {
	if state, ok := s.cacheGet(s.byName, name); ok {
		return state, nil
	}

	state, err := s.stateRepo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrStateNotFound) {
			return nil, apperrors.NotFound("reservation state " + name)
		}
		return nil, apperrors.Internal("failed to get reservation state", err)
	}

	s.cachePut(state)
	return state, nil
}

func (s *catalogService) cacheGet(m map[string]cachedState, key string) (*model.ReservationState, bool) {
	if s.cacheTTL == 0 {
		return nil, false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := m[key]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.state, true
}

func (s *catalogService) cachePut(state *model.ReservationState) {
	if s.cacheTTL == 0 {
		return
	}

	entry := cachedState{state: state, expiresAt: time.Now().Add(s.cacheTTL)}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[state.ID] = entry
	s.byName[state.Name] = entry
}
