package services

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"promptdeck/internal/catalog"
	"promptdeck/internal/edge"
	"promptdeck/internal/store"
)

// FavoriteServiceImpl implements FavoriteService: remote-first with an
// explicit local fallback. After every mutation the persistent store holds
// exactly the in-memory favorites set.
//
// Each operation is split into a resolve phase (the remote round trip, no
// state access) and an apply phase (the state mutation). Callers that do
// not own the state run the resolve phase on a worker goroutine and the
// apply phase on the thread that owns the state; the combined methods
// serve callers that own it outright.
type FavoriteServiceImpl struct {
	state  *catalog.State
	edge   EdgeAPI
	store  KVStore
	logger *zap.SugaredLogger
}

// NewFavoriteService creates a new favorite service operating on the given
// state.
func NewFavoriteService(state *catalog.State, edgeAPI EdgeAPI, kv KVStore, logger *zap.SugaredLogger) *FavoriteServiceImpl {
	return &FavoriteServiceImpl{
		state:  state,
		edge:   edgeAPI,
		store:  kv,
		logger: logger,
	}
}

// ResolveToggle performs the remote half of a favorite toggle. With a
// session context the backend is asked first and its flag is authoritative;
// any remote failure (logged, never silent) yields a local resolution. No
// state is read or written here.
func (s *FavoriteServiceImpl) ResolveToggle(ctx context.Context, promptID int) ToggleResolution {
	res := ToggleResolution{PromptID: promptID}
	if s.edge == nil || !s.edge.HasSession() {
		return res
	}
	r, err := s.edge.ToggleFavorite(ctx, promptID)
	if err != nil {
		s.logger.Warnw("remote favorite toggle failed, falling back to local",
			"promptId", promptID, "error", err)
		return res
	}
	res.Remote = true
	res.IsFavorite = r.IsFavorite
	res.Favorites = r.Favorites
	res.Copies = r.Copies
	return res
}

// ApplyToggle installs a toggle resolution into the state and persists the
// favorites set. The returned outcome always describes the final
// membership, even when persisting failed.
func (s *FavoriteServiceImpl) ApplyToggle(ctx context.Context, res ToggleResolution) (ToggleOutcome, error) {
	if s.state == nil {
		return ToggleOutcome{}, fmt.Errorf("state not available")
	}

	var added bool
	if res.Remote {
		s.state.SetFavorite(res.PromptID, res.IsFavorite)
		s.applyCounters(res.PromptID, res.Favorites, res.Copies)
		added = res.IsFavorite
	} else {
		added = s.state.ToggleLocal(res.PromptID)
	}
	persistErr := s.persistFavorites(ctx)
	s.state.Recompute()
	return ToggleOutcome{Added: added, Remote: res.Remote}, persistErr
}

// ToggleFavorite flips the favorite status of a prompt: resolve then apply
// on the calling goroutine, for callers that own the state.
func (s *FavoriteServiceImpl) ToggleFavorite(ctx context.Context, promptID int) (ToggleOutcome, error) {
	if s.state == nil {
		return ToggleOutcome{}, fmt.Errorf("state not available")
	}
	return s.ApplyToggle(ctx, s.ResolveToggle(ctx, promptID))
}

// ResolveCopy performs the remote half of copy tracking. A failed or
// sessionless round trip resolves to the local fallback. No state access.
func (s *FavoriteServiceImpl) ResolveCopy(ctx context.Context, promptID int) CopyResolution {
	res := CopyResolution{PromptID: promptID}
	if s.edge == nil || !s.edge.HasSession() {
		return res
	}
	r, err := s.edge.TrackCopy(ctx, promptID)
	if err != nil {
		s.logger.Warnw("remote copy tracking failed, incrementing locally",
			"promptId", promptID, "error", err)
		return res
	}
	res.Remote = true
	res.Favorites = r.Favorites
	res.Copies = r.Copies
	return res
}

// ApplyCopy installs a copy resolution: remote counters overwrite local
// ones, otherwise the local copies counter is incremented by one. Either
// way the visible list is recomputed, since counters feed the default and
// copies sort orders.
func (s *FavoriteServiceImpl) ApplyCopy(ctx context.Context, res CopyResolution) error {
	if s.state == nil {
		return fmt.Errorf("state not available")
	}
	p := s.state.Prompt(res.PromptID)
	if p == nil {
		return fmt.Errorf("%w: %d", ErrPromptNotFound, res.PromptID)
	}

	if res.Remote {
		s.applyCounters(res.PromptID, res.Favorites, res.Copies)
	} else {
		p.Copies++
	}
	s.state.Recompute()
	return nil
}

// TrackCopy records a copy of a prompt: resolve then apply on the calling
// goroutine. Unknown prompts are rejected before the remote round trip.
func (s *FavoriteServiceImpl) TrackCopy(ctx context.Context, promptID int) error {
	if s.state == nil {
		return fmt.Errorf("state not available")
	}
	if s.state.Prompt(promptID) == nil {
		return fmt.Errorf("%w: %d", ErrPromptNotFound, promptID)
	}
	return s.ApplyCopy(ctx, s.ResolveCopy(ctx, promptID))
}

func (s *FavoriteServiceImpl) applyCounters(promptID int, favorites, copies *int) {
	p := s.state.Prompt(promptID)
	if p == nil {
		return
	}
	if favorites != nil {
		p.Favorites = *favorites
	}
	if copies != nil {
		p.Copies = *copies
	}
}

func (s *FavoriteServiceImpl) persistFavorites(ctx context.Context) error {
	if s.store == nil {
		return ErrStoreUnavailable
	}
	data, err := json.Marshal(s.state.FavoriteIDs())
	if err != nil {
		return fmt.Errorf("marshal favorites: %w", err)
	}
	if err := s.store.Set(ctx, store.KeyFavorites, string(data)); err != nil {
		s.logger.Errorw("failed to persist favorites", "error", err)
		return fmt.Errorf("persist favorites: %w", err)
	}
	return nil
}

var _ EdgeAPI = (*edge.Client)(nil)
