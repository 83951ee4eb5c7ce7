package services

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"promptdeck/internal/catalog"
	"promptdeck/internal/store"
)

// CatalogServiceImpl implements CatalogService. Loading fails open: the
// demo catalog is the baseline, and only a non-absent, non-empty remote
// result replaces it. FetchCatalog does the slow work (store read, remote
// round trip) with no state access; ApplyCatalog installs the result on
// the thread that owns the state.
type CatalogServiceImpl struct {
	state  *catalog.State
	edge   EdgeAPI
	store  KVStore
	logger *zap.SugaredLogger
}

// NewCatalogService creates a new catalog service operating on the given
// state.
func NewCatalogService(state *catalog.State, edgeAPI EdgeAPI, kv KVStore, logger *zap.SugaredLogger) *CatalogServiceImpl {
	return &CatalogServiceImpl{
		state:  state,
		edge:   edgeAPI,
		store:  kv,
		logger: logger,
	}
}

// SeedFavorites restores the favorites set from the persistent store.
// Called at startup before any remote load; a remote catalog load
// afterwards overwrites the set with the backend's authoritative flags.
// A missing or corrupt entry leaves the set empty.
func (s *CatalogServiceImpl) SeedFavorites(ctx context.Context) {
	ids := s.readStoredFavorites(ctx)
	if ids == nil {
		return
	}
	s.state.SetFavorites(ids)
	s.state.Recompute()
}

// FetchCatalog gathers a catalog load: the persisted favorites and, with a
// session context, the remote prompt list. Demo data is the baseline; any
// remote failure or an empty remote list keeps it. No state access.
func (s *CatalogServiceImpl) FetchCatalog(ctx context.Context) CatalogLoad {
	load := CatalogLoad{
		StoredFavorites: s.readStoredFavorites(ctx),
		Prompts:         catalog.DemoPrompts(),
	}

	if s.edge != nil && s.edge.HasSession() {
		remote, err := s.edge.FetchPrompts(ctx)
		switch {
		case err != nil:
			s.logger.Warnw("prompts from edge failed, using demo", "error", err)
		case len(remote) == 0:
			s.logger.Debugw("edge returned empty prompt list, keeping demo")
		default:
			load.Prompts = remote
			load.Remote = true
		}
	}
	return load
}

// ApplyCatalog installs a fetched load into the state. Stored favorites
// seed the set first; a remote catalog then re-derives it from the
// authoritative per-prompt flags and persists the result. The loading flag
// is cleared unconditionally.
func (s *CatalogServiceImpl) ApplyCatalog(ctx context.Context, load CatalogLoad) {
	defer func() { s.state.Loading = false }()

	if load.StoredFavorites != nil {
		s.state.SetFavorites(load.StoredFavorites)
	}
	if load.Remote {
		s.syncFavoritesFromPrompts(ctx, load.Prompts)
	}
	s.state.SetPrompts(load.Prompts)
}

// LoadCatalog populates the prompt set: fetch then apply on the calling
// goroutine, for callers that own the state.
func (s *CatalogServiceImpl) LoadCatalog(ctx context.Context) {
	s.state.Loading = true
	s.ApplyCatalog(ctx, s.FetchCatalog(ctx))
}

// readStoredFavorites returns the persisted favorites id list, or nil when
// the store is unavailable, the entry is absent, or it is corrupt.
func (s *CatalogServiceImpl) readStoredFavorites(ctx context.Context) []int {
	if s.store == nil {
		return nil
	}
	raw, ok, err := s.store.Get(ctx, store.KeyFavorites)
	if err != nil {
		s.logger.Warnw("failed to read stored favorites", "error", err)
		return nil
	}
	if !ok {
		return nil
	}
	var ids []int
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		s.logger.Warnw("stored favorites entry is corrupt, ignoring", "error", err)
		return nil
	}
	return ids
}

// syncFavoritesFromPrompts derives the favorites set from the remote
// isFavorite flags and persists it, discarding any locally stored set.
func (s *CatalogServiceImpl) syncFavoritesFromPrompts(ctx context.Context, prompts []*catalog.Prompt) {
	ids := make([]int, 0)
	for _, p := range prompts {
		if p.IsFavorite {
			ids = append(ids, p.ID)
		}
	}
	s.state.SetFavorites(ids)

	if s.store == nil {
		return
	}
	data, err := json.Marshal(s.state.FavoriteIDs())
	if err != nil {
		return
	}
	if err := s.store.Set(ctx, store.KeyFavorites, string(data)); err != nil {
		s.logger.Errorw("failed to persist favorites derived from remote catalog", "error", err)
	}
}
