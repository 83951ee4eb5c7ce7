package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promptdeck/internal/catalog"
	"promptdeck/internal/edge"
	"promptdeck/internal/store"
)

func TestToggleFavorite_OfflineTogglesAndPersists(t *testing.T) {
	ctx := context.Background()
	state := demoState()
	kv := openTestStore(t)
	svc := NewFavoriteService(state, &fakeEdge{session: false}, kv, testLogger())

	outcome, err := svc.ToggleFavorite(ctx, 2)
	require.NoError(t, err)
	assert.True(t, outcome.Added)
	assert.False(t, outcome.Remote)
	assert.True(t, state.IsFavorite(2))

	raw, ok, err := kv.Get(ctx, store.KeyFavorites)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `[2]`, raw)

	// A reload simulated by re-reading the store restores membership.
	fresh := demoState()
	NewCatalogService(fresh, &fakeEdge{}, kv, testLogger()).SeedFavorites(ctx)
	assert.True(t, fresh.IsFavorite(2))
}

func TestToggleFavorite_IsItsOwnInverse(t *testing.T) {
	ctx := context.Background()
	state := demoState()
	kv := openTestStore(t)
	svc := NewFavoriteService(state, &fakeEdge{}, kv, testLogger())

	first, err := svc.ToggleFavorite(ctx, 3)
	require.NoError(t, err)
	assert.True(t, first.Added)

	second, err := svc.ToggleFavorite(ctx, 3)
	require.NoError(t, err)
	assert.False(t, second.Added)
	assert.False(t, state.IsFavorite(3))

	raw, ok, err := kv.Get(ctx, store.KeyFavorites)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `[]`, raw)
}

func TestToggleFavorite_RemoteFlagIsAuthoritative(t *testing.T) {
	ctx := context.Background()
	state := demoState()
	kv := openTestStore(t)
	remote := &fakeEdge{
		session: true,
		favRes:  edge.FavoriteResult{IsFavorite: true, Favorites: intPtr(46), Copies: intPtr(325)},
	}
	svc := NewFavoriteService(state, remote, kv, testLogger())

	outcome, err := svc.ToggleFavorite(ctx, 1)
	require.NoError(t, err)
	assert.True(t, outcome.Added)
	assert.True(t, outcome.Remote)
	assert.True(t, state.IsFavorite(1))

	// Aggregate counters from the response overwrite the prompt's.
	assert.Equal(t, 46, state.Prompt(1).Favorites)
	assert.Equal(t, 325, state.Prompt(1).Copies)

	// The backend says "still favorite": membership must follow the flag,
	// not flip blindly.
	outcome, err = svc.ToggleFavorite(ctx, 1)
	require.NoError(t, err)
	assert.True(t, outcome.Added)
	assert.True(t, state.IsFavorite(1))

	raw, ok, err := kv.Get(ctx, store.KeyFavorites)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `[1]`, raw)
}

func TestToggleFavorite_RemoteCountersOptional(t *testing.T) {
	ctx := context.Background()
	state := demoState()
	remote := &fakeEdge{session: true, favRes: edge.FavoriteResult{IsFavorite: true}}
	svc := NewFavoriteService(state, remote, openTestStore(t), testLogger())

	_, err := svc.ToggleFavorite(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 45, state.Prompt(1).Favorites, "absent counters leave local values alone")
	assert.Equal(t, 324, state.Prompt(1).Copies)
}

func TestToggleFavorite_RemoteFailureFallsBackLocally(t *testing.T) {
	ctx := context.Background()
	state := demoState()
	kv := openTestStore(t)
	remote := &fakeEdge{session: true, favErr: errors.New("connection refused")}
	svc := NewFavoriteService(state, remote, kv, testLogger())

	outcome, err := svc.ToggleFavorite(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, remote.toggleCalls)
	assert.True(t, outcome.Added, "user-visible outcome matches a fully-offline toggle")
	assert.False(t, outcome.Remote)
	assert.True(t, state.IsFavorite(2))

	raw, ok, err := kv.Get(ctx, store.KeyFavorites)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `[2]`, raw)
}

func TestToggleFavorite_PersistFailureStillReportsOutcome(t *testing.T) {
	state := demoState()
	svc := NewFavoriteService(state, &fakeEdge{}, brokenKV{}, testLogger())

	outcome, err := svc.ToggleFavorite(context.Background(), 5)
	assert.Error(t, err)
	assert.True(t, outcome.Added)
	assert.True(t, state.IsFavorite(5))
}

func TestToggleFavorite_RecomputesVisibleList(t *testing.T) {
	ctx := context.Background()
	state := demoState()
	state.Filter.FavoritesOnly = true
	state.Recompute()
	require.Empty(t, state.Visible)

	svc := NewFavoriteService(state, &fakeEdge{}, openTestStore(t), testLogger())
	_, err := svc.ToggleFavorite(ctx, 4)
	require.NoError(t, err)

	require.Len(t, state.Visible, 1)
	assert.Equal(t, 4, state.Visible[0].ID)
}

func TestTrackCopy_RemoteSuccessOverwritesCounters(t *testing.T) {
	ctx := context.Background()
	state := demoState()
	remote := &fakeEdge{session: true, copyRes: edge.CopyResult{Copies: intPtr(500), Favorites: intPtr(60)}}
	svc := NewFavoriteService(state, remote, openTestStore(t), testLogger())

	require.NoError(t, svc.TrackCopy(ctx, 3))
	assert.Equal(t, 1, remote.copyCalls)
	assert.Equal(t, 500, state.Prompt(3).Copies)
	assert.Equal(t, 60, state.Prompt(3).Favorites)
}

func TestTrackCopy_FallbackIncrementsLocally(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		edge *fakeEdge
	}{
		{"no_session", &fakeEdge{session: false}},
		{"remote_failure", &fakeEdge{session: true, copyErr: errors.New("HTTP 500")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := demoState()
			before := state.Prompt(6).Copies
			svc := NewFavoriteService(state, tt.edge, openTestStore(t), testLogger())

			require.NoError(t, svc.TrackCopy(ctx, 6))
			assert.Equal(t, before+1, state.Prompt(6).Copies)
		})
	}
}

func TestTrackCopy_UnknownPrompt(t *testing.T) {
	svc := NewFavoriteService(demoState(), &fakeEdge{}, openTestStore(t), testLogger())

	err := svc.TrackCopy(context.Background(), 999)
	assert.ErrorIs(t, err, ErrPromptNotFound)
}

func TestToggleFavorite_NilStoreReportsOutcome(t *testing.T) {
	state := demoState()
	svc := NewFavoriteService(state, &fakeEdge{}, nil, testLogger())

	outcome, err := svc.ToggleFavorite(context.Background(), 2)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.True(t, outcome.Added, "membership still flips without a store")
	assert.True(t, state.IsFavorite(2))
}

func TestResolveToggle_LeavesStateUntouched(t *testing.T) {
	state := demoState()
	remote := &fakeEdge{session: true, favRes: edge.FavoriteResult{IsFavorite: true, Favorites: intPtr(99)}}
	svc := NewFavoriteService(state, remote, openTestStore(t), testLogger())

	// Resolution runs on a worker goroutine while the owning thread keeps
	// recomputing the view; only the apply phase may touch the state.
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			svc.ResolveToggle(context.Background(), 1)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			state.Recompute()
		}
	}()
	wg.Wait()

	assert.False(t, state.IsFavorite(1))
	assert.Equal(t, 45, state.Prompt(1).Favorites)
}

func TestApplyToggle_InstallsResolution(t *testing.T) {
	tests := []struct {
		name      string
		res       ToggleResolution
		wantAdded bool
		wantFavs  int
	}{
		{"remote_added", ToggleResolution{PromptID: 1, Remote: true, IsFavorite: true, Favorites: intPtr(46)}, true, 46},
		{"remote_not_favorite", ToggleResolution{PromptID: 1, Remote: true}, false, 45},
		{"local_flip", ToggleResolution{PromptID: 1}, true, 45},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := demoState()
			svc := NewFavoriteService(state, &fakeEdge{}, openTestStore(t), testLogger())

			outcome, err := svc.ApplyToggle(context.Background(), tt.res)
			require.NoError(t, err)
			assert.Equal(t, tt.wantAdded, outcome.Added)
			assert.Equal(t, tt.res.Remote, outcome.Remote)
			assert.Equal(t, tt.wantAdded, state.IsFavorite(1))
			assert.Equal(t, tt.wantFavs, state.Prompt(1).Favorites)
		})
	}
}

func TestResolveCopy_CountersChangeOnlyOnApply(t *testing.T) {
	ctx := context.Background()
	state := demoState()
	remote := &fakeEdge{session: true, copyRes: edge.CopyResult{Copies: intPtr(777)}}
	svc := NewFavoriteService(state, remote, openTestStore(t), testLogger())

	res := svc.ResolveCopy(ctx, 2)
	assert.True(t, res.Remote)
	assert.Equal(t, 289, state.Prompt(2).Copies)

	require.NoError(t, svc.ApplyCopy(ctx, res))
	assert.Equal(t, 777, state.Prompt(2).Copies)
}

func TestApplyCopy_UnknownPrompt(t *testing.T) {
	svc := NewFavoriteService(demoState(), &fakeEdge{}, openTestStore(t), testLogger())

	err := svc.ApplyCopy(context.Background(), CopyResolution{PromptID: 999})
	assert.ErrorIs(t, err, ErrPromptNotFound)
}

func TestTrackCopy_RecomputesSortOrder(t *testing.T) {
	ctx := context.Background()
	state := demoState()
	state.Filter.Sort = catalog.SortMostCopied
	state.Recompute()
	require.Equal(t, 4, state.Visible[0].ID)

	remote := &fakeEdge{session: true, copyRes: edge.CopyResult{Copies: intPtr(9999)}}
	svc := NewFavoriteService(state, remote, openTestStore(t), testLogger())
	require.NoError(t, svc.TrackCopy(ctx, 6))

	assert.Equal(t, 6, state.Visible[0].ID, "counter updates feed the copies sort")
}
