package services

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"promptdeck/internal/catalog"
	"promptdeck/internal/edge"
	"promptdeck/internal/store"
)

// fakeEdge is a scriptable EdgeAPI for service tests.
type fakeEdge struct {
	session bool

	prompts    []*catalog.Prompt
	promptsErr error

	profile    catalog.Profile
	profileErr error

	favRes edge.FavoriteResult
	favErr error

	copyRes edge.CopyResult
	copyErr error

	toggleCalls int
	copyCalls   int
}

func (f *fakeEdge) HasSession() bool { return f.session }

func (f *fakeEdge) FetchProfile(ctx context.Context) (catalog.Profile, error) {
	return f.profile, f.profileErr
}

func (f *fakeEdge) FetchPrompts(ctx context.Context) ([]*catalog.Prompt, error) {
	return f.prompts, f.promptsErr
}

func (f *fakeEdge) ToggleFavorite(ctx context.Context, promptID int) (edge.FavoriteResult, error) {
	f.toggleCalls++
	return f.favRes, f.favErr
}

func (f *fakeEdge) TrackCopy(ctx context.Context, promptID int) (edge.CopyResult, error) {
	f.copyCalls++
	return f.copyRes, f.copyErr
}

// brokenKV fails every operation, for persist-failure paths.
type brokenKV struct{}

func (brokenKV) Get(ctx context.Context, key string) (string, bool, error) {
	return "", false, fmt.Errorf("kv broken")
}

func (brokenKV) Set(ctx context.Context, key, value string) error {
	return fmt.Errorf("kv broken")
}

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "promptdeck.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

func demoState() *catalog.State {
	s := catalog.NewState()
	s.SetPrompts(catalog.DemoPrompts())
	return s
}

func intPtr(n int) *int { return &n }
