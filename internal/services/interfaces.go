package services

import (
	"context"

	"promptdeck/internal/catalog"
	"promptdeck/internal/edge"
)

// EdgeAPI is the remote catalog service: four request/response operations
// authenticated by the session context. Implemented by *edge.Client.
type EdgeAPI interface {
	HasSession() bool
	FetchProfile(ctx context.Context) (catalog.Profile, error)
	FetchPrompts(ctx context.Context) ([]*catalog.Prompt, error)
	ToggleFavorite(ctx context.Context, promptID int) (edge.FavoriteResult, error)
	TrackCopy(ctx context.Context, promptID int) (edge.CopyResult, error)
}

// KVStore is the persistent string store consumed by the services.
// Implemented by *store.Store.
type KVStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// CatalogService loads the prompt catalog: demo baseline, remote
// replacement when a session exists. Fetch gathers everything slow with no
// state access; Apply installs a fetched load on the thread that owns the
// state. SeedFavorites and LoadCatalog combine the phases for callers that
// own the state outright.
type CatalogService interface {
	SeedFavorites(ctx context.Context)
	LoadCatalog(ctx context.Context)
	FetchCatalog(ctx context.Context) CatalogLoad
	ApplyCatalog(ctx context.Context, load CatalogLoad)
}

// FavoriteService reconciles favorite toggles and copy tracking between
// the remote service and the persistent store. The Resolve methods run the
// remote round trip with no state access; the Apply methods mutate the
// state and must run on the thread that owns it. ToggleFavorite and
// TrackCopy combine the phases for callers that own the state.
type FavoriteService interface {
	ResolveToggle(ctx context.Context, promptID int) ToggleResolution
	ApplyToggle(ctx context.Context, res ToggleResolution) (ToggleOutcome, error)
	ToggleFavorite(ctx context.Context, promptID int) (ToggleOutcome, error)
	ResolveCopy(ctx context.Context, promptID int) CopyResolution
	ApplyCopy(ctx context.Context, res CopyResolution) error
	TrackCopy(ctx context.Context, promptID int) error
}

// ProfileService loads the runtime profile and derives display values.
type ProfileService interface {
	LoadProfile(ctx context.Context)
	ProfileOrDemo() catalog.Profile
	ReferralLink(p catalog.Profile) string
}

// ToggleOutcome reports what a favorite toggle did, for the user-facing
// notification. Added reflects the final membership; Remote reports whether
// the backend served the toggle or the local fallback did.
type ToggleOutcome struct {
	Added  bool
	Remote bool
}

// ToggleResolution is the outcome of the remote half of a favorite toggle.
// When Remote is false the toggle resolves to the local fallback. The
// counters are optional and overwrite local values only when present.
type ToggleResolution struct {
	PromptID   int
	Remote     bool
	IsFavorite bool
	Favorites  *int
	Copies     *int
}

// CopyResolution is the outcome of the remote half of copy tracking. When
// Remote is false the local copies counter is incremented instead.
type CopyResolution struct {
	PromptID  int
	Remote    bool
	Favorites *int
	Copies    *int
}

// CatalogLoad is everything a catalog load gathered off the owning thread:
// the persisted favorites (nil when absent or corrupt), the prompt list to
// install, and whether it came from the backend, which makes its per-prompt
// favorite flags authoritative.
type CatalogLoad struct {
	StoredFavorites []int
	Prompts         []*catalog.Prompt
	Remote          bool
}
