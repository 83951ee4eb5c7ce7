package catalog

// CategoryAll is the sentinel category meaning "no category restriction".
// The backend and the demo data both use the Russian spelling.
const CategoryAll = "все"

// Prompt is a single catalog card. Copies and Favorites are mutable
// counters; everything else is stable for the lifetime of a session.
type Prompt struct {
	ID          int      `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	PromptText  string   `json:"promptText" yaml:"promptText"`
	Image       string   `json:"image" yaml:"image"`
	Category    string   `json:"category" yaml:"category"`
	Copies      int      `json:"copies" yaml:"copies"`
	Favorites   int      `json:"favorites" yaml:"favorites"`
	Tags        []string `json:"tags" yaml:"tags"`

	// IsFavorite carries the authoritative per-user flag from the
	// backend list endpoint. It is only meaningful right after a
	// remote load; the live source of truth is the favorites set.
	IsFavorite bool `json:"isFavorite" yaml:"isFavorite"`
}

// GenerationStats summarizes a user's generation history.
type GenerationStats struct {
	Total      int `json:"total" yaml:"total"`
	Success    int `json:"success" yaml:"success"`
	Unfinished int `json:"unfinished" yaml:"unfinished"`
	Canceled   int `json:"canceled" yaml:"canceled"`
}

// Profile is the per-user profile record. Read-only after load; the
// runtime profile and the demo profile are never merged.
type Profile struct {
	UserID        int64           `json:"userId" yaml:"userId"`
	RegisteredAt  string          `json:"registeredAt" yaml:"registeredAt"`
	TokenBalance  int             `json:"tokenBalance" yaml:"tokenBalance"`
	BonusBalance  int             `json:"bonusBalance" yaml:"bonusBalance"`
	EarnedBonuses int             `json:"earnedBonuses" yaml:"earnedBonuses"`
	Referrals     int             `json:"referrals" yaml:"referrals"`
	Generations   GenerationStats `json:"generations" yaml:"generations"`
	SuccessRate   int             `json:"successRate" yaml:"successRate"`
	RefCode       string          `json:"refCode" yaml:"refCode"`
	ReferralLink  string          `json:"referralLink" yaml:"referralLink"`
}
