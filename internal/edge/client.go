// Package edge talks to the catalog's Supabase edge functions. Every call
// POSTs a JSON body carrying the Telegram init data (the session context)
// and authenticates with the public anon key. Callers treat any returned
// error uniformly as "remote operation failed" and fall back locally; the
// client itself never retries.
package edge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"promptdeck/internal/catalog"
)

// ErrNoSession is returned when no init data is configured: the app runs
// outside the Telegram host and must stay fully offline.
var ErrNoSession = errors.New("no session context")

// Client calls the four edge functions.
type Client struct {
	profileURL  string
	promptsURL  string
	favoriteURL string
	copyURL     string
	anonKey     string
	initData    string
	httpClient  *http.Client
}

// Options configures a Client. Endpoint URLs must be absolute.
type Options struct {
	ProfileURL  string
	PromptsURL  string
	FavoriteURL string
	CopyURL     string
	AnonKey     string
	InitData    string
	Timeout     time.Duration
}

// NewClient creates an edge client. A zero timeout defaults to 30s.
func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		profileURL:  opts.ProfileURL,
		promptsURL:  opts.PromptsURL,
		favoriteURL: opts.FavoriteURL,
		copyURL:     opts.CopyURL,
		anonKey:     opts.AnonKey,
		initData:    opts.InitData,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

// HasSession reports whether a session context is configured. Its absence
// is the sole signal to operate in demo mode.
func (c *Client) HasSession() bool {
	return c != nil && strings.TrimSpace(c.initData) != ""
}

// FavoriteResult is the decoded toggle-favorite response. The IsFavorite
// flag is authoritative; the counters are optional and overwrite the local
// prompt counters only when present.
type FavoriteResult struct {
	IsFavorite bool
	Favorites  *int
	Copies     *int
}

// CopyResult is the decoded record-copy response. Both counters are
// optional.
type CopyResult struct {
	Copies    *int
	Favorites *int
}

// FetchProfile retrieves and normalizes the user profile.
func (c *Client) FetchProfile(ctx context.Context) (catalog.Profile, error) {
	payload, err := c.post(ctx, c.profileURL, nil)
	if err != nil {
		return catalog.Profile{}, err
	}
	record, ok := catalog.NormalizeProfile(payload)
	if !ok {
		return catalog.Profile{}, fmt.Errorf("tg_profile: unrecognized response shape")
	}
	return catalog.DecodeProfile(record), nil
}

// FetchPrompts retrieves the prompt list. A nil slice with a nil error is
// never returned: an unrecognized shape is an error, an empty catalog is an
// empty slice.
func (c *Client) FetchPrompts(ctx context.Context) ([]*catalog.Prompt, error) {
	payload, err := c.post(ctx, c.promptsURL, nil)
	if err != nil {
		return nil, err
	}
	list, ok := catalog.NormalizePrompts(payload)
	if !ok {
		return nil, fmt.Errorf("tg_prompts_list: unrecognized response shape")
	}
	return catalog.DecodePrompts(list), nil
}

// ToggleFavorite flips the favorite flag for a prompt on the backend and
// returns the authoritative result.
func (c *Client) ToggleFavorite(ctx context.Context, promptID int) (FavoriteResult, error) {
	payload, err := c.post(ctx, c.favoriteURL, &promptID)
	if err != nil {
		return FavoriteResult{}, err
	}
	m, ok := payload.(map[string]any)
	if !ok {
		return FavoriteResult{}, fmt.Errorf("tg_prompt_favorite: unrecognized response shape")
	}
	res := FavoriteResult{IsFavorite: boolValue(m["isFavorite"])}
	res.Favorites = intValue(m["favorites"])
	res.Copies = intValue(m["copies"])
	return res, nil
}

// TrackCopy records a prompt copy on the backend and returns the updated
// counters when the backend supplies them.
func (c *Client) TrackCopy(ctx context.Context, promptID int) (CopyResult, error) {
	payload, err := c.post(ctx, c.copyURL, &promptID)
	if err != nil {
		return CopyResult{}, err
	}
	m, ok := payload.(map[string]any)
	if !ok {
		return CopyResult{}, fmt.Errorf("tg_prompt_copy: unrecognized response shape")
	}
	return CopyResult{Copies: intValue(m["copies"]), Favorites: intValue(m["favorites"])}, nil
}

type requestBody struct {
	InitData string `json:"initData"`
	PromptID *int   `json:"promptId,omitempty"`
}

// post sends the authenticated JSON request and decodes the response body.
// Failure modes: missing session, transport error, non-2xx status (body
// text included in the error), undecodable body.
func (c *Client) post(ctx context.Context, url string, promptID *int) (any, error) {
	if !c.HasSession() {
		return nil, ErrNoSession
	}

	jsonData, err := json.Marshal(requestBody{InitData: c.initData, PromptID: promptID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.anonKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send HTTP request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("edge function returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("edge function returned non-JSON: %w", err)
	}
	return payload, nil
}

func boolValue(v any) bool {
	b, _ := v.(bool)
	return b
}

func intValue(v any) *int {
	f, ok := v.(float64)
	if !ok {
		return nil
	}
	n := int(f)
	return &n
}
