// Package state keeps the dashboard state of a single owner: the active
// identifier, the theme and the data fetched for the identifier.
package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/bobylevd/cs-stats-dash/app/insight"
	"github.com/bobylevd/cs-stats-dash/app/steam"
	"github.com/bobylevd/cs-stats-dash/app/store"
)

// Persister loads and saves owner preferences.
type Persister interface {
	Get(ctx context.Context, owner string) (store.Preferences, error)
	Upsert(ctx context.Context, p store.Preferences) error
}

// App is the state of one owner. Only the steam id and the theme are
// persisted, the rest lives as long as the App.
type App struct {
	owner   string
	persist Persister

	mu         sync.RWMutex
	steamID    string
	theme      store.Theme
	profile    *steam.PlayerSummary
	games      []steam.Game
	stats      *steam.CS2Stats
	insights   *insight.Record
	statsError string
	news       json.RawMessage
	loading    bool
}

// Snapshot is a copy of the state, safe to render.
type Snapshot struct {
	Owner      string               `json:"owner"`
	SteamID    string               `json:"steamId"`
	Theme      store.Theme          `json:"theme"`
	Profile    *steam.PlayerSummary `json:"profile"`
	Games      []steam.Game         `json:"games"`
	Stats      *steam.CS2Stats      `json:"cs2Stats"`
	Insights   *insight.Record      `json:"insights"`
	StatsError string               `json:"statsError,omitempty"`
	News       json.RawMessage      `json:"news"`
	Loading    bool                 `json:"loading"`
}

// New makes an empty state for the owner, persist may be nil.
func New(owner string, persist Persister) *App {
	return &App{owner: owner, persist: persist, theme: store.ThemeDark}
}

// Owner returns the owner of the state.
func (a *App) Owner() string { return a.owner }

// Load restores the persisted preferences of the owner. Missing
// preferences are not an error.
func (a *App) Load(ctx context.Context) error {
	if a.persist == nil {
		return nil
	}

	p, err := a.persist.Get(ctx, a.owner)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load preferences of %s: %w", a.owner, err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.steamID = p.SteamID
	if p.Theme.Valid() {
		a.theme = p.Theme
	}
	return nil
}

// SteamID returns the active identifier.
func (a *App) SteamID() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.steamID
}

// Theme returns the active theme.
func (a *App) Theme() store.Theme {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.theme
}

// SetSteamID switches the active identifier and persists it. Data fetched
// for the previous identifier is dropped.
func (a *App) SetSteamID(ctx context.Context, id string) error {
	a.UseSteamID(id)
	return a.Save(ctx)
}

// UseSteamID switches the active identifier without persisting it. Data
// fetched for the previous identifier is dropped.
func (a *App) UseSteamID(id string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.steamID != id {
		a.profile, a.games, a.stats, a.insights, a.statsError, a.news = nil, nil, nil, nil, "", nil
	}
	a.steamID = id
}

// SetTheme sets and persists the theme.
func (a *App) SetTheme(ctx context.Context, t store.Theme) error {
	if !t.Valid() {
		return fmt.Errorf("unknown theme %q", t)
	}

	a.mu.Lock()
	a.theme = t
	a.mu.Unlock()

	return a.Save(ctx)
}

// ToggleTheme flips between the dark and the light theme.
func (a *App) ToggleTheme(ctx context.Context) (store.Theme, error) {
	next := store.ThemeLight
	if a.Theme() == store.ThemeLight {
		next = store.ThemeDark
	}
	return next, a.SetTheme(ctx, next)
}

// Save persists the identifier and the theme.
func (a *App) Save(ctx context.Context) error {
	if a.persist == nil {
		return nil
	}

	a.mu.RLock()
	p := store.Preferences{Owner: a.owner, SteamID: a.steamID, Theme: a.theme}
	a.mu.RUnlock()

	if err := a.persist.Upsert(ctx, p); err != nil {
		return fmt.Errorf("save preferences of %s: %w", a.owner, err)
	}
	return nil
}

// SetProfile sets the player profile.
func (a *App) SetProfile(p *steam.PlayerSummary) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.profile = p
}

// SetGames sets the owned games.
func (a *App) SetGames(games []steam.Game) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.games = games
}

// SetStats sets the CS2 statistics and recomputes the insights.
// A nil stats clears both, reason tells why the stats are missing.
func (a *App) SetStats(st *steam.CS2Stats, reason string) {
	var rec *insight.Record
	if st != nil {
		rec = insight.Compute(&st.PlayerStats)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.stats, a.insights, a.statsError = st, rec, reason
}

// SetNews sets the news envelope.
func (a *App) SetNews(news json.RawMessage) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.news = news
}

// SetLoading marks the state as being loaded.
func (a *App) SetLoading(v bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.loading = v
}

// Insights returns the insights of the current stats, nil without stats.
func (a *App) Insights() *insight.Record {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.insights
}

// Snapshot returns a copy of the state.
func (a *App) Snapshot() Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()

	s := Snapshot{
		Owner:      a.owner,
		SteamID:    a.steamID,
		Theme:      a.theme,
		Profile:    a.profile,
		Stats:      a.stats,
		Insights:   a.insights,
		StatsError: a.statsError,
		News:       a.news,
		Loading:    a.loading,
	}
	if a.games != nil {
		s.Games = append([]steam.Game(nil), a.games...)
	}
	return s
}
