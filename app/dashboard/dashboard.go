// Package dashboard loads everything the dashboard shows for an identifier.
package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/bobylevd/cs-stats-dash/app/state"
	"github.com/bobylevd/cs-stats-dash/app/steam"
)

// Steam is the subset of the steam client the dashboard uses.
type Steam interface {
	ResolveIdentifier(ctx context.Context, ident string) (string, error)
	PlayerSummary(ctx context.Context, steamID string) (steam.PlayerSummary, error)
	OwnedGames(ctx context.Context, steamID string) (steam.OwnedGames, error)
	CS2Stats(ctx context.Context, steamID string) (steam.CS2Stats, error)
	News(ctx context.Context, appID, count int) (json.RawMessage, error)
}

// Service fills the owner state from Steam.
type Service struct {
	Steam     Steam
	NewsCount int
}

// Load resolves the identifier, empty means the one already in the state,
// and fetches profile, games, CS2 stats and CS2 news into the state.
// Only a failure to resolve the identifier or to get the profile fails the
// load; the rest is shown as missing. The identifier is persisted after a
// successful load only.
func (s *Service) Load(ctx context.Context, app *state.App, ident string) error {
	if ident == "" {
		ident = app.SteamID()
	}
	if ident == "" {
		return steam.Invalid("steam id or vanity name required")
	}

	app.SetLoading(true)
	defer app.SetLoading(false)

	steamID, err := s.Steam.ResolveIdentifier(ctx, ident)
	if err != nil {
		return fmt.Errorf("resolve %q: %w", ident, err)
	}

	app.UseSteamID(steamID)

	ewg, gctx := errgroup.WithContext(ctx)
	ewg.Go(func() error {
		p, err := s.Steam.PlayerSummary(gctx, steamID)
		if err != nil {
			return fmt.Errorf("player summary: %w", err)
		}
		app.SetProfile(&p)
		return nil
	})
	ewg.Go(func() error {
		games, err := s.Steam.OwnedGames(gctx, steamID)
		if err != nil {
			log.Printf("[WARN] failed to get owned games of %s: %v", steamID, err)
		}
		app.SetGames(games.Games)
		return nil
	})
	ewg.Go(func() error {
		st, err := s.Steam.CS2Stats(gctx, steamID)
		if err != nil {
			log.Printf("[INFO] no CS2 stats for %s: %v", steamID, err)
			app.SetStats(nil, err.Error())
			return nil
		}
		app.SetStats(&st, "")
		return nil
	})
	ewg.Go(func() error {
		news, err := s.Steam.News(gctx, steam.CS2AppID, s.NewsCount)
		if err != nil {
			log.Printf("[WARN] failed to get CS2 news: %v", err)
		}
		app.SetNews(news)
		return nil
	})

	if err := ewg.Wait(); err != nil {
		return err
	}

	// the identifier is kept only once it turned out to be a real player
	if err := app.Save(ctx); err != nil {
		log.Printf("[WARN] failed to persist steam id of %s: %v", app.Owner(), err)
	}
	return nil
}
