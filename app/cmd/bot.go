package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/bobylevd/cs-stats-dash/app/dashboard"
	"github.com/bobylevd/cs-stats-dash/app/event"
	"github.com/bobylevd/cs-stats-dash/app/steam"
	"github.com/bobylevd/cs-stats-dash/app/store"
)

// Bot is a command to run discord bot.
type Bot struct {
	Token         string    `long:"token" env:"TOKEN"    description:"Discord bot token"`
	StoreLocation string    `long:"loc"   env:"LOCATION" default:"dash.db" description:"Store location"`
	Steam         SteamOpts `group:"steam" namespace:"steam" env-namespace:"STEAM"`

	CommonOpts
}

// Execute runs the command.
func (b *Bot) Execute([]string) error {
	s, err := store.New(b.StoreLocation)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer func() {
		if err := s.Close(); err != nil {
			log.Printf("[WARN] failed to close store: %v", err)
		}
	}()

	disc := &event.Discord{
		Token:     b.Token,
		Dashboard: &dashboard.Service{Steam: b.Steam.Client(), NewsCount: steam.DefaultNewsCount},
		Store:     s,
	}

	ewg, ctx := errgroup.WithContext(signalContext())
	ewg.Go(func() error {
		log.Printf("[INFO] starting bot %s", b.Version)
		return disc.Run(ctx)
	})
	ewg.Go(func() error {
		<-ctx.Done()
		log.Printf("[INFO] stopping bot")
		return nil
	})

	if err := ewg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	return nil
}
