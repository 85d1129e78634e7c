package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/bobylevd/cs-stats-dash/app/dashboard"
	"github.com/bobylevd/cs-stats-dash/app/proxy"
	"github.com/bobylevd/cs-stats-dash/app/steam"
	"github.com/bobylevd/cs-stats-dash/app/store"
)

// Server is a command to run the dashboard API.
type Server struct {
	Listen        string    `long:"listen"      env:"LISTEN"      default:":3001"   description:"Address to listen on"`
	StoreLocation string    `long:"loc"         env:"LOCATION"    default:"dash.db" description:"Store location"`
	CORSOrigin    string    `long:"cors-origin" env:"CORS_ORIGIN" default:"*"       description:"Allowed CORS origin, empty disables CORS headers"`
	Steam         SteamOpts `group:"steam" namespace:"steam" env-namespace:"STEAM"`

	CommonOpts
}

// Execute runs the command.
func (c *Server) Execute([]string) error {
	s, err := store.New(c.StoreLocation)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer func() {
		if err := s.Close(); err != nil {
			log.Printf("[WARN] failed to close store: %v", err)
		}
	}()

	client := c.Steam.Client()
	srv := &proxy.Server{
		Steam:      client,
		Dashboard:  &dashboard.Service{Steam: client, NewsCount: steam.DefaultNewsCount},
		Store:      s,
		CORSOrigin: c.CORSOrigin,
		Version:    c.Version,
	}

	ewg, ctx := errgroup.WithContext(signalContext())
	ewg.Go(func() error {
		log.Printf("[INFO] starting server %s", c.Version)
		return srv.Run(ctx, c.Listen)
	})
	ewg.Go(func() error {
		<-ctx.Done()
		log.Printf("[INFO] stopping server")
		return nil
	})

	if err := ewg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	return nil
}
