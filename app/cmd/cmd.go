package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bobylevd/cs-stats-dash/app/steam"
)

// CommonOpts contains information that is common for all commands.
type CommonOpts struct {
	Version string
}

// Set sets the common options.
func (c *CommonOpts) Set(cc CommonOpts) {
	c.Version = cc.Version
}

// SteamOpts configures access to the steam web api.
type SteamOpts struct {
	Key     string        `long:"key"     env:"API_KEY" description:"Steam web API key"`
	URL     string        `long:"url"     env:"API_URL" default:"https://api.steampowered.com" description:"Steam web API base URL"`
	Timeout time.Duration `long:"timeout" env:"TIMEOUT" default:"10s" description:"Steam web API request timeout"`
}

// Client makes the steam client. The client is usable without a key, its
// operations fail with a configuration error until one is set.
func (s SteamOpts) Client() *steam.Client {
	if s.Key == "" {
		log.Printf("[WARN] STEAM_API_KEY not set, steam operations will fail until configured")
	}
	return steam.New(s.URL, s.Key, s.Timeout)
}

// signalContext returns a context canceled on SIGINT or SIGTERM, with the
// signal as the cause.
func signalContext() context.Context {
	ctx, cancel := context.WithCancelCause(context.Background())
	go func() { // catch signal and invoke graceful termination
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		sig := <-stop
		log.Printf("[WARN] caught signal: %s", sig)
		cancel(fmt.Errorf("caught signal: %s", sig))
	}()
	return ctx
}
