package cli

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/idilsaglam/liste/internal/config"
	"github.com/idilsaglam/liste/internal/engine"
	"github.com/idilsaglam/liste/internal/logging"
	"github.com/idilsaglam/liste/internal/remote"
	"github.com/idilsaglam/liste/internal/tui"
	"github.com/idilsaglam/liste/internal/ui"
)

const feedRetry = 2 * time.Second

func NewCmdTUI(s *State) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive view (default)",
		Args:  maxArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, s)
		},
	}
}

func runTUI(cmd *cobra.Command, s *State) error {
	if !ui.IsInteractive() {
		return usagef("the interactive view needs a terminal; try `liste ls`")
	}
	// the terminal belongs to the view, so logs go to a file
	log, err := logging.New(logging.Config{
		Level:   s.Config.Log.Level,
		Format:  s.Config.Log.Format,
		File:    s.Config.Log.File,
		Service: "tui",
	})
	if err != nil {
		return err
	}
	defer log.Close()

	opts, err := s.remoteOptions()
	if err != nil {
		return err
	}
	client, err := remote.NewHTTPClient(opts)
	if err != nil {
		return err
	}
	feed, err := remote.NewFeed(opts, feedRetry, log.Logger)
	if err != nil {
		return err
	}
	eng := engine.New(client, s.engineConfig(80), log.Logger)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	// pushes missed while disconnected are not replayed
	feed.OnReconnect = func() {
		select {
		case eng.Intents() <- engine.Reload{}:
		case <-gctx.Done():
		}
	}
	themes := make(chan string, 1)
	config.Watch(s.v, func(c config.Config, err error) {
		if err != nil {
			log.Warn("config reload failed", "err", err)
			return
		}
		select {
		case themes <- c.UI.Theme:
		default:
		}
	})

	g.Go(func() error { return eng.Run(gctx) })
	g.Go(func() error { return feed.Run(gctx, eng.Events()) })

	err = tui.Run(gctx, eng, tui.Options{
		Theme:      s.Config.UI.Theme,
		CellWidth:  s.Config.Touch.CellWidth,
		CellHeight: s.Config.Touch.CellHeight,
		Themes:     themes,
		Log:        log.Logger,
	})
	cancel()
	if werr := g.Wait(); werr != nil && !errors.Is(werr, context.Canceled) {
		log.Error("background task failed", "err", werr)
		if err == nil {
			err = werr
		}
	}
	return err
}
