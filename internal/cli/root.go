// Package cli is the liste command tree.
package cli

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/idilsaglam/liste/internal/auth"
	"github.com/idilsaglam/liste/internal/config"
	"github.com/idilsaglam/liste/internal/engine"
	"github.com/idilsaglam/liste/internal/gesture"
	"github.com/idilsaglam/liste/internal/logging"
	"github.com/idilsaglam/liste/internal/remote"
	"github.com/idilsaglam/liste/internal/ui"
)

// State is what every command shares once flags and config are read.
type State struct {
	cfgFile string
	v       *viper.Viper
	Config  config.Config
}

func NewCmdRoot(s *State) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "liste",
		Short: "Shared lists with swipe-to-delete in your terminal",
		Long: heredoc.Doc(`
			liste keeps named lists in sync with a list service.

			Without a subcommand it opens the interactive view: click an item to
			edit it, drag it sideways past a third of the width to delete it.
		`),
		Example: heredoc.Doc(`
			liste
			liste add Courses "Buy milk"
			liste ls Courses
			liste serve
		`),
		Args:          maxArgs(0),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.load(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, s)
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{msg: err.Error()}
	})

	f := cmd.PersistentFlags()
	f.StringVar(&s.cfgFile, "config", "", "config file (default is $HOME/.config/liste/config.yaml)")
	f.String("server", "", "list service URL")
	f.String("theme", "", "color theme: classic, neon or mono")
	f.String("log-level", "", "debug, info, warn or error")

	cmd.AddCommand(
		NewCmdTUI(s),
		NewCmdLs(s),
		NewCmdAdd(s),
		NewCmdEdit(s),
		NewCmdRm(s),
		NewCmdList(s),
		NewCmdExport(s),
		NewCmdAuth(s),
		NewCmdServe(s),
	)
	return cmd
}

var flagKeys = map[string]string{
	"server":    "server.url",
	"theme":     "ui.theme",
	"log-level": "log.level",
	"addr":      "serve.addr",
	"db":        "serve.database",
}

func (s *State) load(cmd *cobra.Command) error {
	v, err := config.New(s.cfgFile)
	if err != nil {
		return err
	}
	for name, key := range flagKeys {
		if fl := cmd.Flags().Lookup(name); fl != nil {
			if err := v.BindPFlag(key, fl); err != nil {
				return fmt.Errorf("bind --%s: %w", name, err)
			}
		}
	}
	c, err := config.Decode(v)
	if err != nil {
		return err
	}
	s.v, s.Config = v, c

	ui.SetOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())
	ui.SetTheme(c.UI.Theme)
	return nil
}

// logger builds a stderr logger for one-shot commands.
func (s *State) logger(cmd *cobra.Command, service string) (*logging.Logger, error) {
	return logging.New(logging.Config{
		Level:   s.Config.Log.Level,
		Format:  s.Config.Log.Format,
		Service: service,
		Stderr:  cmd.ErrOrStderr(),
	})
}

func (s *State) remoteOptions() (remote.Options, error) {
	user, pass, err := auth.Resolve(s.Config.Server.Username, s.Config.Server.Password)
	if err != nil {
		return remote.Options{}, err
	}
	return remote.Options{
		BaseURL:  s.Config.Server.URL,
		Username: user,
		Password: pass,
		Timeout:  s.Config.Server.Timeout,
	}, nil
}

func (s *State) client() (*remote.HTTPClient, error) {
	opts, err := s.remoteOptions()
	if err != nil {
		return nil, err
	}
	return remote.NewHTTPClient(opts)
}

func (s *State) engineConfig(columns int) engine.Config {
	g := s.Config.Gesture
	return engine.Config{
		Gesture: gesture.Config{
			LockThreshold: g.LockThreshold,
			TapThreshold:  g.TapThreshold,
			CommitRatio:   g.CommitRatio,
			SnapBack:      g.SnapBack,
			Settle:        g.Settle,
		},
		Frame:      g.Frame,
		Width:      float64(columns) * s.Config.Touch.CellWidth,
		ItemHeight: s.Config.Touch.CellHeight,
	}
}
