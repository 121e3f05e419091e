package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/idilsaglam/liste/internal/server"
)

func NewCmdServe(s *State) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the list service",
		Long: heredoc.Doc(`
			Serve the REST API and the websocket push feed from a sqlite database.
			REST routes require basic auth with serve.username and serve.password;
			/ws and /metrics do not.
		`),
		Example: heredoc.Doc(`
			LISTE_SERVE_PASSWORD=secret liste serve --addr 127.0.0.1:9000
		`),
		Args: maxArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := s.Config.Serve
			if c.Password == "" {
				return errors.New("serve.password is not set (use LISTE_SERVE_PASSWORD or the config file)")
			}
			log, err := s.logger(cmd, "server")
			if err != nil {
				return err
			}
			defer log.Close()

			path := expandHome(c.Database)
			if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
				return fmt.Errorf("create database dir: %w", err)
			}
			db, err := server.OpenDB(path)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer db.Close()

			srv := server.New(server.Config{
				Addr:            c.Addr,
				Username:        c.Username,
				Password:        c.Password,
				RequestTimeout:  c.RequestTimeout,
				PingTimeout:     c.PingTimeout,
				IdleTimeout:     c.IdleTimeout,
				BroadcastBuffer: c.BroadcastBuffer,
			}, db, log.Logger)
			log.Info("starting", "database", path)
			return srv.Run(cmd.Context())
		},
	}
	cmd.Flags().String("addr", "", "listen address (default from serve.addr)")
	cmd.Flags().String("db", "", "sqlite database path (default from serve.database)")
	return cmd
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, p[1:])
		}
	}
	return p
}
