package cli

import (
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/idilsaglam/liste/internal/engine"
	"github.com/idilsaglam/liste/internal/export"
	"github.com/idilsaglam/liste/internal/ui"
)

func NewCmdExport(s *State) *cobra.Command {
	var output, format string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a snapshot of every list as JSON or YAML",
		Long: heredoc.Doc(`
			Fetch every list and item from the service and write them out.
			The format follows the output file extension unless --format is given.
		`),
		Example: heredoc.Doc(`
			liste export > lists.json
			liste export -o lists.yaml
		`),
		Args: maxArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := export.JSON
			if output != "" {
				f = export.FormatFor(output)
			}
			if format != "" {
				var err error
				if f, err = export.ParseFormat(format); err != nil {
					return usagef("export: %v", err)
				}
			}

			svc, err := s.client()
			if err != nil {
				return err
			}
			log, err := s.logger(cmd, "cli")
			if err != nil {
				return err
			}
			defer log.Close()
			lists, err := engine.Load(cmd.Context(), svc, log.Logger)
			if err != nil {
				return err
			}
			snap := export.NewSnapshot(s.Config.Server.URL, time.Now(), lists)

			if output == "" {
				return export.Write(cmd.OutOrStdout(), snap, f)
			}
			if err := export.WriteFile(output, snap, f); err != nil {
				return err
			}
			ui.OK("exported to " + output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of stdout")
	cmd.Flags().StringVarP(&format, "format", "f", "", "json or yaml")
	return cmd
}
