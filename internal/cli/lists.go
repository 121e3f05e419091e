package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/liste/internal/ui"
)

func NewCmdList(s *State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"lists"},
		Short:   "Create, rename and remove lists",
	}
	cmd.AddCommand(newCmdListNew(s), newCmdListRename(s), newCmdListRm(s))
	return cmd
}

func newCmdListNew(s *State) *cobra.Command {
	return &cobra.Command{
		Use:   "new <name...>",
		Short: "Create a list",
		Args:  minArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := text("list new", args)
			if err != nil {
				return err
			}
			svc, err := s.client()
			if err != nil {
				return err
			}
			l, err := svc.CreateList(cmd.Context(), name)
			if err != nil {
				return err
			}
			ui.OK(fmt.Sprintf("created list %s (#%d)", l.Name, l.ID))
			return nil
		},
	}
}

func newCmdListRename(s *State) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <list> <name...>",
		Short: "Rename a list",
		Args:  minArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := text("list rename", args[1:])
			if err != nil {
				return err
			}
			svc, err := s.client()
			if err != nil {
				return err
			}
			l, err := lookupList(cmd.Context(), svc, args[0])
			if err != nil {
				return err
			}
			if err := svc.RenameList(cmd.Context(), l.ID, name); err != nil {
				return err
			}
			ui.OK(fmt.Sprintf("renamed %s to %s", l.Name, name))
			return nil
		},
	}
}

func newCmdListRm(s *State) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <list>",
		Short: "Remove a list and its items",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := s.client()
			if err != nil {
				return err
			}
			l, err := lookupList(cmd.Context(), svc, args[0])
			if err != nil {
				return err
			}
			if err := svc.DeleteList(cmd.Context(), l.ID); err != nil {
				return err
			}
			ui.OK("removed list " + l.Name)
			return nil
		},
	}
}
