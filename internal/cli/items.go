package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/idilsaglam/liste/internal/engine"
	"github.com/idilsaglam/liste/internal/model"
	"github.com/idilsaglam/liste/internal/remote"
	"github.com/idilsaglam/liste/internal/ui"
)

func NewCmdLs(s *State) *cobra.Command {
	return &cobra.Command{
		Use:   "ls [list]",
		Short: "Show lists and their items",
		Long: heredoc.Doc(`
			Show every list with its items, or only the list named by id or name.
			Item ids are the ones edit and rm expect.
		`),
		Args: maxArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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
			if len(args) == 1 {
				l, err := findList(lists, args[0])
				if err != nil {
					return err
				}
				lists = []model.List{l}
			}
			ui.Panel(listLines(lists))
			return nil
		},
	}
}

func NewCmdAdd(s *State) *cobra.Command {
	return &cobra.Command{
		Use:     "add <list> <content...>",
		Short:   "Add an item to a list",
		Example: `  liste add Courses "Buy milk"`,
		Args:    minArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := text("add", args[1:])
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
			it, err := svc.CreateItem(cmd.Context(), l.ID, content)
			if err != nil {
				return err
			}
			ui.OK(fmt.Sprintf("added #%d to %s", it.ID, l.Name))
			return nil
		},
	}
}

func NewCmdEdit(s *State) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <item-id> <content...>",
		Short: "Replace the text of an item",
		Args:  minArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("edit", args[0])
			if err != nil {
				return err
			}
			content, err := text("edit", args[1:])
			if err != nil {
				return err
			}
			svc, err := s.client()
			if err != nil {
				return err
			}
			if err := svc.EditItem(cmd.Context(), id, content); err != nil {
				return err
			}
			ui.OK(fmt.Sprintf("edited #%d", id))
			return nil
		},
	}
}

func NewCmdRm(s *State) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <item-id>",
		Short: "Remove an item",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("rm", args[0])
			if err != nil {
				return err
			}
			svc, err := s.client()
			if err != nil {
				return err
			}
			if err := svc.DeleteItem(cmd.Context(), id); err != nil {
				return err
			}
			ui.OK(fmt.Sprintf("removed #%d", id))
			return nil
		},
	}
}

// lookupList resolves a list given by id or by name.
func lookupList(ctx context.Context, svc remote.Service, ref string) (model.List, error) {
	lists, err := svc.Lists(ctx)
	if err != nil {
		return model.List{}, err
	}
	return findList(lists, ref)
}

func findList(lists []model.List, ref string) (model.List, error) {
	if id, err := model.ParseID(ref); err == nil {
		for _, l := range lists {
			if l.ID == id {
				return l, nil
			}
		}
	}
	var folded []model.List
	for _, l := range lists {
		if l.Name == ref {
			return l, nil
		}
		if strings.EqualFold(l.Name, ref) {
			folded = append(folded, l)
		}
	}
	if len(folded) == 1 {
		return folded[0], nil
	}
	return model.List{}, fmt.Errorf("no list %q", ref)
}

// -------------- rendering helpers --------------

func listLines(lists []model.List) []string {
	t := ui.Current()
	if len(lists) == 0 {
		return []string{
			ui.C(t.Muted, "no lists"),
			"",
			ui.C(t.Muted, "Tip: create one with `liste list new Courses`"),
		}
	}
	var lines []string
	for i, l := range lists {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, fmt.Sprintf("%s  %s  %s",
			ui.C(t.Title, l.Name),
			ui.C(t.Muted, fmt.Sprintf("#%d", l.ID)),
			ui.C(t.Accent, countItems(len(l.Items))),
		))
		if len(l.Items) == 0 {
			lines = append(lines, ui.C(t.Muted, "  (empty)"))
			continue
		}
		for _, it := range l.Items {
			lines = append(lines, fmt.Sprintf("  %s %s %s",
				ui.C(t.Muted, fmt.Sprintf("%4s", "#"+it.ID.String())),
				t.Bullet,
				ui.Truncate(it.Content, 80),
			))
		}
	}
	return lines
}

func countItems(n int) string {
	if n == 1 {
		return "1 item"
	}
	return fmt.Sprintf("%d items", n)
}
